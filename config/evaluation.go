package config

// EvaluationConfig contains evaluation runner configuration.
type EvaluationConfig struct {
	// MetricsConfigPath is the JSON file holding the metric definitions.
	MetricsConfigPath string `env:"METRICS_CONFIG_PATH" envDefault:"configs/metrics.json"`

	// MaxConcurrent bounds in-flight scoring calls per job.
	MaxConcurrent int `env:"EVALUATION_MAX_CONCURRENT" envDefault:"50"`

	// BufferSize is the buffered sink's flush threshold.
	BufferSize int `env:"EVALUATION_BUFFER_SIZE" envDefault:"50"`

	// DefaultLookbackDays is the conversation window used when a request
	// omits last_x_days. -1 means all time.
	DefaultLookbackDays int `env:"EVALUATION_DEFAULT_LOOKBACK_DAYS" envDefault:"7"`
}

// Sanitize applies guardrails to evaluation configuration values.
func (e *EvaluationConfig) Sanitize() {
	if e.MaxConcurrent < 1 {
		e.MaxConcurrent = 50
	}
	if e.BufferSize < 1 {
		e.BufferSize = 50
	}
	if e.DefaultLookbackDays < -1 {
		e.DefaultLookbackDays = 7
	}
}

// LLMConfig contains scoring gateway configuration. An empty APIKey selects
// the mock scorer.
type LLMConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"`
}
