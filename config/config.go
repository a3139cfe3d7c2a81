// Package config defines the environment-backed configuration for the
// convo-eval service.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See the individual domain config files
// for available variables:
//   - database.go: Postgres and Redis configuration
//   - http.go: HTTP server configuration
//   - evaluation.go: evaluation runner and LLM gateway configuration
package config

// AppConfig is the main application configuration struct composing
// domain-specific configuration from separate files.
type AppConfig struct {
	// IsDev controls development-mode behavior (mock scorer selection when no
	// API key is set, plain-text logs, etc.). Set DEV=true for development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Evaluation runner configuration
	Evaluation EvaluationConfig

	// LLM gateway configuration
	LLM LLMConfig `envPrefix:"LLM_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Evaluation.Sanitize()
}
