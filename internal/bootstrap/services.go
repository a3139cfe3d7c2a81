package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/convo-eval/config"
	"github.com/target/convo-eval/internal/adapters/llm"
	"github.com/target/convo-eval/internal/adapters/scorecache"
	"github.com/target/convo-eval/internal/core"
	"github.com/target/convo-eval/internal/data"
	"github.com/target/convo-eval/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Registry *service.JobRegistry
	Runner   *service.EvaluationRunner
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient // Optional: enables the score cache
	Logger      *slog.Logger
}

// NewServices wires repositories, the scorer, and the runner together.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	loader := &data.FileMetricsLoader{
		Path:   cfg.Evaluation.MetricsConfigPath,
		Logger: logger,
	}
	metrics := loader.Load()
	logger.Info("metrics loaded",
		"path", cfg.Evaluation.MetricsConfigPath,
		"count", len(metrics),
	)

	registry := service.NewJobRegistry(service.JobRegistryOptions{Logger: logger})

	sink, err := service.NewResultBuffer(service.ResultBufferOptions{
		Store:  data.NewResultRepo(deps.DB),
		Size:   cfg.Evaluation.BufferSize,
		Logger: logger,
	})
	if err != nil {
		// Store is non-nil above, so this cannot happen.
		panic(err)
	}

	runner := service.MustNewEvaluationRunner(service.EvaluationRunnerOptions{
		Registry:      registry,
		Source:        data.NewConversationRepo(deps.DB, logger),
		Scorer:        buildScorer(deps, logger),
		Sink:          sink,
		Metrics:       metrics,
		MaxConcurrent: cfg.Evaluation.MaxConcurrent,
		Logger:        logger,
	})

	return ServiceContainer{
		Registry: registry,
		Runner:   runner,
	}
}

// buildScorer selects the gateway client when an API key is configured and
// the mock scorer otherwise, then layers the Redis score cache on top when
// Redis is available.
//
//nolint:ireturn // the scorer is consumed through the core.Scorer port.
func buildScorer(deps *ServiceDeps, logger *slog.Logger) core.Scorer {
	var scorer core.Scorer

	if deps.Config.LLM.APIKey != "" {
		client, err := llm.NewClient(llm.ClientOptions{
			APIKey:  deps.Config.LLM.APIKey,
			Model:   deps.Config.LLM.Model,
			BaseURL: deps.Config.LLM.BaseURL,
		})
		if err != nil {
			logger.Error("llm client init failed, falling back to mock scorer", "error", err)
			scorer = llm.MockScorer{}
		} else {
			scorer = client
		}
	} else {
		logger.Info("no LLM API key configured, using mock scorer")
		scorer = llm.MockScorer{}
	}

	if deps.RedisClient != nil {
		cached, err := scorecache.New(scorecache.Options{
			Inner:  scorer,
			Client: deps.RedisClient,
			TTL:    deps.Config.Redis.ScoreCacheTTL,
			Logger: logger,
		})
		if err != nil {
			logger.Error("score cache init failed, scoring uncached", "error", err)
		} else {
			scorer = cached
		}
	}

	return scorer
}
