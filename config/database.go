package config

import "time"

// DBConfig contains PostgreSQL connection configuration.
type DBConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"convo_eval"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"convo_eval"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`

	// RunMigrationsOnStart creates the evaluation result table on startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the optional score cache.
// An empty Addr disables the cache entirely.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`

	// ScoreCacheTTL is how long memoized scoring output is retained.
	ScoreCacheTTL time.Duration `env:"SCORE_CACHE_TTL" envDefault:"168h"`
}
