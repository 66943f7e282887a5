package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL bounds the lifetime of issued JWTs.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	// ProfileCacheTTL bounds staleness of the public-profile cache.
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL, default=5m"`

	// ActivityWorkers sizes the async activity dispatcher pool.
	ActivityWorkers int `env:"ACTIVITY_WORKERS, default=4"`

	// BootstrapOwnerID, when set, is granted platform-owner privilege at
	// startup. This is the only path to the first admin account.
	BootstrapOwnerID string `env:"BOOTSTRAP_OWNER_ID"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pet_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(log zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	return &cfg
}
