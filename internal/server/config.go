package server

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds server settings. Every field can be set from the environment.
type Config struct {
	Addr            string        `env:"SPAMLENS_ADDR,default=127.0.0.1:8080"`
	ModelPath       string        `env:"SPAMLENS_MODEL"`
	TopK            int           `env:"SPAMLENS_TOP_K,default=5"`
	MaxBodyBytes    int64         `env:"SPAMLENS_MAX_BODY_BYTES,default=65536"`
	ReadTimeout     time.Duration `env:"SPAMLENS_READ_TIMEOUT,default=10s"`
	WriteTimeout    time.Duration `env:"SPAMLENS_WRITE_TIMEOUT,default=10s"`
	ShutdownTimeout time.Duration `env:"SPAMLENS_SHUTDOWN_TIMEOUT,default=5s"`
}

// LoadConfig reads Config from the environment, after loading envFile into
// the environment when it is non-empty. Variables already set win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if cfg.TopK < 0 {
		return Config{}, fmt.Errorf("config error: SPAMLENS_TOP_K must be >= 0, got %d", cfg.TopK)
	}
	return cfg, nil
}
