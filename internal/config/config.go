package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
)

type Config struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	ServerAddr    string `env:"SERVER_ADDR" envDefault:":4000"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	JWTTTLMinutes int    `env:"JWT_TTL_MINUTES" envDefault:"1440"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	Env           string `env:"ENV" envDefault:"development"`
	MigrationsURL string `env:"MIGRATIONS_URL" envDefault:"file://migrations"`
}

// Load reads the configuration from the environment. A local .env file,
// if one exists, is loaded first so development machines don't have to
// export everything by hand.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, xerrors.Newf("loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, xerrors.Newf("parsing environment: %w", err)
	}

	return cfg, nil
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
