package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseDSN     string `envconfig:"DB_DSN" required:"true"`
	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin    int    `envconfig:"JWT_EXPIRE_MIN" default:"43200"` // 30 days
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	MigrationsDir   string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	Environment     string `envconfig:"ENV" default:"development"`
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}

	return &cfg, nil
}
