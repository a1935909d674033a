package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Recon Battery Warehouse"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pos"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Tax struct {
		// Sales tax as a percentage, e.g. 7.625 for 7.625%. This is only
		// the startup value; the rate is adjustable at runtime through
		// the settings surface.
		RatePercent string `envconfig:"TAX_RATE_PERCENT" default:"7.625"`
	}

	Auth struct {
		// HS256 secret for the management API. Empty disables auth
		// (local single-operator setups).
		Secret string `envconfig:"AUTH_SECRET"`
	}

	Receipt struct {
		SpoolDir string `envconfig:"RECEIPT_SPOOL_DIR" default:"./receipts"`
	}

	Catalog struct {
		// Seed the sample product list when the catalog is empty.
		Seed bool `envconfig:"SEED_PRODUCTS" default:"true"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
