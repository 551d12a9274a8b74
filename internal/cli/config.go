package cli

import (
	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration. Flags override the environment.
type Config struct {
	ServerURL string `env:"FREESTREET_SERVER" envDefault:"http://localhost:8080"`
	Token     string `env:"FREESTREET_TOKEN"`
	Output    string `env:"FREESTREET_OUTPUT" envDefault:"text"`
	Verbose   bool   `env:"FREESTREET_VERBOSE"`
}

// LoadConfig reads the CLI configuration from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
