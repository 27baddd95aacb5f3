package config

import (
	"fmt"

	"github.com/kbukum/newsfeed/newsapi"
	"github.com/kbukum/newsfeed/observability"
	"github.com/kbukum/newsfeed/search"
	"github.com/kbukum/newsfeed/server"
	"github.com/kbukum/newsfeed/util"
)

// Config is the full newsfeed configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	NewsAPI       newsapi.Config       `yaml:"newsapi" mapstructure:"newsapi"`
	Search        search.Config        `yaml:"search" mapstructure:"search"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.NewsAPI.ApplyDefaults()
	c.Search.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and names the first one that fails.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	sections := []struct {
		name     string
		validate func() error
	}{
		{"newsapi", c.NewsAPI.Validate},
		{"search", c.Search.Validate},
		{"server", c.Server.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("config.%s: %w", s.name, err)
		}
	}
	return nil
}

// Redacted returns a copy that is safe to print.
func (c Config) Redacted() Config {
	if c.NewsAPI.APIKey != "" {
		c.NewsAPI.APIKey = util.MaskSecret(c.NewsAPI.APIKey, 4)
	}
	return c
}
