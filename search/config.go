package search

import (
	"time"

	"github.com/kbukum/newsfeed/validation"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	defaultIndexTTL = 30 * time.Minute
)

// Config configures the search view model.
type Config struct {
	// Debounce is the quiet period a text value must survive before it is
	// turned into a request.
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce" validate:"gt=0"`
	// Headlines is the initial scope of keyword searches: top headlines
	// when true, the business category otherwise.
	Headlines bool `yaml:"headlines" mapstructure:"headlines"`
	// LoadOnStart loads the top headlines when the component starts.
	LoadOnStart bool `yaml:"load_on_start" mapstructure:"load_on_start"`
	// IndexTTL is how long published articles stay addressable by ID.
	IndexTTL time.Duration `yaml:"index_ttl" mapstructure:"index_ttl" validate:"gt=0"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.IndexTTL <= 0 {
		c.IndexTTL = defaultIndexTTL
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Struct(c)
}
