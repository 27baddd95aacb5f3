package newsapi

import (
	"time"

	"github.com/kbukum/newsfeed/httpclient"
	"github.com/kbukum/newsfeed/resilience"
	"github.com/kbukum/newsfeed/security"
	"github.com/kbukum/newsfeed/validation"
	"github.com/kbukum/newsfeed/version"
)

// ServiceName identifies the news API in logs, errors and health checks.
const ServiceName = "newsapi"

const (
	DefaultBaseURL  = "https://newsapi.org/v2"
	DefaultSources  = "techcrunch"
	DefaultCategory = "business"
	defaultTimeout  = 10 * time.Second
)

// Config configures the news API client.
type Config struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	// APIKey is sent as the apiKey query parameter. A missing key fails
	// every fetch with an invalid request error before any I/O.
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Sources  string `yaml:"sources" mapstructure:"sources" validate:"required"`
	Category string `yaml:"category" mapstructure:"category" validate:"required"`
	// Country narrows the business category when set.
	Country   string        `yaml:"country" mapstructure:"country" validate:"omitempty,len=2"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`

	RateLimit      resilience.RateLimiterConfig    `yaml:"rate_limit" mapstructure:"rate_limit"`
	CircuitBreaker resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	TLS            security.TLSConfig              `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Sources == "" {
		c.Sources = DefaultSources
	}
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent("newsfeed")
	}
	if c.CircuitBreaker.MaxFailures <= 0 {
		c.CircuitBreaker.MaxFailures = 5
	}
	if c.CircuitBreaker.Timeout <= 0 {
		c.CircuitBreaker.Timeout = 30 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return c.TLS.Validate()
}

// HTTPConfig returns the transport configuration for the news API adapter.
func (c Config) HTTPConfig() httpclient.Config {
	return httpclient.Config{
		Name:           ServiceName,
		BaseURL:        c.BaseURL,
		Timeout:        c.Timeout,
		UserAgent:      c.UserAgent,
		CircuitBreaker: c.CircuitBreaker,
		RateLimiter:    c.RateLimit,
		TLS:            &c.TLS,
	}
}
