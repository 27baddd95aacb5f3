package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	AllowedOrigins   []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string      `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	AllowCredentials bool          `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	MaxAge           time.Duration `yaml:"max_age" mapstructure:"max_age"`
}

// CORS returns a Gin middleware built from cfg. No origins or a "*" origin
// allows every origin.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	c := cors.DefaultConfig()
	if len(cfg.AllowedMethods) > 0 {
		c.AllowMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		c.AllowHeaders = append([]string{}, cfg.AllowedHeaders...)
	}
	c.AddAllowHeaders(HeaderRequestID)
	c.ExposeHeaders = []string{HeaderRequestID}
	c.AllowCredentials = cfg.AllowCredentials
	if cfg.MaxAge > 0 {
		c.MaxAge = cfg.MaxAge
	}
	switch {
	case !allowsAll(cfg.AllowedOrigins):
		c.AllowOrigins = cfg.AllowedOrigins
	case cfg.AllowCredentials:
		// Credentials require the request origin echoed back, not "*".
		c.AllowOriginFunc = func(string) bool { return true }
	default:
		c.AllowAllOrigins = true
	}
	return cors.New(c)
}

func allowsAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
