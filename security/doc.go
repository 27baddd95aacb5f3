// Package security builds client TLS settings for upstream connections.
//
//	cfg := security.TLSConfig{CAFile: "/etc/newsfeed/proxy-ca.pem"}
//	tlsConfig, err := cfg.Build()
package security
