// Package validation checks configuration and API input.
//
// Struct tags are evaluated by go-playground/validator. Checks that tags
// cannot express are collected with the programmatic Validator:
//
//	v := validation.New()
//	v.Required("newsapi.api_key", cfg.APIKey).
//		Custom(cfg.Debounce > 0, "search.debounce", "must be positive")
//	if err := v.Validate(); err != nil { ... }
package validation
