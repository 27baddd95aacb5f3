// Package config loads the newsfeed configuration.
//
// Sources, lowest precedence first:
//
//   - a YAML file: the explicit path, else ./config.yml, ./config/config.yml
//     or ./cmd/newsfeed/config.yml
//   - a .env file (variables already in the environment win)
//   - environment variables, unprefixed or with the NEWSFEED_ prefix
//
// Environment names map onto keys by treating each underscore as either a
// level separator or part of a name, so NEWSFEED_NEWSAPI_API_KEY sets
// newsapi.api_key and SEARCH_DEBOUNCE sets search.debounce.
//
//	cfg, err := config.Load(config.WithConfigFile("config.yml"))
package config
