// Package logger provides structured logging for newsfeed using zerolog.
//
// Loggers are scoped per component and carry structured fields passed as
// maps:
//
//	log := logger.WithComponent("newsapi")
//	log.Info("fetched articles", logger.Fields("count", 20, "kind", "keyword_search"))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
package logger
