// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers a small factory with environment presets and a set of nil-safe attribute
// helpers for the fields the two-factor engine logs.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/twofactor/core/logger"
//
//	log := logger.New(
//		logger.WithProduction("auth"),
//	)
//
//	log.Info("Second factor verified",
//		logger.Component("twofactor"),
//		logger.OwnerID(ownerID),
//		logger.Method("totp"),
//		logger.Result("verified"),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	devLogger := logger.New(logger.WithDevelopment("auth"))
//
//	// Production: JSON format, info level, stdout
//	prodLogger := logger.New(logger.WithProduction("auth"))
//
//	// Staging: JSON format, info level, stdout
//	stageLogger := logger.New(logger.WithStaging("auth"))
//
// # Nil Safety
//
// Helpers such as Error, OwnerID and Reason return an empty slog.Attr for zero
// input. slog drops empty attributes, so they can be passed unconditionally:
//
//	log.Warn("Backup code rejected", logger.Error(err), logger.Reason(reason))
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithOutput(&buf),
//	)
//
// Components that accept a logger default to Nop, which discards everything.
package logger
