// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (if present) and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/twofactor/core/config"
//
//	var tf twofactor.Config
//	if err := config.Load(&tf); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	var rdb redis.Config
//	config.MustLoad(&rdb)
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 twofactor.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 twofactor.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Call Reset to drop the cache, e.g. between tests that change the environment.
package config
