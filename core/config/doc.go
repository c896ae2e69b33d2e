// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use and
// uses the caarlos0/env library for parsing environment variables into struct
// fields. Values already present in the process environment win over .env.
//
// Basic usage:
//
//	import "github.com/promomark/website/core/config"
//
//	type SMTPConfig struct {
//		Host string `env:"SMTP_HOST"`
//		Port int    `env:"SMTP_PORT" envDefault:"25"`
//	}
//
//	func main() {
//		var cfg SMTPConfig
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is parsed only once per process. Later calls with
// the same type copy the cached value into the destination, so configuration
// is effectively immutable after the first load.
package config
