// Package config provides typed access to loosely-structured settings.
//
// Config wraps a map[string]any, typically decoded from a YAML or JSON
// file, and extracts values with per-key defaults:
//
//	cfg, err := config.FromFile("sugarch.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	interval := cfg.Duration("poll_interval", 100*time.Millisecond)
//	version := cfg.String("version", "R114")
//
// Accessors never fail: a missing key or a value of the wrong type
// yields the caller's default.
//
// FromEnv fills a tagged settings struct from environment variables,
// for deployments that configure through the process environment
// instead of a file:
//
//	var s chatfeed.Settings
//	if err := config.FromEnv("SUGARCH_", &s); err != nil {
//	    log.Fatal(err)
//	}
package config
