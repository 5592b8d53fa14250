// Package config provides configuration management for the port scanner.
//
// This package implements hierarchical configuration loading using Viper,
// supporting multiple configuration sources with the following precedence
// (highest to lowest):
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (SYNPROBE_*)
//  3. Configuration file (~/.synprobe.yaml)
//  4. Default values (lowest priority)
//
// Example configuration file (~/.synprobe.yaml):
//
//	rate: 1000
//	timeout_ms: 200
//	ports: "1-1024"
//	scans: "syn,udp"
//	output: table
//	theme: dracula
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	delay := cfg.GetDelay()     // pps rate -> inter-probe delay
//	timeout := cfg.GetTimeout() // milliseconds -> time.Duration
//
// Validation:
//
// All configuration values are validated using struct tags with
// go-playground/validator. Invalid values return descriptive errors:
//
//   - rate: 1-100,000 packets per second
//   - timeout_ms: 1-10,000 milliseconds
//   - threads: 0-1,000 (reserved, unused by the engine)
//   - output: table, json, csv
//   - theme: default, dracula, monokai
//
// Environment Variables:
//
// All configuration keys can be set via environment variables:
//
//	SYNPROBE_RATE=5000
//	SYNPROBE_TIMEOUT_MS=500
//	SYNPROBE_SCANS=syn,ack,udp
//	SYNPROBE_THEME=monokai
package config
