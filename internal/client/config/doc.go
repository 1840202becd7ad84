// Package config loads runtime configuration for the legal-saarthi terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then the environment
//     (LEGAL_SAARTHI_API_URL, LEGAL_SAARTHI_REQUEST_TIMEOUT, ...).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "request_timeout": "60s",
//	  "upload_timeout": "2m",
//	  "online_check_interval": "5s",
//	  "storage_path": "legal-saarthi.db",
//	  "log_backend": "zap",
//	  "log_level": "info"
//	}
package config
