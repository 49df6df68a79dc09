// Package config loads runtime configuration for the Cogni Flash CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "transport": "grpc",
//	  "online_check_interval": "3s",
//	  "sync_interval": "30s",
//	  "max_retries": 5,
//	  "base_retry_delay": "1s",
//	  "cache_ttl": "5m",
//	  "request_timeout": "10s",
//	  "database_driver": "sqlite",
//	  "database_dsn": "cogniflash.db",
//	  "store_passphrase": "",
//	  "access_token": "",
//	  "evict_permanent": false,
//	  "invalidate_cache": false,
//	  "log_level": "info",
//	  "log_format": "text",
//	  "metrics_endpoint": ""
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
