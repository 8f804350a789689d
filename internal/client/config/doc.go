// Package config loads runtime configuration for the gophdrive CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config or $CONFIG.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-t int      per-request timeout (seconds)
//	-s string   path of the local session database
//	-o string   directory downloads are saved into
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "session_file": "gophdrive.db",
//	  "download_dir": "downloads",
//	  "max_upload_bytes": 25165824
//	}
package config
