// Package config loads runtime configuration for the café catalog client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the catalog API
//	-d string   directory for local client data (token database)
//	-l int      number of products fetched by "list"
//	-v string   log level
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://127.0.0.1:8082/api",
//	  "data_dir": ".cafecatalog",
//	  "database_file": "cafe.db",
//	  "product_page_size": 50,
//	  "category_page_size": 50,
//	  "log_level": "info"
//	}
//
// Environment variables are not read.
package config
