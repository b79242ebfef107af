package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cafecatalog/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values, so a partial file only
// overrides what it mentions.
type JsonConfig struct {
	ServerBaseURL    *string `json:"server_base_url"`
	DataDir          *string `json:"data_dir"`
	DatabaseFile     *string `json:"database_file"`
	ProductPageSize  *int    `json:"product_page_size"`
	CategoryPageSize *int    `json:"category_page_size"`
	LogLevel         *string `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing happens. Read or unmarshal
// errors panic; the file was asked for explicitly, so running with defaults
// instead would be surprising.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.DatabaseFile != nil {
		cfg.DatabaseFile = *jc.DatabaseFile
	}
	if jc.ProductPageSize != nil {
		cfg.ProductPageSize = *jc.ProductPageSize
	}
	if jc.CategoryPageSize != nil {
		cfg.CategoryPageSize = *jc.CategoryPageSize
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
