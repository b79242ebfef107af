package config

// Config holds runtime settings for the café catalog client.
//
// Fields:
//   - ServerBaseURL: base URL of the catalog REST API, e.g. http://host:8082/api.
//   - DataDir / DatabaseFile: where the local SQLite database (token store) lives.
//   - ProductPageSize: how many products "list" fetches (limite query parameter).
//   - CategoryPageSize: how many categories are fetched for the category picker.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL    string
	DataDir          string
	DatabaseFile     string
	ProductPageSize  int
	CategoryPageSize int
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8082/api"
	c.DataDir = ".cafecatalog"
	c.DatabaseFile = "cafe.db"
	c.ProductPageSize = 50
	c.CategoryPageSize = 50
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
