package config

import (
	"flag"

	"github.com/dmitrijs2005/cafecatalog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the catalog API
//	-d string   directory for local client data
//	-l int      number of products fetched by "list"
//	-v string   log level
//
// Only these flags are looked at (see flagx.FilterArgs), so -c/-config and
// anything else on the command line does not break parsing.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the catalog API")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for local client data")
	fs.IntVar(&cfg.ProductPageSize, "l", cfg.ProductPageSize, "number of products to load")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
