package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/idilsaglam/crud/internal/cli"
	"github.com/idilsaglam/crud/internal/config"
	"github.com/idilsaglam/crud/internal/ui"
)

func main() {
	flag.Usage = cli.PrintHelp
	cfg, args, err := resolveConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, args, cli.Options{Config: cfg})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

// resolveConfig parses the root flags (they apply to every subcommand) and
// layers them over the config file, or the defaults when there is none.
// Only flags given explicitly override the file. The remaining arguments
// are the subcommand and its operands.
func resolveConfig(fs *flag.FlagSet, args []string) (*config.Config, []string, error) {
	configPath := fs.String("config", "", "TOML config file")
	dbPath := fs.String("db", "", "database file (default items.db)")
	theme := fs.String("theme", "", "classic | neon | mono")
	logLevel := fs.String("log-level", "", "debug | info | warn | error")
	logFile := fs.String("log-file", "", "write logs to this file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.Database.Path = *dbPath
		case "theme":
			cfg.UI.Theme = *theme
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-file":
			cfg.Logging.File = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}
