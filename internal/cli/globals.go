// Package cli holds the global flags shared by all commands and builds the
// per-run configuration and logger from them.
package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/klytics/contentkit/internal/config"
	"github.com/klytics/contentkit/internal/logging"
)

// Flags holds the persistent flags of the root command.
type Flags struct {
	JSON       bool
	Verbose    bool
	NoColor    bool
	LogLevel   string
	ConfigFile string
}

// AddFlags registers the persistent flags on the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	pf := cmd.PersistentFlags()
	pf.BoolVar(&flags.JSON, "json", false, "Output as machine-readable JSON")
	pf.BoolVar(&flags.Verbose, "verbose", false, "Enable debug logging")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable ANSI color output")
	pf.StringVar(&flags.ConfigFile, "config", "", "Config file (default ./contentkit.yaml or ~/.contentkit/contentkit.yaml)")
	return flags
}

// Parse reads the persistent flags from the root of cmd's hierarchy.
func Parse(cmd *cobra.Command) *Flags {
	root := cmd.Root()
	pf := root.PersistentFlags()

	jsonOut, _ := pf.GetBool("json")
	verbose, _ := pf.GetBool("verbose")
	noColor, _ := pf.GetBool("no-color")
	level, _ := pf.GetString("log-level")
	file, _ := pf.GetString("config")

	return &Flags{
		JSON:       jsonOut,
		Verbose:    verbose,
		NoColor:    noColor,
		LogLevel:   level,
		ConfigFile: file,
	}
}

// Env is what a command needs to run.
type Env struct {
	Flags  *Flags
	Config *config.Config
	Logger zerolog.Logger
}

// Setup loads the configuration and builds the logger for cmd. Diagnostics
// go to cmd's error stream.
func Setup(cmd *cobra.Command) (*Env, error) {
	flags := Parse(cmd)

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	return &Env{
		Flags:  flags,
		Config: cfg,
		Logger: NewLogger(flags, cfg, cmd.ErrOrStderr()),
	}, nil
}

// NewLogger picks the log level: --log-level, then --verbose, then the
// configured level.
func NewLogger(flags *Flags, cfg *config.Config, out io.Writer) zerolog.Logger {
	level := cfg.LogLevel
	if flags.Verbose {
		level = "debug"
	}
	if flags.LogLevel != "" {
		level = flags.LogLevel
	}
	return logging.New(logging.Config{
		Level:   level,
		Format:  cfg.LogFormat,
		NoColor: flags.NoColor,
		Output:  out,
	})
}
