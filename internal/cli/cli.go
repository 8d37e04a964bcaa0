package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hydronet/pkg/buildinfo"
	"github.com/matzehuels/hydronet/pkg/cache"
	"github.com/matzehuels/hydronet/pkg/config"
	"github.com/matzehuels/hydronet/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "hydronet"

	// cacheScope versions cache keys by record layout.
	cacheScope = "v1:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
	// verbose is bound to the persistent --verbose flag.
	verbose bool
	// config is loaded once per invocation by the root pre-run hook.
	config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also reports the
// caller.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Hydronet queries river drainage networks for barrier prioritization",
		Long: `Hydronet assembles barriers, stream reaches, catchments and tributaries
into a drainage network per lake and answers upstream/downstream queries:
which reaches lie above a dam, how much stream length a crossing cuts off,
how much catchment area drains through a reach.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.preRun,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.loadCommand())
	root.AddCommand(c.summaryCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.measureCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// preRun loads the configuration and sets the log level. --verbose wins
// over the configured level.
func (c *CLI) preRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	c.config = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	return nil
}

// cfg returns the loaded configuration, or the defaults when no command
// pre-run has happened (as in tests calling helpers directly).
func (c *CLI) cfg() *config.Config {
	if c.config == nil {
		c.config = config.Default()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache || c.cfg().Cache.Disabled)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, cacheScope), c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/hydronet/).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.cfg().Cache.Dir; dir != "" {
		return dir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// inputFlags are shared by every command that reads a network.
type inputFlags struct {
	format  string
	noCache bool
	refresh bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "input format: records or sqlite (default: by extension)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "do not read or write the record cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "reload records even if cached")
	completeInput(cmd)
}

// options builds pipeline options for input.
func (c *CLI) options(input string, f inputFlags) pipeline.Options {
	return pipeline.Options{
		Input:   input,
		Format:  f.format,
		Refresh: f.refresh,
		Config:  c.cfg(),
		Logger:  c.Logger,
	}
}
