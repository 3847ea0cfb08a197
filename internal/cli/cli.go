// Package cli implements the opgraph command-line interface.
//
// The commands load operator graphs from JSON, TOML or YAML documents, compute
// their execution orders, and render or serve the results:
//
//   - order: print the default and priority-based execution orders
//   - roots: print the nodes with no producers
//   - inspect: summarize a graph's inputs, outputs and initializers
//   - step: walk through an execution order interactively
//   - render: draw the graph as SVG, PNG or DOT
//   - convert: rewrite a graph document as JSON, TOML or YAML
//   - serve: run the HTTP API
//   - cache: manage the schedule cache
//
// All commands support --verbose (-v) for debug-level logging and
// --log-format text|json.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/opgraph/pkg/buildinfo"
	"github.com/matzehuels/opgraph/pkg/cache"
	"github.com/matzehuels/opgraph/pkg/observability"
	"github.com/matzehuels/opgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "opgraph"

	// envRedisURL supplies the default for --redis.
	envRedisURL = "OPGRAPH_REDIS_URL"

	// redisKeyPrefix scopes keys in a shared Redis instance.
	redisKeyPrefix = appName + ":"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "opgraph computes execution orders for operator graphs",
		Long:         `opgraph loads operator graphs and computes their default and priority-based execution orders, the same orders an inference runtime would use to schedule them.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	logFormat := logFormatText
	root.PersistentFlags().StringVar(&logFormat, "log-format", logFormat, "log output: text or json")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := setLogFormat(c.Logger, logFormat); err != nil {
			return err
		}
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetScheduleHooks(hooks)
		observability.SetCacheHooks(hooks)
		return nil
	}

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.rootsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags are shared by every command that computes schedules.
type cacheFlags struct {
	noCache  bool
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the schedule cache")
	cmd.Flags().StringVar(&f.redisURL, "redis", os.Getenv(envRedisURL), "Redis URL for a shared schedule cache (default $"+envRedisURL+")")
}

// newRunner creates a pipeline runner for CLI use. The caller closes the
// returned cache.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, cache.Cache, error) {
	ch, keyer, err := newCache(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), ch, nil
}

func newCache(ctx context.Context, f cacheFlags) (cache.Cache, cache.Keyer, error) {
	if f.noCache {
		return cache.NewNullCache(), nil, nil
	}
	if f.redisURL != "" {
		ch, err := cache.NewRedisCache(ctx, f.redisURL)
		if err != nil {
			return nil, nil, err
		}
		return ch, cache.NewScopedKeyer(nil, redisKeyPrefix), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	ch, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return ch, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/opgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
