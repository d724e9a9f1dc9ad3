// Package cli implements the treegen command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/buildinfo"
	"github.com/matzehuels/treegen/pkg/cache"
	"github.com/matzehuels/treegen/pkg/calc"
	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/schema"
	"github.com/matzehuels/treegen/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "treegen"

	// redisPrefix scopes the tool's keys in a shared Redis database.
	redisPrefix = appName + ":"
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

	verbose    bool
	configPath string
	schemaPath string

	// config is loaded by the root command's PersistentPreRunE.
	config *Config
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
		Use:   appName,
		Short: "Treegen inspects and stores serialized syntax trees",
		Long: `Treegen works with trees serialized in the treegen CBOR format: it
decodes and checks blobs against a schema, dumps and draws them, and
keeps them in a content-addressed cache.

Without --schema the built-in calc schema is used.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/treegen/config.toml)")
	flags.StringVar(&c.schemaPath, "schema", "", "TOML schema file (default: built-in calc schema)")

	root.AddCommand(c.diagCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the root command and reports a failure on stderr. It
// returns the process exit code.
func (c *CLI) Execute(ctx context.Context) int {
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			return 130 // Standard shell convention for SIGINT
		}
		printError(os.Stderr, "%s", errors.UserMessage(err))
		return 1
	}
	return 0
}

// =============================================================================
// Schema & Store Factories
// =============================================================================

// registry returns the node registry for the selected schema.
func (c *CLI) registry() (*tree.Registry, error) {
	if c.schemaPath == "" {
		return calc.Registry, nil
	}
	s, err := schema.LoadFile(c.schemaPath)
	if err != nil {
		return nil, err
	}
	return s.Registry(), nil
}

// cfg returns the loaded configuration, or the defaults if commands run
// without the root command's pre-run.
func (c *CLI) cfg() *Config {
	if c.config == nil {
		c.config = defaultConfig()
	}
	return c.config
}

// openCache opens the configured cache backend.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	cc := c.cfg().Cache
	logger := loggerFromContext(ctx)

	var (
		backend cache.Cache
		err     error
	)
	switch cc.Backend {
	case BackendNone:
		backend = cache.NewNullCache()
	case BackendFile:
		dir := cc.Dir
		if dir == "" {
			if dir, err = cacheDir(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate cache directory")
			}
		}
		backend, err = cache.NewFileCache(dir)
	case BackendRedis:
		backend, err = dialWithSpinner(ctx, "Connecting to Redis at "+cc.RedisAddr, func() (cache.Cache, error) {
			return cache.DialRedis(ctx, cc.RedisAddr, redisPrefix)
		})
	case BackendMongo:
		backend, err = dialWithSpinner(ctx, "Connecting to MongoDB", func() (cache.Cache, error) {
			return cache.DialMongo(ctx, cc.MongoURI, cc.MongoDatabase)
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cc.Backend)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s cache", cc.Backend)
	}
	logger.Debug("opened cache", "backend", cc.Backend, "compress", cc.Compress)

	if cc.Compress {
		backend = cache.Compressed(backend)
	}
	return backend, nil
}

func dialWithSpinner(ctx context.Context, msg string, dial func() (cache.Cache, error)) (cache.Cache, error) {
	s := newSpinnerWithContext(ctx, msg)
	s.Start()
	defer s.Stop()
	return dial()
}

// openStore opens the configured cache and wraps it in a tree store.
func (c *CLI) openStore(ctx context.Context) (*cache.Store, error) {
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	backend, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	// Redis databases are shared, so tree keys carry the prefix that the
	// cache's Clear is scoped to.
	var keyer cache.Keyer
	if c.cfg().Cache.Backend == BackendRedis {
		keyer = cache.NewScopedKeyer(nil, redisPrefix)
	}
	st := cache.NewStore(backend, keyer, reg, loggerFromContext(ctx))
	st.TTL = c.cfg().Cache.TTL.Duration
	return st, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/treegen/).
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

// configDir returns the config directory using XDG standard (~/.config/treegen/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
