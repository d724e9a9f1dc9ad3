package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/cache"
)

// cacheCommand creates the tree cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Store and load trees in the content-addressed cache",
		Long: `Trees are stored under "tree:" followed by the BLAKE3 hash of their
canonical encoding, so storing the same tree twice yields the same key.

The backend is chosen by the [cache] section of the config file: a
directory (the default), Redis, MongoDB, or none.`,
	}

	cmd.AddCommand(c.cachePutCommand())
	cmd.AddCommand(c.cacheGetCommand())
	cmd.AddCommand(c.cacheRemoveCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cachePutCommand creates the "cache put" subcommand.
func (c *CLI) cachePutCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "Store a tree and print its key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Cache.Close()

			prog := newProgress(loggerFromContext(cmd.Context()))
			key, err := store.PutBlob(cmd.Context(), data)
			if err != nil {
				return err
			}
			prog.done("Stored tree", "key", key)

			out := cmd.OutOrStdout()
			if quiet {
				fmt.Fprintln(out, key)
				return nil
			}
			printSuccess(out, "Stored %s", StyleHighlight.Render(key))
			printStats(out, 0, len(data), false)
			printNextStep(out, "Load it with", appName+" cache get "+key)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the key")
	return cmd
}

// cacheGetCommand creates the "cache get" subcommand.
func (c *CLI) cacheGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Write the tree stored under key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Cache.Close()

			data, err := store.GetBlob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output != "" {
				printStats(cmd.ErrOrStderr(), 0, len(data), true)
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// cacheRemoveCommand creates the "cache rm" subcommand.
func (c *CLI) cacheRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>...",
		Short: "Remove stored trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Cache.Close()

			for _, key := range args {
				if err := store.Delete(cmd.Context(), key); err != nil {
					return err
				}
			}
			printSuccess(cmd.OutOrStdout(), "Removed %d trees", len(args))
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Cache.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Cleared %s cache", c.cfg().Cache.Backend)
			if fc, ok := unwrapFileCache(store.Cache); ok {
				printDetail(out, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where trees are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.cfg().Cache
			out := cmd.OutOrStdout()
			switch cc.Backend {
			case BackendFile:
				dir := cc.Dir
				if dir == "" {
					var err error
					if dir, err = cacheDir(); err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
				}
				fmt.Fprintln(out, dir)
			case BackendRedis:
				fmt.Fprintf(out, "redis://%s (keys %s*)\n", cc.RedisAddr, redisPrefix)
			case BackendMongo:
				fmt.Fprintf(out, "%s (database %s, collection %s)\n", cc.MongoURI, cc.MongoDatabase, cache.DefaultMongoCollection)
			default:
				printWarning(out, "Cache is disabled")
			}
			return nil
		},
	}
}

func unwrapFileCache(c cache.Cache) (*cache.FileCache, bool) {
	if cc, ok := c.(*cache.CompressedCache); ok {
		c = cc.Unwrap()
	}
	fc, ok := c.(*cache.FileCache)
	return fc, ok
}
