package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opgraph/pkg/cache"
)

// cacheCommand groups the local file cache subcommands. A Redis cache
// configured with --redis is shared and left alone.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local schedule cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached schedules",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				count, err := fc.Clear()
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				w := cmd.OutOrStdout()
				if count == 0 {
					printInfo(w, "Cache is empty")
					return nil
				}
				printSuccess(w, "Cleared %d cached schedules", count)
				printDetail(w, "Directory: %s", fc.Dir())
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show cache location and usage",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				entries, size, err := fc.Stats()
				if err != nil {
					return fmt.Errorf("read cache: %w", err)
				}
				w := cmd.OutOrStdout()
				printKeyValue(w, "Directory", fc.Dir())
				printKeyValue(w, "Entries", fmt.Sprint(entries))
				printKeyValue(w, "Size", formatBytes(size))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
