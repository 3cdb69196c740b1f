package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache command and its subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the catalog response cache",
		Long:  `Catalog lookups are cached on disk to keep repeated adds fast and to stay within GitHub API rate limits.`,
	}

	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}
			cmd.Println(dir)
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached catalog responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}
			if err := os.RemoveAll(dir); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			printDetail("%s", dir)
			return nil
		},
	}
}
