// Package cli implements the swiftadd command-line interface.
//
// swiftadd adds a dependency to a Swift package: it resolves the package
// against the GitHub catalog, edits Package.swift, lets the user pick
// which targets the dependency is wired into, and delegates resolution
// and building to the swift toolchain.
//
// # Commands
//
//   - add: resolve a package and wire it into the manifest and targets
//   - cache: manage the catalog response cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/calebmaier/swiftadd/pkg/buildinfo"
	"github.com/calebmaier/swiftadd/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "swiftadd"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "swiftadd wires new dependencies into Swift packages",
		Long:         `swiftadd is a CLI tool that adds a package dependency to Package.swift, re-resolves through the swift toolchain, and wires the resolved product into the targets you choose.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.addCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache creates the catalog response cache backend.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/swiftadd/).
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
