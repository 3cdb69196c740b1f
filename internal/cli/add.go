package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calebmaier/swiftadd/pkg/catalog"
	"github.com/calebmaier/swiftadd/pkg/errors"
	"github.com/calebmaier/swiftadd/pkg/lockfile"
	"github.com/calebmaier/swiftadd/pkg/manifest"
	"github.com/calebmaier/swiftadd/pkg/toolchain"
)

// manifestName is the package manifest file swiftadd edits.
const manifestName = "Package.swift"

// addOptions holds the flag values for the add command.
type addOptions struct {
	path      string
	version   string
	exact     bool
	targets   []string
	noTUI     bool
	refresh   bool
	noCache   bool
	skipBuild bool
}

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add <package>",
		Short: "Add a dependency to a Swift package",
		Long: `Add a package dependency to Package.swift and wire it into targets.

The package argument is either a repository URL or a name to look up
on GitHub. Name queries accept owner/repo or a bare name, which is
resolved to the most starred Swift repository with that name.`,
		Example: `  swiftadd add apple/swift-log
  swiftadd add swift-argument-parser --targets MyTool
  swiftadd add https://github.com/vapor/vapor.git --version 4.92.0 --exact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdd(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", ".", "path to the package directory")
	cmd.Flags().StringVar(&opts.version, "version", "", "version to require (default: latest release)")
	cmd.Flags().BoolVar(&opts.exact, "exact", false, "pin the exact version instead of a from: range")
	cmd.Flags().StringSliceVarP(&opts.targets, "targets", "t", nil, "targets to wire, skipping the prompt")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "use plain y/n prompts instead of the interactive picker")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the catalog cache for this lookup")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the catalog cache entirely")
	cmd.Flags().BoolVar(&opts.skipBuild, "skip-build", false, "skip the verification build")

	return cmd
}

// runAdd implements the add command.
func (c *CLI) runAdd(cmd *cobra.Command, query string, opts *addOptions) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := c.Logger

	dir, err := filepath.Abs(opts.path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid package path %q", opts.path)
	}

	manifestPath := filepath.Join(dir, manifestName)
	src, err := os.ReadFile(manifestPath)
	if err != nil {
		printError("No %s found in %s", manifestName, dir)
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest not found in %s", dir)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s", configName)
	}
	if len(opts.targets) == 0 {
		opts.targets = cfg.Targets
	}
	if cfg.SkipBuild {
		opts.skipBuild = true
	}

	ref, pkg, err := c.resolveReference(ctx, query, opts, cfg)
	if err != nil {
		return err
	}
	if pkg != nil {
		printSuccess("Found %s (%d stars)", StyleHighlight.Render(pkg.FullName), pkg.Stars)
		if pkg.Description != "" {
			printDetail("%s", pkg.Description)
		}
	}
	printKeyValue("Version", fmt.Sprintf("%s: %q", ref.Requirement, ref.Version))
	printNewline()

	before, err := lockfile.Read(filepath.Join(dir, lockfile.DefaultName))
	if err != nil {
		return err
	}

	binary := cfg.Toolchain
	if binary == "" {
		binary = toolchain.DefaultBinary
	}
	runner := toolchain.New(dir)
	runner.Binary = binary

	ext := manifest.Externals{
		SelectTargets: c.targetSelector(opts),
		Commit: func(text string) error {
			return os.WriteFile(manifestPath, []byte(text), 0o644)
		},
		Refresh: func(ctx context.Context) error {
			loggerFromContext(ctx).Debug("resolving package graph", "binary", binary, "dir", dir)
			spin := newSpinnerWithContext(ctx, "Resolving package graph...")
			spin.Start()
			if err := runner.Resolve(ctx); err != nil {
				spin.StopWithError("Resolution failed")
				return err
			}
			spin.StopWithSuccess("Package graph resolved")
			return nil
		},
		Lookup: func(url string) (string, bool, error) {
			lf, err := lockfile.Read(filepath.Join(dir, lockfile.DefaultName))
			if err != nil {
				return "", false, err
			}
			name, ok := lf.Identifier(url)
			return name, ok, nil
		},
	}

	prog := newProgress(logger)
	res, err := manifest.Run(ctx, string(src), ref, ext, manifest.Options{AllowExisting: true})
	if err != nil {
		return err
	}
	if res.Existing {
		printWarning("%s is already declared, wiring targets only", ref.URL)
	}

	if !opts.skipBuild {
		spin := newSpinnerWithContext(ctx, "Building...")
		spin.Start()
		if err := runner.Build(ctx); err != nil {
			spin.StopWithError("Build failed")
			return err
		}
		spin.StopWithSuccess("Build succeeded")
	}

	after, err := lockfile.Read(filepath.Join(dir, lockfile.DefaultName))
	if err != nil {
		return err
	}

	printNewline()
	installed := after.NewlyPinned(before)
	switch installed {
	case 1:
		prog.done("Installed 1 package")
	default:
		prog.done(fmt.Sprintf("Installed %d packages", installed))
	}
	if len(res.Wired) > 0 {
		printSuccess("Added %s to %s", StyleHighlight.Render(res.Identifier), strings.Join(res.Wired, ", "))
	} else {
		printSuccess("Added %s to %s", StyleHighlight.Render(res.Identifier), manifestName)
		printDetail("no targets selected, import it by wiring a target later")
	}
	printNextStep("Build your package", "swift build")

	return nil
}

// resolveReference turns the command argument into a package reference,
// consulting the catalog when the version or URL is not given directly.
// The returned catalog entry is nil for direct URL+version input.
func (c *CLI) resolveReference(ctx context.Context, query string, opts *addOptions, cfg *Config) (manifest.Reference, *catalog.Package, error) {
	req := manifest.RequirementFrom
	if opts.exact || cfg.Exact {
		req = manifest.RequirementExact
	}

	if isRepoURL(query) {
		if opts.version != "" {
			if err := catalog.ValidateVersion(opts.version); err != nil {
				return manifest.Reference{}, nil, err
			}
			return manifest.Reference{URL: query, Version: opts.version, Requirement: req}, nil, nil
		}
		// No version given: a github.com URL can still go through the
		// catalog to find the latest release.
		fullName, ok := githubFullName(query)
		if !ok {
			return manifest.Reference{}, nil, errors.New(errors.ErrCodeInvalidInput,
				"--version is required when adding a non-GitHub URL")
		}
		query = fullName
	}

	client := catalog.New(newCache(opts.noCache), cfg.CacheTTL(), cfg.Token())
	if cfg.BaseURL != "" {
		client.SetBaseURL(cfg.BaseURL)
	}
	loggerFromContext(ctx).Debug("catalog lookup", "query", query, "refresh", opts.refresh)

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Looking up %s...", query))
	spin.Start()
	pkg, err := client.Resolve(ctx, query, opts.refresh)
	if err != nil {
		spin.StopWithError("Lookup failed")
		return manifest.Reference{}, nil, err
	}
	spin.Stop()

	version := pkg.Version
	if opts.version != "" {
		if err := catalog.ValidateVersion(opts.version); err != nil {
			return manifest.Reference{}, nil, err
		}
		version = opts.version
	}
	if version == "" {
		return manifest.Reference{}, nil, errors.New(errors.ErrCodeInvalidVersion,
			"%s has no tagged release, pass --version explicitly", pkg.FullName)
	}

	return manifest.Reference{URL: pkg.URL, Version: version, Requirement: req}, pkg, nil
}

// targetSelector builds the target selection strategy from the flags:
// explicit names, the interactive picker, or the y/n prompt loop.
func (c *CLI) targetSelector(opts *addOptions) func([]manifest.TargetDescriptor) ([]string, error) {
	return func(targets []manifest.TargetDescriptor) ([]string, error) {
		if len(opts.targets) > 0 {
			return pickNamed(targets, opts.targets)
		}
		if len(targets) == 1 {
			printInfo("Single target %s selected", StyleHighlight.Render(targets[0].Name))
			return []string{targets[0].Name}, nil
		}
		if opts.noTUI || !isTerminal(os.Stdin) {
			return selectTargetsPrompt(os.Stdin, os.Stdout, targets)
		}
		return selectTargetsTUI(targets)
	}
}

// pickNamed validates that every requested name exists in the manifest
// and returns them in declaration order.
func pickNamed(targets []manifest.TargetDescriptor, names []string) ([]string, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []string
	for _, t := range targets {
		if want[t.Name] {
			out = append(out, t.Name)
			delete(want, t.Name)
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		return nil, errors.New(errors.ErrCodeTargetNotFound,
			"no such target: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// isRepoURL reports whether the query is a repository URL rather than
// a catalog name.
func isRepoURL(query string) bool {
	return strings.Contains(query, "://") || strings.HasPrefix(query, "git@")
}

// githubFullName extracts owner/repo from a github.com URL.
func githubFullName(rawURL string) (string, bool) {
	s := strings.TrimSuffix(rawURL, "/")
	s = strings.TrimSuffix(s, ".git")
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "git@github.com:"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			if strings.Count(rest, "/") == 1 {
				return rest, true
			}
			return "", false
		}
	}
	return "", false
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
