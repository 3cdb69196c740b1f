// Package toolchain invokes the external Swift build toolchain as a
// blocking subprocess. Only the exit status is consulted; stdout and
// stderr are passed through unparsed for the user to read on failure.
package toolchain

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/calebmaier/swiftadd/pkg/errors"
)

// DefaultBinary is the toolchain executable looked up on PATH.
const DefaultBinary = "swift"

// Runner executes toolchain subcommands in a project directory. Calls
// are strictly sequential and block until the subprocess exits.
type Runner struct {
	Binary string // toolchain executable, DefaultBinary if empty
	Dir    string // project root the commands run in
}

// New creates a Runner for the given project directory.
func New(dir string) *Runner {
	return &Runner{Binary: DefaultBinary, Dir: dir}
}

// Resolve runs `swift package resolve`, re-resolving dependencies after
// a manifest edit and rewriting the lockfile.
func (r *Runner) Resolve(ctx context.Context) error {
	return r.run(ctx, "package", "resolve")
}

// Update runs `swift package update`.
func (r *Runner) Update(ctx context.Context) error {
	return r.run(ctx, "package", "update")
}

// Build runs `swift build`.
func (r *Runner) Build(ctx context.Context) error {
	return r.run(ctx, "build")
}

func (r *Runner) run(ctx context.Context, args ...string) error {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Dir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		return errors.New(errors.ErrCodeToolchainFailed,
			"%s %s exited with status %d\n%s", bin, strings.Join(args, " "), exitErr.ExitCode(), output.String())
	}
	return errors.Wrap(errors.ErrCodeToolchainFailed, err, "running %s %s", bin, strings.Join(args, " "))
}

