package manifest

import (
	"context"

	"github.com/calebmaier/swiftadd/pkg/errors"
)

// Externals are the delegated collaborators the mutation flow needs. The
// orchestrator owns only the ordering; prompting, file writes, toolchain
// invocation, and lockfile reads all live with the caller.
type Externals struct {
	// SelectTargets chooses which of the located targets the dependency
	// is wired into. An empty result means top-level insertion only.
	SelectTargets func(targets []TargetDescriptor) ([]string, error)

	// Commit persists manifest text back to the project.
	Commit func(text string) error

	// Refresh runs the external toolchain so the lockfile reflects the
	// edited manifest. A non-nil error is fatal: the resolved identifier
	// cannot be trusted without a successful resolution.
	Refresh func(ctx context.Context) error

	// Lookup maps the dependency's repository URL to the canonical
	// identifier the lockfile assigned to it after resolution.
	Lookup func(url string) (string, bool, error)
}

// Options adjust orchestration behavior.
type Options struct {
	// AllowExisting makes an ALREADY_DECLARED result from the top-level
	// insertion non-fatal: the manifest keeps its existing declaration
	// and the flow continues straight to target wiring.
	AllowExisting bool
}

// Result reports what a mutation run changed.
type Result struct {
	Text       string   // final manifest text, already committed
	Identifier string   // resolved identifier wired into targets
	Wired      []string // targets that received the dependency
	Existing   bool     // top-level declaration was already present
}

// Run performs the full add-dependency flow over src:
//
//	locate targets → select → insert top-level declaration → commit →
//	toolchain refresh → identifier lookup → per-target insertion → commit
//
// The stages are strictly sequential and none retries. A failed
// top-level insertion aborts before the toolchain ever runs. Per-target
// insertions commit independently: if one fails partway through, prior
// insertions are kept, the partial text is committed, and the returned
// error names the failed target.
func Run(ctx context.Context, src string, ref Reference, ext Externals, opts Options) (*Result, error) {
	targets, err := LocateTargets(src)
	if err != nil {
		return nil, err
	}

	selected, err := ext.SelectTargets(targets)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	text, err := AddPackageDependency(src, ref)
	switch {
	case err == nil:
		if err := ext.Commit(text); err != nil {
			return nil, err
		}
	case errors.Is(err, errors.ErrCodeAlreadyDeclared) && opts.AllowExisting:
		text = src
		res.Existing = true
	default:
		return nil, err
	}

	if err := ext.Refresh(ctx); err != nil {
		return nil, err
	}

	id, found, err := ext.Lookup(ref.URL)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New(errors.ErrCodeInvalidLockfile, "no pin recorded for %s; resolution may have failed", ref.URL)
	}
	res.Identifier = id

	for _, name := range selected {
		next, err := AddTargetDependency(text, name, id)
		if err != nil {
			// Prior insertions stay committed; no rollback.
			res.Text = text
			if cerr := ext.Commit(text); cerr != nil {
				return res, cerr
			}
			return res, errors.Wrap(errors.GetCode(err), err, "wiring target %q failed after %d of %d targets", name, len(res.Wired), len(selected))
		}
		text = next
		res.Wired = append(res.Wired, name)
	}

	res.Text = text
	if err := ext.Commit(text); err != nil {
		return res, err
	}
	return res, nil
}
