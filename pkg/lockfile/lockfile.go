// Package lockfile reads Package.resolved, the pin file the Swift
// toolchain writes after dependency resolution. It is the source of
// truth for the canonical identifier a dependency receives, and for
// counting how many packages a command newly installed.
//
// Both historical lockfile shapes are understood: version 1 nests the
// pin list under an "object" key and names pins with "package" and
// "repositoryURL"; version 2 and later flatten the list and use
// "identity" and "location" instead.
package lockfile

import (
	"encoding/json"
	"os"

	"github.com/calebmaier/swiftadd/pkg/errors"
	"github.com/calebmaier/swiftadd/pkg/manifest"
)

// DefaultName is the lockfile's filename in the project root.
const DefaultName = "Package.resolved"

// Pin is one resolved dependency: its repository URL and the package
// name the toolchain assigned to it.
type Pin struct {
	RepositoryURL string
	PackageName   string
	Version       string
}

// File is a read-only snapshot of a lockfile's pins.
type File struct {
	Pins []Pin
}

// rawFile covers both lockfile shapes in one decode.
type rawFile struct {
	Version int      `json:"version"`
	Pins    []rawPin `json:"pins"` // v2+
	Object  *struct {
		Pins []rawPin `json:"pins"` // v1
	} `json:"object"`
}

type rawPin struct {
	// v1 fields
	Package       string `json:"package"`
	RepositoryURL string `json:"repositoryURL"`
	// v2+ fields
	Identity string `json:"identity"`
	Location string `json:"location"`
	State    struct {
		Version string `json:"version"`
	} `json:"state"`
}

// Read loads and parses the lockfile at path. A missing file yields an
// empty snapshot, not an error: before the first resolution no lockfile
// exists and the pin count is simply zero.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s; ensure you are in the project root", path)
	}
	return Parse(data)
}

// Parse decodes lockfile contents.
func Parse(data []byte) (*File, error) {
	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "lockfile is not valid JSON")
	}

	pins := raw.Pins
	if raw.Object != nil {
		pins = raw.Object.Pins
	}

	f := &File{Pins: make([]Pin, 0, len(pins))}
	for _, p := range pins {
		pin := Pin{
			RepositoryURL: p.RepositoryURL,
			PackageName:   p.Package,
			Version:       p.State.Version,
		}
		if pin.RepositoryURL == "" {
			pin.RepositoryURL = p.Location
		}
		if pin.PackageName == "" {
			pin.PackageName = p.Identity
		}
		if pin.RepositoryURL == "" || pin.PackageName == "" {
			return nil, errors.New(errors.ErrCodeInvalidLockfile, "pin entry is missing its package name or repository URL")
		}
		f.Pins = append(f.Pins, pin)
	}
	return f, nil
}

// Identifier maps a repository URL to the canonical package name its pin
// records. URLs are compared canonically, so a trailing .git or a host
// case difference does not defeat the lookup.
func (f *File) Identifier(url string) (string, bool) {
	want := manifest.CanonicalURL(url)
	for _, p := range f.Pins {
		if manifest.CanonicalURL(p.RepositoryURL) == want {
			return p.PackageName, true
		}
	}
	return "", false
}

// NewlyPinned returns how many pins in f have no counterpart in before,
// compared by repository URL. This is the "N packages installed" count
// the CLI reports after resolution.
func (f *File) NewlyPinned(before *File) int {
	prior := make(map[string]bool, len(before.Pins))
	for _, p := range before.Pins {
		prior[manifest.CanonicalURL(p.RepositoryURL)] = true
	}
	n := 0
	for _, p := range f.Pins {
		if !prior[manifest.CanonicalURL(p.RepositoryURL)] {
			n++
		}
	}
	return n
}
