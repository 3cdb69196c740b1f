package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calebmaier/swiftadd/pkg/errors"
)

const v1Lockfile = `{
  "object": {
    "pins": [
      {
        "package": "SwiftLog",
        "repositoryURL": "https://github.com/apple/swift-log.git",
        "state": {"version": "1.5.4"}
      },
      {
        "package": "NIO",
        "repositoryURL": "https://github.com/apple/swift-nio.git",
        "state": {"version": "2.62.0"}
      }
    ]
  },
  "version": 1
}`

const v2Lockfile = `{
  "pins": [
    {
      "identity": "swift-log",
      "kind": "remoteSourceControl",
      "location": "https://github.com/apple/swift-log.git",
      "state": {"revision": "abc123", "version": "1.5.4"}
    }
  ],
  "version": 2
}`

func TestParseV1(t *testing.T) {
	f, err := Parse([]byte(v1Lockfile))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(f.Pins) != 2 {
		t.Fatalf("expected 2 pins, got %d", len(f.Pins))
	}
	if f.Pins[0].PackageName != "SwiftLog" {
		t.Errorf("expected SwiftLog, got %s", f.Pins[0].PackageName)
	}
	if f.Pins[0].Version != "1.5.4" {
		t.Errorf("expected version 1.5.4, got %s", f.Pins[0].Version)
	}
}

func TestParseV2(t *testing.T) {
	f, err := Parse([]byte(v2Lockfile))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(f.Pins) != 1 {
		t.Fatalf("expected 1 pin, got %d", len(f.Pins))
	}
	if f.Pins[0].PackageName != "swift-log" {
		t.Errorf("expected swift-log, got %s", f.Pins[0].PackageName)
	}
	if f.Pins[0].RepositoryURL != "https://github.com/apple/swift-log.git" {
		t.Errorf("unexpected URL: %s", f.Pins[0].RepositoryURL)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("not json")); !errors.Is(err, errors.ErrCodeInvalidLockfile) {
		t.Errorf("expected INVALID_LOCKFILE, got %v", err)
	}

	missing := `{"pins": [{"state": {"version": "1.0.0"}}], "version": 2}`
	if _, err := Parse([]byte(missing)); !errors.Is(err, errors.ErrCodeInvalidLockfile) {
		t.Errorf("expected INVALID_LOCKFILE for missing fields, got %v", err)
	}
}

func TestIdentifier(t *testing.T) {
	f, err := Parse([]byte(v1Lockfile))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		url   string
		want  string
		found bool
	}{
		{"https://github.com/apple/swift-log.git", "SwiftLog", true},
		{"https://github.com/apple/swift-log", "SwiftLog", true},
		{"https://GITHUB.com/apple/swift-nio.git", "NIO", true},
		{"https://github.com/unknown/pkg.git", "", false},
	}

	for _, tt := range tests {
		got, found := f.Identifier(tt.url)
		if found != tt.found || got != tt.want {
			t.Errorf("Identifier(%q) = (%q, %v), want (%q, %v)", tt.url, got, found, tt.want, tt.found)
		}
	}
}

func TestNewlyPinned(t *testing.T) {
	before, err := Parse([]byte(v2Lockfile))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	after := &File{Pins: []Pin{
		{RepositoryURL: "https://github.com/apple/swift-log.git", PackageName: "swift-log"},
		{RepositoryURL: "https://github.com/apple/swift-nio.git", PackageName: "swift-nio"},
		{RepositoryURL: "https://github.com/apple/swift-nio-ssl.git", PackageName: "swift-nio-ssl"},
		{RepositoryURL: "https://github.com/apple/swift-collections.git", PackageName: "swift-collections"},
		{RepositoryURL: "https://github.com/vapor/vapor.git", PackageName: "vapor"},
	}}

	if got := after.NewlyPinned(before); got != 4 {
		t.Errorf("expected 4 newly pinned, got %d", got)
	}

	// Four before, five after: exactly one installed.
	four := &File{Pins: after.Pins[:4]}
	if got := after.NewlyPinned(four); got != 1 {
		t.Errorf("expected 1 newly pinned, got %d", got)
	}

	if got := after.NewlyPinned(after); got != 0 {
		t.Errorf("expected 0 newly pinned, got %d", got)
	}
}

func TestReadMissingFile(t *testing.T) {
	f, err := Read(filepath.Join(t.TempDir(), DefaultName))
	if err != nil {
		t.Fatalf("Read of missing file should not fail: %v", err)
	}
	if len(f.Pins) != 0 {
		t.Errorf("expected empty snapshot, got %d pins", len(f.Pins))
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	if err := os.WriteFile(path, []byte(v2Lockfile), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(f.Pins) != 1 {
		t.Errorf("expected 1 pin, got %d", len(f.Pins))
	}
}
