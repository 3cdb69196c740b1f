package manifest

import (
	"fmt"
	"strings"
)

// Requirement selects how the version of a new dependency is pinned.
type Requirement string

const (
	// RequirementFrom declares from: "x.y.z", allowing newer versions up
	// to the next major. This is the SwiftPM default and ours.
	RequirementFrom Requirement = "from"

	// RequirementExact declares exact: "x.y.z".
	RequirementExact Requirement = "exact"
)

// Reference identifies a package to add: a source URL plus a version
// constraint. Immutable once constructed.
type Reference struct {
	URL         string
	Version     string
	Requirement Requirement
}

// Decl renders the .package(...) declaration for the reference.
func (r Reference) Decl() string {
	req := r.Requirement
	if req == "" {
		req = RequirementFrom
	}
	return fmt.Sprintf(`.package(url: %q, %s: %q)`, r.URL, req, r.Version)
}

// CanonicalURL normalizes a repository URL for equality checks: the .git
// suffix, a trailing slash, and the scheme+host case are ignored.
func CanonicalURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.Index(s, "://"); i >= 0 {
		scheme := strings.ToLower(s[:i])
		rest := s[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			rest = strings.ToLower(rest[:j]) + rest[j:]
		} else {
			rest = strings.ToLower(rest)
		}
		s = scheme + "://" + rest
	}
	return s
}
