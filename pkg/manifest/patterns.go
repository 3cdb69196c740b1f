package manifest

import "regexp"

// Anchor patterns for the structural regions the editors work on. The
// patterns match only the opening token of each region; the scanner takes
// over from there to find the balanced end, so arbitrary whitespace,
// multi-line layout, and nested parentheses inside a region cannot cause
// a mis-match. Compilation happens at package init; a malformed pattern
// is a programming error and panics immediately.
var (
	// rePackageDecl anchors one top-level dependency declaration. In a
	// SwiftPM manifest .package( only ever appears inside the package's
	// dependencies list (targets reference products, not packages).
	rePackageDecl = regexp.MustCompile(`\.package\s*\(`)

	// reDepListOpen anchors a dependencies: [ label, used both for the
	// top-level list (disambiguated by the preceding products: field)
	// and for a target's own array (disambiguated by span and depth).
	reDepListOpen = regexp.MustCompile(`dependencies\s*:\s*\[`)

	// reProductsOpen anchors the products: [ field that precedes the
	// top-level dependency list in a conventional manifest.
	reProductsOpen = regexp.MustCompile(`products\s*:\s*\[`)

	// reTargetDecl anchors a target declaration of any supported kind.
	// Order matters: the longer alternatives come first so "target" does
	// not shadow them.
	reTargetDecl = regexp.MustCompile(`\.(executableTarget|testTarget|target)\s*\(`)

	// reNameArg captures a name: "..." argument. Only matches at depth 1
	// of the enclosing call are the target's own name.
	reNameArg = regexp.MustCompile(`name\s*:\s*"((?:[^"\\]|\\.)*)"`)

	// reURLArg captures the url: "..." argument of a .package declaration.
	reURLArg = regexp.MustCompile(`url\s*:\s*"((?:[^"\\]|\\.)*)"`)
)
