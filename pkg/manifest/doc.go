// Package manifest implements textual surgery on Package.swift files.
//
// The package never parses Swift. It locates a small set of structural
// regions (the top-level dependency list, target declarations, and each
// target's own dependency array) with anchor patterns over raw text, and
// splices new declarations in at the right spot. Delimiter balance is
// tracked by a string- and comment-aware scanner, so brackets inside
// string literals or comments never confuse region boundaries.
//
// Three editors operate on manifest text, each a pure function from old
// text to new text:
//
//   - [LocateTargets] reports declared targets with their byte spans.
//   - [AddPackageDependency] inserts a .package(...) declaration into the
//     top-level dependency list.
//   - [AddTargetDependency] appends a product identifier to one target's
//     dependency array.
//
// [Run] threads these together with delegated externals (target selection,
// manifest writes, toolchain invocation, lockfile lookup) to implement the
// full add-dependency flow.
package manifest
