package manifest

// Span is a half-open byte range [Start, End) within manifest text.
type Span struct {
	Start int
	End   int
}

// TargetDescriptor describes one declared target: its name and the byte
// span of its full declaration block, from the leading dot through the
// balanced closing parenthesis. Spans are only valid against the exact
// text they were computed from; any edit shifts offsets, so descriptors
// are recomputed after every mutation and never cached.
type TargetDescriptor struct {
	Name string
	Span Span
	Test bool // declared with .testTarget
}

// LocateTargets returns every target declared in src, in textual order.
// Declarations whose name argument cannot be found are skipped. A
// manifest with no targets yields an empty slice, which is not an error;
// an unbalanced declaration block is.
func LocateTargets(src string) ([]TargetDescriptor, error) {
	mask := codeMask(src)
	var out []TargetDescriptor

	// End of the most recent declaration block. Matches starting before
	// it are nested inside that block, like the explicit dependency form
	// .target(name: "Core") in another target's dependencies array, and
	// are not declarations.
	lastEnd := 0

	for _, loc := range findAll(src, mask, reTargetDecl) {
		if loc[0] < lastEnd {
			continue
		}

		open := loc[1] - 1 // the (
		end, err := balancedEnd(src, mask, open)
		if err != nil {
			return nil, err
		}
		lastEnd = end

		name, ok := targetName(src, mask, open, end)
		if !ok {
			continue
		}

		kind := src[loc[2]:loc[3]]
		out = append(out, TargetDescriptor{
			Name: name,
			Span: Span{Start: loc[0], End: end},
			Test: kind == "testTarget",
		})
	}
	return out, nil
}

// targetName finds the name: "..." argument belonging to the target call
// itself, i.e. at depth 1 relative to its opening parenthesis. Deeper
// matches belong to nested calls like .product(name: "X") and are
// ignored.
func targetName(src string, mask []bool, open, end int) (string, bool) {
	for _, loc := range findAll(src[:end], mask[:end], reNameArg) {
		if loc[0] <= open {
			continue
		}
		if depthAt(src, mask, open, loc[0]) == 1 {
			return src[loc[2]:loc[3]], true
		}
	}
	return "", false
}
