package manifest

import (
	"regexp"

	"github.com/calebmaier/swiftadd/pkg/errors"
)

// codeMask returns a boolean per byte of src marking positions that are
// plain code. Bytes inside string literals, line comments, or block
// comments are false, so structural tokens in them are never matched.
//
// Recognized regions follow Swift lexical rules closely enough for
// manifests: "..." strings with backslash escapes, """...""" multiline
// strings, // line comments, and /* */ block comments (which nest).
func codeMask(src string) []bool {
	mask := make([]bool, len(src))
	i := 0
	for i < len(src) {
		switch {
		case hasPrefixAt(src, i, `"""`):
			end := skipMultilineString(src, i)
			i = end
		case src[i] == '"':
			i = skipString(src, i)
		case hasPrefixAt(src, i, "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case hasPrefixAt(src, i, "/*"):
			i = skipBlockComment(src, i)
		default:
			mask[i] = true
			i++
		}
	}
	return mask
}

func hasPrefixAt(s string, i int, prefix string) bool {
	return i+len(prefix) <= len(s) && s[i:i+len(prefix)] == prefix
}

// skipString returns the index just past the closing quote of the string
// literal opening at i. Backslash escapes are honored. An unterminated
// string runs to the end of input.
func skipString(src string, i int) int {
	i++ // opening quote
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipMultilineString(src string, i int) int {
	i += 3
	for i < len(src) {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if hasPrefixAt(src, i, `"""`) {
			return i + 3
		}
		i++
	}
	return i
}

// skipBlockComment returns the index just past the matching */ for the
// comment opening at i. Swift block comments nest.
func skipBlockComment(src string, i int) int {
	depth := 0
	for i < len(src) {
		switch {
		case hasPrefixAt(src, i, "/*"):
			depth++
			i += 2
		case hasPrefixAt(src, i, "*/"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return i
}

// matchingDelim maps an opening delimiter to its closer.
var matchingDelim = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// balancedEnd returns the index just past the delimiter closing the one
// at open. Delimiters inside strings and comments are ignored via mask.
// Returns an INVALID_MANIFEST error when the block never closes.
func balancedEnd(src string, mask []bool, open int) (int, error) {
	closer, ok := matchingDelim[src[open]]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidManifest, "no delimiter at offset %d", open)
	}
	opener := src[open]
	depth := 0
	for i := open; i < len(src); i++ {
		if !mask[i] {
			continue
		}
		switch src[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidManifest, "unbalanced %q starting at offset %d", string(opener), open)
}

// depthAt returns the delimiter nesting depth of position pos relative to
// position from, counting all three delimiter kinds in code regions.
func depthAt(src string, mask []bool, from, pos int) int {
	depth := 0
	for i := from; i < pos && i < len(src); i++ {
		if !mask[i] {
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth
}

// findAll returns every match of re whose start position lies in code.
// Matches inside strings or comments are discarded.
func findAll(src string, mask []bool, re *regexp.Regexp) [][]int {
	var out [][]int
	for _, loc := range re.FindAllStringSubmatchIndex(src, -1) {
		if loc[0] < len(mask) && mask[loc[0]] {
			out = append(out, loc)
		}
	}
	return out
}

// findFrom returns the first code match of re at or after from.
func findFrom(src string, mask []bool, re *regexp.Regexp, from int) ([]int, bool) {
	for _, loc := range findAll(src, mask, re) {
		if loc[0] >= from {
			return loc, true
		}
	}
	return nil, false
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(src string, pos int) string {
	start := pos
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}
