package manifest

import (
	"fmt"
	"strings"

	"github.com/calebmaier/swiftadd/pkg/errors"
)

// AddTargetDependency appends identifier as a quoted string literal to
// the dependency array of the named target and returns the new text. The
// input is never modified, so a failed call leaves the caller's manifest
// exactly as it was.
//
// Errors:
//   - TARGET_NOT_FOUND if no declared target has that name. This is
//     never a silent no-op.
//   - INVALID_MANIFEST if the target exists but its dependencies: [...]
//     array cannot be located (unsupported target shape).
func AddTargetDependency(src, target, identifier string) (string, error) {
	targets, err := LocateTargets(src)
	if err != nil {
		return "", err
	}

	var desc *TargetDescriptor
	for i := range targets {
		if targets[i].Name == target {
			desc = &targets[i]
			break
		}
	}
	if desc == nil {
		return "", errors.New(errors.ErrCodeTargetNotFound, "no target named %q in manifest", target)
	}

	mask := codeMask(src)
	open, closing, err := targetDepArray(src, mask, desc)
	if err != nil {
		return "", err
	}

	entry := fmt.Sprintf("%q", identifier)
	return spliceElement(src, open, closing, entry), nil
}

// targetDepArray locates the dependencies: [...] array nested directly
// inside the target's declaration block, returning the offsets of its
// opening and closing brackets.
func targetDepArray(src string, mask []bool, desc *TargetDescriptor) (open, closing int, err error) {
	callOpen := strings.IndexByte(src[desc.Span.Start:desc.Span.End], '(') + desc.Span.Start

	for _, loc := range findAll(src[:desc.Span.End], mask[:desc.Span.End], reDepListOpen) {
		if loc[0] <= callOpen {
			continue
		}
		if depthAt(src, mask, callOpen, loc[0]) != 1 {
			continue
		}
		bracket := loc[1] - 1
		end, berr := balancedEnd(src, mask, bracket)
		if berr != nil {
			return 0, 0, berr
		}
		return bracket, end - 1, nil
	}
	return 0, 0, errors.New(errors.ErrCodeInvalidManifest, "no dependency array found in target %q", desc.Name)
}

// spliceElement inserts entry as the last element of the array delimited
// by the brackets at open and close, keeping the result syntactically
// valid for empty arrays, single-line arrays, and multi-line arrays with
// or without a trailing comma.
func spliceElement(src string, open, closing int, entry string) string {
	inner := src[open+1 : closing]

	last := len(inner) - 1
	for last >= 0 && isSpace(inner[last]) {
		last--
	}

	if last < 0 {
		// Empty array: ["entry"].
		return src[:closing] + entry + src[closing:]
	}

	at := open + 1 + last + 1 // just past the last non-space byte
	if inner[last] == ',' {
		// Trailing comma: keep the style, add a line in kind.
		if strings.Contains(inner, "\n") {
			indent := lineIndent(src, lastElementStart(src, open+1+last))
			return src[:at] + "\n" + indent + entry + "," + src[at:]
		}
		return src[:at] + " " + entry + "," + src[at:]
	}
	return src[:at] + ", " + entry + src[at:]
}

// lastElementStart walks back from the trailing comma to the start of
// the last element, so its indentation can be reused.
func lastElementStart(src string, comma int) int {
	i := comma - 1
	for i > 0 && src[i] != '\n' && src[i] != '[' && src[i] != ',' {
		i--
	}
	for i < comma && isSpace(src[i]) {
		i++
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
