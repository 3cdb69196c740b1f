package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/calebmaier/swiftadd/pkg/manifest"
)

// promptAnswer is one decoded answer from the per-target prompt.
type promptAnswer int

const (
	answerYes promptAnswer = iota
	answerNo
	answerQuit
	answerHelp
	answerInvalid
)

// parseAnswer decodes a single prompt line. Empty input defaults to
// yes so that pressing enter accepts each target.
func parseAnswer(line string) promptAnswer {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return answerYes
	case "n", "no":
		return answerNo
	case "q", "quit":
		return answerQuit
	case "?", "h", "help":
		return answerHelp
	default:
		return answerInvalid
	}
}

const promptHelp = `  y - add the dependency to this target
  n - skip this target
  q - stop asking; keep the targets accepted so far
  ? - show this help`

// selectTargetsPrompt asks y/n for each target in order, reading
// answers from r and writing prompts to w. Quitting keeps the targets
// accepted before the quit.
func selectTargetsPrompt(r io.Reader, w io.Writer, targets []manifest.TargetDescriptor) ([]string, error) {
	reader := bufio.NewReader(r)
	var accepted []string

	for _, t := range targets {
		kind := "target"
		if t.Test {
			kind = "test target"
		}

	ask:
		for {
			fmt.Fprintf(w, "Add to %s %s? [Y/n/q/?] ", kind, StyleHighlight.Render(t.Name))

			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				if err == io.EOF {
					return accepted, nil
				}
				return nil, err
			}

			switch parseAnswer(line) {
			case answerYes:
				accepted = append(accepted, t.Name)
				break ask
			case answerNo:
				break ask
			case answerQuit:
				return accepted, nil
			case answerHelp:
				fmt.Fprintln(w, promptHelp)
			default:
				fmt.Fprintln(w, StyleDim.Render("  please answer y, n, q, or ?"))
			}
		}
	}

	return accepted, nil
}
