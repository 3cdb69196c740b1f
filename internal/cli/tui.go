package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calebmaier/swiftadd/pkg/manifest"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// TargetListModel is the bubbletea model for interactive target
// selection. Space toggles the target under the cursor, enter confirms
// the current set, and q quits keeping whatever was already checked.
type TargetListModel struct {
	Targets   []manifest.TargetDescriptor
	Cursor    int
	Checked   map[int]bool
	Confirmed bool
}

// NewTargetListModel creates a target list model with test targets
// unchecked and all other targets pre-checked.
func NewTargetListModel(targets []manifest.TargetDescriptor) TargetListModel {
	checked := make(map[int]bool, len(targets))
	for i, t := range targets {
		checked[i] = !t.Test
	}
	return TargetListModel{Targets: targets, Checked: checked}
}

func (m TargetListModel) Init() tea.Cmd {
	return nil
}

func (m TargetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Confirmed = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Targets)-1 {
				m.Cursor++
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Targets {
				m.Checked[i] = true
			}
		case "n":
			for i := range m.Targets {
				m.Checked[i] = false
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m TargetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Targets"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  n none  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	for i, t := range m.Targets {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		box := "[ ]"
		if m.Checked[i] {
			box = "[x]"
		}

		kind := ""
		if t.Test {
			kind = listDimStyle.Render("  test")
		}

		line := fmt.Sprintf("%s%s %s%s", cursor, box, t.Name, kind)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if m.Checked[i] {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d selected]", m.selectedCount(), len(m.Targets))))

	return b.String()
}

func (m TargetListModel) selectedCount() int {
	n := 0
	for _, on := range m.Checked {
		if on {
			n++
		}
	}
	return n
}

// Selected returns the checked target names in declaration order.
func (m TargetListModel) Selected() []string {
	var out []string
	for i, t := range m.Targets {
		if m.Checked[i] {
			out = append(out, t.Name)
		}
	}
	return out
}

// selectTargetsTUI runs the interactive target picker and returns the
// chosen target names.
func selectTargetsTUI(targets []manifest.TargetDescriptor) ([]string, error) {
	p := tea.NewProgram(NewTargetListModel(targets))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	fm, ok := final.(TargetListModel)
	if !ok {
		return nil, nil
	}
	return fm.Selected(), nil
}
