package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	numbersStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func (m appModel) renderHeader() string {
	header := fmt.Sprintf("sqid playground  [Mode: %s]  [min length %d, %d blocked words]",
		m.mode, m.codec.MinLength(), len(m.codec.Blocklist()))
	return headerStyle.Render(header)
}

func (m appModel) renderInput() string {
	prompt := "numbers> "
	if m.mode == modeDecode {
		prompt = "id> "
	}
	return inputStyle.Width(max(m.width-2, 0)).Render(prompt + m.input + "_")
}

func (m appModel) renderResult(r result) string {
	switch {
	case r.input == "":
		if r.mode == modeDecode {
			return dimStyle.Render("Type an ID to decode it.")
		}
		return dimStyle.Render("Type numbers separated by spaces or commas.")
	case r.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error: %v", r.err))
	case r.mode == modeEncode:
		return fmt.Sprintf("%s %s", idStyle.Render(r.id), dimStyle.Render(fmt.Sprintf("(%d chars)", len(r.id))))
	case len(r.numbers) == 0:
		return errorStyle.Render("Not a valid ID")
	default:
		return fmt.Sprintf("%s %s", numbersStyle.Render(formatNumbers(r.numbers)), renderCanonical(r.canonical))
	}
}

func renderCanonical(canonical bool) string {
	if canonical {
		return okStyle.Render("canonical")
	}
	return errorStyle.Render("not canonical")
}

func (m appModel) renderHistory() string {
	if len(m.history) == 0 {
		return dimStyle.Render("Press enter to pin a result.")
	}

	var b strings.Builder
	for _, r := range m.history {
		if r.mode == modeEncode {
			fmt.Fprintf(&b, " %s %s %s\n", numbersStyle.Render(formatNumbers(r.numbers)), dimStyle.Render("->"), idStyle.Render(r.id))
			continue
		}
		line := fmt.Sprintf(" %s %s %s", idStyle.Render(r.id), dimStyle.Render("->"), numbersStyle.Render(formatNumbers(r.numbers)))
		if len(r.numbers) > 0 && !r.canonical {
			line += " " + renderCanonical(false)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m appModel) renderStatusBar() string {
	var parts []string

	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}

	parts = append(parts, "[tab]mode [enter]pin [ctrl+u]clear [esc]quit")

	return statusBarStyle.Width(m.width).Render(strings.Join(parts, "  |  "))
}

func formatNumbers(numbers []uint64) string {
	if len(numbers) == 0 {
		return "[]"
	}
	return "[" + strings.Join(lo.Map(numbers, func(n uint64, _ int) string {
		return fmt.Sprint(n)
	}), " ") + "]"
}
