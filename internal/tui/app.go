package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bunchhieng/sqid/internal/cli"
	"github.com/bunchhieng/sqid/pkg/sqids"
)

const maxHistory = 8

type mode int

const (
	modeEncode mode = iota
	modeDecode
)

func (m mode) String() string {
	if m == modeDecode {
		return "Decode"
	}
	return "Encode"
}

type appModel struct {
	codec     *sqids.Sqids
	mode      mode
	input     string
	history   []result
	width     int
	height    int
	statusMsg string
}

// result is what the current input evaluates to in the current mode.
type result struct {
	mode      mode
	input     string
	id        string
	numbers   []uint64
	canonical bool
	err       error
}

type statusMsg struct {
	message string
}

func initialModel(codec *sqids.Sqids) appModel {
	return appModel{
		codec:  codec,
		mode:   modeEncode,
		width:  80,
		height: 24,
	}
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit

		case "tab":
			if m.mode == modeEncode {
				m.mode = modeDecode
			} else {
				m.mode = modeEncode
			}
			m.input = ""
			return m, setStatus(fmt.Sprintf("%s mode", m.mode))

		case "enter":
			cmd := m.pin()
			return m, cmd

		case "backspace":
			_, size := utf8.DecodeLastRuneInString(m.input)
			m.input = m.input[:len(m.input)-size]
			return m, nil

		case "ctrl+u":
			m.input = ""
			return m, nil

		default:
			if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
				m.input += string(msg.Runes)
			}
			return m, nil
		}

	case statusMsg:
		m.statusMsg = msg.message
		if msg.message == "" {
			return m, nil
		}
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return statusMsg{""}
		})
	}

	return m, nil
}

func (m appModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderResult(m.evaluate()))
	b.WriteString("\n\n")
	b.WriteString(m.renderHistory())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// pin moves the current result into the history.
func (m *appModel) pin() tea.Cmd {
	if strings.TrimSpace(m.input) == "" {
		return nil
	}
	r := m.evaluate()
	if r.err != nil {
		return setStatus(fmt.Sprintf("Error: %v", r.err))
	}
	m.history = append([]result{r}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
	m.input = ""
	return setStatus("Pinned")
}

func (m appModel) evaluate() result {
	r := result{mode: m.mode, input: strings.TrimSpace(m.input)}
	if r.input == "" {
		return r
	}

	if m.mode == modeEncode {
		numbers, err := cli.ParseNumbers([]string{r.input})
		if err != nil {
			r.err = err
			return r
		}
		r.numbers = numbers
		r.id, r.err = m.codec.Encode(numbers)
		r.canonical = r.err == nil
		return r
	}

	r.id = r.input
	r.numbers = m.codec.Decode(r.input)
	if len(r.numbers) > 0 {
		canonical, err := m.codec.Encode(r.numbers)
		r.canonical = err == nil && canonical == r.input
	}
	return r
}

func setStatus(message string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message}
	}
}

// Run starts the playground for codec.
func Run(codec *sqids.Sqids) error {
	p := tea.NewProgram(initialModel(codec), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
