package picker

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

const defaultHeight = 15

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TUI is an interactive fuzzy picker running in the terminal.
type TUI struct {
	in  io.Reader
	out io.Writer
}

// NewTUI returns a picker reading keys from stdin and drawing on stderr, so
// stdout stays free for command output.
func NewTUI() *TUI {
	return &TUI{in: os.Stdin, out: os.Stderr}
}

// Pick runs the picker until the user confirms or cancels.
func (t *TUI) Pick(ctx context.Context, lines []string, multi bool) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	p := tea.NewProgram(newModel(lines, multi),
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	return final.(model).result(), nil
}

type model struct {
	input    textinput.Model
	lines    []string
	matches  []int // indices into lines, best match first
	cursor   int
	selected map[int]bool
	multi    bool
	height   int

	confirmed bool
}

func newModel(lines []string, multi bool) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("> ")
	ti.Placeholder = "type to filter"
	ti.Focus()

	m := model{
		input:    ti,
		lines:    lines,
		selected: make(map[int]bool),
		multi:    multi,
		height:   defaultHeight,
	}
	m.filter()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if h := msg.Height - 3; h > 0 {
			m.height = h
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.confirmed = false
			m.selected = make(map[int]bool)
			return m, tea.Quit
		case "enter":
			m.confirmed = true
			if len(m.selected) == 0 && len(m.matches) > 0 {
				m.selected[m.matches[m.cursor]] = true
			}
			return m, tea.Quit
		case "tab":
			if m.multi && len(m.matches) > 0 {
				idx := m.matches[m.cursor]
				if m.selected[idx] {
					delete(m.selected, idx)
				} else {
					m.selected[idx] = true
				}
				m.move(1)
			}
			return m, nil
		case "up", "ctrl+p", "ctrl+k":
			m.move(-1)
			return m, nil
		case "down", "ctrl+n", "ctrl+j":
			m.move(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter()
	}
	return m, cmd
}

func (m *model) move(delta int) {
	if len(m.matches) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + delta + len(m.matches)) % len(m.matches)
}

// filter recomputes the matches for the current query.
func (m *model) filter() {
	query := m.input.Value()
	m.matches = make([]int, 0, len(m.lines))
	if query == "" {
		for i := range m.lines {
			m.matches = append(m.matches, i)
		}
	} else {
		for _, match := range fuzzy.Find(query, m.lines) {
			m.matches = append(m.matches, match.Index)
		}
	}
	if m.cursor >= len(m.matches) {
		m.cursor = 0
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	start := 0
	if m.cursor >= m.height {
		start = m.cursor - m.height + 1
	}
	for i := start; i < len(m.matches) && i < start+m.height; i++ {
		idx := m.matches[i]
		mark := "  "
		if m.selected[idx] {
			mark = selectedStyle.Render("* ")
		}
		text := display(m.lines[idx])
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + mark + cursorStyle.Render(text))
		} else {
			b.WriteString("  " + mark + text)
		}
		b.WriteString("\n")
	}

	help := "enter: confirm  esc: cancel"
	if m.multi {
		help = "tab: toggle  " + help
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d/%d  %s", len(m.matches), len(m.lines), help)))
	return b.String()
}

// display drops the invisible separator so terminals that render it do not
// show a stray glyph.
func display(line string) string {
	return strings.ReplaceAll(line, Separator, "")
}

// result returns the chosen lines in their original order.
func (m model) result() []string {
	if !m.confirmed {
		return nil
	}
	idx := make([]int, 0, len(m.selected))
	for i := range m.selected {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = m.lines[j]
	}
	return out
}
