// Package tui is the optional interactive results browser for
// `analyze-all --tui` (spec section 6), adapted from the teacher's chat
// TUI: same bubbletea/bubbles/lipgloss/harmonica stack, repurposed from a
// scrolling chat log into a scrollable clean/dirty verdict list.
package tui

import (
	"fmt"
	"time"

	"github.com/blackcoderx/difftests/pkg/analyzer"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// row is one analyzer.Result flattened for display.
type row struct {
	binPath  string
	verdict  analyzer.Verdict
	evidence int
	errMsg   string
}

// Model is the bubbletea model for the results browser.
type Model struct {
	rows   []row
	cursor int
	width  int
	height int

	spinner  spinner.Model
	spinning bool // true while any test's verdict couldn't be determined

	// animSpring pulses the dirty counter in the header, mirroring the
	// predecessor's thinking-indicator animation.
	animSpring harmonica.Spring
	animPos    float64
	animVel    float64
	animTarget float64
}

// New builds a Model from a finished analyzer run. It does not itself
// invoke AnalyzeAll or any rerunner: the browser is a read-only view over
// results the caller already computed.
func New(results []analyzer.Result) Model {
	rows := make([]row, len(results))
	spinning := false
	for i, r := range results {
		rows[i] = row{binPath: r.Desc.BinPath, verdict: r.Verdict, evidence: len(r.Evidence), errMsg: r.Err}
		if r.Err != "" {
			spinning = true
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	return Model{
		rows:       rows,
		spinner:    sp,
		spinning:   spinning,
		animSpring: harmonica.NewSpring(harmonica.FPS(30), 6.0, 0.35),
		animTarget: 1.0,
	}
}

type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return animTickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, animTick()}
	if m.spinning {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			m.cursor = len(m.rows) - 1
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case animTickMsg:
		m.animPos, m.animVel = m.animSpring.Update(m.animPos, m.animVel, m.animTarget)
		return m, animTick()

	case spinner.TickMsg:
		if !m.spinning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	clean, dirty, failed := 0, 0, 0
	for _, r := range m.rows {
		switch {
		case r.errMsg != "":
			failed++
		case r.verdict == analyzer.Dirty:
			dirty++
		default:
			clean++
		}
	}

	pulse := int(m.animPos * 3)
	marker := ""
	if dirty > 0 {
		marker = dirtyStyle.Render(fmt.Sprintf(" %s", pulseGlyph(pulse)))
	}

	header := titleStyle.Render("difftests") + subtitleStyle.Render(fmt.Sprintf(
		"%d clean · %d dirty · %d failed%s", clean, dirty, failed, marker))

	var body string
	if len(m.rows) == 0 {
		body = subtitleStyle.Render("no test directories found")
	} else {
		for i, r := range m.rows {
			line := renderRow(r)
			if i == m.cursor {
				line = selectedStyle.Render(stripForSelection(r))
			}
			body += line + "\n"
		}
	}

	help := helpStyle.Render("↑/↓ or j/k to move · q to quit")

	content := containerStyle.Width(widthOr(m.width, 72)).Render(header + "\n\n" + body)
	return content + "\n" + help
}

func renderRow(r row) string {
	switch {
	case r.errMsg != "":
		return errStyle.Render(fmt.Sprintf("  ! %s (%s)", r.binPath, r.errMsg))
	case r.verdict == analyzer.Dirty:
		return dirtyStyle.Render(fmt.Sprintf("  ✗ %s (%d touched)", r.binPath, r.evidence))
	default:
		return cleanStyle.Render(fmt.Sprintf("  ✓ %s", r.binPath))
	}
}

func stripForSelection(r row) string {
	switch {
	case r.errMsg != "":
		return fmt.Sprintf("> ! %s (%s)", r.binPath, r.errMsg)
	case r.verdict == analyzer.Dirty:
		return fmt.Sprintf("> ✗ %s (%d touched)", r.binPath, r.evidence)
	default:
		return fmt.Sprintf("> ✓ %s", r.binPath)
	}
}

func pulseGlyph(phase int) string {
	glyphs := []string{"·", "•", "●"}
	if phase < 0 {
		phase = -phase
	}
	return glyphs[phase%len(glyphs)]
}

func widthOr(w, fallback int) int {
	if w <= 0 {
		return fallback
	}
	if w > fallback {
		return fallback
	}
	return w
}

// Run starts the results browser over results. It blocks until the user
// quits.
func Run(results []analyzer.Result) error {
	p := tea.NewProgram(New(results), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
