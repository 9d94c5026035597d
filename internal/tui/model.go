// Package tui implements the interactive ask session: a single ingested
// document, a query prompt, and a scrollable view of the grounded answer.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheus-rech/docling-rag/internal/confidence"
	"github.com/matheus-rech/docling-rag/internal/engine"
	"github.com/matheus-rech/docling-rag/internal/grounding"
)

// Asker is the TUI-facing slice of the engine.
type Asker interface {
	Ask(ctx context.Context, query string, k int) (*engine.Answer, error)
}

// Model is the Bubble Tea model for the ask session.
type Model struct {
	asker    Asker
	input    textinput.Model
	viewport viewport.Model
	answer   *engine.Answer
	summary  string
	status   string
	cursor   int
	ready    bool
	topK     int
}

// New creates a model over an ingested document. summary describes the
// document (name, chunk count) and is shown in the header.
func New(asker Asker, summary string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	if topK < 1 {
		topK = 5
	}
	return Model{
		asker:    asker,
		input:    ti,
		viewport: viewport.New(0, 0),
		summary:  summary,
		status:   "Ready.",
		topK:     topK,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 3 + qh + 1 // header, summary, status, query box, spacer
		vh := msg.Height - reserved - rh
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			ans, err := m.asker.Ask(context.Background(), q, m.topK)
			if err != nil {
				m.status = "Error: " + err.Error()
				m.answer = nil
			} else {
				m.status = fmt.Sprintf("Answer for %q", q)
				m.answer = ans
				m.cursor = 0
			}
			m.viewport.SetContent(m.renderAnswer())
			return m, nil
		case "down":
			if m.answer != nil && len(m.answer.Results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.answer.Results)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "up":
			if m.answer != nil && len(m.answer.Results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.answer.Results)) % len(m.answer.Results)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docrag ask")
	summary := dimStyle.Render(m.summary)
	body := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet. Type a question above."
	}
	a := m.answer
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Answer"))
	b.WriteString("\n")
	b.WriteString(a.Text)
	b.WriteString("\n\n")

	b.WriteString(FormatConfidence(a.Confidence))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(FormatRegion(a.Region)))
	b.WriteString("\n\n")

	if len(a.Results) > 0 {
		r := a.Results[m.cursor]
		b.WriteString(dimStyle.Render(fmt.Sprintf("Chunk %d/%d  %s  page %d  score=%.3f",
			m.cursor+1, len(a.Results), r.Chunk.ID, r.Chunk.Page, r.Score)))
		b.WriteString("\n")
		b.WriteString(r.Chunk.Text)
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// FormatConfidence renders the score with a bucket-colored label.
func FormatConfidence(s confidence.Score) string {
	label := fmt.Sprintf("%s (%.2f)", s.Bucket, s.Value)
	switch s.Bucket {
	case confidence.BucketHigh:
		return highStyle.Render(label)
	case confidence.BucketMedium:
		return mediumStyle.Render(label)
	default:
		return lowStyle.Render(label)
	}
}

// FormatRegion renders a grounded region as "page N @ (x,y) WxH".
func FormatRegion(r grounding.Region) string {
	return fmt.Sprintf("page %d @ (%.0f,%.0f) %.0fx%.0f", r.Page, r.X, r.Y, r.Width, r.Height)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
