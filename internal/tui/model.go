package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"insight/internal/domain"
	"insight/internal/store"
)

// InsightPort is the TUI-facing subset of the pipeline.
type InsightPort interface {
	Categories() []string
	Keywords(ctx context.Context, category string, polarity domain.Polarity) (*domain.ImportanceResult, error)
	OverallKeywords(ctx context.Context) (domain.OverallKeywordSet, error)
	SectionRanking(ctx context.Context) (*domain.SectionImportanceRanking, error)
	AnalyzeSentiment(text string) domain.SentimentResult
}

// Model is the Bubble Tea model for the insight browser.
type Model struct {
	service  InsightPort
	input    textinput.Model
	viewport viewport.Model
	summary  string
	status   string

	categories []string
	cursor     int
	polarity   domain.Polarity
	ready      bool
}

// New creates a new TUI model instance.
func New(service InsightPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type text and press Enter for sentiment"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:    service,
		input:      ti,
		viewport:   vp,
		summary:    summary,
		status:     "Loaded. Up/down picks a category, tab flips polarity, ctrl+o overall, ctrl+r ranking.",
		categories: service.Categories(),
		polarity:   domain.PolarityStrength,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and input boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCategory())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				result := m.service.AnalyzeSentiment(text)
				m.status = fmt.Sprintf("%s (compound=%.3f confidence=%.2f)", result.Label, result.Compound, result.Confidence)
				m.input.SetValue("")
				return m, nil
			}
		case "tab":
			if m.polarity == domain.PolarityStrength {
				m.polarity = domain.PolarityLacking
			} else {
				m.polarity = domain.PolarityStrength
			}
			m.viewport.SetContent(m.renderCategory())
			return m, nil
		case "down":
			m.cursor = (m.cursor + 1) % len(m.categories)
			m.viewport.SetContent(m.renderCategory())
			return m, nil
		case "up":
			m.cursor = (m.cursor - 1 + len(m.categories)) % len(m.categories)
			m.viewport.SetContent(m.renderCategory())
			return m, nil
		case "ctrl+o":
			m.viewport.SetContent(m.renderOverall())
			return m, nil
		case "ctrl+r":
			m.viewport.SetContent(m.renderRanking())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and the current panel.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Feedback Insight")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCategory() string {
	category := m.categories[m.cursor]
	title := fmt.Sprintf("%s  [%s]  (%d/%d)", category, m.polarity, m.cursor+1, len(m.categories))
	result, err := m.service.Keywords(context.Background(), category, m.polarity)
	if errors.Is(err, store.ErrNotFound) {
		return title + "\n\nNo trained result. Not enough records in this bucket."
	}
	if err != nil {
		return title + "\n\nError: " + err.Error()
	}
	var b strings.Builder
	b.WriteString(title + "\n\n")
	for i, kw := range result.Keywords {
		fmt.Fprintf(&b, "%d. %s  %s\n", i+1, keywordStyle.Render(kw.Word), fmt.Sprintf("%.4f", kw.Score))
	}
	fmt.Fprintf(&b, "\nsamples=%d  r2=%.3f  mae=%.3f  rmse=%.3f", result.SampleSize, result.R2, result.MAE, result.RMSE)
	return b.String()
}

func (m Model) renderOverall() string {
	keywords, err := m.service.OverallKeywords(context.Background())
	if err != nil {
		return "Overall keywords\n\nNot available yet."
	}
	var b strings.Builder
	b.WriteString("Overall keywords\n\n")
	for i, kw := range keywords {
		fmt.Fprintf(&b, "%d. %s  %.4f\n", i+1, keywordStyle.Render(kw.Word), kw.Score)
	}
	return b.String()
}

func (m Model) renderRanking() string {
	ranking, err := m.service.SectionRanking(context.Background())
	if err != nil {
		return "Section importance\n\nNot available yet."
	}
	var b strings.Builder
	b.WriteString("Section importance\n\n")
	for i, category := range ranking.SortedCategories {
		fmt.Fprintf(&b, "%d. %-28s %.4f\n", i+1, category, ranking.Importance[category])
	}
	fmt.Fprintf(&b, "\nr2=%.3f  mae=%.3f", ranking.R2, ranking.MAE)
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	keywordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
