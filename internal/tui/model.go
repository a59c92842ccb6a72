package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

// ChatPort is the TUI-facing subset of the chat session.
type ChatPort interface {
	Ask(question string) (answer string, sources []string, broadened bool, err error)
	History() []domain.Turn
	Reset() error
	Save() error
}

// Model is the Bubble Tea model for the interactive chat.
type Model struct {
	port     ChatPort
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	status   string
	ready    bool
	waiting  bool
}

// answerMsg carries one completed ask round back into the update loop.
type answerMsg struct {
	question string
	answer   string
	sources  []string
	broad    bool
	err      error
}

// New creates a new chat model instance.
func New(port ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = ">> "
	ti.Placeholder = "Ask about the transcripts ('history', 'reset', 'exit')"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{port: port, input: ti, viewport: vp, status: "Memory loaded. Type a question."}
	for _, t := range port.History() {
		m.lines = append(m.lines, renderTurn(t))
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.refresh()
		return m, nil
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.refresh()
			return m, nil
		}
		m.lines = append(m.lines,
			renderTurn(domain.Turn{Role: domain.RoleUser, Text: msg.question}),
			renderTurn(domain.Turn{Role: domain.RoleAssistant, Text: msg.answer}),
		)
		if len(msg.sources) > 0 {
			m.lines = append(m.lines, sourceStyle.Render("sources: "+strings.Join(msg.sources, ", ")))
		}
		if msg.broad {
			m.status = "No exact metadata match; answered from broader context."
		} else {
			m.status = "Answered."
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			_ = m.port.Save()
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.SetValue("")
			switch strings.ToLower(q) {
			case "exit":
				if err := m.port.Save(); err != nil {
					m.status = "Error saving memory: " + err.Error()
					m.refresh()
					return m, nil
				}
				return m, tea.Quit
			case "reset":
				if err := m.port.Reset(); err != nil {
					m.status = "Error: " + err.Error()
				} else {
					m.lines = nil
					m.status = "Memory cleared."
				}
				m.refresh()
				return m, nil
			case "history":
				m.lines = nil
				for _, t := range m.port.History() {
					m.lines = append(m.lines, renderTurn(t))
				}
				m.status = "Chat history."
				m.refresh()
				return m, nil
			}
			m.waiting = true
			m.status = "Thinking..."
			port := m.port
			return m, func() tea.Msg {
				answer, sources, broad, err := port.Ask(q)
				return answerMsg{question: q, answer: answer, sources: sources, broad: broad, err: err}
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("MNC Insights Chat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	if len(m.lines) == 0 {
		m.viewport.SetContent("No conversation yet.")
	} else {
		m.viewport.SetContent(strings.Join(m.lines, "\n\n"))
	}
	m.viewport.GotoBottom()
}

func renderTurn(t domain.Turn) string {
	if t.Role == domain.RoleUser {
		return userStyle.Render("You: ") + t.Text
	}
	return assistantStyle.Render("RAG: ") + t.Text
}

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
