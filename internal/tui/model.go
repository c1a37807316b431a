package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"faqbot/internal/domain"
	"faqbot/internal/handoff"
)

var exitWords = map[string]struct{}{"salir": {}, "exit": {}, "quit": {}}

// IsExitWord reports whether the typed line ends the chat session.
func IsExitWord(s string) bool {
	_, ok := exitWords[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

type turn struct {
	question string
	outcome  domain.ChatOutcome
}

type answerMsg struct {
	outcome domain.ChatOutcome
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	answerer domain.Answerer
	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	summary  string
	status   string
	pending  bool
	ready    bool
}

// New creates a new chat model. summary is shown under the header.
func New(answerer domain.Answerer, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Escribe tu pregunta (salir para terminar)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{answerer: answerer, input: ti, viewport: vp, summary: summary, status: "Listo."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + summary, status, input box, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.refresh()
		return m, nil
	case answerMsg:
		m.pending = false
		m.turns = append(m.turns, turn{question: msg.outcome.Question, outcome: msg.outcome})
		if msg.outcome.TransferToAgent {
			m.status = "Transferido a un agente humano."
		} else {
			m.status = "Fuente: " + string(msg.outcome.Source)
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending {
				return m, nil
			}
			if IsExitWord(q) {
				return m, tea.Quit
			}
			m.input.SetValue("")
			m.pending = true
			m.status = fmt.Sprintf("Buscando respuesta para %q...", q)
			return m, m.ask(q)
		}
		switch msg.String() {
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(q string) tea.Cmd {
	answerer := m.answerer
	return func() tea.Msg {
		return answerMsg{outcome: answerer.Answer(context.Background(), q)}
	}
}

// View renders the TUI layout and the transcript.
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("FAQ Bot")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.turns))
	m.viewport.GotoBottom()
}

func renderTranscript(turns []turn) string {
	if len(turns) == 0 {
		return "Sin mensajes todavía."
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(userStyle.Render("Tú: ") + t.question + "\n")
		b.WriteString(botStyle.Render("Bot: ") + highlightQueryTerms(t.outcome.Answer, t.question) + "\n")
		b.WriteString(sourceStyle.Render("Fuente: " + string(t.outcome.Source)))
		if t.outcome.TransferToAgent {
			b.WriteString("\n" + transferStyle.Render("Transferencia: "+t.outcome.TransferReason))
			b.WriteString("\n" + sourceStyle.Render(handoff.StatusConnecting+" Tiempo estimado de espera: "+handoff.EstimatedWait))
		}
	}
	return b.String()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	transferStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	unicodeWordRe      = regexp.MustCompile(`\p{L}+`)
)

// highlightQueryTerms emphasizes words of the answer that also appear in the
// question. Words shorter than four letters are left alone.
func highlightQueryTerms(text, query string) string {
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return text
	}
	return unicodeWordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := qTokens[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if len([]rune(t)) < 4 {
			continue
		}
		m[t] = struct{}{}
	}
	return m
}
