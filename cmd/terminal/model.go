package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/core"
	"github.com/sevigo/review-mate/internal/github"
	"github.com/sevigo/review-mate/internal/llm"
	"github.com/sevigo/review-mate/internal/review"
)

const asciiLogo = `
╔══════════════════════════════════════════════════════════╗
║   ██████╗ ███████╗██╗   ██╗██╗███████╗██╗    ██╗         ║
║   ██╔══██╗██╔════╝██║   ██║██║██╔════╝██║    ██║         ║
║   ██████╔╝█████╗  ██║   ██║██║█████╗  ██║ █╗ ██║         ║
║   ██╔══██╗██╔══╝  ╚██╗ ██╔╝██║██╔══╝  ██║███╗██║         ║
║   ██║  ██║███████╗ ╚████╔╝ ██║███████╗╚███╔███╔╝ MATE    ║
║   ╚═╝  ╚═╝╚══════╝  ╚═══╝  ╚═╝╚══════╝ ╚══╝╚══╝          ║
╚══════════════════════════════════════════════════════════╝
`

const eventBuffer = 16

type model struct {
	styles  styles
	cfg     *config.Config
	project *config.ProjectConfig

	language string
	session  core.GithubSession

	// UI components
	editor     textarea.Model
	suggestion viewport.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer

	// Review plumbing
	reviewer   llm.Reviewer
	controller *review.Controller
	events     chan tea.Msg

	// Session state
	ready      bool
	reviewing  bool
	publishing bool
	current    *core.ReviewSuggestion
	status     string
	lastText   string
}

func initialModel(cfg *config.Config, project *config.ProjectConfig, theme ThemeName, language, initialCode string, session core.GithubSession) *model {
	st := GetTheme(theme)

	ed := textarea.New()
	ed.Placeholder = "Paste or type code; a review starts after you pause..."
	ed.Focus()
	ed.CharLimit = core.MaxCodeLength
	ed.SetWidth(60)
	ed.SetHeight(12)
	ed.ShowLineNumbers = true
	if initialCode != "" {
		ed.SetValue(initialCode)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = st.prompt

	return &model{
		styles:      st,
		cfg:         cfg,
		project:     project,
		language: language,
		session:  session,
		editor:   ed,
		spinner:  sp,
		events:   make(chan tea.Msg, eventBuffer),
		status:   "connecting to model...",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(initReviewerCmd(m.cfg), waitForReviewCmd(m.events), m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		edCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.editor, edCmd = m.editor.Update(msg)
	m.suggestion, vpCmd = m.suggestion.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.controller != nil {
				m.controller.Close()
			}
			return m, tea.Quit
		case tea.KeyCtrlA:
			return m, m.acceptSuggestion()
		case tea.KeyCtrlD:
			m.declineSuggestion()
			return m, nil
		case tea.KeyCtrlL:
			m.cycleLanguage()
			return m, nil
		case tea.KeyCtrlP:
			return m, m.publishSuggestion()
		}
		m.notifyEdit()

	case reviewerReadyMsg:
		if msg.err != nil {
			m.status = "model unavailable: " + msg.err.Error()
			return m, nil
		}
		m.reviewer = msg.reviewer
		m.controller = review.NewController(m.reviewer, m.callbacks(), newTerminalLogger(m.cfg))
		m.ready = true
		m.status = "ready"
		m.notifyEdit()

	case reviewingMsg:
		m.reviewing = bool(msg)
		if m.reviewing {
			m.status = "reviewing..."
		}
		return m, tea.Batch(waitForReviewCmd(m.events), m.spinner.Tick)

	case suggestionMsg:
		m.reviewing = false
		m.current = msg.suggestion
		m.status = "suggestion ready (ctrl+a accept, ctrl+d decline, ctrl+p publish)"
		m.renderSuggestion()
		return m, waitForReviewCmd(m.events)

	case reviewFailedMsg:
		m.reviewing = false
		m.status = "review failed: " + msg.err.Error()
		return m, waitForReviewCmd(m.events)

	case publishDoneMsg:
		m.publishing = false
		if msg.err != nil {
			m.status = "publish failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("pull request #%d opened: %s", msg.pr.Number, msg.pr.URL)
			m.current = nil
			m.suggestion.SetContent("")
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
	}

	return m, tea.Batch(edCmd, vpCmd, spCmd)
}

func (m *model) View() string {
	header := m.styles.ascii.Render(asciiLogo)

	suggestionPane := m.styles.viewport.Render(m.suggestion.View())
	if m.current == nil && !m.reviewing {
		suggestionPane = m.styles.inactive.Render("\n  No suggestion yet. Keep typing.\n")
	}

	var indicator string
	if m.reviewing || m.publishing {
		indicator = " " + m.spinner.View()
	}

	statusParts := []string{
		fmt.Sprintf("LANG: %s", m.language),
	}
	if m.project.Owner != "" && m.project.Repo != "" {
		statusParts = append(statusParts, fmt.Sprintf("TARGET: %s/%s:%s", m.project.Owner, m.project.Repo, m.project.FilePath))
	}
	if m.ready {
		statusParts = append(statusParts, fmt.Sprintf("MODEL: %s (%s)", m.cfg.GeneratorModelName, m.cfg.LLMProvider))
	}
	if m.session.Connected() {
		statusParts = append(statusParts, m.styles.success.Render("● GITHUB"))
	} else {
		statusParts = append(statusParts, m.styles.inactive.Render("○ GITHUB"))
	}
	statusBar := m.styles.inactive.Render(strings.Join(statusParts, " │ "))

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			m.editor.View(),
			"",
			suggestionPane,
			m.styles.footer.Render(m.styles.command.Render(m.status)+indicator),
			statusBar,
		),
	)
}

// callbacks forwards controller events into the message channel. The channel
// is buffered so the controller never blocks behind a slow redraw.
func (m *model) callbacks() review.Callbacks {
	return review.Callbacks{
		OnReviewing:  func(reviewing bool) { m.events <- reviewingMsg(reviewing) },
		OnSuggestion: func(s *core.ReviewSuggestion) { m.events <- suggestionMsg{suggestion: s} },
		OnError:      func(err error) { m.events <- reviewFailedMsg{err: err} },
	}
}

// notifyEdit feeds the editor state to the debounce controller when the text
// actually changed.
func (m *model) notifyEdit() {
	if m.controller == nil {
		return
	}
	text := m.editor.Value()
	if text == m.lastText {
		return
	}
	m.lastText = text
	m.controller.OnEdit(text, m.language)
}

// acceptSuggestion replaces the editor contents with the improved code.
func (m *model) acceptSuggestion() tea.Cmd {
	if m.current == nil {
		m.status = "nothing to accept"
		return nil
	}
	m.editor.SetValue(m.current.ImprovedCode)
	m.lastText = m.current.ImprovedCode
	m.status = "suggestion accepted"
	return nil
}

// declineSuggestion discards the current suggestion without touching the
// editor.
func (m *model) declineSuggestion() {
	if m.current == nil {
		m.status = "nothing to decline"
		return
	}
	m.current = nil
	m.suggestion.SetContent("")
	m.status = "suggestion declined"
}

// cycleLanguages is the rotation order for ctrl+l.
var cycleLanguages = []string{"go", "javascript", "typescript", "python", "java", "rust", "plaintext"}

// cycleLanguage advances to the next language and re-arms the debounce for
// the current editor contents.
func (m *model) cycleLanguage() {
	next := cycleLanguages[0]
	for i, lang := range cycleLanguages {
		if lang == m.language {
			next = cycleLanguages[(i+1)%len(cycleLanguages)]
			break
		}
	}
	m.language = next
	m.status = "language: " + m.language

	if m.controller != nil {
		m.lastText = m.editor.Value()
		m.controller.OnEdit(m.lastText, m.language)
	}
}

// publishSuggestion opens a pull request for the current suggestion using the
// repository coordinates from the project config.
func (m *model) publishSuggestion() tea.Cmd {
	if m.current == nil {
		m.status = "nothing to publish"
		return nil
	}
	token, ok := m.session.Token()
	if !ok {
		m.status = "publish requires a GitHub token (set GITHUB_TOKEN)"
		return nil
	}
	if m.project.Owner == "" || m.project.Repo == "" || m.project.FilePath == "" {
		m.status = "publish requires owner, repo, and file_path in " + config.ProjectConfigFileName
		return nil
	}

	m.publishing = true
	m.status = "publishing..."
	return tea.Batch(m.spinner.Tick, publishCmd(m.cfg, github.PublishRequest{
		AccessToken:  token,
		Owner:        m.project.Owner,
		Repo:         m.project.Repo,
		FilePath:     m.project.FilePath,
		ImprovedCode: m.current.ImprovedCode,
		Category:     string(m.current.Category),
		Explanation:  m.current.Explanation,
	}))
}

// renderSuggestion formats the current suggestion as markdown and renders it
// with glamour into the viewport.
func (m *model) renderSuggestion() {
	if m.current == nil {
		return
	}

	md := fmt.Sprintf("## %s\n\n%s\n\n```%s\n%s\n```\n",
		m.current.Category, m.current.Explanation, m.language, m.current.ImprovedCode)

	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			m.suggestion.SetContent(rendered)
			m.suggestion.GotoTop()
			return
		}
	}
	m.suggestion.SetContent(md)
	m.suggestion.GotoTop()
}

func (m *model) layout(width, height int) {
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	m.editor.SetWidth(contentWidth)
	editorHeight := height / 3
	if editorHeight < 5 {
		editorHeight = 5
	}
	m.editor.SetHeight(editorHeight)

	m.suggestion.Width = contentWidth
	suggestionHeight := height - editorHeight - 14
	if suggestionHeight < 5 {
		suggestionHeight = 5
	}
	m.suggestion.Height = suggestionHeight

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(contentWidth),
	)
	if err == nil {
		m.renderer = renderer
		m.renderSuggestion()
	}
}
