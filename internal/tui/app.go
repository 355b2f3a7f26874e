package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tidechat/internal/chat"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Sender forwards a message plus trailing history to the remote workflow.
type Sender interface {
	Send(ctx context.Context, text string, history []chat.Message) (string, error)
}

// Model is the main TUI state: session strip on top, transcript viewport in
// the middle, textarea at the bottom. One send is in flight at a time; the
// loading flag swallows further sends until the reply lands.
type Model struct {
	store    *chat.Store
	sender   Sender
	theme    Theme
	markdown *MarkdownRenderer
	keys     keyMap

	input    textarea.Model
	viewport viewport.Model

	width      int
	height     int
	loading    bool
	spinnerPos int
	notice     string
	showHelp   bool
}

type replyMsg struct {
	sessionID string
	text      string
	err       error
}

type spinMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func New(store *chat.Store, sender Sender, theme Theme) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message… (enter to send)"
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetWidth(76)
	ta.SetHeight(3)
	ta.Prompt = "▍ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	vp := viewport.New(76, 18)

	m := &Model{
		store:    store,
		sender:   sender,
		theme:    theme,
		markdown: NewMarkdownRenderer(theme),
		keys:     defaultKeyMap(),
		input:    ta,
		viewport: vp,
		width:    80,
		height:   24,
	}
	m.refreshTranscript()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 6)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 11
		if m.viewport.Height < 4 {
			m.viewport.Height = 4
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Send):
			return m, m.submit()
		case key.Matches(msg, m.keys.NewSession):
			m.store.CreateSession()
			m.notice = ""
			m.refreshTranscript()
			return m, nil
		case key.Matches(msg, m.keys.NextSession):
			m.selectNextSession()
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			m.store.DeleteSession(m.store.CurrentID())
			m.notice = ""
			m.refreshTranscript()
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.theme = NextTheme(m.theme)
			m.markdown.SetTheme(m.theme)
			m.refreshTranscript()
			return m, nil
		case key.Matches(msg, m.keys.Export):
			m.exportCurrent()
			return m, nil
		case key.Matches(msg, m.keys.Like):
			m.feedbackLastReply(true)
			return m, nil
		case key.Matches(msg, m.keys.Dislike):
			m.feedbackLastReply(false)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}

	case replyMsg:
		m.loading = false
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			sess := m.sessionByID(msg.sessionID)
			if sess != nil {
				log := append(sess.Messages, chat.NewMessage(chat.RoleAssistant, msg.text))
				m.store.SetMessages(sess.ID, log)
			}
		}
		m.refreshTranscript()
		return m, nil

	case spinMsg:
		if m.loading {
			m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
			return m, m.spinCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit appends the user message and fires the async send. Ignored while a
// send is already pending; the caller serializes sends per session.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.loading {
		return nil
	}
	sess := m.store.Current()
	log := append(sess.Messages, chat.NewMessage(chat.RoleUser, text))
	m.store.SetMessages(sess.ID, log)

	m.input.Reset()
	m.loading = true
	m.spinnerPos = 0
	m.notice = ""
	m.refreshTranscript()

	return tea.Batch(m.sendCmd(sess.ID, text, log), m.spinCmd())
}

func (m *Model) sendCmd(sessionID, text string, history []chat.Message) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.sender.Send(context.Background(), text, history)
		return replyMsg{sessionID: sessionID, text: reply, err: err}
	}
}

func (m *Model) spinCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return spinMsg{}
	})
}

func (m *Model) sessionByID(id string) *chat.Session {
	for _, sess := range m.store.Sessions() {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

func (m *Model) selectNextSession() {
	sessions := m.store.Sessions()
	if len(sessions) < 2 {
		return
	}
	for i, sess := range sessions {
		if sess.ID == m.store.CurrentID() {
			m.store.SelectSession(sessions[(i+1)%len(sessions)].ID)
			break
		}
	}
	m.notice = ""
	m.refreshTranscript()
}

func (m *Model) exportCurrent() {
	path, err := m.store.ExportToFile(m.store.Current(), "")
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = "exported to " + path
}

// feedbackLastReply toggles like/dislike on the most recent assistant
// message of the current session.
func (m *Model) feedbackLastReply(like bool) {
	sess := m.store.Current()
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		if sess.Messages[i].Role != chat.RoleAssistant {
			continue
		}
		if like {
			m.store.ToggleLike(sess.ID, sess.Messages[i].ID)
		} else {
			m.store.ToggleDislike(sess.ID, sess.Messages[i].ID)
		}
		m.refreshTranscript()
		return
	}
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	sess := m.store.Current()
	if sess == nil || len(sess.Messages) == 0 {
		return m.theme.TopBarMeta.Render("No messages yet.")
	}

	width := m.viewport.Width
	var b strings.Builder
	for _, msg := range sess.Messages {
		stamp := msg.CreatedAt.Format("15:04:05")
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(m.theme.RoleYou.Render("You") + m.theme.TopBarMeta.Render(" • "+stamp))
			b.WriteString("\n")
			b.WriteString(msg.Content)
		default:
			label := m.theme.RoleBot.Render("Assistant") + m.theme.TopBarMeta.Render(" • "+stamp)
			if msg.Liked {
				label += " " + m.theme.Feedback.Render("▲")
			}
			if msg.Disliked {
				label += " " + m.theme.Notice.Render("▼")
			}
			b.WriteString(label)
			b.WriteString("\n")
			b.WriteString(m.markdown.Render(msg.Content, width))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m *Model) renderSessionStrip() string {
	parts := make([]string, 0, len(m.store.Sessions()))
	for _, sess := range m.store.Sessions() {
		title := m.store.DisplayTitle(sess)
		if sess.ID == m.store.CurrentID() {
			parts = append(parts, m.theme.SessionCurrent.Render("["+title+"]"))
		} else {
			parts = append(parts, m.theme.SessionItem.Render(title))
		}
	}
	return m.theme.TopBar.Render(strings.Join(parts, "  "))
}

func (m *Model) View() string {
	var b strings.Builder

	title := m.theme.TopBarTitle.Render("tidechat")
	meta := m.theme.TopBarMeta.Render(fmt.Sprintf("theme: %s", m.theme.Name))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", meta))
	b.WriteString("\n")
	b.WriteString(m.renderSessionStrip())
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.loading {
		frame := spinnerFrames[m.spinnerPos%len(spinnerFrames)]
		b.WriteString(m.theme.Spinner.Render(frame + " Waiting for reply…"))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.theme.Notice.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.InputBox.Width(m.width - 4).Render(m.input.View()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.helpView())
	} else {
		b.WriteString(m.footerView())
	}
	return b.String()
}
