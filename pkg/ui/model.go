package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gptchat/pkg/chat"
	"gptchat/pkg/clipboard"
	"gptchat/pkg/transcript"
	"gptchat/pkg/ui/components/chatview"
	"gptchat/pkg/ui/components/statusbar"
	"gptchat/pkg/ui/components/utils"
	"gptchat/pkg/ui/components/viewport"
	"gptchat/pkg/ui/components/welcome"
	"gptchat/pkg/ui/styles"
	"gptchat/pkg/version"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

const (
	inputPlaceholder   = "Type your message..."
	waitingPlaceholder = "Waiting for reply…"
)

// Focus indicates which region receives keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusTranscript
)

// Runner runs exchanges off the UI loop. *chat.Dispatcher implements it.
type Runner interface {
	Run(ctx context.Context, ex chat.Exchange) <-chan chat.ExchangeEvent
	Model() string
}

// Copier places text on the clipboard. *clipboard.Copier implements it.
type Copier interface {
	Copy(text string) (clipboard.Method, error)
}

// Options configures a Model.
type Options struct {
	Context       context.Context
	Session       *chat.Session
	Dispatcher    Runner
	Copier        Copier
	Theme         string
	TranscriptDir string
}

type copiedMsg struct {
	method clipboard.Method
	err    error
}

type savedMsg struct {
	path string
	err  error
}

// Model represents the Bubble Tea application state
type Model struct {
	ctx           context.Context
	session       *chat.Session
	dispatcher    Runner
	copier        Copier
	transcriptDir string
	now           func() time.Time

	// UI Components
	layout    *LayoutManager
	textarea  textarea.Model
	viewport  viewport.TranscriptViewport
	statusBar *statusbar.StatusBarView
	theme     styles.Theme
	rendered  chatview.Layout

	focus    Focus
	selected int
	notice   string

	width  int
	height int
	ready  bool
}

// NewModel creates a new Bubble Tea model
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	session := opts.Session
	if session == nil {
		session = chat.NewSession()
	}

	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("ctrl+j")
	ta.Focus()

	sb := statusbar.NewStatusBarView()
	sb.SetVersion(version.Summary())
	if opts.Dispatcher != nil {
		sb.SetModel(opts.Dispatcher.Model())
	}

	return Model{
		ctx:           ctx,
		session:       session,
		dispatcher:    opts.Dispatcher,
		copier:        opts.Copier,
		transcriptDir: opts.TranscriptDir,
		now:           time.Now,
		layout:        NewLayoutManager(),
		textarea:      ta,
		viewport:      viewport.NewTranscriptViewport(),
		statusBar:     sb,
		theme:         styles.ByName(opts.Theme),
		focus:         FocusInput,
		selected:      chatview.NoSelection,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout.SetSize(msg.Width, msg.Height)
		m.textarea.SetWidth(m.layout.InputWidth())
		m.viewport.SetSize(msg.Width, m.layout.TranscriptHeight())
		m.statusBar.SetWidth(msg.Width)
		m.ready = true
		m.refresh()
		return m, nil

	case chat.ExchangeEvent:
		if !m.session.Complete(msg) {
			return m, nil
		}
		if msg.Err != nil {
			m.notice = "Request failed"
		}
		cmd := m.syncInput()
		m.refresh()
		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = fmt.Sprintf("Copied to clipboard (%s)", msg.method)
		}
		m.refresh()
		return m, nil

	case savedMsg:
		switch {
		case errors.Is(msg.err, transcript.ErrEmpty):
			m.notice = "Nothing to save yet"
		case msg.err != nil:
			m.notice = "Save failed: " + msg.err.Error()
		default:
			m.notice = "Saved " + msg.path
		}
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Cursor blink, paste and other widget messages.
	if m.focus != FocusInput || m.session.Awaiting() {
		return m, nil
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.session.SetInput(m.textarea.Value())
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+t":
		m.theme = m.theme.Toggle()
		m.notice = "Theme: " + m.theme.Name
		m.refresh()
		return m, nil

	case "ctrl+s":
		cmd := m.saveTranscript()
		return m, cmd

	case "ctrl+n":
		if err := m.session.Reset(); err != nil {
			m.notice = "Wait for the reply before starting over"
		} else {
			m.selected = chatview.NoSelection
			m.textarea.Reset()
			m.notice = "New conversation"
			m.viewport.Follow()
		}
		m.refresh()
		return m, nil

	case "tab":
		next := FocusTranscript
		if m.focus == FocusTranscript {
			next = FocusInput
		}
		cmd := m.setFocus(next)
		return m, cmd
	}

	if m.focus == FocusTranscript {
		return m.handleTranscriptKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()
	case "esc":
		cmd := m.setFocus(FocusTranscript)
		return m, cmd
	case "pgup":
		m.viewport.PageUp()
		return m, nil
	case "pgdown":
		m.viewport.PageDown()
		return m, nil
	}

	if m.session.Awaiting() {
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.session.SetInput(m.textarea.Value())
	return m, cmd
}

func (m Model) handleTranscriptKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "pgup":
		m.viewport.PageUp()
	case "pgdown":
		m.viewport.PageDown()
	case "home", "g":
		m.viewport.GotoTop()
	case "end", "G":
		m.viewport.Follow()
	case "e":
		cmd := m.editSelected()
		return m, cmd
	case "y":
		cmd := m.copySelected()
		return m, cmd
	case "r":
		return m.resend()
	case "esc", "i":
		cmd := m.setFocus(FocusInput)
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	ex, err := m.session.Submit(m.textarea.Value())
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return m, nil
	case errors.Is(err, chat.ErrBusy):
		m.notice = "Still waiting for the previous reply"
		m.refresh()
		return m, nil
	case err != nil:
		m.notice = err.Error()
		m.refresh()
		return m, nil
	}

	m.textarea.Reset()
	m.viewport.Follow()
	cmd := m.dispatch(ex)
	return m, cmd
}

func (m Model) resend() (tea.Model, tea.Cmd) {
	ex, err := m.session.ResendAll()
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		m.notice = "Nothing to resend"
		m.refresh()
		return m, nil
	case errors.Is(err, chat.ErrBusy):
		m.notice = "Still waiting for the previous reply"
		m.refresh()
		return m, nil
	case err != nil:
		m.notice = err.Error()
		m.refresh()
		return m, nil
	}

	m.viewport.Follow()
	cmd := m.dispatch(ex)
	return m, cmd
}

// dispatch starts ex and returns the command that delivers its result.
func (m *Model) dispatch(ex chat.Exchange) tea.Cmd {
	m.notice = ""
	m.selected = chatview.NoSelection
	m.syncInput()
	m.refresh()
	return waitForExchange(m.dispatcher.Run(m.ctx, ex))
}

func waitForExchange(ch <-chan chat.ExchangeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ev
	}
}

func (m *Model) editSelected() tea.Cmd {
	msg, err := m.session.Message(m.selected)
	if err != nil {
		return nil
	}
	if !msg.Editable() {
		m.notice = "Only your own messages can be edited"
		m.refresh()
		return nil
	}

	content, err := m.session.Edit(m.selected)
	if err != nil {
		if errors.Is(err, chat.ErrBusy) {
			m.notice = "Wait for the reply before editing"
		} else {
			m.notice = err.Error()
		}
		m.refresh()
		return nil
	}

	m.textarea.SetValue(content)
	m.viewport.Follow()
	m.notice = "Editing message; later messages were removed"
	return m.setFocus(FocusInput)
}

func (m *Model) copySelected() tea.Cmd {
	msg, err := m.session.Message(m.selected)
	if err != nil || !msg.Copyable() {
		m.notice = "Select a reply to copy"
		m.refresh()
		return nil
	}
	if m.copier == nil {
		return nil
	}

	copier := m.copier
	text := msg.Content
	return func() tea.Msg {
		method, err := copier.Copy(text)
		return copiedMsg{method: method, err: err}
	}
}

func (m *Model) saveTranscript() tea.Cmd {
	messages := m.session.Messages()
	dir := m.transcriptDir
	now := m.now()
	return func() tea.Msg {
		path, err := transcript.Save(dir, messages, now)
		return savedMsg{path: path, err: err}
	}
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	if f == FocusTranscript {
		if m.selected == chatview.NoSelection && m.session.Len() > 0 {
			m.selected = m.session.Len() - 1
		}
	} else {
		m.selected = chatview.NoSelection
	}
	cmd := m.syncInput()
	m.refresh()
	m.revealSelection()
	return cmd
}

// syncInput enables the input only while it has focus and no reply is pending.
func (m *Model) syncInput() tea.Cmd {
	if m.session.Awaiting() {
		m.textarea.Placeholder = waitingPlaceholder
		m.textarea.Blur()
		return nil
	}
	m.textarea.Placeholder = inputPlaceholder
	if m.focus == FocusInput {
		return m.textarea.Focus()
	}
	m.textarea.Blur()
	return nil
}

func (m *Model) moveSelection(delta int) {
	n := m.session.Len()
	if n == 0 {
		return
	}
	if m.selected == chatview.NoSelection {
		m.selected = n - 1
	} else {
		m.selected = min(max(m.selected+delta, 0), n-1)
	}
	m.refresh()
	m.revealSelection()
}

func (m *Model) revealSelection() {
	if m.selected < 0 || m.selected >= len(m.rendered.Starts) {
		return
	}
	m.viewport.Reveal(m.rendered.Starts[m.selected])
}

// refresh re-renders the transcript and status line from session state.
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	model := ""
	if m.dispatcher != nil {
		model = m.dispatcher.Model()
	}

	if m.session.Len() == 0 {
		m.rendered = chatview.Layout{}
		m.viewport.SetLines(welcome.Lines(m.width, model, m.theme))
	} else {
		m.rendered = chatview.Render(m.session.Messages(), m.width, m.selected, m.theme)
		lines := m.rendered.Lines
		if m.session.Awaiting() {
			lines = append(lines[:len(lines):len(lines)], "", "  "+m.theme.TextMuted.Render("GPT is thinking…"))
		}
		m.viewport.SetLines(lines)
	}

	m.statusBar.SetModel(model)
	m.statusBar.SetState(m.state())
	m.statusBar.SetMessage(m.notice)
}

func (m *Model) state() string {
	switch {
	case m.session.Awaiting():
		return "waiting"
	case m.session.LastError() != nil:
		return "error"
	default:
		return "ready"
	}
}

func (m *Model) footer() string {
	var hint string
	switch {
	case m.focus == FocusTranscript:
		hint = "Up/Down select | e edit | y copy | r resend | Esc input"
	case m.session.Awaiting():
		hint = "Waiting for reply | Tab transcript | Ctrl+C quit"
	default:
		hint = "Enter send | Ctrl+J newline | Esc transcript"
	}
	return m.theme.Footer.Render(utils.TruncateToWidth(hint, m.width))
}

// View renders the model
func (m Model) View() tea.View {
	var content string
	if !m.ready {
		content = "Loading..."
	} else {
		separator := m.theme.Separator.Render(strings.Repeat("─", max(m.width, 1)))
		content = m.layout.RenderLayout(
			m.viewport.View(),
			separator,
			m.textarea.View(),
			m.footer(),
			m.statusBar.Render(m.theme),
		)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// Session returns the session driving the view.
func (m Model) Session() *chat.Session {
	return m.session
}

// Selected returns the selected message id, or -1.
func (m Model) Selected() int {
	return m.selected
}
