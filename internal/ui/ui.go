package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/vox/internal/audio"
	"github.com/desertthunder/vox/internal/formatter"
	"github.com/desertthunder/vox/internal/memo"
	"github.com/desertthunder/vox/internal/models"
	"github.com/desertthunder/vox/internal/session"
	"github.com/desertthunder/vox/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LoginView
	SignupView
	RecorderView
	SaveDialogView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	gate     *session.Gate
	recorder *memo.Controller
	logger   *log.Logger

	session    *models.Session
	form       authForm
	nameInput  textinput.Model
	recordings list.Model
	spinner    spinner.Model
	startedAt  time.Time
	now        func() time.Time

	status string
	err    error

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, gate *session.Gate, recorder *memo.Controller, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "Recording name"
	nameInput.CharLimit = 120
	nameInput.Width = 40

	recordings := list.New(nil, list.NewDefaultDelegate(), 76, 14)
	recordings.Title = "Recordings"
	recordings.SetFilteringEnabled(false)
	recordings.SetShowHelp(false)
	recordings.SetShowStatusBar(false)
	recordings.SetStatusBarItemName("recording", "recordings")

	return &Model{
		ctx:        ctx,
		view:       LoadingView,
		gate:       gate,
		recorder:   recorder,
		logger:     shared.WithLogger(logger, "component", "ui"),
		form:       newLoginForm(),
		nameInput:  nameInput,
		recordings: recordings,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Pulse), spinner.WithStyle(styles.err)),
		now:        time.Now,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init checks the store for an existing session.
func (m *Model) Init() tea.Cmd {
	return m.restoreSession()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recordings.SetSize(msg.Width-4, max(msg.Height-10, 4))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		switch m.view {
		case LoginView, SignupView:
			return m.handleFormKeys(msg)
		case RecorderView:
			return m.handleRecorderKeys(msg)
		case SaveDialogView:
			return m.handleDialogKeys(msg)
		}
		return m, nil

	case sessionRestoredMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		if msg.session != nil {
			m.enterRecorder(msg.session)
		} else {
			m.view = LoginView
		}
		return m, nil

	case authResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.enterRecorder(msg.session)
		return m, nil

	case loggedOutMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.session = nil
		m.clearStatus()
		m.form = newLoginForm()
		m.view = LoginView
		return m, nil

	case playbackFinishedMsg:
		if err := m.recorder.Finish(msg.soundID); err != nil {
			m.setError(err)
		}
		m.syncList()
		return m, nil

	case spinner.TickMsg:
		if m.recorder.State() != models.StateRecording {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case LoadingView:
		body = styles.help.Render("Loading...")
	case LoginView:
		body = m.renderForm("Login", "Don't have an account? ctrl+t to sign up")
	case SignupView:
		body = m.renderForm("Sign Up", "Already have an account? ctrl+t to log in")
	case RecorderView:
		body = m.renderRecorder()
	case SaveDialogView:
		body = m.renderDialog()
	}

	if line := m.renderStatus(); line != "" {
		body = fmt.Sprintf("%s\n\n%s", body, line)
	}
	return body
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		return m, tea.Quit
	case key.Matches(msg, m.keys.switchForm):
		m.switchForm()
		return m, nil
	case key.Matches(msg, m.keys.nextField):
		m.form.move(1)
		return m, nil
	case key.Matches(msg, m.keys.prevField):
		m.form.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.submit):
		if !m.form.onLastField() {
			m.form.move(1)
			return m, nil
		}
		return m, m.submitForm()
	}

	return m, m.form.update(msg)
}

func (m *Model) handleRecorderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.record):
		return m, m.toggleRecording()
	case key.Matches(msg, m.keys.play):
		return m, m.togglePlayback()
	case key.Matches(msg, m.keys.remove):
		m.deleteSelected()
		return m, nil
	case key.Matches(msg, m.keys.logout):
		if m.recorder.State() != models.StateIdle {
			m.setError(fmt.Errorf("%w: stop the current recording before logging out", shared.ErrInvalidState))
			return m, nil
		}
		if err := m.recorder.StopPlayback(); err != nil {
			m.logger.Warn("failed to stop playback on logout", "error", err)
		}
		m.syncList()
		return m, m.logout()
	}

	var cmd tea.Cmd
	m.recordings, cmd = m.recordings.Update(msg)
	return m, cmd
}

func (m *Model) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		if err := m.recorder.CancelSave(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.closeDialog()
		m.status = "Recording discarded"
		return m, nil
	case key.Matches(msg, m.keys.save):
		rec, err := m.recorder.ConfirmSave(m.nameInput.Value())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.closeDialog()
		m.syncList()
		m.recordings.Select(m.recorder.Len() - 1)
		m.status = fmt.Sprintf("Saved %q", rec.Name)
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) toggleRecording() tea.Cmd {
	switch m.recorder.State() {
	case models.StateIdle:
		if err := m.recorder.StartRecording(m.ctx); err != nil {
			m.setError(err)
			return nil
		}
		m.clearStatus()
		m.startedAt = m.now()
		m.syncList()
		return m.spinner.Tick

	case models.StateRecording:
		if err := m.recorder.StopRecording(m.ctx); err != nil {
			m.setError(err)
			return nil
		}
		m.clearStatus()
		m.view = SaveDialogView
		m.nameInput.Reset()
		return m.nameInput.Focus()
	}
	return nil
}

func (m *Model) togglePlayback() tea.Cmd {
	index := m.recordings.Index()
	if m.recorder.Len() == 0 {
		return nil
	}

	if index == m.recorder.Playing() {
		if err := m.recorder.StopPlayback(); err != nil {
			m.setError(err)
		}
		m.syncList()
		return nil
	}

	sound, err := m.recorder.Play(m.ctx, index)
	m.syncList()
	if err != nil {
		m.setError(err)
		return nil
	}
	m.clearStatus()
	return waitForPlayback(sound)
}

func (m *Model) deleteSelected() {
	if m.recorder.Len() == 0 {
		return
	}
	index := m.recordings.Index()
	recs := m.recorder.Recordings()
	if index < 0 || index >= len(recs) {
		return
	}
	name := recs[index].Name

	if err := m.recorder.Delete(index); err != nil {
		m.setError(err)
		return
	}
	m.syncList()
	m.status = fmt.Sprintf("Deleted %q", name)
}

func (m *Model) switchForm() {
	email := m.form.value(fieldEmail)
	if m.view == LoginView {
		m.form = newSignupForm()
		m.view = SignupView
	} else {
		m.form = newLoginForm()
		m.view = LoginView
	}
	m.form.set(fieldEmail, email)
	m.clearStatus()
}

func (m *Model) submitForm() tea.Cmd {
	name, email, password := m.form.value(fieldName), m.form.value(fieldEmail), m.form.value(fieldPassword)
	signup := m.view == SignupView

	return func() tea.Msg {
		var s *models.Session
		var err error
		if signup {
			s, err = m.gate.Signup(m.ctx, name, email, password)
		} else {
			s, err = m.gate.Login(m.ctx, email, password)
		}
		return authResultMsg{session: s, err: err}
	}
}

func (m *Model) restoreSession() tea.Cmd {
	return func() tea.Msg {
		s, err := m.gate.Restore(m.ctx)
		return sessionRestoredMsg{session: s, err: err}
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.gate.Logout(m.ctx)}
	}
}

// waitForPlayback turns the sound's Done channel into a [playbackFinishedMsg].
func waitForPlayback(sound audio.Sound) tea.Cmd {
	return func() tea.Msg {
		<-sound.Done()
		return playbackFinishedMsg{soundID: sound.ID()}
	}
}

func (m *Model) enterRecorder(s *models.Session) {
	m.session = s
	m.view = RecorderView
	m.clearStatus()
	m.syncList()
}

func (m *Model) closeDialog() {
	m.nameInput.Reset()
	m.nameInput.Blur()
	m.view = RecorderView
	m.clearStatus()
}

// syncList rebuilds the list items from the controller.
func (m *Model) syncList() {
	recs := m.recorder.Recordings()
	items := make([]list.Item, len(recs))
	for i, rec := range recs {
		items[i] = recordingItem{recording: rec, playing: i == m.recorder.Playing()}
	}
	m.recordings.SetItems(items)
	if n := len(items); n > 0 && m.recordings.Index() >= n {
		m.recordings.Select(n - 1)
	}
}

func (m *Model) setError(err error) {
	m.logger.Error("action failed", "error", err)
	m.err = err
	m.status = ""
}

func (m *Model) clearStatus() {
	m.err = nil
	m.status = ""
}

func (m *Model) renderForm(title, hint string) string {
	helpKeys := []key.Binding{m.keys.nextField, m.keys.submit, m.keys.switchForm, m.keys.forceQuit}
	box := styles.form.Render(fmt.Sprintf("%s\n%s", styles.title.Render(title), m.form.view()))
	return fmt.Sprintf("%s\n%s\n\n%s", box, styles.help.Render(hint), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderRecorder() string {
	var b strings.Builder

	greeting := "Voice Recorder"
	if m.session != nil {
		greeting = fmt.Sprintf("Voice Recorder • %s", m.session.DisplayName())
	}
	b.WriteString(styles.title.Render(greeting) + "\n")

	if m.recorder.State() == models.StateRecording {
		elapsed := formatter.Duration(m.now().Sub(m.startedAt))
		b.WriteString(fmt.Sprintf("%s %s %s\n\n", m.spinner.View(), styles.err.Render("REC"), elapsed))
	}

	if m.recorder.Len() == 0 {
		b.WriteString(styles.help.Render("No recordings yet. Press r to record.") + "\n")
	} else {
		b.WriteString(m.recordings.View() + "\n")
	}

	recordKey := m.keys.record
	if m.recorder.State() == models.StateRecording {
		recordKey = key.NewBinding(key.WithKeys("r", " "), key.WithHelp("r/space", "stop"))
	}
	helpKeys := []key.Binding{recordKey, m.keys.play, m.keys.remove, m.keys.logout, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDialog() string {
	content := fmt.Sprintf("%s\n\n%s", styles.title.Render("Enter Recording Name:"), m.nameInput.View())
	helpKeys := []key.Binding{m.keys.save, m.keys.cancel}
	return fmt.Sprintf("%s\n\n%s", styles.dialog.Render(content), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderStatus() string {
	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, shared.ErrInvalidInput) {
			return styles.warn.Render(msg)
		}
		return styles.err.Render("Error: " + msg)
	}
	if m.status != "" {
		return styles.ok.Render("✓ " + m.status)
	}
	return ""
}

// Session returns the logged-in session shown by the model, or nil.
func (m *Model) Session() *models.Session { return m.session }

// State returns the current view.
func (m *Model) State() ViewState { return m.view }
