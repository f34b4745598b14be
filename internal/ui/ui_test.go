package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vox/internal/memo"
	"github.com/desertthunder/vox/internal/models"
	"github.com/desertthunder/vox/internal/repositories"
	"github.com/desertthunder/vox/internal/session"
	"github.com/desertthunder/vox/internal/shared"
	tu "github.com/desertthunder/vox/internal/testing"
)

type harness struct {
	model    *Model
	store    *tu.MemoryStore
	capturer *tu.FakeCapturer
	player   *tu.FakePlayer
}

func newHarness(t *testing.T, stored string) *harness {
	t.Helper()
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)

	store := tu.NewMemoryStore()
	if stored != "" {
		store.Set(ctx, repositories.SessionKey, stored)
	}

	capturer := &tu.FakeCapturer{}
	player := &tu.FakePlayer{}
	ctrl := memo.NewController(memo.Options{Capturer: capturer, Player: player, Logger: logger})

	m := NewModel(ctx, session.NewGate(store, logger), ctrl, logger)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	h := &harness{model: m, store: store, capturer: capturer, player: player}
	h.run(m.Init())
	return h
}

// send delivers msg to the model and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.model.Update(msg)
	return cmd
}

// run executes cmd synchronously and feeds its message back into the model.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		h.send(msg)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlT = tea.KeyMsg{Type: tea.KeyCtrlT}
)

// loggedIn returns a harness already showing the recorder view.
func loggedIn(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t, `{"email":"ada@x.com"}`)
	if h.model.State() != RecorderView {
		t.Fatalf("expected recorder view, got %v", h.model.State())
	}
	return h
}

// record drives one capture through the save dialog.
func (h *harness) record(t *testing.T, name string) {
	t.Helper()
	h.send(runes("r"))
	h.send(runes("r"))
	if h.model.State() != SaveDialogView {
		t.Fatalf("expected save dialog, got %v", h.model.State())
	}
	h.model.nameInput.SetValue(name)
	h.send(enter)
}

func TestStartup(t *testing.T) {
	t.Run("no stored session shows login", func(t *testing.T) {
		h := newHarness(t, "")
		if h.model.State() != LoginView {
			t.Errorf("expected login view, got %v", h.model.State())
		}
		if !strings.Contains(h.model.View(), "Login") {
			t.Error("login form should render")
		}
	})

	t.Run("stored session skips login", func(t *testing.T) {
		h := newHarness(t, `{"name":"Ada","email":"ada@x.com"}`)
		if h.model.State() != RecorderView {
			t.Fatalf("expected recorder view, got %v", h.model.State())
		}
		if h.model.Session().Name != "Ada" {
			t.Errorf("unexpected session %+v", h.model.Session())
		}
		if !strings.Contains(h.model.View(), "Ada") {
			t.Error("recorder view should greet the user")
		}
	})
}

func TestAuthForms(t *testing.T) {
	t.Run("login persists session", func(t *testing.T) {
		h := newHarness(t, "")
		h.model.form.set(fieldEmail, "ada@x.com")
		h.model.form.set(fieldPassword, "pw")

		h.send(tab)
		h.run(h.send(enter))

		if h.model.State() != RecorderView {
			t.Fatalf("expected recorder view, got %v", h.model.State())
		}
		raw, ok, _ := h.store.Get(context.Background(), repositories.SessionKey)
		if !ok || raw != `{"email":"ada@x.com"}` {
			t.Errorf("unexpected stored session %q", raw)
		}
	})

	t.Run("enter on first field advances focus", func(t *testing.T) {
		h := newHarness(t, "")
		if cmd := h.send(enter); cmd != nil {
			t.Error("enter on the email field should not submit")
		}
		if h.model.form.focus != 1 {
			t.Errorf("focus = %d, want 1", h.model.form.focus)
		}
	})

	t.Run("empty password keeps login form and reports", func(t *testing.T) {
		h := newHarness(t, "")
		h.model.form.set(fieldEmail, "ada@x.com")
		h.send(tab)
		h.run(h.send(enter))

		if h.model.State() != LoginView {
			t.Errorf("expected login view, got %v", h.model.State())
		}
		if !errors.Is(h.model.err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", h.model.err)
		}
		if _, ok, _ := h.store.Get(context.Background(), repositories.SessionKey); ok {
			t.Error("nothing should be persisted")
		}
		if !strings.Contains(h.model.View(), "required") {
			t.Error("validation message should be visible")
		}
	})

	t.Run("switch to signup keeps email", func(t *testing.T) {
		h := newHarness(t, "")
		h.model.form.set(fieldEmail, "ada@x.com")

		h.send(ctrlT)
		if h.model.State() != SignupView {
			t.Fatalf("expected signup view, got %v", h.model.State())
		}
		if got := h.model.form.value(fieldEmail); got != "ada@x.com" {
			t.Errorf("email = %q", got)
		}

		h.send(ctrlT)
		if h.model.State() != LoginView {
			t.Errorf("expected login view, got %v", h.model.State())
		}
	})

	t.Run("signup persists name and email", func(t *testing.T) {
		h := newHarness(t, "")
		h.send(ctrlT)
		h.model.form.set(fieldName, "Ada")
		h.model.form.set(fieldEmail, "ada@x.com")
		h.model.form.set(fieldPassword, "pw")

		h.send(tab)
		h.send(tab)
		h.run(h.send(enter))

		if h.model.State() != RecorderView {
			t.Fatalf("expected recorder view, got %v", h.model.State())
		}
		raw, _, _ := h.store.Get(context.Background(), repositories.SessionKey)
		if raw != `{"name":"Ada","email":"ada@x.com"}` {
			t.Errorf("unexpected stored session %q", raw)
		}
	})

	t.Run("logout clears session", func(t *testing.T) {
		h := loggedIn(t)
		h.run(h.send(runes("L")))

		if h.model.State() != LoginView {
			t.Errorf("expected login view, got %v", h.model.State())
		}
		if _, ok, _ := h.store.Get(context.Background(), repositories.SessionKey); ok {
			t.Error("store should be empty after logout")
		}
	})

	t.Run("logout refused while recording", func(t *testing.T) {
		h := loggedIn(t)
		h.send(runes("r"))

		if cmd := h.send(runes("L")); cmd != nil {
			t.Error("logout should not run while recording")
		}
		if !errors.Is(h.model.err, shared.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", h.model.err)
		}
	})
}

func TestRecorderView(t *testing.T) {
	t.Run("record and save", func(t *testing.T) {
		h := loggedIn(t)

		h.send(runes("r"))
		if h.model.recorder.State() != models.StateRecording {
			t.Fatalf("expected recording, got %v", h.model.recorder.State())
		}
		if !strings.Contains(h.model.View(), "REC") {
			t.Error("recording indicator should render")
		}

		h.send(tea.KeyMsg{Type: tea.KeySpace})
		if h.model.State() != SaveDialogView {
			t.Fatalf("expected save dialog, got %v", h.model.State())
		}
		if !strings.Contains(h.model.View(), "Enter Recording Name") {
			t.Error("dialog should render")
		}

		h.model.nameInput.SetValue("Note1")
		h.send(enter)

		if h.model.State() != RecorderView {
			t.Fatalf("expected recorder view, got %v", h.model.State())
		}
		recs := h.model.recorder.Recordings()
		if len(recs) != 1 || recs[0].Name != "Note1" || recs[0].Timestamp == "" {
			t.Fatalf("unexpected recordings %+v", recs)
		}
		if !strings.Contains(h.model.View(), "Note1") {
			t.Error("list should show the new recording")
		}
	})

	t.Run("blank name keeps dialog open", func(t *testing.T) {
		h := loggedIn(t)
		h.send(runes("r"))
		h.send(runes("r"))
		h.model.nameInput.SetValue("   ")
		h.send(enter)

		if h.model.State() != SaveDialogView {
			t.Errorf("expected save dialog, got %v", h.model.State())
		}
		if h.model.recorder.Len() != 0 {
			t.Error("list should be unchanged")
		}
	})

	t.Run("cancel discards", func(t *testing.T) {
		h := loggedIn(t)
		h.send(runes("r"))
		h.send(runes("r"))
		h.send(esc)

		if h.model.State() != RecorderView || h.model.recorder.Len() != 0 {
			t.Errorf("expected empty recorder view, got %v / %d", h.model.State(), h.model.recorder.Len())
		}
		if len(h.capturer.Released) != 1 {
			t.Errorf("pending clip should be released")
		}
	})

	t.Run("permission denial is surfaced", func(t *testing.T) {
		h := loggedIn(t)
		h.capturer.DenyPermission = true
		h.send(runes("r"))

		if h.model.recorder.State() != models.StateIdle {
			t.Errorf("expected idle, got %v", h.model.recorder.State())
		}
		if !strings.Contains(h.model.View(), "permission denied") {
			t.Error("permission error should be visible")
		}
	})

	t.Run("play, complete, replay", func(t *testing.T) {
		h := loggedIn(t)
		h.record(t, "a")

		cmd := h.send(enter)
		if cmd == nil {
			t.Fatal("expected a completion command")
		}
		if h.model.recorder.Playing() != 0 {
			t.Fatalf("playing = %d, want 0", h.model.recorder.Playing())
		}
		if !strings.Contains(h.model.View(), "■ a") {
			t.Error("playing marker should render")
		}

		h.player.Sounds[0].Finish()
		h.run(cmd)

		if h.model.recorder.Playing() != memo.NotPlaying {
			t.Errorf("expected no playback after completion, got %d", h.model.recorder.Playing())
		}
		if !strings.Contains(h.model.View(), "▶ a") {
			t.Error("play marker should render again")
		}
	})

	t.Run("enter on playing item stops it", func(t *testing.T) {
		h := loggedIn(t)
		h.record(t, "a")

		h.send(enter)
		h.send(enter)

		if h.model.recorder.Playing() != memo.NotPlaying || len(h.player.Active()) != 0 {
			t.Error("second enter should stop playback")
		}
	})

	t.Run("delete while playing", func(t *testing.T) {
		h := loggedIn(t)
		h.record(t, "a")
		h.record(t, "b")

		h.send(enter)
		if h.model.recorder.Playing() != 1 {
			t.Fatalf("playing = %d, want 1", h.model.recorder.Playing())
		}

		h.send(runes("d"))
		if h.model.recorder.Len() != 1 || h.model.recorder.Playing() != memo.NotPlaying {
			t.Errorf("expected one recording and no playback, got %d / %d", h.model.recorder.Len(), h.model.recorder.Playing())
		}
		if len(h.player.Active()) != 0 {
			t.Error("no sound should remain active")
		}
	})

	t.Run("deleting the last row keeps selection in range", func(t *testing.T) {
		h := loggedIn(t)
		h.record(t, "a")
		h.record(t, "b")

		h.send(runes("d"))
		if h.model.recordings.Index() != 0 {
			t.Errorf("selection = %d, want 0", h.model.recordings.Index())
		}

		h.send(runes("d"))
		if h.model.recorder.Len() != 0 {
			t.Errorf("expected empty list, got %d", h.model.recorder.Len())
		}
	})

	t.Run("delete on empty list", func(t *testing.T) {
		h := loggedIn(t)
		h.send(runes("d"))
		if h.model.err != nil {
			t.Errorf("unexpected error %v", h.model.err)
		}
	})

	t.Run("q quits", func(t *testing.T) {
		h := loggedIn(t)
		cmd := h.send(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}
