package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/desertthunder/vox/internal/shared"
)

// stubLookPath makes only the named programs appear installed for the duration of the test.
func stubLookPath(t *testing.T, installed ...string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if slices.Contains(installed, name) {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestResolveProgram(t *testing.T) {
	tc := []struct {
		name      string
		installed []string
		preferred string
		want      string
		wantErr   bool
	}{
		{name: "auto picks first installed", installed: []string{"arecord", "ffmpeg"}, preferred: "auto", want: "arecord"},
		{name: "empty behaves like auto", installed: []string{"ffmpeg"}, preferred: "", want: "ffmpeg"},
		{name: "explicit installed", installed: []string{"arecord", "ffmpeg"}, preferred: "ffmpeg", want: "ffmpeg"},
		{name: "explicit missing", installed: []string{"arecord"}, preferred: "ffmpeg", wantErr: true},
		{name: "nothing installed", preferred: "auto", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			stubLookPath(t, tt.installed...)

			got, err := resolveProgram(tt.preferred, capturers)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveProgram() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	stubLookPath(t, "arecord", "aplay", "mpv")

	got := Detect()
	if !slices.Equal(got.Capture, []string{"arecord"}) {
		t.Errorf("Capture = %v", got.Capture)
	}
	if !slices.Equal(got.Playback, []string{"mpv", "aplay"}) {
		t.Errorf("Playback = %v", got.Playback)
	}
}

func TestCaptureArgs(t *testing.T) {
	t.Run("arecord", func(t *testing.T) {
		args, err := captureArgs("arecord", "/tmp/a.wav", 16000, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav", "/tmp/a.wav"}
		if !slices.Equal(args, want) {
			t.Errorf("args = %v, want %v", args, want)
		}
	})

	t.Run("ffmpeg on darwin uses avfoundation", func(t *testing.T) {
		orig := getGOOS
		getGOOS = func() string { return "darwin" }
		defer func() { getGOOS = orig }()

		args, err := captureArgs("ffmpeg", "/tmp/a.wav", 44100, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Contains(args, "avfoundation") || args[len(args)-1] != "/tmp/a.wav" {
			t.Errorf("unexpected args %v", args)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, err := captureArgs("sox", "/tmp/a.wav", 44100, 1); err == nil {
			t.Error("expected error for unsupported program")
		}
	})
}

func TestPlaybackArgs(t *testing.T) {
	tc := map[string][]string{
		"pw-play": {"/tmp/a.wav"},
		"ffplay":  {"-nodisp", "-autoexit", "-loglevel", "error", "/tmp/a.wav"},
		"mpv":     {"--no-video", "--really-quiet", "/tmp/a.wav"},
		"aplay":   {"-q", "/tmp/a.wav"},
	}
	for program, want := range tc {
		got, err := playbackArgs(program, "/tmp/a.wav")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", program, err)
		}
		if !slices.Equal(got, want) {
			t.Errorf("%s: args = %v, want %v", program, got, want)
		}
	}

	if _, err := playbackArgs("vlc", "/tmp/a.wav"); err == nil {
		t.Error("expected error for unsupported program")
	}
}

func TestExecCapturer(t *testing.T) {
	ctx := context.Background()

	t.Run("permission denied without a capture program", func(t *testing.T) {
		stubLookPath(t)
		c := NewExecCapturer(CaptureOptions{Dir: t.TempDir()}, nil)

		err := c.RequestPermission(ctx)
		if !errors.Is(err, shared.ErrPermissionDenied) || !errors.Is(err, shared.ErrNoAudioTool) {
			t.Errorf("expected permission denied / no audio tool, got %v", err)
		}
	})

	t.Run("permission granted", func(t *testing.T) {
		stubLookPath(t, "arecord")
		dir := filepath.Join(t.TempDir(), "clips")
		c := NewExecCapturer(CaptureOptions{Dir: dir}, nil)

		if err := c.RequestPermission(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("clip directory should be created: %v", err)
		}
	})

	t.Run("start requires record mode", func(t *testing.T) {
		stubLookPath(t, "arecord")
		c := NewExecCapturer(CaptureOptions{Dir: t.TempDir()}, nil)
		if err := c.RequestPermission(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := c.Start(ctx); !errors.Is(err, shared.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("start requires permission", func(t *testing.T) {
		c := NewExecCapturer(CaptureOptions{Dir: t.TempDir()}, nil)
		if err := c.SetMode(ctx, ModeRecord); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Mode() != ModeRecord {
			t.Errorf("Mode() = %v", c.Mode())
		}

		if err := c.Start(ctx); !errors.Is(err, shared.ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("stop without start", func(t *testing.T) {
		c := NewExecCapturer(CaptureOptions{Dir: t.TempDir()}, nil)
		if _, err := c.Stop(ctx); !errors.Is(err, shared.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("release removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clip.wav")
		if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
			t.Fatalf("failed to write clip: %v", err)
		}

		c := NewExecCapturer(CaptureOptions{}, nil)
		clip := NewClip("clip", path)
		if err := c.Release(clip); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("clip file should be removed")
		}
		if err := c.Release(clip); err != nil {
			t.Errorf("releasing twice should succeed: %v", err)
		}
	})
}

func TestExecPlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("load missing clip file", func(t *testing.T) {
		stubLookPath(t, "aplay")
		p := NewPlayer(shared.AudioConfig{Playback: "auto"}, nil)

		_, err := p.Load(ctx, NewClip("x", filepath.Join(t.TempDir(), "missing.wav")))
		if !errors.Is(err, shared.ErrPlaybackFailed) {
			t.Errorf("expected ErrPlaybackFailed, got %v", err)
		}
	})

	t.Run("load without player", func(t *testing.T) {
		stubLookPath(t)
		p := NewPlayer(shared.AudioConfig{Playback: "auto"}, nil)

		_, err := p.Load(ctx, NewClip("x", "/tmp/x.wav"))
		if !errors.Is(err, shared.ErrNoAudioTool) {
			t.Errorf("expected ErrNoAudioTool, got %v", err)
		}
	})

	t.Run("load returns unplayed sound", func(t *testing.T) {
		stubLookPath(t, "aplay")
		path := filepath.Join(t.TempDir(), "clip.wav")
		if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
			t.Fatalf("failed to write clip: %v", err)
		}

		sound, err := NewPlayer(shared.AudioConfig{}, nil).Load(ctx, NewClip("c", path))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sound.ID() == "" {
			t.Error("expected sound ID")
		}

		if err := sound.Unload(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		select {
		case <-sound.Done():
		default:
			t.Error("Done should be closed after unloading an unplayed sound")
		}
		if err := sound.Play(); !errors.Is(err, shared.ErrPlaybackFailed) {
			t.Errorf("playing an unloaded sound should fail, got %v", err)
		}
	})
}

func TestExecSound(t *testing.T) {
	newSound := func(t *testing.T, program string, args ...string) *execSound {
		t.Helper()
		if _, err := exec.LookPath(program); err != nil {
			t.Skipf("%s not available", program)
		}
		return &execSound{id: "s", program: program, args: args, done: make(chan struct{}), logger: shared.NewLogger(nil)}
	}

	t.Run("natural completion closes Done", func(t *testing.T) {
		s := newSound(t, "true")
		if err := s.Play(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		select {
		case <-s.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("Done not closed after program exit")
		}

		if err := s.Unload(); err != nil {
			t.Errorf("unload after completion should succeed: %v", err)
		}
	})

	t.Run("unload stops playback", func(t *testing.T) {
		s := newSound(t, "sleep", "30")
		if err := s.Play(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.Play(); !errors.Is(err, shared.ErrInvalidState) {
			t.Errorf("second Play should fail with ErrInvalidState, got %v", err)
		}

		if err := s.Unload(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		select {
		case <-s.Done():
		default:
			t.Error("Done should be closed after Unload returns")
		}
		if err := s.Unload(); err != nil {
			t.Errorf("second Unload should be a no-op: %v", err)
		}
	})
}
