package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

// Mode is the audio session mode. Capture may only start in [ModeRecord].
type Mode int

const (
	ModePlayback Mode = iota
	ModeRecord
)

func (m Mode) String() string {
	if m == ModeRecord {
		return "record"
	}
	return "playback"
}

// Clip is a finalized capture stored as a WAV file.
type Clip struct {
	id        string
	Path      string
	StartedAt time.Time
	Duration  time.Duration
}

// NewClip creates a [Clip] for an existing file.
func NewClip(id, path string) *Clip {
	return &Clip{id: id, Path: path}
}

// ID returns the clip identifier.
func (c *Clip) ID() string { return c.id }

// Capturer records from the default input device.
type Capturer interface {
	RequestPermission(ctx context.Context) error
	SetMode(ctx context.Context, mode Mode) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) (*Clip, error)
	Release(clip *Clip) error
}

// Player loads clips into playable sounds.
type Player interface {
	Load(ctx context.Context, clip *Clip) (Sound, error)
}

// Sound is a loaded, playable clip instance.
type Sound interface {
	ID() string
	Play() error
	Done() <-chan struct{}
	Unload() error
}

const autoProgram = "auto"

var (
	lookPath  = exec.LookPath
	getGOOS   = func() string { return runtime.GOOS }
	capturers = []string{"pw-record", "arecord", "ffmpeg"}
	players   = []string{"pw-play", "ffplay", "mpv", "aplay", "afplay"}
)

// resolveProgram returns preferred when it is set and installed, otherwise the first installed candidate.
func resolveProgram(preferred string, candidates []string) (string, error) {
	if preferred != "" && preferred != autoProgram {
		if _, err := lookPath(preferred); err != nil {
			return "", fmt.Errorf("%s not found in PATH", preferred)
		}
		return preferred, nil
	}

	for _, name := range candidates {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}

	return "", fmt.Errorf("none of %v found in PATH", candidates)
}

// Programs reports which capture and playback programs are installed.
type Programs struct {
	Capture  []string `json:"capture"`
	Playback []string `json:"playback"`
}

// Detect lists installed capture and playback programs in preference order.
func Detect() Programs {
	var p Programs
	for _, name := range capturers {
		if _, err := lookPath(name); err == nil {
			p.Capture = append(p.Capture, name)
		}
	}
	for _, name := range players {
		if _, err := lookPath(name); err == nil {
			p.Playback = append(p.Playback, name)
		}
	}
	return p
}

// captureArgs builds the argument list for recording a WAV file to path.
func captureArgs(program, path string, rate, channels int) ([]string, error) {
	r, c := strconv.Itoa(rate), strconv.Itoa(channels)

	switch program {
	case "pw-record":
		return []string{"--rate", r, "--channels", c, "--format", "s16", path}, nil
	case "arecord":
		return []string{"-q", "-f", "S16_LE", "-r", r, "-c", c, "-t", "wav", path}, nil
	case "ffmpeg":
		input := []string{"-f", "pulse", "-i", "default"}
		if getGOOS() == "darwin" {
			input = []string{"-f", "avfoundation", "-i", ":0"}
		}
		args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}
		args = append(args, input...)
		return append(args, "-ac", c, "-ar", r, "-y", path), nil
	default:
		return nil, fmt.Errorf("unsupported capture program: %s", program)
	}
}

// playbackArgs builds the argument list for playing path to completion.
func playbackArgs(program, path string) ([]string, error) {
	switch program {
	case "pw-play", "afplay":
		return []string{path}, nil
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "error", path}, nil
	case "mpv":
		return []string{"--no-video", "--really-quiet", path}, nil
	case "aplay":
		return []string{"-q", path}, nil
	default:
		return nil, fmt.Errorf("unsupported playback program: %s", program)
	}
}
