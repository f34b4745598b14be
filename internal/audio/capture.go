package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vox/internal/shared"
)

// CaptureOptions configures an [ExecCapturer].
type CaptureOptions struct {
	Program     string
	Dir         string
	SampleRate  int
	Channels    int
	StopTimeout time.Duration
}

// ExecCapturer implements [Capturer] by running a recording program until it is interrupted.
type ExecCapturer struct {
	opts   CaptureOptions
	logger *log.Logger

	mu      sync.Mutex
	program string
	mode    Mode
	cmd     *exec.Cmd
	clip    *Clip
	exited  chan error
	stderr  bytes.Buffer
}

// NewCapturer creates an [ExecCapturer] from the audio section of the config.
func NewCapturer(cfg shared.AudioConfig, logger *log.Logger) *ExecCapturer {
	dir := cfg.ClipDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "vox")
	}

	return NewExecCapturer(CaptureOptions{
		Program:     cfg.Capture,
		Dir:         shared.ExpandPath(dir),
		SampleRate:  cfg.SampleRate,
		Channels:    cfg.Channels,
		StopTimeout: cfg.StopTimeoutDuration(),
	}, logger)
}

// NewExecCapturer creates an [ExecCapturer], filling zero-valued options with defaults.
func NewExecCapturer(opts CaptureOptions, logger *log.Logger) *ExecCapturer {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	if opts.Channels <= 0 {
		opts.Channels = 1
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExecCapturer{opts: opts, logger: shared.WithLogger(logger, "component", "capture")}
}

// RequestPermission grants capture when a recording program is installed and the clip directory is writable.
func (c *ExecCapturer) RequestPermission(ctx context.Context) error {
	program, err := resolveProgram(c.opts.Program, capturers)
	if err != nil {
		return fmt.Errorf("%w: %w: %v", shared.ErrPermissionDenied, shared.ErrNoAudioTool, err)
	}

	if err := os.MkdirAll(c.opts.Dir, 0755); err != nil {
		return fmt.Errorf("%w: clip directory: %v", shared.ErrPermissionDenied, err)
	}

	probe, err := os.CreateTemp(c.opts.Dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%w: clip directory not writable: %v", shared.ErrPermissionDenied, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	c.mu.Lock()
	c.program = program
	c.mu.Unlock()

	c.logger.Debug("capture permission granted", "program", program, "dir", c.opts.Dir)
	return nil
}

// SetMode switches the session mode. Switching away from record mode while capturing is rejected.
func (c *ExecCapturer) SetMode(ctx context.Context, mode Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd != nil && mode != ModeRecord {
		return fmt.Errorf("%w: capture in progress", shared.ErrInvalidState)
	}
	c.mode = mode
	return nil
}

// Mode returns the current session mode.
func (c *ExecCapturer) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Start launches the recording program writing to a new clip file.
func (c *ExecCapturer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeRecord {
		return fmt.Errorf("%w: capture requires record mode", shared.ErrInvalidState)
	}
	if c.cmd != nil {
		return fmt.Errorf("%w: capture already running", shared.ErrInvalidState)
	}
	if c.program == "" {
		return fmt.Errorf("%w: permission not requested", shared.ErrPermissionDenied)
	}

	id := shared.GenerateID()
	path := filepath.Join(c.opts.Dir, id+".wav")

	args, err := captureArgs(c.program, path, c.opts.SampleRate, c.opts.Channels)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCaptureFailed, err)
	}

	c.stderr.Reset()
	cmd := exec.Command(c.program, args...)
	cmd.Stderr = &c.stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start %s: %v", shared.ErrCaptureFailed, c.program, err)
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	c.cmd = cmd
	c.exited = exited
	c.clip = &Clip{id: id, Path: path, StartedAt: time.Now()}

	c.logger.Info("capture started", "program", c.program, "clip", id)
	return nil
}

// Stop interrupts the recording program and returns the finalized clip.
//
// The program gets StopTimeout to flush its output before it is killed.
func (c *ExecCapturer) Stop(ctx context.Context) (*Clip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil {
		return nil, fmt.Errorf("%w: no capture running", shared.ErrInvalidState)
	}

	cmd, clip, exited := c.cmd, c.clip, c.exited
	c.cmd, c.clip, c.exited = nil, nil, nil

	var waitErr error
	if err := cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		c.logger.Warn("failed to interrupt capture, killing", "error", err)
		cmd.Process.Kill()
	}

	select {
	case waitErr = <-exited:
	case <-time.After(c.opts.StopTimeout):
		c.logger.Warn("capture did not exit in time, killing", "timeout", c.opts.StopTimeout)
		cmd.Process.Kill()
		waitErr = <-exited
	case <-ctx.Done():
		cmd.Process.Kill()
		<-exited
		os.Remove(clip.Path)
		return nil, fmt.Errorf("%w: %v", shared.ErrCaptureFailed, ctx.Err())
	}

	if waitErr != nil {
		// Recording programs commonly exit non-zero on SIGINT; the file decides.
		c.logger.Debug("capture exited", "error", waitErr, "stderr", strings.TrimSpace(c.stderr.String()))
	}

	info, err := os.Stat(clip.Path)
	if err != nil || info.Size() == 0 {
		os.Remove(clip.Path)
		return nil, fmt.Errorf("%w: no audio written: %s", shared.ErrCaptureFailed, strings.TrimSpace(c.stderr.String()))
	}

	clip.Duration = time.Since(clip.StartedAt)
	c.logger.Info("capture finalized", "clip", clip.ID(), "bytes", info.Size(), "duration", clip.Duration)
	return clip, nil
}

// Release deletes the clip's file.
func (c *ExecCapturer) Release(clip *Clip) error {
	if clip == nil || clip.Path == "" {
		return nil
	}
	if err := os.Remove(clip.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove clip %s: %w", clip.ID(), err)
	}
	return nil
}
