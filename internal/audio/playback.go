package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vox/internal/shared"
)

// ExecPlayer implements [Player] with an external playback program.
type ExecPlayer struct {
	program string
	logger  *log.Logger
}

// NewPlayer creates an [ExecPlayer] from the audio section of the config.
func NewPlayer(cfg shared.AudioConfig, logger *log.Logger) *ExecPlayer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExecPlayer{program: cfg.Playback, logger: shared.WithLogger(logger, "component", "playback")}
}

// Load prepares a [Sound] for clip. Nothing is played until [Sound.Play].
func (p *ExecPlayer) Load(ctx context.Context, clip *Clip) (Sound, error) {
	if clip == nil {
		return nil, fmt.Errorf("%w: no clip", shared.ErrPlaybackFailed)
	}

	program, err := resolveProgram(p.program, players)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", shared.ErrPlaybackFailed, shared.ErrNoAudioTool, err)
	}

	if _, err := os.Stat(clip.Path); err != nil {
		return nil, fmt.Errorf("%w: clip %s: %v", shared.ErrPlaybackFailed, clip.ID(), err)
	}

	args, err := playbackArgs(program, clip.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaybackFailed, err)
	}

	return &execSound{
		id:      shared.GenerateID(),
		program: program,
		args:    args,
		done:    make(chan struct{}),
		logger:  p.logger,
	}, nil
}

// execSound is one playback process. Done closes when the process exits or the sound is unloaded.
type execSound struct {
	id      string
	program string
	args    []string
	logger  *log.Logger

	mu       sync.Mutex
	cmd      *exec.Cmd
	unloaded bool
	done     chan struct{}
	doneOnce sync.Once
}

func (s *execSound) ID() string { return s.id }

func (s *execSound) Done() <-chan struct{} { return s.done }

func (s *execSound) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unloaded {
		return fmt.Errorf("%w: sound unloaded", shared.ErrPlaybackFailed)
	}
	if s.cmd != nil {
		return fmt.Errorf("%w: sound already playing", shared.ErrInvalidState)
	}

	cmd := exec.Command(s.program, s.args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start %s: %v", shared.ErrPlaybackFailed, s.program, err)
	}
	s.cmd = cmd

	go func() {
		if err := cmd.Wait(); err != nil {
			s.logger.Debug("playback exited", "sound", s.id, "error", err)
		}
		s.finish()
	}()

	s.logger.Debug("playback started", "sound", s.id, "program", s.program)
	return nil
}

// Unload stops playback if running. It is safe to call more than once.
func (s *execSound) Unload() error {
	s.mu.Lock()
	if s.unloaded {
		s.mu.Unlock()
		return nil
	}
	s.unloaded = true
	cmd := s.cmd
	s.mu.Unlock()

	if cmd == nil {
		s.finish()
		return nil
	}

	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	<-s.done
	return nil
}

func (s *execSound) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}
