package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vox/internal/audio"
	"github.com/desertthunder/vox/internal/repositories"
	"github.com/desertthunder/vox/internal/session"
	"github.com/desertthunder/vox/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	store      repositories.KeyValueStore
	capturer   audio.Capturer
	player     audio.Player
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Capturer and Player are optional; when nil the exec backends are built from
// the audio config at the moment a command needs them.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      repositories.KeyValueStore
	Capturer   audio.Capturer
	Player     audio.Player
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		capturer:   opts.Capturer,
		player:     opts.Player,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, audioCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by subsequently created services.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// gate builds a session gate over the runner's store.
func (r *Runner) gate() (*session.Gate, error) {
	if r.store == nil {
		return nil, fmt.Errorf("%w: no session store configured", shared.ErrStorage)
	}
	return session.NewGate(r.store, r.logger), nil
}

func (r *Runner) audioBackends() (audio.Capturer, audio.Player) {
	capturer, player := r.capturer, r.player
	if capturer == nil {
		capturer = audio.NewCapturer(r.config.Audio, r.logger)
	}
	if player == nil {
		player = audio.NewPlayer(r.config.Audio, r.logger)
	}
	return capturer, player
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
