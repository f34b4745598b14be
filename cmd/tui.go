package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vox/internal/memo"
	"github.com/desertthunder/vox/internal/shared"
	"github.com/desertthunder/vox/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive voice memo recorder.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	gate, err := r.gate()
	if err != nil {
		return err
	}

	capturer, player := r.audioBackends()
	recorder := memo.NewController(memo.Options{
		Capturer:        capturer,
		Player:          player,
		Logger:          r.logger,
		TimestampFormat: r.config.UI.TimestampFormat,
	})
	defer func() {
		if err := recorder.Close(context.WithoutCancel(ctx)); err != nil {
			r.logger.Warn("recorder did not shut down cleanly", "error", err)
		}
	}()

	model := ui.NewModel(ctx, gate, recorder, r.logger)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
