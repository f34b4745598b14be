package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vox/internal/audio"
	"github.com/desertthunder/vox/internal/shared"
	"github.com/urfave/cli/v3"
)

// AudioCheck lists the capture and playback programs found on PATH.
//
// Returns [shared.ErrNoAudioTool] in plain mode when recording or playback would be impossible.
func (r *Runner) AudioCheck(ctx context.Context, cmd *cli.Command) error {
	programs := audio.Detect()

	if cmd.Bool("json") {
		return r.writeJSON(programs, true)
	}

	lines := [][2]string{
		{"Capture:  %s\n", listOrNone(programs.Capture)},
		{"Playback: %s\n", listOrNone(programs.Playback)},
		{"Configured: %s\n", fmt.Sprintf("capture=%s playback=%s", r.config.Audio.Capture, r.config.Audio.Playback)},
	}
	for _, line := range lines {
		if err := r.writePlain(line[0], line[1]); err != nil {
			return err
		}
	}

	switch {
	case len(programs.Capture) == 0:
		return fmt.Errorf("%w: install pw-record, arecord or ffmpeg to record", shared.ErrNoAudioTool)
	case len(programs.Playback) == 0:
		return fmt.Errorf("%w: install pw-play, ffplay, mpv or aplay to play back", shared.ErrNoAudioTool)
	}
	return nil
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
