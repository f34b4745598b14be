package memo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vox/internal/audio"
	"github.com/desertthunder/vox/internal/models"
	"github.com/desertthunder/vox/internal/shared"
)

// NotPlaying is the playing index when no sound is active.
const NotPlaying = -1

// DefaultTimestampFormat is used when Options.TimestampFormat is empty.
const DefaultTimestampFormat = "Jan 2, 2006 3:04:05 PM"

// Options configures a [Controller].
type Options struct {
	Capturer        audio.Capturer
	Player          audio.Player
	Logger          *log.Logger
	TimestampFormat string
	Now             func() time.Time
}

// Controller is the recorder and playback state machine.
type Controller struct {
	capturer audio.Capturer
	player   audio.Player
	logger   *log.Logger
	layout   string
	now      func() time.Time

	state      models.RecorderState
	pending    *audio.Clip
	recordings []models.Recording

	active  audio.Sound
	playing int
}

// NewController creates an idle [Controller] with an empty recording list.
func NewController(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.TimestampFormat == "" {
		opts.TimestampFormat = DefaultTimestampFormat
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		capturer: opts.Capturer,
		player:   opts.Player,
		logger:   shared.WithLogger(opts.Logger, "component", "recorder"),
		layout:   opts.TimestampFormat,
		now:      opts.Now,
		state:    models.StateIdle,
		playing:  NotPlaying,
	}
}

// State returns the recorder state.
func (c *Controller) State() models.RecorderState { return c.state }

// Playing returns the index of the playing recording, or [NotPlaying].
func (c *Controller) Playing() int { return c.playing }

// ActiveSound returns the loaded sound, if any.
func (c *Controller) ActiveSound() audio.Sound { return c.active }

// Pending returns the capture awaiting a name while in [models.StatePendingSave].
func (c *Controller) Pending() *audio.Clip { return c.pending }

// Recordings returns a copy of the recording list in insertion order.
func (c *Controller) Recordings() []models.Recording {
	out := make([]models.Recording, len(c.recordings))
	copy(out, c.recordings)
	return out
}

// Len returns the number of saved recordings.
func (c *Controller) Len() int { return len(c.recordings) }

// StartRecording begins a capture. It is a no-op unless the recorder is idle.
//
// Any active playback is released first. On failure the recorder stays idle and
// the capture mode is restored to playback.
func (c *Controller) StartRecording(ctx context.Context) error {
	if c.state != models.StateIdle {
		c.logger.Debug("start ignored", "state", c.state)
		return nil
	}

	if err := c.StopPlayback(); err != nil {
		c.logger.Warn("failed to release playback before recording", "error", err)
	}

	if err := c.capturer.RequestPermission(ctx); err != nil {
		c.logger.Error("failed to start recording", "error", err)
		return wrapErr(shared.ErrPermissionDenied, err)
	}

	if err := c.capturer.SetMode(ctx, audio.ModeRecord); err != nil {
		c.logger.Error("failed to start recording", "error", err)
		return wrapErr(shared.ErrCaptureFailed, err)
	}

	if err := c.capturer.Start(ctx); err != nil {
		c.logger.Error("failed to start recording", "error", err)
		c.restoreMode(ctx)
		return wrapErr(shared.ErrCaptureFailed, err)
	}

	c.state = models.StateRecording
	c.logger.Info("recording started")
	return nil
}

// StopRecording finalizes the capture and moves to [models.StatePendingSave].
func (c *Controller) StopRecording(ctx context.Context) error {
	if c.state != models.StateRecording {
		return fmt.Errorf("%w: stop while %s", shared.ErrInvalidState, c.state)
	}

	clip, err := c.capturer.Stop(ctx)
	c.restoreMode(ctx)
	if err != nil {
		c.state = models.StateIdle
		c.logger.Error("failed to finalize recording", "error", err)
		return wrapErr(shared.ErrCaptureFailed, err)
	}

	c.pending = clip
	c.state = models.StatePendingSave
	c.logger.Info("recording stopped", "clip", clip.ID())
	return nil
}

// ConfirmSave appends the pending capture under name. A blank name leaves everything unchanged.
func (c *Controller) ConfirmSave(name string) (models.Recording, error) {
	if c.state != models.StatePendingSave {
		return models.Recording{}, fmt.Errorf("%w: save while %s", shared.ErrInvalidState, c.state)
	}

	if strings.TrimSpace(name) == "" {
		c.logger.Debug("save rejected: empty name")
		return models.Recording{}, fmt.Errorf("%w: recording name is required", shared.ErrInvalidInput)
	}

	now := c.now()
	rec := models.Recording{
		ID:        c.pending.ID(),
		Name:      name,
		Clip:      c.pending,
		Timestamp: now.Format(c.layout),
		CreatedAt: now,
	}

	c.recordings = append(c.recordings, rec)
	c.pending = nil
	c.state = models.StateIdle

	c.logger.Info("recording saved", "name", name, "count", len(c.recordings))
	return rec, nil
}

// CancelSave discards the pending capture.
func (c *Controller) CancelSave() error {
	if c.state != models.StatePendingSave {
		return fmt.Errorf("%w: cancel while %s", shared.ErrInvalidState, c.state)
	}

	if err := c.capturer.Release(c.pending); err != nil {
		c.logger.Warn("failed to release discarded clip", "error", err)
	}

	c.pending = nil
	c.state = models.StateIdle
	c.logger.Info("recording discarded")
	return nil
}

// Play loads and starts recordings[index], releasing any active sound first.
//
// The returned sound's Done channel is the completion event; pass its ID to [Controller.Finish].
func (c *Controller) Play(ctx context.Context, index int) (audio.Sound, error) {
	if index < 0 || index >= len(c.recordings) {
		return nil, fmt.Errorf("%w: %w: index %d", shared.ErrInvalidInput, shared.ErrRecordingNotFound, index)
	}

	if err := c.StopPlayback(); err != nil {
		c.logger.Warn("failed to release previous sound", "error", err)
	}

	clip, ok := c.recordings[index].Clip.(*audio.Clip)
	if !ok {
		return nil, fmt.Errorf("%w: recording %d has no playable clip", shared.ErrPlaybackFailed, index)
	}

	sound, err := c.player.Load(ctx, clip)
	if err != nil {
		c.logger.Error("failed to load recording", "index", index, "error", err)
		return nil, wrapErr(shared.ErrPlaybackFailed, err)
	}

	if err := sound.Play(); err != nil {
		sound.Unload()
		c.logger.Error("failed to play recording", "index", index, "error", err)
		return nil, wrapErr(shared.ErrPlaybackFailed, err)
	}

	c.active = sound
	c.playing = index
	c.logger.Info("playback started", "index", index, "sound", sound.ID())
	return sound, nil
}

// Finish handles the completion event of soundID. Events for sounds already released are ignored.
func (c *Controller) Finish(soundID string) error {
	if c.active == nil || c.active.ID() != soundID {
		c.logger.Debug("stale playback completion", "sound", soundID)
		return nil
	}
	return c.StopPlayback()
}

// StopPlayback releases the active sound, if any.
func (c *Controller) StopPlayback() error {
	if c.active == nil {
		return nil
	}

	sound := c.active
	c.active = nil
	c.playing = NotPlaying

	if err := sound.Unload(); err != nil {
		return wrapErr(shared.ErrPlaybackFailed, err)
	}
	c.logger.Debug("playback released", "sound", sound.ID())
	return nil
}

// Delete removes recordings[index], stopping it first when it is the one playing.
func (c *Controller) Delete(index int) error {
	if index < 0 || index >= len(c.recordings) {
		return fmt.Errorf("%w: %w: index %d", shared.ErrInvalidInput, shared.ErrRecordingNotFound, index)
	}

	if index == c.playing {
		if err := c.StopPlayback(); err != nil {
			c.logger.Warn("failed to release deleted recording's sound", "error", err)
		}
	}

	rec := c.recordings[index]
	c.recordings = append(c.recordings[:index], c.recordings[index+1:]...)

	if c.playing > index {
		c.playing--
	}

	if clip, ok := rec.Clip.(*audio.Clip); ok {
		if err := c.capturer.Release(clip); err != nil {
			c.logger.Warn("failed to release deleted clip", "error", err)
		}
	}

	c.logger.Info("recording deleted", "name", rec.Name, "count", len(c.recordings))
	return nil
}

// Close releases the active sound, any capture in progress, the pending clip and every saved clip.
//
// Every resource is released even when an earlier one fails; the failures are logged and joined.
func (c *Controller) Close(ctx context.Context) error {
	var errs []error
	release := func(clip *audio.Clip, what string) {
		if err := c.capturer.Release(clip); err != nil {
			c.logger.Warn("failed to release "+what, "clip", clip.ID(), "error", err)
			errs = append(errs, err)
		}
	}

	if err := c.StopPlayback(); err != nil {
		c.logger.Warn("failed to stop playback on close", "error", err)
		errs = append(errs, err)
	}

	if c.state == models.StateRecording {
		clip, err := c.capturer.Stop(ctx)
		if err != nil {
			c.logger.Warn("failed to stop capture on close", "error", err)
			errs = append(errs, wrapErr(shared.ErrCaptureFailed, err))
		} else {
			release(clip, "in-progress clip")
		}
		c.restoreMode(ctx)
	}

	if c.pending != nil {
		release(c.pending, "pending clip")
		c.pending = nil
	}

	for _, rec := range c.recordings {
		if clip, ok := rec.Clip.(*audio.Clip); ok {
			release(clip, "recording clip")
		}
	}

	c.recordings = nil
	c.state = models.StateIdle
	return errors.Join(errs...)
}

func (c *Controller) restoreMode(ctx context.Context) {
	if err := c.capturer.SetMode(ctx, audio.ModePlayback); err != nil {
		c.logger.Warn("failed to restore playback mode", "error", err)
	}
}

// wrapErr tags err with kind unless it already carries it.
func wrapErr(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
