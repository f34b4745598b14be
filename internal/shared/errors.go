package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrStorage = fmt.Errorf("storage failure")

	// Audio errors
	ErrPermissionDenied = fmt.Errorf("microphone permission denied")
	ErrCaptureFailed    = fmt.Errorf("audio capture failed")
	ErrPlaybackFailed   = fmt.Errorf("audio playback failed")
	ErrNoAudioTool      = fmt.Errorf("no audio program found")

	// State errors
	ErrInvalidState      = fmt.Errorf("invalid state for operation")
	ErrRecordingNotFound = fmt.Errorf("recording not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
