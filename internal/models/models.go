// package models defines the data model for the voice memo recorder
package models

import (
	"fmt"
	"time"
)

// Session is the locally persisted identity. Name is empty for sessions created by login.
type Session struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Validate reports whether the session can be persisted.
func (s *Session) Validate() error {
	if s.Email == "" {
		return fmt.Errorf("session email is required")
	}
	return nil
}

// DisplayName returns the name when set, falling back to the email.
func (s *Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}

// Clip is implemented by the audio subsystem's capture results.
type Clip interface {
	ID() string
}

// Recording is a saved capture in the recording list.
type Recording struct {
	ID        string
	Name      string
	Clip      Clip
	Timestamp string
	CreatedAt time.Time
}

// RecorderState enumerates the recorder lifecycle.
type RecorderState int

const (
	StateIdle RecorderState = iota
	StateRecording
	StatePendingSave
)

func (s RecorderState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StatePendingSave:
		return "pending-save"
	default:
		return fmt.Sprintf("RecorderState(%d)", int(s))
	}
}
