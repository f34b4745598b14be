package ui

import (
	"github.com/desertthunder/vox/internal/models"
)

// sessionRestoredMsg carries the session found in the store at startup.
type sessionRestoredMsg struct {
	session *models.Session
	err     error
}

// authResultMsg carries the outcome of a login or signup.
type authResultMsg struct {
	session *models.Session
	err     error
}

// loggedOutMsg carries the outcome of a logout.
type loggedOutMsg struct {
	err error
}

// playbackFinishedMsg is the completion event of the sound with the given ID.
type playbackFinishedMsg struct {
	soundID string
}
