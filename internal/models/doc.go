// Package models defines the domain entities shared by the session gate, the recorder and the TUI.
//
// The package contains two categories of types:
//
// 1. Persisted records: stored as JSON in the key-value store
//   - [Session] : the locally persisted identity; its existence means "logged in"
//
// 2. In-memory state: lost when the process exits
//   - [Recording] : a named, timestamped capture held by the recording list
//   - [RecorderState] : [StateIdle], [StateRecording] or [StatePendingSave]
//
// Audio handles are opaque to this package; recordings carry them as [Clip] values supplied by the audio subsystem.
package models
