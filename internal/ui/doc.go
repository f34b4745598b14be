// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a single screen with four views:
//  1. [LoginView] : email and password form
//  2. [SignupView] : name, email and password form
//  3. [RecorderView] : record/stop toggle, recording list with play and delete
//  4. [SaveDialogView] : name the capture that just finished, or discard it
//
// The [Model] renders purely from the session, the recorder state, the playback state and the recording list.
// Storage calls run as commands and come back as messages; playback completion arrives as a message produced by
// waiting on the sound's Done channel, so the [memo.Controller] is only ever touched from Update.
package ui
