// Package memo owns the recorder lifecycle, the in-memory recording list and playback.
//
// The [Controller] is not safe for concurrent use. All calls are expected from one logical
// thread (the TUI update loop); completion of a [audio.Sound] is fed back through [Controller.Finish].
//
// Recorder transitions:
//
//	Idle --StartRecording--> Recording --StopRecording--> PendingSave
//	PendingSave --ConfirmSave/CancelSave--> Idle
//
// At most one sound is loaded at a time; starting another releases the previous one.
package memo
