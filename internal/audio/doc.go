// Package audio drives microphone capture and clip playback through external programs.
//
// Capture follows request-permission, set-mode, start, stop. Stop finalizes a WAV [Clip] on disk.
// Playback follows load, play, completion, unload: a [Sound] closes its Done channel when the
// program exits or the sound is unloaded, whichever happens first.
//
// Program selection mirrors the usual Linux and macOS tooling:
//   - capture: pw-record, arecord, ffmpeg
//   - playback: pw-play, ffplay, mpv, aplay, afplay
package audio
