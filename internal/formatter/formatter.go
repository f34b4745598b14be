// package formatter renders recordings and sessions as plain text for the TUI and CLI
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/vox/internal/audio"
	"github.com/desertthunder/vox/internal/models"
)

// Duration renders d as m:ss, or h:mm:ss once it exceeds an hour.
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// RecordingDescription is the secondary line shown under a recording's name.
func RecordingDescription(rec models.Recording) string {
	parts := []string{rec.Timestamp}
	if clip, ok := rec.Clip.(*audio.Clip); ok && clip.Duration > 0 {
		parts = append(parts, Duration(clip.Duration))
	}
	return strings.Join(parts, " • ")
}

// SessionSummary describes the session for `vox auth status`.
func SessionSummary(s *models.Session) string {
	if s == nil {
		return "Not logged in"
	}
	if s.Name != "" {
		return fmt.Sprintf("Logged in as %s <%s>", s.Name, s.Email)
	}
	return fmt.Sprintf("Logged in as %s", s.Email)
}

// Truncate shortens s to width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
