package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vox/internal/formatter"
	"github.com/desertthunder/vox/internal/models"
)

var _ list.Item = recordingItem{}

// recordingItem wraps [models.Recording] to implement [list.Item].
type recordingItem struct {
	recording models.Recording
	playing   bool
}

func (i recordingItem) FilterValue() string { return i.recording.Name }
func (i recordingItem) Title() string {
	marker := "▶"
	if i.playing {
		marker = "■"
	}
	return fmt.Sprintf("%s %s", marker, formatter.Truncate(i.recording.Name, 40))
}
func (i recordingItem) Description() string {
	return formatter.RecordingDescription(i.recording)
}
