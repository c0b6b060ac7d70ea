package ui

import (
	"time"

	"github.com/desertthunder/tagstream/internal/tasks"
)

// DefaultNoticeBuffer is the number of notices held while the TUI is busy.
const DefaultNoticeBuffer = 16

var _ tasks.Notifier = Notices(nil)

// Notice is a user-visible alert shown on the status line.
type Notice struct {
	Level   string
	Message string
	At      time.Time
}

// Notices is a [tasks.Notifier] feeding the TUI status line.
//
// Notify never blocks; notices beyond the buffer are dropped.
type Notices chan Notice

// NewNotices creates a Notices channel with the given buffer size.
func NewNotices(size int) Notices {
	return make(Notices, size)
}

func (n Notices) Notify(level, message string) {
	select {
	case n <- Notice{Level: level, Message: message, At: time.Now()}:
	default:
	}
}
