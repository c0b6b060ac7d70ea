package tasks

import (
	"fmt"

	"github.com/desertthunder/tagstream/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	UploadPrepare Phase = iota
	UploadSend
	UploadDone
	UploadFailed
)

func (p Phase) String() string {
	switch p {
	case UploadPrepare:
		return "upload_prepare"
	case UploadSend:
		return "upload_send"
	case UploadDone:
		return "upload_done"
	case UploadFailed:
		return "upload_failed"
	default:
		return ""
	}
}

const uploadSteps = 3

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func prepareUploadUpdate(file *models.UploadFile, tag string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadPrepare,
		Step:    1,
		Total:   uploadSteps,
		Message: fmt.Sprintf("Preparing %s (%d bytes) for tag %q...", file.Name, len(file.Data), tag),
	}
}

func sendUploadUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadSend,
		Step:    2,
		Total:   uploadSteps,
		Message: fmt.Sprintf("Uploading %s...", name),
	}
}

func uploadDoneUpdate(record *models.UploadRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadDone,
		Step:    3,
		Total:   uploadSteps,
		Message: fmt.Sprintf("✓ %s uploaded to %s", record.Name(), record.TagKey()),
		Data:    record,
	}
}

func uploadFailedUpdate(record *models.UploadRecord, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFailed,
		Step:    3,
		Total:   uploadSteps,
		Message: fmt.Sprintf("✗ %s: %v", record.Name(), err),
		Data:    record,
	}
}
