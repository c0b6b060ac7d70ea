package tasks

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/shared"
)

// Notice levels passed to a [Notifier].
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// User-visible upload notices.
const (
	MsgDraftIncomplete = "Please select a file and enter a tag"
	MsgUploadSucceeded = "Song uploaded successfully"
	MsgUploadFailed    = "Failed to upload song"
)

// Notifier is the user-visible alert channel. Diagnostics belong in the logger.
type Notifier interface {
	Notify(level, message string)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(level, message string)

func (f NotifierFunc) Notify(level, message string) { f(level, message) }

// UploadRecorder persists upload attempts.
type UploadRecorder interface {
	RecordUpload(ctx context.Context, record *models.UploadRecord) error
}

// UploadPolicy tunes how drafts are named and cleared.
type UploadPolicy struct {
	// PlaceholderName is sent as the name part when set; otherwise the file's base name is used.
	PlaceholderName string
	// KeepDraftOnFailure keeps the draft after a failed upload instead of clearing it.
	KeepDraftOnFailure bool
}

// Uploader holds the upload draft and submits it.
type Uploader struct {
	catalog  services.Catalog
	notifier Notifier
	recorder UploadRecorder
	policy   UploadPolicy
	logger   *log.Logger

	mu    sync.Mutex
	draft models.Draft
}

// NewUploader creates an Uploader with an empty draft.
func NewUploader(catalog services.Catalog, notifier Notifier, logger *log.Logger, policy UploadPolicy) *Uploader {
	return &Uploader{catalog: catalog, notifier: notifier, logger: shared.WithLogger(logger, "component", "upload"), policy: policy}
}

// SetRecorder enables upload history. Recording errors are logged and ignored.
func (u *Uploader) SetRecorder(r UploadRecorder) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.recorder = r
}

// SelectFile sets the draft file. nil clears it.
func (u *Uploader) SelectFile(f *models.UploadFile) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.draft.File = f
}

// SetTag sets the draft tag.
func (u *Uploader) SetTag(tag string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.draft.Tag = tag
}

// Draft returns the current draft.
func (u *Uploader) Draft() models.Draft {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.draft
}

// Submit uploads the draft as one multipart request.
//
// An incomplete draft makes no request, leaves the draft as it is, and returns [shared.ErrDraftIncomplete].
// A completed attempt clears the draft, except on failure when [UploadPolicy.KeepDraftOnFailure] is set.
// Result lists are not refreshed.
func (u *Uploader) Submit(ctx context.Context, progress chan<- ProgressUpdate) error {
	u.mu.Lock()
	draft := u.draft
	recorder := u.recorder
	u.mu.Unlock()

	if !draft.Complete() {
		u.notify(LevelWarn, MsgDraftIncomplete)
		return shared.ErrDraftIncomplete
	}

	file := draft.File
	name := u.nameFor(file)
	logger := u.logger.With("file", file.Name, "tag", draft.Tag, "name", name)

	sendProgress(progress, prepareUploadUpdate(file, draft.Tag))
	sendProgress(progress, sendUploadUpdate(name))

	err := u.catalog.UploadSong(ctx, services.UploadRequest{File: *file, Tag: draft.Tag, Name: name})
	record := models.NewUploadRecord(*file, draft.Tag, name, err)

	if err != nil {
		logger.Error("upload failed", "error", err)
		u.notify(LevelError, MsgUploadFailed)
		if !u.policy.KeepDraftOnFailure {
			u.clear(file)
		}
		sendProgress(progress, uploadFailedUpdate(record, err))
	} else {
		logger.Info("upload succeeded", "bytes", len(file.Data))
		u.notify(LevelInfo, MsgUploadSucceeded)
		u.clear(file)
		sendProgress(progress, uploadDoneUpdate(record))
	}

	if recorder != nil {
		if rerr := recorder.RecordUpload(ctx, record); rerr != nil {
			logger.Warn("failed to record upload", "error", rerr)
		}
	}

	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}
	return nil
}

func (u *Uploader) nameFor(file *models.UploadFile) string {
	if u.policy.PlaceholderName != "" {
		return u.policy.PlaceholderName
	}
	return file.BaseName()
}

// clear resets the draft unless a different file was selected while the upload was in flight.
func (u *Uploader) clear(submitted *models.UploadFile) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.draft.File != submitted {
		return
	}
	u.draft = models.Draft{}
}

func (u *Uploader) notify(level, message string) {
	if u.notifier != nil {
		u.notifier.Notify(level, message)
	}
}

// LoadUploadFile reads the file at path into memory for a draft.
func LoadUploadFile(path string) (*models.UploadFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrInvalidInput, path, err)
	}
	return &models.UploadFile{Name: path, Data: data}, nil
}
