package tasks

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/shared"
	tu "github.com/desertthunder/tagstream/internal/testing"
)

type mockUploadRecorder struct {
	mu      sync.Mutex
	records []*models.UploadRecord
}

func (r *mockUploadRecorder) RecordUpload(ctx context.Context, record *models.UploadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func newTestUploader(c *tu.MockCatalog, n *tu.MockNotifier, policy UploadPolicy) *Uploader {
	return NewUploader(c, n, shared.NewLogger(io.Discard), policy)
}

func TestUploader(t *testing.T) {
	ctx := context.Background()
	track := &models.UploadFile{Name: "/tmp/My Track.mp3", Data: []byte("ID3")}

	t.Run("Incomplete Draft", func(t *testing.T) {
		t.Run("file without tag", func(t *testing.T) {
			c := tu.NewMockCatalog()
			n := &tu.MockNotifier{}
			u := newTestUploader(c, n, UploadPolicy{})
			u.SelectFile(track)

			err := u.Submit(ctx, nil)
			if !errors.Is(err, shared.ErrDraftIncomplete) {
				t.Errorf("expected ErrDraftIncomplete, got %v", err)
			}
			if c.UploadCount() != 0 {
				t.Errorf("expected no request, got %d", c.UploadCount())
			}
			if u.Draft().File != track {
				t.Error("expected draft file to be kept")
			}
			if n.Last() != "warn: Please select a file and enter a tag" {
				t.Errorf("unexpected notice %q", n.Last())
			}
		})

		t.Run("tag without file", func(t *testing.T) {
			c := tu.NewMockCatalog()
			n := &tu.MockNotifier{}
			u := newTestUploader(c, n, UploadPolicy{})
			u.SetTag("jazz")

			if err := u.Submit(ctx, nil); !errors.Is(err, shared.ErrDraftIncomplete) {
				t.Errorf("expected ErrDraftIncomplete, got %v", err)
			}
			if c.UploadCount() != 0 || u.Draft().Tag != "jazz" {
				t.Error("expected no request and tag kept")
			}
		})
	})

	t.Run("Success", func(t *testing.T) {
		c := tu.NewMockCatalog()
		n := &tu.MockNotifier{}
		rec := &mockUploadRecorder{}
		u := newTestUploader(c, n, UploadPolicy{})
		u.SetRecorder(rec)
		u.SelectFile(track)
		u.SetTag("jazz")

		progress := make(chan ProgressUpdate, 8)
		if err := u.Submit(ctx, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		if len(c.Uploads) != 1 {
			t.Fatalf("expected one upload, got %d", len(c.Uploads))
		}
		req := c.Uploads[0]
		if req.Tag != "jazz" || req.Name != "My Track" || string(req.File.Data) != "ID3" {
			t.Errorf("unexpected request %+v", req)
		}
		if !u.Draft().Empty() {
			t.Errorf("expected draft cleared, got %+v", u.Draft())
		}
		if n.Last() != "info: Song uploaded successfully" {
			t.Errorf("unexpected notice %q", n.Last())
		}

		var phases []Phase
		for p := range progress {
			phases = append(phases, p.Phase)
		}
		want := []Phase{UploadPrepare, UploadSend, UploadDone}
		if len(phases) != len(want) {
			t.Fatalf("expected %v, got %v", want, phases)
		}
		for i := range want {
			if phases[i] != want[i] {
				t.Errorf("phase %d: expected %s, got %s", i, want[i], phases[i])
			}
		}

		if len(rec.records) != 1 || !rec.records[0].OK() || rec.records[0].Name() != "My Track" {
			t.Errorf("unexpected records %+v", rec.records)
		}
	})

	t.Run("Placeholder Name", func(t *testing.T) {
		c := tu.NewMockCatalog()
		u := newTestUploader(c, &tu.MockNotifier{}, UploadPolicy{PlaceholderName: "fake_name"})
		u.SelectFile(track)
		u.SetTag("jazz")

		if err := u.Submit(ctx, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Uploads[0].Name != "fake_name" {
			t.Errorf("expected placeholder name, got %q", c.Uploads[0].Name)
		}
	})

	t.Run("Failure", func(t *testing.T) {
		t.Run("clears draft by default", func(t *testing.T) {
			c := tu.NewMockCatalog()
			c.UploadErr = shared.ErrAPIRequest
			n := &tu.MockNotifier{}
			rec := &mockUploadRecorder{}
			u := newTestUploader(c, n, UploadPolicy{})
			u.SetRecorder(rec)
			u.SelectFile(track)
			u.SetTag("jazz")

			err := u.Submit(ctx, nil)
			if !errors.Is(err, shared.ErrUploadFailed) {
				t.Errorf("expected ErrUploadFailed, got %v", err)
			}
			if !u.Draft().Empty() {
				t.Error("expected draft cleared")
			}
			if n.Last() != "error: Failed to upload song" {
				t.Errorf("unexpected notice %q", n.Last())
			}
			if len(rec.records) != 1 || rec.records[0].OK() || rec.records[0].Error() == "" {
				t.Errorf("expected failed record, got %+v", rec.records)
			}
		})

		t.Run("keeps draft when configured", func(t *testing.T) {
			c := tu.NewMockCatalog()
			c.UploadErr = shared.ErrAPIRequest
			u := newTestUploader(c, &tu.MockNotifier{}, UploadPolicy{KeepDraftOnFailure: true})
			u.SelectFile(track)
			u.SetTag("jazz")

			u.Submit(ctx, nil)
			if d := u.Draft(); d.File != track || d.Tag != "jazz" {
				t.Errorf("expected draft kept, got %+v", d)
			}
		})

		t.Run("reports failure phase", func(t *testing.T) {
			c := tu.NewMockCatalog()
			c.UploadErr = shared.ErrAPIRequest
			u := newTestUploader(c, &tu.MockNotifier{}, UploadPolicy{})
			u.SelectFile(track)
			u.SetTag("jazz")

			progress := make(chan ProgressUpdate, 8)
			u.Submit(ctx, progress)
			close(progress)

			var last ProgressUpdate
			for p := range progress {
				last = p
			}
			if last.Phase != UploadFailed {
				t.Errorf("expected failure phase last, got %s", last.Phase)
			}
		})
	})

	t.Run("Full Progress Channel", func(t *testing.T) {
		c := tu.NewMockCatalog()
		u := newTestUploader(c, &tu.MockNotifier{}, UploadPolicy{})
		u.SelectFile(track)
		u.SetTag("jazz")

		if err := u.Submit(ctx, make(chan ProgressUpdate)); err != nil {
			t.Errorf("expected unbuffered progress not to block, got %v", err)
		}
	})
}

func TestLoadUploadFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := tu.WriteTempFile(t, "song.mp3", []byte("ID3abc"))

		f, err := LoadUploadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(f.Data) != "ID3abc" || f.BaseName() != "song" {
			t.Errorf("unexpected file %+v", f)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadUploadFile("/does/not/exist.mp3"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	tc := map[Phase]string{
		UploadPrepare: "upload_prepare",
		UploadSend:    "upload_send",
		UploadDone:    "upload_done",
		UploadFailed:  "upload_failed",
		Phase(99):     "",
	}
	for p, want := range tc {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), p.String(), want)
		}
	}
}
