package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/shared"
)

// PlayRecorder persists plays for later retrieval.
//
// Implementations should handle [models.PlayRecord] ID generation.
type PlayRecorder interface {
	RecordPlay(ctx context.Context, record *models.PlayRecord) error
}

// Session owns the audio sink and the current stream source.
//
// Only the streaming URL of the current song is kept; there is no queue and no end-of-track transition.
type Session struct {
	catalog  services.Catalog
	sink     Sink
	recorder PlayRecorder
	logger   *log.Logger

	mu      sync.Mutex
	source  string
	current *models.Song
}

// NewSession creates a Session playing through sink.
func NewSession(catalog services.Catalog, sink Sink, logger *log.Logger) *Session {
	return &Session{catalog: catalog, sink: sink, logger: shared.WithLogger(logger, "component", "playback")}
}

// SetRecorder enables play history. Recording errors are logged and ignored.
func (s *Session) SetRecorder(r PlayRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// PlaySong derives the streaming URL for song, sets it as the sink source, and starts playback.
func (s *Session) PlaySong(ctx context.Context, song models.Song) error {
	return s.play(ctx, song, false)
}

// PlayLocator streams a raw id or path, as typed by the user.
func (s *Session) PlayLocator(ctx context.Context, value string) error {
	if value == "" {
		return fmt.Errorf("locator is empty")
	}
	return s.start(ctx, models.Song{ID: value}, s.catalog.LocatorURL(value), false)
}

func (s *Session) play(ctx context.Context, song models.Song, auto bool) error {
	url, err := s.catalog.StreamURL(song)
	if err != nil {
		s.logger.Error("cannot stream song", "id", song.ID, "error", err)
		return err
	}
	return s.start(ctx, song, url, auto)
}

func (s *Session) start(ctx context.Context, song models.Song, url string, auto bool) error {
	s.mu.Lock()
	if err := s.sink.Play(ctx, url); err != nil {
		s.mu.Unlock()
		s.logger.Error("playback failed", "id", song.ID, "url", url, "error", err)
		return fmt.Errorf("play %q: %w", song.ID, err)
	}
	s.source = url
	s.current = &song
	recorder := s.recorder
	s.mu.Unlock()

	s.logger.Info("now playing", "id", song.ID, "title", song.Title(), "auto", auto)

	if recorder != nil {
		if err := recorder.RecordPlay(ctx, models.NewPlayRecord(song, url, auto)); err != nil {
			s.logger.Warn("failed to record play", "id", song.ID, "error", err)
		}
	}
	return nil
}

// Stop stops the sink and clears the source.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = ""
	s.current = nil
	return s.sink.Stop()
}

// Source returns the streaming URL currently set on the sink, or "".
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Current returns the song currently set on the sink.
func (s *Session) Current() (models.Song, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Song{}, false
	}
	return *s.current, true
}

// AutoPlay subscribes the session to search result replacements.
//
// Every non-empty replacement plays its first song, including the startup load.
func (s *Session) AutoPlay(sub ResultsSubscriber) {
	sub.OnResultsReplaced(func(ctx context.Context, ev ResultsReplaced) {
		if ev.Slot != SlotSearch || len(ev.Songs) == 0 {
			return
		}
		if err := s.play(ctx, ev.Songs[0], true); err != nil {
			s.logger.Warn("auto-play failed", "tag", ev.Key, "seq", ev.Seq, "error", err)
		}
	})
}
