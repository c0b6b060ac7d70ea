package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/services"
)

// DefaultTag is the key searched on startup when none is configured.
const DefaultTag string = "defaultKey"

// CatalogEngine holds the tag query and the two result lists.
//
// Each slot has its own request sequence. A response replaces its list only when its sequence is newer
// than the last applied one, so a response that lands after a newer one is dropped.
type CatalogEngine struct {
	catalog    services.Catalog
	publisher  ResultsPublisher
	logger     *log.Logger
	defaultTag string

	mu      sync.Mutex
	query   string
	results []models.Song
	all     []models.Song
	issued  [2]uint64
	applied [2]uint64
}

// CatalogOpts contains configuration options for creating a CatalogEngine.
type CatalogOpts struct {
	DefaultTag string
	Publisher  ResultsPublisher // optional
}

// NewCatalogEngine creates a CatalogEngine with empty result lists.
func NewCatalogEngine(catalog services.Catalog, logger *log.Logger, opts CatalogOpts) *CatalogEngine {
	if opts.DefaultTag == "" {
		opts.DefaultTag = DefaultTag
	}
	return &CatalogEngine{
		catalog:    catalog,
		publisher:  opts.Publisher,
		logger:     logger,
		defaultTag: opts.DefaultTag,
		results:    []models.Song{},
		all:        []models.Song{},
	}
}

// Init runs the startup search with the default tag.
//
// On failure the search results stay empty and the error is returned for diagnostics.
func (e *CatalogEngine) Init(ctx context.Context) error {
	_, err := e.Search(ctx, e.defaultTag)
	return err
}

// SetQuery records the text of the tag input. It does not search.
func (e *CatalogEngine) SetQuery(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = s
}

// Query returns the current tag input.
func (e *CatalogEngine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// Results returns a copy of the current search results.
func (e *CatalogEngine) Results() []models.Song {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Song{}, e.results...)
}

// AllSongs returns a copy of the current full catalog listing.
func (e *CatalogEngine) AllSongs() []models.Song {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Song{}, e.all...)
}

// Search fetches the songs for key and replaces the search results with them.
//
// key is sent unvalidated. On failure the previous results are kept and the error is returned.
// The fetched list is returned even when a newer response has already been applied.
func (e *CatalogEngine) Search(ctx context.Context, key string) ([]models.Song, error) {
	seq := e.next(SlotSearch)
	logger := e.logger.With("slot", SlotSearch, "seq", seq, "tag", key)

	songs, err := e.catalog.SongsByTag(ctx, key)
	if err != nil {
		logger.Error("search failed", "error", err)
		return nil, fmt.Errorf("search %q: %w", key, err)
	}

	songs = e.normalize(logger, songs)
	e.apply(logger, ResultsReplaced{Slot: SlotSearch, Key: key, Songs: songs, Seq: seq})
	return songs, nil
}

// FetchAllSongs fetches the full catalog and replaces the all-songs list with it.
//
// On failure the previous list is kept and the error is returned.
func (e *CatalogEngine) FetchAllSongs(ctx context.Context) ([]models.Song, error) {
	seq := e.next(SlotAll)
	logger := e.logger.With("slot", SlotAll, "seq", seq)

	songs, err := e.catalog.AllSongs(ctx)
	if err != nil {
		logger.Error("failed to fetch all songs", "error", err)
		return nil, fmt.Errorf("list all songs: %w", err)
	}

	songs = e.normalize(logger, songs)
	e.apply(logger, ResultsReplaced{Slot: SlotAll, Songs: songs, Seq: seq})
	return songs, nil
}

func (e *CatalogEngine) next(slot Slot) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.issued[slot]++
	return e.issued[slot]
}

func (e *CatalogEngine) normalize(logger *log.Logger, songs []models.Song) []models.Song {
	if songs == nil {
		return []models.Song{}
	}
	out, dropped := models.Dedupe(songs)
	if dropped > 0 {
		logger.Warn("response contained duplicate song ids", "dropped", dropped)
	}
	return out
}

// apply replaces the slot's list when ev is newer than the last applied response.
// Publishing happens under the lock so events leave in applied order.
func (e *CatalogEngine) apply(logger *log.Logger, ev ResultsReplaced) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ev.Seq <= e.applied[ev.Slot] {
		logger.Debug("discarding stale response", "applied", e.applied[ev.Slot])
		return
	}
	e.applied[ev.Slot] = ev.Seq

	switch ev.Slot {
	case SlotSearch:
		e.results = ev.Songs
	case SlotAll:
		e.all = ev.Songs
	}
	logger.Debug("results replaced", "songs", len(ev.Songs))

	if e.publisher != nil {
		e.publisher.PublishResultsReplaced(ResultsReplaced{
			Slot:  ev.Slot,
			Key:   ev.Key,
			Songs: append([]models.Song{}, ev.Songs...),
			Seq:   ev.Seq,
		})
	}
}
