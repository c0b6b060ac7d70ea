// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/services"
)

var _ services.Catalog = (*MockCatalog)(nil)

// MockCatalog is a test double for [services.Catalog].
//
// Responses are looked up by tag key. When Gate has an entry for a key, SongsByTag blocks
// until a value is sent on it, which lets tests control delivery order.
type MockCatalog struct {
	mu        sync.Mutex
	ByTag     map[string][]models.Song
	TagErr    map[string]error
	All       []models.Song
	AllErr    error
	UploadErr error
	Gate      map[string]chan struct{}

	SearchCalls []string
	AllCalls    int
	Uploads     []services.UploadRequest
}

// NewMockCatalog creates an empty MockCatalog.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		ByTag:  map[string][]models.Song{},
		TagErr: map[string]error{},
		Gate:   map[string]chan struct{}{},
	}
}

func (m *MockCatalog) SongsByTag(ctx context.Context, key string) ([]models.Song, error) {
	m.mu.Lock()
	m.SearchCalls = append(m.SearchCalls, key)
	gate := m.Gate[key]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.TagErr[key]; err != nil {
		return nil, err
	}
	return append([]models.Song{}, m.ByTag[key]...), nil
}

func (m *MockCatalog) AllSongs(ctx context.Context) ([]models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AllCalls++
	if m.AllErr != nil {
		return nil, m.AllErr
	}
	return append([]models.Song{}, m.All...), nil
}

func (m *MockCatalog) StreamURL(song models.Song) (string, error) {
	return m.LocatorURL(song.ID), nil
}

func (m *MockCatalog) LocatorURL(value string) string {
	return "http://node.test/stream_audio?id=" + value
}

func (m *MockCatalog) UploadSong(ctx context.Context, req services.UploadRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, req)
	return m.UploadErr
}

func (m *MockCatalog) Name() string { return "mock" }

// SearchCount returns the number of search calls received.
func (m *MockCatalog) SearchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SearchCalls)
}

// UploadCount returns the number of upload calls received.
func (m *MockCatalog) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploads)
}

// MockSink records every source it is asked to play.
type MockSink struct {
	mu      sync.Mutex
	Played  []string
	Stops   int
	PlayErr error
	played  chan string
}

// NewMockSink creates a MockSink whose plays can be awaited with [MockSink.Next].
func NewMockSink() *MockSink {
	return &MockSink{played: make(chan string, 64)}
}

func (s *MockSink) Play(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PlayErr != nil {
		return s.PlayErr
	}
	s.Played = append(s.Played, url)
	select {
	case s.played <- url:
	default:
	}
	return nil
}

func (s *MockSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stops++
	return nil
}

// Next waits up to timeout for the next recorded play.
func (s *MockSink) Next(t *testing.T, timeout time.Duration) string {
	t.Helper()
	select {
	case url := <-s.played:
		return url
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for playback")
		return ""
	}
}

// Quiet asserts that nothing is played within d.
func (s *MockSink) Quiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case url := <-s.played:
		t.Fatalf("unexpected playback of %s", url)
	case <-time.After(d):
	}
}

// Count returns the number of recorded plays.
func (s *MockSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Played)
}

// MockNotifier records user-visible notices.
type MockNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (n *MockNotifier) Notify(level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, level+": "+message)
}

// Last returns the most recent notice or "".
func (n *MockNotifier) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Messages) == 0 {
		return ""
	}
	return n.Messages[len(n.Messages)-1]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper answers every request with a fixed response or error.
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

// Respond replaces the response returned by later round trips.
func (m *MockRoundTripper) Respond(r *http.Response, e error) {
	m.response, m.err = r, e
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// JSONResponse builds a 200 response carrying body as application/json.
func JSONResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser is a response body whose reads always fail.
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

// WriteTempFile writes content into a file named name under t.TempDir and returns its path.
func WriteTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := t.TempDir() + string(os.PathSeparator) + name
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}
