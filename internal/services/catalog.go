// Node catalog [Catalog] implementation
//
// Talks to the song catalog served by the hosting node under its application base path.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/shared"
	"golang.org/x/time/rate"
)

const defaultNodeURL string = "http://localhost:8080"

var _ Catalog = (*NodeCatalog)(nil)

// NodeCatalog implements the [Catalog] interface over HTTP.
type NodeCatalog struct {
	baseURL    string
	variant    Variant
	ep         endpoints
	httpClient *http.Client
	limiter    *rate.Limiter
}

// CatalogOpts contains configuration options for creating a NodeCatalog.
type CatalogOpts struct {
	BaseURL           string
	Variant           Variant
	HTTPClient        *http.Client
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables spacing
}

// NewNodeCatalog creates a new catalog client for the given base URL (node URL + base path).
func NewNodeCatalog(opts CatalogOpts) *NodeCatalog {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultNodeURL
	}
	if opts.Variant == "" {
		opts.Variant = VariantID
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &NodeCatalog{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		variant:    opts.Variant,
		ep:         opts.Variant.endpoints(),
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Name returns the backend name.
func (c *NodeCatalog) Name() string {
	return fmt.Sprintf("Catalog (%s)", c.variant)
}

// Variant returns the active endpoint family.
func (c *NodeCatalog) Variant() Variant {
	return c.variant
}

// BaseURL returns the catalog root all paths are relative to.
func (c *NodeCatalog) BaseURL() string {
	return c.baseURL
}

func (c *NodeCatalog) endpointURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends req after waiting on the limiter and fails on transport errors and non-2xx statuses.
//
// The caller owns the response body on success.
func (c *NodeCatalog) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return resp, nil
}

func (c *NodeCatalog) getSongs(ctx context.Context, endpoint string) ([]models.Song, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var songs []models.Song
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecodeResponse, err)
	}

	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

// SongsByTag fetches the songs filed under key.
//
// Calls GET /get_songs_from_tag?tag= or /get_songs_from_key?tag_key= depending on the variant.
func (c *NodeCatalog) SongsByTag(ctx context.Context, key string) ([]models.Song, error) {
	query := url.Values{c.ep.searchParam: []string{key}}
	return c.getSongs(ctx, c.endpointURL(c.ep.search, query))
}

// AllSongs fetches the full catalog.
//
// Calls GET /list_all_songs.
func (c *NodeCatalog) AllSongs(ctx context.Context) ([]models.Song, error) {
	return c.getSongs(ctx, c.endpointURL(c.ep.all, nil))
}

// StreamURL derives the streaming URL for song.
//
// Returns [shared.ErrNotStreamable] when the song lacks the locator this variant needs.
func (c *NodeCatalog) StreamURL(song models.Song) (string, error) {
	loc, ok := song.Locate(c.ep.locator)
	if !ok {
		return "", fmt.Errorf("%w: %s needs a %s locator for %q", shared.ErrNotStreamable, c.Name(), c.ep.locator, song.ID)
	}
	return c.LocatorURL(loc.Value), nil
}

// LocatorURL builds /stream_audio?id= or /get_audio?path= for value.
func (c *NodeCatalog) LocatorURL(value string) string {
	return c.endpointURL(c.ep.stream, url.Values{c.ep.streamParam: []string{value}})
}

// UploadSong posts the file, tag, and name parts to /upload_song.
func (c *NodeCatalog) UploadSong(ctx context.Context, r UploadRequest) error {
	body, contentType, err := encodeUpload(r)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(c.ep.upload, nil), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// encodeUpload builds the multipart body. The file part carries the audio MIME type of its extension.
func encodeUpload(r UploadRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fileName := filepath.Base(r.File.Name)
	contentType := shared.AudioContentType(fileName)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(r.File.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}

	for _, field := range [][2]string{{"tag", r.Tag}, {"name", r.Name}} {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write %s field: %w", field[0], err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// APIResponse represents a raw catalog response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Raw performs a GET against path (relative to the catalog root) without status checks.
func (c *NodeCatalog) Raw(ctx context.Context, path string) (*APIResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
