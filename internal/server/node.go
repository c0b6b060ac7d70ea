package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/shared"
)

// DefaultMaxUpload bounds the multipart body accepted by upload_song.
const DefaultMaxUpload int64 = 64 << 20

// Response texts of the node.
const (
	msgNoTag         = "No tag provided"
	msgNoSongID      = "No song ID provided"
	msgNoPath        = "No path provided"
	msgAudioNotFound = "Audio file not found"
	msgMissingFields = "Missing required fields for song upload"
	msgUploaded      = "Song uploaded successfully"
)

type audioFile struct {
	data    []byte
	modTime time.Time
}

// DevNode is an in-memory catalog node serving both endpoint families.
//
// Songs are bucketed by tag key in upload order; each song's id is its name plus ".mp3".
// Re-uploading a name replaces the audio and appends another entry to the tag bucket.
type DevNode struct {
	hub       *Hub
	logger    *log.Logger
	maxUpload int64

	mu    sync.RWMutex
	tags  []string
	byTag map[string][]models.Song
	files map[string]*audioFile
}

// NewDevNode creates an empty DevNode.
func NewDevNode(logger *log.Logger) *DevNode {
	return &DevNode{
		hub:       NewHub(logger),
		logger:    logger,
		maxUpload: DefaultMaxUpload,
		byTag:     map[string][]models.Song{},
		files:     map[string]*audioFile{},
	}
}

// Hub returns the node's update channel.
func (n *DevNode) Hub() *Hub {
	return n.hub
}

// AddSong stores data under tag and returns the stored song.
func (n *DevNode) AddSong(name, tag string, data []byte) (models.Song, error) {
	if name == "" || tag == "" || len(data) == 0 {
		return models.Song{}, fmt.Errorf("%w: name, tag, and data are required", shared.ErrInvalidInput)
	}

	song := models.Song{
		ID:   name + ".mp3",
		Name: name,
		Tag:  models.Tag{Key: tag, Name: tag},
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.byTag[tag]; !ok {
		n.tags = append(n.tags, tag)
	}
	n.byTag[tag] = append(n.byTag[tag], song)
	n.files[song.ID] = &audioFile{data: data, modTime: time.Now()}
	return song, nil
}

// SongsByTag returns the bucket for tag. ok is false when the tag was never used.
func (n *DevNode) SongsByTag(tag string) (songs []models.Song, ok bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	bucket, ok := n.byTag[tag]
	if !ok {
		return nil, false
	}
	return append([]models.Song{}, bucket...), true
}

// AllSongs returns every song, tags in first-use order.
func (n *DevNode) AllSongs() []models.Song {
	n.mu.RLock()
	defer n.mu.RUnlock()
	all := []models.Song{}
	for _, tag := range n.tags {
		all = append(all, n.byTag[tag]...)
	}
	return all
}

// Register mounts every endpoint under basePath.
func (n *DevNode) Register(r Router, basePath string) {
	base := "/" + strings.Trim(basePath, "/")
	if base == "/" {
		base = ""
	}

	r.Handle(http.MethodGet, base+"/get_songs_from_tag", http.HandlerFunc(n.handleSongsFromTag))
	r.Handle(http.MethodGet, base+"/get_songs_from_key", http.HandlerFunc(n.handleSongsFromKey))
	r.Handle(http.MethodGet, base+"/list_all_songs", http.HandlerFunc(n.handleListAll))
	r.Handle(http.MethodGet, base+"/stream_audio", http.HandlerFunc(n.handleStreamAudio))
	r.Handle(http.MethodGet, base+"/get_audio", http.HandlerFunc(n.handleGetAudio))
	r.Handle(http.MethodPost, base+"/upload_song", http.HandlerFunc(n.handleUpload))
	r.Handle(http.MethodGet, base+"/", n.hub)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func withMedia(songs []models.Song) []models.Song {
	for i := range songs {
		songs[i].Media = &models.PlayableMedia{Path: songs[i].ID, Name: songs[i].Name}
	}
	return songs
}

// handleSongsFromTag answers with the bucket, or null for an unknown tag.
func (n *DevNode) handleSongsFromTag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("tag") {
		http.Error(w, msgNoTag, http.StatusBadRequest)
		return
	}
	songs, ok := n.SongsByTag(q.Get("tag"))
	if !ok {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, songs)
}

func (n *DevNode) handleSongsFromKey(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("tag_key") {
		http.Error(w, msgNoTag, http.StatusBadRequest)
		return
	}
	songs, ok := n.SongsByTag(q.Get("tag_key"))
	if !ok {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, withMedia(songs))
}

func (n *DevNode) handleListAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, withMedia(n.AllSongs()))
}

func (n *DevNode) handleStreamAudio(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, msgNoSongID, http.StatusBadRequest)
		return
	}
	n.serveAudio(w, r, id)
}

func (n *DevNode) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, msgNoPath, http.StatusBadRequest)
		return
	}
	n.serveAudio(w, r, path)
}

// serveAudio streams the stored file, honoring Range requests.
func (n *DevNode) serveAudio(w http.ResponseWriter, r *http.Request, id string) {
	f, err := n.audio(id)
	if err != nil {
		n.logger.Debug("audio lookup failed", "error", err)
		http.Error(w, msgAudioNotFound, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", shared.AudioContentType(id))
	http.ServeContent(w, r, id, f.modTime, bytes.NewReader(f.data))
}

// audio returns the stored file for id, or [shared.ErrSongNotFound].
func (n *DevNode) audio(id string) (*audioFile, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	f, ok := n.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrSongNotFound, id)
	}
	return f, nil
}

func (n *DevNode) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, n.maxUpload)
	if err := r.ParseMultipartForm(n.maxUpload); err != nil {
		n.logger.Warn("malformed upload", "error", err)
		http.Error(w, msgMissingFields, http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	tag := r.FormValue("tag")

	var data []byte
	if file, hdr, err := r.FormFile("file"); err == nil {
		data, err = io.ReadAll(file)
		file.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n.logger.Debug("received file part", "filename", hdr.Filename, "bytes", len(data))
	}

	song, err := n.AddSong(name, tag, data)
	if err != nil {
		http.Error(w, msgMissingFields, http.StatusBadRequest)
		return
	}

	n.logger.Info("song added", "id", song.ID, "tag", tag, "bytes", len(data))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, msgUploaded)
	n.hub.Broadcast(msgUploaded)
}
