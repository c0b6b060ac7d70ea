// package models defines the data model for the tagstream catalog client
package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Model defines the base interface for persisted history records.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Tag is a classification label. Key is the case-sensitive filter key.
type Tag struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Label returns the display name of the tag, falling back to its key.
func (t Tag) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Key
}

// PlayableMedia is a location-addressed audio resource on the node.
type PlayableMedia struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// Song is a read-only catalog entry returned by search and listing endpoints.
//
// Media is only populated by path-addressed catalogs.
type Song struct {
	ID    string         `json:"id"`
	Name  string         `json:"name,omitempty"`
	Tag   Tag            `json:"tag"`
	Media *PlayableMedia `json:"playable_media,omitempty"`
}

// Title returns a non-empty display title for the song.
func (s Song) Title() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Media != nil && s.Media.Name != "" {
		return s.Media.Name
	}
	return fmt.Sprintf("Untitled (%s)", s.ID)
}

// LocatorKind enumerates the addressing schemes a catalog can stream by.
type LocatorKind int

const (
	ByID LocatorKind = iota
	ByPath
)

func (k LocatorKind) String() string {
	switch k {
	case ByID:
		return "id"
	case ByPath:
		return "path"
	default:
		return ""
	}
}

// Locator addresses a single audio resource on the node.
type Locator struct {
	Kind  LocatorKind
	Value string
}

// Locate returns the [Locator] of kind k for the song.
//
// ok is false when the song carries no value for that scheme.
func (s Song) Locate(k LocatorKind) (loc Locator, ok bool) {
	switch k {
	case ByID:
		return Locator{Kind: ByID, Value: s.ID}, s.ID != ""
	case ByPath:
		if s.Media == nil || s.Media.Path == "" {
			return Locator{Kind: ByPath}, false
		}
		return Locator{Kind: ByPath, Value: s.Media.Path}, true
	default:
		return Locator{}, false
	}
}

// Dedupe returns songs with repeated IDs removed, keeping the first occurrence, and the number of dropped entries.
func Dedupe(songs []Song) ([]Song, int) {
	seen := make(map[string]struct{}, len(songs))
	out := make([]Song, 0, len(songs))
	for _, s := range songs {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out, len(songs) - len(out)
}

// UploadFile is a selected audio file held in memory until submission.
type UploadFile struct {
	Name string
	Data []byte
}

// BaseName returns the file name stripped of directories and extension.
func (f UploadFile) BaseName() string {
	base := filepath.Base(f.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Draft is the transient pre-submission state of an upload.
type Draft struct {
	File *UploadFile
	Tag  string
}

// Complete reports whether both a file and a tag are present.
func (d Draft) Complete() bool {
	return d.File != nil && d.Tag != ""
}

// Empty reports whether the draft holds nothing.
func (d Draft) Empty() bool {
	return d.File == nil && d.Tag == ""
}
