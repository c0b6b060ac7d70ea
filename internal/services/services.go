// package services defines interface Catalog for interacting with the node's HTTP catalog
//
// Id-addressed and path-addressed endpoint families, plus the node status channel.
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/shared"
)

// Catalog defines the operations a catalog backend exposes to the client.
type Catalog interface {
	// SongsByTag fetches the songs filed under key. An empty key is sent as-is.
	SongsByTag(ctx context.Context, key string) ([]models.Song, error)

	// AllSongs fetches the full catalog.
	AllSongs(ctx context.Context) ([]models.Song, error)

	// StreamURL derives the streaming URL for song under the active addressing scheme.
	StreamURL(song models.Song) (string, error)

	// LocatorURL derives the streaming URL for a raw locator value (id or path).
	LocatorURL(value string) string

	// UploadSong submits a file and its tag as a single multipart request.
	UploadSong(ctx context.Context, req UploadRequest) error

	// Name returns the name of the backend (e.g., "Catalog (id)")
	Name() string
}

// UploadRequest is the payload of a single upload_song request.
type UploadRequest struct {
	File models.UploadFile
	Tag  string
	Name string
}

// Variant selects the catalog endpoint family.
type Variant string

const (
	// VariantID uses get_songs_from_tag and stream_audio?id=.
	VariantID Variant = "id"
	// VariantPath uses get_songs_from_key and get_audio?path=.
	VariantPath Variant = "path"
)

// ParseVariant validates a configured variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantID, VariantPath:
		return v, nil
	case "":
		return VariantID, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownVariant, s)
	}
}

// endpoints is the path table of one variant.
type endpoints struct {
	search      string
	searchParam string
	all         string
	stream      string
	streamParam string
	upload      string
	locator     models.LocatorKind
}

func (v Variant) endpoints() endpoints {
	if v == VariantPath {
		return endpoints{
			search:      "/get_songs_from_key",
			searchParam: "tag_key",
			all:         "/list_all_songs",
			stream:      "/get_audio",
			streamParam: "path",
			upload:      "/upload_song",
			locator:     models.ByPath,
		}
	}
	return endpoints{
		search:      "/get_songs_from_tag",
		searchParam: "tag",
		all:         "/list_all_songs",
		stream:      "/stream_audio",
		streamParam: "id",
		upload:      "/upload_song",
		locator:     models.ByID,
	}
}
