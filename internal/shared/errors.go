package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig  = fmt.Errorf("configuration not found")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrUnknownVariant = fmt.Errorf("unknown catalog variant")

	// Node and transport errors
	ErrNotConnected       = fmt.Errorf("node not connected")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrDecodeResponse     = fmt.Errorf("malformed response body")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSongNotFound       = fmt.Errorf("song not found")
	ErrNotStreamable      = fmt.Errorf("song has no locator for this catalog")

	// Upload errors
	ErrDraftIncomplete = fmt.Errorf("upload needs a file and a tag")
	ErrUploadFailed    = fmt.Errorf("failed to upload song")

	// Playback errors
	ErrNoPlayer = fmt.Errorf("no player command configured")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
