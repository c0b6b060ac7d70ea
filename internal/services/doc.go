// Package services defines the [Catalog] interface for the node's song catalog and implements it over HTTP.
//
// # Catalog Interface
//
// The query, playback, and upload controllers only see [Catalog], so the endpoint family in use
// is a configuration choice rather than something baked into callers.
//
// # Variants
//
// [NodeCatalog] speaks one of two endpoint families selected by [Variant]:
//   - [VariantID] : GET /get_songs_from_tag?tag=, streams by /stream_audio?id=
//   - [VariantPath] : GET /get_songs_from_key?tag_key=, streams by /get_audio?path= (songs carry playable_media)
//
// Both share GET /list_all_songs and POST /upload_song (multipart: file, tag, name).
// Paths are relative to the node URL joined with the application base path.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrDecodeResponse] : body is not a JSON song list
//   - [shared.ErrNotStreamable] : song has no locator for the active variant
//
// No status-specific branching and no retries happen here.
//
// # Status Channel
//
// [StatusChannel] reads the node's WebSocket notifications. It is informational only.
package services
