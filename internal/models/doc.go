// Package models defines domain entities for the tagstream catalog client.
//
// The package contains two categories of types:
//
// 1. Catalog projections: read-only values fetched fresh on every query
//   - [Song] : Catalog entry with its primary [Tag] and optional [PlayableMedia]
//   - [Tag] : Classification label; Key is the filter key
//   - [Locator] : Id- or path-addressed pointer to a single audio resource
//
// 2. Client state and history
//   - [Draft] / [UploadFile] : Transient upload state, never persisted
//   - [PlayRecord] : Streams handed to the audio sink
//   - [UploadRecord] : Upload attempts with their outcome
//
// History entities implement the [Model] interface.
package models
