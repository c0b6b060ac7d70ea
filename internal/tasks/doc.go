// Package tasks implements the client's catalog query, playback, and upload controllers.
//
// # Core Operations
//
//  1. [CatalogEngine] : tag search and full listing
//     - [CatalogEngine.Init] searches the default tag on startup
//     - [CatalogEngine.Search] and [CatalogEngine.FetchAllSongs] replace their own list wholesale
//     - Failures keep the previous list and are logged
//
//  2. [Session] : the single audio sink
//     - [Session.PlaySong] derives the streaming URL and hands it to the [Sink]
//     - [Session.AutoPlay] plays the first song of every non-empty search replacement
//
//  3. [Uploader] : the upload draft
//     - [Uploader.Submit] validates the draft, sends one multipart request, and notifies the user
//
// # Ordering
//
// Every request takes the next sequence number of its slot (search or all). Responses older than
// the last applied one are discarded. Applied replacements are published on the [Bus], whose single
// dispatcher delivers them in order.
//
// # Progress Reporting
//
// Uploads emit [ProgressUpdate] values through non-blocking channels; a full channel drops the update.
//
// # History
//
// The optional [PlayRecorder] and [UploadRecorder] interfaces persist plays and uploads
// (repositories.PlayRepository, repositories.UploadRepository). Recording errors are logged and ignored.
package tasks
