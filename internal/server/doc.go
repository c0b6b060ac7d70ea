// Package server provides HTTP routing, middleware, and an in-memory catalog node for local development.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] and [Recover] are provided.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Development Node
//
// [DevNode] serves every catalog endpoint the client speaks, under a configurable base path:
//   - GET get_songs_from_tag?tag= and get_songs_from_key?tag_key= (null for an unknown tag)
//   - GET list_all_songs
//   - GET stream_audio?id= and get_audio?path= (Range requests supported)
//   - POST upload_song (multipart: file, tag, name; id becomes name + ".mp3")
//   - GET / upgrades to a WebSocket that receives {"type":"update","data":...} after each upload
//
// [DevNode.Seed] preloads a music directory, reading embedded titles where present.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
