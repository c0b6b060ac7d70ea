// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views, cycled with tab / shift+tab:
//  1. [SearchView] : Tag input and the search results; enter on a result plays it
//  2. [AllSongsView] : The full catalog; r refreshes it
//  3. [UploadView] : Pick an .mp3 file, enter a tag, and upload it
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Lists are redrawn from the [tasks.CatalogEngine] whenever a fetch completes or a results event arrives,
// so a late response never overwrites a newer one on screen.
// User-visible notices arrive through [Notices], and the latest status channel message is shown in the footer.
//
// A "Node not connected" banner replaces the node id when no node identity is configured; the catalog stays usable.
package ui
