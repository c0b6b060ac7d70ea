// package formatter renders song lists and history to text, Markdown, CSV, and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/shared"
)

// Format names accepted by [Songs].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// Empty-list texts.
const (
	NoSearchResults = "No songs found for this tag."
	NoSongs         = "No songs."
)

// SongLine renders "<title> - Tag: <label>".
func SongLine(song models.Song) string {
	return fmt.Sprintf("%s - Tag: %s", song.Title(), song.Tag.Label())
}

// Songs renders songs in the named format. empty is printed by text formats when the list is empty.
func Songs(format string, songs []models.Song, empty string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return SongsToText(songs, empty), nil
	case FormatMarkdown, "md":
		return SongsToMarkdown("Songs", songs, empty), nil
	case FormatCSV:
		return SongsToCSV(songs)
	case FormatJSON:
		return shared.MarshalJSON(songs, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// SongsToText renders one numbered [SongLine] per song.
func SongsToText(songs []models.Song, empty string) []byte {
	var buf bytes.Buffer
	if len(songs) == 0 {
		buf.WriteString(empty + "\n")
		return buf.Bytes()
	}
	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, SongLine(song)))
	}
	return buf.Bytes()
}

// SongsToMarkdown renders songs as a Markdown list under a heading.
func SongsToMarkdown(title string, songs []models.Song, empty string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	if len(songs) == 0 {
		buf.WriteString(fmt.Sprintf("_%s_\n", empty))
		return buf.Bytes()
	}

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s `%s` [%s]\n", i+1, song.Title(), song.ID, song.Tag.Label()))
	}

	return buf.Bytes()
}

// SongsToCSV converts songs to CSV with columns: ID, Title, Tag, Tag Name, Path
func SongsToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Tag", "Tag Name", "Path"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		path := ""
		if song.Media != nil {
			path = song.Media.Path
		}
		record := []string{song.ID, song.Title(), song.Tag.Key, song.Tag.Name, path}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaysToText renders play history, newest first as given.
func PlaysToText(plays []*models.PlayRecord) []byte {
	var buf bytes.Buffer
	if len(plays) == 0 {
		buf.WriteString("No plays yet.\n")
		return buf.Bytes()
	}
	for _, p := range plays {
		mode := "manual"
		if p.Auto() {
			mode = "auto"
		}
		buf.WriteString(fmt.Sprintf("%s  %-6s %s [%s]\n", stamp(p.CreatedAt()), mode, p.Title(), p.TagKey()))
	}
	return buf.Bytes()
}

// UploadsToText renders upload history.
func UploadsToText(uploads []*models.UploadRecord) []byte {
	var buf bytes.Buffer
	if len(uploads) == 0 {
		buf.WriteString("No uploads yet.\n")
		return buf.Bytes()
	}
	for _, u := range uploads {
		status := "✓"
		if !u.OK() {
			status = "✗"
		}
		line := fmt.Sprintf("%s  %s %s -> %s (%s bytes)", stamp(u.CreatedAt()), status, u.Name(), u.TagKey(), strconv.Itoa(u.Size()))
		if u.Error() != "" {
			line += ": " + u.Error()
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes()
}

func stamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
