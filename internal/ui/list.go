package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tagstream/internal/formatter"
	"github.com/desertthunder/tagstream/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title() }
func (i songItem) Title() string       { return formatter.SongLine(i.song) }
func (i songItem) Description() string { return "ID: " + i.song.ID }

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}

func newSongList(title string, songs []models.Song) list.Model {
	l := list.New(songItems(songs), list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}
