package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgFetchDone MsgKind = iota
	MsgResultsReplaced
	MsgPlayDone
	MsgFileLoaded
	MsgProgressUpdate
	MsgUploadComplete
	MsgNotice
	MsgStatus
)

type fetchDone struct {
	slot tasks.Slot
	err  error
}

type playDone struct {
	song models.Song
	err  error
}

type fileLoaded struct {
	file *models.UploadFile
	err  error
}

// fetchDoneMsg is the constructor for [MsgFetchDone]
func fetchDoneMsg(slot tasks.Slot, err error) Msg {
	return Msg{kind: MsgFetchDone, data: fetchDone{slot, err}}
}

// resultsReplacedMsg is the constructor for [MsgResultsReplaced]
func resultsReplacedMsg(ev tasks.ResultsReplaced) Msg {
	return Msg{kind: MsgResultsReplaced, data: ev}
}

// playDoneMsg is the constructor for [MsgPlayDone]
func playDoneMsg(song models.Song, err error) Msg {
	return Msg{kind: MsgPlayDone, data: playDone{song, err}}
}

// fileLoadedMsg is the constructor for [MsgFileLoaded]
func fileLoadedMsg(file *models.UploadFile, err error) Msg {
	return Msg{kind: MsgFileLoaded, data: fileLoaded{file, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// uploadCompleteMsg is the constructor for [MsgUploadComplete]
func uploadCompleteMsg(err error) Msg {
	return Msg{kind: MsgUploadComplete, data: err}
}

// noticeMsg is the constructor for [MsgNotice]
func noticeMsg(n Notice) Msg {
	return Msg{kind: MsgNotice, data: n}
}

// statusMsg is the constructor for [MsgStatus]
func statusMsg(s services.StatusMessage) Msg {
	return Msg{kind: MsgStatus, data: s}
}
