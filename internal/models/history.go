package models

import (
	"fmt"
	"time"
)

var _ Model = (*PlayRecord)(nil)
var _ Model = (*UploadRecord)(nil)

// PlayRecord is a persisted entry of a stream handed to the audio sink.
type PlayRecord struct {
	id        string
	songID    string
	title     string
	tagKey    string
	streamURL string
	auto      bool
	createdAt time.Time
}

// NewPlayRecord creates a PlayRecord for a song streamed from streamURL.
// auto marks plays triggered by a result list replacement.
func NewPlayRecord(song Song, streamURL string, auto bool) *PlayRecord {
	return &PlayRecord{
		songID:    song.ID,
		title:     song.Title(),
		tagKey:    song.Tag.Key,
		streamURL: streamURL,
		auto:      auto,
		createdAt: time.Now(),
	}
}

// RestorePlayRecord rebuilds a PlayRecord from stored columns.
func RestorePlayRecord(id, songID, title, tagKey, streamURL string, auto bool, createdAt time.Time) *PlayRecord {
	return &PlayRecord{
		id:        id,
		songID:    songID,
		title:     title,
		tagKey:    tagKey,
		streamURL: streamURL,
		auto:      auto,
		createdAt: createdAt,
	}
}

func (p *PlayRecord) ID() string           { return p.id }
func (p *PlayRecord) SetID(id string)      { p.id = id }
func (p *PlayRecord) SongID() string       { return p.songID }
func (p *PlayRecord) Title() string        { return p.title }
func (p *PlayRecord) TagKey() string       { return p.tagKey }
func (p *PlayRecord) StreamURL() string    { return p.streamURL }
func (p *PlayRecord) Auto() bool           { return p.auto }
func (p *PlayRecord) CreatedAt() time.Time { return p.createdAt }

// Validate checks required fields.
func (p *PlayRecord) Validate() error {
	if p.streamURL == "" {
		return fmt.Errorf("stream url is required")
	}
	if p.songID == "" {
		return fmt.Errorf("song id is required")
	}
	return nil
}

// UploadRecord is a persisted upload attempt and its outcome.
type UploadRecord struct {
	id        string
	fileName  string
	tagKey    string
	name      string
	size      int
	ok        bool
	errMsg    string
	createdAt time.Time
}

// NewUploadRecord creates an UploadRecord. err is the outcome; nil means success.
func NewUploadRecord(file UploadFile, tagKey, name string, err error) *UploadRecord {
	r := &UploadRecord{
		fileName:  file.Name,
		tagKey:    tagKey,
		name:      name,
		size:      len(file.Data),
		ok:        err == nil,
		createdAt: time.Now(),
	}
	if err != nil {
		r.errMsg = err.Error()
	}
	return r
}

// RestoreUploadRecord rebuilds an UploadRecord from stored columns.
func RestoreUploadRecord(id, fileName, tagKey, name string, size int, ok bool, errMsg string, createdAt time.Time) *UploadRecord {
	return &UploadRecord{
		id:        id,
		fileName:  fileName,
		tagKey:    tagKey,
		name:      name,
		size:      size,
		ok:        ok,
		errMsg:    errMsg,
		createdAt: createdAt,
	}
}

func (u *UploadRecord) ID() string           { return u.id }
func (u *UploadRecord) SetID(id string)      { u.id = id }
func (u *UploadRecord) FileName() string     { return u.fileName }
func (u *UploadRecord) TagKey() string       { return u.tagKey }
func (u *UploadRecord) Name() string         { return u.name }
func (u *UploadRecord) Size() int            { return u.size }
func (u *UploadRecord) OK() bool             { return u.ok }
func (u *UploadRecord) Error() string        { return u.errMsg }
func (u *UploadRecord) CreatedAt() time.Time { return u.createdAt }

// Validate checks required fields.
func (u *UploadRecord) Validate() error {
	if u.fileName == "" {
		return fmt.Errorf("file name is required")
	}
	if u.tagKey == "" {
		return fmt.Errorf("tag is required")
	}
	return nil
}
