package models

import (
	"errors"
	"testing"
)

func TestSong(t *testing.T) {
	t.Run("Title", func(t *testing.T) {
		tc := []struct {
			name string
			song Song
			want string
		}{
			{name: "uses name", song: Song{ID: "1", Name: "Song A"}, want: "Song A"},
			{
				name: "falls back to media name",
				song: Song{ID: "1", Media: &PlayableMedia{Path: "/a.mp3", Name: "Media A"}},
				want: "Media A",
			},
			{name: "falls back to id", song: Song{ID: "abc.mp3"}, want: "Untitled (abc.mp3)"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.song.Title(); got != tt.want {
					t.Errorf("Title() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("Tag Label", func(t *testing.T) {
		if got := (Tag{Key: "jazz"}).Label(); got != "jazz" {
			t.Errorf("expected key fallback, got %q", got)
		}
		if got := (Tag{Key: "jazz", Name: "Jazz"}).Label(); got != "Jazz" {
			t.Errorf("expected name, got %q", got)
		}
	})

	t.Run("Locate", func(t *testing.T) {
		song := Song{ID: "1", Media: &PlayableMedia{Path: "music/1.mp3"}}

		loc, ok := song.Locate(ByID)
		if !ok || loc.Value != "1" || loc.Kind != ByID {
			t.Errorf("unexpected id locator %+v (ok=%v)", loc, ok)
		}

		loc, ok = song.Locate(ByPath)
		if !ok || loc.Value != "music/1.mp3" || loc.Kind != ByPath {
			t.Errorf("unexpected path locator %+v (ok=%v)", loc, ok)
		}

		if _, ok := (Song{ID: "2"}).Locate(ByPath); ok {
			t.Error("expected song without media to have no path locator")
		}
	})
}

func TestDedupe(t *testing.T) {
	songs := []Song{{ID: "1", Name: "first"}, {ID: "2"}, {ID: "1", Name: "second"}}

	got, dropped := Dedupe(songs)
	if dropped != 1 {
		t.Errorf("expected 1 dropped, got %d", dropped)
	}
	if len(got) != 2 || got[0].Name != "first" || got[1].ID != "2" {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestDraft(t *testing.T) {
	file := &UploadFile{Name: "/tmp/music/Track One.mp3", Data: []byte("x")}

	if (Draft{File: file}).Complete() {
		t.Error("draft without tag should not be complete")
	}
	if (Draft{Tag: "jazz"}).Complete() {
		t.Error("draft without file should not be complete")
	}
	if !(Draft{File: file, Tag: "jazz"}).Complete() {
		t.Error("draft with file and tag should be complete")
	}
	if !(Draft{}).Empty() {
		t.Error("zero draft should be empty")
	}
	if got := file.BaseName(); got != "Track One" {
		t.Errorf("BaseName() = %q", got)
	}
}

func TestHistoryRecords(t *testing.T) {
	t.Run("PlayRecord Validate", func(t *testing.T) {
		r := NewPlayRecord(Song{ID: "1", Name: "A", Tag: Tag{Key: "jazz"}}, "http://node/stream_audio?id=1", true)
		if err := r.Validate(); err != nil {
			t.Errorf("expected valid record, got %v", err)
		}
		if !r.Auto() || r.Title() != "A" || r.TagKey() != "jazz" {
			t.Errorf("unexpected record fields %+v", r)
		}

		if err := NewPlayRecord(Song{ID: "1"}, "", false).Validate(); err == nil {
			t.Error("expected error for missing stream url")
		}
	})

	t.Run("UploadRecord outcome", func(t *testing.T) {
		file := UploadFile{Name: "a.mp3", Data: []byte("abc")}

		ok := NewUploadRecord(file, "jazz", "a", nil)
		if !ok.OK() || ok.Error() != "" || ok.Size() != 3 {
			t.Errorf("unexpected success record %+v", ok)
		}

		failed := NewUploadRecord(file, "jazz", "a", errors.New("boom"))
		if failed.OK() || failed.Error() != "boom" {
			t.Errorf("unexpected failure record %+v", failed)
		}

		if err := NewUploadRecord(file, "", "a", nil).Validate(); err == nil {
			t.Error("expected error for missing tag")
		}
	})
}
