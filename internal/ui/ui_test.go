package ui

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/shared"
	"github.com/desertthunder/tagstream/internal/tasks"
	tu "github.com/desertthunder/tagstream/internal/testing"
)

type fixture struct {
	model   *Model
	catalog *tu.MockCatalog
	sink    *tu.MockSink
	engine  *tasks.CatalogEngine
}

func newFixture(t *testing.T, mutate func(*Deps)) *fixture {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	catalog := tu.NewMockCatalog()
	catalog.ByTag["defaultKey"] = []models.Song{{ID: "intro.mp3", Name: "intro", Tag: models.Tag{Key: "defaultKey"}}}
	catalog.ByTag["jazz"] = []models.Song{
		{ID: "so what.mp3", Name: "so what", Tag: models.Tag{Key: "jazz", Name: "Jazz"}},
		{ID: "blue.mp3", Name: "blue", Tag: models.Tag{Key: "jazz", Name: "Jazz"}},
	}
	catalog.All = []models.Song{catalog.ByTag["defaultKey"][0], catalog.ByTag["jazz"][0]}

	sink := tu.NewMockSink()
	engine := tasks.NewCatalogEngine(catalog, logger, tasks.CatalogOpts{})
	notices := NewNotices(DefaultNoticeBuffer)

	deps := Deps{
		Engine:   engine,
		Session:  tasks.NewSession(catalog, sink, logger),
		Uploader: tasks.NewUploader(catalog, notices, logger, tasks.UploadPolicy{}),
		Notices:  notices,
		Dir:      t.TempDir(),
	}
	if mutate != nil {
		mutate(&deps)
	}

	m := NewModel(context.Background(), deps)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return &fixture{model: m, catalog: catalog, sink: sink, engine: engine}
}

// run executes cmd and feeds every resulting message back into the model.
func (f *fixture) run(cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 20; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = f.model.Update(msg)
	}
}

// once executes a single command and feeds its message into the model, dropping any follow-up.
func (f *fixture) once(cmd tea.Cmd) {
	if msg := cmd(); msg != nil {
		f.model.Update(msg)
	}
}

func (f *fixture) press(k tea.KeyType) tea.Cmd {
	_, cmd := f.model.Update(tea.KeyMsg{Type: k})
	return cmd
}

func (f *fixture) typeText(s string) {
	f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func titles(m *Model, v ViewState) []string {
	l := m.results
	if v == AllSongsView {
		l = m.allList
	}
	var out []string
	for _, item := range l.Items() {
		out = append(out, item.(songItem).song.Title())
	}
	return out
}

func TestModel(t *testing.T) {
	t.Run("Connection Banner", func(t *testing.T) {
		f := newFixture(t, nil)
		if !strings.Contains(f.model.View(), NotConnected) {
			t.Errorf("expected banner, got:\n%s", f.model.View())
		}

		f = newFixture(t, func(d *Deps) { d.Node = shared.NodeConfig{ID: "node-1", Process: "proc"} })
		view := f.model.View()
		if strings.Contains(view, NotConnected) || !strings.Contains(view, "ID: node-1") {
			t.Errorf("expected node id, got:\n%s", view)
		}
	})

	t.Run("Initial Load", func(t *testing.T) {
		f := newFixture(t, nil)
		f.run(f.model.initialLoad())

		if got := titles(f.model, SearchView); len(got) != 1 || got[0] != "intro" {
			t.Errorf("unexpected results %v", got)
		}
		if f.catalog.SearchCalls[0] != "defaultKey" {
			t.Errorf("expected default tag search, got %v", f.catalog.SearchCalls)
		}
		if f.catalog.AllCalls != 0 {
			t.Errorf("expected no full catalog fetch on startup, got %d", f.catalog.AllCalls)
		}
	})

	t.Run("All Songs Fetched On Entry", func(t *testing.T) {
		f := newFixture(t, nil)
		f.run(f.press(tea.KeyTab))

		if f.catalog.AllCalls != 1 {
			t.Errorf("expected one fetch, got %d", f.catalog.AllCalls)
		}
		if got := titles(f.model, AllSongsView); len(got) != 2 {
			t.Errorf("unexpected all songs %v", got)
		}

		f.run(f.press(tea.KeyTab))
		if f.catalog.AllCalls != 1 {
			t.Errorf("expected no fetch when leaving the view, got %d", f.catalog.AllCalls)
		}
	})

	t.Run("Search From Input", func(t *testing.T) {
		f := newFixture(t, nil)
		f.typeText("jazz")
		if f.engine.Query() != "jazz" {
			t.Fatalf("expected query to follow input, got %q", f.engine.Query())
		}

		f.run(f.press(tea.KeyEnter))

		if got := titles(f.model, SearchView); len(got) != 2 || got[0] != "so what" {
			t.Errorf("unexpected results %v", got)
		}
		if !f.model.listFocus {
			t.Error("expected focus on results")
		}
	})

	t.Run("Empty Results", func(t *testing.T) {
		f := newFixture(t, nil)
		f.typeText("nothing")
		f.run(f.press(tea.KeyEnter))

		if !strings.Contains(f.model.View(), "No songs found for this tag.") {
			t.Errorf("expected empty text, got:\n%s", f.model.View())
		}
	})

	t.Run("Failed Search Keeps Results", func(t *testing.T) {
		f := newFixture(t, nil)
		f.typeText("jazz")
		f.run(f.press(tea.KeyEnter))

		f.catalog.TagErr["broken"] = shared.ErrAPIRequest
		f.press(tea.KeyEsc)
		f.model.tagInput.SetValue("")
		f.typeText("broken")
		f.run(f.press(tea.KeyEnter))

		if got := titles(f.model, SearchView); len(got) != 2 {
			t.Errorf("expected previous results, got %v", got)
		}
	})

	t.Run("Failed Search Keeps Selection", func(t *testing.T) {
		f := newFixture(t, nil)
		f.typeText("jazz")
		f.run(f.press(tea.KeyEnter))
		f.press(tea.KeyDown)
		if f.model.results.Index() != 1 {
			t.Fatalf("expected cursor on second song, got %d", f.model.results.Index())
		}

		f.catalog.TagErr["broken"] = shared.ErrAPIRequest
		f.press(tea.KeyEsc)
		f.model.tagInput.SetValue("")
		f.typeText("broken")
		f.run(f.press(tea.KeyEnter))

		if f.model.results.Index() != 1 {
			t.Errorf("expected cursor to stay, got %d", f.model.results.Index())
		}
		if song, ok := f.model.Selected(); !ok || song.Name != "blue" {
			t.Errorf("expected blue selected, got %+v", song)
		}
	})

	t.Run("Play Selected", func(t *testing.T) {
		f := newFixture(t, nil)
		f.typeText("jazz")
		f.run(f.press(tea.KeyEnter))
		f.press(tea.KeyDown)
		f.run(f.press(tea.KeyEnter))

		if url := f.sink.Next(t, time.Second); url != "http://node.test/stream_audio?id=blue.mp3" {
			t.Errorf("unexpected source %s", url)
		}
		if !strings.Contains(f.model.View(), "blue - Tag: Jazz") {
			t.Errorf("expected now playing line, got:\n%s", f.model.View())
		}
	})

	t.Run("Playback Failure", func(t *testing.T) {
		f := newFixture(t, nil)
		f.sink.PlayErr = shared.ErrNoPlayer
		f.typeText("jazz")
		f.run(f.press(tea.KeyEnter))
		f.run(f.press(tea.KeyEnter))

		if !strings.Contains(f.model.View(), PlaybackFailed) {
			t.Errorf("expected failure notice, got:\n%s", f.model.View())
		}
	})

	t.Run("Events Refresh Results", func(t *testing.T) {
		bus := tasks.NewBus(8, shared.NewLogger(io.Discard))
		defer bus.Close()

		catalog := tu.NewMockCatalog()
		catalog.ByTag["lofi"] = []models.Song{{ID: "a", Name: "a", Tag: models.Tag{Key: "lofi"}}}

		var engine *tasks.CatalogEngine
		f := newFixture(t, func(d *Deps) {
			engine = tasks.NewCatalogEngine(catalog, shared.NewLogger(io.Discard), tasks.CatalogOpts{Publisher: bus})
			d.Engine = engine
			d.Events = bus
		})

		if _, err := engine.Search(context.Background(), "lofi"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f.once(waitForEvent(f.model.events))

		if got := titles(f.model, SearchView); len(got) != 1 || got[0] != "a" {
			t.Errorf("expected event to refresh results, got %v", got)
		}
	})

	t.Run("Replaced Results Reset Selection", func(t *testing.T) {
		bus := tasks.NewBus(8, shared.NewLogger(io.Discard))
		defer bus.Close()

		catalog := tu.NewMockCatalog()
		catalog.ByTag["lofi"] = []models.Song{
			{ID: "a", Name: "a", Tag: models.Tag{Key: "lofi"}},
			{ID: "b", Name: "b", Tag: models.Tag{Key: "lofi"}},
		}

		var engine *tasks.CatalogEngine
		f := newFixture(t, func(d *Deps) {
			engine = tasks.NewCatalogEngine(catalog, shared.NewLogger(io.Discard), tasks.CatalogOpts{Publisher: bus})
			d.Engine = engine
			d.Events = bus
		})

		engine.Search(context.Background(), "lofi")
		f.once(waitForEvent(f.model.events))
		f.model.results.CursorDown()
		if f.model.results.Index() != 1 {
			t.Fatalf("expected cursor on second song, got %d", f.model.results.Index())
		}

		engine.Search(context.Background(), "lofi")
		f.once(waitForEvent(f.model.events))
		if f.model.results.Index() != 0 {
			t.Errorf("expected selection reset, got %d", f.model.results.Index())
		}
	})

	t.Run("View Switching", func(t *testing.T) {
		f := newFixture(t, nil)
		f.press(tea.KeyTab)
		if f.model.Current() != AllSongsView {
			t.Errorf("expected all songs view, got %v", f.model.Current())
		}
		f.press(tea.KeyTab)
		f.press(tea.KeyTab)
		if f.model.Current() != SearchView {
			t.Errorf("expected wrap to search view, got %v", f.model.Current())
		}
		f.press(tea.KeyShiftTab)
		if f.model.Current() != UploadView {
			t.Errorf("expected upload view, got %v", f.model.Current())
		}
	})

	t.Run("All Songs Empty", func(t *testing.T) {
		f := newFixture(t, nil)
		f.catalog.All = nil
		f.run(f.press(tea.KeyTab))
		if !strings.Contains(f.model.View(), "No songs.") {
			t.Errorf("expected empty text, got:\n%s", f.model.View())
		}
	})

	t.Run("Quit", func(t *testing.T) {
		f := newFixture(t, nil)
		f.press(tea.KeyTab)
		_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("Status Footer", func(t *testing.T) {
		status := make(chan services.StatusMessage, 1)
		f := newFixture(t, func(d *Deps) { d.Status = status })
		status <- services.StatusMessage{Type: "update", Data: json.RawMessage(`"Song uploaded successfully"`)}

		f.once(waitForStatus(f.model.status))
		if !strings.Contains(f.model.View(), "node: Song uploaded successfully") {
			t.Errorf("expected status footer, got:\n%s", f.model.View())
		}
	})
}

func TestUploadView(t *testing.T) {
	load := func(t *testing.T, f *fixture) {
		t.Helper()
		path := tu.WriteTempFile(t, "My Track.mp3", []byte("ID3-data"))
		f.press(tea.KeyShiftTab)
		f.once(loadFile(path))
		if f.model.uploader.Draft().File == nil || !f.model.tagFocus {
			t.Fatalf("expected file in draft and focus on tag input")
		}
	}

	t.Run("Submit", func(t *testing.T) {
		f := newFixture(t, nil)
		load(t, f)
		f.typeText("jazz")
		if f.model.uploader.Draft().Tag != "jazz" {
			t.Fatalf("expected tag in draft, got %q", f.model.uploader.Draft().Tag)
		}

		f.run(f.press(tea.KeyEnter))
		f.once(waitForNotice(f.model.notices))

		if f.catalog.UploadCount() != 1 {
			t.Fatalf("expected one upload, got %d", f.catalog.UploadCount())
		}
		req := f.catalog.Uploads[0]
		if req.Name != "My Track" || req.Tag != "jazz" {
			t.Errorf("unexpected request %+v", req)
		}
		if !f.model.uploader.Draft().Empty() || f.model.uploadTag.Value() != "" {
			t.Error("expected draft and input cleared")
		}
		if f.model.uploading {
			t.Error("expected upload to finish")
		}
		if !strings.Contains(f.model.View(), tasks.MsgUploadSucceeded) {
			t.Errorf("expected success notice, got:\n%s", f.model.View())
		}
	})

	t.Run("Missing Tag", func(t *testing.T) {
		f := newFixture(t, nil)
		load(t, f)

		f.run(f.press(tea.KeyEnter))
		f.once(waitForNotice(f.model.notices))

		if f.catalog.UploadCount() != 0 {
			t.Error("expected no upload")
		}
		if !strings.Contains(f.model.View(), tasks.MsgDraftIncomplete) {
			t.Errorf("expected warning, got:\n%s", f.model.View())
		}
	})

	t.Run("Failure Clears Draft", func(t *testing.T) {
		f := newFixture(t, nil)
		f.catalog.UploadErr = shared.ErrAPIRequest
		load(t, f)
		f.typeText("jazz")

		f.run(f.press(tea.KeyEnter))
		f.once(waitForNotice(f.model.notices))

		if !f.model.uploader.Draft().Empty() {
			t.Error("expected draft cleared")
		}
		if !strings.Contains(f.model.View(), tasks.MsgUploadFailed) {
			t.Errorf("expected failure notice, got:\n%s", f.model.View())
		}
	})

	t.Run("Unreadable File", func(t *testing.T) {
		f := newFixture(t, nil)
		f.press(tea.KeyShiftTab)
		f.once(loadFile("/does/not/exist.mp3"))

		if f.model.uploader.Draft().File != nil || f.model.notice == nil {
			t.Error("expected error notice and no file")
		}
		if !strings.Contains(f.model.View(), NoFileSelected) {
			t.Errorf("expected empty draft view, got:\n%s", f.model.View())
		}
	})
}

func TestNotices(t *testing.T) {
	n := NewNotices(1)
	n.Notify(tasks.LevelInfo, "first")
	n.Notify(tasks.LevelInfo, "dropped")

	got := <-n
	if got.Message != "first" || got.Level != tasks.LevelInfo {
		t.Errorf("unexpected notice %+v", got)
	}
	select {
	case extra := <-n:
		t.Errorf("expected overflow to be dropped, got %+v", extra)
	default:
	}

	var none Notices
	none.Notify(tasks.LevelWarn, "no listener")
}
