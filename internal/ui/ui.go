package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tagstream/internal/formatter"
	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/shared"
	"github.com/desertthunder/tagstream/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	AllSongsView
	UploadView
)

var viewNames = [...]string{"Song Search", "All Songs", "Upload"}

func (v ViewState) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return ""
}

// Screen texts.
const (
	AppTitle        = "Local Music Player"
	NotConnected    = "Node not connected"
	ResultsHeading  = "Results:"
	NoFileSelected  = "No file selected"
	OnlyMP3         = "Only .mp3 files can be uploaded"
	PlaybackFailed  = "Playback failed"
	tagPlaceholder  = "Enter tag key"
	dropPlaceholder = "Enter tag for the song"
)

// Deps are the controllers and channels the TUI drives.
//
// Events, Notices, and Status are optional.
type Deps struct {
	Engine   *tasks.CatalogEngine
	Session  *tasks.Session
	Uploader *tasks.Uploader
	Events   tasks.ResultsSubscriber
	Notices  Notices
	Status   <-chan services.StatusMessage
	Node     shared.NodeConfig
	Dir      string // starting directory of the file picker
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	engine   *tasks.CatalogEngine
	session  *tasks.Session
	uploader *tasks.Uploader
	node     shared.NodeConfig
	events   chan tasks.ResultsReplaced
	notices  Notices
	status   <-chan services.StatusMessage

	width     int
	height    int
	tagInput  textinput.Model
	results   list.Model
	allList   list.Model
	listFocus bool

	picker    filepicker.Model
	uploadTag textinput.Model
	tagFocus  bool
	uploading bool
	progress  *tasks.ProgressUpdate
	progressC chan tasks.ProgressUpdate
	uploadErr chan error

	notice     *Notice
	lastStatus string
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	tagInput := textinput.New()
	tagInput.Placeholder = tagPlaceholder
	tagInput.SetValue(deps.Engine.Query())
	tagInput.Focus()

	uploadTag := textinput.New()
	uploadTag.Placeholder = dropPlaceholder

	picker := filepicker.New()
	picker.AllowedTypes = []string{".mp3"}
	picker.CurrentDirectory = deps.Dir
	if picker.CurrentDirectory == "" {
		picker.CurrentDirectory = "."
	}

	m := &Model{
		ctx:       ctx,
		view:      SearchView,
		engine:    deps.Engine,
		session:   deps.Session,
		uploader:  deps.Uploader,
		node:      deps.Node,
		notices:   deps.Notices,
		status:    deps.Status,
		tagInput:  tagInput,
		results:   newSongList(ResultsHeading, nil),
		allList:   newSongList(AllSongsView.String(), nil),
		picker:    picker,
		uploadTag: uploadTag,
		help:      help.New(),
		keys:      newKeyMap(),
	}

	if deps.Events != nil {
		m.events = make(chan tasks.ResultsReplaced, tasks.DefaultEventBufferSize)
		deps.Events.OnResultsReplaced(func(_ context.Context, ev tasks.ResultsReplaced) {
			select {
			case m.events <- ev:
			default:
			}
		})
	}

	return m
}

// Init loads the default tag and starts listening for background messages.
//
// The full catalog is only fetched on request, when the All Songs view is opened or refreshed.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.initialLoad(),
		m.picker.Init(),
		textinput.Blink,
		waitForEvent(m.events),
		waitForNotice(m.notices),
		waitForStatus(m.status),
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-14)
		m.allList.SetSize(msg.Width-4, msg.Height-10)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgFetchDone:
		data := msg.data.(fetchDone)
		if data.err == nil {
			m.sync(data.slot)
		}
		return m, nil

	case MsgResultsReplaced:
		ev := msg.data.(tasks.ResultsReplaced)
		m.sync(ev.Slot)
		if ev.Slot == tasks.SlotSearch {
			m.results.ResetSelected()
		}
		return m, waitForEvent(m.events)

	case MsgPlayDone:
		data := msg.data.(playDone)
		if data.err != nil {
			m.notice = &Notice{Level: tasks.LevelError, Message: PlaybackFailed}
		}
		return m, nil

	case MsgFileLoaded:
		data := msg.data.(fileLoaded)
		if data.err != nil {
			m.notice = &Notice{Level: tasks.LevelError, Message: data.err.Error()}
			return m, nil
		}
		m.uploader.SelectFile(data.file)
		m.tagFocus = true
		return m, m.uploadTag.Focus()

	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.progress = &update
		return m, waitForProgress(m.progressC, m.uploadErr)

	case MsgUploadComplete:
		m.uploading = false
		m.progress = nil
		m.progressC, m.uploadErr = nil, nil
		if m.uploader.Draft().Empty() {
			m.uploadTag.Reset()
			m.uploadTag.Blur()
			m.tagFocus = false
		}
		return m, nil

	case MsgNotice:
		n := msg.data.(Notice)
		m.notice = &n
		return m, waitForNotice(m.notices)

	case MsgStatus:
		s := msg.data.(services.StatusMessage)
		m.lastStatus = s.Text()
		return m, waitForStatus(m.status)
	}
	return m, nil
}

// sync reloads a list from the engine, which only holds the latest applied response.
func (m *Model) sync(slot tasks.Slot) {
	switch slot {
	case tasks.SlotSearch:
		m.results.SetItems(songItems(m.engine.Results()))
		if m.results.Index() >= len(m.results.Items()) {
			m.results.ResetSelected()
		}
	case tasks.SlotAll:
		m.allList.SetItems(songItems(m.engine.AllSongs()))
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case m.uploading && m.view == UploadView:
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.switchView((m.view + 1) % ViewState(len(viewNames)))
	case key.Matches(msg, m.keys.prev):
		return m, m.switchView((m.view + ViewState(len(viewNames)) - 1) % ViewState(len(viewNames)))
	}

	switch m.view {
	case SearchView:
		return m.handleSearchKeys(msg)
	case AllSongsView:
		return m.handleAllSongsKeys(msg)
	case UploadView:
		return m.handleUploadKeys(msg)
	}
	return m, nil
}

// switchView activates v. Entering the All Songs view fetches the full catalog.
func (m *Model) switchView(v ViewState) tea.Cmd {
	m.view = v
	m.tagInput.Blur()
	m.uploadTag.Blur()
	switch {
	case v == SearchView && !m.listFocus:
		m.tagInput.Focus()
	case v == UploadView && m.tagFocus:
		m.uploadTag.Focus()
	case v == AllSongsView:
		return m.fetchAll()
	}
	return nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.listFocus {
		switch msg.String() {
		case "enter":
			tag := m.tagInput.Value()
			m.engine.SetQuery(tag)
			m.focusResults()
			return m, m.search(tag)
		case "down":
			m.focusResults()
			return m, nil
		}

		var cmd tea.Cmd
		m.tagInput, cmd = m.tagInput.Update(msg)
		m.engine.SetQuery(m.tagInput.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		return m, m.playSelected()
	case key.Matches(msg, m.keys.stop):
		m.session.Stop()
		return m, nil
	case key.Matches(msg, m.keys.back), msg.String() == "/":
		m.listFocus = false
		return m, m.tagInput.Focus()
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) focusResults() {
	m.listFocus = true
	m.tagInput.Blur()
}

func (m *Model) handleAllSongsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		return m, m.playSelected()
	case key.Matches(msg, m.keys.stop):
		m.session.Stop()
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchAll()
	}

	var cmd tea.Cmd
	m.allList, cmd = m.allList.Update(msg)
	return m, cmd
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tagFocus {
		switch msg.String() {
		case "enter":
			return m, m.startUpload()
		case "esc":
			m.tagFocus = false
			m.uploadTag.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.uploadTag, cmd = m.uploadTag.Update(msg)
		m.uploader.SetTag(m.uploadTag.Value())
		return m, cmd
	}

	if msg.String() == "q" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, loadFile(path)
	}
	if ok, _ := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = &Notice{Level: tasks.LevelWarn, Message: OnlyMP3}
	}
	return m, cmd
}

func (m *Model) initialLoad() tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg(tasks.SlotSearch, m.engine.Init(m.ctx))
	}
}

func (m *Model) search(key string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.Search(m.ctx, key)
		return fetchDoneMsg(tasks.SlotSearch, err)
	}
}

func (m *Model) fetchAll() tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.FetchAllSongs(m.ctx)
		return fetchDoneMsg(tasks.SlotAll, err)
	}
}

func (m *Model) playSelected() tea.Cmd {
	song, ok := m.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return playDoneMsg(song, m.session.PlaySong(m.ctx, song))
	}
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		file, err := tasks.LoadUploadFile(path)
		return fileLoadedMsg(file, err)
	}
}

func (m *Model) startUpload() tea.Cmd {
	m.uploading = true
	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan error, 1)
	m.progressC, m.uploadErr = progress, done

	go func() {
		done <- m.uploader.Submit(m.ctx, progress)
		close(progress)
	}()

	return waitForProgress(progress, done)
}

func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan error) tea.Cmd {
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return uploadCompleteMsg(<-done)
		}
		return progressUpdateMsg(update)
	}
}

func waitForEvent(events <-chan tasks.ResultsReplaced) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return resultsReplacedMsg(ev)
	}
}

func waitForNotice(notices Notices) tea.Cmd {
	if notices == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-notices
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func waitForStatus(status <-chan services.StatusMessage) tea.Cmd {
	if status == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-status
		if !ok {
			return nil
		}
		return statusMsg(s)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.view {
	case SearchView:
		b.WriteString(m.renderSearch())
	case AllSongsView:
		b.WriteString(m.renderAllSongs())
	case UploadView:
		b.WriteString(m.renderUpload())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styles.title.Render(AppTitle)
	var node string
	if m.node.Connected() {
		node = styles.help.Render("ID: " + m.node.ID)
	} else {
		node = styles.banner.Render(NotConnected)
	}

	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if ViewState(i) == m.view {
			tabs[i] = styles.active.Render(name)
		} else {
			tabs[i] = styles.tab.Render(name)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", node),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.tagInput.View())
	b.WriteString("\n\n")

	if len(m.results.Items()) == 0 {
		b.WriteString(ResultsHeading + "\n")
		b.WriteString(styles.help.Render(formatter.NoSearchResults))
		b.WriteString("\n")
	} else {
		b.WriteString(m.results.View())
	}

	search := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search"))
	helpKeys := []key.Binding{search, m.keys.down, m.keys.next}
	if m.listFocus {
		helpKeys = []key.Binding{m.keys.enter, m.keys.back, m.keys.stop, m.keys.next, m.keys.quit}
	}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderAllSongs() string {
	var b strings.Builder
	if len(m.allList.Items()) == 0 {
		b.WriteString(AllSongsView.String() + "\n")
		b.WriteString(styles.help.Render(formatter.NoSongs))
		b.WriteString("\n")
	} else {
		b.WriteString(m.allList.View())
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.stop, m.keys.next, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderUpload() string {
	var b strings.Builder
	draft := m.uploader.Draft()

	file := NoFileSelected
	if draft.File != nil {
		file = fmt.Sprintf("File: %s (%d bytes)", draft.File.Name, len(draft.File.Data))
	}
	b.WriteString(file + "\n")
	b.WriteString(m.uploadTag.View() + "\n\n")

	switch {
	case m.uploading && m.progress != nil:
		b.WriteString(fmt.Sprintf("Uploading (%d/%d) %s\n", m.progress.Step, m.progress.Total, m.progress.Message))
	case m.uploading:
		b.WriteString("Uploading...\n")
	case !m.tagFocus:
		b.WriteString(m.picker.View())
	}

	upload := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload"))
	helpKeys := []key.Binding{m.keys.enter, m.keys.next, m.keys.quit}
	if m.tagFocus {
		helpKeys = []key.Binding{upload, m.keys.back, m.keys.next}
	}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderFooter() string {
	var lines []string

	if song, ok := m.session.Current(); ok {
		lines = append(lines, styles.ok.Render("♪ "+formatter.SongLine(song)))
	}
	if m.notice != nil {
		lines = append(lines, styles.notice(m.notice.Level).Render(m.notice.Message))
	}
	if m.lastStatus != "" {
		lines = append(lines, styles.help.Render("node: "+m.lastStatus))
	}
	return strings.Join(lines, "\n")
}

// Current returns the active view.
func (m *Model) Current() ViewState {
	return m.view
}

// Selected returns the highlighted song of the active list, if any.
func (m *Model) Selected() (models.Song, bool) {
	l := m.results
	if m.view == AllSongsView {
		l = m.allList
	}
	item, ok := l.SelectedItem().(songItem)
	return item.song, ok
}
