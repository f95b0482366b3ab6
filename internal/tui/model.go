package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/csheth/benotes/internal/browse"
	"github.com/csheth/benotes/internal/catalog"
	"github.com/csheth/benotes/internal/logging/events"
	"github.com/csheth/benotes/internal/preview"
	"github.com/csheth/benotes/internal/resources"
	"github.com/csheth/benotes/internal/upload"
)

// Fetcher loads the resources of one subject.
type Fetcher interface {
	Fetch(ctx context.Context, q resources.Query) (resources.Plan, error)
}

// Uploader submits a new resource.
type Uploader interface {
	Submit(ctx context.Context, fields upload.Fields, file *upload.File) (upload.Ack, error)
}

// PreviewLoader downloads a resource and extracts its text.
type PreviewLoader interface {
	Load(ctx context.Context, link string) (preview.Document, error)
}

// Config wires runtime options into the TUI program.
type Config struct {
	Catalog   *catalog.Catalog
	Fetcher   Fetcher
	Uploader  Uploader
	Previewer PreviewLoader
	// Timeout bounds each background job; 0 leaves them unbounded.
	Timeout time.Duration
}

const heroTagline = "Course notes, syllabi and past questions by semester."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	list := viewport.New(80, 20)
	list.MouseWheelEnabled = true
	pane := viewport.New(80, 20)
	pane.MouseWheelEnabled = true

	return &model{
		config:      config,
		stage:       stagePrograms,
		nav:         browse.NewNavigator(config.Catalog),
		jobs:        newJobBus(config.Timeout),
		spinner:     spin,
		list:        list,
		preview:     pane,
		layout:      newPageLayout(),
		helpCache:   map[int]string{},
		infoMessage: "Pick a program to browse its semesters.",
	}
}

type model struct {
	config Config
	stage  stage
	nav    *browse.Navigator
	jobs   *jobBus

	spinner spinner.Model
	list    viewport.Model
	preview viewport.Model
	layout  pageLayout

	programCursor int
	items         []listItem
	cursor        int

	form       *huh.Form
	draft      *uploadDraft
	submitting bool
	lastAck    upload.Ack
	formReturn stage

	previewLink    string
	previewDoc     preview.Document
	previewErr     string
	previewLoading bool
	previewReturn  stage

	helpVisible  bool
	helpCache    map[int]string
	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	events.App.Start(map[string]interface{}{"programs": len(m.config.Catalog.Programs())})
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.needsSpinner() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.renderList()
			if m.previewLoading {
				m.renderPreview()
			}
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.list.Width = m.layout.viewportWidth
		m.list.Height = m.layout.viewportHeight
		m.preview.Width = m.layout.viewportWidth
		m.preview.Height = m.layout.viewportHeight
		if m.form != nil {
			m.form = m.form.WithWidth(m.layout.viewportWidth)
		}
		m.renderList()
		m.renderPreview()
		return m, nil
	case jobSignalMsg:
		m.jobs.track(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.jobs.track(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case resourcesResultMsg:
		m.applyResources(msg)
		return m, nil
	case uploadResultMsg:
		return m, m.applyUpload(msg)
	case previewResultMsg:
		m.applyPreview(msg)
		return m, nil
	case clipboardResultMsg:
		events.Preview.Copy(msg.link, msg.err)
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("copy failed: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = "Link copied to clipboard."
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		switch m.stage {
		case stageSubjects:
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		case stagePreview:
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.stage == stageUpload && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *model) needsSpinner() bool {
	return m.jobs.Busy() || m.submitting || m.previewLoading
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpVisible && m.stage != stageUpload {
		switch key.String() {
		case "?", "esc", "q":
			m.helpVisible = false
			return m, nil
		}
		return m, nil
	}
	switch m.stage {
	case stagePrograms:
		return m.handleProgramKey(key)
	case stageSubjects:
		return m.handleSubjectKey(key)
	case stageUpload:
		if key.Type == tea.KeyEsc {
			m.closeUpload("Upload cancelled.")
			return m, nil
		}
		return m.updateForm(key)
	case stageUploadDone:
		switch key.String() {
		case "enter", "esc", " ", "q":
			m.stage = m.formReturn
			m.infoMessage = "Thanks for contributing."
		}
		return m, nil
	case stagePreview:
		return m.handlePreviewKey(key)
	}
	return m, nil
}

func (m *model) handleProgramKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	programs := m.config.Catalog.Programs()
	switch key.String() {
	case "up", "k":
		if m.programCursor > 0 {
			m.programCursor--
		}
	case "down", "j":
		if m.programCursor < len(programs)-1 {
			m.programCursor++
		}
	case "enter", " ":
		if len(programs) == 0 {
			return m, nil
		}
		m.selectProgram(programs[m.programCursor].Key)
	case "u":
		return m, m.openUpload()
	case "?":
		m.helpVisible = true
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handleSubjectKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "g", "home":
		m.cursor = m.firstSelectable()
		m.renderList()
	case "G", "end":
		m.cursor = m.lastSelectable()
		m.renderList()
	case "left", "h":
		if sem := m.nav.ActiveSemester(); sem > 1 {
			m.selectSemester(sem - 1)
		}
	case "right", "l":
		if sem := m.nav.ActiveSemester(); sem < catalog.SemesterCount {
			m.selectSemester(sem + 1)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.selectSemester(int(key.Runes[0] - '0'))
	case "enter", " ":
		return m, m.activateCursor()
	case "y":
		if item, ok := m.currentItem(); ok && item.kind == itemResource {
			return m, copyLinkCmd(item.record.Link)
		}
		m.infoMessage = "Select a resource to copy its link."
	case "u":
		return m, m.openUpload()
	case "?":
		m.helpVisible = true
	case "esc", "b", "backspace":
		m.nav.GoBack()
		events.Nav.Back()
		m.stage = stagePrograms
		m.items = nil
		m.cursor = 0
		if m.nav.ConsumeScrollTop() {
			m.list.GotoTop()
		}
		m.errorMessage = ""
		m.infoMessage = "Pick a program to browse its semesters."
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handlePreviewKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "q", "b":
		m.stage = m.previewReturn
		m.renderList()
		return m, nil
	case "y":
		return m, copyLinkCmd(m.previewLink)
	case "?":
		m.helpVisible = true
		return m, nil
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(key)
	return m, cmd
}

func (m *model) selectProgram(key string) {
	if err := m.nav.SelectProgram(key); err != nil {
		m.errorMessage = err.Error()
		return
	}
	events.Nav.Program(key)
	m.stage = stageSubjects
	m.errorMessage = ""
	if p, ok := m.nav.Program(); ok {
		m.infoMessage = fmt.Sprintf("%s: pick a subject to load its resources.", p.Name)
	}
	m.afterRebuild()
}

func (m *model) selectSemester(sem int) {
	if err := m.nav.SelectSemester(sem); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.errorMessage = ""
	m.afterRebuild()
}

func (m *model) afterRebuild() {
	sel := m.nav.Selection()
	events.Nav.Semester(sel.Program, sel.Semester, len(m.nav.Rows()))
	m.items = m.buildItems()
	m.cursor = m.firstSelectable()
	// New rows always start at the top.
	m.nav.ConsumeScrollTop()
	m.list.GotoTop()
	m.renderList()
}

// activateCursor expands or collapses what is under the cursor. A subject
// whose panel needs loading returns exactly one fetch job.
func (m *model) activateCursor() tea.Cmd {
	item, ok := m.currentItem()
	if !ok {
		return nil
	}
	switch item.kind {
	case itemGroup:
		if _, err := m.nav.ToggleGroup(item.id); err != nil {
			m.errorMessage = err.Error()
		}
		m.refreshItems()
		return nil
	case itemSubject:
		req, err := m.nav.ToggleSubject(item.position)
		if err != nil {
			m.errorMessage = err.Error()
			return nil
		}
		if panel, ok := m.nav.Panel(item.id); ok {
			events.Panel.Toggle(item.id, panel.State().String())
		}
		m.refreshItems()
		if req == nil {
			return nil
		}
		events.Panel.Fetch(req.Generation, req.Key, req.Query.Subject)
		return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindFetch, fetchResourcesJob(m.config.Fetcher, *req)))
	case itemResource:
		return m.openPreview(item.record.Link)
	}
	return nil
}

func (m *model) applyResources(msg resourcesResultMsg) {
	if !m.nav.Resolve(msg.req, msg.plan, msg.err) {
		events.Panel.Stale(msg.req.Generation, msg.req.Key)
		log.Printf("[tui] dropped result for %s (generation %d)", msg.req.Key, msg.req.Generation)
		return
	}
	events.Panel.Result(msg.req.Generation, msg.req.Key, msg.plan.Len(), msg.err)
	if msg.err != nil {
		log.Printf("[tui] %s: %v", msg.req.Key, msg.err)
	}
	m.refreshItems()
}

func (m *model) openUpload() tea.Cmd {
	if m.submitting {
		m.infoMessage = "An upload is already in progress."
		return nil
	}
	sel := catalogSelection{}
	if m.stage == stageSubjects {
		s := m.nav.Selection()
		sel = catalogSelection{program: s.Program, semester: s.Semester}
	}
	m.formReturn = m.stage
	m.draft = newUploadDraft(sel)
	m.form = newUploadForm(m.config.Catalog, m.draft, m.layout.viewportWidth)
	m.stage = stageUpload
	m.helpVisible = false
	m.errorMessage = ""
	m.infoMessage = "Fill in the details and submit. Esc cancels."
	return m.form.Init()
}

func (m *model) closeUpload(message string) {
	m.stage = m.formReturn
	m.form = nil
	if !m.submitting {
		m.draft = nil
	}
	m.errorMessage = ""
	m.infoMessage = message
	m.renderList()
}

func (m *model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.submitting || m.form == nil {
		return m, nil
	}
	updated, cmd := m.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		m.form = form
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m, tea.Batch(cmd, m.submitUpload())
	case huh.StateAborted:
		m.closeUpload("Upload cancelled.")
		return m, nil
	}
	return m, cmd
}

// submitUpload locks the form until the result arrives, whatever it is.
func (m *model) submitUpload() tea.Cmd {
	if m.submitting || m.draft == nil {
		return nil
	}
	fields := m.draft.fields()
	if err := fields.Validate(); err != nil {
		m.errorMessage = err.Error()
		m.form = newUploadForm(m.config.Catalog, m.draft, m.layout.viewportWidth)
		return m.form.Init()
	}
	m.submitting = true
	m.errorMessage = ""
	m.infoMessage = "Uploading…"
	events.Upload.Submit(fields.Program, fields.Semester, fields.Subject, string(fields.Type))
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindUpload, submitUploadJob(m.config.Uploader, fields, m.draft.file())))
}

func (m *model) applyUpload(msg uploadResultMsg) tea.Cmd {
	m.submitting = false
	events.Upload.Result(msg.ack.RequestID, msg.err)
	if msg.err != nil {
		m.errorMessage = uploadErrorMessage(msg.err)
		if m.stage == stageUpload && m.draft != nil {
			m.infoMessage = "Fix the form or press Esc to cancel."
			m.form = newUploadForm(m.config.Catalog, m.draft, m.layout.viewportWidth)
			return m.form.Init()
		}
		return nil
	}
	m.lastAck = msg.ack
	m.draft = nil
	m.form = nil
	m.errorMessage = ""
	if m.stage == stageUpload {
		m.stage = stageUploadDone
		m.infoMessage = "Press enter to continue."
		return nil
	}
	m.infoMessage = "Upload successful."
	return nil
}

func uploadErrorMessage(err error) string {
	var upErr *upload.Error
	switch {
	case errors.As(err, &upErr):
		return upErr.Message()
	case errors.Is(err, upload.ErrInFlight):
		return "An upload is already in progress."
	default:
		return err.Error()
	}
}

func (m *model) openPreview(link string) tea.Cmd {
	if m.config.Previewer == nil {
		m.infoMessage = "Preview is unavailable. Press y to copy the link."
		return nil
	}
	events.Preview.Open(link)
	m.previewReturn = m.stage
	m.stage = stagePreview
	m.helpVisible = false
	if link == m.previewLink && !m.previewLoading && m.previewErr == "" && m.previewDoc.Link == link {
		m.renderPreview()
		return nil
	}
	m.previewLink = link
	m.previewDoc = preview.Document{}
	m.previewErr = ""
	m.previewLoading = true
	m.preview.GotoTop()
	m.renderPreview()
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindPreview, loadPreviewJob(m.config.Previewer, link)))
}

func (m *model) applyPreview(msg previewResultMsg) {
	if msg.link != m.previewLink {
		return
	}
	m.previewLoading = false
	if msg.err != nil {
		m.previewErr = msg.err.Error()
		if errors.Is(msg.err, preview.ErrNotPDF) {
			m.previewErr = "This resource is not a PDF. Press y to copy the link."
		}
	} else {
		m.previewDoc = msg.doc
	}
	m.renderPreview()
}
