package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"pathgrip/internal/config"
	"pathgrip/internal/eventbus"
	"pathgrip/internal/provider"
	"pathgrip/internal/ui/commands"
	"pathgrip/internal/ui/coordinator"
	"pathgrip/internal/ui/handlers"
	"pathgrip/internal/ui/input"
	inputtypes "pathgrip/internal/ui/input/types"
	"pathgrip/internal/ui/services/events"
	"pathgrip/internal/ui/services/placement"
	"pathgrip/internal/ui/services/search"
	"pathgrip/internal/ui/services/selection"
	"pathgrip/internal/ui/state"
	"pathgrip/internal/ui/views"
)

// E2EEnv makes the model print views.ReadyMarker once it can take input
const E2EEnv = "PATHGRIP_E2E_TEST"

const editorPrompt = "┃ "

// Model hosts the text area and the autocomplete engine
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState // centralized state

	// UI-specific state not in AppState
	width       int
	height      int
	help        help.Model
	spinner     spinner.Model
	spinning    bool
	editor      textarea.Model
	metrics     placement.Metrics
	inPagerMode bool // tracks if we're currently in pager mode
	e2e         bool

	// text and cursor as of the last engine notification
	lastText   string
	lastCursor int
	onChange   func(string)

	// dropdown geometry of the last render, for mouse hits
	dropdown dropdownBox

	// Handlers
	engine       *coordinator.Coordinator
	uiBus        events.EventBus
	renderer     *views.Renderer
	eventHandler *handlers.EventHandler
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	pager        *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

type dropdownBox struct {
	shown bool
	x, y  int
	w, h  int
}

// NewModel creates a new UI model. p answers the queries; cache may be nil
// for a fresh LRU sized from cfg.
func NewModel(ctx context.Context, bus eventbus.EventBus, cfg *config.Config, p provider.Provider, cache search.Cache) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if cache == nil {
		cache = search.NewLRUCache(cfg.Search.CacheSize, cfg.Search.CacheTTL())
	}

	appState := state.NewAppState(cfg.Roots)
	uiBus := events.NewBus()

	m := &Model{
		bus:          bus,
		config:       cfg,
		state:        appState,
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		editor:       newEditor(cfg.UISettings),
		metrics:      cellMetrics(cfg.UISettings.Dropdown),
		e2e:          os.Getenv(E2EEnv) == "1",
		uiBus:        uiBus,
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
		pager:        NewPagerOps(),
	}

	m.engine = coordinator.NewCoordinator(uiBus, cache, search.Settings{
		MinQueryLength: cfg.Search.MinQueryLength,
		Debounce:       cfg.Search.Debounce(),
	})
	m.eventHandler = handlers.NewEventHandler(appState, m.engine.InvalidateCache)
	m.cmdExecutor = commands.NewExecutor(ctx, appState, bus, p)
	m.helpRenderer = NewHelpRenderer(m.inputHandler.Keys())

	uiBus.Subscribe(events.TypeOf(search.SearchFailedEvent{}), func(e interface{}) {
		if ev, ok := e.(search.SearchFailedEvent); ok {
			appState.SetError(fmt.Sprintf("Search for %q failed", ev.Query))
		}
	})
	uiBus.Subscribe(events.TypeOf(search.SearchCompletedEvent{}), func(interface{}) {
		appState.LastError = ""
	})

	return m
}

func newEditor(s config.UISettings) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = s.Placeholder
	ta.Prompt = editorPrompt
	ta.ShowLineNumbers = false
	ta.CharLimit = s.CharLimit
	ta.MaxHeight = 0
	ta.SetHeight(max(s.Rows, 1))
	ta.Focus()
	return ta
}

func cellMetrics(d config.DropdownSettings) placement.Metrics {
	m := placement.CellMetrics
	m.Width = d.Width
	m.MaxHeight = d.MaxHeight
	m.MinHeight = d.MinHeight
	m.Gap = d.Gap
	m.Margin = d.Margin
	m.EdgeReserve = views.FooterLines
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// SetValue replaces the text and puts the cursor at its end. The engine
// only reacts to later edits.
func (m *Model) SetValue(text string) {
	m.editor.SetValue(text)
	m.lastText = m.editor.Value()
	m.lastCursor = m.cursorOffset()
	m.resizeEditor()
}

// SetClipboard replaces the clipboard writer used by the copy key
func (m *Model) SetClipboard(write func(string) error) {
	m.cmdExecutor.SetClipboard(write)
}

// OnChange registers a callback that receives every new full text
func (m *Model) OnChange(fn func(string)) {
	m.onChange = fn
}

// State exposes the host state, e.g. to read the outcome after Run
func (m *Model) State() *state.AppState {
	return m.state
}

// Engine exposes the autocomplete engine
func (m *Model) Engine() *coordinator.Coordinator {
	return m.engine
}

// Value returns the current text
func (m *Model) Value() string {
	return m.editor.Value()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.editor.SetWidth(max(msg.Width-2*views.EditorLeft, 10))
		m.resizeEditor()
		m.state.Ready = true
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	return m.handleNonKeyboardMsg(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	actions, consumed := m.inputHandler.HandleKey(msg, &modelContext{m: m})

	cmds := []tea.Cmd{}
	for _, action := range actions {
		if cmd := m.processAction(action); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if !consumed {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd, m.syncEngine())
	}

	cmds = append(cmds, m.ensureSpinner())
	return tea.Batch(cmds...)
}

// syncEngine tells the engine about an edit or a cursor move
func (m *Model) syncEngine() tea.Cmd {
	text := m.editor.Value()
	cursor := m.cursorOffset()

	var fx []search.Effect
	switch {
	case text != m.lastText:
		fx = m.engine.TextChanged(text, cursor)
		if m.onChange != nil {
			m.onChange(text)
		}
		m.resizeEditor()
	case cursor != m.lastCursor:
		fx = m.engine.CursorMoved(text, cursor)
	}
	m.lastText = text
	m.lastCursor = cursor

	return m.cmdExecutor.Run(fx)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.dropdown.shown || m.inPagerMode {
		return nil
	}
	box := m.dropdown
	inside := msg.X >= box.x && msg.X < box.x+box.w && msg.Y > box.y && msg.Y < box.y+box.h-1
	if !inside {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.engine.MoveSelection(selection.DirectionUp)
		return nil
	case tea.MouseButtonWheelDown:
		m.engine.MoveSelection(selection.DirectionDown)
		return nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		line := msg.Y - box.y - 1 // top border
		res, fx, ok := m.engine.CommitRow(m.editor.Value(), line)
		if !ok {
			return nil
		}
		return m.applyInsertion(res.Text, res.Cursor, fx)
	}
	return nil
}

// processAction executes a single action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		dir := selection.DirectionDown
		if a.Direction == "up" {
			dir = selection.DirectionUp
		}
		m.engine.MoveSelection(dir)

	case inputtypes.CommitAction:
		res, fx, ok := m.engine.Commit(m.editor.Value())
		if !ok {
			return nil
		}
		return m.applyInsertion(res.Text, res.Cursor, fx)

	case inputtypes.DismissAction:
		return m.cmdExecutor.Run(m.engine.Dismiss())

	case inputtypes.SubmitAction:
		return m.finish(a.Text, true)

	case inputtypes.QuitAction:
		return m.finish(m.editor.Value(), false)

	case inputtypes.RescanAction:
		return m.cmdExecutor.ExecuteRescan()

	case inputtypes.CopyAction:
		return m.cmdExecutor.ExecuteCopy(a.Text)

	case inputtypes.PreviewAction:
		return m.runPager(func() error { return m.pager.PreviewFile(a.Path) }, func(err error) tea.Msg {
			return previewPagerMsg{path: a.Path, err: err}
		})

	case inputtypes.ToggleHelpAction:
		content := m.helpRenderer.RenderHelpContent()
		return m.runPager(func() error { return m.pager.ShowHelp(content) }, func(err error) tea.Msg {
			return helpPagerMsg{err: err}
		})
	}
	return nil
}

// applyInsertion writes a committed result into the text area
func (m *Model) applyInsertion(text string, cursor int, fx []search.Effect) tea.Cmd {
	m.setValueAt(text, cursor)
	m.lastText = m.editor.Value()
	m.lastCursor = m.cursorOffset()
	if m.onChange != nil {
		m.onChange(m.lastText)
	}
	m.resizeEditor()
	return m.cmdExecutor.Run(fx)
}

func (m *Model) finish(text string, submitted bool) tea.Cmd {
	m.state.Finish(text, submitted)
	// the remaining effects only stop a timer whose id is now ignored
	m.engine.Dispose()
	log.Info("session finished", "submitted", submitted, "length", len(text))
	return tea.Quit
}

func (m *Model) runPager(run func() error, done func(error) tea.Msg) tea.Cmd {
	if m.program == nil {
		return nil
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := run()
		m.program.Send(resumeRenderingMsg{})
		return done(err)
	}
}

// handleNonKeyboardMsg handles all non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		cmd := m.eventHandler.HandleEvent(msg.Event)
		return m, cmd

	case handlers.TickMsg:
		return m, m.ensureSpinner()

	case spinner.TickMsg:
		if !m.state.Scanning && !m.engine.Loading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.DebounceMsg:
		fx := m.engine.Deliver(search.TimerFired{ID: msg.ID})
		return m, tea.Batch(m.cmdExecutor.Run(fx), m.ensureSpinner())

	case commands.SearchDoneMsg:
		fx := m.engine.Deliver(search.RequestResolved{Handle: msg.Handle, Results: msg.Results})
		return m, m.cmdExecutor.Run(fx)

	case commands.SearchFailedMsg:
		fx := m.engine.Deliver(search.RequestFailed{Handle: msg.Handle, Err: msg.Err})
		return m, m.cmdExecutor.Run(fx)

	case commands.CopiedMsg:
		if msg.Err != nil {
			log.Error("clipboard write failed", "err", msg.Err)
			m.state.SetError("Copy failed")
			return m, nil
		}
		m.state.SetStatus("Copied to clipboard")
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed: log only; do not surface in status bar
			log.Error("help pager failed", "err", msg.err)
		}
		return m, nil

	case previewPagerMsg:
		if msg.err != nil {
			log.Error("preview failed", "path", msg.path, "err", msg.err)
			m.state.SetError(fmt.Sprintf("Cannot preview %s", msg.path))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.state.StatusMessage = ""
		return m, nil
	}

	// cursor blink and other text area messages
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// ensureSpinner starts the spinner loop while something is in progress
func (m *Model) ensureSpinner() tea.Cmd {
	if m.spinning || (!m.state.Scanning && !m.engine.Loading()) {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Editor:        m.editor.View(),
		Scanning:      m.state.Scanning,
		Spinner:       m.spinner.View(),
		IndexedFiles:  m.state.IndexedFiles,
		StatusMessage: m.state.StatusMessage,
		LastError:     m.state.LastError,
		Ready:         m.e2e && m.state.Ready,
	}

	keys := m.inputHandler.Keys()
	if m.engine.Visible() {
		vs.HelpView = m.help.ShortHelpView(keys.DropdownHelp())
		if i := m.engine.Selected(); i != selection.None {
			vs.Position = fmt.Sprintf("%d/%d", i+1, len(m.engine.Results()))
		}
	} else {
		vs.HelpView = m.help.View(keys)
	}

	m.dropdown = dropdownBox{}
	if m.engine.Visible() {
		m.layoutDropdown(&vs)
	}

	return m.renderer.Render(vs)
}

// layoutDropdown resolves the panel placement and sizes the selection
// window to the rows that fit.
func (m *Model) layoutDropdown(vs *views.ViewState) {
	row, col := m.cursorScreen()
	anchor := placement.Rect{Top: row, Left: col, Width: 1, Height: 1}
	viewport := placement.Size{Width: m.width, Height: m.height}

	results := m.engine.Results()
	content := len(results) + views.Chrome
	if len(results) == 0 {
		content = 1 + views.Chrome
	}

	width := min(m.metrics.Width, m.width-2*m.metrics.Margin)
	metrics := m.metrics
	metrics.Width = width
	p := placement.Resolve(anchor, viewport, content, metrics)

	rows := p.MaxHeight - views.Chrome
	if !p.Above {
		// never over the status line and the help bar
		rows = min(rows, m.height-views.FooterLines-p.Top-views.Chrome)
	}
	rows = max(rows, 1)
	m.engine.SetViewportHeight(rows)
	start, end := m.engine.Window()

	dd := &views.DropdownState{
		Results:  results,
		Selected: m.engine.Selected(),
		Start:    start,
		End:      end,
		Loading:  m.engine.Loading(),
		Spinner:  m.spinner.View(),
		Width:    width,
	}
	height := m.renderer.DropdownHeight(*dd)

	top := p.Top
	if p.Above {
		// placement assumed the full content height; hug the anchor
		top = max(anchor.Top-height-metrics.Gap, 0)
	}

	vs.Dropdown = dd
	vs.DropdownX = p.Left
	vs.DropdownY = top
	m.dropdown = dropdownBox{shown: true, x: p.Left, y: top, w: width, h: height}
}

// cursorOffset is the cursor position as a rune offset into Value
func (m *Model) cursorOffset() int {
	lines := strings.Split(m.editor.Value(), "\n")
	row := m.editor.Line()
	offset := 0
	for i := 0; i < row && i < len(lines); i++ {
		offset += len([]rune(lines[i])) + 1
	}
	info := m.editor.LineInfo()
	return offset + info.StartColumn + info.ColumnOffset
}

// cursorScreen is the screen cell of the cursor
func (m *Model) cursorScreen() (row, col int) {
	info := m.editor.LineInfo()
	visual := 0
	lines := strings.Split(m.editor.Value(), "\n")
	width := max(m.editor.Width(), 1)
	for i := 0; i < m.editor.Line() && i < len(lines); i++ {
		visual += wrappedRows(lines[i], width)
	}
	visual += info.RowOffset
	visual = min(visual, m.editor.Height()-1)

	row = views.EditorTop + visual
	col = views.EditorLeft + lipgloss.Width(editorPrompt) + info.CharOffset
	return row, col
}

func wrappedRows(line string, width int) int {
	w := lipgloss.Width(line)
	if w == 0 {
		return 1
	}
	return (w + width - 1) / width
}

// setValueAt replaces the text and places the cursor at a rune offset
func (m *Model) setValueAt(text string, cursor int) {
	runes := []rune(text)
	cursor = max(0, min(cursor, len(runes)))
	m.editor.SetValue(string(runes[cursor:]))
	for m.editor.Line() > 0 {
		m.editor.CursorUp()
	}
	m.editor.CursorStart()
	m.editor.InsertString(string(runes[:cursor]))
}

// resizeEditor grows the text area with its content
func (m *Model) resizeEditor() {
	ui := m.config.UISettings
	width := max(m.editor.Width(), 1)
	rows := 0
	for _, line := range strings.Split(m.editor.Value(), "\n") {
		rows += wrappedRows(line, width)
	}
	rows = max(rows, ui.Rows, 1)
	if ui.MaxRows > 0 {
		rows = min(rows, ui.MaxRows)
	}
	m.editor.SetHeight(rows)
}

// modelContext adapts the model to input.Context
type modelContext struct {
	m *Model
}

func (c *modelContext) DropdownVisible() bool { return c.m.engine.Visible() }

func (c *modelContext) HasResults() bool { return len(c.m.engine.Results()) > 0 }

func (c *modelContext) HasSelection() bool { return c.m.engine.Selected() != selection.None }

func (c *modelContext) HighlightedPath() string {
	i := c.m.engine.Selected()
	results := c.m.engine.Results()
	if i < 0 || i >= len(results) {
		return ""
	}
	return results[i].Path
}

func (c *modelContext) Text() string { return c.m.editor.Value() }
