package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/stockpile/internal/dispatch"
	"github.com/five82/stockpile/internal/export"
	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/logtail"
	"github.com/five82/stockpile/internal/prefs"
	"github.com/five82/stockpile/internal/session"
	"github.com/five82/stockpile/internal/state"
	"github.com/five82/stockpile/internal/view"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewItems
	ViewTransactions
	ViewActivity
)

var viewOrder = []View{ViewDashboard, ViewItems, ViewTransactions, ViewActivity}

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewItems:
		return "Items"
	case ViewTransactions:
		return "Transactions"
	case ViewActivity:
		return "Activity"
	}
	return "Unknown"
}

// Cache is the read side of the Sync Cache.
type Cache interface {
	Snapshot() state.Snapshot
}

// Mutator sends validated writes and refreshes the cache afterwards.
type Mutator interface {
	Catalog() view.Catalog
	AddItem(ctx context.Context, draft dispatch.ItemDraft) (inventory.Item, error)
	UpdateItem(ctx context.Context, item inventory.Item) (inventory.Item, error)
	DeleteItem(ctx context.Context, id inventory.ID) error
	AddTransaction(ctx context.Context, draft dispatch.TransactionDraft) (inventory.Transaction, error)
	UpdateTransaction(ctx context.Context, txn inventory.Transaction) (inventory.Transaction, error)
	DeleteTransaction(ctx context.Context, id inventory.ID) error
}

var _ Mutator = (*dispatch.Dispatcher)(nil)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Cache     Cache
	Mutator   Mutator
	Auth      session.Authenticator
	Session   session.Session
	Exporter  export.Exporter
	LogPath   string
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	Logger    *zap.Logger
}

// listState is the cursor and search box of a list view.
type listState struct {
	selected  int
	search    textinput.Model
	searching bool
}

func newListState(placeholder string) listState {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = placeholder
	in.CharLimit = 64
	return listState{search: in}
}

func (l listState) term() string {
	return strings.TrimSpace(l.search.Value())
}

// navigate moves the cursor for navigation keys and reports whether msg was one.
func (l *listState) navigate(msg tea.KeyMsg, keys keyMap, n, page int) bool {
	switch {
	case key.Matches(msg, keys.Up):
		if l.selected > 0 {
			l.selected--
		}
	case key.Matches(msg, keys.Down):
		if l.selected < n-1 {
			l.selected++
		}
	case key.Matches(msg, keys.Top):
		l.selected = 0
	case key.Matches(msg, keys.Bottom):
		l.selected = n - 1
	case key.Matches(msg, keys.PageUp):
		l.selected -= maxInt(page, 1)
	case key.Matches(msg, keys.PageDown):
		l.selected += maxInt(page, 1)
	default:
		return false
	}
	l.selected = clampSelection(l.selected, n)
	return true
}

type toast struct {
	text  string
	isErr bool
	at    time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	cache     Cache
	mutator   Mutator
	auth      session.Authenticator
	exporter  export.Exporter
	logPath   string
	prefsPath string
	pollTick  time.Duration
	logger    *zap.Logger
	keys      keyMap
	help      help.Model

	// UI state
	session     session.Session
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	submitting  bool
	toast       toast

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	login        loginForm
	dashboard    listState
	priority     bool
	items        listState
	transactions listState
	dateRange    view.DateRange
	activity     activityState

	// Overlays; at most one is open.
	itemForm  *itemForm
	txnForm   *txnForm
	rangeForm *rangeForm
	modal     Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		ctx:          ctx,
		cache:        opts.Cache,
		mutator:      opts.Mutator,
		auth:         opts.Auth,
		exporter:     opts.Exporter,
		logPath:      opts.LogPath,
		prefsPath:    prefsPath,
		pollTick:     pollTick,
		logger:       logger.Named("ui"),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		session:      opts.Session,
		theme:        GetTheme(opts.ThemeName),
		currentView:  ViewDashboard,
		login:        newLoginForm(opts.Session.Username),
		dashboard:    newListState("search products"),
		items:        newListState("search items"),
		transactions: newListState("search item or remarks"),
		activity:     newActivityState(),
	}
	if m.cache != nil {
		m.snapshot = m.cache.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.cache != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.cache))
	}
	if !m.session.Valid() {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.activity.resize(m.width, m.contentHeight())
		m.help.Width = m.width
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case loginMsg:
		return m.handleLoginResult(msg)

	case mutationMsg:
		return m.handleMutationResult(msg)

	case quickAddMsg:
		return m.handleQuickAddResult(msg)

	case exportMsg:
		if msg.err != nil {
			m.logger.Warn("export failed", zap.Error(msg.err))
			m.setToast("Export failed: "+msg.err.Error(), true)
		} else {
			m.setToast("Exported "+msg.path, false)
		}
		return m, nil

	case activityMsg:
		m.activity.apply(msg, m.theme)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if !m.session.Valid() {
		return m.renderLogin()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey routes keyboard input to the innermost open surface first.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if !m.session.Valid() {
		return m.handleLoginKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		return m.handleModalKey(msg)
	}
	if m.rangeForm != nil {
		return m.handleRangeFormKey(msg)
	}
	if m.txnForm != nil {
		return m.handleTxnFormKey(msg)
	}
	if m.itemForm != nil {
		return m.handleItemFormKey(msg)
	}
	if list := m.currentList(); list != nil && list.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.activity.render(m.theme)
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.NextView):
		return m.switchView(m.adjacentView(1))
	case key.Matches(msg, m.keys.PrevView):
		return m.switchView(m.adjacentView(-1))
	case key.Matches(msg, m.keys.ViewDashboard):
		return m.switchView(ViewDashboard)
	case key.Matches(msg, m.keys.ViewItems):
		return m.switchView(ViewItems)
	case key.Matches(msg, m.keys.ViewTransactions):
		return m.switchView(ViewTransactions)
	case key.Matches(msg, m.keys.ViewActivity):
		return m.switchView(ViewActivity)
	case key.Matches(msg, m.keys.Search):
		if list := m.currentList(); list != nil {
			list.searching = true
			return m, list.search.Focus()
		}
	case key.Matches(msg, m.keys.Escape):
		if list := m.currentList(); list != nil {
			list.search.SetValue("")
			list.selected = 0
			m.activity.render(m.theme)
		}
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	case ViewItems:
		return m.handleItemsKey(msg)
	case ViewTransactions:
		return m.handleTransactionsKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	}
	return m, nil
}

// handleSearchKey feeds the search box until enter keeps or esc clears it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.currentList()
	switch msg.Type {
	case tea.KeyEnter:
		list.searching = false
		list.search.Blur()
		return m, nil
	case tea.KeyEsc:
		list.searching = false
		list.search.Blur()
		list.search.SetValue("")
		list.selected = 0
		m.activity.render(m.theme)
		return m, nil
	}
	var cmd tea.Cmd
	list.search, cmd = list.search.Update(msg)
	list.selected = 0
	if m.currentView == ViewActivity {
		m.activity.render(m.theme)
	}
	return m, cmd
}

// currentList returns the list state of the active view.
func (m *Model) currentList() *listState {
	switch m.currentView {
	case ViewDashboard:
		return &m.dashboard
	case ViewItems:
		return &m.items
	case ViewTransactions:
		return &m.transactions
	case ViewActivity:
		return &m.activity.list
	}
	return nil
}

func (m Model) adjacentView(step int) View {
	for i, v := range viewOrder {
		if v == m.currentView {
			return viewOrder[(i+step+len(viewOrder))%len(viewOrder)]
		}
	}
	return ViewDashboard
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewActivity {
		return m, loadActivityCmd(m.logPath)
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.cache != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.cache))
	}
	if m.currentView == ViewActivity && m.session.Valid() {
		cmds = append(cmds, loadActivityCmd(m.logPath))
	}
	if m.toast.text != "" && now.Sub(m.toast.at) > ToastDuration {
		m.toast = toast{}
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = time.Now()
	m.dashboard.selected = clampSelection(m.dashboard.selected, len(m.dashboardRows()))
	m.items.selected = clampSelection(m.items.selected, len(m.itemRows()))
	m.transactions.selected = clampSelection(m.transactions.selected, len(m.ledgerRows()))
}

func (m *Model) setToast(text string, isErr bool) {
	m.toast = toast{text: text, isErr: isErr, at: time.Now()}
}

// savePrefs persists the theme and session.
func (m *Model) savePrefs() {
	p := m.session.Apply(prefs.Prefs{Theme: m.theme.Name})
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	m.logger.Info("signed out", zap.String("username", m.session.Username))
	m.session = session.Session{}
	m.savePrefs()
	m.itemForm, m.txnForm, m.rangeForm, m.modal = nil, nil, nil, nil
	m.login = newLoginForm("")
	return m, m.login.focus(0)
}

func (m Model) catalog() view.Catalog {
	return view.NewCatalog(m.snapshot.Items)
}

func (m Model) contentHeight() int {
	return maxInt(m.height-chromeLines, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the main content area, or the open overlay.
func (m Model) renderContent() string {
	height := m.contentHeight()
	var body string
	switch {
	case m.modal != nil:
		body = m.placeCenter(m.modal.View(m.theme, m.width, height), height)
	case m.rangeForm != nil:
		body = m.placeCenter(m.rangeForm.view(m.theme.Styles(), false), height)
	case m.txnForm != nil:
		body = m.placeCenter(m.renderTxnForm(), height)
	case m.itemForm != nil:
		body = m.placeCenter(m.itemForm.view(m.theme.Styles(), m.submitting), height)
	default:
		switch m.currentView {
		case ViewDashboard:
			body = m.renderDashboard(height)
		case ViewItems:
			body = m.renderItems(height)
		case ViewTransactions:
			body = m.renderTransactions(height)
		case ViewActivity:
			body = m.renderActivity(height)
		}
	}
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(body)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type loginMsg struct {
	session session.Session
	err     error
}

// mutationTarget says which surface issued a write.
type mutationTarget int

const (
	targetItemForm mutationTarget = iota
	targetTxnForm
	targetList
)

type mutationMsg struct {
	target  mutationTarget
	success string // toast shown when err is nil
	err     error
}

type quickAddMsg struct {
	item inventory.Item
	err  error
}

type exportMsg struct {
	path string
	err  error
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(cache Cache) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(cache.Snapshot())
	}
}

func mutationCmd(ctx context.Context, target mutationTarget, success string, call func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutationMsg{target: target, success: success, err: call(ctx)}
	}
}

func exportCmd(run func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		path, err := run()
		return exportMsg{path: path, err: err}
	}
}

func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, ActivityLineLimit)
		return activityMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}

// activityState is the Activity view: a filtered tail of the client log.
type activityState struct {
	list     listState
	viewport viewport.Model
	entries  []logtail.Entry
	err      error
	loaded   bool
}

func newActivityState() activityState {
	return activityState{
		list:     newListState("filter log"),
		viewport: viewport.New(0, 0),
	}
}
