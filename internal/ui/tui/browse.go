package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/sync"
	"github.com/klauern/msgsync/internal/ui"
)

// BrowseEntry is one planned change together with both versions of the message.
type BrowseEntry struct {
	Change sync.Change
	Local  *model.Message // nil when the id is remote-only
	Remote *model.Message // nil when the id is local-only
}

// Entries pairs each change of plan with the messages it refers to.
func Entries(eng *sync.Engine, plan *sync.Plan) []BrowseEntry {
	entries := make([]BrowseEntry, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		entry := BrowseEntry{Change: c}
		if msg, ok := eng.Local().Get(c.ID); ok {
			entry.Local = &msg
		}
		if msg, ok := eng.Remote().Get(c.ID); ok {
			entry.Remote = &msg
		}
		entries = append(entries, entry)
	}
	return entries
}

// browseKeyMap defines the key bindings for the browser.
type browseKeyMap struct {
	Open   key.Binding
	Back   key.Binding
	Filter key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter/o", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("b/esc", "back"),
		),
		Filter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// kindFilters is the order the filter key cycles through. The empty kind shows everything.
var kindFilters = []sync.ChangeKind{"", sync.ChangeAdded, sync.ChangeModified, sync.ChangeDeleted}

const (
	browseMarkerWidth  = 2
	browseIDWidth      = 8
	browseActionWidth  = 8
	browsePreviewWidth = 30
	browseColumnCount  = 5
	browseColumnPad    = 2
	browseTableHeight  = 15
)

// BrowseModel is the BubbleTea model for browsing a sync plan.
type BrowseModel struct {
	table        table.Model
	viewport     viewport.Model
	entries      []BrowseEntry
	visible      []BrowseEntry
	filter       int
	keys         browseKeyMap
	runID        string
	previewWidth int
	detail       bool
	showHelp     bool
	width        int
	height       int
	quitting     bool
}

// NewBrowseModel creates a browser over entries. previewWidth caps the
// content preview columns; zero uses the default.
func NewBrowseModel(runID string, entries []BrowseEntry, previewWidth int) BrowseModel {
	if previewWidth <= 0 {
		previewWidth = browsePreviewWidth
	}

	m := BrowseModel{
		entries:      entries,
		visible:      entries,
		keys:         defaultBrowseKeyMap(),
		runID:        runID,
		previewWidth: previewWidth,
	}

	t := table.New(
		table.WithColumns(m.columns(0)),
		table.WithFocused(true),
		table.WithHeight(browseTableHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	m.table.SetRows(m.rows())
	return m
}

func (m BrowseModel) columns(totalWidth int) []table.Column {
	preview := m.previewWidth
	if totalWidth > 0 {
		fixed := browseMarkerWidth + browseIDWidth + browseActionWidth + browseColumnPad*browseColumnCount
		preview = min(preview, max((totalWidth-fixed)/2, 10))
	}

	return []table.Column{
		{Title: " ", Width: browseMarkerWidth},
		{Title: "ID", Width: browseIDWidth},
		{Title: "Action", Width: browseActionWidth},
		{Title: "Local", Width: preview},
		{Title: "Remote", Width: preview},
	}
}

func (m BrowseModel) rows() []table.Row {
	width := m.table.Columns()[3].Width
	rows := make([]table.Row, len(m.visible))
	for i, e := range m.visible {
		rows[i] = table.Row{
			kindMarker(e.Change.Kind),
			strconv.Itoa(e.Change.ID),
			string(e.Change.Action),
			messagePreview(e.Local, width),
			messagePreview(e.Remote, width),
		}
	}
	return rows
}

// kindMarker returns an uncolored marker; table cells are measured by width.
func kindMarker(kind sync.ChangeKind) string {
	switch kind {
	case sync.ChangeAdded:
		return ui.SymbolAdded
	case sync.ChangeModified:
		return ui.SymbolModified
	case sync.ChangeDeleted:
		return ui.SymbolDeleted
	default:
		return " "
	}
}

func messagePreview(msg *model.Message, width int) string {
	if msg == nil {
		return ""
	}
	return ui.Preview(msg.Content(), width)
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-8, 5)) // title, status, help
		m.table.SetColumns(m.columns(msg.Width))
		m.table.SetRows(m.rows())
		if m.detail {
			m.viewport.Width = m.viewportWidth()
			m.viewport.Height = m.viewportHeight()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}

		if m.detail {
			if key.Matches(msg, m.keys.Back) {
				m.detail = false
				return m, nil
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Open):
			if entry, ok := m.Selected(); ok {
				m.openDetail(entry)
			}
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filter = (m.filter + 1) % len(kindFilters)
			m.applyFilter()
			return m, nil
		}
	}

	if m.detail {
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *BrowseModel) applyFilter() {
	kind := kindFilters[m.filter]
	if kind == "" {
		m.visible = m.entries
	} else {
		var visible []BrowseEntry
		for _, e := range m.entries {
			if e.Change.Kind == kind {
				visible = append(visible, e)
			}
		}
		m.visible = visible
	}
	m.table.SetRows(m.rows())
	m.table.SetCursor(0)
}

func (m *BrowseModel) openDetail(entry BrowseEntry) {
	m.viewport = viewport.New(m.viewportWidth(), m.viewportHeight())
	m.viewport.SetContent(detailContent(entry))
	m.detail = true
}

func (m BrowseModel) viewportWidth() int {
	if m.width > 2 {
		return m.width - 2
	}
	return 80
}

func (m BrowseModel) viewportHeight() int {
	if m.height > 0 {
		return max(m.height-7, 5)
	}
	return 20
}

// Selected returns the entry under the cursor.
func (m BrowseModel) Selected() (BrowseEntry, bool) {
	cursor := m.table.Cursor()
	if cursor >= 0 && cursor < len(m.visible) {
		return m.visible[cursor], true
	}
	return BrowseEntry{}, false
}

// InDetail reports whether the detail view is open.
func (m BrowseModel) InDetail() bool {
	return m.detail
}

// Filter returns the change kind currently shown, or "" for all.
func (m BrowseModel) Filter() sync.ChangeKind {
	return kindFilters[m.filter]
}

func detailContent(e BrowseEntry) string {
	var b strings.Builder
	c := e.Change

	b.WriteString(Styles.Section.Render("Change"))
	b.WriteString("\n")
	b.WriteString(detailLine("Kind", c.Kind))
	b.WriteString(detailLine("Action", c.Action))
	if c.Resolution != nil {
		b.WriteString(detailLine("Winner", c.Resolution.WinningSide().DisplayName()))
		b.WriteString(detailLine("Local ts", c.Resolution.LocalTimestamp))
		b.WriteString(detailLine("Remote ts", c.Resolution.RemoteTimestamp))
	}
	if c.Comparison != nil {
		b.WriteString(detailLine("Distance", c.Comparison.Distance))
		b.WriteString(detailLine("Similarity", fmt.Sprintf("%.0f%%", c.Comparison.Ratio*100)))
	}
	if c.Delta != "" {
		b.WriteString(detailLine("Delta", strconv.Quote(c.Delta)))
	}

	b.WriteString(Styles.Section.Render(model.Local.DisplayName()))
	b.WriteString("\n")
	b.WriteString(messageBody(e.Local, Styles.Deleted))
	b.WriteString("\n")

	b.WriteString(Styles.Section.Render(model.Remote.DisplayName()))
	b.WriteString("\n")
	b.WriteString(messageBody(e.Remote, Styles.Added))
	b.WriteString("\n")

	if e.Local != nil && e.Remote != nil {
		b.WriteString(Styles.Section.Render("Changes"))
		b.WriteString("\n")
		b.WriteString(ui.ContentDiff(e.Local.Content(), e.Remote.Content()))
		b.WriteString("\n")
	}

	return b.String()
}

func messageBody(msg *model.Message, style lipgloss.Style) string {
	if msg == nil {
		return Styles.Info.Render("  not present")
	}
	return numberLines(msg.Content(), style)
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if m.detail {
		entry, _ := m.Selected()
		b.WriteString(Styles.Title.Render(fmt.Sprintf("Message %d", entry.Change.ID)))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		status := fmt.Sprintf("Scroll: %d%%", int(m.viewport.ScrollPercent()*100))
		b.WriteString(Styles.Status.Render(status))
		b.WriteString("\n")
		b.WriteString(m.renderHelp([]string{"↑/↓ scroll", "b back", "? help", "q quit"}))
		return b.String()
	}

	b.WriteString(Styles.Title.Render(fmt.Sprintf("Sync plan %s", m.runID)))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	filter := "all"
	if kind := m.Filter(); kind != "" {
		filter = string(kind)
	}
	status := fmt.Sprintf("%d of %d change(s) • filter: %s", len(m.visible), len(m.entries), filter)
	b.WriteString(Styles.Status.Render(status))
	b.WriteString("\n")
	b.WriteString(m.renderHelp([]string{"↑/↓ move", "enter open", "tab filter", "? help", "q quit"}))

	return b.String()
}

func (m BrowseModel) renderHelp(short []string) string {
	if !m.showHelp {
		return Styles.Help.Render(strings.Join(short, " • "))
	}

	help := `Navigation:
  ↑/k      Move or scroll up
  ↓/j      Move or scroll down
  PgUp     Page up
  PgDown   Page down

Actions:
  enter/o  Open the selected change
  b/Esc    Back to the change list
  tab      Cycle filter (all, added, modified, deleted)

General:
  ?        Toggle full help
  q        Quit`
	return Styles.Help.Render(help)
}

// RunBrowse runs the interactive plan browser.
func RunBrowse(eng *sync.Engine, plan *sync.Plan, previewWidth int) error {
	_, err := Run(NewBrowseModel(plan.RunID, Entries(eng, plan), previewWidth))
	return err
}
