package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// TUI implements UI with an interactive Bubble Tea browser. Everything
// other than Browse is printed by the embedded SimpleUI.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a new TUI.
func NewTUI(simple *SimpleUI) *TUI {
	return &TUI{SimpleUI: simple}
}

// Browse runs the hierarchy browser until the user quits.
func (t *TUI) Browse(ctx context.Context, nodes []m.Node, props PropsFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	program := tea.NewProgram(
		newBrowserModel(nodes, props),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}

	return nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	typeStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

type browserKeys struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Toggle   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp implements help.KeyMap.
func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Expand, k.Collapse, k.Toggle},
		{k.Help, k.Quit},
	}
}

func defaultBrowserKeys() browserKeys {
	return browserKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type browserRow struct {
	node   *m.Node
	depth  int
	parent int
}

// browserModel is the Bubble Tea model of the hierarchy browser.
type browserModel struct {
	roots    []m.Node
	rows     []browserRow
	expanded map[string]bool
	cursor   int
	offset   int
	height   int
	width    int
	props    PropsFunc
	record   *m.PropertyRecord
	err      error
	keys     browserKeys
	help     help.Model
	quitting bool
}

func newBrowserModel(roots []m.Node, props PropsFunc) browserModel {
	bm := browserModel{
		roots:    roots,
		expanded: make(map[string]bool),
		props:    props,
		keys:     defaultBrowserKeys(),
		help:     help.New(),
	}

	for _, root := range roots {
		bm.expanded[root.FullName] = true
	}

	bm.rebuild()
	bm.load()

	return bm
}

// rebuild flattens the expanded part of the tree, keeping the cursor on the
// same object when it is still visible.
func (bm *browserModel) rebuild() {
	current := ""
	if n := bm.selected(); n != nil {
		current = n.FullName
	}

	bm.rows = bm.rows[:0]
	bm.appendRows(bm.roots, 0, -1)

	bm.cursor = 0

	for i, r := range bm.rows {
		if r.node.FullName == current {
			bm.cursor = i
			break
		}
	}

	bm.scroll()
}

func (bm *browserModel) appendRows(nodes []m.Node, depth, parent int) {
	for i := range nodes {
		bm.rows = append(bm.rows, browserRow{node: &nodes[i], depth: depth, parent: parent})

		if bm.expanded[nodes[i].FullName] {
			bm.appendRows(nodes[i].Children, depth+1, len(bm.rows)-1)
		}
	}
}

func (bm browserModel) selected() *m.Node {
	if bm.cursor < 0 || bm.cursor >= len(bm.rows) {
		return nil
	}

	return bm.rows[bm.cursor].node
}

// load refreshes the property panel for the selected object.
func (bm *browserModel) load() {
	bm.record, bm.err = nil, nil

	n := bm.selected()
	if n == nil || bm.props == nil {
		return
	}

	rec, err := bm.props(n.FullName)
	if err != nil {
		bm.err = err
		return
	}

	bm.record = &rec
}

func (bm browserModel) Init() tea.Cmd {
	return nil
}

func (bm browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		bm.height = msg.Height
		bm.width = msg.Width
		bm.help.Width = msg.Width
		bm.scroll()

		return bm, nil

	case tea.KeyMsg:
		return bm.handleKeyPress(msg)
	}

	return bm, nil
}

//nolint:cyclop // Key handling requires multiple cases for UI navigation
func (bm browserModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	moved := true

	switch {
	case key.Matches(msg, bm.keys.Quit):
		bm.quitting = true
		return bm, tea.Quit

	case key.Matches(msg, bm.keys.Help):
		bm.help.ShowAll = !bm.help.ShowAll
		return bm, nil

	case key.Matches(msg, bm.keys.Up):
		bm.move(bm.cursor - 1)

	case key.Matches(msg, bm.keys.Down):
		bm.move(bm.cursor + 1)

	case key.Matches(msg, bm.keys.Top):
		bm.move(0)

	case key.Matches(msg, bm.keys.Bottom):
		bm.move(len(bm.rows) - 1)

	case key.Matches(msg, bm.keys.Expand):
		bm.setExpanded(true)

	case key.Matches(msg, bm.keys.Toggle):
		if n := bm.selected(); n != nil {
			bm.setExpanded(!bm.expanded[n.FullName])
		}

	case key.Matches(msg, bm.keys.Collapse):
		bm.collapseOrParent()

	default:
		moved = false
	}

	if moved {
		bm.load()
	}

	return bm, nil
}

func (bm *browserModel) move(to int) {
	if to >= len(bm.rows) {
		to = len(bm.rows) - 1
	}

	if to < 0 {
		to = 0
	}

	bm.cursor = to
	bm.scroll()
}

func (bm *browserModel) setExpanded(open bool) {
	n := bm.selected()
	if n == nil || len(n.Children) == 0 {
		return
	}

	bm.expanded[n.FullName] = open
	bm.rebuild()
}

func (bm *browserModel) collapseOrParent() {
	n := bm.selected()
	if n == nil {
		return
	}

	if bm.expanded[n.FullName] && len(n.Children) > 0 {
		bm.setExpanded(false)
		return
	}

	if parent := bm.rows[bm.cursor].parent; parent >= 0 {
		bm.move(parent)
	}
}

// itemsPerPage calculates how many rows fit on screen.
func (bm browserModel) itemsPerPage() int {
	if bm.height == 0 {
		return 20
	}
	// title and help lines
	reserved := 4

	available := bm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

// scroll keeps the cursor inside the visible window.
func (bm *browserModel) scroll() {
	per := bm.itemsPerPage()

	if bm.cursor < bm.offset {
		bm.offset = bm.cursor
	}

	if bm.cursor >= bm.offset+per {
		bm.offset = bm.cursor - per + 1
	}

	if bm.offset < 0 {
		bm.offset = 0
	}
}

func (bm browserModel) View() string {
	if bm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("vpiscope design browser"))
	b.WriteString("\n\n")

	if len(bm.rows) == 0 {
		b.WriteString("  No objects in design\n")
		return b.String()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, bm.renderTree(), "  ", bm.renderPanel()))
	b.WriteString("\n")
	b.WriteString(bm.help.View(bm.keys))

	return b.String()
}

func (bm browserModel) renderTree() string {
	end := bm.offset + bm.itemsPerPage()
	if end > len(bm.rows) {
		end = len(bm.rows)
	}

	lines := make([]string, 0, end-bm.offset)

	for i := bm.offset; i < end; i++ {
		r := bm.rows[i]

		marker := "  "
		if len(r.node.Children) > 0 {
			marker = "▸ "
			if bm.expanded[r.node.FullName] {
				marker = "▾ "
			}
		}

		name := strings.Repeat("  ", r.depth) + marker + r.node.Name
		if i == bm.cursor {
			name = selectedStyle.Render(name)
		}

		lines = append(lines, name+" "+typeStyle.Render(r.node.Type))
	}

	return strings.Join(lines, "\n")
}

func (bm browserModel) renderPanel() string {
	if bm.err != nil {
		return panelStyle.Render(errorStyle.Render(bm.err.Error()))
	}

	rec := bm.record
	if rec == nil {
		return ""
	}

	lines := []string{
		titleStyle.Render(rec.FullName),
		fmt.Sprintf("type      %s", rec.Type),
		fmt.Sprintf("size      %d", rec.Size),
		fmt.Sprintf("scalar    %t", rec.Scalar),
		fmt.Sprintf("vector    %t", rec.Vector),
		fmt.Sprintf("array     %t", rec.Array),
		fmt.Sprintf("signed    %t", rec.Signed),
		fmt.Sprintf("module    %s", rec.Module),
		fmt.Sprintf("scope     %s", rec.Scope),
		fmt.Sprintf("typespec  %s %s", rec.Typespec, rec.TypespecName),
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}
