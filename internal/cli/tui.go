package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cardgraph/pkg/engine"
	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/graph"
	"github.com/matzehuels/cardgraph/pkg/render/term"
)

var (
	statusStyle   = lipgloss.NewStyle().Foreground(colorGray)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

const exploreHelp = "tab select  ⏎ toggle  e/c expand/collapse all  f fit  ←↑↓→ pan  +/- zoom  0 reset  q quit"

// reloadMsg carries a graph re-read from disk by the file watcher.
type reloadMsg struct {
	graph graph.Graph
	err   error
}

// =============================================================================
// exploreModel - interactive card browser
// =============================================================================

// exploreModel draws the engine's scene on a terminal canvas. The header
// and footer take one row each; the rest is canvas.
type exploreModel struct {
	eng    *engine.Engine
	title  string
	styles term.Styles

	cols, rows int
	selected   string
	status     string
	err        error
}

func newExploreModel(e *engine.Engine, title string) exploreModel {
	m := exploreModel{eng: e, title: title, styles: term.DefaultStyles()}
	m.resize(80, 24)
	if v := e.Visible(); len(v) > 0 {
		m.selected = v[0]
	}
	return m
}

func (m *exploreModel) resize(w, h int) {
	m.cols = max(1, w)
	m.rows = max(1, h-2)
	m.eng.SetScreenSize(term.ScreenSize(m.cols, m.rows))
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.cycle(1)
		case "shift+tab":
			m.cycle(-1)
		case "enter", " ":
			if m.selected != "" {
				m.status = m.selected + " collapsed"
				if m.eng.Toggle(m.selected) {
					m.status = m.selected + " expanded"
				}
			}
		default:
			m.eng.HandleEvent(engine.KeyEvent{Key: key})
		}
		m.keepSelection()

	case tea.MouseMsg:
		m.handleMouse(msg)
		m.keepSelection()

	case reloadMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		if err := m.eng.Load(msg.graph); err != nil {
			m.err = err
			break
		}
		m.err = nil
		m.status = fmt.Sprintf("reloaded %d nodes", len(msg.graph.Nodes))
		m.selected = ""
		m.keepSelection()
	}
	return m, nil
}

// handleMouse maps terminal cells to screen pixels. Row 0 is the header,
// so canvas coordinates are shifted by one row.
func (m *exploreModel) handleMouse(msg tea.MouseMsg) {
	x := (float64(msg.X) + 0.5) * term.CellWidth
	y := (float64(msg.Y-1) + 0.5) * term.CellHeight

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.eng.HandleEvent(engine.ZoomEvent{X: x, Y: y, DeltaY: -1})
	case msg.Button == tea.MouseButtonWheelDown:
		m.eng.HandleEvent(engine.ZoomEvent{X: x, Y: y, DeltaY: 1})
	case msg.Button == tea.MouseButtonRight && msg.Action == tea.MouseActionPress:
		m.eng.HandleEvent(engine.DragEvent{Phase: engine.DragStart, X: x, Y: y})
	case msg.Action == tea.MouseActionMotion:
		m.eng.HandleEvent(engine.DragEvent{Phase: engine.DragMove, X: x, Y: y})
	case msg.Action == tea.MouseActionRelease:
		m.eng.HandleEvent(engine.DragEvent{Phase: engine.DragEnd, X: x, Y: y})
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		vp := m.eng.Viewport()
		if id, ok := m.eng.NodeAt(vp.ToContent(geom.Point{X: x, Y: y})); ok {
			m.selected = id
		}
		m.eng.HandleEvent(engine.ClickEvent{X: x, Y: y})
	}
}

// cycle moves the selection through the visible cards in input order.
func (m *exploreModel) cycle(step int) {
	visible := m.eng.Visible()
	if len(visible) == 0 {
		m.selected = ""
		return
	}
	i := 0
	for j, id := range visible {
		if id == m.selected {
			i = (j + step + len(visible)) % len(visible)
			break
		}
	}
	m.selected = visible[i]
}

// keepSelection moves the selection to the first visible card when the
// selected card was hidden by a collapse.
func (m *exploreModel) keepSelection() {
	visible := m.eng.Visible()
	for _, id := range visible {
		if id == m.selected {
			return
		}
	}
	m.selected = ""
	if len(visible) > 0 {
		m.selected = visible[0]
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	vp := m.eng.Viewport()
	header := fmt.Sprintf("%s  %d/%d cards  zoom %.0f%%",
		StyleTitle.Render(m.title), len(m.eng.Visible()), m.eng.Graph().NodeCount(), vp.Scale*100)
	if m.selected != "" {
		header += "  " + selectedStyle.Render("▸ "+m.selected)
	}
	b.WriteString(header)
	b.WriteString("\n")

	canvas := term.NewCanvas(m.cols, m.rows)
	m.eng.Render(canvas)
	b.WriteString(canvas.Render(m.styles))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status + "  ·  " + exploreHelp))
	default:
		b.WriteString(statusStyle.Render(exploreHelp))
	}
	return b.String()
}
