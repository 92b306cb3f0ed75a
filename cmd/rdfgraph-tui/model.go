package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
)

type view int

const (
	typesView view = iota
	predicatesView
	nodesView
	summaryView
	viewCount
)

var tabNames = [viewCount]string{"Types", "Predicates", "Nodes", "Summary"}

// selector indexes the two selector lists
type selector int

const (
	typeSelector selector = iota
	predicateSelector
)

// entry is one selector row
type entry struct {
	count    visibility.Count
	selected bool
}

func (e entry) Title() string {
	box := "[ ]"
	if e.selected {
		box = "[x]"
	}
	return box + " " + e.count.Description()
}

func (e entry) Description() string { return e.count.IRI }
func (e entry) FilterValue() string { return e.count.Label }

type model struct {
	ds          *dataset.Dataset
	snap        *visibility.Snapshot
	currentView view
	lists       [2]list.Model
	selected    [2]map[string]bool
	nodeTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
}

func initialModel(ds *dataset.Dataset) model {
	snap := ds.Snapshot()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Node", Width: 30},
			{Title: "Type", Width: 24},
			{Title: "Visible", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		ds:          ds,
		snap:        snap,
		currentView: typesView,
		nodeTable:   t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
	}
	m.selected[typeSelector] = selectedSet(snap.State.Graph.Types(), snap.State.Selection.HasType)
	m.selected[predicateSelector] = selectedSet(snap.State.Graph.Predicates(), snap.State.Selection.HasPredicate)
	for i, title := range []string{"Types", "Predicates"} {
		l := list.New(nil, list.NewDefaultDelegate(), 60, 20)
		l.Title = title
		l.SetShowHelp(false)
		m.lists[i] = l
	}
	m.refresh()
	if snap.View == nil {
		m.message = "Graph has more types than palette colours; rerun with --allow-large"
		m.messageErr = true
	}
	return m
}

func selectedSet(all []string, has func(string) bool) map[string]bool {
	out := make(map[string]bool, len(all))
	for _, iri := range all {
		if has(iri) {
			out[iri] = true
		}
	}
	return out
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for i := range m.lists {
			m.lists[i].SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		if sel, ok := m.activeSelector(); ok && m.lists[sel].FilterState() == list.Filtering {
			m.lists[sel], cmd = m.lists[sel].Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.currentView = (m.currentView + viewCount - 1) % viewCount
			return m, nil
		}
		if sel, ok := m.activeSelector(); ok {
			switch {
			case key.Matches(msg, m.keys.Toggle):
				m.toggle(sel)
				return m, nil
			case key.Matches(msg, m.keys.All):
				m.setAll(sel, true)
				return m, nil
			case key.Matches(msg, m.keys.None):
				m.setAll(sel, false)
				return m, nil
			}
		}
	}

	if sel, ok := m.activeSelector(); ok {
		m.lists[sel], cmd = m.lists[sel].Update(msg)
		return m, cmd
	}
	if m.currentView == nodesView {
		m.nodeTable, cmd = m.nodeTable.Update(msg)
	}
	return m, cmd
}

func (m model) activeSelector() (selector, bool) {
	switch m.currentView {
	case typesView:
		return typeSelector, true
	case predicatesView:
		return predicateSelector, true
	}
	return 0, false
}

func (m *model) toggle(sel selector) {
	item, ok := m.lists[sel].SelectedItem().(entry)
	if !ok {
		return
	}
	iri := item.count.IRI
	prev := m.selected[sel][iri]
	m.selected[sel][iri] = !prev
	if !m.apply() {
		m.selected[sel][iri] = prev
	}
	m.refresh()
}

func (m *model) setAll(sel selector, on bool) {
	prev := m.selected[sel]
	next := make(map[string]bool, len(prev))
	if on {
		for _, c := range m.counts(sel) {
			next[c.IRI] = true
		}
	}
	m.selected[sel] = next
	if !m.apply() {
		m.selected[sel] = prev
	}
	m.refresh()
}

// apply sends the current selection to the dataset; false means it was
// rejected and the previous view is still current
func (m *model) apply() bool {
	ev := visibility.SelectionEvent{
		Types:      m.selectedIRIs(typeSelector),
		Predicates: m.selectedIRIs(predicateSelector),
	}
	snap, err := m.ds.Apply(ev)
	if err != nil {
		m.message = fmt.Sprintf("Selection rejected: %v", err)
		m.messageErr = true
		return false
	}
	m.snap = snap
	m.message = fmt.Sprintf("%d of %d nodes visible, %d of %d edges",
		snap.View.VisibleNodes(), snap.State.Graph.NodeCount(),
		snap.View.VisibleEdges(), snap.State.Graph.EdgeCount())
	m.messageErr = false
	return true
}

func (m model) counts(sel selector) []visibility.Count {
	if sel == typeSelector {
		return m.snap.Types
	}
	return m.snap.Predicates
}

// selectedIRIs lists the selected IRIs in selector order
func (m model) selectedIRIs(sel selector) []string {
	out := []string{}
	for _, c := range m.counts(sel) {
		if m.selected[sel][c.IRI] {
			out = append(out, c.IRI)
		}
	}
	return out
}

// refresh rebuilds the selector rows and the node table from the snapshot
func (m *model) refresh() {
	for _, sel := range []selector{typeSelector, predicateSelector} {
		counts := m.counts(sel)
		items := make([]list.Item, len(counts))
		for i, c := range counts {
			items[i] = entry{count: c, selected: m.selected[sel][c.IRI]}
		}
		m.lists[sel].SetItems(items)
	}

	g := m.snap.State.Graph
	labels := m.snap.State.Options.Labels
	rows := make([]table.Row, 0, g.NodeCount())
	for i, n := range g.Nodes() {
		name := n.IRI()
		if labels != nil {
			name = labels.Label(name)
		}
		typ, visible := visibility.MultiType, "-"
		if m.snap.View != nil {
			nv := m.snap.View.Nodes[i]
			typ = nv.Type
			visible = "no"
			if nv.Visible {
				visible = "yes"
			}
		}
		rows = append(rows, table.Row{name, typ, visible})
	}
	m.nodeTable.SetRows(rows)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("rdfgraph selector"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case typesView, predicatesView:
		sel, _ := m.activeSelector()
		s.WriteString(contentStyle.Render(m.lists[sel].View()))
	case nodesView:
		s.WriteString(m.renderNodes())
	case summaryView:
		s.WriteString(m.renderSummary())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m model) renderTabs() string {
	rendered := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if view(i) == m.currentView {
			rendered = append(rendered, activeTabStyle.Render(name))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderNodes() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Node Browser"))
	s.WriteString("\n\n")
	s.WriteString(m.nodeTable.View())
	return contentStyle.Render(s.String())
}

func (m model) renderSummary() string {
	g := m.snap.State.Graph
	stats := g.GetStatistics()
	visibleNodes, visibleEdges := 0, 0
	if m.snap.View != nil {
		visibleNodes = m.snap.View.VisibleNodes()
		visibleEdges = m.snap.View.VisibleEdges()
	}

	statsContent := fmt.Sprintf(`Graph
━━━━━━━━━━━━━━━
Nodes:      %d (%d visible)
Edges:      %d (%d visible)
Types:      %d
Predicates: %d
Untyped:    %d
Uptime:     %s`,
		stats.NodeCount, visibleNodes,
		stats.EdgeCount, visibleEdges,
		stats.TypeCount,
		stats.PredicateCount,
		stats.UntypedNodes,
		time.Since(m.startTime).Round(time.Second),
	)

	var legend strings.Builder
	legend.WriteString("Colours\n━━━━━━━━━━━━━━━")
	if m.snap.View != nil {
		for _, cc := range m.snap.View.Styles {
			legend.WriteString("\n" + swatch(cc.Color) + " " + cc.Class)
		}
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(statsContent),
		statsBoxStyle.Render(legend.String()),
	))
}
