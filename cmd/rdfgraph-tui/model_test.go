package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf/rdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var robot = rdf.IRI(rdftest.EX + "Robot")

func newModel(t *testing.T) model {
	t.Helper()
	ds, err := dataset.New(&dataset.Config{
		Table: namespace.NewTable(
			namespace.Binding{Prefix: "ex", Namespace: rdftest.EX},
			namespace.Binding{Prefix: "foaf", Namespace: rdftest.FOAF},
		),
	})
	require.NoError(t, err)
	t.Cleanup(ds.Close)

	carol := rdf.IRI(rdftest.EX + "Carol")
	triples := append(rdftest.AliceBob(),
		rdf.NewTriple(carol, rdftest.Type, robot),
		rdf.NewTriple(carol, rdftest.Knows, rdftest.Alice),
	)
	_, err = ds.Load(rdftest.MustStore(triples...))
	require.NoError(t, err)

	m, _ := initialModel(ds).Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(model)
}

func press(m model, msgs ...tea.KeyMsg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialSelection(t *testing.T) {
	m := newModel(t)

	assert.Equal(t, typesView, m.currentView)
	assert.Equal(t, []string{rdftest.EX + "Person", rdftest.EX + "Robot"}, m.selectedIRIs(typeSelector))
	assert.Equal(t, []string{rdftest.FOAF + "knows"}, m.selectedIRIs(predicateSelector))
	assert.Len(t, m.lists[typeSelector].Items(), 2)
	assert.Len(t, m.nodeTable.Rows(), 3)
	assert.Contains(t, m.View(), "Types")
}

func TestToggleType(t *testing.T) {
	m := newModel(t)

	// Person is first: it has the most nodes
	m = press(m, space)
	assert.Equal(t, []string{rdftest.EX + "Robot"}, m.selectedIRIs(typeSelector))
	assert.False(t, m.messageErr)
	assert.Equal(t, 1, m.ds.Snapshot().View.VisibleNodes())
	assert.Equal(t, 0, m.ds.Snapshot().View.VisibleEdges())
	item := m.lists[typeSelector].Items()[0].(entry)
	assert.False(t, item.selected)
	assert.Contains(t, item.Title(), "[ ] ex:Person  [2]")

	m = press(m, space)
	assert.Equal(t, 3, m.ds.Snapshot().View.VisibleNodes())

	m = press(m, down, space)
	assert.Equal(t, []string{rdftest.EX + "Person"}, m.selectedIRIs(typeSelector))
}

func TestSelectAllAndNone(t *testing.T) {
	m := newModel(t)

	m = press(m, tab)
	assert.Equal(t, predicatesView, m.currentView)
	m = press(m, runes("n"))
	assert.Empty(t, m.selectedIRIs(predicateSelector))
	assert.Equal(t, 0, m.ds.Snapshot().View.VisibleEdges())
	assert.Equal(t, 3, m.ds.Snapshot().View.VisibleNodes())

	m = press(m, runes("a"))
	assert.Equal(t, 2, m.ds.Snapshot().View.VisibleEdges())
}

func TestTabsCycle(t *testing.T) {
	m := newModel(t)

	m = press(m, tab, tab)
	assert.Equal(t, nodesView, m.currentView)
	assert.Contains(t, m.View(), "Node Browser")

	// Selection keys do nothing outside the selectors
	m = press(m, runes("n"))
	assert.Equal(t, 2, m.ds.Snapshot().View.VisibleEdges())

	m = press(m, tab)
	assert.Equal(t, summaryView, m.currentView)
	assert.Contains(t, m.View(), "Untyped:    0")

	m = press(m, tab)
	assert.Equal(t, typesView, m.currentView)
	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, summaryView, m.currentView)
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
