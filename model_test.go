package main

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewmap/internal/board"
	"crewmap/internal/store"
)

var testClock = time.Date(2026, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

func newTestModelWithStore(t *testing.T, s store.Store) *model {
	t.Helper()
	n := 0
	b := board.Open(s, board.WithIDFunc(func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}))
	cfg := &Config{
		Confirmations: true,
		CellWidth:     defaultCellWidth,
		CellHeight:    defaultCellHeight,
		SaveDirectory: t.TempDir(),
	}
	m := initialModel(b, cfg, zerolog.Nop())
	m.now = func() time.Time { return testClock }
	m.width, m.height = 100, 30
	return &m
}

// newTestModel returns a model on an in-memory store with a 100x30
// terminal: the surface starts at (35, 1) and is 65x28 cells.
func newTestModel(t *testing.T) *model {
	t.Helper()
	s, err := store.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return newTestModelWithStore(t, s)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func (m *model) keys(keys ...string) {
	for _, k := range keys {
		m.handleKey(keyMsg(k))
	}
}

func (m *model) typeText(s string) {
	for _, r := range s {
		if r == ' ' {
			m.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (m *model) mouse(typ tea.MouseEventType, x, y int) {
	m.handleMouse(tea.MouseMsg{X: x, Y: y, Type: typ})
}

func addTruck(t *testing.T, m *model, name string) board.Entry {
	t.Helper()
	entry, err := m.board.AddEntry(board.Truck, name, "")
	require.NoError(t, err)
	return entry
}

func TestInitialModel(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, board.Crew, m.focus)

	m.config.StartMenu = true
	started := initialModel(m.board, m.config, zerolog.Nop())
	assert.Equal(t, ModeStartup, started.mode)

	started.handleKey(keyMsg("enter"))
	assert.Equal(t, ModeNormal, started.mode)
}

func TestUpdateWindowSize(t *testing.T) {
	m := newTestModel(t)
	m.cursorX, m.cursorY = 60, 25

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Nil(t, cmd)
	got := next.(model)
	assert.Equal(t, 60, got.width)
	vw, vh := got.viewportSize()
	assert.Equal(t, 25, vw)
	assert.Equal(t, 18, vh)
	assert.Equal(t, vw-1, got.cursorX)
	assert.Equal(t, vh-1, got.cursorY)
}

func TestAddEntryThroughForm(t *testing.T) {
	m := newTestModel(t)

	m.keys("tab", "a")
	require.Equal(t, ModeForm, m.mode)
	assert.Equal(t, board.Truck, m.formCategory)

	m.typeText("Engine 5")
	m.keys("tab")
	m.typeText("4 seats")
	m.keys("enter")

	assert.Equal(t, ModeNormal, m.mode)
	trucks := m.board.State().Items.Entries(board.Truck)
	require.Len(t, trucks, 1)
	assert.Equal(t, "Engine 5", trucks[0].Name)
	assert.Equal(t, "4 seats", trucks[0].Details)
	assert.Equal(t, 0, m.selected)
	assert.Len(t, m.undoStack, 1)
}

func TestFormRequiresName(t *testing.T) {
	m := newTestModel(t)

	m.keys("a")
	m.typeText("   ")
	m.keys("enter")

	assert.Equal(t, ModeForm, m.mode)
	assert.Equal(t, "Name is required", m.errorMessage)
	assert.Empty(t, m.board.State().Items.Entries(board.Crew))

	m.keys("esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.undoStack)
}

func TestEditEntryThroughForm(t *testing.T) {
	m := newTestModel(t)
	entry := addTruck(t, m, "Engine 5")
	m.focus = board.Truck

	m.keys("e")
	require.Equal(t, ModeForm, m.mode)
	assert.Equal(t, "Engine 5", m.formName)

	m.keys("backspace")
	m.typeText("7")
	m.keys("enter")

	got, ok := m.board.State().Items.Find(board.Truck, entry.ID)
	require.True(t, ok)
	assert.Equal(t, "Engine 7", got.Name)

	m.undo()
	got, _ = m.board.State().Items.Find(board.Truck, entry.ID)
	assert.Equal(t, "Engine 5", got.Name)
}

func TestDeleteEntryAsksFirst(t *testing.T) {
	m := newTestModel(t)
	entry := addTruck(t, m, "Engine 5")
	_, err := m.board.AddMarker(board.Truck, entry.ID, 16, 16)
	require.NoError(t, err)
	m.focus = board.Truck

	m.keys("d")
	require.Equal(t, ModeConfirm, m.mode)
	assert.Contains(t, m.statusView(), "Delete this item? It will also be removed from the map.")

	m.keys("n")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Len(t, m.board.State().Items.Entries(board.Truck), 1)

	m.keys("d", "y")
	assert.Empty(t, m.board.State().Items.Entries(board.Truck))
	assert.Empty(t, m.board.State().Pieces)

	m.undo()
	assert.Len(t, m.board.State().Items.Entries(board.Truck), 1)
	assert.Len(t, m.board.State().Pieces, 1)
}

func TestConfirmationsDisabled(t *testing.T) {
	m := newTestModel(t)
	m.config.Confirmations = false
	addTruck(t, m, "Engine 5")
	m.focus = board.Truck

	m.keys("d")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.board.State().Items.Entries(board.Truck))
}

func TestFocusCycles(t *testing.T) {
	m := newTestModel(t)

	m.keys("tab")
	assert.Equal(t, board.Truck, m.focus)
	m.keys("tab", "tab")
	assert.Equal(t, board.Crew, m.focus)
	m.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, board.Equipment, m.focus)
}

func TestStorageFailureIsReported(t *testing.T) {
	s, err := store.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	m := newTestModelWithStore(t, store.Limit(s, 16))

	m.keys("a")
	m.typeText("Engine 5")
	m.keys("enter")

	assert.Equal(t, "Error saving data. Your storage may be full.", m.errorMessage)
	assert.Len(t, m.board.State().Items.Entries(board.Crew), 1)
}
