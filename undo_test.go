package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewmap/internal/board"
)

func TestUndoRedoAddEntry(t *testing.T) {
	m := newTestModel(t)
	m.keys("a")
	m.typeText("Alpha")
	m.keys("enter")
	require.Len(t, m.board.State().Items.Entries(board.Crew), 1)

	m.keys("u")
	assert.Empty(t, m.board.State().Items.Entries(board.Crew))
	assert.Len(t, m.redoStack, 1)

	m.keys("U")
	crew := m.board.State().Items.Entries(board.Crew)
	require.Len(t, crew, 1)
	assert.Equal(t, "Alpha", crew[0].Name)
	assert.Empty(t, m.redoStack)
}

func TestUndoPlacementThenEntry(t *testing.T) {
	m := newTestModel(t)
	m.keys("a")
	m.typeText("Alpha")
	m.keys("enter", "p")
	require.Len(t, m.board.State().Pieces, 1)

	m.undo()
	assert.Empty(t, m.board.State().Pieces)
	m.undo()
	assert.Empty(t, m.board.State().Items.Entries(board.Crew))

	m.redo()
	m.redo()
	assert.Len(t, m.board.State().Items.Entries(board.Crew), 1)
	assert.Len(t, m.board.State().Pieces, 1)
}

func TestNewActionClearsRedo(t *testing.T) {
	m := newTestModel(t)
	m.keys("a")
	m.typeText("Alpha")
	m.keys("enter")
	m.undo()
	require.Len(t, m.redoStack, 1)

	m.keys("a")
	m.typeText("Bravo")
	m.keys("enter")
	assert.Empty(t, m.redoStack)
}

func TestUndoEmptyStack(t *testing.T) {
	m := newTestModel(t)
	m.undo()
	assert.Equal(t, "Nothing to undo", m.successMessage)
	m.redo()
	assert.Equal(t, "Nothing to redo", m.successMessage)
}

func TestClearAllResetsHistory(t *testing.T) {
	m := newTestModel(t)
	m.keys("a")
	m.typeText("Alpha")
	m.keys("enter", "p")

	m.keys("C")
	require.Equal(t, ModeConfirm, m.mode)
	assert.Contains(t, m.statusView(), "Clear ALL data including items and map? This cannot be undone!")
	m.keys("y")

	assert.Empty(t, m.board.State().Items.Entries(board.Crew))
	assert.Empty(t, m.board.State().Pieces)
	assert.Empty(t, m.undoStack)
	assert.Empty(t, m.redoStack)
}
