package main

import "crewmap/internal/board"

func (m *model) recordAction(actionType ActionType, data, inverse interface{}) {
	action := Action{
		Type:    actionType,
		Data:    data,
		Inverse: inverse,
	}
	m.undoStack = append(m.undoStack, action)
	m.redoStack = m.redoStack[:0]
}

// resetHistory forgets undo state after the board was replaced wholesale.
func (m *model) resetHistory() {
	m.undoStack = nil
	m.redoStack = nil
}

func (m *model) undo() {
	if len(m.undoStack) == 0 {
		m.succeed("Nothing to undo")
		return
	}

	lastIndex := len(m.undoStack) - 1
	action := m.undoStack[lastIndex]
	m.undoStack = m.undoStack[:lastIndex]

	var err error
	switch action.Type {
	case ActionAddEntry:
		data := action.Data.(board.Removal)
		action.Data, err = m.board.DeleteEntry(data.Category, data.Entry.ID)
	case ActionEditEntry:
		data := action.Inverse.(EditEntryData)
		err = m.board.UpdateEntry(data.Category, data.ID, data.Name, data.Details)
	case ActionDeleteEntry:
		err = m.board.RestoreEntry(action.Data.(board.Removal))
	case ActionAddMarker:
		data := action.Data.(board.PlacedMarker)
		action.Data, err = m.board.RemoveMarker(data.Marker.ID)
	case ActionMoveMarker:
		data := action.Inverse.(MoveMarkerData)
		err = m.board.MoveMarker(data.ID, data.X, data.Y)
	case ActionRemoveMarker:
		err = m.board.RestoreMarker(action.Data.(board.PlacedMarker))
	}

	m.redoStack = append(m.redoStack, action)
	m.clampSelection()
	m.notify(err)
}

func (m *model) redo() {
	if len(m.redoStack) == 0 {
		m.succeed("Nothing to redo")
		return
	}

	lastIndex := len(m.redoStack) - 1
	action := m.redoStack[lastIndex]
	m.redoStack = m.redoStack[:lastIndex]

	var err error
	switch action.Type {
	case ActionAddEntry:
		err = m.board.RestoreEntry(action.Data.(board.Removal))
	case ActionEditEntry:
		data := action.Data.(EditEntryData)
		err = m.board.UpdateEntry(data.Category, data.ID, data.Name, data.Details)
	case ActionDeleteEntry:
		data := action.Data.(board.Removal)
		action.Data, err = m.board.DeleteEntry(data.Category, data.Entry.ID)
	case ActionAddMarker:
		err = m.board.RestoreMarker(action.Data.(board.PlacedMarker))
	case ActionMoveMarker:
		data := action.Data.(MoveMarkerData)
		err = m.board.MoveMarker(data.ID, data.X, data.Y)
	case ActionRemoveMarker:
		data := action.Data.(board.PlacedMarker)
		action.Data, err = m.board.RemoveMarker(data.Marker.ID)
	}

	m.undoStack = append(m.undoStack, action)
	m.clampSelection()
	m.notify(err)
}
