package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"crewmap/internal/board"
)

const wheelStep = 3

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.help || m.mode != ModeNormal {
		return m, nil
	}

	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		step := wheelStep
		if msg.Type == tea.MouseWheelUp {
			step = -step
		}
		if msg.Shift {
			m.panX += step
		} else {
			m.panY += step
		}
		m.clampPan()
	case tea.MouseRelease:
		m.release(msg.X, msg.Y)
	case tea.MouseMotion:
		m.motion(msg.X, msg.Y)
	case tea.MouseLeft:
		// terminals report a held button as repeated presses while moving
		if m.drag != nil || m.drop != nil {
			m.motion(msg.X, msg.Y)
		} else {
			m.press(msg.X, msg.Y)
		}
	}
	return m, nil
}

func (m *model) press(x, y int) {
	if x < sidebarWidth {
		m.pressSidebar(x, y)
		return
	}

	col, row, ok := m.screenToBoard(x, y)
	if !ok {
		return
	}
	ox, oy := m.surfaceOrigin()
	m.cursorX, m.cursorY = x-ox, y-oy

	box, hit := markerAt(layoutMarkers(m.board.State(), m.metrics(), nil), col, row)
	if !hit {
		m.lastClick = clickRecord{}
		return
	}

	now := m.now()
	if m.lastClick.markerID == box.marker.ID && now.Sub(m.lastClick.at) <= doubleClickWindow {
		m.lastClick = clickRecord{}
		m.askRemoveMarker(box.marker.ID)
		return
	}
	m.lastClick = clickRecord{markerID: box.marker.ID, at: now}

	px, py := m.boardPixels(col, row)
	m.drag = &markerDrag{
		id:      box.marker.ID,
		offsetX: px - box.marker.X,
		offsetY: py - box.marker.Y,
		x:       box.marker.X,
		y:       box.marker.Y,
		startX:  box.marker.X,
		startY:  box.marker.Y,
	}
}

// pressSidebar handles a click in the catalog. Entry rows either hit one of
// the [e][x] buttons or pick the entry up for dropping onto the map.
func (m *model) pressSidebar(x, y int) {
	_, oy := m.surfaceOrigin()
	_, height := m.viewportSize()
	if y < oy || y >= oy+height {
		return
	}
	rows := sidebarRows(m.board.State())
	i := m.sidebarOffset(rows, height) + y - oy
	if i < 0 || i >= len(rows) {
		return
	}

	row := rows[i]
	switch row.kind {
	case rowHeader, rowEmpty:
		m.focus = row.category
		m.selected = 0
	case rowEntry, rowDetails:
		m.focus = row.category
		m.selected = row.index
		if row.kind == rowDetails {
			return
		}
		switch {
		case x >= editButtonCol() && x < editButtonCol()+len(editButton):
			m.openEditForm(row.category, row.entry)
		case x >= deleteButtonCol() && x < deleteButtonCol()+len(deleteButton):
			m.askDeleteEntry(row.category, row.entry.ID)
		default:
			m.drop = &catalogDrag{category: row.category, entryID: row.entry.ID, screenX: x, screenY: y}
		}
	}
}

func (m *model) motion(x, y int) {
	if m.drop != nil {
		m.drop.screenX, m.drop.screenY = x, y
	}
	if m.drag != nil && !m.drag.keyboard {
		ox, oy := m.surfaceOrigin()
		px, py := m.boardPixels(x-ox+m.panX, y-oy+m.panY)
		m.drag.x = px - m.drag.offsetX
		m.drag.y = py - m.drag.offsetY
	}
}

func (m *model) release(x, y int) {
	if m.drag != nil && !m.drag.keyboard {
		m.motion(x, y)
		m.commitDrag()
	}

	if drop := m.drop; drop != nil {
		m.drop = nil
		col, row, ok := m.screenToBoard(x, y)
		if !ok {
			return
		}
		px, py := m.boardPixels(col, row)
		m.placeMarker(drop.category, drop.entryID, px, py)
	}
}

// commitDrag writes the dragged marker's visual position to the board.
func (m *model) commitDrag() {
	drag := m.drag
	m.drag = nil
	if drag.x == drag.startX && drag.y == drag.startY {
		return
	}
	err := m.board.MoveMarker(drag.id, drag.x, drag.y)
	if !errors.Is(err, board.ErrMarkerNotFound) {
		m.recordAction(ActionMoveMarker,
			MoveMarkerData{ID: drag.id, X: drag.x, Y: drag.y},
			MoveMarkerData{ID: drag.id, X: drag.startX, Y: drag.startY})
	}
	m.notify(err)
}

func (m *model) placeMarker(cat board.Category, entryID string, px, py int) {
	marker, err := m.board.AddMarker(cat, entryID, float64(px), float64(py))
	if marker.ID != "" {
		m.recordAction(ActionAddMarker, board.PlacedMarker{Index: len(m.board.State().Pieces) - 1, Marker: marker}, nil)
	}
	m.notify(err)
}
