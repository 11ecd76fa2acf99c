package main

import tea "github.com/charmbracelet/bubbletea"

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

func (m *model) handlePan(key string, speed int) tea.Model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "up", "K", "shift+up":
		m.panY -= speed
	case "j", "down", "J", "shift+down":
		m.panY += speed
	}
	m.clampPan()
	return m
}

func (m *model) handleCursorMove(key string, speed int) tea.Model {
	dx, dy := direction(key)
	m.cursorX += dx * speed
	m.cursorY += dy * speed
	m.ensureCursorInBounds()
	return m
}

func direction(key string) (int, int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0
	case "l", "right", "L", "shift+right":
		return 1, 0
	case "k", "up", "K", "shift+up":
		return 0, -1
	case "j", "down", "J", "shift+down":
		return 0, 1
	}
	return 0, 0
}

func isDirectionKey(key string) bool {
	dx, dy := direction(key)
	return dx != 0 || dy != 0
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	w, h := m.viewportSize()
	if m.cursorX >= w {
		m.cursorX = w - 1
	}
	if m.cursorY >= h {
		m.cursorY = h - 1
	}
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
}

// clampPan keeps the scroll offset inside the map image, or at the origin
// when there is no image to scroll over.
func (m *model) clampPan() {
	cols, rows, ok := m.surfaceCells()
	w, h := m.viewportSize()
	maxX, maxY := 0, 0
	if ok {
		maxX, maxY = cols-w, rows-h
	}
	if m.panX > maxX {
		m.panX = maxX
	}
	if m.panY > maxY {
		m.panY = maxY
	}
	if m.panX < 0 {
		m.panX = 0
	}
	if m.panY < 0 {
		m.panY = 0
	}
}
