package main

import (
	"errors"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"crewmap/internal/board"
)

func (m *model) surfaceOrigin() (int, int) {
	return sidebarWidth + 1, 1
}

// viewportSize is the part of the screen given to the board surface: right
// of the sidebar, between the stats line and the status line.
func (m *model) viewportSize() (int, int) {
	w := m.width - sidebarWidth - 1
	h := m.height - 2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (m *model) metrics() cellMetrics {
	if m.config == nil {
		return cellMetrics{w: defaultCellWidth, h: defaultCellHeight}
	}
	return m.config.metrics()
}

func (m *model) picture() *picture {
	return m.pictures.get(m.board.State().MapImage, m.metrics())
}

// surfaceCells is the size of the map image in cells. ok is false without a
// usable image, in which case the surface is the viewport.
func (m *model) surfaceCells() (int, int, bool) {
	if pic := m.picture(); pic != nil && pic.err == nil {
		return pic.cols, pic.rows, true
	}
	w, h := m.viewportSize()
	return w, h, false
}

// screenToBoard converts a screen cell to a board cell. ok is false when the
// point is not over the surface.
func (m *model) screenToBoard(x, y int) (int, int, bool) {
	ox, oy := m.surfaceOrigin()
	vw, vh := m.viewportSize()
	vx, vy := x-ox, y-oy
	if vx < 0 || vy < 0 || vx >= vw || vy >= vh {
		return 0, 0, false
	}
	col, row := vx+m.panX, vy+m.panY
	cols, rows, _ := m.surfaceCells()
	if col >= cols || row >= rows {
		return col, row, false
	}
	return col, row, true
}

// boardPixels is the board-local pixel position of the top left corner of
// a board cell.
func (m *model) boardPixels(col, row int) (int, int) {
	metrics := m.metrics()
	return col * metrics.w, row * metrics.h
}

func (m *model) cursorBoardCell() (int, int) {
	return m.cursorX + m.panX, m.cursorY + m.panY
}

func (m *model) notify(err error) {
	m.successMessage = ""
	if err == nil {
		m.errorMessage = ""
		return
	}
	if errors.Is(err, board.ErrStorage) {
		m.log.Error().Err(err).Msg("storage failure")
		m.errorMessage = "Error saving data. Your storage may be full."
		return
	}
	m.errorMessage = err.Error()
}

func (m *model) succeed(message string) {
	m.errorMessage = ""
	m.successMessage = message
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return normalized
}

func stripRTF(text string) string {
	if !strings.HasPrefix(text, "{\\rtf") && !strings.Contains(text, "\\rtf") {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '{' || r == '}' {
			continue
		}
		if r == '\\' {
			if i+1 < len(runes) {
				next := runes[i+1]
				if (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') {
					i++
					for i < len(runes) {
						if runes[i] == ' ' || runes[i] == '\\' || runes[i] == '{' || runes[i] == '}' {
							if runes[i] == ' ' {
								i++
							}
							break
						}
						i++
					}
					i--
					continue
				} else if next == '\\' || next == '{' || next == '}' {
					result.WriteRune(next)
					i++
					continue
				}
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

var escapeSequence = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)|\x1b[@-Z\\-_]`)

// sanitizeText makes user text safe to draw: escape sequences are dropped,
// line breaks become spaces and other control characters are removed.
func sanitizeText(s string) string {
	s = escapeSequence.ReplaceAllString(s, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
