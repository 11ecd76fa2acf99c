package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#808080")).
	Padding(0, 1)

var helpLines = []string{
	"Crew Battle Map Help",
	"====================",
	"",
	"Catalog (left):",
	"---------------",
	"  Tab/Shift+Tab    Switch between Crew, Trucks and Equipment",
	"  [ / ]            Select previous/next entry",
	"  a                Add an entry to the focused category",
	"  e                Edit the selected entry",
	"  d                Delete the selected entry and its markers",
	"  mouse            Click [e] to edit, [x] to delete",
	"",
	"Map (right):",
	"------------",
	"  h/←/j/↓/k/↑/l/→  Move the cursor",
	"  Shift+h/j/k/l    Move the cursor 2x faster",
	"  z                Toggle pan mode (direction keys scroll the map)",
	"  p/Enter          Place the selected entry at the cursor",
	"  m                Move the marker under the cursor (Enter to drop)",
	"  x                Remove the marker under the cursor",
	"  mouse            Drag an entry from the catalog onto the map,",
	"                   drag a marker to move it, double-click to remove it,",
	"                   wheel to scroll (Shift+wheel scrolls sideways)",
	"",
	"Map image:",
	"----------",
	"  i                Load a map image",
	"  c                Clear the map image (markers stay)",
	"",
	"Data:",
	"-----",
	"  E                Export everything to a JSON file",
	"  I                Import a JSON export (replaces everything)",
	"  S                Export the board as a PNG image",
	"  T                Export the board as plain text",
	"  Y                Copy the board JSON to the clipboard",
	"  C                Clear ALL data",
	"",
	"General:",
	"--------",
	"  u                Undo last change",
	"  U                Redo last undone change",
	"  Esc              Cancel the current operation",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m *model) helpHeight() int {
	if m.height-1 < 1 {
		return 1
	}
	return m.height - 1
}

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}
	if m.mode == ModeStartup {
		return m.startupView()
	}

	state := m.board.State()
	vw, vh := m.viewportSize()

	var result strings.Builder
	result.WriteString(renderStats(state, m.width))
	result.WriteString("\n")

	sidebar := m.renderSidebar(state, vh)
	surface := m.surfaceLines(vw, vh)
	sep := separatorStyle.Render("│")
	for i := 0; i < vh; i++ {
		result.WriteString(sidebar[i])
		result.WriteString(sep)
		result.WriteString(surface[i])
		result.WriteString("\n")
	}

	result.WriteString(m.statusView())
	return result.String()
}

// surfaceLines renders the right-hand area: the board, or the panel of the
// current modal mode.
func (m *model) surfaceLines(w, h int) []string {
	var panel string
	switch m.mode {
	case ModeForm:
		panel = m.formView()
	case ModeFileInput:
		panel = m.fileView(w, h)
	}
	if panel != "" {
		placed := lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, panel)
		return fitLines(strings.Split(placed, "\n"), h)
	}

	g := renderSurface(m.surfaceView(w, h))
	if m.mode == ModeNormal || m.mode == ModeMove || m.mode == ModeConfirm {
		x, y := m.cursorX, m.cursorY
		if g.inside(x, y) {
			if g.cells[y][x].cont && x > 0 {
				x--
			}
			g.cells[y][x].reverse = !g.cells[y][x].reverse
			if g.cells[y][x].ch == ' ' {
				g.cells[y][x].ch = '█'
				g.cells[y][x].reverse = false
			}
		}
	}
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = g.line(y)
	}
	return lines
}

func (m *model) surfaceView(w, h int) surfaceView {
	v := surfaceView{
		state:   m.board.State(),
		pic:     m.picture(),
		metrics: m.metrics(),
		width:   w,
		height:  h,
		panX:    m.panX,
		panY:    m.panY,
		drag:    m.drag,
	}
	if m.drop != nil {
		if entry, ok := v.state.Items.Find(m.drop.category, m.drop.entryID); ok {
			ox, oy := m.surfaceOrigin()
			v.ghost = m.drop.category.Icon() + " " + sanitizeText(entry.Name)
			v.ghostX = m.drop.screenX - ox
			v.ghostY = m.drop.screenY - oy
		}
	}
	return v
}

func fitLines(lines []string, h int) []string {
	if len(lines) > h {
		return lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return lines
}

func (m *model) formView() string {
	title := "Add"
	if m.formEntryID != "" {
		title = "Edit"
	}
	field := func(label, value string, active bool) string {
		text := fmt.Sprintf("%-8s %s", label, sanitizeText(value))
		if active {
			return selectedStyle.Render(text + "█")
		}
		return text
	}

	var b strings.Builder
	b.WriteString(categoryStyle(m.formCategory).Render(fmt.Sprintf("%s %s %s", title, m.formCategory.Icon(), m.formCategory.Title())))
	b.WriteString("\n\n")
	b.WriteString(field("Name", m.formName, m.formField == formFieldName))
	b.WriteString("\n")
	b.WriteString(field("Details", m.formDetails, m.formField == formFieldDetails))
	if m.errorMessage != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.errorMessage))
	}
	return panelStyle.Width(44).Render(b.String())
}

func (m *model) fileView(w, h int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fileOpTitle(m.fileOp)))
	b.WriteString("\n")

	if m.fileOp.lists() {
		maxFiles := h - 8
		if maxFiles < 1 {
			maxFiles = 1
		}
		if len(m.fileList) == 0 {
			b.WriteString(dimStyle.Render("(no matching files in the current directory)"))
			b.WriteString("\n")
		}
		start := 0
		if m.selectedFileIndex >= maxFiles {
			start = m.selectedFileIndex - maxFiles + 1
		}
		for i := start; i < len(m.fileList) && i < start+maxFiles; i++ {
			if i == m.selectedFileIndex {
				b.WriteString(selectedStyle.Render("> " + m.fileList[i]))
			} else {
				b.WriteString("  " + m.fileList[i])
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nFilename: ")
	b.WriteString(sanitizeText(m.filename))
	b.WriteString("█")

	width := w - 4
	if width > 60 {
		width = 60
	}
	return panelStyle.Width(width).Render(b.String())
}

func (m *model) startupView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Crew Battle Map"))
	b.WriteString("\n\n")
	b.WriteString(statsText(m.board.State()))
	b.WriteString("\n\n")
	b.WriteString("Enter  open the board\n")
	b.WriteString("i      import a JSON export\n")
	b.WriteString("q      quit")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panelStyle.Render(b.String()))
}

func (m *model) statusView() string {
	var statusLine string
	switch m.mode {
	case ModeForm:
		statusLine = "Mode: FORM | Tab=switch field, Enter=save, Ctrl+V=paste, Esc=cancel"
	case ModeMove:
		statusLine = "Mode: MOVE | hjkl/arrows=move, Enter=drop, Esc=cancel"
	case ModeFileInput:
		hint := "Enter=confirm, Esc=cancel"
		if m.fileOp.lists() {
			hint = "↑/↓=navigate, Type=enter name, " + hint
		}
		statusLine = fmt.Sprintf("Mode: FILE | %s | %s", fileOpTitle(m.fileOp), hint)
		if m.errorMessage != "" {
			statusLine = fmt.Sprintf("Mode: FILE | ERROR: %s | %s", m.errorMessage, hint)
		}
	case ModeConfirm:
		statusLine = fmt.Sprintf("Mode: CONFIRM | %s (y/n)", confirmMessage(m.confirmAction, m.filename))
	default:
		modeStr := m.modeString()
		if m.zPanMode {
			modeStr = "PAN"
		}
		col, row := m.cursorBoardCell()
		status := fmt.Sprintf("Mode: %s | Cursor: (%d,%d)", modeStr, col, row)
		if m.drop != nil {
			status += " | Release over the map to place"
		}
		if m.successMessage != "" {
			status += fmt.Sprintf(" | %s", m.successMessage)
		}
		if m.errorMessage != "" {
			status += fmt.Sprintf(" | ERROR: %s", m.errorMessage)
		} else if m.successMessage == "" {
			status += " | ? for help | q to quit"
		}
		statusLine = status
	}

	statusLine = runewidth.Truncate(statusLine, m.width, "…")
	switch {
	case m.mode == ModeConfirm:
		return titleStyle.Render(statusLine)
	case m.errorMessage != "":
		return errorStyle.Render(statusLine)
	case m.successMessage != "":
		return successStyle.Render(statusLine)
	}
	return statusLine
}

func (m model) modeString() string {
	switch m.mode {
	case ModeStartup:
		return "STARTUP"
	case ModeNormal:
		return "NORMAL"
	case ModeForm:
		return "FORM"
	case ModeMove:
		return "MOVE"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) helpView() string {
	visibleHeight := m.helpHeight()

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = len(helpLines) - visibleHeight
	}
	if startLine < 0 {
		startLine = 0
	}
	endLine := startLine + visibleHeight
	if endLine > len(helpLines) {
		endLine = len(helpLines)
	}

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
