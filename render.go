package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"crewmap/internal/board"
)

var categoryColors = map[board.Category]string{
	board.Crew:      "#4ea1ff",
	board.Truck:     "#ff5f57",
	board.Equipment: "#ffb000",
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f57")).Bold(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd700"))
	selectedStyle  = lipgloss.NewStyle().Reverse(true)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

func categoryStyle(cat board.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(categoryColors[cat])).Bold(true)
}

type cell struct {
	ch      rune
	fg      string
	bg      string
	bold    bool
	reverse bool
	cont    bool // right half of a wide rune
}

func (c cell) sameStyle(o cell) bool {
	return c.fg == o.fg && c.bg == o.bg && c.bold == o.bold && c.reverse == o.reverse
}

type grid struct {
	w     int
	h     int
	cells [][]cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]cell, h)}
	for y := range g.cells {
		g.cells[y] = make([]cell, w)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{ch: ' '}
		}
	}
	return g
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

// text writes s starting at (x, y) in the given style. Cells outside the
// grid are clipped. Wide runes take two cells.
func (g *grid) text(x, y int, s string, style cell) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c := style
		c.ch = r
		if w == 2 && !g.inside(x+1, y) {
			c.ch = ' '
			w = 1
		}
		if g.inside(x, y) {
			// never leave half of a wide rune behind
			if g.cells[y][x].cont && g.inside(x-1, y) {
				g.cells[y][x-1].ch = ' '
			}
			g.cells[y][x] = c
			if w == 2 {
				cont := style
				cont.cont = true
				g.cells[y][x+1] = cont
			}
			if g.inside(x+w, y) && g.cells[y][x+w].cont {
				g.cells[y][x+w] = cell{ch: ' '}
			}
		}
		x += w
	}
}

func (g *grid) plain(y int) string {
	var b strings.Builder
	for _, c := range g.cells[y] {
		if !c.cont {
			b.WriteRune(c.ch)
		}
	}
	return b.String()
}

func (g *grid) line(y int) string {
	var out strings.Builder
	row := g.cells[y]
	for start := 0; start < len(row); {
		end := start
		var run strings.Builder
		for end < len(row) && row[end].sameStyle(row[start]) {
			if !row[end].cont {
				run.WriteRune(row[end].ch)
			}
			end++
		}
		out.WriteString(cellStyle(row[start]).Render(run.String()))
		start = end
	}
	return out.String()
}

func cellStyle(c cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.fg != "" {
		style = style.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		style = style.Background(lipgloss.Color(c.bg))
	}
	return style.Bold(c.bold).Reverse(c.reverse)
}

// floorDiv divides rounding toward negative infinity, so markers dragged
// left of the origin land in the right cell.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// markerLabel is the text shown for a marker, or false for an orphan.
func markerLabel(state *board.State, marker board.Marker) (string, bool) {
	entry, ok := state.Entry(marker)
	if !ok {
		return "", false
	}
	return marker.Category.Icon() + " " + sanitizeText(entry.Name), true
}

// markerBox is a rendered marker in board cells.
type markerBox struct {
	marker board.Marker
	label  string
	col    int
	row    int
	width  int
}

func (b markerBox) contains(col, row int) bool {
	return row == b.row && col >= b.col && col < b.col+b.width
}

// layoutMarkers places every marker whose entry still exists. A marker being
// dragged is placed at its visual position instead of its stored one.
func layoutMarkers(state *board.State, metrics cellMetrics, drag *markerDrag) []markerBox {
	boxes := make([]markerBox, 0, len(state.Pieces))
	for _, p := range state.Pieces {
		label, ok := markerLabel(state, p)
		if !ok {
			continue
		}
		x, y := p.X, p.Y
		if drag != nil && drag.id == p.ID {
			x, y = drag.x, drag.y
		}
		boxes = append(boxes, markerBox{
			marker: p,
			label:  label,
			col:    floorDiv(x, metrics.w),
			row:    floorDiv(y, metrics.h),
			width:  runewidth.StringWidth(label),
		})
	}
	return boxes
}

// markerAt returns the topmost marker under board cell (col, row).
func markerAt(boxes []markerBox, col, row int) (markerBox, bool) {
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].contains(col, row) {
			return boxes[i], true
		}
	}
	return markerBox{}, false
}

type surfaceView struct {
	state   *board.State
	pic     *picture
	metrics cellMetrics
	width   int
	height  int
	panX    int
	panY    int
	drag    *markerDrag
	ghost   string
	ghostX  int
	ghostY  int
	bare    bool // markers only, no image or placeholder
}

// renderSurface draws the map, or the placeholder when there is none, then
// rebuilds the whole marker layer on top.
func renderSurface(v surfaceView) *grid {
	g := newGrid(v.width, v.height)

	switch {
	case v.bare:
	case v.pic != nil && v.pic.err == nil:
		for y := 0; y < v.height; y++ {
			r := y + v.panY
			if r < 0 || r >= v.pic.rows {
				continue
			}
			for x := 0; x < v.width; x++ {
				c := x + v.panX
				if c < 0 || c >= v.pic.cols {
					continue
				}
				g.cells[y][x] = cell{ch: '▀', fg: v.pic.fg[r][c], bg: v.pic.bg[r][c]}
			}
		}
	default:
		lines := []string{"No map image loaded", "Press i to load one, then drag entries onto the board"}
		if v.pic != nil && v.pic.err != nil {
			lines = append(lines, sanitizeText(v.pic.err.Error()))
		}
		top := (v.height - len(lines)) / 2
		for i, line := range lines {
			w := runewidth.StringWidth(line)
			g.text((v.width-w)/2, top+i, line, cell{fg: "#808080"})
		}
	}

	for _, box := range layoutMarkers(v.state, v.metrics, v.drag) {
		style := cell{fg: categoryColors[box.marker.Category], bold: true}
		if v.drag != nil && v.drag.id == box.marker.ID {
			style.reverse = true
		}
		g.text(box.col-v.panX, box.row-v.panY, box.label, style)
	}

	if v.ghost != "" {
		g.text(v.ghostX, v.ghostY, v.ghost, cell{fg: "#808080", reverse: true})
	}
	return g
}

type rowKind int

const (
	rowHeader rowKind = iota
	rowEntry
	rowDetails
	rowEmpty
	rowBlank
)

type sidebarRow struct {
	kind     rowKind
	category board.Category
	index    int
	entry    board.Entry
}

func sidebarRows(state *board.State) []sidebarRow {
	var rows []sidebarRow
	for i, cat := range board.Categories {
		if i > 0 {
			rows = append(rows, sidebarRow{kind: rowBlank, category: cat})
		}
		rows = append(rows, sidebarRow{kind: rowHeader, category: cat})
		entries := state.Items.Entries(cat)
		if len(entries) == 0 {
			rows = append(rows, sidebarRow{kind: rowEmpty, category: cat})
		}
		for j, e := range entries {
			rows = append(rows, sidebarRow{kind: rowEntry, category: cat, index: j, entry: e})
			if e.Details != "" {
				rows = append(rows, sidebarRow{kind: rowDetails, category: cat, index: j, entry: e})
			}
		}
	}
	return rows
}

const (
	editButton   = "[e]"
	deleteButton = "[x]"
)

// entry rows end with " [e][x]"
func editButtonCol() int   { return sidebarWidth - 6 }
func deleteButtonCol() int { return sidebarWidth - 3 }

func fitWidth(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// sidebarOffset scrolls the sidebar so the selected entry stays visible.
func (m *model) sidebarOffset(rows []sidebarRow, height int) int {
	for i, r := range rows {
		if r.kind == rowEntry && r.category == m.focus && r.index == m.selected {
			if i >= height {
				return i - height + 1
			}
			return 0
		}
	}
	return 0
}

func (m *model) renderSidebar(state *board.State, height int) []string {
	rows := sidebarRows(state)
	offset := m.sidebarOffset(rows, height)

	lines := make([]string, 0, height)
	for i := offset; i < len(rows) && len(lines) < height; i++ {
		lines = append(lines, m.renderSidebarRow(state, rows[i]))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", sidebarWidth))
	}
	return lines
}

func (m *model) renderSidebarRow(state *board.State, row sidebarRow) string {
	switch row.kind {
	case rowHeader:
		text := fmt.Sprintf("%s %s (%d)", row.category.Icon(), row.category.Title(), len(state.Items.Entries(row.category)))
		style := categoryStyle(row.category)
		if row.category == m.focus {
			style = style.Underline(true)
		}
		return style.Render(fitWidth(text, sidebarWidth))
	case rowEntry:
		name := fmt.Sprintf("%s %s", row.category.Icon(), sanitizeText(row.entry.Name))
		prefix := "  "
		selected := row.category == m.focus && row.index == m.selected
		if selected {
			prefix = "▸ "
		}
		left := fitWidth(prefix+name, sidebarWidth-7)
		if selected {
			left = selectedStyle.Render(left)
		}
		return left + " " + dimStyle.Render(editButton) + errorStyle.Render(deleteButton)
	case rowDetails:
		return dimStyle.Render(fitWidth("     "+sanitizeText(row.entry.Details), sidebarWidth))
	case rowEmpty:
		return dimStyle.Render(fitWidth(fmt.Sprintf("  no %s yet, press a", row.category), sidebarWidth))
	default:
		return strings.Repeat(" ", sidebarWidth)
	}
}

// renderStats is the header line with the per-category marker counts.
func renderStats(state *board.State, width int) string {
	counts := state.Counts()
	parts := []string{titleStyle.Render("Crew Battle Map"), dimStyle.Render("on map:")}
	for _, cat := range board.Categories {
		parts = append(parts, categoryStyle(cat).Render(fmt.Sprintf("%s %s %d", cat.Icon(), cat.Title(), counts[cat])))
	}
	line := " " + strings.Join(parts, "  ")
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

// statsText is renderStats without styling.
func statsText(state *board.State) string {
	counts := state.Counts()
	parts := []string{"Crew Battle Map", "on map:"}
	for _, cat := range board.Categories {
		parts = append(parts, fmt.Sprintf("%s %s %d", cat.Icon(), cat.Title(), counts[cat]))
	}
	return " " + strings.Join(parts, "  ")
}
