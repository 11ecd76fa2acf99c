package main

import (
	"strings"

	"crewmap/internal/board"
)

// boardExtent is the size of the board in cells: the map image, or enough
// room for every marker when there is none.
func boardExtent(state *board.State, pic *picture, metrics cellMetrics) (int, int) {
	if pic != nil && pic.err == nil {
		return pic.cols, pic.rows
	}
	cols, rows := 0, 0
	for _, box := range layoutMarkers(state, metrics, nil) {
		cols = max(cols, box.col+box.width)
		rows = max(rows, box.row+1)
	}
	return cols, rows
}

func sidebarText(state *board.State, row sidebarRow) string {
	switch row.kind {
	case rowHeader:
		return row.category.Icon() + " " + row.category.Title()
	case rowEntry:
		return "  " + row.category.Icon() + " " + sanitizeText(row.entry.Name)
	case rowDetails:
		return "     " + sanitizeText(row.entry.Details)
	case rowEmpty:
		return "  (none)"
	default:
		return ""
	}
}

// visualTXT renders the catalog next to the whole board as plain text,
// without the map image.
func visualTXT(state *board.State, pic *picture, metrics cellMetrics) string {
	cols, rows := boardExtent(state, pic, metrics)
	surface := renderSurface(surfaceView{
		state:   state,
		metrics: metrics,
		width:   cols,
		height:  rows,
		bare:    true,
	})

	sidebar := sidebarRows(state)
	height := max(len(sidebar), rows)

	var b strings.Builder
	b.WriteString(strings.TrimRight(statsText(state), " "))
	b.WriteString("\n")
	for i := 0; i < height; i++ {
		left := ""
		if i < len(sidebar) {
			left = sidebarText(state, sidebar[i])
		}
		line := fitWidth(left, sidebarWidth) + "|"
		if i < rows {
			line += surface.plain(i)
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) visualTXT() string {
	return visualTXT(m.board.State(), m.picture(), m.metrics())
}
