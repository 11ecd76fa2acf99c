package main

import (
	"time"

	"github.com/rs/zerolog"

	"crewmap/internal/board"
)

type model struct {
	width      int
	height     int
	board      *board.Board
	config     *Config
	log        zerolog.Logger
	now        func() time.Time
	mode       Mode
	help       bool
	helpScroll int

	// sidebar selection
	focus    board.Category
	selected int

	// surface cursor (viewport cells) and scroll offset (board cells)
	cursorX  int
	cursorY  int
	panX     int
	panY     int
	zPanMode bool

	formCategory board.Category
	formEntryID  string
	formName     string
	formDetails  string
	formField    int

	fileOp            FileOperation
	filename          string
	fileList          []string
	selectedFileIndex int
	fromStartup       bool

	confirmAction   ConfirmAction
	confirmCategory board.Category
	confirmEntryID  string
	confirmMarkerID string
	pendingImport   *board.Snapshot
	pendingWrite    []byte

	drop      *catalogDrag
	drag      *markerDrag
	lastClick clickRecord

	pictures *pictureCache

	undoStack []Action
	redoStack []Action

	errorMessage   string
	successMessage string
}

// catalogDrag is an entry picked up from the sidebar and not yet dropped.
type catalogDrag struct {
	category board.Category
	entryID  string
	screenX  int
	screenY  int
}

// markerDrag is the single in-flight marker move. x and y hold the visual
// position; the model keeps the old one until the drag ends.
type markerDrag struct {
	id       string
	offsetX  int
	offsetY  int
	x        int
	y        int
	startX   int
	startY   int
	keyboard bool
}

type clickRecord struct {
	markerID string
	at       time.Time
}

type Action struct {
	Type    ActionType
	Data    interface{}
	Inverse interface{}
}

type EditEntryData struct {
	Category board.Category
	ID       string
	Name     string
	Details  string
}

type MoveMarkerData struct {
	ID string
	X  int
	Y  int
}

type cellMetrics struct {
	w int
	h int
}
