package main

import "time"

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeForm
	ModeMove
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpMapImage FileOperation = iota
	FileOpImport
	FileOpExport
	FileOpSavePNG
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmDeleteEntry ConfirmAction = iota
	ConfirmRemoveMarker
	ConfirmImport
	ConfirmClearMap
	ConfirmClearAll
	ConfirmQuit
	ConfirmOverwriteFile
)

type ActionType int

const (
	ActionAddEntry ActionType = iota
	ActionEditEntry
	ActionDeleteEntry
	ActionAddMarker
	ActionMoveMarker
	ActionRemoveMarker
)

const (
	sidebarWidth      = 34
	defaultCellWidth  = 8
	defaultCellHeight = 16
	doubleClickWindow = 500 * time.Millisecond
)

const (
	formFieldName = iota
	formFieldDetails
)
