package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"crewmap/internal/board"
)

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help && m.mode != ModeStartup {
		return m.handleHelpKey(msg)
	}

	switch m.mode {
	case ModeStartup:
		return m.handleStartupKey(msg)
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeMove:
		return m.handleMoveKey(msg)
	case ModeFileInput:
		return m.handleFileInputKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m *model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		maxScroll := len(helpLines) - m.helpHeight()
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m *model) handleStartupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "n", " ":
		m.mode = ModeNormal
	case "i":
		m.fromStartup = true
		m.startFileInput(FileOpImport)
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if isDirectionKey(key) {
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.config != nil && !m.config.Confirmations {
			return m, tea.Quit
		}
		m.ask(ConfirmQuit)
	case "?":
		m.help = true
		m.helpScroll = 0
	case "esc":
		m.zPanMode = false
		m.drop = nil
		m.errorMessage = ""
		m.successMessage = ""
	case "z":
		m.zPanMode = !m.zPanMode

	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "]":
		m.selected++
		m.clampSelection()
	case "[":
		m.selected--
		m.clampSelection()

	case "a":
		m.openAddForm(m.focus)
	case "e":
		if entry, ok := m.selectedEntry(); ok {
			m.openEditForm(m.focus, entry)
		}
	case "d":
		if entry, ok := m.selectedEntry(); ok {
			m.askDeleteEntry(m.focus, entry.ID)
		}
	case "p", "enter":
		m.placeSelected()
	case "m":
		m.startKeyboardMove()
	case "x":
		if box, ok := m.markerUnderCursor(); ok {
			m.askRemoveMarker(box.marker.ID)
		}

	case "i":
		m.startFileInput(FileOpMapImage)
	case "c":
		if m.board.State().MapImage != "" {
			m.ask(ConfirmClearMap)
		}
	case "C":
		m.ask(ConfirmClearAll)
	case "E":
		m.startFileInput(FileOpExport)
	case "I":
		m.startFileInput(FileOpImport)
	case "S":
		m.startFileInput(FileOpSavePNG)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)
	case "Y":
		m.copyToClipboard()

	case "u":
		m.undo()
	case "U":
		m.redo()
	}
	return m, nil
}

func (m *model) cycleFocus(step int) {
	n := len(board.Categories)
	for i, cat := range board.Categories {
		if cat == m.focus {
			m.focus = board.Categories[((i+step)%n+n)%n]
			break
		}
	}
	m.selected = 0
}

// clampSelection keeps the sidebar selection on an existing entry.
func (m *model) clampSelection() {
	n := len(m.board.State().Items.Entries(m.focus))
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *model) selectedEntry() (board.Entry, bool) {
	entries := m.board.State().Items.Entries(m.focus)
	if m.selected < 0 || m.selected >= len(entries) {
		return board.Entry{}, false
	}
	return entries[m.selected], true
}

func (m *model) markerUnderCursor() (markerBox, bool) {
	col, row := m.cursorBoardCell()
	return markerAt(layoutMarkers(m.board.State(), m.metrics(), nil), col, row)
}

// placeSelected drops the selected entry at the cursor.
func (m *model) placeSelected() {
	entry, ok := m.selectedEntry()
	if !ok {
		m.notify(fmt.Errorf("no %s entry selected", m.focus))
		return
	}
	px, py := m.boardPixels(m.cursorBoardCell())
	m.placeMarker(m.focus, entry.ID, px, py)
}

func (m *model) startKeyboardMove() {
	box, ok := m.markerUnderCursor()
	if !ok {
		return
	}
	m.drag = &markerDrag{
		id:       box.marker.ID,
		x:        box.marker.X,
		y:        box.marker.Y,
		startX:   box.marker.X,
		startY:   box.marker.Y,
		keyboard: true,
	}
	m.mode = ModeMove
}

func (m *model) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.drag == nil {
		m.mode = ModeNormal
		return m, nil
	}
	if isDirectionKey(key) {
		dx, dy := direction(key)
		speed := m.getMoveSpeed(key)
		metrics := m.metrics()
		m.drag.x += dx * speed * metrics.w
		m.drag.y += dy * speed * metrics.h
		m.handleCursorMove(key, speed)
		return m, nil
	}
	switch key {
	case "enter", "m":
		m.commitDrag()
		m.mode = ModeNormal
	case "esc":
		m.drag = nil
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *model) openAddForm(cat board.Category) {
	m.mode = ModeForm
	m.formCategory = cat
	m.formEntryID = ""
	m.formName = ""
	m.formDetails = ""
	m.formField = formFieldName
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) openEditForm(cat board.Category, entry board.Entry) {
	m.openAddForm(cat)
	m.formEntryID = entry.ID
	m.formName = entry.Name
	m.formDetails = entry.Details
}

func (m *model) formValue() *string {
	if m.formField == formFieldDetails {
		return &m.formDetails
	}
	return &m.formName
}

func (m *model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.errorMessage = ""
		return m, nil
	case tea.KeyEnter:
		m.submitForm()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if m.formField == formFieldName {
			m.formField = formFieldDetails
		} else {
			m.formField = formFieldName
		}
		return m, nil
	case tea.KeyBackspace:
		value := m.formValue()
		if runes := []rune(*value); len(runes) > 0 {
			*value = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeyCtrlU:
		*m.formValue() = ""
		return m, nil
	case tea.KeyCtrlV:
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = fmt.Sprintf("Paste failed: %s", err.Error())
			return m, nil
		}
		*m.formValue() += strings.ReplaceAll(cleanClipboardText(text), "\n", " ")
		return m, nil
	case tea.KeySpace:
		*m.formValue() += " "
		return m, nil
	case tea.KeyRunes:
		*m.formValue() += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m *model) submitForm() {
	cat := m.formCategory
	if m.formEntryID == "" {
		entry, err := m.board.AddEntry(cat, m.formName, m.formDetails)
		if errors.Is(err, board.ErrNameRequired) {
			m.errorMessage = "Name is required"
			return
		}
		if entry.ID != "" {
			index := len(m.board.State().Items.Entries(cat)) - 1
			m.recordAction(ActionAddEntry, board.Removal{Category: cat, Index: index, Entry: entry}, nil)
			m.focus = cat
			m.selected = index
		}
		m.mode = ModeNormal
		m.notify(err)
		return
	}

	old, ok := m.board.State().Items.Find(cat, m.formEntryID)
	err := m.board.UpdateEntry(cat, m.formEntryID, m.formName, m.formDetails)
	if errors.Is(err, board.ErrNameRequired) {
		m.errorMessage = "Name is required"
		return
	}
	if ok {
		updated, _ := m.board.State().Items.Find(cat, m.formEntryID)
		m.recordAction(ActionEditEntry,
			EditEntryData{Category: cat, ID: updated.ID, Name: updated.Name, Details: updated.Details},
			EditEntryData{Category: cat, ID: old.ID, Name: old.Name, Details: old.Details})
	}
	m.mode = ModeNormal
	m.notify(err)
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.fromStartup {
			m.mode = ModeStartup
			m.fromStartup = false
		} else {
			m.mode = ModeNormal
		}
		m.filename = ""
		m.errorMessage = ""
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		if m.fileOp.lists() && len(m.fileList) > 0 {
			step := 1
			if msg.Type == tea.KeyUp {
				step = -1
			}
			n := len(m.fileList)
			if m.selectedFileIndex < 0 {
				m.selectedFileIndex = 0
			} else {
				m.selectedFileIndex = ((m.selectedFileIndex+step)%n + n) % n
			}
			m.filename = m.fileList[m.selectedFileIndex]
		}
		return m, nil
	case tea.KeyEnter:
		m.fromStartup = false
		return m, m.submitFile()
	case tea.KeyBackspace:
		if runes := []rune(m.filename); len(runes) > 0 {
			m.filename = string(runes[:len(runes)-1])
			m.selectedFileIndex = -1
		}
		return m, nil
	case tea.KeyCtrlU:
		m.filename = ""
		m.selectedFileIndex = -1
		return m, nil
	case tea.KeySpace:
		m.filename += " "
		m.selectedFileIndex = -1
		return m, nil
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
		m.selectedFileIndex = -1
		return m, nil
	}
	return m, nil
}

func (m *model) askDeleteEntry(cat board.Category, id string) {
	m.confirmCategory = cat
	m.confirmEntryID = id
	m.ask(ConfirmDeleteEntry)
}

func (m *model) askRemoveMarker(id string) {
	m.confirmMarkerID = id
	m.ask(ConfirmRemoveMarker)
}

// ask puts up a yes/no question for action, or runs it straight away when
// confirmations are turned off.
func (m *model) ask(action ConfirmAction) {
	m.confirmAction = action
	if m.config != nil && !m.config.Confirmations {
		m.confirm()
		return
	}
	m.mode = ModeConfirm
}

func confirmMessage(action ConfirmAction, filename string) string {
	switch action {
	case ConfirmDeleteEntry:
		return "Delete this item? It will also be removed from the map."
	case ConfirmRemoveMarker:
		return "Remove this piece from the map?"
	case ConfirmImport:
		return "This will replace all current data. Continue?"
	case ConfirmClearMap:
		return "Clear the map image? Pieces will remain."
	case ConfirmClearAll:
		return "Clear ALL data including items and map? This cannot be undone!"
	case ConfirmQuit:
		return "Quit crewmap?"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("File %s already exists. Overwrite?", filename)
	default:
		return "Continue?"
	}
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.confirmAction == ConfirmQuit {
			return m, tea.Quit
		}
		m.confirm()
	case "n", "N", "esc":
		m.cancelConfirm()
	}
	return m, nil
}

func (m *model) cancelConfirm() {
	switch m.confirmAction {
	case ConfirmOverwriteFile:
		m.mode = ModeFileInput
		m.pendingWrite = nil
		return
	case ConfirmImport:
		m.pendingImport = nil
	}
	m.mode = ModeNormal
}

// confirm runs the pending action.
func (m *model) confirm() {
	m.mode = ModeNormal

	switch m.confirmAction {
	case ConfirmDeleteEntry:
		removal, err := m.board.DeleteEntry(m.confirmCategory, m.confirmEntryID)
		if !errors.Is(err, board.ErrEntryNotFound) {
			m.recordAction(ActionDeleteEntry, removal, nil)
		}
		m.clampSelection()
		m.notify(err)
	case ConfirmRemoveMarker:
		pm, err := m.board.RemoveMarker(m.confirmMarkerID)
		if !errors.Is(err, board.ErrMarkerNotFound) {
			m.recordAction(ActionRemoveMarker, pm, nil)
		}
		m.notify(err)
	case ConfirmImport:
		m.applyImport()
	case ConfirmClearMap:
		err := m.board.ClearMapImage()
		m.panX, m.panY = 0, 0
		m.notify(err)
	case ConfirmClearAll:
		err := m.board.ClearAll()
		m.resetHistory()
		m.selected = 0
		m.panX, m.panY = 0, 0
		m.cursorX, m.cursorY = 0, 0
		m.notify(err)
	case ConfirmOverwriteFile:
		m.writeOutput(m.filename, m.pendingWrite)
	}
}

func (m *model) copyToClipboard() {
	data, _, err := m.board.Export(m.now())
	if err != nil {
		m.notify(err)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		m.notify(fmt.Errorf("copy failed: %w", err))
		return
	}
	m.succeed("Copied board JSON to clipboard")
}
