package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"crewmap/internal/board"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

type mapImageLoadedMsg struct {
	name string
	uri  string
	err  error
}

type importReadMsg struct {
	name string
	snap board.Snapshot
	err  error
}

// loadMapImage reads an image file off the update loop.
func loadMapImage(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return mapImageLoadedMsg{name: path, err: err}
		}
		uri, err := board.EncodeDataURI(data)
		return mapImageLoadedMsg{name: path, uri: uri, err: err}
	}
}

func readImport(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return importReadMsg{name: path, err: fmt.Errorf("error importing data: %w", err)}
		}
		snap, err := board.ParseImport(data)
		return importReadMsg{name: path, snap: snap, err: err}
	}
}

func (m *model) handleMapImageLoaded(msg mapImageLoadedMsg) {
	if errors.Is(msg.err, board.ErrNotImage) {
		m.notify(errors.New("please select an image file"))
		return
	}
	if msg.err != nil {
		m.notify(msg.err)
		return
	}
	err := m.board.SetMapImage(msg.uri)
	m.panX, m.panY = 0, 0
	m.clampPan()
	m.log.Info().Str("file", msg.name).Int("bytes", len(msg.uri)).Msg("map image loaded")
	if err == nil {
		m.succeed(fmt.Sprintf("Loaded map image %s", filepath.Base(msg.name)))
		return
	}
	m.notify(err)
}

func (m *model) handleImportRead(msg importReadMsg) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("file", msg.name).Msg("import rejected")
		m.notify(msg.err)
		return
	}
	snap := msg.snap
	m.pendingImport = &snap
	m.ask(ConfirmImport)
}

func (m *model) applyImport() {
	if m.pendingImport == nil {
		return
	}
	err := m.board.ApplyImport(*m.pendingImport)
	m.pendingImport = nil
	m.resetHistory()
	m.selected = 0
	m.panX, m.panY = 0, 0
	m.clampPan()
	if err == nil {
		m.succeed("Data imported successfully!")
		return
	}
	m.notify(err)
}

// scanFiles lists the files in the working directory with one of exts.
func (m *model) scanFiles(exts []string) {
	m.fileList = []string{}
	m.selectedFileIndex = -1

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == want {
				m.fileList = append(m.fileList, entry.Name())
				break
			}
		}
	}
	sort.Strings(m.fileList)

	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = m.fileList[0]
	}
}

// fileExtension is appended to typed names that lack one.
func fileExtension(op FileOperation) string {
	switch op {
	case FileOpImport, FileOpExport:
		return ".json"
	case FileOpSavePNG:
		return ".png"
	case FileOpSaveVisualTXT:
		return ".txt"
	default:
		return ""
	}
}

func fileOpTitle(op FileOperation) string {
	switch op {
	case FileOpMapImage:
		return "Load map image"
	case FileOpImport:
		return "Import"
	case FileOpExport:
		return "Export"
	case FileOpSavePNG:
		return "Export PNG"
	case FileOpSaveVisualTXT:
		return "Export TXT"
	default:
		return "File"
	}
}

func (op FileOperation) lists() bool {
	return op == FileOpMapImage || op == FileOpImport
}

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = ""
	m.fileList = nil
	m.selectedFileIndex = -1
	m.errorMessage = ""
	m.successMessage = ""

	switch op {
	case FileOpMapImage:
		m.scanFiles(imageExtensions)
	case FileOpImport:
		m.scanFiles([]string{".json"})
	case FileOpExport:
		m.filename = board.ExportName(m.now())
	}
}

// renderOutput produces the bytes written by the export operations.
func (m *model) renderOutput(op FileOperation) ([]byte, error) {
	switch op {
	case FileOpExport:
		data, _, err := m.board.Export(m.now())
		return data, err
	case FileOpSavePNG:
		return m.exportPNG()
	case FileOpSaveVisualTXT:
		return []byte(m.visualTXT()), nil
	default:
		return nil, fmt.Errorf("nothing to write for %s", fileOpTitle(op))
	}
}

func (m *model) submitFile() tea.Cmd {
	filename := strings.TrimSpace(m.filename)
	if filename == "" {
		m.errorMessage = "Please enter a filename"
		return nil
	}
	if ext := fileExtension(m.fileOp); ext != "" && !strings.HasSuffix(strings.ToLower(filename), ext) {
		filename += ext
	}

	switch m.fileOp {
	case FileOpMapImage:
		m.mode = ModeNormal
		return loadMapImage(filename)
	case FileOpImport:
		m.mode = ModeNormal
		return readImport(filename)
	}

	data, err := m.renderOutput(m.fileOp)
	if err != nil {
		m.notify(err)
		return nil
	}
	path := m.config.GetSavePath(filename)
	if _, err := os.Stat(path); err == nil {
		m.filename = path
		m.pendingWrite = data
		m.ask(ConfirmOverwriteFile)
		return nil
	}
	m.writeOutput(path, data)
	return nil
}

func (m *model) writeOutput(path string, data []byte) {
	m.pendingWrite = nil
	m.mode = ModeNormal
	m.filename = ""
	if err := os.WriteFile(path, data, 0o644); err != nil {
		m.notify(fmt.Errorf("error writing %s: %w", path, err))
		return
	}
	absPath, _ := filepath.Abs(path)
	m.log.Info().Str("file", absPath).Int("bytes", len(data)).Msg("file written")
	m.succeed(fmt.Sprintf("Exported to %s", absPath))
}
