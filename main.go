package main

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"crewmap/internal/board"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initialModel(b *board.Board, config *Config, log zerolog.Logger) model {
	m := model{
		board:    b,
		config:   config,
		log:      log,
		now:      time.Now,
		mode:     ModeNormal,
		focus:    board.Crew,
		pictures: &pictureCache{},
	}
	if config != nil && config.StartMenu {
		m.mode = ModeStartup
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampPan()
		m.ensureCursorInBounds()
	case tea.KeyMsg:
		_, cmd = m.handleKey(msg)
	case tea.MouseMsg:
		_, cmd = m.handleMouse(msg)
	case mapImageLoadedMsg:
		m.handleMapImageLoaded(msg)
	case importReadMsg:
		m.handleImportRead(msg)
	}
	return m, cmd
}
