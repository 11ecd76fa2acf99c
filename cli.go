package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"crewmap/internal/board"
	"crewmap/internal/store"
)

var version = "dev"

var (
	flagConfigDir string
	flagDataDir   string
	flagBackend   string
	flagOutput    string
	flagYes       bool
)

var (
	appConfig *Config
	appLog    = zerolog.Nop()
	logFile   io.Closer
)

var rootCmd = &cobra.Command{
	Use:          "crewmap",
	Short:        "Crewmap places crews, trucks and equipment on a battle map",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir := flagConfigDir
		if configDir == "" {
			configDir = defaultConfigDir()
		}
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		if flagDataDir != "" {
			cfg.DataDir = expandPath(flagDataDir)
		}
		if flagBackend != "" {
			cfg.Backend = strings.ToLower(flagBackend)
		}
		appConfig = cfg

		appLog, logFile, err = setupLogging(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(b *board.Board) error {
			p := tea.NewProgram(
				initialModel(b, appConfig, appLog),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			_, err := p.Run()
			return err
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the board to a JSON export file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(b *board.Board) error {
			data, name, err := b.Export(time.Now())
			if err != nil {
				return err
			}
			if flagOutput == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if flagOutput != "" {
				name = flagOutput
			}
			path := appConfig.GetSavePath(name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the board with a JSON export file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error importing data: %w", err)
		}
		snap, err := board.ParseImport(data)
		if err != nil {
			return err
		}
		if !flagYes && !promptYes(cmd, "This will replace all current data. Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
			return nil
		}
		return withBoard(func(b *board.Board) error {
			if err := b.ApplyImport(snap); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Data imported successfully!")
			return nil
		})
	},
}

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Read or replace the stored board state",
}

var dataGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current board state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(b *board.Board) error {
			out, err := json.MarshalIndent(b.Data(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		})
	},
}

var dataSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Replace the parts of the board state present in a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var snap board.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		return withBoard(func(b *board.Board) error {
			return b.SetData(snap)
		})
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file.png>",
	Short: "Render the map and its markers to a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(b *board.Board) error {
			data, err := encodePNG(b.State(), appConfig.metrics())
			if err != nil {
				return err
			}
			path := appConfig.GetSavePath(args[0])
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "crewmap %s (export format %s)\n", version, board.FormatVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/crewmap)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: ~/.local/share/crewmap)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: badger or sqlite")

	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file, - for stdout (default: crew-battle-map-<ms>.json)")
	importCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "do not ask for confirmation")

	dataCmd.AddCommand(dataGetCmd)
	dataCmd.AddCommand(dataSetCmd)

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)
}

// withBoard opens the configured store, loads the board and closes the
// store once fn returns.
func withBoard(fn func(b *board.Board) error) error {
	s, err := store.Open(appConfig.Backend, appConfig.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			appLog.Warn().Err(err).Msg("error closing store")
		}
	}()
	appLog.Info().Str("backend", appConfig.Backend).Str("dir", appConfig.DataDir).Msg("store opened")

	b := board.Open(store.Limit(s, appConfig.QuotaBytes), board.WithLogger(appLog))
	return fn(b)
}

func promptYes(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
