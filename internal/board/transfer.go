package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FormatVersion is written into every export file.
const FormatVersion = "1.0.0"

// ExportFile is the JSON document written by Export.
type ExportFile struct {
	Items      Catalog  `json:"items"`
	Pieces     []Marker `json:"pieces"`
	MapImage   *string  `json:"mapImage"`
	ExportDate string   `json:"exportDate"`
	Version    string   `json:"version"`
}

// ExportName returns the download name for an export taken at now.
func ExportName(now time.Time) string {
	return fmt.Sprintf("crew-battle-map-%d.json", now.UnixMilli())
}

// Export serializes a snapshot of the board taken at now.
func (b *Board) Export(now time.Time) ([]byte, string, error) {
	state := b.state.Clone()
	file := ExportFile{
		Items:      state.Items,
		Pieces:     state.Pieces,
		ExportDate: now.UTC().Format("2006-01-02T15:04:05.000Z"),
		Version:    FormatVersion,
	}
	if state.MapImage != "" {
		file.MapImage = &state.MapImage
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode export: %w", err)
	}
	return data, ExportName(now), nil
}

// ParseImport decodes an export file. Nothing on the board changes.
func ParseImport(data []byte) (Snapshot, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return Snapshot{}, fmt.Errorf("error importing data: %w", ErrNotObject)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("error importing data: %w", err)
	}
	if err := checkPieces(snap.Pieces); err != nil {
		return Snapshot{}, fmt.Errorf("error importing data: %w", err)
	}
	if snap.Items != nil {
		snap.Items.normalize()
	}
	return snap, nil
}

// ApplyImport replaces the whole board with snap. Missing items keep the
// current catalog, missing pieces leave the map empty, and a missing image
// clears the map image.
func (b *Board) ApplyImport(snap Snapshot) error {
	next := NewState()
	if snap.Items != nil {
		next.Items = snap.Items.clone()
	} else {
		next.Items = b.state.Items.clone()
	}
	if snap.Pieces != nil {
		next.Pieces = append(next.Pieces, snap.Pieces...)
	}
	next.MapImage = snap.MapImage
	b.state = next

	err := b.save()
	if next.MapImage == "" {
		err = errors.Join(err, b.persist.ClearImage())
	}
	b.log.Info().Int("pieces", len(next.Pieces)).Msg("data imported")
	return err
}
