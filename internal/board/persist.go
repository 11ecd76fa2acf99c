package board

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"crewmap/internal/store"
)

// Record keys, shared with the browser version of the board.
const (
	DataKey  = "crewBattleMapData"
	ImageKey = "crewBattleMapImage"
)

type dataRecord struct {
	Items  *Catalog `json:"items"`
	Pieces []Marker `json:"pieces"`
}

// Persister reads and writes a State as two independent records: the
// catalog with its markers, and the map image.
type Persister struct {
	store store.Store
	log   zerolog.Logger
}

func NewPersister(s store.Store, log zerolog.Logger) *Persister {
	return &Persister{store: s, log: log}
}

// Load merges the stored records into state. A missing or unreadable record
// leaves the matching part of state as it was.
func (p *Persister) Load(state *State) {
	raw, err := p.store.Get(DataKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		p.log.Debug().Str("key", DataKey).Msg("no saved data")
	case err != nil:
		p.log.Warn().Err(err).Str("key", DataKey).Msg("error loading state")
	default:
		var rec dataRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			p.log.Warn().Err(err).Str("key", DataKey).Msg("ignoring unparsable saved data")
			break
		}
		if rec.Items != nil {
			rec.Items.normalize()
			state.Items = *rec.Items
		}
		state.Pieces = rec.Pieces
		if state.Pieces == nil {
			state.Pieces = []Marker{}
		}
	}

	img, err := p.store.Get(ImageKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		p.log.Warn().Err(err).Str("key", ImageKey).Msg("error loading map image")
	case img != "":
		state.MapImage = img
	}
}

// Save writes the data record and, when the state has one, the map image.
func (p *Persister) Save(state *State) error {
	raw, err := json.Marshal(dataRecord{Items: &state.Items, Pieces: state.Pieces})
	if err != nil {
		return fmt.Errorf("%w: encode state: %v", ErrStorage, err)
	}
	if err := p.store.Set(DataKey, string(raw)); err != nil {
		p.log.Error().Err(err).Str("key", DataKey).Msg("error saving state")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if state.MapImage != "" {
		if err := p.store.Set(ImageKey, state.MapImage); err != nil {
			p.log.Error().Err(err).Str("key", ImageKey).Int("bytes", len(state.MapImage)).Msg("error saving map image")
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}

	p.log.Debug().Int("pieces", len(state.Pieces)).Msg("state saved")
	return nil
}

// ClearImage removes the stored map image.
func (p *Persister) ClearImage() error {
	if err := p.store.Remove(ImageKey); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// Clear removes both records.
func (p *Persister) Clear() error {
	for _, key := range []string{DataKey, ImageKey} {
		if err := p.store.Remove(key); err != nil {
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}
	return nil
}
