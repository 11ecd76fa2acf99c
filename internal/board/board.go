// Package board holds the crew battle map state: the catalog of crews, trucks
// and equipment, the markers placed on the map, and the map image. Every
// mutation writes through to the backing store.
package board

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"crewmap/internal/store"
)

type Board struct {
	state   *State
	persist *Persister
	log     zerolog.Logger
	newID   IDFunc
}

type Option func(*Board)

func WithLogger(log zerolog.Logger) Option {
	return func(b *Board) { b.log = log }
}

// WithIDFunc replaces the identifier generator.
func WithIDFunc(f IDFunc) Option {
	return func(b *Board) { b.newID = f }
}

// Open creates a board backed by s and loads whatever s already holds.
func Open(s store.Store, opts ...Option) *Board {
	b := &Board{
		state: NewState(),
		log:   zerolog.Nop(),
		newID: newID,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.persist = NewPersister(s, b.log)
	b.persist.Load(b.state)
	b.log.Info().
		Int("crew", len(b.state.Items.Crew)).
		Int("truck", len(b.state.Items.Truck)).
		Int("equipment", len(b.state.Items.Equipment)).
		Int("pieces", len(b.state.Pieces)).
		Bool("mapImage", b.state.MapImage != "").
		Msg("board loaded")
	return b
}

// State returns the live state for rendering. Callers must not modify it.
func (b *Board) State() *State {
	return b.state
}

// Data returns a deep copy of the current state.
func (b *Board) Data() *State {
	return b.state.Clone()
}

// SetData replaces the parts of the state present in snap and saves.
func (b *Board) SetData(snap Snapshot) error {
	if err := checkPieces(snap.Pieces); err != nil {
		return err
	}
	if snap.Items != nil {
		items := snap.Items.clone()
		b.state.Items = items
	}
	if snap.Pieces != nil {
		b.state.Pieces = append([]Marker(nil), snap.Pieces...)
	}
	if snap.MapImage != "" {
		b.state.MapImage = snap.MapImage
	}
	return b.save()
}

func (b *Board) save() error {
	return b.persist.Save(b.state)
}

func checkCategory(cat Category) error {
	if !cat.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(cat))
	}
	return nil
}

func checkPieces(pieces []Marker) error {
	for _, p := range pieces {
		if !p.Category.Valid() {
			return fmt.Errorf("marker %s: %w: %q", p.ID, ErrUnknownCategory, string(p.Category))
		}
	}
	return nil
}

func cleanEntry(name, details string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrNameRequired
	}
	return name, strings.TrimSpace(details), nil
}

// AddEntry appends a new entry to cat.
func (b *Board) AddEntry(cat Category, name, details string) (Entry, error) {
	if err := checkCategory(cat); err != nil {
		return Entry{}, err
	}
	name, details, err := cleanEntry(name, details)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{ID: b.newID("item"), Name: name, Details: details}
	list := b.state.Items.list(cat)
	*list = append(*list, entry)
	b.log.Debug().Str("category", string(cat)).Str("id", entry.ID).Msg("entry added")
	return entry, b.save()
}

// UpdateEntry overwrites the name and details of the entry id in cat. An
// unknown id is ignored.
func (b *Board) UpdateEntry(cat Category, id, name, details string) error {
	if err := checkCategory(cat); err != nil {
		return err
	}
	name, details, err := cleanEntry(name, details)
	if err != nil {
		return err
	}

	list := *b.state.Items.list(cat)
	for i := range list {
		if list[i].ID == id {
			list[i].Name = name
			list[i].Details = details
			return b.save()
		}
	}
	return nil
}

// PlacedMarker is a marker together with its position in the marker list.
type PlacedMarker struct {
	Index  int
	Marker Marker
}

// Removal records an entry deleted from the catalog and the markers that went
// with it, enough to put both back.
type Removal struct {
	Category Category
	Index    int
	Entry    Entry
	Markers  []PlacedMarker
}

// DeleteEntry removes the entry id from cat along with every marker that
// references it. Confirmation is the caller's job.
func (b *Board) DeleteEntry(cat Category, id string) (Removal, error) {
	if err := checkCategory(cat); err != nil {
		return Removal{}, err
	}

	list := b.state.Items.list(cat)
	idx := -1
	for i, e := range *list {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Removal{}, fmt.Errorf("%w: %s %s", ErrEntryNotFound, cat, id)
	}

	removal := Removal{Category: cat, Index: idx, Entry: (*list)[idx]}
	*list = append((*list)[:idx:idx], (*list)[idx+1:]...)

	kept := b.state.Pieces[:0:0]
	for i, p := range b.state.Pieces {
		if p.Category == cat && p.EntryID == id {
			removal.Markers = append(removal.Markers, PlacedMarker{Index: i, Marker: p})
			continue
		}
		kept = append(kept, p)
	}
	b.state.Pieces = kept

	b.log.Debug().Str("category", string(cat)).Str("id", id).Int("markers", len(removal.Markers)).Msg("entry deleted")
	return removal, b.save()
}

// RestoreEntry undoes a DeleteEntry.
func (b *Board) RestoreEntry(r Removal) error {
	if err := checkCategory(r.Category); err != nil {
		return err
	}
	list := b.state.Items.list(r.Category)
	idx := clampIndex(r.Index, len(*list))
	*list = append((*list)[:idx:idx], append([]Entry{r.Entry}, (*list)[idx:]...)...)

	for _, pm := range r.Markers {
		b.insertMarker(pm)
	}
	return b.save()
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// AddMarker places a marker for entry entryID of cat at (x, y), rounded to
// whole pixels.
func (b *Board) AddMarker(cat Category, entryID string, x, y float64) (Marker, error) {
	if err := checkCategory(cat); err != nil {
		return Marker{}, err
	}
	if _, ok := b.state.Items.Find(cat, entryID); !ok {
		return Marker{}, fmt.Errorf("%w: %s %s", ErrEntryNotFound, cat, entryID)
	}

	m := Marker{
		ID:       b.newID("piece"),
		Category: cat,
		EntryID:  entryID,
		X:        int(math.Round(x)),
		Y:        int(math.Round(y)),
	}
	b.state.Pieces = append(b.state.Pieces, m)
	b.log.Debug().Str("id", m.ID).Int("x", m.X).Int("y", m.Y).Msg("marker placed")
	return m, b.save()
}

func (b *Board) Marker(id string) (Marker, bool) {
	for _, p := range b.state.Pieces {
		if p.ID == id {
			return p, true
		}
	}
	return Marker{}, false
}

// MoveMarker sets the position of marker id.
func (b *Board) MoveMarker(id string, x, y int) error {
	for i := range b.state.Pieces {
		if b.state.Pieces[i].ID == id {
			b.state.Pieces[i].X = x
			b.state.Pieces[i].Y = y
			return b.save()
		}
	}
	return fmt.Errorf("%w: %s", ErrMarkerNotFound, id)
}

// RemoveMarker takes marker id off the map.
func (b *Board) RemoveMarker(id string) (PlacedMarker, error) {
	for i, p := range b.state.Pieces {
		if p.ID == id {
			b.state.Pieces = append(b.state.Pieces[:i:i], b.state.Pieces[i+1:]...)
			return PlacedMarker{Index: i, Marker: p}, b.save()
		}
	}
	return PlacedMarker{}, fmt.Errorf("%w: %s", ErrMarkerNotFound, id)
}

// RestoreMarker puts a removed marker back at its old position in the list.
func (b *Board) RestoreMarker(pm PlacedMarker) error {
	b.insertMarker(pm)
	return b.save()
}

func (b *Board) insertMarker(pm PlacedMarker) {
	idx := clampIndex(pm.Index, len(b.state.Pieces))
	pieces := make([]Marker, 0, len(b.state.Pieces)+1)
	pieces = append(pieces, b.state.Pieces[:idx]...)
	pieces = append(pieces, pm.Marker)
	pieces = append(pieces, b.state.Pieces[idx:]...)
	b.state.Pieces = pieces
}

// SetMapImage replaces the map image. Markers keep their positions.
func (b *Board) SetMapImage(dataURI string) error {
	b.state.MapImage = dataURI
	return b.save()
}

// ClearMapImage drops the map image and its stored record.
func (b *Board) ClearMapImage() error {
	b.state.MapImage = ""
	return b.persist.ClearImage()
}

// ClearAll empties the catalog, the markers and the map image.
func (b *Board) ClearAll() error {
	b.state = NewState()
	return b.persist.Clear()
}
