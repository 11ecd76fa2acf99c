package board

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewmap/internal/store"
)

// failingStore accepts reads and rejects every write, like a full browser
// storage quota.
type failingStore struct {
	store.Store
}

func (failingStore) Set(key, value string) error {
	return fmt.Errorf("set %s: %w", key, store.ErrQuotaExceeded)
}

func memStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sequentialIDs() IDFunc {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

func newTestBoard(t *testing.T) (*Board, store.Store) {
	t.Helper()
	s := memStore(t)
	return Open(s, WithIDFunc(sequentialIDs())), s
}

func TestOpenEmpty(t *testing.T) {
	b, _ := newTestBoard(t)

	state := b.State()
	for _, cat := range Categories {
		assert.Empty(t, state.Items.Entries(cat), cat)
		assert.NotNil(t, state.Items.Entries(cat), cat)
	}
	assert.Empty(t, state.Pieces)
	assert.Empty(t, state.MapImage)
	assert.Equal(t, map[Category]int{Crew: 0, Truck: 0, Equipment: 0}, state.Counts())
}

func TestAddEntry(t *testing.T) {
	b, _ := newTestBoard(t)

	entry, err := b.AddEntry(Truck, "  Engine 5 ", " 4 seats ")
	require.NoError(t, err)
	assert.Equal(t, "Engine 5", entry.Name)
	assert.Equal(t, "4 seats", entry.Details)

	trucks := b.State().Items.Entries(Truck)
	require.Len(t, trucks, 1)
	got, ok := b.State().Items.Find(Truck, entry.ID)
	require.True(t, ok)
	assert.Equal(t, entry, got)
	assert.Equal(t, 0, b.State().Counts()[Truck])
}

func TestAddEntryGrowsByOne(t *testing.T) {
	b, _ := newTestBoard(t)

	for _, cat := range Categories {
		for i := 0; i < 3; i++ {
			before := len(b.State().Items.Entries(cat))
			e, err := b.AddEntry(cat, fmt.Sprintf("%s %d", cat, i), "")
			require.NoError(t, err)
			assert.Len(t, b.State().Items.Entries(cat), before+1)
			_, ok := b.State().Items.Find(cat, e.ID)
			assert.True(t, ok)
		}
	}
}

func TestAddEntryKeepsInsertionOrder(t *testing.T) {
	b, _ := newTestBoard(t)

	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		_, err := b.AddEntry(Crew, name, "")
		require.NoError(t, err)
	}

	var names []string
	for _, e := range b.State().Items.Entries(Crew) {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, names)
}

func TestAddEntryRequiresName(t *testing.T) {
	b, _ := newTestBoard(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := b.AddEntry(Crew, name, "details")
		assert.ErrorIs(t, err, ErrNameRequired)
	}
	assert.Empty(t, b.State().Items.Crew)
}

func TestAddEntryUnknownCategory(t *testing.T) {
	b, _ := newTestBoard(t)

	_, err := b.AddEntry(Category("helicopter"), "Air 1", "")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestEntryIDsAreUnique(t *testing.T) {
	b := Open(memStore(t))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		e, err := b.AddEntry(Equipment, "Hose", "")
		require.NoError(t, err)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		assert.Regexp(t, `^item_[0-9a-f-]{36}$`, e.ID)
		seen[e.ID] = true
	}
}

func TestUpdateEntry(t *testing.T) {
	b, _ := newTestBoard(t)
	e, err := b.AddEntry(Crew, "Alpha", "")
	require.NoError(t, err)

	require.NoError(t, b.UpdateEntry(Crew, e.ID, " Alpha Team ", "night shift"))
	got, _ := b.State().Items.Find(Crew, e.ID)
	assert.Equal(t, Entry{ID: e.ID, Name: "Alpha Team", Details: "night shift"}, got)

	assert.ErrorIs(t, b.UpdateEntry(Crew, e.ID, " ", ""), ErrNameRequired)
	got, _ = b.State().Items.Find(Crew, e.ID)
	assert.Equal(t, "Alpha Team", got.Name)
}

func TestUpdateEntryUnknownIDIsNoop(t *testing.T) {
	b, _ := newTestBoard(t)
	_, err := b.AddEntry(Crew, "Alpha", "")
	require.NoError(t, err)
	before := b.Data()

	assert.NoError(t, b.UpdateEntry(Crew, "item_missing", "Bravo", ""))
	assert.Equal(t, before, b.Data())
}

func TestDeleteEntryCascadesMarkers(t *testing.T) {
	b, _ := newTestBoard(t)
	engine, err := b.AddEntry(Truck, "Engine 5", "")
	require.NoError(t, err)
	alpha, err := b.AddEntry(Crew, "Alpha", "")
	require.NoError(t, err)

	_, err = b.AddMarker(Truck, engine.ID, 10, 10)
	require.NoError(t, err)
	_, err = b.AddMarker(Truck, engine.ID, 40, 40)
	require.NoError(t, err)
	crewMarker, err := b.AddMarker(Crew, alpha.ID, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, b.State().Counts()[Truck])

	removal, err := b.DeleteEntry(Truck, engine.ID)
	require.NoError(t, err)
	assert.Len(t, removal.Markers, 2)

	assert.Empty(t, b.State().Items.Truck)
	assert.Equal(t, 0, b.State().Counts()[Truck])
	assert.Equal(t, []Marker{crewMarker}, b.State().Pieces)
}

func TestDeleteEntryOnlyMatchesItsCategory(t *testing.T) {
	b := Open(memStore(t), WithIDFunc(func(prefix string) string { return prefix + "_same" }))

	crew, err := b.AddEntry(Crew, "Alpha", "")
	require.NoError(t, err)
	truck, err := b.AddEntry(Truck, "Engine", "")
	require.NoError(t, err)
	require.Equal(t, crew.ID, truck.ID, "entry ids are only unique within a category")

	_, err = b.AddMarker(Truck, truck.ID, 1, 1)
	require.NoError(t, err)

	_, err = b.DeleteEntry(Crew, crew.ID)
	require.NoError(t, err)
	assert.Len(t, b.State().Pieces, 1)
	assert.Len(t, b.State().Items.Truck, 1)
}

func TestDeleteEntryMissing(t *testing.T) {
	b, _ := newTestBoard(t)
	_, err := b.DeleteEntry(Crew, "nope")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRestoreEntryUndoesDelete(t *testing.T) {
	b, _ := newTestBoard(t)
	a, _ := b.AddEntry(Crew, "Alpha", "")
	bravo, _ := b.AddEntry(Crew, "Bravo", "")
	_, _ = b.AddEntry(Crew, "Charlie", "")
	_, err := b.AddMarker(Crew, a.ID, 1, 1)
	require.NoError(t, err)
	_, err = b.AddMarker(Crew, bravo.ID, 2, 2)
	require.NoError(t, err)
	_, err = b.AddMarker(Crew, a.ID, 3, 3)
	require.NoError(t, err)
	before := b.Data()

	removal, err := b.DeleteEntry(Crew, bravo.ID)
	require.NoError(t, err)
	require.NoError(t, b.RestoreEntry(removal))

	assert.Equal(t, before, b.Data())
}

func TestAddMarkerRoundsAndChecksEntry(t *testing.T) {
	b, _ := newTestBoard(t)
	e, err := b.AddEntry(Equipment, "Pump", "")
	require.NoError(t, err)

	m, err := b.AddMarker(Equipment, e.ID, 10.4, 19.6)
	require.NoError(t, err)
	assert.Equal(t, 10, m.X)
	assert.Equal(t, 20, m.Y)
	assert.Equal(t, Equipment, m.Category)
	assert.Equal(t, e.ID, m.EntryID)

	_, err = b.AddMarker(Crew, e.ID, 0, 0)
	assert.ErrorIs(t, err, ErrEntryNotFound, "marker category must match its entry")
	assert.Len(t, b.State().Pieces, 1)
}

func TestMoveAndRemoveMarker(t *testing.T) {
	b, _ := newTestBoard(t)
	e, _ := b.AddEntry(Crew, "Alpha", "")
	m1, _ := b.AddMarker(Crew, e.ID, 0, 0)
	m2, _ := b.AddMarker(Crew, e.ID, 5, 5)

	require.NoError(t, b.MoveMarker(m1.ID, 100, 200))
	got, ok := b.Marker(m1.ID)
	require.True(t, ok)
	assert.Equal(t, 100, got.X)
	assert.Equal(t, 200, got.Y)

	assert.ErrorIs(t, b.MoveMarker("piece_missing", 1, 1), ErrMarkerNotFound)

	pm, err := b.RemoveMarker(m1.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pm.Index)
	assert.Equal(t, []Marker{m2}, b.State().Pieces)

	require.NoError(t, b.RestoreMarker(pm))
	assert.Equal(t, m1.ID, b.State().Pieces[0].ID)

	_, err = b.RemoveMarker("piece_missing")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestMapImageDoesNotTouchMarkers(t *testing.T) {
	b, s := newTestBoard(t)
	e, _ := b.AddEntry(Crew, "Alpha", "")
	_, _ = b.AddMarker(Crew, e.ID, 3, 4)

	require.NoError(t, b.SetMapImage("data:image/png;base64,AAAA"))
	stored, err := s.Get(ImageKey)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", stored)

	require.NoError(t, b.ClearMapImage())
	assert.Empty(t, b.State().MapImage)
	assert.Len(t, b.State().Pieces, 1)
	_, err = s.Get(ImageKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClearAll(t *testing.T) {
	b, s := newTestBoard(t)
	e, _ := b.AddEntry(Crew, "Alpha", "")
	_, _ = b.AddMarker(Crew, e.ID, 3, 4)
	require.NoError(t, b.SetMapImage("data:image/png;base64,AAAA"))

	require.NoError(t, b.ClearAll())
	assert.Equal(t, NewState(), b.State())

	for _, key := range []string{DataKey, ImageKey} {
		_, err := s.Get(key)
		assert.ErrorIs(t, err, store.ErrNotFound, key)
	}
}

func TestDataIsADeepCopy(t *testing.T) {
	b, _ := newTestBoard(t)
	e, _ := b.AddEntry(Crew, "Alpha", "")
	_, _ = b.AddMarker(Crew, e.ID, 3, 4)

	data := b.Data()
	data.Items.Crew[0].Name = "Changed"
	data.Pieces[0].X = 99

	assert.Equal(t, "Alpha", b.State().Items.Crew[0].Name)
	assert.Equal(t, 3, b.State().Pieces[0].X)
}

func TestSetDataReplacesPresentFields(t *testing.T) {
	b, s := newTestBoard(t)
	_, _ = b.AddEntry(Crew, "Alpha", "")
	require.NoError(t, b.SetMapImage("data:image/png;base64,AAAA"))

	items := Catalog{Truck: []Entry{{ID: "t1", Name: "Ladder 2"}}}
	require.NoError(t, b.SetData(Snapshot{Items: &items}))

	assert.Empty(t, b.State().Items.Crew)
	assert.Len(t, b.State().Items.Truck, 1)
	assert.Equal(t, "data:image/png;base64,AAAA", b.State().MapImage, "absent image keeps the current one")

	require.NoError(t, b.SetData(Snapshot{Pieces: []Marker{{ID: "p1", Category: Truck, EntryID: "t1", X: 1, Y: 2}}}))
	assert.Len(t, b.State().Pieces, 1)
	assert.Len(t, b.State().Items.Truck, 1)

	reopened := Open(s)
	assert.Equal(t, b.Data(), reopened.Data())
}

func TestSetDataRejectsUnknownMarkerCategory(t *testing.T) {
	b, s := newTestBoard(t)
	_, _ = b.AddEntry(Crew, "Alpha", "")
	before := b.Data()

	items := Catalog{Truck: []Entry{{ID: "t1", Name: "Ladder 2"}}}
	err := b.SetData(Snapshot{
		Items:  &items,
		Pieces: []Marker{{ID: "p1", Category: Category("boat"), EntryID: "t1"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	assert.Equal(t, before, b.Data())
	assert.Equal(t, before, Open(s).Data())
}

func TestMutationsSurviveStorageFailure(t *testing.T) {
	b := Open(failingStore{memStore(t)}, WithIDFunc(sequentialIDs()))

	e, err := b.AddEntry(Crew, "Alpha", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.True(t, errors.Is(err, store.ErrQuotaExceeded))

	// the in-memory state is not rolled back
	_, ok := b.State().Items.Find(Crew, e.ID)
	assert.True(t, ok)

	_, err = b.AddMarker(Crew, e.ID, 1, 1)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Len(t, b.State().Pieces, 1)
}
