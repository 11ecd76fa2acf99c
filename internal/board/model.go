package board

// Entry is a cataloged crew member, truck, or piece of equipment.
type Entry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`
}

// Marker places an entry on the map at board-local pixel coordinates.
type Marker struct {
	ID       string   `json:"id"`
	Category Category `json:"type"`
	EntryID  string   `json:"itemId"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
}

// Catalog holds the entries of each category in display order.
type Catalog struct {
	Crew      []Entry `json:"crew"`
	Truck     []Entry `json:"truck"`
	Equipment []Entry `json:"equipment"`
}

func (c *Catalog) list(cat Category) *[]Entry {
	switch cat {
	case Crew:
		return &c.Crew
	case Truck:
		return &c.Truck
	case Equipment:
		return &c.Equipment
	}
	return nil
}

// Entries returns the entries of cat. The slice is shared with the catalog.
func (c *Catalog) Entries(cat Category) []Entry {
	if l := c.list(cat); l != nil {
		return *l
	}
	return nil
}

// Find returns the entry with id in cat.
func (c *Catalog) Find(cat Category, id string) (Entry, bool) {
	for _, e := range c.Entries(cat) {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (c *Catalog) normalize() {
	for _, cat := range Categories {
		if l := c.list(cat); *l == nil {
			*l = []Entry{}
		}
	}
}

func (c Catalog) clone() Catalog {
	var out Catalog
	for _, cat := range Categories {
		src := c.Entries(cat)
		dst := make([]Entry, len(src))
		copy(dst, src)
		*out.list(cat) = dst
	}
	return out
}

// State is everything a board persists and exports.
type State struct {
	Items    Catalog  `json:"items"`
	Pieces   []Marker `json:"pieces"`
	MapImage string   `json:"mapImage,omitempty"`
}

func NewState() *State {
	s := &State{Pieces: []Marker{}}
	s.Items.normalize()
	return s
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	pieces := make([]Marker, len(s.Pieces))
	copy(pieces, s.Pieces)
	return &State{
		Items:    s.Items.clone(),
		Pieces:   pieces,
		MapImage: s.MapImage,
	}
}

// Entry resolves the entry a marker refers to.
func (s *State) Entry(m Marker) (Entry, bool) {
	return s.Items.Find(m.Category, m.EntryID)
}

// Counts returns the number of markers per category.
func (s *State) Counts() map[Category]int {
	counts := map[Category]int{Crew: 0, Truck: 0, Equipment: 0}
	for _, p := range s.Pieces {
		counts[p.Category]++
	}
	return counts
}

// Snapshot is a partial state as exchanged with other programs. Nil fields
// are absent and leave the corresponding part of the board alone.
type Snapshot struct {
	Items    *Catalog `json:"items,omitempty"`
	Pieces   []Marker `json:"pieces"`
	MapImage string   `json:"mapImage,omitempty"`
}
