package types

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Room is one room definition within an apartment. Rooms exist only to
// drive entry forms and display ordering; deleting a room never touches
// entries that name it.
type Room struct {
	ID    string `json:"id"`             // Stable id, unique within the apartment.
	Name  string `json:"name"`           // Display name.
	Icon  string `json:"icon,omitempty"` // Optional icon glyph.
	Order int    `json:"order"`          // Display ordering under a stable sort; gaps allowed.
}

// Apartment is a documented dwelling. The id is caller-assigned and
// time-derived (UUID v7) so it stays stable across export/import.
type Apartment struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Size      float64 `json:"size"` // Floor area in m², > 0.
	Rooms     []Room  `json:"rooms"`
	CreatedAt int64   `json:"createdAt"` // Epoch milliseconds.
}

// NewApartmentID returns a fresh time-ordered apartment id.
func NewApartmentID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// DefaultRooms returns the standard German room set assigned to new
// apartments and used by ResetRooms. Order values leave gaps so rooms
// can be inserted between defaults without renumbering.
func DefaultRooms() []Room {
	names := []struct {
		name string
		icon string
	}{
		{"Wohnzimmer", "🛋️"},
		{"Schlafzimmer", "🛏️"},
		{"Küche", "🍳"},
		{"Bad", "🚿"},
		{"Flur", "🚪"},
		{"Arbeitszimmer", "💼"},
		{"Kinderzimmer", "🧸"},
		{"Keller", "🏚️"},
		{"Dachboden", "🏠"},
		{"Sonstiges", "📦"},
	}
	rooms := make([]Room, len(names))
	for i, n := range names {
		rooms[i] = Room{
			ID:    uuid.Must(uuid.NewV7()).String(),
			Name:  n.name,
			Icon:  n.icon,
			Order: (i + 1) * 10,
		}
	}
	return rooms
}

// Validate checks the apartment invariants enforced at the store
// boundary: non-empty name, positive floor area, and room ids unique
// within the apartment.
func (a *Apartment) Validate() error {
	if a.ID == "" || a.Name == "" {
		return ErrInvalidApartment
	}
	if a.Size <= 0 {
		return ErrInvalidApartment
	}
	seen := make(map[string]bool, len(a.Rooms))
	for _, r := range a.Rooms {
		if r.ID == "" || r.Name == "" {
			return ErrInvalidRoom
		}
		if seen[r.ID] {
			return ErrDuplicateRoom
		}
		seen[r.ID] = true
	}
	return nil
}

// SortedRooms returns the rooms ordered by their Order value under a
// stable sort. The receiver's slice is not modified.
func (a *Apartment) SortedRooms() []Room {
	rooms := make([]Room, len(a.Rooms))
	copy(rooms, a.Rooms)
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].Order < rooms[j].Order
	})
	return rooms
}

// AddRoom appends a room with a fresh id and the next free order slot.
// Returns the new room.
func (a *Apartment) AddRoom(name, icon string) Room {
	maxOrder := 0
	for _, r := range a.Rooms {
		if r.Order > maxOrder {
			maxOrder = r.Order
		}
	}
	room := Room{
		ID:    uuid.Must(uuid.NewV7()).String(),
		Name:  name,
		Icon:  icon,
		Order: maxOrder + 10,
	}
	a.Rooms = append(a.Rooms, room)
	return room
}

// UpdateRoom replaces the named fields of the room with the given id.
// Returns ErrNotFound if no room has that id.
func (a *Apartment) UpdateRoom(id, name, icon string) error {
	for i := range a.Rooms {
		if a.Rooms[i].ID == id {
			a.Rooms[i].Name = name
			a.Rooms[i].Icon = icon
			return nil
		}
	}
	return ErrNotFound
}

// RemoveRoom deletes the room with the given id. The last remaining
// room cannot be removed. Returns ErrNotFound if no room has that id.
func (a *Apartment) RemoveRoom(id string) error {
	if len(a.Rooms) == 1 && a.Rooms[0].ID == id {
		return ErrLastRoom
	}
	for i := range a.Rooms {
		if a.Rooms[i].ID == id {
			a.Rooms = append(a.Rooms[:i], a.Rooms[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ResetRooms replaces the room list with the default set.
func (a *Apartment) ResetRooms() {
	a.Rooms = DefaultRooms()
}

// NowMillis returns the current wall-clock time in epoch milliseconds,
// the timestamp unit used throughout the store.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
