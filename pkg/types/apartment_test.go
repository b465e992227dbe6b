package types

import "testing"

func validApartment() Apartment {
	return Apartment{
		ID:      NewApartmentID(),
		Name:    "Musterwohnung",
		Address: "Musterstraße 1, 10115 Berlin",
		Size:    75,
		Rooms:   DefaultRooms(),
	}
}

func TestApartmentValidate(t *testing.T) {
	a := validApartment()
	if err := a.Validate(); err != nil {
		t.Fatalf("valid apartment rejected: %v", err)
	}

	a = validApartment()
	a.Size = 0
	if err := a.Validate(); err != ErrInvalidApartment {
		t.Errorf("zero size: expected ErrInvalidApartment, got %v", err)
	}

	a = validApartment()
	a.Rooms = append(a.Rooms, a.Rooms[0])
	if err := a.Validate(); err != ErrDuplicateRoom {
		t.Errorf("duplicate room id: expected ErrDuplicateRoom, got %v", err)
	}
}

func TestDefaultRooms(t *testing.T) {
	rooms := DefaultRooms()
	if len(rooms) == 0 {
		t.Fatal("default room set is empty")
	}
	seen := make(map[string]bool)
	lastOrder := -1
	for _, r := range rooms {
		if seen[r.ID] {
			t.Errorf("duplicate default room id %s", r.ID)
		}
		seen[r.ID] = true
		if r.Order <= lastOrder {
			t.Errorf("room %s order %d not ascending", r.Name, r.Order)
		}
		lastOrder = r.Order
	}
}

func TestApartmentAddRoom(t *testing.T) {
	a := validApartment()
	before := len(a.Rooms)

	room := a.AddRoom("Wintergarten", "🌿")
	if len(a.Rooms) != before+1 {
		t.Fatalf("expected %d rooms, got %d", before+1, len(a.Rooms))
	}
	if room.ID == "" {
		t.Error("new room has no id")
	}

	sorted := a.SortedRooms()
	if sorted[len(sorted)-1].ID != room.ID {
		t.Error("new room should sort last")
	}
	if err := a.Validate(); err != nil {
		t.Errorf("apartment invalid after AddRoom: %v", err)
	}
}

func TestApartmentUpdateRoom(t *testing.T) {
	a := validApartment()
	target := a.Rooms[2]

	if err := a.UpdateRoom(target.ID, "Essküche", "🍽️"); err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}
	if a.Rooms[2].Name != "Essküche" {
		t.Errorf("room name not updated: %q", a.Rooms[2].Name)
	}
	if a.Rooms[2].Order != target.Order {
		t.Error("UpdateRoom must not change ordering")
	}

	if err := a.UpdateRoom("missing", "x", ""); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApartmentRemoveRoom(t *testing.T) {
	a := validApartment()
	target := a.Rooms[0]

	if err := a.RemoveRoom(target.ID); err != nil {
		t.Fatalf("RemoveRoom failed: %v", err)
	}
	for _, r := range a.Rooms {
		if r.ID == target.ID {
			t.Error("room still present after RemoveRoom")
		}
	}

	if err := a.RemoveRoom("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApartmentRemoveLastRoom(t *testing.T) {
	a := validApartment()
	a.Rooms = a.Rooms[:1]

	if err := a.RemoveRoom(a.Rooms[0].ID); err != ErrLastRoom {
		t.Errorf("expected ErrLastRoom, got %v", err)
	}
	if len(a.Rooms) != 1 {
		t.Error("last room must survive")
	}
}

func TestApartmentResetRooms(t *testing.T) {
	a := validApartment()
	a.Rooms = a.Rooms[:2]
	a.ResetRooms()
	if len(a.Rooms) != len(DefaultRooms()) {
		t.Errorf("expected default room count, got %d", len(a.Rooms))
	}
}

func TestSortedRoomsStable(t *testing.T) {
	a := Apartment{ID: "a", Name: "n", Size: 1}
	a.Rooms = []Room{
		{ID: "r3", Name: "C", Order: 30},
		{ID: "r1", Name: "A", Order: 10},
		{ID: "r2", Name: "B", Order: 10},
	}
	sorted := a.SortedRooms()
	if sorted[0].ID != "r1" || sorted[1].ID != "r2" || sorted[2].ID != "r3" {
		t.Errorf("unexpected order: %v", sorted)
	}
	if a.Rooms[0].ID != "r3" {
		t.Error("SortedRooms must not mutate the receiver")
	}
}
