package room

import "huddle/models"

// Catalog is the static set of bookable rooms. It is read-only after
// construction, so it is safe for concurrent use.
type Catalog struct {
	rooms []models.Room
	byID  map[string]models.Room
}

// NewCatalog builds a catalog from the given rooms.
func NewCatalog(rooms []models.Room) *Catalog {
	byID := make(map[string]models.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	return &Catalog{rooms: rooms, byID: byID}
}

// NewDefaultCatalog returns the built-in campus room catalog.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(defaultRooms)
}

// Get looks a room up by id.
func (c *Catalog) Get(id string) (models.Room, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// All returns every room in the catalog.
func (c *Catalog) All() []models.Room {
	out := make([]models.Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

// WithCapacity returns the rooms holding at least n people.
func (c *Catalog) WithCapacity(n int) []models.Room {
	var out []models.Room
	for _, r := range c.rooms {
		if r.Capacity >= n {
			out = append(out, r)
		}
	}
	return out
}

// Study rooms around the Georgia Tech campus.
var defaultRooms = []models.Room{
	{ID: "room-lib-1", Building: "GT Library", Name: "Study Room 101A", Capacity: 4, Location: models.Location{Lat: 33.7745, Lng: -84.3963}},
	{ID: "room-lib-2", Building: "GT Library", Name: "Group Area 205C", Capacity: 8, Location: models.Location{Lat: 33.7745, Lng: -84.3963}},
	{ID: "room-kacb-1", Building: "Klaus Advanced Computing", Name: "Project Room 2444", Capacity: 6, Location: models.Location{Lat: 33.7773, Lng: -84.3973}},
	{ID: "room-kacb-2", Building: "Klaus Advanced Computing", Name: "Huddle Space 1122", Capacity: 3, Location: models.Location{Lat: 33.7773, Lng: -84.3973}},
	{ID: "room-coda-1", Building: "CODA", Name: "Collaboration Pod 7B", Capacity: 10, Location: models.Location{Lat: 33.7766, Lng: -84.3908}},
	{ID: "room-coda-2", Building: "CODA", Name: "Think Tank 12A", Capacity: 5, Location: models.Location{Lat: 33.7766, Lng: -84.3908}},
	{ID: "room-ic-1", Building: "Instructional Center", Name: "Tutoring Room 105", Capacity: 4, Location: models.Location{Lat: 33.7788, Lng: -84.3989}},
	{ID: "room-ic-2", Building: "Instructional Center", Name: "Presentation Room 211", Capacity: 12, Location: models.Location{Lat: 33.7788, Lng: -84.3989}},
}
