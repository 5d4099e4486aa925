package domain

import (
	"time"

	"github.com/google/uuid"
)

// Collection is one named, optionally geolocated list of organism names
// decoded from a structured list page.
type Collection struct {
	Title     string   `json:"title"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Names     []string `json:"names"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (c Collection) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// StoredCollection is a persisted snapshot of a collection for one owner.
type StoredCollection struct {
	ID        uuid.UUID
	Owner     string
	Position  int
	CreatedAt time.Time

	Collection
}
