package model

import "time"

// Hub represents a physical co-working location offering one or more
// bookable spaces.  Hubs are created through the partner workflow and are
// read-only to the booking flow.  List-valued fields (images, spaces,
// tags, amenities) are stored as JSON columns in the `hubs` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the hub.
//  Lat, Lng  – geocoordinate of the hub.
//  Address   – street address, also searched by location queries.
//  Images    – ordered image references.
//  Spaces    – the bookable spaces offered at this hub.
//  Tags      – descriptive tags (e.g. "quiet", "rooftop").
//  Amenities – amenity tags (e.g. "wifi", "coffee").
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Hub struct {
	ID        uint64    // hubs.id
	Name      string    // hubs.name
	Lat       float64   // hubs.lat
	Lng       float64   // hubs.lng
	Address   string    // hubs.address
	Images    []string  // hubs.images (JSON)
	Spaces    []Space   // hubs.spaces (JSON)
	Tags      []string  // hubs.tags (JSON)
	Amenities []string  // hubs.amenities (JSON)
	CreatedAt time.Time // hubs.created_at
	UpdatedAt time.Time // hubs.updated_at
}

// Space is a bookable unit inside a hub: a desk, a meeting room or a
// private office.  Spaces are sub-records of a hub, not standalone rows;
// the ID is unique within its hub only.
type Space struct {
	ID       string `json:"id"`       // space id, unique per hub
	Type     string `json:"type"`     // desk | room | office
	Capacity int    `json:"capacity"` // seats, must be > 0
}

// SpaceByID returns the space with the given id, if the hub offers one.
func (h *Hub) SpaceByID(id string) (Space, bool) {
	for _, s := range h.Spaces {
		if s.ID == id {
			return s, true
		}
	}
	return Space{}, false
}

// HasTag reports whether the hub carries the given descriptive tag.
func (h *Hub) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
