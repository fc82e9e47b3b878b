package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/cohubhq/space-booking/internal/model"
)

// HubRepo provides persistence for hubs.  The list-valued attributes
// (images, spaces, tags, amenities) live in JSON columns and are
// marshalled on the way in and out.  Hubs are written only by the partner
// workflow; the booking flow reads them to resolve spaces.
type HubRepo struct {
	db *sql.DB
}

// NewHubRepo constructs a HubRepo with the given DB handle.
func NewHubRepo(db *sql.DB) *HubRepo { return &HubRepo{db: db} }

const hubColumns = `id, name, lat, lng, address, images, spaces, tags, amenities, created_at, updated_at`

func scanHub(row interface {
	Scan(dest ...interface{}) error
}) (*model.Hub, error) {
	var (
		h                              model.Hub
		images, spaces, tags, amenity []byte
	)
	err := row.Scan(&h.ID, &h.Name, &h.Lat, &h.Lng, &h.Address,
		&images, &spaces, &tags, &amenity, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &h.Images); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(spaces, &h.Spaces); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &h.Tags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(amenity, &h.Amenities); err != nil {
		return nil, err
	}
	return &h, nil
}

// Create inserts a new hub and populates the generated ID and timestamps
// on h.  Empty slices are stored as JSON arrays, never NULL.
func (r *HubRepo) Create(ctx context.Context, h *model.Hub) error {
	images, err := json.Marshal(orEmpty(h.Images))
	if err != nil {
		return err
	}
	spaceList := h.Spaces
	if spaceList == nil {
		spaceList = []model.Space{}
	}
	spaces, err := json.Marshal(spaceList)
	if err != nil {
		return err
	}
	tags, err := json.Marshal(orEmpty(h.Tags))
	if err != nil {
		return err
	}
	amenities, err := json.Marshal(orEmpty(h.Amenities))
	if err != nil {
		return err
	}
	const q = `INSERT INTO hubs (name, lat, lng, address, images, spaces, tags, amenities)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Lat, h.Lng, h.Address, images, spaces, tags, amenities)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	stored, err := scanHub(r.db.QueryRowContext(ctx,
		`SELECT `+hubColumns+` FROM hubs WHERE id = ?`, h.ID))
	if err != nil {
		return err
	}
	*h = *stored
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// GetByID fetches a hub by its ID.  Returns ErrHubNotFound when no row
// exists.
func (r *HubRepo) GetByID(ctx context.Context, id uint64) (*model.Hub, error) {
	h, err := scanHub(r.db.QueryRowContext(ctx,
		`SELECT `+hubColumns+` FROM hubs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHubNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ListAll returns every hub ordered by name.
func (r *HubRepo) ListAll(ctx context.Context) ([]model.Hub, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+hubColumns+` FROM hubs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hub, 0)
	for rows.Next() {
		h, err := scanHub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// Search filters hubs by address substring and/or tags.  The location
// match is case-insensitive; a hub matches the tag filter when it carries
// at least one of the requested tags.  JSON columns make tag filtering a
// post-fetch step, which is fine at catalogue scale.
func (r *HubRepo) Search(ctx context.Context, location string, tags []string) ([]model.Hub, error) {
	hubs, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	loc := strings.ToLower(strings.TrimSpace(location))
	out := make([]model.Hub, 0, len(hubs))
	for _, h := range hubs {
		if loc != "" && !strings.Contains(strings.ToLower(h.Address), loc) {
			continue
		}
		if len(tags) > 0 {
			matched := false
			for _, t := range tags {
				if h.HasTag(t) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, h)
	}
	return out, nil
}
