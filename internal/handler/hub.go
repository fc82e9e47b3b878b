package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cohubhq/space-booking/internal/model"
	"github.com/cohubhq/space-booking/internal/repository"
)

// HubHandler exposes the hub catalogue: public listing, lookup and
// search, plus creation for partners.
type HubHandler struct {
	Hubs *repository.HubRepo
}

// NewHubHandler constructs a HubHandler.
func NewHubHandler(hubs *repository.HubRepo) *HubHandler {
	if hubs == nil {
		panic("nil repository passed to NewHubHandler")
	}
	return &HubHandler{Hubs: hubs}
}

type hubResp struct {
	ID        uint64        `json:"id"`
	Name      string        `json:"name"`
	Coords    coordsPart    `json:"coords"`
	Address   string        `json:"address"`
	Images    []string      `json:"images"`
	Spaces    []model.Space `json:"spaces"`
	Tags      []string      `json:"tags"`
	Amenities []string      `json:"amenities"`
}

type coordsPart struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type createHubReq struct {
	Name      string        `json:"name"`
	Coords    coordsPart    `json:"coords"`
	Address   string        `json:"address"`
	Images    []string      `json:"images"`
	Spaces    []model.Space `json:"spaces"`
	Tags      []string      `json:"tags"`
	Amenities []string      `json:"amenities"`
}

func toHubResp(h *model.Hub) hubResp {
	return hubResp{
		ID:        h.ID,
		Name:      h.Name,
		Coords:    coordsPart{Lat: h.Lat, Lng: h.Lng},
		Address:   h.Address,
		Images:    h.Images,
		Spaces:    h.Spaces,
		Tags:      h.Tags,
		Amenities: h.Amenities,
	}
}

// List handles GET /v1/hubs.
func (h *HubHandler) List(c echo.Context) error {
	hubs, err := h.Hubs.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hubs"})
	}
	out := make([]hubResp, 0, len(hubs))
	for i := range hubs {
		out = append(out, toHubResp(&hubs[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/hubs/:id.
func (h *HubHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hub id"})
	}
	hub, err := h.Hubs.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hub not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hub"})
	}
	return c.JSON(http.StatusOK, toHubResp(hub))
}

// Search handles GET /v1/search/hubs?location=...&tags=a,b.  Location
// matches the address substring; a hub matches when it carries any of
// the requested tags.
func (h *HubHandler) Search(c echo.Context) error {
	location := c.QueryParam("location")
	var tags []string
	if raw := c.QueryParam("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	hubs, err := h.Hubs.Search(c.Request().Context(), location, tags)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to search hubs"})
	}
	out := make([]hubResp, 0, len(hubs))
	for i := range hubs {
		out = append(out, toHubResp(&hubs[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Create handles POST /v1/hubs for partners and admins.  Every space
// needs a unique id within the hub and a positive capacity.
func (h *HubHandler) Create(c echo.Context) error {
	var req createHubReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Address) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}
	seen := make(map[string]struct{}, len(req.Spaces))
	for _, sp := range req.Spaces {
		if sp.ID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "space id is required"})
		}
		if sp.Capacity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "space capacity must be positive"})
		}
		if _, dup := seen[sp.ID]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate space id: " + sp.ID})
		}
		seen[sp.ID] = struct{}{}
	}

	hub := &model.Hub{
		Name:      req.Name,
		Lat:       req.Coords.Lat,
		Lng:       req.Coords.Lng,
		Address:   req.Address,
		Images:    req.Images,
		Spaces:    req.Spaces,
		Tags:      req.Tags,
		Amenities: req.Amenities,
	}
	if err := h.Hubs.Create(c.Request().Context(), hub); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hub"})
	}
	return c.JSON(http.StatusCreated, toHubResp(hub))
}
