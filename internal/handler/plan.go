package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cohubhq/space-booking/internal/repository"
)

// PlanHandler lists subscription tiers.
type PlanHandler struct {
	Plans *repository.PlanRepo
}

func NewPlanHandler(plans *repository.PlanRepo) *PlanHandler {
	if plans == nil {
		panic("nil repository passed to NewPlanHandler")
	}
	return &PlanHandler{Plans: plans}
}

// List handles GET /v1/plans.
func (h *PlanHandler) List(c echo.Context) error {
	plans, err := h.Plans.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load plans"})
	}
	type limitsPart struct {
		MonthlyBookings int    `json:"monthly_bookings"`
		EventAccess     bool   `json:"event_access"`
		Priority        string `json:"priority"`
	}
	type planResp struct {
		ID                uint64     `json:"id"`
		Name              string     `json:"name"`
		PriceMonthlyCents uint32     `json:"price_monthly_cents"`
		PriceYearlyCents  uint32     `json:"price_yearly_cents"`
		Benefits          []string   `json:"benefits"`
		Limits            limitsPart `json:"limits"`
		IsPopular         bool       `json:"is_popular"`
	}
	out := make([]planResp, 0, len(plans))
	for _, p := range plans {
		out = append(out, planResp{
			ID:                p.ID,
			Name:              p.Name,
			PriceMonthlyCents: p.PriceMonthlyCents,
			PriceYearlyCents:  p.PriceYearlyCents,
			Benefits:          p.Benefits,
			Limits: limitsPart{
				MonthlyBookings: p.MonthlyBookings,
				EventAccess:     p.EventAccess,
				Priority:        p.Priority,
			},
			IsPopular: p.IsPopular,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
