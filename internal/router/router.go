// Package router wires handlers to their HTTP routes and applies auth
// middleware per group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cohubhq/space-booking/internal/handler"
	"github.com/cohubhq/space-booking/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// handler state.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints.  Register, login,
// refresh and logout live under /v1/auth and need no access token;
// /v1/me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes the refresh token in the body, so it works without
	// a live access token.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("USER", "PARTNER", "ADMIN"))
	auth.GET("/me", a.Me)
	auth.PATCH("/me", a.UpdateMe)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterPublic registers guest-browsable catalogue endpoints: hubs,
// slot availability, events and plans.
func RegisterPublic(e *echo.Echo, h *handler.HubHandler, b *handler.BookingHandler, ev *handler.EventHandler, p *handler.PlanHandler) {
	e.GET("/v1/hubs", h.List)
	e.GET("/v1/hubs/:id", h.Get)
	e.GET("/v1/search/hubs", h.Search)
	// Availability is public so guests can browse a hub's day grid
	// before signing up.
	e.GET("/v1/hubs/:id/spaces/:spaceId/slots", b.AvailableSlots)

	e.GET("/v1/events", ev.List)
	e.GET("/v1/events/:id", ev.Get)

	e.GET("/v1/plans", p.List)
}

// RegisterBooking registers the authenticated booking and member
// endpoints.  Any signed-in role may book.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, ev *handler.EventHandler, pay *handler.PaymentHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("USER", "PARTNER", "ADMIN"))

	g.POST("/bookings", b.Create)
	g.GET("/my-bookings", b.ListMine)
	g.GET("/bookings/:id", b.Get)
	g.PATCH("/bookings/:id/status", b.UpdateStatus)
	g.DELETE("/bookings/:id", b.Cancel)

	g.POST("/events/:id/rsvp", ev.RSVP)
	g.DELETE("/events/:id/rsvp", ev.CancelRSVP)

	g.POST("/payments", pay.Create)
	g.PATCH("/payments/:id", pay.UpdateStatus)
	g.GET("/my-payments", pay.ListMine)
}

// RegisterPartner registers catalogue management endpoints for
// partners and admins.
func RegisterPartner(e *echo.Echo, h *handler.HubHandler, ev *handler.EventHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("PARTNER", "ADMIN"))

	g.POST("/hubs", h.Create)
	g.POST("/events", ev.Create)
}
