package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// userID returns a stable identifier for rate-limit and cache keys.
// JWTAuth stores the sub claim under "user_id"; unauthenticated
// requests key as "guest".
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "guest"
	case string:
		if v == "" {
			return "guest"
		}
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	default:
		return "guest"
	}
}
