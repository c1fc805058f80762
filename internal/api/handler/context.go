package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/recipehub/recipe-api/internal/api/middleware"
)

// actor returns the token subject injected by the Auth middleware, or "" on
// routes that run without authentication.
func actor(c echo.Context) string {
	id, _ := c.Get(middleware.ContextUserID).(string)
	return id
}
