package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Index handles GET / with a plain-text banner.
func Index(c echo.Context) error {
	return c.String(http.StatusOK, "Recipe Management API")
}
