package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// MsgInvalidInput is returned when a top-level body value is an object or null.
const MsgInvalidInput = "Invalid input data"

// BodyShape rejects JSON object bodies whose top-level values are not a
// string, number, boolean or array. It runs before routing so every route
// sees the same rule. The body is restored for the handler.
func BodyShape() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			raw, err := io.ReadAll(req.Body)
			_ = req.Body.Close()
			if err != nil {
				return err
			}
			req.Body = io.NopCloser(bytes.NewReader(raw))

			trimmed := bytes.TrimSpace(raw)
			if len(trimmed) == 0 || trimmed[0] != '{' {
				return next(c)
			}

			var fields map[string]json.RawMessage
			if err := json.Unmarshal(trimmed, &fields); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
			}
			for _, v := range fields {
				if !scalarOrArray(v) {
					return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
				}
			}

			return next(c)
		}
	}
}

func scalarOrArray(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case '{', 'n':
		return false
	}
	return true
}
