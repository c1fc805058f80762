package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyShape(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{"scalars and arrays", `{"title":"Soup","ingredients":["a","b"],"preparationTime":10,"vegan":true}`, http.StatusOK, ""},
		{"nested object", `{"title":{"$gt":""}}`, http.StatusBadRequest, MsgInvalidInput},
		{"null value", `{"title":null}`, http.StatusBadRequest, MsgInvalidInput},
		{"array of objects", `{"ingredients":[{"name":"egg"}]}`, http.StatusOK, ""},
		{"empty object", `{}`, http.StatusOK, ""},
		{"empty body", ``, http.StatusOK, ""},
		{"top-level array", `[1,2]`, http.StatusOK, ""},
		{"malformed", `{"title":`, http.StatusBadRequest, "invalid payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/recipes", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen string
			handler := BodyShape()(func(c echo.Context) error {
				b, err := io.ReadAll(c.Request().Body)
				require.NoError(t, err)
				seen = string(b)
				return c.NoContent(http.StatusOK)
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			} else {
				assert.Equal(t, tt.body, seen, "body must be restored for the handler")
			}
		})
	}
}

func TestBodyShape_NoBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	rec := httptest.NewRecorder()

	err := BodyShape()(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(e.NewContext(req, rec))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
