package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipe-api/internal/core/domain"
	"github.com/recipehub/recipe-api/internal/core/ports"
	"github.com/recipehub/recipe-api/internal/pkg/token"
)

type routerAuthService struct{}

func (routerAuthService) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Username == "taken" {
		return nil, domain.ErrUserExists
	}
	return &domain.User{ID: "u1", Username: in.Username}, nil
}

func (routerAuthService) Login(_ context.Context, in ports.LoginInput) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

type routerRecipeService struct {
	created []ports.CreateRecipeInput
}

func (s *routerRecipeService) CreateRecipe(_ context.Context, in ports.CreateRecipeInput) (*ports.CreateRecipeResult, error) {
	s.created = append(s.created, in)
	return &ports.CreateRecipeResult{Recipe: &domain.Recipe{ID: "65f0c0ffee0000000000abcd"}}, nil
}

func (s *routerRecipeService) ListRecipes(context.Context) ([]*domain.Recipe, error) {
	return []*domain.Recipe{}, nil
}

func (s *routerRecipeService) GetRecipe(_ context.Context, id string) (*domain.Recipe, error) {
	return nil, domain.ErrRecipeNotFound
}

func (s *routerRecipeService) UpdateRecipe(context.Context, ports.UpdateRecipeInput) (*domain.Recipe, error) {
	return nil, domain.ErrRecipeNotFound
}

func (s *routerRecipeService) DeleteRecipe(context.Context, string, string) error {
	return domain.ErrRecipeNotFound
}

func newTestRouter(t *testing.T, authRequired bool) (http.Handler, *routerRecipeService, *token.Manager) {
	t.Helper()
	tokens, err := token.NewManager("router-secret", time.Hour)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	recipes := &routerRecipeService{}
	e := NewRouter(Deps{
		AuthService:           routerAuthService{},
		RecipeService:         recipes,
		Tokens:                tokens,
		Logger:                zerolog.Nop(),
		AuthRequiredForWrites: authRequired,
		CORSOrigins:           []string{"*"},
		Registerer:            reg,
		Gatherer:              reg,
	})
	return e, recipes, tokens
}

func do(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

const recipeBody = `{"title":"Soup","ingredients":["water"],"instructions":"boil","author":"A"}`

func TestRouter_PublicRoutes(t *testing.T) {
	h, _, _ := newTestRouter(t, true)

	rec := do(h, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Recipe Management API", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = do(h, http.MethodGet, "/recipes", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(h, http.MethodGet, "/recipes/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "recipe not found", errorMessage(t, rec))

	rec = do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AuthRoutes(t *testing.T) {
	h, _, _ := newTestRouter(t, true)

	rec := do(h, http.MethodPost, "/register", `{"username":"alice","email":"a@example.com","password":"pw"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully", rec.Body.String())

	rec = do(h, http.MethodPost, "/register", `{"username":"taken","email":"t@example.com","password":"pw"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, http.MethodPost, "/login", `{"email":"a@example.com","password":"bad"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid credentials", errorMessage(t, rec))
}

func TestRouter_BodyShapeRunsBeforeRouting(t *testing.T) {
	h, recipes, _ := newTestRouter(t, false)

	for _, path := range []string{"/register", "/login", "/recipes", "/does-not-exist"} {
		rec := do(h, http.MethodPost, path, `{"email":{"$ne":null},"password":"x"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "Invalid input data", errorMessage(t, rec), path)
	}

	rec := do(h, http.MethodPost, "/recipes", `{"title":null,"ingredients":["a"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, recipes.created)
}

func TestRouter_WritesRequireToken(t *testing.T) {
	h, recipes, tokens := newTestRouter(t, true)

	rec := do(h, http.MethodPost, "/recipes", recipeBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing authorization header", errorMessage(t, rec))

	rec = do(h, http.MethodDelete, "/recipes/65f0c0ffee0000000000abcd", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	noRole, err := tokens.Issue("u2", nil)
	require.NoError(t, err)
	rec = do(h, http.MethodPost, "/recipes", recipeBody, map[string]string{"Authorization": "Bearer " + noRole})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access forbidden", errorMessage(t, rec))

	valid, err := tokens.Issue("u1", []string{domain.RoleUser})
	require.NoError(t, err)
	rec = do(h, http.MethodPost, "/recipes", recipeBody, map[string]string{
		"Authorization":   "Bearer " + valid,
		"Idempotency-Key": "k1",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/recipes/65f0c0ffee0000000000abcd", rec.Header().Get("Location"))
	require.Len(t, recipes.created, 1)
	assert.Equal(t, "u1", recipes.created[0].Actor)
	assert.Equal(t, "k1", recipes.created[0].IdempotencyKey)
}

func TestRouter_WritesOpenWhenAuthDisabled(t *testing.T) {
	h, recipes, _ := newTestRouter(t, false)

	rec := do(h, http.MethodPost, "/recipes", recipeBody, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, recipes.created, 1)
	assert.Empty(t, recipes.created[0].Actor)

	rec = do(h, http.MethodDelete, "/recipes/65f0c0ffee0000000000abcd", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CORSAndMetrics(t *testing.T) {
	h, _, _ := newTestRouter(t, true)

	rec := do(h, http.MethodOptions, "/recipes", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	_ = do(h, http.MethodGet, "/recipes", "", nil)
	rec = do(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouter_UnknownRoute(t *testing.T) {
	h, _, _ := newTestRouter(t, true)

	rec := do(h, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))
}
