package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recipehub/recipe-api/internal/api/metrics"
	"github.com/recipehub/recipe-api/internal/core/ports"
)

// HeaderIdempotencyKey makes a repeated POST /recipes return the first result.
const HeaderIdempotencyKey = "Idempotency-Key"

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	service ports.RecipeService
}

func NewRecipeHandler(service ports.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// Create handles POST /recipes.
//
// @Summary      Create a recipe
// @Tags         recipes
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Repeat-safe key; a replay returns the first result"
// @Param        body             body      recipeRequest  true   "Recipe"
// @Success      201              {string}  string         "Recipe created successfully"
// @Header       201              {string}  Location       "/recipes/{id}"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse  "Idempotency-Key still in progress"
// @Failure      500              {object}  errorResponse
// @Router       /recipes [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	key := c.Request().Header.Get(HeaderIdempotencyKey)
	result, err := h.service.CreateRecipe(c.Request().Context(), req.toCreateInput(key, actor(c)))
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.RecipesMutatedTotal.WithLabelValues("replayed").Inc()
	} else {
		metrics.RecipesMutatedTotal.WithLabelValues("created").Inc()
	}

	c.Response().Header().Set(echo.HeaderLocation, "/recipes/"+result.Recipe.ID)
	return c.String(http.StatusCreated, "Recipe created successfully")
}

// List handles GET /recipes.
//
// @Summary      List all recipes
// @Tags         recipes
// @Produce      json
// @Success      200  {array}   domain.Recipe
// @Failure      500  {object}  errorResponse
// @Router       /recipes [get]
func (h *RecipeHandler) List(c echo.Context) error {
	recipes, err := h.service.ListRecipes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recipes)
}

// Get handles GET /recipes/:id.
//
// @Summary      Get a recipe by id
// @Tags         recipes
// @Produce      json
// @Param        id   path      string  true  "Recipe id (24 hex characters)"
// @Success      200  {object}  domain.Recipe
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /recipes/{id} [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	recipe, err := h.service.GetRecipe(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recipe)
}

// Update handles PUT /recipes/:id.
//
// @Summary      Replace a recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Recipe id"
// @Param        body  body      recipeRequest  true  "Recipe"
// @Success      200   {object}  domain.Recipe
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /recipes/{id} [put]
func (h *RecipeHandler) Update(c echo.Context) error {
	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.UpdateRecipe(c.Request().Context(), req.toUpdateInput(c.Param("id"), actor(c)))
	if err != nil {
		return err
	}

	metrics.RecipesMutatedTotal.WithLabelValues("updated").Inc()
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /recipes/:id.
//
// @Summary      Delete a recipe
// @Tags         recipes
// @Produce      plain
// @Security     BearerAuth
// @Param        id   path      string  true  "Recipe id"
// @Success      200  {string}  string  "Recipe deleted successfully"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteRecipe(c.Request().Context(), c.Param("id"), actor(c)); err != nil {
		return err
	}

	metrics.RecipesMutatedTotal.WithLabelValues("deleted").Inc()
	return c.String(http.StatusOK, "Recipe deleted successfully")
}
