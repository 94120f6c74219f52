package handler

import (
	"net/http"

	"restaurant/internal/middleware"
	"restaurant/internal/service"
	"restaurant/pkg/response"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	recipeService service.RecipeService
}

func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, staffAuth gin.HandlerFunc) {
	router.GET("/api/menu/:id/recipe", staffAuth, h.ListRecipe)

	recipes := router.Group("/api/recipes")
	recipes.Use(staffAuth)
	{
		recipes.PUT("", h.UpsertRecipeRequirement)
		recipes.DELETE("/:id", h.DeleteRecipeRequirement)
	}
}

// @Summary      Get recipe
// @Tags         recipes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Menu item ID"
// @Success      200  {object}  response.Response{data=[]service.RecipeRequirementResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/menu/{id}/recipe [get]
func (h *RecipeHandler) ListRecipe(c *gin.Context) {
	reqs, err := h.recipeService.ListRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, reqs))
}

// @Summary      Upsert recipe requirement
// @Description  Creates or updates how much of an inventory item one unit of a menu item consumes.
// @Tags         recipes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpsertRecipeRequirementRequest  true  "Requirement"
// @Success      200      {object}  response.Response{data=service.RecipeRequirementResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/recipes [put]
func (h *RecipeHandler) UpsertRecipeRequirement(c *gin.Context) {
	var req service.UpsertRecipeRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	saved, err := h.recipeService.UpsertRecipeRequirement(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, saved))
}

// @Summary      Delete recipe requirement
// @Tags         recipes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requirement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipeRequirement(c *gin.Context) {
	if err := h.recipeService.DeleteRecipeRequirement(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Recipe requirement deleted successfully"}))
}
