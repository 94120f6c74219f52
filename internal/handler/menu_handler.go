package handler

import (
	"net/http"

	"restaurant/internal/middleware"
	"restaurant/internal/service"
	"restaurant/pkg/response"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService service.MenuService
}

func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup, staffAuth gin.HandlerFunc) {
	router.GET("/api/menu", h.GetMenu)

	admin := router.Group("/api/admin/menu")
	admin.Use(staffAuth)
	{
		admin.GET("", h.GetFullMenu)
		admin.POST("", h.CreateMenuItem)
		admin.GET("/:id", h.GetMenuItem)
		admin.PUT("/:id", h.UpdateMenuItem)
		admin.DELETE("/:id", h.DeleteMenuItem)
		admin.PATCH("/:id/availability", h.SetAvailability)
	}
}

// GetMenu lists the items customers can see
// @Summary      Get menu
// @Description  Items currently on the menu with their derived availability
// @Tags         menu
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  response.Response{data=[]service.MenuItemResponse}
// @Router       /api/menu [get]
func (h *MenuHandler) GetMenu(c *gin.Context) {
	items, err := h.menuService.GetMenu(c.Request.Context(), true, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// GetFullMenu lists every menu item including hidden ones
// @Summary      Get full menu
// @Tags         menu
// @Security     BearerAuth
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  response.Response{data=[]service.MenuItemResponse}
// @Router       /api/admin/menu [get]
func (h *MenuHandler) GetFullMenu(c *gin.Context) {
	items, err := h.menuService.GetMenu(c.Request.Context(), false, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// GetMenuItem returns one menu item with its recipe
// @Summary      Get menu item
// @Tags         menu
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Menu item ID"
// @Success      200  {object}  response.Response{data=service.MenuItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/admin/menu/{id} [get]
func (h *MenuHandler) GetMenuItem(c *gin.Context) {
	item, err := h.menuService.GetMenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateMenuItem adds a dish to the catalog
// @Summary      Create menu item
// @Tags         menu
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateMenuItemRequest  true  "Menu item"
// @Success      201      {object}  response.Response{data=service.MenuItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/admin/menu [post]
func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req service.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.menuService.CreateMenuItem(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateMenuItem edits a dish's catalog fields
// @Summary      Update menu item
// @Tags         menu
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Menu item ID"
// @Param        payload  body      service.UpdateMenuItemRequest  true  "Menu item"
// @Success      200      {object}  response.Response{data=service.MenuItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/admin/menu/{id} [put]
func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	var req service.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.menuService.UpdateMenuItem(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteMenuItem removes a dish and its recipe
// @Summary      Delete menu item
// @Tags         menu
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Menu item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/admin/menu/{id} [delete]
func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	if err := h.menuService.DeleteMenuItem(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Menu item deleted successfully"}))
}

// SetAvailability overrides the availability flag
// @Summary      Toggle availability
// @Description  Turning an item available is refused while its ingredients cannot cover one unit.
// @Tags         menu
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Menu item ID"
// @Param        payload  body      service.SetAvailabilityRequest  true  "Availability"
// @Success      200      {object}  response.Response{data=service.MenuItemResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/admin/menu/{id}/availability [patch]
func (h *MenuHandler) SetAvailability(c *gin.Context) {
	var req service.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.menuService.SetAvailability(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}
