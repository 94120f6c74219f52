package handler

import (
	"net/http"
	"strconv"

	"restaurant/internal/middleware"
	"restaurant/internal/service"
	"restaurant/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup, staffAuth gin.HandlerFunc) {
	inventory := router.Group("/api/inventory")
	inventory.Use(staffAuth)
	{
		inventory.GET("", h.GetInventory)
		inventory.PUT("", h.UpsertInventoryItem)
		inventory.DELETE("/:id", h.DeleteInventoryItem)
		inventory.GET("/:id/movements", h.ListMovements)
	}
}

// GetInventory lists stock levels
// @Summary      Get inventory
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        low_stock  query     bool  false  "Only items at or below their minimum stock"
// @Success      200        {object}  response.Response{data=[]service.InventoryItemResponse}
// @Router       /api/inventory [get]
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	lowStock, _ := strconv.ParseBool(c.DefaultQuery("low_stock", "false"))

	items, err := h.inventoryService.GetInventory(c.Request.Context(), lowStock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// UpsertInventoryItem creates or updates a stock row
// @Summary      Upsert inventory item
// @Description  Matched by id when given, otherwise by name. Dependent menu items are re-evaluated.
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpsertInventoryItemRequest  true  "Inventory item"
// @Success      200      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/inventory [put]
func (h *InventoryHandler) UpsertInventoryItem(c *gin.Context) {
	var req service.UpsertInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventoryService.UpsertInventoryItem(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteInventoryItem removes a stock row and every requirement on it
// @Summary      Delete inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Inventory item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) DeleteInventoryItem(c *gin.Context) {
	if err := h.inventoryService.DeleteInventoryItem(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"}))
}

// ListMovements returns the stock history of one item
// @Summary      List stock movements
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Inventory item ID"
// @Param        limit  query     int     false  "Maximum entries (default 50)"
// @Success      200    {object}  response.Response{data=[]service.StockMovementResponse}
// @Failure      404    {object}  response.Response
// @Router       /api/inventory/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movements))
}
