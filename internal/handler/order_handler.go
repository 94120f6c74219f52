package handler

import (
	"net/http"

	"restaurant/internal/middleware"
	"restaurant/internal/service"
	"restaurant/pkg/pagination"
	"restaurant/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, staffAuth gin.HandlerFunc) {
	orders := router.Group("/api/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/lookup", h.LookupOrders)
		orders.GET("/:id", h.GetOrder)
		orders.GET("", staffAuth, h.ListOrders)
		orders.PATCH("/:id/status", staffAuth, h.SetOrderStatus)
	}
}

// CreateOrder places a new pending order
// @Summary      Place order
// @Description  Validates every line against current stock and creates a pending order. Stock is not reserved.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Order"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response "Menu item not found"
// @Failure      409      {object}  response.Response "Item unavailable or insufficient inventory"
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// GetOrder returns one order, used by customers to poll its status
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// LookupOrders finds a customer's orders by phone number
// @Summary      Lookup orders by phone
// @Tags         orders
// @Produce      json
// @Param        phone  query     string  true  "Phone number"
// @Success      200    {object}  response.Response{data=[]service.OrderResponse}
// @Failure      400    {object}  response.Response
// @Router       /api/orders/lookup [get]
func (h *OrderHandler) LookupOrders(c *gin.Context) {
	orders, err := h.orderService.LookupOrders(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// ListOrders returns a page of orders for staff
// @Summary      List orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      400     {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Page("orders", orders, total, p)))
}

// SetOrderStatus approves, declines or completes an order
// @Summary      Change order status
// @Description  approved and declined are allowed from pending; completed from pending or approved and consumes stock once.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Order ID"
// @Param        payload  body      service.SetOrderStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response "Invalid transition"
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) SetOrderStatus(c *gin.Context) {
	var req service.SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.SetOrderStatus(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
