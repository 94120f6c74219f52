package handler

import (
	"errors"
	"net/http"

	"restaurant/internal/service"
	"restaurant/pkg/response"

	"github.com/gin-gonic/gin"
)

// Error codes carried in the response envelope.
const (
	CodeItemNotFound          = "ITEM_NOT_FOUND"
	CodeItemUnavailable       = "ITEM_UNAVAILABLE"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeValidation            = "VALIDATION_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeStorage               = "STORAGE_ERROR"
)

// respondError maps a service error onto an HTTP status and the error envelope.
func respondError(c *gin.Context, err error) {
	var (
		insufficient *service.InsufficientInventoryError
		itemErr      *service.ItemError
		transition   *service.TransitionError
		inputErr     *service.InputError
	)

	switch {
	case errors.As(err, &insufficient):
		abort(c, http.StatusConflict, CodeInsufficientInventory, err.Error(), gin.H{
			"menu_item":         insufficient.MenuItem,
			"item":              insufficient.Item,
			"inventory_item_id": insufficient.InventoryItemID,
			"required":          insufficient.Required,
			"available":         insufficient.Available,
			"unit":              insufficient.Unit,
		})
	case errors.As(err, &itemErr):
		status, code := http.StatusConflict, CodeItemUnavailable
		if errors.Is(err, service.ErrItemNotFound) {
			status, code = http.StatusNotFound, CodeItemNotFound
		}
		abort(c, status, code, err.Error(), gin.H{"menu_item_id": itemErr.MenuItemID})
	case errors.As(err, &transition):
		abort(c, http.StatusConflict, CodeInvalidTransition, err.Error(), gin.H{"from": transition.From, "to": transition.To})
	case errors.As(err, &inputErr):
		abort(c, http.StatusBadRequest, CodeValidation, err.Error(), gin.H{"field": inputErr.Field, "reason": inputErr.Reason})
	case errors.Is(err, service.ErrNotFound):
		abort(c, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	default:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, CodeStorage, "internal server error", nil)
	}
}

// respondBindError reports a request body or query that failed gin binding.
func respondBindError(c *gin.Context, err error) {
	abort(c, http.StatusBadRequest, CodeValidation, "Invalid request payload: "+err.Error(), nil)
}

func abort(c *gin.Context, status int, code, msg string, details interface{}) {
	c.AbortWithStatusJSON(status, response.ErrorWithDetails(status, code, msg, details))
}
