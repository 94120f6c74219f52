package handler

import (
	"net/http"
	"testing"

	"restaurant/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPizza(t *testing.T, s *testServer, tomatoes string) (menuItemID string) {
	t.Helper()

	code, env := s.do(t, http.MethodPut, "/api/inventory", map[string]interface{}{
		"name": "Tomatoes", "quantity": tomatoes, "unit": "lbs",
	}, true)
	require.Equal(t, http.StatusOK, code, env.Error)
	var inv service.InventoryItemResponse
	decodeData(t, env, &inv)

	code, env = s.do(t, http.MethodPost, "/api/admin/menu", map[string]interface{}{
		"name": "Margherita Pizza", "price": "12.00", "category": "pizza",
	}, true)
	require.Equal(t, http.StatusCreated, code, env.Error)
	var item service.MenuItemResponse
	decodeData(t, env, &item)

	code, env = s.do(t, http.MethodPut, "/api/recipes", map[string]interface{}{
		"menu_item_id": item.ID, "inventory_item_id": inv.ID, "quantity_required": "0.5",
	}, true)
	require.Equal(t, http.StatusOK, code, env.Error)

	return item.ID
}

func orderBody(menuItemID string, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"customer_name": "Ann",
		"phone_number":  "555-0100",
		"items":         []map[string]interface{}{{"menu_item_id": menuItemID, "quantity": quantity}},
	}
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t)
	pizza := seedPizza(t, s, "0.5")

	code, env := s.do(t, http.MethodPost, "/api/orders", orderBody(pizza, 2), false)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, CodeInsufficientInventory, env.Code)
	details, ok := env.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Tomatoes", details["item"])
	assert.NotEmpty(t, details["inventory_item_id"])

	code, env = s.do(t, http.MethodPost, "/api/orders", orderBody(pizza, 1), false)
	require.Equal(t, http.StatusCreated, code, env.Error)
	var order service.OrderResponse
	decodeData(t, env, &order)
	assert.Equal(t, "pending", order.Status)

	code, _ = s.do(t, http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]interface{}{"status": "approved"}, false)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(t, http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]interface{}{
		"status": "approved", "preparation_time": 15,
	}, true)
	require.Equal(t, http.StatusOK, code, env.Error)
	decodeData(t, env, &order)
	assert.Equal(t, "approved", order.Status)
	require.NotNil(t, order.ReadyAt)

	code, env = s.do(t, http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]interface{}{"status": "declined"}, true)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, CodeInvalidTransition, env.Code)

	code, env = s.do(t, http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]interface{}{"status": "completed"}, true)
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = s.do(t, http.MethodGet, "/api/menu", nil, false)
	require.Equal(t, http.StatusOK, code)
	var menu []service.MenuItemResponse
	decodeData(t, env, &menu)
	require.Len(t, menu, 1)
	assert.False(t, menu[0].IsAvailable)

	code, env = s.do(t, http.MethodGet, "/api/orders/lookup?phone=555-0100", nil, false)
	require.Equal(t, http.StatusOK, code)
	var mine []service.OrderResponse
	decodeData(t, env, &mine)
	assert.Len(t, mine, 1)
}

func TestOrderErrors(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/orders", map[string]interface{}{"customer_name": "Ann"}, false)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeValidation, env.Code)

	code, env = s.do(t, http.MethodPost, "/api/orders", orderBody(uuid.NewString(), 1), false)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, CodeItemNotFound, env.Code)

	code, env = s.do(t, http.MethodGet, "/api/orders/"+uuid.NewString(), nil, false)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, CodeNotFound, env.Code)

	code, env = s.do(t, http.MethodGet, "/api/orders?status=cooking", nil, true)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeValidation, env.Code)
}
