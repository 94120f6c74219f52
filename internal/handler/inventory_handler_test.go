package handler

import (
	"net/http"
	"testing"

	"restaurant/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/api/inventory", nil, false)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := s.do(t, http.MethodPut, "/api/inventory", map[string]interface{}{
		"name": "Basil", "quantity": "1", "unit": "bunch", "min_stock": "2",
	}, true)
	require.Equal(t, http.StatusOK, code, env.Error)
	var basil service.InventoryItemResponse
	decodeData(t, env, &basil)
	assert.True(t, basil.IsLowStock)

	code, env = s.do(t, http.MethodPut, "/api/inventory", map[string]interface{}{
		"name": "Basil", "quantity": "-3", "unit": "bunch",
	}, true)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeValidation, env.Code)

	code, env = s.do(t, http.MethodGet, "/api/inventory?low_stock=true", nil, true)
	require.Equal(t, http.StatusOK, code)
	var low []service.InventoryItemResponse
	decodeData(t, env, &low)
	assert.Len(t, low, 1)

	code, env = s.do(t, http.MethodGet, "/api/inventory/"+basil.ID+"/movements", nil, true)
	require.Equal(t, http.StatusOK, code)
	var movements []service.StockMovementResponse
	decodeData(t, env, &movements)
	assert.Len(t, movements, 1)

	code, _ = s.do(t, http.MethodDelete, "/api/inventory/"+basil.ID, nil, true)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodDelete, "/api/inventory/"+basil.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, CodeNotFound, env.Code)

	code, _ = s.do(t, http.MethodGet, "/api/audit-logs", nil, true)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/statistics", nil, true)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/statistics?start_date=yesterday", nil, true)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeValidation, env.Code)
}
