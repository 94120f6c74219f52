package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant/internal/middleware"
	"restaurant/internal/repository"
	"restaurant/internal/service"
	"restaurant/internal/testutil"
	"restaurant/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("handler-test-secret")

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	log := zap.NewNop()

	inventoryRepo := repository.NewInventoryRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	availability := service.NewAvailabilityEvaluator(menuRepo, recipeRepo, inventoryRepo, log)
	gate := service.NewValidationGate(menuRepo, recipeRepo, inventoryRepo)
	deduction := service.NewDeductionEngine(recipeRepo, inventoryRepo, movementRepo, log)

	staffAuth := middleware.RequireRole(testSecret, middleware.RoleAdmin, middleware.RoleStaff)
	adminAuth := middleware.RequireRole(testSecret, middleware.RoleAdmin)

	router := gin.New()
	api := router.Group("")
	NewOrderHandler(service.NewOrderService(orderRepo, auditRepo, gate, deduction, availability, txManager, 30, log)).RegisterRoutes(api, staffAuth)
	NewMenuHandler(service.NewMenuService(menuRepo, recipeRepo, auditRepo, availability, txManager, log)).RegisterRoutes(api, staffAuth)
	NewInventoryHandler(service.NewInventoryService(inventoryRepo, recipeRepo, movementRepo, auditRepo, availability, txManager, log)).RegisterRoutes(api, staffAuth)
	NewRecipeHandler(service.NewRecipeService(recipeRepo, menuRepo, inventoryRepo, auditRepo, availability, txManager, log)).RegisterRoutes(api, staffAuth)
	NewAuditHandler(service.NewAuditService(auditRepo)).RegisterRoutes(api, adminAuth)
	NewStatisticsHandler(service.NewStatisticsService(repository.NewStatisticsRepository(db))).RegisterRoutes(api, staffAuth)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "staff-7",
		"role": middleware.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	return &testServer{router: router, token: signed}
}

// envelope mirrors response.Response with Data left raw for per-test decoding.
type envelope struct {
	response.Response
	Data json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, authed bool) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
