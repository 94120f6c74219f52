package service

import (
	"context"
	"testing"

	"restaurant/internal/model"
	"restaurant/internal/repository"
	"restaurant/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testActor = "staff-1"

type testEnv struct {
	db *gorm.DB

	inventoryRepo repository.InventoryRepository
	menuRepo      repository.MenuRepository
	recipeRepo    repository.RecipeRepository
	orderRepo     repository.OrderRepository
	movementRepo  repository.StockMovementRepository
	auditRepo     repository.AuditRepository

	availability AvailabilityEvaluator
	gate         ValidationGate
	deduction    DeductionEngine

	orders    OrderService
	inventory InventoryService
	menu      MenuService
	recipes   RecipeService
	stats     StatisticsService
}

func newTestEnv(t testing.TB, log *zap.Logger) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	env := &testEnv{
		db:            db,
		inventoryRepo: repository.NewInventoryRepository(db),
		menuRepo:      repository.NewMenuRepository(db),
		recipeRepo:    repository.NewRecipeRepository(db),
		orderRepo:     repository.NewOrderRepository(db),
		movementRepo:  repository.NewStockMovementRepository(db),
		auditRepo:     repository.NewAuditRepository(db),
	}
	txManager := repository.NewTransactionManager(db)

	env.availability = NewAvailabilityEvaluator(env.menuRepo, env.recipeRepo, env.inventoryRepo, log)
	env.gate = NewValidationGate(env.menuRepo, env.recipeRepo, env.inventoryRepo)
	env.deduction = NewDeductionEngine(env.recipeRepo, env.inventoryRepo, env.movementRepo, log)

	env.orders = NewOrderService(env.orderRepo, env.auditRepo, env.gate, env.deduction, env.availability, txManager, 30, log)
	env.inventory = NewInventoryService(env.inventoryRepo, env.recipeRepo, env.movementRepo, env.auditRepo, env.availability, txManager, log)
	env.menu = NewMenuService(env.menuRepo, env.recipeRepo, env.auditRepo, env.availability, txManager, log)
	env.recipes = NewRecipeService(env.recipeRepo, env.menuRepo, env.inventoryRepo, env.auditRepo, env.availability, txManager, log)
	env.stats = NewStatisticsService(repository.NewStatisticsRepository(db))
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *testEnv) addInventory(t testing.TB, name, quantity, unit string) InventoryItemResponse {
	t.Helper()
	item, err := e.inventory.UpsertInventoryItem(context.Background(), testActor, UpsertInventoryItemRequest{
		Name:     name,
		Quantity: dec(quantity),
		Unit:     unit,
	})
	require.NoError(t, err)
	return item
}

func (e *testEnv) addMenuItem(t testing.TB, name, price string) MenuItemResponse {
	t.Helper()
	item, err := e.menu.CreateMenuItem(context.Background(), testActor, CreateMenuItemRequest{
		Name:     name,
		Price:    dec(price),
		Category: "mains",
	})
	require.NoError(t, err)
	return item
}

func (e *testEnv) addRequirement(t testing.TB, menuItemID, inventoryItemID, quantity string) RecipeRequirementResponse {
	t.Helper()
	req, err := e.recipes.UpsertRecipeRequirement(context.Background(), testActor, UpsertRecipeRequirementRequest{
		MenuItemID:       menuItemID,
		InventoryItemID:  inventoryItemID,
		QuantityRequired: dec(quantity),
	})
	require.NoError(t, err)
	return req
}

func (e *testEnv) placeOrder(t testing.TB, lines ...OrderLineRequest) OrderResponse {
	t.Helper()
	order, err := e.orders.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerName: "Ann",
		PhoneNumber:  "555-0100",
		Items:        lines,
	})
	require.NoError(t, err)
	return order
}

func (e *testEnv) quantityOf(t testing.TB, inventoryItemID string) decimal.Decimal {
	t.Helper()
	item, err := e.inventoryRepo.FindByID(context.Background(), uuid.MustParse(inventoryItemID))
	require.NoError(t, err)
	return item.Quantity
}

func (e *testEnv) availableOf(t testing.TB, menuItemID string) bool {
	t.Helper()
	item, err := e.menuRepo.FindByID(context.Background(), uuid.MustParse(menuItemID))
	require.NoError(t, err)
	return item.IsAvailable
}

// assertAvailabilityConsistent checks every stored is_available flag against a fresh evaluation.
func (e *testEnv) assertAvailabilityConsistent(t testing.TB) {
	t.Helper()
	ctx := context.Background()

	items, err := e.menuRepo.List(ctx, false, "")
	require.NoError(t, err)
	for _, item := range items {
		want, err := e.availability.Check(ctx, item.ID)
		require.NoError(t, err)
		require.Equalf(t, want, item.IsAvailable, "menu item %s", item.Name)
	}
}

// assertNonNegative checks that no inventory quantity is below zero.
func (e *testEnv) assertNonNegative(t testing.TB) {
	t.Helper()
	items, err := e.inventoryRepo.List(context.Background(), false)
	require.NoError(t, err)
	for _, item := range items {
		require.Falsef(t, item.Quantity.IsNegative(), "inventory item %s is %s", item.Name, item.Quantity)
	}
}

func line(menuItemID string, quantity int) OrderLineRequest {
	return OrderLineRequest{MenuItemID: menuItemID, Quantity: quantity}
}

func ordersInStatus(t testing.TB, db *gorm.DB, status string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.Order{}).Where("status = ?", status).Count(&count).Error)
	return count
}

func repositoryTx(env *testEnv) repository.TransactionManager {
	return repository.NewTransactionManager(env.db)
}
