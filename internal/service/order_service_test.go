package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"restaurant/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())
	ctx := context.Background()

	flour := env.addInventory(t, "Flour", "2", "kg")
	pancakes := env.addMenuItem(t, "Pancakes", "6.50")
	env.addRequirement(t, pancakes.ID, flour.ID, "0.25")

	order := env.placeOrder(t, line(pancakes.ID, 3))

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, dec("19.5").Equal(order.Total))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Pancakes", order.Items[0].MenuItemName)
	assert.Nil(t, order.ReadyAt)

	// Placing an order neither consumes stock nor changes availability.
	assert.True(t, dec("2").Equal(env.quantityOf(t, flour.ID)))
	assert.True(t, env.availableOf(t, pancakes.ID))

	logs, total, err := NewAuditService(env.auditRepo).GetAuditLogs(ctx, 1, 50)
	require.NoError(t, err)
	assert.NotZero(t, total)
	var found bool
	for _, l := range logs {
		if l.Action == model.ActionCreateOrder && l.EntityID == order.ID {
			found = true
			assert.Equal(t, "555-0100", l.Actor)
		}
	}
	assert.True(t, found, "order creation is audited")
}

func TestCreateOrder_RejectsWholeOrder(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())
	ctx := context.Background()

	flour := env.addInventory(t, "Flour", "1", "kg")
	pancakes := env.addMenuItem(t, "Pancakes", "6.50")
	env.addRequirement(t, pancakes.ID, flour.ID, "0.25")
	coffee := env.addMenuItem(t, "Coffee", "3")

	_, err := env.orders.CreateOrder(ctx, CreateOrderRequest{
		CustomerName: "Bob",
		PhoneNumber:  "555-0101",
		Items:        []OrderLineRequest{line(coffee.ID, 1), line(pancakes.ID, 5)},
	})

	assert.True(t, errors.Is(err, ErrInsufficientInventory))
	assert.Zero(t, ordersInStatus(t, env.db, model.OrderStatusPending))
}

func TestCreateOrder_InputValidation(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())

	_, err := env.orders.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerName: "Ann",
		PhoneNumber:  "555",
		Items:        []OrderLineRequest{{MenuItemID: uuid.NewString(), Quantity: 0}},
	})

	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "Quantity", inputErr.Field)
}

func TestCreateOrder_BlankCustomerFields(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())
	ctx := context.Background()
	soup := env.addMenuItem(t, "Soup", "5")

	tests := []struct {
		name      string
		req       CreateOrderRequest
		wantField string
	}{
		{"blank name", CreateOrderRequest{CustomerName: "   ", PhoneNumber: "555-0100", Items: []OrderLineRequest{line(soup.ID, 1)}}, "CustomerName"},
		{"blank phone", CreateOrderRequest{CustomerName: "Ann", PhoneNumber: " \t ", Items: []OrderLineRequest{line(soup.ID, 1)}}, "PhoneNumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.orders.CreateOrder(ctx, tt.req)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr), "got %v", err)
			assert.Equal(t, tt.wantField, inputErr.Field)
		})
	}
	assert.Zero(t, ordersInStatus(t, env.db, model.OrderStatusPending))

	order, err := env.orders.CreateOrder(ctx, CreateOrderRequest{
		CustomerName: "  Ann ",
		PhoneNumber:  " 555-0100 ",
		Items:        []OrderLineRequest{line(soup.ID, 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", order.CustomerName)
	assert.Equal(t, "555-0100", order.PhoneNumber)
}

func TestSetOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []string
		wantErr bool
	}{
		{"approve then complete", []string{"approved", "completed"}, false},
		{"complete directly", []string{"completed"}, false},
		{"decline", []string{"declined"}, false},
		{"back to pending", []string{"pending"}, true},
		{"decline after approval", []string{"approved", "declined"}, true},
		{"approve twice", []string{"approved", "approved"}, true},
		{"leave declined", []string{"declined", "completed"}, true},
		{"leave completed", []string{"completed", "approved"}, true},
		{"unknown status", []string{"cooking"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, zap.NewNop())
			ctx := context.Background()
			coffee := env.addMenuItem(t, "Coffee", "3")
			order := env.placeOrder(t, line(coffee.ID, 1))

			var err error
			for _, status := range tt.path {
				_, err = env.orders.SetOrderStatus(ctx, testActor, order.ID, SetOrderStatusRequest{Status: status})
				if err != nil {
					break
				}
			}

			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidTransition), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetOrderStatus_ApproveSetsPreparationTime(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())
	ctx := context.Background()
	coffee := env.addMenuItem(t, "Coffee", "3")

	first := env.placeOrder(t, line(coffee.ID, 1))
	approved, err := env.orders.SetOrderStatus(ctx, testActor, first.ID, SetOrderStatusRequest{Status: "approved"})
	require.NoError(t, err)
	require.NotNil(t, approved.PreparationTime)
	assert.Equal(t, 30, *approved.PreparationTime)
	require.NotNil(t, approved.ReadyAt)
	assert.True(t, approved.UpdatedAt.Add(30*time.Minute).Equal(*approved.ReadyAt))

	second := env.placeOrder(t, line(coffee.ID, 1))
	approved, err = env.orders.SetOrderStatus(ctx, testActor, second.ID, SetOrderStatusRequest{Status: "approved", PreparationTime: intPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, 12, *approved.PreparationTime)

	third := env.placeOrder(t, line(coffee.ID, 1))
	_, err = env.orders.SetOrderStatus(ctx, testActor, third.ID, SetOrderStatusRequest{Status: "approved", PreparationTime: intPtr(0)})
	assert.True(t, errors.Is(err, ErrValidationInput))
}

func TestSetOrderStatus_CompleteDeductsOnce(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())
	ctx := context.Background()

	cheese := env.addInventory(t, "Cheese", "1", "kg")
	pizza := env.addMenuItem(t, "Pizza", "11")
	env.addRequirement(t, pizza.ID, cheese.ID, "0.3")
	order := env.placeOrder(t, line(pizza.ID, 2))

	completed, err := env.orders.SetOrderStatus(ctx, testActor, order.ID, SetOrderStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, completed.Status)
	assert.True(t, dec("0.4").Equal(env.quantityOf(t, cheese.ID)))
	assert.True(t, env.availableOf(t, pizza.ID))

	again, err := env.orders.SetOrderStatus(ctx, testActor, order.ID, SetOrderStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, again.Status)
	assert.True(t, dec("0.4").Equal(env.quantityOf(t, cheese.ID)))

	movements, err := env.movementRepo.ListByOrder(ctx, uuid.MustParse(order.ID))
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestSetOrderStatus_CompletionRollsBackOnStorageError(t *testing.T) {
	tests := []struct {
		name    string
		drop    interface{}
		wantErr string
	}{
		{"deduction fails", &model.StockMovement{}, "record stock movement"},
		{"audit write after status change fails", &model.AuditLog{}, "write audit log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, zap.NewNop())
			ctx := context.Background()

			cheese := env.addInventory(t, "Cheese", "1", "kg")
			pizza := env.addMenuItem(t, "Pizza", "11")
			env.addRequirement(t, pizza.ID, cheese.ID, "0.5")
			order := env.placeOrder(t, line(pizza.ID, 2))

			require.NoError(t, env.db.Migrator().DropTable(tt.drop))

			_, err := env.orders.SetOrderStatus(ctx, testActor, order.ID, SetOrderStatusRequest{Status: "completed"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStorage), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)

			assert.True(t, dec("1").Equal(env.quantityOf(t, cheese.ID)))
			assert.True(t, env.availableOf(t, pizza.ID))

			stored, err := env.orders.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, model.OrderStatusPending, stored.Status)
		})
	}
}

func TestSetOrderStatus_ConcurrentCompletionsDeductOnce(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())
	ctx := context.Background()

	cheese := env.addInventory(t, "Cheese", "1", "kg")
	pizza := env.addMenuItem(t, "Pizza", "11")
	env.addRequirement(t, pizza.ID, cheese.ID, "0.3")
	order := env.placeOrder(t, line(pizza.ID, 1))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.orders.SetOrderStatus(ctx, testActor, order.ID, SetOrderStatusRequest{Status: "completed"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.True(t, dec("0.7").Equal(env.quantityOf(t, cheese.ID)))
}

func TestSetOrderStatus_DeclineLeavesStock(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())
	ctx := context.Background()

	cheese := env.addInventory(t, "Cheese", "1", "kg")
	pizza := env.addMenuItem(t, "Pizza", "11")
	env.addRequirement(t, pizza.ID, cheese.ID, "0.3")
	order := env.placeOrder(t, line(pizza.ID, 1))

	declined, err := env.orders.SetOrderStatus(ctx, testActor, order.ID, SetOrderStatusRequest{Status: "declined"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDeclined, declined.Status)
	assert.True(t, dec("1").Equal(env.quantityOf(t, cheese.ID)))
}

func TestSetOrderStatus_UnknownOrder(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())

	_, err := env.orders.SetOrderStatus(context.Background(), testActor, uuid.NewString(), SetOrderStatusRequest{Status: "approved"})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = env.orders.SetOrderStatus(context.Background(), testActor, "not-an-id", SetOrderStatusRequest{Status: "approved"})
	assert.True(t, errors.Is(err, ErrValidationInput))
}

func TestOrderQueries(t *testing.T) {
	env := newTestEnv(t, zap.NewNop())
	ctx := context.Background()
	coffee := env.addMenuItem(t, "Coffee", "3")

	first := env.placeOrder(t, line(coffee.ID, 1))
	env.placeOrder(t, line(coffee.ID, 2))
	_, err := env.orders.SetOrderStatus(ctx, testActor, first.ID, SetOrderStatusRequest{Status: "declined"})
	require.NoError(t, err)

	got, err := env.orders.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDeclined, got.Status)

	pending, total, err := env.orders.ListOrders(ctx, "pending", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, pending, 1)

	_, _, err = env.orders.ListOrders(ctx, "cooking", 1, 10)
	assert.True(t, errors.Is(err, ErrValidationInput))

	mine, err := env.orders.LookupOrders(ctx, " 555-0100 ")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = env.orders.LookupOrders(ctx, "")
	assert.True(t, errors.Is(err, ErrValidationInput))

	_, err = env.orders.GetOrder(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, ErrNotFound))
}
