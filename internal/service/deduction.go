package service

import (
	"context"

	"restaurant/internal/model"
	"restaurant/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DeductionEngine consumes recipe quantities from stock when an order completes.
// It must run inside the transaction that writes the completed status.
type DeductionEngine interface {
	Deduct(ctx context.Context, order *model.Order) ([]uuid.UUID, error)
}

type deductionEngine struct {
	recipeRepo    repository.RecipeRepository
	inventoryRepo repository.InventoryRepository
	movementRepo  repository.StockMovementRepository
	log           *zap.Logger
}

func NewDeductionEngine(
	recipeRepo repository.RecipeRepository,
	inventoryRepo repository.InventoryRepository,
	movementRepo repository.StockMovementRepository,
	log *zap.Logger,
) DeductionEngine {
	return &deductionEngine{
		recipeRepo:    recipeRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		log:           log.Named("deduction"),
	}
}

// Deduct subtracts line quantity × quantity_required from every linked inventory item,
// clamps each result at zero and records a CONSUMPTION movement per item. It returns the
// ids of the inventory rows it touched so the caller can recompute availability.
func (e *deductionEngine) Deduct(ctx context.Context, order *model.Order) ([]uuid.UUID, error) {
	menuItemIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, line := range order.Items {
		menuItemIDs = append(menuItemIDs, line.MenuItemID)
	}
	if len(menuItemIDs) == 0 {
		return nil, nil
	}

	reqs, err := e.recipeRepo.ListByMenuItems(ctx, menuItemIDs)
	if err != nil {
		return nil, storageErr("load recipes", err)
	}
	byMenuItem := make(map[uuid.UUID][]model.RecipeRequirement)
	for _, req := range reqs {
		byMenuItem[req.MenuItemID] = append(byMenuItem[req.MenuItemID], req)
	}

	requested := make(map[uuid.UUID]decimal.Decimal)
	for _, line := range order.Items {
		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, req := range byMenuItem[line.MenuItemID] {
			requested[req.InventoryItemID] = requested[req.InventoryItemID].Add(req.QuantityRequired.Mul(qty))
		}
	}
	if len(requested) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}

	items, err := e.inventoryRepo.FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, storageErr("lock inventory", err)
	}

	touched := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		want := requested[item.ID]
		remaining := item.Quantity.Sub(want)
		applied := want
		shortfall := decimal.Zero
		if remaining.IsNegative() {
			shortfall = remaining.Neg()
			applied = item.Quantity
			remaining = decimal.Zero
		}

		if err := e.inventoryRepo.UpdateQuantity(ctx, item.ID, remaining); err != nil {
			return nil, storageErr("update inventory quantity", err)
		}

		orderID := order.ID
		movement := &model.StockMovement{
			InventoryItemID: item.ID,
			OrderID:         &orderID,
			Type:            model.MovementConsumption,
			Requested:       want,
			Applied:         applied,
			Shortfall:       shortfall,
			QuantityAfter:   remaining,
		}
		if err := e.movementRepo.Create(ctx, movement); err != nil {
			return nil, storageErr("record stock movement", err)
		}

		if shortfall.IsPositive() {
			e.log.Warn("stock shortfall absorbed on order completion",
				zap.String("order_id", order.ID.String()),
				zap.String("inventory_item", item.Name),
				zap.String("requested", want.String()),
				zap.String("applied", applied.String()),
				zap.String("shortfall", shortfall.String()),
				zap.String("unit", item.Unit))
		}

		touched = append(touched, item.ID)
	}

	return touched, nil
}
