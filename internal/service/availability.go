package service

import (
	"context"

	"restaurant/internal/model"
	"restaurant/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IsAvailable decides whether current stock can serve one more unit of a menu item.
// An item without requirements is always available; a requirement whose inventory
// row is missing from stock counts as zero on hand.
func IsAvailable(reqs []model.RecipeRequirement, stock map[uuid.UUID]decimal.Decimal) bool {
	for _, req := range reqs {
		onHand, ok := stock[req.InventoryItemID]
		if !ok {
			onHand = decimal.Zero
		}
		if onHand.LessThan(req.QuantityRequired) {
			return false
		}
	}
	return true
}

// AvailabilityEvaluator keeps menu_items.is_available in sync with stock and recipes.
// It runs inside whatever transaction the caller carries in ctx.
type AvailabilityEvaluator interface {
	Check(ctx context.Context, menuItemID uuid.UUID) (bool, error)
	Recompute(ctx context.Context, menuItemIDs []uuid.UUID) error
	RecomputeForInventory(ctx context.Context, inventoryItemIDs []uuid.UUID) error
}

type availabilityEvaluator struct {
	menuRepo      repository.MenuRepository
	recipeRepo    repository.RecipeRepository
	inventoryRepo repository.InventoryRepository
	log           *zap.Logger
}

func NewAvailabilityEvaluator(
	menuRepo repository.MenuRepository,
	recipeRepo repository.RecipeRepository,
	inventoryRepo repository.InventoryRepository,
	log *zap.Logger,
) AvailabilityEvaluator {
	return &availabilityEvaluator{
		menuRepo:      menuRepo,
		recipeRepo:    recipeRepo,
		inventoryRepo: inventoryRepo,
		log:           log.Named("availability"),
	}
}

func (e *availabilityEvaluator) Check(ctx context.Context, menuItemID uuid.UUID) (bool, error) {
	reqs, err := e.recipeRepo.ListByMenuItems(ctx, []uuid.UUID{menuItemID})
	if err != nil {
		return false, storageErr("load recipe", err)
	}
	stock, err := e.inventoryRepo.QuantitiesByIDs(ctx, inventoryIDs(reqs))
	if err != nil {
		return false, storageErr("load stock", err)
	}
	return IsAvailable(reqs, stock), nil
}

// Recompute evaluates and stores availability for the given menu items.
// A nil slice means every menu item (bulk mode).
func (e *availabilityEvaluator) Recompute(ctx context.Context, menuItemIDs []uuid.UUID) error {
	if menuItemIDs == nil {
		all, err := e.menuRepo.ListIDs(ctx)
		if err != nil {
			return storageErr("list menu items", err)
		}
		menuItemIDs = all
	}
	if len(menuItemIDs) == 0 {
		return nil
	}

	// Stock is read only after the menu rows are locked.
	menuItemIDs, err := e.menuRepo.LockForUpdate(ctx, menuItemIDs)
	if err != nil {
		return storageErr("lock menu items", err)
	}
	if len(menuItemIDs) == 0 {
		return nil
	}

	reqs, err := e.recipeRepo.ListByMenuItems(ctx, menuItemIDs)
	if err != nil {
		return storageErr("load recipes", err)
	}
	stock, err := e.inventoryRepo.QuantitiesByIDs(ctx, inventoryIDs(reqs))
	if err != nil {
		return storageErr("load stock", err)
	}

	byMenuItem := make(map[uuid.UUID][]model.RecipeRequirement, len(menuItemIDs))
	for _, req := range reqs {
		byMenuItem[req.MenuItemID] = append(byMenuItem[req.MenuItemID], req)
	}

	var available, unavailable []uuid.UUID
	for _, id := range menuItemIDs {
		if IsAvailable(byMenuItem[id], stock) {
			available = append(available, id)
		} else {
			unavailable = append(unavailable, id)
		}
	}

	if err := e.menuRepo.SetAvailability(ctx, available, true); err != nil {
		return storageErr("update availability", err)
	}
	if err := e.menuRepo.SetAvailability(ctx, unavailable, false); err != nil {
		return storageErr("update availability", err)
	}

	e.log.Debug("availability recomputed",
		zap.Int("menu_items", len(menuItemIDs)),
		zap.Int("unavailable", len(unavailable)))
	return nil
}

// RecomputeForInventory recomputes every menu item whose recipe uses one of the given inventory items.
func (e *availabilityEvaluator) RecomputeForInventory(ctx context.Context, inventoryItemIDs []uuid.UUID) error {
	menuItemIDs, err := e.recipeRepo.MenuItemIDsByInventory(ctx, inventoryItemIDs)
	if err != nil {
		return storageErr("resolve dependent menu items", err)
	}
	if len(menuItemIDs) == 0 {
		return nil
	}
	return e.Recompute(ctx, menuItemIDs)
}

func inventoryIDs(reqs []model.RecipeRequirement) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(reqs))
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, req := range reqs {
		if _, ok := seen[req.InventoryItemID]; ok {
			continue
		}
		seen[req.InventoryItemID] = struct{}{}
		ids = append(ids, req.InventoryItemID)
	}
	return ids
}
