package service

import (
	"context"
	"errors"

	"restaurant/internal/model"
	"restaurant/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// unknownIngredient labels a recipe requirement whose inventory row no longer exists.
const unknownIngredient = "unknown ingredient"

// PricedLine is an order line that passed validation, with the menu snapshot to persist.
type PricedLine struct {
	MenuItem model.MenuItem
	Quantity int
}

// Subtotal is the snapshot price times the ordered quantity.
func (l PricedLine) Subtotal() decimal.Decimal {
	return l.MenuItem.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ValidationGate checks that every line of a prospective order can be served from current stock.
// It only reads: nothing is reserved, so two orders may both pass against the same stock.
type ValidationGate interface {
	Validate(ctx context.Context, lines []OrderLineRequest) ([]PricedLine, error)
}

type validationGate struct {
	menuRepo      repository.MenuRepository
	recipeRepo    repository.RecipeRepository
	inventoryRepo repository.InventoryRepository
}

func NewValidationGate(
	menuRepo repository.MenuRepository,
	recipeRepo repository.RecipeRepository,
	inventoryRepo repository.InventoryRepository,
) ValidationGate {
	return &validationGate{
		menuRepo:      menuRepo,
		recipeRepo:    recipeRepo,
		inventoryRepo: inventoryRepo,
	}
}

func (g *validationGate) Validate(ctx context.Context, lines []OrderLineRequest) ([]PricedLine, error) {
	priced := make([]PricedLine, 0, len(lines))

	for _, line := range lines {
		menuItemID, err := parseID("menu_item_id", line.MenuItemID)
		if err != nil {
			return nil, err
		}

		item, err := g.menuRepo.FindByID(ctx, menuItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ItemError{Kind: ErrItemNotFound, MenuItemID: menuItemID}
			}
			return nil, storageErr("load menu item", err)
		}
		if !item.IsAvailable || !item.IsOnMenu {
			return nil, &ItemError{Kind: ErrItemUnavailable, MenuItemID: item.ID, Name: item.Name}
		}

		if err := g.checkStock(ctx, item, line.Quantity); err != nil {
			return nil, err
		}

		priced = append(priced, PricedLine{MenuItem: *item, Quantity: line.Quantity})
	}

	return priced, nil
}

func (g *validationGate) checkStock(ctx context.Context, item *model.MenuItem, quantity int) error {
	reqs, err := g.recipeRepo.ListByMenuItems(ctx, []uuid.UUID{item.ID})
	if err != nil {
		return storageErr("load recipe", err)
	}

	qty := decimal.NewFromInt(int64(quantity))
	for _, req := range reqs {
		required := req.QuantityRequired.Mul(qty)

		stock, err := g.inventoryRepo.FindByID(ctx, req.InventoryItemID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return storageErr("load inventory item", err)
			}
			return &InsufficientInventoryError{
				MenuItem:        item.Name,
				Item:            unknownIngredient,
				InventoryItemID: req.InventoryItemID.String(),
				Required:        required,
				Available:       decimal.Zero,
			}
		}

		if stock.Quantity.LessThan(required) {
			return &InsufficientInventoryError{
				MenuItem:        item.Name,
				Item:            stock.Name,
				InventoryItemID: stock.ID.String(),
				Required:        required,
				Available:       stock.Quantity,
				Unit:            stock.Unit,
			}
		}
	}
	return nil
}
