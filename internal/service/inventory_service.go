package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant/internal/model"
	"restaurant/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DTOs
type UpsertInventoryItemRequest struct {
	ID       string          `json:"id" binding:"omitempty,uuid"` // optional; otherwise matched by name
	Name     string          `json:"name" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit" binding:"required"`
	MinStock decimal.Decimal `json:"min_stock"`
}

type InventoryItemResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	MinStock   decimal.Decimal `json:"min_stock"`
	IsLowStock bool            `json:"is_low_stock"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type StockMovementResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id,omitempty"`
	Type          string          `json:"type"`
	Requested     decimal.Decimal `json:"requested"`
	Applied       decimal.Decimal `json:"applied"`
	Shortfall     decimal.Decimal `json:"shortfall"`
	QuantityAfter decimal.Decimal `json:"quantity_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

type InventoryService interface {
	GetInventory(ctx context.Context, lowStockOnly bool) ([]InventoryItemResponse, error)
	UpsertInventoryItem(ctx context.Context, actor string, req UpsertInventoryItemRequest) (InventoryItemResponse, error)
	DeleteInventoryItem(ctx context.Context, actor string, id string) error
	ListMovements(ctx context.Context, id string, limit int) ([]StockMovementResponse, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	recipeRepo    repository.RecipeRepository
	movementRepo  repository.StockMovementRepository
	auditRepo     repository.AuditRepository
	availability  AvailabilityEvaluator
	txManager     repository.TransactionManager
	log           *zap.Logger
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	recipeRepo repository.RecipeRepository,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	availability AvailabilityEvaluator,
	txManager repository.TransactionManager,
	log *zap.Logger,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		recipeRepo:    recipeRepo,
		movementRepo:  movementRepo,
		auditRepo:     auditRepo,
		availability:  availability,
		txManager:     txManager,
		log:           log.Named("inventory"),
	}
}

func (s *inventoryService) GetInventory(ctx context.Context, lowStockOnly bool) ([]InventoryItemResponse, error) {
	items, err := s.inventoryRepo.List(ctx, lowStockOnly)
	if err != nil {
		return nil, storageErr("list inventory", err)
	}

	res := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		res = append(res, toInventoryResponse(&items[i]))
	}
	return res, nil
}

// UpsertInventoryItem creates or updates a stock row, matched by id when given and by name otherwise.
// Quantity changes are recorded as ADJUSTMENT movements and dependent menu items are re-evaluated
// in the same transaction.
func (s *inventoryService) UpsertInventoryItem(ctx context.Context, actor string, req UpsertInventoryItemRequest) (InventoryItemResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	if err := validateInput(req); err != nil {
		return InventoryItemResponse{}, err
	}
	if req.Quantity.IsNegative() {
		return InventoryItemResponse{}, &InputError{Field: "Quantity", Reason: "must not be negative"}
	}
	if req.MinStock.IsNegative() {
		return InventoryItemResponse{}, &InputError{Field: "MinStock", Reason: "must not be negative"}
	}
	if err := checkScale("Quantity", req.Quantity, quantityPlaces); err != nil {
		return InventoryItemResponse{}, err
	}
	if err := checkScale("MinStock", req.MinStock, quantityPlaces); err != nil {
		return InventoryItemResponse{}, err
	}

	var saved model.InventoryItem
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.lockExisting(txCtx, req)
		if err != nil {
			return err
		}

		if existing != nil && existing.Name != req.Name {
			if _, err := s.inventoryRepo.FindByName(txCtx, req.Name); err == nil {
				return &InputError{Field: "Name", Reason: "is already used by another inventory item"}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return storageErr("check inventory name", err)
			}
		}

		previous := decimal.Zero
		action := model.ActionCreateInventoryItem
		if existing == nil {
			saved = model.InventoryItem{
				Name:     req.Name,
				Quantity: req.Quantity,
				Unit:     req.Unit,
				MinStock: req.MinStock,
			}
			if err := s.inventoryRepo.Create(txCtx, &saved); err != nil {
				return storageErr("create inventory item", err)
			}
		} else {
			previous = existing.Quantity
			action = model.ActionUpdateInventoryItem
			saved = *existing
			saved.Name = req.Name
			saved.Quantity = req.Quantity
			saved.Unit = req.Unit
			saved.MinStock = req.MinStock
			if err := s.inventoryRepo.Update(txCtx, &saved); err != nil {
				return storageErr("update inventory item", err)
			}
		}

		delta := req.Quantity.Sub(previous)
		if !delta.IsZero() {
			movement := &model.StockMovement{
				InventoryItemID: saved.ID,
				Type:            model.MovementAdjustment,
				Requested:       delta,
				Applied:         delta,
				Shortfall:       decimal.Zero,
				QuantityAfter:   req.Quantity,
			}
			if err := s.movementRepo.Create(txCtx, movement); err != nil {
				return storageErr("record stock movement", err)
			}
		}

		if err := s.availability.RecomputeForInventory(txCtx, []uuid.UUID{saved.ID}); err != nil {
			return err
		}

		return recordAudit(txCtx, s.auditRepo, actor, action, saved.ID.String(), saved.Name, map[string]interface{}{
			"previous_quantity": previous,
			"quantity":          saved.Quantity,
			"unit":              saved.Unit,
			"min_stock":         saved.MinStock,
		})
	})
	if err != nil {
		return InventoryItemResponse{}, err
	}

	if saved.IsLowStock() {
		s.log.Info("inventory item at or below minimum stock",
			zap.String("inventory_item", saved.Name),
			zap.String("quantity", saved.Quantity.String()),
			zap.String("min_stock", saved.MinStock.String()))
	}
	return toInventoryResponse(&saved), nil
}

// lockExisting returns the row the request refers to, locked for update, or nil when it names a new item.
func (s *inventoryService) lockExisting(ctx context.Context, req UpsertInventoryItemRequest) (*model.InventoryItem, error) {
	var id uuid.UUID
	if req.ID != "" {
		parsed, err := parseID("id", req.ID)
		if err != nil {
			return nil, err
		}
		id = parsed
	} else {
		byName, err := s.inventoryRepo.FindByName(ctx, req.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, storageErr("find inventory item", err)
		}
		id = byName.ID
	}

	rows, err := s.inventoryRepo.FindByIDsForUpdate(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, storageErr("lock inventory item", err)
	}
	if len(rows) == 0 {
		return nil, notFoundOr("lock inventory item", "inventory item", gorm.ErrRecordNotFound)
	}
	return &rows[0], nil
}

// DeleteInventoryItem removes the row and its recipe requirements, then re-evaluates the menu
// items that used it. Those items lose a requirement, so they can only become more available.
func (s *inventoryService) DeleteInventoryItem(ctx context.Context, actor string, id string) error {
	itemID, err := parseID("id", id)
	if err != nil {
		return err
	}

	var name string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.inventoryRepo.FindByID(txCtx, itemID)
		if err != nil {
			return notFoundOr("find inventory item", "inventory item", err)
		}
		name = item.Name

		dependents, err := s.recipeRepo.MenuItemIDsByInventory(txCtx, []uuid.UUID{itemID})
		if err != nil {
			return storageErr("resolve dependent menu items", err)
		}

		if err := s.recipeRepo.DeleteByInventoryItem(txCtx, itemID); err != nil {
			return storageErr("delete recipe requirements", err)
		}
		if err := s.inventoryRepo.Delete(txCtx, itemID); err != nil {
			return storageErr("delete inventory item", err)
		}

		if len(dependents) > 0 {
			if err := s.availability.Recompute(txCtx, dependents); err != nil {
				return err
			}
		}

		return recordAudit(txCtx, s.auditRepo, actor, model.ActionDeleteInventoryItem, itemID.String(), item.Name,
			map[string]interface{}{"deleted": true, "affected_menu_items": len(dependents)})
	})
	if err != nil {
		return err
	}

	s.log.Info("inventory item deleted", zap.String("inventory_item", name), zap.String("actor", actor))
	return nil
}

func (s *inventoryService) ListMovements(ctx context.Context, id string, limit int) ([]StockMovementResponse, error) {
	itemID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.FindByID(ctx, itemID); err != nil {
		return nil, notFoundOr("find inventory item", "inventory item", err)
	}
	if limit <= 0 {
		limit = 50
	}

	movements, err := s.movementRepo.ListByInventoryItem(ctx, itemID, limit)
	if err != nil {
		return nil, storageErr("list stock movements", err)
	}

	res := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		orderID := ""
		if m.OrderID != nil {
			orderID = m.OrderID.String()
		}
		res = append(res, StockMovementResponse{
			ID:            m.ID.String(),
			OrderID:       orderID,
			Type:          m.Type,
			Requested:     m.Requested,
			Applied:       m.Applied,
			Shortfall:     m.Shortfall,
			QuantityAfter: m.QuantityAfter,
			CreatedAt:     m.CreatedAt,
		})
	}
	return res, nil
}

func toInventoryResponse(item *model.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:         item.ID.String(),
		Name:       item.Name,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
		MinStock:   item.MinStock,
		IsLowStock: item.IsLowStock(),
		UpdatedAt:  item.UpdatedAt,
	}
}
