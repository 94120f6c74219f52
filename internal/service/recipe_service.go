package service

import (
	"context"
	"errors"

	"restaurant/internal/model"
	"restaurant/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DTOs
type UpsertRecipeRequirementRequest struct {
	ID               string          `json:"id" binding:"omitempty,uuid"` // optional; otherwise matched by the pair
	MenuItemID       string          `json:"menu_item_id" binding:"required,uuid"`
	InventoryItemID  string          `json:"inventory_item_id" binding:"required,uuid"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

type RecipeRequirementResponse struct {
	ID               string          `json:"id"`
	MenuItemID       string          `json:"menu_item_id"`
	InventoryItemID  string          `json:"inventory_item_id"`
	InventoryName    string          `json:"inventory_name,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

type RecipeService interface {
	ListRecipe(ctx context.Context, menuItemID string) ([]RecipeRequirementResponse, error)
	UpsertRecipeRequirement(ctx context.Context, actor string, req UpsertRecipeRequirementRequest) (RecipeRequirementResponse, error)
	DeleteRecipeRequirement(ctx context.Context, actor string, id string) error
}

type recipeService struct {
	recipeRepo    repository.RecipeRepository
	menuRepo      repository.MenuRepository
	inventoryRepo repository.InventoryRepository
	auditRepo     repository.AuditRepository
	availability  AvailabilityEvaluator
	txManager     repository.TransactionManager
	log           *zap.Logger
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	menuRepo repository.MenuRepository,
	inventoryRepo repository.InventoryRepository,
	auditRepo repository.AuditRepository,
	availability AvailabilityEvaluator,
	txManager repository.TransactionManager,
	log *zap.Logger,
) RecipeService {
	return &recipeService{
		recipeRepo:    recipeRepo,
		menuRepo:      menuRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		availability:  availability,
		txManager:     txManager,
		log:           log.Named("recipes"),
	}
}

func (s *recipeService) ListRecipe(ctx context.Context, menuItemID string) ([]RecipeRequirementResponse, error) {
	id, err := parseID("menu_item_id", menuItemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.menuRepo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr("find menu item", "menu item", err)
	}

	reqs, err := s.recipeRepo.ListByMenuItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, storageErr("list recipe", err)
	}

	res := make([]RecipeRequirementResponse, 0, len(reqs))
	for i := range reqs {
		inv, err := s.inventoryRepo.FindByID(ctx, reqs[i].InventoryItemID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageErr("find inventory item", err)
		}
		res = append(res, toRecipeResponse(&reqs[i], inv))
	}
	return res, nil
}

// UpsertRecipeRequirement creates or updates one (menu item, inventory item) requirement and
// re-evaluates the availability of every menu item whose recipe changed.
func (s *recipeService) UpsertRecipeRequirement(ctx context.Context, actor string, req UpsertRecipeRequirementRequest) (RecipeRequirementResponse, error) {
	if err := validateInput(req); err != nil {
		return RecipeRequirementResponse{}, err
	}
	if !req.QuantityRequired.IsPositive() {
		return RecipeRequirementResponse{}, &InputError{Field: "QuantityRequired", Reason: "must be greater than 0"}
	}
	if err := checkScale("QuantityRequired", req.QuantityRequired, quantityPlaces); err != nil {
		return RecipeRequirementResponse{}, err
	}
	menuItemID, err := parseID("menu_item_id", req.MenuItemID)
	if err != nil {
		return RecipeRequirementResponse{}, err
	}
	inventoryItemID, err := parseID("inventory_item_id", req.InventoryItemID)
	if err != nil {
		return RecipeRequirementResponse{}, err
	}

	var (
		saved model.RecipeRequirement
		inv   *model.InventoryItem
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		menuItem, err := s.menuRepo.FindByID(txCtx, menuItemID)
		if err != nil {
			return notFoundOr("find menu item", "menu item", err)
		}
		inv, err = s.inventoryRepo.FindByID(txCtx, inventoryItemID)
		if err != nil {
			return notFoundOr("find inventory item", "inventory item", err)
		}

		existing, err := s.findExisting(txCtx, req.ID, menuItemID, inventoryItemID)
		if err != nil {
			return err
		}

		affected := []uuid.UUID{menuItemID}
		action := model.ActionUpsertRecipe
		if existing == nil {
			saved = model.RecipeRequirement{
				MenuItemID:       menuItemID,
				InventoryItemID:  inventoryItemID,
				QuantityRequired: req.QuantityRequired,
			}
			if err := s.recipeRepo.Create(txCtx, &saved); err != nil {
				return storageErr("create recipe requirement", err)
			}
		} else {
			if existing.MenuItemID != menuItemID {
				affected = append(affected, existing.MenuItemID)
			}
			saved = *existing
			saved.MenuItemID = menuItemID
			saved.InventoryItemID = inventoryItemID
			saved.QuantityRequired = req.QuantityRequired
			if err := s.recipeRepo.Update(txCtx, &saved); err != nil {
				return storageErr("update recipe requirement", err)
			}
		}

		if err := s.availability.Recompute(txCtx, affected); err != nil {
			return err
		}

		return recordAudit(txCtx, s.auditRepo, actor, action, saved.ID.String(), menuItem.Name, map[string]interface{}{
			"menu_item_id":      menuItemID.String(),
			"inventory_item":    inv.Name,
			"quantity_required": saved.QuantityRequired,
		})
	})
	if err != nil {
		return RecipeRequirementResponse{}, err
	}

	s.log.Debug("recipe requirement saved",
		zap.String("menu_item_id", saved.MenuItemID.String()),
		zap.String("inventory_item", inv.Name),
		zap.String("quantity_required", saved.QuantityRequired.String()))
	return toRecipeResponse(&saved, inv), nil
}

// findExisting resolves the row an upsert targets: by id when given, else by the
// (menu item, inventory item) pair. A nil result means a new row.
func (s *recipeService) findExisting(ctx context.Context, rawID string, menuItemID, inventoryItemID uuid.UUID) (*model.RecipeRequirement, error) {
	byPair, err := s.recipeRepo.FindByPair(ctx, menuItemID, inventoryItemID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr("find recipe requirement", err)
	}

	if rawID == "" {
		return byPair, nil
	}

	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	existing, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("find recipe requirement", "recipe requirement", err)
	}
	if byPair != nil && byPair.ID != existing.ID {
		return nil, &InputError{Field: "InventoryItemID", Reason: "already has a requirement for this menu item"}
	}
	return existing, nil
}

func (s *recipeService) DeleteRecipeRequirement(ctx context.Context, actor string, id string) error {
	reqID, err := parseID("id", id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.recipeRepo.FindByID(txCtx, reqID)
		if err != nil {
			return notFoundOr("find recipe requirement", "recipe requirement", err)
		}

		if err := s.recipeRepo.Delete(txCtx, reqID); err != nil {
			return storageErr("delete recipe requirement", err)
		}

		if err := s.availability.Recompute(txCtx, []uuid.UUID{existing.MenuItemID}); err != nil {
			return err
		}

		return recordAudit(txCtx, s.auditRepo, actor, model.ActionDeleteRecipe, reqID.String(), "",
			map[string]interface{}{
				"menu_item_id":      existing.MenuItemID.String(),
				"inventory_item_id": existing.InventoryItemID.String(),
			})
	})
}

func toRecipeResponse(req *model.RecipeRequirement, inv *model.InventoryItem) RecipeRequirementResponse {
	res := RecipeRequirementResponse{
		ID:               req.ID.String(),
		MenuItemID:       req.MenuItemID.String(),
		InventoryItemID:  req.InventoryItemID.String(),
		QuantityRequired: req.QuantityRequired,
	}
	if inv != nil {
		res.InventoryName = inv.Name
		res.Unit = inv.Unit
	}
	return res
}
