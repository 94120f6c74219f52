package service

import (
	"context"
	"strings"
	"time"

	"restaurant/internal/model"
	"restaurant/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DTOs
type CreateMenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	IsOnMenu    *bool           `json:"is_on_menu"` // defaults to true
}

type UpdateMenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	IsOnMenu    *bool           `json:"is_on_menu"` // nil keeps the current value
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type MenuItemResponse struct {
	ID          string                      `json:"id"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Price       decimal.Decimal             `json:"price"`
	Category    string                      `json:"category"`
	ImageURL    string                      `json:"image_url"`
	IsAvailable bool                        `json:"is_available"`
	IsOnMenu    bool                        `json:"is_on_menu"`
	Recipe      []RecipeRequirementResponse `json:"recipe,omitempty"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

type MenuService interface {
	GetMenu(ctx context.Context, onMenuOnly bool, category string) ([]MenuItemResponse, error)
	GetMenuItem(ctx context.Context, id string) (MenuItemResponse, error)
	CreateMenuItem(ctx context.Context, actor string, req CreateMenuItemRequest) (MenuItemResponse, error)
	UpdateMenuItem(ctx context.Context, actor string, id string, req UpdateMenuItemRequest) (MenuItemResponse, error)
	DeleteMenuItem(ctx context.Context, actor string, id string) error
	SetAvailability(ctx context.Context, actor string, id string, req SetAvailabilityRequest) (MenuItemResponse, error)
}

type menuService struct {
	menuRepo     repository.MenuRepository
	recipeRepo   repository.RecipeRepository
	auditRepo    repository.AuditRepository
	availability AvailabilityEvaluator
	txManager    repository.TransactionManager
	log          *zap.Logger
}

func NewMenuService(
	menuRepo repository.MenuRepository,
	recipeRepo repository.RecipeRepository,
	auditRepo repository.AuditRepository,
	availability AvailabilityEvaluator,
	txManager repository.TransactionManager,
	log *zap.Logger,
) MenuService {
	return &menuService{
		menuRepo:     menuRepo,
		recipeRepo:   recipeRepo,
		auditRepo:    auditRepo,
		availability: availability,
		txManager:    txManager,
		log:          log.Named("menu"),
	}
}

// GetMenu lists menu items with their current availability. Customers get onMenuOnly=true.
func (s *menuService) GetMenu(ctx context.Context, onMenuOnly bool, category string) ([]MenuItemResponse, error) {
	items, err := s.menuRepo.List(ctx, onMenuOnly, strings.TrimSpace(category))
	if err != nil {
		return nil, storageErr("list menu", err)
	}

	res := make([]MenuItemResponse, 0, len(items))
	for i := range items {
		res = append(res, toMenuItemResponse(&items[i]))
	}
	return res, nil
}

func (s *menuService) GetMenuItem(ctx context.Context, id string) (MenuItemResponse, error) {
	menuItemID, err := parseID("id", id)
	if err != nil {
		return MenuItemResponse{}, err
	}
	item, err := s.menuRepo.FindByIDWithRecipe(ctx, menuItemID)
	if err != nil {
		return MenuItemResponse{}, notFoundOr("find menu item", "menu item", err)
	}
	return toMenuItemResponse(item), nil
}

func (s *menuService) CreateMenuItem(ctx context.Context, actor string, req CreateMenuItemRequest) (MenuItemResponse, error) {
	if err := validateInput(req); err != nil {
		return MenuItemResponse{}, err
	}
	if !req.Price.IsPositive() {
		return MenuItemResponse{}, &InputError{Field: "Price", Reason: "must be greater than 0"}
	}
	if err := checkScale("Price", req.Price, moneyPlaces); err != nil {
		return MenuItemResponse{}, err
	}

	onMenu := true
	if req.IsOnMenu != nil {
		onMenu = *req.IsOnMenu
	}

	var created *model.MenuItem
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item := model.MenuItem{
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			Price:       req.Price,
			Category:    strings.TrimSpace(req.Category),
			ImageURL:    req.ImageURL,
			IsOnMenu:    onMenu,
		}
		if err := s.menuRepo.Create(txCtx, &item); err != nil {
			return storageErr("create menu item", err)
		}

		if err := s.availability.Recompute(txCtx, []uuid.UUID{item.ID}); err != nil {
			return err
		}

		if err := recordAudit(txCtx, s.auditRepo, actor, model.ActionCreateMenuItem, item.ID.String(), item.Name, req); err != nil {
			return err
		}

		reloaded, err := s.menuRepo.FindByID(txCtx, item.ID)
		if err != nil {
			return storageErr("reload menu item", err)
		}
		created = reloaded
		return nil
	})
	if err != nil {
		return MenuItemResponse{}, err
	}

	return toMenuItemResponse(created), nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, actor string, id string, req UpdateMenuItemRequest) (MenuItemResponse, error) {
	if err := validateInput(req); err != nil {
		return MenuItemResponse{}, err
	}
	if !req.Price.IsPositive() {
		return MenuItemResponse{}, &InputError{Field: "Price", Reason: "must be greater than 0"}
	}
	if err := checkScale("Price", req.Price, moneyPlaces); err != nil {
		return MenuItemResponse{}, err
	}
	menuItemID, err := parseID("id", id)
	if err != nil {
		return MenuItemResponse{}, err
	}

	var updated *model.MenuItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.menuRepo.FindByID(txCtx, menuItemID)
		if err != nil {
			return notFoundOr("find menu item", "menu item", err)
		}

		item.Name = strings.TrimSpace(req.Name)
		item.Description = req.Description
		item.Price = req.Price
		item.Category = strings.TrimSpace(req.Category)
		item.ImageURL = req.ImageURL
		if req.IsOnMenu != nil {
			item.IsOnMenu = *req.IsOnMenu
		}
		if err := s.menuRepo.Update(txCtx, item); err != nil {
			return storageErr("update menu item", err)
		}

		if err := recordAudit(txCtx, s.auditRepo, actor, model.ActionUpdateMenuItem, item.ID.String(), item.Name, req); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return MenuItemResponse{}, err
	}

	return toMenuItemResponse(updated), nil
}

func (s *menuService) DeleteMenuItem(ctx context.Context, actor string, id string) error {
	menuItemID, err := parseID("id", id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.menuRepo.FindByID(txCtx, menuItemID)
		if err != nil {
			return notFoundOr("find menu item", "menu item", err)
		}

		if err := s.recipeRepo.DeleteByMenuItem(txCtx, menuItemID); err != nil {
			return storageErr("delete recipe requirements", err)
		}
		if err := s.menuRepo.Delete(txCtx, menuItemID); err != nil {
			return storageErr("delete menu item", err)
		}

		return recordAudit(txCtx, s.auditRepo, actor, model.ActionDeleteMenuItem, item.ID.String(), item.Name,
			map[string]interface{}{"deleted": true})
	})
}

// SetAvailability is the manual override. Marking an item available is refused while its
// ingredients cannot cover one unit, and any later stock or recipe change re-derives the flag.
func (s *menuService) SetAvailability(ctx context.Context, actor string, id string, req SetAvailabilityRequest) (MenuItemResponse, error) {
	if err := validateInput(req); err != nil {
		return MenuItemResponse{}, err
	}
	menuItemID, err := parseID("id", id)
	if err != nil {
		return MenuItemResponse{}, err
	}
	available := *req.Available

	var result *model.MenuItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.menuRepo.FindByID(txCtx, menuItemID)
		if err != nil {
			return notFoundOr("find menu item", "menu item", err)
		}

		if available {
			ok, err := s.availability.Check(txCtx, menuItemID)
			if err != nil {
				return err
			}
			if !ok {
				return &ItemError{Kind: ErrItemUnavailable, MenuItemID: item.ID, Name: item.Name}
			}
		}

		if err := s.menuRepo.SetAvailability(txCtx, []uuid.UUID{menuItemID}, available); err != nil {
			return storageErr("update availability", err)
		}
		item.IsAvailable = available

		if err := recordAudit(txCtx, s.auditRepo, actor, model.ActionToggleAvailability, item.ID.String(), item.Name,
			map[string]interface{}{"available": available}); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return MenuItemResponse{}, err
	}

	s.log.Info("menu item availability set manually",
		zap.String("menu_item", result.Name),
		zap.Bool("available", available),
		zap.String("actor", actor))
	return toMenuItemResponse(result), nil
}

func toMenuItemResponse(item *model.MenuItem) MenuItemResponse {
	res := MenuItemResponse{
		ID:          item.ID.String(),
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		IsAvailable: item.IsAvailable,
		IsOnMenu:    item.IsOnMenu,
		UpdatedAt:   item.UpdatedAt,
	}
	for _, req := range item.Recipe {
		res.Recipe = append(res.Recipe, toRecipeResponse(&req, nil))
	}
	return res
}
