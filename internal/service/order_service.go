package service

import (
	"context"
	"strings"
	"time"

	"restaurant/internal/model"
	"restaurant/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DTOs
type OrderLineRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" binding:"required"`
	CustomerEmail string             `json:"customer_email" binding:"omitempty,email"`
	PhoneNumber   string             `json:"phone_number" binding:"required"`
	Items         []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

type SetOrderStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	PreparationTime *int   `json:"preparation_time" binding:"omitempty,gt=0"` // minutes, approval only
}

type OrderItemResponse struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email,omitempty"`
	PhoneNumber     string              `json:"phone_number"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	PreparationTime *int                `json:"preparation_time"`
	ReadyAt         *time.Time          `json:"ready_at,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// allowedTransitions lists the statuses reachable from each non-terminal status.
var allowedTransitions = map[string][]string{
	model.OrderStatusPending:  {model.OrderStatusApproved, model.OrderStatusCompleted, model.OrderStatusDeclined},
	model.OrderStatusApproved: {model.OrderStatusCompleted},
}

var knownStatuses = []string{
	model.OrderStatusPending,
	model.OrderStatusApproved,
	model.OrderStatusCompleted,
	model.OrderStatusDeclined,
}

type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderResponse, error)
	SetOrderStatus(ctx context.Context, actor string, id string, req SetOrderStatusRequest) (OrderResponse, error)
	GetOrder(ctx context.Context, id string) (OrderResponse, error)
	ListOrders(ctx context.Context, status string, page, limit int) ([]OrderResponse, int64, error)
	LookupOrders(ctx context.Context, phone string) ([]OrderResponse, error)
}

type orderService struct {
	orderRepo          repository.OrderRepository
	auditRepo          repository.AuditRepository
	gate               ValidationGate
	deduction          DeductionEngine
	availability       AvailabilityEvaluator
	txManager          repository.TransactionManager
	defaultPrepMinutes int
	log                *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
	gate ValidationGate,
	deduction DeductionEngine,
	availability AvailabilityEvaluator,
	txManager repository.TransactionManager,
	defaultPrepMinutes int,
	log *zap.Logger,
) OrderService {
	if defaultPrepMinutes <= 0 {
		defaultPrepMinutes = 30
	}
	return &orderService{
		orderRepo:          orderRepo,
		auditRepo:          auditRepo,
		gate:               gate,
		deduction:          deduction,
		availability:       availability,
		txManager:          txManager,
		defaultPrepMinutes: defaultPrepMinutes,
		log:                log.Named("orders"),
	}
}

// CreateOrder validates every line against current stock and persists a pending order.
// Stock is not touched and availability is not recomputed: only completion consumes inventory.
func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderResponse, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := validateInput(req); err != nil {
		return OrderResponse{}, err
	}

	var created *model.Order
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		lines, err := s.gate.Validate(txCtx, req.Items)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range lines {
			total = total.Add(line.Subtotal())
		}

		order := model.Order{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			PhoneNumber:   req.PhoneNumber,
			Status:        model.OrderStatusPending,
			Total:         total,
		}
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return storageErr("create order", err)
		}

		type auditLine struct {
			MenuItemID string          `json:"menu_item_id"`
			Name       string          `json:"name"`
			Quantity   int             `json:"quantity"`
			Price      decimal.Decimal `json:"price"`
		}
		auditLines := make([]auditLine, 0, len(lines))

		for _, line := range lines {
			item := model.OrderItem{
				OrderID:      order.ID,
				MenuItemID:   line.MenuItem.ID,
				MenuItemName: line.MenuItem.Name,
				Quantity:     line.Quantity,
				Price:        line.MenuItem.Price,
			}
			if err := s.orderRepo.CreateItem(txCtx, &item); err != nil {
				return storageErr("create order item", err)
			}
			order.Items = append(order.Items, item)
			auditLines = append(auditLines, auditLine{
				MenuItemID: item.MenuItemID.String(),
				Name:       item.MenuItemName,
				Quantity:   item.Quantity,
				Price:      item.Price,
			})
		}

		if err := recordAudit(txCtx, s.auditRepo, order.PhoneNumber, model.ActionCreateOrder,
			order.ID.String(), order.CustomerName, map[string]interface{}{
				"total": order.Total,
				"items": auditLines,
			}); err != nil {
			return err
		}

		created = &order
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	s.log.Info("order created",
		zap.String("order_id", created.ID.String()),
		zap.Int("lines", len(created.Items)),
		zap.String("total", created.Total.String()))
	return toOrderResponse(created), nil
}

// SetOrderStatus moves an order through the state machine. The order row stays locked
// for the whole transaction, so concurrent requests for the same order serialize and
// completion deducts stock exactly once.
func (s *orderService) SetOrderStatus(ctx context.Context, actor string, id string, req SetOrderStatusRequest) (OrderResponse, error) {
	if err := validateInput(req); err != nil {
		return OrderResponse{}, err
	}
	orderID, err := parseID("id", id)
	if err != nil {
		return OrderResponse{}, err
	}
	target := strings.ToLower(strings.TrimSpace(req.Status))

	var (
		result  *model.Order
		from    string
		changed bool
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return notFoundOr("lock order", "order", err)
		}
		from = order.Status

		if from == model.OrderStatusCompleted && target == model.OrderStatusCompleted {
			result = order
			return nil
		}
		if !canTransition(from, target) {
			return &TransitionError{From: from, To: target}
		}

		var (
			prep   *int
			action string
		)
		switch target {
		case model.OrderStatusApproved:
			minutes := s.defaultPrepMinutes
			if req.PreparationTime != nil {
				minutes = *req.PreparationTime
			}
			prep = &minutes
			action = model.ActionApproveOrder
		case model.OrderStatusDeclined:
			action = model.ActionDeclineOrder
		case model.OrderStatusCompleted:
			touched, err := s.deduction.Deduct(txCtx, order)
			if err != nil {
				return err
			}
			if err := s.availability.RecomputeForInventory(txCtx, touched); err != nil {
				return err
			}
			action = model.ActionCompleteOrder
		}

		if err := s.orderRepo.UpdateStatus(txCtx, order.ID, target, prep); err != nil {
			return storageErr("update order status", err)
		}

		details := map[string]interface{}{"from": from, "to": target}
		if prep != nil {
			details["preparation_time"] = *prep
		}
		if err := recordAudit(txCtx, s.auditRepo, actor, action, order.ID.String(), order.CustomerName, details); err != nil {
			return err
		}

		result, err = s.orderRepo.FindByIDWithItems(txCtx, order.ID)
		if err != nil {
			return storageErr("reload order", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	if changed {
		s.log.Info("order status changed",
			zap.String("order_id", orderID.String()),
			zap.String("from", from),
			zap.String("to", target),
			zap.String("actor", actor))
	}
	return toOrderResponse(result), nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (OrderResponse, error) {
	orderID, err := parseID("id", id)
	if err != nil {
		return OrderResponse{}, err
	}
	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return OrderResponse{}, notFoundOr("find order", "order", err)
	}
	return toOrderResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, status string, page, limit int) ([]OrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !contains(knownStatuses, status) {
		return nil, 0, &InputError{Field: "status", Reason: "must be one of " + strings.Join(knownStatuses, " ")}
	}

	orders, total, err := s.orderRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, storageErr("list orders", err)
	}

	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}
	return res, total, nil
}

// LookupOrders finds a customer's orders by phone number, newest first.
func (s *orderService) LookupOrders(ctx context.Context, phone string) ([]OrderResponse, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, &InputError{Field: "phone", Reason: "is required"}
	}

	orders, err := s.orderRepo.ListByPhone(ctx, phone)
	if err != nil {
		return nil, storageErr("lookup orders", err)
	}

	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}
	return res, nil
}

func canTransition(from, to string) bool {
	return contains(allowedTransitions[from], to)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func toOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:           it.ID.String(),
			MenuItemID:   it.MenuItemID.String(),
			MenuItemName: it.MenuItemName,
			Quantity:     it.Quantity,
			Price:        it.Price,
		})
	}

	res := OrderResponse{
		ID:              o.ID.String(),
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		PhoneNumber:     o.PhoneNumber,
		Status:          o.Status,
		Total:           o.Total,
		PreparationTime: o.PreparationTime,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Status == model.OrderStatusApproved && o.PreparationTime != nil {
		readyAt := o.UpdatedAt.Add(time.Duration(*o.PreparationTime) * time.Minute)
		res.ReadyAt = &readyAt
	}
	return res
}
