package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

var pincodeRe = regexp.MustCompile(`^[0-9]{4,8}$`)

type orderService struct {
	repo   *repository.Repository
	events EventBus
	now    func() time.Time
}

func NewOrderService(repo *repository.Repository, events EventBus) OrderService {
	return &orderService{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

func requireAuth(ctx context.Context) (uuid.UUID, Role, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", ErrUnauthorized
	}
	role, _ := RoleFromContext(ctx) // если нет — считаем customer по умолчанию
	return uid, role, nil
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if strings.TrimSpace(in.Customer.City) == "" ||
		strings.TrimSpace(in.Customer.State) == "" ||
		strings.TrimSpace(in.Customer.Pincode) == "" {
		return nil, ErrMissingAddress
	}
	if !pincodeRe.MatchString(in.Customer.Pincode) {
		return nil, ErrInvalidPincode
	}

	status := in.Status
	if status == "" {
		status = models.OrderStatusPending
	}

	ids := make([]uuid.UUID, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity == 0 {
			return nil, ErrQuantityInvalid
		}
		ids = append(ids, it.ProductID)
	}

	products, err := s.repo.Products.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var (
		order    *models.Order
		now      = s.now()
		itemsDB  []models.OrderItem
		subtotal int64
	)

	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}

		line := int64(it.Quantity) * p.PricePaise
		subtotal += line

		var size *string
		if it.Size != "" {
			sz := it.Size
			size = &sz
		}

		itemsDB = append(itemsDB, models.OrderItem{
			ProductID:      it.ProductID,
			Title:          p.Title, // снимок названия на момент заказа
			Size:           size,
			Quantity:       it.Quantity,
			UnitPricePaise: p.PricePaise,
			LineTotalPaise: line,
			CreatedAt:      now,
		})
	}

	total := subtotal - in.DiscountPaise + in.ShippingPaise + in.TaxPaise
	if in.DeclaredTotalPaise > 0 {
		total = in.DeclaredTotalPaise
	}

	// Резервирование и создание заказа — одна транзакция: провал любой
	// позиции откатывает все уже применённые списания
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		for _, it := range in.Items {
			p := byID[it.ProductID]
			if err := s.reserve(ctx, tx, p, it); err != nil {
				return err
			}
		}

		order = &models.Order{
			UserID:        userID,
			CustomerName:  strings.TrimSpace(in.Customer.Name),
			Phone:         strings.TrimSpace(in.Customer.Phone),
			Email:         strings.TrimSpace(in.Customer.Email),
			Address:       strings.TrimSpace(in.Customer.Address),
			City:          strings.TrimSpace(in.Customer.City),
			State:         strings.TrimSpace(in.Customer.State),
			Pincode:       in.Customer.Pincode,
			SubtotalPaise: subtotal,
			DiscountPaise: in.DiscountPaise,
			ShippingPaise: in.ShippingPaise,
			TaxPaise:      in.TaxPaise,
			TotalPaise:    total,
			Status:        status,
			ReturnStatus:  models.ReturnNone,
			PaymentMethod: in.PaymentMethod,
			UPIReference:  in.UPIReference,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		for i := range itemsDB {
			itemsDB[i].OrderID = order.ID
		}
		if err := tx.OrderItems.BulkCreate(ctx, itemsDB); err != nil {
			return err
		}

		ordWith, err := tx.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return err
		}
		order = ordWith
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		evItems := make([]OrderItemEvent, 0, len(itemsDB))
		for _, it := range itemsDB {
			sz := ""
			if it.Size != nil {
				sz = *it.Size
			}
			evItems = append(evItems, OrderItemEvent{
				ProductID:  it.ProductID,
				Title:      it.Title,
				Size:       sz,
				Quantity:   it.Quantity,
				PricePaise: it.UnitPricePaise,
				LineTotal:  it.LineTotalPaise,
			})
		}
		_ = s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
			OrderID:    order.ID,
			UserID:     order.UserID,
			Email:      order.Email,
			Items:      evItems,
			TotalPaise: order.TotalPaise,
			CreatedAt:  order.CreatedAt,
		})
	}

	return order, nil
}

// reserve атомарно списывает остаток по одной позиции.
// Товар без учёта (или размер без счётчика) — no-op.
func (s *orderService) reserve(ctx context.Context, tx *repository.Repository, p models.Product, it CreateOrderItem) error {
	switch p.StockTracking {
	case models.StockSized:
		if it.Size == "" {
			return nil
		}
		row, err := tx.Stock.GetSize(ctx, p.ID, it.Size)
		if err != nil {
			return err
		}
		if row == nil {
			return nil // размер не под управляемым учётом
		}
		ok, err := tx.Stock.TryDecrementSize(ctx, p.ID, it.Size, int32(it.Quantity))
		if err != nil {
			return err
		}
		if !ok {
			return &InsufficientStockError{
				ProductID: p.ID,
				Size:      it.Size,
				Requested: it.Quantity,
				Available: row.Stock,
			}
		}
	case models.StockScalar:
		ok, err := tx.Stock.TryDecrementScalar(ctx, p.ID, int32(it.Quantity))
		if err != nil {
			return err
		}
		if !ok {
			avail, err := tx.Stock.GetScalar(ctx, p.ID)
			if err != nil {
				return err
			}
			return &InsufficientStockError{
				ProductID: p.ID,
				Requested: it.Quantity,
				Available: avail,
			}
		}
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if role != RoleAdmin && ord.UserID != userID {
		return nil, ErrForbidden
	}
	return ord, nil
}

func (s *orderService) ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}

	if role != RoleAdmin {
		f.UserID = &userID
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	ordersPtr, total, err := s.repo.Orders.List(ctx, repository.OrderListFilter{
		UserID: f.UserID,
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, len(ordersPtr))
	for i, o := range ordersPtr {
		orders[i] = *o
	}
	return orders, total, nil
}

func (s *orderService) SetStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != RoleAdmin {
		return nil, ErrForbidden
	}
	if _, ok := statusToWire[status]; !ok {
		return nil, ErrInvalidStatus
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	if !CanSetStatus(status, ord.ReturnStatus) {
		return nil, ErrInvalidState
	}

	prev := ord.Status
	if err := s.repo.Orders.UpdateStatus(ctx, id, status, nil); err != nil {
		return nil, err
	}
	ord, err = s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyStatus(ctx, ord, prev, status)
	return ord, nil
}

func (s *orderService) notifyStatus(ctx context.Context, ord *models.Order, prev, next models.OrderStatus) {
	if s.events == nil || !NotifyOnStatus(prev, next) {
		return
	}
	tracking := ""
	if ord.TrackingNumber != nil {
		tracking = *ord.TrackingNumber
	}
	_ = s.events.PublishOrderStatusChanged(ctx, OrderStatusChangedEvent{
		OrderID:   ord.ID,
		UserID:    ord.UserID,
		Email:     ord.Email,
		OldStatus: WireStatus(prev),
		NewStatus: WireStatus(next),
		Tracking:  tracking,
		ChangedAt: s.now(),
	})
}

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID, reason *string) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if role != RoleAdmin && ord.UserID != userID {
		return nil, ErrForbidden
	}
	if !CanCancel(ord.Status) {
		return nil, ErrInvalidState
	}

	sanitized := s.sanitizeReason(reason)
	var reasonPtr *string
	if sanitized != "" {
		reasonPtr = &sanitized
	}

	// Отмена возвращает списанные остатки — в одной транзакции со сменой статуса
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Orders.UpdateStatus(ctx, id, models.OrderStatusCancelled, reasonPtr); err != nil {
			return err
		}
		return s.restock(ctx, tx, ord.Items)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Orders.GetByID(ctx, id)
}

func (s *orderService) restock(ctx context.Context, tx *repository.Repository, items []models.OrderItem) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := tx.Products.BatchGetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue // товар удалён — возвращать некуда
		}
		switch p.StockTracking {
		case models.StockSized:
			if it.Size == nil {
				continue
			}
			row, err := tx.Stock.GetSize(ctx, p.ID, *it.Size)
			if err != nil {
				return err
			}
			if row == nil {
				continue
			}
			if err := tx.Stock.IncrementSize(ctx, p.ID, *it.Size, int32(it.Quantity)); err != nil {
				return err
			}
		case models.StockScalar:
			if err := tx.Stock.IncrementScalar(ctx, p.ID, int32(it.Quantity)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *orderService) RequestReturn(ctx context.Context, id uuid.UUID, reason string) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if ord.UserID != userID {
		return nil, ErrForbidden
	}
	if !CanRequestReturn(ord.Status, ord.ReturnStatus) {
		return nil, ErrInvalidState
	}

	sanitized := s.sanitizeReason(&reason)
	if err := s.repo.Orders.UpdateReturn(ctx, id, models.ReturnPending, &sanitized); err != nil {
		return nil, err
	}
	return s.repo.Orders.GetByID(ctx, id)
}

func (s *orderService) ApproveReturn(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.decideReturn(ctx, id, true, nil)
}

func (s *orderService) RejectReturn(ctx context.Context, id uuid.UUID, reason *string) (*models.Order, error) {
	return s.decideReturn(ctx, id, false, reason)
}

func (s *orderService) decideReturn(ctx context.Context, id uuid.UUID, approve bool, reason *string) (*models.Order, error) {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != RoleAdmin {
		return nil, ErrForbidden
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if !CanDecideReturn(ord.ReturnStatus) {
		return nil, ErrInvalidState
	}

	next := models.ReturnRejected
	if approve {
		next = models.ReturnApproved
	}
	sanitized := s.sanitizeReason(reason)
	var reasonPtr *string
	if sanitized != "" {
		reasonPtr = &sanitized
	}

	if err := s.repo.Orders.UpdateReturn(ctx, id, next, reasonPtr); err != nil {
		return nil, err
	}
	ord, err = s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishReturnDecision(ctx, ReturnDecisionEvent{
			OrderID:   ord.ID,
			UserID:    ord.UserID,
			Email:     ord.Email,
			Approved:  approve,
			Reason:    sanitized,
			DecidedAt: s.now(),
		})
	}
	return ord, nil
}

func (s *orderService) AdminUpdate(ctx context.Context, id uuid.UUID, in AdminUpdateInput) (*models.Order, error) {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != RoleAdmin {
		return nil, ErrForbidden
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	prev := ord.Status

	if in.TrackingNumber != nil {
		if err := s.repo.Orders.UpdateTracking(ctx, id, strings.TrimSpace(*in.TrackingNumber)); err != nil {
			return nil, err
		}
	}

	if in.Status != nil {
		if _, ok := statusToWire[*in.Status]; !ok {
			return nil, ErrInvalidStatus
		}
		if !CanSetStatus(*in.Status, ord.ReturnStatus) {
			return nil, ErrInvalidState
		}
		if err := s.repo.Orders.UpdateStatus(ctx, id, *in.Status, nil); err != nil {
			return nil, err
		}
	}

	if in.ReturnDecision != nil {
		if *in.ReturnDecision != "approve" && *in.ReturnDecision != "reject" {
			return nil, ErrInvalidStatus
		}
		if !CanDecideReturn(ord.ReturnStatus) {
			return nil, ErrInvalidState
		}
		next := models.ReturnRejected
		approve := *in.ReturnDecision == "approve"
		if approve {
			next = models.ReturnApproved
		}
		sanitized := s.sanitizeReason(in.ReturnReason)
		var reasonPtr *string
		if sanitized != "" {
			reasonPtr = &sanitized
		}
		if err := s.repo.Orders.UpdateReturn(ctx, id, next, reasonPtr); err != nil {
			return nil, err
		}
		if s.events != nil {
			_ = s.events.PublishReturnDecision(ctx, ReturnDecisionEvent{
				OrderID:   ord.ID,
				UserID:    ord.UserID,
				Email:     ord.Email,
				Approved:  approve,
				Reason:    sanitized,
				DecidedAt: s.now(),
			})
		}
	}

	ord, err = s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		s.notifyStatus(ctx, ord, prev, *in.Status)
	}
	return ord, nil
}

func (s *orderService) sanitizeReason(reason *string) string {
	if reason == nil {
		return ""
	}
	r := strings.TrimSpace(*reason)
	if len(r) > 500 {
		r = r[:500]
	}
	return r
}
