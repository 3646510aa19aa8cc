package repository

import (
	"context"
	"errors"

	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, cancelReason *string) error
	UpdateReturn(ctx context.Context, id uuid.UUID, rs models.ReturnStatus, reason *string) error
	UpdateTracking(ctx context.Context, id uuid.UUID, tracking string) error
	SetInvoiceID(ctx context.Context, id, invoiceID uuid.UUID) error
	List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error)

	WithTx(ctx context.Context, fn func(txOrders OrderRepo, txItems OrderItemRepo) error) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, cancelReason *string) error {
	upd := map[string]any{"status": status}
	if cancelReason != nil {
		upd["cancel_reason"] = cancelReason
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(upd).Error
}

func (r *orderRepo) UpdateReturn(ctx context.Context, id uuid.UUID, rs models.ReturnStatus, reason *string) error {
	upd := map[string]any{"return_status": rs}
	if reason != nil {
		upd["return_reason"] = reason
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(upd).Error
}

func (r *orderRepo) UpdateTracking(ctx context.Context, id uuid.UUID, tracking string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("tracking_number", tracking).Error
}

func (r *orderRepo) SetInvoiceID(ctx context.Context, id, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("invoice_id", invoiceID).Error
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Items").Find(&list).Error
	return list, total, err
}

func (r *orderRepo) WithTx(ctx context.Context, fn func(txOrders OrderRepo, txItems OrderItemRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderRepo{db: tx}, &orderItemRepo{db: tx})
	})
}
