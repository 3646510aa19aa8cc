package repository

import (
	"context"
	"errors"

	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepo interface {
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error)
	// NextSeq возвращает следующий номер в пределах дня (брать внутри транзакции)
	NextSeq(ctx context.Context, day string) (int, error)
	Create(ctx context.Context, inv *models.Invoice) error
	CountByDay(ctx context.Context, day string) (int64, error)
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepo(db *gorm.DB) InvoiceRepo { return &invoiceRepo{db: db} }

func (r *invoiceRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.WithContext(ctx).First(&inv, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *invoiceRepo) NextSeq(ctx context.Context, day string) (int, error) {
	type aggRow struct {
		MaxSeq int
	}
	var res aggRow
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("COALESCE(MAX(seq),0) AS max_seq").
		Where("day = ?", day).Scan(&res).Error
	return res.MaxSeq + 1, err
}

func (r *invoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) CountByDay(ctx context.Context, day string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("day = ?", day).Count(&cnt).Error
	return cnt, err
}
