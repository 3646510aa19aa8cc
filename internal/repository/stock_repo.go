package repository

import (
	"context"
	"errors"

	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepo — леджер остатков. Все списания — атомарные условные UPDATE,
// поэтому два конкурирующих заказа не могут одновременно пройти проверку.
type StockRepo interface {
	GetScalar(ctx context.Context, productID uuid.UUID) (int32, error)
	GetSize(ctx context.Context, productID uuid.UUID, size string) (*models.ProductSize, error)

	// TryDecrementScalar: if stock >= qty then stock -= qty
	TryDecrementScalar(ctx context.Context, productID uuid.UUID, qty int32) (bool, error)
	// TryDecrementSize: то же для счётчика конкретного размера
	TryDecrementSize(ctx context.Context, productID uuid.UUID, size string, qty int32) (bool, error)

	// Возврат на склад (отмена заказа)
	IncrementScalar(ctx context.Context, productID uuid.UUID, qty int32) error
	IncrementSize(ctx context.Context, productID uuid.UUID, size string, qty int32) error

	SetScalar(ctx context.Context, productID uuid.UUID, stock int32) error
	UpsertSize(ctx context.Context, productID uuid.UUID, size string, stock int32) error
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepo(db *gorm.DB) StockRepo { return &stockRepo{db: db} }

func (r *stockRepo) GetScalar(ctx context.Context, productID uuid.UUID) (int32, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Select("stock").First(&p, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return p.Stock, err
}

func (r *stockRepo) GetSize(ctx context.Context, productID uuid.UUID, size string) (*models.ProductSize, error) {
	var ps models.ProductSize
	err := r.db.WithContext(ctx).First(&ps, "product_id = ? AND size = ?", productID, size).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ps, err
}

func (r *stockRepo) TryDecrementScalar(ctx context.Context, productID uuid.UUID, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock = stock - @q,
    updated_at = now()
WHERE id = @pid
  AND stock >= @q
`, map[string]any{
		"pid": productID,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *stockRepo) TryDecrementSize(ctx context.Context, productID uuid.UUID, size string, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE product_sizes
SET stock = stock - @q,
    updated_at = now()
WHERE product_id = @pid
  AND size = @size
  AND stock >= @q
`, map[string]any{
		"pid":  productID,
		"size": size,
		"q":    qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *stockRepo) IncrementScalar(ctx context.Context, productID uuid.UUID, qty int32) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock = stock + @q,
    updated_at = now()
WHERE id = @pid
`, map[string]any{
		"pid": productID,
		"q":   qty,
	}).Error
}

func (r *stockRepo) IncrementSize(ctx context.Context, productID uuid.UUID, size string, qty int32) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE product_sizes
SET stock = stock + @q,
    updated_at = now()
WHERE product_id = @pid
  AND size = @size
`, map[string]any{
		"pid":  productID,
		"size": size,
		"q":    qty,
	}).Error
}

func (r *stockRepo) SetScalar(ctx context.Context, productID uuid.UUID, stock int32) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Update("stock", stock).Error
}

func (r *stockRepo) UpsertSize(ctx context.Context, productID uuid.UUID, size string, stock int32) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]any{"stock": stock, "updated_at": gorm.Expr("now()")}),
	}).Create(&models.ProductSize{ProductID: productID, Size: size, Stock: stock}).Error
}
