package repository

import (
	"context"
	"time"

	"storefront-service/internal/models"

	"gorm.io/gorm"
)

type PeriodTotals struct {
	Orders       int64
	RevenuePaise int64
}

type DailyRow struct {
	Day          time.Time
	Orders       int64
	RevenuePaise int64
}

type StatusCount struct {
	Status models.OrderStatus
	Count  int64
}

// StatsRepo — агрегаты для админской панели. Отменённые заказы
// не считаются выручкой.
type StatsRepo interface {
	Totals(ctx context.Context, from, to time.Time) (PeriodTotals, error)
	Daily(ctx context.Context, from, to time.Time) ([]DailyRow, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}

type statsRepo struct{ db *gorm.DB }

func NewStatsRepo(db *gorm.DB) StatsRepo { return &statsRepo{db: db} }

func (r *statsRepo) Totals(ctx context.Context, from, to time.Time) (PeriodTotals, error) {
	type aggRow struct {
		Orders       int64
		RevenuePaise int64
	}
	var res aggRow
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select(`COUNT(*) AS orders,
COALESCE(SUM(total_paise) FILTER (WHERE status <> 'ORDER_STATUS_CANCELLED'),0) AS revenue_paise`).
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&res).Error
	return PeriodTotals{Orders: res.Orders, RevenuePaise: res.RevenuePaise}, err
}

func (r *statsRepo) Daily(ctx context.Context, from, to time.Time) ([]DailyRow, error) {
	var rows []DailyRow
	err := r.db.WithContext(ctx).Raw(`
SELECT date_trunc('day', created_at) AS day,
       COUNT(*) AS orders,
       COALESCE(SUM(total_paise) FILTER (WHERE status <> 'ORDER_STATUS_CANCELLED'),0) AS revenue_paise
FROM orders
WHERE created_at >= @from AND created_at < @to
GROUP BY 1
ORDER BY 1
`, map[string]any{"from": from, "to": to}).Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").Scan(&rows).Error
	return rows, err
}
