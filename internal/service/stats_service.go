package service

import (
	"context"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

type DailyPoint struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Orders       int64  `json:"orders"`
	RevenuePaise int64  `json:"revenue_paise"`
}

type MonthComparison struct {
	CurrentOrders        int64   `json:"current_orders"`
	CurrentRevenuePaise  int64   `json:"current_revenue_paise"`
	PreviousOrders       int64   `json:"previous_orders"`
	PreviousRevenuePaise int64   `json:"previous_revenue_paise"`
	RevenueDeltaPercent  float64 `json:"revenue_delta_percent"`
}

type StatsOverview struct {
	RangeDays      int             `json:"range_days"`
	TotalOrders    int64           `json:"total_orders"`
	RevenuePaise   int64           `json:"revenue_paise"`
	PendingOrders  int64           `json:"pending_orders"`
	DeliveredCount int64           `json:"delivered_orders"`
	Month          MonthComparison `json:"month"`
	Daily          []DailyPoint    `json:"daily"`
}

// OverviewCache — необязательный кеш готового ответа (Redis)
type OverviewCache interface {
	Get(ctx context.Context, rangeKey string) (*StatsOverview, bool)
	Set(ctx context.Context, rangeKey string, ov *StatsOverview)
}

type StatsService interface {
	Overview(ctx context.Context, rangeStr string) (*StatsOverview, error)
}

type statsService struct {
	repo  *repository.Repository
	cache OverviewCache
	now   func() time.Time
}

func NewStatsService(repo *repository.Repository, cache OverviewCache) StatsService {
	return &statsService{repo: repo, cache: cache, now: time.Now}
}

func rangeDays(rangeStr string) (int, bool) {
	switch rangeStr {
	case "", "30d":
		return 30, true
	case "7d":
		return 7, true
	case "90d":
		return 90, true
	}
	return 0, false
}

func (s *statsService) Overview(ctx context.Context, rangeStr string) (*StatsOverview, error) {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != RoleAdmin {
		return nil, ErrForbidden
	}

	days, ok := rangeDays(rangeStr)
	if !ok {
		return nil, ErrInvalidRange
	}

	cacheKey := rangeStr
	if cacheKey == "" {
		cacheKey = "30d"
	}
	if s.cache != nil {
		if ov, hit := s.cache.Get(ctx, cacheKey); hit {
			return ov, nil
		}
	}

	// Считаем в UTC: date_trunc в запросах тоже режет по UTC
	now := s.now().UTC()
	to := now.Truncate(24 * time.Hour).Add(24 * time.Hour) // конец сегодняшнего дня
	from := to.AddDate(0, 0, -days)

	totals, err := s.repo.Stats.Totals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.repo.Stats.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var pending, delivered int64
	for _, sc := range byStatus {
		switch sc.Status {
		case models.OrderStatusPending, models.OrderStatusCodPending, models.OrderStatusPendingVerification:
			pending += sc.Count
		case models.OrderStatusDelivered:
			delivered += sc.Count
		}
	}

	month, err := s.monthComparison(ctx, now)
	if err != nil {
		return nil, err
	}

	daily, err := s.dailySeries(ctx, from, to, days)
	if err != nil {
		return nil, err
	}

	ov := &StatsOverview{
		RangeDays:      days,
		TotalOrders:    totals.Orders,
		RevenuePaise:   totals.RevenuePaise,
		PendingOrders:  pending,
		DeliveredCount: delivered,
		Month:          month,
		Daily:          daily,
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, ov)
	}
	return ov, nil
}

// monthComparison сравнивает текущий календарный месяц с предыдущим
func (s *statsService) monthComparison(ctx context.Context, now time.Time) (MonthComparison, error) {
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextStart := curStart.AddDate(0, 1, 0)
	prevStart := curStart.AddDate(0, -1, 0)

	cur, err := s.repo.Stats.Totals(ctx, curStart, nextStart)
	if err != nil {
		return MonthComparison{}, err
	}
	prev, err := s.repo.Stats.Totals(ctx, prevStart, curStart)
	if err != nil {
		return MonthComparison{}, err
	}

	var delta float64
	if prev.RevenuePaise > 0 {
		delta = float64(cur.RevenuePaise-prev.RevenuePaise) / float64(prev.RevenuePaise) * 100
	} else if cur.RevenuePaise > 0 {
		delta = 100
	}

	return MonthComparison{
		CurrentOrders:        cur.Orders,
		CurrentRevenuePaise:  cur.RevenuePaise,
		PreviousOrders:       prev.Orders,
		PreviousRevenuePaise: prev.RevenuePaise,
		RevenueDeltaPercent:  delta,
	}, nil
}

// dailySeries строит ряд по дням с нулями для дней без заказов
func (s *statsService) dailySeries(ctx context.Context, from, to time.Time, days int) ([]DailyPoint, error) {
	rows, err := s.repo.Stats.Daily(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]repository.DailyRow, len(rows))
	for _, r := range rows {
		byDay[r.Day.UTC().Format("2006-01-02")] = r
	}

	series := make([]DailyPoint, 0, days)
	for d := 0; d < days; d++ {
		day := from.AddDate(0, 0, d)
		key := day.Format("2006-01-02")
		point := DailyPoint{Date: key}
		if r, ok := byDay[key]; ok {
			point.Orders = r.Orders
			point.RevenuePaise = r.RevenuePaise
		}
		series = append(series, point)
	}
	return series, nil
}
