package repository

import "gorm.io/gorm"

type Repository struct {
	DB         *gorm.DB
	Orders     OrderRepo
	OrderItems OrderItemRepo
	Products   ProductRepo
	Stock      StockRepo
	Invoices   InvoiceRepo
	Settings   SettingsRepo
	Stats      StatsRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
		Products:   NewProductRepo(db),
		Stock:      NewStockRepo(db),
		Invoices:   NewInvoiceRepo(db),
		Settings:   NewSettingsRepo(db),
		Stats:      NewStatsRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx выполняет fn в транзакции; все репозитории внутри привязаны к tx
func (r *Repository) WithTx(fn func(tx *Repository) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
