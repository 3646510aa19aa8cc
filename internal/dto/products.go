package dto

import (
	"time"

	"storefront-service/internal/models"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	PricePaise    int64  `json:"price_paise" binding:"required,gt=0"`
	IsActive      *bool  `json:"is_active"`
	StockTracking string `json:"stock_tracking"` // none | scalar | sized
	Stock         int32  `json:"stock"`
}

type UpdateProductRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	PricePaise    *int64  `json:"price_paise"`
	IsActive      *bool   `json:"is_active"`
	StockTracking *string `json:"stock_tracking"`
}

type SetStockRequest struct {
	// Size пустой — скалярный остаток, иначе остаток размера
	Size  string `json:"size"`
	Stock int32  `json:"stock" binding:"gte=0"`
}

type ProductSizeResponse struct {
	Size  string `json:"size"`
	Stock int32  `json:"stock"`
}

type ProductResponse struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description,omitempty"`
	PricePaise    int64                 `json:"price_paise"`
	IsActive      bool                  `json:"is_active"`
	StockTracking string                `json:"stock_tracking"`
	Stock         int32                 `json:"stock"`
	Sizes         []ProductSizeResponse `json:"sizes,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

var trackingToWire = map[models.StockTracking]string{
	models.StockNone:   "none",
	models.StockScalar: "scalar",
	models.StockSized:  "sized",
}

var wireToTracking = map[string]models.StockTracking{
	"none":   models.StockNone,
	"scalar": models.StockScalar,
	"sized":  models.StockSized,
}

func ParseStockTracking(s string) (models.StockTracking, bool) {
	if s == "" {
		return models.StockNone, true
	}
	t, ok := wireToTracking[s]
	return t, ok
}

func ToProductResponse(p *models.Product) ProductResponse {
	sizes := make([]ProductSizeResponse, 0, len(p.Sizes))
	for _, sz := range p.Sizes {
		sizes = append(sizes, ProductSizeResponse{Size: sz.Size, Stock: sz.Stock})
	}
	return ProductResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		PricePaise:    p.PricePaise,
		IsActive:      p.IsActive,
		StockTracking: trackingToWire[p.StockTracking],
		Stock:         p.Stock,
		Sizes:         sizes,
		CreatedAt:     p.CreatedAt,
	}
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

type SettingsResponse struct {
	Ticker       string    `json:"ticker"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Version      int       `json:"version"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpdateSettingsRequest struct {
	Ticker       *string `json:"ticker"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Version      int     `json:"version"`
}

func ToSettingsResponse(s *models.Settings) SettingsResponse {
	return SettingsResponse{
		Ticker:       s.Ticker,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Version:      s.Version,
		UpdatedAt:    s.UpdatedAt,
	}
}
