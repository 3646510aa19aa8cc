package service

import (
	"context"
	"strings"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

type ProductInput struct {
	Title         string
	Description   string
	PricePaise    int64
	IsActive      bool
	StockTracking models.StockTracking
	Stock         int32
}

type ProductPatch struct {
	Title         *string
	Description   *string
	PricePaise    *int64
	IsActive      *bool
	StockTracking *models.StockTracking
}

type ProductService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, patch ProductPatch) (*models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	SetScalarStock(ctx context.Context, productID uuid.UUID, stock int32) (*models.Product, error)
	SetSizeStock(ctx context.Context, productID uuid.UUID, size string, stock int32) (*models.Product, error)
}

type productService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewProductService(repo *repository.Repository) ProductService {
	return &productService{repo: repo, now: time.Now}
}

func requireAdmin(ctx context.Context) error {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if role != RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	tracking := in.StockTracking
	if tracking == "" {
		tracking = models.StockNone
	}

	now := s.now()
	p := &models.Product{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		PricePaise:    in.PricePaise,
		IsActive:      in.IsActive,
		StockTracking: tracking,
		Stock:         in.Stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID uuid.UUID, patch ProductPatch) (*models.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	fields := map[string]any{}
	if patch.Title != nil {
		fields["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.PricePaise != nil {
		fields["price_paise"] = *patch.PricePaise
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if patch.StockTracking != nil {
		fields["stock_tracking"] = *patch.StockTracking
	}
	if len(fields) == 0 {
		return p, nil
	}
	fields["updated_at"] = s.now()

	if err := s.repo.Products.UpdateFields(ctx, productID, fields); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, productID)
}

func (s *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, f)
}

func (s *productService) SetScalarStock(ctx context.Context, productID uuid.UUID, stock int32) (*models.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if err := s.repo.Stock.SetScalar(ctx, productID, stock); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, productID)
}

func (s *productService) SetSizeStock(ctx context.Context, productID uuid.UUID, size string, stock int32) (*models.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if err := s.repo.Stock.UpsertSize(ctx, productID, strings.TrimSpace(size), stock); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, productID)
}
