package service

import (
	"context"

	"storefront-service/internal/models"

	"github.com/google/uuid"
)

type CreateOrderItem struct {
	ProductID uuid.UUID
	Size      string
	Quantity  uint32
}

type CustomerInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
	City    string
	State   string
	Pincode string
}

type CreateOrderInput struct {
	Customer      CustomerInfo
	Items         []CreateOrderItem
	DiscountPaise int64
	ShippingPaise int64
	TaxPaise      int64
	// DeclaredTotal используется вместо расчётного только если > 0
	DeclaredTotalPaise int64
	Status             models.OrderStatus // пустой = pending
	PaymentMethod      string
	UPIReference       *string
}

type ListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type AdminUpdateInput struct {
	Status         *models.OrderStatus
	TrackingNumber *string
	// ReturnDecision: "approve" | "reject"
	ReturnDecision *string
	ReturnReason   *string
}

type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID, reason *string) (*models.Order, error)
	RequestReturn(ctx context.Context, id uuid.UUID, reason string) (*models.Order, error)
	ApproveReturn(ctx context.Context, id uuid.UUID) (*models.Order, error)
	RejectReturn(ctx context.Context, id uuid.UUID, reason *string) (*models.Order, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, in AdminUpdateInput) (*models.Order, error)
}
