package dto

import (
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/service"

	"github.com/google/uuid"
)

type CreateOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size"`
	Quantity  uint32    `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`

	Items []CreateOrderItemRequest `json:"items" binding:"required"`

	DiscountPaise int64 `json:"discount_paise"`
	ShippingPaise int64 `json:"shipping_paise"`
	TaxPaise      int64 `json:"tax_paise"`
	// TotalPaise учитывается только если > 0 (иначе сервер считает сам)
	TotalPaise int64 `json:"total_paise"`

	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	UPIReference  *string `json:"upi_reference"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelOrderRequest struct {
	Reason *string `json:"reason"`
}

type RequestReturnRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RejectReturnRequest struct {
	Reason *string `json:"reason"`
}

type AdminUpdateRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	ReturnDecision *string `json:"return_decision"` // "approve" | "reject"
	ReturnReason   *string `json:"return_reason"`
}

type SendMailRequest struct {
	To       string         `json:"to" binding:"required,email"`
	Subject  string         `json:"subject" binding:"required"`
	Template string         `json:"template" binding:"required"`
	Data     map[string]any `json:"data"`
}

type OrderItemResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	Size           *string   `json:"size,omitempty"`
	Quantity       uint32    `json:"quantity"`
	UnitPricePaise int64     `json:"unit_price_paise"`
	LineTotalPaise int64     `json:"line_total_paise"`
}

type OrderResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`

	Items []OrderItemResponse `json:"items"`

	SubtotalPaise int64 `json:"subtotal_paise"`
	DiscountPaise int64 `json:"discount_paise"`
	ShippingPaise int64 `json:"shipping_paise"`
	TaxPaise      int64 `json:"tax_paise"`
	TotalPaise    int64 `json:"total_paise"`

	Status       string  `json:"status"`
	ReturnStatus string  `json:"return_status"`
	ReturnReason *string `json:"return_reason,omitempty"`
	CancelReason *string `json:"cancel_reason,omitempty"`

	PaymentMethod  string     `json:"payment_method"`
	UPIReference   *string    `json:"upi_reference,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	InvoiceID      *uuid.UUID `json:"invoice_id,omitempty"`
}

func ToOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:      it.ProductID,
			Title:          it.Title,
			Size:           it.Size,
			Quantity:       it.Quantity,
			UnitPricePaise: it.UnitPricePaise,
			LineTotalPaise: it.LineTotalPaise,
		})
	}
	return OrderResponse{
		ID:             o.ID,
		CreatedAt:      o.CreatedAt,
		Name:           o.CustomerName,
		Phone:          o.Phone,
		Email:          o.Email,
		Address:        o.Address,
		City:           o.City,
		State:          o.State,
		Pincode:        o.Pincode,
		Items:          items,
		SubtotalPaise:  o.SubtotalPaise,
		DiscountPaise:  o.DiscountPaise,
		ShippingPaise:  o.ShippingPaise,
		TaxPaise:       o.TaxPaise,
		TotalPaise:     o.TotalPaise,
		Status:         service.WireStatus(o.Status),
		ReturnStatus:   service.WireReturn(o.ReturnStatus),
		ReturnReason:   o.ReturnReason,
		CancelReason:   o.CancelReason,
		PaymentMethod:  o.PaymentMethod,
		UPIReference:   o.UPIReference,
		TrackingNumber: o.TrackingNumber,
		InvoiceID:      o.InvoiceID,
	}
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

func ToOrderListResponse(orders []models.Order, total int64) OrderListResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return OrderListResponse{Orders: out, Total: total}
}

type InvoiceResponse struct {
	ID        uuid.UUID     `json:"id"`
	OrderID   uuid.UUID     `json:"order_id"`
	InvoiceNo string        `json:"invoice_no"`
	Status    string        `json:"status"`
	IssuedAt  time.Time     `json:"issued_at"`
	Order     OrderResponse `json:"order"`
}

func ToInvoiceResponse(inv *models.Invoice, ord *models.Order) InvoiceResponse {
	return InvoiceResponse{
		ID:        inv.ID,
		OrderID:   inv.OrderID,
		InvoiceNo: inv.InvoiceNo,
		Status:    string(inv.Status),
		IssuedAt:  inv.IssuedAt,
		Order:     ToOrderResponse(ord),
	}
}
