package models

import (
	"time"

	"github.com/google/uuid"
)

// Статус заказа — строковый тип (храним TEXT + CHECK в миграции)
type OrderStatus string

const (
	OrderStatusPending             OrderStatus = "ORDER_STATUS_PENDING"
	OrderStatusCodPending          OrderStatus = "ORDER_STATUS_COD_PENDING"
	OrderStatusPendingVerification OrderStatus = "ORDER_STATUS_PENDING_VERIFICATION"
	OrderStatusPaid                OrderStatus = "ORDER_STATUS_PAID"
	OrderStatusShipped             OrderStatus = "ORDER_STATUS_SHIPPED"
	OrderStatusDelivered           OrderStatus = "ORDER_STATUS_DELIVERED"
	OrderStatusCancelled           OrderStatus = "ORDER_STATUS_CANCELLED"
)

// Вторая ось жизненного цикла: возврат после доставки
type ReturnStatus string

const (
	ReturnNone     ReturnStatus = "RETURN_NONE"
	ReturnPending  ReturnStatus = "RETURN_PENDING"
	ReturnApproved ReturnStatus = "RETURN_APPROVED"
	ReturnRejected ReturnStatus = "RETURN_REJECTED"
)

type Order struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Снимок данных покупателя на момент заказа (не FK — правки профиля
	// не должны менять исторические заказы)
	CustomerName string `gorm:"type:text;not null"`
	Phone        string `gorm:"type:text;not null"`
	Email        string `gorm:"type:text;not null"`
	Address      string `gorm:"type:text;not null"`
	City         string `gorm:"type:text;not null"`
	State        string `gorm:"type:text;not null"`
	Pincode      string `gorm:"type:text;not null"`

	// Деньги в минимальных единицах (пайсы)
	SubtotalPaise int64 `gorm:"not null;default:0"`
	DiscountPaise int64 `gorm:"not null;default:0"`
	ShippingPaise int64 `gorm:"not null;default:0"`
	TaxPaise      int64 `gorm:"not null;default:0"`
	TotalPaise    int64 `gorm:"not null;default:0"`

	Status       OrderStatus  `gorm:"type:text;not null;default:'ORDER_STATUS_PENDING';index"`
	ReturnStatus ReturnStatus `gorm:"type:text;not null;default:'RETURN_NONE';index"`
	ReturnReason *string      `gorm:"type:text"`
	CancelReason *string      `gorm:"type:text"`

	PaymentMethod  string  `gorm:"type:text;not null;default:'cod'"`
	UPIReference   *string `gorm:"type:text"`
	TrackingNumber *string `gorm:"type:text"`

	InvoiceID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // каскад на позиции
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`

	Title          string  `gorm:"type:text;not null"` // снимок названия
	Size           *string `gorm:"type:text"`
	Quantity       uint32  `gorm:"type:int;not null"` // CHECK добавим в миграции
	UnitPricePaise int64   `gorm:"not null"`
	LineTotalPaise int64   `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

// Режим учёта остатков товара
type StockTracking string

const (
	StockNone   StockTracking = "STOCK_NONE"   // остатки не отслеживаются
	StockScalar StockTracking = "STOCK_SCALAR" // один счётчик на товар
	StockSized  StockTracking = "STOCK_SIZED"  // счётчик на каждый размер
)

type Product struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string        `gorm:"type:text;not null"`
	Description   string        `gorm:"type:text"`
	PricePaise    int64         `gorm:"not null;default:0"`
	IsActive      bool          `gorm:"not null;default:true"`
	StockTracking StockTracking `gorm:"type:text;not null;default:'STOCK_NONE'"`
	Stock         int32         `gorm:"not null;default:0"` // используется только при STOCK_SCALAR

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Sizes []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

type ProductSize struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_product_sizes_product_size"`
	Size      string    `gorm:"type:text;not null;uniqueIndex:ux_product_sizes_product_size"`
	Stock     int32     `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (ProductSize) TableName() string { return "product_sizes" }

type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "INVOICE_ISSUED"
	InvoicePaid   InvoiceStatus = "INVOICE_PAID"
)

type Invoice struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"` // 1:1 с заказом

	// Номер собирается из (day, seq): INV-YYYYMMDD-NNNN
	Day       string        `gorm:"type:char(8);not null;uniqueIndex:ux_invoices_day_seq"`
	Seq       int           `gorm:"not null;uniqueIndex:ux_invoices_day_seq"`
	InvoiceNo string        `gorm:"type:text;not null;uniqueIndex"`
	Status    InvoiceStatus `gorm:"type:text;not null;default:'INVOICE_ISSUED'"`

	IssuedAt  time.Time `gorm:"not null;default:now()"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Invoice) TableName() string { return "invoices" }

// Settings — единственная строка (id=1) с настройками витрины.
// Version защищает от конкурирующих записей.
type Settings struct {
	ID           int    `gorm:"primaryKey"`
	Ticker       string `gorm:"type:text;not null;default:''"`
	ContactEmail string `gorm:"type:text;not null;default:''"`
	ContactPhone string `gorm:"type:text;not null;default:''"`
	Version      int    `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Settings) TableName() string { return "settings" }
