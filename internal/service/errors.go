package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")

	ErrEmptyItems      = errors.New("empty items")
	ErrQuantityInvalid = errors.New("quantity must be > 0")
	ErrInvalidPincode  = errors.New("pincode must be 4-8 digits")
	ErrMissingAddress  = errors.New("city, state and pincode are required")
	ErrInvalidStatus   = errors.New("unknown order status")
	ErrInvalidRange    = errors.New("range must be 7d, 30d or 90d")
	ErrReasonRequired  = errors.New("reason is required")

	ErrInvalidState    = errors.New("operation is not allowed in current state")
	ErrSettingsVersion = errors.New("settings were modified concurrently")
)

// InsufficientStockError несёт детали конфликтной позиции (HTTP 409)
type InsufficientStockError struct {
	ProductID uuid.UUID
	Size      string
	Requested uint32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	if e.Size != "" {
		return fmt.Sprintf("insufficient stock for product %s size %s: requested %d, available %d",
			e.ProductID, e.Size, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
