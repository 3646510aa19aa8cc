package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

type InvoiceService interface {
	// IssueInvoice выдаёт инвойс лениво и идемпотентно: повторный вызов
	// для того же заказа возвращает существующий инвойс без изменений
	IssueInvoice(ctx context.Context, orderID uuid.UUID) (*models.Invoice, *models.Order, error)
}

type invoiceService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewInvoiceService(repo *repository.Repository) InvoiceService {
	return &invoiceService{repo: repo, now: time.Now}
}

// FormatInvoiceNo: INV-YYYYMMDD-NNNN; после 9999 номер расширяется сам
func FormatInvoiceNo(day string, seq int) string {
	return fmt.Sprintf("INV-%s-%04d", day, seq)
}

func (s *invoiceService) IssueInvoice(ctx context.Context, orderID uuid.UUID) (*models.Invoice, *models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if ord == nil {
		return nil, nil, ErrOrderNotFound
	}
	if role != RoleAdmin && ord.UserID != userID {
		return nil, nil, ErrForbidden
	}

	if existing, err := s.repo.Invoices.GetByOrderID(ctx, orderID); err != nil {
		return nil, nil, err
	} else if existing != nil {
		return existing, ord, nil
	}

	day := s.now().Format("20060102")

	var inv *models.Invoice
	issue := func() error {
		return s.repo.WithTx(func(tx *repository.Repository) error {
			// повторная проверка под транзакцией — конкурент мог успеть
			if existing, err := tx.Invoices.GetByOrderID(ctx, orderID); err != nil {
				return err
			} else if existing != nil {
				inv = existing
				return nil
			}
			seq, err := tx.Invoices.NextSeq(ctx, day)
			if err != nil {
				return err
			}
			created := &models.Invoice{
				OrderID:   orderID,
				Day:       day,
				Seq:       seq,
				InvoiceNo: FormatInvoiceNo(day, seq),
				Status:    models.InvoiceIssued,
				IssuedAt:  s.now(),
			}
			if err := tx.Invoices.Create(ctx, created); err != nil {
				return err
			}
			if err := tx.Orders.SetInvoiceID(ctx, orderID, created.ID); err != nil {
				return err
			}
			inv = created
			return nil
		})
	}

	if err := issue(); err != nil {
		// конкурирующая выдача того же номера дня — одна повторная попытка
		if isUniqueViolation(err) {
			if err := issue(); err != nil {
				return nil, nil, err
			}
		} else {
			return nil, nil, err
		}
	}

	return inv, ord, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "SQLSTATE 23505")
}
