package service_test

import (
	"errors"
	"testing"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/service"

	"github.com/google/uuid"
)

func TestIssueInvoice_IdempotentAndSequenced(t *testing.T) {
	repo := setupRepo(t)
	orders := service.NewOrderService(repo, nil)
	invoices := service.NewInvoiceService(repo)

	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true})

	userID := uuid.New()
	uctx := customerCtx(userID)

	ord1, err := orders.CreateOrder(uctx, service.CreateOrderInput{
		Customer: validCustomer(),
		Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	day := time.Now().Format("20060102")

	inv1, _, err := invoices.IssueInvoice(uctx, ord1.ID)
	if err != nil {
		t.Fatalf("IssueInvoice: %v", err)
	}
	if inv1.InvoiceNo != service.FormatInvoiceNo(day, 1) {
		t.Fatalf("invoice no expected %s got %s", service.FormatInvoiceNo(day, 1), inv1.InvoiceNo)
	}
	if inv1.Status != models.InvoiceIssued {
		t.Fatalf("status expected issued got %s", inv1.Status)
	}

	// повторная выдача возвращает тот же инвойс
	again, _, err := invoices.IssueInvoice(uctx, ord1.ID)
	if err != nil {
		t.Fatalf("IssueInvoice again: %v", err)
	}
	if again.ID != inv1.ID || again.InvoiceNo != inv1.InvoiceNo {
		t.Fatalf("repeat issue must return same invoice: %s vs %s", again.InvoiceNo, inv1.InvoiceNo)
	}

	// заказ получил ссылку на инвойс
	got, err := orders.GetOrder(uctx, ord1.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.InvoiceID == nil || *got.InvoiceID != inv1.ID {
		t.Fatalf("order invoice_id mismatch: %+v", got.InvoiceID)
	}

	// второй заказ того же дня получает следующий номер
	ord2, err := orders.CreateOrder(uctx, service.CreateOrderInput{
		Customer: validCustomer(),
		Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder 2: %v", err)
	}
	inv2, _, err := invoices.IssueInvoice(uctx, ord2.ID)
	if err != nil {
		t.Fatalf("IssueInvoice 2: %v", err)
	}
	if inv2.InvoiceNo != service.FormatInvoiceNo(day, 2) {
		t.Fatalf("invoice no expected %s got %s", service.FormatInvoiceNo(day, 2), inv2.InvoiceNo)
	}

	cnt, err := repo.Invoices.CountByDay(uctx, day)
	if err != nil || cnt != 2 {
		t.Fatalf("CountByDay: cnt=%d err=%v", cnt, err)
	}
}

func TestIssueInvoice_Access(t *testing.T) {
	repo := setupRepo(t)
	orders := service.NewOrderService(repo, nil)
	invoices := service.NewInvoiceService(repo)

	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true})

	owner := uuid.New()
	ord, err := orders.CreateOrder(customerCtx(owner), service.CreateOrderInput{
		Customer: validCustomer(),
		Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// чужому покупателю инвойс не выдаётся
	if _, _, err := invoices.IssueInvoice(customerCtx(uuid.New()), ord.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden got %v", err)
	}

	// админу — выдаётся
	if _, _, err := invoices.IssueInvoice(adminCtx(), ord.ID); err != nil {
		t.Fatalf("IssueInvoice by admin: %v", err)
	}

	// несуществующий заказ
	if _, _, err := invoices.IssueInvoice(adminCtx(), uuid.New()); !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound got %v", err)
	}
}
