package service_test

import (
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/service"
)

func TestParseAdminStatus(t *testing.T) {
	cases := []struct {
		in   string
		want models.OrderStatus
		ok   bool
	}{
		{"pending", models.OrderStatusPending, true},
		{"paid", models.OrderStatusPaid, true},
		{"shipped", models.OrderStatusShipped, true},
		{"delivered", models.OrderStatusDelivered, true},
		{"cancelled", models.OrderStatusCancelled, true},
		// исторические алиасы админки
		{"processing", models.OrderStatusPaid, true},
		{"completed", models.OrderStatusDelivered, true},
		// служебные платёжные статусы через админку не выставляются
		{"cod_pending", "", false},
		{"pending_verification", "", false},
		{"PAID", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := service.ParseAdminStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseAdminStatus(%q) = %q,%v; want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseCreateStatus(t *testing.T) {
	if st, ok := service.ParseCreateStatus("cod_pending"); !ok || st != models.OrderStatusCodPending {
		t.Fatalf("cod_pending: %q %v", st, ok)
	}
	if _, ok := service.ParseCreateStatus("cancelled"); ok {
		t.Fatal("order must not be created already cancelled")
	}
	if _, ok := service.ParseCreateStatus("garbage"); ok {
		t.Fatal("unknown status must be rejected")
	}
}

func TestWireMapping(t *testing.T) {
	if service.WireStatus(models.OrderStatusPendingVerification) != "pending_verification" {
		t.Fatal("status wire mapping broken")
	}
	if service.WireReturn(models.ReturnNone) != "None" || service.WireReturn(models.ReturnApproved) != "Approved" {
		t.Fatal("return wire mapping broken")
	}
}

func TestCancelAndReturnGuards(t *testing.T) {
	for _, st := range []models.OrderStatus{models.OrderStatusPending, models.OrderStatusCodPending, models.OrderStatusPendingVerification} {
		if !service.CanCancel(st) {
			t.Fatalf("%s must be cancellable", st)
		}
	}
	for _, st := range []models.OrderStatus{models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled} {
		if service.CanCancel(st) {
			t.Fatalf("%s must not be cancellable", st)
		}
	}

	if service.CanRequestReturn(models.OrderStatusShipped, models.ReturnNone) {
		t.Fatal("return request before delivery must be rejected")
	}
	if !service.CanRequestReturn(models.OrderStatusDelivered, models.ReturnNone) {
		t.Fatal("first return request on delivered order must pass")
	}
	if !service.CanRequestReturn(models.OrderStatusDelivered, models.ReturnRejected) {
		t.Fatal("re-request after rejection must pass")
	}
	if service.CanRequestReturn(models.OrderStatusDelivered, models.ReturnApproved) {
		t.Fatal("approved return is terminal")
	}
	if service.CanRequestReturn(models.OrderStatusDelivered, models.ReturnPending) {
		t.Fatal("pending return blocks a new request")
	}

	if !service.CanDecideReturn(models.ReturnPending) || service.CanDecideReturn(models.ReturnNone) {
		t.Fatal("decision is only valid on a pending request")
	}
}

func TestCanSetStatus(t *testing.T) {
	// без возврата любой статус доступен
	for st := range map[models.OrderStatus]struct{}{
		models.OrderStatusPending:   {},
		models.OrderStatusShipped:   {},
		models.OrderStatusCancelled: {},
	} {
		if !service.CanSetStatus(st, models.ReturnNone) {
			t.Fatalf("%s must be settable without a return", st)
		}
	}

	// ненулевая ось возврата держит заказ в delivered (или cancelled)
	for _, rs := range []models.ReturnStatus{models.ReturnPending, models.ReturnApproved, models.ReturnRejected} {
		if service.CanSetStatus(models.OrderStatusShipped, rs) {
			t.Fatalf("shipped must be blocked with return %s", rs)
		}
		if service.CanSetStatus(models.OrderStatusPaid, rs) {
			t.Fatalf("paid must be blocked with return %s", rs)
		}
		if !service.CanSetStatus(models.OrderStatusDelivered, rs) {
			t.Fatalf("delivered must stay settable with return %s", rs)
		}
		if !service.CanSetStatus(models.OrderStatusCancelled, rs) {
			t.Fatalf("cancelled must stay settable with return %s", rs)
		}
	}
}

func TestNotifyOnStatus(t *testing.T) {
	if !service.NotifyOnStatus(models.OrderStatusPaid, models.OrderStatusShipped) {
		t.Fatal("shipped transition must notify")
	}
	if !service.NotifyOnStatus(models.OrderStatusShipped, models.OrderStatusDelivered) {
		t.Fatal("delivered transition must notify")
	}
	if service.NotifyOnStatus(models.OrderStatusShipped, models.OrderStatusShipped) {
		t.Fatal("no-op transition must not notify")
	}
	if service.NotifyOnStatus(models.OrderStatusPending, models.OrderStatusPaid) {
		t.Fatal("paid transition must not notify")
	}
}

func TestFormatInvoiceNo(t *testing.T) {
	if got := service.FormatInvoiceNo("20260901", 7); got != "INV-20260901-0007" {
		t.Fatalf("FormatInvoiceNo: %s", got)
	}
	// после 9999 номер расширяется, не обрезается
	if got := service.FormatInvoiceNo("20260901", 12345); got != "INV-20260901-12345" {
		t.Fatalf("FormatInvoiceNo overflow: %s", got)
	}
}
