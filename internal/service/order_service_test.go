package service_test

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/migrate"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
	"storefront-service/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setupRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateStorefrontDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.New(db)
}

func customerCtx(userID uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), userID)
	return service.WithRole(ctx, service.RoleCustomer)
}

func adminCtx() context.Context {
	ctx := service.WithUserID(context.Background(), uuid.New())
	return service.WithRole(ctx, service.RoleAdmin)
}

func seedProduct(t *testing.T, repo *repository.Repository, p *models.Product) *models.Product {
	t.Helper()
	if err := repo.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func validCustomer() service.CustomerInfo {
	return service.CustomerInfo{
		Name:    "Asha",
		Phone:   "9000000001",
		Email:   "asha@example.com",
		Address: "5 Hill Rd",
		City:    "Pune",
		State:   "MH",
		Pincode: "411001",
	}
}

func TestCreateOrder_TotalsAndStock(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)

	scalar := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true, StockTracking: models.StockScalar, Stock: 10})
	sized := seedProduct(t, repo, &models.Product{Title: "Tee", PricePaise: 49900, IsActive: true, StockTracking: models.StockSized})
	if err := repo.Stock.UpsertSize(context.Background(), sized.ID, "L", 4); err != nil {
		t.Fatalf("seed size: %v", err)
	}

	userID := uuid.New()
	ord, err := svc.CreateOrder(customerCtx(userID), service.CreateOrderInput{
		Customer: validCustomer(),
		Items: []service.CreateOrderItem{
			{ProductID: scalar.ID, Quantity: 2},
			{ProductID: sized.ID, Size: "L", Quantity: 1},
		},
		DiscountPaise: 5000,
		ShippingPaise: 4000,
		TaxPaise:      1000,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// subtotal = 2*19900 + 49900 = 89700; total = 89700 - 5000 + 4000 + 1000
	if ord.SubtotalPaise != 89700 {
		t.Fatalf("subtotal expected 89700 got %d", ord.SubtotalPaise)
	}
	if ord.TotalPaise != 89700-5000+4000+1000 {
		t.Fatalf("total mismatch: %d", ord.TotalPaise)
	}
	if ord.Status != models.OrderStatusPending || ord.ReturnStatus != models.ReturnNone {
		t.Fatalf("initial state mismatch: %+v", ord)
	}
	if len(ord.Items) != 2 {
		t.Fatalf("items expected 2 got %d", len(ord.Items))
	}
	for _, it := range ord.Items {
		if it.Title == "" {
			t.Fatal("item must carry title snapshot")
		}
	}

	avail, _ := repo.Stock.GetScalar(context.Background(), scalar.ID)
	if avail != 8 {
		t.Fatalf("scalar stock expected 8 got %d", avail)
	}
	row, _ := repo.Stock.GetSize(context.Background(), sized.ID, "L")
	if row.Stock != 3 {
		t.Fatalf("sized stock expected 3 got %d", row.Stock)
	}
}

func TestCreateOrder_DeclaredTotalWins(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)
	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true})

	ord, err := svc.CreateOrder(customerCtx(uuid.New()), service.CreateOrderInput{
		Customer:           validCustomer(),
		Items:              []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
		DeclaredTotalPaise: 25000,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if ord.TotalPaise != 25000 {
		t.Fatalf("declared total expected 25000 got %d", ord.TotalPaise)
	}
}

func TestCreateOrder_InsufficientStock_NoMutation(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)
	ctx := context.Background()

	ok := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true, StockTracking: models.StockScalar, Stock: 10})
	scarce := seedProduct(t, repo, &models.Product{Title: "Cap", PricePaise: 9900, IsActive: true, StockTracking: models.StockScalar, Stock: 1})

	_, err := svc.CreateOrder(customerCtx(uuid.New()), service.CreateOrderInput{
		Customer: validCustomer(),
		Items: []service.CreateOrderItem{
			{ProductID: ok.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 5},
		},
	})
	if !service.IsInsufficientStock(err) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	// транзакция откатилась целиком: ни заказа, ни списания первой позиции
	_, total, listErr := repo.Orders.List(ctx, repository.OrderListFilter{})
	if listErr != nil || total != 0 {
		t.Fatalf("orders must not be created: total=%d err=%v", total, listErr)
	}
	avail, _ := repo.Stock.GetScalar(ctx, ok.ID)
	if avail != 10 {
		t.Fatalf("stock of first item must be untouched, got %d", avail)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)
	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true})

	cases := []struct {
		name string
		in   service.CreateOrderInput
		want error
	}{
		{"empty items", service.CreateOrderInput{Customer: validCustomer()}, service.ErrEmptyItems},
		{"zero quantity", service.CreateOrderInput{
			Customer: validCustomer(),
			Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 0}},
		}, service.ErrQuantityInvalid},
		{"bad pincode", func() service.CreateOrderInput {
			c := validCustomer()
			c.Pincode = "12ab"
			return service.CreateOrderInput{Customer: c, Items: []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}}}
		}(), service.ErrInvalidPincode},
		{"missing city", func() service.CreateOrderInput {
			c := validCustomer()
			c.City = "  "
			return service.CreateOrderInput{Customer: c, Items: []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}}}
		}(), service.ErrMissingAddress},
		{"unknown product", service.CreateOrderInput{
			Customer: validCustomer(),
			Items:    []service.CreateOrderItem{{ProductID: uuid.New(), Quantity: 1}},
		}, service.ErrProductNotFound},
	}

	for _, tc := range cases {
		if _, err := svc.CreateOrder(customerCtx(uuid.New()), tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, err)
		}
	}
}

func TestCancelOrder_RestocksAndGuardsState(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)
	ctx := context.Background()

	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true, StockTracking: models.StockScalar, Stock: 5})

	userID := uuid.New()
	ord, err := svc.CreateOrder(customerCtx(userID), service.CreateOrderInput{
		Customer: validCustomer(),
		Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	reason := "changed my mind"
	cancelled, err := svc.CancelOrder(customerCtx(userID), ord.ID, &reason)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != models.OrderStatusCancelled {
		t.Fatalf("status expected cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelReason == nil || *cancelled.CancelReason != reason {
		t.Fatalf("cancel reason mismatch: %+v", cancelled.CancelReason)
	}

	avail, _ := repo.Stock.GetScalar(ctx, p.ID)
	if avail != 5 {
		t.Fatalf("stock must be restored to 5, got %d", avail)
	}

	// отгруженный заказ отменить нельзя
	ord2, err := svc.CreateOrder(customerCtx(userID), service.CreateOrderInput{
		Customer: validCustomer(),
		Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder 2: %v", err)
	}
	if _, err := svc.SetStatus(adminCtx(), ord2.ID, models.OrderStatusShipped); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if _, err := svc.CancelOrder(customerCtx(userID), ord2.ID, nil); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("cancel of shipped order: expected ErrInvalidState got %v", err)
	}

	// чужой заказ отменить нельзя
	if _, err := svc.CancelOrder(customerCtx(uuid.New()), ord2.ID, nil); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("cancel of foreign order: expected ErrForbidden got %v", err)
	}
}

func TestReturnLifecycle(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)

	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true})

	userID := uuid.New()
	uctx := customerCtx(userID)
	actx := adminCtx()

	ord, err := svc.CreateOrder(uctx, service.CreateOrderInput{
		Customer: validCustomer(),
		Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// возврат по недоставленному заказу не принимается
	if _, err := svc.RequestReturn(uctx, ord.ID, "broken"); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("return before delivery: expected ErrInvalidState got %v", err)
	}

	if _, err := svc.SetStatus(actx, ord.ID, models.OrderStatusDelivered); err != nil {
		t.Fatalf("SetStatus delivered: %v", err)
	}

	// причина обязательна
	if _, err := svc.RequestReturn(uctx, ord.ID, "   "); !errors.Is(err, service.ErrReasonRequired) {
		t.Fatalf("empty reason: expected ErrReasonRequired got %v", err)
	}

	got, err := svc.RequestReturn(uctx, ord.ID, "broken handle")
	if err != nil {
		t.Fatalf("RequestReturn: %v", err)
	}
	if got.ReturnStatus != models.ReturnPending {
		t.Fatalf("return status expected pending got %s", got.ReturnStatus)
	}

	// повторный запрос при ожидающем решении отклоняется
	if _, err := svc.RequestReturn(uctx, ord.ID, "again"); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("double request: expected ErrInvalidState got %v", err)
	}

	// решение принимает только админ
	if _, err := svc.ApproveReturn(uctx, ord.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("approve by customer: expected ErrForbidden got %v", err)
	}

	rejected, err := svc.RejectReturn(actx, ord.ID, nil)
	if err != nil {
		t.Fatalf("RejectReturn: %v", err)
	}
	if rejected.ReturnStatus != models.ReturnRejected {
		t.Fatalf("return status expected rejected got %s", rejected.ReturnStatus)
	}

	// после отказа можно попросить снова, и теперь одобрить
	if _, err := svc.RequestReturn(uctx, ord.ID, "still broken"); err != nil {
		t.Fatalf("re-request after reject: %v", err)
	}
	approved, err := svc.ApproveReturn(actx, ord.ID)
	if err != nil {
		t.Fatalf("ApproveReturn: %v", err)
	}
	if approved.ReturnStatus != models.ReturnApproved {
		t.Fatalf("return status expected approved got %s", approved.ReturnStatus)
	}

	// одобренный возврат — терминальное состояние
	if _, err := svc.RequestReturn(uctx, ord.ID, "one more"); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("request after approve: expected ErrInvalidState got %v", err)
	}
	if _, err := svc.ApproveReturn(actx, ord.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("double approve: expected ErrInvalidState got %v", err)
	}
}

func TestSetStatus_BlockedByOpenReturn(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)

	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true})

	userID := uuid.New()
	uctx := customerCtx(userID)
	actx := adminCtx()

	ord, err := svc.CreateOrder(uctx, service.CreateOrderInput{
		Customer: validCustomer(),
		Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := svc.SetStatus(actx, ord.ID, models.OrderStatusDelivered); err != nil {
		t.Fatalf("SetStatus delivered: %v", err)
	}
	if _, err := svc.RequestReturn(uctx, ord.ID, "wrong size"); err != nil {
		t.Fatalf("RequestReturn: %v", err)
	}

	// при открытом возврате заказ нельзя увести из delivered
	if _, err := svc.SetStatus(actx, ord.ID, models.OrderStatusShipped); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("shipped with pending return: expected ErrInvalidState got %v", err)
	}
	shipped := models.OrderStatusShipped
	if _, err := svc.AdminUpdate(actx, ord.ID, service.AdminUpdateInput{Status: &shipped}); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("admin update with pending return: expected ErrInvalidState got %v", err)
	}

	// и после одобрения — тоже
	if _, err := svc.ApproveReturn(actx, ord.ID); err != nil {
		t.Fatalf("ApproveReturn: %v", err)
	}
	if _, err := svc.SetStatus(actx, ord.ID, models.OrderStatusPaid); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("paid with approved return: expected ErrInvalidState got %v", err)
	}

	// delivered → delivered и отмена остаются доступны
	if _, err := svc.SetStatus(actx, ord.ID, models.OrderStatusDelivered); err != nil {
		t.Fatalf("SetStatus delivered again: %v", err)
	}
	got, err := svc.SetStatus(actx, ord.ID, models.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("SetStatus cancelled: %v", err)
	}
	if got.Status != models.OrderStatusCancelled {
		t.Fatalf("status expected cancelled got %s", got.Status)
	}
}

func TestListOrders_ScopedToOwner(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)

	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true})

	alice, bob := uuid.New(), uuid.New()
	for _, uid := range []uuid.UUID{alice, alice, bob} {
		if _, err := svc.CreateOrder(customerCtx(uid), service.CreateOrderInput{
			Customer: validCustomer(),
			Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
		}); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
	}

	// покупатель видит только свои заказы, даже без фильтра
	list, total, err := svc.ListOrders(customerCtx(alice), service.ListFilter{})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("alice expected 2 orders got total=%d len=%d", total, len(list))
	}

	// админ видит все
	_, total, err = svc.ListOrders(adminCtx(), service.ListFilter{})
	if err != nil {
		t.Fatalf("ListOrders admin: %v", err)
	}
	if total != 3 {
		t.Fatalf("admin expected 3 orders got %d", total)
	}
}

func TestAdminUpdate(t *testing.T) {
	repo := setupRepo(t)
	svc := service.NewOrderService(repo, nil)

	p := seedProduct(t, repo, &models.Product{Title: "Mug", PricePaise: 19900, IsActive: true})
	userID := uuid.New()
	ord, err := svc.CreateOrder(customerCtx(userID), service.CreateOrderInput{
		Customer: validCustomer(),
		Items:    []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	tracking := "TRK-123"
	shipped := models.OrderStatusShipped
	got, err := svc.AdminUpdate(adminCtx(), ord.ID, service.AdminUpdateInput{
		Status:         &shipped,
		TrackingNumber: &tracking,
	})
	if err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if got.Status != models.OrderStatusShipped {
		t.Fatalf("status expected shipped got %s", got.Status)
	}
	if got.TrackingNumber == nil || *got.TrackingNumber != tracking {
		t.Fatalf("tracking mismatch: %+v", got.TrackingNumber)
	}

	// не-админ не проходит
	if _, err := svc.AdminUpdate(customerCtx(userID), ord.ID, service.AdminUpdateInput{}); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden got %v", err)
	}

	// неизвестное решение по возврату отклоняется
	bad := "maybe"
	if _, err := svc.AdminUpdate(adminCtx(), ord.ID, service.AdminUpdateInput{ReturnDecision: &bad}); !errors.Is(err, service.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus got %v", err)
	}
}
