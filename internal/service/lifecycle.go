package service

import "storefront-service/internal/models"

// Маппинг статусов между проводом (lowercase) и моделью.
// processing/completed — исторические алиасы админки.
var wireToStatus = map[string]models.OrderStatus{
	"pending":              models.OrderStatusPending,
	"cod_pending":          models.OrderStatusCodPending,
	"pending_verification": models.OrderStatusPendingVerification,
	"paid":                 models.OrderStatusPaid,
	"processing":           models.OrderStatusPaid,
	"shipped":              models.OrderStatusShipped,
	"delivered":            models.OrderStatusDelivered,
	"completed":            models.OrderStatusDelivered,
	"cancelled":            models.OrderStatusCancelled,
}

var statusToWire = map[models.OrderStatus]string{
	models.OrderStatusPending:             "pending",
	models.OrderStatusCodPending:          "cod_pending",
	models.OrderStatusPendingVerification: "pending_verification",
	models.OrderStatusPaid:                "paid",
	models.OrderStatusShipped:             "shipped",
	models.OrderStatusDelivered:           "delivered",
	models.OrderStatusCancelled:           "cancelled",
}

var returnToWire = map[models.ReturnStatus]string{
	models.ReturnNone:     "None",
	models.ReturnPending:  "Pending",
	models.ReturnApproved: "Approved",
	models.ReturnRejected: "Rejected",
}

// ParseAdminStatus принимает пять публичных статусов плюс алиасы.
// Служебные платёжные статусы через админский апдейт не выставляются.
func ParseAdminStatus(s string) (models.OrderStatus, bool) {
	switch s {
	case "pending", "paid", "shipped", "delivered", "cancelled", "processing", "completed":
		return wireToStatus[s], true
	}
	return "", false
}

// ParseCreateStatus — статус, допустимый при создании заказа
// (любой, кроме cancelled; по умолчанию pending)
func ParseCreateStatus(s string) (models.OrderStatus, bool) {
	st, ok := wireToStatus[s]
	if !ok || st == models.OrderStatusCancelled {
		return "", false
	}
	return st, true
}

func WireStatus(st models.OrderStatus) string  { return statusToWire[st] }
func WireReturn(rs models.ReturnStatus) string { return returnToWire[rs] }

// CanCancel: отмена возможна только до оплаты/отгрузки
func CanCancel(st models.OrderStatus) bool {
	switch st {
	case models.OrderStatusPending, models.OrderStatusCodPending, models.OrderStatusPendingVerification:
		return true
	}
	return false
}

// CanRequestReturn: возврат просят только по доставленному заказу,
// и только из None (первый запрос) или Rejected (повторный)
func CanRequestReturn(st models.OrderStatus, rs models.ReturnStatus) bool {
	if st != models.OrderStatusDelivered {
		return false
	}
	return rs == models.ReturnNone || rs == models.ReturnRejected
}

// CanDecideReturn: решение принимается только по ожидающему запросу
func CanDecideReturn(rs models.ReturnStatus) bool {
	return rs == models.ReturnPending
}

// CanSetStatus: ось возврата существует только у доставленных и отменённых
// заказов, поэтому при ненулевом return_status другие статусы недоступны
func CanSetStatus(next models.OrderStatus, rs models.ReturnStatus) bool {
	if rs == models.ReturnNone {
		return true
	}
	return next == models.OrderStatusDelivered || next == models.OrderStatusCancelled
}

// NotifyOnStatus: какие переходы статуса уведомляют покупателя
func NotifyOnStatus(prev, next models.OrderStatus) bool {
	if prev == next {
		return false
	}
	return next == models.OrderStatusShipped || next == models.OrderStatusDelivered
}
