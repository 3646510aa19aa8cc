package handlers

import (
	"net/http"
	"strconv"

	"storefront-service/internal/dto"
	"storefront-service/internal/sender"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders   service.OrderService
	invoices service.InvoiceService
	mail     *sender.EmailSender
	log      *zap.Logger
}

func NewOrderHandler(orders service.OrderService, invoices service.InvoiceService, mail *sender.EmailSender, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		invoices: invoices,
		mail:     mail,
		log:      log,
	}
}

// Create godoc
// @Summary Создание заказа
// @Description Валидирует адрес, атомарно списывает остатки и создаёт заказ
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Данные заказа"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response "Неверные данные"
// @Failure 409 {object} dto.Response "Недостаточно остатков"
// @Security BearerAuth
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create order request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
		return
	}

	in := service.CreateOrderInput{
		Customer: service.CustomerInfo{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
			City:    req.City,
			State:   req.State,
			Pincode: req.Pincode,
		},
		DiscountPaise:      req.DiscountPaise,
		ShippingPaise:      req.ShippingPaise,
		TaxPaise:           req.TaxPaise,
		DeclaredTotalPaise: req.TotalPaise,
		PaymentMethod:      req.PaymentMethod,
		UPIReference:       req.UPIReference,
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "cod"
	}
	if req.Status != "" {
		st, ok := service.ParseCreateStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.Error("unknown order status"))
			return
		}
		in.Status = st
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.CreateOrderItem{
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}

	ord, err := h.orders.CreateOrder(serviceContext(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderResponse(ord)))
}

// List godoc
// @Summary Список заказов
// @Description Админ видит все заказы; ?mine=1 — только свои
// @Tags orders
// @Produce json
// @Param mine query int false "Только свои заказы"
// @Param status query string false "Фильтр по статусу"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	f := service.ListFilter{
		Limit:  atoiDefault(c.Query("limit"), 20),
		Offset: atoiDefault(c.Query("offset"), 0),
	}
	if s := c.Query("status"); s != "" {
		st, ok := service.ParseAdminStatus(s)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.Error("unknown order status"))
			return
		}
		f.Status = &st
	}

	ctx := serviceContext(c)
	if c.Query("mine") == "1" || c.FullPath() == "/orders/mine" {
		if uid, ok := service.UserIDFromContext(ctx); ok {
			f.UserID = &uid
		}
	}

	orders, total, err := h.orders.ListOrders(ctx, f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderListResponse(orders, total)))
}

// Get godoc
// @Summary Заказ по ID
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	ord, err := h.orders.GetOrder(serviceContext(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderResponse(ord)))
}

// SetStatus godoc
// @Summary Смена статуса заказа (админ)
// @Description Принимает pending|paid|shipped|delivered|cancelled и алиасы processing/completed
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID заказа"
// @Param status body dto.UpdateStatusRequest true "Новый статус"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /orders/{id}/status [put]
func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
		return
	}
	st, ok := service.ParseAdminStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.Error("unknown order status"))
		return
	}

	ord, err := h.orders.SetStatus(serviceContext(c), id, st)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderResponse(ord)))
}

// Cancel godoc
// @Summary Отмена заказа
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID заказа"
// @Param body body dto.CancelOrderRequest false "Причина"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response "Отмена недоступна в текущем статусе"
// @Security BearerAuth
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
			return
		}
	}

	ord, err := h.orders.CancelOrder(serviceContext(c), id, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderResponse(ord)))
}

// RequestReturn godoc
// @Summary Запрос возврата (покупатель)
// @Tags returns
// @Accept json
// @Produce json
// @Param id path string true "ID заказа"
// @Param body body dto.RequestReturnRequest true "Причина возврата"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /orders/{id}/request-return [post]
func (h *OrderHandler) RequestReturn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RequestReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("reason is required"))
		return
	}

	ord, err := h.orders.RequestReturn(serviceContext(c), id, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderResponse(ord)))
}

// ApproveReturn godoc
// @Summary Одобрение возврата (админ)
// @Tags returns
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /orders/{id}/approve-return [post]
func (h *OrderHandler) ApproveReturn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	ord, err := h.orders.ApproveReturn(serviceContext(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderResponse(ord)))
}

// RejectReturn godoc
// @Summary Отклонение возврата (админ)
// @Tags returns
// @Accept json
// @Produce json
// @Param id path string true "ID заказа"
// @Param body body dto.RejectReturnRequest false "Причина отклонения"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /orders/{id}/reject-return [post]
func (h *OrderHandler) RejectReturn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RejectReturnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
			return
		}
	}
	ord, err := h.orders.RejectReturn(serviceContext(c), id, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderResponse(ord)))
}

// AdminUpdate godoc
// @Summary Комбинированное обновление заказа (админ)
// @Description Статус, трек-номер и решение по возврату одним вызовом
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID заказа"
// @Param body body dto.AdminUpdateRequest true "Изменения"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /orders/{id}/admin-update [put]
func (h *OrderHandler) AdminUpdate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
		return
	}

	in := service.AdminUpdateInput{
		TrackingNumber: req.TrackingNumber,
		ReturnDecision: req.ReturnDecision,
		ReturnReason:   req.ReturnReason,
	}
	if req.Status != nil {
		st, ok := service.ParseAdminStatus(*req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.Error("unknown order status"))
			return
		}
		in.Status = &st
	}

	ord, err := h.orders.AdminUpdate(serviceContext(c), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToOrderResponse(ord)))
}

// Invoice godoc
// @Summary Инвойс по заказу
// @Description Выдаёт инвойс лениво; повторный вызов возвращает тот же номер
// @Tags invoices
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	inv, ord, err := h.invoices.IssueInvoice(serviceContext(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToInvoiceResponse(inv, ord)))
}

// SendMail godoc
// @Summary Прямая отправка письма (админ)
// @Tags mail
// @Accept json
// @Produce json
// @Param body body dto.SendMailRequest true "Письмо"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /orders/send-mail [post]
func (h *OrderHandler) SendMail(c *gin.Context) {
	var req dto.SendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
		return
	}

	if err := h.mail.SendEmail(sender.EmailNotification{
		To:       req.To,
		Subject:  req.Subject,
		Template: req.Template,
		Data:     req.Data,
	}); err != nil {
		h.log.Error("send mail failed", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.Error("failed to send email"))
		return
	}
	c.JSON(http.StatusOK, dto.Success(gin.H{"sent": true}))
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
