package handlers

import (
	"net/http"

	"storefront-service/internal/dto"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products service.ProductService
	log      *zap.Logger
}

func NewProductHandler(products service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log}
}

// Create godoc
// @Summary Создание товара (админ)
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Товар"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
		return
	}
	tracking, ok := dto.ParseStockTracking(req.StockTracking)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.Error("unknown stock tracking mode"))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p, err := h.products.CreateProduct(serviceContext(c), service.ProductInput{
		Title:         req.Title,
		Description:   req.Description,
		PricePaise:    req.PricePaise,
		IsActive:      isActive,
		StockTracking: tracking,
		Stock:         req.Stock,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToProductResponse(p)))
}

// Update godoc
// @Summary Обновление товара (админ)
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param product body dto.UpdateProductRequest true "Изменения"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
		return
	}

	patch := service.ProductPatch{
		Title:       req.Title,
		Description: req.Description,
		PricePaise:  req.PricePaise,
		IsActive:    req.IsActive,
	}
	if req.StockTracking != nil {
		tracking, ok := dto.ParseStockTracking(*req.StockTracking)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.Error("unknown stock tracking mode"))
			return
		}
		patch.StockTracking = &tracking
	}

	p, err := h.products.UpdateProduct(serviceContext(c), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToProductResponse(p)))
}

// Get godoc
// @Summary Товар по ID
// @Tags products
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} dto.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	p, err := h.products.GetProduct(serviceContext(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToProductResponse(p)))
}

// List godoc
// @Summary Список товаров
// @Tags products
// @Produce json
// @Param q query string false "Поиск по названию"
// @Param active query bool false "Только активные"
// @Success 200 {object} dto.Response
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	f := repository.ProductListFilter{
		Query:  c.Query("q"),
		Limit:  atoiDefault(c.Query("limit"), 20),
		Offset: atoiDefault(c.Query("offset"), 0),
	}
	if a := c.Query("active"); a != "" {
		onlyActive := a == "true" || a == "1"
		f.OnlyActive = &onlyActive
	}

	list, total, err := h.products.ListProducts(serviceContext(c), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.ToProductResponse(&list[i]))
	}
	c.JSON(http.StatusOK, dto.Success(dto.ProductListResponse{Products: out, Total: total}))
}

// SetStock godoc
// @Summary Установка остатка (админ)
// @Description Пустой size — скалярный остаток, иначе остаток размера
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param body body dto.SetStockRequest true "Остаток"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /products/{id}/stock [put]
func (h *ProductHandler) SetStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
		return
	}

	var (
		p   *models.Product
		err error
	)
	if req.Size == "" {
		p, err = h.products.SetScalarStock(serviceContext(c), id, req.Stock)
	} else {
		p, err = h.products.SetSizeStock(serviceContext(c), id, req.Size, req.Stock)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToProductResponse(p)))
}
