package handlers

import (
	"net/http"

	"storefront-service/internal/dto"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	stats    service.StatsService
	settings service.SettingsService
	log      *zap.Logger
}

func NewAdminHandler(stats service.StatsService, settings service.SettingsService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{stats: stats, settings: settings, log: log}
}

// StatsOverview godoc
// @Summary Сводная статистика (админ)
// @Tags admin
// @Produce json
// @Param range query string false "Период: 7d | 30d | 90d (по умолчанию 30d)"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /admin/stats/overview [get]
func (h *AdminHandler) StatsOverview(c *gin.Context) {
	ov, err := h.stats.Overview(serviceContext(c), c.Query("range"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(ov))
}

// GetSettings godoc
// @Summary Настройки магазина
// @Tags settings
// @Produce json
// @Success 200 {object} dto.Response
// @Router /settings [get]
func (h *AdminHandler) GetSettings(c *gin.Context) {
	s, err := h.settings.Get(serviceContext(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToSettingsResponse(s)))
}

// UpdateSettings godoc
// @Summary Обновление настроек (админ)
// @Description Версия в теле должна совпадать с текущей, иначе 409
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body dto.UpdateSettingsRequest true "Изменения"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
		return
	}

	s, err := h.settings.Update(serviceContext(c), service.SettingsPatch{
		Ticker:       req.Ticker,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Version:      req.Version,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToSettingsResponse(s)))
}
