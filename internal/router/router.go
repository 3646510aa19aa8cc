package router

import (
	"storefront-service/config"
	"storefront-service/internal/handlers"
	"storefront-service/internal/middleware"

	"github.com/gin-contrib/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Orders   *handlers.OrderHandler
	Products *handlers.ProductHandler
	Admin    *handlers.AdminHandler
}

func Router(cfg *config.Config, h Handlers, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	auth := middleware.AuthRequired(cfg.JWTSecret, log)
	admin := middleware.AdminRequired()

	// Публичные маршруты
	r.GET("/products", h.Products.List)
	r.GET("/products/:id", h.Products.Get)
	r.GET("/settings", h.Admin.GetSettings)

	// Заказы — только для авторизованных
	orders := r.Group("/orders", auth)
	{
		orders.POST("", h.Orders.Create)
		orders.GET("", h.Orders.List)
		orders.GET("/mine", h.Orders.List)
		orders.GET("/:id", h.Orders.Get)
		orders.POST("/:id/cancel", h.Orders.Cancel)
		orders.POST("/:id/request-return", h.Orders.RequestReturn)
		orders.GET("/:id/invoice", h.Orders.Invoice)

		// Админские операции над заказом
		orders.POST("/send-mail", admin, h.Orders.SendMail)
		orders.PUT("/:id/status", admin, h.Orders.SetStatus)
		orders.PUT("/:id", admin, h.Orders.AdminUpdate)
		orders.POST("/:id/approve-return", admin, h.Orders.ApproveReturn)
		orders.POST("/:id/reject-return", admin, h.Orders.RejectReturn)
		orders.PUT("/:id/admin-update", admin, h.Orders.AdminUpdate)
	}

	// Каталог и настройки — админ
	r.POST("/products", auth, admin, h.Products.Create)
	r.PUT("/products/:id", auth, admin, h.Products.Update)
	r.PUT("/products/:id/stock", auth, admin, h.Products.SetStock)

	adminGroup := r.Group("/admin", auth, admin)
	{
		adminGroup.GET("/stats/overview", h.Admin.StatsOverview)
		adminGroup.PUT("/settings", h.Admin.UpdateSettings)
	}

	return r
}
