package router

import (
	"github.com/inventaris/backend/internal/infrastructure/config"
	"github.com/inventaris/backend/internal/infrastructure/logger"
	"github.com/inventaris/backend/internal/interfaces/http/handler"
	"github.com/inventaris/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	System       *handler.SystemHandler
	Stock        *handler.StockHandler
	Request      *handler.RequestHandler
	Purchase     *handler.PurchaseHandler
	Opname       *handler.OpnameHandler
	Notification *handler.NotificationHandler
}

// New builds the gin engine with all routes and middleware mounted
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(logger.RequestLogger(log))
	r.Use(logger.Recovery(log))
	r.Use(middleware.Secure())
	r.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID", "X-User-ID", "Accept", "Origin"},
		AllowCredentials: true,
	}))

	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)

	v1 := r.Group("/api/v1")
	{
		items := v1.Group("/stock-items")
		{
			items.POST("", h.Stock.Create)
			items.GET("", h.Stock.List)
			items.GET("/below-minimum", h.Stock.BelowMinimum)
			items.GET("/:id", h.Stock.Get)
			items.PUT("/:id", h.Stock.Update)
			items.GET("/:id/card", h.Stock.StockCard)
			items.POST("/:id/adjustments", h.Stock.Adjust)
		}

		requests := v1.Group("/requests")
		{
			requests.POST("", h.Request.Create)
			requests.GET("", h.Request.List)
			requests.GET("/:id", h.Request.Get)
			requests.POST("/:id/approve", h.Request.Approve)
			requests.POST("/:id/approve-office", h.Request.ApproveOffice)
			requests.POST("/:id/reject", h.Request.Reject)
			requests.POST("/:id/distribute", h.Request.Distribute)
			requests.POST("/:id/confirm-receive", h.Request.ConfirmReceive)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", h.Purchase.Create)
			purchases.GET("", h.Purchase.List)
			purchases.GET("/:id", h.Purchase.Get)
			purchases.POST("/:id/receive", h.Purchase.MarkReceived)
			purchases.POST("/:id/complete", h.Purchase.Complete)
			purchases.POST("/:id/cancel", h.Purchase.Cancel)
		}

		opnames := v1.Group("/stock-opnames")
		{
			opnames.POST("", h.Opname.Create)
			opnames.GET("", h.Opname.List)
			opnames.GET("/:id", h.Opname.Get)
			opnames.POST("/:id/counts", h.Opname.RecordCount)
			opnames.POST("/:id/submit", h.Opname.Submit)
			opnames.POST("/:id/approve", h.Opname.Approve)
			opnames.POST("/:id/reject", h.Opname.Reject)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("/settings", h.Notification.GetSettings)
			notifications.PUT("/settings", h.Notification.UpdateSettings)
			notifications.GET("/logs", h.Notification.ListLogs)
		}
	}

	return r
}
