package http

import (
	"github.com/gin-gonic/gin"

	"github.com/wagerly/bridge-backend/internal/handler"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler, appConfig *config.AppConfig, logger *logger.Logger) {
	v1 := r.Group("/api/v1")

	deposits := v1.Group("/deposits")
	{
		deposits.POST("/cycle/:network", h.DepositHandler.RunCycle)
		deposits.POST("/credit-by-hash", h.DepositHandler.CreditByTxHash)
		deposits.POST("/rescan", h.DepositHandler.Rescan)
	}

	withdrawals := v1.Group("/withdrawals")
	{
		withdrawals.POST("", h.WithdrawalHandler.Create)
		withdrawals.POST("/:id/approve", h.WithdrawalHandler.Approve)
		withdrawals.POST("/:id/send", h.WithdrawalHandler.Send)
		withdrawals.POST("/:id/retry", h.WithdrawalHandler.Retry)
		withdrawals.POST("/:id/fail", h.WithdrawalHandler.Fail)
	}

	users := v1.Group("/users")
	{
		users.GET("/:id/deposit-address/:network", h.DepositHandler.GetDepositAddress)
	}

	healthGroup := v1.Group("/health")
	{
		healthGroup.GET("/db", h.HealthHandler.Database)
		healthGroup.GET("/external", h.HealthHandler.External)
	}

	// health check
	r.GET("/healthz", h.HealthHandler.Basic)

	// prometheus metrics
	r.GET("/metrics", h.MetricsHandler.Handler())
}
