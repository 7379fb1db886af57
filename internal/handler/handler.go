package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/chain"
	depositHandler "github.com/wagerly/bridge-backend/internal/handler/deposit"
	"github.com/wagerly/bridge-backend/internal/handler/health"
	"github.com/wagerly/bridge-backend/internal/handler/metrics"
	withdrawalHandler "github.com/wagerly/bridge-backend/internal/handler/withdrawal"
	"github.com/wagerly/bridge-backend/internal/model"
	depositPipeline "github.com/wagerly/bridge-backend/internal/pipeline/deposit"
	withdrawalPipeline "github.com/wagerly/bridge-backend/internal/pipeline/withdrawal"
	"github.com/wagerly/bridge-backend/internal/store"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

type Handler struct {
	DepositHandler    depositHandler.IHandler
	WithdrawalHandler withdrawalHandler.IHandler
	HealthHandler     health.IHealthHandler
	MetricsHandler    *metrics.MetricsHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	db *gorm.DB,
	s *store.Store,
	clients map[model.Network]chain.Client,
	depositPpl depositPipeline.IPipeline,
	withdrawalPpl withdrawalPipeline.IPipeline,
	metricsRegistry *prometheus.Registry) *Handler {
	return &Handler{
		DepositHandler:    depositHandler.New(db, s, depositPpl, clients, logger),
		WithdrawalHandler: withdrawalHandler.New(withdrawalPpl, logger, appConfig),
		HealthHandler:     health.New(appConfig, logger, db, clients),
		MetricsHandler:    metrics.NewMetricsHandler(metricsRegistry),
	}
}
