package server

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/chain/keyprovider"
	"github.com/wagerly/bridge-backend/internal/chain/polygonrpc"
	"github.com/wagerly/bridge-backend/internal/chain/solanarpc"
	"github.com/wagerly/bridge-backend/internal/chain/tatum"
	"github.com/wagerly/bridge-backend/internal/chain/tronrpc"
	"github.com/wagerly/bridge-backend/internal/handler"
	"github.com/wagerly/bridge-backend/internal/ledger"
	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/monitoring"
	depositPipeline "github.com/wagerly/bridge-backend/internal/pipeline/deposit"
	withdrawalPipeline "github.com/wagerly/bridge-backend/internal/pipeline/withdrawal"
	"github.com/wagerly/bridge-backend/internal/store"
	pgstore "github.com/wagerly/bridge-backend/internal/store/postgres"
	"github.com/wagerly/bridge-backend/internal/transport/http"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)
	s := store.New()

	metricsRegistry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics()
	metrics.MustRegister(metricsRegistry)

	tatumClient := tatum.New(appConfig, logger)
	keyProvider := keyprovider.New(appConfig, logger)

	tronRpc := tronrpc.New(appConfig, logger, tatumClient, keyProvider)
	polygonRpc, err := polygonrpc.New(appConfig, logger, tatumClient, keyProvider)
	if err != nil {
		logger.Error("Failed to init polygon rpc", map[string]string{
			"error": err.Error(),
		})
		return
	}
	solanaRpc := solanarpc.New(appConfig, logger, tatumClient, keyProvider)

	// payout and address derivation go through the circuit breakers; the
	// deposit pipeline keeps the raw clients so scan retries stay its own
	// concern
	clients := map[model.Network]chain.Client{
		model.NetworkTron: monitoring.NewCircuitBreakerClient(
			tronRpc, monitoring.ConfigFor("tron_rpc"), metrics, logger),
		model.NetworkPolygon: monitoring.NewCircuitBreakerClient(
			polygonRpc, monitoring.ConfigFor("polygon_rpc"), metrics, logger),
		model.NetworkSolana: monitoring.NewCircuitBreakerClient(
			solanaRpc, monitoring.ConfigFor("solana_rpc"), metrics, logger),
	}

	ldgr := ledger.New(s, logger)

	depositPpl := depositPipeline.New(db, s, appConfig, logger, ldgr, metrics, tronRpc, polygonRpc, solanaRpc)
	withdrawalPpl := withdrawalPipeline.New(db, s, appConfig, logger, ldgr, metrics, clients)

	c := cron.New()
	for _, network := range model.AllNetworks() {
		network := network
		_, err := c.AddFunc(appConfig.Scan.DepositCronSpec, func() {
			result := depositPpl.RunCycle(context.Background(), network)
			if len(result.Errors) > 0 {
				logger.Error("[cron] deposit cycle finished with errors", map[string]string{
					"network": network.String(),
					"errors":  result.Errors[0],
				})
			}
		})
		if err != nil {
			logger.Error("Failed to schedule deposit cycle", map[string]string{
				"network": network.String(),
				"error":   err.Error(),
			})
			return
		}
	}

	if _, err := c.AddFunc(appConfig.Scan.WithdrawCronSpec, func() {
		result := withdrawalPpl.SendApproved(context.Background())
		if result.Failed > 0 {
			logger.Error("[cron] withdrawal sender finished with failures", map[string]string{
				"failed": strconv.Itoa(result.Failed),
			})
		}
	}); err != nil {
		logger.Error("Failed to schedule withdrawal sender", map[string]string{
			"error": err.Error(),
		})
		return
	}
	c.Start()
	defer c.Stop()

	h := handler.New(appConfig, logger, db, s, clients, depositPpl, withdrawalPpl, metricsRegistry)
	httpServer := http.NewHttpServer(appConfig, logger, h)

	httpServer.Run()
}
