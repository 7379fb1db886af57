package main

import (
	"os"

	"github.com/wagerly/bridge-backend/internal/model"
	pgstore "github.com/wagerly/bridge-backend/internal/store/postgres"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

func main() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)

	err := db.AutoMigrate(
		&model.User{},
		&model.WalletAddress{},
		&model.BlockCursor{},
		&model.Deposit{},
		&model.LedgerTransaction{},
		&model.WithdrawalRequest{},
	)
	if err != nil {
		logger.Error("[main][AutoMigrate] failed to run migrations", map[string]string{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.Info("Migrations completed successfully")
}
