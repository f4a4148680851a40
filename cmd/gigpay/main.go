package main

import (
	"fmt"
	"os"

	"github.com/nurpe/gigpay/internal/auth"
	"github.com/nurpe/gigpay/internal/config"
	"github.com/nurpe/gigpay/internal/db"
	"github.com/nurpe/gigpay/internal/excel"
	httphandler "github.com/nurpe/gigpay/internal/http"
	"github.com/nurpe/gigpay/internal/http/middleware"
	"github.com/nurpe/gigpay/internal/logger"
	"github.com/nurpe/gigpay/internal/pdf"
	"github.com/nurpe/gigpay/internal/repository"
	"github.com/nurpe/gigpay/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	ledgerRepo := repository.NewLedgerRepository(database)
	receipts := pdf.NewGenerator()
	statements := excel.NewGenerator()

	ledgerService := service.NewLedgerService(ledgerRepo, receipts, statements)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(ledgerService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting gigpay service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
