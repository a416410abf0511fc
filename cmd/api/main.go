package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dcastro/payable/internal/config"
	"github.com/dcastro/payable/internal/database"
	payableHttp "github.com/dcastro/payable/internal/http"
	invoiceHandler "github.com/dcastro/payable/internal/http/invoice"
	paymentHandler "github.com/dcastro/payable/internal/http/payment"
	"github.com/dcastro/payable/internal/importer"
	"github.com/dcastro/payable/internal/invoice"
	invoiceStore "github.com/dcastro/payable/internal/invoice/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		invoiceService = invoice.NewService(invoiceStore.New(db))
		importService  = importer.NewService()
	)

	var (
		invoicesH = invoiceHandler.NewHandler(invoiceService)
		paymentsH = paymentHandler.NewHandler(invoiceService, importService)
	)

	router := payableHttp.New(invoicesH, paymentsH, cfg.Auth.JWTSecret)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
