package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/pmcouto/centavo/internal/category"
	categoryMemory "github.com/pmcouto/centavo/internal/category/memory"
	categoryStore "github.com/pmcouto/centavo/internal/category/store"
	"github.com/pmcouto/centavo/internal/config"
	"github.com/pmcouto/centavo/internal/currency"
	"github.com/pmcouto/centavo/internal/dashboard"
	"github.com/pmcouto/centavo/internal/database"
	centavoHttp "github.com/pmcouto/centavo/internal/http"
	categoryHandler "github.com/pmcouto/centavo/internal/http/category"
	dashboardHandler "github.com/pmcouto/centavo/internal/http/dashboard"
	importHandler "github.com/pmcouto/centavo/internal/http/importcsv"
	recurringHandler "github.com/pmcouto/centavo/internal/http/recurring"
	txHandler "github.com/pmcouto/centavo/internal/http/transaction"
	"github.com/pmcouto/centavo/internal/importer"
	"github.com/pmcouto/centavo/internal/recurring"
	recurringMemory "github.com/pmcouto/centavo/internal/recurring/memory"
	recurringStore "github.com/pmcouto/centavo/internal/recurring/store"
	"github.com/pmcouto/centavo/internal/transaction"
	txMemory "github.com/pmcouto/centavo/internal/transaction/memory"
	txStore "github.com/pmcouto/centavo/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	txRepo, recurringRepo, categoryRepo, cleanup, err := buildStores(cfg)
	if err != nil {
		slog.Error("failed to set up storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	converter, err := currency.NewConverter(cfg.Currency.Base, currency.DefaultRates)
	if err != nil {
		slog.Error("failed to build currency converter", "error", err)
		os.Exit(1)
	}

	var (
		transactionService = transaction.NewService(txRepo)
		recurringService   = recurring.NewService(recurringRepo)
		categoryService    = category.NewService(categoryRepo)
		dashboardService   = dashboard.NewService(transactionService, categoryService, converter)
		importService      = importer.NewService()
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		recurringH   = recurringHandler.NewHandler(recurringService)
		categoryH    = categoryHandler.NewHandler(categoryService)
		dashboardH   = dashboardHandler.NewHandler(dashboardService)
		importH      = importHandler.NewHandler(importService, transactionService)
	)

	router := centavoHttp.New(transactionH, recurringH, categoryH, dashboardH, importH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", srv.Addr, "storage", cfg.Storage.Driver)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildStores wires the repositories for the configured storage driver.
// Under the memory driver the recurring store writes generated
// transactions straight into the transaction store.
func buildStores(cfg *config.Config) (transaction.Repository, recurring.Repository, category.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxConns)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("connect to database: %w", err)
		}

		cleanup := func() { db.Close() }
		return txStore.New(db), recurringStore.New(db), categoryStore.New(db), cleanup, nil

	case "memory":
		txs := txMemory.New()
		return txs, recurringMemory.New(txs), categoryMemory.New(), func() {}, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
