package main

import (
	"context"
	"net/http"
	"os"

	"filmoteka/internal/logging"
	"filmoteka/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Fatal(err, "load configuration")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})
	logging.SetGlobalLogger(logger)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(err, "connect to database")
	}
	defer db.Close()

	if err := store.EnsureSchema(context.Background(), db); err != nil {
		logger.Fatal(err, "ensure schema")
	}

	dataStore := store.New(db)

	if err := seedReferenceData(context.Background(), db); err != nil {
		logger.Fatal(err, "seed reference data")
	}

	handler := newHTTPHandler(cfg, dataStore)

	logger.Info("API available at http://localhost" + cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal(err, "server error")
	}
}
