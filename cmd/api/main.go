package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/catalog"
	"github.com/spendsense/spendsense/internal/config"
	"github.com/spendsense/spendsense/internal/handler"
	"github.com/spendsense/spendsense/internal/recommend"
	"github.com/spendsense/spendsense/internal/repository"
	"github.com/spendsense/spendsense/internal/service"
	"github.com/spendsense/spendsense/internal/signals"
	"github.com/spendsense/spendsense/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Load catalogs once; they are immutable for the process lifetime
	cat, err := catalog.Load(cfg.ContentCatalogPath, cfg.OffersCatalogPath, logger)
	if err != nil {
		logger.Fatalf("Failed to load catalogs: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	computer := signals.NewComputer(repo, logger)
	engine := recommend.NewEngine(cat, logger)
	rationales := recommend.NewGenerator(logger)

	var alerts service.Alerter
	sender := email.NewSender(cfg, logger)
	if sender.Enabled() {
		alerts = sender
	} else {
		logger.Warnf("Operator alerting disabled: SMTP_HOST or OPERATOR_EMAIL not set")
	}

	svc := service.NewService(repo, computer, engine, rationales, alerts, logger, cfg.MaxRecommendations)
	h := handler.NewHandler(svc, logger)

	// Schedule nightly batch persona refresh
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.BatchCron, func() {
		if err := svc.RefreshAllPersonas(context.Background()); err != nil {
			logger.Errorf("Batch persona refresh failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Invalid BATCH_CRON %q: %v", cfg.BatchCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/insights/{user_id}", h.GetInsights).Methods("GET")
	r.HandleFunc("/personas/{user_id}/history", h.GetPersonaHistory).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
