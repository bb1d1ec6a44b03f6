package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port               string
	DBConn             string
	LogLevel           string
	ContentCatalogPath string
	OffersCatalogPath  string
	MaxRecommendations int
	BatchCron          string
	SMTPHost           string
	SMTPPort           string
	SMTPUsername       string
	SMTPPassword       string
	SenderEmail        string
	OperatorEmail      string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	maxRecs, err := strconv.Atoi(getEnv("MAX_RECOMMENDATIONS", "3"))
	if err != nil || maxRecs <= 0 {
		return nil, fmt.Errorf("MAX_RECOMMENDATIONS must be a positive integer")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBConn:             getEnv("DB_CONN", "host=localhost port=5432 user=spendsense password=spendsense dbname=spendsense sslmode=disable"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		ContentCatalogPath: getEnv("CONTENT_CATALOG_PATH", "data/content_catalog.yaml"),
		OffersCatalogPath:  getEnv("OFFERS_CATALOG_PATH", "data/partner_offers.xml"),
		MaxRecommendations: maxRecs,
		BatchCron:          getEnv("BATCH_CRON", "0 3 * * *"),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SenderEmail:        getEnv("SENDER_EMAIL", "alerts@spendsense.local"),
		OperatorEmail:      getEnv("OPERATOR_EMAIL", ""),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.ContentCatalogPath == "" {
		return nil, fmt.Errorf("CONTENT_CATALOG_PATH is required")
	}
	if cfg.OffersCatalogPath == "" {
		return nil, fmt.Errorf("OFFERS_CATALOG_PATH is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
