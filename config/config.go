package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string

	// UpdateSecret gates the batch-update trigger endpoint
	UpdateSecret string

	// Vision solver settings (OpenAI-compatible endpoint)
	VisionAPIKey  string
	VisionBaseURL string
	VisionModel   string

	// Legal aggregator API settings
	AggregatorAPIKey  string
	AggregatorBaseURL string

	// Notification channels
	SendgridAPIKey   string
	TelegramBotToken string

	// Upstream portal endpoints, overridable so tests can point the
	// providers at local servers
	SupremeCourtURL  string
	HighCourtURL     string
	DistrictCourtURL string
	PublicSearchURL  string

	// When true, party-name search hits the official portals before the
	// free public search engine
	SearchOfficialFirst bool
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:                 os.Getenv("DB_URI"),
		DatabaseName:        os.Getenv("DB_NAME"),
		BaseURL:             os.Getenv("BASE_URL"),
		Port:                os.Getenv("PORT"),
		UpdateSecret:        os.Getenv("UPDATE_SECRET"),
		VisionAPIKey:        os.Getenv("VISION_API_KEY"),
		VisionBaseURL:       os.Getenv("VISION_BASE_URL"),
		VisionModel:         os.Getenv("VISION_MODEL"),
		AggregatorAPIKey:    os.Getenv("AGGREGATOR_API_KEY"),
		AggregatorBaseURL:   os.Getenv("AGGREGATOR_BASE_URL"),
		SendgridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		SupremeCourtURL:     getEnv("SUPREME_COURT_URL", "https://main.sci.gov.in"),
		HighCourtURL:        getEnv("HIGH_COURT_URL", "https://hcservices.ecourts.gov.in/hcservices"),
		DistrictCourtURL:    getEnv("DISTRICT_COURT_URL", "https://services.ecourts.gov.in/ecourtindia_v6"),
		PublicSearchURL:     getEnv("PUBLIC_SEARCH_URL", "https://indiankanoon.org"),
		SearchOfficialFirst: getEnvBool("SEARCH_OFFICIAL_FIRST", false),
	}

}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		zap.S().Warnf("invalid boolean for %v: %v, using default %v", key, v, fallback)
		return fallback
	}
	return b
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
	return
}
