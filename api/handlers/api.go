package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/quantraven93/court-tracker-api/api"
	"github.com/quantraven93/court-tracker-api/captcha"
	"github.com/quantraven93/court-tracker-api/config"
	"github.com/quantraven93/court-tracker-api/courts"
	"github.com/quantraven93/court-tracker-api/databases"
	"github.com/quantraven93/court-tracker-api/models"
	"github.com/quantraven93/court-tracker-api/notify"
	"github.com/quantraven93/court-tracker-api/pipeline"
)

// App stores the router, db connection, and the update pipeline, so they
// can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Resolver *courts.ResolutionService
	Pipeline *pipeline.Pipeline
	LockDB   databases.SchedulerLockDatabase
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	c := Case{
		DB:       databases.NewTrackedCaseDatabase(a.dbHelper),
		EventDB:  databases.NewChangeEventDatabase(a.dbHelper),
		Resolver: a.Resolver,
	}
	e := Event{DB: databases.NewChangeEventDatabase(a.dbHelper)}
	s := Search{Resolver: a.Resolver}
	u := Updates{Pipeline: a.Pipeline}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.Use(api.MetricsMiddleware)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	secret := api.SecretMiddleware(a.Config.UpdateSecret)

	// store-backed routes get a hard cap; provider-backed routes
	// (create, refresh, search, updates) carry their own budgets
	timeout := api.TimeoutMiddleware(30 * time.Second)

	apiCreate.Handle("/cases", http.HandlerFunc(c.CreateCaseHandler)).Methods("POST")
	apiCreate.Handle("/cases/user/{user_id}", timeout(http.HandlerFunc(c.CasesByUserIDHandler))).Methods("GET")
	apiCreate.Handle("/case/{case_id}", timeout(http.HandlerFunc(c.CaseByIDHandler))).Methods("GET")
	apiCreate.Handle("/case/{case_id}", timeout(http.HandlerFunc(c.UpdateCaseHandler))).Methods("PUT")
	apiCreate.Handle("/case/{case_id}", timeout(http.HandlerFunc(c.DeleteCaseHandler))).Methods("DELETE")
	apiCreate.Handle("/case/{case_id}/refresh", http.HandlerFunc(c.RefreshCaseHandler)).Methods("POST")
	apiCreate.Handle("/case/{case_id}/events", timeout(http.HandlerFunc(e.EventsByCaseIDHandler))).Methods("GET")

	apiCreate.Handle("/search", http.HandlerFunc(s.SearchHandler)).Methods("GET")

	apiCreate.Handle("/updates/run", secret(http.HandlerFunc(u.RunUpdatesHandler))).Methods("POST")
	apiCreate.Handle("/metrics", timeout(http.HandlerFunc(MetricsHandler))).Methods("GET")

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("court-tracker-api has connected to the database")

	solver := captcha.NewSolver(a.Config.VisionAPIKey, a.Config.VisionBaseURL, a.Config.VisionModel)
	a.Resolver = courts.NewResolutionService(
		courts.NewSupremeCourtProvider(a.Config.SupremeCourtURL, solver),
		courts.NewEcourtsProvider(a.Config.HighCourtURL, a.Config.DistrictCourtURL, solver),
		courts.NewAggregatorProvider(a.Config.AggregatorBaseURL, a.Config.AggregatorAPIKey),
		courts.NewPublicSearchProvider(a.Config.PublicSearchURL),
		a.Config.SearchOfficialFirst,
	)

	dispatcher := notify.NewService(
		databases.NewUserDatabase(a.dbHelper),
		databases.NewDeliveryLogDatabase(a.dbHelper),
		a.Config.SendgridAPIKey,
		a.Config.TelegramBotToken,
	)
	a.Pipeline = pipeline.New(
		databases.NewTrackedCaseDatabase(a.dbHelper),
		databases.NewChangeEventDatabase(a.dbHelper),
		a.Resolver,
		dispatcher,
	)
	a.LockDB = databases.NewSchedulerLockDatabase(a.dbHelper)

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
