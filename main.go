package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dentadmin/backend/internal/api"
	"github.com/dentadmin/backend/internal/cache"
	"github.com/dentadmin/backend/internal/config"
	"github.com/dentadmin/backend/internal/middleware"
	"github.com/dentadmin/backend/internal/migrate"
	"github.com/dentadmin/backend/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	var pool *pgxpool.Pool
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("config postgres: %v", err)
		}
		if cfg.DBMaxConns > 0 {
			poolConfig.MaxConns = int32(cfg.DBMaxConns)
		}
		if cfg.DBMinConns > 0 {
			poolConfig.MinConns = int32(cfg.DBMinConns)
		}
		if cfg.DBMaxConnLifetime > 0 {
			poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
		}
		pool, err = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			log.Fatalf("postgres pool: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(context.Background()); err != nil {
			log.Fatalf("ping postgres: %v", err)
		}
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("postgres gorm: %v", err)
		}
		if err := migrate.Run(context.Background(), db, "migrations"); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		if err := seed.Run(context.Background(), db); err != nil {
			log.Printf("seed (ignored if already applied): %v", err)
		}
	}

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if pool == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"no database"}`))
			return
		}
		if err := pool.Ping(context.Background()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"db unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	h := &api.Handler{DB: db, Pool: pool, Cfg: cfg, Cache: cache.New(30 * time.Second)}

	apiRouter := r.PathPrefix("/api").Subrouter()
	// The agenda endpoints stay open: a token, when sent, only enriches the
	// request context.
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTSecret)
	apiRouter.Handle("/appointments", optionalAuth(http.HandlerFunc(h.ListAppointments))).Methods(http.MethodGet)
	apiRouter.Handle("/appointments", optionalAuth(http.HandlerFunc(h.CreateAppointment))).Methods(http.MethodPost)
	apiRouter.Handle("/appointments", optionalAuth(http.HandlerFunc(h.UpdateAppointment))).Methods(http.MethodPut)
	apiRouter.Handle("/appointments", optionalAuth(http.HandlerFunc(h.DeleteAppointment))).Methods(http.MethodDelete)
	apiRouter.Handle("/practitioners", optionalAuth(http.HandlerFunc(h.ListPractitioners))).Methods(http.MethodGet)

	apiRouter.Handle("/patients", optionalAuth(http.HandlerFunc(h.ListPatients))).Methods(http.MethodGet)
	apiRouter.Handle("/patients", optionalAuth(http.HandlerFunc(h.CreatePatient))).Methods(http.MethodPost)
	apiRouter.Handle("/patients/{patientId}", optionalAuth(http.HandlerFunc(h.GetPatient))).Methods(http.MethodGet)
	apiRouter.Handle("/patients/{patientId}", optionalAuth(http.HandlerFunc(h.UpdatePatient))).Methods(http.MethodPut)
	apiRouter.Handle("/patients/{patientId}", optionalAuth(http.HandlerFunc(h.DeletePatient))).Methods(http.MethodDelete)

	apiRouter.Handle("/patients/{patientId}/teeth", optionalAuth(http.HandlerFunc(h.GetTeeth))).Methods(http.MethodGet)
	apiRouter.Handle("/patients/{patientId}/teeth", optionalAuth(http.HandlerFunc(h.PutTeeth))).Methods(http.MethodPut)
	apiRouter.Handle("/patients/{patientId}/teeth/{tooth}/treatments", optionalAuth(http.HandlerFunc(h.ListToothTreatments))).Methods(http.MethodGet)
	apiRouter.Handle("/patients/{patientId}/teeth/{tooth}/treatments", optionalAuth(http.HandlerFunc(h.CreateToothTreatment))).Methods(http.MethodPost)

	apiRouter.HandleFunc("/attestations", h.ListAttestations).Methods(http.MethodGet)
	apiRouter.HandleFunc("/attestations/{id}/pdf", h.GetAttestationPDF).Methods(http.MethodGet)
	apiRouter.HandleFunc("/attestations/{id}/qr", h.GetAttestationQR).Methods(http.MethodGet)

	apiRouter.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	apiRouter.HandleFunc("/test-connection", h.TestConnection).Methods(http.MethodPost)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)
	apiRouter.Handle("/login", middleware.RateLimit(loginLimiter)(http.HandlerFunc(h.Login))).Methods(http.MethodPost)

	// Billing mutations require a valid token.
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireAuthMiddleware(cfg.JWTSecret))
	protected.HandleFunc("/attestations", h.CreateAttestation).Methods(http.MethodPost)

	chain := middleware.Recover(middleware.RequestID(middleware.Timeout(cfg.RequestTimeoutSec)(middleware.CORS(cfg.CORSOrigins)(middleware.Gzip(r)))))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("backend listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("backend stopped")
}
