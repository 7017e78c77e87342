package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medease/medease-api/internal/config"
	"github.com/medease/medease-api/internal/email"
	appointmentHandler "github.com/medease/medease-api/internal/handler/appointment"
	authHandler "github.com/medease/medease-api/internal/handler/auth"
	doctorHandler "github.com/medease/medease-api/internal/handler/doctor"
	healthHandler "github.com/medease/medease-api/internal/handler/health"
	patientHandler "github.com/medease/medease-api/internal/handler/patient"
	"github.com/medease/medease-api/internal/middleware"
	"github.com/medease/medease-api/internal/repository/postgres"
	"github.com/medease/medease-api/internal/router"
	"github.com/medease/medease-api/internal/seed"
	appointmentService "github.com/medease/medease-api/internal/service/appointment"
	authService "github.com/medease/medease-api/internal/service/auth"
	doctorService "github.com/medease/medease-api/internal/service/doctor"
	eventService "github.com/medease/medease-api/internal/service/event"
	patientService "github.com/medease/medease-api/internal/service/patient"
	"github.com/medease/medease-api/pkg/auth"
	"github.com/medease/medease-api/pkg/logger"
	"github.com/medease/medease-api/pkg/metrics"
	"github.com/medease/medease-api/pkg/security"
	"github.com/medease/medease-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:      parseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if err := validator.RegisterCustomValidations(); err != nil {
		log.Fatal(err, "failed to register validations")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	metricsRepo := postgres.NewHealthMetricsRepository(db)
	conditionRepo := postgres.NewMedicalConditionRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	hasher := security.NewBcryptHasher(0)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour, cfg.JWT.Issuer)
	mailer := email.NewService(cfg.SMTP)
	eventSvc := eventService.NewService(outboxRepo)
	authSvc := authService.NewService(userRepo, hasher, jwtSvc, mailer, log)
	doctorSvc := doctorService.NewService(doctorRepo)
	patientSvc := patientService.NewService(patientRepo, metricsRepo, conditionRepo)
	m := metrics.New("medease_api")
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo, eventSvc, mailer, log, m)

	if cfg.Seed.Enabled {
		seeder := seed.New(userRepo, metricsRepo, conditionRepo, hasher, log)
		if err := seeder.Run(context.Background()); err != nil {
			log.Fatal(err, "failed to seed database")
		}
	}

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	r := router.New(
		authMw,
		authHandler.NewHandler(authSvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		healthHandler.NewHandler(db),
		m,
		log,
		router.DefaultConfig(),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
