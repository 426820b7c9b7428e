package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/fixcars/fixcars-service/internal/db"
	"github.com/fixcars/fixcars-service/internal/handlers"
	"github.com/fixcars/fixcars-service/internal/mailer"
	"github.com/fixcars/fixcars-service/internal/notify"
	"github.com/fixcars/fixcars-service/internal/repository"
	"github.com/fixcars/fixcars-service/internal/router"
	"github.com/fixcars/fixcars-service/internal/router/config"
	"github.com/fixcars/fixcars-service/internal/services"
	"github.com/fixcars/fixcars-service/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const handlerTimeout = 5 * time.Second

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	log := logger.New("fixcars", cfg.LoggerLevel)

	runDBMigration(log, cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Error("error initializing database", logger.Error(err))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Error("error creating upload directory", logger.Error(err))
		os.Exit(1)
	}

	userRepo := repository.NewPostgresUserRepository(dbPool)
	authRepo := repository.NewPostgresAuthRepository(dbPool)
	catalogRepo := repository.NewPostgresCatalogRepository(dbPool)
	offeringRepo := repository.NewPostgresOfferingRepository(dbPool)
	requestRepo := repository.NewPostgresRequestRepository(dbPool)
	reviewRepo := repository.NewPostgresReviewRepository(dbPool)
	notificationRepo := repository.NewPostgresNotificationRepository(dbPool)
	hoursRepo := repository.NewPostgresHoursRepository(dbPool)
	carRepo := repository.NewPostgresCarRepository(dbPool)
	referralRepo := repository.NewPostgresReferralRepository(dbPool)

	mail := mailer.NewSMTPSender(cfg)
	pusher := notify.NewOneSignalClient(cfg)

	authService := services.NewAuthService(userRepo, authRepo, mail, log, cfg.JWTSecret)
	catalogService := services.NewCatalogService(catalogRepo)
	supplierService := services.NewSupplierService(offeringRepo, userRepo, catalogRepo, reviewRepo, hoursRepo, referralRepo)
	requestService := services.NewRequestService(requestRepo, userRepo, notificationRepo, pusher, log)
	reviewService := services.NewReviewService(reviewRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, pusher, log)
	carService := services.NewCarService(carRepo, catalogRepo)

	routes := router.InitRoutes(router.Handlers{
		Auth:         handlers.NewAuthHandler(authService, log, handlerTimeout),
		Catalog:      handlers.NewCatalogHandler(catalogService, log, handlerTimeout),
		Supplier:     handlers.NewSupplierHandler(supplierService, log, handlerTimeout),
		Request:      handlers.NewRequestHandler(requestService, log, handlerTimeout),
		Review:       handlers.NewReviewHandler(reviewService, log, handlerTimeout),
		Notification: handlers.NewNotificationHandler(notificationService, log, handlerTimeout),
		Car:          handlers.NewCarHandler(carService, log, handlerTimeout),
		Upload:       handlers.NewUploadHandler(log, cfg.UploadDir, cfg.BaseURL),
		Health:       handlers.NewHealthHandler(dbPool, handlerTimeout),
	}, cfg.JWTSecret, cfg.UploadDir)

	log.Info("server is listening", logger.String("address", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Error("server failed", logger.Error(err))
		os.Exit(1)
	}
}

func runDBMigration(log logger.ILogger, migrationURL, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Error("cannot create a new migrate instance", logger.Error(err))
		os.Exit(1)
	}

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error("failed to run migrate up", logger.Error(err))
		os.Exit(1)
	}
	log.Info("db migrated successfully")
}
