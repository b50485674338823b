package main

import (
	"time"

	"github.com/turahe/ocr-identity-rest-api/config"
	"github.com/turahe/ocr-identity-rest-api/database"
	"github.com/turahe/ocr-identity-rest-api/handler"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/pkg/logger"
	"github.com/turahe/ocr-identity-rest-api/pkg/metrics"
	"github.com/turahe/ocr-identity-rest-api/queue"
	"github.com/turahe/ocr-identity-rest-api/repository"
	"github.com/turahe/ocr-identity-rest-api/router"
	"github.com/turahe/ocr-identity-rest-api/service"
	"gorm.io/gorm"
)

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Media{},
		&models.Mediable{},
		&models.People{},
		&models.PeopleAddress{},
		&models.IdentityDocument{},
		&models.OCRJob{},
		&models.AuditLog{},
	)
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.App.Env)

	metrics.StartMetricsServer(cfg.App.MetricsPort)
	log.WithField("port", cfg.App.MetricsPort).Info("metrics server started")

	db := database.InitDB(cfg)
	if err := autoMigrate(db); err != nil {
		log.WithError(err).Fatal("auto migrate failed")
	}

	store, err := service.NewObjectStorage(cfg.MinIO)
	if err != nil {
		log.WithError(err).Fatal("object storage init failed")
	}

	producer := queue.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	mediaRepo := repository.NewMediaRepository(db)
	mediableRepo := repository.NewMediableRepository(db)
	jobRepo := repository.NewOCRJobRepository(db)
	docRepo := repository.NewIdentityDocumentRepository(db)
	peopleRepo := repository.NewPeopleRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	mediaSvc := service.NewMediaService(
		mediaRepo, mediableRepo, jobRepo,
		store, producer, log,
		cfg.Upload.MaxSizeBytes,
		time.Duration(cfg.MinIO.PresignExpiry)*time.Minute,
	)
	peopleSvc := service.NewPeopleService(peopleRepo)
	docSvc := service.NewDocumentService(docRepo)
	audit := service.NewAuditRecorder(auditRepo, log)

	r := router.Setup(router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		Media:  handler.NewMediaHandler(mediaSvc, audit),
		People: handler.NewPeopleHandler(peopleSvc, audit),
		OCR:    handler.NewOCRHandler(jobRepo, docRepo, docSvc),
		Audit:  handler.NewAuditHandler(auditRepo),
	}, authSvc)

	log.WithField("port", cfg.App.HTTPPort).Info("API server listening")
	if err := r.Run(":" + cfg.App.HTTPPort); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
