package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/turahe/ocr-identity-rest-api/config"
	"github.com/turahe/ocr-identity-rest-api/database"
	"github.com/turahe/ocr-identity-rest-api/pkg/logger"
	"github.com/turahe/ocr-identity-rest-api/pkg/metrics"
	"github.com/turahe/ocr-identity-rest-api/queue"
	"github.com/turahe/ocr-identity-rest-api/repository"
	"github.com/turahe/ocr-identity-rest-api/service"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.App.Env)

	metrics.StartMetricsServer(cfg.App.MetricsPort)
	log.WithField("port", cfg.App.MetricsPort).Info("metrics server started")

	db := database.InitDB(cfg)

	store, err := service.NewObjectStorage(cfg.MinIO)
	if err != nil {
		log.WithError(err).Fatal("object storage init failed")
	}

	svc := service.NewOCRService(
		repository.NewOCRJobRepository(db),
		repository.NewIdentityDocumentRepository(db),
		store,
		service.NewPaddleEngine(cfg.OCR),
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consume(ctx, cfg, svc, log)
}

func consume(ctx context.Context, cfg *config.Config, svc *service.OCRService, log *logrus.Logger) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  queue.SplitBrokers(cfg.Kafka.Brokers),
		GroupID:  cfg.Kafka.GroupID,
		Topic:    cfg.Kafka.Topic,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	})
	defer r.Close()
	log.WithFields(logrus.Fields{
		"topic": cfg.Kafka.Topic,
		"group": cfg.Kafka.GroupID,
	}).Info("kafka consumer started")

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopping")
				return
			}
			log.WithError(err).Warn("kafka fetch failed")
			time.Sleep(time.Second)
			continue
		}
		metrics.KafkaMessagesTotal.WithLabelValues("worker", cfg.Kafka.Topic, "received").Inc()

		var job queue.OCRJobMessage
		if err := json.Unmarshal(msg.Value, &job); err != nil {
			// Malformed messages are committed so they do not wedge
			// the partition.
			log.WithError(err).Warn("dropping malformed job message")
			_ = r.CommitMessages(context.Background(), msg)
			continue
		}

		pctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		err = svc.Process(pctx, job)
		cancel()
		if err != nil {
			// The failure is already recorded on the job row; committing
			// avoids an endless redelivery of a deterministic failure.
			log.WithError(err).WithField("task_id", job.TaskID).Error("job processing failed")
		}
		_ = r.CommitMessages(context.Background(), msg)
	}
}
