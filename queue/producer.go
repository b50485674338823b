package queue

import (
	"context"
	"encoding/json"
	"strings"

	kafka "github.com/segmentio/kafka-go"
	"github.com/turahe/ocr-identity-rest-api/pkg/metrics"
)

// OCRJobMessage is the schema published for the OCR worker.
type OCRJobMessage struct {
	TaskID    string `json:"task_id"`
	MediaID   string `json:"media_id"`
	UserID    string `json:"user_id"`
	ObjectKey string `json:"object_key"`
	MimeType  string `json:"mime_type"`
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers, topic string) *Producer {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  SplitBrokers(brokers),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Producer{writer: w, topic: topic}
}

// EnqueueOCRJob publishes one job message keyed by media id so all
// jobs for the same media land on one partition.
func (p *Producer) EnqueueOCRJob(ctx context.Context, msg OCRJobMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.MediaID),
		Value: payload,
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.KafkaMessagesTotal.WithLabelValues("api", p.topic, status).Inc()
	return err
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// SplitBrokers turns a comma separated broker list into a slice.
func SplitBrokers(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
