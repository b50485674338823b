package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	OCR      OCRConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Env         string
	HTTPPort    string
	MetricsPort string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	PresignExpiry   int // minutes
}

type KafkaConfig struct {
	Brokers string
	Topic   string
	GroupID string
}

type JWTConfig struct {
	Secret        string
	ExpireMinutes int
}

// OCR HTTP backend, e.g. a PaddleOCR deployment:
// Endpoint = http://paddleocr:8868/predict/ocr_system
type OCRConfig struct {
	Endpoint      string
	TimeoutSecond int
}

type UploadConfig struct {
	MaxSizeBytes int64
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		App: AppConfig{
			Env:         getEnv("APP_ENV", "development"),
			HTTPPort:    getEnv("HTTP_PORT", "8080"),
			MetricsPort: getEnv("METRICS_PORT", "2112"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "ocr_identity"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MinIO: MinIOConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY"),
			SecretAccessKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:          getEnvBool("MINIO_USE_SSL", false),
			BucketName:      getEnv("MINIO_BUCKET_NAME", "ocr-identity"),
			PresignExpiry:   getEnvInt("MINIO_PRESIGN_EXPIRY_MINUTES", 60),
		},
		Kafka: KafkaConfig{
			Brokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getEnv("KAFKA_TOPIC_OCR_REQUESTS", "ocr.requests"),
			GroupID: getEnv("KAFKA_GROUP_ID", "ocr-worker"),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 60),
		},
		OCR: OCRConfig{
			Endpoint:      os.Getenv("OCR_ENDPOINT"),
			TimeoutSecond: getEnvInt("OCR_TIMEOUT", 30),
		},
		Upload: UploadConfig{
			MaxSizeBytes: int64(getEnvInt("UPLOAD_MAX_SIZE_MB", 10)) << 20,
		},
	}
}

// DSN builds the Postgres connection string for GORM.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes":
		return true
	case "0", "false", "FALSE", "no":
		return false
	}
	return def
}
