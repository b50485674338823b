package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/turahe/ocr-identity-rest-api/config"
)

// Engine produces raw text from document bytes. Recognition quality is
// the backend's concern, not this module's.
type Engine interface {
	Recognize(ctx context.Context, data []byte) (string, error)
}

// PaddleEngine talks to a PaddleOCR hub deployment
// (e.g. http://paddleocr:8868/predict/ocr_system).
type PaddleEngine struct {
	endpoint string
	client   *http.Client
}

func NewPaddleEngine(cfg config.OCRConfig) *PaddleEngine {
	return &PaddleEngine{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSecond) * time.Second},
	}
}

type paddleRequest struct {
	Images []string `json:"images"`
}

type paddleLine struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type paddleResponse struct {
	Results [][]paddleLine `json:"results"`
	Msg     string         `json:"msg"`
	Status  string         `json:"status"`
}

func (e *PaddleEngine) Recognize(ctx context.Context, data []byte) (string, error) {
	body, err := json.Marshal(paddleRequest{
		Images: []string{base64.StdEncoding.EncodeToString(data)},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("ocr backend returned status %d", resp.StatusCode)
	}

	var out paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %w", err)
	}

	var lines []string
	for _, page := range out.Results {
		for _, line := range page {
			if line.Text != "" {
				lines = append(lines, line.Text)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
