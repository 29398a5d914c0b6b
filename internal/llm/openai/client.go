package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lumihealth/lumivault/internal/llm"
)

const (
	summarySystemPrompt = "You are a medical assistant that summarizes medical reports concisely and accurately."

	extractSystemPrompt = "You are a helpful assistant that extracts structured health data from text. " +
		"Extract relevant health information and return it as a JSON object with the following fields where applicable:\n\n" +
		"- recordType: The type of medical record (e.g., 'medical', 'dental', 'vision', 'immunization', 'medication')\n" +
		"- title: A concise title for the record\n" +
		"- date: The date of the record in YYYY-MM-DD format\n" +
		"- provider: The healthcare provider's name\n" +
		"- description: A brief description of the record\n" +
		"- notes: Any additional notes or details\n" +
		"- findings: Any medical findings (for dental records)\n" +
		"- prescriptionDetails: Details about prescriptions (for vision records)\n" +
		"- contactLensDetails: Details about contact lenses (for vision records)\n" +
		"- vaccine: Vaccine name (for immunization records)\n" +
		"- vaccineType: Type of vaccine (for immunization records)\n" +
		"- doseNumber: Dose number (for immunization records)\n" +
		"- status: Status of the record\n" +
		"- name: Medication name (for medication records)\n" +
		"- dosage: Medication dosage (for medication records)\n" +
		"- frequency: Medication frequency (for medication records)\n" +
		"- startDate: Medication start date (for medication records)\n" +
		"- endDate: Medication end date (for medication records)\n" +
		"- medicationType: Type of medication"
)

// Client implements llm.ChatClient against the OpenAI chat/completions API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, llm.ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}, nil
}

// Summarize asks the model for a concise medical summary of the raw text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	start := time.Now()
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": summarySystemPrompt},
			{"role": "user", "content": "Summarize this medical report and tell me the summary: " + text},
		},
	}

	content, err := c.completion(ctx, body)
	if err != nil {
		c.log.Error("openai.summarize.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	c.log.Info("openai.summarize.ok", "summary_len", len(content), "elapsed_ms", time.Since(start).Milliseconds())
	return content, nil
}

// ExtractRecordJSON asks the model for the structured field object and
// returns the response content verbatim. Parsing and fallback live in the
// extraction service, not here.
func (c *Client) ExtractRecordJSON(ctx context.Context, text string) ([]byte, error) {
	start := time.Now()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": extractSystemPrompt},
			{"role": "user", "content": "Extract health record information from this text: " + text},
		},
	}

	content, err := c.completion(ctx, body)
	if err != nil {
		c.log.Error("openai.extract.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	c.log.Info("openai.extract.ok", "content_len", len(content), "elapsed_ms", time.Since(start).Milliseconds())
	return []byte(content), nil
}

func (c *Client) completion(ctx context.Context, body map[string]any) (string, error) {
	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read openai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}
