// Package storage is the object-store gateway for uploaded documents,
// backed by Supabase Storage's HTTP API.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lumihealth/lumivault/internal/extract"
)

// ErrGateway marks failures talking to the storage API. Callers match it
// with errors.Is to distinguish storage trouble from their own failures.
var ErrGateway = errors.New("storage gateway")

// Config carries the Supabase Storage settings. BaseURL is derived from
// ProjectID unless set explicitly (tests point it at a local server).
type Config struct {
	ProjectID  string
	APIKey     string
	Bucket     string        // default "health_documents"
	BaseURL    string        // default https://<project>.supabase.co
	MaxRetries int           // upload retries after the first attempt; default 2
	RetryDelay time.Duration // fixed delay between attempts; default 1s
}

// Client talks to the storage API. Individual upload attempts are retried
// up to the configured bound; bucket creation failure is a hard error.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "health_documents"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("https://%s.supabase.co", cfg.ProjectID)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger,
	}
}

// ObjectKey builds a collision-resistant object name under the owning
// user's prefix: <userID>/<token>_<millis>.<ext>.
func (c *Client) ObjectKey(userID, filename string) string {
	token, err := gonanoid.New(12)
	if err != nil {
		// nanoid only fails if the entropy source does; fall back to time
		token = fmt.Sprintf("f%d", time.Now().UnixNano())
	}
	ext := extract.NormalizeExt(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s_%d.%s", userID, token, time.Now().UnixMilli(), ext)
}

// EnsureBucket checks that the bucket exists and creates it (public, with
// the upload size limit) when the check fails.
func (c *Client) EnsureBucket(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/storage/v1/bucket/%s", c.cfg.BaseURL, c.cfg.Bucket), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: bucket check: %w", ErrGateway, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	c.log.Info("storage.bucket.create", "bucket", c.cfg.Bucket)
	payload, err := json.Marshal(map[string]any{
		"name":            c.cfg.Bucket,
		"public":          true,
		"file_size_limit": extract.MaxFileSize,
	})
	if err != nil {
		return err
	}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/storage/v1/bucket", c.cfg.BaseURL), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err = c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: bucket create: %w", ErrGateway, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: bucket create failed with status %d: %s", ErrGateway, resp.StatusCode, string(body))
	}
	return nil
}

// Upload stores the object under key, overwriting on conflict, and returns
// its public URL. Attempts are bounded by MaxRetries with a fixed delay.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("storage.upload.retry", "key", key, "attempt", attempt+1, "error", lastErr)
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		if lastErr = c.uploadOnce(ctx, key, data, contentType); lastErr == nil {
			c.log.Info("storage.upload.ok", "key", key, "bytes", len(data))
			return c.PublicURL(key), nil
		}
	}
	return "", fmt.Errorf("upload %s: %w", key, lastErr)
}

func (c *Client) uploadOnce(ctx context.Context, key string, data []byte, contentType string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.cfg.BaseURL, c.cfg.Bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "3600")
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: upload request: %w", ErrGateway, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: upload failed with status %d: %s", ErrGateway, resp.StatusCode, string(body))
	}
	return nil
}

// Delete removes an object. Used when a persisted record is deleted, not on
// review cancellation.
func (c *Client) Delete(ctx context.Context, key string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.cfg.BaseURL, c.cfg.Bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: delete request: %w", ErrGateway, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: delete failed with status %d: %s", ErrGateway, resp.StatusCode, string(body))
	}
	return nil
}

// PublicURL is the deterministic public location of an uploaded object.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.cfg.BaseURL, c.cfg.Bucket, key)
}

// KeyFromPublicURL recovers the object key from a public URL produced by
// PublicURL. Used when deleting a record to also remove its blob.
func (c *Client) KeyFromPublicURL(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", c.cfg.BaseURL, c.cfg.Bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
}
