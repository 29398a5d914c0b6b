package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrMissingAPIKey is returned when no model-provider credential is
// configured. Unlike transport failures it is surfaced to the caller: the
// upload is aborted before any model call.
var ErrMissingAPIKey = errors.New("model provider api key is missing")

const degradedDescription = "Could not process this document. Please try again or enter details manually."

// Service implements Extractor on top of a ChatClient. A transient provider
// failure never blocks the upload: the service degrades to a defaulted
// candidate and the review step is the safety net.
type Service struct {
	client ChatClient
	log    *slog.Logger
	now    func() time.Time
}

func NewService(client ChatClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, log: logger, now: time.Now}
}

// Extract runs the summary and extraction calls concurrently, merges the
// results, and normalizes the candidate. The summary always wins for the
// description field. Malformed extraction JSON falls back to a minimal
// candidate; a failed call on either leg degrades to a fully defaulted one.
func (s *Service) Extract(ctx context.Context, text string) (Candidate, error) {
	start := time.Now()

	var (
		summary string
		raw     []byte
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.client.Summarize(gctx, text)
		if err != nil {
			return err
		}
		summary = out
		return nil
	})
	g.Go(func() error {
		out, err := s.client.ExtractRecordJSON(gctx, text)
		if err != nil {
			return err
		}
		raw = out
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			return Candidate{}, err
		}
		s.log.Error("llm.extract.degraded", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return s.degradedCandidate(), nil
	}

	c, ok := s.decodeFields(raw)
	if !ok {
		s.log.Warn("llm.extract.fallback", "raw_bytes", len(raw))
		c = Candidate{
			RecordType: "medical",
			Title:      "Medical Report",
			Date:       s.now().Format("2006-01-02"),
		}
	}

	// The summary call owns the description.
	c.Description = summary

	c = NormalizeAt(c, s.now())
	s.log.Info("llm.extract.ok",
		"record_type", c.RecordType,
		"title", c.Title,
		"date", c.Date,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return c, nil
}

// decodeFields parses the extraction response, trying a schema-guided
// sanitize pass before giving up.
func (s *Service) decodeFields(raw []byte) (Candidate, bool) {
	schema := BuildRecordJSONSchema(nil)
	content := raw
	if err := ValidateAgainstSchema(schema, content); err != nil {
		cleaned, dropped, sErr := SanitizeFields(content)
		if sErr != nil {
			return Candidate{}, false
		}
		if vErr := ValidateAgainstSchema(schema, cleaned); vErr != nil {
			return Candidate{}, false
		}
		if len(dropped) > 0 {
			s.log.Warn("llm.extract.sanitize_applied", "dropped", dropped)
		}
		content = cleaned
	}

	var c Candidate
	if err := json.Unmarshal(content, &c); err != nil {
		return Candidate{}, false
	}
	return c, true
}

// Unconfigured is the ChatClient wired when no provider credential is set.
// Every call fails with ErrMissingAPIKey, which the pipeline surfaces to the
// caller instead of degrading silently.
type Unconfigured struct{}

func (Unconfigured) Summarize(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}

func (Unconfigured) ExtractRecordJSON(context.Context, string) ([]byte, error) {
	return nil, ErrMissingAPIKey
}

func (s *Service) degradedCandidate() Candidate {
	return Candidate{
		RecordType:  "medical",
		Title:       "Medical Report",
		Date:        s.now().Format("2006-01-02"),
		Provider:    "Unknown Provider",
		Description: degradedDescription,
	}
}
