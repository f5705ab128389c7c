package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultResponseTimeout bounds the delivery of a lifecycle result.
const DefaultResponseTimeout = 30 * time.Second

// Sender delivers a finished response to the stack's callback address.
type Sender interface {
	Send(ctx context.Context, url string, response *Response) error
}

// HTTPSender delivers responses with a plain HTTP PUT to the pre-signed
// callback URL.
type HTTPSender struct {
	httpClient *http.Client
	logger     *slog.Logger
	dryRun     bool
}

// NewHTTPSender creates a new HTTPSender. With dryRun set, responses are
// logged instead of delivered.
func NewHTTPSender(timeout time.Duration, dryRun bool, logger *slog.Logger) *HTTPSender {
	if timeout <= 0 {
		timeout = DefaultResponseTimeout
	}
	return &HTTPSender{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		dryRun: dryRun,
	}
}

// Send PUTs the JSON-serialized response to the callback URL. The pre-signed
// URL is signed without a content type, so the Content-Type header must be
// empty or the signature check fails.
func (s *HTTPSender) Send(ctx context.Context, url string, response *Response) error {
	body, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if s.dryRun {
		s.logger.Info("dry-run: would deliver response",
			"url", url,
			"response", string(body))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create response request: %w", err)
	}
	req.Header.Set("Content-Type", "")

	s.logger.Debug("delivering response", "url", url)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver response: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("response delivery rejected",
			"status", resp.StatusCode,
			"response", string(bodyBytes))
		return fmt.Errorf("response delivery rejected: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	s.logger.Info("response delivered", "status", resp.StatusCode)
	return nil
}
