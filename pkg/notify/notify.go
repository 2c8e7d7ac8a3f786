// Package notify posts turn trace records to a webhook. Delivery is best
// effort; callers fire and forget.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
)

type Config struct {
	URL     string        `split_words:"true" required:"true"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Webhook struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

var _ contractx.Notifier = (*Webhook)(nil)

func NewWebhook(cfg Config) (*Webhook, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, errors.New("notify url is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Webhook{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Webhook {
	w, err := NewWebhook(cfg)
	if err != nil {
		panic(err)
	}
	return w
}

// Notify posts the trace record as JSON. Any non-2xx response is an error.
func (w *Webhook) Notify(ctx context.Context, trace contractx.TraceRecord) error {
	body, err := json.Marshal(trace)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post trace: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notify endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
