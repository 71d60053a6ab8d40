// Package ledger is the outbound client for the ledger service that credits
// funds once a deposit succeeds.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mobile-money-gateway/config"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const allocationsPath = "/api/v1/allocations"

// maxRetries bounds retries of transient failures within one Allocate call.
const maxRetries = 2

type allocationRequest struct {
	IntentID    string  `json:"intentId"`
	SubjectID   string  `json:"subjectId"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Kind        string  `json:"kind"`
	TargetID    *string `json:"targetId,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

// Client implements ports.Allocator over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a ledger client.
func NewClient(cfg config.LedgerConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.Component(log, "ledger"),
	}
}

// Allocate posts one allocation. The intent id is sent as the Idempotency-Key
// so a retried allocation is credited once by the ledger.
func (c *Client) Allocate(ctx context.Context, alloc ports.Allocation) error {
	body := allocationRequest{
		IntentID:    alloc.IntentID.String(),
		SubjectID:   alloc.SubjectID.String(),
		Amount:      alloc.Amount.StringFixed(4),
		Currency:    alloc.Currency,
		Description: alloc.Description,
		Kind:        string(alloc.Kind),
	}
	if alloc.TargetID != nil {
		id := alloc.TargetID.String()
		body.TargetID = &id
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal allocation: %w", err)
	}

	op := func() error {
		return c.post(ctx, alloc.IntentID.String(), data)
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		c.log.Warn().Err(err).Str("intent_id", alloc.IntentID.String()).Dur("retry_in", wait).Msg("Ledger allocation failed, retrying")
	}
	return backoff.RetryNotify(op, b, notify)
}

func (c *Client) post(ctx context.Context, idempotencyKey string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+allocationsPath, bytes.NewReader(data))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("read ledger response: %w", err)
	}

	if resp.StatusCode < 300 {
		return nil
	}

	msg := string(respBody)
	var apiErr apiError
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	err = fmt.Errorf("ledger error (%d): %s", resp.StatusCode, msg)
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return err
	}
	return backoff.Permanent(err)
}

// LogAllocator implements ports.Allocator by logging only. Used when no ledger is configured.
type LogAllocator struct {
	log zerolog.Logger
}

// NewLogAllocator creates a log-only allocator.
func NewLogAllocator(log zerolog.Logger) *LogAllocator {
	return &LogAllocator{log: logger.Component(log, "ledger")}
}

// Allocate implements ports.Allocator.
func (a *LogAllocator) Allocate(_ context.Context, alloc ports.Allocation) error {
	ev := a.log.Info().
		Str("intent_id", alloc.IntentID.String()).
		Str("subject_id", alloc.SubjectID.String()).
		Str("amount", alloc.Amount.String()).
		Str("currency", alloc.Currency).
		Str("kind", string(alloc.Kind))
	if alloc.TargetID != nil {
		ev = ev.Str("target_id", alloc.TargetID.String())
	}
	ev.Msg("Allocation recorded (ledger disabled)")
	return nil
}
