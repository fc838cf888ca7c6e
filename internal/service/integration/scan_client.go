package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillchain/originality-service/internal/models"
	"github.com/skillchain/originality-service/pkg/retry"
)

// FailurePolicy decides what an exhausted retry loop yields. FailClosed
// treats an unreachable detection service as a violation requiring manual
// review; FailOpen treats it as a pass. The policy is chosen at construction
// so call sites never change when it is revisited.
type FailurePolicy string

const (
	FailClosed FailurePolicy = "fail_closed"
	FailOpen   FailurePolicy = "fail_open"
)

func ParseFailurePolicy(s string) FailurePolicy {
	if s == string(FailOpen) {
		return FailOpen
	}
	return FailClosed
}

// ScanClient submits text to the external originality detection service.
// All failures are absorbed into the CheckResult, never returned as errors:
// the external signal is optional-by-design.
type ScanClient interface {
	Scan(ctx context.Context, content string) models.CheckResult
	Configured() bool
}

type ScanClientConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	Threshold   float64
	Policy      FailurePolicy
}

type scanClient struct {
	config ScanClientConfig
	client *http.Client
	logger zerolog.Logger
}

func NewScanClient(config ScanClientConfig, logger zerolog.Logger) ScanClient {
	return &scanClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

type scanRequest struct {
	Text string `json:"text"`
}

type scanResponse struct {
	Score   float64                 `json:"score"`
	Results []models.ExternalSource `json:"results"`
	ScanID  string                  `json:"scan_id"`
}

func (c *scanClient) Configured() bool {
	return c.config.APIKey != ""
}

func (c *scanClient) Scan(ctx context.Context, content string) models.CheckResult {
	// Absence of a credential is a skip state, not a plagiarism signal.
	if !c.Configured() {
		c.logger.Warn().Msg("External originality service not configured, skipping check")
		return models.CheckResult{
			Passed:     true,
			Similarity: 0,
			CheckType:  models.CheckTypeExternalSkipped,
		}
	}

	var result scanResponse

	err := retry.Do(ctx, c.config.MaxAttempts, c.config.RetryDelay, func(ctx context.Context) error {
		return c.submit(ctx, content, &result)
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("External originality check failed")
		return c.exhausted(err)
	}

	c.logger.Debug().
		Float64("score", result.Score).
		Int("sources", len(result.Results)).
		Str("scan_id", result.ScanID).
		Msg("External scan completed")

	return models.CheckResult{
		Passed:     result.Score < c.config.Threshold,
		Similarity: result.Score,
		Sources:    result.Results,
		ScanID:     result.ScanID,
		CheckType:  models.CheckTypeExternal,
	}
}

func (c *scanClient) submit(ctx context.Context, content string, out *scanResponse) error {
	body, err := json.Marshal(scanRequest{Text: content})
	if err != nil {
		return fmt.Errorf("failed to marshal scan request: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	url := c.config.BaseURL + "/v3/scans/submit"
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit scan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("scan service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode scan response: %w", err)
	}

	return nil
}

func (c *scanClient) exhausted(err error) models.CheckResult {
	if c.config.Policy == FailOpen {
		return models.CheckResult{
			Passed:     true,
			Similarity: 0,
			Error:      err.Error(),
			CheckType:  models.CheckTypeExternalError,
		}
	}

	// An unreachable verifier must never silently clear a student; a human
	// adjudicates instead.
	return models.CheckResult{
		Passed:               false,
		Similarity:           1.0,
		Error:                err.Error(),
		CheckType:            models.CheckTypeExternalError,
		RequiresManualReview: true,
	}
}
