package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/creditscore/pkg/logger"
)

const idempotencyKeyHeader = "Idempotency-Key"

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRejected
	outcomeFailed
)

// HTTPClient wraps http.Client for the service endpoints.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(config *Config) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: config.BaseURL,
	}
}

// get performs a GET request and decodes a 200 response into out.
func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postScore submits one applicant.
func (c *HTTPClient) postScore(ctx context.Context, r Request) (ScoreResponse, int, error) {
	payload, err := json.Marshal(r.Body)
	if err != nil {
		return ScoreResponse{}, 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/credit-score", bytes.NewReader(payload))
	if err != nil {
		return ScoreResponse{}, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotencyKeyHeader, r.Key)

	resp, err := c.client.Do(req)
	if err != nil {
		return ScoreResponse{}, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	var res ScoreResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return ScoreResponse{}, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return res, resp.StatusCode, nil
}

func classify(res ScoreResponse, status int, err error) outcome {
	switch {
	case err != nil:
		return outcomeFailed
	case status == http.StatusBadRequest:
		return outcomeRejected
	case status != http.StatusOK:
		return outcomeFailed
	case res.Score < minScore || res.Score > maxScore:
		return outcomeFailed
	default:
		return outcomeSuccess
	}
}

// submitApplicants posts every request using a pool of config.Workers.
func submitApplicants(ctx context.Context, config *Config, client *HTTPClient, reqs []Request, stats *Stats) {
	logger.Get().Info(ctx, "submitting applicants",
		logger.Int("count", len(reqs)), logger.Int("workers", config.Workers))

	var submitted, successful, rejected, failed atomic.Int64

	ch := make(chan Request, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range ch {
				res, status, err := client.postScore(ctx, r)
				submitted.Add(1)
				switch classify(res, status, err) {
				case outcomeSuccess:
					successful.Add(1)
				case outcomeRejected:
					rejected.Add(1)
				default:
					failed.Add(1)
					if config.Verbose {
						logger.Get().Warn(ctx, "request failed",
							logger.String("key", r.Key), logger.Int("status", status), logger.Error(err))
					}
				}
			}
		}()
	}

	func() {
		defer close(ch)
		for _, r := range reqs {
			select {
			case <-ctx.Done():
				return
			case ch <- r:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Successful = int(successful.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())
}
