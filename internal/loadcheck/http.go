package loadcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/jobaccept/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON fetches path and decodes a 200 response into v. Other statuses
// are returned with a nil error so callers can decide how to treat them.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v interface{}) (int, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return 0, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitCandidates posts candidates concurrently using a worker pool. The
// outcomes are returned in candidate order.
func submitCandidates(ctx context.Context, config *Config, client *HTTPClient, candidates []Candidate) []Outcome {
	log := logger.Get()
	log.Info(ctx, "submitting candidates",
		logger.Int("count", len(candidates)),
		logger.Int("workers", config.Workers))

	outcomes := make([]Outcome, len(candidates))
	var submitted, failed atomic.Int64

	type job struct {
		index int
		c     Candidate
	}
	jobs := make(chan job, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out := submitSingleCandidate(ctx, client, j.c)
				outcomes[j.index] = out
				n := submitted.Add(1)
				if out.Status != http.StatusOK {
					failed.Add(1)
					log.Debug(ctx, "prediction failed",
						logger.String("candidateID", out.CandidateID),
						logger.Int("status", out.Status),
						logger.String("error", out.Err))
				}
				if config.Verbose && n%100 == 0 {
					log.Debug(ctx, "progress",
						logger.Int("submitted", int(n)),
						logger.Int("total", len(candidates)),
						logger.Int("failed", int(failed.Load())))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, c := range candidates {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, c: c}:
			}
		}
	}()

	wg.Wait()

	log.Info(ctx, "candidate submission completed",
		logger.Int("submitted", int(submitted.Load())),
		logger.Int("failed", int(failed.Load())))
	return outcomes
}

// submitSingleCandidate posts one candidate and records the response.
func submitSingleCandidate(ctx context.Context, client *HTTPClient, c Candidate) Outcome {
	out := Outcome{CandidateID: c.ID}
	resp, err := client.Post(ctx, "/predict", c.Record)
	if err != nil {
		out.Err = err.Error()
		return out
	}
	body, err := readResponseBody(resp)
	out.Status = resp.StatusCode
	if err != nil {
		out.Err = err.Error()
		return out
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &e)
		out.Err = e.Code + ": " + e.Message
		return out
	}
	if err := json.Unmarshal(body, &out.Prediction); err != nil {
		out.Err = fmt.Sprintf("decode prediction: %v", err)
	}
	return out
}
