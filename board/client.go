// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %s", http.StatusText(e.StatusCode))
}

// Client talks to the board API. It implements StageMutator,
// SnapshotSource and SnapshotStream.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL. A nil httpClient uses
// http.DefaultClient; mutation timeouts are left to its transport.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// MoveStage handles PATCH /jobs/{jobID}/candidates/{candidateID}/stage
func (c *Client) MoveStage(ctx context.Context, candidateID, jobID, targetStageID string) error {
	body := models.MoveStageRequest{
		CandidateID:   models.Ref{ID: candidateID},
		JobID:         models.Ref{ID: jobID},
		TargetStageID: models.Ref{ID: targetStageID},
	}
	path := "/jobs/" + url.PathEscape(jobID) + "/candidates/" + url.PathEscape(candidateID) + "/stage"
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// PipelineForJob returns the job's pipeline, or nil when the job has
// none.
func (c *Client) PipelineForJob(ctx context.Context, jobID string) (*models.Pipeline, error) {
	var p models.Pipeline
	err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID)+"/pipeline", nil, &p)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Snapshot fetches the current authoritative state of a job's board.
func (c *Client) Snapshot(ctx context.Context, jobID string) (models.Snapshot, error) {
	var snap models.Snapshot
	err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID)+"/candidates", nil, &snap)
	return snap, err
}

// History fetches a candidate's stage history within a job.
func (c *Client) History(ctx context.Context, jobID, candidateID string) (models.HistoryResponse, error) {
	var resp models.HistoryResponse
	path := "/jobs/" + url.PathEscape(jobID) + "/candidates/" + url.PathEscape(candidateID) + "/history"
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

// Stream subscribes to the job's event stream and calls fn for every
// snapshot until the stream ends or ctx is cancelled. It always returns
// a non-nil error.
func (c *Client) Stream(ctx context.Context, jobID string, fn func(models.Snapshot)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+url.PathEscape(jobID)+"/stream", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	return readEvents(resp.Body, func(event string, data []byte) error {
		if event != "" && event != "snapshot" {
			return nil
		}
		var snap models.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("invalid snapshot event: %w", err)
		}
		fn(snap)
		return nil
	})
}

// readEvents parses a text/event-stream body and dispatches each event.
func readEvents(r io.Reader, dispatch func(event string, data []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 8<<20)

	var event string
	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				if err := dispatch(event, data.Bytes()); err != nil {
					return err
				}
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// comment / heartbeat
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return io.EOF
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
