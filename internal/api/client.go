// Package api wraps the agent-finder backend's REST surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"agent-finder/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

type UploadOptions struct {
	Path          string
	AddressColumn string // optional override for the address column header
}

type UploadResult struct {
	JobID string `json:"job_id"`
	Total int    `json:"total"`
}

// Upload submits the batch input file. On success the job exists server-side
// and the caller owns opening the progress channel; on failure no job state
// is created client-side.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (UploadResult, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return UploadResult{}, errors.New("input file is required")
	}

	f, err := os.Open(opts.Path)
	if err != nil {
		return UploadResult{}, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", filepath.Base(opts.Path))
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return UploadResult{}, fmt.Errorf("read input file: %w", err)
	}
	if col := strings.TrimSpace(opts.AddressColumn); col != "" {
		if err := mw.WriteField("address_column", col); err != nil {
			return UploadResult{}, fmt.Errorf("build upload form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UploadResult{}, decodeAPIError(resp)
	}

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, fmt.Errorf("decode upload response: %w", err)
	}
	if out.JobID == "" {
		return UploadResult{}, errors.New("server accepted the upload but returned no job id")
	}
	return out, nil
}

// ListJobs fetches the server-side job history. Accepts both a bare array
// and a {"jobs": [...]} wrapper.
func (c *Client) ListJobs(ctx context.Context) ([]model.JobSummary, error) {
	data, err := c.get(ctx, "/api/jobs")
	if err != nil {
		return nil, err
	}

	var jobs []model.JobSummary
	if err := json.Unmarshal(data, &jobs); err == nil {
		return jobs, nil
	}
	var wrapped struct {
		Jobs []model.JobSummary `json:"jobs"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode jobs list: %w", err)
	}
	return wrapped.Jobs, nil
}

// CancelJob asks the server to stop a job. Best effort by contract: the
// caller must not treat success as proof the job stopped, nor failure as
// fatal.
func (c *Client) CancelJob(ctx context.Context, jobID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/jobs/%s/cancel", c.baseURL, url.PathEscape(jobID)), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cancel request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	return nil
}

// Results fetches the raw results document for a finished job.
func (c *Client) Results(ctx context.Context, jobID string) (json.RawMessage, error) {
	data, err := c.get(ctx, fmt.Sprintf("/api/jobs/%s/results", url.PathEscape(jobID)))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Download streams the server's export for a job to destPath as-is; the
// export format is the server's business.
func (c *Client) Download(ctx context.Context, jobID, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/download/%s", c.baseURL, url.PathEscape(jobID)), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(destPath)
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return out.Close()
}

func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/api/jobs/%s", c.baseURL, url.PathEscape(jobID)), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 32<<20))
}

// decodeAPIError extracts the server's message from an error body; the
// backend uses "detail" (validation) or "error" (everything else).
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Detail != "" {
			return errors.New(body.Detail)
		}
		if body.Error != "" {
			return errors.New(body.Error)
		}
	}
	return fmt.Errorf("server returned %s", resp.Status)
}
