package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds one generation round trip.
const DefaultTimeout = 30 * time.Second

// Client talks to the studio backend's generation and key endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// GenerateRequest mirrors the body of both generation endpoints.
type GenerateRequest struct {
	Message    string `json:"message"`
	StudioType string `json:"studioType"`
	ProjectID  *int   `json:"projectId,omitempty"`
}

// GenerateResult is the whole-response shape of /api/ai/generate-simple.
type GenerateResult struct {
	Content        string `json:"content"`
	TokensUsed     int    `json:"tokensUsed"`
	ProcessingTime int    `json:"processingTime"`
}

// Generate performs one whole-response generation call.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/ai/generate-simple", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generate failed with status %d", resp.StatusCode)
	}

	var res GenerateResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &res, nil
}

// Chunk is one streamed fragment; Done marks the terminal fragment.
type Chunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// StreamReader consumes the newline-delimited JSON stream from
// /api/ai/generate. Recv returns io.EOF after the terminal chunk.
type StreamReader struct {
	body io.ReadCloser
	dec  *json.Decoder
	done bool
}

func (r *StreamReader) Recv() (Chunk, error) {
	if r.done {
		return Chunk{}, io.EOF
	}
	var ch Chunk
	if err := r.dec.Decode(&ch); err != nil {
		r.done = true
		return Chunk{}, err
	}
	if ch.Done {
		r.done = true
	}
	return ch, nil
}

func (r *StreamReader) Close() error {
	return r.body.Close()
}

// GenerateStream opens the chunked generation stream. The caller owns the
// returned reader and must Close it.
func (c *Client) GenerateStream(ctx context.Context, req GenerateRequest) (*StreamReader, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/ai/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generate stream request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("generate stream failed with status %d", resp.StatusCode)
	}

	return &StreamReader{
		body: resp.Body,
		dec:  json.NewDecoder(resp.Body),
	}, nil
}

// ValidateKey asks the server whether a provider key is stored. This is a
// presence check on the server side, not a provider round trip.
func (c *Client) ValidateKey(ctx context.Context) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/user/api-key/validate", nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("validate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("validate failed with status %d", resp.StatusCode)
	}

	var res struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return res.Valid, nil
}

// SetKey stores a provider key for the current user.
func (c *Client) SetKey(ctx context.Context, key string) error {
	body, err := json.Marshal(map[string]string{"apiKey": key})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/api/user/api-key", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("set key request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("set key failed with status %d", resp.StatusCode)
	}
	return nil
}
