package mlmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"go-ner-proxy/config"
	"go-ner-proxy/types"
)

const HuggingFaceProviderName = "huggingface"

// maxResponseBytes bounds how much of a provider body is read.
const maxResponseBytes = 8 << 20

type MLRequest struct {
	Inputs  string    `json:"inputs"`
	Options MLOptions `json:"options"`
}

type MLOptions struct {
	// makes the provider block until the model is loaded instead of answering 503
	WaitForModel bool `json:"wait_for_model"`
}

// Client calls a Hugging Face hosted token-classification model.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

func NewClient(cfg config.HuggingFaceConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL:     cfg.APIURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string {
	return HuggingFaceProviderName
}

// Tag sends text to the model and parses whatever comes back. HTTP status is
// not interpreted: an error object is reported through the result, not err.
// err is always a *types.AnalysisError.
func (c *Client) Tag(ctx context.Context, text string) (types.InferenceResult, error) {
	if c.token == "" {
		return types.InferenceResult{}, types.NewMisconfiguredCredential(HuggingFaceProviderName)
	}

	body, status, err := c.CallModel(ctx, MLRequest{
		Inputs:  text,
		Options: MLOptions{WaitForModel: true},
	})
	if err != nil {
		return types.InferenceResult{}, types.NewProviderUnavailable(err)
	}

	result := types.ParseInference(body)
	if result.Kind != types.KindTags {
		log.Printf("Hugging Face returned %s (status %d): %s", result.Kind, status, truncate(body, 512))
	}
	return result, nil
}

// CallModel posts payload and returns the raw body and status code.
func (c *Client) CallModel(ctx context.Context, payload MLRequest) ([]byte, int, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send inference request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read inference response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
