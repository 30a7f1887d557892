package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const replicateBaseURL = "https://api.replicate.com/v1"

// ReplicateClient drives the inpainting model: create a prediction, then poll
// until it settles.
type ReplicateClient struct {
	token        string
	modelVersion string
	baseURL      string
	pollInterval time.Duration
	maxPolls     int
	httpClient   *http.Client
}

func NewReplicateClient(token, modelVersion string) *ReplicateClient {
	return &ReplicateClient{
		token:        token,
		modelVersion: modelVersion,
		baseURL:      replicateBaseURL,
		pollInterval: 2 * time.Second,
		maxPolls:     30,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// InpaintInput carries the base64 PNG image and mask plus the style prompt.
// White mask pixels are preserved, black pixels are repainted.
type InpaintInput struct {
	ImageB64 string
	MaskB64  string
	Prompt   string
	Width    int
	Height   int
}

type predictionRequest struct {
	Version string                 `json:"version"`
	Input   map[string]interface{} `json:"input"`
}

type predictionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
	Output json.RawMessage `json:"output"`
	Error  interface{}     `json:"error"`
}

// Inpaint submits the prediction and polls until it succeeds, fails or the
// poll budget runs out. On success it returns the generated image URL.
func (c *ReplicateClient) Inpaint(ctx context.Context, in InpaintInput) (string, error) {
	body, err := json.Marshal(predictionRequest{
		Version: c.modelVersion,
		Input: map[string]interface{}{
			"image":               "data:image/png;base64," + in.ImageB64,
			"mask":                "data:image/png;base64," + in.MaskB64,
			"prompt":              in.Prompt,
			"guidance_scale":      7.5,
			"num_inference_steps": 40,
			"width":               in.Width,
			"height":              in.Height,
		},
	})
	if err != nil {
		return "", fmt.Errorf("replicate: marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("replicate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("replicate: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("replicate: create prediction status %d", resp.StatusCode)
	}

	var created predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("replicate: decode prediction: %w", err)
	}

	return c.poll(ctx, created.URLs.Get)
}

func (c *ReplicateClient) poll(ctx context.Context, getURL string) (string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for i := 0; i < c.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		pred, err := c.getPrediction(ctx, getURL)
		if err != nil {
			return "", err
		}
		switch pred.Status {
		case "succeeded":
			return decodeOutputURL(pred.Output)
		case "failed", "canceled":
			return "", fmt.Errorf("replicate: prediction %s: %v", pred.Status, pred.Error)
		}
	}
	return "", fmt.Errorf("replicate: prediction timed out")
}

func (c *ReplicateClient) getPrediction(ctx context.Context, getURL string) (*predictionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: create poll request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: poll: %w", err)
	}
	defer resp.Body.Close()

	var pred predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("replicate: decode poll: %w", err)
	}
	return &pred, nil
}

// decodeOutputURL handles both output shapes the model version may return:
// a bare string URL or a list of URLs (first wins).
func decodeOutputURL(raw json.RawMessage) (string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0], nil
	}
	return "", fmt.Errorf("replicate: unexpected output shape: %s", string(raw))
}
