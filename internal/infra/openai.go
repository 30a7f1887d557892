package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient is a minimal chat-completions client covering the two call
// shapes the backend needs: text-only prompts and vision prompts with an
// inline base64 image.
type OpenAIClient struct {
	apiKey     string
	model      string
	miniModel  string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, model, miniModel string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		model:      model,
		miniModel:  miniModel,
		baseURL:    openAIBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a text-only prompt to the full model.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return c.chat(ctx, c.model, []chatMessage{{Role: "user", Content: prompt}}, maxTokens)
}

// CompleteVision sends a prompt plus an inline base64 JPEG to the given
// model. useMini selects the cheaper model for classification-style calls.
func (c *OpenAIClient) CompleteVision(ctx context.Context, prompt, imageB64 string, maxTokens int, useMini bool) (string, error) {
	model := c.model
	if useMini {
		model = c.miniModel
	}
	msg := chatMessage{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + imageB64}},
		},
	}
	return c.chat(ctx, model, []chatMessage{msg}, maxTokens)
}

func (c *OpenAIClient) chat(ctx context.Context, model string, messages []chatMessage, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: unreachable: %w", err)
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if result.Error != nil {
			return "", fmt.Errorf("openai: %s (status %d)", result.Error.Message, resp.StatusCode)
		}
		return "", fmt.Errorf("openai: status %d", resp.StatusCode)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return result.Choices[0].Message.Content, nil
}
