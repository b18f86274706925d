// Package ai wraps an OpenAI-compatible provider behind the two capabilities
// the playlist pipeline needs: structured chat completion and image
// generation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"moodyo/config"
	"moodyo/model"
)

// ChatProvider is the text-generation capability consumed by PlaylistGenerator.
type ChatProvider interface {
	ChatJSON(ctx context.Context, system, user string) (string, error)
}

// ImageProvider is the image-generation capability consumed by CoverArtGenerator.
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Client talks to an OpenAI-compatible HTTP API.
type Client struct {
	baseURL     string
	apiKey      string
	chatModel   string
	imageModel  string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewClient builds a provider client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.AITimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.AIBaseURL, "/"),
		apiKey:      cfg.AIAPIKey,
		chatModel:   cfg.AIChatModel,
		imageModel:  cfg.AIImageModel,
		maxTokens:   cfg.AIMaxTokens,
		temperature: cfg.AITemperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChatJSON sends one chat completion request in JSON-object output mode and
// returns the raw content of the first choice.
func (c *Client) ChatJSON(ctx context.Context, system, user string) (string, error) {
	reqBody := model.OpenAIChatRequest{
		Model: c.chatModel,
		Messages: []model.OpenAIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:      c.maxTokens,
		Temperature:    c.temperature,
		Stream:         false,
		ResponseFormat: &model.OpenAIResponseFormat{Type: "json_object"},
	}

	var chatResp model.OpenAIChatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	content := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("empty response content")
	}
	return content, nil
}

// GenerateImage requests a single image and returns either the provider URL
// or a data URI built from the base64 payload.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	reqBody := model.OpenAIImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		ResponseFormat: "b64_json",
	}

	var imgResp model.OpenAIImageResponse
	if err := c.post(ctx, "/images/generations", reqBody, &imgResp); err != nil {
		return "", err
	}

	if len(imgResp.Data) == 0 {
		return "", fmt.Errorf("no image returned")
	}
	if imgResp.Data[0].URL != "" {
		return imgResp.Data[0].URL, nil
	}
	if imgResp.Data[0].B64JSON != "" {
		return "data:image/png;base64," + imgResp.Data[0].B64JSON, nil
	}
	return "", fmt.Errorf("image response carried no usable reference")
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
