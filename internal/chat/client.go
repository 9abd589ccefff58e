// Package chat is a client for an OpenAI-compatible chat-completions
// endpoint. The deployed backend is Groq, but nothing here is Groq-specific
// beyond the default endpoint — any server speaking the same surface works,
// which is also how the tests run (httptest stand-in).
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one turn of a conversation, in the OpenAI wire shape.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// systemPrompt anchors the assistant to the DevDocs product.
const systemPrompt = `You are a helpful AI assistant for DevDocs - a centralized hub for developer documentation.
DevDocs makes it easier to find and contribute documentation for various applications and tools.
Be friendly, concise, and helpful. If users ask about specific features, guide them to explore the Applications or Support pages.`

// Sampling parameters. Kept fixed — the endpoint is a product feature, not a
// playground, so callers don't get to tune these.
const (
	temperature = 0.7
	maxTokens   = 1024
)

// Client posts chat completions to a single model on a single endpoint.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// New builds a Client. The request timeout is generous because completion
// latency scales with response length, not network quality.
func New(endpoint, model, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends the system prompt, the prior turns, and the new user
// message, and returns the assistant's reply. Stateless: the caller owns the
// conversation history.
func (c *Client) Complete(ctx context.Context, history []Message, message string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("chat: client misconfigured")
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat: encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: calling completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat: endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("chat: decoding completion response: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat: endpoint returned no completion")
	}

	return completion.Choices[0].Message.Content, nil
}
