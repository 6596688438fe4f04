// Package ai wraps the embedding and chat-completion provider behind small
// interfaces so the manifesto services never talk to a vendor SDK directly.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyInput is returned when a caller asks to embed an empty string.
var ErrEmptyInput = errors.New("cannot embed empty input")

// Embedder converts text into a fixed-length vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ChatCompleter produces a natural-language answer from a system prompt and a
// user message.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ClientConfig configures the OpenAI-compatible provider.
type ClientConfig struct {
	APIKey         string
	BaseURL        string // empty means the provider default
	EmbeddingModel string
	ChatModel      string
	RequestTimeout time.Duration
}

// Client implements Embedder and ChatCompleter against an OpenAI-compatible API.
type Client struct {
	api            *openai.Client
	embeddingModel string
	chatModel      string
	timeout        time.Duration
}

// NewClient creates a provider client from config.
func NewClient(cfg ClientConfig) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		api:            openai.NewClientWithConfig(apiConfig),
		embeddingModel: embeddingModel,
		chatModel:      chatModel,
		timeout:        timeout,
	}
}

// EmbedText embeds a single text and returns its vector.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contained no data")
	}

	return resp.Data[0].Embedding, nil
}

// Complete sends a chat completion request and returns the answer text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion response contained no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
