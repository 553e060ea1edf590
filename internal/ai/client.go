package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/TriggerMinds/Archive-OSINT/internal/config"
)

// ServiceError reports a transport failure or malformed output from the
// language-model service.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ai service: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Client runs prompt-templated calls against the configured LLM provider.
type Client struct {
	cfg config.LLMConfig
}

func New(cfg config.LLMConfig) *Client {
	return &Client{cfg: cfg}
}

// complete sends one user prompt and returns the raw text response.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	switch c.cfg.Provider {
	case "anthropic":
		return c.completeWithAnthropic(ctx, prompt)
	case "openai", "openrouter":
		return c.completeWithOpenAI(ctx, prompt)
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s", c.cfg.Provider)
	}
}

func (c *Client) completeWithAnthropic(ctx context.Context, prompt string) (string, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	client := anthropic.NewClient(apiKey)

	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: 1024,
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{{Type: "text", Text: &prompt}},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}
	return resp.Content[0].GetText(), nil
}

func (c *Client) completeWithOpenAI(ctx context.Context, prompt string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if c.cfg.BaseURL != "" {
		clientCfg.BaseURL = c.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.cfg.Model,
		MaxTokens: 1024,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed converts text to an embedding vector using OpenAI's API. Used when
// saving items so similarity search can rank them later.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, &ServiceError{Op: "embed", Err: fmt.Errorf("OPENAI_API_KEY not set")}
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if c.cfg.BaseURL != "" {
		clientCfg.BaseURL = c.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, &ServiceError{Op: "embed", Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &ServiceError{Op: "embed", Err: fmt.Errorf("no embedding returned")}
	}
	return resp.Data[0].Embedding, nil
}
