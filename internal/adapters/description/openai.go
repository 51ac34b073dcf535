package description

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/scholarsync/core/internal/infrastructure/config"
	"github.com/scholarsync/core/internal/infrastructure/logger"
)

// Instruction is sent as the system message of every request.
const Instruction = `Please generate a summary of research interests for this professor from their list of paper titles. If a description cannot be determined, please return a dummy description. Descriptions should be at most 256 characters.`

// ErrUnconfigured is returned when no API key was provided.
var ErrUnconfigured = errors.New("description generator is not configured")

// OpenAIGenerator turns paper titles into a short summary with a chat model.
// It does not retry; the caller bounds each call through ctx.
type OpenAIGenerator struct {
	client    *openai.Client
	model     string
	maxLength int
	logger    *logger.Logger
}

// NewOpenAIGenerator creates a generator from configuration.
func NewOpenAIGenerator(cfg config.GeneratorConfig, log *logger.Logger) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrUnconfigured
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	log.Infow("Initializing OpenAI description generator", "model", model)
	return &OpenAIGenerator{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxLength: cfg.MaxLength,
		logger:    log.WithComponent("description"),
	}, nil
}

// Generate implements ports.DescriptionGenerator.
func (g *OpenAIGenerator) Generate(ctx context.Context, titles []string) (string, error) {
	g.logger.Debugw("Requesting description", "model", g.model, "titles", len(titles))

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: Instruction},
			{Role: openai.ChatMessageRoleUser, Content: strings.Join(titles, "\n")},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	g.logger.Debugw("Received description", "finish_reason", resp.Choices[0].FinishReason)
	return Clean(resp.Choices[0].Message.Content, g.maxLength), nil
}

// Clean strips surrounding whitespace and quotes and caps the text at
// maxLength runes. A non-positive maxLength disables the cap.
func Clean(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"`)
	text = strings.TrimSpace(text)
	if maxLength > 0 {
		if runes := []rune(text); len(runes) > maxLength {
			text = string(runes[:maxLength])
		}
	}
	return text
}

// Unavailable is used in place of a real generator when none is configured.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, []string) (string, error) {
	return "", ErrUnconfigured
}
