package blog

import (
	"context"
	"errors"
	"strings"

	appcfg "github.com/keywordforge/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

// Drafter produces blog post content from a prompt.
type Drafter interface {
	Draft(ctx context.Context, systemPrompt, prompt string) (string, error)
}

type openAIDrafter struct {
	client openaiclient.Client
	model  string
}

// NewDrafter builds a Drafter backed by an OpenAI-compatible API.
func NewDrafter(cfg appcfg.OpenAIConfig) (Drafter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is empty")
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(cfg.APIKey),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, openaioption.WithBaseURL(cfg.Endpoint))
	}

	return &openAIDrafter{
		client: openaiclient.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// unavailableDrafter fails every draft with the configuration error that
// prevented the real provider from starting. Lets the app boot without an
// API key; generation requests fail per keyword instead.
type unavailableDrafter struct{ err error }

func NewUnavailableDrafter(err error) Drafter { return unavailableDrafter{err: err} }

func (d unavailableDrafter) Draft(context.Context, string, string) (string, error) {
	return "", d.err
}

func (d *openAIDrafter) Draft(ctx context.Context, systemPrompt, prompt string) (string, error) {
	messages := make([]openaiclient.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, openaiclient.SystemMessage(systemPrompt))
	}
	messages = append(messages, openaiclient.UserMessage(prompt))

	resp, err := d.client.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model:    openaiclient.ChatModel(d.model),
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from AI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty response from AI")
	}
	return content, nil
}
