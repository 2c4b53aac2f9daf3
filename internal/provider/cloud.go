package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"marginalia/pkg/types"
)

const defaultCloudModel = "claude-3-5-haiku-latest"

// CloudProvider sends generations to the Anthropic API. It exists both as a
// configurable primary and as the fallback target when the on-device model
// fails with credentials present.
type CloudProvider struct {
	client anthropic.Client
	model  string
	hasKey bool
}

// NewCloudProvider builds the cloud provider. The returned provider refuses
// requests when apiKey is empty rather than letting the SDK fail obscurely.
func NewCloudProvider(apiKey, model string) *CloudProvider {
	if model == "" {
		model = defaultCloudModel
	}
	return &CloudProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		hasKey: strings.TrimSpace(apiKey) != "",
	}
}

func (p *CloudProvider) Name() string { return CloudAPI }

func (p *CloudProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg types.LLMConfig) (string, error) {
	if !p.hasKey {
		return "", errors.New("cloud API key not configured")
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	if cfg.Temperature > 0 {
		params.Temperature = anthropic.Float(cfg.Temperature)
	}
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

// CheckConnection verifies credentials are present. A live round-trip would
// spend tokens on every status poll, so reachability is left to the request
// path.
func (p *CloudProvider) CheckConnection(ctx context.Context) error {
	if !p.hasKey {
		return errors.New("cloud API key not configured")
	}
	return nil
}
