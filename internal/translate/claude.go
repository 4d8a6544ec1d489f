package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultModel = "claude-3-5-haiku-latest"

const systemPrompt = "You translate short trivia quiz text from English. " +
	"Reply with the translation only, without quotes, notes or explanations. " +
	"Keep proper nouns, numbers and units unchanged."

var languageNames = map[string]string{
	"fr": "French",
	"es": "Spanish",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
}

// Claude is an online Backend backed by the Anthropic Messages API.
type Claude struct {
	client *anthropic.Client
	model  string
}

// NewClaude builds a backend. Extra request options (base URL, retries) are passed to
// the SDK client.
func NewClaude(apiKey, model string, opts ...option.RequestOption) *Claude {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)
	return &Claude{client: &client, model: model}
}

func (c *Claude) Translate(ctx context.Context, text, lang string) (string, error) {
	target, ok := languageNames[strings.ToLower(lang)]
	if !ok {
		target = lang
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf("Translate into %s:\n%s", target, text))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude translate: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			if out := strings.TrimSpace(block.Text); out != "" {
				return out, nil
			}
		}
	}
	return "", fmt.Errorf("claude translate: no text content in response")
}
