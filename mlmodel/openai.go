package mlmodel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"go-ner-proxy/config"
	"go-ner-proxy/types"
)

const OpenAIProviderName = "openai"

const nerSystemPrompt = `You are a named entity recognition model. Tag every mention of a person's name in the user's text.
Reply with ONLY a JSON array, one object per mention in order of appearance: [{"entity_group":"PER","word":"<name exactly as written>"}].
Repeat a name each time it is mentioned. Reply with [] when there are no people.`

// OpenAITagger asks a chat model to emit token-classification style tags.
type OpenAITagger struct {
	client *openai.Client
	model  string
}

func NewOpenAITagger(cfg config.OpenAIConfig) *OpenAITagger {
	if cfg.APIKey == "" {
		return &OpenAITagger{model: cfg.Model}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAITagger{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (o *OpenAITagger) Name() string {
	return OpenAIProviderName
}

func (o *OpenAITagger) Tag(ctx context.Context, text string) (types.InferenceResult, error) {
	if o.client == nil {
		return types.InferenceResult{}, types.NewMisconfiguredCredential(OpenAIProviderName)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: nerSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		// zero is dropped by omitempty
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return types.ProviderErrorResult(apiErr.Message), nil
		}
		return types.InferenceResult{}, types.NewProviderUnavailable(fmt.Errorf("chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return types.UnexpectedResult("no choices in chat completion"), nil
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	result := types.ParseInference([]byte(content))
	if result.Kind != types.KindTags {
		log.Printf("OpenAI tagger returned %s: %s", result.Kind, truncate([]byte(content), 512))
	}
	return result, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
