package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAITranslator translates with a chat completion model.
type OpenAITranslator struct {
	llm    LLMClient
	tracer trace.Tracer
	model  string
	source string
	target string
}

func NewOpenAITranslator(tracer trace.Tracer, llm LLMClient, model, sourceLang, targetLang string) *OpenAITranslator {
	return &OpenAITranslator{llm: llm, tracer: tracer, model: model, source: sourceLang, target: targetLang}
}

func (t *OpenAITranslator) TargetLang() string { return t.target }

func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	ctx, span := t.tracer.Start(ctx, "openai-translate.translate")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", t.model))

	prompt := fmt.Sprintf(
		"Translate the user's text from %s to %s. Reply with the translation only, keep tickers and numbers unchanged.",
		t.source, t.target,
	)
	completion, err := t.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: t.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}
	out := strings.TrimSpace(completion.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("empty translation")
	}
	return out, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
