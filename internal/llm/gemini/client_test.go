package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/jobkit/cv-copilot/internal/llm"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: parts},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 4,
			TotalTokenCount:      16,
		},
	}
}

func TestCompleteShapesConfig(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("answer")}
	c := &Client{models: fake, modelName: "gemini-2.5-flash", logger: zap.NewNop()}

	temp := 0.1
	out, err := c.Complete(context.Background(), llm.Request{
		Prompt:        "analyze this",
		SystemMessage: "you are terse",
		Temperature:   &temp,
		MaxTokens:     1000,
		JSONOnly:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "answer" {
		t.Fatalf("unexpected output: %q", out)
	}

	if fake.model != "gemini-2.5-flash" {
		t.Fatalf("unexpected model: %s", fake.model)
	}
	if fake.config.SystemInstruction == nil || fake.config.SystemInstruction.Parts[0].Text != "you are terse" {
		t.Fatalf("system instruction not set: %+v", fake.config.SystemInstruction)
	}
	if fake.config.Temperature == nil || *fake.config.Temperature != 0.1 {
		t.Fatalf("temperature not set: %+v", fake.config.Temperature)
	}
	if fake.config.MaxOutputTokens != 1000 {
		t.Fatalf("max tokens not set: %d", fake.config.MaxOutputTokens)
	}
	if fake.config.ResponseMIMEType != "application/json" {
		t.Fatalf("json mode not requested: %q", fake.config.ResponseMIMEType)
	}
}

func TestCompleteConcatenatesParts(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("first", " ", "second")}
	c := &Client{models: fake, modelName: defaultModel, logger: zap.NewNop()}

	out, err := c.Complete(context.Background(), llm.Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "first\nsecond" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCompleteEmptyResponse(t *testing.T) {
	fake := &fakeGenerator{resp: &genai.GenerateContentResponse{}}
	c := &Client{models: fake, modelName: defaultModel, logger: zap.NewNop()}

	_, err := c.Complete(context.Background(), llm.Request{Prompt: "hello"})

	var providerErr *llm.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestCompleteAPIErrorWrapped(t *testing.T) {
	fake := &fakeGenerator{err: errors.New("backend unavailable")}
	c := &Client{models: fake, modelName: defaultModel, logger: zap.NewNop()}

	_, err := c.Complete(context.Background(), llm.Request{Prompt: "hello"})

	var providerErr *llm.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if providerErr.Provider != providerName {
		t.Fatalf("unexpected provider: %s", providerErr.Provider)
	}
}

func TestCompleteLogsUsage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := &Client{models: &fakeGenerator{resp: textResponse("ok")}, modelName: defaultModel, logger: zap.New(core)}

	if _, err := c.Complete(context.Background(), llm.Request{Prompt: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("gemini completion usage").All()
	if len(entries) != 1 {
		t.Fatalf("expected one usage log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["total_tokens"] != int32(16) {
		t.Fatalf("unexpected total_tokens: %v", fields["total_tokens"])
	}
}

func TestCompleteEmptyPrompt(t *testing.T) {
	c := &Client{models: &fakeGenerator{}, modelName: defaultModel, logger: zap.NewNop()}

	if _, err := c.Complete(context.Background(), llm.Request{Prompt: "   "}); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}
