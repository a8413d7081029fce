// Package llm abstracts generative-model providers behind a small completion
// interface and adds tolerant JSON extraction for structured answers.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Request describes a single completion call. Zero values defer to the
// provider's per-model defaults.
type Request struct {
	Prompt        string
	SystemMessage string
	MaxTokens     int
	Temperature   *float64
	// JSONOnly asks providers that support a strict JSON response mode to
	// enable it. Providers without such a mode ignore the flag.
	JSONOnly bool
}

// Completer performs one outbound model call per invocation. Implementations
// must not retry on their own; provider fallback is handled by the Manager.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Schema describes the expected shape of a structured answer. Keys are field
// names, values are natural-language descriptions or nested schemas; the
// whole mapping is embedded into the prompt verbatim.
type Schema map[string]any

const structuredTemperature = 0.1

// CompleteStructured appends a JSON-format instruction embedding the schema
// to the prompt, performs the call and parses the answer. A response that
// contains no parseable JSON object fails with ErrInvalidResponseFormat.
func CompleteStructured(ctx context.Context, c Completer, prompt string, schema Schema, systemMessage string) (map[string]any, error) {
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal output schema: %w", err)
	}

	if systemMessage == "" {
		systemMessage = "You are a helpful assistant that always responds with valid JSON matching the requested schema."
	}

	temp := structuredTemperature
	req := Request{
		Prompt: fmt.Sprintf(
			"%s\n\nImportant: Provide your response in valid JSON format following this schema:\n%s\n"+
				"Ensure the response is a properly formatted JSON object with no trailing commas or comments.",
			prompt, schemaJSON,
		),
		SystemMessage: systemMessage,
		Temperature:   &temp,
		JSONOnly:      true,
	}

	raw, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	return ParseStructured(raw)
}

// ParseStructured extracts the JSON object embedded in a model response and
// unmarshals it.
func ParseStructured(raw string) (map[string]any, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	return data, nil
}

// ExtractJSON locates the JSON object inside a possibly prose-wrapped model
// response. Markdown code fences are stripped first; the remainder is cut to
// the first "{" and the last "}". The brace scan is a compatibility shim for
// providers without a strict JSON mode and is known to mis-cut responses with
// unbalanced braces inside string values.
func ExtractJSON(raw string) (string, error) {
	cleaned := stripFences(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found in response", ErrInvalidResponseFormat)
	}

	return cleaned[start : end+1], nil
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
