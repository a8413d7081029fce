package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Task identifies the kind of work a completion is requested for. Provider
// preferences are keyed by task.
type Task string

const (
	TaskCVAnalysis       Task = "cv_analysis"
	TaskJobMatching      Task = "job_matching"
	TaskJobAnalysis      Task = "job_analysis"
	TaskCVOptimization   Task = "cv_optimization"
	TaskCVEvaluation     Task = "cv_evaluation"
	TaskLetterEvaluation Task = "letter_evaluation"
	TaskCoverLetter      Task = "cover_letter"
)

const defaultMaxLogLength = 200

// ManagerConfig selects the default provider, the ordered fallback chain and
// optional per-task provider preferences.
type ManagerConfig struct {
	Default         string            `mapstructure:"default"`
	FallbackOrder   []string          `mapstructure:"fallback-order"`
	TaskPreferences map[string]string `mapstructure:"task-preferences"`
	MaxLogLength    int               `mapstructure:"max-log-length"`
}

// Manager routes completion requests to a preferred provider and walks the
// fallback order when it fails. Configuration is immutable after New.
type Manager struct {
	providers map[string]Completer
	cfg       *ManagerConfig
	logger    *zap.Logger
	maxLogLen int
}

// NewManager wires the given providers. The default provider must be among
// them; unknown names in the fallback order or task preferences are rejected
// up front so misconfiguration fails at startup, not mid-request.
func NewManager(cfg *ManagerConfig, providers []Completer, logger *zap.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("manager configuration is required")
	}
	if len(providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}

	byName := make(map[string]Completer, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}

	def := strings.TrimSpace(cfg.Default)
	if def == "" {
		def = providers[0].Name()
	}
	if _, ok := byName[def]; !ok {
		return nil, fmt.Errorf("default provider %q is not configured", def)
	}

	for _, name := range cfg.FallbackOrder {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("fallback provider %q is not configured", name)
		}
	}
	for task, name := range cfg.TaskPreferences {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("provider %q preferred for task %q is not configured", name, task)
		}
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	resolved := *cfg
	resolved.Default = def

	return &Manager{
		providers: byName,
		cfg:       &resolved,
		logger:    logger,
		maxLogLen: maxLogLen,
	}, nil
}

// Complete sends the request to the provider preferred for the task and falls
// back through the configured order when it fails. The last error is returned
// when every provider fails.
func (m *Manager) Complete(ctx context.Context, task Task, req Request) (string, error) {
	primary := m.providerFor(task)

	m.logger.Debug("model completion request",
		zap.String("task", string(task)),
		zap.String("provider", primary),
		zap.Int("prompt_length", utf8.RuneCountInString(req.Prompt)),
		zap.String("prompt_preview", truncateForLog(req.Prompt, m.maxLogLen)),
	)

	out, err := m.providers[primary].Complete(ctx, req)
	if err == nil {
		return out, nil
	}

	m.logger.Warn("provider failed",
		zap.String("task", string(task)),
		zap.String("provider", primary),
		zap.Error(err),
	)

	for _, name := range m.cfg.FallbackOrder {
		if name == primary {
			continue
		}

		m.logger.Info("attempting fallback provider",
			zap.String("task", string(task)),
			zap.String("provider", name),
		)

		out, err = m.providers[name].Complete(ctx, req)
		if err == nil {
			return out, nil
		}

		m.logger.Warn("fallback provider failed",
			zap.String("task", string(task)),
			zap.String("provider", name),
			zap.Error(err),
		)
	}

	return "", fmt.Errorf("all providers failed: %w", err)
}

// CompleteStructured is the structured variant of Complete: the schema is
// embedded into the prompt and the answer parsed as JSON. Parse failures
// count as provider failures for fallback purposes.
func (m *Manager) CompleteStructured(ctx context.Context, task Task, prompt string, schema Schema, systemMessage string) (map[string]any, error) {
	primary := m.providerFor(task)

	data, err := CompleteStructured(ctx, m.providers[primary], prompt, schema, systemMessage)
	if err == nil {
		return data, nil
	}

	m.logger.Warn("structured completion failed",
		zap.String("task", string(task)),
		zap.String("provider", primary),
		zap.Error(err),
	)

	for _, name := range m.cfg.FallbackOrder {
		if name == primary {
			continue
		}

		m.logger.Info("attempting fallback provider",
			zap.String("task", string(task)),
			zap.String("provider", name),
		)

		data, err = CompleteStructured(ctx, m.providers[name], prompt, schema, systemMessage)
		if err == nil {
			return data, nil
		}

		m.logger.Warn("fallback provider failed",
			zap.String("task", string(task)),
			zap.String("provider", name),
			zap.Error(err),
		)
	}

	return nil, fmt.Errorf("all providers failed: %w", err)
}

func (m *Manager) providerFor(task Task) string {
	if name, ok := m.cfg.TaskPreferences[string(task)]; ok {
		return name
	}
	return m.cfg.Default
}

func truncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
