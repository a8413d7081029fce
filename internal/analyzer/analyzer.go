// Package analyzer merges local text heuristics with model-backed analysis
// into a single CV report and score.
package analyzer

import (
	"context"
	"strings"

	"github.com/jobkit/cv-copilot/internal/ats"
	"github.com/jobkit/cv-copilot/internal/textscan"

	"go.uber.org/zap"
)

// ModelHandler is the model-facing surface the analyzer depends on. It is
// satisfied by llm.Manager and by stubs in tests.
type ModelHandler interface {
	AnalyzeCV(ctx context.Context, cvText string) (map[string]any, error)
	MatchJob(ctx context.Context, cvText, jobDescription string) (map[string]any, error)
	AnalyzeJob(ctx context.Context, jobDescription string) (map[string]any, error)
	OptimizeCV(ctx context.Context, cvText, jobDescription string, currentScore float64) (map[string]any, error)
	EvaluateCV(ctx context.Context, cvText string) (map[string]any, error)
	EvaluateLetter(ctx context.Context, letter, jobDescription, company string) (map[string]any, error)
	CoverLetter(ctx context.Context, cvText, jobDescription, company string) (string, error)
}

// Analyzer orchestrates the text scanner, the ATS rules and the model
// handler. It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	models ModelHandler
	text   *textscan.Analyzer
	rules  *ats.Rules
	logger *zap.Logger
}

// New builds an Analyzer around the given model handler.
func New(models ModelHandler, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		models: models,
		text:   textscan.New(),
		rules:  ats.NewRules(),
		logger: logger,
	}
}

// AnalyzeCV runs the model analysis, the local keyword extraction and the ATS
// validation and merges them. Model-derived fields take precedence; local
// keyword extraction is additive evidence. A model failure propagates
// unmodified — a partial report would mislead the caller about ATS risk.
func (a *Analyzer) AnalyzeCV(ctx context.Context, cvText string) (*Analysis, error) {
	a.logger.Info("starting cv analysis")

	raw, err := a.models.AnalyzeCV(ctx, cvText)
	if err != nil {
		return nil, err
	}

	var model ModelAnalysis
	if err := decodeStrict(raw, &model); err != nil {
		return nil, err
	}
	if model.ExperienceYears < 0 {
		model.ExperienceYears = 0
	}

	keywords := a.text.ExtractKeywords(cvText)
	stats := a.text.AnalyzeContent(cvText)
	compliance := a.ValidateCompliance(cvText)

	analysis := &Analysis{
		Skills: Skills{
			TechnicalSkills:       emptyIfNil(keywords.TechnicalTerms),
			SoftSkills:            emptyIfNil(model.Skills),
			MissingCriticalSkills: emptyIfNil(model.MissingElements),
		},
		Experience: Experience{
			Years:                model.ExperienceYears,
			KeyAchievements:      emptyIfNil(model.KeyAchievements),
			HighlightedPositions: emptyIfNil(keywords.Nouns),
		},
		ATSCompliance: compliance,
		Improvements: Improvements{
			Suggestions:            emptyIfNil(model.ImprovementSuggestions),
			ATSRecommendations:     flattenGuidelines(a.rules.Guidelines()),
			ContentRecommendations: a.contentRecommendations(keywords, model, compliance),
		},
		ContentStats: stats,
	}

	a.logger.Info("cv analysis completed",
		zap.Int("technical_skills", len(analysis.Skills.TechnicalSkills)),
		zap.Int("experience_years", analysis.Experience.Years),
		zap.Float64("format_score", compliance.FormatScore),
	)

	return analysis, nil
}

// ValidateCompliance applies the local formatting heuristics: standard
// section headers, table/image markers and bullet-list density. No model
// call, deterministic output.
func (a *Analyzer) ValidateCompliance(cvText string) Compliance {
	sections := a.text.ExtractSections(cvText)

	titles := make([]string, 0, len(sections))
	for name := range sections {
		titles = append(titles, name)
	}

	structure := a.rules.ValidateStructure(titles)

	issues := append([]string{}, structure.Issues...)
	issues = append(issues, contentIssues(cvText)...)

	score := 100.0
	score -= 15 * float64(len(structure.Issues))
	score -= 10 * float64(len(issues)-len(structure.Issues))
	if score < 0 {
		score = 0
	}

	return Compliance{
		IsCompliant: len(issues) == 0,
		Issues:      issues,
		FormatScore: score,
	}
}

// forbiddenMarkers are layout artifacts ATS parsers choke on when they leak
// into extracted text.
var forbiddenMarkers = map[string]string{
	"<table": "tables detected; ATS parsers often scramble tabular layouts",
	"<img":   "embedded images detected; ATS parsers cannot read them",
	"[image": "embedded images detected; ATS parsers cannot read them",
	"\t|":    "table-like columns detected; prefer a single-column layout",
}

func contentIssues(cvText string) []string {
	var issues []string
	lower := strings.ToLower(cvText)

	seen := make(map[string]struct{})
	for marker, issue := range forbiddenMarkers {
		if strings.Contains(lower, marker) {
			if _, dup := seen[issue]; dup {
				continue
			}
			seen[issue] = struct{}{}
			issues = append(issues, issue)
		}
	}

	if bulletCount(cvText) == 0 {
		issues = append(issues, "no bullet points found; use concise bullet lists for achievements")
	}

	return issues
}

func bulletCount(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "•") {
			count++
		}
	}
	return count
}

func (a *Analyzer) contentRecommendations(keywords textscan.Keywords, model ModelAnalysis, compliance Compliance) []string {
	recommendations := []string{}

	if len(keywords.TechnicalTerms) < 5 {
		recommendations = append(recommendations,
			"Consider adding more industry-specific keywords throughout your CV")
	}
	if len(model.KeyAchievements) == 0 {
		recommendations = append(recommendations,
			"Add specific, quantifiable achievements for each role")
	}
	if !compliance.IsCompliant {
		recommendations = append(recommendations,
			"Update CV format to improve ATS compatibility")
	}

	return recommendations
}

func flattenGuidelines(guidelines map[string][]string) []string {
	// Stable order keeps reports reproducible.
	out := []string{}
	for _, topic := range []string{"format", "structure", "content"} {
		out = append(out, guidelines[topic]...)
	}
	return out
}
