package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobkit/cv-copilot/internal/llm"

	"go.uber.org/zap"
)

// significantImprovementPoints is the match-score gain above which an
// optimization counts as significant.
const significantImprovementPoints = 10

type modelOptimization struct {
	OptimizedText     string   `mapstructure:"optimized_text"`
	Changes           []string `mapstructure:"changes"`
	FormatSuggestions []string `mapstructure:"format_suggestions"`
	Recommendations   []string `mapstructure:"recommendations"`
}

// OptimizationImprovements summarizes the effect of one optimization pass.
type OptimizationImprovements struct {
	ScoreImprovement       float64 `json:"score_improvement"`
	ChangesMade            int     `json:"changes_made"`
	FormatImprovements     int     `json:"format_improvements"`
	SignificantImprovement bool    `json:"has_significant_improvement"`
}

// OptimizationDetails carries the before/after scores and the raw change lists.
type OptimizationDetails struct {
	InitialScore      float64  `json:"initial_score"`
	FinalScore        float64  `json:"final_score"`
	Changes           []string `json:"changes_made"`
	FormatSuggestions []string `json:"format_suggestions"`
}

// Optimization is the result of rewriting a CV against a job description.
type Optimization struct {
	OptimizedCV     string                   `json:"optimized_cv"`
	Improvements    OptimizationImprovements `json:"improvements"`
	Details         OptimizationDetails      `json:"optimization_details"`
	Recommendations []string                 `json:"recommendations"`
}

// OptimizeCV matches the CV against the job, asks the model to rewrite it and
// re-matches the rewritten text so the caller sees the before/after scores.
func (a *Analyzer) OptimizeCV(ctx context.Context, cvText, jobDescription string) (*Optimization, error) {
	a.logger.Info("starting cv optimization")

	initial, err := a.MatchJob(ctx, cvText, jobDescription)
	if err != nil {
		return nil, err
	}

	raw, err := a.models.OptimizeCV(ctx, cvText, jobDescription, initial.MatchPercentage)
	if err != nil {
		return nil, err
	}

	var model modelOptimization
	if err := decodeStrict(raw, &model); err != nil {
		return nil, err
	}
	if strings.TrimSpace(model.OptimizedText) == "" {
		return nil, fmt.Errorf("%w: optimized_text missing from model answer", llm.ErrInvalidResponseFormat)
	}

	final, err := a.MatchJob(ctx, model.OptimizedText, jobDescription)
	if err != nil {
		return nil, err
	}

	improvement := final.MatchPercentage - initial.MatchPercentage

	result := &Optimization{
		OptimizedCV: model.OptimizedText,
		Improvements: OptimizationImprovements{
			ScoreImprovement:       improvement,
			ChangesMade:            len(model.Changes),
			FormatImprovements:     len(model.FormatSuggestions),
			SignificantImprovement: improvement > significantImprovementPoints,
		},
		Details: OptimizationDetails{
			InitialScore:      initial.MatchPercentage,
			FinalScore:        final.MatchPercentage,
			Changes:           emptyIfNil(model.Changes),
			FormatSuggestions: emptyIfNil(model.FormatSuggestions),
		},
		Recommendations: emptyIfNil(model.Recommendations),
	}

	a.logger.Info("cv optimization completed",
		zap.Float64("initial_score", initial.MatchPercentage),
		zap.Float64("final_score", final.MatchPercentage),
		zap.Bool("significant", result.Improvements.SignificantImprovement),
	)

	return result, nil
}

// ValidateOptimization re-checks an optimized CV: local ATS compliance plus a
// fresh match score. Successful means the match reached 75.
func (a *Analyzer) ValidateOptimization(ctx context.Context, optimizedCV, jobDescription string) (*OptimizationValidation, error) {
	compliance := a.ValidateCompliance(optimizedCV)

	match, err := a.MatchJob(ctx, optimizedCV, jobDescription)
	if err != nil {
		return nil, err
	}

	return &OptimizationValidation{
		ATSCompliant:     compliance.IsCompliant,
		MatchScore:       match.MatchPercentage,
		ComplianceIssues: compliance.Issues,
		Successful:       match.MatchPercentage >= successfulMatchScore,
	}, nil
}

// successfulMatchScore is the match percentage an optimized CV must reach to
// count as a successful optimization.
const successfulMatchScore = 75

// OptimizationValidation is the outcome of re-checking an optimized CV.
type OptimizationValidation struct {
	ATSCompliant     bool     `json:"is_ats_compliant"`
	MatchScore       float64  `json:"match_score"`
	ComplianceIssues []string `json:"compliance_issues"`
	Successful       bool     `json:"successful_optimization"`
}
