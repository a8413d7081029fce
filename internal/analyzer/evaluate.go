package analyzer

import (
	"context"

	"go.uber.org/zap"
)

// CV evaluation weights. Content quality dominates, achievements and
// experience presentation follow, skills presentation refines. They sum to 1.
const (
	weightContentQuality         = 0.3
	weightAchievementsImpact     = 0.25
	weightExperiencePresentation = 0.25
	weightSkillsPresentation     = 0.2
)

type modelCVEvaluation struct {
	ContentQualityScore float64  `mapstructure:"content_quality_score"`
	AchievementsScore   float64  `mapstructure:"achievements_score"`
	ExperienceScore     float64  `mapstructure:"experience_score"`
	SkillsScore         float64  `mapstructure:"skills_score"`
	Strengths           []string `mapstructure:"strengths"`
	ImprovementAreas    []string `mapstructure:"improvement_areas"`
}

// CVEvaluationScores are the clamped per-criterion scores of a CV evaluation.
type CVEvaluationScores struct {
	ContentQuality         float64 `json:"content_quality"`
	AchievementsImpact     float64 `json:"achievements_impact"`
	ExperiencePresentation float64 `json:"experience_presentation"`
	SkillsRelevance        float64 `json:"skills_relevance"`
}

// CVEvaluation is the quality assessment of a CV, independent of any specific
// job description.
type CVEvaluation struct {
	OverallScore     float64            `json:"overall_score"`
	Scores           CVEvaluationScores `json:"evaluation_summary"`
	Strengths        []string           `json:"strengths"`
	ImprovementAreas []string           `json:"improvement_areas"`
}

// EvaluateCV scores the CV's quality through the model and weighs the
// per-criterion scores into one overall score in [0,100].
func (a *Analyzer) EvaluateCV(ctx context.Context, cvText string) (*CVEvaluation, error) {
	a.logger.Info("starting cv evaluation")

	raw, err := a.models.EvaluateCV(ctx, cvText)
	if err != nil {
		return nil, err
	}

	var model modelCVEvaluation
	if err := decodeStrict(raw, &model); err != nil {
		return nil, err
	}

	scores := CVEvaluationScores{
		ContentQuality:         clamp(model.ContentQualityScore),
		AchievementsImpact:     clamp(model.AchievementsScore),
		ExperiencePresentation: clamp(model.ExperienceScore),
		SkillsRelevance:        clamp(model.SkillsScore),
	}

	overall := weightContentQuality*scores.ContentQuality +
		weightAchievementsImpact*scores.AchievementsImpact +
		weightExperiencePresentation*scores.ExperiencePresentation +
		weightSkillsPresentation*scores.SkillsRelevance

	evaluation := &CVEvaluation{
		OverallScore:     clamp(overall),
		Scores:           scores,
		Strengths:        emptyIfNil(model.Strengths),
		ImprovementAreas: emptyIfNil(model.ImprovementAreas),
	}

	a.logger.Info("cv evaluation completed", zap.Float64("overall_score", evaluation.OverallScore))

	return evaluation, nil
}

// Letter evaluation criteria are weighted evenly; each criterion also has a
// minimum score the letter must clear to meet standards.
const letterCriterionWeight = 0.25

var letterMinimumScores = LetterEvaluationScores{
	ContentRelevance: 70,
	ProfessionalTone: 75,
	Customization:    70,
	StructureFormat:  75,
}

type modelLetterEvaluation struct {
	ContentRelevanceScore float64  `mapstructure:"content_relevance_score"`
	ProfessionalToneScore float64  `mapstructure:"professional_tone_score"`
	CustomizationScore    float64  `mapstructure:"customization_score"`
	StructureFormatScore  float64  `mapstructure:"structure_format_score"`
	StrongPoints          []string `mapstructure:"strong_points"`
	ImprovementNeeded     []string `mapstructure:"improvement_needed"`
}

// LetterEvaluationScores are the clamped per-criterion scores of a letter
// evaluation.
type LetterEvaluationScores struct {
	ContentRelevance float64 `json:"content_relevance"`
	ProfessionalTone float64 `json:"professional_tone"`
	Customization    float64 `json:"customization"`
	StructureFormat  float64 `json:"structure_format"`
}

// LetterEvaluation is the quality assessment of a cover letter.
type LetterEvaluation struct {
	OverallScore      float64                `json:"overall_score"`
	Scores            LetterEvaluationScores `json:"evaluation_summary"`
	MeetsStandards    bool                   `json:"meets_standards"`
	StrongPoints      []string               `json:"strong_points"`
	ImprovementNeeded []string               `json:"improvement_needed"`
}

// EvaluateLetter scores a cover letter against the job description and target
// company. MeetsStandards requires every criterion to clear its minimum.
func (a *Analyzer) EvaluateLetter(ctx context.Context, letter, jobDescription, company string) (*LetterEvaluation, error) {
	a.logger.Info("starting letter evaluation", zap.String("company", company))

	raw, err := a.models.EvaluateLetter(ctx, letter, jobDescription, company)
	if err != nil {
		return nil, err
	}

	var model modelLetterEvaluation
	if err := decodeStrict(raw, &model); err != nil {
		return nil, err
	}

	scores := LetterEvaluationScores{
		ContentRelevance: clamp(model.ContentRelevanceScore),
		ProfessionalTone: clamp(model.ProfessionalToneScore),
		Customization:    clamp(model.CustomizationScore),
		StructureFormat:  clamp(model.StructureFormatScore),
	}

	overall := letterCriterionWeight * (scores.ContentRelevance +
		scores.ProfessionalTone + scores.Customization + scores.StructureFormat)

	evaluation := &LetterEvaluation{
		OverallScore: clamp(overall),
		Scores:       scores,
		MeetsStandards: scores.ContentRelevance >= letterMinimumScores.ContentRelevance &&
			scores.ProfessionalTone >= letterMinimumScores.ProfessionalTone &&
			scores.Customization >= letterMinimumScores.Customization &&
			scores.StructureFormat >= letterMinimumScores.StructureFormat,
		StrongPoints:      emptyIfNil(model.StrongPoints),
		ImprovementNeeded: emptyIfNil(model.ImprovementNeeded),
	}

	a.logger.Info("letter evaluation completed",
		zap.Float64("overall_score", evaluation.OverallScore),
		zap.Bool("meets_standards", evaluation.MeetsStandards),
	)

	return evaluation, nil
}
