package analyzer

import (
	"fmt"

	"github.com/jobkit/cv-copilot/internal/textscan"

	"github.com/mitchellh/mapstructure"
)

// ModelAnalysis is the structured answer of the CV-analysis model call.
type ModelAnalysis struct {
	Skills                 []string `mapstructure:"skills" json:"skills"`
	ExperienceYears        int      `mapstructure:"experience_years" json:"experience_years"`
	KeyAchievements        []string `mapstructure:"key_achievements" json:"key_achievements"`
	MissingElements        []string `mapstructure:"missing_elements" json:"missing_elements"`
	ImprovementSuggestions []string `mapstructure:"improvement_suggestions" json:"improvement_suggestions"`
}

// Skills groups the skill evidence of the merged analysis. Technical skills
// come from local keyword extraction, soft skills from the model.
type Skills struct {
	TechnicalSkills       []string `json:"technical_skills"`
	SoftSkills            []string `json:"soft_skills"`
	MissingCriticalSkills []string `json:"missing_critical_skills"`
}

// Experience groups the experience evidence of the merged analysis.
type Experience struct {
	Years                int      `json:"years"`
	KeyAchievements      []string `json:"key_achievements"`
	HighlightedPositions []string `json:"highlighted_positions"`
}

// Compliance is the outcome of the local ATS validation.
type Compliance struct {
	IsCompliant bool     `json:"is_compliant"`
	Issues      []string `json:"issues"`
	FormatScore float64  `json:"format_score"`
}

// Improvements collects suggestions from the model, the ATS guidelines and
// the local content checks.
type Improvements struct {
	Suggestions            []string `json:"suggestions"`
	ATSRecommendations     []string `json:"ats_recommendations"`
	ContentRecommendations []string `json:"content_recommendations"`
}

// Analysis is the merged CV analysis: model signals and local signals in one
// immutable report.
type Analysis struct {
	Skills        Skills                `json:"skills"`
	Experience    Experience            `json:"experience"`
	ATSCompliance Compliance            `json:"ats_compliance"`
	Improvements  Improvements          `json:"improvements"`
	ContentStats  textscan.ContentStats `json:"content_stats"`
}

// MatchResult is the structured answer of the job-match model call.
type MatchResult struct {
	MatchPercentage float64  `mapstructure:"match_percentage" json:"match_percentage"`
	MatchingSkills  []string `mapstructure:"matching_skills" json:"matching_skills"`
	MissingSkills   []string `mapstructure:"missing_skills" json:"missing_skills"`
	Recommendations []string `mapstructure:"recommendations" json:"recommendations"`
}

// decodeStrict decodes a model-provided mapping into a typed result. Weak
// typing tolerates the numeric-as-string answers generative models produce.
func decodeStrict(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
