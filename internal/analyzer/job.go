package analyzer

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type modelJobAnalysis struct {
	RequiredSkills        []string `mapstructure:"required_skills"`
	PreferredSkills       []string `mapstructure:"preferred_skills"`
	ExperienceLevel       string   `mapstructure:"experience_level"`
	EducationRequirements string   `mapstructure:"education_requirements"`
	KeyResponsibilities   []string `mapstructure:"key_responsibilities"`
	CultureIndicators     []string `mapstructure:"culture_indicators"`
	BenefitsAndPerks      []string `mapstructure:"benefits_and_perks"`
	SeniorityLevel        string   `mapstructure:"seniority_level"`
	SoftSkills            []string `mapstructure:"soft_skills"`
}

// JobRequirements groups the skill and qualification demands of a posting.
// Technical skills come from local keyword extraction, the rest from the model.
type JobRequirements struct {
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
	Experience      string   `json:"experience"`
	Education       string   `json:"education"`
}

// JobDetails carries the duties and level of the posting.
type JobDetails struct {
	Responsibilities []string `json:"responsibilities"`
	SeniorityLevel   string   `json:"seniority_level"`
	KeyTerms         []string `json:"key_terms"`
}

// CompanyCulture carries the culture and benefit signals found in the posting.
type CompanyCulture struct {
	Indicators []string `json:"indicators"`
	Benefits   []string `json:"benefits"`
}

// JobAnalysis is the merged job-description analysis.
type JobAnalysis struct {
	Requirements    JobRequirements `json:"requirements"`
	Details         JobDetails      `json:"job_details"`
	Culture         CompanyCulture  `json:"company_culture"`
	ComplexityScore int             `json:"complexity_score"`
}

// AnalyzeJob runs the model analysis of a job description and merges it with
// local keyword extraction. A model failure propagates unmodified.
func (a *Analyzer) AnalyzeJob(ctx context.Context, jobDescription string) (*JobAnalysis, error) {
	a.logger.Info("starting job description analysis")

	raw, err := a.models.AnalyzeJob(ctx, jobDescription)
	if err != nil {
		return nil, err
	}

	var model modelJobAnalysis
	if err := decodeStrict(raw, &model); err != nil {
		return nil, err
	}

	keywords := a.text.ExtractKeywords(jobDescription)

	seniority := strings.TrimSpace(model.SeniorityLevel)
	if seniority == "" {
		seniority = "Not specified"
	}

	analysis := &JobAnalysis{
		Requirements: JobRequirements{
			RequiredSkills:  emptyIfNil(model.RequiredSkills),
			PreferredSkills: emptyIfNil(model.PreferredSkills),
			TechnicalSkills: emptyIfNil(keywords.TechnicalTerms),
			SoftSkills:      emptyIfNil(model.SoftSkills),
			Experience:      model.ExperienceLevel,
			Education:       model.EducationRequirements,
		},
		Details: JobDetails{
			Responsibilities: emptyIfNil(model.KeyResponsibilities),
			SeniorityLevel:   seniority,
			KeyTerms:         emptyIfNil(keywords.ActionVerbs),
		},
		Culture: CompanyCulture{
			Indicators: emptyIfNil(model.CultureIndicators),
			Benefits:   emptyIfNil(model.BenefitsAndPerks),
		},
	}
	analysis.ComplexityScore = complexityScore(analysis)

	a.logger.Info("job analysis completed",
		zap.Int("required_skills", len(analysis.Requirements.RequiredSkills)),
		zap.String("seniority", analysis.Details.SeniorityLevel),
		zap.Int("complexity_score", analysis.ComplexityScore),
	)

	return analysis, nil
}

// complexityScore weighs the posting's demands: technical breadth up to 40
// points, experience level and education each up to 30, capped at 100.
func complexityScore(job *JobAnalysis) int {
	score := len(job.Requirements.TechnicalSkills) * 10
	if score > 40 {
		score = 40
	}

	experience := strings.ToLower(job.Requirements.Experience)
	switch {
	case strings.Contains(experience, "senior") || strings.Contains(experience, "lead"):
		score += 30
	case strings.Contains(experience, "mid") || strings.Contains(experience, "3"):
		score += 20
	default:
		score += 10
	}

	education := strings.ToLower(job.Requirements.Education)
	switch {
	case strings.Contains(education, "phd") || strings.Contains(education, "doctorate"):
		score += 30
	case strings.Contains(education, "master") || strings.Contains(education, "msc"):
		score += 20
	case strings.Contains(education, "bachelor") || strings.Contains(education, "bsc"):
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}
