package analyzer

import (
	"context"

	"go.uber.org/zap"
)

// MatchJob compares the CV against a job description through the model
// handler. The match percentage is clamped to [0,100]; everything else in the
// model answer is passed through.
func (a *Analyzer) MatchJob(ctx context.Context, cvText, jobDescription string) (*MatchResult, error) {
	a.logger.Info("starting job match")

	raw, err := a.models.MatchJob(ctx, cvText, jobDescription)
	if err != nil {
		return nil, err
	}

	var result MatchResult
	if err := decodeStrict(raw, &result); err != nil {
		return nil, err
	}

	result.MatchPercentage = clamp(result.MatchPercentage)
	result.MatchingSkills = emptyIfNil(result.MatchingSkills)
	result.MissingSkills = emptyIfNil(result.MissingSkills)
	result.Recommendations = emptyIfNil(result.Recommendations)

	a.logger.Info("job match completed",
		zap.Float64("match_percentage", result.MatchPercentage),
		zap.Int("matching_skills", len(result.MatchingSkills)),
		zap.Int("missing_skills", len(result.MissingSkills)),
	)

	return &result, nil
}

// CoverLetter generates an application letter for the CV and job description.
func (a *Analyzer) CoverLetter(ctx context.Context, cvText, jobDescription, company string) (string, error) {
	a.logger.Info("generating cover letter", zap.String("company", company))
	return a.models.CoverLetter(ctx, cvText, jobDescription, company)
}
