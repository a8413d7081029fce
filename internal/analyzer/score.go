package analyzer

// Score weights. Chosen to match the relative importance the report surfaces:
// skill coverage and experience dominate, formatting and content polish
// refine. They sum to 1 so the result stays in [0,100].
const (
	weightSkills     = 0.3
	weightExperience = 0.3
	weightATS        = 0.2
	weightContent    = 0.2
)

// Score computes the overall CV quality score in [0,100]. Every positive
// signal (a matched skill, an achievement, a year of experience) is
// non-decreasing in the result.
func Score(analysis *Analysis) float64 {
	if analysis == nil {
		return 0
	}

	total := weightSkills*skillsScore(&analysis.Skills) +
		weightExperience*experienceScore(&analysis.Experience) +
		weightATS*clamp(analysis.ATSCompliance.FormatScore) +
		weightContent*contentScore(analysis)

	return clamp(total)
}

func skillsScore(skills *Skills) float64 {
	base := float64(len(skills.TechnicalSkills)+len(skills.SoftSkills)) * 10
	if base > 100 {
		base = 100
	}
	penalty := float64(len(skills.MissingCriticalSkills)) * 10
	return clamp(base - penalty)
}

func experienceScore(exp *Experience) float64 {
	years := float64(exp.Years) * 10
	if years > 50 {
		years = 50
	}
	achievements := float64(len(exp.KeyAchievements)) * 10
	if achievements > 50 {
		achievements = 50
	}
	return years + achievements
}

func contentScore(analysis *Analysis) float64 {
	return clamp(100 - float64(len(analysis.Improvements.Suggestions))*10)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
