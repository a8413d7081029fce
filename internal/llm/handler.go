package llm

import (
	"context"
	"fmt"
)

// Fixed output schemas for the domain-level convenience calls. The field
// names are part of the public analysis contract and must stay stable.
var (
	cvAnalysisSchema = Schema{
		"skills":                  []string{"list of skills"},
		"experience_years":        "number",
		"key_achievements":        []string{"list of achievements"},
		"missing_elements":        []string{"list of missing important elements"},
		"improvement_suggestions": []string{"list of suggestions"},
	}

	jobMatchSchema = Schema{
		"match_percentage": "number between 0 and 100",
		"matching_skills":  []string{"list of matching skills"},
		"missing_skills":   []string{"list of required skills not found in CV"},
		"recommendations":  []string{"list of recommendations to improve match"},
	}

	jobAnalysisSchema = Schema{
		"required_skills":        []string{"list of required technical and professional skills"},
		"preferred_skills":       []string{"list of preferred additional skills"},
		"experience_level":       "detailed experience requirements",
		"education_requirements": "education requirements",
		"key_responsibilities":   []string{"list of main job duties"},
		"culture_indicators":     []string{"list of company culture aspects"},
		"benefits_and_perks":     []string{"list of offered benefits"},
		"seniority_level":        "job level (e.g., Entry, Mid, Senior)",
		"soft_skills":            []string{"list of required soft skills"},
	}

	cvOptimizationSchema = Schema{
		"optimized_text":     "the full optimized CV text",
		"changes":            []string{"list of changes made"},
		"format_suggestions": []string{"list of format improvements"},
		"recommendations":    []string{"list of additional recommendations"},
	}

	cvEvaluationSchema = Schema{
		"content_quality_score": "number between 0 and 100",
		"achievements_score":    "number between 0 and 100",
		"experience_score":      "number between 0 and 100",
		"skills_score":          "number between 0 and 100",
		"strengths":             []string{"list of strong points"},
		"improvement_areas":     []string{"list of areas needing improvement"},
	}

	letterEvaluationSchema = Schema{
		"content_relevance_score": "number between 0 and 100",
		"professional_tone_score": "number between 0 and 100",
		"customization_score":     "number between 0 and 100",
		"structure_format_score":  "number between 0 and 100",
		"strong_points":           []string{"list of strong points"},
		"improvement_needed":      []string{"list of improvements needed"},
	}
)

const (
	cvAnalysisSystem       = "You are an expert CV analyst with deep knowledge of industry requirements and hiring practices. Always respond with valid JSON matching the requested schema."
	jobMatchSystem         = "You are an expert recruiter comparing candidates against job requirements. Always respond with valid JSON matching the requested schema."
	jobAnalysisSystem      = "You are an expert job-market analyst extracting structured requirements from job postings. Always respond with valid JSON matching the requested schema."
	cvOptimizationSystem   = "You are an expert ATS optimization system. Always respond with valid JSON matching the requested schema."
	cvEvaluationSystem     = "You are an expert CV reviewer scoring content quality, achievements and presentation. Always respond with valid JSON matching the requested schema."
	letterEvaluationSystem = "You are an expert reviewer of application letters scoring relevance, tone and structure. Always respond with valid JSON matching the requested schema."
)

// AnalyzeCV asks the model for a structured assessment of the CV text.
func (m *Manager) AnalyzeCV(ctx context.Context, cvText string) (map[string]any, error) {
	prompt := fmt.Sprintf(
		"Analyze the following CV content and provide structured feedback. "+
			"Focus on key skills, experience, achievements, and potential improvements.\n\nCV Content:\n%s",
		cvText,
	)

	return m.CompleteStructured(ctx, TaskCVAnalysis, prompt, cvAnalysisSchema, cvAnalysisSystem)
}

// MatchJob compares the CV against a job description and returns the match
// percentage with supporting detail.
func (m *Manager) MatchJob(ctx context.Context, cvText, jobDescription string) (map[string]any, error) {
	prompt := fmt.Sprintf(
		"Compare the following CV against the job description and provide matching analysis.\n\nCV:\n%s\n\nJob Description:\n%s",
		cvText, jobDescription,
	)

	return m.CompleteStructured(ctx, TaskJobMatching, prompt, jobMatchSchema, jobMatchSystem)
}

// AnalyzeJob asks the model for a structured breakdown of a job description:
// requirements, responsibilities, culture indicators and seniority.
func (m *Manager) AnalyzeJob(ctx context.Context, jobDescription string) (map[string]any, error) {
	prompt := fmt.Sprintf(
		"Analyze this job description and extract key information in a structured format.\n\n%s\n\n"+
			"Focus on:\n"+
			"1. Required and preferred skills\n"+
			"2. Experience and education requirements\n"+
			"3. Key responsibilities\n"+
			"4. Company culture indicators\n"+
			"5. Benefits and perks\n"+
			"6. Seniority level\n"+
			"7. Technical requirements\n"+
			"8. Soft skills required",
		jobDescription,
	)

	return m.CompleteStructured(ctx, TaskJobAnalysis, prompt, jobAnalysisSchema, jobAnalysisSystem)
}

// OptimizeCV asks the model to rewrite the CV for a better ATS match against
// the job description, given the current match score.
func (m *Manager) OptimizeCV(ctx context.Context, cvText, jobDescription string, currentScore float64) (map[string]any, error) {
	prompt := fmt.Sprintf(
		"As an ATS optimization expert, improve this CV to better match the job description.\n"+
			"Current match score: %.0f/100\n\n"+
			"Job Description:\n%s\n\nCurrent CV:\n%s\n\n"+
			"Provide the optimized CV text, the specific changes made, format suggestions and additional recommendations.",
		currentScore, jobDescription, cvText,
	)

	return m.CompleteStructured(ctx, TaskCVOptimization, prompt, cvOptimizationSchema, cvOptimizationSystem)
}

// EvaluateCV asks the model to score the CV's content quality, achievements,
// experience presentation and skills presentation.
func (m *Manager) EvaluateCV(ctx context.Context, cvText string) (map[string]any, error) {
	prompt := fmt.Sprintf(
		"Evaluate this CV. Score its content quality, the impact of its achievements, "+
			"how well the experience is presented and how relevant the listed skills are.\n\nCV:\n%s",
		cvText,
	)

	return m.CompleteStructured(ctx, TaskCVEvaluation, prompt, cvEvaluationSchema, cvEvaluationSystem)
}

// EvaluateLetter asks the model to score a cover letter against the job
// description and target company.
func (m *Manager) EvaluateLetter(ctx context.Context, letter, jobDescription, company string) (map[string]any, error) {
	prompt := fmt.Sprintf(
		"Evaluate how well this cover letter addresses the job requirements for an application to %s. "+
			"Score its content relevance, professional tone, customization to the company and structure.\n\n"+
			"Cover Letter:\n%s\n\nJob Description:\n%s",
		company, letter, jobDescription,
	)

	return m.CompleteStructured(ctx, TaskLetterEvaluation, prompt, letterEvaluationSchema, letterEvaluationSystem)
}

// CoverLetter generates an application letter tailored to the CV, the job
// description and the target company. The answer is free text, not JSON.
func (m *Manager) CoverLetter(ctx context.Context, cvText, jobDescription, company string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a concise, professional cover letter for an application to %s. "+
			"Base it strictly on the candidate's CV and the job description; do not invent experience.\n\n"+
			"CV:\n%s\n\nJob Description:\n%s",
		company, cvText, jobDescription,
	)

	return m.Complete(ctx, TaskCoverLetter, Request{
		Prompt:        prompt,
		SystemMessage: "You are a professional career writer. Respond with the letter text only.",
	})
}
