// Package ats holds the applicant-tracking-system rules a CV is validated
// against. All checks are local and deterministic.
package ats

import (
	"fmt"
	"strings"
)

// Result reports the outcome of one validation pass.
type Result struct {
	Valid  bool
	Issues []string
}

// Rules bundles the format, structure and content limits. Immutable after
// construction.
type Rules struct {
	allowedFormats   []string
	maxFileSizeMB    float64
	requiredSections []string
	sectionTitles    map[string][]string
	maxPages         int
	maxBulletsPerJob int
	maxBulletChars   int
	forbiddenMarkers []string
}

// NewRules returns the built-in rule set.
func NewRules() *Rules {
	return &Rules{
		allowedFormats:   []string{".pdf", ".docx"},
		maxFileSizeMB:    10,
		requiredSections: []string{"contact", "experience", "education", "skills"},
		sectionTitles: map[string][]string{
			"contact": {
				"contact", "contact information", "personal information",
				"personal details", "personal info",
			},
			"experience": {
				"experience", "work experience", "professional experience",
				"work history", "employment history", "professional background",
			},
			"education": {
				"education", "academic background", "qualifications",
				"academic qualifications", "educational background",
			},
			"skills": {
				"skills", "technical skills", "competencies", "key skills",
				"core competencies", "professional skills",
			},
		},
		maxPages:         2,
		maxBulletsPerJob: 6,
		maxBulletChars:   100,
		forbiddenMarkers: []string{"images", "tables", "text boxes", "headers", "footers", "columns"},
	}
}

// ValidateFormat checks the document format and size against the rules.
func (r *Rules) ValidateFormat(ext string, sizeMB float64) Result {
	var issues []string

	if !contains(r.allowedFormats, strings.ToLower(strings.TrimSpace(ext))) {
		issues = append(issues, fmt.Sprintf("unsupported format, use %s", strings.Join(r.allowedFormats, ", ")))
	}
	if sizeMB > r.maxFileSizeMB {
		issues = append(issues, fmt.Sprintf("file too large, maximum size is %.0fMB", r.maxFileSizeMB))
	}

	return Result{Valid: len(issues) == 0, Issues: issues}
}

// ValidateStructure checks that every required section is present among the
// provided section titles. Title variants are matched after normalization.
func (r *Rules) ValidateStructure(sections []string) Result {
	normalized := make([]string, 0, len(sections))
	for _, s := range sections {
		normalized = append(normalized, NormalizeSectionTitle(s))
	}

	var issues []string
	for _, required := range r.requiredSections {
		variants := r.sectionTitles[required]
		if !anyVariantPresent(normalized, variants) {
			issues = append(issues, fmt.Sprintf("missing required section: %s", required))
		}
	}

	return Result{Valid: len(issues) == 0, Issues: issues}
}

// RequiredSections returns the canonical names of the sections a compliant
// CV must contain.
func (r *Rules) RequiredSections() []string {
	out := make([]string, len(r.requiredSections))
	copy(out, r.requiredSections)
	return out
}

// Guidelines returns the optimization advice grouped by topic.
func (r *Rules) Guidelines() map[string][]string {
	return map[string][]string{
		"format": {
			fmt.Sprintf("Use approved file formats: %s", strings.Join(r.allowedFormats, ", ")),
			fmt.Sprintf("Keep file size under %.0fMB", r.maxFileSizeMB),
			"Use standard fonts such as Arial, Calibri or Helvetica",
		},
		"structure": {
			"Include all required sections",
			"Use standard section titles",
			fmt.Sprintf("Maximum %d pages", r.maxPages),
			"Ensure clear section headings",
		},
		"content": {
			fmt.Sprintf("Maximum %d bullet points per job", r.maxBulletsPerJob),
			fmt.Sprintf("Keep bullet points under %d characters", r.maxBulletChars),
			fmt.Sprintf("Avoid: %s", strings.Join(r.forbiddenMarkers, ", ")),
			"Use industry-standard keywords",
			"Include measurable achievements",
		},
	}
}

// sectionAbbreviations expands common shorthand before variant matching.
// Replacements apply in this order; titles matching several entries must
// normalize the same way on every call.
var sectionAbbreviations = []struct {
	short, full string
}{
	{"edu", "education"},
	{"academic", "education"},
	{"qualification", "education"},
	{"exp", "experience"},
	{"employment", "experience"},
	{"work", "experience"},
	{"comp", "competencies"},
	{"tech", "technical"},
}

// NormalizeSectionTitle lower-cases the title, drops non-alphanumeric runes
// and expands known abbreviations so variant matching is tolerant to styling.
func NormalizeSectionTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			b.WriteRune(r)
		}
	}
	normalized := strings.Join(strings.Fields(b.String()), " ")

	for _, abbr := range sectionAbbreviations {
		if strings.Contains(normalized, abbr.short) && !strings.Contains(normalized, abbr.full) {
			normalized = strings.ReplaceAll(normalized, abbr.short, abbr.full)
		}
	}

	return normalized
}

func anyVariantPresent(sections []string, variants []string) bool {
	for _, variant := range variants {
		v := NormalizeSectionTitle(variant)
		for _, section := range sections {
			if section == "" {
				continue
			}
			if strings.Contains(section, v) || strings.Contains(v, section) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
