package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormat(t *testing.T) {
	r := NewRules()

	tests := []struct {
		name   string
		ext    string
		sizeMB float64
		valid  bool
	}{
		{name: "pdf within limit", ext: ".pdf", sizeMB: 1.5, valid: true},
		{name: "docx within limit", ext: ".docx", sizeMB: 9.9, valid: true},
		{name: "uppercase extension", ext: ".PDF", sizeMB: 1, valid: true},
		{name: "unsupported format", ext: ".odt", sizeMB: 1, valid: false},
		{name: "oversized file", ext: ".pdf", sizeMB: 10.5, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ValidateFormat(tt.ext, tt.sizeMB)
			assert.Equal(t, tt.valid, got.Valid)
			if !tt.valid {
				assert.NotEmpty(t, got.Issues)
			}
		})
	}
}

func TestValidateFormatReportsBothIssues(t *testing.T) {
	r := NewRules()

	got := r.ValidateFormat(".txt", 25)
	assert.False(t, got.Valid)
	assert.Len(t, got.Issues, 2)
}

func TestValidateStructureComplete(t *testing.T) {
	r := NewRules()

	got := r.ValidateStructure([]string{"Contact Information", "Work Experience", "Education", "Technical Skills"})
	assert.True(t, got.Valid)
	assert.Empty(t, got.Issues)
}

func TestValidateStructureMissingSections(t *testing.T) {
	r := NewRules()

	got := r.ValidateStructure([]string{"experience", "skills"})
	require.False(t, got.Valid)
	assert.Contains(t, got.Issues, "missing required section: contact")
	assert.Contains(t, got.Issues, "missing required section: education")
}

func TestValidateStructureEmpty(t *testing.T) {
	r := NewRules()

	got := r.ValidateStructure(nil)
	assert.False(t, got.Valid)
	assert.Len(t, got.Issues, len(r.RequiredSections()))
}

func TestNormalizeSectionTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Work   Experience ", "work experience"},
		{"EDUCATION:", "education"},
		{"Edu", "education"},
		{"Employment History", "experience history"},
		{"Academic Qualifications", "education qualifications"},
		{"Skills & Competencies", "skills competencies"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSectionTitle(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeSectionTitleDeterministic(t *testing.T) {
	// Titles matching several abbreviation entries must normalize the same
	// way on every call.
	inputs := []string{"Academic Qualifications", "Work Employment", "Tech Competencies"}

	for _, in := range inputs {
		first := NormalizeSectionTitle(in)
		for i := 0; i < 200; i++ {
			assert.Equal(t, first, NormalizeSectionTitle(in), "input %q", in)
		}
	}
}

func TestGuidelinesCoverEveryTopic(t *testing.T) {
	g := NewRules().Guidelines()

	for _, topic := range []string{"format", "structure", "content"} {
		require.Contains(t, g, topic)
		assert.NotEmpty(t, g[topic])
	}
}

func TestRequiredSectionsIsACopy(t *testing.T) {
	r := NewRules()

	sections := r.RequiredSections()
	sections[0] = "mutated"

	assert.NotContains(t, r.RequiredSections(), "mutated")
}
