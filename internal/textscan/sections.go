package textscan

import "strings"

// sectionMarkers maps canonical section names to the header phrases that
// announce them in a CV.
var sectionMarkers = map[string][]string{
	"education":  {"education", "academic", "qualifications"},
	"experience": {"experience", "employment", "work history"},
	"skills":     {"skills", "competencies", "expertise"},
	"projects":   {"projects", "portfolio"},
	"contact":    {"contact", "personal information", "personal details"},
}

// ExtractSections splits the document into named sections by scanning for
// recognized header lines. Lines after a header attach to that header until
// the next one; content before the first recognized header is dropped.
// Section bodies never overlap.
func (a *Analyzer) ExtractSections(text string) map[string]string {
	sections := make(map[string]string)

	current := ""
	var body []string

	flush := func() {
		if current != "" && len(body) > 0 {
			sections[current] = strings.Join(body, "\n")
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, ok := matchSectionHeader(line); ok {
			flush()
			current = name
			continue
		}

		if current != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// maxHeaderWords keeps prose mentioning a marker ("10 years of experience
// building services") from being mistaken for a section header.
const maxHeaderWords = 4

func matchSectionHeader(line string) (string, bool) {
	if len(strings.Fields(line)) > maxHeaderWords {
		return "", false
	}
	lower := strings.ToLower(line)
	for name, markers := range sectionMarkers {
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				return name, true
			}
		}
	}
	return "", false
}
