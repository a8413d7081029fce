package textscan

import (
	"regexp"
	"sort"
	"strings"
)

// Analyzer extracts local signals from raw document text. It never performs
// network calls and degrades to zero values on empty input instead of failing.
type Analyzer struct {
	technicalTerms map[string]struct{}
	actionVerbs    map[string]struct{}
}

// Keywords holds vocabulary hits found in a document. Every entry is
// guaranteed to be present in the preprocessed form of the input.
type Keywords struct {
	TechnicalTerms []string `json:"technical_terms"`
	ActionVerbs    []string `json:"action_verbs"`
	Nouns          []string `json:"nouns"`
}

// ContentStats carries basic corpus statistics. All fields are recomputed on
// each call and are never negative.
type ContentStats struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	UniqueWords       int     `json:"unique_words"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	KeywordRichness   float64 `json:"keyword_richness"`
}

var defaultTechnicalTerms = []string{
	// languages
	"python", "java", "javascript", "c++", "ruby", "php", "scala",
	"swift", "kotlin", "golang", "go", "rust", "typescript",
	// frameworks
	"django", "flask", "fastapi", "spring", "react", "angular",
	"vue", "node.js", "express", "laravel", "rails", "gin",
	// databases
	"sql", "mysql", "postgresql", "mongodb", "oracle", "redis",
	"elasticsearch", "cassandra", "dynamodb",
	// cloud and infrastructure
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
	"jenkins", "circleci", "gitlab",
	// machine learning
	"tensorflow", "pytorch", "scikit-learn", "keras", "opencv",
	"pandas", "numpy", "matplotlib", "seaborn",
}

var defaultActionVerbs = []string{
	"develop", "implement", "design", "manage", "lead",
	"create", "improve", "increase", "reduce", "analyze",
	"coordinate", "achieve", "deliver", "launch", "build",
}

// New returns an Analyzer with the built-in vocabularies.
func New() *Analyzer {
	a := &Analyzer{
		technicalTerms: make(map[string]struct{}, len(defaultTechnicalTerms)),
		actionVerbs:    make(map[string]struct{}, len(defaultActionVerbs)),
	}
	for _, t := range defaultTechnicalTerms {
		a.technicalTerms[t] = struct{}{}
	}
	for _, v := range defaultActionVerbs {
		a.actionVerbs[v] = struct{}{}
	}
	return a
}

var (
	noiseRe      = regexp.MustCompile(`[^a-z0-9\s.,'+#-]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`[.!?]+`)
)

// Preprocess lower-cases the text, strips punctuation noise and collapses
// whitespace. The result contains only word tokens separated by single
// spaces, so applying Preprocess twice yields the same string.
func (a *Analyzer) Preprocess(text string) string {
	text = strings.ToLower(text)
	text = noiseRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	fields := strings.Fields(text)
	tokens := fields[:0]
	for _, f := range fields {
		// Word-internal punctuation survives (node.js, scikit-learn),
		// token-edge punctuation is noise.
		f = strings.Trim(f, ".,'-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return strings.Join(tokens, " ")
}

// ExtractKeywords scans the preprocessed text against the fixed vocabularies
// and returns the hits found, deduplicated and sorted.
func (a *Analyzer) ExtractKeywords(text string) Keywords {
	words := strings.Fields(a.Preprocess(text))

	technical := make(map[string]struct{})
	verbs := make(map[string]struct{})
	for _, w := range words {
		if _, ok := a.technicalTerms[w]; ok {
			technical[w] = struct{}{}
		}
		if _, ok := a.actionVerbs[w]; ok {
			verbs[w] = struct{}{}
		}
	}

	return Keywords{
		TechnicalTerms: sortedSlice(technical),
		ActionVerbs:    sortedSlice(verbs),
		Nouns:          []string{},
	}
}

// AnalyzeContent computes corpus statistics over the text. Empty input
// produces zero values, not an error.
func (a *Analyzer) AnalyzeContent(text string) ContentStats {
	processed := a.Preprocess(text)
	if processed == "" {
		return ContentStats{}
	}

	words := strings.Fields(processed)

	sentences := 0
	for _, s := range sentenceRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	unique := make(map[string]struct{}, len(words))
	hits := make(map[string]struct{})
	for _, w := range words {
		unique[w] = struct{}{}
		if a.isKeyword(w) {
			hits[w] = struct{}{}
		}
	}

	return ContentStats{
		WordCount:         len(words),
		SentenceCount:     sentences,
		UniqueWords:       len(unique),
		AvgSentenceLength: float64(len(words)) / float64(sentences),
		KeywordRichness:   float64(len(hits)) / float64(len(words)),
	}
}

func (a *Analyzer) isKeyword(word string) bool {
	if _, ok := a.technicalTerms[word]; ok {
		return true
	}
	_, ok := a.actionVerbs[word]
	return ok
}

func sortedSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
