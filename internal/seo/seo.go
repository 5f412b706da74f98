// Package seo implements the rule-based content scoring engine: six weighted
// category checks over one content item's HTML and metadata, aggregated into
// a 0-100 score, a letter grade and a summary message.
package seo

// Content analyzer category names (user-facing, French).
const (
	CategoryContent  = "Contenu"
	CategoryKeywords = "Mots-clés"
	CategoryMetadata = "Métadonnées"
	CategoryMedia    = "Médias"
	CategoryLinks    = "Liens"
	CategoryAdvanced = "Avancé"
)

// CategoryWeights is the fixed point ceiling per category. The values are a
// product contract: they must always sum to 100.
var CategoryWeights = map[string]int{
	CategoryContent:  30,
	CategoryKeywords: 20,
	CategoryMetadata: 20,
	CategoryMedia:    15,
	CategoryLinks:    10,
	CategoryAdvanced: 5,
}

// ContentInput is everything the analyzer needs about one content item.
type ContentInput struct {
	HTML             string
	Title            string
	MetaTitle        string
	MetaDescription  string
	FocusKeyword     string
	HasFeaturedImage bool
}

// CategoryResult is one category's point award with its findings.
type CategoryResult struct {
	Name            string   `json:"name"`
	Score           int      `json:"score"`
	MaxScore        int      `json:"maxScore"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Analysis is the aggregate result for one content item.
type Analysis struct {
	Score      int                       `json:"score"`
	Grade      string                    `json:"grade"`
	Summary    string                    `json:"summary"`
	Categories map[string]CategoryResult `json:"categories"`
}

// Analyze runs all six category checks and aggregates the result. It is a
// pure function: identical input always yields an identical breakdown.
func Analyze(input ContentInput) (*Analysis, error) {
	parsed, err := ParseContent(input.HTML)
	if err != nil {
		return nil, err
	}

	categories := map[string]CategoryResult{
		CategoryContent:  checkContent(parsed),
		CategoryKeywords: checkKeywords(parsed, input),
		CategoryMetadata: checkMetadata(input),
		CategoryMedia:    checkMedia(parsed, input),
		CategoryLinks:    checkLinks(parsed),
		CategoryAdvanced: checkAdvanced(parsed),
	}

	score := 0
	for _, cat := range categories {
		score += cat.Score
	}

	return &Analysis{
		Score:      score,
		Grade:      Grade(score),
		Summary:    Summary(score),
		Categories: categories,
	}, nil
}

// Grade maps a score to the letter grade shown next to the gauge.
func Grade(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 55:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// Summary maps a score to the six-tier summary message. The bands differ
// from the grade bands on purpose; partner UI copy depends on both sets as
// they are.
func Summary(score int) string {
	switch {
	case score >= 90:
		return "Excellent ! Votre contenu est parfaitement optimisé pour le SEO."
	case score >= 80:
		return "Très bien ! Quelques ajustements mineurs amélioreront encore votre référencement."
	case score >= 70:
		return "Bien. Votre contenu est correctement optimisé mais peut être amélioré."
	case score >= 55:
		return "Moyen. Plusieurs points importants méritent votre attention."
	case score >= 40:
		return "Insuffisant. Votre contenu nécessite des optimisations importantes."
	default:
		return "Critique. Votre contenu doit être retravaillé en profondeur pour le SEO."
	}
}
