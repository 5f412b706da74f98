package seo

import (
	"fmt"
	"strings"
)

// checkKeywords scores focus-keyword usage (20 points): density in the body,
// presence in title, meta title and first paragraph.
func checkKeywords(parsed *ParsedContent, input ContentInput) CategoryResult {
	result := CategoryResult{Name: CategoryKeywords, MaxScore: CategoryWeights[CategoryKeywords]}

	if input.FocusKeyword == "" {
		result.Issues = append(result.Issues, "Aucun mot-clé principal défini.")
		result.Recommendations = append(result.Recommendations,
			"Définissez un mot-clé principal pour permettre l'analyse sémantique.")
		return result
	}

	keyword := strings.ToLower(input.FocusKeyword)

	// Density: 8 points inside [0.5%, 2.5%], partial outside, 0 when absent.
	occurrences := KeywordOccurrences(parsed.PlainText, input.FocusKeyword)
	density := KeywordDensity(occurrences, parsed.WordCount)
	switch {
	case occurrences == 0:
		result.Issues = append(result.Issues,
			fmt.Sprintf("Le mot-clé « %s » n'apparaît pas dans le contenu.", input.FocusKeyword))
		result.Recommendations = append(result.Recommendations,
			"Intégrez le mot-clé naturellement dans le corps du texte.")
	case density >= 0.5 && density <= 2.5:
		result.Score += 8
	case density < 0.5:
		result.Score += 4
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Densité du mot-clé trop faible (%.1f%%) ; visez entre 0,5%% et 2,5%%.", density))
	default:
		result.Score += 4
		result.Issues = append(result.Issues,
			fmt.Sprintf("Densité du mot-clé trop élevée (%.1f%%) : risque de sur-optimisation.", density))
		result.Recommendations = append(result.Recommendations,
			"Réduisez les répétitions du mot-clé sous 2,5%.")
	}

	// Keyword in title: 4 points.
	if strings.Contains(strings.ToLower(input.Title), keyword) {
		result.Score += 4
	} else {
		result.Issues = append(result.Issues, "Le mot-clé est absent du titre.")
		result.Recommendations = append(result.Recommendations,
			"Placez le mot-clé principal dans le titre, idéalement au début.")
	}

	// Keyword in meta title: 4 points.
	if strings.Contains(strings.ToLower(input.MetaTitle), keyword) {
		result.Score += 4
	} else {
		result.Issues = append(result.Issues, "Le mot-clé est absent du meta titre.")
		result.Recommendations = append(result.Recommendations,
			"Ajoutez le mot-clé principal au meta titre.")
	}

	// Keyword in first paragraph: 4 points.
	if strings.Contains(strings.ToLower(parsed.FirstParagraph), keyword) {
		result.Score += 4
	} else {
		result.Issues = append(result.Issues, "Le mot-clé est absent du premier paragraphe.")
		result.Recommendations = append(result.Recommendations,
			"Mentionnez le mot-clé dès l'introduction.")
	}

	return result
}
