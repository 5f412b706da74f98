package seo

// checkAdvanced scores featured-snippet markup (5 points): FAQ schema and
// table presence. A link nested inside the H1 is reported but never costs
// points.
func checkAdvanced(parsed *ParsedContent) CategoryResult {
	result := CategoryResult{Name: CategoryAdvanced, MaxScore: CategoryWeights[CategoryAdvanced]}

	// FAQ: 3 points for a JSON-LD FAQPage block, 2 for a visual FAQ section.
	switch {
	case parsed.HasFAQSchema:
		result.Score += 3
	case parsed.HasFAQHeading:
		result.Score += 2
		result.Recommendations = append(result.Recommendations,
			"Balisez votre section FAQ en JSON-LD (FAQPage) pour viser la position zéro.")
	default:
		result.Issues = append(result.Issues, "Aucune FAQ détectée.")
		result.Recommendations = append(result.Recommendations,
			"Ajoutez une FAQ balisée FAQPage : c'est le format favori des extraits enrichis.")
	}

	// Table: 2 points.
	if parsed.TableCount >= 1 {
		result.Score += 2
	} else {
		result.Recommendations = append(result.Recommendations,
			"Un tableau comparatif augmente vos chances d'extrait enrichi.")
	}

	if parsed.LinkInH1 {
		result.Issues = append(result.Issues, "Un lien est imbriqué dans le titre H1.")
		result.Recommendations = append(result.Recommendations,
			"Retirez le lien du H1 ; un titre principal ne doit pas être cliquable.")
	}

	return result
}
