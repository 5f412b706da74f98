package seo

import "fmt"

// checkContent scores structure and length of the body text (30 points):
// word count, single H1, H2/H3 hierarchy, paragraph length, lists.
func checkContent(parsed *ParsedContent) CategoryResult {
	result := CategoryResult{Name: CategoryContent, MaxScore: CategoryWeights[CategoryContent]}

	// Word count: 10 points, partial credit at 1000 and 500 words.
	switch {
	case parsed.WordCount >= 1500:
		result.Score += 10
	case parsed.WordCount >= 1000:
		result.Score += 7
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Visez 1500 mots ou plus (actuellement %d) pour un contenu de référence.", parsed.WordCount))
	case parsed.WordCount >= 500:
		result.Score += 4
		result.Issues = append(result.Issues,
			fmt.Sprintf("Contenu trop court : %d mots.", parsed.WordCount))
		result.Recommendations = append(result.Recommendations,
			"Développez le contenu au-delà de 1000 mots pour améliorer le référencement.")
	default:
		result.Issues = append(result.Issues,
			fmt.Sprintf("Contenu beaucoup trop court : %d mots.", parsed.WordCount))
		result.Recommendations = append(result.Recommendations,
			"Rédigez au moins 500 mots ; les contenus de 1500 mots et plus sont favorisés par Google.")
	}

	// Exactly one H1: 5 points.
	switch parsed.H1Count {
	case 1:
		result.Score += 5
	case 0:
		result.Issues = append(result.Issues, "Aucun titre H1 trouvé.")
		result.Recommendations = append(result.Recommendations, "Ajoutez un titre H1 unique contenant votre mot-clé principal.")
	default:
		result.Issues = append(result.Issues,
			fmt.Sprintf("%d titres H1 trouvés ; il ne doit y en avoir qu'un seul.", parsed.H1Count))
		result.Recommendations = append(result.Recommendations, "Conservez un seul H1 et convertissez les autres en H2.")
	}

	// Heading hierarchy: 5 points for >=3 H2 and >=2 H3, partial for >=2 H2.
	switch {
	case parsed.H2Count >= 3 && parsed.H3Count >= 2:
		result.Score += 5
	case parsed.H2Count >= 2:
		result.Score += 3
		result.Recommendations = append(result.Recommendations,
			"Structurez davantage : visez au moins 3 H2 et 2 H3.")
	default:
		result.Issues = append(result.Issues, "Structure de titres insuffisante.")
		result.Recommendations = append(result.Recommendations,
			"Découpez le contenu avec des sous-titres H2 et H3.")
	}

	// Paragraph length: 5 points if none exceeds 150 words, partial for <=2 long.
	longParagraphs := 0
	for _, words := range parsed.ParagraphWords {
		if words > 150 {
			longParagraphs++
		}
	}
	switch {
	case longParagraphs == 0:
		result.Score += 5
	case longParagraphs <= 2:
		result.Score += 3
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("%d paragraphe(s) dépassent 150 mots ; découpez-les.", longParagraphs))
	default:
		result.Issues = append(result.Issues,
			fmt.Sprintf("%d paragraphes trop longs (plus de 150 mots).", longParagraphs))
		result.Recommendations = append(result.Recommendations,
			"Limitez chaque paragraphe à 150 mots pour la lisibilité.")
	}

	// Lists: 5 points for >=2, partial for 1.
	switch {
	case parsed.ListCount >= 2:
		result.Score += 5
	case parsed.ListCount == 1:
		result.Score += 3
		result.Recommendations = append(result.Recommendations,
			"Ajoutez une seconde liste à puces ou numérotée.")
	default:
		result.Issues = append(result.Issues, "Aucune liste dans le contenu.")
		result.Recommendations = append(result.Recommendations,
			"Les listes améliorent la lisibilité et favorisent les extraits enrichis.")
	}

	return result
}
