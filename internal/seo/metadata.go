package seo

import "fmt"

// checkMetadata scores meta title and meta description lengths (20 points).
// Character bands, not words: the limits are what Google truncates at.
func checkMetadata(input ContentInput) CategoryResult {
	result := CategoryResult{Name: CategoryMetadata, MaxScore: CategoryWeights[CategoryMetadata]}

	// Meta title: 10 points in [50,60], 7 in [40,70], otherwise 3.
	titleLen := len([]rune(input.MetaTitle))
	switch {
	case titleLen == 0:
		result.Issues = append(result.Issues, "Meta titre manquant")
		result.Recommendations = append(result.Recommendations,
			"Rédigez un meta titre de 50 à 60 caractères incluant le mot-clé principal.")
	case titleLen >= 50 && titleLen <= 60:
		result.Score += 10
	case titleLen >= 40 && titleLen <= 70:
		result.Score += 7
		if titleLen < 50 {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("Meta titre un peu court (%d caractères) ; visez 50 à 60.", titleLen))
		} else {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("Meta titre un peu long (%d caractères) ; visez 50 à 60.", titleLen))
		}
	default:
		result.Score += 3
		result.Issues = append(result.Issues,
			fmt.Sprintf("Meta titre hors limites : %d caractères.", titleLen))
		result.Recommendations = append(result.Recommendations,
			"Ajustez le meta titre entre 50 et 60 caractères.")
	}

	// Meta description: 10 points in [150,160], 7 in [120,170], otherwise 3.
	descLen := len([]rune(input.MetaDescription))
	switch {
	case descLen == 0:
		result.Issues = append(result.Issues, "Meta description manquante")
		result.Recommendations = append(result.Recommendations,
			"Rédigez une meta description de 150 à 160 caractères avec un appel à l'action.")
	case descLen >= 150 && descLen <= 160:
		result.Score += 10
	case descLen >= 120 && descLen <= 170:
		result.Score += 7
		if descLen < 150 {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("Meta description un peu courte (%d caractères) ; visez 150 à 160.", descLen))
		} else {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("Meta description un peu longue (%d caractères) ; visez 150 à 160.", descLen))
		}
	default:
		result.Score += 3
		result.Issues = append(result.Issues,
			fmt.Sprintf("Meta description hors limites : %d caractères.", descLen))
		result.Recommendations = append(result.Recommendations,
			"Ajustez la meta description entre 150 et 160 caractères.")
	}

	return result
}
