package seo

import "fmt"

// checkMedia scores image usage (15 points): featured image, inline image
// count, and alt-text coverage.
func checkMedia(parsed *ParsedContent, input ContentInput) CategoryResult {
	result := CategoryResult{Name: CategoryMedia, MaxScore: CategoryWeights[CategoryMedia]}

	// Featured image: 5 points.
	if input.HasFeaturedImage {
		result.Score += 5
	} else {
		result.Issues = append(result.Issues, "Aucune image mise en avant.")
		result.Recommendations = append(result.Recommendations,
			"Définissez une image mise en avant ; elle est reprise dans les partages sociaux.")
	}

	// Inline images: 5 points for >=3, partial for >=1.
	switch {
	case len(parsed.Images) >= 3:
		result.Score += 5
	case len(parsed.Images) >= 1:
		result.Score += 3
		result.Recommendations = append(result.Recommendations,
			"Ajoutez des visuels : visez au moins 3 images dans le contenu.")
	default:
		result.Issues = append(result.Issues, "Aucune image dans le contenu.")
		result.Recommendations = append(result.Recommendations,
			"Illustrez le contenu avec des images optimisées.")
	}

	// Alt coverage: 5 points at 100%, partial at >=70%.
	if len(parsed.Images) > 0 {
		withAlt := 0
		for _, img := range parsed.Images {
			if img.Alt != "" {
				withAlt++
			}
		}
		coverage := float64(withAlt) / float64(len(parsed.Images))
		switch {
		case coverage == 1:
			result.Score += 5
		case coverage >= 0.7:
			result.Score += 3
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("%d image(s) sans attribut alt ; complétez-les toutes.", len(parsed.Images)-withAlt))
		default:
			result.Issues = append(result.Issues,
				fmt.Sprintf("%d image(s) sans attribut alt.", len(parsed.Images)-withAlt))
			result.Recommendations = append(result.Recommendations,
				"Renseignez un texte alternatif descriptif sur chaque image.")
		}
	}

	return result
}
