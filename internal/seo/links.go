package seo

// checkLinks scores the link profile (10 points): internal links keep
// visitors on the site, external links signal sourced content.
func checkLinks(parsed *ParsedContent) CategoryResult {
	result := CategoryResult{Name: CategoryLinks, MaxScore: CategoryWeights[CategoryLinks]}

	// Internal links: 5 points for >=3, partial for >=1.
	switch {
	case parsed.InternalLinks >= 3:
		result.Score += 5
	case parsed.InternalLinks >= 1:
		result.Score += 3
		result.Recommendations = append(result.Recommendations,
			"Renforcez le maillage interne : visez au moins 3 liens internes.")
	default:
		result.Issues = append(result.Issues, "Aucun lien interne.")
		result.Recommendations = append(result.Recommendations,
			"Ajoutez des liens vers vos autres pages et produits.")
	}

	// External links: 5 points for >=2, partial for >=1.
	switch {
	case parsed.ExternalLinks >= 2:
		result.Score += 5
	case parsed.ExternalLinks >= 1:
		result.Score += 3
		result.Recommendations = append(result.Recommendations,
			"Ajoutez un second lien externe vers une source de référence.")
	default:
		result.Issues = append(result.Issues, "Aucun lien externe.")
		result.Recommendations = append(result.Recommendations,
			"Citez des sources externes fiables pour crédibiliser le contenu.")
	}

	return result
}
