package diagnostics

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ybertrand/shopseo/internal/domain"
)

// genericAltExprs match alt texts that are really just camera or CMS
// filenames.
var genericAltExprs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^image\d*`),
	regexp.MustCompile(`(?i)^photo\d*`),
	regexp.MustCompile(`(?i)^img[-_]?\d+`),
	regexp.MustCompile(`(?i)^picture\d*`),
	regexp.MustCompile(`(?i)^untitled`),
	regexp.MustCompile(`(?i)^dsc\d+`),
}

// productHrefExpr extracts internal product links from description HTML.
var productHrefExpr = regexp.MustCompile(`href="[^"]*/produ(?:ct|it)/([^/"?#]+)`)

// anchorExpr counts anchor tags inside description HTML.
var anchorExpr = regexp.MustCompile(`<a[\s>]`)

// Report aggregates all catalog-level findings of one scan.
type Report struct {
	Issues       []domain.Issue
	CurrentScore int
	MaxScore     int
}

// Run executes every catalog check over the product list. Read-only; the
// caller persists the resulting issues.
func Run(products []domain.Product, weights Weights) *Report {
	report := &Report{}

	report.add(checkHeavyImages(products, weights.HeavyImages))
	report.add(checkGenericAltText(products, weights.GenericAlt))
	report.add(checkDuplicateMetaDescriptions(products, weights.DuplicateMeta))
	report.add(checkBrokenInternalLinks(products, weights.BrokenLinks))
	report.add(checkLinkHierarchy(products, weights.LinkHierarchy))
	report.add(checkSchemaMarkup(weights.SchemaMarkup))

	return report
}

func (r *Report) add(issue domain.Issue) {
	r.Issues = append(r.Issues, issue)
	r.MaxScore += issue.MaxPoints
	r.CurrentScore += issue.EarnedPoints
}

// partialCredit awards the weight share of unaffected products.
func partialCredit(weight, affected, total int) int {
	if total == 0 {
		return weight
	}
	return int(math.Round(float64(weight) * (1 - float64(affected)/float64(total))))
}

func affectedItems(products []domain.Product) []domain.AffectedItem {
	items := make([]domain.AffectedItem, 0, len(products))
	for _, p := range products {
		items = append(items, domain.AffectedItem{ID: p.ID, Type: "product", Name: p.Name})
	}
	return items
}

// passIssue is the success-type issue emitted when a check passes, so the
// full possible weight stays visible in the UI accounting.
func passIssue(category, title string, weight int) domain.Issue {
	return domain.Issue{
		Category:     category,
		Severity:     domain.SeveritySuccess,
		Title:        title,
		MaxPoints:    weight,
		EarnedPoints: weight,
	}
}

// checkHeavyImages flags products carrying more than heavyImageCount images;
// the catalog fails when over 30% of products are affected.
func checkHeavyImages(products []domain.Product, weight int) domain.Issue {
	var affected []domain.Product
	for _, p := range products {
		if len(p.Images) > heavyImageCount {
			affected = append(affected, p)
		}
	}

	if len(products) == 0 || float64(len(affected))/float64(len(products)) <= heavyImagesThreshold {
		return passIssue(domain.CategoryPerformance, "Poids des images maîtrisé", weight)
	}

	return domain.Issue{
		Category: domain.CategoryPerformance,
		Severity: domain.SeverityWarning,
		Title:    "Produits avec trop d'images",
		Description: fmt.Sprintf("%d produit(s) sur %d comportent plus de %d images, ce qui alourdit le chargement des fiches.",
			len(affected), len(products), heavyImageCount),
		Recommendation: "Limitez chaque fiche produit à 5 images optimisées et compressées.",
		AffectedItems:  affectedItems(affected),
		MaxPoints:      weight,
		EarnedPoints:   partialCredit(weight, len(affected), len(products)),
	}
}

// hasGenericAlt reports whether an alt text is a filename-style placeholder
// or too short to describe anything.
func hasGenericAlt(alt string) bool {
	if len(strings.TrimSpace(alt)) < 3 {
		return true
	}
	for _, expr := range genericAltExprs {
		if expr.MatchString(alt) {
			return true
		}
	}
	return false
}

// checkGenericAltText flags products with at least one placeholder alt
// text; fails when over 20% of the catalog is affected.
func checkGenericAltText(products []domain.Product, weight int) domain.Issue {
	var affected []domain.Product
	for _, p := range products {
		for _, img := range p.Images {
			if hasGenericAlt(img.Alt) {
				affected = append(affected, p)
				break
			}
		}
	}

	if len(products) == 0 || float64(len(affected))/float64(len(products)) <= genericAltThreshold {
		return passIssue(domain.CategoryImages, "Textes alternatifs descriptifs", weight)
	}

	return domain.Issue{
		Category: domain.CategoryImages,
		Severity: domain.SeverityWarning,
		Title:    "Textes alternatifs génériques",
		Description: fmt.Sprintf("%d produit(s) ont des images dont le texte alternatif est générique (image1, DSC001…) ou vide.",
			len(affected)),
		Recommendation:  "Générez des textes alternatifs décrivant le produit et incluant ses mots-clés.",
		AffectedItems:   affectedItems(affected),
		ActionAvailable: true,
		MaxPoints:       weight,
		EarnedPoints:    partialCredit(weight, len(affected), len(products)),
	}
}

// checkDuplicateMetaDescriptions groups products by identical (case-
// insensitive) meta description; fails when duplicated products exceed 10%
// of the catalog.
func checkDuplicateMetaDescriptions(products []domain.Product, weight int) domain.Issue {
	groups := make(map[string][]domain.Product)
	for _, p := range products {
		key := strings.ToLower(strings.TrimSpace(p.MetaDescription))
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], p)
	}

	var affected []domain.Product
	for _, group := range groups {
		if len(group) > 1 {
			affected = append(affected, group...)
		}
	}

	if len(products) == 0 || float64(len(affected))/float64(len(products)) <= duplicateMetaThreshold {
		return passIssue(domain.CategorySEO, "Meta descriptions uniques", weight)
	}

	return domain.Issue{
		Category: domain.CategorySEO,
		Severity: domain.SeverityError,
		Title:    "Meta descriptions dupliquées",
		Description: fmt.Sprintf("%d produit(s) partagent une meta description identique ; Google pénalise le contenu dupliqué.",
			len(affected)),
		Recommendation:  "Générez une meta description unique par produit.",
		AffectedItems:   affectedItems(affected),
		ActionAvailable: true,
		MaxPoints:       weight,
		EarnedPoints:    partialCredit(weight, len(affected), len(products)),
	}
}

// checkBrokenInternalLinks resolves every /product/ and /produit/ href in
// product descriptions against the catalog's slug set; any miss triggers
// the issue (no threshold).
func checkBrokenInternalLinks(products []domain.Product, weight int) domain.Issue {
	slugs := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.Slug != "" {
			slugs[p.Slug] = struct{}{}
		}
	}

	var affected []domain.Product
	for _, p := range products {
		for _, match := range productHrefExpr.FindAllStringSubmatch(p.Description, -1) {
			if _, ok := slugs[match[1]]; !ok {
				affected = append(affected, p)
				break
			}
		}
	}

	if len(affected) == 0 {
		return passIssue(domain.CategoryInternalLinks, "Aucun lien interne cassé", weight)
	}

	return domain.Issue{
		Category: domain.CategoryInternalLinks,
		Severity: domain.SeverityError,
		Title:    "Liens internes cassés",
		Description: fmt.Sprintf("%d produit(s) contiennent des liens vers des produits qui n'existent plus dans le catalogue.",
			len(affected)),
		Recommendation: "Corrigez ou supprimez les liens pointant vers des produits retirés.",
		AffectedItems:  affectedItems(affected),
		MaxPoints:      weight,
		EarnedPoints:   partialCredit(weight, len(affected), len(products)),
	}
}

// checkLinkHierarchy flags products with fewer than 2 anchors in their
// description or no category; fails when over 30% of the catalog is
// affected.
func checkLinkHierarchy(products []domain.Product, weight int) domain.Issue {
	var affected []domain.Product
	for _, p := range products {
		anchors := len(anchorExpr.FindAllString(p.Description, -1))
		if anchors < 2 || p.Category == "" {
			affected = append(affected, p)
		}
	}

	if len(products) == 0 || float64(len(affected))/float64(len(products)) <= hierarchyThreshold {
		return passIssue(domain.CategoryStructure, "Maillage interne solide", weight)
	}

	return domain.Issue{
		Category: domain.CategoryStructure,
		Severity: domain.SeverityWarning,
		Title:    "Maillage interne insuffisant",
		Description: fmt.Sprintf("%d produit(s) ont moins de 2 liens internes dans leur description ou aucune catégorie assignée.",
			len(affected)),
		Recommendation:  "Ajoutez des liens vers des produits complémentaires et classez chaque produit dans une catégorie.",
		AffectedItems:   affectedItems(affected),
		ActionAvailable: true,
		MaxPoints:       weight,
		EarnedPoints:    partialCredit(weight, len(affected), len(products)),
	}
}

// checkSchemaMarkup is informational only: structured-data injection needs
// theme template changes, so the check can never pass automatically.
func checkSchemaMarkup(weight int) domain.Issue {
	return domain.Issue{
		Category:       domain.CategoryStructuredData,
		Severity:       domain.SeverityInfo,
		Title:          "Balisage schema.org absent",
		Description:    "Le balisage Product/Offer schema.org n'est pas encore déployé sur les fiches produit.",
		Recommendation: "Intégrez le balisage schema.org dans le template de votre thème pour obtenir des résultats enrichis.",
		MaxPoints:      weight,
		EarnedPoints:   0,
	}
}
