// Package diagnostics scans a whole product catalog for defects that no
// single-item analysis can see: duplicated metadata, broken internal links,
// weak link hierarchy. Checks are independent and order-insensitive; each
// contributes its weight to the run's maximum score and partial credit
// proportional to the unaffected fraction of the catalog.
package diagnostics

// Weights assigns the point weight of each catalog check. The values are
// deployment configuration: combined with the per-item content checks they
// fill the platform's 100-point ceiling.
type Weights struct {
	HeavyImages   int
	GenericAlt    int
	DuplicateMeta int
	BrokenLinks   int
	LinkHierarchy int
	SchemaMarkup  int
}

// DefaultWeights is the stock weighting shipped with the platform.
func DefaultWeights() Weights {
	return Weights{
		HeavyImages:   10,
		GenericAlt:    15,
		DuplicateMeta: 15,
		BrokenLinks:   20,
		LinkHierarchy: 15,
		SchemaMarkup:  10,
	}
}

// Total returns the sum of all check weights.
func (w Weights) Total() int {
	return w.HeavyImages + w.GenericAlt + w.DuplicateMeta + w.BrokenLinks + w.LinkHierarchy + w.SchemaMarkup
}

// Trigger thresholds: a check fails only when the affected share of the
// catalog exceeds its threshold (broken links trigger on any occurrence).
const (
	heavyImagesThreshold   = 0.30
	genericAltThreshold    = 0.20
	duplicateMetaThreshold = 0.10
	hierarchyThreshold     = 0.30

	heavyImageCount = 5 // more than this many images flags a product
)
