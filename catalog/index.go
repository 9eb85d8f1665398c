package catalog

import (
	"strings"

	"lead-agent/model"
	"lead-agent/utils"
)

// brandPatterns is matched in order against the normalized model string;
// the first pattern contained in it wins. Longer names come before their
// abbreviations so "caterpillar" is not swallowed by "cat".
var brandPatterns = []string{
	"caterpillar",
	"atlas copco",
	"ingersoll",
	"bobcat",
	"cat",
	"lgmg",
	"lincoln",
	"miller",
	"honda",
	"yanmar",
	"kohler",
	"generac",
	"wacker",
	"doosan",
}

// categorySynonyms maps an equipment category to extra searchable terms.
// A category contributes its synonyms to every item whose normalized type
// contains the category key.
var categorySynonyms = map[string][]string{
	"soldadora":  {"soldar", "soldadura", "electrodo"},
	"compresor":  {"aire", "neumatico"},
	"torre":      {"iluminacion", "luz", "led"},
	"plataforma": {"elevacion", "tijera", "articulada", "lgmg"},
	"generador":  {"planta", "energia", "electricidad"},
	"excavadora": {"excavacion", "zanja"},
	"rompedor":   {"demolicion", "martillo"},
}

// Index holds the read-only search structures built once over the catalog.
// All maps key normalized terms to positions in items, so ties in the
// ranking keep original catalog order. Safe for concurrent reads.
type Index struct {
	items      []model.CatalogItem
	general    map[string][]int
	byType     map[string][]int
	byBrand    map[string][]int
	byLocation map[string][]int
}

func NewIndex(items []model.CatalogItem) *Index {
	ix := &Index{
		items:      items,
		general:    make(map[string][]int),
		byType:     make(map[string][]int),
		byBrand:    make(map[string][]int),
		byLocation: make(map[string][]int),
	}
	for i, item := range items {
		normType := utils.NormalizeText(item.MachineType)
		normModel := utils.NormalizeText(item.Model)
		normLoc := utils.NormalizeText(item.Location)

		ix.byType[normType] = append(ix.byType[normType], i)
		if normLoc != "" {
			ix.byLocation[normLoc] = append(ix.byLocation[normLoc], i)
		}
		if brand := extractBrand(normModel); brand != "" {
			ix.byBrand[brand] = append(ix.byBrand[brand], i)
		}

		seen := make(map[string]bool)
		addTerm := func(term string) {
			if term == "" || seen[term] {
				return
			}
			seen[term] = true
			ix.general[term] = append(ix.general[term], i)
		}
		for _, w := range utils.SplitWords(normType) {
			addTerm(w)
		}
		for _, w := range utils.SplitWords(normModel) {
			addTerm(w)
		}
		for _, w := range utils.SplitWords(normLoc) {
			addTerm(w)
		}
		for category, syns := range categorySynonyms {
			if strings.Contains(normType, category) {
				for _, s := range syns {
					addTerm(s)
				}
			}
		}
	}
	return ix
}

// Len reports the number of indexed catalog items.
func (ix *Index) Len() int {
	return len(ix.items)
}

func extractBrand(normalizedModel string) string {
	for _, pattern := range brandPatterns {
		if strings.Contains(normalizedModel, pattern) {
			return pattern
		}
	}
	return ""
}
