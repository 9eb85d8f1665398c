package catalog

import (
	"sort"
	"strings"

	"lead-agent/model"
	"lead-agent/utils"
)

// maxResults caps how many ranked items a search returns.
const maxResults = 10

// Per-word score weights. A partial hit counts once per item-term pair no
// matter how many query words graze the same term.
const (
	generalWeight  = 2
	typeWeight     = 3
	brandWeight    = 2
	locationWeight = 1
	partialWeight  = 1
)

// Search ranks catalog items against a free-text query. Scores accumulate
// across all query words; items are ordered by descending score with ties
// keeping catalog order, and only items with a positive score are returned.
// An empty result set is a valid "no match" outcome.
func (ix *Index) Search(query string) []model.SearchResult {
	words := utils.SplitWords(utils.NormalizeText(query))
	if len(words) == 0 {
		return nil
	}

	scores := make(map[int]int)
	partialSeen := make(map[int]map[string]bool)

	for _, w := range words {
		for _, id := range ix.general[w] {
			scores[id] += generalWeight
		}
		for _, id := range ix.byType[w] {
			scores[id] += typeWeight
		}
		for _, id := range ix.byBrand[w] {
			scores[id] += brandWeight
		}
		for _, id := range ix.byLocation[w] {
			scores[id] += locationWeight
		}
		for term, ids := range ix.general {
			if term == w {
				continue // already counted as an exact general hit
			}
			if !strings.Contains(term, w) && !strings.Contains(w, term) {
				continue
			}
			for _, id := range ids {
				if partialSeen[id] == nil {
					partialSeen[id] = make(map[string]bool)
				}
				if partialSeen[id][term] {
					continue
				}
				partialSeen[id][term] = true
				scores[id] += partialWeight
			}
		}
	}

	ranked := make([]model.SearchResult, 0, len(scores))
	for id := 0; id < len(ix.items); id++ {
		if scores[id] > 0 {
			ranked = append(ranked, model.SearchResult{Item: ix.items[id], Score: scores[id]})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

// ByType looks items up directly in the type index, exact key first and
// substring containment second. No weighted scoring applies.
func (ix *Index) ByType(machineType string) []model.CatalogItem {
	return ix.lookup(ix.byType, machineType)
}

// ByBrand looks items up directly in the brand index.
func (ix *Index) ByBrand(brand string) []model.CatalogItem {
	return ix.lookup(ix.byBrand, brand)
}

// ByLocation looks items up directly in the location index.
func (ix *Index) ByLocation(location string) []model.CatalogItem {
	return ix.lookup(ix.byLocation, location)
}

func (ix *Index) lookup(index map[string][]int, key string) []model.CatalogItem {
	norm := utils.NormalizeText(key)
	if norm == "" {
		return nil
	}
	if ids, ok := index[norm]; ok {
		return ix.collect(ids)
	}
	var ids []int
	for k, v := range index {
		if strings.Contains(k, norm) || strings.Contains(norm, k) {
			ids = append(ids, v...)
		}
	}
	sort.Ints(ids) // catalog order, independent of map iteration
	return ix.collect(ids)
}

func (ix *Index) collect(ids []int) []model.CatalogItem {
	if len(ids) == 0 {
		return nil
	}
	items := make([]model.CatalogItem, 0, len(ids))
	seen := make(map[int]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, ix.items[id])
	}
	return items
}
