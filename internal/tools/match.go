package tools

import (
	"strings"

	"github.com/obsidian-exchange/clerk-go/internal/market"
)

// MatchItem resolves a free-form product query against the catalog: the first
// item whose name contains the query (case-insensitive), or whose id equals
// it (case-insensitive), wins. No ranking beyond iteration order.
func MatchItem(catalog []market.Item, query string) (market.Item, bool) {
	needle := strings.ToLower(query)
	for _, it := range catalog {
		if strings.Contains(strings.ToLower(it.Name), needle) || strings.EqualFold(it.ID, query) {
			return it, true
		}
	}
	return market.Item{}, false
}
