package planner

import (
	"strings"

	"github.com/lalith-99/eventboard/internal/models"
)

type dedupeKey struct {
	name      string
	instagram string
}

// DedupeGuests folds records sharing the same lower-cased (name, instagram)
// pair into one, keeping the first copy unless a later one is seated at a
// table and the kept one is not. Output order follows first appearance.
//
// Merge-by-name should keep such duplicates from being written; this fold
// only hides the ones that slipped through (legacy data, racing writers).
func DedupeGuests(guests []models.Guest) []models.Guest {
	seen := make(map[dedupeKey]int, len(guests))
	out := make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		key := dedupeKey{
			name:      strings.ToLower(g.Name),
			instagram: strings.ToLower(g.Instagram),
		}
		if i, ok := seen[key]; ok {
			if !out[i].Assigned() && g.Assigned() {
				out[i] = g
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, g)
	}
	return out
}
