package services

import (
	"strings"

	"github.com/yagontorron/needitv1/internal/models"
)

// NeedFilter is the search form. Empty fields do not constrain.
type NeedFilter struct {
	Query      string
	CategoryID string
	Location   string
}

// NeedPredicate selects needs. Predicates are pure, so any order of
// application gives the same result.
type NeedPredicate func(n models.Need) bool

// MatchQuery matches q case-insensitively as a substring of the title or
// the description.
func MatchQuery(q string) NeedPredicate {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	return func(n models.Need) bool {
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Description), q)
	}
}

func InCategory(categoryID string) NeedPredicate {
	if categoryID == "" {
		return nil
	}
	return func(n models.Need) bool { return n.CategoryID == categoryID }
}

// AtLocation matches the location name exactly.
func AtLocation(name string) NeedPredicate {
	if name == "" {
		return nil
	}
	return func(n models.Need) bool { return n.LocationName() == name }
}

func (f NeedFilter) Predicates() []NeedPredicate {
	return []NeedPredicate{MatchQuery(f.Query), InCategory(f.CategoryID), AtLocation(f.Location)}
}

// FilterNeeds keeps the needs accepted by every predicate, preserving order.
// Nil predicates accept everything.
func FilterNeeds(needs []models.Need, preds ...NeedPredicate) []models.Need {
	out := make([]models.Need, 0, len(needs))
next:
	for _, n := range needs {
		for _, p := range preds {
			if p != nil && !p(n) {
				continue next
			}
		}
		out = append(out, n)
	}
	return out
}

// Locations lists the distinct location names in first-seen order.
func Locations(needs []models.Need) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, n := range needs {
		name := n.LocationName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
