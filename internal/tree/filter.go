package tree

import (
	"path"
	"strings"

	"pta/internal/domain"
)

// MatchIDs returns the ids of case nodes whose label or id matches the
// pattern. Supports wildcard patterns like "*UserTest*" or "testCreate*";
// a pattern without wildcards matches as a substring. An empty pattern
// selects nothing (callers treat that as "no filter").
func MatchIDs(t *domain.TestTree, pattern string) []string {
	if pattern == "" {
		return nil
	}

	var ids []string
	for _, c := range t.Cases() {
		if matches(c, pattern) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func matches(n *domain.TestNode, pattern string) bool {
	if ok, err := path.Match(pattern, n.Label); err == nil && ok {
		return true
	}

	if strings.ContainsAny(pattern, "*?") {
		// Flexible match for patterns like "*Payment*": every non-empty
		// part between wildcards must appear, in the label or the id.
		parts := strings.Split(pattern, "*")
		hay := n.Label + "\n" + n.ID
		hasPart := false
		for _, part := range parts {
			if part == "" {
				continue
			}
			hasPart = true
			if !strings.Contains(hay, part) {
				return false
			}
		}
		return hasPart
	}

	return strings.Contains(n.Label, pattern) || strings.Contains(n.ID, pattern)
}
