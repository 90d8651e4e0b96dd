// Package tree assembles parse events into a hierarchical test tree.
package tree

import (
	"fmt"

	"pta/internal/domain"
	"pta/internal/parser"
)

// Build assembles discovery events into a TestTree. A suite-started event
// pushes a new suite under the top of the stack, a case-found appends a
// case to it, a suite-finished pops. Ids are path-based: two sibling
// nodes with the same display label stay distinct via an ordinal suffix.
// A tree is produced even from a truncated stream; suites still open at
// stream end are closed implicitly.
func Build(rootLabel string, events []parser.Event) *domain.TestTree {
	t := domain.NewTestTree(rootLabel)
	stack := []*domain.TestNode{t.Root}

	for _, ev := range events {
		top := stack[len(stack)-1]
		switch ev.Type {
		case parser.SuiteStarted:
			suite := &domain.TestNode{
				ID:    uniqueID(t, top.ID, ev.Name),
				Label: ev.Name,
				Kind:  domain.SuiteNode,
			}
			top.Children = append(top.Children, suite)
			t.Index[suite.ID] = suite
			stack = append(stack, suite)
		case parser.SuiteFinished:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case parser.CaseFound:
			c := &domain.TestNode{
				ID:    uniqueID(t, top.ID, ev.Name),
				Label: ev.Name,
				Kind:  domain.CaseNode,
			}
			top.Children = append(top.Children, c)
			t.Index[c.ID] = c
		}
	}
	return t
}

// uniqueID derives a child id from the parent path, disambiguating label
// collisions among siblings so every id stays unique within the tree.
func uniqueID(t *domain.TestTree, parentID, label string) string {
	id := domain.ChildID(parentID, label)
	if _, taken := t.Index[id]; !taken {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s#%d", id, n)
		if _, taken := t.Index[candidate]; !taken {
			return candidate
		}
	}
}
