package domain

// TestTree is the result of one discovery: a root suite plus an id index
// for O(1) lookup during run-result dispatch. Trees are rebuilt wholesale
// on every discovery; there is no incremental diffing.
type TestTree struct {
	Root  *TestNode
	Index map[string]*TestNode
}

// NewTestTree returns an empty tree with an addressable root suite.
func NewTestTree(rootLabel string) *TestTree {
	return &TestTree{
		Root:  &TestNode{ID: "", Label: rootLabel, Kind: SuiteNode},
		Index: make(map[string]*TestNode),
	}
}

// Lookup returns the node with the given id, or nil. The root node is not
// addressable; selection targets its descendants.
func (t *TestTree) Lookup(id string) *TestNode {
	return t.Index[id]
}

// Cases returns every case node in tree order.
func (t *TestTree) Cases() []*TestNode {
	var cases []*TestNode
	var walk func(n *TestNode)
	walk = func(n *TestNode) {
		if n.Kind == CaseNode {
			cases = append(cases, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)
	return cases
}

// Expand resolves a selection of node ids to the case nodes it covers.
// Suite ids expand to all descendant cases; an empty selection means the
// entire tree. Duplicates are removed, tree order is preserved for the
// whole-tree case and request order otherwise. Unknown ids are skipped.
func (t *TestTree) Expand(ids []string) []*TestNode {
	if len(ids) == 0 {
		return t.Cases()
	}
	seen := make(map[string]bool)
	var cases []*TestNode
	var collect func(n *TestNode)
	collect = func(n *TestNode) {
		if n.Kind == CaseNode {
			if !seen[n.ID] {
				seen[n.ID] = true
				cases = append(cases, n)
			}
			return
		}
		for _, c := range n.Children {
			collect(c)
		}
	}
	for _, id := range ids {
		if n := t.Lookup(id); n != nil {
			collect(n)
		}
	}
	return cases
}
