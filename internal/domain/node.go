package domain

import "strings"

// NodeKind distinguishes suites from cases in the test tree.
type NodeKind string

const (
	SuiteNode NodeKind = "suite"
	CaseNode  NodeKind = "case"
)

// TestNode is a suite or case in the discovered test tree.
type TestNode struct {
	ID       string      // Stable, path-derived identifier (unique within a tree)
	Label    string      // Display name (class segment or method name)
	Kind     NodeKind    // Suite or case
	Children []*TestNode // Ordered; always empty for case nodes
	File     string      // Source file, when the runner reports one
}

// NodeID joins path segments into a node identifier. Suite ids are
// prefix-stable: every descendant id starts with its ancestor's id
// followed by the separator.
func NodeID(segments ...string) string {
	return strings.Join(segments, "/")
}

// ChildID derives a child's id from its parent's id and label.
func ChildID(parentID, label string) string {
	if parentID == "" {
		return label
	}
	return parentID + "/" + label
}
