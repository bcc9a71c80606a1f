package notion

import "github.com/jomei/notionapi"

// Node is one block in a fully fetched block tree. Children are fetched
// before the node is built, so trees are constructed bottom-up and fetched
// notionapi blocks are never mutated.
type Node struct {
	Block    notionapi.Block
	Children []Node
	// Database holds the queried content of a child_database block once the
	// orchestrator has enriched the tree. Nil until then.
	Database *DatabaseContent
}

// DatabaseContent is a database definition together with all of its items.
type DatabaseContent struct {
	Database *notionapi.Database
	Items    []notionapi.Page
}

// ChildRef identifies a child page or child database discovered in a tree.
type ChildRef struct {
	ID    string
	Title string
}

// ChildPages returns every child_page block in the tree, nested blocks
// included, deduplicated by id in first-seen order. Dedup keeps repeated
// references to the same page from racing on one output path.
func ChildPages(nodes []Node) []ChildRef {
	var out []ChildRef
	seen := make(map[string]bool)
	walk(nodes, func(n Node) {
		cp, ok := n.Block.(*notionapi.ChildPageBlock)
		if !ok {
			return
		}
		id := string(cp.GetID())
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, ChildRef{ID: id, Title: cp.ChildPage.Title})
	})
	return out
}

// ChildDatabases returns every child_database block in the tree, nested
// blocks included, deduplicated by id in first-seen order.
func ChildDatabases(nodes []Node) []ChildRef {
	var out []ChildRef
	seen := make(map[string]bool)
	walk(nodes, func(n Node) {
		cd, ok := n.Block.(*notionapi.ChildDatabaseBlock)
		if !ok {
			return
		}
		id := string(cd.GetID())
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, ChildRef{ID: id, Title: cd.ChildDatabase.Title})
	})
	return out
}

func walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		walk(n.Children, fn)
	}
}
