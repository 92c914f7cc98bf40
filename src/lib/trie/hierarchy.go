package trie

import "sort"

// RootLabel is the display name exports give the root, whose own
// character value is the empty string.
const RootLabel = "root"

// Hierarchy is one record of the node-link export consumed by renderers.
// Name is the full prefix spelled from the root, Value the node's own
// character. Children are sorted by character, so the same tree always
// exports the same way; a childless record omits the field instead of
// carrying an empty list, and consumers must treat the two alike.
type Hierarchy struct {
	Name        string       `json:"name"`
	Value       string       `json:"value"`
	IsEndOfWord bool         `json:"is_end_of_word"`
	Frequency   int          `json:"frequency"`
	Depth       int          `json:"depth"`
	Children    []*Hierarchy `json:"children,omitempty"`
}

// Hierarchy exports the trie's current shape without mutating it.
func (t *Trie) Hierarchy() *Hierarchy {
	return export(t.root, "", 0)
}

func export(n *Node, path string, depth int) *Hierarchy {
	h := &Hierarchy{
		Name:        path,
		IsEndOfWord: n.isEnd,
		Frequency:   n.freq,
		Depth:       depth,
	}
	if depth == 0 {
		h.Name = RootLabel
	} else {
		h.Value = string(n.value)
	}
	if len(n.children) == 0 {
		return h
	}
	runes := make([]rune, 0, len(n.children))
	for r := range n.children {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	for _, r := range runes {
		h.Children = append(h.Children, export(n.children[r], path+string(r), depth+1))
	}
	return h
}

// Nodes counts the records in the export, the root included.
func (h *Hierarchy) Nodes() int {
	total := 1
	for _, c := range h.Children {
		total += c.Nodes()
	}
	return total
}

// MaxDepth reports the deepest record in the export; 0 for a bare root.
func (h *Hierarchy) MaxDepth() int {
	deepest := h.Depth
	for _, c := range h.Children {
		if d := c.MaxDepth(); d > deepest {
			deepest = d
		}
	}
	return deepest
}
