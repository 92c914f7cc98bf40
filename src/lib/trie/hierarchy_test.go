package trie

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestHierarchyShape(t *testing.T) {
	tr := New()
	tr.Insert("ab")

	h := tr.Hierarchy()
	if h.Name != RootLabel || h.Value != "" || h.Depth != 0 || h.IsEndOfWord {
		t.Fatalf("root record = %+v", h)
	}
	if len(h.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(h.Children))
	}

	a := h.Children[0]
	if a.Name != "a" || a.Value != "a" || a.Depth != 1 || a.IsEndOfWord || a.Frequency != 0 {
		t.Fatalf("first child = %+v", a)
	}
	if len(a.Children) != 1 {
		t.Fatalf("%q has %d children, want 1", a.Name, len(a.Children))
	}

	ab := a.Children[0]
	if ab.Name != "ab" || ab.Value != "b" || ab.Depth != 2 || !ab.IsEndOfWord || ab.Frequency != 1 {
		t.Fatalf("leaf = %+v", ab)
	}
	if len(ab.Children) != 0 {
		t.Fatalf("leaf has children: %+v", ab.Children)
	}
}

func TestHierarchyEmptyTrie(t *testing.T) {
	h := New().Hierarchy()
	if h.Name != RootLabel || len(h.Children) != 0 {
		t.Fatalf("empty trie export = %+v", h)
	}

	raw, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "children") {
		t.Errorf("leaf export carries a children key: %s", raw)
	}
}

func TestHierarchyDeterministic(t *testing.T) {
	words := []string{"banana", "band", "apple", "cat", "car", "bandana"}

	first := New()
	for _, w := range words {
		first.Insert(w)
	}
	second := New()
	for i := len(words) - 1; i >= 0; i-- {
		second.Insert(words[i])
	}

	a, err := json.Marshal(first.Hierarchy())
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second.Hierarchy())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("insertion order leaked into the export:\n%s\n%s", a, b)
	}

	again, err := json.Marshal(first.Hierarchy())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, again) {
		t.Error("repeated export of the same trie differs")
	}
}

func TestHierarchyChildOrder(t *testing.T) {
	tr := New()
	for _, w := range []string{"c", "a", "b"} {
		tr.Insert(w)
	}

	h := tr.Hierarchy()
	if len(h.Children) != 3 {
		t.Fatalf("root has %d children", len(h.Children))
	}
	for i, want := range []string{"a", "b", "c"} {
		if h.Children[i].Name != want {
			t.Errorf("child %d = %q, want %q", i, h.Children[i].Name, want)
		}
	}
}

func TestHierarchyCounts(t *testing.T) {
	tests := []struct {
		name     string
		words    []string
		nodes    int
		maxDepth int
	}{
		{
			name:     "empty",
			words:    nil,
			nodes:    1,
			maxDepth: 0,
		},
		{
			name:     "single",
			words:    []string{"cat"},
			nodes:    4,
			maxDepth: 3,
		},
		{
			name:     "shared prefix",
			words:    []string{"cat", "car", "ca"},
			nodes:    5,
			maxDepth: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			for _, w := range tt.words {
				tr.Insert(w)
			}
			h := tr.Hierarchy()
			if got := h.Nodes(); got != tt.nodes {
				t.Errorf("Nodes() = %d, want %d", got, tt.nodes)
			}
			if got := h.MaxDepth(); got != tt.maxDepth {
				t.Errorf("MaxDepth() = %d, want %d", got, tt.maxDepth)
			}
		})
	}
}
