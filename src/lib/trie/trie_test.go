package trie

import (
	"errors"
	"testing"
)

// walk to the node spelling path, nil when the path is absent.
func findNode(t *Trie, path string) *Node {
	n := t.root
	for _, r := range path {
		n = n.children[r]
		if n == nil {
			return nil
		}
	}
	return n
}

func countNodes(n *Node) int {
	total := 1
	for _, c := range n.children {
		total += countNodes(c)
	}
	return total
}

func TestInsertThenSearch(t *testing.T) {
	tests := []struct {
		name  string
		words []string
	}{
		{
			name:  "one",
			words: []string{"x"},
		},
		{
			name:  "chain",
			words: []string{"xo", "xox"},
		},
		{
			name:  "fan out",
			words: []string{"cat", "car", "card", "dog"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			for _, w := range tt.words {
				if tr.Search(w) {
					t.Fatalf("%q found before insert", w)
				}
				if _, err := tr.Insert(w); err != nil {
					t.Fatalf("insert %q: %v", w, err)
				}
				if !tr.Search(w) {
					t.Fatalf("%q not found after insert", w)
				}
			}
			if tr.Len() != len(tt.words) {
				t.Errorf("Len() = %d, want %d", tr.Len(), len(tt.words))
			}
		})
	}
}

func TestRepeatInsert(t *testing.T) {
	tr := New()
	added, err := tr.Insert("cat")
	if err != nil || !added {
		t.Fatalf("first insert: added=%v err=%v", added, err)
	}
	added, err = tr.Insert("cat")
	if err != nil || added {
		t.Fatalf("second insert: added=%v err=%v", added, err)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d after double insert", tr.Len())
	}
	n := findNode(tr, "cat")
	if n == nil || !n.isEnd || n.freq != 2 {
		t.Errorf("landing node = %+v, want end-of-word with frequency 2", n)
	}
}

func TestInsertInvalid(t *testing.T) {
	tr := New()
	if _, err := tr.Insert("ok"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Insert(""); !errors.Is(err, ErrInvalidWord) {
		t.Errorf("insert empty: err = %v, want ErrInvalidWord", err)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() changed by rejected insert: %d", tr.Len())
	}
}

func TestSearchEdges(t *testing.T) {
	tr := New()
	tr.Insert("cart")

	if tr.Search("") {
		t.Error("empty string found")
	}
	if tr.Search("car") {
		t.Error("stored prefix reported as word")
	}
	if tr.Search("carts") {
		t.Error("extension of stored word found")
	}
	if !tr.Search("cart") {
		t.Error("stored word missing")
	}
}

func TestCaseInsensitive(t *testing.T) {
	tr := New()
	tr.Insert("Cat")
	for _, w := range []string{"cat", "CAT", "cAt"} {
		if !tr.Search(w) {
			t.Errorf("Search(%q) = false", w)
		}
	}
	if added, _ := tr.Insert("CAT"); added {
		t.Error("case variant counted as a new word")
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d", tr.Len())
	}
}

func TestDelete(t *testing.T) {
	tr := New()
	tr.Insert("dog")
	tr.Insert("cat")

	removed, err := tr.Delete("cat")
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	if tr.Search("cat") {
		t.Error("deleted word still found")
	}
	if !tr.Search("dog") {
		t.Error("unrelated word lost")
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d", tr.Len())
	}
}

func TestDeleteAbsent(t *testing.T) {
	tr := New()
	tr.Insert("cat")

	removed, err := tr.Delete("zzz")
	if err != nil {
		t.Fatalf("delete of absent word errored: %v", err)
	}
	if removed {
		t.Error("delete of absent word reported removal")
	}
	// deleting a stored prefix that is not a word is the same no-op
	if removed, _ := tr.Delete("ca"); removed {
		t.Error("delete of non-word prefix reported removal")
	}
	if !tr.Search("cat") || tr.Len() != 1 {
		t.Error("no-op delete changed the trie")
	}
}

func TestDeleteInvalid(t *testing.T) {
	tr := New()
	if _, err := tr.Delete(""); !errors.Is(err, ErrInvalidWord) {
		t.Errorf("delete empty: err = %v, want ErrInvalidWord", err)
	}
}

func TestDeletePrunes(t *testing.T) {
	tr := New()
	tr.Insert("cat")
	if got := countNodes(tr.root); got != 4 {
		t.Fatalf("node count before delete = %d, want 4", got)
	}

	tr.Delete("cat")
	if got := countNodes(tr.root); got != 1 {
		t.Errorf("node count after delete = %d, want bare root", got)
	}
	if tr.root == nil {
		t.Fatal("root was pruned")
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d", tr.Len())
	}
}

func TestDeleteKeepsSharedPrefix(t *testing.T) {
	tr := New()
	tr.Insert("cat")
	tr.Insert("car")

	tr.Delete("cat")
	if !tr.Search("car") {
		t.Fatal("sibling word lost")
	}
	if findNode(tr, "ca") == nil {
		t.Error("shared prefix nodes pruned")
	}
	if findNode(tr, "cat") != nil {
		t.Error("deleted branch not pruned")
	}
}

func TestDeleteKeepsLongerWord(t *testing.T) {
	tr := New()
	tr.Insert("cat")
	tr.Insert("cats")

	tr.Delete("cat")
	if !tr.Search("cats") {
		t.Fatal("longer word lost")
	}
	n := findNode(tr, "cat")
	if n == nil {
		t.Fatal("interior node pruned while it still had a child")
	}
	if n.isEnd {
		t.Error("end-of-word mark not cleared")
	}

	tr.Delete("cats")
	if findNode(tr, "c") != nil {
		t.Error("emptied branch not pruned to the root")
	}
}

func TestFrequencyOnDelete(t *testing.T) {
	// frequency drops exactly once per delete while the end mark is set;
	// a node kept alive by children keeps the remainder until the word
	// is inserted again.
	tr := New()
	tr.Insert("cat")
	tr.Insert("cat")
	tr.Insert("cats")

	tr.Delete("cat")
	n := findNode(tr, "cat")
	if n == nil || n.isEnd || n.freq != 1 {
		t.Fatalf("after delete: node = %+v", n)
	}

	tr.Insert("cat")
	if n.freq != 2 || !n.isEnd {
		t.Errorf("after re-insert: freq=%d isEnd=%v", n.freq, n.isEnd)
	}
}
