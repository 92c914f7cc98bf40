// Package trie holds the prefix tree behind the visualizer: a
// case-insensitive set of words that counts repeated insertions and can
// export its own shape for drawing.
package trie

import (
	"errors"
	"strings"
)

// ErrInvalidWord is returned by Insert and Delete for an empty word. It is
// raised before any mutation, so the trie is unchanged when a caller sees it.
var ErrInvalidWord = errors.New("word must be a non-empty string")

// Node is one prefix-tree node. The root carries the zero rune and stands
// for the empty prefix; every other node carries the character of the edge
// that reaches it. A node with no children and no end-of-word mark only
// exists mid-deletion, never between operations.
type Node struct {
	value    rune
	isEnd    bool
	freq     int
	children map[rune]*Node
}

func newNode(r rune) *Node {
	return &Node{
		value:    r,
		children: map[rune]*Node{},
	}
}

// Trie owns the root node and the count of distinct words present.
type Trie struct {
	root  *Node
	words int
}

func New() *Trie {
	return &Trie{root: newNode(0)}
}

// Len reports how many distinct words the trie currently holds.
func (t *Trie) Len() int {
	return t.words
}

// Insert adds word to the set, lowercased. Re-inserting a word that is
// already present raises its frequency without growing Len. The boolean
// reports whether the word was new to the set.
func (t *Trie) Insert(word string) (bool, error) {
	if word == "" {
		return false, ErrInvalidWord
	}
	node := t.root
	for _, r := range strings.ToLower(word) {
		child, ok := node.children[r]
		if !ok {
			child = newNode(r)
			node.children[r] = child
		}
		node = child
	}
	added := !node.isEnd
	if added {
		t.words++
	}
	node.isEnd = true
	node.freq++
	return added, nil
}

// Search reports whether word, lowercased, is a member of the set. The
// empty string is never a member. A stored prefix that no word ends on
// reports false.
func (t *Trie) Search(word string) bool {
	if word == "" {
		return false
	}
	node := t.root
	for _, r := range strings.ToLower(word) {
		child, ok := node.children[r]
		if !ok {
			return false
		}
		node = child
	}
	return node.isEnd
}

// Delete removes word from the set. Deleting an absent word is a quiet
// no-op, not an error. Unwinding from the landing node, every ancestor
// edge whose child is left childless and non-terminal is pruned; the
// first node still carrying other words stops the pruning, and the root
// is never removed. The boolean reports whether a word came out.
func (t *Trie) Delete(word string) (bool, error) {
	if word == "" {
		return false, ErrInvalidWord
	}
	runes := []rune(strings.ToLower(word))
	removed := false
	// prune reports whether the caller should drop its edge to node.
	var prune func(node *Node, depth int) bool
	prune = func(node *Node, depth int) bool {
		if depth == len(runes) {
			if !node.isEnd {
				return false
			}
			node.isEnd = false
			node.freq--
			t.words--
			removed = true
			return len(node.children) == 0
		}
		r := runes[depth]
		child, ok := node.children[r]
		if !ok {
			return false
		}
		if prune(child, depth+1) {
			delete(node.children, r)
			return !node.isEnd && len(node.children) == 0
		}
		return false
	}
	prune(t.root, 0)
	return removed, nil
}
