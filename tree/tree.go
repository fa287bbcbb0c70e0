// Copyright 2025 Naren Yellavula
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tree implements an in-memory ordered key/value index with two
// interchangeable balancing strategies: plain binary-search-tree order
// and height-balanced AVL order. Both run through the same Tree type;
// the strategy is fixed at construction. Trees optionally carry a value
// per key, optionally accept duplicate keys, and can be saved to and
// restored from a compact binary stream that recreates the tree exactly
// by re-insertion.
//
// Trees are not safe for concurrent use; callers needing shared access
// must serialize it externally.
package tree

import (
	"cmp"
)

// Kind selects the balancing strategy of a Tree.
type Kind int

const (
	// BST keeps plain binary-search-tree order. Duplicate keys, when
	// allowed, become real nodes ordered into the left subtree of
	// their equal key.
	BST Kind = iota
	// AVL keeps height-balanced order. Duplicate keys, when allowed,
	// are absorbed into a side-list on the existing node so rotations
	// cannot disturb their relative order.
	AVL
)

func (k Kind) String() string {
	if k == AVL {
		return "avl"
	}
	return "bst"
}

// Tree is an ordered key/value index. The zero value is not usable;
// construct with New, NewKeys, FromEntries, FromKeys or Deserialize.
type Tree[K cmp.Ordered, V comparable] struct {
	root *node[K, V]

	kind     Kind
	allowDup bool
	keyOnly  bool

	// count tracks logical entries, not nodes: an AVL node carrying
	// duplicates represents several entries.
	count int

	// height is a cached derived value. Any shape change clears
	// heightOK; the next Height call recomputes in one pass. Read
	// paths are permitted to refresh the cache.
	height   int
	heightOK bool
}

// New returns an empty value-bearing tree of the given kind.
func New[K cmp.Ordered, V comparable](kind Kind, allowDuplicates bool) *Tree[K, V] {
	return &Tree[K, V]{kind: kind, allowDup: allowDuplicates}
}

// NewKeys returns an empty key-only tree of the given kind.
func NewKeys[K cmp.Ordered](kind Kind, allowDuplicates bool) *Tree[K, struct{}] {
	return &Tree[K, struct{}]{kind: kind, allowDup: allowDuplicates, keyOnly: true}
}

// FromEntries builds a value-bearing tree by inserting entries in order.
func FromEntries[K cmp.Ordered, V comparable](kind Kind, entries []Entry[K, V], allowDuplicates bool) *Tree[K, V] {
	t := New[K, V](kind, allowDuplicates)
	t.InsertAll(entries)
	return t
}

// FromKeys builds a key-only tree by inserting keys in order.
func FromKeys[K cmp.Ordered](kind Kind, keys []K, allowDuplicates bool) *Tree[K, struct{}] {
	t := NewKeys[K](kind, allowDuplicates)
	t.InsertKeys(keys)
	return t
}

// IsEmpty reports whether the tree holds no entries.
func (t *Tree[K, V]) IsEmpty() bool { return t.root == nil }

// AllowsDuplicates reports the duplicate-key policy fixed at construction.
func (t *Tree[K, V]) AllowsDuplicates() bool { return t.allowDup }

// KeyOnly reports whether the tree carries keys without values.
func (t *Tree[K, V]) KeyOnly() bool { return t.keyOnly }

// Kind reports the balancing strategy fixed at construction.
func (t *Tree[K, V]) Kind() Kind { return t.kind }

// Clear removes every entry.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.count = 0
	t.height = 0
	t.heightOK = true
}

// Insert adds one entry. It reports false without mutating when the key
// already exists and duplicates are disallowed. A BST orders an allowed
// duplicate into the left subtree of its equal key; an AVL node absorbs
// it into its side-list, leaving tree shape, cached height and balance
// untouched.
func (t *Tree[K, V]) Insert(key K, value V) bool {
	inserted := false
	duplicate := false

	link := &t.root
	for *link != nil {
		n := *link
		if key == n.key {
			duplicate = true
			if !t.allowDup {
				return false
			}
			if t.kind == AVL {
				inserted = n.addDuplicate(Entry[K, V]{Key: key, Value: value})
				break
			}
			// Equal keys order to the left so a forward in-order
			// walk yields duplicates adjacent to one another.
			link = &n.left
		} else if key < n.key {
			link = &n.left
		} else {
			link = &n.right
		}
	}

	if !duplicate || t.kind == BST {
		*link = &node[K, V]{key: key, value: value}
		inserted = true
	}

	if inserted {
		t.count++
		if t.kind == AVL {
			if !duplicate {
				t.heightOK = false
				t.rebalance()
			}
		} else {
			t.heightOK = false
		}
	}
	return inserted
}

// InsertKey adds a key with the zero value. Intended for key-only trees.
func (t *Tree[K, V]) InsertKey(key K) bool {
	var zero V
	return t.Insert(key, zero)
}

// InsertAll inserts entries in order and returns how many were accepted.
func (t *Tree[K, V]) InsertAll(entries []Entry[K, V]) int {
	accepted := 0
	for _, e := range entries {
		if t.Insert(e.Key, e.Value) {
			accepted++
		}
	}
	return accepted
}

// InsertKeys inserts keys in order and returns how many were accepted.
func (t *Tree[K, V]) InsertKeys(keys []K) int {
	accepted := 0
	for _, k := range keys {
		if t.InsertKey(k) {
			accepted++
		}
	}
	return accepted
}

// Search looks a key up. With duplicates allowed, lastEncounter selects
// the most recently inserted of the equal entries instead of the first:
// an AVL node answers from its side-list, a BST keeps walking the left
// subtree where later equal keys live. A miss returns the zero Entry.
func (t *Tree[K, V]) Search(key K, lastEncounter bool) (Entry[K, V], bool) {
	var best Entry[K, V]
	found := false

	cur := t.root
	for cur != nil {
		if key == cur.key {
			if !t.allowDup || !lastEncounter {
				return cur.entry(), true
			}
			if t.kind == AVL {
				return cur.lastEntry(), true
			}
			best, found = cur.entry(), true
			cur = cur.left
		} else if key < cur.key {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return best, found
}

// SearchValue looks up an entry matching both key and value. The AVL
// configuration resolves the match inside the key's node; the BST scans
// equal-key nodes leftward, honoring lastEncounter. When duplicates are
// disallowed at most one node per key exists, so no leftward scan runs.
func (t *Tree[K, V]) SearchValue(key K, value V, lastEncounter bool) (Entry[K, V], bool) {
	var best Entry[K, V]
	found := false

	cur := t.root
	for cur != nil {
		if key == cur.key {
			if t.kind == AVL {
				return cur.findByValue(value, lastEncounter)
			}
			if cur.value == value {
				if !t.allowDup || !lastEncounter {
					return cur.entry(), true
				}
				best, found = cur.entry(), true
			} else if !t.allowDup {
				break
			}
			cur = cur.left
		} else if key < cur.key {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return best, found
}

// removeNode splices the node at link out of the tree. A node with two
// children is replaced by its in-order successor (the leftmost node of
// the right subtree, or the right child itself when it has no left
// child), which keeps the ordering invariant: the successor's key is
// the smallest key strictly greater than the removed one.
func removeNode[K cmp.Ordered, V comparable](link **node[K, V]) {
	n := *link
	switch {
	case n.left != nil && n.right != nil:
		removeDoubleChildNode(link)
	case n.left != nil:
		*link = n.left
	case n.right != nil:
		*link = n.right
	default:
		*link = nil
	}
}

func removeDoubleChildNode[K cmp.Ordered, V comparable](link **node[K, V]) {
	doomed := *link
	succ := doomed.right
	for succ.left != nil && succ.left.left != nil {
		succ = succ.left
	}
	if succ.left != nil {
		// Promote the successor, splicing its right subtree into
		// the gap it leaves under its old parent.
		*link = succ.left
		succ.left = succ.left.right
		(*link).right = doomed.right
	} else {
		// The right child itself is the successor.
		*link = succ
	}
	(*link).left = doomed.left
}

// Remove deletes entries keyed key and returns how many were removed.
// With all false only the first encountered entry goes; with all true
// every entry with that key goes. On an AVL node carrying duplicates a
// single removal pops the oldest duplicate into the node's own slot and
// changes no tree shape.
func (t *Tree[K, V]) Remove(key K, all bool) int {
	removed := 0

	link := &t.root
	for *link != nil {
		n := *link
		if key == n.key {
			if t.kind == AVL {
				if all || len(n.dups) == 0 {
					removed = n.entryCount()
					removeNode(link)
					t.count -= removed
					t.heightOK = false
					t.rebalance()
				} else {
					head := n.dups[0]
					n.key, n.value = head.Key, head.Value
					n.dups = n.dups[1:]
					removed = 1
					t.count--
				}
				break
			}
			removeNode(link)
			removed++
			t.count--
			t.heightOK = false
			if !all || !t.allowDup {
				break
			}
			// Remaining duplicates sit where the node stood (its
			// replacement is either the duplicate promoted from the
			// left or a strictly greater successor), so re-test the
			// same link.
		} else if key < n.key {
			link = &n.left
		} else {
			link = &n.right
		}
	}
	return removed
}

// RemoveValue deletes entries matching both key and value, honoring the
// all flag as in Remove. In the AVL configuration this may excise from
// the middle of a node's duplicate list without touching tree shape.
func (t *Tree[K, V]) RemoveValue(key K, value V, all bool) int {
	removed := 0

	link := &t.root
	for *link != nil {
		n := *link
		if key != n.key {
			if key < n.key {
				link = &n.left
			} else {
				link = &n.right
			}
			continue
		}

		if t.kind == AVL {
			if len(n.dups) == 0 {
				if n.value == value {
					removed += n.entryCount()
					removeNode(link)
					t.count -= n.entryCount()
					t.heightOK = false
					t.rebalance()
				}
				break
			}
			if n.value == value {
				head := n.dups[0]
				n.key, n.value = head.Key, head.Value
				n.dups = n.dups[1:]
				removed++
				t.count--
				if !all {
					break
				}
				// The promoted duplicate may match too; re-test
				// the same node.
				continue
			}
			for i := 0; i < len(n.dups); {
				if n.dups[i].Value == value {
					n.dups = append(n.dups[:i], n.dups[i+1:]...)
					removed++
					t.count--
					if !all {
						break
					}
				} else {
					i++
				}
			}
			break
		}

		// BST configuration.
		if n.value != value {
			if !t.allowDup {
				break
			}
			link = &n.left
			continue
		}
		removeNode(link)
		removed++
		t.count--
		t.heightOK = false
		if !all || !t.allowDup {
			break
		}
	}
	return removed
}

// RemoveKeys removes each key in turn and returns the total removed.
func (t *Tree[K, V]) RemoveKeys(keys []K, all bool) int {
	removed := 0
	for _, k := range keys {
		removed += t.Remove(k, all)
	}
	return removed
}

// Count returns the total number of logical entries.
func (t *Tree[K, V]) Count() int { return t.count }

// CountKey returns the number of entries keyed key.
func (t *Tree[K, V]) CountKey(key K) int {
	c := 0
	cur := t.root
	for cur != nil {
		if key == cur.key {
			if t.kind == AVL {
				return c + cur.entryCount()
			}
			c++
			if !t.allowDup {
				break
			}
			cur = cur.left
		} else if key < cur.key {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return c
}

// CountValue returns the number of entries matching both key and value.
func (t *Tree[K, V]) CountValue(key K, value V) int {
	c := 0
	cur := t.root
	for cur != nil {
		if key == cur.key {
			if t.kind == AVL {
				return c + cur.countValue(value)
			}
			if cur.value == value {
				c++
			}
			if !t.allowDup {
				break
			}
			cur = cur.left
		} else if key < cur.key {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return c
}

func subtreeHeight[K cmp.Ordered, V comparable](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return 1 + max(subtreeHeight(n.left), subtreeHeight(n.right))
}

// Height returns the number of levels in the tree: 0 when empty, 1 for
// a single node. The value is cached and recomputed in one pass after a
// shape-changing mutation invalidated it.
func (t *Tree[K, V]) Height() int {
	if !t.heightOK {
		t.height = subtreeHeight(t.root)
		t.heightOK = true
	}
	return t.height
}

// Min returns the entry with the smallest key. In the AVL configuration
// the minimum node answers with its last-encountered entry: duplicates
// are conceptually a left chain hanging off their node, so the newest
// duplicate is the leftmost.
func (t *Tree[K, V]) Min() (Entry[K, V], bool) {
	cur := t.root
	for cur != nil && cur.left != nil {
		cur = cur.left
	}
	if cur == nil {
		return Entry[K, V]{}, false
	}
	if t.kind == AVL {
		return cur.lastEntry(), true
	}
	return cur.entry(), true
}

// Max returns the entry with the largest key. The maximum node answers
// with its own entry in both configurations: duplicates chain left,
// never right, so the node's first entry is the rightmost.
func (t *Tree[K, V]) Max() (Entry[K, V], bool) {
	cur := t.root
	for cur != nil && cur.right != nil {
		cur = cur.right
	}
	if cur == nil {
		return Entry[K, V]{}, false
	}
	return cur.entry(), true
}

// SortedEntries returns every logical entry in key order, ascending by
// default or descending when reverse is set. Equal keys come out newest
// insertion first in ascending order, matching the left-of-equal BST
// placement; AVL duplicates are interleaved at the same positions.
func (t *Tree[K, V]) SortedEntries(reverse bool) []Entry[K, V] {
	out := make([]Entry[K, V], 0, t.count)
	return appendSorted(out, t.root, reverse)
}

func appendSorted[K cmp.Ordered, V comparable](out []Entry[K, V], n *node[K, V], reverse bool) []Entry[K, V] {
	if n == nil {
		return out
	}
	if reverse {
		out = appendSorted(out, n.right, true)
		out = append(out, n.entry())
		for _, d := range n.dups {
			out = append(out, d)
		}
		return appendSorted(out, n.left, true)
	}
	out = appendSorted(out, n.left, false)
	for i := len(n.dups) - 1; i >= 0; i-- {
		out = append(out, n.dups[i])
	}
	out = append(out, n.entry())
	return appendSorted(out, n.right, false)
}

// SortedKeys returns every key in order, one per logical entry.
func (t *Tree[K, V]) SortedKeys(reverse bool) []K {
	entries := t.SortedEntries(reverse)
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// nodesAtLevel returns the 1<<level slots of the given level in
// positional order, structural gaps preserved as nils so parent/child
// relations stay inferable. prev, when it holds the previous level,
// saves re-walking from the root; pass nil otherwise.
func (t *Tree[K, V]) nodesAtLevel(level int, prev []*node[K, V]) []*node[K, V] {
	if level == 0 {
		return []*node[K, V]{t.root}
	}
	if len(prev) != 1<<(level-1) {
		prev = t.nodesAtLevel(level-1, nil)
	}
	out := make([]*node[K, V], 1<<level)
	i := 0
	for _, p := range prev {
		if p != nil {
			out[i], out[i+1] = p.left, p.right
		}
		i += 2
	}
	return out
}

// Items enumerates every logical entry in level order, each AVL node's
// duplicates following its own entry in arrival order. Re-inserting the
// items into an empty tree of the same configuration recreates the tree
// exactly; serialization is built on this.
func (t *Tree[K, V]) Items() []Entry[K, V] {
	items := make([]Entry[K, V], 0, t.count)
	if t.root == nil {
		return items
	}
	queue := []*node[K, V]{t.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		items = append(items, n.entry())
		items = append(items, n.dups...)
		if n.left != nil {
			queue = append(queue, n.left)
		}
		if n.right != nil {
			queue = append(queue, n.right)
		}
	}
	return items
}

// Copy returns a deep, value-independent reconstruction of the tree:
// every item is re-inserted into a fresh tree, so the copy shares no
// nodes with the original.
func (t *Tree[K, V]) Copy() *Tree[K, V] {
	c := &Tree[K, V]{kind: t.kind, allowDup: t.allowDup, keyOnly: t.keyOnly}
	for _, e := range t.Items() {
		c.Insert(e.Key, e.Value)
	}
	return c
}
