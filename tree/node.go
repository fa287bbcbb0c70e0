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

package tree

import (
	"cmp"
	"fmt"
)

// Entry is one logical (key, value) item held by a Tree. Key-only trees
// instantiate V as struct{} and the zero value is carried everywhere.
type Entry[K cmp.Ordered, V comparable] struct {
	Key   K
	Value V
}

// node is one distinct key position in the tree. Each node owns its
// children exclusively; no node is ever linked from two places.
//
// The AVL configuration additionally tracks a balance factor
// (height(right) - height(left), recomputed after every shape change)
// and a side-list of duplicate entries sharing this node's key, in the
// order they arrived. Rotations can relocate a subtree anywhere in the
// tree, so the BST rule of parking equal keys in the left subtree cannot
// preserve insertion order here; concentrating duplicates on the node
// itself can.
type node[K cmp.Ordered, V comparable] struct {
	key   K
	value V

	left  *node[K, V]
	right *node[K, V]

	balance int
	dups    []Entry[K, V]
}

// render produces the display form of the node:
//
//	<K = k[, V = v][, BF = b, C = c]>
//
// The value segment is omitted for key-only trees and the balance
// factor / count suffix appears only in the AVL configuration.
func (n *node[K, V]) render(kind Kind, keyOnly bool) string {
	s := fmt.Sprintf("<K = %v", n.key)
	if !keyOnly {
		s += fmt.Sprintf(", V = %v", n.value)
	}
	if kind == AVL {
		s += fmt.Sprintf(", BF = %d, C = %d", n.balance, n.entryCount())
	}
	return s + ">"
}

func (n *node[K, V]) entry() Entry[K, V] {
	return Entry[K, V]{Key: n.key, Value: n.value}
}

// addDuplicate appends e to the duplicate side-list. The entry is
// accepted only when its key equals the node's key; this is the sole
// path by which a key accumulates entries without a new node.
func (n *node[K, V]) addDuplicate(e Entry[K, V]) bool {
	if e.Key != n.key {
		return false
	}
	n.dups = append(n.dups, e)
	return true
}

// lastEntry returns the most recently added duplicate, or the node's
// own entry when no duplicates exist.
func (n *node[K, V]) lastEntry() Entry[K, V] {
	if len(n.dups) > 0 {
		return n.dups[len(n.dups)-1]
	}
	return n.entry()
}

// findByValue scans the node's own entry plus its duplicates for an
// entry whose value equals v. First-encounter order is own entry then
// duplicates oldest-first; last-encounter scans duplicates newest-first
// and falls back to the own entry.
func (n *node[K, V]) findByValue(v V, lastEncounter bool) (Entry[K, V], bool) {
	if lastEncounter {
		for i := len(n.dups) - 1; i >= 0; i-- {
			if n.dups[i].Value == v {
				return n.dups[i], true
			}
		}
		if n.value == v {
			return n.entry(), true
		}
		return Entry[K, V]{}, false
	}
	if n.value == v {
		return n.entry(), true
	}
	for _, d := range n.dups {
		if d.Value == v {
			return d, true
		}
	}
	return Entry[K, V]{}, false
}

// entryCount is the number of logical entries at this node: the node's
// own entry plus its duplicates.
func (n *node[K, V]) entryCount() int {
	return 1 + len(n.dups)
}

// countValue reports how many of the node's entries carry value v.
func (n *node[K, V]) countValue(v V) int {
	c := 0
	if n.value == v {
		c++
	}
	for _, d := range n.dups {
		if d.Value == v {
			c++
		}
	}
	return c
}
