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

import "cmp"

// recomputeBalance walks the subtree at link bottom-up, stores the
// balance factor height(right)-height(left) on every node, and returns
// the subtree height together with the link of the deepest node whose
// factor left the [-1, 1] band. Left subtree findings win over right
// ones, which win over the node itself, so the returned link is always
// a deepest offender.
func recomputeBalance[K cmp.Ordered, V comparable](link **node[K, V]) (int, **node[K, V]) {
	n := *link
	if n == nil {
		return 0, nil
	}
	lh, bad := recomputeBalance(&n.left)
	rh, rbad := recomputeBalance(&n.right)
	n.balance = rh - lh
	if bad == nil {
		bad = rbad
	}
	if bad == nil && (n.balance > 1 || n.balance < -1) {
		bad = link
	}
	return 1 + max(lh, rh), bad
}

// rotateLeft lifts the right child into the link's position. The
// displaced node keeps its left subtree and adopts the pivot's former
// left subtree as its right, preserving in-order sequence.
func rotateLeft[K cmp.Ordered, V comparable](link **node[K, V]) {
	n := *link
	pivot := n.right
	n.right = pivot.left
	pivot.left = n
	*link = pivot
}

// rotateRight is the mirror of rotateLeft.
func rotateRight[K cmp.Ordered, V comparable](link **node[K, V]) {
	n := *link
	pivot := n.left
	n.left = pivot.right
	pivot.right = n
	*link = pivot
}

// rebalance restores the AVL balance invariant after a shape change.
// One full recomputation locates the deepest imbalanced node; a single
// or double rotation fixes it, with the inner pre-rotation applied when
// the taller child leans the opposite way; a final recomputation
// refreshes every factor for the new shape. One shape change puts at
// most one node out of band, so a single fix suffices.
func (t *Tree[K, V]) rebalance() {
	if t.kind != AVL {
		return
	}
	_, bad := recomputeBalance(&t.root)
	if bad == nil {
		return
	}
	n := *bad
	if n.balance > 1 {
		if n.right.balance < 0 {
			rotateRight(&n.right)
		}
		rotateLeft(bad)
	} else {
		if n.left.balance > 0 {
			rotateLeft(&n.left)
		}
		rotateRight(bad)
	}
	recomputeBalance(&t.root)
}
