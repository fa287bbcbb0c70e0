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
	"slices"
	"testing"
)

// assertOrdered verifies the search-order invariant below n: every key
// in the left subtree is <= n.key (duplicates order left), every key in
// the right subtree is > n.key.
func assertOrdered[K cmp.Ordered, V comparable](t *testing.T, n *node[K, V], lo, hi *K) {
	t.Helper()
	if n == nil {
		return
	}
	if lo != nil && n.key <= *lo {
		t.Errorf("key %v violates lower bound %v", n.key, *lo)
	}
	if hi != nil && n.key > *hi {
		t.Errorf("key %v violates upper bound %v", n.key, *hi)
	}
	assertOrdered(t, n.left, lo, &n.key)
	assertOrdered(t, n.right, &n.key, hi)
}

func TestInsertHeightGrowth(t *testing.T) {
	keys := []int{-5, 10, 7, -2, 0, -8, -5, 6, -4, 1}
	tests := []struct {
		name string
		kind Kind
		want []int
	}{
		{"bst grows unbalanced", BST, []int{1, 2, 3, 4, 5, 5, 5, 6, 6, 7}},
		{"avl stays balanced", AVL, []int{1, 2, 2, 3, 3, 3, 3, 4, 4, 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewKeys[int](tc.kind, true)
			for i, k := range keys {
				if !tr.InsertKey(k) {
					t.Fatalf("insert %d rejected", k)
				}
				if got := tr.Height(); got != tc.want[i] {
					t.Errorf("height after inserting %d: got %d, want %d", k, got, tc.want[i])
				}
			}
			if tr.Count() != len(keys) {
				t.Errorf("count: got %d, want %d", tr.Count(), len(keys))
			}
			if got := tr.CountKey(-5); got != 2 {
				t.Errorf("CountKey(-5): got %d, want 2", got)
			}
			assertOrdered(t, tr.root, nil, nil)
		})
	}
}

func TestDuplicateSeparatedByIntermediateNode(t *testing.T) {
	// The second -5 is not adjacent to the first: in the BST it lands
	// below -8 (root.left.right), so lookups must keep walking past
	// non-equal keys after the descend-left step.
	keys := []int{-5, 10, 7, -2, 0, -8, -5, 6, -4, 1}
	for _, kind := range []Kind{BST, AVL} {
		t.Run(kind.String(), func(t *testing.T) {
			tr := New[int, string](kind, true)
			for i, k := range keys {
				tr.Insert(k, string(rune('a'+i)))
			}
			if got := tr.CountKey(-5); got != 2 {
				t.Errorf("CountKey(-5): got %d, want 2", got)
			}
			if e, ok := tr.Search(-5, false); !ok || e.Value != "a" {
				t.Errorf("first encounter: got (%v, %v), want (a, true)", e.Value, ok)
			}
			if e, ok := tr.Search(-5, true); !ok || e.Value != "g" {
				t.Errorf("last encounter: got (%v, %v), want (g, true)", e.Value, ok)
			}
			if got := tr.CountValue(-5, "g"); got != 1 {
				t.Errorf("CountValue(-5, g): got %d, want 1", got)
			}
		})
	}
}

func TestDuplicatePolicy(t *testing.T) {
	for _, kind := range []Kind{BST, AVL} {
		t.Run(kind.String(), func(t *testing.T) {
			tr := New[int, string](kind, false)
			if !tr.Insert(5, "a") {
				t.Fatal("first insert rejected")
			}
			if tr.Insert(5, "b") {
				t.Error("duplicate key accepted with duplicates disallowed")
			}
			if tr.Count() != 1 {
				t.Errorf("count: got %d, want 1", tr.Count())
			}
			e, ok := tr.Search(5, false)
			if !ok || e.Value != "a" {
				t.Errorf("search: got (%v, %v), want (a, true)", e.Value, ok)
			}
		})
	}
}

func TestSearchEncounterOrder(t *testing.T) {
	for _, kind := range []Kind{BST, AVL} {
		t.Run(kind.String(), func(t *testing.T) {
			tr := New[int, string](kind, true)
			tr.Insert(5, "a")
			tr.Insert(5, "b")
			tr.Insert(5, "c")

			if e, ok := tr.Search(5, false); !ok || e.Value != "a" {
				t.Errorf("first encounter: got (%v, %v), want (a, true)", e.Value, ok)
			}
			if e, ok := tr.Search(5, true); !ok || e.Value != "c" {
				t.Errorf("last encounter: got (%v, %v), want (c, true)", e.Value, ok)
			}
			if _, ok := tr.Search(6, false); ok {
				t.Error("found a key never inserted")
			}
			if e, ok := tr.SearchValue(5, "b", false); !ok || e.Value != "b" {
				t.Errorf("search by value: got (%v, %v), want (b, true)", e.Value, ok)
			}
			if _, ok := tr.SearchValue(5, "z", false); ok {
				t.Error("found a value never inserted")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	t.Run("missing key removes nothing", func(t *testing.T) {
		for _, kind := range []Kind{BST, AVL} {
			tr := NewKeys[int](kind, true)
			tr.InsertKeys([]int{1, 2, 3})
			if got := tr.Remove(7, false); got != 0 {
				t.Errorf("%v: removed %d from a tree without the key", kind, got)
			}
			if tr.Count() != 3 {
				t.Errorf("%v: count changed on a no-op removal", kind)
			}
		}
	})

	t.Run("remove all equal keys", func(t *testing.T) {
		for _, kind := range []Kind{BST, AVL} {
			tr := NewKeys[int](kind, true)
			tr.InsertKeys([]int{7, 7, 7})
			if got := tr.Remove(7, true); got != 3 {
				t.Errorf("%v: removed %d, want 3", kind, got)
			}
			if !tr.IsEmpty() {
				t.Errorf("%v: tree not empty after removing every entry", kind)
			}
			if got := tr.Remove(7, true); got != 0 {
				t.Errorf("%v: second removal removed %d, want 0", kind, got)
			}
		}
	})

	t.Run("single removal leaves remaining duplicates", func(t *testing.T) {
		for _, kind := range []Kind{BST, AVL} {
			tr := NewKeys[int](kind, true)
			tr.InsertKeys([]int{7, 7, 7})
			if got := tr.Remove(7, false); got != 1 {
				t.Errorf("%v: removed %d, want 1", kind, got)
			}
			if got := tr.CountKey(7); got != 2 {
				t.Errorf("%v: %d entries left, want 2", kind, got)
			}
		}
	})

	t.Run("avl pops oldest duplicate first", func(t *testing.T) {
		tr := New[int, string](AVL, true)
		tr.Insert(5, "a")
		tr.Insert(5, "b")
		tr.Insert(5, "c")
		if got := tr.Remove(5, false); got != 1 {
			t.Fatalf("removed %d, want 1", got)
		}
		if e, _ := tr.Search(5, false); e.Value != "b" {
			t.Errorf("first encounter after removal: got %v, want b", e.Value)
		}
		if e, _ := tr.Search(5, true); e.Value != "c" {
			t.Errorf("last encounter after removal: got %v, want c", e.Value)
		}
		if tr.Height() != 1 {
			t.Errorf("height changed on a duplicate-only removal")
		}
	})

	t.Run("interior node removal keeps order", func(t *testing.T) {
		for _, kind := range []Kind{BST, AVL} {
			tr := NewKeys[int](kind, true)
			tr.InsertKeys([]int{50, 20, 70, 10, 30, 60, 90, 25, 35, 80})
			tr.Remove(70, false) // two children, successor is a leftmost grandchild
			tr.Remove(20, false) // two children, successor is the right child path
			tr.Remove(10, false) // leaf
			assertOrdered(t, tr.root, nil, nil)
			if tr.Count() != 7 {
				t.Errorf("%v: count %d after three removals, want 7", kind, tr.Count())
			}
			want := []int{25, 30, 35, 50, 60, 80, 90}
			if got := tr.SortedKeys(false); !slices.Equal(got, want) {
				t.Errorf("%v: sorted keys %v, want %v", kind, got, want)
			}
		}
	})
}

func TestRemoveValue(t *testing.T) {
	for _, kind := range []Kind{BST, AVL} {
		t.Run(kind.String(), func(t *testing.T) {
			tr := New[int, string](kind, true)
			tr.Insert(5, "a")
			tr.Insert(5, "b")
			tr.Insert(5, "a")
			tr.Insert(5, "c")

			if got := tr.RemoveValue(5, "a", true); got != 2 {
				t.Fatalf("removed %d entries valued a, want 2", got)
			}
			if got := tr.CountKey(5); got != 2 {
				t.Errorf("%d entries left, want 2", got)
			}
			if e, _ := tr.Search(5, false); e.Value != "b" {
				t.Errorf("first encounter: got %v, want b", e.Value)
			}
			if got := tr.RemoveValue(5, "z", false); got != 0 {
				t.Errorf("removed %d entries of an absent value", got)
			}
		})
	}
}

func TestMinMax(t *testing.T) {
	for _, kind := range []Kind{BST, AVL} {
		t.Run(kind.String(), func(t *testing.T) {
			tr := New[int, string](kind, true)
			if _, ok := tr.Min(); ok {
				t.Error("empty tree reported a minimum")
			}
			tr.Insert(4, "mid")
			tr.Insert(1, "first-min")
			tr.Insert(9, "first-max")
			tr.Insert(1, "second-min")
			tr.Insert(9, "second-max")

			if e, _ := tr.Min(); e.Key != 1 || e.Value != "second-min" {
				t.Errorf("min: got (%v, %v), want (1, second-min)", e.Key, e.Value)
			}
			if e, _ := tr.Max(); e.Key != 9 || e.Value != "first-max" {
				t.Errorf("max: got (%v, %v), want (9, first-max)", e.Key, e.Value)
			}
		})
	}
}

func TestSortedEntries(t *testing.T) {
	insert := func(kind Kind) *Tree[int, string] {
		tr := New[int, string](kind, true)
		tr.Insert(5, "a")
		tr.Insert(2, "x")
		tr.Insert(8, "y")
		tr.Insert(5, "b")
		tr.Insert(5, "c")
		return tr
	}

	want := []Entry[int, string]{
		{2, "x"}, {5, "c"}, {5, "b"}, {5, "a"}, {8, "y"},
	}
	for _, kind := range []Kind{BST, AVL} {
		tr := insert(kind)
		if got := tr.SortedEntries(false); !slices.Equal(got, want) {
			t.Errorf("%v ascending: got %v, want %v", kind, got, want)
		}
	}

	wantDesc := []Entry[int, string]{
		{8, "y"}, {5, "a"}, {5, "b"}, {5, "c"}, {2, "x"},
	}
	for _, kind := range []Kind{BST, AVL} {
		tr := insert(kind)
		if got := tr.SortedEntries(true); !slices.Equal(got, wantDesc) {
			t.Errorf("%v descending: got %v, want %v", kind, got, wantDesc)
		}
	}
}

func TestCounts(t *testing.T) {
	for _, kind := range []Kind{BST, AVL} {
		t.Run(kind.String(), func(t *testing.T) {
			tr := New[int, string](kind, true)
			tr.Insert(5, "a")
			tr.Insert(5, "b")
			tr.Insert(5, "a")
			tr.Insert(3, "a")

			if got := tr.Count(); got != 4 {
				t.Errorf("Count: got %d, want 4", got)
			}
			if got := tr.CountKey(5); got != 3 {
				t.Errorf("CountKey(5): got %d, want 3", got)
			}
			if got := tr.CountValue(5, "a"); got != 2 {
				t.Errorf("CountValue(5, a): got %d, want 2", got)
			}
			if got := tr.CountKey(9); got != 0 {
				t.Errorf("CountKey(9): got %d, want 0", got)
			}
		})
	}
}

func TestItemsRecreateTree(t *testing.T) {
	for _, kind := range []Kind{BST, AVL} {
		t.Run(kind.String(), func(t *testing.T) {
			tr := New[int, string](kind, true)
			for i, k := range []int{50, 20, 70, 20, 10, 90, 60, 20} {
				tr.Insert(k, string(rune('a'+i)))
			}
			c := tr.Copy()
			if c.Count() != tr.Count() {
				t.Fatalf("copy count %d, want %d", c.Count(), tr.Count())
			}
			if got, want := c.String(), tr.String(); got != want {
				t.Errorf("copy renders differently:\n%s\nwant:\n%s", got, want)
			}
			if !slices.Equal(c.SortedEntries(false), tr.SortedEntries(false)) {
				t.Error("copy entries differ from original")
			}
			// Mutating the copy must not touch the original.
			c.Clear()
			if tr.IsEmpty() {
				t.Error("clearing the copy emptied the original")
			}
		})
	}
}

func TestClear(t *testing.T) {
	tr := FromKeys(AVL, []int{3, 1, 2}, true)
	tr.Clear()
	if !tr.IsEmpty() || tr.Count() != 0 || tr.Height() != 0 {
		t.Errorf("clear left state behind: count %d height %d", tr.Count(), tr.Height())
	}
	if !tr.InsertKey(7) {
		t.Error("insert after clear rejected")
	}
}
