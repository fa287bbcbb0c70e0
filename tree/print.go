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
	"strings"
)

// String renders the tree as a multi-line diagram, one line per level,
// nodes laid out on a grid of fixed-width cells so every parent sits
// centered above its two child slots. An empty tree renders as a single
// summary line.
func (t *Tree[K, V]) String() string {
	if t.root == nil {
		return "Empty-Tree<Size = 0, Height = 0>"
	}
	h := t.Height()
	var b strings.Builder
	fmt.Fprintf(&b, "Tree<Size = %d, Height = %d>:\n", t.count, h)
	cell := t.maxRenderLength()
	var nodes []*node[K, V]
	for level := 0; level < h; level++ {
		nodes = t.nodesAtLevel(level, nodes)
		b.WriteString(t.levelString(nodes, level, h, cell))
		b.WriteByte('\n')
	}
	return b.String()
}

// maxRenderLength is the widest rendered node string in the tree; every
// grid cell of the diagram is this wide.
func (t *Tree[K, V]) maxRenderLength() int {
	return maxRenderLength(t.root, t.kind, t.keyOnly)
}

func maxRenderLength[K cmp.Ordered, V comparable](n *node[K, V], kind Kind, keyOnly bool) int {
	if n == nil {
		return 0
	}
	w := len(n.render(kind, keyOnly))
	return max(w, maxRenderLength(n.left, kind, keyOnly), maxRenderLength(n.right, kind, keyOnly))
}

// paddingInterSpacing returns, in grid cells, the leading padding before
// a level's first slot and the gap between consecutive slots. The bottom
// level packs its slots one cell apart with no padding; each level above
// centers its slots over the pairs below. between is measured only when
// a level has more than one slot.
func paddingInterSpacing(level, height int) (pad, between int) {
	if level == height-1 {
		return 0, 1
	}
	nextPad, nextBetween := paddingInterSpacing(level+1, height)
	pad = nextPad + (nextBetween-1)/2 + 1
	if level > 0 {
		between = ((1 << height) - (1 << level) - 2*pad - 1) / ((1 << level) - 1)
	}
	return pad, between
}

// levelString lays one level's slots onto the cell grid. Empty slots
// keep their cell so the column alignment carries down the diagram;
// trailing blank cells are trimmed.
func (t *Tree[K, V]) levelString(nodes []*node[K, V], level, height, cell int) string {
	pad, between := paddingInterSpacing(level, height)
	blank := strings.Repeat(" ", cell)
	var b strings.Builder
	for i := 0; i < pad; i++ {
		b.WriteString(blank)
	}
	for i, n := range nodes {
		if i > 0 {
			for j := 0; j < between; j++ {
				b.WriteString(blank)
			}
		}
		if n == nil {
			b.WriteString(blank)
			continue
		}
		s := n.render(t.kind, t.keyOnly)
		b.WriteString(s)
		b.WriteString(strings.Repeat(" ", cell-len(s)))
	}
	return strings.TrimRight(b.String(), " ")
}
