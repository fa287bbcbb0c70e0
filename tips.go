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

package main

import (
	"math/rand"
)

var tips = []string{
	"An AVL tree never lets one subtree grow more than one level past its sibling",
	"Duplicate keys sit in the left subtree of their equal key, so the newest comes out first",
	"'search 5 last' returns the most recently inserted of the equal keys",
	"In an AVL session duplicates pile onto one node: look for the C count in the diagram",
	"A BST built from sorted input degrades to a list; 'new avl' keeps it balanced",
	"'remove 7 all' clears every entry keyed 7 in one command",
	"Snapshots replay in level order, so a load rebuilds the exact same shape",
	"BF in the diagram is height(right) minus height(left)",
	"'count 5 apple' tells you how many (5, apple) entries exist",
	"Autosave in ~/.keytree.yaml writes the default path after every change",
	"The minimum of an AVL tree answers with its newest duplicate",
	"'keys desc' walks the tree right-to-left",
}

func randomTip() string {
	return tips[rand.Intn(len(tips))]
}
