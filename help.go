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
	"fmt"
	"runtime"

	markdown "github.com/MichaelMure/go-term-markdown"
)

func getHelpMessage() string {
	message := fmt.Sprintf(`

 **Keytree %s**

An interactive console for ordered key/value trees. Build, search and persist
binary search trees and AVL trees and watch every rotation as it happens.

Built with Go %s

# 1. Features
* Two balancing strategies per session: plain BST order or height-balanced AVL
* Key-only or key/value trees, with or without duplicate keys
* First/last-encounter search across duplicates
* Binary snapshots that rebuild the exact tree shape on load
* Live ASCII tree diagram with balance factors and duplicate counts

# 2. Sessions
Pick the configuration in ~/.keytree.yaml or per run with flags:
* keytree run --kind bst --no-values
* keytree run --load mytree.bin

# 3. Console commands
Run 'help' inside the console for the full command reference:
insert, remove, search, count, min, max, keys, clear, new, save, load, quit.

# Please be aware
* Copy to clipboard feature on Linux or Unix requires 'xclip' or 'xsel' command to be installed

# License
Licensed under the Apache License, Version 2.0
Copyright © 2025 Naren Yellavula

`, version, runtime.Version())
	result := markdown.Render(string(message), 80, 3)
	return string(result)
}
