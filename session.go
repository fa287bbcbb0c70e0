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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/patrickmn/go-cache"
	"github.com/schollz/progressbar/v3"

	"github.com/cybrota/keytree/tree"
)

// Snapshot is a decoded save file: the duplicate policy plus the
// level-order items. Cached per path so repeated loads skip the decode.
type Snapshot struct {
	AllowDup bool
	KeyOnly  bool
	Keys     []int
	Pairs    []tree.Entry[int, string]
}

// Session holds one interactive tree in one of the four configurations
// (key-only or key/value, BST or AVL). Exactly one of keys/pairs is
// non-nil, selected by withValues.
type Session struct {
	kind       tree.Kind
	withValues bool
	allowDup   bool

	keys  *tree.Tree[int, struct{}]
	pairs *tree.Tree[int, string]

	snapCache *cache.Cache
	savePath  string
	autosave  bool
}

func parseKind(s string) (tree.Kind, error) {
	switch strings.ToLower(s) {
	case "bst":
		return tree.BST, nil
	case "avl":
		return tree.AVL, nil
	default:
		return tree.BST, fmt.Errorf("unknown tree kind %q (want bst or avl)", s)
	}
}

// NewSession builds a session from the loaded configuration.
func NewSession(config *Config, snapCache *cache.Cache) (*Session, error) {
	kind, err := parseKind(config.Tree.Kind)
	if err != nil {
		return nil, err
	}
	s := &Session{
		snapCache: snapCache,
		savePath:  config.Storage.DefaultPath,
		autosave:  config.Storage.Autosave,
	}
	s.reset(kind, config.Tree.WithValues, config.Tree.AllowDuplicates)
	return s, nil
}

func (s *Session) reset(kind tree.Kind, withValues, allowDup bool) {
	s.kind = kind
	s.withValues = withValues
	s.allowDup = allowDup
	if withValues {
		s.pairs = tree.New[int, string](kind, allowDup)
		s.keys = nil
	} else {
		s.keys = tree.NewKeys[int](kind, allowDup)
		s.pairs = nil
	}
}

func (s *Session) Diagram() string {
	if s.withValues {
		return s.pairs.String()
	}
	return s.keys.String()
}

func (s *Session) count() int {
	if s.withValues {
		return s.pairs.Count()
	}
	return s.keys.Count()
}

func (s *Session) height() int {
	if s.withValues {
		return s.pairs.Height()
	}
	return s.keys.Height()
}

// Summary is the one-line status shown under the diagram.
func (s *Session) Summary() string {
	shape := "key/value"
	if !s.withValues {
		shape = "key-only"
	}
	dups := "duplicates on"
	if !s.allowDup {
		dups = "duplicates off"
	}
	return fmt.Sprintf("%s · %s · %s · %d entries · height %d",
		s.kind, shape, dups, s.count(), s.height())
}

// Exec runs one console command line and returns the message to show
// plus whether the session should end. Mutating commands trigger an
// autosave when configured.
func (s *Session) Exec(line string) (msg string, quit bool) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Sprintf("❌ %v", err), false
	}
	if len(args) == 0 {
		return "", false
	}
	verb := strings.ToLower(args[0])
	args = args[1:]

	mutating := false
	switch verb {
	case "insert":
		msg = s.execInsert(args)
		mutating = true
	case "remove":
		msg = s.execRemove(args)
		mutating = true
	case "search":
		msg = s.execSearch(args)
	case "count":
		msg = s.execCount(args)
	case "min":
		msg = s.execMinMax(true)
	case "max":
		msg = s.execMinMax(false)
	case "keys":
		msg = s.execKeys(args)
	case "clear":
		s.reset(s.kind, s.withValues, s.allowDup)
		msg = "🧹 Cleared the tree"
		mutating = true
	case "new":
		msg = s.execNew(args)
	case "save":
		msg = s.execSave(args)
	case "load":
		msg = s.execLoad(args)
	case "help":
		msg = commandReference
	case "quit", "exit":
		return "", true
	default:
		msg = fmt.Sprintf("❌ Unknown command %q (try 'help')", verb)
	}

	if mutating && s.autosave && s.savePath != "" {
		if _, err := s.saveFile(s.savePath); err != nil {
			msg += fmt.Sprintf("\n⚠️  Autosave failed: %v", err)
		}
	}
	return msg, false
}

func (s *Session) parseKey(raw string) (int, error) {
	key, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("key %q is not an integer", raw)
	}
	return key, nil
}

func (s *Session) execInsert(args []string) string {
	if len(args) == 0 {
		return "❌ Usage: insert K [V]"
	}
	key, err := s.parseKey(args[0])
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}

	if s.withValues {
		if len(args) != 2 {
			return "❌ This session carries values: insert K V"
		}
		if !s.pairs.Insert(key, args[1]) {
			return fmt.Sprintf("🚫 Key %d already exists and duplicates are off", key)
		}
		return fmt.Sprintf("✅ Inserted (%d, %s)", key, args[1])
	}

	if len(args) != 1 {
		return "❌ This session is key-only: insert K"
	}
	if !s.keys.InsertKey(key) {
		return fmt.Sprintf("🚫 Key %d already exists and duplicates are off", key)
	}
	return fmt.Sprintf("✅ Inserted %d", key)
}

// popFlag removes flag from the end of args when present.
func popFlag(args []string, flag string) ([]string, bool) {
	if n := len(args); n > 0 && strings.EqualFold(args[n-1], flag) {
		return args[:n-1], true
	}
	return args, false
}

func (s *Session) execRemove(args []string) string {
	args, all := popFlag(args, "all")
	if len(args) == 0 {
		return "❌ Usage: remove K [V] [all]"
	}
	key, err := s.parseKey(args[0])
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}

	var removed int
	switch {
	case len(args) == 1:
		if s.withValues {
			removed = s.pairs.Remove(key, all)
		} else {
			removed = s.keys.Remove(key, all)
		}
	case len(args) == 2 && s.withValues:
		removed = s.pairs.RemoveValue(key, args[1], all)
	default:
		return "❌ Usage: remove K [V] [all]"
	}

	if removed == 0 {
		return fmt.Sprintf("🔍 Nothing matching key %d to remove", key)
	}
	return fmt.Sprintf("🗑️  Removed %d entries", removed)
}

func (s *Session) execSearch(args []string) string {
	args, last := popFlag(args, "last")
	if len(args) == 0 {
		return "❌ Usage: search K [V] [last]"
	}
	key, err := s.parseKey(args[0])
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}

	if s.withValues {
		var e tree.Entry[int, string]
		var ok bool
		switch len(args) {
		case 1:
			e, ok = s.pairs.Search(key, last)
		case 2:
			e, ok = s.pairs.SearchValue(key, args[1], last)
		default:
			return "❌ Usage: search K [V] [last]"
		}
		if !ok {
			return fmt.Sprintf("🔍 No entry for key %d", key)
		}
		return fmt.Sprintf("🎯 Found (%d, %s)", e.Key, e.Value)
	}

	if len(args) != 1 {
		return "❌ This session is key-only: search K [last]"
	}
	if _, ok := s.keys.Search(key, last); !ok {
		return fmt.Sprintf("🔍 No entry for key %d", key)
	}
	return fmt.Sprintf("🎯 Found %d", key)
}

func (s *Session) execCount(args []string) string {
	switch len(args) {
	case 0:
		return fmt.Sprintf("🧮 %d entries total", s.count())
	case 1:
		key, err := s.parseKey(args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		var n int
		if s.withValues {
			n = s.pairs.CountKey(key)
		} else {
			n = s.keys.CountKey(key)
		}
		return fmt.Sprintf("🧮 %d entries with key %d", n, key)
	case 2:
		if !s.withValues {
			return "❌ This session is key-only: count [K]"
		}
		key, err := s.parseKey(args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		n := s.pairs.CountValue(key, args[1])
		return fmt.Sprintf("🧮 %d entries with (%d, %s)", n, key, args[1])
	default:
		return "❌ Usage: count [K [V]]"
	}
}

func (s *Session) execMinMax(wantMin bool) string {
	label := "Max"
	if wantMin {
		label = "Min"
	}
	if s.withValues {
		var e tree.Entry[int, string]
		var ok bool
		if wantMin {
			e, ok = s.pairs.Min()
		} else {
			e, ok = s.pairs.Max()
		}
		if !ok {
			return "🫙 The tree is empty"
		}
		return fmt.Sprintf("🎯 %s: (%d, %s)", label, e.Key, e.Value)
	}
	var e tree.Entry[int, struct{}]
	var ok bool
	if wantMin {
		e, ok = s.keys.Min()
	} else {
		e, ok = s.keys.Max()
	}
	if !ok {
		return "🫙 The tree is empty"
	}
	return fmt.Sprintf("🎯 %s: %d", label, e.Key)
}

func (s *Session) execKeys(args []string) string {
	args, desc := popFlag(args, "desc")
	if len(args) != 0 {
		return "❌ Usage: keys [desc]"
	}
	var keys []int
	if s.withValues {
		keys = s.pairs.SortedKeys(desc)
	} else {
		keys = s.keys.SortedKeys(desc)
	}
	if len(keys) == 0 {
		return "🫙 The tree is empty"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Itoa(k)
	}
	return "🔑 " + strings.Join(parts, ", ")
}

func (s *Session) execNew(args []string) string {
	if len(args) == 0 {
		return "❌ Usage: new <bst|avl> [novalues] [nodups]"
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	withValues, allowDup := true, true
	for _, opt := range args[1:] {
		switch strings.ToLower(opt) {
		case "novalues":
			withValues = false
		case "nodups":
			allowDup = false
		default:
			return fmt.Sprintf("❌ Unknown option %q (want novalues or nodups)", opt)
		}
	}
	s.reset(kind, withValues, allowDup)
	return fmt.Sprintf("🌱 Started a fresh tree: %s", s.Summary())
}

func (s *Session) execSave(args []string) string {
	path := s.savePath
	if len(args) == 1 {
		path = args[0]
	} else if len(args) > 1 {
		return "❌ Usage: save [path]"
	}
	if path == "" {
		return "❌ No save path: pass one or set storage.default_path"
	}
	n, err := s.saveFile(path)
	if err != nil {
		return fmt.Sprintf("❌ Save failed: %v", err)
	}
	return fmt.Sprintf("💾 Saved %d entries to %s", n, path)
}

func (s *Session) execLoad(args []string) string {
	if len(args) != 1 {
		return "❌ Usage: load <path>"
	}
	n, err := s.loadFile(args[0])
	if err != nil {
		return fmt.Sprintf("❌ Load failed: %v", err)
	}
	return fmt.Sprintf("📦 Loaded %d entries from %s", n, args[0])
}

func (s *Session) saveFile(path string) (int, error) {
	var err error
	if s.withValues {
		err = s.pairs.Serialize(path, true)
	} else {
		err = s.keys.Serialize(path, true)
	}
	if err != nil {
		return 0, err
	}
	// Refresh the cache so a later load of this path skips the decode.
	CacheSnapshot(s.snapCache, path, s.snapshot())
	return s.count(), nil
}

func (s *Session) snapshot() *Snapshot {
	snap := &Snapshot{AllowDup: s.allowDup, KeyOnly: !s.withValues}
	if s.withValues {
		snap.Pairs = s.pairs.Items()
	} else {
		for _, e := range s.keys.Items() {
			snap.Keys = append(snap.Keys, e.Key)
		}
	}
	return snap
}

func (s *Session) loadFile(path string) (int, error) {
	if snap := GetSnapshot(s.snapCache, path); snap != nil && snap.KeyOnly == !s.withValues {
		s.restore(snap, path)
		return s.count(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	snap := &Snapshot{KeyOnly: !s.withValues}
	if s.withValues {
		snap.AllowDup, snap.Pairs, err = tree.ReadItems[int, string](r, false)
	} else {
		var items []tree.Entry[int, struct{}]
		snap.AllowDup, items, err = tree.ReadItems[int, struct{}](r, true)
		for _, e := range items {
			snap.Keys = append(snap.Keys, e.Key)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	s.restore(snap, path)
	CacheSnapshot(s.snapCache, path, snap)
	return s.count(), nil
}

// Show a progress bar only for loads big enough to be felt.
const loadBarThreshold = 500

func newLoadBar(total int, path string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("🌳 Loading %s...", filepath.Base(path))),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Printf("\n✅ Load completed!\n")
		}),
	)
}

// restore rebuilds the session's tree from a snapshot by re-insertion,
// which recreates the saved shape exactly.
func (s *Session) restore(snap *Snapshot, path string) {
	s.allowDup = snap.AllowDup
	if s.withValues {
		t := tree.New[int, string](s.kind, snap.AllowDup)
		var bar *progressbar.ProgressBar
		if len(snap.Pairs) >= loadBarThreshold {
			bar = newLoadBar(len(snap.Pairs), path)
		}
		for _, e := range snap.Pairs {
			t.Insert(e.Key, e.Value)
			if bar != nil {
				bar.Add(1)
			}
		}
		if bar != nil {
			bar.Finish()
		}
		s.pairs = t
		return
	}
	t := tree.NewKeys[int](s.kind, snap.AllowDup)
	var bar *progressbar.ProgressBar
	if len(snap.Keys) >= loadBarThreshold {
		bar = newLoadBar(len(snap.Keys), path)
	}
	for _, k := range snap.Keys {
		t.InsertKey(k)
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	s.keys = t
}

// commandReference is the in-console help, rendered through glamour in
// the UI and printed raw by tests.
const commandReference = `# Commands

| Command | Effect |
| --- | --- |
| insert K [V] | Add an entry (value required in key/value sessions) |
| remove K [V] [all] | Remove the first match, or every match with 'all' |
| search K [V] [last] | Find the first match, or the newest with 'last' |
| count [K [V]] | Total entries, entries per key, or per key/value |
| min / max | Smallest / largest key |
| keys [desc] | All keys in order |
| clear | Empty the tree, keeping its configuration |
| new <bst\|avl> [novalues] [nodups] | Start a fresh tree |
| save [path] | Write the tree to a snapshot file |
| load <path> | Rebuild the tree from a snapshot file |
| quit | Leave the console |
`
