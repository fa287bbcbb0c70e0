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
	"path/filepath"
	"strings"
	"testing"
)

func newTestSession(t *testing.T, kind string, withValues, allowDup bool) *Session {
	t.Helper()
	config := &Config{
		Tree: TreeConfig{
			Kind:            kind,
			WithValues:      withValues,
			AllowDuplicates: allowDup,
		},
	}
	session, err := NewSession(config, NewSnapshotCache())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func TestExecCommands(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		withValues bool
		allowDup   bool
		setup      []string
		cmd        string
		want       string
	}{
		{
			name:       "insert key value pair",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			cmd:        "insert 5 apple",
			want:       "Inserted (5, apple)",
		},
		{
			name:       "insert key only",
			kind:       "bst",
			withValues: false,
			allowDup:   true,
			cmd:        "insert 5",
			want:       "Inserted 5",
		},
		{
			name:       "insert missing value in valued session",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			cmd:        "insert 5",
			want:       "insert K V",
		},
		{
			name:       "duplicate rejected when disallowed",
			kind:       "avl",
			withValues: true,
			allowDup:   false,
			setup:      []string{"insert 5 a"},
			cmd:        "insert 5 b",
			want:       "duplicates are off",
		},
		{
			name:       "quoted value with spaces",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			cmd:        `insert 5 "red apple"`,
			want:       "Inserted (5, red apple)",
		},
		{
			name:       "search last encounter",
			kind:       "bst",
			withValues: true,
			allowDup:   true,
			setup:      []string{"insert 5 a", "insert 5 b", "insert 5 c"},
			cmd:        "search 5 last",
			want:       "Found (5, c)",
		},
		{
			name:       "search miss",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			setup:      []string{"insert 5 a"},
			cmd:        "search 9",
			want:       "No entry for key 9",
		},
		{
			name:       "remove all duplicates",
			kind:       "avl",
			withValues: false,
			allowDup:   true,
			setup:      []string{"insert 7", "insert 7", "insert 7"},
			cmd:        "remove 7 all",
			want:       "Removed 3 entries",
		},
		{
			name:       "remove by value",
			kind:       "bst",
			withValues: true,
			allowDup:   true,
			setup:      []string{"insert 5 a", "insert 5 b", "insert 5 a"},
			cmd:        "remove 5 a all",
			want:       "Removed 2 entries",
		},
		{
			name:       "count by key",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			setup:      []string{"insert 5 a", "insert 5 b", "insert 3 c"},
			cmd:        "count 5",
			want:       "2 entries with key 5",
		},
		{
			name:       "keys descending",
			kind:       "bst",
			withValues: false,
			allowDup:   true,
			setup:      []string{"insert 2", "insert 9", "insert 5"},
			cmd:        "keys desc",
			want:       "9, 5, 2",
		},
		{
			name:       "min on empty tree",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			cmd:        "min",
			want:       "empty",
		},
		{
			name:       "max reports largest key",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			setup:      []string{"insert 2 a", "insert 9 b"},
			cmd:        "max",
			want:       "Max: (9, b)",
		},
		{
			name:       "new resets configuration",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			setup:      []string{"insert 5 a"},
			cmd:        "new bst novalues nodups",
			want:       "bst · key-only · duplicates off · 0 entries",
		},
		{
			name:       "non-integer key",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			cmd:        "insert apple 5",
			want:       "not an integer",
		},
		{
			name:       "unknown command",
			kind:       "avl",
			withValues: true,
			allowDup:   true,
			cmd:        "frobnicate",
			want:       "Unknown command",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := newTestSession(t, tc.kind, tc.withValues, tc.allowDup)
			for _, line := range tc.setup {
				if msg, _ := session.Exec(line); strings.Contains(msg, "❌") {
					t.Fatalf("setup %q failed: %s", line, msg)
				}
			}
			msg, quit := session.Exec(tc.cmd)
			if quit {
				t.Fatalf("%q asked to quit", tc.cmd)
			}
			if !strings.Contains(msg, tc.want) {
				t.Errorf("Exec(%q) = %q, want it to mention %q", tc.cmd, msg, tc.want)
			}
		})
	}
}

func TestExecQuit(t *testing.T) {
	session := newTestSession(t, "avl", true, true)
	if _, quit := session.Exec("quit"); !quit {
		t.Error("quit did not end the session")
	}
	if _, quit := session.Exec("insert 5 a"); quit {
		t.Error("insert ended the session")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")

	session := newTestSession(t, "avl", true, true)
	for _, line := range []string{"insert 5 a", "insert 2 b", "insert 8 c", "insert 5 d"} {
		session.Exec(line)
	}
	if msg, _ := session.Exec("save " + path); !strings.Contains(msg, "Saved 4 entries") {
		t.Fatalf("save: %s", msg)
	}

	// A fresh session with an independent cache must rebuild from disk.
	other := newTestSession(t, "avl", true, true)
	if msg, _ := other.Exec("load " + path); !strings.Contains(msg, "Loaded 4 entries") {
		t.Fatalf("load: %s", msg)
	}
	if got, want := other.Diagram(), session.Diagram(); got != want {
		t.Errorf("loaded tree renders differently:\n%s\nwant:\n%s", got, want)
	}

	// The save primed the first session's cache.
	if GetSnapshot(session.snapCache, path) == nil {
		t.Error("save did not cache the snapshot")
	}
}

func TestLoadPreservesDuplicatePolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodups.bin")

	strict := newTestSession(t, "bst", true, false)
	strict.Exec("insert 5 a")
	strict.Exec("save " + path)

	loose := newTestSession(t, "bst", true, true)
	loose.Exec("load " + path)
	if msg, _ := loose.Exec("insert 5 b"); !strings.Contains(msg, "duplicates are off") {
		t.Errorf("loaded tree forgot its duplicate policy: %s", msg)
	}
}

func TestParseKind(t *testing.T) {
	if _, err := parseKind("splay"); err == nil {
		t.Error("accepted an unknown kind")
	}
	for _, s := range []string{"bst", "BST", "avl", "AVL"} {
		if _, err := parseKind(s); err != nil {
			t.Errorf("rejected %q: %v", s, err)
		}
	}
}
