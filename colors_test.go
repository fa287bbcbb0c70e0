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

import "testing"

func TestDetectTerminalMode(t *testing.T) {
	tests := []struct {
		name      string
		colorfgbg string
		want      TerminalMode
	}{
		{"dark background", "15;0", TerminalModeDark},
		{"light background", "0;15", TerminalModeLight},
		{"unset defaults to dark", "", TerminalModeDark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COLORFGBG", tt.colorfgbg)
			t.Setenv("TERM_THEME", "")
			t.Setenv("THEME", "")
			if got := detectTerminalMode(); got != tt.want {
				t.Errorf("detectTerminalMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetANSIColorsPerMode(t *testing.T) {
	saved := detectedMode
	defer func() { detectedMode = saved }()

	detectedMode = TerminalModeLight
	success, errorCode, reset := GetANSIColors()
	if success != "\033[32m" || errorCode != "\033[31m" {
		t.Errorf("light mode codes: got (%q, %q)", success, errorCode)
	}
	if reset != "\033[0m" {
		t.Errorf("reset code: got %q", reset)
	}

	detectedMode = TerminalModeDark
	success, errorCode, _ = GetANSIColors()
	if success != "\033[92m" || errorCode != "\033[91m" {
		t.Errorf("dark mode codes: got (%q, %q)", success, errorCode)
	}
}

func TestInitializeColorsSetsPackageVars(t *testing.T) {
	saved := detectedMode
	savedGreen, savedError, savedReset := Green, Error, Reset
	defer func() {
		detectedMode = saved
		Green, Error, Reset = savedGreen, savedError, savedReset
	}()

	t.Setenv("COLORFGBG", "0;15")
	t.Setenv("TERM_THEME", "")
	t.Setenv("THEME", "")
	InitializeColors()
	if Green != "\033[32m" || Error != "\033[31m" || Reset != "\033[0m" {
		t.Errorf("light terminal vars: got (%q, %q, %q)", Green, Error, Reset)
	}
}
