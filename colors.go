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
	"os"
	"strings"
)

type TerminalMode int

const (
	TerminalModeUnknown TerminalMode = iota
	TerminalModeLight
	TerminalModeDark
)

var detectedMode TerminalMode

// ANSI color codes used for plain (non-TUI) terminal output. Defaults
// suit dark terminals; InitializeColors adapts them to the detected
// mode.
var (
	Green = "\033[92m"
	Error = "\033[91m"
	Reset = "\033[0m"
)

// detectTerminalMode attempts to detect whether the terminal is in light or dark mode
func detectTerminalMode() TerminalMode {
	// COLORFGBG format is typically "foreground;background"; higher
	// background numbers usually indicate dark mode
	if colorScheme := os.Getenv("COLORFGBG"); colorScheme != "" {
		parts := strings.Split(colorScheme, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			if bg == "0" || bg == "8" || bg == "16" {
				return TerminalModeDark
			} else if bg == "15" || bg == "7" || bg == "255" {
				return TerminalModeLight
			}
		}
	}

	// Some terminals advertise their theme directly
	for _, env := range []string{"TERM_THEME", "THEME"} {
		if theme := strings.ToLower(os.Getenv(env)); theme != "" {
			if strings.Contains(theme, "dark") {
				return TerminalModeDark
			} else if strings.Contains(theme, "light") {
				return TerminalModeLight
			}
		}
	}

	// Default to dark mode as it's more common in terminals
	return TerminalModeDark
}

// GetANSIColors returns color codes adapted to the detected terminal mode
func GetANSIColors() (success, errorCode, reset string) {
	// For light mode terminals, use darker colors for better contrast
	if detectedMode == TerminalModeLight {
		success = "\033[32m" // Green
		errorCode = "\033[31m"
	} else {
		success = "\033[92m" // Bright Green
		errorCode = "\033[91m"
	}

	reset = "\033[0m"
	return
}

// InitializeColors detects terminal mode and refreshes the ANSI codes
func InitializeColors() {
	detectedMode = detectTerminalMode()
	Green, Error, Reset = GetANSIColors()
}
