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
	"log"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// newSessionFromFlags applies the run flags on top of the loaded config
// and optionally loads a snapshot before the console starts.
func newSessionFromFlags(cmd *cobra.Command) (*Session, error) {
	loaded, err := LoadConfig()
	if err != nil {
		loaded = &defaultConfig
	}
	// Flag overrides must not write through to the shared defaults.
	config := *loaded

	if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
		config.Tree.Kind = kind
	}
	if noValues, _ := cmd.Flags().GetBool("no-values"); noValues {
		config.Tree.WithValues = false
	}
	if noDups, _ := cmd.Flags().GetBool("no-dups"); noDups {
		config.Tree.AllowDuplicates = false
	}

	session, err := NewSession(&config, NewSnapshotCache())
	if err != nil {
		return nil, err
	}

	if path, _ := cmd.Flags().GetString("load"); path != "" {
		if _, err := session.loadFile(path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return session, nil
}

func main() {
	InitializeColors()

	asciiLogo := `
██╗  ██╗███████╗██╗   ██╗████████╗██████╗ ███████╗███████╗
██║ ██╔╝██╔════╝╚██╗ ██╔╝╚══██╔══╝██╔══██╗██╔════╝██╔════╝
█████╔╝ █████╗   ╚████╔╝    ██║   ██████╔╝█████╗  █████╗
██╔═██╗ ██╔══╝    ╚██╔╝     ██║   ██╔══██╗██╔══╝  ██╔══╝
██║  ██╗███████╗   ██║      ██║   ██║  ██║███████╗███████╗
╚═╝  ╚═╝╚══════╝   ╚═╝      ╚═╝   ╚═╝  ╚═╝╚══════╝╚══════╝
Interactive binary search & AVL trees with instant diagrams and binary snapshots [Version: %s%s%s]

Copyright @ Naren Yellavula (Please give us a star ⭐ here: https://github.com/cybrota/keytree)

`

	asciiLogo = fmt.Sprintf(asciiLogo, Green, version, Reset)

	var cmdRun = &cobra.Command{
		Use:   "run",
		Short: "Launches the interactive tree console",
		Long:  fmt.Sprintf("%s\n%s", asciiLogo, `Run opens the Keytree console for building, searching and persisting trees`),
		Args:  cobra.MinimumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			session, err := newSessionFromFlags(cmd)
			if err != nil {
				log.Fatalf("Error starting session: %v", err)
			}
			if err := runConsole(session); err != nil {
				log.Fatalf("Error running console: %v", err)
			}
		},
	}
	cmdRun.Flags().String("kind", "", "tree kind for this session: bst or avl")
	cmdRun.Flags().Bool("no-values", false, "start a key-only tree")
	cmdRun.Flags().Bool("no-dups", false, "reject duplicate keys")
	cmdRun.Flags().String("load", "", "snapshot file to load before the console starts")

	var cmdUsage = &cobra.Command{
		Use:   "usage",
		Short: "Print Keytree usage guide",
		Long:  fmt.Sprintf("%s\n%s", asciiLogo, `Usage displays the keytree CLI usage guide`),
		Args:  cobra.MinimumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(getHelpMessage())
		},
	}

	var cmdSettings = &cobra.Command{
		Use:   "settings",
		Short: "Show the current configuration",
		Args:  cobra.MinimumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			displaySettings()
		},
	}

	var cmdVersion = &cobra.Command{
		Use:   "version",
		Short: "Print Keytree version",
		Args:  cobra.MinimumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	var rootCmd = &cobra.Command{
		Use:     "keytree",
		Version: version,
		Long:    asciiLogo,
		Run: func(cmd *cobra.Command, args []string) {
			// Default to run command when no subcommand is provided
			session, err := newSessionFromFlags(cmd)
			if err != nil {
				log.Fatalf("Error starting session: %v", err)
			}
			if err := runConsole(session); err != nil {
				log.Fatalf("Error running console: %v", err)
			}
		},
	}
	rootCmd.Flags().AddFlagSet(cmdRun.Flags())
	rootCmd.AddCommand(cmdRun, cmdUsage, cmdSettings, cmdVersion)
	rootCmd.Execute()
}
