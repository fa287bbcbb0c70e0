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
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type TreeConfig struct {
	Kind            string `yaml:"kind"`
	WithValues      bool   `yaml:"with_values"`
	AllowDuplicates bool   `yaml:"allow_duplicates"`
}

type StorageConfig struct {
	DefaultPath string `yaml:"default_path"`
	Autosave    bool   `yaml:"autosave"`
}

type Config struct {
	Tree    TreeConfig    `yaml:"tree"`
	Storage StorageConfig `yaml:"storage"`
}

var defaultConfig = Config{
	Tree: TreeConfig{
		Kind:            "avl",
		WithValues:      true,
		AllowDuplicates: true,
	},
	Storage: StorageConfig{
		DefaultPath: "keytree.bin",
		Autosave:    false,
	},
}

func LoadConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return &defaultConfig, nil
	}

	configPath := filepath.Join(homeDir, ".keytree.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &defaultConfig, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return &defaultConfig, nil
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return &defaultConfig, nil
	}

	return &config, nil
}

func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".keytree.yaml"), nil
}

func createDefaultConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %v", err)
	}

	data, err := yaml.Marshal(&defaultConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

func displaySettings() {
	configPath, err := getConfigPath()
	if err != nil {
		fmt.Printf("❌ %sFailed to get config path: %v%s\n", Error, err, Reset)
		return
	}

	config, err := LoadConfig()
	if err != nil {
		fmt.Printf("❌ %sFailed to load configuration: %v%s\n", Error, err, Reset)
		return
	}

	configExists := true
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configExists = false
		fmt.Printf("📝 Configuration file not found. Creating default configuration...\n\n")

		if err := createDefaultConfigFile(); err != nil {
			fmt.Printf("❌ %sFailed to create default config file: %v%s\n", Error, err, Reset)
			return
		}
		fmt.Printf("✅ Created default configuration at: %s\n\n", configPath)
	}

	fmt.Printf("🔧 Keytree Configuration Settings\n")
	fmt.Printf("═══════════════════════════════════\n\n")

	if configExists {
		fmt.Printf("📍 Config file: %s\n", configPath)
	} else {
		fmt.Printf("📍 Config file: %s (newly created)\n", configPath)
	}

	fmt.Printf("📊 Current settings:\n\n")

	fmt.Printf("🌳 %sTree:%s\n", Green, Reset)
	fmt.Printf("  • %skind%s: %s\n", Green, Reset, config.Tree.Kind)
	fmt.Printf("    Balancing strategy for new sessions (bst or avl)\n")
	fmt.Printf("  • %swith_values%s: %t\n", Green, Reset, config.Tree.WithValues)
	fmt.Printf("    Carry a string value with every key\n")
	fmt.Printf("  • %sallow_duplicates%s: %t\n", Green, Reset, config.Tree.AllowDuplicates)
	fmt.Printf("    Accept repeated keys instead of rejecting them\n\n")

	fmt.Printf("💾 %sStorage:%s\n", Green, Reset)
	fmt.Printf("  • %sdefault_path%s: %s\n", Green, Reset, config.Storage.DefaultPath)
	fmt.Printf("    Where 'save' writes when no path is given\n")
	fmt.Printf("  • %sautosave%s: %t\n", Green, Reset, config.Storage.Autosave)
	fmt.Printf("    Write the default path after every mutating command\n\n")

	fmt.Printf("💡 Edit %s to change these settings.\n", configPath)
}
