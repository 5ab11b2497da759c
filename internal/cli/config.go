// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

const configBaseName = "dsfetch"

// DefaultConfig returns the default configuration.
func DefaultConfig() map[string]any {
	return map[string]any{
		"dataset":      dsfetch.DefaultDataset,
		"output":       dsfetch.DefaultOutputDir,
		"archive-name": dsfetch.DefaultArchiveName,
		"ext":          dsfetch.DefaultExtension,
		"chunk-size":   dsfetch.DefaultChunkSize,
		"preview":      5,
		"endpoint":     dsfetch.DefaultEndpoint,
	}
}

// configDir is ~/.config.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

// findConfig returns the explicit path, or the first of dsfetch.json,
// dsfetch.yaml and dsfetch.yml that exists under ~/.config. It returns ""
// when nothing is found.
func findConfig(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir, err := configDir()
	if err != nil {
		return ""
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		p := filepath.Join(dir, configBaseName+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// readConfig parses a JSON or YAML config file, chosen by extension.
func readConfig(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML config file: %w", err)
		}
	default: // .json or unknown
		if err := json.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON config file: %w", err)
		}
	}
	return cfg, nil
}

func newConfigCmd(ro *RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd(ro))
	cmd.AddCommand(newConfigShowCmd(ro))
	cmd.AddCommand(newConfigPathCmd(ro))

	return cmd
}

func newConfigInitCmd(ro *RootOpts) *cobra.Command {
	var (
		force   bool
		useYAML bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Creates a default configuration file at ~/.config/dsfetch.json (or .yaml)

The configuration file sets default values for the fetch and index flags.
CLI flags always override config file values. Credentials are never stored
here; use KAGGLE_USERNAME and KAGGLE_KEY or a .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := ro.Config
			if configPath == "" {
				dir, err := configDir()
				if err != nil {
					return err
				}
				ext := ".json"
				if useYAML {
					ext = ".yaml"
				}
				configPath = filepath.Join(dir, configBaseName+ext)
			}
			useYAML = useYAML || isYAMLPath(configPath)

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", configPath)
			}
			if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
				return fmt.Errorf("could not create config directory: %w", err)
			}

			cfg := DefaultConfig()
			var (
				data []byte
				err  error
			)
			if useYAML {
				data, err = yaml.Marshal(cfg)
			} else {
				data, err = json.MarshalIndent(cfg, "", "  ")
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(configPath, data, 0o644); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created config file: %s\n", configPath)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Edit this file to set your defaults. For example:")
			fmt.Fprintln(out, "  - Change the default dataset or output directory")
			fmt.Fprintln(out, "  - Index a different image extension")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")
	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Create YAML config instead of JSON")

	return cmd
}

func newConfigShowCmd(ro *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configPath := findConfig(ro.Config)
			if configPath == "" {
				fmt.Fprintln(out, "No config file found.")
				if dir, err := configDir(); err == nil {
					fmt.Fprintf(out, "Run 'dsfetch config init' to create one at:\n  %s\n", filepath.Join(dir, configBaseName+".json"))
				}
				return nil
			}

			data, err := os.ReadFile(configPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Config file: %s\n\n", configPath)
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
}

func newConfigPathCmd(ro *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := findConfig(ro.Config)
			if configPath == "" {
				dir, err := configDir()
				if err != nil {
					return err
				}
				configPath = filepath.Join(dir, configBaseName+".json")
			}
			fmt.Fprintln(cmd.OutOrStdout(), configPath)
			return nil
		},
	}
}

func isYAMLPath(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".yaml" || ext == ".yml"
}
