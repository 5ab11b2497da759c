// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

// BuildInfo holds version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Commit    string `json:"commit"`
	BuildTime string `json:"built"`

	// Defaults compiled into this binary.
	Dataset  string `json:"dataset"`
	Endpoint string `json:"endpoint"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo(version string) BuildInfo {
	info := BuildInfo{
		Version:   version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Commit:    "unknown",
		BuildTime: "unknown",
		Dataset:   dsfetch.DefaultDataset,
		Endpoint:  dsfetch.DefaultEndpoint,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.Commit = setting.Value
				if len(info.Commit) > 7 {
					info.Commit = info.Commit[:7]
				}
			case "vcs.time":
				info.BuildTime = setting.Value
			}
		}
	}

	return info
}

func newVersionCmd(ro *RootOpts, version string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := GetBuildInfo(version)
			out := cmd.OutOrStdout()

			switch {
			case short:
				fmt.Fprintln(out, info.Version)
			case ro.JSONOut:
				return writeJSON(out, info)
			default:
				fmt.Fprintf(out, "dsfetch %s (%s, %s)\n", info.Version, info.Commit, info.BuildTime)
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "  go\t%s %s/%s\n", info.GoVersion, info.OS, info.Arch)
				fmt.Fprintf(tw, "  dataset\t%s\n", info.Dataset)
				fmt.Fprintf(tw, "  endpoint\t%s\n", info.Endpoint)
				return tw.Flush()
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}
