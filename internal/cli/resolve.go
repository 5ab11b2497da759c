// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

func newResolveCmd(ro *RootOpts) *cobra.Command {
	endpoint := dsfetch.DefaultEndpoint

	cmd := &cobra.Command{
		Use:   "resolve [DATASET]",
		Short: "Print the archive URL a dataset's metadata points to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset := dsfetch.DefaultDataset
			cfg, err := loadConfigFile(ro)
			if err != nil {
				return err
			}
			if cfg != nil {
				b := binder{cmd: cmd, cfg: cfg}
				b.str("endpoint", &endpoint)
				if v, ok := cfg["dataset"]; ok && v != nil {
					dataset = fmt.Sprint(v)
				}
			}
			if len(args) > 0 {
				dataset = args[0]
			}

			creds, err := loadCredentials(ro.EnvFile, cmd.Flags().Changed("env-file"))
			if err != nil {
				return err
			}

			url, err := dsfetch.NewCroissantResolver(endpoint, creds).Resolve(cmd.Context(), dataset)
			if err != nil {
				return err
			}

			if ro.JSONOut {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"dataset": dataset, "url": url})
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", endpoint, "Dataset metadata service base URL")

	return cmd
}
