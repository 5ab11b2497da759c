// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

func newIndexCmd(ro *RootOpts) *cobra.Command {
	var (
		ext     string
		preview int
	)

	cmd := &cobra.Command{
		Use:   "index [DIR]",
		Short: "Index an already extracted dataset and print a label summary",
		Long: `Walks DIR (default: the configured output directory) and lists every image
whose name ends with --ext, labeled by its parent directory. Nothing is
downloaded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dsfetch.DefaultOutputDir
			cfg, err := loadConfigFile(ro)
			if err != nil {
				return err
			}
			if cfg != nil {
				b := binder{cmd: cmd, cfg: cfg}
				b.str("ext", &ext)
				b.integer("preview", &preview)
				b.str("output", &dir)
				if b.err != nil {
					return b.err
				}
			}
			if len(args) > 0 {
				dir = args[0]
			}

			log, closeLog, err := newLogger(ro, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			idx, err := dsfetch.BuildIndex(osfs.New(""), dir, ext, logProgress(log, nil))
			if err != nil {
				return err
			}
			if idx.Len() == 0 {
				log.Warn().Str("dir", dir).Str("ext", ext).Msg("no images found")
			}
			return writeIndex(cmd, ro, idx, preview)
		},
	}

	cmd.Flags().StringVar(&ext, "ext", dsfetch.DefaultExtension, "Image extension to index (case-insensitive)")
	cmd.Flags().IntVar(&preview, "preview", 5, "Number of records shown in the report preview")

	return cmd
}
