// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bodaay/dsfetch/internal/tui"
	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

// RootOpts holds global CLI options.
type RootOpts struct {
	JSONOut  bool
	Quiet    bool
	Verbose  bool
	NoColor  bool
	Config   string
	LogFile  string
	LogLevel string
	EnvFile  string
}

// Execute runs the CLI with the given version string.
func Execute(version string) error {
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	root := NewRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// NewRootCmd builds the dsfetch command tree. Fetch is the default command.
func NewRootCmd(version string) *cobra.Command {
	ro := &RootOpts{}

	root := &cobra.Command{
		Use:           "dsfetch",
		Short:         "Download, extract and index a labeled image dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	// Global flags
	root.PersistentFlags().BoolVar(&ro.JSONOut, "json", false, "Emit machine-readable JSON events and results")
	root.PersistentFlags().BoolVarP(&ro.Quiet, "quiet", "q", false, "Quiet mode (errors only, no progress)")
	root.PersistentFlags().BoolVarP(&ro.Verbose, "verbose", "v", false, "Verbose logs (debug details)")
	root.PersistentFlags().BoolVar(&ro.NoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().StringVar(&ro.Config, "config", "", "Path to config file (JSON or YAML)")
	root.PersistentFlags().StringVar(&ro.LogFile, "log-file", "", "Write logs to file (in addition to stderr)")
	root.PersistentFlags().StringVar(&ro.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&ro.EnvFile, "env-file", defaultEnvFile, "Dotenv file with KAGGLE_USERNAME and KAGGLE_KEY")

	fetchCmd := newFetchCmd(ro)
	root.AddCommand(fetchCmd)
	root.AddCommand(newIndexCmd(ro))
	root.AddCommand(newResolveCmd(ro))
	root.AddCommand(newVersionCmd(ro, version))
	root.AddCommand(newConfigCmd(ro))

	// Make fetch the default command when no subcommand is given
	root.Args = fetchCmd.Args
	root.Flags().AddFlagSet(fetchCmd.Flags())
	root.PreRunE = fetchCmd.PreRunE
	root.RunE = fetchCmd.RunE
	root.SetHelpCommand(&cobra.Command{Use: "help", Hidden: true})

	return root
}

type fetchOpts struct {
	dataset string
	url     string
	preview int
	cfg     dsfetch.Settings
}

func newFetchCmd(ro *RootOpts) *cobra.Command {
	o := &fetchOpts{cfg: dsfetch.DefaultSettings(), dataset: dsfetch.DefaultDataset}

	cmd := &cobra.Command{
		Use:   "fetch [DATASET]",
		Short: "Fetch a dataset archive, extract it and print a label summary",
		Long: `Resolves DATASET (owner/slug, default ` + dsfetch.DefaultDataset + `) to its
archive URL, downloads the archive into --output, extracts it, deletes the
archive and indexes every image by the name of its parent directory.

Credentials are read from KAGGLE_USERNAME and KAGGLE_KEY, optionally loaded
from --env-file.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applyFetchDefaults(cmd, ro, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				o.dataset = args[0]
			}
			return runFetch(cmd, ro, o)
		},
	}

	cmd.Flags().StringVarP(&o.cfg.OutputDir, "output", "o", dsfetch.DefaultOutputDir, "Directory to extract into and index")
	cmd.Flags().StringVar(&o.url, "url", "", "Archive URL; skips metadata resolution")
	cmd.Flags().StringVar(&o.cfg.ArchiveName, "archive-name", dsfetch.DefaultArchiveName, "Temporary archive file name inside --output")
	cmd.Flags().StringVar(&o.cfg.Extension, "ext", dsfetch.DefaultExtension, "Image extension to index (case-insensitive)")
	cmd.Flags().IntVar(&o.preview, "preview", 5, "Number of records shown in the report preview")
	cmd.Flags().StringVar(&o.cfg.Endpoint, "endpoint", dsfetch.DefaultEndpoint, "Dataset metadata service base URL")
	cmd.Flags().IntVar(&o.cfg.ChunkSize, "chunk-size", dsfetch.DefaultChunkSize, "Bytes read from the response per write")

	return cmd
}

func runFetch(cmd *cobra.Command, ro *RootOpts, o *fetchOpts) error {
	log, closeLog, err := newLogger(ro, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	if o.url == "" && o.dataset == "" {
		return dsfetch.ErrMissingDataset
	}

	creds, err := loadCredentials(ro.EnvFile, cmd.Flags().Changed("env-file"))
	if err != nil {
		return err
	}
	if creds.Empty() {
		log.Warn().Msg("KAGGLE_USERNAME/KAGGLE_KEY not set; requesting without credentials")
	} else {
		log.Debug().Str("credentials", creds.String()).Msg("loaded credentials")
	}

	var resolver dsfetch.Resolver = dsfetch.NewCroissantResolver(o.cfg.Endpoint, creds)
	if o.url != "" {
		resolver = dsfetch.StaticResolver{URL: o.url}
	}

	progress, done := selectProgress(cmd, ro)
	idx, err := dsfetch.Run(cmd.Context(), dsfetch.Pipeline{
		Resolver:    resolver,
		Dataset:     o.dataset,
		Settings:    o.cfg,
		Credentials: creds,
		Progress:    logProgress(log, progress),
	})
	done()
	if err != nil {
		explain(log, err)
		return err
	}

	log.Info().
		Int("images", idx.Len()).
		Int("classes", len(idx.Counts())).
		Str("dir", o.cfg.OutputDir).
		Msg("dataset ready")
	return writeIndex(cmd, ro, idx, o.preview)
}

// selectProgress picks the progress handler for the current output mode. The
// returned func must be called once the run completes.
func selectProgress(cmd *cobra.Command, ro *RootOpts) (dsfetch.ProgressFunc, func()) {
	switch {
	case ro.JSONOut:
		return jsonProgress(cmd.OutOrStdout()), func() {}
	case ro.Quiet:
		return nil, func() {}
	default:
		ui := tui.NewRenderer(cmd.ErrOrStderr())
		return ui.Handler(), ui.Close
	}
}

// explain adds a hint for errors a user can fix.
func explain(log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, dsfetch.ErrUnauthorized):
		log.Warn().Msg("check KAGGLE_USERNAME and KAGGLE_KEY (or --env-file)")
	case errors.Is(err, dsfetch.ErrRateLimited):
		log.Warn().Msg("rate limited by the server; try again later")
	case errors.Is(err, dsfetch.ErrNoFileObject):
		log.Warn().Msg("metadata has no downloadable archive; pass --url to fetch directly")
	case errors.Is(err, dsfetch.ErrUnsafePath):
		log.Warn().Msg("archive contains a member outside the output directory; nothing past it was extracted")
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}

// applyFetchDefaults fills fetch flags the user did not set from the config
// file.
func applyFetchDefaults(cmd *cobra.Command, ro *RootOpts, o *fetchOpts) error {
	cfg, err := loadConfigFile(ro)
	if err != nil || cfg == nil {
		return err
	}
	b := binder{cmd: cmd, cfg: cfg}

	b.str("output", &o.cfg.OutputDir)
	b.str("archive-name", &o.cfg.ArchiveName)
	b.str("ext", &o.cfg.Extension)
	b.str("endpoint", &o.cfg.Endpoint)
	b.integer("chunk-size", &o.cfg.ChunkSize)
	b.integer("preview", &o.preview)
	if v, ok := cfg["dataset"]; ok && v != nil {
		o.dataset = fmt.Sprint(v)
	}
	return b.err
}

// loadConfigFile returns nil when no config file exists.
func loadConfigFile(ro *RootOpts) (map[string]any, error) {
	path := findConfig(ro.Config)
	if path == "" {
		return nil, nil
	}
	return readConfig(path)
}

// binder copies config values into flag targets unless the flag was set on
// the command line.
type binder struct {
	cmd *cobra.Command
	cfg map[string]any
	err error
}

func (b *binder) lookup(flagName string) (any, bool) {
	if b.cmd.Flags().Changed(flagName) {
		return nil, false
	}
	v, ok := b.cfg[flagName]
	return v, ok && v != nil
}

func (b *binder) str(flagName string, dst *string) {
	if v, ok := b.lookup(flagName); ok {
		*dst = fmt.Sprint(v)
	}
}

func (b *binder) integer(flagName string, dst *int) {
	v, ok := b.lookup(flagName)
	if !ok {
		return
	}
	var x int
	if _, err := fmt.Sscan(fmt.Sprint(v), &x); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("config %s: %q is not an integer", flagName, fmt.Sprint(v)))
		return
	}
	*dst = x
}

// writeIndex prints the report, or a JSON summary with --json.
func writeIndex(cmd *cobra.Command, ro *RootOpts, idx *dsfetch.Index, preview int) error {
	out := cmd.OutOrStdout()
	if ro.JSONOut {
		if preview <= 0 {
			preview = 5
		}
		return writeJSON(out, summary{
			Event:   "report",
			Images:  idx.Len(),
			Classes: len(idx.Counts()),
			Counts:  idx.Counts(),
			Preview: idx.Head(preview),
		})
	}
	return dsfetch.WriteReport(out, idx, dsfetch.ReportOptions{
		Preview: preview,
		Color:   !ro.NoColor && !color.NoColor,
	})
}

type summary struct {
	Event   string               `json:"event"`
	Images  int                  `json:"images"`
	Classes int                  `json:"classes"`
	Counts  []dsfetch.LabelCount `json:"counts"`
	Preview []dsfetch.Record     `json:"preview"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// jsonProgress returns a JSON-lines progress handler.
func jsonProgress(w io.Writer) dsfetch.ProgressFunc {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	var mu sync.Mutex
	return func(ev dsfetch.ProgressEvent) {
		mu.Lock()
		_ = enc.Encode(ev)
		mu.Unlock()
	}
}
