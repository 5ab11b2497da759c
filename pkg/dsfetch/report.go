// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ReportOptions controls WriteReport output.
type ReportOptions struct {
	// Preview is the number of leading records shown. If <= 0, defaults to 5.
	Preview int

	// Color enables ANSI styling of headings.
	Color bool
}

// WriteReport prints a preview of idx, the record and class totals, and the
// per-label frequency table.
func WriteReport(w io.Writer, idx *Index, opts ReportOptions) error {
	if opts.Preview <= 0 {
		opts.Preview = 5
	}
	heading := color.New(color.FgCyan, color.Bold)
	if opts.Color {
		heading.EnableColor()
	} else {
		heading.DisableColor()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	head := idx.Head(opts.Preview)
	if len(head) == 0 {
		fmt.Fprintln(tw, "(no records)")
	} else {
		fmt.Fprintln(tw, "#\tpath\tlabel")
		for i, r := range head {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i, r.Path, r.Label)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := idx.Counts()
	if _, err := heading.Fprintf(w, "\n%d images downloaded across %d classes:\n", idx.Len(), len(counts)); err != nil {
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Label, c.Count)
	}
	return tw.Flush()
}
