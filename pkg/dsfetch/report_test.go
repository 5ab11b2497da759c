// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	idx := &Index{Records: []Record{
		{Path: "data/paper/1.jpg", Label: "paper"},
		{Path: "data/paper/2.jpg", Label: "paper"},
		{Path: "data/glass/1.jpg", Label: "glass"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, idx, ReportOptions{Preview: 2}))
	out := buf.String()

	assert.Contains(t, out, "data/paper/1.jpg")
	assert.Contains(t, out, "data/paper/2.jpg")
	assert.NotContains(t, out, "data/glass/1.jpg")
	assert.Contains(t, out, "3 images downloaded across 2 classes:")
	assert.NotContains(t, out, "\x1b[")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, []string{"paper", "2"}, strings.Fields(lines[len(lines)-2]))
	assert.Equal(t, []string{"glass", "1"}, strings.Fields(lines[len(lines)-1]))
}

func TestWriteReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, &Index{}, ReportOptions{}))
	assert.Contains(t, buf.String(), "(no records)")
	assert.Contains(t, buf.String(), "0 images downloaded across 0 classes:")
}

func TestWriteReport_Color(t *testing.T) {
	var buf bytes.Buffer
	idx := &Index{Records: []Record{{Path: "d/a/1.jpg", Label: "a"}}}
	require.NoError(t, WriteReport(&buf, idx, ReportOptions{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}
