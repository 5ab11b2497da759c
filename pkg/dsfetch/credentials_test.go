// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials(t *testing.T) {
	t.Setenv("KAGGLE_USERNAME", "alice")
	t.Setenv("KAGGLE_KEY", "s3cret")

	c, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "alice", Key: "s3cret"}, c)
	assert.False(t, c.Empty())
	assert.NotContains(t, c.String(), "s3cret")
}

func TestLoadCredentials_AbsentIsNotAnError(t *testing.T) {
	t.Setenv("KAGGLE_USERNAME", "")
	t.Setenv("KAGGLE_KEY", "")
	os.Unsetenv("KAGGLE_USERNAME")
	os.Unsetenv("KAGGLE_KEY")

	c, err := LoadCredentials()
	require.NoError(t, err)
	assert.True(t, c.Empty())
}
