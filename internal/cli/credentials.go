// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

const defaultEnvFile = ".env"

// loadCredentials reads KAGGLE_USERNAME and KAGGLE_KEY after merging envFile
// into the process environment. Variables already set win over the file.
// A missing default .env is ignored; a missing file named explicitly is not.
func loadCredentials(envFile string, explicit bool) (dsfetch.Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return dsfetch.Credentials{}, fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
	}
	return dsfetch.LoadCredentials()
}
