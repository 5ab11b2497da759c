// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Credentials is the identity/secret pair sent as HTTP basic auth.
type Credentials struct {
	Username string `envconfig:"KAGGLE_USERNAME"`
	Key      string `envconfig:"KAGGLE_KEY"`
}

// LoadCredentials reads KAGGLE_USERNAME and KAGGLE_KEY from the environment.
// Missing variables are left empty; the remote service decides whether that is acceptable.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	return c, nil
}

// Empty reports whether neither value is set.
func (c Credentials) Empty() bool {
	return c.Username == "" && c.Key == ""
}

// String hides the secret.
func (c Credentials) String() string {
	key := ""
	if c.Key != "" {
		key = "****"
	}
	return fmt.Sprintf("Credentials{Username: %q, Key: %q}", c.Username, key)
}
