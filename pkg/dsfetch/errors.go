// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"errors"
	"fmt"
)

// Common errors returned by the library.
var (
	// ErrMissingDataset is returned when no dataset reference is given to a resolver.
	ErrMissingDataset = errors.New("missing dataset reference")

	// ErrInvalidDataset is returned when a dataset reference is neither a URL nor "owner/slug".
	ErrInvalidDataset = errors.New("invalid dataset reference: expected owner/slug or URL")

	// ErrUnauthorized is returned when the service rejects the credentials.
	ErrUnauthorized = errors.New("unauthorized: check KAGGLE_USERNAME and KAGGLE_KEY")

	// ErrNotFound is returned when the dataset or its archive does not exist.
	ErrNotFound = errors.New("dataset not found")

	// ErrRateLimited is returned when the service rate limit is exceeded.
	ErrRateLimited = errors.New("rate limited: too many requests")

	// ErrNoFileObject is returned when dataset metadata lists no downloadable file.
	ErrNoFileObject = errors.New("dataset metadata has no file object with a content URL")

	// ErrUnsafePath is returned for archive members that would land outside the target directory.
	ErrUnsafePath = errors.New("archive member escapes target directory")

	// ErrIncompleteDownload is returned when the body is shorter than the declared Content-Length.
	ErrIncompleteDownload = errors.New("download ended before declared content length")
)

// ExtractError wraps an error with the archive member being extracted.
type ExtractError struct {
	Member string
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Member, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// APIError represents a non-success HTTP response from the data-hosting service.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *APIError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Status)
}

// Is implements errors.Is for common error comparisons.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 404:
		return target == ErrNotFound
	case 429:
		return target == ErrRateLimited
	default:
		return false
	}
}
