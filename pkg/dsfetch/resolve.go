// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Resolver turns a dataset identifier into the URL of its downloadable archive.
type Resolver interface {
	Resolve(ctx context.Context, dataset string) (string, error)
}

// StaticResolver always resolves to URL, ignoring the identifier.
type StaticResolver struct {
	URL string
}

// Resolve implements Resolver.
func (r StaticResolver) Resolve(ctx context.Context, dataset string) (string, error) {
	if r.URL == "" {
		return "", ErrNoFileObject
	}
	return r.URL, nil
}

// CroissantResolver looks up a dataset's Croissant (JSON-LD) metadata and
// returns the content URL of its first file object.
type CroissantResolver struct {
	// HTTPClient is used for the metadata request. Nil uses a default client.
	HTTPClient *http.Client

	// Endpoint is the service base URL for "owner/slug" references.
	// If empty, defaults to DefaultEndpoint.
	Endpoint string

	// Credentials are sent as basic auth when set.
	Credentials Credentials
}

// NewCroissantResolver creates a resolver for the given endpoint.
func NewCroissantResolver(endpoint string, creds Credentials) *CroissantResolver {
	return &CroissantResolver{
		HTTPClient:  buildHTTPClient(),
		Endpoint:    endpoint,
		Credentials: creds,
	}
}

// croissantDoc is the subset of a Croissant document needed to find the archive.
type croissantDoc struct {
	Distribution []croissantNode `json:"distribution"`
}

type croissantNode struct {
	Type       jsonLDType `json:"@type"`
	ContentURL string     `json:"contentUrl"`
}

// jsonLDType accepts "@type" as either a string or an array of strings.
type jsonLDType []string

func (t *jsonLDType) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*t = jsonLDType{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("@type: %w", err)
	}
	*t = many
	return nil
}

func (t jsonLDType) isFileObject() bool {
	for _, v := range t {
		switch v {
		case "cr:FileObject", "FileObject", "sc:FileObject", "http://mlcommons.org/croissant/FileObject":
			return true
		}
	}
	return false
}

// Resolve implements Resolver.
func (r *CroissantResolver) Resolve(ctx context.Context, dataset string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	metaURL, err := r.metadataURL(dataset)
	if err != nil {
		return "", err
	}
	httpc := r.HTTPClient
	if httpc == nil {
		httpc = buildHTTPClient()
	}

	resp, err := get(ctx, httpc, r.Credentials, metaURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var doc croissantDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode croissant metadata %s: %w", metaURL, err)
	}
	for _, n := range doc.Distribution {
		if !n.Type.isFileObject() {
			continue
		}
		if n.ContentURL == "" {
			break
		}
		return n.ContentURL, nil
	}
	return "", ErrNoFileObject
}

// metadataURL expands an "owner/slug" reference to the service's Croissant
// download URL. Full URLs are returned unchanged.
func (r *CroissantResolver) metadataURL(dataset string) (string, error) {
	dataset = strings.TrimSpace(dataset)
	if dataset == "" {
		return "", ErrMissingDataset
	}
	if isURL(dataset) {
		return dataset, nil
	}
	if !IsValidDatasetRef(dataset) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDataset, dataset)
	}
	parts := strings.SplitN(dataset, "/", 2)
	ep := strings.TrimSuffix(defaultString(r.Endpoint, DefaultEndpoint), "/")
	return fmt.Sprintf("%s/datasets/%s/%s/croissant/download", ep, url.PathEscape(parts[0]), url.PathEscape(parts[1])), nil
}
