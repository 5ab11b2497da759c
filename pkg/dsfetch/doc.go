// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

/*
Package dsfetch downloads a labeled image dataset archive from a data-hosting
service, extracts it to a local directory and indexes the images by label.

# Quick Start

Resolve, download, extract and index the default dataset:

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/bodaay/dsfetch/pkg/dsfetch"
	)

	func main() {
		creds, err := dsfetch.LoadCredentials() // KAGGLE_USERNAME, KAGGLE_KEY
		if err != nil {
			log.Fatal(err)
		}

		cfg := dsfetch.DefaultSettings()
		idx, err := dsfetch.Run(context.Background(), dsfetch.Pipeline{
			Resolver:    dsfetch.NewCroissantResolver(cfg.Endpoint, creds),
			Dataset:     dsfetch.DefaultDataset,
			Settings:    cfg,
			Credentials: creds,
		})
		if err != nil {
			log.Fatal(err)
		}
		_ = dsfetch.WriteReport(os.Stdout, idx, dsfetch.ReportOptions{})
	}

# Layout

The archive is expected to contain one directory per class label:

	data/
	  cardboard/
	    cardboard1.jpg
	  glass/
	    glass1.jpg

Each image becomes a Record whose Label is the name of the directory
directly containing it.

# Resolution

A Resolver turns a dataset identifier into the archive URL. CroissantResolver
reads the dataset's Croissant metadata and picks the first file object;
StaticResolver returns a fixed URL and is handy when the URL is already known.

# Progress Events

The ProgressFunc callback receives events at chunk and member boundaries; see
ProgressEvent for the full list. Events are delivered synchronously.

# Error Handling

Non-2xx responses are returned as *APIError, which matches ErrUnauthorized,
ErrNotFound or ErrRateLimited with errors.Is. Archive member failures are
*ExtractError. Nothing is retried and nothing is rolled back.
*/
package dsfetch
