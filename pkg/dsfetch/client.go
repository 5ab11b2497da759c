// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"context"
	"net/http"
	"time"
)

// DefaultEndpoint is the default dataset-hosting service URL.
const DefaultEndpoint = "https://www.kaggle.com"

const userAgent = "dsfetch/1"

// buildHTTPClient creates an HTTP client without an overall timeout; large
// archives stream for as long as the server keeps sending.
func buildHTTPClient() *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: tr}
}

// addAuth adds basic authentication and user-agent headers to a request.
// Empty credentials send no Authorization header and leave rejection to the server.
func addAuth(req *http.Request, creds Credentials) {
	if creds.Username != "" || creds.Key != "" {
		req.SetBasicAuth(creds.Username, creds.Key)
	}
	req.Header.Set("User-Agent", userAgent)
}

// get issues an authenticated GET and returns the response when its status is 2xx.
// Any other status is closed and returned as *APIError.
func get(ctx context.Context, httpc *http.Client, creds Credentials, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	addAuth(req, creds)
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}
	return resp, nil
}
