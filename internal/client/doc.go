// Package client is a typed HTTP client for the bookshelf API.
//
// A Client keeps the session cookie in its cookie jar, so a successful
// Login or Register authenticates every later call made through the same
// Client. Every method accepts a context.Context and honors cancellation.
//
// Non-2xx responses are returned as *APIError carrying the server's "error"
// message verbatim. Use errors.As to inspect the status code.
package client
