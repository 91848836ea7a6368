// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber app from this Config: listen address,
// API key, request body limit and timeouts. Merge payloads carry whole item
// and row sets, so the body limit is larger than Fiber's default.
package server
