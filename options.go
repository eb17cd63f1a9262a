// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package idoit

import "time"

// Client configuration options using the functional options pattern

// Username sets the username for i-doit authentication
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the password for i-doit authentication
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// Language sets the language for server responses (default: en)
//
// Valid values: en, de. The language is sent with the login request and
// applies to translated titles in all responses of the session.
func Language(language string) func(*Client) {
	return func(c *Client) {
		c.Language = language
	}
}

// BasicAuth enables or disables HTTP Basic Auth on every request (default: false)
//
// Some i-doit installations protect the API endpoint with an additional
// HTTP auth layer. When enabled, the configured username and password are
// sent as Basic Auth credentials with every request and no login session
// is used; Login and Logout return an error in this mode.
//
// Example:
//
//	client, _ := idoit.NewClient("https://cmdb.example.com/src/jsonrpc.php", "c1ia5q",
//	    idoit.Username("admin"),
//	    idoit.Password("secret"),
//	    idoit.BasicAuth(true))
func BasicAuth(enabled bool) func(*Client) {
	return func(c *Client) {
		c.basicAuth = enabled
	}
}

// RequestTimeout sets the HTTP request timeout (default: 30s)
func RequestTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.RequestTimeout = duration
	}
}

// VerifyCertificate enables or disables TLS certificate verification (default: true)
//
// WARNING: Disabling certificate verification makes the connection vulnerable
// to Man-in-the-Middle attacks. Only use this in testing environments where
// security is not a concern.
//
// Example:
//
//	client, _ := idoit.NewClient("https://cmdb.example.com/src/jsonrpc.php", "c1ia5q",
//	    idoit.Username("admin"),
//	    idoit.Password("secret"),
//	    idoit.VerifyCertificate(false))  // Insecure, use only for testing
func VerifyCertificate(verify bool) func(*Client) {
	return func(c *Client) {
		c.VerifyCertificate = verify
	}
}

// Proxy routes all requests through the given HTTP proxy URL
//
// The URL is validated when the client is created. An empty value (default)
// uses the environment proxy settings of net/http.
//
// Example:
//
//	client, _ := idoit.NewClient("https://cmdb.example.com/src/jsonrpc.php", "c1ia5q",
//	    idoit.Proxy("http://proxy.example.com:3128"))
func Proxy(proxyURL string) func(*Client) {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// RateLimit throttles outbound requests to rps requests per second with the
// given burst size (default: unlimited)
//
// Unthrottled bulk usage can flood the server with sessions and load, so
// batch tooling should set a conservative limit. Each call waits on the
// limiter before its HTTP request; context cancellation during the wait
// surfaces as the context error.
//
// Example:
//
//	// At most 10 requests per second, bursts of 5
//	client, _ := idoit.NewClient("https://cmdb.example.com/src/jsonrpc.php", "c1ia5q",
//	    idoit.Username("admin"),
//	    idoit.Password("secret"),
//	    idoit.RateLimit(10, 5))
func RateLimit(rps float64, burst int) func(*Client) {
	return func(c *Client) {
		c.rateLimitRPS = rps
		c.rateLimitBurst = burst
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
// Use this option to enable logging with DefaultLogger or a custom logger.
//
// All JSON content logged at Debug level is automatically redacted to remove
// sensitive data (passwords, api keys, session ids, tokens).
//
// Example (DefaultLogger):
//
//	logger := idoit.NewDefaultLogger(idoit.LogLevelInfo)
//	client, _ := idoit.NewClient("https://cmdb.example.com/src/jsonrpc.php", "c1ia5q",
//	    idoit.Username("admin"),
//	    idoit.Password("secret"),
//	    idoit.WithLogger(logger))
//
// Example (Custom Logger):
//
//	type SlogAdapter struct {
//	    logger *slog.Logger
//	}
//
//	func (s *SlogAdapter) Debug(ctx context.Context, msg string, keysAndValues ...interface{}) {
//	    s.logger.DebugContext(ctx, msg, keysAndValues...)
//	}
//	// ... implement Info, Warn, Error (all with ctx context.Context as first parameter)
//
//	client, _ := idoit.NewClient("https://cmdb.example.com/src/jsonrpc.php", "c1ia5q",
//	    idoit.WithLogger(&SlogAdapter{logger: slog.Default()}))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in logs
//
// When enabled (default), JSON content in debug logs is formatted for better
// readability. Disabling can improve performance when high-frequency
// operations are logged.
//
// This only affects Debug-level log output.
//
// Example:
//
//	logger := idoit.NewDefaultLogger(idoit.LogLevelDebug)
//	client, _ := idoit.NewClient("https://cmdb.example.com/src/jsonrpc.php", "c1ia5q",
//	    idoit.Username("admin"),
//	    idoit.Password("secret"),
//	    idoit.WithLogger(logger),
//	    idoit.WithPrettyPrintLogs(false))  // Raw JSON for compact logs
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Request modifiers for individual operations

// Timeout returns a request modifier that sets a custom timeout for the operation.
//
// This timeout takes precedence over the context deadline and client's
// RequestTimeout. Use this to set operation-specific timeouts that differ
// from the client's default.
//
// The timeout priority model is:
//  1. Request-specific timeout (this modifier) - highest priority
//  2. Context deadline (if already set) - medium priority
//  3. Client.RequestTimeout - fallback default
//
// Example:
//
//	// Read with 30 second timeout
//	res, err := client.ReadObject(ctx, 42,
//	    idoit.Timeout(30*time.Second))
//
//	// Search with 2 minute timeout for a slow index
//	res, err := client.Search(ctx, "web-01",
//	    idoit.Timeout(2*time.Minute))
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}

// Param returns a request modifier that injects an extra parameter into the
// params object before dispatch.
//
// The path uses sjson dot notation, so nested parameters can be set as well.
// This is useful for options the typed methods do not expose directly.
//
// Example:
//
//	// Delete an object into a specific record state
//	res, err := client.DeleteObject(ctx, 42,
//	    idoit.Param("status", "C__RECORD_STATUS__ARCHIVED"))
//
//	// Restrict a search to a result limit
//	res, err := client.Search(ctx, "web",
//	    idoit.Param("limit", 10))
func Param(path string, value any) func(*Req) {
	return func(req *Req) {
		req.params = append(req.params, paramPatch{path: path, value: value})
	}
}
