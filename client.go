// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package idoit

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// jsonRPCVersion is the protocol version sent in every request envelope
const jsonRPCVersion = "2.0"

// Default client configuration values
const (
	DefaultLanguage          = LanguageEnglish
	DefaultRequestTimeout    = 30 * time.Second
	DefaultVerifyCertificate = true
	DefaultPrettyPrintLogs   = true
)

// Security limits for JSON processing and logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024 // 1MB limit to prevent ReDoS attacks
	MaxSensitiveFields    = 1000            // Max redaction operations to prevent DoS
)

// Logging message constants
const (
	JSONTooLargeMessage     = "[JSON TOO LARGE FOR LOGGING]"
	JSONTooManySensitiveMsg = "[JSON CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// defaultRedactionPatterns contains regex patterns for redacting sensitive data in logs
var defaultRedactionPatterns = []*regexp.Regexp{
	// JSON field patterns
	regexp.MustCompile(`"password"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"apikey"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"session-id"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"secret"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"key"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"token"\s*:\s*"[^"]*"`),
}

// Client represents a JSON-RPC client connection to an i-doit installation
type Client struct {
	// httpClient performs the JSON-RPC POST requests (built at NewClient)
	httpClient *http.Client

	// RWMutex to synchronize access to mutable state
	mu sync.RWMutex

	// Connection parameters
	URL      string
	apiKey   string // unexported for security
	username string // unexported for security
	password string // unexported for security

	// sessionID holds the token issued by idoit.login (unexported for security)
	sessionID string

	// basicAuth authenticates every request with HTTP Basic Auth instead of a session
	basicAuth bool

	// Language for server responses (en/de)
	Language string

	// TLS options
	VerifyCertificate  bool
	InsecureSkipVerify bool // Alias for !VerifyCertificate

	// proxyURL routes requests through an HTTP proxy when set
	proxyURL string

	// Timeout configuration
	RequestTimeout time.Duration

	// Rate limiting (unlimited when no RateLimit option is set)
	rateLimitRPS   float64
	rateLimitBurst int
	limiter        *rate.Limiter

	// requestID is the monotonically increasing JSON-RPC id (atomic access only)
	requestID int64

	// Logging configuration
	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewClient creates a new i-doit JSON-RPC client with the specified endpoint
// URL, API key and options
//
// The client performs no network I/O at creation time. Authenticated methods
// require a session established via Login (or BasicAuth mode); the
// informational idoit.* methods work with the api key alone.
//
// Example:
//
//	client, err := idoit.NewClient(
//	    "https://cmdb.example.com/src/jsonrpc.php",
//	    "c1ia5q",
//	    idoit.Username("admin"),
//	    idoit.Password("secret"),
//	    idoit.Language("en"),
//	)
//	if err != nil {
//	    log.Fatal(err)  // Configuration error
//	}
//
//	if _, err := client.Login(ctx); err != nil {
//	    log.Fatal(err)  // Authentication error
//	}
//	defer client.Logout(ctx)
//
//	res, err := client.ReadObject(ctx, 42)
//
// Returns a configured Client or an error if configuration validation fails.
func NewClient(rawURL, apiKey string, opts ...func(*Client)) (*Client, error) {
	// Create client with default values
	client := &Client{
		URL:               rawURL,
		apiKey:            apiKey,
		Language:          DefaultLanguage,
		VerifyCertificate: DefaultVerifyCertificate,
		RequestTimeout:    DefaultRequestTimeout,
		logger:            &NoOpLogger{},
		prettyPrintLogs:   DefaultPrettyPrintLogs,
		redactionPatterns: defaultRedactionPatterns,
	}

	// Apply functional options
	for _, opt := range opts {
		opt(client)
	}

	// Set InsecureSkipVerify alias
	client.InsecureSkipVerify = !client.VerifyCertificate

	// Validate configuration
	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	// Build the HTTP transport (configuration only, no connection)
	if err := client.buildHTTPClient(); err != nil {
		return nil, err
	}

	// Build the rate limiter (unlimited unless configured)
	if client.rateLimitRPS > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(client.rateLimitRPS), client.rateLimitBurst)
	} else {
		client.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	client.logger.Info(context.Background(), "i-doit client created",
		"url", client.URL,
		"language", client.Language,
		"basic_auth", client.basicAuth)

	return client, nil
}

// Login opens a server-side session via idoit.login
//
// The configured username and password are sent as X-RPC-Auth headers
// together with the api key and language parameters. On success the issued
// session id is stored and attached to all subsequent requests as the
// X-RPC-Auth-Session header.
//
// A rejected login (non-2xx response or JSON-RPC error envelope) returns an
// *AuthenticationError. Network failures before any response surface as
// *TransportError. Calling Login with an active session or in BasicAuth mode
// is a usage error.
//
// Example:
//
//	res, err := client.Login(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("logged in as %s (session %t)\n", res.Username, client.HasSession())
func (c *Client) Login(ctx context.Context) (LoginRes, error) {
	if c.basicAuth {
		err := fmt.Errorf("login: not available in basic auth mode")
		return LoginRes{Res: errRes(0, err)}, err
	}
	if c.HasSession() {
		err := fmt.Errorf("login: session already established, call Logout first")
		return LoginRes{Res: errRes(0, err)}, err
	}
	if c.username == "" || c.password == "" {
		authErr := &AuthenticationError{
			Operation: MethodLogin,
			Reason:    "username and password must be configured",
		}
		return LoginRes{Res: errRes(0, authErr)}, authErr
	}

	params, err := Body{}.Set("language", c.Language).String()
	if err != nil {
		err = fmt.Errorf("login: failed to build params: %w", err)
		return LoginRes{Res: errRes(0, err)}, err
	}

	headers := map[string]string{
		"X-RPC-Auth-Username": c.username,
		"X-RPC-Auth-Password": c.password,
	}

	res, err := c.do(ctx, MethodLogin, params, Req{}, headers)
	if err != nil {
		// A reachable server that refuses the login is an authentication
		// failure; dial and protocol errors keep their own type.
		var transportErr *TransportError
		if errors.As(err, &transportErr) && transportErr.StatusCode != 0 {
			return LoginRes{Res: res}, &AuthenticationError{
				Operation: MethodLogin,
				Reason:    "login rejected",
				Err:       err,
			}
		}
		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) {
			return LoginRes{Res: res}, &AuthenticationError{
				Operation: MethodLogin,
				Reason:    "login rejected",
				Err:       err,
			}
		}
		return LoginRes{Res: res}, err
	}

	sessionID := res.GetValue("session-id").String()
	if sessionID == "" {
		authErr := &AuthenticationError{
			Operation: MethodLogin,
			Reason:    "login result contains no session-id",
		}
		return LoginRes{Res: res}, authErr
	}

	c.mu.Lock()
	c.sessionID = sessionID
	c.mu.Unlock()

	c.logger.Info(ctx, "i-doit session established",
		"url", c.URL,
		"username", res.GetValue("username").String())

	return LoginRes{
		Res:       res,
		SessionID: sessionID,
		UserID:    res.GetValue("userid").String(),
		Username:  res.GetValue("username").String(),
		Name:      res.GetValue("name").String(),
		Mail:      res.GetValue("mail").String(),
		ClientID:  res.GetValue("client-id").Int(),
	}, nil
}

// Logout closes the current session via idoit.logout
//
// The stored session id is cleared even when the request fails, so the
// client always returns to the unauthenticated state. The server expires
// abandoned sessions on its own, which makes the remote call best effort.
//
// Example:
//
//	if _, err := client.Logout(ctx); err != nil {
//	    log.Printf("logout: %v", err)  // session is cleared regardless
//	}
func (c *Client) Logout(ctx context.Context) (StatusRes, error) {
	if c.basicAuth {
		err := fmt.Errorf("logout: not available in basic auth mode")
		return StatusRes{Res: errRes(0, err)}, err
	}
	if !c.HasSession() {
		err := fmt.Errorf("logout: no active session")
		return StatusRes{Res: errRes(0, err)}, err
	}

	res, err := c.do(ctx, MethodLogout, "{}", Req{}, nil)

	// Drop the session unconditionally
	c.mu.Lock()
	c.sessionID = ""
	c.mu.Unlock()

	c.logger.Info(ctx, "i-doit session closed",
		"url", c.URL,
		"clean", err == nil)

	if err != nil {
		return StatusRes{Res: res}, err
	}

	return statusRes(res), nil
}

// HasSession returns true if a login session is currently established
//
// This method only indicates if a session exists without exposing
// the session token.
//
// Example:
//
//	if !client.HasSession() {
//	    client.Login(ctx)
//	}
func (c *Client) HasSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID != ""
}

// HasCredentials returns true if login credentials are configured
//
// This method only indicates if credentials exist without exposing
// the actual values.
//
// Example:
//
//	if client.HasCredentials() {
//	    fmt.Println("Client is configured with credentials")
//	}
func (c *Client) HasCredentials() bool {
	return c.username != "" || c.password != ""
}

// Call performs a generic JSON-RPC request against the i-doit API
//
// Every typed operation wraps this method; it is exported so callers can
// reach API methods the typed surface does not cover (category methods,
// reports, addon endpoints). The params string must be a JSON object or
// empty; the api key is injected into it automatically.
//
// Session-scoped methods (the cmdb.* namespace) fail with an
// *AuthenticationError before any network I/O unless a session is
// established or BasicAuth mode is active. Each call performs exactly one
// HTTP POST; nothing is retried.
//
// Example:
//
//	res, err := client.Call(ctx, "cmdb.category.read",
//	    `{"objID": 42, "category": "C__CATG__IP"}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.JSON())
func (c *Client) Call(ctx context.Context, method, params string, mods ...func(*Req)) (Res, error) {
	// Build request modifiers
	req := Req{}
	for _, mod := range mods {
		mod(&req)
	}

	// Refuse session-scoped methods before any network I/O
	if requiresSession(method) && !c.basicAuth && !c.HasSession() {
		authErr := &AuthenticationError{
			Operation: method,
			Reason:    "no active session, call Login first",
		}
		return errRes(0, authErr), authErr
	}

	return c.do(ctx, method, params, req, nil)
}

// do executes a single JSON-RPC request and maps the outcome to the error
// taxonomy. Exactly one HTTP POST per invocation.
//
// extraHeaders carries the X-RPC-Auth-Username/-Password pair during login;
// all other requests authenticate via the stored session header or HTTP
// basic auth.
func (c *Client) do(ctx context.Context, method, params string, req Req, extraHeaders map[string]string) (Res, error) {
	// Check context cancellation first (before any work)
	if err := checkContextCancellation(ctx); err != nil {
		return errRes(0, err), err
	}

	// Params default to an empty object and must be a JSON object
	if strings.TrimSpace(params) == "" {
		params = "{}"
	}
	if !gjson.Valid(params) {
		err := fmt.Errorf("%s: params is not valid JSON", method)
		return errRes(0, err), err
	}

	// Inject the api key and any extra parameters from request modifiers
	body := Body{str: params}.Set("apikey", c.apiKey)
	for _, patch := range req.params {
		body = body.Set(patch.path, patch.value)
	}
	params, err := body.String()
	if err != nil {
		err = fmt.Errorf("%s: failed to build params: %w", method, err)
		return errRes(0, err), err
	}

	// Assign the next request id (strictly increasing per client)
	id := atomic.AddInt64(&c.requestID, 1)

	// Build the JSON-RPC 2.0 envelope
	envelope, err := Body{}.
		Set("jsonrpc", jsonRPCVersion).
		Set("method", method).
		SetRaw("params", params).
		Set("id", id).
		String()
	if err != nil {
		err = fmt.Errorf("%s: failed to build envelope: %w", method, err)
		return errRes(id, err), err
	}

	// Wait for the rate limiter; cancellation surfaces as the context error
	if err := c.limiter.Wait(ctx); err != nil {
		return errRes(id, err), err
	}

	// Apply request timeout (request modifier > context deadline > client default)
	reqCtx, cancel := c.createRequestContext(ctx, &req)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.URL, strings.NewReader(envelope))
	if err != nil {
		transportErr := &TransportError{Operation: method, Err: err}
		return errRes(id, err), transportErr
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// Attach authentication
	if c.basicAuth {
		httpReq.SetBasicAuth(c.username, c.password)
	} else {
		c.mu.RLock()
		if c.sessionID != "" {
			httpReq.Header.Set("X-RPC-Auth-Session", c.sessionID)
		}
		c.mu.RUnlock()
	}
	for key, value := range extraHeaders {
		httpReq.Header.Set(key, value)
	}

	c.logger.Debug(ctx, "JSON-RPC request",
		"url", c.URL,
		"method", method,
		"id", id,
		"body", c.prepareJSONForLogging(envelope))

	// Execute the request (exactly one attempt)
	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "JSON-RPC request failed",
			"url", c.URL,
			"method", method,
			"id", id,
			"error", err.Error())
		transportErr := &TransportError{Operation: method, Err: err}
		return errRes(id, err), transportErr
	}
	defer httpRes.Body.Close()

	resBody, err := io.ReadAll(httpRes.Body)
	if err != nil {
		c.logger.Error(ctx, "JSON-RPC response read failed",
			"url", c.URL,
			"method", method,
			"id", id,
			"error", err.Error())
		transportErr := &TransportError{Operation: method, Err: err}
		return errRes(id, err), transportErr
	}

	if httpRes.StatusCode < 200 || httpRes.StatusCode > 299 {
		c.logger.Error(ctx, "JSON-RPC request rejected",
			"url", c.URL,
			"method", method,
			"id", id,
			"status", httpRes.StatusCode)
		transportErr := &TransportError{Operation: method, StatusCode: httpRes.StatusCode}
		return Res{
			ID:     id,
			OK:     false,
			Errors: []ErrorModel{{Message: fmt.Sprintf("unexpected HTTP status %d", httpRes.StatusCode)}},
		}, transportErr
	}

	bodyStr := string(resBody)
	if !gjson.Valid(bodyStr) {
		protocolErr := &ProtocolError{Operation: method, Reason: "response body is not valid JSON"}
		return errRes(id, protocolErr), protocolErr
	}

	c.logger.Debug(ctx, "JSON-RPC response",
		"url", c.URL,
		"method", method,
		"id", id,
		"body", c.prepareJSONForLogging(bodyStr))

	// A server-reported error envelope wins over id matching; servers answer
	// unparseable requests with id null.
	if errVal := gjson.Get(bodyStr, "error"); errVal.Exists() && errVal.Type != gjson.Null {
		remoteErr := &RemoteError{
			Operation: method,
			Code:      int(errVal.Get("code").Int()),
			Message:   errVal.Get("message").String(),
			Data:      errVal.Get("data").String(),
		}
		c.logger.Error(ctx, "JSON-RPC error response",
			"url", c.URL,
			"method", method,
			"id", id,
			"code", remoteErr.Code,
			"message", remoteErr.Message)
		return Res{
			ID:     id,
			OK:     false,
			Errors: []ErrorModel{{Code: remoteErr.Code, Message: remoteErr.Message, Data: remoteErr.Data}},
		}, remoteErr
	}

	result := gjson.Get(bodyStr, "result")
	if !result.Exists() {
		protocolErr := &ProtocolError{Operation: method, Reason: "response contains neither result nor error"}
		return errRes(id, protocolErr), protocolErr
	}

	// Successful results must answer under the request id
	if resID := gjson.Get(bodyStr, "id"); resID.Int() != id {
		protocolErr := &ProtocolError{
			Operation: method,
			Reason:    fmt.Sprintf("response id %q does not match request id %d", resID.String(), id),
		}
		return errRes(id, protocolErr), protocolErr
	}

	return Res{Raw: result.Raw, ID: id, OK: true}, nil
}

// errRes builds the negative Res returned alongside an error
func errRes(id int64, err error) Res {
	return Res{
		ID:     id,
		OK:     false,
		Errors: []ErrorModel{{Message: err.Error()}},
	}
}

// prepareJSONForLogging redacts sensitive data and formats JSON for logging
//
// This method performs security checks and data sanitization:
//  1. Validates JSON size to prevent ReDoS attacks (max 1MB)
//  2. Checks sensitive field count to prevent DoS (max 1000 fields)
//  3. Redacts sensitive data (passwords, api keys, session ids, secrets, tokens)
//  4. Pretty-prints JSON if prettyPrintLogs is enabled
//
// Security Note: Size and count limits prevent regex-based DoS attacks during
// JSON processing and redaction. These limits are conservative to ensure safe
// operation even with malicious or malformed input.
//
// Returns the processed JSON string safe for logging.
func (c *Client) prepareJSONForLogging(jsonStr string) string {
	// Check JSON size limit to prevent ReDoS attacks
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	// Count sensitive fields before processing to prevent DoS
	// This check prevents excessive regex operations on malicious input
	sensitiveCount := strings.Count(jsonStr, `"password"`) +
		strings.Count(jsonStr, `"apikey"`) +
		strings.Count(jsonStr, `"session-id"`) +
		strings.Count(jsonStr, `"secret"`) +
		strings.Count(jsonStr, `"key"`) +
		strings.Count(jsonStr, `"token"`)

	if sensitiveCount > MaxSensitiveFields {
		c.logger.Warn(context.Background(), "Too many sensitive fields detected",
			"count", sensitiveCount,
			"max", MaxSensitiveFields)
		return JSONTooManySensitiveMsg
	}

	// Redact sensitive data first
	redacted := c.redactSensitiveData(jsonStr)

	// Pretty-print JSON if enabled
	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		} else {
			// Fallback: if indent fails (e.g., invalid JSON), return redacted as-is
			c.logger.Debug(context.Background(), "JSON pretty-print failed, using raw redacted output",
				"error", err.Error())
		}
	}

	return redacted
}

// redactSensitiveData replaces sensitive data in JSON with [REDACTED]
//
// Redacts common sensitive types in JSON fields:
//   - "password": "value" fields
//   - "apikey": "value" fields
//   - "session-id": "value" fields
//   - "secret": "value" fields
//   - "key": "value" fields
//   - "token": "value" fields
//
// Handles flexible whitespace around colons (RFC 8259 compliant).
//
// Security Note: This method is called after size/count validation to prevent
// ReDoS attacks from malicious input.
//
// Returns the redacted JSON string.
func (c *Client) redactSensitiveData(json string) string {
	replacements := []string{
		`"password":"[REDACTED]"`,
		`"apikey":"[REDACTED]"`,
		`"session-id":"[REDACTED]"`,
		`"secret":"[REDACTED]"`,
		`"key":"[REDACTED]"`,
		`"token":"[REDACTED]"`,
	}

	result := json
	for i, pattern := range c.redactionPatterns {
		result = pattern.ReplaceAllString(result, replacements[i])
	}

	return result
}

// validateConfig validates client configuration before use
//
// Validates:
//   - Endpoint URL parses and uses the http or https scheme
//   - API key is not empty
//   - Positive request timeout
//   - Supported language
//   - Rate limit parameters (non-negative rate, positive burst when limited)
//   - Proxy URL parses (if provided)
//
// Returns an error if validation fails.
func (c *Client) validateConfig() error {
	// Validate endpoint URL
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("endpoint URL cannot be empty")
	}
	parsed, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid endpoint URL scheme: %q (must be http or https)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("endpoint URL has no host: %s", c.URL)
	}

	// Validate api key
	if strings.TrimSpace(c.apiKey) == "" {
		return fmt.Errorf("api key cannot be empty")
	}

	// Validate timeout is positive
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %v", c.RequestTimeout)
	}

	// Validate language
	if err := ValidateLanguage(c.Language); err != nil {
		return err
	}

	// Validate rate limit parameters
	if c.rateLimitRPS < 0 {
		return fmt.Errorf("rate limit must be non-negative, got: %f", c.rateLimitRPS)
	}
	if c.rateLimitRPS > 0 && c.rateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be >= 1, got: %d", c.rateLimitBurst)
	}

	// Validate proxy URL if provided
	if c.proxyURL != "" {
		proxy, err := url.Parse(c.proxyURL)
		if err != nil {
			return fmt.Errorf("invalid proxy URL: %w", err)
		}
		if proxy.Scheme != "http" && proxy.Scheme != "https" {
			return fmt.Errorf("invalid proxy URL scheme: %q (must be http or https)", proxy.Scheme)
		}
	}

	// Warn on unencrypted endpoints
	if parsed.Scheme == "http" {
		c.logger.Warn(context.Background(), "endpoint uses plain HTTP - connection is not encrypted",
			"url", c.URL,
			"security_risk", "API key and credentials transmitted in clear text",
			"recommendation", "Use HTTPS for production use")
	}

	// Warn on insecure TLS configuration
	if parsed.Scheme == "https" && c.InsecureSkipVerify {
		c.logger.Warn(context.Background(), "InsecureSkipVerify enabled - TLS certificate verification disabled",
			"url", c.URL,
			"security_risk", "Man-in-the-Middle attacks possible",
			"recommendation", "Use only in testing environments")
	}

	// Warn if credentials are missing (not an error, key-only use is valid
	// for the informational idoit.* methods)
	if !c.basicAuth && !c.HasCredentials() {
		c.logger.Warn(context.Background(), "No credentials configured",
			"url", c.URL,
			"message", "Login is unavailable, cmdb.* methods will be refused")
	}

	// Basic auth needs the credential pair
	if c.basicAuth && (c.username == "" || c.password == "") {
		return fmt.Errorf("basic auth requires username and password")
	}

	return nil
}

// buildHTTPClient builds the HTTP client from the validated configuration
//
// Timeouts are enforced through per-request contexts (see
// createRequestContext), so no transport-level timeout is set here.
//
// PRECONDITION: Configuration must be validated via validateConfig().
//
// Returns an error if the proxy URL cannot be parsed.
func (c *Client) buildHTTPClient() error {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			//nolint:gosec // G402: verification toggle is an explicit user opt-out
			InsecureSkipVerify: c.InsecureSkipVerify,
		},
	}

	if c.proxyURL != "" {
		proxy, err := url.Parse(c.proxyURL)
		if err != nil {
			return fmt.Errorf("failed to parse proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	c.httpClient = &http.Client{
		Transport: transport,
	}

	return nil
}
