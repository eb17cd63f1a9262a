// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package idoit

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// EnvConfig describes the client configuration read from the environment
//
// Defaults are provided via struct tags; IDOIT_URL and IDOIT_API_KEY are
// required.
type EnvConfig struct {
	// URL of the JSON-RPC endpoint. ENV: IDOIT_URL
	URL string `env:"IDOIT_URL,required"`

	// APIKey of the tenant. ENV: IDOIT_API_KEY
	APIKey string `env:"IDOIT_API_KEY,required"`

	// Username for session login. ENV: IDOIT_USERNAME
	Username string `env:"IDOIT_USERNAME"`

	// Password for session login. ENV: IDOIT_PASSWORD
	Password string `env:"IDOIT_PASSWORD"`

	// Language for server responses (en/de). ENV: IDOIT_LANGUAGE
	Language string `env:"IDOIT_LANGUAGE,default=en"`

	// RequestTimeout for HTTP requests. ENV: IDOIT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"IDOIT_REQUEST_TIMEOUT,default=30s"`

	// SkipVerify disables TLS certificate verification. ENV: IDOIT_SKIP_VERIFY
	SkipVerify bool `env:"IDOIT_SKIP_VERIFY,default=false"`

	// Proxy URL for outbound requests. ENV: IDOIT_PROXY
	Proxy string `env:"IDOIT_PROXY"`

	// BasicAuth authenticates with HTTP Basic Auth instead of a session.
	// ENV: IDOIT_BASIC_AUTH
	BasicAuth bool `env:"IDOIT_BASIC_AUTH,default=false"`
}

// NewClientFromEnv creates a client configured from IDOIT_* environment
// variables
//
// The environment is decoded into EnvConfig; explicit options are applied
// afterwards and take precedence over the environment. This is the natural
// constructor for CI jobs and cron-style batch tooling.
//
// Example:
//
//	// IDOIT_URL=https://cmdb.example.com/src/jsonrpc.php
//	// IDOIT_API_KEY=c1ia5q
//	// IDOIT_USERNAME=admin
//	// IDOIT_PASSWORD=secret
//	client, err := idoit.NewClientFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewClientFromEnv(opts ...func(*Client)) (*Client, error) {
	var cfg EnvConfig
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	envOpts := []func(*Client){
		Username(cfg.Username),
		Password(cfg.Password),
		Language(cfg.Language),
		RequestTimeout(cfg.RequestTimeout),
		VerifyCertificate(!cfg.SkipVerify),
		BasicAuth(cfg.BasicAuth),
	}
	if cfg.Proxy != "" {
		envOpts = append(envOpts, Proxy(cfg.Proxy))
	}

	return NewClient(cfg.URL, cfg.APIKey, append(envOpts, opts...)...)
}
