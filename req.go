// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package idoit

import "time"

// Req represents a JSON-RPC request modifier
//
// This struct is used to apply request-specific options via functional
// modifiers. Method names and parameter objects are passed directly to
// methods.
//
// Example:
//
//	// Read with a custom timeout
//	res, err := client.ReadObject(ctx, 42,
//	    idoit.Timeout(30*time.Second))
type Req struct {
	// Timeout is the request-specific timeout
	// Overrides client default timeout if set
	Timeout time.Duration

	// params carries extra parameters injected via the Param modifier
	params []paramPatch
}

// paramPatch is a single pending parameter injection
type paramPatch struct {
	path  string
	value any
}
