// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package idoit provides a simple, fluent API for interacting with the
// i-doit CMDB using its JSON-RPC 2.0 interface.
//
// The library provides a high-level client that handles session management,
// JSON manipulation, typed error handling, and thread-safe operations. Each
// call performs exactly one HTTP POST; nothing is retried behind the
// caller's back.
//
// # Quick Start
//
// Create a client, log in and perform basic operations:
//
//	client, err := idoit.NewClient(
//	    "https://cmdb.example.com/src/jsonrpc.php",
//	    "c1ia5q",
//	    idoit.Username("admin"),
//	    idoit.Password("secret"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if _, err := client.Login(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Logout(ctx)
//
//	res, err := client.ReadObject(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Title:", res.Title)
//
//	// Parse any result using gjson paths
//	created := res.GetValue("created").String()
//	fmt.Println("Created:", created)
//
// # JSON Manipulation
//
// Use the Body builder for constructing parameter objects:
//
//	params, err := idoit.Body{}.
//	    Set("type", "C__OBJTYPE__SERVER").
//	    Set("title", "web-01").
//	    Set("purpose", "Production").
//	    Set("cmdb_status", "C__CMDB_STATUS__IN_OPERATION").
//	    String()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	created, err := client.CreateObject(ctx, params)
//
// # Error Handling
//
// Failures are reported as typed errors that can be classified with
// errors.As: *TransportError (network or HTTP layer), *ProtocolError
// (malformed JSON-RPC response), *RemoteError (server-reported error
// envelope) and *AuthenticationError (missing or rejected session):
//
//	res, err := client.ReadObject(ctx, 42)
//	var remoteErr *idoit.RemoteError
//	if errors.As(err, &remoteErr) {
//	    fmt.Printf("server error %d: %s\n", remoteErr.Code, remoteErr.Message)
//	}
//
// # Thread Safety
//
// All operations are safe for concurrent use. The session token is guarded
// by a mutex and request ids are assigned atomically; callers should
// serialize Login and Logout against in-flight requests.
//
// # Supported Operations
//
//   - Login, Logout: session management
//   - Search, Version, Constants: installation-wide queries
//   - CreateObject, ReadObject, UpdateObject: object access
//   - DeleteObject, RecycleObject, ArchiveObject, PurgeObject,
//     MarkObjectAsTemplate: object lifecycle transitions
//   - Call: generic access to any other JSON-RPC method
//
// # References
//
//   - i-doit JSON-RPC API: https://kb.i-doit.com/en/i-doit-add-ons/api/index.html
//   - JSON-RPC 2.0 Specification: https://www.jsonrpc.org/specification
//   - gjson: https://github.com/tidwall/gjson
//   - sjson: https://github.com/tidwall/sjson
package idoit
