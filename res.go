// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package idoit

import "github.com/tidwall/gjson"

// Res represents a generic JSON-RPC response
//
// Raw holds the result member of the response envelope as JSON text. All
// typed responses embed Res, so the gjson accessors below are available on
// every result the client returns.
type Res struct {
	// Raw is the result member of the JSON-RPC response as JSON text
	Raw string

	// ID is the request id this response was matched against
	ID int64

	// OK indicates if the operation succeeded
	OK bool

	// Errors contains any error information
	Errors []ErrorModel
}

// GetValue retrieves a value from the result using a gjson path.
// The path follows gjson syntax for querying JSON structures.
//
// Example paths:
//   - "title" - Get an object's title
//   - "categories.g" - Get the global category constants
//   - "0.documentId" - Get the first search hit's document id
//
// Returns gjson.Result which can be converted to specific types:
//   - result.String() for string values
//   - result.Int() for integer values
//   - result.Bool() for boolean values
//   - result.Array() for array values
//
// Example:
//
//	res, err := client.Call(ctx, idoit.MethodObjectRead, `{"id": 42}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	title := res.GetValue("title").String()
//	status := res.GetValue("cmdb_status").Int()
func (r Res) GetValue(path string) gjson.Result {
	if r.Raw == "" {
		return gjson.Result{}
	}
	return gjson.Get(r.Raw, path)
}

// JSON returns the raw result as a JSON string.
// This is useful for debugging, logging, or custom parsing.
//
// Example:
//
//	res, err := client.Version(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.JSON()) // Print full result as JSON
func (r Res) JSON() string {
	return r.Raw
}

// LoginRes represents an idoit.login response
type LoginRes struct {
	Res

	// SessionID is the server-issued session token
	SessionID string

	// UserID is the numeric id of the authenticated account
	UserID string

	// Username is the login name of the authenticated account
	Username string

	// Name is the display name of the authenticated account
	Name string

	// Mail is the mail address of the authenticated account
	Mail string

	// ClientID is the tenant id the session is bound to
	ClientID int64
}

// VersionRes represents an idoit.version response
type VersionRes struct {
	Res

	// Version is the i-doit release version
	Version string

	// Step is the patch level, if any
	Step string

	// Type is the installation variant (OPEN or PRO)
	Type string
}

// SearchResult represents a single idoit.search hit
type SearchResult struct {
	// DocumentID is the id of the matching document
	DocumentID string

	// Key names the attribute that matched
	Key string

	// Value is the matching attribute value
	Value string

	// Type is the source index of the hit (e.g. cmdb)
	Type string

	// Link is a relative URL to the matching document
	Link string

	// Score is the server-assigned relevance score
	Score int64
}

// SearchRes represents an idoit.search response
type SearchRes struct {
	Res

	// Results contains the search hits in server order
	Results []SearchResult
}

// ConstantsRes represents an idoit.constants response
type ConstantsRes struct {
	Res

	// ObjectTypes maps object type constants to their translated titles
	ObjectTypes map[string]string

	// GlobalCategories maps global category constants to their translated titles
	GlobalCategories map[string]string

	// SpecificCategories maps specific category constants to their translated titles
	SpecificCategories map[string]string
}

// ObjectRes represents a cmdb.object.read response
type ObjectRes struct {
	Res

	// ID is the object id
	ID int64

	// Title is the object title
	Title string

	// SysID is the unique system identifier
	SysID string

	// ObjectType is the numeric object type id
	ObjectType int64

	// TypeTitle is the translated object type title
	TypeTitle string

	// Status is the record status
	Status int64

	// CmdbStatus is the numeric CMDB status id
	CmdbStatus int64

	// CmdbStatusTitle is the translated CMDB status title
	CmdbStatusTitle string

	// Created is the creation timestamp as reported by the server
	Created string

	// Updated is the last modification timestamp as reported by the server
	Updated string
}

// CreateRes represents a cmdb.object.create response
type CreateRes struct {
	Res

	// ID is the id of the created object
	ID int64

	// Message is the server confirmation message
	Message string

	// Success indicates whether the object was created
	Success bool
}

// StatusRes represents a success/message response
//
// Returned by the object lifecycle operations (update, delete, recycle,
// archive, purge, markAsTemplate) and by idoit.logout.
type StatusRes struct {
	Res

	// Success indicates whether the operation was applied
	Success bool

	// Message is the server confirmation message
	Message string
}
