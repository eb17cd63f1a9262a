// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package idoit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Input validation constants
const (
	// MaxParamsSize is the maximum size for a params object in bytes (10MB)
	MaxParamsSize = 10 * 1024 * 1024

	// MaxQueryLength is the maximum length for a search query (1024 characters)
	MaxQueryLength = 1024
)

// Input validation functions

// validateObjectID validates a CMDB object id
//
// Object ids are positive integers assigned by the server.
//
// Returns an error if the id is not positive.
func validateObjectID(id int) error {
	if id <= 0 {
		return fmt.Errorf("object id must be positive, got: %d", id)
	}
	return nil
}

// validateParamsJSON validates a params string for JSON-RPC operations
//
// Checks:
//   - Params size does not exceed MaxParamsSize (10MB)
//   - Params is a valid JSON document
//
// Returns an error if the params are invalid with a descriptive message.
func validateParamsJSON(params string) error {
	if len(params) > MaxParamsSize {
		return fmt.Errorf("params size exceeds maximum of %d bytes (got %d bytes)", MaxParamsSize, len(params))
	}
	if !gjson.Valid(params) {
		return fmt.Errorf("params must be valid JSON")
	}
	return nil
}

// validateCreateParams validates the params object for cmdb.object.create
//
// Checks:
//   - Params is valid JSON within the size limit
//   - The object type is present (constant string or numeric id)
//   - The title is present and non-empty
//
// Returns an error if any requirement is missing.
func validateCreateParams(params string) error {
	if strings.TrimSpace(params) == "" {
		return fmt.Errorf("create params cannot be empty")
	}
	if err := validateParamsJSON(params); err != nil {
		return err
	}
	if !gjson.Get(params, "type").Exists() {
		return fmt.Errorf("create params must include an object type")
	}
	if gjson.Get(params, "title").String() == "" {
		return fmt.Errorf("create params must include a title")
	}
	return nil
}

// validateUpdateParams validates the params object for cmdb.object.update
//
// The update method changes an object's title, so the title is required.
//
// Returns an error if any requirement is missing.
func validateUpdateParams(params string) error {
	if strings.TrimSpace(params) == "" {
		return fmt.Errorf("update params cannot be empty")
	}
	if err := validateParamsJSON(params); err != nil {
		return err
	}
	if gjson.Get(params, "title").String() == "" {
		return fmt.Errorf("update params must include a title")
	}
	return nil
}

// validateSearchQuery validates an idoit.search query string
//
// Checks:
//   - Query is not empty
//   - Query length does not exceed MaxQueryLength
//
// Returns an error if the query is invalid.
func validateSearchQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search query cannot be empty")
	}
	if len(query) > MaxQueryLength {
		return fmt.Errorf("search query exceeds maximum length of %d characters", MaxQueryLength)
	}
	return nil
}

// Search performs a global CMDB search via idoit.search
//
// The query is matched against object titles, attribute values and document
// contents, like the search box of the web UI. Search works with the api key
// alone; no session is required.
//
// Example:
//
//	ctx := context.Background()
//	res, err := client.Search(ctx, "web-01")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, hit := range res.Results {
//	    fmt.Printf("%s: %s (%s)\n", hit.DocumentID, hit.Value, hit.Key)
//	}
//
// Returns SearchRes with the hits in server order, OK status, and any errors.
func (c *Client) Search(ctx context.Context, query string, mods ...func(*Req)) (SearchRes, error) {
	// Validate query before any network I/O
	if err := validateSearchQuery(query); err != nil {
		return SearchRes{Res: errRes(0, err)}, fmt.Errorf("search: %w", err)
	}

	params, err := Body{}.Set("q", query).String()
	if err != nil {
		return SearchRes{Res: errRes(0, err)}, fmt.Errorf("search: failed to build params: %w", err)
	}

	res, err := c.Call(ctx, MethodSearch, params, mods...)
	if err != nil {
		return SearchRes{Res: res}, err
	}

	// The server answers with an array of hits, or a single object when
	// exactly one document matches
	results := []SearchResult{}
	collect := func(item gjson.Result) {
		results = append(results, SearchResult{
			DocumentID: item.Get("documentId").String(),
			Key:        item.Get("key").String(),
			Value:      item.Get("value").String(),
			Type:       item.Get("type").String(),
			Link:       item.Get("link").String(),
			Score:      item.Get("score").Int(),
		})
	}
	parsed := gjson.Parse(res.Raw)
	if parsed.IsArray() {
		parsed.ForEach(func(_, item gjson.Result) bool {
			collect(item)
			return true
		})
	} else if parsed.IsObject() {
		collect(parsed)
	}

	return SearchRes{Res: res, Results: results}, nil
}

// Version reports the version of the i-doit installation via idoit.version
//
// Works with the api key alone; no session is required.
//
// Example:
//
//	res, err := client.Version(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("i-doit %s %s\n", res.Type, res.Version)
func (c *Client) Version(ctx context.Context, mods ...func(*Req)) (VersionRes, error) {
	res, err := c.Call(ctx, MethodVersion, "{}", mods...)
	if err != nil {
		return VersionRes{Res: res}, err
	}

	return VersionRes{
		Res:     res,
		Version: res.GetValue("version").String(),
		Step:    res.GetValue("step").String(),
		Type:    res.GetValue("type").String(),
	}, nil
}

// Constants lists the installation's constants via idoit.constants
//
// The result covers object types and the global and specific category
// constants, keyed by constant name with translated titles as values.
// Works with the api key alone; no session is required.
//
// Example:
//
//	res, err := client.Constants(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.ObjectTypes["C__OBJTYPE__SERVER"])
func (c *Client) Constants(ctx context.Context, mods ...func(*Req)) (ConstantsRes, error) {
	res, err := c.Call(ctx, MethodConstants, "{}", mods...)
	if err != nil {
		return ConstantsRes{Res: res}, err
	}

	toMap := func(val gjson.Result) map[string]string {
		m := map[string]string{}
		val.ForEach(func(key, value gjson.Result) bool {
			m[key.String()] = value.String()
			return true
		})
		return m
	}

	return ConstantsRes{
		Res:                res,
		ObjectTypes:        toMap(res.GetValue("objectTypes")),
		GlobalCategories:   toMap(res.GetValue("categories.g")),
		SpecificCategories: toMap(res.GetValue("categories.s")),
	}, nil
}

// CreateObject creates a new CMDB object via cmdb.object.create
//
// The params object must include the object type (constant string or numeric
// id) and a title. Optional attributes like category, purpose, cmdb_status
// and description are passed through as-is. Use the Body builder to
// assemble params.
//
// Example:
//
//	params, _ := idoit.Body{}.
//	    Set("type", "C__OBJTYPE__SERVER").
//	    Set("title", "web-01").
//	    Set("purpose", "Production").
//	    String()
//	res, err := client.CreateObject(ctx, params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("created object %d\n", res.ID)
//
// Returns CreateRes with the new object id parsed from the result.
func (c *Client) CreateObject(ctx context.Context, params string, mods ...func(*Req)) (CreateRes, error) {
	// Validate params before any network I/O
	if err := validateCreateParams(params); err != nil {
		return CreateRes{Res: errRes(0, err)}, fmt.Errorf("create object: %w", err)
	}

	res, err := c.Call(ctx, MethodObjectCreate, params, mods...)
	if err != nil {
		return CreateRes{Res: res}, err
	}

	// The object id arrives as a numeric string
	return CreateRes{
		Res:     res,
		ID:      res.GetValue("id").Int(),
		Message: res.GetValue("message").String(),
		Success: res.GetValue("success").Bool(),
	}, nil
}

// ReadObject reads a CMDB object's general attributes via cmdb.object.read
//
// Example:
//
//	res, err := client.ReadObject(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s (%s, %s)\n", res.Title, res.TypeTitle, res.CmdbStatusTitle)
func (c *Client) ReadObject(ctx context.Context, id int, mods ...func(*Req)) (ObjectRes, error) {
	// Validate id before any network I/O
	if err := validateObjectID(id); err != nil {
		return ObjectRes{Res: errRes(0, err)}, fmt.Errorf("read object: %w", err)
	}

	params, err := Body{}.Set("id", id).String()
	if err != nil {
		return ObjectRes{Res: errRes(0, err)}, fmt.Errorf("read object: failed to build params: %w", err)
	}

	res, err := c.Call(ctx, MethodObjectRead, params, mods...)
	if err != nil {
		return ObjectRes{Res: res}, err
	}

	return ObjectRes{
		Res:             res,
		ID:              res.GetValue("id").Int(),
		Title:           res.GetValue("title").String(),
		SysID:           res.GetValue("sysid").String(),
		ObjectType:      res.GetValue("objecttype").Int(),
		TypeTitle:       res.GetValue("type_title").String(),
		Status:          res.GetValue("status").Int(),
		CmdbStatus:      res.GetValue("cmdb_status").Int(),
		CmdbStatusTitle: res.GetValue("cmdb_status_title").String(),
		Created:         res.GetValue("created").String(),
		Updated:         res.GetValue("updated").String(),
	}, nil
}

// UpdateObject changes a CMDB object's title via cmdb.object.update
//
// The params object must include the new title; the object id is merged into
// the params automatically. Other general attributes are changed through
// their categories, not through this method.
//
// Example:
//
//	params, _ := idoit.Body{}.Set("title", "web-01-renamed").String()
//	res, err := client.UpdateObject(ctx, 42, params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Message)
func (c *Client) UpdateObject(ctx context.Context, id int, params string, mods ...func(*Req)) (StatusRes, error) {
	// Validate inputs before any network I/O
	if err := validateObjectID(id); err != nil {
		return StatusRes{Res: errRes(0, err)}, fmt.Errorf("update object: %w", err)
	}
	if err := validateUpdateParams(params); err != nil {
		return StatusRes{Res: errRes(0, err)}, fmt.Errorf("update object: %w", err)
	}

	merged, err := Body{str: params}.Set("id", id).String()
	if err != nil {
		return StatusRes{Res: errRes(0, err)}, fmt.Errorf("update object: failed to build params: %w", err)
	}

	res, err := c.Call(ctx, MethodObjectUpdate, merged, mods...)
	if err != nil {
		return StatusRes{Res: res}, err
	}
	return statusRes(res), nil
}

// DeleteObject marks a CMDB object as deleted via cmdb.object.delete
//
// Deleted objects stay in the database and can be restored with
// RecycleObject; use PurgeObject to remove an object permanently.
//
// Example:
//
//	res, err := client.DeleteObject(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Message)
func (c *Client) DeleteObject(ctx context.Context, id int, mods ...func(*Req)) (StatusRes, error) {
	return c.objectStatusOp(ctx, MethodObjectDelete, "delete object", id, mods...)
}

// RecycleObject restores an archived or deleted CMDB object via
// cmdb.object.recycle
//
// Example:
//
//	res, err := client.RecycleObject(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Message)
func (c *Client) RecycleObject(ctx context.Context, id int, mods ...func(*Req)) (StatusRes, error) {
	return c.objectStatusOp(ctx, MethodObjectRecycle, "recycle object", id, mods...)
}

// ArchiveObject marks a CMDB object as archived via cmdb.object.archive
//
// Example:
//
//	res, err := client.ArchiveObject(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Message)
func (c *Client) ArchiveObject(ctx context.Context, id int, mods ...func(*Req)) (StatusRes, error) {
	return c.objectStatusOp(ctx, MethodObjectArchive, "archive object", id, mods...)
}

// PurgeObject removes a CMDB object permanently via cmdb.object.purge
//
// Purged objects cannot be restored.
//
// Example:
//
//	res, err := client.PurgeObject(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Message)
func (c *Client) PurgeObject(ctx context.Context, id int, mods ...func(*Req)) (StatusRes, error) {
	return c.objectStatusOp(ctx, MethodObjectPurge, "purge object", id, mods...)
}

// MarkObjectAsTemplate turns a CMDB object into a template via
// cmdb.object.markAsTemplate
//
// Templates serve as blueprints for new objects in the web UI and are
// excluded from regular CMDB views.
//
// Example:
//
//	res, err := client.MarkObjectAsTemplate(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Message)
func (c *Client) MarkObjectAsTemplate(ctx context.Context, id int, mods ...func(*Req)) (StatusRes, error) {
	return c.objectStatusOp(ctx, MethodObjectMarkAsTemplate, "mark object as template", id, mods...)
}

// objectStatusOp runs an object lifecycle method that takes a bare object id
// and answers with a success/message pair
func (c *Client) objectStatusOp(ctx context.Context, method, op string, id int, mods ...func(*Req)) (StatusRes, error) {
	// Validate id before any network I/O
	if err := validateObjectID(id); err != nil {
		return StatusRes{Res: errRes(0, err)}, fmt.Errorf("%s: %w", op, err)
	}

	params, err := Body{}.Set("id", id).String()
	if err != nil {
		return StatusRes{Res: errRes(0, err)}, fmt.Errorf("%s: failed to build params: %w", op, err)
	}

	res, err := c.Call(ctx, method, params, mods...)
	if err != nil {
		return StatusRes{Res: res}, err
	}
	return statusRes(res), nil
}

// statusRes parses a success/message result into a StatusRes
//
// Lifecycle methods answer with a "success" flag, the session methods with a
// "result" flag; both are accepted.
func statusRes(res Res) StatusRes {
	return StatusRes{
		Res:     res,
		Success: res.GetValue("success").Bool() || res.GetValue("result").Bool(),
		Message: res.GetValue("message").String(),
	}
}

// Internal helper methods

// checkContextCancellation checks if context is canceled or deadline exceeded
//
// This is a non-blocking check that immediately returns if the context is canceled
// or deadline has exceeded. Used before building a request to avoid wasted work.
//
// Returns context.Canceled if context is canceled, context.DeadlineExceeded if
// deadline exceeded, or nil if context is still valid.
func checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err() // context.Canceled or context.DeadlineExceeded
	default:
		return nil
	}
}

// createRequestContext creates the context for a single HTTP request with timeout
//
// Timeout priority model:
//  1. Request-specific timeout (req.Timeout > 0) - highest priority
//  2. Existing context deadline (ctx.Deadline() set) - medium priority
//  3. Client default timeout (c.RequestTimeout) - fallback
//
// This model allows:
//   - Per-request timeout overrides: client.ReadObject(ctx, 42, idoit.Timeout(5*time.Second))
//   - Context deadline propagation: ctx, cancel := context.WithTimeout(parent, 30*time.Second)
//   - Sensible defaults: No timeout specified uses client.RequestTimeout
//
// CRITICAL: Caller MUST call the returned cancel function after the request
// completes to prevent goroutine leaks.
//
// Warnings are logged for extreme timeouts:
//   - Very short timeouts (<1s) may not allow requests to complete
//   - Very long timeouts (>5min) may delay error detection
//
// Returns a context with timeout applied and its cancel function.
func (c *Client) createRequestContext(ctx context.Context, req *Req) (context.Context, context.CancelFunc) {
	// Priority 1: Request-specific timeout (highest)
	if req.Timeout > 0 {
		// Warn about extreme timeouts
		if req.Timeout < time.Second {
			c.logger.Warn(ctx, "request timeout is very short (may not complete)",
				"timeout", req.Timeout.String(),
				"url", c.URL)
		} else if req.Timeout > 5*time.Minute {
			c.logger.Warn(ctx, "request timeout is very long (may delay error detection)",
				"timeout", req.Timeout.String(),
				"url", c.URL)
		}

		c.logger.Debug(ctx, "applying request-specific timeout",
			"timeout", req.Timeout.String(),
			"source", "request",
			"url", c.URL)

		return context.WithTimeout(ctx, req.Timeout)
	}

	// Priority 2: Existing context deadline (medium)
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		// Context already has deadline, respect it
		remaining := time.Until(deadline)
		c.logger.Debug(ctx, "using existing context deadline",
			"remaining", remaining.String(),
			"source", "context",
			"url", c.URL)
		// Return context with cancel to maintain consistent API
		return context.WithCancel(ctx)
	}

	// Priority 3: Client default timeout (fallback)
	c.logger.Debug(ctx, "applying client default timeout",
		"timeout", c.RequestTimeout.String(),
		"source", "client",
		"url", c.URL)

	return context.WithTimeout(ctx, c.RequestTimeout)
}
