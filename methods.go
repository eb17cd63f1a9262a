// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package idoit

import (
	"fmt"
	"strings"
)

// JSON-RPC method names of the i-doit API
const (
	// MethodLogin opens a server-side session
	MethodLogin = "idoit.login"

	// MethodLogout closes the current server-side session
	MethodLogout = "idoit.logout"

	// MethodSearch performs a global search across the CMDB
	MethodSearch = "idoit.search"

	// MethodVersion reports the i-doit installation version
	MethodVersion = "idoit.version"

	// MethodConstants lists the installation's object type and category constants
	MethodConstants = "idoit.constants"

	// MethodObjectCreate creates a new CMDB object
	MethodObjectCreate = "cmdb.object.create"

	// MethodObjectRead reads a CMDB object's general attributes
	MethodObjectRead = "cmdb.object.read"

	// MethodObjectUpdate updates a CMDB object's title
	MethodObjectUpdate = "cmdb.object.update"

	// MethodObjectDelete marks a CMDB object as deleted
	MethodObjectDelete = "cmdb.object.delete"

	// MethodObjectRecycle restores an archived or deleted CMDB object
	MethodObjectRecycle = "cmdb.object.recycle"

	// MethodObjectArchive marks a CMDB object as archived
	MethodObjectArchive = "cmdb.object.archive"

	// MethodObjectPurge removes a CMDB object permanently
	MethodObjectPurge = "cmdb.object.purge"

	// MethodObjectMarkAsTemplate turns a CMDB object into a template
	MethodObjectMarkAsTemplate = "cmdb.object.markAsTemplate"
)

// Language constants for the login request
const (
	// LanguageEnglish requests English server responses (default)
	LanguageEnglish = "en"

	// LanguageGerman requests German server responses
	LanguageGerman = "de"
)

// ValidLanguages contains the list of valid language values
var ValidLanguages = []string{
	LanguageEnglish,
	LanguageGerman,
}

// ValidateLanguage checks if the language is valid
//
// Returns an error if the language is not one of the supported values.
//
// Example:
//
//	if err := idoit.ValidateLanguage("de"); err != nil {
//	    log.Fatal(err)
//	}
func ValidateLanguage(lang string) error {
	for _, valid := range ValidLanguages {
		if lang == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid language: %s (valid values: en, de)", lang)
}

// requiresSession reports whether a method needs an authenticated session.
// All cmdb.* namespace methods operate on CMDB data and are session-scoped,
// the idoit.* namespace methods are not.
func requiresSession(method string) bool {
	return strings.HasPrefix(method, "cmdb.")
}
