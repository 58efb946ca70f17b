// Package repository provides read-only data access to the events and
// sessions maintained by the external CRUD collaborator.  Sentinel errors
// let handlers distinguish a missing row from an infrastructure failure
// without string matching.
package repository

import "errors"

// ErrEventNotFound is returned when no event exists with the given id.
// Handlers should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")
