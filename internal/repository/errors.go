// Package repository implements the data access layer over MySQL.  This
// file defines sentinel error values reused across repositories so that
// handlers can map failure scenarios to HTTP status codes without
// inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when an insert would violate the unique
// email constraint.  Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already registered")

// ErrNotFound is returned when a referenced entity is absent.  Handlers
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
