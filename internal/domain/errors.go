package domain

import (
	"errors"
	"fmt"
)

// Guard and lookup errors. All of these are locally recoverable by a
// subsequent user action; none is fatal to the process.
var (
	ErrLoadInProgress  = errors.New("catalog load already in progress")
	ErrEditInFlight    = errors.New("edit submission already in flight")
	ErrEditClosed      = errors.New("edit session no longer active")
	ErrNoEditOpen      = errors.New("no open edit session")
	ErrSessionNotFound = errors.New("view session not found")
	ErrProductNotFound = errors.New("product not found")
	ErrExportNoData    = errors.New("export window is empty")
	ErrInvalidPage     = errors.New("page must be a positive integer")
	ErrInvalidPageSize = errors.New("page size must be a positive integer")
)

// LoadError wraps a failed catalog fetch or parse. The store keeps its
// previous contents (or stays empty on a first load).
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load failed: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EditError wraps a failed edit submission. Neither the store nor any
// derived list changes; the edit session stays open for retry or cancel.
type EditError struct {
	StatusCode int
	Err        error
}

func (e *EditError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("product edit failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("product edit failed: %v", e.Err)
}

func (e *EditError) Unwrap() error { return e.Err }
