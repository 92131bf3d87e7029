package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain-level errors used by the repository and service layers to provide
// fine-grained failure reasons.
var (
	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	ErrNotFound = errors.New("not_found")
)

// ConflictError is returned when a conditional update lost against a
// concurrent writer. CurrentVersion is the version the winner produced and
// Current is the stored snapshot at that version, so the losing session can
// offer a reload without a second round trip.
type ConflictError struct {
	CurrentVersion int64
	Current        any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: current version is %d", ErrRowVersionConflict, e.CurrentVersion)
}

func (e *ConflictError) Unwrap() error { return ErrRowVersionConflict }

// DuplicateKeyError reports a uniqueness-key collision. Fields maps the
// colliding column names to the attempted values.
type DuplicateKeyError struct {
	Fields map[string]string
}

func (e *DuplicateKeyError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "duplicate key on (" + strings.Join(names, ", ") + ")"
}
