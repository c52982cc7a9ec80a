// Package sentinel holds shared dependency errors. Stores return these
// (optionally wrapped) so services translate them into domain errors
// exactly once.
package sentinel

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
