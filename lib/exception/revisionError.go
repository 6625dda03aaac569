package exception

import (
	"errors"
	"fmt"
)

var (
	// ErrRevisionOrder is matched by every RevisionOrderError.
	ErrRevisionOrder = errors.New("revision number out of order")
	// ErrStoreDisposed is returned when a disposed store is asked to accept a revision.
	ErrStoreDisposed = errors.New("revision store has been disposed")

	// ErrHistoryDamaged is returned while a change history that failed to
	// load could not be repaired.
	ErrHistoryDamaged = errors.New("change history is damaged")
)

// RevisionOrderError rejects a revision whose number does not follow the current head.
type RevisionOrderError struct {
	*AppError
	Attempted int64
	Current   int64
}

func NewRevisionOrderError(attempted int64, current int64) *RevisionOrderError {
	return &RevisionOrderError{
		AppError: &AppError{
			Code: "REVISION_ORDER",
			Message: fmt.Sprintf("revision number (%d) must be greater than the current revision number (%d)",
				attempted, current),
			Cause: ErrRevisionOrder,
		},
		Attempted: attempted,
		Current:   current,
	}
}

// CorruptLogError reports a change history block that could not be decoded.
type CorruptLogError struct {
	*AppError
	Path   string
	Offset int64
}

func NewCorruptLogError(path string, offset int64, cause error) *CorruptLogError {
	return &CorruptLogError{
		AppError: &AppError{
			Code:    "CORRUPT_CHANGE_LOG",
			Message: fmt.Sprintf("change history %s is corrupt at offset %d", path, offset),
			Cause:   cause,
		},
		Path:   path,
		Offset: offset,
	}
}

var (
	// ErrEmptyRevision rejects a revision without any changes.
	ErrEmptyRevision        = errors.New("revision has no changes")
	ErrInvalidRevisionRange = errors.New("invalid revision range")
)

func NewInvalidRevisionRangeError(from int64, to int64) *AppError {
	return &AppError{
		Code:    "INVALID_REVISION_RANGE",
		Message: fmt.Sprintf("revisions (%d, %d] cannot be selected", from, to),
		Cause:   ErrInvalidRevisionRange,
	}
}

func NewHistoryDamagedError(path string, cause error) *AppError {
	return &AppError{
		Code:    "CHANGE_HISTORY_DAMAGED",
		Message: fmt.Sprintf("change history %s could not be repaired, no revisions are accepted", path),
		Cause:   fmt.Errorf("%w: %w", ErrHistoryDamaged, cause),
	}
}
