package exception

import "fmt"

// DatabaseError wraps a failure of the document catalog backend.
type DatabaseError struct {
	*AppError
	Operation string
}

func NewDatabaseError(operation string, cause error) *DatabaseError {
	return &DatabaseError{
		AppError: &AppError{
			Code:    "CATALOG_ERROR",
			Message: fmt.Sprintf("catalog failed while %s", operation),
			Cause:   cause,
		},
		Operation: operation,
	}
}
