package exception

import (
	"errors"
	"fmt"
)

var ErrInvalidDocumentID = errors.New("invalid document id")

type DocumentNotFoundError struct {
	*AppError
	DocumentID string
}

func NewDocumentNotFoundError(documentID string) *DocumentNotFoundError {
	return &DocumentNotFoundError{
		AppError: &AppError{
			Code:    "DOCUMENT_NOT_FOUND",
			Message: fmt.Sprintf("document with id '%s' does not exist", documentID),
		},
		DocumentID: documentID,
	}
}

func NewInvalidDocumentIDError(documentID string) *AppError {
	return &AppError{
		Code:    "INVALID_DOCUMENT_ID",
		Message: fmt.Sprintf("'%s' is not a valid document id", documentID),
		Cause:   ErrInvalidDocumentID,
	}
}
