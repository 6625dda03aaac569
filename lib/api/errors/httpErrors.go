package errors

var InvalidRevisionError = Error{
	Message: "Invalid revision number",
	Error:   400,
}

var InvalidRequestError = Error{
	Message: "Invalid request",
	Error:   400,
}

var InvalidDocumentIDError = Error{
	Message: "Invalid document id",
	Error:   400,
}

var EmptyRevisionError = Error{
	Message: "A revision needs at least one change",
	Error:   400,
}

func NewInvalidParamError(paramName string) Error {
	return Error{
		Message: "Invalid parameter: " + paramName,
		Error:   400,
	}
}

var DocumentNotFoundError = Error{
	Message: "Document not found",
	Error:   404,
}

var RevisionNotFoundError = Error{
	Message: "Revision not found",
	Error:   404,
}

var DocumentAlreadyExistsError = Error{
	Message: "Document already exists",
	Error:   409,
}

func NewRevisionOrderError(message string) Error {
	return Error{
		Message: message,
		Error:   409,
	}
}

var ValidationError = Error{
	Message: "Validation failed",
	Error:   422,
}

var TooManyRequestsError = Error{
	Message: "Too many revisions submitted, try again later",
	Error:   429,
}

var InternalServerError = Error{
	Message: "Internal server error",
	Error:   500,
}

var HistoryDamagedError = Error{
	Message: "Change history is damaged and does not accept revisions",
	Error:   500,
}

var ShuttingDownError = Error{
	Message: "Server is shutting down",
	Error:   503,
}
