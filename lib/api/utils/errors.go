package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	apiError "github.com/protegeproject/webprotege-revision-manager/lib/api/errors"
	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"go.uber.org/zap"
)

// SendError maps a domain error onto the status and body the API reports.
func SendError(c *fiber.Ctx, err error, logger *zap.SugaredLogger) error {
	var notFound *exception.DocumentNotFoundError
	var orderError *exception.RevisionOrderError

	var body apiError.Error
	switch {
	case errors.As(err, &notFound):
		body = apiError.DocumentNotFoundError
	case errors.Is(err, exception.ErrInvalidDocumentID):
		body = apiError.InvalidDocumentIDError
	case errors.As(err, &orderError):
		body = apiError.NewRevisionOrderError(orderError.Message)
	case errors.Is(err, exception.ErrEmptyRevision):
		body = apiError.EmptyRevisionError
	case errors.Is(err, exception.ErrInvalidRevisionRange):
		body = apiError.NewInvalidParamError("from/to")
	case errors.Is(err, exception.ErrHistoryDamaged):
		logger.Errorf("Rejected %s %s: %v", c.Method(), c.Path(), err)
		body = apiError.HistoryDamagedError
	case errors.Is(err, exception.ErrStoreDisposed):
		body = apiError.ShuttingDownError
	default:
		logger.Errorf("Unexpected error while handling %s %s: %v", c.Method(), c.Path(), err)
		body = apiError.InternalServerError
	}
	return c.Status(body.Error).JSON(body)
}
