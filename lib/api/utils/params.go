package utils

import (
	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
	revisionModel "github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/revision"
)

// GetManagerSafe returns the manager of the document named by the
// documentId route parameter. The parameter is copied because fiber reuses
// the request buffer it points into.
func GetManagerSafe(c *fiber.Ctx, registry *revision.Registry) (*revision.Manager, error) {
	return registry.Get(fiberUtils.CopyString(c.Params("documentId")))
}

// ParseRevisionNumber reads a revision number, accepting "head". An empty
// value yields fallback.
func ParseRevisionNumber(value string, fallback revisionModel.Number) (revisionModel.Number, error) {
	if value == "" {
		return fallback, nil
	}
	return revisionModel.ParseNumber(value)
}
