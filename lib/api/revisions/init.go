package revisions

import (
	"github.com/gofiber/fiber/v2"
	"github.com/protegeproject/webprotege-revision-manager/lib"
	apiError "github.com/protegeproject/webprotege-revision-manager/lib/api/errors"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/ratelimiter"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/utils"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
)

func Init(store *lib.InitStore) {
	documents := store.C.Group("/api/documents/:documentId")

	documents.Get("/head", func(c *fiber.Ctx) error {
		manager, err := utils.GetManagerSafe(c, store.Registry)
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		return c.JSON(HeadResponse{
			DocumentID:     manager.DocumentID(),
			RevisionNumber: int64(manager.CurrentRevisionNumber()),
		})
	})

	documents.Get("/revisions", func(c *fiber.Ctx) error {
		manager, err := utils.GetManagerSafe(c, store.Registry)
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		summaries := manager.Summaries()
		response := make([]RevisionSummaryResponse, 0, len(summaries))
		for _, summary := range summaries {
			response = append(response, NewRevisionSummaryResponse(summary))
		}
		return c.JSON(response)
	})

	documents.Get("/revisions/:rev", func(c *fiber.Ctx) error {
		manager, err := utils.GetManagerSafe(c, store.Registry)
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		revNum, err := revision.ParseNumber(c.Params("rev"))
		if err != nil {
			return c.Status(400).JSON(apiError.InvalidRevisionError)
		}
		rev, ok := manager.Revision(revNum)
		if !ok {
			return c.Status(404).JSON(apiError.RevisionNotFoundError)
		}
		return c.JSON(NewRevisionResponse(rev))
	})

	documents.Get("/changes", func(c *fiber.Ctx) error {
		manager, err := utils.GetManagerSafe(c, store.Registry)
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		from, err := utils.ParseRevisionNumber(c.Query("from"), revision.None)
		if err != nil {
			return c.Status(400).JSON(apiError.NewInvalidParamError("from"))
		}
		to, err := utils.ParseRevisionNumber(c.Query("to"), revision.Head)
		if err != nil {
			return c.Status(400).JSON(apiError.NewInvalidParamError("to"))
		}
		if to.IsHead() {
			to = manager.CurrentRevisionNumber()
		}
		changes, err := manager.Changes(from, to)
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		return c.JSON(ChangesResponse{
			From:    int64(from),
			To:      int64(to),
			Changes: NewChangeDTOs(changes),
		})
	})

	documents.Post("/revisions", func(c *fiber.Ctx) error {
		if err := store.RateLimiter.CheckRateLimit(ratelimiter.IPAddress(c.IP())); err != nil {
			return c.Status(429).JSON(apiError.TooManyRequestsError)
		}
		manager, err := utils.GetManagerSafe(c, store.Registry)
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}

		var request AddRevisionRequest
		if err := c.BodyParser(&request); err != nil {
			return c.Status(400).JSON(apiError.InvalidRequestError)
		}
		if err := store.Validator.Struct(request); err != nil {
			return c.Status(422).JSON(apiError.Error{
				Message: apiError.ValidationError.Message + ": " + err.Error(),
				Error:   422,
			})
		}
		changes, err := request.ToChanges(manager.DocumentID())
		if err != nil {
			return c.Status(422).JSON(apiError.Error{
				Message: apiError.ValidationError.Message + ": " + err.Error(),
				Error:   422,
			})
		}

		rev, err := manager.AddRevision(request.Author, changes, request.Description)
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		store.Logger.Debugf("%s Added revision %d by %s", manager.DocumentID(), rev.Number, rev.Author)
		return c.Status(201).JSON(NewRevisionSummaryResponse(rev.Summary()))
	})
}
