package documents

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/protegeproject/webprotege-revision-manager/lib"
	apiError "github.com/protegeproject/webprotege-revision-manager/lib/api/errors"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/utils"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/db"
	libUtils "github.com/protegeproject/webprotege-revision-manager/lib/utils"
)

type CreateDocumentRequest struct {
	DocumentID string `json:"documentId" validate:"omitempty,max=128"`
}

type DocumentResponse struct {
	DocumentID string `json:"documentId"`
	Head       int64  `json:"head"`
	Author     string `json:"author,omitempty"`
	LastSaved  string `json:"lastSaved,omitempty"`
}

func NewDocumentResponse(document db.DocumentDB) DocumentResponse {
	response := DocumentResponse{
		DocumentID: document.ID,
		Head:       document.Head,
		Author:     document.Author,
	}
	if document.Head > 0 {
		response.LastSaved = libUtils.ToIsoDateTime(document.LastSaved)
	}
	return response
}

func Init(store *lib.InitStore) {
	store.C.Get("/api/documents", func(c *fiber.Ctx) error {
		documents, err := store.Store.ListDocuments()
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		response := make([]DocumentResponse, 0, len(documents))
		for _, document := range documents {
			response = append(response, NewDocumentResponse(document))
		}
		return c.JSON(response)
	})

	store.C.Post("/api/documents", func(c *fiber.Ctx) error {
		var request CreateDocumentRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&request); err != nil {
				return c.Status(400).JSON(apiError.InvalidRequestError)
			}
			if err := store.Validator.Struct(request); err != nil {
				return c.Status(422).JSON(apiError.ValidationError)
			}
		}
		if request.DocumentID == "" {
			request.DocumentID = uuid.NewString()
		}
		if store.Registry.Exists(request.DocumentID) {
			return c.Status(409).JSON(apiError.DocumentAlreadyExistsError)
		}

		manager, err := store.Registry.Open(request.DocumentID)
		if err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		document := db.DocumentDB{ID: manager.DocumentID()}
		if err := store.Store.SaveDocument(document); err != nil {
			return utils.SendError(c, err, store.Logger)
		}
		store.Logger.Infof("%s Created document", manager.DocumentID())
		return c.Status(201).JSON(NewDocumentResponse(document))
	})
}
