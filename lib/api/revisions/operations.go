package revisions

import (
	"fmt"

	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/utils"
)

type StatementDTO struct {
	Subject   string `json:"subject" validate:"required"`
	Predicate string `json:"predicate" validate:"required"`
	Object    string `json:"object" validate:"required"`
}

type AnnotationDTO struct {
	Property string `json:"property" validate:"required"`
	Value    string `json:"value"`
}

type ChangeDTO struct {
	Kind       string         `json:"kind" validate:"required,oneof=addStatement removeStatement addAnnotation removeAnnotation addImport removeImport"`
	Statement  *StatementDTO  `json:"statement,omitempty"`
	Annotation *AnnotationDTO `json:"annotation,omitempty"`
	Import     string         `json:"import,omitempty"`
}

type AddRevisionRequest struct {
	Author      string      `json:"author" validate:"required,max=256"`
	Description string      `json:"description" validate:"max=4096"`
	Changes     []ChangeDTO `json:"changes" validate:"required,min=1,dive"`
}

type HeadResponse struct {
	DocumentID     string `json:"documentId"`
	RevisionNumber int64  `json:"revisionNumber"`
}

type RevisionSummaryResponse struct {
	RevisionNumber int64  `json:"revisionNumber"`
	Author         string `json:"author"`
	Timestamp      string `json:"timestamp"`
	Description    string `json:"description"`
	ChangeCount    int    `json:"changeCount"`
}

type RevisionResponse struct {
	RevisionSummaryResponse
	Changes []ChangeDTO `json:"changes"`
}

type ChangesResponse struct {
	From    int64       `json:"from"`
	To      int64       `json:"to"`
	Changes []ChangeDTO `json:"changes"`
}

// ToChange converts the request form into a change of documentID.
func (c ChangeDTO) ToChange(documentID string) (change.Change, error) {
	kind, err := change.ParseKind(c.Kind)
	if err != nil {
		return change.Change{}, err
	}
	switch kind {
	case change.KindAddStatement, change.KindRemoveStatement:
		if c.Statement == nil || c.Statement.Subject == "" || c.Statement.Predicate == "" || c.Statement.Object == "" {
			return change.Change{}, fmt.Errorf("%s needs a complete statement", kind)
		}
		return change.Change{Kind: kind, DocumentID: documentID, Statement: change.Statement{
			Subject:   c.Statement.Subject,
			Predicate: c.Statement.Predicate,
			Object:    c.Statement.Object,
		}}, nil
	case change.KindAddAnnotation, change.KindRemoveAnnotation:
		if c.Annotation == nil || c.Annotation.Property == "" {
			return change.Change{}, fmt.Errorf("%s needs an annotation", kind)
		}
		return change.Change{Kind: kind, DocumentID: documentID, Annotation: change.Annotation{
			Property: c.Annotation.Property,
			Value:    c.Annotation.Value,
		}}, nil
	case change.KindAddImport, change.KindRemoveImport:
		if c.Import == "" {
			return change.Change{}, fmt.Errorf("%s needs an import", kind)
		}
		return change.Change{Kind: kind, DocumentID: documentID, Import: c.Import}, nil
	default:
		return change.Change{}, fmt.Errorf("%w: %s", change.ErrUnsupportedRecord, kind)
	}
}

func (r AddRevisionRequest) ToChanges(documentID string) ([]change.Change, error) {
	changes := make([]change.Change, 0, len(r.Changes))
	for i, dto := range r.Changes {
		c, err := dto.ToChange(documentID)
		if err != nil {
			return nil, fmt.Errorf("change %d: %w", i, err)
		}
		changes = append(changes, c)
	}
	return changes, nil
}

func NewChangeDTO(c change.Change) ChangeDTO {
	dto := ChangeDTO{Kind: c.Kind.String()}
	switch c.Kind {
	case change.KindAddStatement, change.KindRemoveStatement:
		dto.Statement = &StatementDTO{
			Subject:   c.Statement.Subject,
			Predicate: c.Statement.Predicate,
			Object:    c.Statement.Object,
		}
	case change.KindAddAnnotation, change.KindRemoveAnnotation:
		dto.Annotation = &AnnotationDTO{Property: c.Annotation.Property, Value: c.Annotation.Value}
	default:
		dto.Import = c.Import
	}
	return dto
}

func NewChangeDTOs(changes []change.Change) []ChangeDTO {
	dtos := make([]ChangeDTO, 0, len(changes))
	for _, c := range changes {
		dtos = append(dtos, NewChangeDTO(c))
	}
	return dtos
}

func NewRevisionSummaryResponse(summary revision.Summary) RevisionSummaryResponse {
	return RevisionSummaryResponse{
		RevisionNumber: int64(summary.Number),
		Author:         summary.Author,
		Timestamp:      utils.ToIsoDateTime(summary.Timestamp),
		Description:    summary.Description,
		ChangeCount:    summary.ChangeCount,
	}
}

func NewRevisionResponse(rev revision.Revision) RevisionResponse {
	return RevisionResponse{
		RevisionSummaryResponse: NewRevisionSummaryResponse(rev.Summary()),
		Changes:                 NewChangeDTOs(rev.Changes),
	}
}
