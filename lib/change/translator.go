package change

import (
	"errors"
	"fmt"
)

// ErrUnsupportedRecord is returned for records that have no Change equivalent.
var ErrUnsupportedRecord = errors.New("unsupported change record")

type Translator interface {
	Change(record Record) (Change, error)
}

type RecordTranslator struct{}

func NewRecordTranslator() RecordTranslator {
	return RecordTranslator{}
}

func (RecordTranslator) Change(record Record) (Change, error) {
	switch record.Kind {
	case KindAddStatement, KindRemoveStatement:
		if record.Statement == nil {
			return Change{}, fmt.Errorf("%s record without statement", record.Kind)
		}
		return Change{Kind: record.Kind, DocumentID: record.DocumentID, Statement: *record.Statement}, nil
	case KindAddAnnotation, KindRemoveAnnotation:
		if record.Annotation == nil {
			return Change{}, fmt.Errorf("%s record without annotation", record.Kind)
		}
		return Change{Kind: record.Kind, DocumentID: record.DocumentID, Annotation: *record.Annotation}, nil
	case KindAddImport, KindRemoveImport:
		return Change{Kind: record.Kind, DocumentID: record.DocumentID, Import: record.Import}, nil
	default:
		// KindSetDocumentID changes the identity of the document, which a revision cannot express.
		return Change{}, fmt.Errorf("%w: %s", ErrUnsupportedRecord, record.Kind)
	}
}

var _ Translator = RecordTranslator{}
