package change

import "fmt"

type Kind uint8

const (
	KindAddStatement Kind = iota + 1
	KindRemoveStatement
	KindAddAnnotation
	KindRemoveAnnotation
	KindAddImport
	KindRemoveImport
	// KindSetDocumentID only exists as a persisted record, see RecordTranslator.
	KindSetDocumentID
)

var kindNames = map[Kind]string{
	KindAddStatement:     "addStatement",
	KindRemoveStatement:  "removeStatement",
	KindAddAnnotation:    "addAnnotation",
	KindRemoveAnnotation: "removeAnnotation",
	KindAddImport:        "addImport",
	KindRemoveImport:     "removeImport",
	KindSetDocumentID:    "setDocumentId",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown change kind: %q", s)
}

func (k Kind) IsAddition() bool {
	return k == KindAddStatement || k == KindAddAnnotation || k == KindAddImport
}

// Statement is a single structured statement of a document.
type Statement struct {
	Subject   string `json:"s"`
	Predicate string `json:"p"`
	Object    string `json:"o"`
}

// Annotation is a property/value pair attached to the document itself.
type Annotation struct {
	Property string `json:"p"`
	Value    string `json:"v"`
}

// Change is one atomic edit to a document. Only the field matching Kind is set.
// Changes are comparable with ==.
type Change struct {
	Kind       Kind
	DocumentID string
	Statement  Statement
	Annotation Annotation
	Import     string
}

func AddStatement(documentID string, statement Statement) Change {
	return Change{Kind: KindAddStatement, DocumentID: documentID, Statement: statement}
}

func RemoveStatement(documentID string, statement Statement) Change {
	return Change{Kind: KindRemoveStatement, DocumentID: documentID, Statement: statement}
}

func AddAnnotation(documentID string, annotation Annotation) Change {
	return Change{Kind: KindAddAnnotation, DocumentID: documentID, Annotation: annotation}
}

func RemoveAnnotation(documentID string, annotation Annotation) Change {
	return Change{Kind: KindRemoveAnnotation, DocumentID: documentID, Annotation: annotation}
}

func AddImport(documentID string, iri string) Change {
	return Change{Kind: KindAddImport, DocumentID: documentID, Import: iri}
}

func RemoveImport(documentID string, iri string) Change {
	return Change{Kind: KindRemoveImport, DocumentID: documentID, Import: iri}
}

func (c Change) String() string {
	switch c.Kind {
	case KindAddStatement, KindRemoveStatement:
		return fmt.Sprintf("%s(%s %s %s)", c.Kind, c.Statement.Subject, c.Statement.Predicate, c.Statement.Object)
	case KindAddAnnotation, KindRemoveAnnotation:
		return fmt.Sprintf("%s(%s=%s)", c.Kind, c.Annotation.Property, c.Annotation.Value)
	default:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Import)
	}
}
