package change

// Record is the persisted form of a change, as written by a Codec.
type Record struct {
	Kind          Kind        `json:"k"`
	DocumentID    string      `json:"d"`
	Statement     *Statement  `json:"st,omitempty"`
	Annotation    *Annotation `json:"an,omitempty"`
	Import        string      `json:"im,omitempty"`
	NewDocumentID string      `json:"nd,omitempty"`
}

// ToRecord converts a change into the record that is written to disk.
func ToRecord(c Change) Record {
	r := Record{Kind: c.Kind, DocumentID: c.DocumentID}
	switch c.Kind {
	case KindAddStatement, KindRemoveStatement:
		st := c.Statement
		r.Statement = &st
	case KindAddAnnotation, KindRemoveAnnotation:
		an := c.Annotation
		r.Annotation = &an
	case KindAddImport, KindRemoveImport:
		r.Import = c.Import
	}
	return r
}
