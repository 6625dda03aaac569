package db

import "github.com/protegeproject/webprotege-revision-manager/lib/models/db"

type DocumentMethods interface {
	// SaveDocument inserts the document or updates it when document.Head is
	// not older than the stored head.
	SaveDocument(document db.DocumentDB) error
	GetDocument(documentID string) (*db.DocumentDB, error)
	DoesDocumentExist(documentID string) (bool, error)
	ListDocuments() ([]db.DocumentDB, error)
	RemoveDocument(documentID string) error
}

type DataStore interface {
	DocumentMethods
	Ping() error
	Close() error
}
