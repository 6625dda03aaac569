package migration

import (
	"fmt"

	"github.com/protegeproject/webprotege-revision-manager/lib/db"
	db2 "github.com/protegeproject/webprotege-revision-manager/lib/models/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/store"
	"go.uber.org/zap"
)

// DocumentLister enumerates the documents found in the data directory.
type DocumentLister interface {
	DocumentIDs() ([]string, error)
}

// Migrator rebuilds the document catalog from the change histories on disk.
type Migrator struct {
	documents DocumentLister
	stores    *store.Factory
	catalog   db.DataStore
	logger    *zap.SugaredLogger
}

func NewMigrator(documents DocumentLister, stores *store.Factory, catalog db.DataStore, logger *zap.SugaredLogger) *Migrator {
	return &Migrator{
		documents: documents,
		stores:    stores,
		catalog:   catalog,
		logger:    logger,
	}
}

// MigrateDocuments loads every change history once and records its head in
// the catalog. It returns how many documents were indexed.
func (m *Migrator) MigrateDocuments() (int, error) {
	m.logger.Info("Starting reindex of documents...")
	ids, err := m.documents.DocumentIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}

	for i, id := range ids {
		if err := m.migrateDocument(id); err != nil {
			return i, err
		}
	}
	m.logger.Infof("Finished reindex of %d documents.", len(ids))
	return len(ids), nil
}

func (m *Migrator) migrateDocument(documentID string) error {
	s, err := m.stores.CreateStore(documentID)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", documentID, err)
	}
	defer s.Dispose()

	document := db2.DocumentDB{ID: documentID, Head: int64(revision.None)}
	if last, ok := s.Revisions().Last(); ok {
		document.Head = int64(last.Number)
		document.Author = last.Author
		document.LastSaved = last.Timestamp
	}
	m.logger.Debugf("%s Indexing head %d", documentID, document.Head)

	if err := m.catalog.SaveDocument(document); err != nil {
		return fmt.Errorf("failed to save document %s: %w", documentID, err)
	}
	return nil
}
