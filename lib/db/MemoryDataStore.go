package db

import (
	"slices"
	"strings"
	"sync"

	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/db"
)

type MemoryDataStore struct {
	mu            sync.RWMutex
	documentStore map[string]db.DocumentDB
}

func NewMemoryDataStore() *MemoryDataStore {
	return &MemoryDataStore{
		documentStore: make(map[string]db.DocumentDB),
	}
}

func (m *MemoryDataStore) SaveDocument(document db.DocumentDB) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.documentStore[document.ID]; ok && existing.Head > document.Head {
		return nil
	}
	m.documentStore[document.ID] = document
	return nil
}

func (m *MemoryDataStore) GetDocument(documentID string) (*db.DocumentDB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	document, ok := m.documentStore[documentID]
	if !ok {
		return nil, exception.NewDocumentNotFoundError(documentID)
	}
	return &document, nil
}

func (m *MemoryDataStore) DoesDocumentExist(documentID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.documentStore[documentID]
	return ok, nil
}

func (m *MemoryDataStore) ListDocuments() ([]db.DocumentDB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	documents := make([]db.DocumentDB, 0, len(m.documentStore))
	for _, document := range m.documentStore {
		documents = append(documents, document)
	}
	slices.SortFunc(documents, func(a, b db.DocumentDB) int {
		return strings.Compare(a.ID, b.ID)
	})
	return documents, nil
}

func (m *MemoryDataStore) RemoveDocument(documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documentStore[documentID]; !ok {
		return exception.NewDocumentNotFoundError(documentID)
	}
	delete(m.documentStore, documentID)
	return nil
}

func (m *MemoryDataStore) Ping() error {
	return nil
}

func (m *MemoryDataStore) Close() error {
	return nil
}

var _ DataStore = (*MemoryDataStore)(nil)
