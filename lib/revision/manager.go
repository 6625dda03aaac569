package revision

import (
	"sync"
	"time"

	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/store"
)

// Manager is the entry point for reading and extending the history of one
// document. It numbers new revisions itself, so callers never have to know
// the current head.
type Manager struct {
	store *store.Store
	now   func() time.Time

	mu sync.Mutex
}

func NewManager(s *store.Store) *Manager {
	return &Manager{
		store: s,
		now:   time.Now,
	}
}

func (m *Manager) DocumentID() string {
	return m.store.DocumentID()
}

func (m *Manager) Store() *store.Store {
	return m.store
}

func (m *Manager) CurrentRevisionNumber() revision.Number {
	return m.store.CurrentRevisionNumber()
}

func (m *Manager) Revisions() revision.Revisions {
	return m.store.Revisions()
}

func (m *Manager) Revision(n revision.Number) (revision.Revision, bool) {
	return m.store.Revision(n)
}

// AddRevision records changes as the next revision of the document.
func (m *Manager) AddRevision(author string, changes []change.Change, description string) (revision.Revision, error) {
	if len(changes) == 0 {
		return revision.Revision{}, exception.ErrEmptyRevision
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.store.CurrentRevisionNumber().Next()
	rev := revision.New(author, next, changes, m.now().UTC().UnixMilli(), description)
	if err := m.store.AddRevision(rev); err != nil {
		return revision.Revision{}, err
	}
	return rev, nil
}

func (m *Manager) Summaries() []revision.Summary {
	return m.store.Revisions().Summaries()
}

func (m *Manager) Summary(n revision.Number) (revision.Summary, bool) {
	rev, ok := m.store.Revision(n)
	if !ok {
		return revision.Summary{}, false
	}
	return rev.Summary(), true
}

// Changes returns, in order, the changes of every revision numbered above
// from and up to and including to.
func (m *Manager) Changes(from revision.Number, to revision.Number) ([]change.Change, error) {
	revisions := m.store.Revisions()
	if to.IsHead() {
		to = revision.None
		if last, ok := revisions.Last(); ok {
			to = last.Number
		}
	}
	if from < revision.None || to < from {
		return nil, exception.NewInvalidRevisionRangeError(int64(from), int64(to))
	}

	changes := make([]change.Change, 0)
	for _, rev := range revisions.All() {
		if rev.Number <= from {
			continue
		}
		if rev.Number > to {
			break
		}
		changes = append(changes, rev.Changes...)
	}
	return changes, nil
}

// Close flushes pending writes and releases the store.
func (m *Manager) Close() {
	m.store.Dispose()
}

type ManagerFactory struct {
	stores *store.Factory
}

func NewManagerFactory(stores *store.Factory) *ManagerFactory {
	return &ManagerFactory{stores: stores}
}

func (f *ManagerFactory) CreateManager(documentID string) (*Manager, error) {
	s, err := f.stores.CreateStore(documentID)
	if err != nil {
		return nil, err
	}
	return NewManager(s), nil
}
