package revision

import (
	"errors"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/project"
	"go.uber.org/zap"
)

// Listener is told about every revision that reached a change history file.
type Listener func(documentID string, rev revision.Revision)

// Registry keeps one Manager per open document.
type Registry struct {
	factory *ManagerFactory
	files   project.ChangeHistoryFiles
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	managers  map[string]*Manager
	opening   map[string]*pendingOpen
	listeners []Listener
	closed    bool
}

// pendingOpen lets concurrent callers wait for a history that is still loading.
type pendingOpen struct {
	done    chan struct{}
	manager *Manager
	err     error
}

func NewRegistry(factory *ManagerFactory, files project.ChangeHistoryFiles, logger *zap.SugaredLogger) *Registry {
	return &Registry{
		factory:  factory,
		files:    files,
		logger:   logger,
		managers: make(map[string]*Manager),
		opening:  make(map[string]*pendingOpen),
	}
}

func (r *Registry) AddListener(listener Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Registry) notify(documentID string, rev revision.Revision) {
	r.mu.Lock()
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()
	for _, listener := range listeners {
		listener(documentID, rev)
	}
}

// Exists reports whether the document is open or has a change history on disk.
func (r *Registry) Exists(documentID string) bool {
	r.mu.Lock()
	_, open := r.managers[documentID]
	r.mu.Unlock()
	if open {
		return true
	}
	file, err := r.files.ChangeHistoryFile(documentID)
	if err != nil {
		return false
	}
	_, err = os.Stat(file)
	return err == nil
}

// Get returns the manager of an existing document.
func (r *Registry) Get(documentID string) (*Manager, error) {
	if !r.Exists(documentID) {
		return nil, exception.NewDocumentNotFoundError(documentID)
	}
	return r.Open(documentID)
}

// Open returns the manager for documentID, loading its history on first use.
// Loading happens outside the registry lock so other documents stay
// reachable meanwhile.
func (r *Registry) Open(documentID string) (*Manager, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, exception.ErrStoreDisposed
	}
	if manager, ok := r.managers[documentID]; ok {
		r.mu.Unlock()
		return manager, nil
	}
	if pending, ok := r.opening[documentID]; ok {
		r.mu.Unlock()
		<-pending.done
		return pending.manager, pending.err
	}
	documentID = strings.Clone(documentID)
	pending := &pendingOpen{done: make(chan struct{})}
	r.opening[documentID] = pending
	r.mu.Unlock()

	defer close(pending.done)
	manager, err := r.factory.CreateManager(documentID)
	if err == nil {
		manager.store.SetSavedHook(func(rev revision.Revision) {
			r.notify(documentID, rev)
		})
	}

	r.mu.Lock()
	delete(r.opening, documentID)
	if err == nil && r.closed {
		err = exception.ErrStoreDisposed
	}
	if err == nil {
		r.managers[documentID] = manager
	}
	r.mu.Unlock()

	if err != nil {
		if manager != nil {
			manager.Close()
		}
		pending.err = err
		return nil, err
	}
	r.logger.Debugf("%s Opened revision manager", documentID)
	pending.manager = manager
	return manager, nil
}

func (r *Registry) DocumentIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.managers))
	for id := range r.managers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Unload disposes the manager of documentID after its pending writes finished.
func (r *Registry) Unload(documentID string) error {
	r.mu.Lock()
	manager, ok := r.managers[documentID]
	delete(r.managers, documentID)
	r.mu.Unlock()
	if !ok {
		return exception.NewDocumentNotFoundError(documentID)
	}
	manager.Close()
	return nil
}

// Close disposes every open manager. Pending writes are drained first.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return errors.New("registry already closed")
	}
	r.closed = true
	managers := r.managers
	r.managers = make(map[string]*Manager)
	r.mu.Unlock()

	for id, manager := range managers {
		manager.Close()
		r.logger.Debugf("%s Closed revision manager", id)
	}
	return nil
}
