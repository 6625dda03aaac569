package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"github.com/protegeproject/webprotege-revision-manager/lib/history"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/project"
	"go.uber.org/zap"
)

// SavedHook is called once a revision has been written to the change history.
type SavedHook func(rev revision.Revision)

type Options struct {
	Write              history.WriteOptions
	RecoveryPolicy     history.RecoveryPolicy
	QueueWarnThreshold int
}

func DefaultOptions() Options {
	return Options{
		Write:              history.DefaultWriteOptions(),
		RecoveryPolicy:     history.RecoverPrefix,
		QueueWarnThreshold: 1000,
	}
}

// Store keeps the complete revision history of one document in memory and
// appends every accepted revision to the document's change history file.
//
// Readers share a read lock and receive immutable snapshots. AddRevision and
// Load take the write lock. The first revision of a document is written
// before AddRevision returns; later ones are handed to a single background
// writer so they reach the file in the order they were accepted.
type Store struct {
	documentID string
	file       string
	translator change.Translator
	logger     *zap.SugaredLogger
	options    Options

	mu          sync.RWMutex
	revisions   revision.Revisions
	loaded      bool
	disposed    bool
	damaged     error
	authors     *history.Interner
	documentIDs *history.Interner

	hookMu    sync.Mutex
	savedHook SavedHook

	queue *writeQueue
}

func NewStore(documentID string, files project.ChangeHistoryFiles, translator change.Translator,
	logger *zap.SugaredLogger, options Options) (*Store, error) {
	file, err := files.ChangeHistoryFile(documentID)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{
		documentID:  documentID,
		file:        file,
		translator:  translator,
		logger:      logger,
		options:     options,
		revisions:   revision.NewRevisions(),
		authors:     history.NewInterner(),
		documentIDs: history.NewInterner(),
		savedHook:   func(revision.Revision) {},
		queue:       newWriteQueue(documentID, logger, options.QueueWarnThreshold),
	}, nil
}

func (s *Store) DocumentID() string {
	return s.documentID
}

// File is the path of the change history file.
func (s *Store) File() string {
	return s.file
}

// SetSavedHook replaces the hook for revisions accepted from now on.
func (s *Store) SetSavedHook(hook SavedHook) {
	if hook == nil {
		hook = func(revision.Revision) {}
	}
	s.hookMu.Lock()
	s.savedHook = hook
	s.hookMu.Unlock()
}

func (s *Store) currentSavedHook() SavedHook {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	return s.savedHook
}

func (s *Store) CurrentRevisionNumber() revision.Number {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentRevisionNumber()
}

func (s *Store) currentRevisionNumber() revision.Number {
	if last, ok := s.revisions.Last(); ok {
		return last.Number
	}
	return revision.None
}

func (s *Store) Revisions() revision.Revisions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revisions
}

// Revision looks up a revision by number. revision.Head resolves to the
// latest revision.
func (s *Store) Revision(n revision.Number) (revision.Revision, bool) {
	s.mu.RLock()
	revisions := s.revisions
	s.mu.RUnlock()

	if revisions.IsEmpty() {
		return revision.Revision{}, false
	}
	if n.IsHead() {
		return revisions.Last()
	}
	if first, _ := revisions.First(); n < first.Number {
		return revision.Revision{}, false
	}
	if last, _ := revisions.Last(); last.Number == n {
		return last, true
	}
	index := revisions.Search(n)
	if index < 0 {
		return revision.Revision{}, false
	}
	return revisions.At(index), true
}

// AddRevision appends rev to the history. Its number must be greater than
// the current revision number. The revision is visible to readers when
// AddRevision returns; only the first revision of a document is also on
// disk by then.
func (s *Store) AddRevision(rev revision.Revision) error {
	s.Load()

	saved, err := s.addRevision(rev)
	if err != nil {
		return err
	}
	if saved != nil {
		saved()
	}
	return nil
}

func (s *Store) addRevision(rev revision.Revision) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil, exception.ErrStoreDisposed
	}
	if s.damaged != nil {
		return nil, s.damaged
	}
	current := s.currentRevisionNumber()
	if rev.Number <= current {
		return nil, exception.NewRevisionOrderError(int64(rev.Number), int64(current))
	}

	rev.Author = s.authors.Intern(rev.Author)
	rev.Changes = slices.Clone(rev.Changes)
	s.revisions = s.revisions.Append(rev)
	return s.persist(rev), nil
}

// persist must be called with the write lock held. For the first revision it
// writes synchronously and returns the hook invocation for the caller to run
// once the lock is released.
func (s *Store) persist(rev revision.Revision) func() {
	hook := s.currentSavedHook()
	if s.revisions.Len() != 1 {
		s.queue.submit(func() {
			if s.write(rev) {
				s.runHook(hook, rev)
			}
		})
		return nil
	}

	s.logger.Infof("%s Saving first revision of project", s.documentID)
	if !s.write(rev) {
		return nil
	}
	return func() { s.runHook(hook, rev) }
}

// runHook keeps a failing listener from reaching the writer or the caller.
func (s *Store) runHook(hook SavedHook, rev revision.Revision) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("%s Saved hook for revision %d panicked: %v", s.documentID, rev.Number, r)
		}
	}()
	hook(rev)
}

func (s *Store) write(rev revision.Revision) bool {
	if err := history.AppendRevision(s.file, rev, s.options.Write); err != nil {
		s.logger.Errorf("%s An error occurred whilst saving revision %d of the project. Cause: %v",
			s.documentID, rev.Number, err)
		return false
	}
	return true
}

// Load replays the change history file into memory. Only the first call
// does any work; later and concurrent calls return once it has finished.
// A history that cannot be read is logged, never returned.
func (s *Store) Load() {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true

	if _, err := os.Stat(s.file); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(s.file), 0o755); err != nil {
			s.logger.Errorf("%s Could not create change history directory. Cause: %v", s.documentID, err)
		}
		return
	}

	s.logger.Infof("%s Loading change history", s.documentID)
	start := time.Now()
	result, err := history.LoadRevisions(s.file, s.translator, history.LoadOptions{
		Codec:       s.options.Write.Codec,
		Policy:      s.options.RecoveryPolicy,
		Authors:     s.authors,
		DocumentIDs: s.documentIDs,
	})
	loadedRevisions := result.Revisions
	if err != nil {
		if s.options.RecoveryPolicy == history.RecoverNothing {
			s.logger.Errorf("%s Failed to load change history for project, discarding %d revisions. Cause: %v",
				s.documentID, len(loadedRevisions), err)
			loadedRevisions = nil
		} else {
			s.logger.Errorf("%s Failed to load change history for project, keeping %d revisions. Cause: %v",
				s.documentID, len(loadedRevisions), err)
		}
	}
	s.revisions = revision.NewRevisions(loadedRevisions...)
	if err != nil {
		s.repair(loadedRevisions)
	}
	s.logger.Infof("%s Change history loading complete.  Loaded %d revisions in %d ms.",
		s.documentID, s.revisions.Len(), time.Since(start).Milliseconds())
}

// repair replaces a change history that failed to load with the revisions
// kept in memory, so later appends are not hidden behind the damaged bytes.
// The damaged file is kept aside. Until a repair succeeds the store refuses
// new revisions. Must be called with the write lock held.
func (s *Store) repair(kept []revision.Revision) {
	aside, err := history.ReplaceHistory(s.file, kept, s.options.Write, time.Now())
	if err != nil {
		s.damaged = exception.NewHistoryDamagedError(s.file, err)
		s.logger.Errorf("%s Could not repair change history, refusing new revisions. Cause: %v", s.documentID, err)
		return
	}
	s.logger.Warnf("%s Rewrote change history with %d revisions, damaged file kept at %s",
		s.documentID, len(kept), aside)
}

// Flush waits until every revision accepted so far has been written or has
// failed to write.
func (s *Store) Flush() {
	done := make(chan struct{})
	if !s.queue.submit(func() { close(done) }) {
		return
	}
	<-done
}

// Dispose stops accepting revisions and waits for pending writes to finish.
func (s *Store) Dispose() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()
	s.queue.close()
}
