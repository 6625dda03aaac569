package revision

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/project"
	"github.com/protegeproject/webprotege-revision-manager/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const documentID = "0f9c1a54-79c6-4c52-8f0a-1b2b0c3d4e5f"

func newTestRegistry(t *testing.T) (*Registry, *project.ChangeHistoryFileFactory) {
	files := project.NewChangeHistoryFileFactory(project.NewDirectoryFactory(t.TempDir()))
	stores := store.NewFactory(files, change.NewRecordTranslator(), zap.NewNop().Sugar(), store.DefaultOptions())
	registry := NewRegistry(NewManagerFactory(stores), files, zap.NewNop().Sugar())
	t.Cleanup(func() { _ = registry.Close() })
	return registry, files
}

func someChanges(n int) []change.Change {
	changes := make([]change.Change, 0, n)
	for i := 0; i < n; i++ {
		changes = append(changes, change.AddStatement(documentID, change.Statement{
			Subject:   "http://example.org/" + gofakeit.Word(),
			Predicate: "subClassOf",
			Object:    "http://example.org/" + gofakeit.Word(),
		}))
	}
	return changes
}

func TestCreateManagerCreatesChangeDataDirectory(t *testing.T) {
	dataDir := t.TempDir()
	files := project.NewChangeHistoryFileFactory(project.NewDirectoryFactory(dataDir))
	stores := store.NewFactory(files, change.NewRecordTranslator(), zap.NewNop().Sugar(), store.DefaultOptions())

	manager, err := NewManagerFactory(stores).CreateManager(documentID)
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	info, err := os.Stat(filepath.Join(dataDir, "data-store", "project-data", documentID, "change-data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, revision.None, manager.CurrentRevisionNumber())
}

func TestCreateManagerRejectsInvalidDocumentID(t *testing.T) {
	files := project.NewChangeHistoryFileFactory(project.NewDirectoryFactory(t.TempDir()))
	stores := store.NewFactory(files, change.NewRecordTranslator(), zap.NewNop().Sugar(), store.DefaultOptions())

	_, err := NewManagerFactory(stores).CreateManager("../escape")
	assert.ErrorIs(t, err, exception.ErrInvalidDocumentID)
}

func TestAddRevisionAssignsConsecutiveNumbers(t *testing.T) {
	registry, _ := newTestRegistry(t)
	manager, err := registry.Open(documentID)
	require.NoError(t, err)

	manager.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	}

	author := gofakeit.Name()
	for i := 1; i <= 3; i++ {
		rev, err := manager.AddRevision(author, someChanges(i), gofakeit.Sentence(5))
		require.NoError(t, err)
		assert.Equal(t, revision.Number(i), rev.Number)
		assert.Equal(t, int64(1709290800000), rev.Timestamp)
		assert.Equal(t, i, rev.Size())
	}
	assert.Equal(t, revision.Number(3), manager.CurrentRevisionNumber())
}

func TestAddRevisionRejectsEmptyChanges(t *testing.T) {
	registry, _ := newTestRegistry(t)
	manager, err := registry.Open(documentID)
	require.NoError(t, err)

	_, err = manager.AddRevision("The User", nil, "nothing")
	assert.ErrorIs(t, err, exception.ErrEmptyRevision)
	assert.Equal(t, revision.None, manager.CurrentRevisionNumber())
}

func TestConcurrentAddRevisionNeverCollides(t *testing.T) {
	registry, _ := newTestRegistry(t)
	manager, err := registry.Open(documentID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		changes := someChanges(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.AddRevision("The User", changes, "concurrent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	revisions := manager.Revisions()
	require.Equal(t, 20, revisions.Len())
	for i, rev := range revisions.All() {
		assert.Equal(t, revision.Number(i+1), rev.Number)
	}
}

func TestChangesBetweenRevisions(t *testing.T) {
	registry, _ := newTestRegistry(t)
	manager, err := registry.Open(documentID)
	require.NoError(t, err)

	var all []change.Change
	for i := 1; i <= 4; i++ {
		changes := someChanges(2)
		all = append(all, changes...)
		_, err := manager.AddRevision("The User", changes, "")
		require.NoError(t, err)
	}

	testCases := []struct {
		name     string
		from, to revision.Number
		want     []change.Change
	}{
		{"everything", revision.None, revision.Head, all},
		{"after first", 1, revision.Head, all[2:]},
		{"middle", 1, 3, all[2:6]},
		{"empty range", 2, 2, []change.Change{}},
		{"past head", 4, revision.Head, []change.Change{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			changes, err := manager.Changes(tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.want, changes)
		})
	}

	_, err = manager.Changes(3, 1)
	assert.Error(t, err)
	_, err = manager.Changes(-5, 2)
	assert.Error(t, err)
}

func TestSummaries(t *testing.T) {
	registry, _ := newTestRegistry(t)
	manager, err := registry.Open(documentID)
	require.NoError(t, err)

	_, ok := manager.Summary(revision.Head)
	assert.False(t, ok)

	_, err = manager.AddRevision("Alice", someChanges(2), "first")
	require.NoError(t, err)
	_, err = manager.AddRevision("Bob", someChanges(1), "second")
	require.NoError(t, err)

	summaries := manager.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, "Alice", summaries[0].Author)
	assert.Equal(t, 2, summaries[0].ChangeCount)

	head, ok := manager.Summary(revision.Head)
	require.True(t, ok)
	assert.Equal(t, "Bob", head.Author)
	assert.Equal(t, revision.Number(2), head.Number)
}

func TestRegistryCachesManagers(t *testing.T) {
	registry, _ := newTestRegistry(t)

	first, err := registry.Open(documentID)
	require.NoError(t, err)
	second, err := registry.Open(documentID)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, []string{documentID}, registry.DocumentIDs())
}

func TestRegistryGetUnknownDocument(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Get("unknown")
	var notFound *exception.DocumentNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "unknown", notFound.DocumentID)
	assert.False(t, registry.Exists("unknown"))
}

func TestRegistryFindsDocumentsOnDisk(t *testing.T) {
	registry, files := newTestRegistry(t)

	manager, err := registry.Open(documentID)
	require.NoError(t, err)
	_, err = manager.AddRevision("The User", someChanges(1), "")
	require.NoError(t, err)
	require.NoError(t, registry.Unload(documentID))
	assert.Empty(t, registry.DocumentIDs())

	file, err := files.ChangeHistoryFile(documentID)
	require.NoError(t, err)
	assert.FileExists(t, file)

	reopened, err := registry.Get(documentID)
	require.NoError(t, err)
	assert.Equal(t, revision.Number(1), reopened.CurrentRevisionNumber())
}

func TestRegistryNotifiesListeners(t *testing.T) {
	registry, _ := newTestRegistry(t)

	saved := make(chan revision.Revision, 10)
	registry.AddListener(func(id string, rev revision.Revision) {
		assert.Equal(t, documentID, id)
		saved <- rev
	})

	manager, err := registry.Open(documentID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := manager.AddRevision("The User", someChanges(1), "")
		require.NoError(t, err)
	}
	manager.Store().Flush()

	numbers := make(map[revision.Number]bool)
	for i := 0; i < 3; i++ {
		select {
		case rev := <-saved:
			numbers[rev.Number] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for saved revisions")
		}
	}
	assert.Len(t, numbers, 3)
}

func TestRegistryCloseDisposesManagers(t *testing.T) {
	registry, _ := newTestRegistry(t)

	manager, err := registry.Open(documentID)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := manager.AddRevision("The User", someChanges(1), "")
		require.NoError(t, err)
	}

	require.NoError(t, registry.Close())
	_, err = manager.AddRevision("The User", someChanges(1), "")
	assert.ErrorIs(t, err, exception.ErrStoreDisposed)
	_, err = registry.Open(documentID)
	assert.ErrorIs(t, err, exception.ErrStoreDisposed)
}

func TestRegistryKeepsItsOwnCopyOfDocumentIDs(t *testing.T) {
	registry, _ := newTestRegistry(t)
	saved := make(chan string, 1)
	registry.AddListener(func(id string, rev revision.Revision) {
		saved <- id
	})

	// Request parameters point into buffers the web server reuses.
	buffer := []byte("docAAAA")
	manager, err := registry.Open(unsafe.String(&buffer[0], len(buffer)))
	require.NoError(t, err)
	copy(buffer, "docBBBB")

	assert.Equal(t, []string{"docAAAA"}, registry.DocumentIDs())
	assert.Equal(t, "docAAAA", manager.DocumentID())
	_, err = manager.AddRevision("The User", someChanges(1), "")
	require.NoError(t, err)
	select {
	case id := <-saved:
		assert.Equal(t, "docAAAA", id)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the saved revision")
	}
}

// gatedFiles holds back the history file of one document until released.
type gatedFiles struct {
	project.ChangeHistoryFiles
	gatedID string
	entered chan struct{}
	release chan struct{}
}

func (g gatedFiles) ChangeHistoryFile(documentID string) (string, error) {
	if documentID == g.gatedID {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.ChangeHistoryFiles.ChangeHistoryFile(documentID)
}

func TestRegistryOpensOtherDocumentsWhileOneIsLoading(t *testing.T) {
	files := project.NewChangeHistoryFileFactory(project.NewDirectoryFactory(t.TempDir()))
	gated := gatedFiles{ChangeHistoryFiles: files, gatedID: "slow", entered: make(chan struct{}, 1), release: make(chan struct{})}
	stores := store.NewFactory(gated, change.NewRecordTranslator(), zap.NewNop().Sugar(), store.DefaultOptions())
	registry := NewRegistry(NewManagerFactory(stores), files, zap.NewNop().Sugar())
	t.Cleanup(func() { _ = registry.Close() })

	slow := make(chan *Manager, 2)
	for i := 0; i < 2; i++ {
		go func() {
			manager, err := registry.Open("slow")
			assert.NoError(t, err)
			slow <- manager
		}()
	}
	<-gated.entered

	opened := make(chan error, 1)
	go func() {
		_, err := registry.Open("fast")
		opened <- err
	}()
	select {
	case err := <-opened:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("opening a document waited for another document to load")
	}

	close(gated.release)
	first, second := <-slow, <-slow
	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, []string{"fast", "slow"}, registry.DocumentIDs())
}
