package migration

import (
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	db2 "github.com/protegeproject/webprotege-revision-manager/lib/models/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/project"
	"github.com/protegeproject/webprotege-revision-manager/lib/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	directories *project.DirectoryFactory
	stores      *store.Factory
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	directories := project.NewDirectoryFactory(t.TempDir())
	options := store.DefaultOptions()
	options.Write.Fsync = false
	stores := store.NewFactory(project.NewChangeHistoryFileFactory(directories), change.NewRecordTranslator(), zap.NewNop().Sugar(), options)
	return fixture{directories: directories, stores: stores}
}

func (f fixture) writeHistory(t *testing.T, documentID string, revisions int) string {
	t.Helper()
	manager, err := revision.NewManagerFactory(f.stores).CreateManager(documentID)
	require.NoError(t, err)
	author := ""
	for i := 0; i < revisions; i++ {
		author = gofakeit.Name()
		_, err := manager.AddRevision(author, []change.Change{{
			Kind:       change.KindAddImport,
			DocumentID: documentID,
			Import:     gofakeit.URL(),
		}}, gofakeit.Sentence(4))
		require.NoError(t, err)
	}
	manager.Close()
	return author
}

func TestMigrateDocuments(t *testing.T) {
	f := newFixture(t)
	lastAuthor := f.writeHistory(t, "pizza", 3)
	f.writeHistory(t, "empty", 0)

	catalog, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })

	count, err := NewMigrator(f.directories, f.stores, catalog, zap.NewNop().Sugar()).MigrateDocuments()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	document, err := catalog.GetDocument("pizza")
	require.NoError(t, err)
	assert.Equal(t, int64(3), document.Head)
	assert.Equal(t, lastAuthor, document.Author)
	assert.NotZero(t, document.LastSaved)

	document, err = catalog.GetDocument("empty")
	require.NoError(t, err)
	assert.Equal(t, int64(0), document.Head)
}

func TestMigrateDocumentsKeepsNewerCatalogHead(t *testing.T) {
	f := newFixture(t)
	f.writeHistory(t, "pizza", 2)

	catalog := db.NewMemoryDataStore()
	require.NoError(t, catalog.SaveDocument(db2.DocumentDB{ID: "pizza", Head: 7}))

	_, err := NewMigrator(f.directories, f.stores, catalog, zap.NewNop().Sugar()).MigrateDocuments()
	require.NoError(t, err)

	document, err := catalog.GetDocument("pizza")
	require.NoError(t, err)
	assert.Equal(t, int64(7), document.Head)
}

func TestMigrateDocumentsWithoutDataDirectory(t *testing.T) {
	f := newFixture(t)
	catalog := db.NewMemoryDataStore()

	count, err := NewMigrator(f.directories, f.stores, catalog, zap.NewNop().Sugar()).MigrateDocuments()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = catalog.GetDocument("pizza")
	var notFound *exception.DocumentNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestParseCLIArgs(t *testing.T) {
	dir, err := parseCLIArgs(nil, "/srv/webprotege")
	require.NoError(t, err)
	assert.Equal(t, "/srv/webprotege", dir)

	dir, err = parseCLIArgs([]string{"-d", "/tmp/data"}, "/srv/webprotege")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data", dir)

	_, err = parseCLIArgs([]string{"--data", ""}, "/srv/webprotege")
	assert.Error(t, err)
}
