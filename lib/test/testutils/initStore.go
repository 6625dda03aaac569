package testutils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/protegeproject/webprotege-revision-manager/lib"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/ratelimiter"
	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/project"
	"github.com/protegeproject/webprotege-revision-manager/lib/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/settings"
	"github.com/protegeproject/webprotege-revision-manager/lib/store"
	"github.com/protegeproject/webprotege-revision-manager/lib/ws"
	"go.uber.org/zap"
)

// NewTestInitStore wires a complete application against a temporary data
// directory and an in-memory catalog. Everything is released on cleanup.
func NewTestInitStore(t *testing.T) *lib.InitStore {
	t.Helper()
	logger := zap.NewNop().Sugar()

	retrievedSettings, err := settings.ReadConfig("")
	if err != nil {
		t.Fatalf("reading default settings: %v", err)
	}
	retrievedSettings.DataDirectory = t.TempDir()
	retrievedSettings.History.Fsync = false

	files := project.NewChangeHistoryFileFactory(project.NewDirectoryFactory(retrievedSettings.DataDirectory))
	options := store.DefaultOptions()
	options.Write.Fsync = false
	stores := store.NewFactory(files, change.NewRecordTranslator(), logger, options)
	registry := revision.NewRegistry(revision.NewManagerFactory(stores), files, logger)

	dataStore := db.NewMemoryDataStore()
	hub := ws.NewHub(logger)
	go hub.Run()
	registry.AddListener(db.TrackSavedRevisions(dataStore, logger))
	registry.AddListener(hub.NotifySaved)

	t.Cleanup(func() {
		_ = registry.Close()
		hub.Stop()
		_ = dataStore.Close()
	})

	return &lib.InitStore{
		C:                 fiber.New(fiber.Config{DisableStartupMessage: true}),
		RetrievedSettings: retrievedSettings,
		Store:             dataStore,
		Registry:          registry,
		Hub:               hub,
		Validator:         validator.New(validator.WithRequiredStructEnabled()),
		Logger:            logger,
		RateLimiter:       ratelimiter.New(0, 0),
	}
}
