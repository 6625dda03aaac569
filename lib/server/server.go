package server

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/protegeproject/webprotege-revision-manager/lib"
	"github.com/protegeproject/webprotege-revision-manager/lib/api"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/ratelimiter"
	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/project"
	"github.com/protegeproject/webprotege-revision-manager/lib/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/settings"
	"github.com/protegeproject/webprotege-revision-manager/lib/store"
	"github.com/protegeproject/webprotege-revision-manager/lib/utils"
	"github.com/protegeproject/webprotege-revision-manager/lib/ws"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewServer wires the application. The returned function releases it, after
// every pending revision write has been attempted.
func NewServer(retrievedSettings *settings.Settings, setupLogger *zap.SugaredLogger) (*lib.InitStore, func(), error) {
	options, err := StoreOptions(retrievedSettings)
	if err != nil {
		return nil, nil, err
	}

	dataStore, err := GetDB(retrievedSettings, setupLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to database: %w", err)
	}

	files := project.NewChangeHistoryFileFactory(project.NewDirectoryFactory(retrievedSettings.DataDirectory))
	stores := store.NewFactory(files, change.NewRecordTranslator(), setupLogger, options)
	registry := revision.NewRegistry(revision.NewManagerFactory(stores), files, setupLogger)

	hub := ws.NewHub(setupLogger)
	go hub.Run()

	registry.AddListener(db.TrackSavedRevisions(dataStore, setupLogger))
	registry.AddListener(hub.NotifySaved)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	initStore := &lib.InitStore{
		C:                 app,
		RetrievedSettings: retrievedSettings,
		Store:             dataStore,
		Registry:          registry,
		Hub:               hub,
		Validator:         validator.New(validator.WithRequiredStructEnabled()),
		Logger:            setupLogger,
		RateLimiter: ratelimiter.New(
			time.Duration(retrievedSettings.CommitRateLimiting.Duration)*time.Second,
			retrievedSettings.CommitRateLimiting.Points,
		),
	}
	api.InitAPI(initStore)

	release := func() {
		if err := registry.Close(); err != nil {
			setupLogger.Warnf("Closing revision managers: %v", err)
		}
		hub.Stop()
		if err := dataStore.Close(); err != nil {
			setupLogger.Warnf("Closing catalog: %v", err)
		}
	}
	return initStore, release, nil
}

func InitServer(setupLogger *zap.SugaredLogger) {
	retrievedSettings, err := settings.InitSettings(setupLogger)
	if err != nil {
		setupLogger.Fatalf("Error reading settings: %v", err)
	}
	logger := utils.SetupLogger(retrievedSettings.LogLevel)
	defer logger.Sync()

	logger.Info("Starting WebProtégé revision manager...")
	logger.Infof("Change histories are stored below %s", retrievedSettings.DataDirectory)

	initStore, release, err := NewServer(retrievedSettings, logger)
	if err != nil {
		logger.Errorf("Error starting server: %v", err)
		os.Exit(1)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Infof("Received %s, shutting down", sig)
		if err := initStore.C.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Warnf("Error shutting down web server: %v", err)
		}
	}()

	fiberString := fmt.Sprintf("%s:%s", retrievedSettings.IP, retrievedSettings.Port)
	logger.Info("Starting API on " + fiberString)
	if err := initStore.C.Listen(fiberString); err != nil {
		logger.Errorf("Error starting API: %v", err)
	}

	release()
	logger.Info("All pending revisions were written, bye")
}
