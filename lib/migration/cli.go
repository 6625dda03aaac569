package migration

import (
	"errors"
	"flag"
	"os"

	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/project"
	"github.com/protegeproject/webprotege-revision-manager/lib/server"
	"github.com/protegeproject/webprotege-revision-manager/lib/settings"
	"github.com/protegeproject/webprotege-revision-manager/lib/store"
	"go.uber.org/zap"
)

// RunFromCLI handles "reindex [-data dir]".
func RunFromCLI(logger *zap.SugaredLogger, args []string) {
	logger.Info("Reindex CLI called with args:", args)

	retrievedSettings, err := settings.InitSettings(logger)
	if err != nil {
		logger.Fatalf("Error reading settings: %v", err)
	}

	dataDirectory, err := parseCLIArgs(args, retrievedSettings.DataDirectory)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Fatal(err)
	}

	options, err := server.StoreOptions(retrievedSettings)
	if err != nil {
		logger.Fatal(err)
	}

	catalog, err := server.GetDB(retrievedSettings, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer catalog.Close()

	directories := project.NewDirectoryFactory(dataDirectory)
	stores := store.NewFactory(project.NewChangeHistoryFileFactory(directories), change.NewRecordTranslator(), logger, options)

	if _, err := NewMigrator(directories, stores, catalog, logger).MigrateDocuments(); err != nil {
		logger.Fatalf("Failed to reindex documents: %v", err)
	}
}

func parseCLIArgs(args []string, defaultDataDirectory string) (dataDirectory string, err error) {
	fs := flag.NewFlagSet("reindex", flag.ContinueOnError)

	fs.StringVar(&dataDirectory, "data", defaultDataDirectory, "The data directory holding the change histories")
	fs.StringVar(&dataDirectory, "d", defaultDataDirectory, "The data directory holding the change histories (shorthand)")

	if err = fs.Parse(args); err != nil {
		return
	}
	if dataDirectory == "" {
		err = errors.New("data directory is required (--data)")
	}
	return
}
