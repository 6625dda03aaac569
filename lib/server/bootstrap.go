package server

import (
	"errors"
	"strconv"

	"github.com/protegeproject/webprotege-revision-manager/lib/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/history"
	"github.com/protegeproject/webprotege-revision-manager/lib/settings"
	"github.com/protegeproject/webprotege-revision-manager/lib/store"
	"go.uber.org/zap"
)

func GetDB(retrievedSettings *settings.Settings, setupLogger *zap.SugaredLogger) (db.DataStore, error) {
	switch retrievedSettings.DBType {
	case settings.SQLITE:
		setupLogger.Infof("Using SQLite catalog at %s", retrievedSettings.DBSettings.Filename)
		sqliteDB, err := db.NewSQLiteDB(retrievedSettings.DBSettings.Filename)
		if err != nil {
			return nil, err
		}
		return sqliteDB, nil
	case settings.MEMORY:
		setupLogger.Info("Using in-memory catalog (it is rebuilt from saved revisions only)")
		return db.NewMemoryDataStore(), nil
	case settings.POSTGRES:
		setupLogger.Infof("Using Postgres catalog at %s with database %s",
			retrievedSettings.DBSettings.Host, retrievedSettings.DBSettings.Database)

		port, err := strconv.Atoi(retrievedSettings.DBSettings.Port)
		if err != nil {
			return nil, err
		}

		postgresDB, err := db.NewPostgresDB(db.PostgresOptions{
			Username: retrievedSettings.DBSettings.User,
			Password: retrievedSettings.DBSettings.Password,
			Host:     retrievedSettings.DBSettings.Host,
			Database: retrievedSettings.DBSettings.Database,
			Port:     port,
		})
		if err != nil {
			return nil, err
		}
		return postgresDB, nil
	}
	return nil, errors.New("unsupported database type")
}

// StoreOptions translates the history settings into revision store options.
func StoreOptions(retrievedSettings *settings.Settings) (store.Options, error) {
	policy, err := history.ParseRecoveryPolicy(retrievedSettings.History.RecoveryPolicy)
	if err != nil {
		return store.Options{}, err
	}
	options := store.DefaultOptions()
	options.RecoveryPolicy = policy
	options.Write.Compress = retrievedSettings.History.Compress
	options.Write.Fsync = retrievedSettings.History.Fsync
	options.QueueWarnThreshold = retrievedSettings.History.QueueWarnThreshold
	return options, nil
}
