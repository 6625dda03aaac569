package db

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/protegeproject/webprotege-revision-manager/lib/db/migrations"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	sqlDocuments
	path string
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	if path == ":memory" {
		path = "file::memory:?cache=shared"
	}

	sqlDb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if strings.Contains(path, ":memory:") {
		sqlDb.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err = sqlDb.Exec(pragma); err != nil {
			sqlDb.Close()
			return nil, err
		}
	}

	migrationManager := migrations.NewMigrationManager(sqlDb, migrations.DialectSQLite)
	if err := migrationManager.Run(); err != nil {
		sqlDb.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteDB{
		sqlDocuments: sqlDocuments{
			builder: sq.StatementBuilder,
			sqlDB:   sqlDb,
		},
		path: path,
	}, nil
}

var _ DataStore = (*SQLiteDB)(nil)
