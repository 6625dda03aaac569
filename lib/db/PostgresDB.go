package db

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/protegeproject/webprotege-revision-manager/lib/db/migrations"
	_ "github.com/lib/pq"
)

type PostgresOptions struct {
	Username string
	Password string
	Host     string
	Port     int
	Database string
}

type PostgresDB struct {
	sqlDocuments
	options PostgresOptions
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func NewPostgresDB(options PostgresOptions) (*PostgresDB, error) {
	dbUrl := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		options.Username, options.Password, options.Host, options.Port, options.Database)
	sqlDb, err := sql.Open("postgres", dbUrl)
	if err != nil {
		return nil, err
	}
	if err := sqlDb.Ping(); err != nil {
		sqlDb.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	migrationManager := migrations.NewMigrationManager(sqlDb, migrations.DialectPostgres)
	if err := migrationManager.Run(); err != nil {
		sqlDb.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresDB{
		sqlDocuments: sqlDocuments{
			builder: psql,
			sqlDB:   sqlDb,
		},
		options: options,
	}, nil
}

var _ DataStore = (*PostgresDB)(nil)
