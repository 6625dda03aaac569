package migrations

import (
	"database/sql"
)

// GetMigrations returns all available migrations
func GetMigrations() []Migration {
	return []Migration{
		migration001InitialSchema(),
		migration002AuthorIndex(),
	}
}

func migration001InitialSchema() Migration {
	return Migration{
		Version:     1,
		Description: "Initial schema - create document table",
		Up: func(db *sql.DB, dialect Dialect) error {
			query := `CREATE TABLE IF NOT EXISTS document (
				id TEXT PRIMARY KEY,
				head INTEGER NOT NULL DEFAULT 0,
				author TEXT NOT NULL DEFAULT '',
				last_saved INTEGER NOT NULL DEFAULT 0
			)`
			if dialect == DialectPostgres {
				query = `CREATE TABLE IF NOT EXISTS document (
					id TEXT PRIMARY KEY,
					head BIGINT NOT NULL DEFAULT 0,
					author TEXT NOT NULL DEFAULT '',
					last_saved BIGINT NOT NULL DEFAULT 0
				)`
			}
			_, err := db.Exec(query)
			return err
		},
	}
}
