package migrations

import (
	"database/sql"
)

func migration002AuthorIndex() Migration {
	return Migration{
		Version:     2,
		Description: "Index documents by last author",
		Up: func(db *sql.DB, dialect Dialect) error {
			_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_document_author ON document (author)`)
			return err
		},
	}
}
