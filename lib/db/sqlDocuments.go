package db

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/db"
)

// sqlDocuments holds the document queries shared by the SQL backends. Only
// the placeholder format differs between dialects.
type sqlDocuments struct {
	builder sq.StatementBuilderType
	sqlDB   *sql.DB
}

func (d sqlDocuments) SaveDocument(document db.DocumentDB) error {
	resultedSQL, args, err := d.builder.
		Insert("document").
		Columns("id", "head", "author", "last_saved").
		Values(document.ID, document.Head, document.Author, document.LastSaved).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			head = excluded.head,
			author = excluded.author,
			last_saved = excluded.last_saved
			WHERE excluded.head >= document.head`).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = d.sqlDB.Exec(resultedSQL, args...); err != nil {
		return exception.NewDatabaseError("saving document "+document.ID, err)
	}
	return nil
}

func (d sqlDocuments) GetDocument(documentID string) (*db.DocumentDB, error) {
	resultedSQL, args, err := d.builder.
		Select("id", "head", "author", "last_saved").
		From("document").
		Where(sq.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	document, err := readDocument(d.sqlDB.QueryRow(resultedSQL, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, exception.NewDocumentNotFoundError(documentID)
	}
	if err != nil {
		return nil, exception.NewDatabaseError("reading document "+documentID, err)
	}
	return document, nil
}

func (d sqlDocuments) DoesDocumentExist(documentID string) (bool, error) {
	resultedSQL, args, err := d.builder.
		Select("1").
		From("document").
		Where(sq.Eq{"id": documentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	var exists int
	err = d.sqlDB.QueryRow(resultedSQL, args...).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d sqlDocuments) ListDocuments() ([]db.DocumentDB, error) {
	resultedSQL, args, err := d.builder.
		Select("id", "head", "author", "last_saved").
		From("document").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.sqlDB.Query(resultedSQL, args...)
	if err != nil {
		return nil, exception.NewDatabaseError("listing documents", err)
	}
	defer rows.Close()

	documents := make([]db.DocumentDB, 0)
	for rows.Next() {
		document, err := readDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *document)
	}
	return documents, rows.Err()
}

func (d sqlDocuments) RemoveDocument(documentID string) error {
	resultedSQL, args, err := d.builder.
		Delete("document").
		Where(sq.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := d.sqlDB.Exec(resultedSQL, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return exception.NewDocumentNotFoundError(documentID)
	}
	return nil
}

func (d sqlDocuments) Ping() error {
	return d.sqlDB.Ping()
}

func (d sqlDocuments) Close() error {
	return d.sqlDB.Close()
}

type Reader interface {
	Scan(dest ...any) error
}

func readDocument(reader Reader) (*db.DocumentDB, error) {
	var document db.DocumentDB
	if err := reader.Scan(&document.ID, &document.Head, &document.Author, &document.LastSaved); err != nil {
		return nil, err
	}
	return &document, nil
}
