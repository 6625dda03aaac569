package settings

import (
	"fmt"
	"strings"
)

// IDBType names the backend of the document catalog.
type IDBType string

const (
	SQLITE   IDBType = "sqlite"
	MEMORY   IDBType = "memory"
	POSTGRES IDBType = "postgres"
)

// ParseDBType accepts the catalog backend names, including the driver
// spellings sqlite3 and postgresql.
func ParseDBType(s string) (IDBType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "sqlite3":
		return SQLITE, nil
	case "memory":
		return MEMORY, nil
	case "postgres", "postgresql":
		return POSTGRES, nil
	default:
		return "", fmt.Errorf("unknown catalog database type %q, use %s, %s or %s", s, MEMORY, SQLITE, POSTGRES)
	}
}

// Persistent reports whether the catalog survives a restart without a reindex.
func (dbType IDBType) Persistent() bool {
	return dbType != MEMORY
}

func (dbType IDBType) String() string {
	return string(dbType)
}
