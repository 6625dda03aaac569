package db

// DocumentDB is the catalog entry of a document whose history lives on disk.
type DocumentDB struct {
	ID string
	// Head is the highest revision number known to be durably saved.
	Head      int64
	Author    string
	LastSaved int64
}
