package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
)

const (
	dataStoreDirectoryName   = "data-store"
	projectDataDirectoryName = "project-data"
	changeDataDirectoryName  = "change-data"
	changeDataFileName       = "change-data.binary"
)

// DirectoryFactory lays out one directory per document below the data directory.
type DirectoryFactory struct {
	DataDirectory string
}

func NewDirectoryFactory(dataDirectory string) *DirectoryFactory {
	return &DirectoryFactory{DataDirectory: dataDirectory}
}

func (d *DirectoryFactory) ProjectDirectory(documentID string) (string, error) {
	if err := ValidateDocumentID(documentID); err != nil {
		return "", err
	}
	return filepath.Join(d.projectDataDirectory(), documentID), nil
}

// DocumentIDs lists the documents that have a project directory, sorted.
// A data directory that does not exist yet holds no documents.
func (d *DirectoryFactory) DocumentIDs() ([]string, error) {
	entries, err := os.ReadDir(d.projectDataDirectory())
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || ValidateDocumentID(entry.Name()) != nil {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

func (d *DirectoryFactory) projectDataDirectory() string {
	return filepath.Join(d.DataDirectory, dataStoreDirectoryName, projectDataDirectoryName)
}

// ValidateDocumentID rejects ids that cannot be used as a single path element.
func ValidateDocumentID(documentID string) error {
	if documentID == "" ||
		documentID == "." ||
		strings.Contains(documentID, "..") ||
		strings.ContainsAny(documentID, `/\`) ||
		strings.ContainsRune(documentID, 0) {
		return exception.NewInvalidDocumentIDError(documentID)
	}
	return nil
}

// ChangeHistoryFiles resolves where the change history of a document lives.
type ChangeHistoryFiles interface {
	ChangeHistoryFile(documentID string) (string, error)
}

type ChangeHistoryFileFactory struct {
	directories *DirectoryFactory
}

func NewChangeHistoryFileFactory(directories *DirectoryFactory) *ChangeHistoryFileFactory {
	return &ChangeHistoryFileFactory{directories: directories}
}

func (c *ChangeHistoryFileFactory) ChangeHistoryFile(documentID string) (string, error) {
	projectDirectory, err := c.directories.ProjectDirectory(documentID)
	if err != nil {
		return "", err
	}
	return filepath.Join(projectDirectory, changeDataDirectoryName, changeDataFileName), nil
}

var _ ChangeHistoryFiles = (*ChangeHistoryFileFactory)(nil)
