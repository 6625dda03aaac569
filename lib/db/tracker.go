package db

import (
	"github.com/protegeproject/webprotege-revision-manager/lib/models/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"go.uber.org/zap"
)

// TrackSavedRevisions returns a listener that records every durably saved
// revision in the catalog.
func TrackSavedRevisions(store DataStore, logger *zap.SugaredLogger) func(documentID string, rev revision.Revision) {
	return func(documentID string, rev revision.Revision) {
		err := store.SaveDocument(db.DocumentDB{
			ID:        documentID,
			Head:      int64(rev.Number),
			Author:    rev.Author,
			LastSaved: rev.Timestamp,
		})
		if err != nil {
			logger.Errorf("%s Could not record revision %d in the catalog: %v", documentID, rev.Number, err)
		}
	}
}
