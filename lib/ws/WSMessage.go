package ws

import (
	"encoding/json"

	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/utils"
)

const RevisionSavedType = "revisionSaved"

type RevisionSavedData struct {
	DocumentID     string `json:"documentId"`
	RevisionNumber int64  `json:"revisionNumber"`
	Author         string `json:"author"`
	Timestamp      string `json:"timestamp"`
	Description    string `json:"description"`
	ChangeCount    int    `json:"changeCount"`
}

type Message struct {
	Type string            `json:"type"`
	Data RevisionSavedData `json:"data"`
}

func NewRevisionSavedMessage(documentID string, rev revision.Revision) Message {
	return Message{
		Type: RevisionSavedType,
		Data: RevisionSavedData{
			DocumentID:     documentID,
			RevisionNumber: int64(rev.Number),
			Author:         rev.Author,
			Timestamp:      utils.ToIsoDateTime(rev.Timestamp),
			Description:    rev.Description,
			ChangeCount:    rev.Size(),
		},
	}
}

// NotifySaved publishes a revisionSaved message to the clients following
// documentID.
func (h *Hub) NotifySaved(documentID string, rev revision.Revision) {
	encoded, err := json.Marshal(NewRevisionSavedMessage(documentID, rev))
	if err != nil {
		h.logger.Errorf("%s Could not encode saved revision %d: %v", documentID, rev.Number, err)
		return
	}
	h.Publish(Broadcast{Room: documentID, Message: encoded})
}
