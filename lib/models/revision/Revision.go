package revision

import (
	"slices"

	"github.com/protegeproject/webprotege-revision-manager/lib/change"
)

// Revision is an ordered batch of changes with its provenance. A Revision
// must not be modified once it has been handed to a store.
type Revision struct {
	Author      string
	Number      Number
	Changes     []change.Change
	Timestamp   int64
	Description string
}

func New(author string, number Number, changes []change.Change, timestamp int64, description string) Revision {
	return Revision{
		Author:      author,
		Number:      number,
		Changes:     slices.Clone(changes),
		Timestamp:   timestamp,
		Description: description,
	}
}

func (r Revision) Equal(other Revision) bool {
	return r.Author == other.Author &&
		r.Number == other.Number &&
		r.Timestamp == other.Timestamp &&
		r.Description == other.Description &&
		slices.Equal(r.Changes, other.Changes)
}

// Compare orders revisions by number only.
func (r Revision) Compare(other Revision) int {
	return r.Number.Compare(other.Number)
}

func (r Revision) Size() int {
	return len(r.Changes)
}

func (r Revision) Summary() Summary {
	return Summary{
		Number:      r.Number,
		Author:      r.Author,
		Timestamp:   r.Timestamp,
		Description: r.Description,
		ChangeCount: len(r.Changes),
	}
}
