package revision

import (
	"iter"
	"slices"
)

// Revisions is an immutable, number-ordered snapshot of a document history.
// Append never touches the receiver, so a snapshot can be shared freely
// between goroutines.
type Revisions struct {
	items []Revision
}

func NewRevisions(items ...Revision) Revisions {
	return Revisions{items: slices.Clip(slices.Clone(items))}
}

func (r Revisions) Len() int {
	return len(r.items)
}

func (r Revisions) IsEmpty() bool {
	return len(r.items) == 0
}

func (r Revisions) At(i int) Revision {
	return r.items[i]
}

func (r Revisions) First() (Revision, bool) {
	if len(r.items) == 0 {
		return Revision{}, false
	}
	return r.items[0], true
}

func (r Revisions) Last() (Revision, bool) {
	if len(r.items) == 0 {
		return Revision{}, false
	}
	return r.items[len(r.items)-1], true
}

// Append returns a new snapshot with rev added at the end.
func (r Revisions) Append(rev Revision) Revisions {
	items := make([]Revision, len(r.items)+1)
	copy(items, r.items)
	items[len(r.items)] = rev
	return Revisions{items: items}
}

// Search returns the index of the revision numbered n, or -1.
func (r Revisions) Search(n Number) int {
	i, found := slices.BinarySearchFunc(r.items, n, func(rev Revision, target Number) int {
		return rev.Number.Compare(target)
	})
	if !found {
		return -1
	}
	return i
}

func (r Revisions) All() iter.Seq2[int, Revision] {
	return slices.All(r.items)
}

// Slice returns a copy that the caller may modify.
func (r Revisions) Slice() []Revision {
	return slices.Clone(r.items)
}

func (r Revisions) Summaries() []Summary {
	summaries := make([]Summary, 0, len(r.items))
	for _, rev := range r.items {
		summaries = append(summaries, rev.Summary())
	}
	return summaries
}

func (r Revisions) Equal(other Revisions) bool {
	return slices.EqualFunc(r.items, other.items, Revision.Equal)
}
