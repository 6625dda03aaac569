package revision

import (
	"testing"

	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRevision(n Number) Revision {
	return New("The User", n, []change.Change{
		change.AddStatement("doc", change.Statement{Subject: "A", Predicate: "subClassOf", Object: "B"}),
	}, 1632390000000, "A change that was made")
}

func TestParseNumber(t *testing.T) {
	testCases := []struct {
		input   string
		want    Number
		wantErr bool
	}{
		{"0", None, false},
		{"17", 17, false},
		{"head", Head, false},
		{"HEAD", Head, false},
		{"-3", None, true},
		{"x", None, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseNumber(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRevisionEquality(t *testing.T) {
	a := makeRevision(1)
	b := makeRevision(1)
	assert.True(t, a.Equal(b))

	b.Description = "other"
	assert.False(t, a.Equal(b))

	c := makeRevision(1)
	c.Changes = append(c.Changes, change.AddImport("doc", "http://example.org/B"))
	assert.False(t, a.Equal(c))
}

func TestNewCopiesChanges(t *testing.T) {
	changes := []change.Change{change.AddImport("doc", "x")}
	rev := New("u", 1, changes, 0, "")
	changes[0] = change.AddImport("doc", "y")
	assert.Equal(t, "x", rev.Changes[0].Import)
}

func TestAppendLeavesSnapshotUntouched(t *testing.T) {
	before := NewRevisions(makeRevision(1))
	after := before.Append(makeRevision(2))

	assert.Equal(t, 1, before.Len())
	assert.Equal(t, 2, after.Len())

	again := before.Append(makeRevision(5))
	assert.Equal(t, Number(2), after.At(1).Number)
	assert.Equal(t, Number(5), again.At(1).Number)
}

func TestSearch(t *testing.T) {
	revisions := NewRevisions()
	for n := Number(1); n <= 9; n++ {
		revisions = revisions.Append(makeRevision(n * 2))
	}

	assert.Equal(t, 0, revisions.Search(2))
	assert.Equal(t, 4, revisions.Search(10))
	assert.Equal(t, 8, revisions.Search(18))
	assert.Equal(t, -1, revisions.Search(3))
	assert.Equal(t, -1, revisions.Search(20))
	assert.Equal(t, -1, NewRevisions().Search(1))
}

func TestLastAndSummaries(t *testing.T) {
	_, ok := NewRevisions().Last()
	assert.False(t, ok)

	revisions := NewRevisions(makeRevision(1), makeRevision(2))
	last, ok := revisions.Last()
	require.True(t, ok)
	assert.Equal(t, Number(2), last.Number)

	summaries := revisions.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[1].ChangeCount)
	assert.Equal(t, "The User", summaries[0].Author)
}
