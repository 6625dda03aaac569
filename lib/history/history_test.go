package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unsafe"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentID = "http://example.org/OntA"

func createRevision(n revision.Number, author string) revision.Revision {
	return revision.New(author, n, []change.Change{
		change.AddStatement(documentID, change.Statement{Subject: "http://example.org/A", Predicate: "subClassOf", Object: "http://example.org/B"}),
		change.AddAnnotation(documentID, change.Annotation{Property: "rdfs:comment", Value: gofakeit.Sentence(6)}),
	}, gofakeit.Date().UnixMilli(), gofakeit.Sentence(4))
}

func historyFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "change-data.binary")
}

func appendAll(t *testing.T, path string, options WriteOptions, revisions ...revision.Revision) {
	for _, rev := range revisions {
		require.NoError(t, AppendRevision(path, rev, options))
	}
}

func appendRaw(t *testing.T, path string, raw []byte) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write(raw)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestRoundTrip(t *testing.T) {
	for _, compress := range []bool{true, false} {
		t.Run(map[bool]string{true: "snappy", false: "plain"}[compress], func(t *testing.T) {
			path := historyFile(t)
			options := DefaultWriteOptions()
			options.Compress = compress

			want := []revision.Revision{createRevision(1, "alice"), createRevision(2, "bob"), createRevision(3, "alice")}
			appendAll(t, path, options, want...)

			result, err := LoadRevisions(path, change.NewRecordTranslator(), LoadOptions{Policy: RecoverPrefix})
			require.NoError(t, err)
			if diff := cmp.Diff(want, result.Revisions); diff != "" {
				t.Errorf("loaded revisions differ (-want +got):\n%s", diff)
			}
			assert.Zero(t, result.Skipped)
		})
	}
}

func TestAppendOnlyGrowsFile(t *testing.T) {
	path := historyFile(t)
	appendAll(t, path, DefaultWriteOptions(), createRevision(1, "alice"))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	appendAll(t, path, DefaultWriteOptions(), createRevision(2, "alice"))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Greater(t, len(second), len(first))
	assert.Equal(t, first, second[:len(first)])
}

func TestLoadMissingFile(t *testing.T) {
	result, err := LoadRevisions(filepath.Join(t.TempDir(), "missing"), change.NewRecordTranslator(), LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Revisions)
}

func TestLoadInternsAuthorsAndDocumentIDs(t *testing.T) {
	path := historyFile(t)
	appendAll(t, path, DefaultWriteOptions(), createRevision(1, "The User"), createRevision(2, "The User"), createRevision(3, "Other"))

	authors := NewInterner()
	documentIDs := NewInterner()
	result, err := LoadRevisions(path, change.NewRecordTranslator(), LoadOptions{Authors: authors, DocumentIDs: documentIDs})
	require.NoError(t, err)
	require.Len(t, result.Revisions, 3)

	first, second := result.Revisions[0], result.Revisions[1]
	assert.Equal(t, unsafe.StringData(first.Author), unsafe.StringData(second.Author))
	assert.Equal(t, unsafe.StringData(first.Changes[0].DocumentID), unsafe.StringData(second.Changes[1].DocumentID))
	assert.Equal(t, 2, authors.Len())
	assert.Equal(t, 1, documentIDs.Len())
}

func TestTruncatedTailKeepsPrefix(t *testing.T) {
	path := historyFile(t)
	want := []revision.Revision{createRevision(1, "alice"), createRevision(2, "bob")}
	appendAll(t, path, DefaultWriteOptions(), want...)

	block, err := EncodeBlock(createRevision(3, "carol"), change.JSONCodec{}, true)
	require.NoError(t, err)
	appendRaw(t, path, block[:len(block)/2])

	result, err := LoadRevisions(path, change.NewRecordTranslator(), LoadOptions{Policy: RecoverPrefix})
	var corrupt *exception.CorruptLogError
	require.ErrorAs(t, err, &corrupt)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, want, result.Revisions)
}

func TestChecksumMismatchIsDetected(t *testing.T) {
	path := historyFile(t)
	appendAll(t, path, DefaultWriteOptions(), createRevision(1, "alice"), createRevision(2, "bob"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o644))

	result, err := LoadRevisions(path, change.NewRecordTranslator(), LoadOptions{Policy: RecoverPrefix})
	assert.ErrorIs(t, err, ErrChecksum)
	require.Len(t, result.Revisions, 1)
	assert.Equal(t, revision.Number(1), result.Revisions[0].Number)
}

func TestResyncSkipsCorruptRegion(t *testing.T) {
	path := historyFile(t)
	appendAll(t, path, DefaultWriteOptions(), createRevision(1, "alice"))
	appendRaw(t, path, []byte("garbage that is not a block"))
	appendAll(t, path, DefaultWriteOptions(), createRevision(2, "bob"))

	prefix, err := LoadRevisions(path, change.NewRecordTranslator(), LoadOptions{Policy: RecoverPrefix})
	assert.ErrorIs(t, err, ErrBadMagic)
	assert.Len(t, prefix.Revisions, 1)

	resynced, err := LoadRevisions(path, change.NewRecordTranslator(), LoadOptions{Policy: RecoverResync})
	assert.Error(t, err)
	require.Len(t, resynced.Revisions, 2)
	assert.Equal(t, revision.Number(2), resynced.Revisions[1].Number)
	assert.Equal(t, 1, resynced.Skipped)
}

func TestOutOfOrderBlockIsCorrupt(t *testing.T) {
	path := historyFile(t)
	appendAll(t, path, DefaultWriteOptions(), createRevision(2, "alice"), createRevision(1, "bob"))

	result, err := LoadRevisions(path, change.NewRecordTranslator(), LoadOptions{Policy: RecoverPrefix})
	assert.ErrorIs(t, err, ErrOrder)
	require.Len(t, result.Revisions, 1)
	assert.Equal(t, revision.Number(2), result.Revisions[0].Number)
}

type rejectingTranslator struct{}

func (rejectingTranslator) Change(change.Record) (change.Change, error) {
	return change.Change{}, change.ErrUnsupportedRecord
}

func TestTranslatorFailureStopsReplay(t *testing.T) {
	path := historyFile(t)
	appendAll(t, path, DefaultWriteOptions(), createRevision(1, "alice"))

	result, err := LoadRevisions(path, rejectingTranslator{}, LoadOptions{Policy: RecoverResync})
	assert.True(t, errors.Is(err, change.ErrUnsupportedRecord))
	assert.Empty(t, result.Revisions)
}

func TestParseRecoveryPolicy(t *testing.T) {
	policy, err := ParseRecoveryPolicy(" Resync ")
	require.NoError(t, err)
	assert.Equal(t, RecoverResync, policy)

	_, err = ParseRecoveryPolicy("truncate")
	assert.Error(t, err)
}

func TestAppendCreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project", "change-data", "change-data.binary")
	require.NoError(t, AppendRevision(path, createRevision(1, "alice"), DefaultWriteOptions()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestReplaceHistoryKeepsDamagedFileAside(t *testing.T) {
	path := historyFile(t)
	options := DefaultWriteOptions()
	kept := []revision.Revision{createRevision(1, "alice"), createRevision(2, "bob")}
	appendAll(t, path, options, kept...)
	appendRaw(t, path, []byte("RVB1\x00"))
	damagedBytes, err := os.ReadFile(path)
	require.NoError(t, err)

	aside, err := ReplaceHistory(path, kept, options, time.UnixMilli(1700000000000))
	require.NoError(t, err)
	assert.Equal(t, path+".damaged-1700000000000", aside)

	moved, err := os.ReadFile(aside)
	require.NoError(t, err)
	assert.Equal(t, damagedBytes, moved)

	appendAll(t, path, options, createRevision(3, "carol"))
	result, err := LoadRevisions(path, change.NewRecordTranslator(), LoadOptions{Policy: RecoverPrefix})
	require.NoError(t, err)
	assert.Len(t, result.Revisions, 3)
}

func TestReplaceHistoryWithoutRevisions(t *testing.T) {
	path := historyFile(t)
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	aside, err := ReplaceHistory(path, nil, DefaultWriteOptions(), time.Now())
	require.NoError(t, err)
	assert.FileExists(t, aside)
	assert.NoFileExists(t, path)
}
