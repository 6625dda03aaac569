package history

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/exception"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
)

// RecoveryPolicy decides what happens to history that follows a block which
// cannot be decoded.
type RecoveryPolicy string

const (
	// RecoverPrefix keeps every revision read before the first bad block.
	RecoverPrefix RecoveryPolicy = "prefix"
	// RecoverNothing discards the whole history when any block is bad.
	RecoverNothing RecoveryPolicy = "fail"
	// RecoverResync skips bad bytes up to the next valid block and keeps reading.
	RecoverResync RecoveryPolicy = "resync"
)

func ParseRecoveryPolicy(s string) (RecoveryPolicy, error) {
	switch RecoveryPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case RecoverPrefix:
		return RecoverPrefix, nil
	case RecoverNothing:
		return RecoverNothing, nil
	case RecoverResync:
		return RecoverResync, nil
	default:
		return "", fmt.Errorf("unknown recovery policy: %q", s)
	}
}

type LoadOptions struct {
	Codec  change.Codec
	Policy RecoveryPolicy
	// Authors and DocumentIDs are filled while replaying. Nil tables are
	// replaced by fresh ones.
	Authors     *Interner
	DocumentIDs *Interner
}

type Result struct {
	Revisions []revision.Revision
	// Skipped counts the corrupt regions passed over by RecoverResync.
	Skipped int
	Size    int64
}

// LoadRevisions replays the change history at path in file order. A missing
// file yields an empty result. On error the result still carries every
// revision decoded so far; applying RecoverNothing is up to the caller.
// Translator failures always stop the replay because they point at a codec
// mismatch rather than a damaged block.
func LoadRevisions(path string, translator change.Translator, options LoadOptions) (Result, error) {
	if options.Codec == nil {
		options.Codec = change.JSONCodec{}
	}
	if options.Authors == nil {
		options.Authors = NewInterner()
	}
	if options.DocumentIDs == nil {
		options.DocumentIDs = NewInterner()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("reading change history %s: %w", path, err)
	}

	result := Result{Size: int64(len(data))}
	var corruption []error
	last := revision.None
	offset := 0
	for offset < len(data) {
		block, size, err := decodeBlock(data[offset:], options.Codec)
		if err == nil && block.number <= last {
			err = fmt.Errorf("%w: %d after %d", ErrOrder, block.number, last)
		}
		if err != nil {
			corrupt := exception.NewCorruptLogError(path, int64(offset), err)
			if options.Policy != RecoverResync {
				return result, corrupt
			}
			corruption = append(corruption, corrupt)
			result.Skipped++
			next := bytes.Index(data[offset+1:], magic[:])
			if next < 0 {
				break
			}
			offset += next + 1
			continue
		}

		rev, err := toRevision(block, translator, options)
		if err != nil {
			return result, fmt.Errorf("translating revision %d of %s: %w", block.number, path, err)
		}
		result.Revisions = append(result.Revisions, rev)
		last = rev.Number
		offset += size
	}
	return result, errors.Join(corruption...)
}

func toRevision(block storedBlock, translator change.Translator, options LoadOptions) (revision.Revision, error) {
	changes := make([]change.Change, 0, len(block.records))
	for _, record := range block.records {
		c, err := translator.Change(record)
		if err != nil {
			return revision.Revision{}, err
		}
		c.DocumentID = options.DocumentIDs.Intern(c.DocumentID)
		changes = append(changes, c)
	}
	return revision.Revision{
		Author:      options.Authors.Intern(block.author),
		Number:      block.number,
		Changes:     changes,
		Timestamp:   block.timestamp,
		Description: block.description,
	}, nil
}
