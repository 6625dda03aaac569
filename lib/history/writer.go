package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
)

type WriteOptions struct {
	Codec    change.Codec
	Compress bool
	// Fsync forces the block to stable storage before AppendRevision returns.
	Fsync bool
}

func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Codec:    change.JSONCodec{},
		Compress: true,
		Fsync:    true,
	}
}

// AppendRevision writes rev as one block at the end of the change history
// file at path, creating the file if needed. Existing bytes are never
// rewritten.
func AppendRevision(path string, rev revision.Revision, options WriteOptions) (err error) {
	if options.Codec == nil {
		options.Codec = change.JSONCodec{}
	}
	block, err := EncodeBlock(rev, options.Codec, options.Compress)
	if err != nil {
		return err
	}

	file, err := openForAppend(path)
	if err != nil {
		return fmt.Errorf("opening change history %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if _, err = file.Write(block); err != nil {
		return fmt.Errorf("appending revision %d to %s: %w", rev.Number, path, err)
	}
	if options.Fsync {
		if err = file.Sync(); err != nil {
			return fmt.Errorf("syncing change history %s: %w", path, err)
		}
	}
	return nil
}

func openForAppend(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	}
	return file, err
}

// ReplaceHistory writes revs into a fresh change history at path and moves
// the previous file aside, next to it. It returns where the previous file
// went. Without revisions no new file is created.
func ReplaceHistory(path string, revs []revision.Revision, options WriteOptions, now time.Time) (string, error) {
	staged := path + ".rewrite"
	if err := os.Remove(staged); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("clearing %s: %w", staged, err)
	}
	for _, rev := range revs {
		if err := AppendRevision(staged, rev, options); err != nil {
			return "", err
		}
	}

	aside := fmt.Sprintf("%s.damaged-%d", path, now.UnixMilli())
	if err := os.Rename(path, aside); err != nil {
		return "", fmt.Errorf("moving damaged change history %s: %w", path, err)
	}
	if len(revs) == 0 {
		return aside, nil
	}
	if err := os.Rename(staged, path); err != nil {
		return aside, fmt.Errorf("installing rewritten change history %s: %w", path, err)
	}
	return aside, nil
}
