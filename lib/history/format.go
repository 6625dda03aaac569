package history

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/snappy"
	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/models/revision"
)

// Every revision is stored as one block:
//
//	magic    [4]byte "RVB1"
//	flags    uint8   flagSnappy when the payload is compressed
//	length   uint32  length of the stored payload
//	checksum uint64  xxhash of the stored payload
//	payload  [length]byte
//
// All fixed width integers are big endian. The payload holds the author,
// revision number, timestamp, description and the codec encoded change
// records, each string or record prefixed by its uvarint length.

var magic = [4]byte{'R', 'V', 'B', '1'}

const (
	headerSize = 4 + 1 + 4 + 8

	flagSnappy uint8 = 1 << 0

	maxPayloadSize = 1 << 30
)

var (
	ErrBadMagic  = errors.New("block does not start with the block marker")
	ErrTruncated = errors.New("block is truncated")
	ErrChecksum  = errors.New("block checksum mismatch")
	ErrPayload   = errors.New("block payload is malformed")
	ErrOrder     = errors.New("block revision number does not follow the previous block")
)

// EncodeBlock serializes one revision into a self contained block.
func EncodeBlock(rev revision.Revision, codec change.Codec, compress bool) ([]byte, error) {
	payload := make([]byte, 0, 64+len(rev.Description)+len(rev.Author))
	payload = appendString(payload, rev.Author)
	payload = binary.AppendVarint(payload, int64(rev.Number))
	payload = binary.AppendVarint(payload, rev.Timestamp)
	payload = appendString(payload, rev.Description)
	payload = binary.AppendUvarint(payload, uint64(len(rev.Changes)))
	for i, c := range rev.Changes {
		record, err := codec.EncodeRecord(change.ToRecord(c))
		if err != nil {
			return nil, fmt.Errorf("encoding change %d of revision %d: %w", i, rev.Number, err)
		}
		payload = binary.AppendUvarint(payload, uint64(len(record)))
		payload = append(payload, record...)
	}

	var flags uint8
	if compress {
		payload = snappy.Encode(nil, payload)
		flags |= flagSnappy
	}
	if len(payload) > maxPayloadSize {
		return nil, fmt.Errorf("revision %d is too large to store (%d bytes)", rev.Number, len(payload))
	}

	block := make([]byte, headerSize, headerSize+len(payload))
	copy(block[0:4], magic[:])
	block[4] = flags
	binary.BigEndian.PutUint32(block[5:9], uint32(len(payload)))
	binary.BigEndian.PutUint64(block[9:17], xxhash.Sum64(payload))
	return append(block, payload...), nil
}

type storedBlock struct {
	author      string
	number      revision.Number
	timestamp   int64
	description string
	records     []change.Record
}

// decodeBlock decodes the block at the start of data and returns it together
// with the number of bytes it occupies.
func decodeBlock(data []byte, codec change.Codec) (storedBlock, int, error) {
	if len(data) < headerSize {
		return storedBlock{}, 0, ErrTruncated
	}
	if [4]byte(data[0:4]) != magic {
		return storedBlock{}, 0, ErrBadMagic
	}
	flags := data[4]
	length := binary.BigEndian.Uint32(data[5:9])
	sum := binary.BigEndian.Uint64(data[9:17])
	if length > maxPayloadSize {
		return storedBlock{}, 0, fmt.Errorf("%w: payload length %d", ErrPayload, length)
	}
	size := headerSize + int(length)
	if len(data) < size {
		return storedBlock{}, 0, ErrTruncated
	}
	payload := data[headerSize:size]
	if xxhash.Sum64(payload) != sum {
		return storedBlock{}, 0, ErrChecksum
	}
	if flags&flagSnappy != 0 {
		decoded, err := snappy.Decode(nil, payload)
		if err != nil {
			return storedBlock{}, 0, fmt.Errorf("%w: %v", ErrPayload, err)
		}
		payload = decoded
	}

	p := payloadReader{data: payload}
	block := storedBlock{
		author:      p.string(),
		number:      revision.Number(p.varint()),
		timestamp:   p.varint(),
		description: p.string(),
	}
	count := p.uvarint()
	if p.err == nil && count > uint64(len(payload)) {
		p.err = fmt.Errorf("%w: %d records announced", ErrPayload, count)
	}
	for i := uint64(0); i < count && p.err == nil; i++ {
		raw := p.bytes()
		if p.err != nil {
			break
		}
		record, err := codec.DecodeRecord(raw)
		if err != nil {
			p.err = fmt.Errorf("%w: %v", ErrPayload, err)
			break
		}
		block.records = append(block.records, record)
	}
	if p.err == nil && p.pos != len(payload) {
		p.err = fmt.Errorf("%w: %d trailing bytes", ErrPayload, len(payload)-p.pos)
	}
	if p.err != nil {
		return storedBlock{}, 0, p.err
	}
	return block, size, nil
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

type payloadReader struct {
	data []byte
	pos  int
	err  error
}

func (p *payloadReader) uvarint() uint64 {
	if p.err != nil {
		return 0
	}
	v, n := binary.Uvarint(p.data[p.pos:])
	if n <= 0 {
		p.err = ErrPayload
		return 0
	}
	p.pos += n
	return v
}

func (p *payloadReader) varint() int64 {
	if p.err != nil {
		return 0
	}
	v, n := binary.Varint(p.data[p.pos:])
	if n <= 0 {
		p.err = ErrPayload
		return 0
	}
	p.pos += n
	return v
}

func (p *payloadReader) bytes() []byte {
	length := p.uvarint()
	if p.err != nil {
		return nil
	}
	if length > uint64(len(p.data)-p.pos) {
		p.err = ErrPayload
		return nil
	}
	b := p.data[p.pos : p.pos+int(length)]
	p.pos += int(length)
	return b
}

func (p *payloadReader) string() string {
	return string(p.bytes())
}
