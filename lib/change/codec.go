package change

import (
	"encoding/json"
	"fmt"
)

type Codec interface {
	EncodeRecord(record Record) ([]byte, error)
	DecodeRecord(data []byte) (Record, error)
}

// JSONCodec stores each record as a compact JSON object.
type JSONCodec struct{}

func (JSONCodec) EncodeRecord(record Record) ([]byte, error) {
	if _, ok := kindNames[record.Kind]; !ok {
		return nil, fmt.Errorf("cannot encode change record of %s", record.Kind)
	}
	return json.Marshal(record)
}

func (JSONCodec) DecodeRecord(data []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decoding change record: %w", err)
	}
	if _, ok := kindNames[record.Kind]; !ok {
		return Record{}, fmt.Errorf("decoding change record: unknown %s", record.Kind)
	}
	return record, nil
}

var _ Codec = JSONCodec{}
