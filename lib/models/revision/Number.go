package revision

import (
	"cmp"
	"errors"
	"strconv"
	"strings"
)

// Number identifies a revision of a document. Real revisions start at 1.
type Number int64

const (
	// None is the current number of a document without revisions.
	None Number = 0
	// Head stands for the latest revision and is resolved before lookups.
	Head Number = -1
)

func (n Number) IsHead() bool {
	return n == Head
}

func (n Number) Next() Number {
	return n + 1
}

func (n Number) Compare(other Number) int {
	return cmp.Compare(n, other)
}

func (n Number) String() string {
	if n.IsHead() {
		return "HEAD"
	}
	return strconv.FormatInt(int64(n), 10)
}

// ParseNumber accepts a non-negative integer or "head".
func ParseNumber(s string) (Number, error) {
	if strings.EqualFold(s, "head") {
		return Head, nil
	}
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return None, err
	}
	if value < 0 {
		return None, errors.New("revision number must not be negative")
	}
	return Number(value), nil
}
