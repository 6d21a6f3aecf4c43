package storage

import (
	"strconv"
	"strings"
	"time"
)

// randomSpan bounds the random token: values are drawn from [0, randomSpan].
const randomSpan = 1_000_000_000

// StoredName is the on-disk name of an uploaded file:
//
//	<timestamp>-<random>-<original>
//
// timestamp is the upload time in Unix milliseconds, random a decimal in
// [0, 1e9] and original the client supplied filename, kept verbatim (it may
// contain further dashes).
type StoredName struct {
	Timestamp int64
	Random    int64
	Original  string
	// Valid reports whether both prefix tokens parsed as decimal integers.
	Valid bool
}

// NewStoredName builds the name for a file uploaded at t.
func NewStoredName(t time.Time, random int64, original string) StoredName {
	return StoredName{
		Timestamp: t.UnixMilli(),
		Random:    random,
		Original:  original,
		Valid:     true,
	}
}

func (n StoredName) String() string {
	var b strings.Builder
	b.Grow(len(n.Original) + 24)
	b.WriteString(strconv.FormatInt(n.Timestamp, 10))
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(n.Random, 10))
	b.WriteByte('-')
	b.WriteString(n.Original)
	return b.String()
}

// ParseStoredName recovers the original filename by dropping the first two
// dash separated tokens, numeric or not. Names with fewer than two dashes are
// returned whole as the original.
func ParseStoredName(name string) StoredName {
	first := strings.IndexByte(name, '-')
	if first < 0 {
		return StoredName{Original: name}
	}
	second := strings.IndexByte(name[first+1:], '-')
	if second < 0 {
		return StoredName{Original: name}
	}
	second += first + 1

	n := StoredName{Original: name[second+1:]}
	ts, tsErr := strconv.ParseInt(name[:first], 10, 64)
	rnd, rndErr := strconv.ParseInt(name[first+1:second], 10, 64)
	if tsErr == nil && rndErr == nil {
		n.Timestamp, n.Random, n.Valid = ts, rnd, true
	}
	return n
}
