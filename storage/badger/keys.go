package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/trafficlens/roadrag/core"
)

// Key prefixes for different data types
const (
	exchangePrefix     = "exchg"
	exchangeDatePrefix = "exchgd"
	exchangeIDSeq      = "exchgseq"
)

// makeExchangeKey generates a key for an exchange by ID.
func makeExchangeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", exchangePrefix, id))
}

// makeExchangeDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeExchangeDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := exchangeDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialExchangeDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialExchangeDateKey(timestamp time.Time) []byte {
	prefix := exchangeDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
