package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/hitcount/core"
)

// Key prefixes for different data types
const (
	searchRecordPrefix     = "srchrec"
	searchRecordDatePrefix = "srchrecd"
	searchRecordIDSeq      = "srchrecseq"
)

// makeSearchRecordKey generates a key for a search record by ID.
func makeSearchRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", searchRecordPrefix, id))
}

// makeSearchDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeSearchDateKey(timestamp time.Time, id core.ID) []byte {
	prefixBytes := searchDateIndexPrefix()
	buf := make([]byte, len(prefixBytes)+16) // 8 bytes for timestamp + 8 bytes for ID
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSearchDateSeekKey generates a key that sorts after every date index key.
// Used as the starting point for reverse iteration.
func makeSearchDateSeekKey() []byte {
	prefixBytes := searchDateIndexPrefix()
	buf := make([]byte, len(prefixBytes)+17)
	offset := copy(buf, prefixBytes)
	for i := offset; i < len(buf); i++ {
		buf[i] = 0xff
	}
	return buf
}

func searchDateIndexPrefix() []byte {
	return []byte(searchRecordDatePrefix + ":")
}
