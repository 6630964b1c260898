package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/capsule/core"
)

// Key prefixes for different data types
const (
	collectionMetaKey = "topmeta"
	topicRecordPrefix = "toprec"
	topicNamePrefix   = "topname"
	topicDatePrefix   = "topdate"
)

// makeTopicKey generates a key for a stored topic by its surrogate key.
func makeTopicKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", topicRecordPrefix, key))
}

// makeNameKey generates a composite key for the name index.
// The name is hashed so names containing the key separator cannot collide
// with the composite layout.
// Format: prefix:nameHash:surrogateKey
func makeNameKey(name, key string) []byte {
	return []byte(fmt.Sprintf("%s:%016x:%s", topicNamePrefix, uint64(core.IDFromContent(name)), key))
}

// makePartialNameKey generates a partial key for name lookups.
// Format: prefix:nameHash:
func makePartialNameKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%016x:", topicNamePrefix, uint64(core.IDFromContent(name))))
}

// makeDateKey generates a composite key for the recency index.
// Format: prefix:timestamp:surrogateKey
func makeDateKey(storedAt time.Time, key string) []byte {
	prefix := topicDatePrefix + ":"
	buf := make([]byte, len(prefix)+8+len(key))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(storedAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], key)
	return buf
}

// dateKeyPrefix is the shared prefix of all recency index keys.
func dateKeyPrefix() []byte {
	return []byte(topicDatePrefix + ":")
}

// maxDateKey is a key past every recency index entry, used as the reverse
// iteration seek point.
func maxDateKey() []byte {
	prefix := dateKeyPrefix()
	buf := make([]byte, len(prefix)+9)
	copy(buf, prefix)
	for i := len(prefix); i < len(buf); i++ {
		buf[i] = 0xff
	}
	return buf
}
