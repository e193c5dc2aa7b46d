package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/assessly/core"
)

// Key prefixes for different data types
const (
	dimensionMetaKey       = "meta:dim"
	chunkRecordPrefix      = "chkrec"
	chunkSourcePrefix      = "chksrc"
	assessmentRecordPrefix = "asmrec"
	assessmentDatePrefix   = "asmrecd"
	assessmentIDSeq        = "asmrecseq"
)

// makeChunkKey generates a key for a document chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkSourceKey generates a composite key for the source index.
// Format: prefix:sourceID:chunkID
func makeChunkSourceKey(sourceID string, id core.ID) []byte {
	prefix := chunkSourcePrefix + ":" + sourceID + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic sort follows chunk ID order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkSourceKey generates a partial key for source queries.
func makePartialChunkSourceKey(sourceID string) []byte {
	return []byte(chunkSourcePrefix + ":" + sourceID + ":")
}

// makeAssessmentKey generates a key for an assessment by ID.
func makeAssessmentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", assessmentRecordPrefix, id))
}

// makeAssessmentDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeAssessmentDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := assessmentDatePrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic sort follows insertion time
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
