package badger

import (
	"encoding/binary"

	"github.com/poiesic/ragengine/core"
)

// Key prefixes for different data types. Every prefix ends with ':' so one
// prefix is never a prefix of another.
const (
	providerPrefix        = "prov:"
	datasetPrefix         = "dset:"
	documentPrefix        = "doc:"
	pendingDocumentPrefix = "docq:"
	chunkPrefix           = "chk:"
	pendingChunkPrefix    = "chkq:"
	documentChunkPrefix   = "dchk:"
	providerIDSeq         = "seq:prov"
	datasetIDSeq          = "seq:dset"
	documentIDSeq         = "seq:doc"
	chunkIDSeq            = "seq:chk"
)

// makeKey generates a key of the form prefix + big-endian ID.
// BigEndian order makes lexicographic iteration follow ascending IDs.
func makeKey(prefix string, id core.ID) []byte {
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(id))
	return buf
}

// makeDocumentChunkKey generates a composite key for the document→chunk index.
// Format: prefix:documentID:chunkID
func makeDocumentChunkKey(documentID, chunkID core.ID) []byte {
	buf := make([]byte, len(documentChunkPrefix)+8)
	offset := copy(buf, documentChunkPrefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(documentID))
	binary.BigEndian.PutUint32(buf[offset+4:], uint32(chunkID))
	return buf
}

// makePartialDocumentChunkKey generates the prefix for a document's chunks.
func makePartialDocumentChunkKey(documentID core.ID) []byte {
	return makeKey(documentChunkPrefix, documentID)
}

// idSuffix decodes the trailing 4-byte ID of a key.
func idSuffix(key []byte) uint32 {
	return binary.BigEndian.Uint32(key[len(key)-4:])
}
