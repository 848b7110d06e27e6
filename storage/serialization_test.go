package storage

import (
	"testing"
	"time"

	"github.com/poiesic/ragengine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Microsecond)

	t.Run("pending document keeps zero processed time", func(t *testing.T) {
		doc := &core.Document{
			Id:         7,
			DatasetId:  3,
			FileName:   "report.pdf",
			Content:    []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff},
			InsertedAt: now,
		}
		decoded, err := UnmarshalDocument(MarshalDocument(doc))
		require.NoError(t, err)
		assert.Equal(t, doc.Id, decoded.Id)
		assert.Equal(t, doc.DatasetId, decoded.DatasetId)
		assert.Equal(t, doc.FileName, decoded.FileName)
		assert.Equal(t, doc.Content, decoded.Content)
		assert.True(t, decoded.ProcessedAt.IsZero())
		assert.True(t, now.Equal(decoded.InsertedAt))
		assert.True(t, decoded.Pending())
	})

	t.Run("failed document keeps its reason", func(t *testing.T) {
		doc := &core.Document{
			Id:            8,
			DatasetId:     3,
			FileName:      "broken.docx",
			Content:       []byte("x"),
			FailureReason: "Not able to parse document timeout",
			InsertedAt:    now,
		}
		decoded, err := UnmarshalDocument(MarshalDocument(doc))
		require.NoError(t, err)
		assert.Equal(t, doc.FailureReason, decoded.FailureReason)
		assert.True(t, decoded.Failed())
	})

	t.Run("processed document keeps its timestamp", func(t *testing.T) {
		doc := &core.Document{Id: 9, DatasetId: 3, FileName: "done.txt", ProcessedAt: now, InsertedAt: now}
		decoded, err := UnmarshalDocument(MarshalDocument(doc))
		require.NoError(t, err)
		assert.True(t, now.Equal(decoded.ProcessedAt))
		assert.False(t, decoded.Pending())
	})
}

func TestChunkRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Microsecond)

	t.Run("unprocessed chunk has no vector", func(t *testing.T) {
		c := &core.Chunk{Id: 1, DocumentId: 2, PageNumber: 0, Text: "world", InsertedAt: now, UpdatedAt: now}
		decoded, err := UnmarshalChunk(MarshalChunk(c))
		require.NoError(t, err)
		assert.Equal(t, c.Id, decoded.Id)
		assert.Equal(t, c.DocumentId, decoded.DocumentId)
		assert.Equal(t, "world", decoded.Text)
		assert.False(t, decoded.Processed)
		assert.Nil(t, decoded.Vector)
		assert.False(t, decoded.Embedded())
		assert.True(t, now.Equal(decoded.UpdatedAt))
	})

	t.Run("embedded chunk keeps its vector", func(t *testing.T) {
		c := &core.Chunk{
			Id: 3, DocumentId: 2, PageNumber: 1, Text: "Hello", Processed: true,
			Vector: []float32{0.1, 0.2, 0.3}, InsertedAt: now, UpdatedAt: now,
		}
		decoded, err := UnmarshalChunk(MarshalChunk(c))
		require.NoError(t, err)
		assert.Equal(t, c.Vector, decoded.Vector)
		assert.Equal(t, int32(1), decoded.PageNumber)
		assert.True(t, decoded.Processed)
	})
}

func TestDatasetAndProviderRoundTrip(t *testing.T) {
	ds := &core.Dataset{
		Id:   4,
		Name: "handbook",
		Chunking: core.ChunkingConfig{
			CombineUnderNChars: 500,
			NewAfterNChars:     1000,
			MultipageSections:  true,
		},
		EmbeddingProviderId: 9,
	}
	decodedDS, err := UnmarshalDataset(MarshalDataset(ds))
	require.NoError(t, err)
	assert.Equal(t, ds.Name, decodedDS.Name)
	assert.Equal(t, ds.Chunking, decodedDS.Chunking)
	assert.Equal(t, ds.EmbeddingProviderId, decodedDS.EmbeddingProviderId)
	assert.True(t, decodedDS.InsertedAt.IsZero())

	p := &core.EmbeddingProvider{Id: 9, Name: "local", BaseURL: "http://localhost:11434/v1", Model: "nomic-embed-text"}
	decodedP, err := UnmarshalProvider(MarshalProvider(p))
	require.NoError(t, err)
	assert.Equal(t, p, decodedP)
}

func TestUnmarshal_Truncated(t *testing.T) {
	c := &core.Chunk{Id: 3, DocumentId: 2, Text: "Hello", Processed: true, Vector: []float32{0.1, 0.2, 0.3}}
	data := MarshalChunk(c)

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalDocument(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
