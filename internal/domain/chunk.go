package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ContractChunk is a token-bounded slice of a contract's text with its
// embedding vector.
type ContractChunk struct {
	ID          string
	ContractID  uuid.UUID
	UserID      uuid.UUID
	ChunkIndex  int
	TotalChunks int
	Text        string
	Vector      []float32
}

// ChunkID builds the stable id of the idx-th chunk of a contract.
func ChunkID(contractID uuid.UUID, idx int) string {
	return fmt.Sprintf("%s_chunk_%d", contractID, idx)
}

// ChunkMatch is a nearest-neighbour hit returned by a vector index.
// Distance follows the cosine-distance convention.
type ChunkMatch struct {
	ID          string
	ContractID  uuid.UUID
	UserID      uuid.UUID
	ChunkIndex  int
	TotalChunks int
	Text        string
	Distance    float64
}

// Score converts the distance to a similarity score.
func (m ChunkMatch) Score() float64 { return 1 - m.Distance }

// EmbeddingSummary counts the outcomes of one embedding sync pass.
type EmbeddingSummary struct {
	Embedded  int
	Chunks    int
	Unchanged int
	Skipped   int
	Errors    int
}
