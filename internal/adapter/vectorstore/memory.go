// Package vectorstore provides brute-force vector indexes for contract
// chunks: a pure in-memory index and a SQLite-backed one that keeps its
// vectors in memory for search.
package vectorstore

import (
	"container/heap"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// Memory is an exact cosine-similarity index held in process memory.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]domain.ContractChunk // Vector holds the normalized embedding
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]domain.ContractChunk)}
}

// ReplaceContract swaps a contract's chunks for the given set under one
// lock. Vectors are normalized on insert so dot product equals cosine
// similarity.
func (m *Memory) ReplaceContract(_ context.Context, contractID uuid.UUID, chunks []domain.ContractChunk) error {
	if err := checkOwner(contractID, chunks); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteContract(contractID)
	for _, c := range chunks {
		m.put(c)
	}
	return nil
}

func checkOwner(contractID uuid.UUID, chunks []domain.ContractChunk) error {
	for _, c := range chunks {
		if c.ContractID != contractID {
			return fmt.Errorf("chunk %s belongs to contract %s, not %s: %w", c.ID, c.ContractID, contractID, domain.ErrValidation)
		}
	}
	return nil
}

func (m *Memory) put(c domain.ContractChunk) {
	c.Vector = normalize(c.Vector)
	m.entries[c.ID] = c
}

// Query returns the topK chunks nearest to vec, nearest first.
func (m *Memory) Query(_ context.Context, vec []float32, topK int) ([]domain.ChunkMatch, error) {
	if topK <= 0 {
		return nil, nil
	}
	q := normalize(vec)

	m.mu.RLock()
	h := &minHeap{}
	for _, c := range m.entries {
		if len(c.Vector) != len(q) {
			continue
		}
		s := scored{chunk: c, score: dotProduct(q, c.Vector)}
		if h.Len() < topK {
			heap.Push(h, s)
		} else if s.score > (*h)[0].score {
			(*h)[0] = s
			heap.Fix(h, 0)
		}
	}
	m.mu.RUnlock()

	out := make([]domain.ChunkMatch, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		s := heap.Pop(h).(scored)
		out[i] = domain.ChunkMatch{
			ID:          s.chunk.ID,
			ContractID:  s.chunk.ContractID,
			UserID:      s.chunk.UserID,
			ChunkIndex:  s.chunk.ChunkIndex,
			TotalChunks: s.chunk.TotalChunks,
			Text:        s.chunk.Text,
			Distance:    1 - s.score,
		}
	}
	return out, nil
}

// DeleteByContract removes every chunk of a contract.
func (m *Memory) DeleteByContract(_ context.Context, contractID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteContract(contractID)
	return nil
}

func (m *Memory) deleteContract(contractID uuid.UUID) {
	for id, c := range m.entries {
		if c.ContractID == contractID {
			delete(m.entries, id)
		}
	}
}

// Count returns the number of stored chunks.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

type scored struct {
	chunk domain.ContractChunk
	score float64
}

// minHeap keeps the current top-K with the weakest hit at the root.
type minHeap []scored

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i].score < h[j].score }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(scored)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
