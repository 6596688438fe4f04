package models

import "time"

// ManifestoChunk is one embedded slice of a candidate manifesto, based on the
// 'manifesto_chunks' table. Chunks for a (candidate, election) pair are only
// ever created in full or deleted in full, never mutated in place.
type ManifestoChunk struct {
	ID          int64     `json:"id" db:"id"`
	ElectionID  int64     `json:"electionId" db:"election_id"`
	CandidateID int64     `json:"candidateId" db:"candidate_id"`
	Content     string    `json:"content" db:"content"`
	Embedding   []float32 `json:"-" db:"embedding"` // Not exposed to clients
	ChunkIndex  int       `json:"chunkIndex" db:"chunk_index"`
	TotalChunks int       `json:"totalChunks" db:"total_chunks"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
