package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burak/univote/internal/app/models"
)

// ChunkRepository handles database operations for manifesto chunks.
// Chunks are append-only apart from the delete-before-replace rule used by
// manifesto updates; individual rows are never mutated.
type ChunkRepository struct {
	db *pgxpool.Pool
}

// NewChunkRepository creates a new chunk repository
func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{
		db: db,
	}
}

// Insert stores one embedded chunk
func (r *ChunkRepository) Insert(ctx context.Context, chunk *models.ManifestoChunk) error {
	query := `
		INSERT INTO manifesto_chunks (election_id, candidate_id, content, embedding, chunk_index, total_chunks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		chunk.ElectionID,
		chunk.CandidateID,
		chunk.Content,
		chunk.Embedding,
		chunk.ChunkIndex,
		chunk.TotalChunks,
	).Scan(&chunk.ID, &chunk.CreatedAt)

	if err != nil {
		return fmt.Errorf("error inserting manifesto chunk: %w", err)
	}

	return nil
}

// DeleteByCandidate removes every chunk for a (candidate, election) pair
func (r *ChunkRepository) DeleteByCandidate(ctx context.Context, candidateID, electionID int64) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM manifesto_chunks WHERE candidate_id = $1 AND election_id = $2`,
		candidateID, electionID)
	if err != nil {
		return 0, fmt.Errorf("error deleting manifesto chunks: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// GetByElection retrieves all chunks for an election, optionally filtered to
// a candidate subset. An empty candidateIDs slice means no filter.
func (r *ChunkRepository) GetByElection(ctx context.Context, electionID int64, candidateIDs []int64) ([]*models.ManifestoChunk, error) {
	query := `
		SELECT id, election_id, candidate_id, content, embedding, chunk_index, total_chunks, created_at
		FROM manifesto_chunks
		WHERE election_id = $1
	`
	args := []interface{}{electionID}

	if len(candidateIDs) > 0 {
		query += ` AND candidate_id = ANY($2)`
		args = append(args, candidateIDs)
	}

	query += ` ORDER BY candidate_id, chunk_index`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*models.ManifestoChunk
	for rows.Next() {
		var chunk models.ManifestoChunk
		if err := rows.Scan(
			&chunk.ID,
			&chunk.ElectionID,
			&chunk.CandidateID,
			&chunk.Content,
			&chunk.Embedding,
			&chunk.ChunkIndex,
			&chunk.TotalChunks,
			&chunk.CreatedAt,
		); err != nil {
			return nil, err
		}
		chunks = append(chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}
