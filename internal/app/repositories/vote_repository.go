package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/db"
	"github.com/burak/univote/internal/pkg/apperrors"
)

// VoteRepository handles database operations for votes.
// Vote rows are insert-only; no update or delete methods exist here.
type VoteRepository struct {
	db *pgxpool.Pool
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{
		db: db,
	}
}

// CastBallot commits a complete ballot in one transaction: it flips the
// voter's has_voted flag and inserts one vote row per selection. The guarded
// UPDATE is the serialization point: of any number of concurrent casts for
// the same voter, exactly one sees RowsAffected == 1 and the rest fail with
// ErrAlreadyVoted before any vote row is written. A failure in any insert
// rolls the flag back too, so a failed cast leaves no observable state.
func (r *VoteRepository) CastBallot(ctx context.Context, voterID, electionID int64, selections []models.Selection) (time.Time, error) {
	votedAt := time.Now()

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE voters
			SET has_voted = TRUE, voted_at = $1
			WHERE id = $2 AND has_voted = FALSE`,
			votedAt, voterID)
		if err != nil {
			return fmt.Errorf("error marking voter as voted: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrAlreadyVoted
		}

		for _, selection := range selections {
			_, err := tx.Exec(ctx, `
				INSERT INTO votes (voter_id, election_id, candidate_id, created_at)
				VALUES ($1, $2, $3, $4)`,
				voterID, electionID, selection.CandidateID, votedAt)
			if err != nil {
				return fmt.Errorf("error inserting vote: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return time.Time{}, err
	}

	return votedAt, nil
}

// GetTalliesByElection returns per-candidate vote counts for an election,
// including zero-vote candidates, ordered by position then name so the
// downstream tie-break order is stable and deterministic.
func (r *VoteRepository) GetTalliesByElection(ctx context.Context, electionID int64) ([]models.CandidateTally, error) {
	query := `
		SELECT c.id, c.name, c.position_id, COUNT(v.id)
		FROM candidates c
		LEFT JOIN votes v ON v.candidate_id = c.id
		WHERE c.election_id = $1
		GROUP BY c.id, c.name, c.position_id
		ORDER BY c.position_id, c.name
	`

	rows, err := r.db.Query(ctx, query, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tallies []models.CandidateTally
	for rows.Next() {
		var tally models.CandidateTally
		if err := rows.Scan(
			&tally.CandidateID,
			&tally.CandidateName,
			&tally.PositionID,
			&tally.Votes,
		); err != nil {
			return nil, err
		}
		tallies = append(tallies, tally)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tallies, nil
}

// CountByElection returns the total number of committed vote rows
func (r *VoteRepository) CountByElection(ctx context.Context, electionID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM votes WHERE election_id = $1`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting votes: %w", err)
	}

	return count, nil
}
