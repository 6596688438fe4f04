package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burak/univote/internal/app/models"
)

// FAQRepository handles database operations for the per-election FAQ cache
type FAQRepository struct {
	db *pgxpool.Pool
}

// NewFAQRepository creates a new FAQ repository
func NewFAQRepository(db *pgxpool.Pool) *FAQRepository {
	return &FAQRepository{
		db: db,
	}
}

// Insert stores one generated FAQ entry
func (r *FAQRepository) Insert(ctx context.Context, entry *models.FAQEntry) error {
	query := `
		INSERT INTO faq_entries (election_id, question, answer, sources, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		entry.ElectionID,
		entry.Question,
		entry.Answer,
		entry.Sources,
		entry.GeneratedAt,
	).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("error inserting FAQ entry: %w", err)
	}

	return nil
}

// DeleteByElection wipes the FAQ cache for an election. The cache is only
// ever rebuilt wholesale, never patched.
func (r *FAQRepository) DeleteByElection(ctx context.Context, electionID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM faq_entries WHERE election_id = $1`, electionID)
	if err != nil {
		return fmt.Errorf("error deleting FAQ entries: %w", err)
	}

	return nil
}

// GetByElection retrieves the cached FAQ entries for an election
func (r *FAQRepository) GetByElection(ctx context.Context, electionID int64) ([]*models.FAQEntry, error) {
	query := `
		SELECT id, election_id, question, answer, sources, generated_at
		FROM faq_entries
		WHERE election_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.FAQEntry
	for rows.Next() {
		var entry models.FAQEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ElectionID,
			&entry.Question,
			&entry.Answer,
			&entry.Sources,
			&entry.GeneratedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
