package models

import "time"

// ElectionState is an explicit admin-driven lifecycle transition target.
type ElectionState string

const (
	ElectionStateActive ElectionState = "ACTIVE"
	ElectionStatePaused ElectionState = "PAUSED"
	ElectionStateEnded  ElectionState = "ENDED"
)

// Election defines an election based on the 'elections' table.
// Voting is open only while IsActive is true AND the current time falls
// inside [StartAt, EndAt], both bounds inclusive.
type Election struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	AssociationID int64     `json:"associationId" db:"association_id" example:"1"`
	Title         string    `json:"title" db:"title" example:"2026 Board Election"`
	StartAt       time.Time `json:"startAt" db:"start_at"`
	EndAt         time.Time `json:"endAt" db:"end_at"`
	IsActive      bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// OpenForVotingAt reports whether a ballot may be cast at the given instant.
func (e *Election) OpenForVotingAt(now time.Time) bool {
	return e.IsActive && !now.Before(e.StartAt) && !now.After(e.EndAt)
}
