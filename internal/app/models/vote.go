package models

import "time"

// Vote defines a single committed vote row based on the 'votes' table.
// Vote rows are immutable: they are inserted in one batch per ballot and
// no update or delete path exists outside election deletion cascades.
type Vote struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	VoterID     int64     `json:"voterId" db:"voter_id" example:"1"`
	ElectionID  int64     `json:"electionId" db:"election_id" example:"1"`
	CandidateID int64     `json:"candidateId" db:"candidate_id" example:"1"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Selection is one (position, candidate) pair inside a submitted ballot.
type Selection struct {
	PositionID  int64 `json:"positionId" binding:"required" example:"1"`
	CandidateID int64 `json:"candidateId" binding:"required" example:"3"`
}

// CandidateTally is a raw per-candidate vote count as read from storage,
// the input to rank and tie computation.
type CandidateTally struct {
	CandidateID   int64  `json:"candidateId" db:"candidate_id"`
	CandidateName string `json:"candidateName" db:"candidate_name"`
	PositionID    int64  `json:"positionId" db:"position_id"`
	Votes         int    `json:"votes" db:"votes"`
}
