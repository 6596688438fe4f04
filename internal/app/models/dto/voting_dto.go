package dto

import (
	"time"

	"github.com/burak/univote/internal/app/models"
)

// CastBallotRequest is the complete ballot submitted by a voter in one shot
type CastBallotRequest struct {
	ElectionID int64              `json:"electionId" binding:"required" example:"1"`
	Selections []models.Selection `json:"selections" binding:"required"`
}

// CastBallotResponse confirms a committed ballot
type CastBallotResponse struct {
	Message string    `json:"message" example:"Your vote has been recorded"`
	VotedAt time.Time `json:"votedAt"`
}

// BallotCandidate is one electable candidate as shown on the ballot
type BallotCandidate struct {
	ID       int64   `json:"id" example:"3"`
	Name     string  `json:"name" example:"Mehmet Kaya"`
	PhotoURL *string `json:"photoUrl,omitempty"`
}

// BallotPosition is one position with its eligible candidates, election-scoped
type BallotPosition struct {
	ID         int64             `json:"id" example:"1"`
	Name       string            `json:"name" example:"President"`
	Candidates []BallotCandidate `json:"candidates"`
}

// BallotResponse is the full ballot for an election
type BallotResponse struct {
	ElectionID    int64            `json:"electionId" example:"1"`
	ElectionTitle string           `json:"electionTitle" example:"2026 Board Election"`
	Positions     []BallotPosition `json:"positions"`
}
