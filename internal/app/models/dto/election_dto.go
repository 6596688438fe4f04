package dto

import (
	"time"

	"github.com/burak/univote/internal/app/models"
)

// CreateElectionRequest is the payload for creating an election
type CreateElectionRequest struct {
	Title   string    `json:"title" binding:"required" example:"2026 Board Election"`
	StartAt time.Time `json:"startAt" binding:"required"`
	EndAt   time.Time `json:"endAt" binding:"required"`
}

// UpdateElectionStateRequest is the payload for explicit lifecycle transitions
type UpdateElectionStateRequest struct {
	State models.ElectionState `json:"state" binding:"required" example:"ACTIVE"`
}

// CreatePositionRequest is the payload for creating a position
type CreatePositionRequest struct {
	Name          string `json:"name" binding:"required" example:"President"`
	DisplayOrder  int    `json:"displayOrder" example:"1"`
	MaxCandidates int    `json:"maxCandidates" example:"10"`
}

// CreateCandidateRequest is the payload for creating a candidate
type CreateCandidateRequest struct {
	ElectionID int64   `json:"electionId" binding:"required" example:"1"`
	PositionID int64   `json:"positionId" binding:"required" example:"1"`
	Name       string  `json:"name" binding:"required" example:"Mehmet Kaya"`
	Manifesto  string  `json:"manifesto,omitempty"`
	PhotoURL   *string `json:"photoUrl,omitempty"`
}
