package models

import "time"

// Voter defines a registered voter based on the 'voters' table.
// HasVoted transitions false to true exactly once, only inside the
// cast-ballot transaction, and is never reset.
type Voter struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	AssociationID int64      `json:"associationId" db:"association_id" example:"1"`
	StudentID     string     `json:"studentId" db:"student_id" example:"20210001"`
	Name          string     `json:"name" db:"name" example:"Zeynep Arslan"`
	Email         string     `json:"email" db:"email" example:"zeynep@school.edu.tr"`
	Password      string     `json:"-" db:"password"` // Hashed password, excluded from JSON
	HasVoted      bool       `json:"hasVoted" db:"has_voted" example:"false"`
	VotedAt       *time.Time `json:"votedAt,omitempty" db:"voted_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}
