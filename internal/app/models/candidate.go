package models

import "time"

// Candidate defines a candidate based on the 'candidates' table.
// A candidate belongs to exactly one election and one position; the
// (name, election, position) triple is unique.
type Candidate struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	ElectionID int64     `json:"electionId" db:"election_id" example:"1"`
	PositionID int64     `json:"positionId" db:"position_id" example:"1"`
	Name       string    `json:"name" db:"name" example:"Mehmet Kaya"`
	Manifesto  string    `json:"manifesto,omitempty" db:"manifesto"`
	PhotoURL   *string   `json:"photoUrl,omitempty" db:"photo_url"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
