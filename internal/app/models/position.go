package models

import "time"

// Position defines an electable position based on the 'positions' table
type Position struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	AssociationID int64     `json:"associationId" db:"association_id" example:"1"`
	Name          string    `json:"name" db:"name" example:"President"`
	DisplayOrder  int       `json:"displayOrder" db:"display_order" example:"1"`
	MaxCandidates int       `json:"maxCandidates" db:"max_candidates" example:"10"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
