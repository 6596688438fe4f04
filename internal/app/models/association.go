package models

import "time"

// Association is the tenant organization owning elections, positions and voters.
type Association struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Computer Engineering Student Association"`
	Code      string    `json:"code" db:"code" example:"CESA"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
