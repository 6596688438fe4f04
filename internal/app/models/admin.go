package models

import "time"

// Admin defines an administrator account based on the 'admins' table
type Admin struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	AssociationID int64      `json:"associationId" db:"association_id" example:"1"`
	Email         string     `json:"email" db:"email" example:"admin@cesa.edu.tr"`
	Password      string     `json:"-" db:"password"` // Hashed password, excluded from JSON
	FirstName     string     `json:"firstName" db:"first_name" example:"Ayse"`
	LastName      string     `json:"lastName" db:"last_name" example:"Demir"`
	IsActive      bool       `json:"isActive" db:"is_active" example:"true"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
