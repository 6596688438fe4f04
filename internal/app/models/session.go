package models

import "time"

// VoterSession is an issued voter session based on the 'voter_sessions' table.
// The token is an opaque UUID handed to the client; expiry is evaluated lazily
// against IssuedAt on every request that reads the session, never by a timer.
type VoterSession struct {
	Token         string    `json:"token" db:"token"`
	VoterID       int64     `json:"voterId" db:"voter_id"`
	AssociationID int64     `json:"associationId" db:"association_id"`
	IssuedAt      time.Time `json:"issuedAt" db:"issued_at"`
}

// Expired reports whether the session has outlived ttl at the given instant.
func (s *VoterSession) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.IssuedAt) > ttl
}
