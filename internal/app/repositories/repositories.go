package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	AssociationRepository *AssociationRepository
	AdminRepository       *AdminRepository
	TokenRepository       *TokenRepository
	ElectionRepository    *ElectionRepository
	PositionRepository    *PositionRepository
	CandidateRepository   *CandidateRepository
	VoterRepository       *VoterRepository
	VoteRepository        *VoteRepository
	SessionRepository     *SessionRepository
	ChunkRepository       *ChunkRepository
	FAQRepository         *FAQRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AssociationRepository: NewAssociationRepository(db),
		AdminRepository:       NewAdminRepository(db),
		TokenRepository:       NewTokenRepository(db),
		ElectionRepository:    NewElectionRepository(db),
		PositionRepository:    NewPositionRepository(db),
		CandidateRepository:   NewCandidateRepository(db),
		VoterRepository:       NewVoterRepository(db),
		VoteRepository:        NewVoteRepository(db),
		SessionRepository:     NewSessionRepository(db),
		ChunkRepository:       NewChunkRepository(db),
		FAQRepository:         NewFAQRepository(db),
	}
}
