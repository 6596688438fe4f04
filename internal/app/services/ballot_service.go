package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/apperrors"
)

// VoterStore resolves voters for ballot casting
type VoterStore interface {
	GetByID(ctx context.Context, id int64) (*models.Voter, error)
}

// BallotElectionStore resolves elections for ballot casting
type BallotElectionStore interface {
	GetByID(ctx context.Context, id int64) (*models.Election, error)
}

// BallotCandidateStore validates ballot selections and lists candidates
type BallotCandidateStore interface {
	ExistsForBallot(ctx context.Context, candidateID, electionID, positionID int64) (bool, error)
	GetByElection(ctx context.Context, electionID int64) ([]*models.Candidate, error)
}

// BallotPositionStore lists positions for ballot presentation
type BallotPositionStore interface {
	GetAllByAssociation(ctx context.Context, associationID int64) ([]*models.Position, error)
}

// BallotStore commits ballots atomically
type BallotStore interface {
	CastBallot(ctx context.Context, voterID, electionID int64, selections []models.Selection) (time.Time, error)
}

// SessionDestroyer destroys voter sessions
type SessionDestroyer interface {
	Delete(ctx context.Context, token string) error
}

// BallotService is the voting integrity core: given a voter session and a set
// of selections it either commits a complete, internally consistent ballot
// exactly once, or rejects with no side effects beyond session destruction.
type BallotService struct {
	voters     VoterStore
	elections  BallotElectionStore
	candidates BallotCandidateStore
	positions  BallotPositionStore
	ballots    BallotStore
	sessions   SessionDestroyer
	logger     zerolog.Logger
	now        func() time.Time
}

// NewBallotService creates a new ballot service
func NewBallotService(
	voters VoterStore,
	elections BallotElectionStore,
	candidates BallotCandidateStore,
	positions BallotPositionStore,
	ballots BallotStore,
	sessions SessionDestroyer,
	logger zerolog.Logger,
) *BallotService {
	return &BallotService{
		voters:     voters,
		elections:  elections,
		candidates: candidates,
		positions:  positions,
		ballots:    ballots,
		sessions:   sessions,
		logger:     logger,
		now:        time.Now,
	}
}

// CastBallot validates and commits a ballot. Preconditions are checked in
// order and short-circuit before any write:
//  1. the voter exists,
//  2. the voter has not voted (the session is destroyed on this rejection so
//     a stale session cannot retry),
//  3. the election belongs to the voter's association, is active and the
//     current time falls inside [StartAt, EndAt] inclusive,
//  4. the ballot is non-empty,
//  5. every selection names a candidate matching its claimed position and
//     election simultaneously.
//
// The commit itself is a single storage transaction; votes and the has-voted
// flag land together or not at all. The session is destroyed unconditionally
// after a successful commit.
func (s *BallotService) CastBallot(ctx context.Context, session *models.VoterSession, req *dto.CastBallotRequest) (*dto.CastBallotResponse, error) {
	voter, err := s.voters.GetByID(ctx, session.VoterID)
	if err != nil {
		return nil, err
	}

	if voter.HasVoted {
		s.destroySession(ctx, session.Token)
		return nil, apperrors.ErrAlreadyVoted
	}

	election, err := s.elections.GetByID(ctx, req.ElectionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrElectionNotFound) {
			return nil, apperrors.ErrElectionUnavailable
		}
		return nil, err
	}

	if election.AssociationID != voter.AssociationID || !election.OpenForVotingAt(s.now()) {
		return nil, apperrors.ErrElectionUnavailable
	}

	if len(req.Selections) == 0 {
		return nil, apperrors.ErrEmptyBallot
	}

	// Validate every selection before writing anything; a single mismatch
	// rejects the whole ballot.
	for _, selection := range req.Selections {
		ok, err := s.candidates.ExistsForBallot(ctx, selection.CandidateID, req.ElectionID, selection.PositionID)
		if err != nil {
			return nil, fmt.Errorf("error validating selection: %w", err)
		}
		if !ok {
			return nil, apperrors.ErrInvalidSelection
		}
	}

	votedAt, err := s.ballots.CastBallot(ctx, voter.ID, req.ElectionID, req.Selections)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrAlreadyVoted) {
			// A concurrent cast won the guarded update. Same contract as
			// precondition 2: destroy the session.
			s.destroySession(ctx, session.Token)
		}
		return nil, err
	}

	s.destroySession(ctx, session.Token)

	s.logger.Info().
		Int64("voterID", voter.ID).
		Int64("electionID", req.ElectionID).
		Int("selections", len(req.Selections)).
		Msg("Ballot committed")

	return &dto.CastBallotResponse{
		Message: "Your vote has been recorded",
		VotedAt: votedAt,
	}, nil
}

// destroySession deletes the session token. Destruction is best effort; the
// committed ballot is not rolled back if the delete fails.
func (s *BallotService) destroySession(ctx context.Context, token string) {
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.logger.Error().Err(err).Msg("Failed to destroy voter session")
	}
}

// GetBallot returns the election-scoped ballot: every position of the
// association that has candidates in the election, with those candidates.
func (s *BallotService) GetBallot(ctx context.Context, session *models.VoterSession, electionID int64) (*dto.BallotResponse, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrElectionNotFound) {
			return nil, apperrors.ErrElectionUnavailable
		}
		return nil, err
	}

	if election.AssociationID != session.AssociationID || !election.OpenForVotingAt(s.now()) {
		return nil, apperrors.ErrElectionUnavailable
	}

	positions, err := s.positions.GetAllByAssociation(ctx, election.AssociationID)
	if err != nil {
		return nil, fmt.Errorf("error loading positions: %w", err)
	}

	candidates, err := s.candidates.GetByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error loading candidates: %w", err)
	}

	byPosition := make(map[int64][]dto.BallotCandidate)
	for _, c := range candidates {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], dto.BallotCandidate{
			ID:       c.ID,
			Name:     c.Name,
			PhotoURL: c.PhotoURL,
		})
	}

	response := &dto.BallotResponse{
		ElectionID:    election.ID,
		ElectionTitle: election.Title,
		Positions:     make([]dto.BallotPosition, 0, len(positions)),
	}

	for _, position := range positions {
		positionCandidates, ok := byPosition[position.ID]
		if !ok {
			continue // No candidates registered for this position
		}
		response.Positions = append(response.Positions, dto.BallotPosition{
			ID:         position.ID,
			Name:       position.Name,
			Candidates: positionCandidates,
		})
	}

	return response, nil
}
