package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/auth"
	"github.com/burak/univote/internal/pkg/validation"
)

// ElectionStore persists elections and their lifecycle transitions
type ElectionStore interface {
	Create(ctx context.Context, election *models.Election) error
	GetByID(ctx context.Context, id int64) (*models.Election, error)
	GetAllByAssociation(ctx context.Context, associationID int64) ([]*models.Election, error)
	HasOtherActiveElection(ctx context.Context, associationID, excludeElectionID int64) (bool, error)
	SetActive(ctx context.Context, id int64, active bool) error
	EndNow(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// PositionStore persists electable positions
type PositionStore interface {
	Create(ctx context.Context, position *models.Position) error
	GetByID(ctx context.Context, id int64) (*models.Position, error)
	GetAllByAssociation(ctx context.Context, associationID int64) ([]*models.Position, error)
	Delete(ctx context.Context, id int64) error
}

// CandidateStore persists candidates
type CandidateStore interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	GetByID(ctx context.Context, id int64) (*models.Candidate, error)
	GetByElection(ctx context.Context, electionID int64) ([]*models.Candidate, error)
	CountByElectionAndPosition(ctx context.Context, electionID, positionID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

// VoterRegistry persists registered voters
type VoterRegistry interface {
	Create(ctx context.Context, voter *models.Voter) error
	GetAllByAssociation(ctx context.Context, associationID int64, offset uint64, limit int) ([]*models.Voter, error)
	CountByAssociation(ctx context.Context, associationID int64) (total int64, voted int64, err error)
}

// ElectionService carries the admin surface: election lifecycle, positions,
// candidates and voter registration, all scoped to the admin's association.
type ElectionService struct {
	elections  ElectionStore
	positions  PositionStore
	candidates CandidateStore
	voters     VoterRegistry
	logger     zerolog.Logger
	now        func() time.Time
}

// NewElectionService creates a new election service
func NewElectionService(
	elections ElectionStore,
	positions PositionStore,
	candidates CandidateStore,
	voters VoterRegistry,
	logger zerolog.Logger,
) *ElectionService {
	return &ElectionService{
		elections:  elections,
		positions:  positions,
		candidates: candidates,
		voters:     voters,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateElection creates an election for the association. Elections are
// created inactive; activation is an explicit state transition.
func (s *ElectionService) CreateElection(ctx context.Context, associationID int64, req *dto.CreateElectionRequest) (*models.Election, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, apperrors.ErrInvalidElectionWindow
	}

	election := &models.Election{
		AssociationID: associationID,
		Title:         req.Title,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		IsActive:      false,
	}

	if err := s.elections.Create(ctx, election); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("electionID", election.ID).
		Int64("associationID", associationID).
		Msg("Election created")

	return election, nil
}

// GetElection returns one election, enforcing association ownership.
func (s *ElectionService) GetElection(ctx context.Context, associationID, electionID int64) (*models.Election, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.AssociationID != associationID {
		return nil, apperrors.ErrElectionNotFound
	}
	return election, nil
}

// ListElections returns all elections of the association, newest first.
func (s *ElectionService) ListElections(ctx context.Context, associationID int64) ([]*models.Election, error) {
	return s.elections.GetAllByAssociation(ctx, associationID)
}

// UpdateElectionState applies an explicit lifecycle transition. At most one
// election per association may be active at a time; ENDED additionally pulls
// the end time to now so the window closes with the flag.
func (s *ElectionService) UpdateElectionState(ctx context.Context, associationID, electionID int64, state models.ElectionState) (*models.Election, error) {
	if _, err := s.GetElection(ctx, associationID, electionID); err != nil {
		return nil, err
	}

	switch state {
	case models.ElectionStateActive:
		hasOther, err := s.elections.HasOtherActiveElection(ctx, associationID, electionID)
		if err != nil {
			return nil, err
		}
		if hasOther {
			return nil, apperrors.ErrActiveElectionExists
		}
		if err := s.elections.SetActive(ctx, electionID, true); err != nil {
			return nil, err
		}

	case models.ElectionStatePaused:
		if err := s.elections.SetActive(ctx, electionID, false); err != nil {
			return nil, err
		}

	case models.ElectionStateEnded:
		if err := s.elections.EndNow(ctx, electionID); err != nil {
			return nil, err
		}

	default:
		return nil, apperrors.NewBadRequestError("unknown election state: " + string(state))
	}

	s.logger.Info().
		Int64("electionID", electionID).
		Str("state", string(state)).
		Msg("Election state updated")

	return s.elections.GetByID(ctx, electionID)
}

// DeleteElection removes an election and, through storage cascades, its
// votes, chunks and FAQ cache.
func (s *ElectionService) DeleteElection(ctx context.Context, associationID, electionID int64) error {
	election, err := s.GetElection(ctx, associationID, electionID)
	if err != nil {
		return err
	}
	if election.OpenForVotingAt(s.now()) {
		return apperrors.NewConflictError("cannot delete an election that is open for voting")
	}
	return s.elections.Delete(ctx, electionID)
}

// CreatePosition creates an electable position for the association.
func (s *ElectionService) CreatePosition(ctx context.Context, associationID int64, req *dto.CreatePositionRequest) (*models.Position, error) {
	position := &models.Position{
		AssociationID: associationID,
		Name:          req.Name,
		DisplayOrder:  req.DisplayOrder,
		MaxCandidates: req.MaxCandidates,
	}

	if err := s.positions.Create(ctx, position); err != nil {
		return nil, err
	}

	return position, nil
}

// ListPositions returns the association's positions in display order.
func (s *ElectionService) ListPositions(ctx context.Context, associationID int64) ([]*models.Position, error) {
	return s.positions.GetAllByAssociation(ctx, associationID)
}

// DeletePosition removes a position. Storage rejects the delete while
// candidates still reference it.
func (s *ElectionService) DeletePosition(ctx context.Context, associationID, positionID int64) error {
	position, err := s.positions.GetByID(ctx, positionID)
	if err != nil {
		return err
	}
	if position.AssociationID != associationID {
		return apperrors.ErrPositionNotFound
	}
	return s.positions.Delete(ctx, positionID)
}

// CreateCandidate registers a candidate for a position in an election. The
// position must belong to the same association as the election, and the
// position's candidate cap is enforced here.
func (s *ElectionService) CreateCandidate(ctx context.Context, associationID int64, req *dto.CreateCandidateRequest) (*models.Candidate, error) {
	election, err := s.GetElection(ctx, associationID, req.ElectionID)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.GetByID(ctx, req.PositionID)
	if err != nil {
		return nil, err
	}
	if position.AssociationID != associationID {
		return nil, apperrors.ErrPositionNotFound
	}

	if position.MaxCandidates > 0 {
		count, err := s.candidates.CountByElectionAndPosition(ctx, election.ID, position.ID)
		if err != nil {
			return nil, err
		}
		if count >= position.MaxCandidates {
			return nil, apperrors.ErrPositionFull
		}
	}

	candidate := &models.Candidate{
		ElectionID: req.ElectionID,
		PositionID: req.PositionID,
		Name:       req.Name,
		Manifesto:  req.Manifesto,
		PhotoURL:   req.PhotoURL,
	}

	if err := s.candidates.Create(ctx, candidate); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("candidateID", candidate.ID).
		Int64("electionID", req.ElectionID).
		Int64("positionID", req.PositionID).
		Msg("Candidate registered")

	return candidate, nil
}

// ListCandidates returns all candidates of an election.
func (s *ElectionService) ListCandidates(ctx context.Context, associationID, electionID int64) ([]*models.Candidate, error) {
	if _, err := s.GetElection(ctx, associationID, electionID); err != nil {
		return nil, err
	}
	return s.candidates.GetByElection(ctx, electionID)
}

// DeleteCandidate removes a candidate from an election.
func (s *ElectionService) DeleteCandidate(ctx context.Context, associationID, candidateID int64) error {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return err
	}
	if _, err := s.GetElection(ctx, associationID, candidate.ElectionID); err != nil {
		return err
	}
	return s.candidates.Delete(ctx, candidateID)
}

// RegisterVoter registers a voter for the association. The student ID must
// be unique within the association and the password is stored hashed.
func (s *ElectionService) RegisterVoter(ctx context.Context, associationID int64, req *dto.RegisterVoterRequest) (*models.Voter, error) {
	if !validation.IsValidStudentID(req.StudentID) {
		return nil, apperrors.NewBadRequestError("student ID must be 8 digits")
	}
	if !validation.IsValidName(req.Name) {
		return nil, apperrors.NewBadRequestError("name must be between 2 and 100 characters")
	}
	if !validation.IsValidEmail(req.Email) {
		return nil, apperrors.NewBadRequestError("invalid email address")
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, apperrors.NewBadRequestError("password does not meet the minimum requirements")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	voter := &models.Voter{
		AssociationID: associationID,
		StudentID:     req.StudentID,
		Name:          req.Name,
		Email:         req.Email,
		Password:      hashed,
	}

	if err := s.voters.Create(ctx, voter); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("voterID", voter.ID).
		Int64("associationID", associationID).
		Msg("Voter registered")

	return voter, nil
}

// ListVoters returns a page of the association's voters.
func (s *ElectionService) ListVoters(ctx context.Context, associationID int64, offset uint64, limit int) ([]*models.Voter, int64, error) {
	voters, err := s.voters.GetAllByAssociation(ctx, associationID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, _, err := s.voters.CountByAssociation(ctx, associationID)
	if err != nil {
		return nil, 0, err
	}
	return voters, total, nil
}
