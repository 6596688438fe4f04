package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
)

// TallyStore provides the committed vote counts and election metadata the
// results service reads. It never writes.
type TallyStore interface {
	GetTalliesByElection(ctx context.Context, electionID int64) ([]models.CandidateTally, error)
	CountByElection(ctx context.Context, electionID int64) (int64, error)
}

// ResultsElectionStore resolves elections for result tabulation
type ResultsElectionStore interface {
	GetByID(ctx context.Context, id int64) (*models.Election, error)
}

// ResultsPositionStore resolves position names for result presentation
type ResultsPositionStore interface {
	GetAllByAssociation(ctx context.Context, associationID int64) ([]*models.Position, error)
}

// TurnoutStore provides voter participation counts
type TurnoutStore interface {
	CountByAssociation(ctx context.Context, associationID int64) (total int64, voted int64, err error)
}

// ResultsService computes ranked, tie-annotated election results from
// committed vote counts. All computation is deterministic.
type ResultsService struct {
	tallies   TallyStore
	elections ResultsElectionStore
	positions ResultsPositionStore
	voters    TurnoutStore
}

// NewResultsService creates a new results service
func NewResultsService(tallies TallyStore, elections ResultsElectionStore, positions ResultsPositionStore, voters TurnoutStore) *ResultsService {
	return &ResultsService{
		tallies:   tallies,
		elections: elections,
		positions: positions,
		voters:    voters,
	}
}

// RankPosition ranks one position's candidates by vote count using
// competition ranking: equal counts share a rank and the next distinct count
// skips the tied slots (1, 1, 3, 4). IsTied marks every member of a group
// whose count is shared. Order among equal-vote candidates keeps the input
// order; that order is a presentation detail, not a ranking guarantee.
// An empty input yields an empty result, never an error.
func RankPosition(tallies []models.CandidateTally) []dto.CandidateResult {
	if len(tallies) == 0 {
		return []dto.CandidateResult{}
	}

	sorted := make([]models.CandidateTally, len(tallies))
	copy(sorted, tallies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})

	totalVotes := 0
	for _, t := range sorted {
		totalVotes += t.Votes
	}

	results := make([]dto.CandidateResult, len(sorted))
	for i, t := range sorted {
		rank := i + 1
		if i > 0 && sorted[i].Votes == sorted[i-1].Votes {
			rank = results[i-1].Rank
		}

		tied := (i > 0 && sorted[i].Votes == sorted[i-1].Votes) ||
			(i < len(sorted)-1 && sorted[i].Votes == sorted[i+1].Votes)

		percentage := 0.0
		if totalVotes > 0 {
			percentage = float64(t.Votes) / float64(totalVotes) * 100
		}

		results[i] = dto.CandidateResult{
			CandidateID: t.CandidateID,
			Name:        t.CandidateName,
			Votes:       t.Votes,
			Percentage:  percentage,
			Rank:        rank,
			IsTied:      tied,
		}
	}

	return results
}

// GetElectionResults tabulates the full ranked result set for an election.
// A first-place tie is flagged per position for UI warning purposes only;
// resolving it is a human process and no automatic tie-breaking happens here.
func (s *ResultsService) GetElectionResults(ctx context.Context, electionID int64) (*dto.ElectionResultsResponse, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	tallies, err := s.tallies.GetTalliesByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error loading tallies: %w", err)
	}

	positions, err := s.positions.GetAllByAssociation(ctx, election.AssociationID)
	if err != nil {
		return nil, fmt.Errorf("error loading positions: %w", err)
	}

	byPosition := make(map[int64][]models.CandidateTally)
	for _, t := range tallies {
		byPosition[t.PositionID] = append(byPosition[t.PositionID], t)
	}

	response := &dto.ElectionResultsResponse{
		ElectionID:    election.ID,
		ElectionTitle: election.Title,
		Positions:     make([]dto.PositionResult, 0, len(positions)),
	}

	for _, position := range positions {
		positionTallies, ok := byPosition[position.ID]
		if !ok {
			continue // Position has no candidates in this election
		}

		ranked := RankPosition(positionTallies)

		totalVotes := 0
		for _, t := range positionTallies {
			totalVotes += t.Votes
		}

		firstPlaceTie := len(ranked) > 0 && ranked[0].IsTied

		response.Positions = append(response.Positions, dto.PositionResult{
			PositionID:    position.ID,
			PositionName:  position.Name,
			TotalVotes:    totalVotes,
			FirstPlaceTie: firstPlaceTie,
			Candidates:    ranked,
		})
	}

	total, voted, err := s.voters.CountByAssociation(ctx, election.AssociationID)
	if err != nil {
		return nil, fmt.Errorf("error loading turnout: %w", err)
	}

	turnoutPct := 0.0
	if total > 0 {
		turnoutPct = float64(voted) / float64(total) * 100
	}
	response.Turnout = dto.TurnoutInfo{
		TotalVoters: total,
		Voted:       voted,
		Percentage:  turnoutPct,
	}

	totalVotes, err := s.tallies.CountByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error counting votes: %w", err)
	}
	response.TotalVotes = totalVotes

	return response, nil
}
