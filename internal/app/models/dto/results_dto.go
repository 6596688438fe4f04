package dto

// CandidateResult is one ranked candidate inside a position result.
// Rank follows competition ranking: candidates with equal vote counts share a
// rank, and the next distinct count skips the tied slots (1, 1, 3, 4).
type CandidateResult struct {
	CandidateID int64   `json:"candidateId" example:"3"`
	Name        string  `json:"name" example:"Mehmet Kaya"`
	Votes       int     `json:"votes" example:"42"`
	Percentage  float64 `json:"percentage" example:"52.5"`
	Rank        int     `json:"rank" example:"1"`
	IsTied      bool    `json:"isTied" example:"false"`
}

// PositionResult is the ranked outcome for one position.
// FirstPlaceTie is informational only; resolving it is a human process.
type PositionResult struct {
	PositionID    int64             `json:"positionId" example:"1"`
	PositionName  string            `json:"positionName" example:"President"`
	TotalVotes    int               `json:"totalVotes" example:"80"`
	FirstPlaceTie bool              `json:"firstPlaceTie" example:"false"`
	Candidates    []CandidateResult `json:"candidates"`
}

// TurnoutInfo summarizes voter participation for the election
type TurnoutInfo struct {
	TotalVoters int64   `json:"totalVoters" example:"250"`
	Voted       int64   `json:"voted" example:"180"`
	Percentage  float64 `json:"percentage" example:"72"`
}

// ElectionResultsResponse is the full tabulated result set for an election
type ElectionResultsResponse struct {
	ElectionID    int64            `json:"electionId" example:"1"`
	ElectionTitle string           `json:"electionTitle" example:"2026 Board Election"`
	TotalVotes    int64            `json:"totalVotes" example:"160"`
	Turnout       TurnoutInfo      `json:"turnout"`
	Positions     []PositionResult `json:"positions"`
}
