package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/app/services"
	"github.com/burak/univote/internal/metrics"
	"github.com/burak/univote/internal/middleware"
	"github.com/burak/univote/internal/pkg/apperrors"
)

// VotingController handles the voter-facing ballot surface
type VotingController struct {
	ballotService *services.BallotService
	logger        zerolog.Logger
}

// NewVotingController creates a new VotingController
func NewVotingController(ballotService *services.BallotService, logger zerolog.Logger) *VotingController {
	return &VotingController{
		ballotService: ballotService,
		logger:        logger,
	}
}

// GetBallot returns the ballot for an election
// @Summary Get ballot
// @Description Returns the election's positions with their candidates, as shown to the voter.
// @Tags voting
// @Produce json
// @Param X-Session-Token header string true "Voter session token"
// @Param id path int true "Election ID"
// @Success 200 {object} dto.APIResponse{data=dto.BallotResponse} "Ballot"
// @Failure 403 {object} dto.ErrorResponse "Election not open for voting"
// @Router /voting/elections/{id}/positions [get]
func (c *VotingController) GetBallot(ctx *gin.Context) {
	session, ok := middleware.SessionFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrSessionNotFound)
		return
	}

	electionID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ballot, err := c.ballotService.GetBallot(ctx.Request.Context(), session, electionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: ballot, Timestamp: time.Now()})
}

// CastBallot casts the voter's complete ballot in one shot
// @Summary Cast ballot
// @Description Commits the voter's complete ballot atomically. A voter votes at most once; the session is destroyed after a successful cast.
// @Tags voting
// @Accept json
// @Produce json
// @Param X-Session-Token header string true "Voter session token"
// @Param request body dto.CastBallotRequest true "Ballot selections"
// @Success 200 {object} dto.APIResponse{data=dto.CastBallotResponse} "Ballot committed"
// @Failure 400 {object} dto.ErrorResponse "Empty ballot or invalid selection"
// @Failure 403 {object} dto.ErrorResponse "Election not open for voting"
// @Failure 409 {object} dto.ErrorResponse "Already voted"
// @Router /voting/cast [post]
func (c *VotingController) CastBallot(ctx *gin.Context) {
	session, ok := middleware.SessionFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrSessionNotFound)
		return
	}

	var req dto.CastBallotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.ballotService.CastBallot(ctx.Request.Context(), session, &req)
	if err != nil {
		metrics.IncBallotRejected(rejectionReason(err))
		middleware.HandleAPIError(ctx, err)
		return
	}

	metrics.IncBallotCast()

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, apperrors.ErrElectionUnavailable):
		return "election_unavailable"
	case errors.Is(err, apperrors.ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, apperrors.ErrEmptyBallot):
		return "empty_ballot"
	default:
		return "error"
	}
}
