package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/app/services"
	"github.com/burak/univote/internal/middleware"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/helpers"
)

// ElectionController handles the admin election management surface
type ElectionController struct {
	electionService *services.ElectionService
	logger          zerolog.Logger
}

// NewElectionController creates a new ElectionController
func NewElectionController(electionService *services.ElectionService, logger zerolog.Logger) *ElectionController {
	return &ElectionController{
		electionService: electionService,
		logger:          logger,
	}
}

// CreateElection creates an election
// @Summary Create election
// @Description Creates an election for the admin's association. Elections start inactive.
// @Tags elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateElectionRequest true "Election definition"
// @Success 201 {object} dto.APIResponse{data=models.Election} "Election created"
// @Failure 400 {object} dto.ErrorResponse "Invalid window or request format"
// @Router /elections [post]
func (c *ElectionController) CreateElection(ctx *gin.Context) {
	associationID, ok := middleware.AssociationIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	var req dto.CreateElectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	election, err := c.electionService.CreateElection(ctx.Request.Context(), associationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: election, Timestamp: time.Now()})
}

// ListElections lists the association's elections
// @Summary List elections
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Elections"
// @Router /elections [get]
func (c *ElectionController) ListElections(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)

	elections, err := c.electionService.ListElections(ctx.Request.Context(), associationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: elections, Timestamp: time.Now()})
}

// GetElection returns one election
// @Summary Get election
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} dto.APIResponse{data=models.Election} "Election"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Router /elections/{id} [get]
func (c *ElectionController) GetElection(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)
	electionID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	election, err := c.electionService.GetElection(ctx.Request.Context(), associationID, electionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: election, Timestamp: time.Now()})
}

// UpdateElectionState applies an explicit lifecycle transition
// @Summary Update election state
// @Description Transitions the election to ACTIVE, PAUSED or ENDED. At most one election per association may be active.
// @Tags elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param request body dto.UpdateElectionStateRequest true "Target state"
// @Success 200 {object} dto.APIResponse{data=models.Election} "Updated election"
// @Failure 409 {object} dto.ErrorResponse "Another election is already active"
// @Router /elections/{id}/state [put]
func (c *ElectionController) UpdateElectionState(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)
	electionID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	var req dto.UpdateElectionStateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	election, err := c.electionService.UpdateElectionState(ctx.Request.Context(), associationID, electionID, req.State)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: election, Timestamp: time.Now()})
}

// DeleteElection deletes an election
// @Summary Delete election
// @Description Deletes an election that is not open for voting, along with its votes, chunks and FAQ cache.
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Election deleted"
// @Failure 409 {object} dto.ErrorResponse "Election is open for voting"
// @Router /elections/{id} [delete]
func (c *ElectionController) DeleteElection(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)
	electionID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.electionService.DeleteElection(ctx.Request.Context(), associationID, electionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Election deleted"},
		Timestamp: time.Now(),
	})
}

// CreatePosition creates a position
// @Summary Create position
// @Tags positions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePositionRequest true "Position definition"
// @Success 201 {object} dto.APIResponse{data=models.Position} "Position created"
// @Router /positions [post]
func (c *ElectionController) CreatePosition(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)

	var req dto.CreatePositionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	position, err := c.electionService.CreatePosition(ctx.Request.Context(), associationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: position, Timestamp: time.Now()})
}

// ListPositions lists the association's positions
// @Summary List positions
// @Tags positions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Positions in display order"
// @Router /positions [get]
func (c *ElectionController) ListPositions(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)

	positions, err := c.electionService.ListPositions(ctx.Request.Context(), associationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: positions, Timestamp: time.Now()})
}

// DeletePosition deletes a position
// @Summary Delete position
// @Tags positions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Position ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Position deleted"
// @Failure 409 {object} dto.ErrorResponse "Candidates still reference the position"
// @Router /positions/{id} [delete]
func (c *ElectionController) DeletePosition(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)
	positionID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.electionService.DeletePosition(ctx.Request.Context(), associationID, positionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Position deleted"},
		Timestamp: time.Now(),
	})
}

// CreateCandidate registers a candidate
// @Summary Create candidate
// @Description Registers a candidate for a position in an election. The (name, election, position) triple must be unique and position caps are enforced.
// @Tags candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCandidateRequest true "Candidate definition"
// @Success 201 {object} dto.APIResponse{data=models.Candidate} "Candidate created"
// @Failure 409 {object} dto.ErrorResponse "Duplicate candidate or position full"
// @Router /candidates [post]
func (c *ElectionController) CreateCandidate(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)

	var req dto.CreateCandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	candidate, err := c.electionService.CreateCandidate(ctx.Request.Context(), associationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: candidate, Timestamp: time.Now()})
}

// ListCandidates lists an election's candidates
// @Summary List candidates
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} dto.APIResponse "Candidates"
// @Router /elections/{id}/candidates [get]
func (c *ElectionController) ListCandidates(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)
	electionID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	candidates, err := c.electionService.ListCandidates(ctx.Request.Context(), associationID, electionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: candidates, Timestamp: time.Now()})
}

// DeleteCandidate removes a candidate
// @Summary Delete candidate
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Candidate ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Candidate deleted"
// @Router /candidates/{id} [delete]
func (c *ElectionController) DeleteCandidate(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)
	candidateID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.electionService.DeleteCandidate(ctx.Request.Context(), associationID, candidateID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Candidate deleted"},
		Timestamp: time.Now(),
	})
}

// RegisterVoter registers a voter
// @Summary Register voter
// @Description Registers a voter for the association. Student IDs are unique per association and passwords are stored hashed.
// @Tags voters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterVoterRequest true "Voter details"
// @Success 201 {object} dto.APIResponse{data=models.Voter} "Voter registered"
// @Failure 409 {object} dto.ErrorResponse "Student ID already registered"
// @Router /voters [post]
func (c *ElectionController) RegisterVoter(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)

	var req dto.RegisterVoterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	voter, err := c.electionService.RegisterVoter(ctx.Request.Context(), associationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: voter, Timestamp: time.Now()})
}

// ListVoters lists the association's voters
// @Summary List voters
// @Tags voters
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Voters"
// @Router /voters [get]
func (c *ElectionController) ListVoters(ctx *gin.Context) {
	associationID, _ := middleware.AssociationIDFromContext(ctx)

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	voters, total, err := c.electionService.ListVoters(ctx.Request.Context(), associationID, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      voters,
			Pagination: helpers.NewPaginationInfo(total, page, limit),
		},
		Timestamp: time.Now(),
	})
}

func pathID(ctx *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(ctx.Param(name), 10, 64)
}
