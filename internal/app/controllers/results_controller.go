package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/app/services"
	"github.com/burak/univote/internal/middleware"
)

// ResultsController serves tabulated election results
type ResultsController struct {
	resultsService *services.ResultsService
	logger         zerolog.Logger
}

// NewResultsController creates a new ResultsController
func NewResultsController(resultsService *services.ResultsService, logger zerolog.Logger) *ResultsController {
	return &ResultsController{
		resultsService: resultsService,
		logger:         logger,
	}
}

// GetResults returns the ranked results for an election
// @Summary Get election results
// @Description Returns per-position ranked results with competition ranking, tie flags and turnout. A first-place tie is flagged but never auto-resolved.
// @Tags results
// @Produce json
// @Param id path int true "Election ID"
// @Success 200 {object} dto.APIResponse{data=dto.ElectionResultsResponse} "Results"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Router /elections/{id}/results [get]
func (c *ResultsController) GetResults(ctx *gin.Context) {
	electionID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	results, err := c.resultsService.GetElectionResults(ctx.Request.Context(), electionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: results, Timestamp: time.Now()})
}
