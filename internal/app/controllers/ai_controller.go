package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/app/services"
	"github.com/burak/univote/internal/metrics"
	"github.com/burak/univote/internal/middleware"
)

// AIController handles manifesto indexing, Q&A and the FAQ cache
type AIController struct {
	manifestoService *services.ManifestoService
	qaService        *services.QAService
	logger           zerolog.Logger
}

// NewAIController creates a new AIController
func NewAIController(manifestoService *services.ManifestoService, qaService *services.QAService, logger zerolog.Logger) *AIController {
	return &AIController{
		manifestoService: manifestoService,
		qaService:        qaService,
		logger:           logger,
	}
}

// IndexManifesto indexes, re-indexes or removes a candidate manifesto
// @Summary Index manifesto
// @Description Chunks and embeds a candidate's manifesto for semantic search. Action is add, update (delete then re-add) or remove. Per-chunk failures are reported, not fatal.
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.IndexManifestoRequest true "Manifesto and action"
// @Success 200 {object} dto.APIResponse{data=dto.IndexManifestoResponse} "Indexing outcome"
// @Failure 400 {object} dto.ErrorResponse "Empty manifesto text"
// @Failure 502 {object} dto.ErrorResponse "Every chunk failed"
// @Router /ai/index-manifesto [post]
func (c *AIController) IndexManifesto(ctx *gin.Context) {
	var req dto.IndexManifestoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.manifestoService.Index(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	metrics.AddChunksIndexed(result.Succeeded)

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}

// AskQuestion answers a question from manifesto content
// @Summary Ask about manifestos
// @Description Answers a natural-language question from the most similar manifesto passages, with source attribution. With no indexed content the answer states that plainly.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body dto.AskQuestionRequest true "Question, optionally scoped to candidates"
// @Success 200 {object} dto.APIResponse{data=dto.AskQuestionResponse} "Answer with sources"
// @Router /ai/manifesto-qa [post]
func (c *AIController) AskQuestion(ctx *gin.Context) {
	var req dto.AskQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	answer, err := c.qaService.AskQuestion(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	metrics.IncQuestionAnswered()

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: answer, Timestamp: time.Now()})
}

// RegenerateFAQ rebuilds the FAQ cache for an election
// @Summary Regenerate FAQ
// @Description Deletes and regenerates the election's FAQ cache from a fixed question set.
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Param electionId query int true "Election ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegenerateFAQResponse} "Regeneration outcome"
// @Router /ai/regenerate-faq [post]
func (c *AIController) RegenerateFAQ(ctx *gin.Context) {
	electionID, err := strconv.ParseInt(ctx.Query("electionId"), 10, 64)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.qaService.RegenerateFAQ(ctx.Request.Context(), electionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}

// GetFAQ returns the cached FAQ for an election
// @Summary Get FAQ
// @Tags ai
// @Produce json
// @Param electionId query int true "Election ID"
// @Success 200 {object} dto.APIResponse "Cached FAQ entries"
// @Router /ai/faq [get]
func (c *AIController) GetFAQ(ctx *gin.Context) {
	electionID, err := strconv.ParseInt(ctx.Query("electionId"), 10, 64)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	entries, err := c.qaService.GetFAQ(ctx.Request.Context(), electionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: entries, Timestamp: time.Now()})
}
