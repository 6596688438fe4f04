package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/ai"
)

// InsufficientContextAnswer is returned verbatim when no manifesto passages
// are available for a question. The language model is never called with an
// empty context.
const InsufficientContextAnswer = "I don't have enough information from the candidates' manifestos to answer that question."

const qaSystemPrompt = `You are an assistant for a university association election. Answer the voter's question using ONLY the manifesto excerpts provided. Attribute claims to the candidate whose manifesto they come from. If the excerpts do not contain the answer, say so plainly. Do not speculate or add information beyond the excerpts.`

// faqQuestions is the fixed question set the FAQ cache is built from.
var faqQuestions = []string{
	"What are the candidates' main priorities for the association?",
	"What do the candidates propose about club funding and budgets?",
	"What events or activities do the candidates plan to organize?",
	"How do the candidates plan to involve students in decision making?",
	"What do the candidates say about communication and transparency?",
	"What changes do the candidates propose to how the association is run?",
}

// ManifestoSearcher retrieves the passages most similar to a question
type ManifestoSearcher interface {
	Search(ctx context.Context, electionID int64, question string, k int, candidateIDs []int64) ([]ScoredChunk, error)
}

// FAQStore persists the per-election FAQ cache
type FAQStore interface {
	Insert(ctx context.Context, entry *models.FAQEntry) error
	DeleteByElection(ctx context.Context, electionID int64) error
	GetByElection(ctx context.Context, electionID int64) ([]*models.FAQEntry, error)
}

// QAService orchestrates manifesto question answering: retrieve passages,
// synthesize an answer through the language model, attribute sources. It also
// maintains the regenerate-wholesale FAQ cache.
type QAService struct {
	searcher   ManifestoSearcher
	candidates ManifestoCandidateStore
	faqs       FAQStore
	completer  ai.ChatCompleter
	logger     zerolog.Logger
	now        func() time.Time
}

// NewQAService creates a new Q&A service
func NewQAService(
	searcher ManifestoSearcher,
	candidates ManifestoCandidateStore,
	faqs FAQStore,
	completer ai.ChatCompleter,
	logger zerolog.Logger,
) *QAService {
	return &QAService{
		searcher:   searcher,
		candidates: candidates,
		faqs:       faqs,
		completer:  completer,
		logger:     logger,
		now:        time.Now,
	}
}

// AskQuestion answers a voter's question from manifesto passages. Zero
// retrieved passages produces the fixed insufficient-context answer with
// totalSources = 0, never an error.
func (s *QAService) AskQuestion(ctx context.Context, req *dto.AskQuestionRequest) (*dto.AskQuestionResponse, error) {
	scored, err := s.searcher.Search(ctx, req.ElectionID, req.Question, DefaultSearchK, req.CandidateIDs)
	if err != nil {
		return nil, err
	}

	if len(scored) == 0 {
		return &dto.AskQuestionResponse{
			Answer:       InsufficientContextAnswer,
			Sources:      []dto.SourceAttribution{},
			TotalSources: 0,
		}, nil
	}

	names, err := s.candidateNames(ctx, scored)
	if err != nil {
		return nil, err
	}

	answer, err := s.completer.Complete(ctx, qaSystemPrompt, buildQAMessage(req.Question, scored, names))
	if err != nil {
		// A provider failure is recoverable: answer like an empty search
		// rather than failing the request.
		s.logger.Error().Err(err).
			Int64("electionID", req.ElectionID).
			Msg("Chat completion failed, returning insufficient-context answer")
		return &dto.AskQuestionResponse{
			Answer:       InsufficientContextAnswer,
			Sources:      []dto.SourceAttribution{},
			TotalSources: 0,
		}, nil
	}

	sources := make([]dto.SourceAttribution, 0, len(scored))
	for _, sc := range scored {
		sources = append(sources, dto.SourceAttribution{
			CandidateID:   sc.Chunk.CandidateID,
			CandidateName: names[sc.Chunk.CandidateID],
			ChunkIndex:    sc.Chunk.ChunkIndex,
			Similarity:    sc.Similarity,
		})
	}

	return &dto.AskQuestionResponse{
		Answer:       answer,
		Sources:      sources,
		TotalSources: len(sources),
	}, nil
}

// RegenerateFAQ rebuilds the election's FAQ cache from the fixed question
// set. The cache is deleted first and regenerated wholesale; questions with
// no manifesto context are cached with the insufficient-context answer so
// the set stays complete.
func (s *QAService) RegenerateFAQ(ctx context.Context, electionID int64) (*dto.RegenerateFAQResponse, error) {
	if err := s.faqs.DeleteByElection(ctx, electionID); err != nil {
		return nil, err
	}

	generatedAt := s.now()
	generated := 0

	for _, question := range faqQuestions {
		answer, err := s.AskQuestion(ctx, &dto.AskQuestionRequest{
			ElectionID: electionID,
			Question:   question,
		})
		if err != nil {
			s.logger.Warn().Err(err).
				Int64("electionID", electionID).
				Str("question", question).
				Msg("Failed to answer FAQ question, skipping")
			continue
		}

		sources := make([]string, 0, len(answer.Sources))
		for _, src := range answer.Sources {
			sources = append(sources, src.CandidateName)
		}

		err = s.faqs.Insert(ctx, &models.FAQEntry{
			ElectionID:  electionID,
			Question:    question,
			Answer:      answer.Answer,
			Sources:     sources,
			GeneratedAt: generatedAt,
		})
		if err != nil {
			s.logger.Warn().Err(err).
				Int64("electionID", electionID).
				Str("question", question).
				Msg("Failed to store FAQ entry, skipping")
			continue
		}

		generated++
	}

	s.logger.Info().
		Int64("electionID", electionID).
		Int("generated", generated).
		Msg("FAQ cache regenerated")

	return &dto.RegenerateFAQResponse{Generated: generated}, nil
}

// GetFAQ returns the cached FAQ entries for an election.
func (s *QAService) GetFAQ(ctx context.Context, electionID int64) ([]*models.FAQEntry, error) {
	entries, err := s.faqs.GetByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.FAQEntry{}
	}
	return entries, nil
}

// candidateNames resolves the distinct candidates behind the retrieved chunks.
func (s *QAService) candidateNames(ctx context.Context, scored []ScoredChunk) (map[int64]string, error) {
	names := make(map[int64]string)
	for _, sc := range scored {
		if _, ok := names[sc.Chunk.CandidateID]; ok {
			continue
		}
		candidate, err := s.candidates.GetByID(ctx, sc.Chunk.CandidateID)
		if err != nil {
			return nil, fmt.Errorf("error resolving candidate for attribution: %w", err)
		}
		names[candidate.ID] = candidate.Name
	}
	return names, nil
}

// buildQAMessage assembles the user message sent to the language model:
// the question plus the retrieved excerpts labeled by candidate.
func buildQAMessage(question string, scored []ScoredChunk, names map[int64]string) string {
	var b strings.Builder

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nManifesto excerpts:\n")

	for i, sc := range scored {
		fmt.Fprintf(&b, "\n[%d] Candidate: %s\n%s\n", i+1, names[sc.Chunk.CandidateID], sc.Chunk.Content)
	}

	return b.String()
}
