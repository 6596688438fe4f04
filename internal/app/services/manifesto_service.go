package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/ai"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/textsplit"
)

// ChunkStore persists embedded manifesto chunks
type ChunkStore interface {
	Insert(ctx context.Context, chunk *models.ManifestoChunk) error
	DeleteByCandidate(ctx context.Context, candidateID, electionID int64) (int64, error)
	GetByElection(ctx context.Context, electionID int64, candidateIDs []int64) ([]*models.ManifestoChunk, error)
}

// ManifestoCandidateStore resolves candidates for indexing and attribution
type ManifestoCandidateStore interface {
	GetByID(ctx context.Context, id int64) (*models.Candidate, error)
}

// ScoredChunk is one retrieved chunk with its similarity to the query
type ScoredChunk struct {
	Chunk      *models.ManifestoChunk
	Similarity float64
}

// DefaultSearchK is the number of passages retrieved per question.
const DefaultSearchK = 4

// ManifestoService turns manifesto documents into searchable embedded chunks
// and retrieves the passages most similar to a question.
type ManifestoService struct {
	chunks     ChunkStore
	candidates ManifestoCandidateStore
	embedder   ai.Embedder
	logger     zerolog.Logger
}

// NewManifestoService creates a new manifesto service
func NewManifestoService(
	chunks ChunkStore,
	candidates ManifestoCandidateStore,
	embedder ai.Embedder,
	logger zerolog.Logger,
) *ManifestoService {
	return &ManifestoService{
		chunks:     chunks,
		candidates: candidates,
		embedder:   embedder,
		logger:     logger,
	}
}

// Index applies an add, update or remove action for one candidate's
// manifesto. Update is delete-before-replace so no stale chunks from an
// earlier version survive a partial re-index.
func (s *ManifestoService) Index(ctx context.Context, req *dto.IndexManifestoRequest) (*dto.IndexManifestoResponse, error) {
	if _, err := s.candidates.GetByID(ctx, req.CandidateID); err != nil {
		return nil, err
	}

	switch req.Action {
	case dto.ManifestoActionRemove:
		deleted, err := s.chunks.DeleteByCandidate(ctx, req.CandidateID, req.ElectionID)
		if err != nil {
			return nil, err
		}
		s.logger.Info().
			Int64("candidateID", req.CandidateID).
			Int64("deleted", deleted).
			Msg("Manifesto chunks removed")
		return &dto.IndexManifestoResponse{}, nil

	case dto.ManifestoActionUpdate:
		if _, err := s.chunks.DeleteByCandidate(ctx, req.CandidateID, req.ElectionID); err != nil {
			return nil, err
		}
		return s.addManifesto(ctx, req.CandidateID, req.ElectionID, req.Text)

	case dto.ManifestoActionAdd:
		return s.addManifesto(ctx, req.CandidateID, req.ElectionID, req.Text)

	default:
		return nil, apperrors.NewBadRequestError("unknown manifesto index action: " + string(req.Action))
	}
}

// addManifesto chunks, embeds and stores the text. Embedding and storage
// failures are isolated per chunk: a failed chunk is recorded and skipped,
// the rest of the document still gets indexed. Only a total wipeout is an
// error.
func (s *ManifestoService) addManifesto(ctx context.Context, candidateID, electionID int64, text string) (*dto.IndexManifestoResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrManifestoEmpty
	}

	chunks := textsplit.Split(text, textsplit.Options{})
	response := &dto.IndexManifestoResponse{
		Attempted: len(chunks),
	}

	for _, chunk := range chunks {
		embedding, err := s.embedder.EmbedText(ctx, chunk.Text)
		if err != nil {
			s.logger.Warn().Err(err).
				Int64("candidateID", candidateID).
				Int("chunkIndex", chunk.Index).
				Msg("Failed to embed manifesto chunk, skipping")
			response.Failures = append(response.Failures, dto.ChunkFailure{
				ChunkIndex: chunk.Index,
				Reason:     "embedding request failed",
			})
			continue
		}

		err = s.chunks.Insert(ctx, &models.ManifestoChunk{
			ElectionID:  electionID,
			CandidateID: candidateID,
			Content:     chunk.Text,
			Embedding:   embedding,
			ChunkIndex:  chunk.Index,
			TotalChunks: chunk.Total,
		})
		if err != nil {
			s.logger.Warn().Err(err).
				Int64("candidateID", candidateID).
				Int("chunkIndex", chunk.Index).
				Msg("Failed to store manifesto chunk, skipping")
			response.Failures = append(response.Failures, dto.ChunkFailure{
				ChunkIndex: chunk.Index,
				Reason:     "storing chunk failed",
			})
			continue
		}

		response.Succeeded++
	}

	if response.Attempted > 0 && response.Succeeded == 0 {
		return nil, apperrors.ErrIndexingFailed
	}

	s.logger.Info().
		Int64("candidateID", candidateID).
		Int64("electionID", electionID).
		Int("attempted", response.Attempted).
		Int("succeeded", response.Succeeded).
		Msg("Manifesto indexed")

	return response, nil
}

// Search embeds the question and returns the k chunks most similar to it,
// scoped to the election and optionally to a candidate subset. Zero stored
// chunks is an empty result, not an error.
func (s *ManifestoService) Search(ctx context.Context, electionID int64, question string, k int, candidateIDs []int64) ([]ScoredChunk, error) {
	if k <= 0 {
		k = DefaultSearchK
	}

	queryVector, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunks.GetByElection(ctx, electionID, candidateIDs)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		scored = append(scored, ScoredChunk{
			Chunk:      chunk,
			Similarity: ai.CosineSimilarity(queryVector, chunk.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	return scored, nil
}
