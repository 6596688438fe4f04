package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/apperrors"
)

type fakeChunkStore struct {
	mu        sync.Mutex
	chunks    []*models.ManifestoChunk
	nextID    int64
	failOn    map[int]bool // chunk indices whose insert fails
	deletions int
}

func (f *fakeChunkStore) Insert(_ context.Context, chunk *models.ManifestoChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[chunk.ChunkIndex] {
		return errors.New("storage unavailable")
	}
	f.nextID++
	chunk.ID = f.nextID
	copied := *chunk
	f.chunks = append(f.chunks, &copied)
	return nil
}

func (f *fakeChunkStore) DeleteByCandidate(_ context.Context, candidateID, electionID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletions++
	var kept []*models.ManifestoChunk
	var removed int64
	for _, c := range f.chunks {
		if c.CandidateID == candidateID && c.ElectionID == electionID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	f.chunks = kept
	return removed, nil
}

func (f *fakeChunkStore) GetByElection(_ context.Context, electionID int64, candidateIDs []int64) ([]*models.ManifestoChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	filter := make(map[int64]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		filter[id] = true
	}
	var out []*models.ManifestoChunk
	for _, c := range f.chunks {
		if c.ElectionID != electionID {
			continue
		}
		if len(filter) > 0 && !filter[c.CandidateID] {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeManifestoCandidateStore struct {
	candidates map[int64]*models.Candidate
}

func (f *fakeManifestoCandidateStore) GetByID(_ context.Context, id int64) (*models.Candidate, error) {
	candidate, ok := f.candidates[id]
	if !ok {
		return nil, apperrors.ErrCandidateNotFound
	}
	return candidate, nil
}

// fakeEmbedder maps texts to fixed vectors so similarity ordering in tests
// is fully controlled. Unmapped text gets a default vector.
type fakeEmbedder struct {
	vectors  map[string][]float32
	failText string
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if f.failText != "" && strings.Contains(text, f.failText) {
		return nil, errors.New("provider rejected request")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func newManifestoFixture(chunks *fakeChunkStore, embedder *fakeEmbedder) *ManifestoService {
	candidates := &fakeManifestoCandidateStore{candidates: map[int64]*models.Candidate{
		3: {ID: 3, ElectionID: 1, PositionID: 1, Name: "Mehmet Kaya"},
		4: {ID: 4, ElectionID: 1, PositionID: 1, Name: "Elif Yildiz"},
	}}
	return NewManifestoService(chunks, candidates, embedder, zerolog.Nop())
}

func TestIndexAddStoresAllChunks(t *testing.T) {
	chunks := &fakeChunkStore{}
	svc := newManifestoFixture(chunks, &fakeEmbedder{})

	text := strings.Repeat("Student clubs deserve stable funding every semester. ", 60)
	resp, err := svc.Index(context.Background(), &dto.IndexManifestoRequest{
		CandidateID: 3,
		ElectionID:  1,
		Text:        text,
		Action:      dto.ManifestoActionAdd,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Attempted < 2 {
		t.Fatalf("expected the text to split into multiple chunks, got %d", resp.Attempted)
	}
	if resp.Succeeded != resp.Attempted {
		t.Errorf("expected all %d chunks stored, got %d", resp.Attempted, resp.Succeeded)
	}
	if len(resp.Failures) != 0 {
		t.Errorf("expected no failures, got %v", resp.Failures)
	}
	if len(chunks.chunks) != resp.Succeeded {
		t.Errorf("store holds %d chunks, response claims %d", len(chunks.chunks), resp.Succeeded)
	}
	for _, c := range chunks.chunks {
		if c.CandidateID != 3 || c.ElectionID != 1 {
			t.Errorf("chunk not scoped to candidate and election: %+v", c)
		}
		if c.TotalChunks != resp.Attempted {
			t.Errorf("expected total_chunks %d on every chunk, got %d", resp.Attempted, c.TotalChunks)
		}
	}
}

func TestIndexAddToleratesPartialFailure(t *testing.T) {
	chunks := &fakeChunkStore{failOn: map[int]bool{0: true}}
	svc := newManifestoFixture(chunks, &fakeEmbedder{})

	text := strings.Repeat("Transparency reports published monthly for every budget line. ", 60)
	resp, err := svc.Index(context.Background(), &dto.IndexManifestoRequest{
		CandidateID: 3,
		ElectionID:  1,
		Text:        text,
		Action:      dto.ManifestoActionAdd,
	})
	if err != nil {
		t.Fatalf("a single failed chunk must not fail indexing: %v", err)
	}

	if resp.Succeeded != resp.Attempted-1 {
		t.Errorf("expected %d succeeded, got %d", resp.Attempted-1, resp.Succeeded)
	}
	if len(resp.Failures) != 1 || resp.Failures[0].ChunkIndex != 0 {
		t.Errorf("expected failure recorded for chunk 0, got %v", resp.Failures)
	}
}

func TestIndexAddAllChunksFailing(t *testing.T) {
	svc := newManifestoFixture(&fakeChunkStore{}, &fakeEmbedder{failText: "funding"})

	_, err := svc.Index(context.Background(), &dto.IndexManifestoRequest{
		CandidateID: 3,
		ElectionID:  1,
		Text:        strings.Repeat("More funding for clubs and societies across campus. ", 30),
		Action:      dto.ManifestoActionAdd,
	})
	if !errors.Is(err, apperrors.ErrIndexingFailed) {
		t.Fatalf("expected ErrIndexingFailed when every chunk fails, got %v", err)
	}
}

func TestIndexEmptyText(t *testing.T) {
	svc := newManifestoFixture(&fakeChunkStore{}, &fakeEmbedder{})

	_, err := svc.Index(context.Background(), &dto.IndexManifestoRequest{
		CandidateID: 3,
		ElectionID:  1,
		Text:        "   \n\t ",
		Action:      dto.ManifestoActionAdd,
	})
	if !errors.Is(err, apperrors.ErrManifestoEmpty) {
		t.Fatalf("expected ErrManifestoEmpty, got %v", err)
	}
}

func TestIndexUpdateDeletesBeforeReplacing(t *testing.T) {
	chunks := &fakeChunkStore{chunks: []*models.ManifestoChunk{
		{ID: 1, ElectionID: 1, CandidateID: 3, Content: "stale chunk from the earlier version"},
	}}
	svc := newManifestoFixture(chunks, &fakeEmbedder{})

	resp, err := svc.Index(context.Background(), &dto.IndexManifestoRequest{
		CandidateID: 3,
		ElectionID:  1,
		Text:        strings.Repeat("A renewed pledge on event programming and budgets. ", 10),
		Action:      dto.ManifestoActionUpdate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks.deletions != 1 {
		t.Error("update must delete existing chunks before re-adding")
	}
	for _, c := range chunks.chunks {
		if strings.Contains(c.Content, "stale") {
			t.Error("stale chunk survived an update")
		}
	}
	if resp.Succeeded == 0 {
		t.Error("expected replacement chunks stored")
	}
}

func TestIndexRemoveDeletesAll(t *testing.T) {
	chunks := &fakeChunkStore{chunks: []*models.ManifestoChunk{
		{ID: 1, ElectionID: 1, CandidateID: 3, Content: "a"},
		{ID: 2, ElectionID: 1, CandidateID: 3, Content: "b"},
		{ID: 3, ElectionID: 1, CandidateID: 4, Content: "other candidate"},
	}}
	svc := newManifestoFixture(chunks, &fakeEmbedder{})

	_, err := svc.Index(context.Background(), &dto.IndexManifestoRequest{
		CandidateID: 3,
		ElectionID:  1,
		Action:      dto.ManifestoActionRemove,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks.chunks) != 1 || chunks.chunks[0].CandidateID != 4 {
		t.Errorf("remove must delete only the target candidate's chunks, left %d", len(chunks.chunks))
	}
}

func TestIndexUnknownCandidate(t *testing.T) {
	svc := newManifestoFixture(&fakeChunkStore{}, &fakeEmbedder{})

	_, err := svc.Index(context.Background(), &dto.IndexManifestoRequest{
		CandidateID: 99,
		ElectionID:  1,
		Text:        "irrelevant",
		Action:      dto.ManifestoActionAdd,
	})
	if !errors.Is(err, apperrors.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestSearchRanksBySimilarity(t *testing.T) {
	chunks := &fakeChunkStore{chunks: []*models.ManifestoChunk{
		{ID: 1, ElectionID: 1, CandidateID: 3, Content: "orthogonal", Embedding: []float32{0, 1, 0}},
		{ID: 2, ElectionID: 1, CandidateID: 3, Content: "aligned", Embedding: []float32{1, 0, 0}},
		{ID: 3, ElectionID: 1, CandidateID: 4, Content: "close", Embedding: []float32{0.9, 0.1, 0}},
	}}
	svc := newManifestoFixture(chunks, &fakeEmbedder{vectors: map[string][]float32{
		"what about funding?": {1, 0, 0},
	}})

	scored, err := svc.Search(context.Background(), 1, "what about funding?", 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("expected top 2, got %d", len(scored))
	}
	if scored[0].Chunk.Content != "aligned" {
		t.Errorf("expected the identical vector first, got %q", scored[0].Chunk.Content)
	}
	if scored[1].Chunk.Content != "close" {
		t.Errorf("expected the near vector second, got %q", scored[1].Chunk.Content)
	}
}

func TestSearchCandidateFilter(t *testing.T) {
	chunks := &fakeChunkStore{chunks: []*models.ManifestoChunk{
		{ID: 1, ElectionID: 1, CandidateID: 3, Embedding: []float32{1, 0, 0}},
		{ID: 2, ElectionID: 1, CandidateID: 4, Embedding: []float32{1, 0, 0}},
	}}
	svc := newManifestoFixture(chunks, &fakeEmbedder{})

	scored, err := svc.Search(context.Background(), 1, "question", 4, []int64{4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 1 || scored[0].Chunk.CandidateID != 4 {
		t.Fatalf("expected only candidate 4 chunks, got %d", len(scored))
	}
}

func TestSearchNoChunks(t *testing.T) {
	svc := newManifestoFixture(&fakeChunkStore{}, &fakeEmbedder{})

	scored, err := svc.Search(context.Background(), 1, "question", 4, nil)
	if err != nil {
		t.Fatalf("zero stored chunks must not be an error, got %v", err)
	}
	if len(scored) != 0 {
		t.Fatalf("expected empty result, got %d", len(scored))
	}
}

func TestSearchDegradesMalformedVectorsToZero(t *testing.T) {
	chunks := &fakeChunkStore{chunks: []*models.ManifestoChunk{
		{ID: 1, ElectionID: 1, CandidateID: 3, Content: "short", Embedding: []float32{1, 0}},
		{ID: 2, ElectionID: 1, CandidateID: 3, Content: "nil", Embedding: nil},
		{ID: 3, ElectionID: 1, CandidateID: 3, Content: "good", Embedding: []float32{1, 0, 0}},
	}}
	svc := newManifestoFixture(chunks, &fakeEmbedder{})

	scored, err := svc.Search(context.Background(), 1, "question", 4, nil)
	if err != nil {
		t.Fatalf("malformed vectors must not error: %v", err)
	}
	if scored[0].Chunk.Content != "good" {
		t.Errorf("expected the only well-formed vector first, got %q", scored[0].Chunk.Content)
	}
	for _, sc := range scored[1:] {
		if sc.Similarity != 0 {
			t.Errorf("malformed vector %q must score 0, got %f", sc.Chunk.Content, sc.Similarity)
		}
	}
}
