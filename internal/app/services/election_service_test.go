package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/auth"
)

type fakeElectionStore struct {
	elections map[int64]*models.Election
	nextID    int64
}

func newFakeElectionStore() *fakeElectionStore {
	return &fakeElectionStore{elections: make(map[int64]*models.Election), nextID: 1}
}

func (f *fakeElectionStore) Create(_ context.Context, election *models.Election) error {
	election.ID = f.nextID
	f.nextID++
	cp := *election
	f.elections[election.ID] = &cp
	return nil
}

func (f *fakeElectionStore) GetByID(_ context.Context, id int64) (*models.Election, error) {
	e, ok := f.elections[id]
	if !ok {
		return nil, apperrors.ErrElectionNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeElectionStore) GetAllByAssociation(_ context.Context, associationID int64) ([]*models.Election, error) {
	var out []*models.Election
	for _, e := range f.elections {
		if e.AssociationID == associationID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeElectionStore) HasOtherActiveElection(_ context.Context, associationID, excludeElectionID int64) (bool, error) {
	for _, e := range f.elections {
		if e.AssociationID == associationID && e.ID != excludeElectionID && e.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeElectionStore) SetActive(_ context.Context, id int64, active bool) error {
	e, ok := f.elections[id]
	if !ok {
		return apperrors.ErrElectionNotFound
	}
	e.IsActive = active
	return nil
}

func (f *fakeElectionStore) EndNow(_ context.Context, id int64) error {
	e, ok := f.elections[id]
	if !ok {
		return apperrors.ErrElectionNotFound
	}
	e.IsActive = false
	e.EndAt = time.Now()
	return nil
}

func (f *fakeElectionStore) Delete(_ context.Context, id int64) error {
	delete(f.elections, id)
	return nil
}

type fakePositionStore struct {
	positions map[int64]*models.Position
	nextID    int64
}

func newFakePositionStore() *fakePositionStore {
	return &fakePositionStore{positions: make(map[int64]*models.Position), nextID: 1}
}

func (f *fakePositionStore) Create(_ context.Context, position *models.Position) error {
	position.ID = f.nextID
	f.nextID++
	cp := *position
	f.positions[position.ID] = &cp
	return nil
}

func (f *fakePositionStore) GetByID(_ context.Context, id int64) (*models.Position, error) {
	p, ok := f.positions[id]
	if !ok {
		return nil, apperrors.ErrPositionNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePositionStore) GetAllByAssociation(_ context.Context, associationID int64) ([]*models.Position, error) {
	var out []*models.Position
	for _, p := range f.positions {
		if p.AssociationID == associationID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePositionStore) Delete(_ context.Context, id int64) error {
	delete(f.positions, id)
	return nil
}

type fakeCandidateStore struct {
	candidates map[int64]*models.Candidate
	nextID     int64
}

func newFakeCandidateStore() *fakeCandidateStore {
	return &fakeCandidateStore{candidates: make(map[int64]*models.Candidate), nextID: 1}
}

func (f *fakeCandidateStore) Create(_ context.Context, candidate *models.Candidate) error {
	for _, c := range f.candidates {
		if c.Name == candidate.Name && c.ElectionID == candidate.ElectionID && c.PositionID == candidate.PositionID {
			return apperrors.ErrCandidateExists
		}
	}
	candidate.ID = f.nextID
	f.nextID++
	cp := *candidate
	f.candidates[candidate.ID] = &cp
	return nil
}

func (f *fakeCandidateStore) GetByID(_ context.Context, id int64) (*models.Candidate, error) {
	c, ok := f.candidates[id]
	if !ok {
		return nil, apperrors.ErrCandidateNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCandidateStore) GetByElection(_ context.Context, electionID int64) ([]*models.Candidate, error) {
	var out []*models.Candidate
	for _, c := range f.candidates {
		if c.ElectionID == electionID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCandidateStore) CountByElectionAndPosition(_ context.Context, electionID, positionID int64) (int, error) {
	count := 0
	for _, c := range f.candidates {
		if c.ElectionID == electionID && c.PositionID == positionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCandidateStore) Delete(_ context.Context, id int64) error {
	delete(f.candidates, id)
	return nil
}

type fakeVoterRegistry struct {
	voters []*models.Voter
	nextID int64
}

func (f *fakeVoterRegistry) Create(_ context.Context, voter *models.Voter) error {
	for _, v := range f.voters {
		if v.AssociationID == voter.AssociationID && v.StudentID == voter.StudentID {
			return apperrors.ErrStudentIDExists
		}
	}
	f.nextID++
	voter.ID = f.nextID
	cp := *voter
	f.voters = append(f.voters, &cp)
	return nil
}

func (f *fakeVoterRegistry) GetAllByAssociation(_ context.Context, associationID int64, offset uint64, limit int) ([]*models.Voter, error) {
	var scoped []*models.Voter
	for _, v := range f.voters {
		if v.AssociationID == associationID {
			cp := *v
			scoped = append(scoped, &cp)
		}
	}
	if int(offset) >= len(scoped) {
		return nil, nil
	}
	scoped = scoped[offset:]
	if limit < len(scoped) {
		scoped = scoped[:limit]
	}
	return scoped, nil
}

func (f *fakeVoterRegistry) CountByAssociation(_ context.Context, associationID int64) (int64, int64, error) {
	var total, voted int64
	for _, v := range f.voters {
		if v.AssociationID == associationID {
			total++
			if v.HasVoted {
				voted++
			}
		}
	}
	return total, voted, nil
}

type electionFixture struct {
	service    *ElectionService
	elections  *fakeElectionStore
	positions  *fakePositionStore
	candidates *fakeCandidateStore
	voters     *fakeVoterRegistry
}

func newElectionFixture() *electionFixture {
	fx := &electionFixture{
		elections:  newFakeElectionStore(),
		positions:  newFakePositionStore(),
		candidates: newFakeCandidateStore(),
		voters:     &fakeVoterRegistry{},
	}
	fx.service = NewElectionService(fx.elections, fx.positions, fx.candidates, fx.voters, zerolog.Nop())
	return fx
}

const fixtureAssociationID = int64(10)

func (fx *electionFixture) seedElection(t *testing.T, associationID int64, active bool, start, end time.Time) *models.Election {
	t.Helper()
	election := &models.Election{
		AssociationID: associationID,
		Title:         "Board Election",
		StartAt:       start,
		EndAt:         end,
		IsActive:      active,
	}
	if err := fx.elections.Create(context.Background(), election); err != nil {
		t.Fatalf("seeding election: %v", err)
	}
	if active {
		fx.elections.elections[election.ID].IsActive = true
	}
	return election
}

func TestCreateElectionRejectsInvertedWindow(t *testing.T) {
	fx := newElectionFixture()
	start := time.Now()

	_, err := fx.service.CreateElection(context.Background(), fixtureAssociationID, &dto.CreateElectionRequest{
		Title:   "Board Election",
		StartAt: start,
		EndAt:   start.Add(-time.Hour),
	})
	if !errors.Is(err, apperrors.ErrInvalidElectionWindow) {
		t.Fatalf("expected ErrInvalidElectionWindow, got %v", err)
	}

	_, err = fx.service.CreateElection(context.Background(), fixtureAssociationID, &dto.CreateElectionRequest{
		Title:   "Board Election",
		StartAt: start,
		EndAt:   start,
	})
	if !errors.Is(err, apperrors.ErrInvalidElectionWindow) {
		t.Fatalf("expected ErrInvalidElectionWindow for zero-length window, got %v", err)
	}
}

func TestCreateElectionStartsInactive(t *testing.T) {
	fx := newElectionFixture()
	start := time.Now()

	election, err := fx.service.CreateElection(context.Background(), fixtureAssociationID, &dto.CreateElectionRequest{
		Title:   "Board Election",
		StartAt: start,
		EndAt:   start.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if election.IsActive {
		t.Error("expected a freshly created election to be inactive")
	}
}

func TestGetElectionEnforcesOwnership(t *testing.T) {
	fx := newElectionFixture()
	start := time.Now()
	election := fx.seedElection(t, fixtureAssociationID, false, start, start.Add(time.Hour))

	_, err := fx.service.GetElection(context.Background(), 999, election.ID)
	if !errors.Is(err, apperrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound for foreign association, got %v", err)
	}
}

func TestUpdateElectionStateSingleActive(t *testing.T) {
	fx := newElectionFixture()
	ctx := context.Background()
	start := time.Now()
	running := fx.seedElection(t, fixtureAssociationID, true, start, start.Add(time.Hour))
	waiting := fx.seedElection(t, fixtureAssociationID, false, start, start.Add(time.Hour))

	_, err := fx.service.UpdateElectionState(ctx, fixtureAssociationID, waiting.ID, models.ElectionStateActive)
	if !errors.Is(err, apperrors.ErrActiveElectionExists) {
		t.Fatalf("expected ErrActiveElectionExists, got %v", err)
	}

	if _, err := fx.service.UpdateElectionState(ctx, fixtureAssociationID, running.ID, models.ElectionStatePaused); err != nil {
		t.Fatalf("pausing failed: %v", err)
	}

	activated, err := fx.service.UpdateElectionState(ctx, fixtureAssociationID, waiting.ID, models.ElectionStateActive)
	if err != nil {
		t.Fatalf("activation after pause failed: %v", err)
	}
	if !activated.IsActive {
		t.Error("expected the election to be active after the transition")
	}
}

func TestUpdateElectionStateEndedClosesWindow(t *testing.T) {
	fx := newElectionFixture()
	start := time.Now().Add(-time.Hour)
	election := fx.seedElection(t, fixtureAssociationID, true, start, start.Add(24*time.Hour))

	ended, err := fx.service.UpdateElectionState(context.Background(), fixtureAssociationID, election.ID, models.ElectionStateEnded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ended.IsActive {
		t.Error("expected an ended election to be inactive")
	}
	if ended.EndAt.After(time.Now()) {
		t.Error("expected the end time to be pulled to now")
	}
}

func TestUpdateElectionStateForeignAssociation(t *testing.T) {
	fx := newElectionFixture()
	start := time.Now()
	election := fx.seedElection(t, fixtureAssociationID, false, start, start.Add(time.Hour))

	_, err := fx.service.UpdateElectionState(context.Background(), 999, election.ID, models.ElectionStateActive)
	if !errors.Is(err, apperrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
	if fx.elections.elections[election.ID].IsActive {
		t.Error("expected the election to stay inactive")
	}
}

func TestUpdateElectionStateRejectsUnknownState(t *testing.T) {
	fx := newElectionFixture()
	start := time.Now()
	election := fx.seedElection(t, fixtureAssociationID, false, start, start.Add(time.Hour))

	_, err := fx.service.UpdateElectionState(context.Background(), fixtureAssociationID, election.ID, models.ElectionState("ARCHIVED"))
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestDeleteElectionRefusedWhileOpen(t *testing.T) {
	fx := newElectionFixture()
	ctx := context.Background()
	start := time.Now().Add(-time.Hour)
	open := fx.seedElection(t, fixtureAssociationID, true, start, start.Add(24*time.Hour))
	closed := fx.seedElection(t, fixtureAssociationID, false, start, start.Add(24*time.Hour))

	if err := fx.service.DeleteElection(ctx, fixtureAssociationID, open.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected a conflict deleting an open election, got %v", err)
	}
	if err := fx.service.DeleteElection(ctx, fixtureAssociationID, closed.ID); err != nil {
		t.Fatalf("expected deletion of an inactive election to succeed, got %v", err)
	}
}

func TestCreateCandidateEnforcesPositionCap(t *testing.T) {
	fx := newElectionFixture()
	ctx := context.Background()
	start := time.Now()
	election := fx.seedElection(t, fixtureAssociationID, false, start, start.Add(time.Hour))

	position, err := fx.service.CreatePosition(ctx, fixtureAssociationID, &dto.CreatePositionRequest{
		Name:          "President",
		MaxCandidates: 1,
	})
	if err != nil {
		t.Fatalf("creating position: %v", err)
	}

	if _, err := fx.service.CreateCandidate(ctx, fixtureAssociationID, &dto.CreateCandidateRequest{
		ElectionID: election.ID,
		PositionID: position.ID,
		Name:       "Mehmet Kaya",
	}); err != nil {
		t.Fatalf("first candidate failed: %v", err)
	}

	_, err = fx.service.CreateCandidate(ctx, fixtureAssociationID, &dto.CreateCandidateRequest{
		ElectionID: election.ID,
		PositionID: position.ID,
		Name:       "Elif Yildiz",
	})
	if !errors.Is(err, apperrors.ErrPositionFull) {
		t.Fatalf("expected ErrPositionFull, got %v", err)
	}
}

func TestCreateCandidateRejectsForeignPosition(t *testing.T) {
	fx := newElectionFixture()
	ctx := context.Background()
	start := time.Now()
	election := fx.seedElection(t, fixtureAssociationID, false, start, start.Add(time.Hour))

	foreign, err := fx.service.CreatePosition(ctx, 999, &dto.CreatePositionRequest{Name: "Treasurer"})
	if err != nil {
		t.Fatalf("creating position: %v", err)
	}

	_, err = fx.service.CreateCandidate(ctx, fixtureAssociationID, &dto.CreateCandidateRequest{
		ElectionID: election.ID,
		PositionID: foreign.ID,
		Name:       "Mehmet Kaya",
	})
	if !errors.Is(err, apperrors.ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestRegisterVoterValidatesAndHashes(t *testing.T) {
	fx := newElectionFixture()
	ctx := context.Background()

	voter, err := fx.service.RegisterVoter(ctx, fixtureAssociationID, &dto.RegisterVoterRequest{
		StudentID: "20210001",
		Name:      "Zeynep Arslan",
		Email:     "zeynep@school.edu.tr",
		Password:  "longenoughpass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if voter.Password == "longenoughpass" {
		t.Error("expected the stored password to be hashed")
	}
	if !auth.CheckPassword(voter.Password, "longenoughpass") {
		t.Error("expected the hash to verify against the original password")
	}
}

func TestRegisterVoterRejectsBadInput(t *testing.T) {
	fx := newElectionFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.RegisterVoterRequest
	}{
		{"short student ID", dto.RegisterVoterRequest{StudentID: "123", Name: "Ada", Email: "a@school.edu.tr", Password: "longenoughpass"}},
		{"single-letter name", dto.RegisterVoterRequest{StudentID: "20210001", Name: "A", Email: "a@school.edu.tr", Password: "longenoughpass"}},
		{"bad email", dto.RegisterVoterRequest{StudentID: "20210001", Name: "Ada", Email: "not-an-email", Password: "longenoughpass"}},
		{"short password", dto.RegisterVoterRequest{StudentID: "20210001", Name: "Ada", Email: "a@school.edu.tr", Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.RegisterVoter(ctx, fixtureAssociationID, &tc.req)
			if !errors.Is(err, apperrors.ErrBadRequest) {
				t.Fatalf("expected ErrBadRequest, got %v", err)
			}
		})
	}
}

func TestRegisterVoterDuplicateStudentID(t *testing.T) {
	fx := newElectionFixture()
	ctx := context.Background()

	req := dto.RegisterVoterRequest{
		StudentID: "20210001",
		Name:      "Zeynep Arslan",
		Email:     "zeynep@school.edu.tr",
		Password:  "longenoughpass",
	}

	if _, err := fx.service.RegisterVoter(ctx, fixtureAssociationID, &req); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := fx.service.RegisterVoter(ctx, fixtureAssociationID, &req)
	if !errors.Is(err, apperrors.ErrStudentIDExists) {
		t.Fatalf("expected ErrStudentIDExists, got %v", err)
	}
}

func TestListVotersReturnsTotal(t *testing.T) {
	fx := newElectionFixture()
	ctx := context.Background()

	for _, id := range []string{"20210001", "20210002", "20210003"} {
		if _, err := fx.service.RegisterVoter(ctx, fixtureAssociationID, &dto.RegisterVoterRequest{
			StudentID: id,
			Name:      "Voter " + id,
			Email:     id + "@school.edu.tr",
			Password:  "longenoughpass",
		}); err != nil {
			t.Fatalf("registering voter %s: %v", id, err)
		}
	}

	voters, total, err := fx.service.ListVoters(ctx, fixtureAssociationID, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(voters) != 2 {
		t.Errorf("expected a page of 2 voters, got %d", len(voters))
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
}
