package appraisal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"appraise/internal/domain/auth"
)

type fakeStore struct {
	appraisals  map[string]Appraisal
	signatures  map[string][]Signature
	profiles    map[string]Profile
	nextID      int
	approvalErr error
	profilesErr error
	inserts     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		appraisals: map[string]Appraisal{},
		signatures: map[string][]Signature{},
		profiles:   map[string]Profile{},
	}
}

func (f *fakeStore) ListAppraisals(_ context.Context, limit, offset int) ([]Appraisal, error) {
	var out []Appraisal
	for _, record := range f.appraisals {
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeStore) GetAppraisal(_ context.Context, id string) (Appraisal, error) {
	record, ok := f.appraisals[id]
	if !ok {
		return Appraisal{}, ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) InsertAppraisal(_ context.Context, record Appraisal) (string, error) {
	f.nextID++
	f.inserts++
	record.ID = fmt.Sprintf("appraisal-%d", f.nextID)
	record.CreatedAt = time.Now()
	f.appraisals[record.ID] = record
	return record.ID, nil
}

func (f *fakeStore) ListSignatures(_ context.Context, appraisalID string) ([]Signature, error) {
	return f.signatures[appraisalID], nil
}

func (f *fakeStore) ProfilesByIDs(_ context.Context, ids []string) ([]Profile, error) {
	if f.profilesErr != nil {
		return nil, f.profilesErr
	}
	var out []Profile
	for _, id := range ids {
		if profile, ok := f.profiles[id]; ok {
			out = append(out, profile)
		}
	}
	return out, nil
}

func (f *fakeStore) RecordApproval(_ context.Context, appraisalID string, signature Signature, fromStatus, toStatus string) error {
	if f.approvalErr != nil {
		return f.approvalErr
	}
	record, ok := f.appraisals[appraisalID]
	if !ok {
		return ErrNotFound
	}
	if record.Status != fromStatus {
		return ErrStaleStatus
	}
	signature.ID = fmt.Sprintf("signature-%d", len(f.signatures[appraisalID])+1)
	signature.SignedAt = time.Now()
	f.signatures[appraisalID] = append(f.signatures[appraisalID], signature)
	record.Status = toStatus
	f.appraisals[appraisalID] = record
	return nil
}

type fakeArtifacts struct {
	saves int
}

func (f *fakeArtifacts) Save(_ context.Context, name string, data []byte) (string, error) {
	f.saves++
	return "/signatures/" + name, nil
}

func validSubmission() Submission {
	scores := map[string]int{}
	for _, id := range RequiredQuestionIDs() {
		scores[id] = 8
	}
	return Submission{
		EmployeeName: "Amina Yusuf",
		Department:   "NURSES",
		HODName:      "Chidi Okeke",
		Scores:       scores,
		Comments:     "Consistent performer.",
		Signature:    []byte("png-bytes"),
	}
}

func actorWithRole(role string) auth.UserContext {
	return auth.UserContext{
		UserID:    "user-" + role,
		ProfileID: "profile-" + role,
		Role:      role,
		Name:      auth.RoleNames[role],
	}
}

func TestSubmitCreatesPendingHRAppraisal(t *testing.T) {
	store := newFakeStore()
	artifacts := &fakeArtifacts{}
	service := NewService(store, artifacts)

	record, err := service.Submit(context.Background(), actorWithRole(auth.RoleAppraiser), validSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != StatusPendingHR {
		t.Fatalf("expected status %s, got %s", StatusPendingHR, record.Status)
	}
	if record.OverallScore != 80.00 {
		t.Fatalf("expected overall score 80.00, got %v", record.OverallScore)
	}
	if record.OverallRating != RatingVeryGood {
		t.Fatalf("expected rating %q, got %q", RatingVeryGood, record.OverallRating)
	}
	if record.HODSignatureURL == "" {
		t.Fatal("expected uploaded signature url")
	}
	if len(store.signatures[record.ID]) != 0 {
		t.Fatal("a fresh submission must have zero signatures")
	}
}

func TestSubmitRejectsNonAppraiser(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, &fakeArtifacts{})

	_, err := service.Submit(context.Background(), actorWithRole(auth.RoleHR), validSubmission())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.inserts != 0 {
		t.Fatal("rejected submission must not touch the store")
	}
}

func TestSubmitValidation(t *testing.T) {
	base := validSubmission()

	missingName := base
	missingName.EmployeeName = "  "

	badDepartment := base
	badDepartment.Department = "CATERING"

	noSignature := base
	noSignature.Signature = nil

	missingScore := base
	missingScore.Scores = map[string]int{}
	for k, v := range base.Scores {
		missingScore.Scores[k] = v
	}
	delete(missingScore.Scores, "q10_punctuality")

	outOfRange := base
	outOfRange.Scores = map[string]int{}
	for k, v := range base.Scores {
		outOfRange.Scores[k] = v
	}
	outOfRange.Scores["q1_knowledge_of_duties"] = 11

	cases := map[string]Submission{
		"missing employee name": missingName,
		"unknown department":    badDepartment,
		"missing signature":     noSignature,
		"missing question":      missingScore,
		"score out of range":    outOfRange,
	}

	for name, submission := range cases {
		store := newFakeStore()
		artifacts := &fakeArtifacts{}
		service := NewService(store, artifacts)

		_, err := service.Submit(context.Background(), actorWithRole(auth.RoleAppraiser), submission)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
		if store.inserts != 0 || artifacts.saves != 0 {
			t.Fatalf("%s: validation failures must precede any collaborator call", name)
		}
	}
}

func TestApproveFullChain(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, &fakeArtifacts{})
	ctx := context.Background()

	for _, role := range auth.AllRoles {
		actor := actorWithRole(role)
		store.profiles[actor.ProfileID] = Profile{ID: actor.ProfileID, FullName: actor.Name, Role: role}
	}

	record, err := service.Submit(ctx, actorWithRole(auth.RoleAppraiser), validSubmission())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	steps := []struct {
		role string
		next string
	}{
		{auth.RoleHR, StatusPendingDocs},
		{auth.RoleDocs, StatusPendingMD},
		{auth.RoleMD, StatusPendingChairman},
		{auth.RoleChairman, StatusCompleted},
	}
	for i, step := range steps {
		updated, err := service.Approve(ctx, actorWithRole(step.role), record.ID, []byte("sig"), "approved")
		if err != nil {
			t.Fatalf("approval by %s failed: %v", step.role, err)
		}
		if updated.Status != step.next {
			t.Fatalf("after %s approval expected status %s, got %s", step.role, step.next, updated.Status)
		}
		if got := len(store.signatures[record.ID]); got != i+1 {
			t.Fatalf("after %s approval expected %d signatures, got %d", step.role, i+1, got)
		}
	}

	details, err := service.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(details.Signatures) != 4 {
		t.Fatalf("expected 4 signatures, got %d", len(details.Signatures))
	}
	wantOrder := []string{auth.RoleHR, auth.RoleDocs, auth.RoleMD, auth.RoleChairman}
	for i, sig := range details.Signatures {
		if sig.Signer == nil {
			t.Fatalf("signature %d missing signer profile", i)
		}
		if sig.Signer.Role != wantOrder[i] {
			t.Fatalf("signature %d: expected signer role %s, got %s", i, wantOrder[i], sig.Signer.Role)
		}
	}
}

func TestApproveWrongRoleIsRejectedBeforePersistence(t *testing.T) {
	store := newFakeStore()
	artifacts := &fakeArtifacts{}
	service := NewService(store, artifacts)
	ctx := context.Background()

	record, err := service.Submit(ctx, actorWithRole(auth.RoleAppraiser), validSubmission())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	uploadsAfterSubmit := artifacts.saves

	_, err = service.Approve(ctx, actorWithRole(auth.RoleMD), record.ID, []byte("sig"), "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(store.signatures[record.ID]) != 0 {
		t.Fatal("rejected approval must not record a signature")
	}
	if store.appraisals[record.ID].Status != StatusPendingHR {
		t.Fatal("rejected approval must not advance status")
	}
	if artifacts.saves != uploadsAfterSubmit {
		t.Fatal("rejected approval must not upload an artifact")
	}
}

func TestApproveCompletedIsRejected(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, &fakeArtifacts{})
	ctx := context.Background()

	record, err := service.Submit(ctx, actorWithRole(auth.RoleAppraiser), validSubmission())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	stored := store.appraisals[record.ID]
	stored.Status = StatusCompleted
	store.appraisals[record.ID] = stored

	_, err = service.Approve(ctx, actorWithRole(auth.RoleChairman), record.ID, []byte("sig"), "")
	if !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted, got %v", err)
	}
}

func TestApproveRequiresSignature(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, &fakeArtifacts{})
	ctx := context.Background()

	record, err := service.Submit(ctx, actorWithRole(auth.RoleAppraiser), validSubmission())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = service.Approve(ctx, actorWithRole(auth.RoleHR), record.ID, nil, "looks fine")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(store.signatures[record.ID]) != 0 {
		t.Fatal("missing signature must not record anything")
	}
}

func TestApproveSurfacesStaleStatus(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, &fakeArtifacts{})
	ctx := context.Background()

	record, err := service.Submit(ctx, actorWithRole(auth.RoleAppraiser), validSubmission())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	store.approvalErr = ErrStaleStatus

	_, err = service.Approve(ctx, actorWithRole(auth.RoleHR), record.ID, []byte("sig"), "")
	if !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus, got %v", err)
	}
}

func TestApproveUnknownAppraisal(t *testing.T) {
	service := NewService(newFakeStore(), &fakeArtifacts{})

	_, err := service.Approve(context.Background(), actorWithRole(auth.RoleHR), "missing", []byte("sig"), "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetToleratesMissingProfiles(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, &fakeArtifacts{})
	ctx := context.Background()

	record, err := service.Submit(ctx, actorWithRole(auth.RoleAppraiser), validSubmission())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.Approve(ctx, actorWithRole(auth.RoleHR), record.ID, []byte("sig"), ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	store.profilesErr = errors.New("profiles unavailable")

	details, err := service.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get must tolerate profile failures, got %v", err)
	}
	if len(details.Signatures) != 1 {
		t.Fatalf("expected 1 signature, got %d", len(details.Signatures))
	}
	if details.Signatures[0].Signer != nil {
		t.Fatal("expected nil signer when profiles are unavailable")
	}
}

func TestSubmitRoundTripKeepsDerivedFields(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, &fakeArtifacts{})
	ctx := context.Background()

	submission := validSubmission()
	record, err := service.Submit(ctx, actorWithRole(auth.RoleAppraiser), submission)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	fetched, err := service.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(fetched.Scores) != len(submission.Scores) {
		t.Fatalf("score mapping changed on round trip: %d vs %d entries", len(fetched.Scores), len(submission.Scores))
	}
	for id, score := range submission.Scores {
		if fetched.Scores[id] != score {
			t.Fatalf("score %s changed on round trip", id)
		}
	}
	if fetched.OverallScore != record.OverallScore || fetched.OverallRating != record.OverallRating {
		t.Fatal("derived fields drifted on round trip")
	}

	recomputed := CalculateScores(fetched.Scores)
	if recomputed.Percentage != fetched.OverallScore || recomputed.Rating != fetched.OverallRating {
		t.Fatal("persisted derived fields must be recomputable from the score mapping")
	}
}
