package appraisal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"appraise/internal/domain/auth"
)

// ArtifactStore uploads signature images and returns the URL they will be
// served from. The image itself is an opaque blob to this package.
type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type Service struct {
	store     StoreAPI
	artifacts ArtifactStore
}

func NewService(store StoreAPI, artifacts ArtifactStore) *Service {
	return &Service{store: store, artifacts: artifacts}
}

// Submit validates the appraiser's draft, uploads the signature, computes the
// derived score fields, and persists the appraisal already advanced to the
// first approval stage. Draft is never externally visible.
func (s *Service) Submit(ctx context.Context, actor auth.UserContext, submission Submission) (Appraisal, error) {
	if actor.Role != auth.RoleAppraiser {
		return Appraisal{}, fmt.Errorf("%w: submitting requires role %s", ErrForbidden, auth.RoleAppraiser)
	}
	if err := validateSubmission(submission); err != nil {
		return Appraisal{}, err
	}

	signatureURL, err := s.artifacts.Save(ctx, uuid.NewString()+".png", submission.Signature)
	if err != nil {
		return Appraisal{}, fmt.Errorf("upload appraiser signature: %w", err)
	}

	summary := CalculateScores(submission.Scores)
	record := Appraisal{
		EmployeeName:    strings.TrimSpace(submission.EmployeeName),
		Department:      submission.Department,
		HODName:         strings.TrimSpace(submission.HODName),
		HODSignatureURL: signatureURL,
		Scores:          submission.Scores,
		Comments:        submission.Comments,
		OverallScore:    summary.Percentage,
		OverallRating:   summary.Rating,
		Status:          StatusPendingHR,
		CreatedBy:       actor.ProfileID,
	}

	id, err := s.store.InsertAppraisal(ctx, record)
	if err != nil {
		return Appraisal{}, err
	}
	return s.store.GetAppraisal(ctx, id)
}

// Approve records one approval step. Preconditions are checked before any
// write: the appraisal must not be terminal, the actor's role must match the
// current stage, and a signature image is required. The signature row and the
// status advance are committed together by the store.
func (s *Service) Approve(ctx context.Context, actor auth.UserContext, appraisalID string, signatureImage []byte, comment string) (Appraisal, error) {
	current, err := s.store.GetAppraisal(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}

	if current.Status == StatusCompleted {
		return Appraisal{}, ErrCompleted
	}
	if !CanAct(current.Status, actor.Role) {
		required, _ := RequiredRole(current.Status)
		return Appraisal{}, fmt.Errorf("%w: status %s requires role %s", ErrForbidden, current.Status, required)
	}
	if len(signatureImage) == 0 {
		return Appraisal{}, fmt.Errorf("%w: signature image is required", ErrValidation)
	}

	signatureURL, err := s.artifacts.Save(ctx, uuid.NewString()+".png", signatureImage)
	if err != nil {
		return Appraisal{}, fmt.Errorf("upload approval signature: %w", err)
	}

	signature := Signature{
		AppraisalID:  appraisalID,
		SignerID:     actor.ProfileID,
		Comment:      strings.TrimSpace(comment),
		SignatureURL: signatureURL,
	}
	if err := s.store.RecordApproval(ctx, appraisalID, signature, current.Status, Next(current.Status)); err != nil {
		return Appraisal{}, err
	}

	return s.store.GetAppraisal(ctx, appraisalID)
}

func validateSubmission(submission Submission) error {
	if strings.TrimSpace(submission.EmployeeName) == "" {
		return fmt.Errorf("%w: employee name is required", ErrValidation)
	}
	if strings.TrimSpace(submission.HODName) == "" {
		return fmt.Errorf("%w: HOD name is required", ErrValidation)
	}
	if !ValidDepartment(submission.Department) {
		return fmt.Errorf("%w: unknown department %q", ErrValidation, submission.Department)
	}
	if len(submission.Signature) == 0 {
		return fmt.Errorf("%w: signature image is required", ErrValidation)
	}

	for _, questionID := range RequiredQuestionIDs() {
		score, ok := submission.Scores[questionID]
		if !ok {
			return fmt.Errorf("%w: missing score for %s", ErrValidation, questionID)
		}
		if score < 0 || score > 10 {
			return fmt.Errorf("%w: score for %s must be between 0 and 10", ErrValidation, questionID)
		}
	}
	if len(submission.Scores) != len(RequiredQuestionIDs()) {
		return fmt.Errorf("%w: scores contain unknown question ids", ErrValidation)
	}
	return nil
}
