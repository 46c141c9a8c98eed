package appraisal

import "context"

type StoreAPI interface {
	ListAppraisals(ctx context.Context, limit, offset int) ([]Appraisal, error)
	GetAppraisal(ctx context.Context, appraisalID string) (Appraisal, error)
	InsertAppraisal(ctx context.Context, record Appraisal) (string, error)
	ListSignatures(ctx context.Context, appraisalID string) ([]Signature, error)
	ProfilesByIDs(ctx context.Context, profileIDs []string) ([]Profile, error)
	RecordApproval(ctx context.Context, appraisalID string, signature Signature, fromStatus, toStatus string) error
}
