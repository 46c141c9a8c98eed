package appraisal

import (
	"context"
	"log/slog"
)

func (s *Service) List(ctx context.Context, limit, offset int) ([]Appraisal, error) {
	return s.store.ListAppraisals(ctx, limit, offset)
}

// Get returns the appraisal with its signatures oldest-first and the signer
// profile attached to each. Profile lookups are best-effort: a missing or
// unreadable profile leaves Signer nil rather than failing the fetch.
func (s *Service) Get(ctx context.Context, appraisalID string) (AppraisalDetails, error) {
	record, err := s.store.GetAppraisal(ctx, appraisalID)
	if err != nil {
		return AppraisalDetails{}, err
	}

	signatures, err := s.store.ListSignatures(ctx, appraisalID)
	if err != nil {
		return AppraisalDetails{}, err
	}

	if len(signatures) > 0 {
		seen := map[string]bool{}
		var signerIDs []string
		for _, sig := range signatures {
			if !seen[sig.SignerID] {
				seen[sig.SignerID] = true
				signerIDs = append(signerIDs, sig.SignerID)
			}
		}

		profiles, err := s.store.ProfilesByIDs(ctx, signerIDs)
		if err != nil {
			slog.Warn("signer profile lookup failed", "appraisalId", appraisalID, "err", err)
		}
		byID := map[string]Profile{}
		for _, profile := range profiles {
			byID[profile.ID] = profile
		}
		for i := range signatures {
			if profile, ok := byID[signatures[i].SignerID]; ok {
				p := profile
				signatures[i].Signer = &p
			}
		}
	}

	return AppraisalDetails{Appraisal: record, Signatures: signatures}, nil
}

// Questions returns the fixed question catalogue clients render the form from.
func (s *Service) Questions() []Section {
	return Sections
}
