package appraisal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListAppraisals(ctx context.Context, limit, offset int) ([]Appraisal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_name, department, hod_name, hod_signature_url, scores, comments,
           overall_score, overall_rating, status, created_by, created_at
    FROM appraisals
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appraisals []Appraisal
	for rows.Next() {
		record, err := scanAppraisal(rows)
		if err != nil {
			return nil, err
		}
		appraisals = append(appraisals, record)
	}
	return appraisals, rows.Err()
}

func (s *Store) GetAppraisal(ctx context.Context, appraisalID string) (Appraisal, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, employee_name, department, hod_name, hod_signature_url, scores, comments,
           overall_score, overall_rating, status, created_by, created_at
    FROM appraisals
    WHERE id = $1
  `, appraisalID)

	record, err := scanAppraisal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Appraisal{}, ErrNotFound
	}
	if err != nil {
		return Appraisal{}, err
	}
	return record, nil
}

func (s *Store) InsertAppraisal(ctx context.Context, record Appraisal) (string, error) {
	scoresJSON, err := json.Marshal(record.Scores)
	if err != nil {
		return "", err
	}

	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO appraisals (employee_name, department, hod_name, hod_signature_url, scores, comments,
                            overall_score, overall_rating, status, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, record.EmployeeName, record.Department, record.HODName, record.HODSignatureURL, scoresJSON,
		record.Comments, record.OverallScore, record.OverallRating, record.Status, record.CreatedBy).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListSignatures(ctx context.Context, appraisalID string) ([]Signature, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, appraisal_id, signer_id, COALESCE(comment, ''), signature_url, signed_at
    FROM signatures
    WHERE appraisal_id = $1
    ORDER BY signed_at ASC
  `, appraisalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signatures []Signature
	for rows.Next() {
		var sig Signature
		if err := rows.Scan(&sig.ID, &sig.AppraisalID, &sig.SignerID, &sig.Comment, &sig.SignatureURL, &sig.SignedAt); err != nil {
			return nil, err
		}
		signatures = append(signatures, sig)
	}
	return signatures, rows.Err()
}

func (s *Store) ProfilesByIDs(ctx context.Context, profileIDs []string) ([]Profile, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, full_name, role
    FROM profiles
    WHERE id = ANY($1)
  `, profileIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var profile Profile
		if err := rows.Scan(&profile.ID, &profile.FullName, &profile.Role); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// RecordApproval persists one approval step: the signature row and the status
// advance succeed or fail together. The UPDATE is guarded on the status the
// caller read, so a concurrent approval rolls the whole step back instead of
// overwriting it.
func (s *Store) RecordApproval(ctx context.Context, appraisalID string, signature Signature, fromStatus, toStatus string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO signatures (appraisal_id, signer_id, comment, signature_url)
    VALUES ($1,$2,$3,$4)
  `, appraisalID, signature.SignerID, nullIfEmpty(signature.Comment), signature.SignatureURL); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
    UPDATE appraisals
    SET status = $1
    WHERE id = $2 AND status = $3
  `, toStatus, appraisalID, fromStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppraisal(row rowScanner) (Appraisal, error) {
	var record Appraisal
	var scoresJSON []byte
	if err := row.Scan(&record.ID, &record.EmployeeName, &record.Department, &record.HODName,
		&record.HODSignatureURL, &scoresJSON, &record.Comments, &record.OverallScore,
		&record.OverallRating, &record.Status, &record.CreatedBy, &record.CreatedAt); err != nil {
		return Appraisal{}, err
	}
	if err := json.Unmarshal(scoresJSON, &record.Scores); err != nil {
		return Appraisal{}, err
	}
	return record, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
