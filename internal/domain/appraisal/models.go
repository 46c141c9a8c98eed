package appraisal

import "time"

type Appraisal struct {
	ID              string         `json:"id"`
	EmployeeName    string         `json:"employeeName"`
	Department      string         `json:"department"`
	HODName         string         `json:"hodName"`
	HODSignatureURL string         `json:"hodSignatureUrl"`
	Scores          map[string]int `json:"scores"`
	Comments        string         `json:"comments"`
	OverallScore    float64        `json:"overallScore"`
	OverallRating   string         `json:"overallRating"`
	Status          string         `json:"status"`
	CreatedBy       string         `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type Signature struct {
	ID           string    `json:"id"`
	AppraisalID  string    `json:"appraisalId"`
	SignerID     string    `json:"signerId"`
	Comment      string    `json:"comment,omitempty"`
	SignatureURL string    `json:"signatureUrl"`
	SignedAt     time.Time `json:"signedAt"`
	Signer       *Profile  `json:"signer"`
}

// Profile is owned by the identity provider; this package only reads it.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type AppraisalDetails struct {
	Appraisal
	Signatures []Signature `json:"signatures"`
}

// Submission is the appraiser's draft form. Signature carries the decoded
// image bytes; the service uploads them and stores only the resulting URL.
type Submission struct {
	EmployeeName string
	Department   string
	HODName      string
	Scores       map[string]int
	Comments     string
	Signature    []byte
}
