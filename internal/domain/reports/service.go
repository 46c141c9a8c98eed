package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"appraise/internal/domain/appraisal"
	"appraise/internal/domain/auth"
)

type Service struct {
	Store      *Store
	Appraisals *appraisal.Service
}

func NewService(store *Store, appraisals *appraisal.Service) *Service {
	return &Service{Store: store, Appraisals: appraisals}
}

func (s *Service) DepartmentSummary(ctx context.Context) ([]DepartmentStat, error) {
	return s.Store.DepartmentSummary(ctx)
}

func (s *Service) PendingByStatus(ctx context.Context) (map[string]int, error) {
	return s.Store.PendingByStatus(ctx)
}

// AppraisalPDF renders a printable appraisal with its section scores and the
// approval trail collected so far.
func (s *Service) AppraisalPDF(ctx context.Context, appraisalID string) ([]byte, error) {
	details, err := s.Appraisals.Get(ctx, appraisalID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Performance Appraisal")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", details.EmployeeName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Department: %s", details.Department))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Appraiser/HOD: %s", details.HODName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s", details.CreatedAt.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", details.Status))
	pdf.Ln(10)

	for _, section := range appraisal.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, section.Title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for _, question := range section.Questions {
			score := details.Scores[question.ID]
			pdf.MultiCell(160, 6, question.Label, "", "L", false)
			pdf.SetXY(pdf.GetX()+165, pdf.GetY()-6)
			pdf.CellFormat(20, 6, fmt.Sprintf("%d / 10", score), "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Overall: %.2f%% (%s)", details.OverallScore, details.OverallRating))
	pdf.Ln(10)

	if details.Comments != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Comments")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, details.Comments, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Approvals")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	if len(details.Signatures) == 0 {
		pdf.Cell(0, 6, "No approvals recorded yet.")
		pdf.Ln(6)
	}
	for _, sig := range details.Signatures {
		signer := "Unknown signer"
		if sig.Signer != nil {
			signer = fmt.Sprintf("%s (%s)", sig.Signer.FullName, auth.RoleNames[sig.Signer.Role])
		}
		line := fmt.Sprintf("%s - signed %s", signer, sig.SignedAt.Format("2006-01-02 15:04"))
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
		if sig.Comment != "" {
			pdf.MultiCell(0, 5, "  "+sig.Comment, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
