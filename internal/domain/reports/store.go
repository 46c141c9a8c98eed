package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type DepartmentStat struct {
	Department   string  `json:"department"`
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	AverageScore float64 `json:"averageScore"`
}

func (s *Store) DepartmentSummary(ctx context.Context) ([]DepartmentStat, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT department,
           COUNT(1),
           COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
           COALESCE(ROUND(AVG(overall_score)::numeric, 2), 0)
    FROM appraisals
    GROUP BY department
    ORDER BY department
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DepartmentStat
	for rows.Next() {
		var stat DepartmentStat
		if err := rows.Scan(&stat.Department, &stat.Total, &stat.Completed, &stat.AverageScore); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func (s *Store) PendingByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(1)
    FROM appraisals
    GROUP BY status
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
