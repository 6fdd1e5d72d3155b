package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/taskhub/internal/domain"
)

// ProjectStats represents task counters for one project
type ProjectStats struct {
	ProjectID     int    `json:"project_id"`
	ProjectTitle  string `json:"project_title"`
	TotalTasks    int    `json:"total_tasks"`
	NewTasks      int    `json:"new_tasks"`
	InProgress    int    `json:"in_progress"`
	PendingReview int    `json:"pending_review"`
	Done          int    `json:"done"`
	Rejected      int    `json:"rejected"`
}

// Stats represents the dashboard aggregate
type Stats struct {
	TotalProjects int            `json:"total_projects"`
	TotalTasks    int            `json:"total_tasks"`
	PendingReview int            `json:"pending_review"`
	Projects      []ProjectStats `json:"projects"`
}

// StatsService handles dashboard statistics queries
type StatsService struct {
	db *pgxpool.Pool
}

// NewStatsService creates a new StatsService
func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// GetStats returns per-project task counters for the dashboard
func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	projectQuery := `
		SELECT
			p.id,
			p.title,
			COUNT(t.id) as total_tasks,
			COUNT(CASE WHEN t.status = $1 THEN 1 END) as new_tasks,
			COUNT(CASE WHEN t.status = $2 THEN 1 END) as in_progress,
			COUNT(CASE WHEN t.status = $3 THEN 1 END) as pending_review,
			COUNT(CASE WHEN t.status = $4 THEN 1 END) as done,
			COUNT(CASE WHEN t.status = $5 THEN 1 END) as rejected
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		GROUP BY p.id, p.title
		ORDER BY p.id
	`

	rows, err := s.db.Query(ctx, projectQuery,
		string(domain.StatusNew),
		string(domain.StatusInProgress),
		string(domain.StatusPendingReview),
		string(domain.StatusDone),
		string(domain.StatusRejected),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ps ProjectStats
		if err := rows.Scan(
			&ps.ProjectID,
			&ps.ProjectTitle,
			&ps.TotalTasks,
			&ps.NewTasks,
			&ps.InProgress,
			&ps.PendingReview,
			&ps.Done,
			&ps.Rejected,
		); err != nil {
			return nil, err
		}
		stats.Projects = append(stats.Projects, ps)
		stats.TotalProjects++
		stats.TotalTasks += ps.TotalTasks
		stats.PendingReview += ps.PendingReview
	}

	return stats, rows.Err()
}

// GetUserStats returns task counters for one assignee
func (s *StatsService) GetUserStats(ctx context.Context, telegramID int64) (*ProjectStats, error) {
	query := `
		SELECT
			COUNT(*) as total_tasks,
			COUNT(CASE WHEN status = $2 THEN 1 END) as new_tasks,
			COUNT(CASE WHEN status = $3 THEN 1 END) as in_progress,
			COUNT(CASE WHEN status = $4 THEN 1 END) as pending_review,
			COUNT(CASE WHEN status = $5 THEN 1 END) as done,
			COUNT(CASE WHEN status = $6 THEN 1 END) as rejected
		FROM tasks
		WHERE assignee_id = $1
	`

	var ps ProjectStats
	err := s.db.QueryRow(ctx, query,
		telegramID,
		string(domain.StatusNew),
		string(domain.StatusInProgress),
		string(domain.StatusPendingReview),
		string(domain.StatusDone),
		string(domain.StatusRejected),
	).Scan(
		&ps.TotalTasks,
		&ps.NewTasks,
		&ps.InProgress,
		&ps.PendingReview,
		&ps.Done,
		&ps.Rejected,
	)

	return &ps, err
}
