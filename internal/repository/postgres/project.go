package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/taskhub/internal/domain"
)

// ProjectRepository реализует repository.ProjectRepository для PostgreSQL
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository создает новый экземпляр ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create создает новый проект с участниками
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO projects (title, description, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := tx.QueryRow(ctx, query, project.Title, project.Description, project.Status).Scan(&project.ID); err != nil {
		return err
	}

	memberQuery := `
		INSERT INTO project_members (project_id, username, full_name, role, telegram_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, member := range project.Members {
		_, err = tx.Exec(ctx, memberQuery,
			project.ID,
			domain.CanonicalUsername(member.Username),
			member.FullName,
			member.Role,
			member.TelegramID,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return domain.ErrMemberExists
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID получает проект со всеми участниками
func (r *ProjectRepository) GetByID(ctx context.Context, projectID int) (*domain.Project, error) {
	query := `
		SELECT id, title, description, status
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}

	members, err := r.getMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project.Members = members

	return &project, nil
}

// List возвращает все проекты с участниками
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	query := `
		SELECT id, title, description, status
		FROM projects
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(&project.ID, &project.Title, &project.Description, &project.Status); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		members, err := r.getMembers(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Members = members
	}

	return projects, nil
}

// UpdateStatus обновляет статус проекта
func (r *ProjectRepository) UpdateStatus(ctx context.Context, projectID int, status string) error {
	query := `
		UPDATE projects
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, status, projectID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}

	return nil
}

// AddMember добавляет участника в проект. Дубликат username в рамках
// одного проекта недопустим.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID int, member domain.ProjectMember) error {
	query := `
		INSERT INTO project_members (project_id, username, full_name, role, telegram_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		projectID,
		domain.CanonicalUsername(member.Username),
		member.FullName,
		member.Role,
		member.TelegramID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return domain.ErrMemberExists
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return domain.ErrProjectNotFound
			}
		}
		return err
	}

	return nil
}

// UpdateMemberRole обновляет роль участника проекта
func (r *ProjectRepository) UpdateMemberRole(ctx context.Context, projectID int, username, role string) error {
	query := `
		UPDATE project_members
		SET role = $1
		WHERE project_id = $2 AND username = $3
	`

	result, err := r.db.Exec(ctx, query, role, projectID, domain.CanonicalUsername(username))
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// RemoveMember удаляет участника из проекта
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID int, username string) error {
	query := `
		DELETE FROM project_members
		WHERE project_id = $1 AND username = $2
	`

	result, err := r.db.Exec(ctx, query, projectID, domain.CanonicalUsername(username))
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ProjectRepository) getMembers(ctx context.Context, projectID int) ([]domain.ProjectMember, error) {
	query := `
		SELECT username, full_name, role, telegram_id
		FROM project_members
		WHERE project_id = $1
		ORDER BY full_name, username
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.ProjectMember
	for rows.Next() {
		var member domain.ProjectMember
		if err := rows.Scan(&member.Username, &member.FullName, &member.Role, &member.TelegramID); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}
