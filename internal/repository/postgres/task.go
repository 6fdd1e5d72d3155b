package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/taskhub/internal/domain"
)

// TaskRepository реализует repository.TaskRepository для PostgreSQL
type TaskRepository struct {
	db *pgxpool.Pool
}

// NewTaskRepository создает новый экземпляр TaskRepository
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `
	id, project_id, title, description,
	COALESCE(deadline, ''), status, assignee, assignee_id, author,
	COALESCE(completion_message, ''),
	COALESCE(review_message, ''),
	COALESCE(reviewed_by, ''),
	COALESCE(reviewed_at, '')
`

// Create создает новую задачу
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (project_id, title, description, deadline, status, assignee, assignee_id, author)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Deadline,
		string(task.Status),
		task.Assignee,
		task.AssigneeID,
		task.Author,
	).Scan(&task.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return domain.ErrProjectNotFound
		}
		return err
	}

	return nil
}

// GetByID получает задачу по ID
func (r *TaskRepository) GetByID(ctx context.Context, taskID int) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// GetByProjectID возвращает все задачи проекта, новые сверху
func (r *TaskRepository) GetByProjectID(ctx context.Context, projectID int) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// Update перезаписывает изменяемые поля задачи
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, deadline = $3, status = $4,
		    assignee = $5, assignee_id = $6, updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, query,
		task.Title,
		task.Description,
		task.Deadline,
		string(task.Status),
		task.Assignee,
		task.AssigneeID,
		task.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Delete удаляет задачу
func (r *TaskRepository) Delete(ctx context.Context, taskID int) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.Exec(ctx, query, taskID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// SubmitCompletion переводит задачу на проверку и очищает прошлый вердикт
func (r *TaskRepository) SubmitCompletion(ctx context.Context, taskID int, message string) error {
	query := `
		UPDATE tasks
		SET status = $1, completion_message = $2,
		    review_message = '', reviewed_by = '', reviewed_at = '',
		    updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, string(domain.StatusPendingReview), message, taskID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Review фиксирует вердикт проверяющего
func (r *TaskRepository) Review(ctx context.Context, taskID int, status domain.TaskStatus, reviewer, message, reviewedAt string) error {
	query := `
		UPDATE tasks
		SET status = $1, review_message = $2, reviewed_by = $3, reviewed_at = $4,
		    updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.db.Exec(ctx, query, string(status), message, reviewer, reviewedAt, taskID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var status string
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&status,
		&task.Assignee,
		&task.AssigneeID,
		&task.Author,
		&task.CompletionMessage,
		&task.ReviewMessage,
		&task.ReviewedBy,
		&task.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}

	// Хранилище может отдать произвольную строку статуса,
	// нормализуем ее сразу на границе
	task.Status = domain.ParseTaskStatus(status)

	return &task, nil
}
