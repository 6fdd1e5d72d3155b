package repository

import (
	"context"

	"github.com/aidar/taskhub/internal/domain"
)

// UserRepository определяет методы для работы со справочником пользователей
type UserRepository interface {
	// CreateOrUpdate создает нового пользователя или обновляет существующего
	CreateOrUpdate(ctx context.Context, user *domain.User) error

	// GetByTelegramID получает пользователя по telegram id
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)

	// GetByUsername получает пользователя по каноническому ключу username
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List возвращает всех пользователей справочника
	List(ctx context.Context) ([]domain.User, error)

	// Search возвращает пользователей, чей username или полное имя
	// содержит подстроку запроса
	Search(ctx context.Context, query string) ([]domain.User, error)
}

// ProjectRepository определяет методы для работы с проектами
type ProjectRepository interface {
	// Create создает новый проект
	Create(ctx context.Context, project *domain.Project) error

	// GetByID получает проект со всеми участниками
	GetByID(ctx context.Context, projectID int) (*domain.Project, error)

	// List возвращает все проекты с участниками
	List(ctx context.Context) ([]domain.Project, error)

	// UpdateStatus обновляет статус проекта
	UpdateStatus(ctx context.Context, projectID int, status string) error

	// AddMember добавляет участника в проект
	AddMember(ctx context.Context, projectID int, member domain.ProjectMember) error

	// UpdateMemberRole обновляет роль участника проекта
	UpdateMemberRole(ctx context.Context, projectID int, username, role string) error

	// RemoveMember удаляет участника из проекта
	RemoveMember(ctx context.Context, projectID int, username string) error
}

// TaskRepository определяет методы для работы с задачами
type TaskRepository interface {
	// Create создает новую задачу
	Create(ctx context.Context, task *domain.Task) error

	// GetByID получает задачу по ID
	GetByID(ctx context.Context, taskID int) (*domain.Task, error)

	// GetByProjectID возвращает все задачи проекта
	GetByProjectID(ctx context.Context, projectID int) ([]domain.Task, error)

	// Update перезаписывает изменяемые поля задачи
	Update(ctx context.Context, task *domain.Task) error

	// Delete удаляет задачу
	Delete(ctx context.Context, taskID int) error

	// SubmitCompletion переводит задачу на проверку с сообщением исполнителя
	SubmitCompletion(ctx context.Context, taskID int, message string) error

	// Review фиксирует вердикт проверяющего
	Review(ctx context.Context, taskID int, status domain.TaskStatus, reviewer, message, reviewedAt string) error
}
