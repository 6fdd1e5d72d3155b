package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aidar/taskhub/internal/directory"
	"github.com/aidar/taskhub/internal/domain"
	"github.com/aidar/taskhub/internal/notify"
	"github.com/aidar/taskhub/internal/repository"
)

// TaskService handles the task workflow: creation, edits, completion
// submission and review verdicts
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	access      *AccessService
	notifier    *notify.Notifier
	logger      *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	access *AccessService,
	notifier *notify.Notifier,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		access:      access,
		notifier:    notifier,
		logger:      logger,
	}
}

// ListByProject returns all tasks of a project
func (s *TaskService) ListByProject(ctx context.Context, projectID int) ([]domain.Task, error) {
	return s.taskRepo.GetByProjectID(ctx, projectID)
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, taskID int) (*domain.Task, error) {
	return s.taskRepo.GetByID(ctx, taskID)
}

// Create creates a new task. The title is mandatory, everything else
// defaults: no assignee, no deadline, status "Новая". The author display
// name is captured once at creation and never changes afterwards.
func (s *TaskService) Create(ctx context.Context, actor Actor, task *domain.Task) (*domain.Task, error) {
	if !s.access.CanManageTasks(ctx, task.ProjectID, actor.TelegramID, actor.Role) {
		return nil, domain.ErrForbidden
	}

	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	task.Status = domain.ParseTaskStatus(string(task.Status))
	if task.Author == "" {
		task.Author = s.access.ResolveDisplayName(ctx, actor.TelegramID)
	}
	s.resolveAssignee(ctx, task)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.notifyAssignee(ctx, task)

	return s.taskRepo.GetByID(ctx, task.ID)
}

// Update directly edits task fields, including status. This is the
// management escape hatch: the status may be set to any of the five
// values, bypassing the submit/review handshake.
func (s *TaskService) Update(ctx context.Context, actor Actor, task *domain.Task) (*domain.Task, error) {
	existing, err := s.taskRepo.GetByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	// Права проверяются по проекту сохраненной задачи: id_project из
	// тела запроса не является свидетельством и не может переносить
	// задачу между проектами
	if !s.access.CanManageTasks(ctx, existing.ProjectID, actor.TelegramID, actor.Role) {
		return nil, domain.ErrForbidden
	}
	task.ProjectID = existing.ProjectID

	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	task.Status = domain.ParseTaskStatus(string(task.Status))
	s.resolveAssignee(ctx, task)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, task.ID)
}

// Delete removes a task unconditionally once management rights are confirmed
func (s *TaskService) Delete(ctx context.Context, actor Actor, taskID int) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if !s.access.CanManageTasks(ctx, task.ProjectID, actor.TelegramID, actor.Role) {
		return domain.ErrForbidden
	}

	return s.taskRepo.Delete(ctx, taskID)
}

// SubmitCompletion moves a task to "На проверке" with the performer's
// note. Any authenticated user may submit, not only the assignee of
// record: assignee matching by username is best-effort and may not
// identify the actual performer.
func (s *TaskService) SubmitCompletion(ctx context.Context, actor Actor, taskID int, message string) (*domain.Task, error) {
	if actor.TelegramID == 0 {
		return nil, domain.ErrForbidden
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanSubmitCompletion() {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.taskRepo.SubmitCompletion(ctx, taskID, strings.TrimSpace(message)); err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, taskID)
}

// Review records the reviewer's verdict: approve moves the task to
// "Выполнена", reject to "Отклонена". A rejected task can be submitted
// again, rejection means rework rather than abandonment.
func (s *TaskService) Review(ctx context.Context, actor Actor, taskID int, approved bool, message string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !s.access.CanReviewTasks(ctx, task.ProjectID, actor.TelegramID, actor.Role) {
		return nil, domain.ErrForbidden
	}
	if !task.Status.CanReview() {
		return nil, domain.ErrInvalidTransition
	}

	reviewer := s.access.ResolveDisplayName(ctx, actor.TelegramID)
	status := domain.ReviewVerdict(approved)

	err = s.taskRepo.Review(ctx, taskID, status, reviewer, strings.TrimSpace(message), time.Now().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, taskID)
}

// resolveAssignee разрешает введенный вручную username исполнителя в
// telegram id через справочник. Промах не ошибка: задача остается с
// нулевым id и уведомление просто не уйдет.
func (s *TaskService) resolveAssignee(ctx context.Context, task *domain.Task) {
	if task.AssigneeID != 0 || task.Assignee == "" {
		return
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Debug("Task assignee not resolved", "assignee", task.Assignee, "error", err)
		return
	}

	identity, ok := directory.Build(users).Resolve(task.Assignee)
	if !ok {
		s.logger.Debug("Task assignee not resolved", "assignee", task.Assignee)
		return
	}
	task.AssigneeID = identity.TelegramID
}

func (s *TaskService) notifyAssignee(ctx context.Context, task *domain.Task) {
	if task.AssigneeID == 0 {
		return
	}

	projectTitle := ""
	if project, err := s.projectRepo.GetByID(ctx, task.ProjectID); err == nil {
		projectTitle = project.Title
	}

	deadline := ""
	if task.Deadline != "" {
		if t, err := time.Parse("2006-01-02", task.Deadline); err == nil {
			deadline = t.Format("02.01.2006")
		}
	}

	message := fmt.Sprintf(
		"📌 Вам пришла новая задача:\n\n"+
			"Проект: %s\n"+
			"Задача: %s\n"+
			"Описание: %s\n\n"+
			"👤 Исполнитель: %s\n"+
			"✍️ Автор: %s\n"+
			"⏰ Дедлайн: %s\n"+
			"🆔 ID задачи: %d",
		projectTitle,
		task.Title,
		task.Description,
		task.Assignee,
		task.Author,
		deadline,
		task.ID,
	)

	s.notifier.Send(ctx, task.AssigneeID, message)
}
