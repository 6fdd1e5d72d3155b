package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/taskhub/internal/domain"
	"github.com/aidar/taskhub/internal/notify"
)

// In-memory реализации репозиториев для unit-тестов сервисов

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for i := range users {
		repo.users[users[i].TelegramID] = &users[i]
	}
	return repo
}

func (r *fakeUserRepo) CreateOrUpdate(_ context.Context, user *domain.User) error {
	clone := *user
	r.users[user.TelegramID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	user, ok := r.users[telegramID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	key := domain.CanonicalUsername(username)
	for _, user := range r.users {
		if domain.CanonicalUsername(user.Username) == key {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *fakeUserRepo) Search(ctx context.Context, _ string) ([]domain.User, error) {
	return r.List(ctx)
}

type fakeProjectRepo struct {
	projects map[int]*domain.Project
}

func newFakeProjectRepo(projects ...domain.Project) *fakeProjectRepo {
	repo := &fakeProjectRepo{projects: make(map[int]*domain.Project)}
	for i := range projects {
		repo.projects[projects[i].ID] = &projects[i]
	}
	return repo
}

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	project.ID = len(r.projects) + 1
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, projectID int) (*domain.Project, error) {
	project, ok := r.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *project
	return &clone, nil
}

func (r *fakeProjectRepo) List(_ context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	for _, project := range r.projects {
		projects = append(projects, *project)
	}
	return projects, nil
}

func (r *fakeProjectRepo) UpdateStatus(_ context.Context, projectID int, status string) error {
	project, ok := r.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	project.Status = status
	return nil
}

func (r *fakeProjectRepo) AddMember(_ context.Context, projectID int, member domain.ProjectMember) error {
	project, ok := r.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	if project.HasMember(member.Username) {
		return domain.ErrMemberExists
	}
	project.Members = append(project.Members, member)
	return nil
}

func (r *fakeProjectRepo) UpdateMemberRole(_ context.Context, projectID int, username, role string) error {
	project, ok := r.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	key := domain.CanonicalUsername(username)
	for i := range project.Members {
		if domain.CanonicalUsername(project.Members[i].Username) == key {
			project.Members[i].Role = role
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeProjectRepo) RemoveMember(_ context.Context, projectID int, username string) error {
	project, ok := r.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	key := domain.CanonicalUsername(username)
	for i := range project.Members {
		if domain.CanonicalUsername(project.Members[i].Username) == key {
			project.Members = append(project.Members[:i], project.Members[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeTaskRepo struct {
	tasks  map[int]*domain.Task
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int]*domain.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.nextID++
	task.ID = r.nextID
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, taskID int) (*domain.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (r *fakeTaskRepo) GetByProjectID(_ context.Context, projectID int) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range r.tasks {
		if task.ProjectID == projectID {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	existing, ok := r.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Deadline = task.Deadline
	existing.Status = task.Status
	existing.Assignee = task.Assignee
	existing.AssigneeID = task.AssigneeID
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, taskID int) error {
	if _, ok := r.tasks[taskID]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

func (r *fakeTaskRepo) SubmitCompletion(_ context.Context, taskID int, message string) error {
	task, ok := r.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.Status = domain.StatusPendingReview
	task.CompletionMessage = message
	task.ReviewMessage = ""
	task.ReviewedBy = ""
	task.ReviewedAt = ""
	return nil
}

func (r *fakeTaskRepo) Review(_ context.Context, taskID int, status domain.TaskStatus, reviewer, message, reviewedAt string) error {
	task, ok := r.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.Status = status
	task.ReviewMessage = message
	task.ReviewedBy = reviewer
	task.ReviewedAt = reviewedAt
	return nil
}

// Тестовое окружение: проект №1 с руководителем и разработчиком,
// плюс админ и посторонний пользователь вне проекта
func newTaskServiceEnv() (*TaskService, *fakeTaskRepo) {
	users := newFakeUserRepo(
		domain.User{TelegramID: 1, Username: "admin", FullName: "Главный Админ", Role: "Админ"},
		domain.User{TelegramID: 2, Username: "lead", FullName: "Лидер Проекта", Role: "Разработчик"},
		domain.User{TelegramID: 3, Username: "dev", FullName: "Просто Разработчик", Role: "Разработчик"},
		domain.User{TelegramID: 4, Username: "outsider", FullName: "Посторонний", Role: "Разработчик"},
	)
	projects := newFakeProjectRepo(domain.Project{
		ID:     1,
		Title:  "Запуск приложения",
		Status: "В работе",
		Members: []domain.ProjectMember{
			{Username: "lead", Role: "Руководитель", TelegramID: 2},
			{Username: "dev", Role: "Участник", TelegramID: 3},
		},
	})
	tasks := newFakeTaskRepo()

	access := NewAccessService(users, projects)
	logger := slog.Default()
	notifier := notify.New("", false, logger)

	return NewTaskService(tasks, projects, users, access, notifier, logger), tasks
}

func TestCreateTask_Defaults(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()

	task, err := svc.Create(ctx, Actor{TelegramID: 2, Role: "Разработчик"}, &domain.Task{
		ProjectID: 1,
		Title:     "Fix bug",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNew, task.Status)
	assert.Empty(t, task.Assignee)
	assert.Zero(t, task.AssigneeID)
	assert.Empty(t, task.Deadline)
	assert.Equal(t, "Лидер Проекта", task.Author, "автор фиксируется при создании")
}

func TestCreateTask_BlankTitleRejected(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()

	_, err := svc.Create(ctx, Actor{TelegramID: 2, Role: "Разработчик"}, &domain.Task{
		ProjectID: 1,
		Title:     "   \t  ",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestCreateTask_PermissionDenied(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()

	// Рядовой участник без роли руководителя
	_, err := svc.Create(ctx, Actor{TelegramID: 3, Role: "Разработчик"}, &domain.Task{
		ProjectID: 1,
		Title:     "Fix bug",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Посторонний, даже не участник
	_, err = svc.Create(ctx, Actor{TelegramID: 4, Role: "Разработчик"}, &domain.Task{
		ProjectID: 1,
		Title:     "Fix bug",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateTask_AssigneeResolution(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()

	task, err := svc.Create(ctx, Actor{TelegramID: 1, Role: "Админ"}, &domain.Task{
		ProjectID: 1,
		Title:     "Сверстать экран",
		Assignee:  "@Dev",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), task.AssigneeID)

	// Опечатка в username не ломает создание, задача остается
	// с неразрешенным исполнителем
	task, err = svc.Create(ctx, Actor{TelegramID: 1, Role: "Админ"}, &domain.Task{
		ProjectID: 1,
		Title:     "Другая задача",
		Assignee:  "@Devv",
	})
	require.NoError(t, err)
	assert.Zero(t, task.AssigneeID)
}

func TestSubmitAndReviewFlow(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()
	lead := Actor{TelegramID: 2, Role: "Разработчик"}
	dev := Actor{TelegramID: 3, Role: "Разработчик"}

	task, err := svc.Create(ctx, lead, &domain.Task{ProjectID: 1, Title: "Fix bug", Assignee: "dev"})
	require.NoError(t, err)

	// Исполнитель отправляет выполнение
	task, err = svc.SubmitCompletion(ctx, dev, task.ID, "готово, смотрите ветку fix/bug")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, task.Status)
	assert.Equal(t, "готово, смотрите ветку fix/bug", task.CompletionMessage)

	// Повторная отправка из статуса "На проверке" невозможна
	_, err = svc.SubmitCompletion(ctx, dev, task.ID, "еще раз")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Руководитель отклоняет
	task, err = svc.Review(ctx, lead, task.ID, false, "не хватает тестов")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, task.Status)
	assert.Equal(t, "не хватает тестов", task.ReviewMessage)
	assert.Equal(t, "Лидер Проекта", task.ReviewedBy)

	// Доработка и повторная отправка, прошлый вердикт очищается
	task, err = svc.SubmitCompletion(ctx, dev, task.ID, "добавил тесты")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, task.Status)
	assert.Empty(t, task.ReviewMessage)
	assert.Empty(t, task.ReviewedBy)

	// Принятие
	task, err = svc.Review(ctx, lead, task.ID, true, "ок")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, task.Status)
	assert.NotEmpty(t, task.ReviewedAt)
}

func TestReview_RequiresPendingReview(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()
	lead := Actor{TelegramID: 2, Role: "Разработчик"}

	task, err := svc.Create(ctx, lead, &domain.Task{ProjectID: 1, Title: "Fix bug"})
	require.NoError(t, err)

	_, err = svc.Review(ctx, lead, task.ID, true, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReview_PermissionDenied(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()
	lead := Actor{TelegramID: 2, Role: "Разработчик"}
	dev := Actor{TelegramID: 3, Role: "Разработчик"}

	task, err := svc.Create(ctx, lead, &domain.Task{ProjectID: 1, Title: "Fix bug"})
	require.NoError(t, err)

	_, err = svc.SubmitCompletion(ctx, dev, task.ID, "")
	require.NoError(t, err)

	// Рядовой участник не может проверять
	_, err = svc.Review(ctx, dev, task.ID, true, "сам себе принял")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSubmitCompletion_AnyAuthenticatedUser(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()
	lead := Actor{TelegramID: 2, Role: "Разработчик"}

	task, err := svc.Create(ctx, lead, &domain.Task{ProjectID: 1, Title: "Fix bug", Assignee: "dev"})
	require.NoError(t, err)

	// Отправить выполнение может любой аутентифицированный пользователь,
	// не только назначенный исполнитель
	outsider := Actor{TelegramID: 4, Role: "Разработчик"}
	task, err = svc.SubmitCompletion(ctx, outsider, task.ID, "сделал за коллегу")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, task.Status)

	// Но не анонимный
	_, err = svc.SubmitCompletion(ctx, Actor{}, task.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateTask_StatusEscapeHatch(t *testing.T) {
	svc, _ := newTaskServiceEnv()
	ctx := context.Background()
	admin := Actor{TelegramID: 1, Role: "Админ"}

	task, err := svc.Create(ctx, admin, &domain.Task{ProjectID: 1, Title: "Fix bug"})
	require.NoError(t, err)

	// Прямое редактирование может выставить любой статус, минуя
	// цикл отправки и проверки
	task.Status = domain.StatusDone
	updated, err := svc.Update(ctx, admin, task)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)

	// Нераспознанный статус нормализуется в "Новая"
	updated.Status = domain.TaskStatus("Из старой версии")
	updated, err = svc.Update(ctx, admin, updated)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, updated.Status)
}

func TestUpdateTask_ChecksStoredProject(t *testing.T) {
	// Руководитель чужого проекта не должен редактировать задачу,
	// подставив id своего проекта в тело запроса
	users := newFakeUserRepo(
		domain.User{TelegramID: 1, Username: "admin", FullName: "Главный Админ", Role: "Админ"},
		domain.User{TelegramID: 5, Username: "rival", FullName: "Чужой Руководитель", Role: "Разработчик"},
	)
	projects := newFakeProjectRepo(
		domain.Project{
			ID:     1,
			Title:  "Запуск приложения",
			Status: "В работе",
		},
		domain.Project{
			ID:     2,
			Title:  "Другой проект",
			Status: "В работе",
			Members: []domain.ProjectMember{
				{Username: "rival", Role: "Руководитель", TelegramID: 5},
			},
		},
	)
	tasks := newFakeTaskRepo()
	access := NewAccessService(users, projects)
	logger := slog.Default()
	svc := NewTaskService(tasks, projects, users, access, notify.New("", false, logger), logger)
	ctx := context.Background()

	task, err := svc.Create(ctx, Actor{TelegramID: 1, Role: "Админ"}, &domain.Task{
		ProjectID: 1,
		Title:     "Fix bug",
	})
	require.NoError(t, err)

	attack := *task
	attack.ProjectID = 2
	attack.Title = "Defaced"
	attack.Status = domain.StatusDone

	_, err = svc.Update(ctx, Actor{TelegramID: 5, Role: "Разработчик"}, &attack)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix bug", stored.Title)
	assert.Equal(t, domain.StatusNew, stored.Status)

	// Легитимное обновление не переносит задачу в другой проект
	moved := *task
	moved.ProjectID = 2
	updated, err := svc.Update(ctx, Actor{TelegramID: 1, Role: "Админ"}, &moved)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ProjectID)
}

func TestDeleteTask(t *testing.T) {
	svc, tasks := newTaskServiceEnv()
	ctx := context.Background()
	admin := Actor{TelegramID: 1, Role: "Админ"}

	task, err := svc.Create(ctx, admin, &domain.Task{ProjectID: 1, Title: "Временная"})
	require.NoError(t, err)

	// Без прав удаление запрещено
	err = svc.Delete(ctx, Actor{TelegramID: 3, Role: "Разработчик"}, task.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, admin, task.ID))
	_, err = tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = svc.Delete(ctx, admin, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
