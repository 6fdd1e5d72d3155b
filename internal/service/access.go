package service

import (
	"context"

	"github.com/aidar/taskhub/internal/permissions"
	"github.com/aidar/taskhub/internal/repository"
)

// Actor представляет аутентифицированного пользователя, от имени
// которого выполняется операция (данные из JWT claims)
type Actor struct {
	TelegramID int64
	Username   string
	Role       string
}

// AccessService отвечает на вопросы авторизации: что пользователю
// разрешено делать в рамках проекта. Сервис только вычисляет решение
// из уже загруженных ролей, все правила лежат в пакете permissions.
type AccessService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewAccessService creates a new AccessService
func NewAccessService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *AccessService {
	return &AccessService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// EffectiveRole возвращает актуальную глобальную роль пользователя из
// справочника. Роль из JWT используется как запасной вариант: токен
// живет сутки, а роли редактируются чаще.
func (s *AccessService) EffectiveRole(ctx context.Context, telegramID int64, fallback string) string {
	if telegramID == 0 {
		return fallback
	}
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil || user.Role == "" {
		return fallback
	}
	return user.Role
}

// ProjectCapabilities вычисляет права пользователя в проекте
func (s *AccessService) ProjectCapabilities(ctx context.Context, projectID int, telegramID int64, fallbackRole string) permissions.Capabilities {
	globalRole := s.EffectiveRole(ctx, telegramID, fallbackRole)
	membershipRole, isMember := s.memberRole(ctx, projectID, telegramID)

	return permissions.Evaluate(
		permissions.ParseRoles(globalRole),
		permissions.ParseRoles(membershipRole),
		isMember,
	)
}

// CanManageMembers проверяет право управлять составом проектов
func (s *AccessService) CanManageMembers(ctx context.Context, telegramID int64, fallbackRole string) bool {
	return permissions.CanManageMembers(s.EffectiveRole(ctx, telegramID, fallbackRole))
}

// CanManageTasks проверяет право управлять задачами проекта
func (s *AccessService) CanManageTasks(ctx context.Context, projectID int, telegramID int64, fallbackRole string) bool {
	if projectID == 0 {
		// Без проекта решают только глобальные права
		return permissions.IsAdmin(permissions.ParseRoles(s.EffectiveRole(ctx, telegramID, fallbackRole)))
	}
	return s.ProjectCapabilities(ctx, projectID, telegramID, fallbackRole).ManageTasks
}

// CanReviewTasks проверяет право проверять выполнение задач проекта
func (s *AccessService) CanReviewTasks(ctx context.Context, projectID int, telegramID int64, fallbackRole string) bool {
	return s.ProjectCapabilities(ctx, projectID, telegramID, fallbackRole).ReviewTasks
}

// memberRole возвращает роль участия пользователя в проекте.
// Совпадение ищется по telegram id и по каноническому ключу username.
func (s *AccessService) memberRole(ctx context.Context, projectID int, telegramID int64) (string, bool) {
	if projectID == 0 || telegramID == 0 {
		return "", false
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return "", false
	}

	username := ""
	if user, err := s.userRepo.GetByTelegramID(ctx, telegramID); err == nil {
		username = user.Username
	}

	return project.MemberRole(telegramID, username)
}

// ResolveDisplayName возвращает отображаемое имя пользователя для
// фиксации авторства (например, кто вынес вердикт по задаче)
func (s *AccessService) ResolveDisplayName(ctx context.Context, telegramID int64) string {
	if telegramID == 0 {
		return ""
	}
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return ""
	}
	return user.DisplayName()
}
