package service

import (
	"context"
	"strings"

	"github.com/aidar/taskhub/internal/domain"
	"github.com/aidar/taskhub/internal/permissions"
	"github.com/aidar/taskhub/internal/repository"
)

// ProjectService handles business logic for projects and their members
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	access      *AccessService
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, access *AccessService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		access:      access,
	}
}

// List returns all projects with members
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projectRepo.List(ctx)
}

// GetByID retrieves a project with all members
func (s *ProjectService) GetByID(ctx context.Context, projectID int) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, projectID)
}

// Create creates a new project. Admin only.
func (s *ProjectService) Create(ctx context.Context, actor Actor, project *domain.Project) (*domain.Project, error) {
	if !s.access.CanManageMembers(ctx, actor.TelegramID, actor.Role) {
		return nil, domain.ErrForbidden
	}

	project.Title = strings.TrimSpace(project.Title)
	if project.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if project.Status == "" {
		project.Status = "В работе"
	}

	for i := range project.Members {
		if err := validateMemberRole(project.Members[i].Role); err != nil {
			return nil, err
		}
		project.Members[i].Role = permissions.NormalizeMemberRole(project.Members[i].Role)
		s.enrichMember(ctx, &project.Members[i])
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	return s.projectRepo.GetByID(ctx, project.ID)
}

// UpdateStatus updates the project status. Admin only.
func (s *ProjectService) UpdateStatus(ctx context.Context, actor Actor, projectID int, status string) error {
	if !s.access.CanManageMembers(ctx, actor.TelegramID, actor.Role) {
		return domain.ErrForbidden
	}

	status = strings.TrimSpace(status)
	if status == "" {
		return domain.ErrEmptyStatus
	}

	return s.projectRepo.UpdateStatus(ctx, projectID, status)
}

// AddMember adds a member to the project. Admin only.
func (s *ProjectService) AddMember(ctx context.Context, actor Actor, projectID int, member domain.ProjectMember) error {
	if !s.access.CanManageMembers(ctx, actor.TelegramID, actor.Role) {
		return domain.ErrForbidden
	}
	if domain.CanonicalUsername(member.Username) == "" {
		return domain.ErrUserNotFound
	}
	if err := validateMemberRole(member.Role); err != nil {
		return err
	}

	member.Role = permissions.NormalizeMemberRole(member.Role)
	s.enrichMember(ctx, &member)

	return s.projectRepo.AddMember(ctx, projectID, member)
}

// enrichMember подтягивает учетную запись из справочника, если она там
// есть: участника разрешено добавить и по одному username
func (s *ProjectService) enrichMember(ctx context.Context, member *domain.ProjectMember) {
	user, err := s.userRepo.GetByUsername(ctx, member.Username)
	if err != nil {
		return
	}
	if member.FullName == "" {
		member.FullName = user.DisplayName()
	}
	member.TelegramID = user.TelegramID
}

// UpdateMemberRole updates a member's role in the project. Admin only.
func (s *ProjectService) UpdateMemberRole(ctx context.Context, actor Actor, projectID int, username, role string) error {
	if !s.access.CanManageMembers(ctx, actor.TelegramID, actor.Role) {
		return domain.ErrForbidden
	}
	if err := validateMemberRole(role); err != nil {
		return err
	}

	return s.projectRepo.UpdateMemberRole(ctx, projectID, username, permissions.NormalizeMemberRole(role))
}

// RemoveMember removes a member from the project. Admin only.
func (s *ProjectService) RemoveMember(ctx context.Context, actor Actor, projectID int, username string) error {
	if !s.access.CanManageMembers(ctx, actor.TelegramID, actor.Role) {
		return domain.ErrForbidden
	}

	return s.projectRepo.RemoveMember(ctx, projectID, username)
}

func validateMemberRole(role string) error {
	if permissions.InvalidRoleCombo(role) {
		return domain.ErrInvalidRoleCombo
	}
	return nil
}
