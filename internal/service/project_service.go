package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/types"
)

// ============================================
// Project Service
// ============================================

type CreateProjectRequest struct {
	Name        string
	Description *string
}

type UpdateProjectRequest struct {
	Name        *string
	Description *string
}

type ProjectService interface {
	Create(ctx context.Context, userID string, req *CreateProjectRequest) (*repository.Project, error)
	GetByID(ctx context.Context, projectID, userID string) (*repository.Project, error)
	ListMine(ctx context.Context, userID string) ([]*repository.Project, error)
	Update(ctx context.Context, projectID, userID string, req *UpdateProjectRequest) (*repository.Project, error)
	Delete(ctx context.Context, projectID, userID string) error

	AddMember(ctx context.Context, projectID, userID, newMemberID, role string) (*repository.ProjectMember, error)
	ListMembers(ctx context.Context, projectID, userID string) ([]*repository.ProjectMember, error)
	UpdateMemberRole(ctx context.Context, projectID, userID, memberID, role string) error
	RemoveMember(ctx context.Context, projectID, userID, memberID string) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	access      *accessResolver
}

func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, access *accessResolver) ProjectService {
	return &projectService{projectRepo: projectRepo, userRepo: userRepo, access: access}
}

// Create inserts the project and the creator's OWNER membership row.
func (s *projectService) Create(ctx context.Context, userID string, req *CreateProjectRequest) (*repository.Project, error) {
	if req.Name == "" {
		return nil, ErrInvalidInput
	}

	project := &repository.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	member := &repository.ProjectMember{
		ProjectID: project.ID,
		UserID:    userID,
		Role:      types.RoleOwner,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add owner membership: %w", err)
	}

	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, projectID, userID string) (*repository.Project, error) {
	project, _, err := s.access.ScopedProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListMine(ctx context.Context, userID string) ([]*repository.Project, error) {
	return s.projectRepo.FindByMemberUserID(ctx, userID)
}

func (s *projectService) Update(ctx context.Context, projectID, userID string, req *UpdateProjectRequest) (*repository.Project, error) {
	project, role, err := s.access.ScopedProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !RoleCan(role, OpManageMembers) {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrInvalidInput
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, projectID, userID string) error {
	project, role, err := s.access.ScopedProject(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if role != types.RoleOwner {
		return ErrForbidden
	}
	return s.projectRepo.Delete(ctx, project.ID)
}

// ============================================
// Membership
// ============================================

func (s *projectService) AddMember(ctx context.Context, projectID, userID, newMemberID, role string) (*repository.ProjectMember, error) {
	if !types.IsValidRole(role) {
		return nil, ErrInvalidInput
	}

	_, callerRole, err := s.access.ScopedProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !RoleCan(callerRole, OpManageMembers) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, newMemberID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	existing, err := s.projectRepo.FindMember(ctx, projectID, newMemberID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberExists
	}

	member := &repository.ProjectMember{
		ProjectID: projectID,
		UserID:    newMemberID,
		Role:      role,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

func (s *projectService) ListMembers(ctx context.Context, projectID, userID string) ([]*repository.ProjectMember, error) {
	if _, _, err := s.access.ScopedProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	// highest privilege first; display ordering only
	sort.SliceStable(members, func(i, j int) bool {
		return roleRank(members[i].Role) > roleRank(members[j].Role)
	})
	return members, nil
}

func (s *projectService) UpdateMemberRole(ctx context.Context, projectID, userID, memberID, role string) error {
	if !types.IsValidRole(role) {
		return ErrInvalidInput
	}

	_, callerRole, err := s.access.ScopedProject(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !RoleCan(callerRole, OpManageMembers) {
		return ErrForbidden
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotFound
	}

	if member.Role == types.RoleOwner && role != types.RoleOwner {
		if err := s.ensureNotLastOwner(ctx, projectID); err != nil {
			return err
		}
	}

	return s.projectRepo.UpdateMemberRole(ctx, projectID, memberID, role)
}

func (s *projectService) RemoveMember(ctx context.Context, projectID, userID, memberID string) error {
	_, callerRole, err := s.access.ScopedProject(ctx, projectID, userID)
	if err != nil {
		return err
	}
	// members may leave on their own; removing someone else needs the capability
	if userID != memberID && !RoleCan(callerRole, OpManageMembers) {
		return ErrForbidden
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotFound
	}

	if member.Role == types.RoleOwner {
		if err := s.ensureNotLastOwner(ctx, projectID); err != nil {
			return err
		}
	}

	return s.projectRepo.RemoveMember(ctx, projectID, memberID)
}

func (s *projectService) ensureNotLastOwner(ctx context.Context, projectID string) error {
	owners, err := s.projectRepo.CountMembersWithRole(ctx, projectID, types.RoleOwner)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return ErrLastOwner
	}
	return nil
}
