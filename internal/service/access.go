package service

import (
	"context"

	"github.com/taskforge-labs/taskforge-backend/internal/repository"
)

// accessResolver is the single scoped-lookup primitive shared by every
// read and mutate path that targets a task. It conflates "does not
// exist" with "not visible to this principal": both come back as
// ErrNotFound, so no endpoint can leak cross-project resource
// existence through inconsistent status codes.
type accessResolver struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

func newAccessResolver(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *accessResolver {
	return &accessResolver{taskRepo: taskRepo, projectRepo: projectRepo}
}

// ScopedTask returns the task together with the principal's role in its
// project. ErrNotFound for an absent task AND for a task in a project
// the principal is not a member of.
func (a *accessResolver) ScopedTask(ctx context.Context, taskID, userID string) (*repository.Task, string, error) {
	task, err := a.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, "", err
	}
	if task == nil {
		return nil, "", ErrNotFound
	}

	member, err := a.projectRepo.FindMember(ctx, task.ProjectID, userID)
	if err != nil {
		return nil, "", err
	}
	if member == nil {
		return nil, "", ErrNotFound
	}

	return task, member.Role, nil
}

// ScopedProject is the project-level counterpart of ScopedTask.
func (a *accessResolver) ScopedProject(ctx context.Context, projectID, userID string) (*repository.Project, string, error) {
	project, err := a.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, "", err
	}
	if project == nil {
		return nil, "", ErrNotFound
	}

	member, err := a.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		return nil, "", err
	}
	if member == nil {
		return nil, "", ErrNotFound
	}

	return project, member.Role, nil
}
