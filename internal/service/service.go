package service

import (
	"errors"

	"github.com/taskforge-labs/taskforge-backend/internal/config"
	"github.com/taskforge-labs/taskforge-backend/internal/db"
	"github.com/taskforge-labs/taskforge-backend/internal/repository"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidToken        = errors.New("invalid token")
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrAssigneeNotMember   = errors.New("assignee is not a member of the project")
	ErrLastOwner           = errors.New("cannot remove or demote the last owner")
	ErrMemberExists        = errors.New("user is already a member of the project")
	ErrTimerAlreadyRunning = errors.New("an active timer already exists")
	ErrTimerNotRunning     = errors.New("time entry is not running")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth         AuthService
	Project      ProjectService
	Task         TaskService
	Notification NotificationService
	TimeEntry    TimeEntryService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config *config.Config
	Repos  *repository.Repositories
	Redis  *db.RedisDB // optional, nil-safe
}

func NewServices(deps *ServiceDeps) *Services {
	access := newAccessResolver(deps.Repos.TaskRepo, deps.Repos.ProjectRepo)

	notificationService := NewNotificationService(deps.Repos.NotificationRepo, deps.Redis)

	return &Services{
		Auth:    NewAuthService(deps.Config, deps.Repos.UserRepo),
		Project: NewProjectService(deps.Repos.ProjectRepo, deps.Repos.UserRepo, access),
		Task: NewTaskService(
			deps.Repos.TaskRepo,
			deps.Repos.ProjectRepo,
			deps.Repos.ActivityRepo,
			notificationService,
			access,
		),
		Notification: notificationService,
		TimeEntry:    NewTimeEntryService(deps.Repos.TimeEntryRepo, access),
	}
}
