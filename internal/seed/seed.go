package seed

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/types"
)

// SeedData creates a small development dataset: three users, one
// shared project with different roles, and a handful of tasks.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	existing, err := repos.UserRepo.FindByEmail(ctx, "alice@taskforge.dev")
	if err != nil || existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] Creating development data...")

	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	alice := &repository.User{Email: "alice@taskforge.dev", Password: string(password), Name: "Alice Moran"}
	bob := &repository.User{Email: "bob@taskforge.dev", Password: string(password), Name: "Bob Tanaka"}
	vera := &repository.User{Email: "vera@taskforge.dev", Password: string(password), Name: "Vera Lindqvist"}
	for _, u := range []*repository.User{alice, bob, vera} {
		if err := repos.UserRepo.Create(ctx, u); err != nil {
			log.Printf("[Seed] failed to create user %s: %v", u.Email, err)
			return
		}
	}

	desc := "Internal tooling and dashboard work"
	project := &repository.Project{Name: "Platform", Description: &desc, OwnerID: alice.ID}
	if err := repos.ProjectRepo.Create(ctx, project); err != nil {
		log.Printf("[Seed] failed to create project: %v", err)
		return
	}

	members := []*repository.ProjectMember{
		{ProjectID: project.ID, UserID: alice.ID, Role: types.RoleOwner},
		{ProjectID: project.ID, UserID: bob.ID, Role: types.RoleMember},
		{ProjectID: project.ID, UserID: vera.ID, Role: types.RoleViewer},
	}
	for _, m := range members {
		if err := repos.ProjectRepo.AddMember(ctx, m); err != nil {
			log.Printf("[Seed] failed to add member: %v", err)
		}
	}

	due := time.Now().AddDate(0, 0, 7)
	tasks := []*repository.Task{
		{
			Title:     "Set up CI pipeline",
			Status:    types.StatusInProgress,
			Priority:  types.PriorityHigh,
			ProjectID: project.ID,
			CreatorID: alice.ID,
			AssigneeID: &bob.ID,
			DueDate:   &due,
			Tags:      []string{"infra"},
		},
		{
			Title:     "Write onboarding docs",
			Status:    types.StatusTodo,
			Priority:  types.PriorityMedium,
			ProjectID: project.ID,
			CreatorID: bob.ID,
			Tags:      []string{"docs"},
		},
		{
			Title:     "Fix flaky dashboard test",
			Status:    types.StatusDone,
			Priority:  types.PriorityLow,
			ProjectID: project.ID,
			CreatorID: alice.ID,
			Tags:      []string{},
		},
	}
	for _, t := range tasks {
		if err := repos.TaskRepo.Create(ctx, t); err != nil {
			log.Printf("[Seed] failed to create task %q: %v", t.Title, err)
		}
	}

	log.Println("[Seed] Development data ready")
}
