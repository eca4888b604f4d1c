package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/repository/mocks"
	"github.com/taskforge-labs/taskforge-backend/internal/types"
)

type projectServiceFixture struct {
	projectRepo *mocks.ProjectRepository
	userRepo    *mocks.UserRepository
	svc         ProjectService
}

func newProjectServiceFixture() *projectServiceFixture {
	f := &projectServiceFixture{
		projectRepo: new(mocks.ProjectRepository),
		userRepo:    new(mocks.UserRepository),
	}
	access := newAccessResolver(new(mocks.TaskRepository), f.projectRepo)
	f.svc = NewProjectService(f.projectRepo, f.userRepo, access)
	return f
}

func (f *projectServiceFixture) scoped(projectID, userID, role string) {
	f.projectRepo.On("FindByID", mock.Anything, projectID).
		Return(&repository.Project{ID: projectID, Name: "Website", OwnerID: "owner"}, nil)
	f.projectRepo.On("FindMember", mock.Anything, projectID, userID).
		Return(&repository.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}, nil)
}

func TestProjectCreate_AddsOwnerMembership(t *testing.T) {
	f := newProjectServiceFixture()
	f.projectRepo.On("Create", mock.Anything, mock.AnythingOfType("*repository.Project")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*repository.Project).ID = "p1"
		}).
		Return(nil)
	f.projectRepo.On("AddMember", mock.Anything, mock.MatchedBy(func(m *repository.ProjectMember) bool {
		return m.ProjectID == "p1" && m.UserID == "u1" && m.Role == types.RoleOwner
	})).Return(nil)

	project, err := f.svc.Create(context.Background(), "u1", &CreateProjectRequest{Name: "Website"})
	require.NoError(t, err)
	require.Equal(t, "u1", project.OwnerID)
	f.projectRepo.AssertExpectations(t)
}

func TestProjectGetByID_NonMemberIsNotFound(t *testing.T) {
	f := newProjectServiceFixture()
	f.projectRepo.On("FindByID", mock.Anything, "p1").
		Return(&repository.Project{ID: "p1", OwnerID: "owner"}, nil)
	f.projectRepo.On("FindMember", mock.Anything, "p1", "outsider").Return(nil, nil)

	_, err := f.svc.GetByID(context.Background(), "p1", "outsider")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProjectDelete_RequiresOwnerRole(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "admin", types.RoleAdmin)

	err := f.svc.Delete(context.Background(), "p1", "admin")
	require.ErrorIs(t, err, ErrForbidden)
	f.projectRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAddMember_MemberRoleForbidden(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "bob", types.RoleMember)

	_, err := f.svc.AddMember(context.Background(), "p1", "bob", "carol", types.RoleViewer)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAddMember_UnknownUserIsNotFound(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "admin", types.RoleAdmin)
	f.userRepo.On("FindByID", mock.Anything, "ghost").Return(nil, nil)

	_, err := f.svc.AddMember(context.Background(), "p1", "admin", "ghost", types.RoleViewer)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddMember_DuplicateIsConflict(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "admin", types.RoleAdmin)
	f.userRepo.On("FindByID", mock.Anything, "carol").Return(&repository.User{ID: "carol"}, nil)
	f.projectRepo.On("FindMember", mock.Anything, "p1", "carol").
		Return(&repository.ProjectMember{ProjectID: "p1", UserID: "carol", Role: types.RoleViewer}, nil)

	_, err := f.svc.AddMember(context.Background(), "p1", "admin", "carol", types.RoleMember)
	require.ErrorIs(t, err, ErrMemberExists)
}

func TestAddMember_RejectsUnknownRole(t *testing.T) {
	f := newProjectServiceFixture()
	_, err := f.svc.AddMember(context.Background(), "p1", "admin", "carol", "SUPERUSER")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateMemberRole_LastOwnerCannotBeDemoted(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "owner", types.RoleOwner)
	f.projectRepo.On("FindMember", mock.Anything, "p1", "owner").
		Return(&repository.ProjectMember{ProjectID: "p1", UserID: "owner", Role: types.RoleOwner}, nil)
	f.projectRepo.On("CountMembersWithRole", mock.Anything, "p1", types.RoleOwner).Return(1, nil)

	err := f.svc.UpdateMemberRole(context.Background(), "p1", "owner", "owner", types.RoleAdmin)
	require.ErrorIs(t, err, ErrLastOwner)
}

func TestRemoveMember_LastOwnerCannotLeave(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "owner", types.RoleOwner)
	f.projectRepo.On("FindMember", mock.Anything, "p1", "owner").
		Return(&repository.ProjectMember{ProjectID: "p1", UserID: "owner", Role: types.RoleOwner}, nil)
	f.projectRepo.On("CountMembersWithRole", mock.Anything, "p1", types.RoleOwner).Return(1, nil)

	err := f.svc.RemoveMember(context.Background(), "p1", "owner", "owner")
	require.ErrorIs(t, err, ErrLastOwner)
}

func TestRemoveMember_SelfLeaveWithoutManageCapability(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "bob", types.RoleMember)
	f.projectRepo.On("FindMember", mock.Anything, "p1", "bob").
		Return(&repository.ProjectMember{ProjectID: "p1", UserID: "bob", Role: types.RoleMember}, nil)
	f.projectRepo.On("RemoveMember", mock.Anything, "p1", "bob").Return(nil)

	require.NoError(t, f.svc.RemoveMember(context.Background(), "p1", "bob", "bob"))
	f.projectRepo.AssertExpectations(t)
}

func TestRemoveMember_MemberCannotRemoveOthers(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "bob", types.RoleMember)

	err := f.svc.RemoveMember(context.Background(), "p1", "bob", "carol")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestListMembers_SortedByPrivilege(t *testing.T) {
	f := newProjectServiceFixture()
	f.scoped("p1", "bob", types.RoleMember)
	f.projectRepo.On("ListMembers", mock.Anything, "p1").Return([]*repository.ProjectMember{
		{UserID: "v", Role: types.RoleViewer},
		{UserID: "o", Role: types.RoleOwner},
		{UserID: "m", Role: types.RoleMember},
		{UserID: "a", Role: types.RoleAdmin},
	}, nil)

	members, err := f.svc.ListMembers(context.Background(), "p1", "bob")
	require.NoError(t, err)
	roles := []string{members[0].Role, members[1].Role, members[2].Role, members[3].Role}
	require.Equal(t, []string{types.RoleOwner, types.RoleAdmin, types.RoleMember, types.RoleViewer}, roles)
}
