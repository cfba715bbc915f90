package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/domain/user"
)

func newRoleFixture() (*fakeRoleRepo, project.Role) {
	projectID := uuid.New()
	role := project.Role{ID: uuid.New(), ProjectID: projectID, Name: "Backend", Skills: roleSkills("Go", "SQL")}
	return &fakeRoleRepo{projects: map[uuid.UUID]bool{projectID: true}, roles: []project.Role{role}}, role
}

func TestProjectRole_ListRoles(t *testing.T) {
	repo, role := newRoleFixture()
	u := NewProjectRoleUsecase(newFakeUserRepo(), repo, nil)

	roles, err := u.ListRoles(context.Background(), role.ProjectID)
	if err != nil || len(roles) != 1 {
		t.Fatalf("expected one role, got %v %v", roles, err)
	}
	if _, err := u.ListRoles(context.Background(), uuid.New()); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectRole_AddSkillRejectsCaseInsensitiveDuplicate(t *testing.T) {
	repo, role := newRoleFixture()
	n := &recordingNotifier{}
	u := NewProjectRoleUsecase(newFakeUserRepo(), repo, n)

	if _, err := u.AddRoleSkill(context.Background(), role.ID, SkillInput{Name: "go", Type: "hard", Level: 50}); !errors.Is(err, ErrRoleSkillExists) {
		t.Fatalf("expected ErrRoleSkillExists, got %v", err)
	}
	if len(n.events) != 0 {
		t.Fatalf("expected no notification on rejected add")
	}

	created, err := u.AddRoleSkill(context.Background(), role.ID, SkillInput{Name: "Docker", Type: "hard", Level: 40})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.RoleID != role.ID {
		t.Fatalf("expected role id on created skill")
	}
	skills, _ := u.ListRoleSkills(context.Background(), role.ID)
	if len(skills) != 3 {
		t.Fatalf("expected 3 skills, got %d", len(skills))
	}
	if len(n.events) != 1 || n.events[0] != ScopeRole+":"+role.ID.String() {
		t.Fatalf("unexpected notifications %v", n.events)
	}
}

func TestProjectRole_DeleteSkill(t *testing.T) {
	repo, role := newRoleFixture()
	u := NewProjectRoleUsecase(newFakeUserRepo(), repo, nil)
	ctx := context.Background()

	if err := u.DeleteRoleSkill(ctx, role.ID, "SQL"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := u.DeleteRoleSkill(ctx, role.ID, "SQL"); !errors.Is(err, ErrRoleSkillNotFound) {
		t.Fatalf("expected ErrRoleSkillNotFound, got %v", err)
	}
	if err := u.DeleteRoleSkill(ctx, role.ID, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := u.DeleteRoleSkill(ctx, uuid.New(), "Go"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestProjectRole_RepositoryFailureIsInternal(t *testing.T) {
	u := NewProjectRoleUsecase(newFakeUserRepo(), &fakeRoleRepo{err: errBoom}, nil)
	if _, err := u.ListRoleSkills(context.Background(), uuid.New()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if _, err := u.ListProjects(context.Background()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal from ListProjects, got %v", err)
	}
}

func validProjectInput(name string) ProjectInput {
	return ProjectInput{
		Name:              name,
		Client:            "Acme",
		Description:       "Warehouse rollout",
		StartDate:         "2026-01-05",
		EndDate:           "2026-06-30",
		EmployeesRequired: 3,
	}
}

func TestProjectRole_CreateProject(t *testing.T) {
	users := newFakeUserRepo()
	manager := users.addEmployee("Maria", user.RoleManager)
	dev := users.addEmployee("Diego", user.RoleDeveloper)
	repo := &fakeRoleRepo{}
	n := &recordingNotifier{}
	u := NewProjectRoleUsecase(users, repo, n)
	ctx := context.Background()

	created, err := u.CreateProject(ctx, manager.UserID, validProjectInput("  Portal  "))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Portal" || created.ManagerID != manager.ID {
		t.Fatalf("unexpected project %+v", created)
	}
	if created.StartDate.Format(project.DateLayout) != "2026-01-05" {
		t.Fatalf("start date not parsed: %v", created.StartDate)
	}
	if len(n.events) != 1 || n.events[0] != ScopeProject+":"+created.ID.String() {
		t.Fatalf("unexpected notifications %v", n.events)
	}

	if _, err := u.CreateProject(ctx, manager.UserID, validProjectInput("Portal")); !errors.Is(err, ErrProjectNameTaken) {
		t.Fatalf("expected ErrProjectNameTaken, got %v", err)
	}
	if _, err := u.CreateProject(ctx, dev.UserID, validProjectInput("Other")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a developer, got %v", err)
	}
	if len(n.events) != 1 {
		t.Fatalf("rejected creates must not notify, got %v", n.events)
	}
}

func TestProjectInput_Validation(t *testing.T) {
	tests := []struct {
		name string
		edit func(*ProjectInput)
		want error
	}{
		{"ok", func(*ProjectInput) {}, nil},
		{"blank name", func(in *ProjectInput) { in.Name = "  " }, ErrInvalidInput},
		{"blank client", func(in *ProjectInput) { in.Client = "" }, ErrInvalidInput},
		{"blank description", func(in *ProjectInput) { in.Description = "" }, ErrInvalidInput},
		{"no employees", func(in *ProjectInput) { in.EmployeesRequired = 0 }, ErrInvalidEmployeesRequired},
		{"end before start", func(in *ProjectInput) { in.EndDate = "2025-12-31" }, ErrInvalidProjectDates},
		{"same day", func(in *ProjectInput) { in.EndDate = in.StartDate }, ErrInvalidProjectDates},
		{"bad date", func(in *ProjectInput) { in.StartDate = "05/01/2026" }, ErrInvalidProjectDates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProjectInput("Portal")
			tt.edit(&in)
			_, err := in.normalize()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestProjectRole_UpdateProject(t *testing.T) {
	users := newFakeUserRepo()
	manager := users.addEmployee("Maria", user.RoleManager)
	repo := &fakeRoleRepo{}
	n := &recordingNotifier{}
	u := NewProjectRoleUsecase(users, repo, n)
	ctx := context.Background()

	first, _ := u.CreateProject(ctx, manager.UserID, validProjectInput("Portal"))
	if _, err := u.CreateProject(ctx, manager.UserID, validProjectInput("Billing")); err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validProjectInput("Portal v2")
	in.EmployeesRequired = 5
	updated, err := u.UpdateProject(ctx, first.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Portal v2" || updated.EmployeesRequired != 5 || updated.ManagerID != manager.ID {
		t.Fatalf("unexpected update %+v", updated)
	}
	if _, err := u.UpdateProject(ctx, first.ID, validProjectInput("Billing")); !errors.Is(err, ErrProjectNameTaken) {
		t.Fatalf("expected ErrProjectNameTaken, got %v", err)
	}
	if _, err := u.UpdateProject(ctx, uuid.New(), validProjectInput("Ghost")); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	if n.events[len(n.events)-1] != ScopeProject+":"+first.ID.String() {
		t.Fatalf("expected project notification, got %v", n.events)
	}
}

func TestProjectRole_CreateAndUpdateRole(t *testing.T) {
	repo, existing := newRoleFixture()
	n := &recordingNotifier{}
	u := NewProjectRoleUsecase(newFakeUserRepo(), repo, n)
	ctx := context.Background()

	created, err := u.CreateRole(ctx, existing.ProjectID, RoleInput{Name: " QA ", Description: "Owns the test plan"})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if created.Name != "QA" || created.ProjectID != existing.ProjectID || created.Skills == nil {
		t.Fatalf("unexpected role %+v", created)
	}
	if _, err := u.CreateRole(ctx, existing.ProjectID, RoleInput{Name: "Backend"}); !errors.Is(err, ErrRoleNameTaken) {
		t.Fatalf("expected ErrRoleNameTaken, got %v", err)
	}
	if _, err := u.CreateRole(ctx, uuid.New(), RoleInput{Name: "QA"}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	if _, err := u.CreateRole(ctx, existing.ProjectID, RoleInput{Name: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	updated, err := u.UpdateRole(ctx, existing.ID, RoleInput{Name: "Backend Lead", Feedback: "Needs Kafka"})
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Name != "Backend Lead" || updated.Feedback != "Needs Kafka" || len(updated.Skills) != 2 {
		t.Fatalf("unexpected role %+v", updated)
	}
	if _, err := u.UpdateRole(ctx, existing.ID, RoleInput{Name: "QA"}); !errors.Is(err, ErrRoleNameTaken) {
		t.Fatalf("expected ErrRoleNameTaken, got %v", err)
	}
	if _, err := u.UpdateRole(ctx, uuid.New(), RoleInput{Name: "QA"}); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}

	want := []string{ScopeRole + ":" + created.ID.String(), ScopeRole + ":" + existing.ID.String()}
	if len(n.events) != 2 || n.events[0] != want[0] || n.events[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, n.events)
	}
}
