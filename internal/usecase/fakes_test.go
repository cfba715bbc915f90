package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/domain/skill"
	"pathexplorer/internal/domain/user"
	"pathexplorer/internal/repository"
)

var errBoom = errors.New("boom")

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]user.User
	employees map[uuid.UUID]user.Employee
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]user.User{}, employees: map[uuid.UUID]user.Employee{}}
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) CreateUserWithEmployee(_ context.Context, u user.User, e user.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.users[u.ID] = u
	f.employees[e.ID] = e
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserRepo) GetEmployeeByUserID(_ context.Context, userID uuid.UUID) (user.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return user.Employee{}, user.ErrEmployeeNotFound
}

func (f *fakeUserRepo) GetEmployeeByID(_ context.Context, id uuid.UUID) (user.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return user.Employee{}, user.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeUserRepo) addEmployee(name string, role user.Role) user.Employee {
	u := user.User{ID: uuid.New(), Email: strings.ToLower(name) + "@example.com"}
	e := user.Employee{ID: uuid.New(), UserID: u.ID, Name: name, LastName1: "Test", Role: role}
	f.users[u.ID] = u
	f.employees[e.ID] = e
	return e
}

type fakeSkillRepo struct {
	skills []skill.EmployeeSkill
	names  map[uuid.UUID]string
	err    error
}

func (f *fakeSkillRepo) FindByEmployeeID(_ context.Context, employeeID uuid.UUID, typ skill.Type) ([]skill.EmployeeSkill, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []skill.EmployeeSkill{}
	for _, s := range f.skills {
		if s.EmployeeID == employeeID && (typ == "" || s.Type == typ) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSkillRepo) Create(_ context.Context, s skill.EmployeeSkill) (skill.EmployeeSkill, error) {
	if f.err != nil {
		return skill.EmployeeSkill{}, f.err
	}
	f.skills = append(f.skills, s)
	return s, nil
}

func (f *fakeSkillRepo) Update(_ context.Context, s skill.EmployeeSkill) (skill.EmployeeSkill, error) {
	for i := range f.skills {
		if f.skills[i].ID == s.ID && f.skills[i].EmployeeID == s.EmployeeID {
			f.skills[i] = s
			return s, nil
		}
	}
	return skill.EmployeeSkill{}, repository.ErrEmployeeSkillNotFound
}

func (f *fakeSkillRepo) Delete(_ context.Context, id uuid.UUID, employeeID uuid.UUID) error {
	for i := range f.skills {
		if f.skills[i].ID == id && f.skills[i].EmployeeID == employeeID {
			f.skills = append(f.skills[:i], f.skills[i+1:]...)
			return nil
		}
	}
	return repository.ErrEmployeeSkillNotFound
}

func (f *fakeSkillRepo) FindCandidates(_ context.Context) ([]repository.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []repository.Candidate
	index := map[uuid.UUID]int{}
	for _, s := range f.skills {
		i, ok := index[s.EmployeeID]
		if !ok {
			i = len(out)
			index[s.EmployeeID] = i
			out = append(out, repository.Candidate{EmployeeID: s.EmployeeID, Name: f.names[s.EmployeeID]})
		}
		out[i].Skills = append(out[i].Skills, s)
	}
	return out, nil
}

type fakeRoleRepo struct {
	projects map[uuid.UUID]bool
	records  []project.Project
	roles    []project.Role
	err      error
}

func (f *fakeRoleRepo) ListProjects(context.Context) ([]project.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]project.Project(nil), f.records...), nil
}

func (f *fakeRoleRepo) FindProjectByID(_ context.Context, projectID uuid.UUID) (project.Project, error) {
	for _, p := range f.records {
		if p.ID == projectID {
			return p, nil
		}
	}
	return project.Project{}, repository.ErrProjectNotFound
}

func (f *fakeRoleRepo) CreateProject(_ context.Context, p project.Project) (project.Project, error) {
	if f.err != nil {
		return project.Project{}, f.err
	}
	for _, existing := range f.records {
		if existing.Name == p.Name {
			return project.Project{}, repository.ErrProjectNameTaken
		}
	}
	if f.projects == nil {
		f.projects = map[uuid.UUID]bool{}
	}
	f.projects[p.ID] = true
	f.records = append(f.records, p)
	return p, nil
}

func (f *fakeRoleRepo) UpdateProject(_ context.Context, p project.Project) (project.Project, error) {
	idx := -1
	for i, existing := range f.records {
		if existing.ID == p.ID {
			idx = i
		} else if existing.Name == p.Name {
			return project.Project{}, repository.ErrProjectNameTaken
		}
	}
	if idx < 0 {
		return project.Project{}, repository.ErrProjectNotFound
	}
	p.ManagerID = f.records[idx].ManagerID
	f.records[idx] = p
	return p, nil
}

func (f *fakeRoleRepo) CreateRole(_ context.Context, role project.Role) (project.Role, error) {
	for _, r := range f.roles {
		if r.ProjectID == role.ProjectID && r.Name == role.Name {
			return project.Role{}, repository.ErrRoleNameTaken
		}
	}
	role.Skills = []skill.RoleSkill{}
	f.roles = append(f.roles, role)
	return role, nil
}

func (f *fakeRoleRepo) UpdateRole(_ context.Context, role project.Role) (project.Role, error) {
	idx := -1
	for i, r := range f.roles {
		if r.ID == role.ID {
			idx = i
		}
	}
	if idx < 0 {
		return project.Role{}, repository.ErrRoleNotFound
	}
	for _, r := range f.roles {
		if r.ID != role.ID && r.ProjectID == f.roles[idx].ProjectID && r.Name == role.Name {
			return project.Role{}, repository.ErrRoleNameTaken
		}
	}
	f.roles[idx].Name = role.Name
	f.roles[idx].Description = role.Description
	f.roles[idx].Feedback = role.Feedback
	return f.roles[idx], nil
}

func (f *fakeRoleRepo) ProjectExists(_ context.Context, projectID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.projects[projectID], nil
}

func (f *fakeRoleRepo) FindByProjectID(_ context.Context, projectID uuid.UUID) ([]project.Role, error) {
	out := []project.Role{}
	for _, r := range f.roles {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) FindByID(_ context.Context, roleID uuid.UUID) (project.Role, error) {
	if f.err != nil {
		return project.Role{}, f.err
	}
	for _, r := range f.roles {
		if r.ID == roleID {
			return r, nil
		}
	}
	return project.Role{}, repository.ErrRoleNotFound
}

func (f *fakeRoleRepo) AddSkill(_ context.Context, s skill.RoleSkill) (skill.RoleSkill, error) {
	for i := range f.roles {
		if f.roles[i].ID == s.RoleID {
			f.roles[i].Skills = append(f.roles[i].Skills, s)
			return s, nil
		}
	}
	return skill.RoleSkill{}, repository.ErrRoleNotFound
}

func (f *fakeRoleRepo) DeleteSkill(_ context.Context, roleID uuid.UUID, name string) error {
	for i := range f.roles {
		if f.roles[i].ID != roleID {
			continue
		}
		for j, s := range f.roles[i].Skills {
			if strings.EqualFold(s.Name, name) {
				f.roles[i].Skills = append(f.roles[i].Skills[:j], f.roles[i].Skills[j+1:]...)
				return nil
			}
		}
	}
	return repository.ErrRoleSkillNotFound
}

type fakeAssignmentRepo struct {
	items []project.Assignment
	err   error
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a project.Assignment) (project.Assignment, error) {
	if f.err != nil {
		return project.Assignment{}, f.err
	}
	for _, existing := range f.items {
		if existing.Pending() && existing.RoleID == a.RoleID && existing.DeveloperID == a.DeveloperID {
			return project.Assignment{}, repository.ErrAssignmentDuplicate
		}
	}
	f.items = append(f.items, a)
	return a, nil
}

func (f *fakeAssignmentRepo) FindByID(_ context.Context, id uuid.UUID) (project.Assignment, error) {
	for _, a := range f.items {
		if a.ID == id {
			return a, nil
		}
	}
	return project.Assignment{}, repository.ErrAssignmentNotFound
}

func (f *fakeAssignmentRepo) Decide(_ context.Context, id uuid.UUID, status project.AssignmentStatus, decidedBy uuid.UUID) (project.Assignment, error) {
	if f.err != nil {
		return project.Assignment{}, f.err
	}
	for i, a := range f.items {
		if a.ID != id {
			continue
		}
		if !a.Pending() {
			return project.Assignment{}, repository.ErrAssignmentNotPending
		}
		if status == project.AssignmentApproved {
			for _, other := range f.items {
				if other.RoleID == a.RoleID && other.Status == project.AssignmentApproved {
					return project.Assignment{}, repository.ErrRoleFilled
				}
			}
		}
		f.items[i].Status = status
		f.items[i].DecidedBy = decidedBy
		return f.items[i], nil
	}
	return project.Assignment{}, repository.ErrAssignmentNotFound
}

func (f *fakeAssignmentRepo) ListPending(context.Context) ([]project.PendingAssignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []project.PendingAssignment{}
	for _, a := range f.items {
		if a.Pending() {
			out = append(out, project.PendingAssignment{Assignment: a})
		}
	}
	return out, nil
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) RecommendationsStale(scope string, id uuid.UUID) {
	n.events = append(n.events, scope+":"+id.String())
}

func roleSkills(names ...string) []skill.RoleSkill {
	out := make([]skill.RoleSkill, 0, len(names))
	for _, n := range names {
		out = append(out, skill.RoleSkill{ID: uuid.New(), Name: n, Type: skill.TypeHard, Level: 50})
	}
	return out
}

func employeeSkills(empID uuid.UUID, names ...string) []skill.EmployeeSkill {
	out := make([]skill.EmployeeSkill, 0, len(names))
	for _, n := range names {
		out = append(out, skill.EmployeeSkill{ID: uuid.New(), EmployeeID: empID, Name: n, Type: skill.TypeHard, Level: 60})
	}
	return out
}
