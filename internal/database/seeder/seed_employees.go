package seeder

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pathexplorer/internal/database"
	"pathexplorer/internal/database/postgres"
)

type seedEmployee struct {
	Email      string
	Name       string
	LastName1  string
	Position   string
	Capability string
	Seniority  int
	Role       string
	Skills     []seedSkill
}

var demoEmployees = []seedEmployee{
	{
		Email: "maria.manager@pathexplorer.dev", Name: "Maria", LastName1: "Garcia",
		Position: "Delivery Manager", Capability: "Management", Seniority: 10, Role: "Manager",
		Skills: []seedSkill{{"Leadership", "soft", 90}, {"Planning", "soft", 80}, {"Communication", "soft", 85}},
	},
	{
		Email: "diego.dev@pathexplorer.dev", Name: "Diego", LastName1: "Hernandez",
		Position: "Backend Developer", Capability: "Engineering", Seniority: 5, Role: "Developer",
		Skills: []seedSkill{{"Go", "hard", 80}, {"PostgreSQL", "hard", 70}, {"Docker", "hard", 60}, {"SQL", "hard", 70}},
	},
	{
		Email: "lucia.data@pathexplorer.dev", Name: "Lucia", LastName1: "Ramirez",
		Position: "Data Engineer", Capability: "Data", Seniority: 6, Role: "Developer",
		Skills: []seedSkill{{"Python", "hard", 85}, {"SQL", "hard", 90}, {"Teamwork", "soft", 70}},
	},
	{
		Email: "tomas.tfs@pathexplorer.dev", Name: "Tomas", LastName1: "Lopez",
		Position: "Staffing Coordinator", Capability: "Talent", Seniority: 7, Role: "TFS",
		Skills: []seedSkill{{"Communication", "soft", 80}, {"Planning", "soft", 60}},
	},
}

// EmployeesSeeder creates demo accounts that share Password. Existing emails
// are left untouched.
type EmployeesSeeder struct {
	Password string
	Cost     int
}

func (EmployeesSeeder) Name() string { return "employees" }

func (EmployeesSeeder) Tables() []Table {
	return []Table{
		{Name: "users", Columns: []string{"id", "email", "password_hash"}},
		{Name: "employees", Columns: []string{"id", "user_id", "name", "last_name_1", "phone_number", "location", "capability", "position", "seniority", "role"}},
		{Name: "employee_skills", Columns: []string{"employee_id", "name", "type", "level"}},
	}
}

func (s EmployeesSeeder) Seed(ctx context.Context, q database.Querier) (int, error) {
	if len(s.Password) < 8 {
		return 0, fmt.Errorf("demo password must be at least 8 characters")
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), cost)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, e := range demoEmployees {
		var userID string
		err := q.QueryRow(ctx,
			`INSERT INTO users (email, password_hash) VALUES ($1, $2)
			 ON CONFLICT (email) DO NOTHING
			 RETURNING id`,
			e.Email, string(hash),
		).Scan(&userID)
		if err != nil {
			if postgres.IsNoRows(err) {
				continue
			}
			return created, fmt.Errorf("user %s: %w", e.Email, err)
		}

		var employeeID string
		err = q.QueryRow(ctx,
			`INSERT INTO employees (user_id, name, last_name_1, phone_number, location, capability, position, seniority, role)
			 VALUES ($1, $2, $3, '5550000000', 'Monterrey', $4, $5, $6, $7)
			 RETURNING id`,
			userID, e.Name, e.LastName1, e.Capability, e.Position, e.Seniority, e.Role,
		).Scan(&employeeID)
		if err != nil {
			return created, fmt.Errorf("employee %s: %w", e.Email, err)
		}

		for _, sk := range e.Skills {
			if _, err := q.Exec(ctx,
				`INSERT INTO employee_skills (employee_id, name, type, level) VALUES ($1, $2, $3, $4)`,
				employeeID, sk.Name, sk.Type, sk.Level,
			); err != nil {
				return created, fmt.Errorf("employee skill %s: %w", sk.Name, err)
			}
		}
		created++
	}
	return created, nil
}
