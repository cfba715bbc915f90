package seeder

import (
	"context"
	"fmt"

	"pathexplorer/internal/database"
)

type seedSkill struct {
	Name  string
	Type  string
	Level int
}

type seedRole struct {
	Name        string
	Description string
	Skills      []seedSkill
}

type seedProject struct {
	Name              string
	Client            string
	Description       string
	StartDate         string
	EndDate           string
	EmployeesRequired int
	Roles             []seedRole
}

var demoProjects = []seedProject{
	{
		Name:              "Client Onboarding Portal",
		Client:            "Northwind Logistics",
		Description:       "Self service portal for new enterprise clients.",
		StartDate:         "2026-02-02",
		EndDate:           "2026-09-30",
		EmployeesRequired: 4,
		Roles: []seedRole{
			{
				Name:        "Backend Developer",
				Description: "Builds the onboarding APIs.",
				Skills: []seedSkill{
					{"Go", "hard", 70},
					{"PostgreSQL", "hard", 60},
					{"Docker", "hard", 50},
					{"Communication", "soft", 60},
				},
			},
			{
				Name:        "Frontend Developer",
				Description: "Owns the portal UI.",
				Skills: []seedSkill{
					{"TypeScript", "hard", 70},
					{"React", "hard", 70},
					{"Teamwork", "soft", 50},
				},
			},
		},
	},
	{
		Name:              "Data Platform Migration",
		Client:            "Contoso Retail",
		Description:       "Moves reporting workloads to the new warehouse.",
		StartDate:         "2026-03-16",
		EndDate:           "2026-12-18",
		EmployeesRequired: 3,
		Roles: []seedRole{
			{
				Name:        "Data Engineer",
				Description: "Designs pipelines and the warehouse schema.",
				Skills: []seedSkill{
					{"Python", "hard", 70},
					{"SQL", "hard", 80},
					{"Airflow", "hard", 50},
				},
			},
			{
				Name:        "Project Lead",
				Description: "Coordinates the migration with stakeholders.",
				Skills: []seedSkill{
					{"Leadership", "soft", 80},
					{"Communication", "soft", 80},
					{"Planning", "soft", 70},
				},
			},
		},
	},
}

// ProjectsSeeder upserts demo projects with their roles and required skills.
// Reruns refresh descriptions and dates and keep existing skills.
type ProjectsSeeder struct{}

func (ProjectsSeeder) Name() string { return "projects" }

func (ProjectsSeeder) Tables() []Table {
	return []Table{
		{Name: "projects", Columns: []string{"id", "name", "client", "description", "start_date", "end_date", "employees_required"}},
		{Name: "project_roles", Columns: []string{"id", "project_id", "name", "description"}},
		{Name: "project_role_skills", Columns: []string{"id", "role_id", "name", "type", "level"}},
	}
}

func (ProjectsSeeder) Seed(ctx context.Context, q database.Querier) (int, error) {
	rows := 0
	for _, p := range demoProjects {
		var projectID string
		err := q.QueryRow(ctx,
			`INSERT INTO projects (name, client, description, start_date, end_date, employees_required)
			 VALUES ($1, $2, $3, $4::date, $5::date, $6)
			 ON CONFLICT (name) DO UPDATE SET
			   client = EXCLUDED.client,
			   description = EXCLUDED.description,
			   start_date = EXCLUDED.start_date,
			   end_date = EXCLUDED.end_date,
			   employees_required = EXCLUDED.employees_required
			 RETURNING id`,
			p.Name, p.Client, p.Description, p.StartDate, p.EndDate, p.EmployeesRequired,
		).Scan(&projectID)
		if err != nil {
			return rows, fmt.Errorf("project %s: %w", p.Name, err)
		}
		rows++

		for _, r := range p.Roles {
			var roleID string
			err := q.QueryRow(ctx,
				`INSERT INTO project_roles (project_id, name, description) VALUES ($1, $2, $3)
				 ON CONFLICT (project_id, name) DO UPDATE SET description = EXCLUDED.description
				 RETURNING id`,
				projectID, r.Name, r.Description,
			).Scan(&roleID)
			if err != nil {
				return rows, fmt.Errorf("role %s: %w", r.Name, err)
			}
			rows++

			for _, sk := range r.Skills {
				n, err := q.Exec(ctx,
					`INSERT INTO project_role_skills (role_id, name, type, level) VALUES ($1, $2, $3, $4)
					 ON CONFLICT (role_id, name) DO NOTHING`,
					roleID, sk.Name, sk.Type, sk.Level,
				)
				if err != nil {
					return rows, fmt.Errorf("role skill %s: %w", sk.Name, err)
				}
				rows += int(n)
			}
		}
	}
	return rows, nil
}
