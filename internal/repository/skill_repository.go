package repository

import (
	"context"

	"pathexplorer/internal/database"
	"pathexplorer/internal/domain/skill"
)

// CatalogEntry is one distinct skill name across employee profiles and role
// requirements.
type CatalogEntry struct {
	Name      string
	Type      skill.Type
	Employees int
	Roles     int
}

type CatalogFilter struct {
	Type   skill.Type
	Prefix string
	Limit  int
}

type SkillCatalogRepository interface {
	ListCatalog(ctx context.Context, f CatalogFilter) ([]CatalogEntry, error)
}

type PostgresSkillCatalogRepository struct {
	db database.DB
}

func NewPostgresSkillCatalogRepository(db database.DB) *PostgresSkillCatalogRepository {
	return &PostgresSkillCatalogRepository{db: db}
}

// ListCatalog groups names case-insensitively, most requested first.
func (r *PostgresSkillCatalogRepository) ListCatalog(ctx context.Context, f CatalogFilter) ([]CatalogEntry, error) {
	rows, err := r.db.Query(ctx, `
		WITH all_skills AS (
			SELECT name, type, employee_id AS owner_id, 'employee' AS source FROM employee_skills
			UNION ALL
			SELECT name, type, role_id AS owner_id, 'role' AS source FROM project_role_skills
		)
		SELECT MIN(name),
		       type,
		       COUNT(DISTINCT owner_id) FILTER (WHERE source = 'employee'),
		       COUNT(DISTINCT owner_id) FILTER (WHERE source = 'role')
		FROM all_skills
		WHERE ($1::text = '' OR type = $1::text)
		  AND ($2::text = '' OR name ILIKE $2::text || '%')
		GROUP BY lower(name), type
		ORDER BY 4 DESC, 3 DESC, 1 ASC
		LIMIT $3`,
		string(f.Type), f.Prefix, f.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CatalogEntry, 0)
	for rows.Next() {
		var e CatalogEntry
		var typ string
		if err := rows.Scan(&e.Name, &typ, &e.Employees, &e.Roles); err != nil {
			return nil, err
		}
		e.Type = skill.Type(typ)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
