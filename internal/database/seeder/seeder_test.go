package seeder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pathexplorer/internal/database"
)

// columnRows serves information_schema rows as (table, column) pairs.
type columnRows struct {
	pairs [][2]string
	i     int
}

func (r *columnRows) Close() {}
func (r *columnRows) Err() error { return nil }

func (r *columnRows) Next() bool {
	r.i++
	return r.i <= len(r.pairs)
}

func (r *columnRows) Scan(dest ...any) error {
	p := r.pairs[r.i-1]
	*dest[0].(*string) = p[0]
	*dest[1].(*string) = p[1]
	return nil
}

type fakeTx struct {
	database.Querier
	db *fakeDB
}

func (t fakeTx) Commit(context.Context) error {
	t.db.commits++
	return nil
}

func (t fakeTx) Rollback(context.Context) error {
	t.db.rollbacks++
	return nil
}

// fakeDB knows a fixed schema and counts transaction outcomes. A rollback
// after a commit is counted too, matching a deferred Rollback.
type fakeDB struct {
	database.DB
	columns   map[string][]string
	commits   int
	rollbacks int
}

func (d *fakeDB) Query(_ context.Context, _ string, args ...any) (database.Rows, error) {
	rows := &columnRows{}
	for _, table := range args[0].([]string) {
		for _, c := range d.columns[table] {
			rows.pairs = append(rows.pairs, [2]string{table, c})
		}
	}
	return rows, nil
}

func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	return fakeTx{db: d}, nil
}

type recordingSeeder struct {
	name   string
	tables []Table
	rows   int
	err    error
	ran    *[]string
}

func (s recordingSeeder) Name() string    { return s.name }
func (s recordingSeeder) Tables() []Table { return s.tables }

func (s recordingSeeder) Seed(context.Context, database.Querier) (int, error) {
	*s.ran = append(*s.ran, s.name)
	return s.rows, s.err
}

func fullSchema() *fakeDB {
	db := &fakeDB{columns: map[string][]string{}}
	for _, s := range []Seeder{ProjectsSeeder{}, EmployeesSeeder{}} {
		for _, t := range s.Tables() {
			db.columns[t.Name] = append(db.columns[t.Name], t.Columns...)
		}
	}
	return db
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	db := fullSchema()
	r := Runner{Seeders: []Seeder{
		recordingSeeder{name: "projects", ran: &ran},
		nil,
		recordingSeeder{name: "employees", err: errors.New("boom"), ran: &ran},
		recordingSeeder{name: "never", ran: &ran},
	}}

	err := r.Run(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), "seed employees") {
		t.Fatalf("expected wrapped employees error, got %v", err)
	}
	if strings.Join(ran, ",") != "projects,employees" {
		t.Fatalf("unexpected run order: %v", ran)
	}
	if db.commits != 1 {
		t.Fatalf("expected only the first seeder to commit, got %d commits", db.commits)
	}
}

func TestRunner_LogsRowCounts(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var ran []string
	r := Runner{
		Seeders: []Seeder{recordingSeeder{name: "projects", rows: 7, ran: &ran}},
		Logger:  zap.New(core),
	}

	if err := r.Run(context.Background(), fullSchema()); err != nil {
		t.Fatalf("run: %v", err)
	}
	entries := logs.FilterMessage("seeded").All()
	if len(entries) != 1 {
		t.Fatalf("expected one seeded entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["seeder"] != "projects" || fields["rows"] != int64(7) {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["took"].(time.Duration); !ok {
		t.Fatalf("expected a duration field, got %v", fields["took"])
	}
}

func TestRunner_SchemaMismatchSkipsSeed(t *testing.T) {
	var ran []string
	db := fullSchema()
	r := Runner{Seeders: []Seeder{recordingSeeder{
		name:   "projects",
		tables: []Table{{Name: "projects", Columns: []string{"id", "budget"}}},
		ran:    &ran,
	}}}

	err := r.Run(context.Background(), db)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if len(ran) != 0 || db.commits != 0 {
		t.Fatalf("seed must not run against a mismatched schema")
	}
}

func TestRunner_NilDB(t *testing.T) {
	if err := (Runner{}).Run(context.Background(), nil); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
}

func TestCheckSchema_ReportsEveryMissingColumn(t *testing.T) {
	db := &fakeDB{columns: map[string][]string{
		"projects":      {"id", "name"},
		"project_roles": {"id"},
	}}

	err := CheckSchema(context.Background(), db,
		Table{Name: "projects", Columns: []string{"id", "name", "client"}},
		Table{Name: "project_roles", Columns: []string{"id", "feedback"}},
		Table{Name: "assignment_requests", Columns: []string{"status"}},
	)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	want := "missing assignment_requests.status, project_roles.feedback, projects.client"
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in %q", want, err.Error())
	}
}

func TestCheckSchema_RejectsBlankNames(t *testing.T) {
	db := fullSchema()
	if err := CheckSchema(context.Background(), db, Table{Name: ""}); err == nil {
		t.Fatalf("expected error for blank table")
	}
	if err := CheckSchema(context.Background(), db, Table{Name: "projects", Columns: []string{""}}); err == nil {
		t.Fatalf("expected error for blank column")
	}
}

func TestDefaults(t *testing.T) {
	if got := Defaults(""); len(got) != 1 || got[0].Name() != "projects" {
		t.Fatalf("expected only projects without a demo password, got %d seeders", len(got))
	}
	got := Defaults("demo-password")
	if len(got) != 2 || got[1].Name() != "employees" {
		t.Fatalf("expected projects and employees, got %d seeders", len(got))
	}
}

func TestEmployeesSeeder_RejectsShortPassword(t *testing.T) {
	if _, err := (EmployeesSeeder{Password: "short"}).Seed(context.Background(), nil); err == nil {
		t.Fatalf("expected short password to be rejected")
	}
}

func TestDemoProjects_AreConsistent(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range demoProjects {
		if seen[p.Name] {
			t.Fatalf("duplicate project %q", p.Name)
		}
		seen[p.Name] = true
		if p.Client == "" || p.EmployeesRequired < 1 {
			t.Fatalf("project %s needs a client and at least one employee", p.Name)
		}
		start, err1 := time.Parse("2006-01-02", p.StartDate)
		end, err2 := time.Parse("2006-01-02", p.EndDate)
		if err1 != nil || err2 != nil || !start.Before(end) {
			t.Fatalf("project %s has bad dates %s..%s", p.Name, p.StartDate, p.EndDate)
		}
		for _, r := range p.Roles {
			if len(r.Skills) == 0 {
				t.Fatalf("role %s/%s has no skills", p.Name, r.Name)
			}
			for _, s := range r.Skills {
				if s.Type != "hard" && s.Type != "soft" {
					t.Fatalf("skill %s has type %q", s.Name, s.Type)
				}
				if s.Level < 0 || s.Level > 100 {
					t.Fatalf("skill %s has level %d", s.Name, s.Level)
				}
			}
		}
	}
}
