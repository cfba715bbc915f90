package seeder

// Defaults returns the seeders run by `migrate seed`. Demo employees are only
// included when a password is given.
func Defaults(demoPassword string) []Seeder {
	out := []Seeder{ProjectsSeeder{}}
	if demoPassword != "" {
		out = append(out, EmployeesSeeder{Password: demoPassword})
	}
	return out
}
