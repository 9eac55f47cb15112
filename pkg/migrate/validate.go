package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// goose directives every migration in this repo must carry. StatementBegin
// is required because the schema files run multiple statements per section.
var requiredDirectives = []string{
	"-- +goose Up",
	"-- +goose Down",
	"-- +goose StatementBegin",
	"-- +goose StatementEnd",
}

// ValidateDir checks migration filenames and the goose directive skeleton.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	versions := map[string]string{}
	found := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		found++

		name := entry.Name()
		m := migrationFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := versions[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		versions[m[1]] = name

		if err := validateDirectives(filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	if found == 0 {
		return fmt.Errorf("no SQL migrations in %q", dir)
	}
	return nil
}

func validateDirectives(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", path, err)
	}
	content := string(data)
	for _, directive := range requiredDirectives {
		if !strings.Contains(content, directive) {
			return fmt.Errorf("migration %q missing %q", filepath.Base(path), directive)
		}
	}
	return nil
}
