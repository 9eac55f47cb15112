package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDirRejectsBrokenFiles(t *testing.T) {
	dir := t.TempDir()

	if err := ValidateDir(dir); err == nil {
		t.Fatal("empty dir must not validate")
	}

	good := "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose StatementEnd\n\n-- +goose Down\n-- +goose StatementBegin\nSELECT 1;\n-- +goose StatementEnd\n"
	writeMigration(t, dir, "20250101000000_add_things.sql", good)
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("expected valid dir, got %v", err)
	}

	writeMigration(t, dir, "20250101000001_no_down.sql", "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose StatementEnd\n")
	err := ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "+goose Down") {
		t.Fatalf("expected missing-directive error, got %v", err)
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_short_version.sql", "-- +goose Up\n-- +goose Down\n")
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected filename rejection")
	}
}

func TestCreateSQLMigrationScaffoldValidates(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Review Tables!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if base := filepath.Base(path); !strings.HasSuffix(base, "_add_review_tables.sql") {
		t.Fatalf("unexpected filename %s", base)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("scaffold must validate, got %v", err)
	}
}

func TestSanitizeMigrationName(t *testing.T) {
	cases := map[string]string{
		"create carts":        "create_carts",
		"  Weird--Name!!  ":   "weird_name",
		"already_snake_case":  "already_snake_case",
		"___":                 "",
		"Orders v2 (indexes)": "orders_v2_indexes",
	}
	for in, want := range cases {
		if got := sanitizeMigrationName(in); got != want {
			t.Fatalf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func writeMigration(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
