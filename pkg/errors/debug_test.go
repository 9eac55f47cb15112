package errors

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDumpCarriesPGDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_orders_client_order_id", TableName: "orders"}
	dump := Dump(Wrap(CodeConflict, pgErr, "inserting order"))

	if dump.Code != CodeConflict {
		t.Fatalf("code = %s", dump.Code)
	}
	if dump.PGCode != "23505" || dump.PGConstraint != "idx_orders_client_order_id" {
		t.Fatalf("pg diagnostics missing: %+v", dump)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected unwrap chain, got %v", dump.Chain)
	}
}

func TestDumpFieldsOmitEmptyPGValues(t *testing.T) {
	fields := Dump(New(CodeValidation, "bad payload")).Fields()

	if fields["error"] != "VALIDATION_ERROR: bad payload" {
		t.Fatalf("error field = %v", fields["error"])
	}
	if _, ok := fields["pg_code"]; ok {
		t.Fatal("pg fields must be omitted for plain errors")
	}

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_carts_user_id"}
	fields = Dump(pgErr).Fields()
	if fields["pg_constraint"] != "idx_carts_user_id" {
		t.Fatalf("pg_constraint = %v", fields["pg_constraint"])
	}
}
