package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation_pgx(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "orders_client_order_id_key"}
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected unique violation")
	}
	if !IsUniqueViolation(err, "orders_client_order_id_key") {
		t.Fatal("expected match on constraint name")
	}
	if IsUniqueViolation(err, "carts_user_id_key") {
		t.Fatal("expected mismatch on other constraint")
	}
}

func TestIsUniqueViolation_pq(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "carts_session_id_key"}
	if !IsUniqueViolation(err, "carts_session_id_key") {
		t.Fatal("expected unique violation")
	}
}

func TestIsUniqueViolation_sqliteMessage(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: orders.client_order_id")
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected unique violation from sqlite message")
	}
}

func TestIsUniqueViolation_sqliteConstraintName(t *testing.T) {
	// sqlite names the column, not the index; the index name must still match
	err := errors.New("UNIQUE constraint failed: orders.client_order_id")
	if !IsUniqueViolation(err, "idx_orders_client_order_id") {
		t.Fatal("expected index name to match sqlite column form")
	}
	if IsUniqueViolation(err, "idx_carts_user_id") {
		t.Fatal("expected mismatch on other index name")
	}

	err = errors.New("UNIQUE constraint failed: carts.user_id")
	if !IsUniqueViolation(err, "idx_carts_user_id") {
		t.Fatal("expected match for carts identity index")
	}
}

func TestIsUniqueViolation_otherError(t *testing.T) {
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("did not expect unique violation")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error is not a violation")
	}
}
