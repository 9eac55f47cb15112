package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolationCode = "23505"

// IsUniqueViolation reports whether the provided error is a unique-constraint
// violation. When constraintName is given, the violation must reference that
// constraint. The sqlite message check keeps repository tests honest, since
// they run against the in-memory driver.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && pgxErr.Code == pgUniqueViolationCode {
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolationCode {
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		if constraintName == "" || strings.Contains(msg, constraintName) {
			return true
		}
		for _, form := range sqliteColumnForms(constraintName) {
			if strings.Contains(msg, form) {
				return true
			}
		}
	}
	return false
}

// sqliteColumnForms derives the dotted table.column spellings an
// idx_<table>_<column> constraint name can take, since sqlite reports
// violations by column ("orders.client_order_id"), never by index name.
func sqliteColumnForms(constraintName string) []string {
	rest := strings.TrimPrefix(constraintName, "idx_")
	if rest == constraintName {
		return nil
	}
	var forms []string
	for i := 0; i < len(rest); i++ {
		if rest[i] == '_' {
			forms = append(forms, rest[:i]+"."+rest[i+1:])
		}
	}
	return forms
}
