package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/upcv/backend/models"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	notFound := &models.NotFoundError{Kind: "skill", ID: "1"}
	storage := errors.New("connection reset")

	tests := []struct {
		name     string
		kind     string
		err      error
		expected error
		field    string
	}{
		{name: "Nil", kind: "skill", err: nil, expected: nil},
		{name: "Already classified", kind: "skill", err: notFound, expected: models.ErrNotFound},
		{
			name:     "Postgres unique violation",
			kind:     "personal_information",
			err:      fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
			expected: models.ErrValidation,
			field:    "user_id",
		},
		{
			name:     "Postgres unique violation with column",
			kind:     "users",
			err:      &pgconn.PgError{Code: "23505", ColumnName: "email"},
			expected: models.ErrValidation,
			field:    "email",
		},
		{
			name:     "Postgres unique violation named by index",
			kind:     "users",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			expected: models.ErrValidation,
			field:    "email",
		},
		{
			name:     "Postgres unique violation on personal information index",
			kind:     "personal_information",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "idx_personal_information_user_id"},
			expected: models.ErrValidation,
			field:    "user_id",
		},
		{
			name:     "Postgres foreign key violation",
			kind:     "skill",
			err:      &pgconn.PgError{Code: "23503"},
			expected: models.ErrReferentialIntegrity,
		},
		{
			name:     "Translated duplicate key",
			kind:     "users",
			err:      gorm.ErrDuplicatedKey,
			expected: models.ErrValidation,
			field:    "email",
		},
		{
			name:     "Translated foreign key",
			kind:     "project",
			err:      gorm.ErrForeignKeyViolated,
			expected: models.ErrReferentialIntegrity,
		},
		{name: "Other Postgres error", kind: "skill", err: &pgconn.PgError{Code: "40001"}, expected: nil},
		{name: "Storage failure", kind: "skill", err: storage, expected: storage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.kind, "u1", tt.err)

			if tt.expected == nil {
				if tt.err == nil && got != nil {
					t.Fatalf("translateError() = %v, expected nil", got)
				}
				if tt.err != nil && isClientError(got) {
					t.Fatalf("translateError() = %v, expected an unclassified error", got)
				}
				return
			}

			if !errors.Is(got, tt.expected) {
				t.Fatalf("translateError() = %v, expected %v", got, tt.expected)
			}
			if tt.field != "" {
				var vErr *models.ValidationError
				if !errors.As(got, &vErr) || !vErr.HasField(tt.field) {
					t.Errorf("expected violation on %s, got %v", tt.field, got)
				}
			}
		})
	}
}

func TestConstraintColumn(t *testing.T) {
	tests := []struct {
		table      string
		constraint string
		expected   string
	}{
		{table: "users", constraint: "idx_users_email", expected: "email"},
		{table: "refresh_tokens", constraint: "idx_refresh_tokens_token", expected: "token"},
		{table: "skill", constraint: "idx_users_email", expected: ""},
		{table: "skill", constraint: "skill_pkey", expected: ""},
		{table: "skill", constraint: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.table+"/"+tt.constraint, func(t *testing.T) {
			if got := constraintColumn(tt.table, tt.constraint); got != tt.expected {
				t.Errorf("constraintColumn(%q, %q) = %q, expected %q", tt.table, tt.constraint, got, tt.expected)
			}
		})
	}
}
