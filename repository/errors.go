package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/upcv/backend/models"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps constraint violations reported by the database onto the
// model error types. Errors that are already classified pass through.
func translateError(kind, userID string, err error) error {
	if err == nil {
		return nil
	}
	if isClientError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			column := pgErr.ColumnName
			if column == "" {
				column = constraintColumn(kind, pgErr.ConstraintName)
			}
			return uniqueViolation(kind, column)
		case pgForeignKeyViolation:
			return &models.ReferentialIntegrityError{Kind: kind, UserID: userID}
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return uniqueViolation(kind, "")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &models.ReferentialIntegrityError{Kind: kind, UserID: userID}
	}
	return err
}

// constraintColumn recovers the column from GORM's idx_<table>_<column> index
// names. Other constraint names yield "".
func constraintColumn(table, constraint string) string {
	prefix := "idx_" + table + "_"
	if !strings.HasPrefix(constraint, prefix) {
		return ""
	}
	return strings.TrimPrefix(constraint, prefix)
}

// uniqueViolation reports the violated column when the driver names it; the
// only unique column of a CV table is user_id, and of users it is email.
func uniqueViolation(kind, column string) error {
	if column == "" {
		column = "user_id"
		if kind == (models.User{}).TableName() {
			column = "email"
		}
	}
	return models.NewValidationError(kind, models.FieldError{
		Field:   column,
		Tag:     "unique",
		Message: "a " + kind + " record already exists",
	})
}

// isClientError separates caller mistakes from storage failures.
func isClientError(err error) bool {
	return errors.Is(err, models.ErrValidation) ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrReferentialIntegrity)
}
