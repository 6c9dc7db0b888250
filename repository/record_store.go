package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"

	"github.com/upcv/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordStore provides create/read/list/update/delete for one CV record kind.
type RecordStore[T any, PT models.RecordPtr[T]] struct {
	db *gorm.DB
}

func NewRecordStore[T any, PT models.RecordPtr[T]](db *gorm.DB) *RecordStore[T, PT] {
	return &RecordStore[T, PT]{db: db}
}

// Kind returns the table name of the stored records.
func (s *RecordStore[T, PT]) Kind() string {
	return PT(new(T)).TableName()
}

// Create validates rec, assigns it to userID and inserts it with a fresh id.
// Nothing is persisted when any check fails.
func (s *RecordStore[T, PT]) Create(ctx context.Context, userID string, rec PT) error {
	kind := s.Kind()
	rec.SetID(0)
	rec.SetOwner(userID)
	rec.Normalize()

	if err := rec.Validate(); err != nil {
		s.logFailure("create", err, "user_id", userID)
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, kind, userID); err != nil {
			return err
		}

		if _, ok := any(rec).(models.SingletonRecord); ok {
			var count int64
			if err := tx.Model(new(T)).Where("user_id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return uniqueViolation(kind, "user_id")
			}
		}

		return tx.Omit(clause.Associations).Create(rec).Error
	})
	if err != nil {
		err = translateError(kind, userID, err)
		s.logFailure("create", err, "user_id", userID)
		return s.wrap(err, "create")
	}

	slog.Info("Record created", "kind", kind, "id", rec.RecordID(), "user_id", userID)
	return nil
}

// Get returns the record with the given id.
func (s *RecordStore[T, PT]) Get(ctx context.Context, id uint) (PT, error) {
	rec := PT(new(T))
	if err := s.db.WithContext(ctx).First(rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound(id)
		}
		slog.Error("Failed to get record", "error", err, "kind", s.Kind(), "id", id)
		return nil, s.wrap(err, "get")
	}
	return rec, nil
}

// List streams the user's records in the kind's default order. Every range
// over the returned sequence runs the query again; rows stay open until the
// loop ends.
func (s *RecordStore[T, PT]) List(ctx context.Context, userID string) iter.Seq2[PT, error] {
	return func(yield func(PT, error) bool) {
		db := s.db.WithContext(ctx)
		rows, err := s.ordered(db.Model(new(T))).Where("user_id = ?", userID).Rows()
		if err != nil {
			slog.Error("Failed to list records", "error", err, "kind", s.Kind(), "user_id", userID)
			yield(nil, s.wrap(err, "list"))
			return
		}
		defer rows.Close()

		for rows.Next() {
			rec := PT(new(T))
			if err := db.ScanRows(rows, rec); err != nil {
				yield(nil, s.wrap(err, "scan"))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, s.wrap(err, "list"))
		}
	}
}

// ListAll collects List into a slice.
func (s *RecordStore[T, PT]) ListAll(ctx context.Context, userID string) ([]T, error) {
	records := make([]T, 0)
	for rec, err := range s.List(ctx, userID) {
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Update loads the record, lets mutate change it in place and saves the result
// after validating it again. The id and owner are kept regardless of mutate.
func (s *RecordStore[T, PT]) Update(ctx context.Context, id uint, mutate func(PT) error) (PT, error) {
	kind := s.Kind()
	rec := PT(new(T))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.notFound(id)
			}
			return err
		}

		owner := rec.OwnerID()
		if err := mutate(rec); err != nil {
			return err
		}
		rec.SetID(id)
		rec.SetOwner(owner)
		rec.Normalize()

		if err := rec.Validate(); err != nil {
			return err
		}

		if err := tx.Model(rec).Select("*").Omit("id", "user_id", "created_at", clause.Associations).Updates(rec).Error; err != nil {
			return err
		}
		return tx.First(rec, id).Error
	})
	if err != nil {
		err = translateError(kind, rec.OwnerID(), err)
		s.logFailure("update", err, "id", id)
		return nil, s.wrap(err, "update")
	}

	slog.Info("Record updated", "kind", kind, "id", id)
	return rec, nil
}

// Delete removes exactly one record.
func (s *RecordStore[T, PT]) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		slog.Error("Failed to delete record", "error", result.Error, "kind", s.Kind(), "id", id)
		return s.wrap(result.Error, "delete")
	}
	if result.RowsAffected == 0 {
		return s.notFound(id)
	}

	slog.Info("Record deleted", "kind", s.Kind(), "id", id)
	return nil
}

// ordered applies the kind's sort keys, translated for the current dialect.
func (s *RecordStore[T, PT]) ordered(db *gorm.DB) *gorm.DB {
	keys := PT(new(T)).SortKeys()
	columns := make([]clause.OrderByColumn, 0, len(keys))
	for _, key := range keys {
		columns = append(columns, orderColumn(db.Dialector.Name(), key))
	}
	return db.Clauses(clause.OrderBy{Columns: columns})
}

func orderColumn(dialect string, key models.SortKey) clause.OrderByColumn {
	column := clause.Column{Name: key.Column}
	if key.Binary {
		switch dialect {
		case "postgres":
			column = clause.Column{Name: key.Column + ` COLLATE "C"`, Raw: true}
		case "mysql":
			column = clause.Column{Name: key.Column + " COLLATE utf8mb4_bin", Raw: true}
		}
		// sqlite compares with BINARY unless told otherwise
	}
	return clause.OrderByColumn{Column: column, Desc: key.Desc}
}

func (s *RecordStore[T, PT]) notFound(id uint) error {
	return &models.NotFoundError{Kind: s.Kind(), ID: strconv.FormatUint(uint64(id), 10)}
}

// wrap adds context to storage failures; model errors are returned as is so
// callers can match them with errors.As.
func (s *RecordStore[T, PT]) wrap(err error, op string) error {
	if isClientError(err) {
		return err
	}
	return fmt.Errorf("failed to %s %s: %w", op, s.Kind(), err)
}

func (s *RecordStore[T, PT]) logFailure(op string, err error, args ...any) {
	args = append([]any{"error", err, "kind", s.Kind(), "op", op}, args...)
	if isClientError(err) {
		slog.Warn("Record rejected", args...)
		return
	}
	slog.Error("Record operation failed", args...)
}

// ensureUser fails with ReferentialIntegrityError when userID has no account.
func ensureUser(tx *gorm.DB, kind, userID string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &models.ReferentialIntegrityError{Kind: kind, UserID: userID}
	}
	return nil
}
