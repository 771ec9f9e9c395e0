package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/medium-api/internal/platform/postgres"
	"github.com/phrazzld/medium-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "blogs",
		ColumnName:     "title",
		ConstraintName: "blogs_author_id_fkey",
	}
}

type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m mockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	generic := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "nil", err: nil, wantErr: nil},
		{name: "no rows", err: sql.ErrNoRows, wantErr: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), wantErr: store.ErrDuplicate},
		{name: "foreign key violation", err: newPgError("23503"), wantErr: store.ErrInvalidEntity},
		{name: "check violation", err: newPgError("23514"), wantErr: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), wantErr: store.ErrInvalidEntity},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", newPgError("23505")), wantErr: store.ErrDuplicate},
		{name: "unmapped error", err: generic, wantErr: generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := postgres.MapError(tt.err)
			if tt.wantErr == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantErr)
		})
	}
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503")))
	assert.False(t, postgres.IsUniqueViolation(nil))
	assert.True(t, postgres.IsForeignKeyViolation(newPgError("23503")))
	assert.False(t, postgres.IsForeignKeyViolation(errors.New("generic")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrBlogNotFound))
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 0}, store.ErrBlogNotFound), store.ErrBlogNotFound)
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 0}, nil), store.ErrNotFound)
	assert.Error(t, postgres.CheckRowsAffected(mockResult{err: errors.New("boom")}, nil))
	assert.Error(t, postgres.CheckRowsAffected(nil, nil))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapUniqueViolation(newPgError("23505"), store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	other := errors.New("other")
	assert.Equal(t, other, postgres.MapUniqueViolation(other, store.ErrEmailExists))
}
