package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestWithTx(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		fn      func(ctx context.Context, tx DBTX) error
		wantErr string
		wantIs  error
	}{
		{
			name: "commits on success",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE users SET status").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx DBTX) error {
				_, err := tx.ExecContext(ctx, "UPDATE users SET status = $1 WHERE id = $2", "busy", "u1")
				return err
			},
		},
		{
			name: "rolls back on error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:      func(context.Context, DBTX) error { return boom },
			wantErr: "boom",
			wantIs:  boom,
		},
		{
			name: "rollback failure is joined",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("conn reset"))
			},
			fn:      func(context.Context, DBTX) error { return boom },
			wantErr: "boom\nrollback: conn reset",
			wantIs:  boom,
		},
		{
			name: "begin error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("no conn"))
			},
			fn:      func(context.Context, DBTX) error { return errors.New("fn must not run") },
			wantErr: "begin tx: no conn",
		},
		{
			name: "commit error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			fn:      func(context.Context, DBTX) error { return nil },
			wantErr: "commit: commit failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			err := WithTx(context.Background(), db, nil, tt.fn)

			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWithTx_RollsBackAndRethrowsPanic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			panic("kaboom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
