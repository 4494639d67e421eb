package timeoff_test

import (
	"context"
	"testing"
	"time"

	"go-timeclock/internal/timeoff"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestRepository_FindOverlapping(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := timeoff.NewRepository(gdb)
	start := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "time_off_requests" WHERE \(?start_date <= \$1 AND end_date >= \$2\)? ORDER BY start_date ASC`).
		WithArgs(end, start).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))

	rows, err := repo.FindOverlapping(context.Background(), start, end)

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkProcessed(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := timeoff.NewRepository(gdb)
	now := time.Now()
	admin := uuid.New()
	r := &timeoff.Request{
		ID:            uuid.New(),
		Status:        timeoff.StatusApproved,
		ProcessedDate: &now,
		ProcessedBy:   &admin,
	}

	t.Run("pending row updated", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "time_off_requests" SET .* WHERE \(?id = \$\d+ AND status = \$\d+\)?`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ok, err := repo.MarkProcessed(context.Background(), r)

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("already processed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "time_off_requests" SET .* WHERE \(?id = \$\d+ AND status = \$\d+\)?`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		ok, err := repo.MarkProcessed(context.Background(), r)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
