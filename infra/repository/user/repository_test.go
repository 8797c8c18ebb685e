package user

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	userdomain "github.com/investra/platform/pkg/domain/user"
	"github.com/investra/platform/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() }) //nolint:errcheck

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), dto.UserCreate{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		ReferralCode: "ALIC0001",
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" (.+) VALUES (.+)`).
		WillReturnError(errors.New("create error"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), dto.UserCreate{
		ID:           uuid.New(),
		Email:        "bob@example.com",
		ReferralCode: "BOBB0001",
	})
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "balance", "referral_code"}).
			AddRow(userID, "alice@example.com", int64(1000), "ALIC0001"))

	got, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
	assert.Equal(t, int64(1000), got.BalanceCents)
	assert.Nil(t, got.UplineID)
}

func TestGet_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, userdomain.ErrNotFound)
}

func TestUpdateBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET (.+) WHERE id = (.+)`).
		WithArgs(int64(85000), sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateBalance(context.Background(), userID, 85000)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
