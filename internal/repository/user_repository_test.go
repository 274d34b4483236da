package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"fixif/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	return gormDB, mock
}

func userRows(u *model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(u.ID.String(), u.Name, u.Email, u.PasswordHash, time.Now(), time.Now())
}

func TestUserRepository_Create(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &model.User{
		ID:           uuid.New(),
		Name:         "Ana",
		Email:        "ana@x.com",
		PasswordHash: "digest",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent insert for the same email trips the unique index; the
// driver error must come back as gorm.ErrDuplicatedKey, not a raw fault.
func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
		WillReturnError(&sqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'ana@x.com' for key 'idx_users_email'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.User{
		ID:           uuid.New(),
		Name:         "Ana",
		Email:        "ana@x.com",
		PasswordHash: "digest",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewUserRepository(gormDB)

	known := &model.User{ID: uuid.New(), Name: "Ana", Email: "ana@x.com", PasswordHash: "digest"}

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(userRows(known))

	user, err := repo.FindByEmail(context.Background(), "ana@x.com")
	assert.NoError(t, err)
	assert.Equal(t, known.Email, user.Email)
	assert.Equal(t, known.ID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmailNotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}))

	user, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewUserRepository(gormDB)

	known := &model.User{ID: uuid.New(), Name: "Ana", Email: "ana@x.com", PasswordHash: "digest"}

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(userRows(known))

	user, err := repo.FindByID(context.Background(), known.ID)
	assert.NoError(t, err)
	assert.Equal(t, known.ID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
