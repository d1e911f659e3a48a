// file: repository/user_repository_test.go

package repository

import (
	"context"
	"database/sql"
	"go-crop-api/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("a@b.com", "Alice", "hashed", "user").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

		user := &model.User{Email: "a@b.com", Name: "Alice", PasswordHash: "hashed", Role: model.RoleUser}
		err := repo.CreateUser(context.Background(), user)

		assert.NoError(t, err)
		assert.Equal(t, 1, user.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("a@b.com", "Alice", "hashed", "user").
			WillReturnError(&pq.Error{Code: "23505"})

		user := &model.User{Email: "a@b.com", Name: "Alice", PasswordHash: "hashed", Role: model.RoleUser}
		err := repo.CreateUser(context.Background(), user)

		assert.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "name", "avatar_url", "role", "verified", "password_hash", "created_at", "last_login_at"}).
			AddRow(1, "a@b.com", "Alice", "", "user", false, "hashed", now, nil)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
			WithArgs("a@b.com").
			WillReturnRows(rows)

		user, err := repo.GetUserByEmail(context.Background(), "a@b.com")

		assert.NoError(t, err)
		assert.Equal(t, "a@b.com", user.Email)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.False(t, user.LastLoginAt.Valid)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
			WithArgs("nobody@b.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetUserByEmail(context.Background(), "nobody@b.com")

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepository_UpdateUserRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET role`).
			WithArgs("moderator", 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateUserRole(context.Background(), 3, "moderator"))
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET role`).
			WithArgs("moderator", 404).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateUserRole(context.Background(), 404, "moderator")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users SET last_login_at`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.TouchLastLogin(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
