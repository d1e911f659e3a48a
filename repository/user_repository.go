package repository

import (
	"context"
	"database/sql"
	"go-crop-api/model"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, userID int, name, avatarURL string) (*model.User, error)
	UpdateUserRole(ctx context.Context, userID int, newRole string) error
	TouchLastLogin(ctx context.Context, userID int) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, name, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, user.Email, user.Name, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return mapPqError(err)
	}
	return nil
}

const userColumns = `id, email, name, avatar_url, role, verified, password_hash, created_at, last_login_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.Role,
		&user.Verified, &user.PasswordHash, &user.CreatedAt, &user.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Role,
			&u.Verified, &u.PasswordHash, &u.CreatedAt, &u.LastLoginAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int, name, avatarURL string) (*model.User, error) {
	query := `UPDATE users SET name = $1, avatar_url = $2 WHERE id = $3 RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query, name, avatarURL, userID))
}

func (r *UserRepository) UpdateUserRole(ctx context.Context, userID int, newRole string) error {
	query := `UPDATE users SET role = $1 WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, newRole, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID int) error {
	query := `UPDATE users SET last_login_at = now() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}
