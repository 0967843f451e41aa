package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

type UserRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = &user.CreatedAt

	query := `
        INSERT INTO users (email, full_name, password, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)`
	args := []interface{}{user.Email, user.FullName, user.Password, user.CreatedAt, user.UpdatedAt}

	if r.Dialect == Postgres {
		err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query+` RETURNING id`), args...).Scan(&user.ID)
		if err != nil {
			if isDuplicateKey(err) {
				return models.User{}, models.ErrDuplicateEmail
			}
			return models.User{}, err
		}
		return user, nil
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `SELECT id, email, full_name, password, created_at, updated_at FROM users WHERE id = ?`
	return r.getUser(ctx, query, id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT id, email, full_name, password, created_at, updated_at FROM users WHERE email = ?`
	return r.getUser(ctx, query, email)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg interface{}) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), arg).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Password, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hash string) error {
	query := `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query), hash, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// SetSession replaces the refresh session of session.UserID.
func (r *UserRepository) SetSession(ctx context.Context, session models.Session) error {
	if err := r.DeleteSession(ctx, session.UserID); err != nil {
		return err
	}
	query := `INSERT INTO sessions (user_id, refresh_token, expires_at) VALUES (?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query), session.UserID, session.RefreshToken, session.ExpiresAt)
	return err
}

func (r *UserRepository) GetSession(ctx context.Context, refreshToken string) (models.Session, error) {
	query := `SELECT user_id, refresh_token, expires_at FROM sessions WHERE refresh_token = ?`

	var session models.Session
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), refreshToken).Scan(
		&session.UserID, &session.RefreshToken, &session.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, models.ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *UserRepository) DeleteSession(ctx context.Context, userID int) error {
	query := `DELETE FROM sessions WHERE user_id = ?`
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query), userID)
	return err
}
