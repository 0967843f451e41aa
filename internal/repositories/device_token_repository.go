package repositories

import (
	"context"
	"database/sql"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

type DeviceTokenRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

// Save registers token for userID. Re-registering a known token moves it to the new user.
func (r *DeviceTokenRepository) Save(ctx context.Context, t models.DeviceToken) error {
	var query string
	if r.Dialect == Postgres {
		query = `INSERT INTO device_tokens (token, user_id) VALUES (?, ?)
        ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id`
	} else {
		query = `INSERT INTO device_tokens (token, user_id) VALUES (?, ?)
        ON DUPLICATE KEY UPDATE user_id = VALUES(user_id)`
	}
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query), t.Token, t.UserID)
	return err
}

func (r *DeviceTokenRepository) List(ctx context.Context) ([]models.DeviceToken, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT user_id, token FROM device_tokens`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []models.DeviceToken
	for rows.Next() {
		var t models.DeviceToken
		if err := rows.Scan(&t.UserID, &t.Token); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *DeviceTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(`DELETE FROM device_tokens WHERE token = ?`), token)
	return err
}
