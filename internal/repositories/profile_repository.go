package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

type ProfileRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

// Get returns the stored profile of userID or models.ErrNoRecord when none exists.
func (r *ProfileRepository) Get(ctx context.Context, userID int) (models.Profile, error) {
	query := `
        SELECT p.user_id, u.full_name, p.phone, p.profile_image, p.joined_date
        FROM profiles p
        JOIN users u ON u.id = p.user_id
        WHERE p.user_id = ?`

	var (
		p     models.Profile
		phone sql.NullString
		image sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), userID).Scan(&p.UserID, &p.FullName, &phone, &image, &p.JoinedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Profile{}, err
	}
	p.Phone = phone.String
	p.ProfileImage = image.String
	return p, nil
}

// Upsert creates or replaces the profile row of p.UserID.
func (r *ProfileRepository) Upsert(ctx context.Context, p models.Profile) error {
	var query string
	if r.Dialect == Postgres {
		query = `
        INSERT INTO profiles (user_id, phone, profile_image, joined_date)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET phone = EXCLUDED.phone, profile_image = EXCLUDED.profile_image`
	} else {
		query = `
        INSERT INTO profiles (user_id, phone, profile_image, joined_date)
        VALUES (?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE phone = VALUES(phone), profile_image = VALUES(profile_image)`
	}
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query), p.UserID, p.Phone, p.ProfileImage, p.JoinedDate)
	return err
}
