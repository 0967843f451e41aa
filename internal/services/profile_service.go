package services

import (
	"context"
	"errors"
	"time"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/utils"
)

type ProfileStore interface {
	Get(ctx context.Context, userID int) (models.Profile, error)
	Upsert(ctx context.Context, p models.Profile) error
}

type ProfileService struct {
	Profiles ProfileStore
	Users    interface {
		GetUserByID(ctx context.Context, id int) (models.User, error)
	}
	Uploader utils.Uploader // optional
	Logger   Logger
}

// Get returns the stored profile, or defaults (empty phone and image, joined today) when none exists.
func (s *ProfileService) Get(ctx context.Context, userID int) (models.Profile, error) {
	p, err := s.Profiles.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, models.ErrNoRecord) {
		return models.Profile{}, err
	}

	p = models.Profile{UserID: userID, JoinedDate: time.Now().Format(models.PostedAtLayout)}
	if s.Users != nil {
		user, err := s.Users.GetUserByID(ctx, userID)
		if err != nil {
			return models.Profile{}, err
		}
		p.FullName = user.FullName
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, userID int, req models.UpdateProfileRequest) (models.Profile, error) {
	if err := Validate(req); err != nil {
		return models.Profile{}, err
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}

	image, err := storeImage(ctx, s.Uploader, req.ProfileImage, "profiles")
	if err != nil {
		loggerOrNop(s.Logger).Errorf("upload profile image of user %d: %v", userID, err)
		return models.Profile{}, &models.ValidationError{Field: "ProfileImage", Message: "profile image could not be stored"}
	}

	p.Phone = req.Phone
	p.ProfileImage = image
	if err := s.Profiles.Upsert(ctx, p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
