package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/utils"
)

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePassword(ctx context.Context, userID int, hash string) error
	SetSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, refreshToken string) (models.Session, error)
	DeleteSession(ctx context.Context, userID int) error
}

type UserService struct {
	Users    UserStore
	Profiles ProfileStore // optional; receives the initial profile row on sign-up
	// ResetTokens signs password reset tokens and mints refresh tokens.
	ResetTokens *utils.Manager
	SigningKey  string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	ResetTTL    time.Duration
	Logger      Logger
}

func (s *UserService) log() Logger { return loggerOrNop(s.Logger) }

func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if err := Validate(req); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.Users.CreateUser(ctx, models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Password: string(hash),
	})
	if err != nil {
		return models.User{}, err
	}

	if s.Profiles != nil {
		profile := models.Profile{UserID: user.ID, JoinedDate: user.CreatedAt.Format(models.PostedAtLayout)}
		if err := s.Profiles.Upsert(ctx, profile); err != nil {
			s.log().Errorf("create profile for user %d: %v", user.ID, err)
		}
	}

	s.log().Infof("user %d signed up", user.ID)
	return user, nil
}

func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.SignInResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := Validate(req); err != nil {
		return models.SignInResponse{}, err
	}

	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.SignInResponse{}, models.ErrInvalidCredentials
		}
		return models.SignInResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return models.SignInResponse{}, err
	}
	return models.SignInResponse{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The old refresh token stops working.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.Tokens, error) {
	session, err := s.Users.GetSession(ctx, refreshToken)
	if err != nil {
		return models.Tokens{}, err
	}
	if time.Now().After(session.ExpiresAt) {
		if err := s.Users.DeleteSession(ctx, session.UserID); err != nil {
			s.log().Errorf("drop expired session of user %d: %v", session.UserID, err)
		}
		return models.Tokens{}, models.ErrSessionExpired
	}

	user, err := s.Users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return models.Tokens{}, err
	}
	return s.issueTokens(ctx, user)
}

func (s *UserService) Logout(ctx context.Context, userID int) error {
	return s.Users.DeleteSession(ctx, userID)
}

// RequestPasswordReset returns a signed reset token for the account of email.
// Unknown addresses yield an empty token and no error.
func (s *UserService) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := Validate(req); err != nil {
		return "", err
	}
	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	token, err := s.ResetTokens.Issue(strconv.Itoa(user.ID), user.Password, s.ResetTTL)
	if err != nil {
		return "", err
	}
	s.log().Infof("password reset requested for user %d", user.ID)
	return token, nil
}

func (s *UserService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	verified, err := s.ResetTokens.Verify(req.Token)
	if err != nil {
		return models.ErrInvalidCredentials
	}
	userID, err := strconv.Atoi(verified.Subject)
	if err != nil {
		return models.ErrInvalidCredentials
	}
	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrInvalidCredentials
		}
		return err
	}
	// a used link is bound to the previous hash
	if err := s.ResetTokens.Bound(verified, user.Password); err != nil {
		return models.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	if err := s.Users.DeleteSession(ctx, userID); err != nil {
		s.log().Errorf("drop session after password reset of user %d: %v", userID, err)
	}
	return nil
}

// ParseAccessToken validates an access token and returns its claims.
func (s *UserService) ParseAccessToken(token string) (*models.Claims, error) {
	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *UserService) issueTokens(ctx context.Context, user models.User) (models.Tokens, error) {
	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		UserID:   uint(user.ID),
		FullName: user.FullName,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.AccessTTL).Unix(),
			IssuedAt:  now.Unix(),
			Subject:   strconv.Itoa(user.ID),
		},
	})
	accessToken, err := access.SignedString([]byte(s.SigningKey))
	if err != nil {
		return models.Tokens{}, err
	}

	refreshToken, err := s.ResetTokens.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, err
	}
	err = s.Users.SetSession(ctx, models.Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.RefreshTTL),
	})
	if err != nil {
		return models.Tokens{}, err
	}

	return models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
