package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrTokenBinding = errors.New("token no longer matches its binding")

// Manager issues purpose-scoped signed tokens and opaque refresh tokens.
//
// A signed token may be bound to a secret (for password resets, the current
// password hash). Once the secret changes the token stops verifying, so a reset
// link works at most once.
type Manager struct {
	signingKey string
	purpose    string
}

func NewManager(signingKey, purpose string) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}
	if purpose == "" {
		return nil, errors.New("empty token purpose")
	}

	return &Manager{signingKey: signingKey, purpose: purpose}, nil
}

// Issue signs a token for subject that expires after ttl and is bound to binding.
func (m *Manager) Issue(subject, binding string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Audience:  m.purpose,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
		Subject:   subject,
		Id:        m.fingerprint(binding),
	})

	return token.SignedString([]byte(m.signingKey))
}

// Verified is what a valid token carries.
type Verified struct {
	Subject     string
	fingerprint string
}

// Verify checks signature, expiry and purpose. The binding is checked
// separately with Bound once the caller has loaded the current secret.
func (m *Manager) Verify(token string) (Verified, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.StandardClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.signingKey), nil
	})
	if err != nil {
		return Verified{}, err
	}

	claims, ok := parsed.Claims.(*jwt.StandardClaims)
	if !ok || !parsed.Valid {
		return Verified{}, errors.New("invalid token claims")
	}
	if !claims.VerifyAudience(m.purpose, true) {
		return Verified{}, fmt.Errorf("token is not a %s token", m.purpose)
	}
	if claims.Subject == "" {
		return Verified{}, errors.New("token has no subject")
	}

	return Verified{Subject: claims.Subject, fingerprint: claims.Id}, nil
}

// Bound reports ErrTokenBinding unless v was issued for binding.
func (m *Manager) Bound(v Verified, binding string) error {
	if !hmac.Equal([]byte(v.fingerprint), []byte(m.fingerprint(binding))) {
		return ErrTokenBinding
	}
	return nil
}

func (m *Manager) fingerprint(binding string) string {
	mac := hmac.New(sha256.New, []byte(m.signingKey))
	mac.Write([]byte(m.purpose))
	mac.Write([]byte{0})
	mac.Write([]byte(binding))
	return hex.EncodeToString(mac.Sum(nil)[:12])
}

// NewRefreshToken returns 32 bytes from crypto/rand as hex. Refresh tokens are
// long-lived bearer credentials, so they never come from a seeded generator.
func (m *Manager) NewRefreshToken() (string, error) {
	b := make([]byte, 32)

	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
