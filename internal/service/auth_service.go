package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"focus_engine/internal/repository"
)

// AuthService pairs companion devices and issues their bearer tokens.
type AuthService struct {
	devices  repository.DeviceRepo
	settings AuthSettings
	clock    func() time.Time
}

func NewAuthService(repo repository.DeviceRepo, settings AuthSettings) *AuthService {
	if settings.TokenTTL <= 0 {
		settings.TokenTTL = time.Hour
	}
	return &AuthService{devices: repo, settings: settings, clock: time.Now}
}

// RegisterDevice hashes the secret and stores a new device. The pairing code
// shown by the host must match.
func (s *AuthService) RegisterDevice(ctx context.Context, name, secret, pairingCode string) (int, error) {
	if subtle.ConstantTimeCompare([]byte(pairingCode), []byte(s.settings.PairingCode)) != 1 {
		return 0, ErrInvalidPairingCode
	}
	if strings.TrimSpace(name) == "" {
		return 0, errors.New("device name is empty")
	}
	hash, err := hashSecret(secret)
	if err != nil {
		return 0, fmt.Errorf("invalid secret: %w", err)
	}
	return s.devices.Create(ctx, name, hash)
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	DeviceID int `json:"device_id"`
}

// GenerateToken validates device credentials and returns a JWT.
func (s *AuthService) GenerateToken(ctx context.Context, name, secret string) (string, error) {
	d, err := s.devices.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	if d == nil {
		return "", ErrDeviceNotFound
	}
	if err := verifySecret(d.SecretHash, secret); err != nil {
		return "", ErrInvalidSecret
	}
	return s.issueToken(d.ID)
}

// ParseToken parses a JWT and returns the device id.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.settings.SigningKey), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.DeviceID, nil
}

func hashSecret(secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("secret is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

func verifySecret(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}

func (s *AuthService) issueToken(deviceID int) (string, error) {
	now := s.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.settings.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		DeviceID: deviceID,
	})
	return token.SignedString([]byte(s.settings.SigningKey))
}
