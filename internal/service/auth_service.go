package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/opsdeck/admin-api/internal/cache"
	"github.com/opsdeck/admin-api/internal/utils"
)

// AuthService authenticates admins and manages token revocation.
type AuthService struct {
	store  AdminStore
	tokens *cache.TokenCache
}

// NewAuthService constructs an AuthService.
func NewAuthService(store AdminStore, tokens *cache.TokenCache) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	log.Debug().Str("email", email).Msg("login attempt")

	admin, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", utils.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !admin.Enabled {
		log.Warn().Str("email", email).Msg("login rejected: account disabled")
		return "", utils.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("login rejected: password mismatch")
		return "", utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Email)
	if err != nil {
		return "", err
	}

	log.Info().Str("email", email).Msg("login successful")
	return token, nil
}

// Logout revokes the token identified by tokenID until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.tokens == nil {
		return nil
	}
	return s.tokens.Revoke(ctx, tokenID, expiresAt)
}

// IsTokenRevoked reports whether a token has been revoked via Logout.
func (s *AuthService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.tokens == nil {
		return false, nil
	}
	return s.tokens.IsRevoked(ctx, tokenID)
}
