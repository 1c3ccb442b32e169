package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillshare/internal/cache"
	"skillshare/internal/config"
	"skillshare/internal/model"
	"skillshare/internal/repository"
)

// AuthService is the identity provider: it signs users in (creating the
// profile document lazily on first sign-in), signs them out by revoking the
// token, and validates tokens for the middleware. Every sign-in/sign-out
// transition is pushed to the broadcaster.
type AuthService struct {
	userRepo    repository.UserRepo
	tokens      cache.TokenCache
	jwtSecret   []byte
	tokenTTL    time.Duration
	broadcaster Broadcaster
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepo, tokens cache.TokenCache, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
	}
}

// SetBroadcaster injects the auth-event broadcaster (wsHub implements it)
func (s *AuthService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SignIn authenticates by email. The first sign-in for an email creates the
// user document with the chosen username, which never changes afterwards;
// on later sign-ins the stored username wins and the password must match.
func (s *AuthService) SignIn(ctx context.Context, username, email, password string) (*model.SignInResponse, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "required"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "required"}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		if username == "" {
			return nil, &ValidationError{Field: "username", Message: "required on first sign-in"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user = &model.User{
			UID:          uuid.New().String(),
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastAuthEvent("signed_in", model.AuthEvent{UID: user.UID, Username: user.Username})
	}

	return &model.SignInResponse{
		Token:    token,
		UID:      user.UID,
		Username: user.Username,
	}, nil
}

// SignOut revokes the presented token until its natural expiry.
func (s *AuthService) SignOut(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return err
	}

	ttl := s.tokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastAuthEvent("signed_out", model.AuthEvent{UID: claims.UID, Username: claims.Username})
	}
	return nil
}

// Validate parses a token and rejects it if it has been revoked.
func (s *AuthService) Validate(ctx context.Context, tokenString string) (*model.UserClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Me returns the profile for a signed-in uid.
func (s *AuthService) Me(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &model.UserClaims{
		UID:      user.UID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) parseToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
