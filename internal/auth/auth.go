// Package auth provides login, session tokens and role checks
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
)

const issuer = "budget-service"

// Session is an authenticated user session
type Session struct {
	Token     string     `json:"token"`
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	Role      types.Role `json:"role"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// claims are the JWT claims of a session token
type claims struct {
	Username string     `json:"username"`
	Role     types.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service handles authentication operations
type Service struct {
	users  storage.UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a new auth service
func NewService(users storage.UserStore, secret string, ttl time.Duration) *Service {
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// HashPassword returns the bcrypt hash of a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login verifies credentials and issues a session token
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	expires := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{
		Token:     signed,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: expires,
	}, nil
}

// ValidateToken verifies a session token
func (s *Service) ValidateToken(tokenString string) (*Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	session := &Session{
		Token:    tokenString,
		UserID:   c.Subject,
		Username: c.Username,
		Role:     c.Role,
	}
	if c.ExpiresAt != nil {
		session.ExpiresAt = c.ExpiresAt.Time
	}
	return session, nil
}

// RequireRole checks that the session holds one of the roles. Admin satisfies every role.
func RequireRole(session *Session, roles ...types.Role) error {
	if session == nil {
		return ErrInvalidToken
	}
	if session.Role == types.RoleAdmin {
		return nil
	}
	for _, r := range roles {
		if session.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// EnsureUser creates or updates a user with the given password and role
func (s *Service) EnsureUser(ctx context.Context, username, password string, role types.Role) (*types.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := types.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if existing, err := s.users.GetUserByUsername(ctx, username); err == nil {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.users.UpsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return &user, nil
}
