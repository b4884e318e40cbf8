package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/database/models"
)

// Authenticator is the account surface the HTTP layer depends on.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService issues session tokens for users and resolves them back to claims.
type TokenService interface {
	IssueToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
