package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/database/models"
)

const tokenIssuer = "bugtracker"

var (
	ErrInvalidToken = apperr.Auth("Invalid token")
	ErrExpiredToken = apperr.Auth("Token has expired")
)

// Claims identify the caller. TeamID is a hint captured at login and may be
// stale after the user creates or joins a team; uuid.Nil means no team.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	TeamID   uuid.UUID `json:"team_id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// HasTeam reports whether the user belonged to a team when the token was issued.
func (c *Claims) HasTeam() bool {
	return c.TeamID != uuid.Nil
}

// JWTService issues and checks HS256 session tokens.
type JWTService struct {
	secret []byte
	expiry time.Duration
	parser *jwt.Parser
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// IssueToken signs a session token for user, capturing its current team.
func (s *JWTService) IssueToken(user *models.User) (string, error) {
	teamID := uuid.Nil
	if user.HasTeam() {
		teamID = *user.TeamID
	}

	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		TeamID:   teamID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims.UserID == uuid.Nil || claims.Subject != claims.UserID.String() {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
