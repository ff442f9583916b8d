package auth

import (
	"errors"
	"fmt"
	"time"

	"palette-wardrobe/stylist/internal/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingSecret = errors.New("admin token secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

const tokenIssuer = "stylist"

type adminTokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 admin tokens.
type TokenService struct {
	secretKey []byte
	now       func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secretKey: []byte(secret), now: time.Now}
}

// Issue signs an admin token for subject valid for ttl.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if len(s.secretKey) == 0 {
		return "", ErrMissingSecret
	}

	now := s.now()
	claims := adminTokenClaims{
		Role: string(constants.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses tokenString and returns its claims if it is a valid,
// unexpired admin token.
func (s *TokenService) Verify(tokenString string) (*AdminClaims, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrMissingSecret
	}

	var claims adminTokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != string(constants.RoleAdmin) {
		return nil, fmt.Errorf("%w: role %q is not admin", ErrInvalidToken, claims.Role)
	}

	return &AdminClaims{
		SubjectValue: claims.Subject,
		RoleValue:    constants.Role(claims.Role),
		TokenIDValue: claims.ID,
	}, nil
}
