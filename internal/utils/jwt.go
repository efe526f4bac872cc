package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token scopes. A token is only accepted for the scope it was issued for.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
	ScopeEmail   = "email_token"
)

const resetTokenBytes = 32

// ErrInvalidToken is returned for tokens with a bad signature, an expired lifetime or the wrong scope
var ErrInvalidToken = errors.New("invalid token")

// JWTClaims custom claims for JWT
type JWTClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTUtil issues and validates the signed tokens of the auth flow
type JWTUtil struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
	now        func() time.Time
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, accessTTL, refreshTTL, emailTTL time.Duration) *JWTUtil {
	return &JWTUtil{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,
		now:        time.Now,
	}
}

// CreateAccessToken issues a short lived token authorizing API calls for email
func (ju *JWTUtil) CreateAccessToken(email string) (string, error) {
	return ju.generateToken(email, ScopeAccess, ju.accessTTL)
}

// CreateRefreshToken issues a long lived token used only to mint new token pairs
func (ju *JWTUtil) CreateRefreshToken(email string) (string, error) {
	return ju.generateToken(email, ScopeRefresh, ju.refreshTTL)
}

// CreateEmailToken issues a token embedded in confirmation links
func (ju *JWTUtil) CreateEmailToken(email string) (string, error) {
	return ju.generateToken(email, ScopeEmail, ju.emailTTL)
}

// DecodeAccessToken returns the subject email of a valid access token
func (ju *JWTUtil) DecodeAccessToken(tokenString string) (string, error) {
	return ju.subject(tokenString, ScopeAccess)
}

// DecodeRefreshToken returns the subject email of a valid refresh token
func (ju *JWTUtil) DecodeRefreshToken(tokenString string) (string, error) {
	return ju.subject(tokenString, ScopeRefresh)
}

// GetEmailFromToken returns the subject email of a valid confirmation token
func (ju *JWTUtil) GetEmailFromToken(tokenString string) (string, error) {
	return ju.subject(tokenString, ScopeEmail)
}

// generateToken generates a new JWT token
func (ju *JWTUtil) generateToken(email, scope string, ttl time.Duration) (string, error) {
	now := ju.now()
	claims := &JWTClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   email,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates the JWT token and checks that it was issued for scope
func (ju *JWTUtil) ValidateToken(tokenString, scope string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	}, jwt.WithTimeFunc(ju.now), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse token: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Scope != scope {
		return nil, fmt.Errorf("%w: invalid scope %q", ErrInvalidToken, claims.Scope)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func (ju *JWTUtil) subject(tokenString, scope string) (string, error) {
	claims, err := ju.ValidateToken(tokenString, scope)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// GenerateResetToken returns an unguessable opaque token for the password reset flow.
// It is not signed: its validity is decided by the stored row and its expiration.
func GenerateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
