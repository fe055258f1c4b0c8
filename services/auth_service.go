package services

import (
	"fmt"
	"time"

	"exoplanet-prediction-api/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	jwtSecret []byte
	method    jwt.SigningMethod
	expiry    time.Duration
}

// NewAuthService accepts the HMAC algorithms HS256, HS384 and HS512.
func NewAuthService(cfg config.JWTConfig) (*AuthService, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.Algorithm)
	}
	if cfg.ExpiryMinutes <= 0 {
		return nil, fmt.Errorf("jwt expiry must be positive, got %d minutes", cfg.ExpiryMinutes)
	}
	return &AuthService{
		jwtSecret: []byte(cfg.Secret),
		method:    method,
		expiry:    time.Duration(cfg.ExpiryMinutes) * time.Minute,
	}, nil
}

func (s *AuthService) HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

func (s *AuthService) CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Claims carries the account email in "sub".
type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) Email() string { return c.Subject }

func (s *AuthService) GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return s.jwtSecret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExpiresIn is the lifetime given to new tokens.
func (s *AuthService) ExpiresIn() time.Duration { return s.expiry }
