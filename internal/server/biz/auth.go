package biz

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/log"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/scopes"
	"github.com/embedhub/embedhub/internal/store"
)

// DefaultTokenDuration is how long a login token stays valid.
const DefaultTokenDuration = 7 * 24 * time.Hour

// AuthConfig carries the token signing settings.
type AuthConfig struct {
	// JWTSecret signs login tokens with HS256. Must be non-empty in
	// production configs.
	JWTSecret string `json:"jwtSecret" yaml:"jwt_secret"`
	// TokenDuration overrides DefaultTokenDuration when positive.
	TokenDuration time.Duration `json:"tokenDuration" yaml:"token_duration"`
}

func (c AuthConfig) tokenDuration() time.Duration {
	if c.TokenDuration > 0 {
		return c.TokenDuration
	}

	return DefaultTokenDuration
}

// HashPassword hashes a password with bcrypt, hex-encoded for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hashed), nil
}

// VerifyPassword checks a password against a stored hex-encoded bcrypt hash.
func VerifyPassword(hashedPassword, password string) bool {
	hashed, err := hex.DecodeString(hashedPassword)
	if err != nil {
		return false
	}

	return bcrypt.CompareHashAndPassword(hashed, []byte(password)) == nil
}

type AuthServiceParams struct {
	fx.In

	Store  store.Store
	Clock  store.Clock
	Config AuthConfig
}

type AuthService struct {
	*AbstractService

	config AuthConfig
}

func NewAuthService(params AuthServiceParams) *AuthService {
	return &AuthService{
		AbstractService: &AbstractService{store: params.Store, clock: params.Clock},
		config:          params.Config,
	}
}

// GenerateJWTToken issues an HS256 token whose subject is the user id.
func (s *AuthService) GenerateJWTToken(userID uuid.UUID) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.tokenDuration())),
	})

	return token.SignedString([]byte(s.config.JWTSecret))
}

// ParseJWTToken validates a token and returns the user id it names.
func (s *AuthService) ParseJWTToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidJWT
		}

		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidJWT
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidJWT
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidJWT
	}

	return userID, nil
}

// LoginResult is a successful login: the bearer token plus the user it
// belongs to.
type LoginResult struct {
	Token string           `json:"token"`
	User  objects.UserInfo `json:"user"`
}

// Login exchanges email and password for a token. Lookup failures and bad
// passwords both report ErrInvalidPassword so callers cannot probe for
// registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := authz.RunWithSystemBypass(ctx, "auth.login", func(ctx context.Context) (*objects.User, error) {
		record, err := s.store.GetByAttr(ctx, scopes.ResourceUsers, store.AttrEmail, normalizeEmail(email))
		if err != nil {
			return nil, err
		}

		return userFromRecord(record), nil
	})
	if err != nil {
		log.Debug(ctx, "login lookup failed", log.String("email", email), log.Cause(err))
		return nil, ErrInvalidPassword
	}

	if !VerifyPassword(user.Password, password) {
		return nil, ErrInvalidPassword
	}

	if user.Status != objects.UserStatusActivated {
		return nil, ErrInvalidPassword
	}

	token, err := s.GenerateJWTToken(user.ID)
	if err != nil {
		return nil, ErrInternal
	}

	return &LoginResult{Token: token, User: user.Info()}, nil
}
