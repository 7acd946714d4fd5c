package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/utils"
)

// Session is the result of a successful login.
type Session struct {
	User      model.Profile `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// AuthConfig holds the token and hashing settings of Auth.
type AuthConfig struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

// Auth verifies credentials and issues access tokens.
type Auth struct {
	users *repository.UserRepo
	cfg   AuthConfig
	now   func() time.Time
	log   *zap.Logger
}

func NewAuth(users *repository.UserRepo, cfg AuthConfig, now func() time.Time, log *zap.Logger) *Auth {
	return &Auth{users: users, cfg: cfg, now: now, log: log}
}

// Login checks email and password against the stored bcrypt hash. Every
// failure, including an unknown email, is reported as ErrUnauthorized.
func (a *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, ErrUnauthorized
	}
	u, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrUnauthorized
	}
	if err != nil {
		return Session{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		a.log.Info("login rejected", zap.Int64("user_id", int64(u.ID)))
		return Session{}, ErrUnauthorized
	}

	claims := utils.Claims{UserID: int64(u.ID), Role: u.Role}
	if u.HotelID != nil {
		claims.HotelID = strconv.FormatInt(int64(*u.HotelID), 10)
	}
	tok, err := utils.NewAccessToken(a.cfg.Secret, claims, a.cfg.TokenTTL, a.now())
	if err != nil {
		return Session{}, err
	}
	a.log.Info("login", zap.Int64("user_id", int64(u.ID)), zap.String("role", u.Role))
	return Session{User: u.Profile(), Token: tok.Token, ExpiresAt: tok.Exp}, nil
}

// HashPassword hashes a password with the configured cost.
func (a *Auth) HashPassword(plain string) (string, error) {
	return utils.HashPassword(plain, a.cfg.BcryptCost)
}

// UpgradeLegacyPasswords replaces every stored plaintext password with its
// bcrypt hash and returns how many users were converted. Values that are
// already bcrypt hashes are moved over unchanged.
func (a *Auth) UpgradeLegacyPasswords(ctx context.Context) (int, error) {
	users, err := a.users.ListWithPlaintextPassword(ctx)
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		hash := u.Password
		if !utils.LooksHashed(hash) {
			if hash, err = a.HashPassword(u.Password); err != nil {
				return 0, err
			}
		}
		if err := a.users.SetPasswordHash(ctx, int64(u.ID), hash); err != nil {
			return 0, err
		}
	}
	if len(users) > 0 {
		a.log.Info("plaintext passwords hashed", zap.Int("users", len(users)))
	}
	return len(users), nil
}
