package service

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/inkpress-dev/inkpress/internal/errors"
	"github.com/inkpress-dev/inkpress/internal/utils"
	"golang.org/x/crypto/argon2"
)

// Password hashing configuration, version 1. These are deliberately fixed
// constants: changing any of them invalidates every stored hash, so a change
// requires a rehash-on-login migration, not a config edit.
const (
	argonTime      = 2
	argonMemoryKiB = 15000
	argonThreads   = 1
	argonKeyLen    = 32
)

// dummySalt is hashed against when the username is unknown, so the request
// pays the same hashing cost either way and response timing does not reveal
// whether a username exists.
var dummySalt = []byte("x9JpT3fWqZl0mB7c")

const (
	minPasswordLen = 12
	maxPasswordLen = 128
)

type AuthService interface {
	ValidateCredentials(ctx context.Context, creds domain.Credentials) (domain.UserId, error)
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	ChangePassword(ctx context.Context, username domain.Username, current, newPassword domain.Secret) error
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
	log     *slog.Logger
}

type AuthStorage interface {
	User(ctx context.Context, username domain.Username) (domain.User, error)
	UpdatePassword(ctx context.Context, userId domain.UserId, passwordHash string, salt []byte) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt, log *slog.Logger) *Auth {
	return &Auth{storage: storage, jwt: jwt, log: log}
}

// HashPassword computes the hex argon2id digest of password under salt.
// Exposed for account provisioning tooling and tests.
func HashPassword(password domain.Secret, salt []byte) string {
	digest := argon2.IDKey([]byte(password.Expose()), salt, argonTime, argonMemoryKiB, argonThreads, argonKeyLen)
	return hex.EncodeToString(digest)
}

func invalidCredentials() error {
	// Same message for unknown username and wrong password, to not leak
	// which usernames exist.
	return &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
}

// ValidateCredentials verifies a username/password pair against the stored
// salted hash and returns the user id on success. It hashes the supplied
// password on every call, found record or not, and compares in constant time.
func (a *Auth) ValidateCredentials(ctx context.Context, creds domain.Credentials) (domain.UserId, error) {
	user, err := a.validateCredentials(ctx, creds)
	if err != nil {
		return domain.UserId{}, err
	}
	return user.Id, nil
}

func (a *Auth) validateCredentials(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	user, err := a.storage.User(ctx, creds.Username)
	if err != nil {
		if errors.IsNotFound(err) {
			// Burn the hashing cost anyway (timing parity).
			HashPassword(creds.Password, dummySalt)
			return domain.User{}, invalidCredentials()
		}
		return domain.User{}, err
	}

	computed := HashPassword(creds.Password, user.Salt)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(user.PasswordHash)) != 1 {
		a.log.Warn("password verification failed", "username", creds.Username)
		return domain.User{}, invalidCredentials()
	}

	return user, nil
}

// Login validates the credentials and returns a session token.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	user, err := a.validateCredentials(ctx, creds)
	if err != nil {
		return "", err
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		a.log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", err
	}
	return token, nil
}

// ChangePassword verifies the current password and stores a fresh salt and
// hash for the new one.
func (a *Auth) ChangePassword(ctx context.Context, username domain.Username, current, newPassword domain.Secret) error {
	if n := len(newPassword.Expose()); n < minPasswordLen || n > maxPasswordLen {
		return &errors.ErrorWithStatusCode{
			Message:    "The new password must be between 12 and 128 characters long",
			StatusCode: http.StatusBadRequest,
		}
	}

	user, err := a.validateCredentials(ctx, domain.Credentials{Username: username, Password: current})
	if err != nil {
		return err
	}

	salt := utils.GenerateSalt()
	return a.storage.UpdatePassword(ctx, user.Id, HashPassword(newPassword, salt), salt)
}
