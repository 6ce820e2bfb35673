// Package auth issues session tokens, hashes passwords and signs the
// anti-forgery tokens used by the API.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "token"
	// CSRFCookie holds the anti-forgery token readable by clients.
	CSRFCookie = "XSRF-TOKEN"
	// CSRFHeader must echo the CSRF cookie on state-changing requests.
	CSRFHeader = "XSRF-Token"
)

var ErrInvalidToken = errors.New("invalid token")

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

type Tokens struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokens(secret string, expiresIn time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), expiresIn: expiresIn, now: time.Now}
}

func (t *Tokens) ExpiresIn() time.Duration {
	return t.expiresIn
}

// Issue returns a signed session token for userID.
func (t *Tokens) Issue(userID int64) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expiresIn)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a session token and returns the user id it was issued for.
func (t *Tokens) Parse(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// NewCSRFToken returns a random nonce followed by its HMAC so the server can
// recognise tokens it issued without keeping state.
func (t *Tokens) NewCSRFToken() string {
	nonce := uuid.NewString()
	return nonce + "." + t.csrfMAC(nonce)
}

// VerifyCSRF reports whether header echoes cookie and cookie is a token this
// server signed.
func (t *Tokens) VerifyCSRF(cookie, header string) bool {
	if cookie == "" || !hmac.Equal([]byte(cookie), []byte(header)) {
		return false
	}
	nonce, mac, ok := strings.Cut(cookie, ".")
	if !ok {
		return false
	}
	return hmac.Equal([]byte(mac), []byte(t.csrfMAC(nonce)))
}

func (t *Tokens) csrfMAC(nonce string) string {
	h := hmac.New(sha256.New, t.secret)
	h.Write([]byte("csrf:" + nonce))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
