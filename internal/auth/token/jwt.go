// Package token issues and parses the HS256 session tokens handed out at sign-in.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid is returned for tokens that fail signature, issuer or expiry checks.
var ErrInvalid = errors.New("invalid session token")

// Claims are the session facts carried by a token.
type Claims struct {
	TokenID   string
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func New(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a new session token for the user.
func (m *Manager) Issue(userID, email string) (string, Claims, error) {
	now := m.now().UTC()
	jti := uuid.NewString()

	cl := jwtClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, Claims{
		TokenID:   jti,
		UserID:    userID,
		Email:     email,
		IssuedAt:  cl.IssuedAt.Time,
		ExpiresAt: cl.ExpiresAt.Time,
	}, nil
}

// Parse validates signature, algorithm, issuer and expiry.
func (m *Manager) Parse(raw string) (Claims, error) {
	var out jwtClaims
	tkn, err := jwt.ParseWithClaims(raw, &out, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return Claims{}, errors.Join(ErrInvalid, err)
	}
	return Claims{
		TokenID:   out.ID,
		UserID:    out.Subject,
		Email:     out.Email,
		IssuedAt:  out.IssuedAt.Time,
		ExpiresAt: out.ExpiresAt.Time,
	}, nil
}
