package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"govdocs/internal/auth/token"
	"govdocs/internal/cache"
	"govdocs/internal/config"
	"govdocs/internal/logging"
	"govdocs/internal/model"
	"govdocs/internal/notify"
	"govdocs/internal/repository"
)

// One-time token purposes.
const (
	purposeReset  = "reset"
	purposeVerify = "verify"
)

// TokenStore keeps revoked session IDs and one-time tokens.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PutOneTime(ctx context.Context, purpose, token, subject string, ttl time.Duration) error
	TakeOneTime(ctx context.Context, purpose, token string) (string, error)
}

// TokenManager issues and parses session tokens.
type TokenManager interface {
	Issue(userID, email string) (string, token.Claims, error)
	Parse(raw string) (token.Claims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

// SignUpInput is the registration form.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type"`
	ExpiresAt   time.Time           `json:"expires_at"`
	User        model.UserWithRoles `json:"user"`
}

// AuthService is the identity provider: sessions, registration, password reset and email
// verification. Authenticate is the single session lookup every protected request goes through.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.UserWithRoles, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, actor model.Actor) error

	// Authenticate resolves a bearer token to the calling actor, loading profile and roles once.
	Authenticate(ctx context.Context, rawToken string) (model.Actor, error)

	// Session returns the current user.
	Session(ctx context.Context, actor model.Actor) (*model.UserWithRoles, error)

	// RequestPasswordReset sends a reset link. Unknown addresses are not reported.
	RequestPasswordReset(ctx context.Context, email string) error
	// ResetPassword completes a reset with the token from the link.
	ResetPassword(ctx context.Context, resetToken, newPassword string) error

	Verify(ctx context.Context, verifyToken string) error
	ResendVerification(ctx context.Context, email string) error
}

type authService struct {
	users    repository.UserRepository
	tokens   TokenManager
	store    TokenStore
	hasher   PasswordHasher
	notifier notify.Notifier
	activity ActivityService
	cfg      config.AuthConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens TokenManager,
	store TokenStore,
	hasher PasswordHasher,
	notifier notify.Notifier,
	activity ActivityService,
	cfg config.AuthConfig,
	logger *logging.Logger,
) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		store:    store,
		hasher:   hasher,
		notifier: notifier,
		activity: activity,
		cfg:      cfg,
		logger:   logger.With("auth"),
		now:      time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *authService) checkPassword(p string) error {
	if len([]rune(p)) < s.cfg.MinPasswordChars {
		return fmt.Errorf("%w: at least %d characters", ErrWeakPassword, s.cfg.MinPasswordChars)
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*model.UserWithRoles, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	p := &model.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !s.cfg.RequireVerified {
		p.EmailVerifiedAt = &now
	}

	var roles []string
	if slices.Contains(s.cfg.AdminEmails, email) {
		roles = append(roles, model.RoleAdmin)
	}

	u, err := s.users.Create(ctx, p, roles)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if s.cfg.RequireVerified {
		if err := s.sendVerification(ctx, u.ID, u.Email); err != nil {
			s.logger.Error("verification_send_failed", err, map[string]any{"user_id": u.ID})
		}
	}
	return u, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	if s.cfg.RequireVerified && u.EmailVerifiedAt == nil {
		return nil, ErrEmailNotVerified
	}

	raw, claims, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	actor := actorFrom(u, claims)
	s.activity.Log(ctx, actor, model.ActionLogin, model.EntityUser, &u.ID, nil)
	return &Session{AccessToken: raw, TokenType: "Bearer", ExpiresAt: claims.ExpiresAt, User: *u}, nil
}

func (s *authService) SignOut(ctx context.Context, actor model.Actor) error {
	if actor.TokenID == "" {
		return ErrUnauthenticated
	}
	if err := s.store.Revoke(ctx, actor.TokenID, actor.ExpiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.activity.Log(ctx, actor, model.ActionLogout, model.EntityUser, &actor.UserID, nil)
	return nil
}

func (s *authService) Authenticate(ctx context.Context, rawToken string) (model.Actor, error) {
	if rawToken == "" {
		return model.Actor{}, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return model.Actor{}, ErrUnauthenticated
	}
	revoked, err := s.store.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return model.Actor{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return model.Actor{}, ErrUnauthenticated
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Actor{}, ErrUnauthenticated
		}
		return model.Actor{}, err
	}
	return actorFrom(u, claims), nil
}

func actorFrom(u *model.UserWithRoles, c token.Claims) model.Actor {
	return model.Actor{
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Roles:     u.Roles,
		TokenID:   c.TokenID,
		ExpiresAt: c.ExpiresAt,
	}
}

func (s *authService) Session(ctx context.Context, actor model.Actor) (*model.UserWithRoles, error) {
	u, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("password_reset_unknown_email", nil)
			return nil
		}
		return err
	}

	tok := newOneTimeToken()
	if err := s.store.PutOneTime(ctx, purposeReset, tok, u.ID, s.cfg.ResetTokenTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	return s.notifier.Notify(ctx, notify.Notice{
		Kind:    notify.KindPasswordReset,
		To:      u.Email,
		Subject: "Reset your password",
		Body:    "Use this link to set a new password: " + s.link("/reset-password", tok),
		Data:    map[string]any{"token": tok},
	})
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := s.checkPassword(newPassword); err != nil {
		return err
	}
	userID, err := s.takeToken(ctx, purposeReset, resetToken)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (s *authService) Verify(ctx context.Context, verifyToken string) error {
	userID, err := s.takeToken(ctx, purposeVerify, verifyToken)
	if err != nil {
		return err
	}
	if err := s.users.MarkVerified(ctx, userID, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (s *authService) ResendVerification(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if u.EmailVerifiedAt != nil {
		return nil
	}
	return s.sendVerification(ctx, u.ID, u.Email)
}

func (s *authService) sendVerification(ctx context.Context, userID, email string) error {
	tok := newOneTimeToken()
	if err := s.store.PutOneTime(ctx, purposeVerify, tok, userID, s.cfg.VerifyTokenTTL); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}
	return s.notifier.Notify(ctx, notify.Notice{
		Kind:    notify.KindVerifyEmail,
		To:      email,
		Subject: "Confirm your email address",
		Body:    "Confirm your account: " + s.link("/auth/verify", tok),
		Data:    map[string]any{"token": tok},
	})
}

func (s *authService) takeToken(ctx context.Context, purpose, tok string) (string, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ErrInvalidToken
	}
	subject, err := s.store.TakeOneTime(ctx, purpose, tok)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return subject, nil
}

func (s *authService) link(path, tok string) string {
	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + path + "?token=" + url.QueryEscape(tok)
}

func newOneTimeToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}
