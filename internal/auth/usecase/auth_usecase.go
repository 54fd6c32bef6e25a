package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"inkq/internal/auth/config"
	"inkq/internal/auth/domain/model"
	"inkq/internal/auth/domain/repository"
	apperrors "inkq/internal/shared/errors"
	"inkq/internal/shared/eventbus"
	"inkq/internal/shared/logger"

	"github.com/google/uuid"
)

var (
	ErrAccountExists      = errors.New("email or username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordRequired   = errors.New("password is required")
	ErrSessionNotFound    = errors.New("session not found")
	ErrTokenConflict      = errors.New("session token already exists")
)

const (
	maxPasswordLength = 512

	// tokenInsertAttempts bounds retries on the astronomically unlikely
	// token collision at insert.
	tokenInsertAttempts = 3
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)
)

// FailureReason classifies why a token failed to resolve. The request gate
// branches on it to decide cookie-clearing behavior, so not-found and
// expired stay distinct internally even though users see one message.
type FailureReason string

const (
	ReasonNoSuchSession FailureReason = "no_such_session"
	ReasonExpired       FailureReason = "expired"
)

// Resolution is the outcome of resolving a session token. Exactly one of
// User or Reason is set: not-found and expired are expected, representable
// outcomes rather than errors. The error return of ResolveToken is reserved
// for store failures.
type Resolution struct {
	User   *model.User
	Reason FailureReason
}

// Authenticated reports whether the resolution produced a user.
func (r Resolution) Authenticated() bool {
	return r.User != nil
}

// SignUpRequest represents the sign-up form submission.
type SignUpRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Role     string `json:"account_type" form:"account_type"`
}

// SignInRequest represents the sign-in form submission. Login matches
// either the email or the username.
type SignInRequest struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

// AuthUsecaseInterface defines the contract for the session service.
type AuthUsecaseInterface interface {
	SignUp(ctx context.Context, req SignUpRequest, client model.ClientInfo) (*model.User, string, error)
	SignIn(ctx context.Context, req SignInRequest, client model.ClientInfo) (*model.User, string, error)
	ResolveToken(ctx context.Context, token string) (Resolution, error)
	SignOut(ctx context.Context, token string) error
	RevokeUserSessions(ctx context.Context, userID string) error
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
}

// AuthUsecase implements the session service and credential verification.
type AuthUsecase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   repository.PasswordHasher
	tokens   repository.TokenSource
	bus      eventbus.EventBusInterface
	config   *config.Config
	log      logger.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher repository.PasswordHasher,
	tokens repository.TokenSource,
	bus eventbus.EventBusInterface,
	cfg *config.Config,
	log logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		bus:      bus,
		config:   cfg,
		log:      log.WithComponent("auth-usecase"),
	}
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// SignUp creates a new account and signs it in, returning the user and the
// fresh session token. Duplicate email or username yields ErrAccountExists
// without saying which field collided.
func (uc *AuthUsecase) SignUp(ctx context.Context, req SignUpRequest, client model.ClientInfo) (*model.User, string, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, "", err
	}
	if err := validateUsername(req.Username); err != nil {
		return nil, "", err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, "", err
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, "", ErrInvalidRole
	}

	hashed, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:                  uuid.New().String(),
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		Username:            strings.TrimSpace(req.Username),
		PasswordHash:        hashed,
		Role:                role,
		OnboardingCompleted: false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := uc.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, "", ErrAccountExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.createSession(ctx, user, client)
	if err != nil {
		return nil, "", err
	}

	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		eventbus.EventTypeUserSignedUp, user.ID, "auth-usecase"))

	return user, token, nil
}

// SignIn verifies credentials and issues a new session. A lookup miss and a
// password mismatch both return ErrInvalidCredentials so callers cannot
// enumerate accounts.
func (uc *AuthUsecase) SignIn(ctx context.Context, req SignInRequest, client model.ClientInfo) (*model.User, string, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := uc.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !uc.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.createSession(ctx, user, client)
	if err != nil {
		return nil, "", err
	}

	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		eventbus.EventTypeUserSignedIn, user.ID, "auth-usecase"))

	return user, token, nil
}

// createSession inserts a session row with a fixed expiry window of
// SessionTTL from now. The window does not slide on later use.
func (uc *AuthUsecase) createSession(ctx context.Context, user *model.User, client model.ClientInfo) (string, error) {
	var lastErr error
	for attempt := 0; attempt < tokenInsertAttempts; attempt++ {
		token, err := uc.tokens.NewToken()
		if err != nil {
			return "", fmt.Errorf("failed to generate session token: %w", err)
		}

		now := time.Now()
		session := &model.Session{
			Token:       token,
			UserID:      user.ID,
			CreatedAt:   now,
			ExpiresAt:   now.Add(uc.config.SessionTTL),
			LastSeenAt:  now,
			ClientIP:    client.IP,
			ClientAgent: client.UserAgent,
		}

		err = uc.sessions.CreateSession(ctx, session)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrTokenConflict) {
			return "", fmt.Errorf("failed to create session: %w", err)
		}
		lastErr = err
		uc.log.Warnf("session token collision, retrying (attempt %d)", attempt+1)
	}
	return "", fmt.Errorf("failed to create session after %d attempts: %w", tokenInsertAttempts, lastErr)
}

// storeFailure wraps a repository error for the caller. Deadline and
// cancellation failures carry apperrors.ErrUpstreamTimeout so callers can
// tell a slow store from a broken one.
func storeFailure(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ResolveToken looks the session up by token, applies expiry, touches
// last_seen_at and loads the owning user. Missing and expired sessions come
// back as a Resolution with a reason; the error return fires only when the
// store itself fails.
func (uc *AuthUsecase) ResolveToken(ctx context.Context, token string) (Resolution, error) {
	if token == "" {
		return Resolution{Reason: ReasonNoSuchSession}, nil
	}

	session, err := uc.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Resolution{Reason: ReasonNoSuchSession}, nil
		}
		return Resolution{}, storeFailure("failed to load session", err)
	}

	now := time.Now()
	if session.Expired(now) {
		// Opportunistic cleanup. If the row is already gone on a retry the
		// failure class stays the same, so best-effort is fine here.
		if err := uc.sessions.DeleteSession(ctx, token); err != nil {
			uc.log.WithContext(ctx).Warnf("failed to delete expired session: %v", err)
		}
		uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
			eventbus.EventTypeSessionExpired, session.UserID, "auth-usecase"))
		return Resolution{Reason: ReasonExpired}, nil
	}

	// last_seen_at is telemetry only; a failed touch must not fail the
	// resolution.
	if err := uc.sessions.TouchSession(ctx, token, now); err != nil {
		uc.log.WithContext(ctx).Warnf("failed to touch session: %v", err)
	}

	user, err := uc.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Orphaned session. Cascade delete should prevent this; treat
			// it as an unknown token either way.
			return Resolution{Reason: ReasonNoSuchSession}, nil
		}
		return Resolution{}, storeFailure("failed to load session user", err)
	}

	return Resolution{User: user}, nil
}

// SignOut revokes the session for the given token. It is idempotent:
// revoking an absent or already-revoked token succeeds.
func (uc *AuthUsecase) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.sessions.DeleteSession(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return storeFailure("failed to delete session", err)
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		eventbus.EventTypeUserSignedOut, nil, "auth-usecase"))
	return nil
}

// RevokeUserSessions deletes every session owned by a user. The account
// subsystem calls this when a user is deleted, upholding the cascade
// invariant.
func (uc *AuthUsecase) RevokeUserSessions(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if err := uc.sessions.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
