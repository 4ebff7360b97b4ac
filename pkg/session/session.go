package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/looplab/fsm"

	"airstream/pkg/auth"
	"airstream/pkg/domain"
	"airstream/pkg/store"
)

const authFlagValue = "true"

// Config holds the collaborators of a Session.
type Config struct {
	Identity auth.IdentityVerifier
	Flags    store.KVStore
	Logger   *slog.Logger
}

// State is a read-only snapshot of the session.
type State struct {
	Authenticated bool             `json:"isAuthenticated"`
	Email         string           `json:"email,omitempty"`
	CodeVerified  bool             `json:"codeVerified"`
	Step          domain.ResetStep `json:"step"`
}

// Session owns authentication status and the password reset flow for the
// single implicit user. Only the authentication flag is persisted; reset
// progress lives in memory and is lost on restart.
type Session struct {
	mu       sync.Mutex
	identity auth.IdentityVerifier
	flags    store.KVStore
	logger   *slog.Logger

	authenticated bool
	email         string
	code          string
	flow          *fsm.FSM
}

// New restores the authentication flag from the durable store.
func New(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Identity == nil {
		return nil, errors.New("session: identity verifier is required")
	}
	if cfg.Flags == nil {
		return nil, errors.New("session: flag store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	flag, err := cfg.Flags.Get(ctx, store.KeyAuth)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load auth flag: %w", err)
	}
	return &Session{
		identity:      cfg.Identity,
		flags:         cfg.Flags,
		logger:        logger,
		authenticated: flag == authFlagValue,
		flow:          newResetFlow(logger),
	}, nil
}

// Login authenticates the fixed account and persists the flag.
// On success the caller should navigate to the dashboard.
func (s *Session) Login(ctx context.Context, identifier, secret string) (domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.identity.VerifyCredentials(ctx, identifier, secret)
	if err != nil {
		return "", fmt.Errorf("verify credentials: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := s.flags.Set(ctx, store.KeyAuth, authFlagValue); err != nil {
		return "", fmt.Errorf("persist auth flag: %w", err)
	}
	s.authenticated = true
	return domain.ViewDashboard, nil
}

// Logout clears authentication unconditionally. Calling it while logged out
// is a no-op apart from clearing the persisted flag again.
func (s *Session) Logout(ctx context.Context) (domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	if err := s.flags.Delete(ctx, store.KeyAuth); err != nil {
		return domain.ViewLogin, fmt.Errorf("clear auth flag: %w", err)
	}
	return domain.ViewLogin, nil
}

// IsAuthenticated reports the current authentication status.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// BeginReset starts (or restarts) the reset flow for email.
func (s *Session) BeginReset(ctx context.Context, email string) (domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.identity.VerifyAccount(ctx, email)
	if err != nil {
		return "", fmt.Errorf("verify account: %w", err)
	}
	if !ok {
		return "", ErrEmailNotFound
	}
	if err := fire(ctx, s.flow, eventSubmitEmail); err != nil {
		return "", err
	}
	s.email = email
	s.code = ""
	return domain.ViewVerifyCode, nil
}

// SubmitVerificationCode checks code for the email given to BeginReset.
// Wrong codes can be retried without limit.
func (s *Session) SubmitVerificationCode(ctx context.Context, code string) (domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.email == "" {
		return "", ErrResetOutOfOrder
	}
	ok, err := s.identity.VerifyResetCode(ctx, s.email, code)
	if err != nil {
		return "", fmt.Errorf("verify reset code: %w", err)
	}
	if !ok {
		return "", ErrInvalidVerificationCode
	}
	if err := fire(ctx, s.flow, eventSubmitCode); err != nil {
		return "", err
	}
	s.code = code
	return domain.ViewResetPassword, nil
}

// SubmitNewPassword validates the new password against the reset policy.
// The 16 character maximum shown to users is not enforced.
func (s *Session) SubmitNewPassword(ctx context.Context, password, confirmation string) (domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == "" {
		return "", ErrResetOutOfOrder
	}
	if err := auth.ValidateResetPassword(password, confirmation); err != nil {
		return "", err
	}
	if err := fire(ctx, s.flow, eventSubmitPassword); err != nil {
		return "", err
	}
	return domain.ViewResetSuccess, nil
}

// Guard checks the precondition of a reset view. When it does not hold, the
// returned view is where the caller must redirect and ok is false.
func (s *Session) Guard(view domain.View) (domain.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var met bool
	switch view {
	case domain.ViewVerifyCode:
		met = s.email != ""
	case domain.ViewResetPassword:
		met = s.code != ""
	case domain.ViewResetSuccess:
		met = s.step() == domain.StepSuccess
	default:
		return view, true
	}
	if met {
		return view, true
	}
	return domain.ViewForgotPassword, false
}

// Step returns the current reset step.
func (s *Session) Step() domain.ResetStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step()
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Authenticated: s.authenticated,
		Email:         s.email,
		CodeVerified:  s.code != "",
		Step:          s.step(),
	}
}

func (s *Session) step() domain.ResetStep {
	return domain.ResetStep(s.flow.Current())
}
