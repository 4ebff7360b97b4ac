package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
)

// IdentityVerifier answers the identity questions asked by the session.
// A real identity backend can replace StaticIdentity without touching the
// session transitions.
type IdentityVerifier interface {
	VerifyCredentials(ctx context.Context, identifier, secret string) (bool, error)
	VerifyAccount(ctx context.Context, email string) (bool, error)
	VerifyResetCode(ctx context.Context, email, code string) (bool, error)
}

// StaticIdentity is a single fixed account with a fixed reset code.
// It is a stand-in for a real backend, not a security boundary.
type StaticIdentity struct {
	account    string
	secretHash string
	resetCode  string
}

// NewStaticIdentity hashes secret and returns the fixed identity.
func NewStaticIdentity(account, secret, resetCode string) (*StaticIdentity, error) {
	if strings.TrimSpace(account) == "" {
		return nil, errors.New("static identity: account is required")
	}
	if secret == "" {
		return nil, errors.New("static identity: secret is required")
	}
	if resetCode == "" {
		return nil, errors.New("static identity: reset code is required")
	}
	hash, err := HashPassword(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}
	return &StaticIdentity{
		account:    account,
		secretHash: hash,
		resetCode:  resetCode,
	}, nil
}

// VerifyCredentials compares both values exactly.
func (s *StaticIdentity) VerifyCredentials(_ context.Context, identifier, secret string) (bool, error) {
	if identifier != s.account {
		return false, nil
	}
	return CheckPassword(secret, s.secretHash), nil
}

// VerifyAccount reports whether email is the known account.
func (s *StaticIdentity) VerifyAccount(_ context.Context, email string) (bool, error) {
	return email == s.account, nil
}

// VerifyResetCode reports whether code is the reset code issued to email.
func (s *StaticIdentity) VerifyResetCode(_ context.Context, email, code string) (bool, error) {
	if email != s.account {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.resetCode)) == 1, nil
}
