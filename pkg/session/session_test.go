package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"airstream/pkg/auth"
	"airstream/pkg/domain"
	"airstream/pkg/store"
)

const (
	testAccount = "steph@example.com"
	testSecret  = "gkeptm12!"
	testCode    = "444333"
)

func newTestSession(t *testing.T, flags store.KVStore) *Session {
	t.Helper()
	identity, err := auth.NewStaticIdentity(testAccount, testSecret, testCode)
	if err != nil {
		t.Fatalf("new identity: %v", err)
	}
	s, err := New(context.Background(), Config{Identity: identity, Flags: flags})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

type failingStore struct {
	store.KVStore
	err error
}

func (f failingStore) Set(context.Context, string, string) error { return f.err }
func (f failingStore) Delete(context.Context, string) error      { return f.err }

func TestLoginPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	flags := store.NewMemoryStore()
	s := newTestSession(t, flags)

	next, err := s.Login(ctx, testAccount, testSecret)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if next != domain.ViewDashboard {
		t.Fatalf("expected dashboard navigation, got %q", next)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated after login")
	}
	if v, _ := flags.Get(ctx, store.KeyAuth); v != "true" {
		t.Fatalf("expected durable auth flag, got %q", v)
	}

	reloaded := newTestSession(t, flags)
	if !reloaded.IsAuthenticated() {
		t.Fatalf("expected authentication to survive reload")
	}
}

func TestLoginRejectsOtherCredentials(t *testing.T) {
	ctx := context.Background()
	pairs := [][2]string{
		{testAccount, "wrong"},
		{"other@example.com", testSecret},
		{"", ""},
		{testAccount + " ", testSecret},
	}
	for _, pair := range pairs {
		flags := store.NewMemoryStore()
		s := newTestSession(t, flags)
		_, err := s.Login(ctx, pair[0], pair[1])
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("login(%q): expected ErrInvalidCredentials, got %v", pair[0], err)
		}
		if s.IsAuthenticated() {
			t.Fatalf("login(%q): authentication must stay unchanged", pair[0])
		}
		if _, err := flags.Get(ctx, store.KeyAuth); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("login(%q): flag must not be written", pair[0])
		}
	}
}

func TestLoginLeavesStateWhenPersistFails(t *testing.T) {
	flags := failingStore{KVStore: store.NewMemoryStore(), err: errors.New("disk full")}
	s := newTestSession(t, flags)
	if _, err := s.Login(context.Background(), testAccount, testSecret); err == nil {
		t.Fatalf("expected persist failure")
	}
	if s.IsAuthenticated() {
		t.Fatalf("expected state untouched on persist failure")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	flags := store.NewMemoryStore()
	s := newTestSession(t, flags)
	if _, err := s.Login(ctx, testAccount, testSecret); err != nil {
		t.Fatalf("login: %v", err)
	}
	for i := 0; i < 2; i++ {
		next, err := s.Logout(ctx)
		if err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
		if next != domain.ViewLogin {
			t.Fatalf("expected login navigation, got %q", next)
		}
		if s.IsAuthenticated() {
			t.Fatalf("expected logged out")
		}
		if _, err := flags.Get(ctx, store.KeyAuth); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected flag cleared, got %v", err)
		}
	}
}

func TestNewRestoresOnlyExactTrueFlag(t *testing.T) {
	ctx := context.Background()
	flags := store.NewMemoryStore()
	_ = flags.Set(ctx, store.KeyAuth, "yes")
	if newTestSession(t, flags).IsAuthenticated() {
		t.Fatalf("only the literal true value authenticates")
	}
}

func TestNewFailsWhenFlagStoreUnreachable(t *testing.T) {
	redis := miniredis.RunT(t)
	flags, err := store.NewRedisStore(redis.Addr(), "", "test")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	redis.Close()
	identity, _ := auth.NewStaticIdentity(testAccount, testSecret, testCode)
	if _, err := New(context.Background(), Config{Identity: identity, Flags: flags}); err == nil {
		t.Fatalf("expected startup to fail when the flag cannot be read")
	}
}

func TestResetFlowHappyPath(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, store.NewMemoryStore())

	if s.Step() != domain.StepEmail {
		t.Fatalf("expected initial step email, got %q", s.Step())
	}
	next, err := s.BeginReset(ctx, testAccount)
	if err != nil || next != domain.ViewVerifyCode {
		t.Fatalf("begin reset: next=%q err=%v", next, err)
	}
	if s.Step() != domain.StepVerification {
		t.Fatalf("expected verification step, got %q", s.Step())
	}
	next, err = s.SubmitVerificationCode(ctx, testCode)
	if err != nil || next != domain.ViewResetPassword {
		t.Fatalf("submit code: next=%q err=%v", next, err)
	}
	next, err = s.SubmitNewPassword(ctx, "Valid123!", "Valid123!")
	if err != nil || next != domain.ViewResetSuccess {
		t.Fatalf("submit password: next=%q err=%v", next, err)
	}
	if s.Step() != domain.StepSuccess {
		t.Fatalf("expected success step, got %q", s.Step())
	}
	if _, ok := s.Guard(domain.ViewResetSuccess); !ok {
		t.Fatalf("success view should be reachable")
	}
}

func TestResetFlowRejectsWithoutAdvancing(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, store.NewMemoryStore())

	if _, err := s.BeginReset(ctx, "nobody@example.com"); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
	if s.Step() != domain.StepEmail {
		t.Fatalf("unknown email must not advance, got %q", s.Step())
	}
	if _, err := s.BeginReset(ctx, testAccount); err != nil {
		t.Fatalf("begin reset: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := s.SubmitVerificationCode(ctx, "000000"); !errors.Is(err, ErrInvalidVerificationCode) {
			t.Fatalf("attempt %d: expected ErrInvalidVerificationCode, got %v", i, err)
		}
	}
	if s.Step() != domain.StepVerification {
		t.Fatalf("wrong code must not advance, got %q", s.Step())
	}
	if _, err := s.SubmitVerificationCode(ctx, testCode); err != nil {
		t.Fatalf("correct code after failures should pass: %v", err)
	}
}

func TestPasswordPolicyTable(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, store.NewMemoryStore())
	if _, err := s.BeginReset(ctx, testAccount); err != nil {
		t.Fatalf("begin reset: %v", err)
	}
	if _, err := s.SubmitVerificationCode(ctx, testCode); err != nil {
		t.Fatalf("submit code: %v", err)
	}
	cases := []struct {
		password string
		want     error
	}{
		{password: "short1!", want: auth.ErrPasswordLength},
		{password: "alllowercase!", want: auth.ErrPasswordMissingDigit},
		{password: "password123", want: auth.ErrPasswordMissingSpecial},
	}
	for _, tc := range cases {
		if _, err := s.SubmitNewPassword(ctx, tc.password, tc.password); !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.password, tc.want, err)
		}
		if s.Step() != domain.StepNewPassword {
			t.Fatalf("%q: rejected password must not advance", tc.password)
		}
	}
	if _, err := s.SubmitNewPassword(ctx, "Valid123!", "Valid124!"); !errors.Is(err, auth.ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if _, err := s.SubmitNewPassword(ctx, "Valid123!", "Valid123!"); err != nil {
		t.Fatalf("valid password: %v", err)
	}
	if s.Step() != domain.StepSuccess {
		t.Fatalf("expected success, got %q", s.Step())
	}
}

func TestResetFlowIsForwardOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, store.NewMemoryStore())

	if redirect, ok := s.Guard(domain.ViewResetPassword); ok || redirect != domain.ViewForgotPassword {
		t.Fatalf("new-password view must redirect to email step, got %q ok=%v", redirect, ok)
	}
	if redirect, ok := s.Guard(domain.ViewVerifyCode); ok || redirect != domain.ViewForgotPassword {
		t.Fatalf("verify view must redirect without email, got %q ok=%v", redirect, ok)
	}
	if redirect, ok := s.Guard(domain.ViewResetSuccess); ok || redirect != domain.ViewForgotPassword {
		t.Fatalf("success view must redirect before success, got %q ok=%v", redirect, ok)
	}
	if _, err := s.SubmitVerificationCode(ctx, testCode); !errors.Is(err, ErrResetOutOfOrder) {
		t.Fatalf("code before email: expected ErrResetOutOfOrder, got %v", err)
	}
	if _, err := s.SubmitNewPassword(ctx, "Valid123!", "Valid123!"); !errors.Is(err, ErrResetOutOfOrder) {
		t.Fatalf("password before code: expected ErrResetOutOfOrder, got %v", err)
	}

	if _, err := s.BeginReset(ctx, testAccount); err != nil {
		t.Fatalf("begin reset: %v", err)
	}
	if _, ok := s.Guard(domain.ViewVerifyCode); !ok {
		t.Fatalf("verify view should be reachable after email")
	}
	if _, ok := s.Guard(domain.ViewResetPassword); ok {
		t.Fatalf("new-password view requires a verified code")
	}
	if _, err := s.SubmitNewPassword(ctx, "Valid123!", "Valid123!"); !errors.Is(err, ErrResetOutOfOrder) {
		t.Fatalf("password before code: expected ErrResetOutOfOrder, got %v", err)
	}
}

func TestBeginResetRestartsFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, store.NewMemoryStore())
	if _, err := s.BeginReset(ctx, testAccount); err != nil {
		t.Fatalf("begin reset: %v", err)
	}
	if _, err := s.SubmitVerificationCode(ctx, testCode); err != nil {
		t.Fatalf("submit code: %v", err)
	}
	if _, err := s.BeginReset(ctx, testAccount); err != nil {
		t.Fatalf("restart: %v", err)
	}
	state := s.State()
	if state.Step != domain.StepVerification || state.CodeVerified {
		t.Fatalf("restart should return to verification with no code, got %+v", state)
	}
}

func TestResetDoesNotTouchAuthentication(t *testing.T) {
	ctx := context.Background()
	flags := store.NewMemoryStore()
	s := newTestSession(t, flags)
	if _, err := s.Login(ctx, testAccount, testSecret); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := s.BeginReset(ctx, testAccount); err != nil {
		t.Fatalf("begin reset: %v", err)
	}
	if _, err := s.SubmitVerificationCode(ctx, testCode); err != nil {
		t.Fatalf("submit code: %v", err)
	}
	if _, err := s.SubmitNewPassword(ctx, "Valid123!", "Valid123!"); err != nil {
		t.Fatalf("submit password: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("reset flow must not change authentication")
	}
	if _, err := s.Login(ctx, testAccount, testSecret); err != nil {
		t.Fatalf("fixed credentials still valid after reset: %v", err)
	}
}
