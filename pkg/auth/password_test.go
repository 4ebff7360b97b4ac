package auth

import (
	"context"
	"errors"
	"testing"
)

func TestHashPasswordAndCheckPasswordBcrypt(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !CheckPassword("s3cret", hash) {
		t.Fatalf("expected bcrypt password check to pass")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("expected bcrypt password check to fail")
	}
	if CheckPassword("s3cret", "") {
		t.Fatalf("expected empty hash to fail")
	}
}

func TestValidateResetPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		confirm  string
		want     error
	}{
		{name: "mismatch", password: "Valid123!", confirm: "Valid123?", want: ErrPasswordMismatch},
		{name: "short", password: "short1!", confirm: "short1!", want: ErrPasswordLength},
		{name: "no digit", password: "alllowercase!", confirm: "alllowercase!", want: ErrPasswordMissingDigit},
		{name: "no special", password: "password123", confirm: "password123", want: ErrPasswordMissingSpecial},
		{name: "arabic-indic digit is not a number", password: "password٣!", confirm: "password٣!", want: ErrPasswordMissingDigit},
		{name: "fullwidth digit is not a number", password: "password１!", confirm: "password１!", want: ErrPasswordMissingDigit},
		{name: "valid", password: "Valid123!", confirm: "Valid123!", want: nil},
		{name: "over sixteen is accepted", password: "averyverylongpassword1!", confirm: "averyverylongpassword1!", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateResetPassword(tc.password, tc.confirm)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestStaticIdentity(t *testing.T) {
	ctx := context.Background()
	id, err := NewStaticIdentity("ops@example.com", "gkeptm12!", "444333")
	if err != nil {
		t.Fatalf("new identity: %v", err)
	}
	if ok, _ := id.VerifyCredentials(ctx, "ops@example.com", "gkeptm12!"); !ok {
		t.Fatalf("expected fixed credentials to verify")
	}
	if ok, _ := id.VerifyCredentials(ctx, "ops@example.com", "wrong"); ok {
		t.Fatalf("expected wrong secret to fail")
	}
	if ok, _ := id.VerifyCredentials(ctx, "OPS@example.com", "gkeptm12!"); ok {
		t.Fatalf("expected identifier comparison to be exact")
	}
	if ok, _ := id.VerifyAccount(ctx, "other@example.com"); ok {
		t.Fatalf("expected unknown account to fail")
	}
	if ok, _ := id.VerifyResetCode(ctx, "ops@example.com", "444333"); !ok {
		t.Fatalf("expected reset code to verify")
	}
	if ok, _ := id.VerifyResetCode(ctx, "ops@example.com", "123456"); ok {
		t.Fatalf("expected wrong reset code to fail")
	}
}

func TestNewStaticIdentityRequiresValues(t *testing.T) {
	if _, err := NewStaticIdentity("", "secret", "1"); err == nil {
		t.Fatalf("expected missing account to fail")
	}
	if _, err := NewStaticIdentity("a@b.c", "", "1"); err == nil {
		t.Fatalf("expected missing secret to fail")
	}
	if _, err := NewStaticIdentity("a@b.c", "secret", ""); err == nil {
		t.Fatalf("expected missing code to fail")
	}
}
