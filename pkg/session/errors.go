package session

import "errors"

var (
	// ErrInvalidCredentials does not reveal which of the two values was wrong.
	ErrInvalidCredentials = errors.New("The ID or password is incorrect.")

	ErrEmailNotFound           = errors.New("Email not found.")
	ErrInvalidVerificationCode = errors.New("Invalid verification code.")

	// ErrResetOutOfOrder is returned when a reset step is submitted before the
	// step it depends on has succeeded.
	ErrResetOutOfOrder = errors.New("Please restart the password reset.")
)
