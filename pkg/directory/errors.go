package directory

import "errors"

var (
	ErrAssetNotFound = errors.New("Asset not found.")

	ErrRequiredFields         = errors.New("Serial Number and Model are required fields.")
	ErrInvalidDate            = errors.New("Dates must be written as YYYY-MM-DD, YYYY/MM/DD or YY/MM/DD.")
	ErrInvalidLeaseStatus     = errors.New("Lease status must be Leased or Naked.")
	ErrInvalidOperationStatus = errors.New("Operation status must be In-Service or Out-of-Service.")
	ErrInvalidLifeRemaining   = errors.New("Life remaining must be between 0 and 100.")
	ErrInvalidCategory        = errors.New("Asset category must be Aircraft, Engine, APU or Landing Gear.")
)

// ValidationError reports a draft field that cannot be saved. Its message is
// safe to show to users.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
