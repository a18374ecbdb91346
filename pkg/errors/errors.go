package errors

import (
	"errors"
)

// Programmer errors. These are returned as the error of a call and are never
// part of a validation result.
var (
	ErrInvalidProposal   = errors.New("invalid proposal")
	ErrInvalidTransition = errors.New("invalid proposal status transition")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDuplicateSnapshot = errors.New("duplicate snapshot id")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
)

// Helper functions

// IsDomainError checks if an error is a DomainError
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts a DomainError from an error chain
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// HasCode reports whether err carries the given domain code
func HasCode(err error, code string) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Code == code
}

// ContainsCode reports whether any error in the list carries code
func ContainsCode(errs []*DomainError, code string) bool {
	for _, err := range errs {
		if err != nil && err.Code == code {
			return true
		}
	}
	return false
}

// Messages flattens a list of domain errors into their messages
func Messages(errs []*DomainError) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Message)
	}
	return out
}

// Chain lists err and every DomainError in its cause chain, outermost first
func Chain(err error) []*DomainError {
	var out []*DomainError
	for err != nil {
		var domainErr *DomainError
		if !errors.As(err, &domainErr) {
			break
		}
		out = append(out, domainErr)
		err = domainErr.Cause
	}
	return out
}
