package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrMachineID ErrorType = iota
	ErrPackageDB
	ErrIndexParse
	ErrDesktopEntry
	ErrSignature
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrMachineID:
		return "MachineID"
	case ErrPackageDB:
		return "PackageDB"
	case ErrIndexParse:
		return "IndexParse"
	case ErrDesktopEntry:
		return "DesktopEntry"
	case ErrSignature:
		return "Signature"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// Error represents an error raised while building or classifying the update list
type Error struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// IsType reports whether err wraps a *Error of the given type
func IsType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}
