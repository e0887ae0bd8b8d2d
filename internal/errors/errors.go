// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMarketNotFound       = errors.New("market account not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrOpenOrdersNotFound   = errors.New("open orders account not found")
	ErrStaleBlockhash       = errors.New("blockhash expired")
	ErrInvalidDiscriminator = errors.New("account discriminator mismatch")
	ErrAccountTooShort      = errors.New("account data too short")
	ErrNoBalance            = errors.New("token account reports no balance")
	ErrKeypairInvalid       = errors.New("invalid keypair material")
	ErrConfigInvalid        = errors.New("invalid configuration")
	ErrDatabaseError        = errors.New("database error")
)

// ConversionError reports invalid input to the price/size conversion layer.
// Non-positive or non-finite prices and sizes are never clamped silently.
type ConversionError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewConversionError creates a new ConversionError.
func NewConversionError(field string, value interface{}, message string) *ConversionError {
	return &ConversionError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// EncodingError reports an argument that does not fit the instruction's
// binary schema. It is raised before any network call is attempted.
type EncodingError struct {
	Instruction string
	Field       string
	Message     string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error [%s] %s: %s", e.Instruction, e.Field, e.Message)
}

// NewEncodingError creates a new EncodingError.
func NewEncodingError(instruction, field, message string) *EncodingError {
	return &EncodingError{
		Instruction: instruction,
		Field:       field,
		Message:     message,
	}
}

// ResolutionError reports a failed open-orders account discovery or creation.
// It carries the owner and the attempted account number so the caller can retry.
type ResolutionError struct {
	Owner      string
	Name       string
	AccountNum uint32
	Err        error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolution error [owner=%s name=%q num=%d]: %v", e.Owner, e.Name, e.AccountNum, e.Err)
	}
	return fmt.Sprintf("resolution error [owner=%s name=%q num=%d]", e.Owner, e.Name, e.AccountNum)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// NewResolutionError creates a new ResolutionError.
func NewResolutionError(owner, name string, accountNum uint32, err error) *ResolutionError {
	return &ResolutionError{
		Owner:      owner,
		Name:       name,
		AccountNum: accountNum,
		Err:        err,
	}
}

// GatewayError represents a failure from the remote state gateway.
type GatewayError struct {
	Op      string
	Address string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Address != "" {
		return fmt.Sprintf("gateway error [%s] %s: %v", e.Op, e.Address, e.Err)
	}
	return fmt.Sprintf("gateway error [%s]: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError creates a new GatewayError.
func NewGatewayError(op, address string, err error) *GatewayError {
	return &GatewayError{
		Op:      op,
		Address: address,
		Err:     err,
	}
}

// DatabaseError represents a failure in the local order journal.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error [%s]: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
