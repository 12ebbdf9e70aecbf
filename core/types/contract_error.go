package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// ContractError is an error value with a stable numeric code in a scope.
// Two ContractErrors match under errors.Is when scope and code agree.
type ContractError struct {
	Scope string
	Code  uint32
	Name  string
}

// NewContractError returns a ContractError
func NewContractError(scope string, code uint32, name string) *ContractError {
	return &ContractError{
		Scope: scope,
		Code:  code,
		Name:  name,
	}
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s(%d)", e.Scope, e.Name, e.Code)
}

// Is reports whether target has the same scope and code
func (e *ContractError) Is(target error) bool {
	t, ok := target.(*ContractError)
	return ok && t.Scope == e.Scope && t.Code == e.Code
}

// Wrap returns an error carrying the code of e whose cause is err
func (e *ContractError) Wrap(err error) error {
	if err == nil {
		return errors.WithStack(e)
	}
	return errors.WithStack(&codedError{ContractError: e, cause: err})
}

type codedError struct {
	*ContractError
	cause error
}

func (e *codedError) Error() string {
	return e.ContractError.Error() + ": " + e.cause.Error()
}

func (e *codedError) Unwrap() error {
	return e.cause
}

func (e *codedError) Cause() error {
	return e.cause
}

func (e *codedError) As(target interface{}) bool {
	if p, ok := target.(**ContractError); ok {
		*p = e.ContractError
		return true
	}
	return false
}

// ErrorCode returns the outermost contract error code of err
func ErrorCode(err error) (uint32, bool) {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return 0, false
}
