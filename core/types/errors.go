package types

import (
	"github.com/pkg/errors"
)

// host errors
var (
	ErrNotExistContract  = errors.New("not exist contract")
	ErrExistContract     = errors.New("exist contract")
	ErrExistContractType = errors.New("exist contract type")
	ErrInvalidClassID    = errors.New("invalid class id")
	ErrArchivedContract  = errors.New("archived contract")
	ErrCallDepthExceeded = errors.New("call depth exceeded")
	ErrMethodNotGiven    = errors.New("method not given")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrNestedTransaction = errors.New("nested transaction")
	ErrInvalidCredential = errors.New("invalid credential")
)
