package hash

import (
	"github.com/pkg/errors"
)

// hash256 errors
var (
	ErrInvalidHashFormat = errors.New("invalid hash format")
)
