package account

import (
	"github.com/hoops-finance/hoops/core/types"
)

// ErrorScope is the scope of every account error
const ErrorScope = "account"

// account error codes
const (
	CodeAlreadyInitialized               uint32 = 1
	CodeNotAuthorized                    uint32 = 2
	CodePasskeyNotSet                    uint32 = 3
	CodeClientDataJsonChallengeIncorrect uint32 = 4
	CodeJsonParseError                   uint32 = 5
	CodeInvalidArgument                  uint32 = 6
)

// account errors
var (
	ErrAlreadyInitialized               = types.NewContractError(ErrorScope, CodeAlreadyInitialized, "AlreadyInitialized")
	ErrNotAuthorized                    = types.NewContractError(ErrorScope, CodeNotAuthorized, "NotAuthorized")
	ErrPasskeyNotSet                    = types.NewContractError(ErrorScope, CodePasskeyNotSet, "PasskeyNotSet")
	ErrClientDataJsonChallengeIncorrect = types.NewContractError(ErrorScope, CodeClientDataJsonChallengeIncorrect, "ClientDataJsonChallengeIncorrect")
	ErrJsonParseError                   = types.NewContractError(ErrorScope, CodeJsonParseError, "JsonParseError")
	ErrInvalidArgument                  = types.NewContractError(ErrorScope, CodeInvalidArgument, "InvalidArgument")
)
