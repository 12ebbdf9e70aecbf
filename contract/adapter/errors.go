package adapter

import (
	"github.com/hoops-finance/hoops/core/types"
)

// ErrorScope is the scope of every adapter error
const ErrorScope = "adapter"

// adapter error codes
const (
	CodeAlreadyInitialized    uint32 = 10
	CodeInvalidID             uint32 = 11
	CodeDefaultError          uint32 = 100
	CodeUnsupportedPair       uint32 = 101
	CodeExternalFailure       uint32 = 102
	CodePoolNotFound          uint32 = 200
	CodeInsufficientLpBalance uint32 = 201
	CodeMinAmountNotMet       uint32 = 202
	CodeMaxInRatio            uint32 = 203
	CodeMaxOutRatio           uint32 = 204
	CodeDeadlinePassed        uint32 = 205
	CodeNotInitialized        uint32 = 206
	CodeInvalidArgument       uint32 = 207
	CodeMultipathUnsupported  uint32 = 208
	CodeInvalidAmount         uint32 = 209
	CodeInvalidPath           uint32 = 210
	CodeInsufficientBalance   uint32 = 211
	CodeInsufficientLiquidity uint32 = 212
)

// adapter errors
var (
	ErrAlreadyInitialized    = types.NewContractError(ErrorScope, CodeAlreadyInitialized, "AlreadyInitialized")
	ErrInvalidID             = types.NewContractError(ErrorScope, CodeInvalidID, "InvalidID")
	ErrDefault               = types.NewContractError(ErrorScope, CodeDefaultError, "DefaultError")
	ErrUnsupportedPair       = types.NewContractError(ErrorScope, CodeUnsupportedPair, "UnsupportedPair")
	ErrExternalFailure       = types.NewContractError(ErrorScope, CodeExternalFailure, "ExternalFailure")
	ErrPoolNotFound          = types.NewContractError(ErrorScope, CodePoolNotFound, "PoolNotFound")
	ErrInsufficientLpBalance = types.NewContractError(ErrorScope, CodeInsufficientLpBalance, "InsufficientLpBalance")
	ErrMinAmountNotMet       = types.NewContractError(ErrorScope, CodeMinAmountNotMet, "MinAmountNotMet")
	ErrMaxInRatio            = types.NewContractError(ErrorScope, CodeMaxInRatio, "MaxInRatio")
	ErrMaxOutRatio           = types.NewContractError(ErrorScope, CodeMaxOutRatio, "MaxOutRatio")
	ErrDeadlinePassed        = types.NewContractError(ErrorScope, CodeDeadlinePassed, "DeadlinePassed")
	ErrNotInitialized        = types.NewContractError(ErrorScope, CodeNotInitialized, "NotInitialized")
	ErrInvalidArgument       = types.NewContractError(ErrorScope, CodeInvalidArgument, "InvalidArgument")
	ErrMultipathUnsupported  = types.NewContractError(ErrorScope, CodeMultipathUnsupported, "MultipathUnsupported")
	ErrInvalidAmount         = types.NewContractError(ErrorScope, CodeInvalidAmount, "InvalidAmount")
	ErrInvalidPath           = types.NewContractError(ErrorScope, CodeInvalidPath, "InvalidPath")
	ErrInsufficientBalance   = types.NewContractError(ErrorScope, CodeInsufficientBalance, "InsufficientBalance")
	ErrInsufficientLiquidity = types.NewContractError(ErrorScope, CodeInsufficientLiquidity, "InsufficientLiquidity")
)

// External wraps a failure of the protocol being called, errors that already
// carry an adapter code pass through unchanged.
func External(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := types.ErrorCode(err); ok {
		return err
	}
	return ErrExternalFailure.Wrap(err)
}
