package router

import (
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/core/types"
)

// ErrorScope is the scope of every router error
const ErrorScope = "router"

// router errors share the adapter codes, AdapterMissing is InvalidID
var (
	ErrAlreadyInitialized  = types.NewContractError(ErrorScope, adapter.CodeAlreadyInitialized, "AlreadyInitialized")
	ErrAdapterMissing      = types.NewContractError(ErrorScope, adapter.CodeInvalidID, "AdapterMissing")
	ErrExternalFailure     = types.NewContractError(ErrorScope, adapter.CodeExternalFailure, "ExternalFailure")
	ErrPoolNotFound        = types.NewContractError(ErrorScope, adapter.CodePoolNotFound, "PoolNotFound")
	ErrDeadlinePassed      = types.NewContractError(ErrorScope, adapter.CodeDeadlinePassed, "DeadlinePassed")
	ErrNotInitialized      = types.NewContractError(ErrorScope, adapter.CodeNotInitialized, "NotInitialized")
	ErrInvalidArgument     = types.NewContractError(ErrorScope, adapter.CodeInvalidArgument, "InvalidArgument")
	ErrInvalidAmount       = types.NewContractError(ErrorScope, adapter.CodeInvalidAmount, "InvalidAmount")
	ErrInsufficientBalance = types.NewContractError(ErrorScope, adapter.CodeInsufficientBalance, "InsufficientBalance")
)
