package deployer

import (
	"github.com/hoops-finance/hoops/core/types"
)

// ErrorScope is the scope of every deployer error
const ErrorScope = "deployer"

// deployer errors
var (
	ErrAlreadyDeployed = types.NewContractError(ErrorScope, 1, "AlreadyDeployed")
	ErrInvalidArgument = types.NewContractError(ErrorScope, 2, "InvalidArgument")
)
