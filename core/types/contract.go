package types

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/hash"
)

// Contract defines host Contract functions
type Contract interface {
	Address() common.Address
	Master() common.Address
	Init(addr common.Address, master common.Address)
	OnCreate(cc *ContractContext, Args []byte) error
	Front() interface{}
}

// CustomAccount is a contract that authorizes on its own behalf.
// The host calls CheckAuth when RequireAuth names the contract and the
// transaction carries a credential for it.
type CustomAccount interface {
	CheckAuth(cc *ContractContext, payload hash.Hash256, credential []byte) error
}
