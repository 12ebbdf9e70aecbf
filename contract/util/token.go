package util

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/core/types"
	"github.com/pkg/errors"
)

// token.Transfer(from, to, am)
func TokenTransfer(cc *types.ContractContext, token, from, to common.Address, am *amount.Amount) error {
	_, err := cc.Exec(cc, token, "Transfer", []interface{}{from, to, am})
	return err
}

// token.Mint(to, am)
func TokenMint(cc *types.ContractContext, token, to common.Address, am *amount.Amount) error {
	_, err := cc.Exec(cc, token, "Mint", []interface{}{to, am})
	return err
}

// token.Burn(from, am)
func TokenBurn(cc *types.ContractContext, token, from common.Address, am *amount.Amount) error {
	_, err := cc.Exec(cc, token, "Burn", []interface{}{from, am})
	return err
}

// token.Balance(addr)
func TokenBalance(cc *types.ContractContext, token, addr common.Address) (*amount.Amount, error) {
	is, err := cc.Exec(cc, token, "Balance", []interface{}{addr})
	if err != nil {
		return nil, err
	}
	return AmountResult(is, 0)
}

// token.TotalSupply()
func TokenTotalSupply(cc *types.ContractContext, token common.Address) (*amount.Amount, error) {
	is, err := cc.Exec(cc, token, "TotalSupply", []interface{}{})
	if err != nil {
		return nil, err
	}
	return AmountResult(is, 0)
}

// AmountResult returns the amount at the index of an exec result
func AmountResult(is []interface{}, idx int) (*amount.Amount, error) {
	if len(is) <= idx {
		return nil, errors.Errorf("invalid result count %v", len(is))
	}
	am, ok := is[idx].(*amount.Amount)
	if !ok {
		return nil, errors.Errorf("invalid result type %T", is[idx])
	}
	return am, nil
}

// AddressResult returns the address at the index of an exec result
func AddressResult(is []interface{}, idx int) (common.Address, error) {
	if len(is) <= idx {
		return ZeroAddress, errors.Errorf("invalid result count %v", len(is))
	}
	addr, ok := is[idx].(common.Address)
	if !ok {
		return ZeroAddress, errors.Errorf("invalid result type %T", is[idx])
	}
	return addr, nil
}
