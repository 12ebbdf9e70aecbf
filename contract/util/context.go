package util

import (
	"strconv"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/core/types"
)

// Exec submits a transaction from user and returns the call results
func Exec(ctx *types.Context, user common.Address, contAddr common.Address, methodName string, args []interface{}) ([]interface{}, error) {
	rt, err := ctx.Execute(types.NewTransaction(user, contAddr, methodName, args...))
	if err != nil {
		return nil, err
	}
	return rt.Results, nil
}

// View runs a read only call
func View(ctx *types.Context, contAddr common.Address, methodName string, args ...interface{}) ([]interface{}, error) {
	return ctx.Query(contAddr, methodName, args...)
}

func ViewAmount(ctx *types.Context, contAddr common.Address, methodName string, args ...interface{}) (*amount.Amount, error) {
	is, err := ctx.Query(contAddr, methodName, args...)
	if err != nil {
		return nil, err
	}
	return AmountResult(is, 0)
}

func ViewAddress(ctx *types.Context, contAddr common.Address, methodName string, args ...interface{}) (common.Address, error) {
	is, err := ctx.Query(contAddr, methodName, args...)
	if err != nil {
		return ZeroAddress, err
	}
	return AddressResult(is, 0)
}

// BalanceOf reads the token balance of the address
func BalanceOf(ctx *types.Context, tokenAddr common.Address, addr common.Address) (*amount.Amount, error) {
	return ViewAmount(ctx, tokenAddr, "Balance", addr)
}

// DeployToken deploys a token owned by deployer
func DeployToken(ctx *types.Context, classID uint64, deployer common.Address, name string, symbol string) (common.Address, error) {
	bs, _, err := bin.WriterToBytes(&token.TokenContractConstruction{
		Name:     name,
		Symbol:   symbol,
		Decimals: amount.FractionalCount,
	})
	if err != nil {
		return ZeroAddress, err
	}
	v, err := ctx.DeployContract(deployer, classID, bs)
	if err != nil {
		return ZeroAddress, err
	}
	return v.Address(), nil
}

func DeployTokens(ctx *types.Context, classID uint64, size uint8, deployer common.Address) ([]common.Address, error) {
	coins := make([]common.Address, size)
	for k := uint8(0); k < size; k++ {
		addr, err := DeployToken(ctx, classID, deployer, "Token"+strconv.Itoa(int(k)), "TOKEN"+strconv.Itoa(int(k)))
		if err != nil {
			return nil, err
		}
		coins[k] = addr
	}
	return coins, nil
}
