package deployer

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/core/types"
)

func (cont *DeployerContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *DeployerContract
}

// DeployAccount deploys and initializes an account, a zero Router or ClassID falls back to the deployer's defaults
func (f *front) DeployAccount(cc *types.ContractContext, Owner common.Address, Router common.Address, ClassID uint64, Salt []byte) (common.Address, error) {
	return f.cont.deployAccount(cc, Owner, Router, ClassID, Salt)
}

func (f *front) AccountAddress(cc *types.ContractContext, Owner common.Address, Salt []byte) common.Address {
	return AccountAddress(f.cont.addr, Owner, Salt)
}

func (f *front) Accounts(cc *types.ContractContext, Owner common.Address) ([]common.Address, error) {
	return f.cont.accounts(cc, Owner)
}
