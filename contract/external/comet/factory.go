package comet

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/core/types"
)

type FactoryContract struct {
	addr   common.Address
	master common.Address
}

func (cont *FactoryContract) Address() common.Address {
	return cont.addr
}

func (cont *FactoryContract) Master() common.Address {
	return cont.master
}

func (cont *FactoryContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *FactoryContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	return nil
}

func readAddresses(bs []byte) []common.Address {
	list := make([]common.Address, 0, len(bs)/common.AddressLength)
	for i := 0; i+common.AddressLength <= len(bs); i += common.AddressLength {
		list = append(list, common.BytesToAddress(bs[i:i+common.AddressLength]))
	}
	return list
}

func appendAddress(cc *types.ContractContext, key []byte, addr common.Address) {
	bs := cc.ContractData(key)
	cc.SetContractData(key, append(append([]byte{}, bs...), addr[:]...))
}

// newPool deploys a weighted pool controlled by controller, the controller
// funds it with Finalize
func (cont *FactoryContract) newPool(cc *types.ContractContext, controller common.Address, tokens []common.Address, weights []*amount.Amount, swapFee *amount.Amount) (common.Address, error) {
	if err := cc.RequireAuth(controller); err != nil {
		return common.Address{}, err
	}
	bs, _, err := bin.WriterToBytes(&PoolContractConstruction{
		Factory:    cont.addr,
		Controller: controller,
		Tokens:     tokens,
		Weights:    weights,
		SwapFee:    swapFee,
	})
	if err != nil {
		return common.Address{}, err
	}
	v, err := cc.DeployContract(cont.addr, types.ContractClassID(&PoolContract{}), bs)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "CometFactory: new pool")
	}
	pool := v.Address()

	cc.SetContractData(makeIsPoolKey(pool), []byte{1})
	appendAddress(cc, []byte{tagAllPools}, pool)
	for i := range tokens {
		for j := i + 1; j < len(tokens); j++ {
			appendAddress(cc, makePoolsForKey(tokens[i], tokens[j]), pool)
		}
	}
	cc.EmitEvent([]string{"CometFactory", "new_pool"}, controller, pool)
	return pool, nil
}

//////////////////////////////////////////////////
// Front
//////////////////////////////////////////////////

func (cont *FactoryContract) Front() interface{} {
	return &FactoryFront{
		cont: cont,
	}
}

type FactoryFront struct {
	cont *FactoryContract
}

func (f *FactoryFront) NewPool(cc *types.ContractContext, Controller common.Address, Tokens []common.Address, Weights []*amount.Amount, SwapFee *amount.Amount) (common.Address, error) {
	return f.cont.newPool(cc, Controller, Tokens, Weights, SwapFee)
}

func (f *FactoryFront) IsPool(cc *types.ContractContext, Pool common.Address) bool {
	return len(cc.ContractData(makeIsPoolKey(Pool))) > 0
}

// PoolsFor lists the pools holding both tokens in creation order
func (f *FactoryFront) PoolsFor(cc *types.ContractContext, TokenA common.Address, TokenB common.Address) []common.Address {
	return readAddresses(cc.ContractData(makePoolsForKey(TokenA, TokenB)))
}

func (f *FactoryFront) AllPools(cc *types.ContractContext) []common.Address {
	return readAddresses(cc.ContractData([]byte{tagAllPools}))
}
