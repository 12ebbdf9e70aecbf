package phoenix

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/core/types"
)

// factory errors
var (
	ErrPoolExists   = errors.New("PhoenixFactory: POOL_EXISTS")
	ErrPoolNotFound = errors.New("PhoenixFactory: POOL_NOT_FOUND")
	ErrInvalidBps   = errors.New("PhoenixFactory: INVALID_BPS")
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

func (cont *FactoryContract) pools(cc *types.ContractContext) []common.Address {
	bs := cc.ContractData([]byte{tagPools})
	list := make([]common.Address, 0, len(bs)/common.AddressLength)
	for i := 0; i+common.AddressLength <= len(bs); i += common.AddressLength {
		list = append(list, common.BytesToAddress(bs[i:i+common.AddressLength]))
	}
	return list
}

func (cont *FactoryContract) poolFor(cc *types.ContractContext, tokenA, tokenB common.Address) (common.Address, error) {
	bs := cc.ContractData(makePoolPairKey(tokenA, tokenB))
	if len(bs) == 0 {
		return common.Address{}, errors.Wrapf(ErrPoolNotFound, "%v/%v", tokenA.String(), tokenB.String())
	}
	return common.BytesToAddress(bs), nil
}

// createLiquidityPool deploys the single pool of the pair
func (cont *FactoryContract) createLiquidityPool(cc *types.ContractContext, sender, tokenA, tokenB common.Address, cfg *PoolConfig) (common.Address, error) {
	if err := cc.RequireAuth(sender); err != nil {
		return common.Address{}, err
	}
	token0, token1, err := common.SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	if cfg.SwapFeeBps > 10000 || cfg.MaxAllowedSlippageBps > 10000 || cfg.MaxAllowedSpreadBps > 10000 {
		return common.Address{}, errors.WithStack(ErrInvalidBps)
	}
	if _, err := cont.poolFor(cc, token0, token1); err == nil {
		return common.Address{}, errors.WithStack(ErrPoolExists)
	}
	bs, _, err := bin.WriterToBytes(&PoolContractConstruction{
		Factory: cont.addr,
		TokenA:  token0,
		TokenB:  token1,
		Config:  *cfg,
	})
	if err != nil {
		return common.Address{}, err
	}
	v, err := cc.DeployContract(cont.addr, types.ContractClassID(&PoolContract{}), bs)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "PhoenixFactory: create pool")
	}
	pool := v.Address()

	cc.SetContractData(makePoolPairKey(token0, token1), pool[:])
	all := cc.ContractData([]byte{tagPools})
	cc.SetContractData([]byte{tagPools}, append(append([]byte{}, all...), pool[:]...))
	cc.EmitEvent([]string{"PhoenixFactory", "create_liquidity_pool"}, token0, token1, pool)
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

func (f *FactoryFront) CreateLiquidityPool(cc *types.ContractContext, Sender common.Address, TokenA common.Address, TokenB common.Address, SwapFeeBps uint32, MaxAllowedSlippageBps uint32, MaxAllowedSpreadBps uint32) (common.Address, error) {
	return f.cont.createLiquidityPool(cc, Sender, TokenA, TokenB, &PoolConfig{
		SwapFeeBps:            SwapFeeBps,
		MaxAllowedSlippageBps: MaxAllowedSlippageBps,
		MaxAllowedSpreadBps:   MaxAllowedSpreadBps,
	})
}

func (f *FactoryFront) QueryForPoolByTokenPair(cc *types.ContractContext, TokenA common.Address, TokenB common.Address) (common.Address, error) {
	return f.cont.poolFor(cc, TokenA, TokenB)
}

func (f *FactoryFront) QueryPools(cc *types.ContractContext) []common.Address {
	return f.cont.pools(cc)
}
