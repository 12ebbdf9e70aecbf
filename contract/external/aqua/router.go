package aqua

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/core/types"
)

// router errors
var (
	ErrPoolExists    = errors.New("AquaRouter: POOL_EXISTS")
	ErrInvalidTokens = errors.New("AquaRouter: INVALID_TOKENS")
	ErrInvalidFee    = errors.New("AquaRouter: INVALID_FEE")
	ErrInvalidAmp    = errors.New("AquaRouter: INVALID_AMP")
)

// MaxFeeBps caps the pool fee at 10%
const MaxFeeBps = 1000

// RouterContract deploys and indexes aqua pools, one per pair, kind and fee
type RouterContract struct {
	addr   common.Address
	master common.Address
}

func (cont *RouterContract) Address() common.Address {
	return cont.addr
}

func (cont *RouterContract) Master() common.Address {
	return cont.master
}

func (cont *RouterContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *RouterContract) OnCreate(cc *types.ContractContext, Args []byte) error {
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

func (cont *RouterContract) initPool(cc *types.ContractContext, user common.Address, tokens []common.Address, kind PoolKind, feeBps uint32, amp uint64) (common.Address, error) {
	if err := cc.RequireAuth(user); err != nil {
		return common.Address{}, err
	}
	if len(tokens) != 2 {
		return common.Address{}, errors.WithStack(ErrInvalidTokens)
	}
	token0, token1, err := common.SortTokens(tokens[0], tokens[1])
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidTokens, err.Error())
	}
	if feeBps > MaxFeeBps {
		return common.Address{}, errors.WithStack(ErrInvalidFee)
	}
	idx := makePoolIndexKey(token0, token1, kind, feeBps)
	if len(cc.ContractData(idx)) > 0 {
		return common.Address{}, errors.Wrapf(ErrPoolExists, "%v fee %v", kind, feeBps)
	}
	bs, _, err := bin.WriterToBytes(&PoolContractConstruction{
		Router: cont.addr,
		Tokens: []common.Address{token0, token1},
		Kind:   kind,
		FeeBps: feeBps,
		Amp:    amp,
	})
	if err != nil {
		return common.Address{}, err
	}
	v, err := cc.DeployContract(cont.addr, types.ContractClassID(&PoolContract{}), bs)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "AquaRouter: init pool")
	}
	pool := v.Address()

	cc.SetContractData(idx, pool[:])
	cc.SetContractData(makeIsPoolKey(pool), []byte{1})
	appendAddress(cc, []byte{tagAllPools}, pool)
	appendAddress(cc, makePoolsForKey(token0, token1), pool)
	cc.EmitEvent([]string{"AquaRouter", "add_pool"}, token0, token1, pool, kind.String(), feeBps)
	return pool, nil
}

//////////////////////////////////////////////////
// Front
//////////////////////////////////////////////////

func (cont *RouterContract) Front() interface{} {
	return &RouterFront{
		cont: cont,
	}
}

type RouterFront struct {
	cont *RouterContract
}

func (f *RouterFront) InitConstantPool(cc *types.ContractContext, User common.Address, Tokens []common.Address, FeeBps uint32) (common.Address, error) {
	return f.cont.initPool(cc, User, Tokens, ConstantProduct, FeeBps, 0)
}

// InitStableswapPool takes the plain amplification coefficient A
func (f *RouterFront) InitStableswapPool(cc *types.ContractContext, User common.Address, Tokens []common.Address, Amp uint64, FeeBps uint32) (common.Address, error) {
	if Amp == 0 {
		return common.Address{}, errors.WithStack(ErrInvalidAmp)
	}
	return f.cont.initPool(cc, User, Tokens, Stableswap, FeeBps, Amp)
}

// GetPools lists the pools of the pair in creation order
func (f *RouterFront) GetPools(cc *types.ContractContext, Tokens []common.Address) []common.Address {
	if len(Tokens) != 2 {
		return nil
	}
	return readAddresses(cc.ContractData(makePoolsForKey(Tokens[0], Tokens[1])))
}

func (f *RouterFront) IsPool(cc *types.ContractContext, Pool common.Address) bool {
	return len(cc.ContractData(makeIsPoolKey(Pool))) > 0
}

func (f *RouterFront) AllPools(cc *types.ContractContext) []common.Address {
	return readAddresses(cc.ContractData([]byte{tagAllPools}))
}
