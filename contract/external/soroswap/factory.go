package soroswap

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// factory errors
var (
	ErrPairExists = errors.New("SoroswapFactory: PAIR_EXISTS")
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

func (cont *FactoryContract) getPair(cc *types.ContractContext, tokenA, tokenB common.Address) common.Address {
	bs := cc.ContractData(makePairKey(tokenA, tokenB))
	if len(bs) == 0 {
		return ZeroAddress
	}
	return common.BytesToAddress(bs)
}

func (cont *FactoryContract) allPairs(cc *types.ContractContext) []common.Address {
	bs := cc.ContractData([]byte{tagAllPairs})
	pairs := make([]common.Address, 0, len(bs)/common.AddressLength)
	for i := 0; i+common.AddressLength <= len(bs); i += common.AddressLength {
		pairs = append(pairs, common.BytesToAddress(bs[i:i+common.AddressLength]))
	}
	return pairs
}

// createPair is permissionless, the pair is owned by the factory
func (cont *FactoryContract) createPair(cc *types.ContractContext, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := common.SortTokens(tokenA, tokenB)
	if err != nil {
		return ZeroAddress, err
	}
	if cont.getPair(cc, token0, token1) != ZeroAddress {
		return ZeroAddress, errors.WithStack(ErrPairExists)
	}
	pair, err := PairFor(cont.addr, token0, token1)
	if err != nil {
		return ZeroAddress, err
	}
	bs, _, err := bin.WriterToBytes(&PairContractConstruction{
		Factory: cont.addr,
		Token0:  token0,
		Token1:  token1,
	})
	if err != nil {
		return ZeroAddress, err
	}
	if _, err := cc.DeployContractWithAddress(cont.addr, types.ContractClassID(&PairContract{}), pair, bs); err != nil {
		return ZeroAddress, err
	}

	cc.SetContractData(makePairKey(token0, token1), pair[:])
	all := cc.ContractData([]byte{tagAllPairs})
	cc.SetContractData([]byte{tagAllPairs}, append(append([]byte{}, all...), pair[:]...))
	cc.EmitEvent([]string{"SoroswapFactory", "new_pair"}, token0, token1, pair)
	return pair, nil
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

func (f *FactoryFront) CreatePair(cc *types.ContractContext, TokenA common.Address, TokenB common.Address) (common.Address, error) {
	return f.cont.createPair(cc, TokenA, TokenB)
}

// GetPair returns the zero address when the pair does not exist
func (f *FactoryFront) GetPair(cc *types.ContractContext, TokenA common.Address, TokenB common.Address) common.Address {
	return f.cont.getPair(cc, TokenA, TokenB)
}

func (f *FactoryFront) PairExists(cc *types.ContractContext, TokenA common.Address, TokenB common.Address) bool {
	return f.cont.getPair(cc, TokenA, TokenB) != ZeroAddress
}

func (f *FactoryFront) AllPairs(cc *types.ContractContext) []common.Address {
	return f.cont.allPairs(cc)
}

func (f *FactoryFront) AllPairsLength(cc *types.ContractContext) uint32 {
	return uint32(len(f.cont.allPairs(cc)))
}
