package router

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/external/phoenix"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// discover reads the pools the protocol registry lists for each pair and
// refreshes their market rows, it returns the number of rows written
func (cont *RouterContract) discover(cc *types.ContractContext, kind PoolType, factory common.Address, pairs []*TokenPair) (uint32, error) {
	if _, err := cont.requireAdmin(cc); err != nil {
		return 0, err
	}
	if !cc.IsContract(factory) {
		return 0, errors.Wrapf(ErrInvalidArgument, "factory %v is not a contract", factory.String())
	}
	var read func(cc *types.ContractContext, factory, tokenA, tokenB common.Address) ([]*MarketData, error)
	switch kind {
	case PoolSoroswap:
		read = readSoroswap
	case PoolAqua:
		read = readAqua
	case PoolPhoenix:
		read = readPhoenix
	case PoolComet:
		read = readComet
	default:
		return 0, errors.Wrapf(ErrInvalidArgument, "pool type %v", uint32(kind))
	}

	count := uint32(0)
	for _, p := range pairs {
		if p == nil || p.TokenA == p.TokenB {
			return 0, errors.Wrap(ErrInvalidArgument, "pair")
		}
		list, err := read(cc, factory, p.TokenA, p.TokenB)
		if err != nil {
			return 0, ErrExternalFailure.Wrap(err)
		}
		for _, m := range list {
			m.AdapterID = kind.AdapterID()
			m.Ledger = cc.Sequence()
			if err := cont.upsertMarket(cc, m.Canonical()); err != nil {
				return 0, err
			}
			count++
		}
	}
	cc.EmitEvent([]string{"router", "discover"}, kind.String(), factory, count)
	if err := cont.bump(cc); err != nil {
		return 0, err
	}
	return count, nil
}

func call(cc *types.ContractContext, addr common.Address, method string, args ...interface{}) ([]interface{}, error) {
	is, err := cc.Exec(cc, addr, method, args)
	if err != nil {
		return nil, err
	}
	if len(is) == 0 {
		return nil, errors.Errorf("%v returned nothing", method)
	}
	return is, nil
}

func addressesResult(is []interface{}) []common.Address {
	list, _ := is[0].([]common.Address)
	return list
}

// readSoroswap reads the single factory pair, the pair is its own share token
func readSoroswap(cc *types.ContractContext, factory, tokenA, tokenB common.Address) ([]*MarketData, error) {
	is, err := call(cc, factory, "GetPair", tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	pair, err := AddressResult(is, 0)
	if err != nil {
		return nil, err
	}
	if pair == ZeroAddress {
		return nil, nil
	}
	if is, err = call(cc, pair, "Token0"); err != nil {
		return nil, err
	}
	token0, err := AddressResult(is, 0)
	if err != nil {
		return nil, err
	}
	if is, err = call(cc, pair, "GetReserves"); err != nil {
		return nil, err
	}
	r0, err := AmountResult(is, 0)
	if err != nil {
		return nil, err
	}
	r1, err := AmountResult(is, 1)
	if err != nil {
		return nil, err
	}
	token1 := tokenB
	if token0 == tokenB {
		token1 = tokenA
	}
	return []*MarketData{{
		PoolAddress: pair,
		LpToken:     pair,
		TokenA:      token0,
		TokenB:      token1,
		ReserveA:    r0,
		ReserveB:    r1,
		PoolType:    CurveConstantProduct,
	}}, nil
}

// readAqua lists every router pool of the pair, stableswap pools keep their curve
func readAqua(cc *types.ContractContext, router, tokenA, tokenB common.Address) ([]*MarketData, error) {
	is, err := call(cc, router, "GetPools", []common.Address{tokenA, tokenB})
	if err != nil {
		return nil, err
	}
	list := []*MarketData{}
	for _, pool := range addressesResult(is) {
		if is, err = call(cc, pool, "GetTokens"); err != nil {
			return nil, err
		}
		tokens := addressesResult(is)
		if is, err = call(cc, pool, "GetReserves"); err != nil {
			return nil, err
		}
		reserves, _ := is[0].([]*amount.Amount)
		if len(tokens) != 2 || len(reserves) != 2 {
			continue
		}
		if is, err = call(cc, pool, "ShareID"); err != nil {
			return nil, err
		}
		share, err := AddressResult(is, 0)
		if err != nil {
			return nil, err
		}
		if is, err = call(cc, pool, "PoolType"); err != nil {
			return nil, err
		}
		curve := CurveConstantProduct
		if kind, _ := is[0].(string); kind == "stableswap" {
			curve = CurveStable
		}
		list = append(list, &MarketData{
			PoolAddress: pool,
			LpToken:     share,
			TokenA:      tokens[0],
			TokenB:      tokens[1],
			ReserveA:    reserves[0],
			ReserveB:    reserves[1],
			PoolType:    curve,
		})
	}
	return list, nil
}

// readPhoenix reads the factory pool of the pair, a missing pool is not an error
func readPhoenix(cc *types.ContractContext, factory, tokenA, tokenB common.Address) ([]*MarketData, error) {
	is, err := call(cc, factory, "QueryForPoolByTokenPair", tokenA, tokenB)
	if err != nil {
		if errors.Is(err, phoenix.ErrPoolNotFound) {
			return nil, nil
		}
		return nil, err
	}
	pool, err := AddressResult(is, 0)
	if err != nil {
		return nil, err
	}
	if is, err = call(cc, pool, "QueryPoolInfo"); err != nil {
		return nil, err
	}
	info, ok := is[0].(*phoenix.PoolResponse)
	if !ok || info == nil {
		return nil, errors.Errorf("invalid pool info %T", is[0])
	}
	return []*MarketData{{
		PoolAddress: pool,
		LpToken:     info.AssetLpShare.Address,
		TokenA:      info.AssetA.Address,
		TokenB:      info.AssetB.Address,
		ReserveA:    info.AssetA.Amount,
		ReserveB:    info.AssetB.Amount,
		PoolType:    CurveConstantProduct,
	}}, nil
}

// readComet lists the weighted pools holding both tokens, each pool is its own share token
func readComet(cc *types.ContractContext, factory, tokenA, tokenB common.Address) ([]*MarketData, error) {
	is, err := call(cc, factory, "PoolsFor", tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	list := []*MarketData{}
	for _, pool := range addressesResult(is) {
		if is, err = call(cc, pool, "GetBalance", tokenA); err != nil {
			return nil, err
		}
		ra, err := AmountResult(is, 0)
		if err != nil {
			return nil, err
		}
		if is, err = call(cc, pool, "GetBalance", tokenB); err != nil {
			return nil, err
		}
		rb, err := AmountResult(is, 0)
		if err != nil {
			return nil, err
		}
		list = append(list, &MarketData{
			PoolAddress: pool,
			LpToken:     pool,
			TokenA:      tokenA,
			TokenB:      tokenB,
			ReserveA:    ra,
			ReserveB:    rb,
			PoolType:    CurveWeighted,
		})
	}
	return list, nil
}
