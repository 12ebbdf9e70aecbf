package soroswap

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/common/swapmath"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// FeeBps is the pair's swap fee, 997/1000
const FeeBps = 30

// pair errors
var (
	ErrInsufficientLiquidityMinted = errors.New("SoroswapPair: INSUFFICIENT_LIQUIDITY_MINTED")
	ErrInsufficientLiquidityBurned = errors.New("SoroswapPair: INSUFFICIENT_LIQUIDITY_BURNED")
	ErrInsufficientOutputAmount    = errors.New("SoroswapPair: INSUFFICIENT_OUTPUT_AMOUNT")
	ErrInsufficientInputAmount     = errors.New("SoroswapPair: INSUFFICIENT_INPUT_AMOUNT")
	ErrInsufficientLiquidity       = errors.New("SoroswapPair: INSUFFICIENT_LIQUIDITY")
	ErrInvalidTo                   = errors.New("SoroswapPair: INVALID_TO")
	ErrK                           = errors.New("SoroswapPair: K_CONSTANT_NOT_MET")
)

// PairContract is a constant product pool that is its own share token
type PairContract struct {
	token.TokenContract
}

func (self *PairContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &PairContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagFactory}, data.Factory[:])
	cc.SetContractData([]byte{tagToken0}, data.Token0[:])
	cc.SetContractData([]byte{tagToken1}, data.Token1[:])

	bs, _, err := bin.WriterToBytes(&token.TokenContractConstruction{
		Name:     "Soroswap LP Token",
		Symbol:   "SOROSWAP-LP",
		Decimals: amount.FractionalCount,
	})
	if err != nil {
		return err
	}
	return self.TokenContract.OnCreate(cc, bs)
}

func (self *PairContract) factory(cc *types.ContractContext) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagFactory}))
}

func (self *PairContract) token0(cc *types.ContractContext) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagToken0}))
}

func (self *PairContract) token1(cc *types.ContractContext) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagToken1}))
}

func (self *PairContract) reserves(cc *types.ContractContext) (*big.Int, *big.Int) {
	r0 := amount.NewAmountFromBytes(cc.ContractData([]byte{tagReserve0}))
	r1 := amount.NewAmountFromBytes(cc.ContractData([]byte{tagReserve1}))
	return r0.Int, r1.Int
}

func (self *PairContract) _update(cc *types.ContractContext, balance0, balance1 *big.Int) {
	cc.SetContractData([]byte{tagReserve0}, ToAmount(balance0).Bytes())
	cc.SetContractData([]byte{tagReserve1}, ToAmount(balance1).Bytes())
	cc.EmitEvent([]string{"SoroswapPair", "sync"}, ToAmount(Clone(balance0)), ToAmount(Clone(balance1)))
}

func (self *PairContract) balances(cc *types.ContractContext) (*big.Int, *big.Int, error) {
	balance0, err := TokenBalance(cc, self.token0(cc), self.Address())
	if err != nil {
		return nil, nil, err
	}
	balance1, err := TokenBalance(cc, self.token1(cc), self.Address())
	if err != nil {
		return nil, nil, err
	}
	return balance0.Int, balance1.Int, nil
}

// mint issues shares for whatever was transferred in above the reserves
func (self *PairContract) mint(cc *types.ContractContext, to common.Address) (*big.Int, error) {
	_reserve0, _reserve1 := self.reserves(cc)
	balance0, balance1, err := self.balances(cc)
	if err != nil {
		return nil, err
	}
	amount0 := Sub(balance0, _reserve0)
	amount1 := Sub(balance1, _reserve1)
	if amount0.Sign() < 0 || amount1.Sign() < 0 {
		return nil, errors.WithStack(ErrInsufficientInputAmount)
	}

	_totalSupply := self.TotalSupply(cc).Int
	var liquidity *big.Int
	if _totalSupply.Sign() == 0 {
		liquidity = Sub(new(big.Int).Sqrt(Mul(amount0, amount1)), big.NewInt(swapmath.MinimumLiquidity))
		if liquidity.Sign() > 0 {
			if err := self.MintTo(cc, ZeroAddress, amount.NewAmount(swapmath.MinimumLiquidity)); err != nil {
				return nil, err
			}
		}
	} else {
		liquidity = Min(MulDiv(amount0, _totalSupply, _reserve0), MulDiv(amount1, _totalSupply, _reserve1))
	}
	if liquidity.Sign() <= 0 {
		return nil, errors.WithStack(ErrInsufficientLiquidityMinted)
	}
	if err := self.MintTo(cc, to, ToAmount(liquidity)); err != nil {
		return nil, err
	}
	self._update(cc, balance0, balance1)
	return liquidity, nil
}

// burn redeems the shares transferred to the pair itself
func (self *PairContract) burn(cc *types.ContractContext, to common.Address) (*big.Int, *big.Int, error) {
	_token0, _token1 := self.token0(cc), self.token1(cc)
	balance0, balance1, err := self.balances(cc)
	if err != nil {
		return nil, nil, err
	}
	liquidity := self.Balance(cc, self.Address()).Int
	_totalSupply := self.TotalSupply(cc).Int
	if _totalSupply.Sign() == 0 {
		return nil, nil, errors.WithStack(ErrInsufficientLiquidityBurned)
	}
	amount0 := MulDiv(liquidity, balance0, _totalSupply)
	amount1 := MulDiv(liquidity, balance1, _totalSupply)
	if amount0.Sign() <= 0 || amount1.Sign() <= 0 {
		return nil, nil, errors.WithStack(ErrInsufficientLiquidityBurned)
	}
	if err := self.BurnFrom(cc, self.Address(), ToAmount(liquidity)); err != nil {
		return nil, nil, err
	}
	if err := TokenTransfer(cc, _token0, self.Address(), to, ToAmount(amount0)); err != nil {
		return nil, nil, err
	}
	if err := TokenTransfer(cc, _token1, self.Address(), to, ToAmount(amount1)); err != nil {
		return nil, nil, err
	}
	self._update(cc, Sub(balance0, amount0), Sub(balance1, amount1))
	return amount0, amount1, nil
}

// swap pays the outputs first and checks the fee adjusted invariant on the resulting balances
func (self *PairContract) swap(cc *types.ContractContext, amount0Out, amount1Out *big.Int, to common.Address) error {
	if amount0Out.Sign() < 0 || amount1Out.Sign() < 0 {
		return errors.WithStack(ErrInsufficientOutputAmount)
	}
	if amount0Out.Sign() == 0 && amount1Out.Sign() == 0 {
		return errors.WithStack(ErrInsufficientOutputAmount)
	}
	_reserve0, _reserve1 := self.reserves(cc)
	if amount0Out.Cmp(_reserve0) >= 0 || amount1Out.Cmp(_reserve1) >= 0 {
		return errors.WithStack(ErrInsufficientLiquidity)
	}
	_token0, _token1 := self.token0(cc), self.token1(cc)
	if to == _token0 || to == _token1 {
		return errors.WithStack(ErrInvalidTo)
	}

	if amount0Out.Sign() > 0 {
		if err := TokenTransfer(cc, _token0, self.Address(), to, ToAmount(amount0Out)); err != nil {
			return err
		}
	}
	if amount1Out.Sign() > 0 {
		if err := TokenTransfer(cc, _token1, self.Address(), to, ToAmount(amount1Out)); err != nil {
			return err
		}
	}
	balance0, balance1, err := self.balances(cc)
	if err != nil {
		return err
	}

	amount0In := big.NewInt(0)
	if rest := Sub(_reserve0, amount0Out); balance0.Cmp(rest) > 0 {
		amount0In = Sub(balance0, rest)
	}
	amount1In := big.NewInt(0)
	if rest := Sub(_reserve1, amount1Out); balance1.Cmp(rest) > 0 {
		amount1In = Sub(balance1, rest)
	}
	if amount0In.Sign() == 0 && amount1In.Sign() == 0 {
		return errors.WithStack(ErrInsufficientInputAmount)
	}

	balance0Adjusted := Sub(MulC(balance0, swapmath.FeeDenominator), MulC(amount0In, FeeBps))
	balance1Adjusted := Sub(MulC(balance1, swapmath.FeeDenominator), MulC(amount1In, FeeBps))
	kBefore := Mul(Mul(_reserve0, _reserve1), big.NewInt(swapmath.FeeDenominator*swapmath.FeeDenominator))
	if Mul(balance0Adjusted, balance1Adjusted).Cmp(kBefore) < 0 {
		return errors.WithStack(ErrK)
	}

	self._update(cc, balance0, balance1)
	cc.EmitEvent([]string{"SoroswapPair", "swap"}, ToAmount(amount0In), ToAmount(amount1In), ToAmount(Clone(amount0Out)), ToAmount(Clone(amount1Out)), to)
	return nil
}

func (self *PairContract) skim(cc *types.ContractContext, to common.Address) error {
	_token0, _token1 := self.token0(cc), self.token1(cc)
	balance0, balance1, err := self.balances(cc)
	if err != nil {
		return err
	}
	reserve0, reserve1 := self.reserves(cc)
	if amount0 := Sub(balance0, reserve0); amount0.Sign() > 0 {
		if err := TokenTransfer(cc, _token0, self.Address(), to, ToAmount(amount0)); err != nil {
			return err
		}
	}
	if amount1 := Sub(balance1, reserve1); amount1.Sign() > 0 {
		if err := TokenTransfer(cc, _token1, self.Address(), to, ToAmount(amount1)); err != nil {
			return err
		}
	}
	return nil
}

func (self *PairContract) sync(cc *types.ContractContext) error {
	balance0, balance1, err := self.balances(cc)
	if err != nil {
		return err
	}
	self._update(cc, balance0, balance1)
	return nil
}

//////////////////////////////////////////////////
// Front
//////////////////////////////////////////////////

func (self *PairContract) Front() interface{} {
	return &PairFront{
		TokenFront: token.NewTokenFront(&self.TokenContract),
		cont:       self,
	}
}

// PairFront exposes the pool and, through the embedded token front, its share token
type PairFront struct {
	*token.TokenFront
	cont *PairContract
}

func (f *PairFront) Factory(cc *types.ContractContext) common.Address {
	return f.cont.factory(cc)
}

func (f *PairFront) Token0(cc *types.ContractContext) common.Address {
	return f.cont.token0(cc)
}

func (f *PairFront) Token1(cc *types.ContractContext) common.Address {
	return f.cont.token1(cc)
}

func (f *PairFront) GetReserves(cc *types.ContractContext) (*amount.Amount, *amount.Amount) {
	r0, r1 := f.cont.reserves(cc)
	return ToAmount(r0), ToAmount(r1)
}

// Mint shadows the token mint: shares are only issued against deposits
func (f *PairFront) Mint(cc *types.ContractContext, To common.Address) (*amount.Amount, error) {
	liquidity, err := f.cont.mint(cc, To)
	if err != nil {
		return nil, err
	}
	return ToAmount(liquidity), nil
}

// Burn shadows the token burn: it redeems the shares held by the pair
func (f *PairFront) Burn(cc *types.ContractContext, To common.Address) (*amount.Amount, *amount.Amount, error) {
	amount0, amount1, err := f.cont.burn(cc, To)
	if err != nil {
		return nil, nil, err
	}
	return ToAmount(amount0), ToAmount(amount1), nil
}

func (f *PairFront) Swap(cc *types.ContractContext, Amount0Out *amount.Amount, Amount1Out *amount.Amount, To common.Address) error {
	return f.cont.swap(cc, Amount0Out.Int, Amount1Out.Int, To)
}

func (f *PairFront) Skim(cc *types.ContractContext, To common.Address) error {
	return f.cont.skim(cc, To)
}

func (f *PairFront) Sync(cc *types.ContractContext) error {
	return f.cont.sync(cc)
}
