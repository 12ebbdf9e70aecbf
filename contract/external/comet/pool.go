package comet

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/common/bmath"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// InitPoolSupply is minted to the controller on Finalize
var InitPoolSupply = amount.NewCoinAmount(100, 0)

// pool errors
var (
	ErrNotController   = errors.New("CometPool: NOT_CONTROLLER")
	ErrIsFinalized     = errors.New("CometPool: IS_FINALIZED")
	ErrNotFinalized    = errors.New("CometPool: NOT_FINALIZED")
	ErrNotBound        = errors.New("CometPool: NOT_BOUND")
	ErrInvalidTokens   = errors.New("CometPool: INVALID_TOKENS")
	ErrInvalidWeight   = errors.New("CometPool: INVALID_WEIGHT")
	ErrInvalidFee      = errors.New("CometPool: INVALID_FEE")
	ErrInvalidBalances = errors.New("CometPool: INVALID_BALANCES")
	ErrLimitIn         = errors.New("CometPool: LIMIT_IN")
	ErrLimitOut        = errors.New("CometPool: LIMIT_OUT")
	ErrBadLimitPrice   = errors.New("CometPool: BAD_LIMIT_PRICE")
	ErrLimitPrice      = errors.New("CometPool: LIMIT_PRICE")
	ErrMathApprox      = errors.New("CometPool: MATH_APPROX")
)

// PoolContract is a weighted pool that is its own share token
type PoolContract struct {
	token.TokenContract
}

func (self *PoolContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &PoolContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	if len(data.Tokens) < 2 || len(data.Tokens) != len(data.Weights) {
		return errors.WithStack(ErrInvalidTokens)
	}
	if data.SwapFee == nil || data.SwapFee.Cmp(bmath.MinFee) < 0 || data.SwapFee.Cmp(bmath.MaxFee) > 0 {
		return errors.WithStack(ErrInvalidFee)
	}
	totalWeight := big.NewInt(0)
	seen := map[common.Address]bool{}
	for i, t := range data.Tokens {
		if seen[t] {
			return errors.WithStack(ErrInvalidTokens)
		}
		seen[t] = true
		w := data.Weights[i]
		if w == nil || w.Cmp(bmath.MinWeight) < 0 {
			return errors.WithStack(ErrInvalidWeight)
		}
		totalWeight.Add(totalWeight, w.Int)
		cc.SetContractData(makeWeightKey(t), w.Bytes())
	}
	if totalWeight.Cmp(bmath.MaxTotalWeight) > 0 {
		return errors.WithStack(ErrInvalidWeight)
	}
	cc.SetContractData([]byte{tagFactory}, data.Factory[:])
	cc.SetContractData([]byte{tagController}, data.Controller[:])
	cc.SetContractData([]byte{tagTokens}, bin.MustWriterToBytes(&addressList{data.Tokens}))
	cc.SetContractData([]byte{tagSwapFee}, data.SwapFee.Bytes())

	bs, _, err := bin.WriterToBytes(&token.TokenContractConstruction{
		Name:     "Comet Pool Token",
		Symbol:   "CPAL",
		Decimals: amount.FractionalCount,
	})
	if err != nil {
		return err
	}
	return self.TokenContract.OnCreate(cc, bs)
}

//////////////////////////////////////////////////
// Records
//////////////////////////////////////////////////

func (self *PoolContract) controller(cc *types.ContractContext) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagController}))
}

func (self *PoolContract) tokens(cc *types.ContractContext) []common.Address {
	list := &addressList{}
	if _, err := list.ReadFrom(bytes.NewReader(cc.ContractData([]byte{tagTokens}))); err != nil {
		return nil
	}
	return list.Addrs
}

func (self *PoolContract) isBound(cc *types.ContractContext, t common.Address) bool {
	return len(cc.ContractData(makeWeightKey(t))) > 0
}

func (self *PoolContract) weight(cc *types.ContractContext, t common.Address) *big.Int {
	return amount.NewAmountFromBytes(cc.ContractData(makeWeightKey(t))).Int
}

func (self *PoolContract) totalWeight(cc *types.ContractContext) *big.Int {
	sum := big.NewInt(0)
	for _, t := range self.tokens(cc) {
		sum.Add(sum, self.weight(cc, t))
	}
	return sum
}

func (self *PoolContract) balance(cc *types.ContractContext, t common.Address) *big.Int {
	return amount.NewAmountFromBytes(cc.ContractData(makeBalanceKey(t))).Int
}

func (self *PoolContract) setBalance(cc *types.ContractContext, t common.Address, v *big.Int) {
	cc.SetContractData(makeBalanceKey(t), ToAmount(v).Bytes())
}

func (self *PoolContract) swapFee(cc *types.ContractContext) *big.Int {
	return amount.NewAmountFromBytes(cc.ContractData([]byte{tagSwapFee})).Int
}

func (self *PoolContract) isFinalized(cc *types.ContractContext) bool {
	return len(cc.ContractData([]byte{tagFinalized})) > 0
}

func (self *PoolContract) requireBound(cc *types.ContractContext, tokens ...common.Address) error {
	for _, t := range tokens {
		if !self.isBound(cc, t) {
			return errors.Wrap(ErrNotBound, t.String())
		}
	}
	return nil
}

func (self *PoolContract) pull(cc *types.ContractContext, t common.Address, from common.Address, am *big.Int) error {
	if am.Sign() == 0 {
		return nil
	}
	if err := TokenTransfer(cc, t, from, self.Address(), ToAmount(am)); err != nil {
		return err
	}
	self.setBalance(cc, t, Add(self.balance(cc, t), am))
	return nil
}

func (self *PoolContract) push(cc *types.ContractContext, t common.Address, to common.Address, am *big.Int) error {
	if am.Sign() == 0 {
		return nil
	}
	bal, err := bmath.Bsub(self.balance(cc, t), am)
	if err != nil {
		return err
	}
	self.setBalance(cc, t, bal)
	return TokenTransfer(cc, t, self.Address(), to, ToAmount(am))
}

//////////////////////////////////////////////////
// Controller
//////////////////////////////////////////////////

// finalize pulls the initial balances from the controller and mints InitPoolSupply to it
func (self *PoolContract) finalize(cc *types.ContractContext, balances []*amount.Amount) error {
	ctrl := self.controller(cc)
	if err := cc.RequireAuth(ctrl); err != nil {
		return err
	}
	if self.isFinalized(cc) {
		return errors.WithStack(ErrIsFinalized)
	}
	tokens := self.tokens(cc)
	if len(balances) != len(tokens) {
		return errors.WithStack(ErrInvalidBalances)
	}
	for i, t := range tokens {
		if !IsPlusAmount(balances[i]) {
			return errors.WithStack(ErrInvalidBalances)
		}
		if err := self.pull(cc, t, ctrl, balances[i].Int); err != nil {
			return err
		}
	}
	cc.SetContractData([]byte{tagFinalized}, []byte{1})
	if err := self.MintTo(cc, ctrl, InitPoolSupply.Clone()); err != nil {
		return err
	}
	cc.EmitEvent([]string{"CometPool", "finalize"}, ctrl)
	return nil
}

//////////////////////////////////////////////////
// Liquidity
//////////////////////////////////////////////////

// joinPool mints poolAmountOut to user charging each token its ceil share
func (self *PoolContract) joinPool(cc *types.ContractContext, user common.Address, poolAmountOut *big.Int, maxAmountsIn []*amount.Amount) ([]*big.Int, error) {
	if err := cc.RequireAuth(user); err != nil {
		return nil, err
	}
	if !self.isFinalized(cc) {
		return nil, errors.WithStack(ErrNotFinalized)
	}
	tokens := self.tokens(cc)
	if len(maxAmountsIn) != len(tokens) || poolAmountOut.Sign() <= 0 {
		return nil, errors.WithStack(ErrInvalidBalances)
	}
	ratio, err := bmath.Bdiv(poolAmountOut, self.TotalSupply(cc).Int)
	if err != nil {
		return nil, err
	}
	if ratio.Sign() == 0 {
		return nil, errors.WithStack(ErrMathApprox)
	}
	ins := make([]*big.Int, len(tokens))
	for i, t := range tokens {
		in := bmath.Bmul(ratio, self.balance(cc, t))
		if in.Sign() == 0 {
			return nil, errors.WithStack(ErrMathApprox)
		}
		if maxAmountsIn[i] == nil || in.Cmp(maxAmountsIn[i].Int) > 0 {
			return nil, errors.Wrapf(ErrLimitIn, "%v", t.String())
		}
		if err := self.pull(cc, t, user, in); err != nil {
			return nil, err
		}
		ins[i] = in
	}
	if err := self.MintTo(cc, user, ToAmount(Clone(poolAmountOut))); err != nil {
		return nil, err
	}
	cc.EmitEvent([]string{"CometPool", "join"}, user, ToAmount(Clone(poolAmountOut)))
	return ins, nil
}

// exitPool burns poolAmountIn of user and pays each token its floor share
func (self *PoolContract) exitPool(cc *types.ContractContext, user common.Address, poolAmountIn *big.Int, minAmountsOut []*amount.Amount) ([]*big.Int, error) {
	if err := cc.RequireAuth(user); err != nil {
		return nil, err
	}
	if !self.isFinalized(cc) {
		return nil, errors.WithStack(ErrNotFinalized)
	}
	tokens := self.tokens(cc)
	if len(minAmountsOut) != len(tokens) || poolAmountIn.Sign() <= 0 {
		return nil, errors.WithStack(ErrInvalidBalances)
	}
	ratio := MulDiv(poolAmountIn, bmath.BONE, self.TotalSupply(cc).Int)
	if ratio.Sign() == 0 {
		return nil, errors.WithStack(ErrMathApprox)
	}
	if err := self.BurnFrom(cc, user, ToAmount(Clone(poolAmountIn))); err != nil {
		return nil, err
	}
	outs := make([]*big.Int, len(tokens))
	for i, t := range tokens {
		out := bmath.BmulDown(ratio, self.balance(cc, t))
		if minAmountsOut[i] != nil && out.Cmp(minAmountsOut[i].Int) < 0 {
			return nil, errors.Wrapf(ErrLimitOut, "%v", t.String())
		}
		if err := self.push(cc, t, user, out); err != nil {
			return nil, err
		}
		outs[i] = out
	}
	cc.EmitEvent([]string{"CometPool", "exit"}, user, ToAmount(Clone(poolAmountIn)))
	return outs, nil
}

// joinswapExternAmountIn deposits a single token and mints the matching shares
func (self *PoolContract) joinswapExternAmountIn(cc *types.ContractContext, user common.Address, tokenIn common.Address, amountIn *big.Int, minPoolAmountOut *big.Int) (*big.Int, error) {
	if err := cc.RequireAuth(user); err != nil {
		return nil, err
	}
	if !self.isFinalized(cc) {
		return nil, errors.WithStack(ErrNotFinalized)
	}
	if err := self.requireBound(cc, tokenIn); err != nil {
		return nil, err
	}
	balanceIn := self.balance(cc, tokenIn)
	if amountIn.Cmp(bmath.BmulDown(balanceIn, bmath.MaxInRatio)) > 0 {
		return nil, errors.WithStack(bmath.ErrMaxInRatio)
	}
	poolOut, err := bmath.CalcPoolOutGivenSingleIn(balanceIn, self.weight(cc, tokenIn), self.TotalSupply(cc).Int, self.totalWeight(cc), amountIn, self.swapFee(cc))
	if err != nil {
		return nil, err
	}
	if poolOut.Sign() == 0 || poolOut.Cmp(minPoolAmountOut) < 0 {
		return nil, errors.WithStack(ErrLimitOut)
	}
	if err := self.pull(cc, tokenIn, user, amountIn); err != nil {
		return nil, err
	}
	if err := self.MintTo(cc, user, ToAmount(Clone(poolOut))); err != nil {
		return nil, err
	}
	cc.EmitEvent([]string{"CometPool", "join"}, user, ToAmount(Clone(poolOut)))
	return poolOut, nil
}

//////////////////////////////////////////////////
// Swaps
//////////////////////////////////////////////////

func (self *PoolContract) spotPrice(cc *types.ContractContext, tokenIn, tokenOut common.Address) (*big.Int, error) {
	if err := self.requireBound(cc, tokenIn, tokenOut); err != nil {
		return nil, err
	}
	return bmath.CalcSpotPrice(self.balance(cc, tokenIn), self.weight(cc, tokenIn), self.balance(cc, tokenOut), self.weight(cc, tokenOut), self.swapFee(cc))
}

func (self *PoolContract) checkSwap(cc *types.ContractContext, user, tokenIn, tokenOut common.Address, maxPrice *big.Int) (*big.Int, error) {
	if err := cc.RequireAuth(user); err != nil {
		return nil, err
	}
	if !self.isFinalized(cc) {
		return nil, errors.WithStack(ErrNotFinalized)
	}
	if tokenIn == tokenOut {
		return nil, errors.WithStack(ErrInvalidTokens)
	}
	before, err := self.spotPrice(cc, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if maxPrice != nil && before.Cmp(maxPrice) > 0 {
		return nil, errors.WithStack(ErrBadLimitPrice)
	}
	return before, nil
}

func (self *PoolContract) settleSwap(cc *types.ContractContext, user, tokenIn, tokenOut common.Address, in, out, before, maxPrice *big.Int) (*big.Int, error) {
	if err := self.pull(cc, tokenIn, user, in); err != nil {
		return nil, err
	}
	if err := self.push(cc, tokenOut, user, out); err != nil {
		return nil, err
	}
	after, err := self.spotPrice(cc, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if after.Cmp(before) < 0 {
		return nil, errors.WithStack(ErrMathApprox)
	}
	if maxPrice != nil && after.Cmp(maxPrice) > 0 {
		return nil, errors.WithStack(ErrLimitPrice)
	}
	cc.EmitEvent([]string{"CometPool", "swap"}, user, tokenIn, tokenOut, ToAmount(Clone(in)), ToAmount(Clone(out)))
	return after, nil
}

func (self *PoolContract) swapExactAmountIn(cc *types.ContractContext, user, tokenIn common.Address, amountIn *big.Int, tokenOut common.Address, minAmountOut, maxPrice *big.Int) (*big.Int, *big.Int, error) {
	before, err := self.checkSwap(cc, user, tokenIn, tokenOut, maxPrice)
	if err != nil {
		return nil, nil, err
	}
	out, err := bmath.CalcOutGivenIn(self.balance(cc, tokenIn), self.weight(cc, tokenIn), self.balance(cc, tokenOut), self.weight(cc, tokenOut), amountIn, self.swapFee(cc))
	if err != nil {
		return nil, nil, err
	}
	if out.Cmp(minAmountOut) < 0 {
		return nil, nil, errors.Wrapf(ErrLimitOut, "out %v min %v", out.String(), minAmountOut.String())
	}
	after, err := self.settleSwap(cc, user, tokenIn, tokenOut, amountIn, out, before, maxPrice)
	if err != nil {
		return nil, nil, err
	}
	return out, after, nil
}

func (self *PoolContract) swapExactAmountOut(cc *types.ContractContext, user, tokenIn common.Address, maxAmountIn *big.Int, tokenOut common.Address, amountOut, maxPrice *big.Int) (*big.Int, *big.Int, error) {
	before, err := self.checkSwap(cc, user, tokenIn, tokenOut, maxPrice)
	if err != nil {
		return nil, nil, err
	}
	in, err := bmath.CalcInGivenOut(self.balance(cc, tokenIn), self.weight(cc, tokenIn), self.balance(cc, tokenOut), self.weight(cc, tokenOut), amountOut, self.swapFee(cc))
	if err != nil {
		return nil, nil, err
	}
	if in.Cmp(maxAmountIn) > 0 {
		return nil, nil, errors.Wrapf(ErrLimitIn, "in %v max %v", in.String(), maxAmountIn.String())
	}
	after, err := self.settleSwap(cc, user, tokenIn, tokenOut, in, amountOut, before, maxPrice)
	if err != nil {
		return nil, nil, err
	}
	return in, after, nil
}

func optional(am *amount.Amount) *big.Int {
	if am == nil || am.Int == nil {
		return nil
	}
	return am.Int
}

//////////////////////////////////////////////////
// Front
//////////////////////////////////////////////////

func (self *PoolContract) Front() interface{} {
	return &PoolFront{
		TokenFront: token.NewTokenFront(&self.TokenContract),
		cont:       self,
	}
}

// PoolFront exposes the pool next to its share token
type PoolFront struct {
	*token.TokenFront
	cont *PoolContract
}

func (f *PoolFront) Finalize(cc *types.ContractContext, Balances []*amount.Amount) error {
	return f.cont.finalize(cc, Balances)
}

func (f *PoolFront) JoinPool(cc *types.ContractContext, User common.Address, PoolAmountOut *amount.Amount, MaxAmountsIn []*amount.Amount) ([]*amount.Amount, error) {
	ins, err := f.cont.joinPool(cc, User, PoolAmountOut.Int, MaxAmountsIn)
	if err != nil {
		return nil, err
	}
	return ToAmounts(ins), nil
}

func (f *PoolFront) ExitPool(cc *types.ContractContext, User common.Address, PoolAmountIn *amount.Amount, MinAmountsOut []*amount.Amount) ([]*amount.Amount, error) {
	outs, err := f.cont.exitPool(cc, User, PoolAmountIn.Int, MinAmountsOut)
	if err != nil {
		return nil, err
	}
	return ToAmounts(outs), nil
}

func (f *PoolFront) JoinswapExternAmountIn(cc *types.ContractContext, User common.Address, TokenIn common.Address, AmountIn *amount.Amount, MinPoolAmountOut *amount.Amount) (*amount.Amount, error) {
	out, err := f.cont.joinswapExternAmountIn(cc, User, TokenIn, AmountIn.Int, MinPoolAmountOut.Int)
	if err != nil {
		return nil, err
	}
	return ToAmount(out), nil
}

// SwapExactAmountIn returns the amount paid out and the spot price after the swap.
// A nil MaxPrice disables the price limit.
func (f *PoolFront) SwapExactAmountIn(cc *types.ContractContext, User common.Address, TokenIn common.Address, AmountIn *amount.Amount, TokenOut common.Address, MinAmountOut *amount.Amount, MaxPrice *amount.Amount) (*amount.Amount, *amount.Amount, error) {
	out, price, err := f.cont.swapExactAmountIn(cc, User, TokenIn, AmountIn.Int, TokenOut, MinAmountOut.Int, optional(MaxPrice))
	if err != nil {
		return nil, nil, err
	}
	return ToAmount(out), ToAmount(price), nil
}

func (f *PoolFront) SwapExactAmountOut(cc *types.ContractContext, User common.Address, TokenIn common.Address, MaxAmountIn *amount.Amount, TokenOut common.Address, AmountOut *amount.Amount, MaxPrice *amount.Amount) (*amount.Amount, *amount.Amount, error) {
	in, price, err := f.cont.swapExactAmountOut(cc, User, TokenIn, MaxAmountIn.Int, TokenOut, AmountOut.Int, optional(MaxPrice))
	if err != nil {
		return nil, nil, err
	}
	return ToAmount(in), ToAmount(price), nil
}

func (f *PoolFront) GetTokens(cc *types.ContractContext) []common.Address {
	return f.cont.tokens(cc)
}

func (f *PoolFront) GetController(cc *types.ContractContext) common.Address {
	return f.cont.controller(cc)
}

func (f *PoolFront) IsFinalized(cc *types.ContractContext) bool {
	return f.cont.isFinalized(cc)
}

func (f *PoolFront) IsBound(cc *types.ContractContext, Token common.Address) bool {
	return f.cont.isBound(cc, Token)
}

func (f *PoolFront) GetBalance(cc *types.ContractContext, Token common.Address) (*amount.Amount, error) {
	if err := f.cont.requireBound(cc, Token); err != nil {
		return nil, err
	}
	return ToAmount(f.cont.balance(cc, Token)), nil
}

func (f *PoolFront) GetDenormalizedWeight(cc *types.ContractContext, Token common.Address) (*amount.Amount, error) {
	if err := f.cont.requireBound(cc, Token); err != nil {
		return nil, err
	}
	return ToAmount(f.cont.weight(cc, Token)), nil
}

func (f *PoolFront) GetTotalDenormalizedWeight(cc *types.ContractContext) *amount.Amount {
	return ToAmount(f.cont.totalWeight(cc))
}

func (f *PoolFront) GetNormalizedWeight(cc *types.ContractContext, Token common.Address) (*amount.Amount, error) {
	if err := f.cont.requireBound(cc, Token); err != nil {
		return nil, err
	}
	w, err := bmath.Bdiv(f.cont.weight(cc, Token), f.cont.totalWeight(cc))
	if err != nil {
		return nil, err
	}
	return ToAmount(w), nil
}

func (f *PoolFront) GetSwapFee(cc *types.ContractContext) *amount.Amount {
	return ToAmount(f.cont.swapFee(cc))
}

// GetSpotPrice is BONE scaled and includes the swap fee
func (f *PoolFront) GetSpotPrice(cc *types.ContractContext, TokenIn common.Address, TokenOut common.Address) (*amount.Amount, error) {
	p, err := f.cont.spotPrice(cc, TokenIn, TokenOut)
	if err != nil {
		return nil, err
	}
	return ToAmount(p), nil
}
