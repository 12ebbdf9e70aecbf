package aqua

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

// pool errors
var (
	ErrInvalidIndex          = errors.New("AquaPool: INVALID_INDEX")
	ErrInvalidAmounts        = errors.New("AquaPool: INVALID_AMOUNTS")
	ErrZeroAmount            = errors.New("AquaPool: ZERO_AMOUNT")
	ErrZeroShares            = errors.New("AquaPool: ZERO_SHARES")
	ErrOutMinNotSatisfied    = errors.New("AquaPool: OUT_MIN_NOT_SATISFIED")
	ErrInMaxNotSatisfied     = errors.New("AquaPool: IN_MAX_NOT_SATISFIED")
	ErrMinSharesNotReached   = errors.New("AquaPool: MIN_SHARES_NOT_REACHED")
	ErrInsufficientShares    = errors.New("AquaPool: INSUFFICIENT_SHARES")
	ErrWithdrawMinNotReached = errors.New("AquaPool: WITHDRAW_MIN_NOT_REACHED")
)

// PoolContract is a two token pool that mints a separate share token it masters
type PoolContract struct {
	addr   common.Address
	master common.Address
}

func (self *PoolContract) Address() common.Address {
	return self.addr
}

func (self *PoolContract) Master() common.Address {
	return self.master
}

func (self *PoolContract) Init(addr common.Address, master common.Address) {
	self.addr = addr
	self.master = master
}

func (self *PoolContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &PoolContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	if len(data.Tokens) != 2 {
		return errors.WithStack(ErrInvalidTokens)
	}
	cc.SetContractData([]byte{tagRouter}, data.Router[:])
	cc.SetContractData([]byte{tagTokens}, bin.MustWriterToBytes(&addressList{data.Tokens}))
	cc.SetContractData([]byte{tagKind}, []byte{byte(data.Kind)})
	cc.SetContractData([]byte{tagFee}, bin.Uint32Bytes(data.FeeBps))
	cc.SetContractData([]byte{tagAmp}, bin.Uint64Bytes(data.Amp*swapmath.APrecision))

	bs, _, err := bin.WriterToBytes(&token.TokenContractConstruction{
		Name:     "Aqua Pool Share",
		Symbol:   "AQUA-SHARE",
		Decimals: amount.FractionalCount,
	})
	if err != nil {
		return err
	}
	v, err := cc.DeployContract(self.addr, types.ContractClassID(&token.TokenContract{}), bs)
	if err != nil {
		return errors.Wrap(err, "AquaPool: share token")
	}
	share := v.Address()
	cc.SetContractData([]byte{tagShare}, share[:])
	return nil
}

//////////////////////////////////////////////////
// Records
//////////////////////////////////////////////////

func (self *PoolContract) tokens(cc *types.ContractContext) []common.Address {
	list := &addressList{}
	if _, err := list.ReadFrom(bytes.NewReader(cc.ContractData([]byte{tagTokens}))); err != nil {
		return nil
	}
	return list.Addrs
}

func (self *PoolContract) kind(cc *types.ContractContext) PoolKind {
	bs := cc.ContractData([]byte{tagKind})
	if len(bs) == 0 {
		return ConstantProduct
	}
	return PoolKind(bs[0])
}

func (self *PoolContract) feeBps(cc *types.ContractContext) uint32 {
	return bin.Uint32(cc.ContractData([]byte{tagFee}))
}

// amp is A times swapmath.APrecision
func (self *PoolContract) amp(cc *types.ContractContext) *big.Int {
	return new(big.Int).SetUint64(bin.Uint64(cc.ContractData([]byte{tagAmp})))
}

func (self *PoolContract) share(cc *types.ContractContext) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagShare}))
}

func (self *PoolContract) reserves(cc *types.ContractContext) []*big.Int {
	return []*big.Int{
		amount.NewAmountFromBytes(cc.ContractData(makeReserveKey(0))).Int,
		amount.NewAmountFromBytes(cc.ContractData(makeReserveKey(1))).Int,
	}
}

func (self *PoolContract) setReserves(cc *types.ContractContext, rs []*big.Int) {
	for i, r := range rs {
		cc.SetContractData(makeReserveKey(i), ToAmount(r).Bytes())
	}
}

func (self *PoolContract) totalShares(cc *types.ContractContext) (*big.Int, error) {
	total, err := TokenTotalSupply(cc, self.share(cc))
	if err != nil {
		return nil, err
	}
	return total.Int, nil
}

func checkIndex(in, out uint32) error {
	if in > 1 || out > 1 || in == out {
		return errors.Wrapf(ErrInvalidIndex, "in %v out %v", in, out)
	}
	return nil
}

//////////////////////////////////////////////////
// Estimates
//////////////////////////////////////////////////

func (self *PoolContract) estimateSwap(cc *types.ContractContext, in, out uint32, dx *big.Int) (*big.Int, error) {
	if err := checkIndex(in, out); err != nil {
		return nil, err
	}
	if dx.Sign() <= 0 {
		return nil, errors.WithStack(ErrZeroAmount)
	}
	rs := self.reserves(cc)
	if self.kind(cc) == Stableswap {
		return swapmath.GetDy(int(in), int(out), dx, rs, self.amp(cc), self.feeBps(cc))
	}
	return swapmath.GetAmountOut(self.feeBps(cc), dx, rs[in], rs[out])
}

func (self *PoolContract) estimateSwapStrictReceive(cc *types.ContractContext, in, out uint32, dy *big.Int) (*big.Int, error) {
	if err := checkIndex(in, out); err != nil {
		return nil, err
	}
	if dy.Sign() <= 0 {
		return nil, errors.WithStack(ErrZeroAmount)
	}
	rs := self.reserves(cc)
	if self.kind(cc) == Stableswap {
		return swapmath.GetDx(int(in), int(out), dy, rs, self.amp(cc), self.feeBps(cc))
	}
	return swapmath.GetAmountIn(self.feeBps(cc), dy, rs[in], rs[out])
}

//////////////////////////////////////////////////
// Swaps
//////////////////////////////////////////////////

// settle pulls dx of the in token from user and pays dy of the out token
func (self *PoolContract) settle(cc *types.ContractContext, user common.Address, in, out uint32, dx, dy *big.Int) error {
	tokens := self.tokens(cc)
	if err := TokenTransfer(cc, tokens[in], user, self.addr, ToAmount(dx)); err != nil {
		return err
	}
	if err := TokenTransfer(cc, tokens[out], self.addr, user, ToAmount(dy)); err != nil {
		return err
	}
	rs := self.reserves(cc)
	rs[in] = Add(rs[in], dx)
	rs[out] = Sub(rs[out], dy)
	self.setReserves(cc, rs)
	cc.EmitEvent([]string{"AquaPool", "trade"}, user, tokens[in], tokens[out], ToAmount(Clone(dx)), ToAmount(Clone(dy)))
	return nil
}

func (self *PoolContract) swap(cc *types.ContractContext, user common.Address, in, out uint32, dx, outMin *big.Int) (*big.Int, error) {
	if err := cc.RequireAuth(user); err != nil {
		return nil, err
	}
	dy, err := self.estimateSwap(cc, in, out, dx)
	if err != nil {
		return nil, err
	}
	if dy.Sign() <= 0 {
		return nil, errors.WithStack(ErrZeroAmount)
	}
	if dy.Cmp(outMin) < 0 {
		return nil, errors.Wrapf(ErrOutMinNotSatisfied, "out %v min %v", dy.String(), outMin.String())
	}
	if err := self.settle(cc, user, in, out, dx, dy); err != nil {
		return nil, err
	}
	return dy, nil
}

func (self *PoolContract) swapStrictReceive(cc *types.ContractContext, user common.Address, in, out uint32, dy, inMax *big.Int) (*big.Int, error) {
	if err := cc.RequireAuth(user); err != nil {
		return nil, err
	}
	dx, err := self.estimateSwapStrictReceive(cc, in, out, dy)
	if err != nil {
		return nil, err
	}
	if dx.Cmp(inMax) > 0 {
		return nil, errors.Wrapf(ErrInMaxNotSatisfied, "in %v max %v", dx.String(), inMax.String())
	}
	if err := self.settle(cc, user, in, out, dx, dy); err != nil {
		return nil, err
	}
	return dx, nil
}

//////////////////////////////////////////////////
// Liquidity
//////////////////////////////////////////////////

// depositShares returns the amounts the pool takes for desired and the shares they mint
func (self *PoolContract) depositShares(cc *types.ContractContext, desired []*big.Int) ([]*big.Int, *big.Int, error) {
	total, err := self.totalShares(cc)
	if err != nil {
		return nil, nil, err
	}
	rs := self.reserves(cc)
	stable := self.kind(cc) == Stableswap

	if total.Sign() == 0 {
		if stable {
			d, err := swapmath.GetD(desired, self.amp(cc))
			if err != nil {
				return nil, nil, err
			}
			return desired, d, nil
		}
		return desired, new(big.Int).Sqrt(Mul(desired[0], desired[1])), nil
	}

	if stable {
		d0, err := swapmath.GetD(rs, self.amp(cc))
		if err != nil {
			return nil, nil, err
		}
		d1, err := swapmath.GetD([]*big.Int{Add(rs[0], desired[0]), Add(rs[1], desired[1])}, self.amp(cc))
		if err != nil {
			return nil, nil, err
		}
		return desired, MulDiv(total, Sub(d1, d0), d0), nil
	}

	a, b, err := swapmath.OptimalDeposit(desired[0], desired[1], Zero, Zero, rs[0], rs[1])
	if err != nil {
		return nil, nil, err
	}
	shares := Min(MulDiv(a, total, rs[0]), MulDiv(b, total, rs[1]))
	return []*big.Int{a, b}, shares, nil
}

func (self *PoolContract) deposit(cc *types.ContractContext, user common.Address, desired []*amount.Amount, minShares *big.Int) ([]*big.Int, *big.Int, error) {
	if err := cc.RequireAuth(user); err != nil {
		return nil, nil, err
	}
	if len(desired) != 2 || !IsPlusAmount(desired[0]) || !IsPlusAmount(desired[1]) {
		return nil, nil, errors.WithStack(ErrInvalidAmounts)
	}
	amounts, shares, err := self.depositShares(cc, ToBigInts(desired))
	if err != nil {
		return nil, nil, err
	}
	if shares.Sign() <= 0 {
		return nil, nil, errors.WithStack(ErrZeroShares)
	}
	if shares.Cmp(minShares) < 0 {
		return nil, nil, errors.Wrapf(ErrMinSharesNotReached, "shares %v min %v", shares.String(), minShares.String())
	}

	tokens := self.tokens(cc)
	rs := self.reserves(cc)
	for i, t := range tokens {
		if err := TokenTransfer(cc, t, user, self.addr, ToAmount(amounts[i])); err != nil {
			return nil, nil, err
		}
		rs[i] = Add(rs[i], amounts[i])
	}
	self.setReserves(cc, rs)
	if err := TokenMint(cc, self.share(cc), user, ToAmount(Clone(shares))); err != nil {
		return nil, nil, err
	}
	cc.EmitEvent([]string{"AquaPool", "deposit_liquidity"}, user, ToAmounts(amounts), ToAmount(Clone(shares)))
	return amounts, shares, nil
}

// withdraw burns shares of user, who must have authorized the share token burn
func (self *PoolContract) withdraw(cc *types.ContractContext, user common.Address, shares *big.Int, mins []*amount.Amount) ([]*big.Int, error) {
	if err := cc.RequireAuth(user); err != nil {
		return nil, err
	}
	if shares.Sign() <= 0 || len(mins) != 2 {
		return nil, errors.WithStack(ErrInvalidAmounts)
	}
	total, err := self.totalShares(cc)
	if err != nil {
		return nil, err
	}
	if shares.Cmp(total) > 0 {
		return nil, errors.WithStack(ErrInsufficientShares)
	}

	tokens := self.tokens(cc)
	rs := self.reserves(cc)
	outs := make([]*big.Int, len(tokens))
	for i := range tokens {
		outs[i] = MulDiv(rs[i], shares, total)
		if mins[i] != nil && outs[i].Cmp(mins[i].Int) < 0 {
			return nil, errors.Wrapf(ErrWithdrawMinNotReached, "%v below %v", outs[i].String(), mins[i].String())
		}
	}
	if err := TokenBurn(cc, self.share(cc), user, ToAmount(Clone(shares))); err != nil {
		return nil, err
	}
	for i, t := range tokens {
		if err := TokenTransfer(cc, t, self.addr, user, ToAmount(outs[i])); err != nil {
			return nil, err
		}
		rs[i] = Sub(rs[i], outs[i])
	}
	self.setReserves(cc, rs)
	cc.EmitEvent([]string{"AquaPool", "withdraw_liquidity"}, user, ToAmount(Clone(shares)), ToAmounts(outs))
	return outs, nil
}

//////////////////////////////////////////////////
// Front
//////////////////////////////////////////////////

func (self *PoolContract) Front() interface{} {
	return &PoolFront{
		cont: self,
	}
}

type PoolFront struct {
	cont *PoolContract
}

func (f *PoolFront) Swap(cc *types.ContractContext, User common.Address, InIdx uint32, OutIdx uint32, InAmount *amount.Amount, OutMin *amount.Amount) (*amount.Amount, error) {
	out, err := f.cont.swap(cc, User, InIdx, OutIdx, InAmount.Int, OutMin.Int)
	if err != nil {
		return nil, err
	}
	return ToAmount(out), nil
}

func (f *PoolFront) SwapStrictReceive(cc *types.ContractContext, User common.Address, InIdx uint32, OutIdx uint32, OutAmount *amount.Amount, InMax *amount.Amount) (*amount.Amount, error) {
	in, err := f.cont.swapStrictReceive(cc, User, InIdx, OutIdx, OutAmount.Int, InMax.Int)
	if err != nil {
		return nil, err
	}
	return ToAmount(in), nil
}

func (f *PoolFront) EstimateSwap(cc *types.ContractContext, InIdx uint32, OutIdx uint32, InAmount *amount.Amount) (*amount.Amount, error) {
	out, err := f.cont.estimateSwap(cc, InIdx, OutIdx, InAmount.Int)
	if err != nil {
		return nil, err
	}
	return ToAmount(out), nil
}

func (f *PoolFront) EstimateSwapStrictReceive(cc *types.ContractContext, InIdx uint32, OutIdx uint32, OutAmount *amount.Amount) (*amount.Amount, error) {
	in, err := f.cont.estimateSwapStrictReceive(cc, InIdx, OutIdx, OutAmount.Int)
	if err != nil {
		return nil, err
	}
	return ToAmount(in), nil
}

// Deposit returns the amounts taken in token order and the shares minted
func (f *PoolFront) Deposit(cc *types.ContractContext, User common.Address, DesiredAmounts []*amount.Amount, MinShares *amount.Amount) ([]*amount.Amount, *amount.Amount, error) {
	amounts, shares, err := f.cont.deposit(cc, User, DesiredAmounts, MinShares.Int)
	if err != nil {
		return nil, nil, err
	}
	return ToAmounts(amounts), ToAmount(shares), nil
}

func (f *PoolFront) Withdraw(cc *types.ContractContext, User common.Address, ShareAmount *amount.Amount, MinAmounts []*amount.Amount) ([]*amount.Amount, error) {
	outs, err := f.cont.withdraw(cc, User, ShareAmount.Int, MinAmounts)
	if err != nil {
		return nil, err
	}
	return ToAmounts(outs), nil
}

func (f *PoolFront) GetReserves(cc *types.ContractContext) []*amount.Amount {
	return ToAmounts(f.cont.reserves(cc))
}

func (f *PoolFront) GetTokens(cc *types.ContractContext) []common.Address {
	return f.cont.tokens(cc)
}

func (f *PoolFront) GetTotalShares(cc *types.ContractContext) (*amount.Amount, error) {
	total, err := f.cont.totalShares(cc)
	if err != nil {
		return nil, err
	}
	return ToAmount(total), nil
}

func (f *PoolFront) ShareID(cc *types.ContractContext) common.Address {
	return f.cont.share(cc)
}

func (f *PoolFront) GetFeeFraction(cc *types.ContractContext) uint32 {
	return f.cont.feeBps(cc)
}

func (f *PoolFront) PoolType(cc *types.ContractContext) string {
	return f.cont.kind(cc).String()
}
