package phoenix

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

// Bps is the basis point denominator
var Bps = big.NewInt(10000)

// pool errors
var (
	ErrInvalidAsset          = errors.New("PhoenixPool: INVALID_ASSET")
	ErrInvalidAmount         = errors.New("PhoenixPool: INVALID_AMOUNT")
	ErrDeadlineExceeded      = errors.New("PhoenixPool: DEADLINE_EXCEEDED")
	ErrSwapMinReceived       = errors.New("PhoenixPool: SWAP_MIN_RECEIVED")
	ErrSpreadExceedsLimit    = errors.New("PhoenixPool: SPREAD_EXCEEDS_LIMIT")
	ErrFeeExceedsLimit       = errors.New("PhoenixPool: FEE_EXCEEDS_LIMIT")
	ErrSlippageExceedsLimit  = errors.New("PhoenixPool: SLIPPAGE_EXCEEDS_LIMIT")
	ErrInsufficientLiquidity = errors.New("PhoenixPool: INSUFFICIENT_LIQUIDITY")
	ErrWithdrawMinNotMet     = errors.New("PhoenixPool: WITHDRAW_MIN_NOT_MET")
	ErrZeroShares            = errors.New("PhoenixPool: ZERO_SHARES")
)

// Asset is a token and an amount of it
type Asset struct {
	Address common.Address
	Amount  *amount.Amount
}

// PoolResponse describes both reserves and the share token supply
type PoolResponse struct {
	AssetA       Asset
	AssetB       Asset
	AssetLpShare Asset
}

// PoolContract is a constant product pool with a separate share token it masters
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
	cc.SetContractData([]byte{tagFactory}, data.Factory[:])
	cc.SetContractData([]byte{tagTokenA}, data.TokenA[:])
	cc.SetContractData([]byte{tagTokenB}, data.TokenB[:])
	cc.SetContractData([]byte{tagConfig}, bin.MustWriterToBytes(&data.Config))

	bs, _, err := bin.WriterToBytes(&token.TokenContractConstruction{
		Name:     "Phoenix Pool Share",
		Symbol:   "POOL",
		Decimals: amount.FractionalCount,
	})
	if err != nil {
		return err
	}
	v, err := cc.DeployContract(self.addr, types.ContractClassID(&token.TokenContract{}), bs)
	if err != nil {
		return errors.Wrap(err, "PhoenixPool: share token")
	}
	share := v.Address()
	cc.SetContractData([]byte{tagShare}, share[:])
	return nil
}

//////////////////////////////////////////////////
// Records
//////////////////////////////////////////////////

func (self *PoolContract) tokenA(cc *types.ContractContext) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagTokenA}))
}

func (self *PoolContract) tokenB(cc *types.ContractContext) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagTokenB}))
}

func (self *PoolContract) share(cc *types.ContractContext) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagShare}))
}

func (self *PoolContract) config(cc *types.ContractContext) *PoolConfig {
	cfg := &PoolConfig{}
	if _, err := cfg.ReadFrom(bytes.NewReader(cc.ContractData([]byte{tagConfig}))); err != nil {
		return &PoolConfig{}
	}
	return cfg
}

func (self *PoolContract) reserves(cc *types.ContractContext) (*big.Int, *big.Int) {
	ra := amount.NewAmountFromBytes(cc.ContractData([]byte{tagReserveA}))
	rb := amount.NewAmountFromBytes(cc.ContractData([]byte{tagReserveB}))
	return ra.Int, rb.Int
}

func (self *PoolContract) setReserves(cc *types.ContractContext, ra, rb *big.Int) {
	cc.SetContractData([]byte{tagReserveA}, ToAmount(ra).Bytes())
	cc.SetContractData([]byte{tagReserveB}, ToAmount(rb).Bytes())
}

func (self *PoolContract) totalShares(cc *types.ContractContext) (*big.Int, error) {
	total, err := TokenTotalSupply(cc, self.share(cc))
	if err != nil {
		return nil, err
	}
	return total.Int, nil
}

func checkDeadline(cc *types.ContractContext, deadline uint64) error {
	if deadline != 0 && cc.Timestamp() > deadline {
		return errors.Wrapf(ErrDeadlineExceeded, "now %v deadline %v", cc.Timestamp(), deadline)
	}
	return nil
}

// pools returns the offer and ask side reserves for the offered asset
func (self *PoolContract) pools(cc *types.ContractContext, offer common.Address) (offerPool, askPool *big.Int, ask common.Address, err error) {
	ra, rb := self.reserves(cc)
	switch offer {
	case self.tokenA(cc):
		return ra, rb, self.tokenB(cc), nil
	case self.tokenB(cc):
		return rb, ra, self.tokenA(cc), nil
	}
	return nil, nil, common.Address{}, errors.Wrap(ErrInvalidAsset, offer.String())
}

//////////////////////////////////////////////////
// Simulation
//////////////////////////////////////////////////

// computeSwap returns the amount paid out, the commission and the spread
func computeSwap(offerPool, askPool, offer *big.Int, feeBps uint32) (*big.Int, *big.Int, *big.Int, error) {
	if offerPool.Sign() == 0 || askPool.Sign() == 0 {
		return nil, nil, nil, errors.WithStack(ErrInsufficientLiquidity)
	}
	gross := MulDiv(askPool, offer, Add(offerPool, offer))
	ideal := MulDiv(offer, askPool, offerPool)
	spread := big.NewInt(0)
	if ideal.Cmp(gross) > 0 {
		spread = Sub(ideal, gross)
	}
	commission := MulDiv(gross, big.NewInt(int64(feeBps)), Bps)
	return Sub(gross, commission), commission, spread, nil
}

// computeOfferAmount is the offer that returns at least ask after commission
func computeOfferAmount(offerPool, askPool, ask *big.Int, feeBps uint32) (*big.Int, *big.Int, *big.Int, error) {
	if offerPool.Sign() == 0 || askPool.Sign() == 0 {
		return nil, nil, nil, errors.WithStack(ErrInsufficientLiquidity)
	}
	feeDen := Sub(Bps, big.NewInt(int64(feeBps)))
	if feeDen.Sign() <= 0 {
		return nil, nil, nil, errors.WithStack(ErrFeeExceedsLimit)
	}
	askGross := ceilDiv(Mul(ask, Bps), feeDen)
	if askGross.Cmp(askPool) >= 0 {
		return nil, nil, nil, errors.WithStack(ErrInsufficientLiquidity)
	}
	offer := ceilDiv(Mul(offerPool, askGross), Sub(askPool, askGross))
	ideal := MulDiv(offer, askPool, offerPool)
	spread := big.NewInt(0)
	if ideal.Cmp(askGross) > 0 {
		spread = Sub(ideal, askGross)
	}
	return offer, Sub(askGross, ask), spread, nil
}

func ceilDiv(a, b *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(a, b, new(big.Int))
	if m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

//////////////////////////////////////////////////
// Swap
//////////////////////////////////////////////////

// swap pays the ask asset to sender. A zero maxSpreadBps uses the pool's
// bound, a zero deadline or maxFeeBps disables that check.
func (self *PoolContract) swap(cc *types.ContractContext, sender, offerAsset common.Address, offer, askMin *big.Int, maxSpreadBps uint32, deadline uint64, maxFeeBps uint32) (*big.Int, error) {
	if err := cc.RequireAuth(sender); err != nil {
		return nil, err
	}
	if err := checkDeadline(cc, deadline); err != nil {
		return nil, err
	}
	if offer.Sign() <= 0 {
		return nil, errors.WithStack(ErrInvalidAmount)
	}
	cfg := self.config(cc)
	if maxFeeBps != 0 && cfg.SwapFeeBps > maxFeeBps {
		return nil, errors.Wrapf(ErrFeeExceedsLimit, "fee %v max %v", cfg.SwapFeeBps, maxFeeBps)
	}
	offerPool, askPool, askAsset, err := self.pools(cc, offerAsset)
	if err != nil {
		return nil, err
	}
	ret, commission, spread, err := computeSwap(offerPool, askPool, offer, cfg.SwapFeeBps)
	if err != nil {
		return nil, err
	}
	if askMin != nil && ret.Cmp(askMin) < 0 {
		return nil, errors.Wrapf(ErrSwapMinReceived, "return %v min %v", ret.String(), askMin.String())
	}
	maxSpread := cfg.MaxAllowedSpreadBps
	if maxSpreadBps != 0 && maxSpreadBps < maxSpread {
		maxSpread = maxSpreadBps
	}
	ideal := Add(Add(ret, commission), spread)
	if Mul(spread, Bps).Cmp(Mul(ideal, big.NewInt(int64(maxSpread)))) > 0 {
		return nil, errors.Wrapf(ErrSpreadExceedsLimit, "spread %v of %v", spread.String(), ideal.String())
	}

	if err := TokenTransfer(cc, offerAsset, sender, self.addr, ToAmount(offer)); err != nil {
		return nil, err
	}
	if err := TokenTransfer(cc, askAsset, self.addr, sender, ToAmount(ret)); err != nil {
		return nil, err
	}
	ra, rb := self.reserves(cc)
	if offerAsset == self.tokenA(cc) {
		self.setReserves(cc, Add(ra, offer), Sub(rb, ret))
	} else {
		self.setReserves(cc, Sub(ra, ret), Add(rb, offer))
	}
	cc.EmitEvent([]string{"PhoenixPool", "swap"}, sender, offerAsset, askAsset, ToAmount(Clone(offer)), ToAmount(Clone(ret)), ToAmount(commission))
	return ret, nil
}

//////////////////////////////////////////////////
// Liquidity
//////////////////////////////////////////////////

// provideLiquidity takes the ratio preserving part of the desired amounts
func (self *PoolContract) provideLiquidity(cc *types.ContractContext, sender common.Address, desiredA, minA, desiredB, minB *big.Int, slippageBps uint32, deadline uint64) (*big.Int, *big.Int, *big.Int, error) {
	if err := cc.RequireAuth(sender); err != nil {
		return nil, nil, nil, err
	}
	if err := checkDeadline(cc, deadline); err != nil {
		return nil, nil, nil, err
	}
	if desiredA.Sign() <= 0 || desiredB.Sign() <= 0 {
		return nil, nil, nil, errors.WithStack(ErrInvalidAmount)
	}
	if slippageBps > self.config(cc).MaxAllowedSlippageBps {
		return nil, nil, nil, errors.Wrapf(ErrSlippageExceedsLimit, "slippage %v", slippageBps)
	}
	ra, rb := self.reserves(cc)
	total, err := self.totalShares(cc)
	if err != nil {
		return nil, nil, nil, err
	}
	a, b, err := swapmath.OptimalDeposit(desiredA, desiredB, minA, minB, ra, rb)
	if err != nil {
		return nil, nil, nil, errors.Wrap(ErrSlippageExceedsLimit, err.Error())
	}
	var shares *big.Int
	if total.Sign() == 0 {
		shares = new(big.Int).Sqrt(Mul(a, b))
	} else {
		shares = Min(MulDiv(a, total, ra), MulDiv(b, total, rb))
	}
	if shares.Sign() <= 0 {
		return nil, nil, nil, errors.WithStack(ErrZeroShares)
	}

	if err := TokenTransfer(cc, self.tokenA(cc), sender, self.addr, ToAmount(a)); err != nil {
		return nil, nil, nil, err
	}
	if err := TokenTransfer(cc, self.tokenB(cc), sender, self.addr, ToAmount(b)); err != nil {
		return nil, nil, nil, err
	}
	self.setReserves(cc, Add(ra, a), Add(rb, b))
	if err := TokenMint(cc, self.share(cc), sender, ToAmount(Clone(shares))); err != nil {
		return nil, nil, nil, err
	}
	cc.EmitEvent([]string{"PhoenixPool", "provide_liquidity"}, sender, ToAmount(Clone(a)), ToAmount(Clone(b)), ToAmount(Clone(shares)))
	return a, b, shares, nil
}

// withdrawLiquidity burns the sender's shares, the share token burn must be authorized
func (self *PoolContract) withdrawLiquidity(cc *types.ContractContext, sender common.Address, shares, minA, minB *big.Int, deadline uint64) (*big.Int, *big.Int, error) {
	if err := cc.RequireAuth(sender); err != nil {
		return nil, nil, err
	}
	if err := checkDeadline(cc, deadline); err != nil {
		return nil, nil, err
	}
	if shares.Sign() <= 0 {
		return nil, nil, errors.WithStack(ErrInvalidAmount)
	}
	total, err := self.totalShares(cc)
	if err != nil {
		return nil, nil, err
	}
	if shares.Cmp(total) > 0 {
		return nil, nil, errors.WithStack(ErrInsufficientLiquidity)
	}
	ra, rb := self.reserves(cc)
	a := MulDiv(ra, shares, total)
	b := MulDiv(rb, shares, total)
	if a.Cmp(minA) < 0 || b.Cmp(minB) < 0 {
		return nil, nil, errors.Wrapf(ErrWithdrawMinNotMet, "got %v/%v", a.String(), b.String())
	}
	if err := TokenBurn(cc, self.share(cc), sender, ToAmount(Clone(shares))); err != nil {
		return nil, nil, err
	}
	if err := TokenTransfer(cc, self.tokenA(cc), self.addr, sender, ToAmount(a)); err != nil {
		return nil, nil, err
	}
	if err := TokenTransfer(cc, self.tokenB(cc), self.addr, sender, ToAmount(b)); err != nil {
		return nil, nil, err
	}
	self.setReserves(cc, Sub(ra, a), Sub(rb, b))
	cc.EmitEvent([]string{"PhoenixPool", "withdraw_liquidity"}, sender, ToAmount(Clone(shares)), ToAmount(Clone(a)), ToAmount(Clone(b)))
	return a, b, nil
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

func optional(am *amount.Amount) *big.Int {
	if am == nil || am.Int == nil {
		return nil
	}
	return am.Int
}

// Swap returns the amount of the ask asset paid to Sender. A nil AskAssetMinAmount
// accepts any return.
func (f *PoolFront) Swap(cc *types.ContractContext, Sender common.Address, OfferAsset common.Address, OfferAmount *amount.Amount, AskAssetMinAmount *amount.Amount, MaxSpreadBps uint32, Deadline uint64, MaxAllowedFeeBps uint32) (*amount.Amount, error) {
	ret, err := f.cont.swap(cc, Sender, OfferAsset, OfferAmount.Int, optional(AskAssetMinAmount), MaxSpreadBps, Deadline, MaxAllowedFeeBps)
	if err != nil {
		return nil, err
	}
	return ToAmount(ret), nil
}

// SimulateSwap returns the total return, the commission and the spread
func (f *PoolFront) SimulateSwap(cc *types.ContractContext, OfferAsset common.Address, OfferAmount *amount.Amount) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
	offerPool, askPool, _, err := f.cont.pools(cc, OfferAsset)
	if err != nil {
		return nil, nil, nil, err
	}
	ret, commission, spread, err := computeSwap(offerPool, askPool, OfferAmount.Int, f.cont.config(cc).SwapFeeBps)
	if err != nil {
		return nil, nil, nil, err
	}
	return ToAmount(ret), ToAmount(commission), ToAmount(spread), nil
}

// SimulateReverseSwap returns the offer amount, the commission and the spread
func (f *PoolFront) SimulateReverseSwap(cc *types.ContractContext, AskAsset common.Address, AskAmount *amount.Amount) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
	var offerAsset common.Address
	switch AskAsset {
	case f.cont.tokenA(cc):
		offerAsset = f.cont.tokenB(cc)
	case f.cont.tokenB(cc):
		offerAsset = f.cont.tokenA(cc)
	default:
		return nil, nil, nil, errors.Wrap(ErrInvalidAsset, AskAsset.String())
	}
	offerPool, askPool, _, err := f.cont.pools(cc, offerAsset)
	if err != nil {
		return nil, nil, nil, err
	}
	offer, commission, spread, err := computeOfferAmount(offerPool, askPool, AskAmount.Int, f.cont.config(cc).SwapFeeBps)
	if err != nil {
		return nil, nil, nil, err
	}
	return ToAmount(offer), ToAmount(commission), ToAmount(spread), nil
}

// ProvideLiquidity returns the amounts of token a and b taken and the shares minted
func (f *PoolFront) ProvideLiquidity(cc *types.ContractContext, Sender common.Address, DesiredA *amount.Amount, MinA *amount.Amount, DesiredB *amount.Amount, MinB *amount.Amount, CustomSlippageBps uint32, Deadline uint64) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
	a, b, shares, err := f.cont.provideLiquidity(cc, Sender, DesiredA.Int, MinA.Int, DesiredB.Int, MinB.Int, CustomSlippageBps, Deadline)
	if err != nil {
		return nil, nil, nil, err
	}
	return ToAmount(a), ToAmount(b), ToAmount(shares), nil
}

func (f *PoolFront) WithdrawLiquidity(cc *types.ContractContext, Sender common.Address, ShareAmount *amount.Amount, MinA *amount.Amount, MinB *amount.Amount, Deadline uint64) (*amount.Amount, *amount.Amount, error) {
	a, b, err := f.cont.withdrawLiquidity(cc, Sender, ShareAmount.Int, MinA.Int, MinB.Int, Deadline)
	if err != nil {
		return nil, nil, err
	}
	return ToAmount(a), ToAmount(b), nil
}

func (f *PoolFront) QueryPoolInfo(cc *types.ContractContext) (*PoolResponse, error) {
	ra, rb := f.cont.reserves(cc)
	total, err := f.cont.totalShares(cc)
	if err != nil {
		return nil, err
	}
	return &PoolResponse{
		AssetA:       Asset{Address: f.cont.tokenA(cc), Amount: ToAmount(Clone(ra))},
		AssetB:       Asset{Address: f.cont.tokenB(cc), Amount: ToAmount(Clone(rb))},
		AssetLpShare: Asset{Address: f.cont.share(cc), Amount: ToAmount(total)},
	}, nil
}

func (f *PoolFront) QueryShareToken(cc *types.ContractContext) common.Address {
	return f.cont.share(cc)
}

func (f *PoolFront) QueryConfig(cc *types.ContractContext) *PoolConfig {
	return f.cont.config(cc)
}
