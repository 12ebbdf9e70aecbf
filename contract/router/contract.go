// Package router keeps the adapter and market registries and dispatches
// swaps and liquidity plans to the adapter that fronts each pool.
//
// Callers hand the router custody before dispatch: the tokens a call
// spends must already sit on the router when it is invoked. The router
// then grants each adapter the one transfer it makes, so no contract past
// the router ever needs the caller's authorization.
package router

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

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

//////////////////////////////////////////////////
// Config
//////////////////////////////////////////////////

func (cont *RouterContract) isInitialized(cc *types.ContractContext) bool {
	return len(cc.ContractData([]byte{tagConfig})) > 0
}

func (cont *RouterContract) config(cc *types.ContractContext) (*CoreConfig, error) {
	bs := cc.ContractData([]byte{tagConfig})
	if len(bs) == 0 {
		return nil, errors.WithStack(ErrNotInitialized)
	}
	cfg := &CoreConfig{}
	if _, err := cfg.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cont *RouterContract) setConfig(cc *types.ContractContext, cfg *CoreConfig) {
	cc.SetContractData([]byte{tagConfig}, bin.MustWriterToBytes(cfg))
}

func (cont *RouterContract) requireAdmin(cc *types.ContractContext) (*CoreConfig, error) {
	cfg, err := cont.config(cc)
	if err != nil {
		return nil, err
	}
	if err := cc.RequireAuth(cfg.Admin); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cont *RouterContract) bump(cc *types.ContractContext) error {
	return cc.ExtendTTL(adapter.DefaultTTLThreshold, adapter.DefaultTTLBump)
}

func (cont *RouterContract) initialize(cc *types.ContractContext, admin common.Address) error {
	if cont.isInitialized(cc) {
		return errors.WithStack(ErrAlreadyInitialized)
	}
	if err := cc.RequireAuth(admin); err != nil {
		return err
	}
	cont.setConfig(cc, &CoreConfig{
		Admin:   admin,
		Version: 1,
	})
	cc.EmitEvent([]string{"router", "init"}, admin)
	return cont.bump(cc)
}

func (cont *RouterContract) setUsdc(cc *types.ContractContext, usdc common.Address) error {
	cfg, err := cont.requireAdmin(cc)
	if err != nil {
		return err
	}
	if !cc.IsContract(usdc) {
		return errors.Wrap(ErrInvalidArgument, "usdc is not a contract")
	}
	cfg.Usdc = usdc
	cont.setConfig(cc, cfg)
	return cont.bump(cc)
}

func (cont *RouterContract) version(cc *types.ContractContext) uint32 {
	cfg, err := cont.config(cc)
	if err != nil {
		return 0
	}
	return cfg.Version
}

//////////////////////////////////////////////////
// Adapters
//////////////////////////////////////////////////

func (cont *RouterContract) adapters(cc *types.ContractContext) registrations {
	bs := cc.ContractData([]byte{tagAdapters})
	if len(bs) == 0 {
		return registrations{}
	}
	var list registrations
	if _, err := list.ReadFrom(bytes.NewReader(bs)); err != nil {
		return registrations{}
	}
	return list
}

func (cont *RouterContract) setAdapters(cc *types.ContractContext, list registrations) {
	cc.SetContractData([]byte{tagAdapters}, bin.MustWriterToBytes(list))
}

// setAdapter replaces the registration of the id
func (cont *RouterContract) setAdapter(cc *types.ContractContext, id uint32, addr common.Address) error {
	if _, err := cont.requireAdmin(cc); err != nil {
		return err
	}
	if !cc.IsContract(addr) {
		return errors.Wrapf(ErrInvalidArgument, "adapter %v is not a contract", addr.String())
	}
	list := cont.adapters(cc)
	replaced := false
	for _, v := range list {
		if v.AdapterID == id {
			v.AdapterAddress = addr
			replaced = true
		}
	}
	if !replaced {
		list = append(list, &AdapterRegistration{AdapterID: id, AdapterAddress: addr})
	}
	cont.setAdapters(cc, list)
	cc.EmitEvent([]string{"router", "adapter"}, id, addr)
	return cont.bump(cc)
}

func (cont *RouterContract) removeAdapter(cc *types.ContractContext, id uint32) error {
	if _, err := cont.requireAdmin(cc); err != nil {
		return err
	}
	list := cont.adapters(cc)
	kept := make(registrations, 0, len(list))
	for _, v := range list {
		if v.AdapterID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(list) {
		return errors.Wrapf(ErrAdapterMissing, "adapter id %v", id)
	}
	cont.setAdapters(cc, kept)
	cc.EmitEvent([]string{"router", "rm_adapter"}, id)
	return cont.bump(cc)
}

func (cont *RouterContract) adapterAddress(cc *types.ContractContext, id uint32) (common.Address, error) {
	for _, v := range cont.adapters(cc) {
		if v.AdapterID == id {
			return v.AdapterAddress, nil
		}
	}
	return ZeroAddress, errors.Wrapf(ErrAdapterMissing, "adapter id %v", id)
}

//////////////////////////////////////////////////
// Markets
//////////////////////////////////////////////////

func (cont *RouterContract) marketCount(cc *types.ContractContext) uint32 {
	bs := cc.ContractData([]byte{tagMarketCount})
	if len(bs) == 0 {
		return 0
	}
	return bin.Uint32(bs)
}

func (cont *RouterContract) market(cc *types.ContractContext, idx uint32) (*MarketData, error) {
	bs := cc.ContractData(makeMarketKey(idx))
	if len(bs) == 0 {
		return nil, errors.Wrapf(ErrPoolNotFound, "market %v", idx)
	}
	m := &MarketData{}
	if _, err := m.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil, err
	}
	return m, nil
}

// markets returns every row in registration order
func (cont *RouterContract) markets(cc *types.ContractContext) ([]*MarketData, error) {
	n := cont.marketCount(cc)
	list := make([]*MarketData, 0, n)
	for i := uint32(0); i < n; i++ {
		m, err := cont.market(cc, i)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}

func (cont *RouterContract) putMarket(cc *types.ContractContext, idx uint32, m *MarketData) {
	cc.SetContractData(makeMarketKey(idx), bin.MustWriterToBytes(m))
}

func (cont *RouterContract) appendMarket(cc *types.ContractContext, m *MarketData) {
	n := cont.marketCount(cc)
	cont.putMarket(cc, n, m)
	cc.SetContractData([]byte{tagMarketCount}, bin.Uint32Bytes(n+1))
}

// upsertMarket refreshes the row of the same adapter and pool or appends a new one
func (cont *RouterContract) upsertMarket(cc *types.ContractContext, m *MarketData) error {
	n := cont.marketCount(cc)
	for i := uint32(0); i < n; i++ {
		old, err := cont.market(cc, i)
		if err != nil {
			return err
		}
		if old.AdapterID == m.AdapterID && old.PoolAddress == m.PoolAddress {
			cont.putMarket(cc, i, m)
			return nil
		}
	}
	cont.appendMarket(cc, m)
	return nil
}

// addMarkets appends the rows as given, duplicates included
func (cont *RouterContract) addMarkets(cc *types.ContractContext, list []*MarketData) error {
	if _, err := cont.requireAdmin(cc); err != nil {
		return err
	}
	rows := make([]*MarketData, 0, len(list))
	for _, m := range list {
		if m == nil || m.TokenA == m.TokenB {
			return errors.Wrap(ErrInvalidArgument, "market pair")
		}
		rows = append(rows, m.Canonical())
	}
	for _, m := range rows {
		cont.appendMarket(cc, m)
	}
	cc.EmitEvent([]string{"router", "markets"}, uint32(len(rows)))
	return cont.bump(cc)
}

// marketForPool returns the first row of the pool trading the pair
func (cont *RouterContract) marketForPool(cc *types.ContractContext, pool, tokenA, tokenB common.Address) (*MarketData, error) {
	list, err := cont.markets(cc)
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		if m.PoolAddress == pool && m.Matches(tokenA, tokenB) {
			return m, nil
		}
	}
	return nil, errors.Wrapf(ErrPoolNotFound, "pool %v", pool.String())
}

//////////////////////////////////////////////////
// Quotes
//////////////////////////////////////////////////

// getAllQuotes asks every market of the pair for a quote, failing markets are left out
func (cont *RouterContract) getAllQuotes(cc *types.ContractContext, am *amount.Amount, tokenIn, tokenOut common.Address) ([]*SwapQuote, error) {
	if !IsPlusAmount(am) {
		return nil, errors.WithStack(ErrInvalidAmount)
	}
	if tokenIn == tokenOut {
		return nil, errors.Wrap(ErrInvalidArgument, "same token")
	}
	list, err := cont.markets(cc)
	if err != nil {
		return nil, err
	}
	regs := cont.adapters(cc)
	quotes := []*SwapQuote{}
	for _, m := range list {
		if !m.Matches(tokenIn, tokenOut) {
			continue
		}
		var addr common.Address
		found := false
		for _, v := range regs {
			if v.AdapterID == m.AdapterID {
				addr, found = v.AdapterAddress, true
				break
			}
		}
		if !found {
			continue
		}
		out, err := adapter.NewClient(cc, addr).QuoteIn(m.PoolAddress, am, tokenIn, tokenOut)
		if err != nil {
			continue
		}
		quotes = append(quotes, &SwapQuote{
			AdapterID:   m.AdapterID,
			PoolAddress: m.PoolAddress,
			TokenIn:     tokenIn,
			TokenOut:    tokenOut,
			AmountIn:    am.Clone(),
			AmountOut:   out,
			PoolType:    m.PoolType,
			LpToken:     m.LpToken,
		})
	}
	return quotes, nil
}

// BestQuote returns the largest output, the earliest wins a tie
func BestQuote(quotes []*SwapQuote) *SwapQuote {
	var best *SwapQuote
	for _, q := range quotes {
		if best == nil || best.AmountOut.Less(q.AmountOut) {
			best = q
		}
	}
	return best
}

func (cont *RouterContract) getBestQuote(cc *types.ContractContext, am *amount.Amount, tokenIn, tokenOut common.Address) (*SwapQuote, error) {
	quotes, err := cont.getAllQuotes(cc, am, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	return BestQuote(quotes), nil
}

//////////////////////////////////////////////////
// Custody
//////////////////////////////////////////////////

func (cont *RouterContract) floatOf(cc *types.ContractContext, owner common.Address) *amount.Amount {
	return amount.NewAmountFromBytes(cc.ContractData(makeFloatKey(owner)))
}

func (cont *RouterContract) floatTotal(cc *types.ContractContext) *amount.Amount {
	return amount.NewAmountFromBytes(cc.ContractData([]byte{tagFloatTotal}))
}

func (cont *RouterContract) addFloat(cc *types.ContractContext, owner common.Address, am *amount.Amount) {
	if !am.IsPlus() {
		return
	}
	cc.SetContractData(makeFloatKey(owner), cont.floatOf(cc, owner).Add(am).Bytes())
	cc.SetContractData([]byte{tagFloatTotal}, cont.floatTotal(cc).Add(am).Bytes())
}

// releaseFloat pays the idle usdc held for owner back to it
func (cont *RouterContract) releaseFloat(cc *types.ContractContext, cfg *CoreConfig, owner common.Address) (*amount.Amount, error) {
	am := cont.floatOf(cc, owner)
	if !am.IsPlus() {
		return am, nil
	}
	cc.SetContractData(makeFloatKey(owner), nil)
	cc.SetContractData([]byte{tagFloatTotal}, cont.floatTotal(cc).Sub(am).Bytes())
	if err := TokenTransfer(cc, cfg.Usdc, cont.addr, owner, am); err != nil {
		return nil, ErrExternalFailure.Wrap(err)
	}
	return am, nil
}

// available is what the router holds of token beyond the idle usdc it owes
func (cont *RouterContract) available(cc *types.ContractContext, cfg *CoreConfig, token common.Address) (*amount.Amount, error) {
	bal, err := TokenBalance(cc, token, cont.addr)
	if err != nil {
		return nil, ErrExternalFailure.Wrap(err)
	}
	if token == cfg.Usdc {
		bal = bal.Sub(cont.floatTotal(cc))
	}
	return bal, nil
}

func (cont *RouterContract) checkHeld(cc *types.ContractContext, cfg *CoreConfig, token common.Address, need *amount.Amount) error {
	held, err := cont.available(cc, cfg, token)
	if err != nil {
		return err
	}
	if held.Less(need) {
		return errors.Wrapf(ErrInsufficientBalance, "%v holds %v of %v, needs %v", cont.addr.String(), held.String(), token.String(), need.String())
	}
	return nil
}

func (cont *RouterContract) checkDeadline(cc *types.ContractContext, deadline uint64) error {
	if cc.Timestamp() > deadline {
		return errors.Wrapf(ErrDeadlinePassed, "now %v deadline %v", cc.Timestamp(), deadline)
	}
	return nil
}

//////////////////////////////////////////////////
// Dispatch
//////////////////////////////////////////////////

// swap trades amount the caller already moved to the router on the adapter of pool
func (cont *RouterContract) swap(cc *types.ContractContext, am *amount.Amount, tokenIn, tokenOut, pool, sender common.Address, deadline uint64, minOut *amount.Amount) (*amount.Amount, error) {
	cfg, err := cont.config(cc)
	if err != nil {
		return nil, err
	}
	if err := cc.RequireAuth(sender); err != nil {
		return nil, err
	}
	if !IsPlusAmount(am) {
		return nil, errors.WithStack(ErrInvalidAmount)
	}
	if minOut == nil {
		minOut = amount.NewAmount(0)
	}
	m, err := cont.marketForPool(cc, pool, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	addr, err := cont.adapterAddress(cc, m.AdapterID)
	if err != nil {
		return nil, err
	}
	if err := cont.checkHeld(cc, cfg, tokenIn, am); err != nil {
		return nil, err
	}

	cc.AuthorizeAsCurrentContract(addr, tokenIn, "Transfer")
	out, err := adapter.NewClient(cc, addr).SwapExactIn(am, minOut, []common.Address{tokenIn, tokenOut}, sender, deadline)
	if err != nil {
		return nil, err
	}
	cc.EmitEvent([]string{"router", "swap"}, m.AdapterID, pool, am.Clone(), out.Clone(), sender)
	if err := cont.bump(cc); err != nil {
		return nil, err
	}
	return out, nil
}

type planLeg struct {
	token common.Address
	need  *amount.Amount
}

// planNeeds sums what the plans spend per token in first use order
func planNeeds(plans []*LpPlan) ([]*planLeg, error) {
	legs := []*planLeg{}
	add := func(token common.Address, am *amount.Amount) {
		for _, l := range legs {
			if l.token == token {
				l.need = l.need.Add(am)
				return
			}
		}
		legs = append(legs, &planLeg{token: token, need: am.Clone()})
	}
	for _, p := range plans {
		if p == nil || p.TokenA == p.TokenB {
			return nil, errors.Wrap(ErrInvalidArgument, "plan pair")
		}
		if !IsPlusAmount(p.AmountA) || !IsPlusAmount(p.AmountB) {
			return nil, errors.WithStack(ErrInvalidAmount)
		}
		add(p.TokenA, p.AmountA)
		add(p.TokenB, p.AmountB)
	}
	return legs, nil
}

// provideLiquidity dispatches every plan or none of them. The part of the
// usdc budget no plan spends is held for sender until its next redeem.
func (cont *RouterContract) provideLiquidity(cc *types.ContractContext, budget *amount.Amount, plans []*LpPlan, sender common.Address, deadline uint64) ([]*amount.Amount, error) {
	cfg, err := cont.config(cc)
	if err != nil {
		return nil, err
	}
	if err := cc.RequireAuth(sender); err != nil {
		return nil, err
	}
	if err := cont.checkDeadline(cc, deadline); err != nil {
		return nil, err
	}
	if budget == nil {
		budget = amount.NewAmount(0)
	}
	if budget.Sign() < 0 {
		return nil, errors.WithStack(ErrInvalidAmount)
	}

	addrs := make([]common.Address, len(plans))
	for i, p := range plans {
		if p == nil {
			return nil, errors.Wrap(ErrInvalidArgument, "nil plan")
		}
		if addrs[i], err = cont.adapterAddress(cc, p.AdapterID); err != nil {
			return nil, err
		}
	}
	legs, err := planNeeds(plans)
	if err != nil {
		return nil, err
	}

	usdcUsed := amount.NewAmount(0)
	for _, l := range legs {
		if l.token == cfg.Usdc {
			usdcUsed = l.need
		}
	}
	if budget.Less(usdcUsed) {
		return nil, errors.Wrapf(ErrInvalidArgument, "plans spend %v usdc of a %v budget", usdcUsed.String(), budget.String())
	}
	idle := budget.Sub(usdcUsed)
	if budget.IsPlus() {
		if cfg.Usdc == ZeroAddress {
			return nil, errors.Wrap(ErrInvalidArgument, "usdc not set")
		}
		if err := cont.checkHeld(cc, cfg, cfg.Usdc, budget); err != nil {
			return nil, err
		}
	}
	for _, l := range legs {
		if l.token == cfg.Usdc {
			continue
		}
		if err := cont.checkHeld(cc, cfg, l.token, l.need); err != nil {
			return nil, err
		}
	}
	cont.addFloat(cc, sender, idle)

	minted := make([]*amount.Amount, len(plans))
	zero := amount.NewAmount(0)
	for i, p := range plans {
		cc.AuthorizeAsCurrentContract(addrs[i], p.TokenA, "Transfer")
		cc.AuthorizeAsCurrentContract(addrs[i], p.TokenB, "Transfer")
		is, err := adapter.NewClient(cc, addrs[i]).AddLiquidity(p.TokenA, p.TokenB, p.AmountA, p.AmountB, zero, zero, sender, deadline)
		if err != nil {
			return nil, err
		}
		if err := cont.refund(cc, cfg, p.TokenA, p.AmountA.Sub(is[0]), sender); err != nil {
			return nil, err
		}
		if err := cont.refund(cc, cfg, p.TokenB, p.AmountB.Sub(is[1]), sender); err != nil {
			return nil, err
		}
		minted[i] = is[2]
	}
	cc.EmitEvent([]string{"router", "provide"}, sender, budget.Clone(), idle)
	if err := cont.bump(cc); err != nil {
		return nil, err
	}
	return minted, nil
}

// refund returns what a plan did not deposit, usdc joins the idle float
func (cont *RouterContract) refund(cc *types.ContractContext, cfg *CoreConfig, token common.Address, am *amount.Amount, to common.Address) error {
	if !am.IsPlus() {
		return nil
	}
	if token == cfg.Usdc {
		cont.addFloat(cc, to, am)
		return nil
	}
	if err := TokenTransfer(cc, token, cont.addr, to, am); err != nil {
		return ErrExternalFailure.Wrap(err)
	}
	return nil
}

// redeemLiquidity burns share the caller moved to the router and releases its idle usdc
func (cont *RouterContract) redeemLiquidity(cc *types.ContractContext, lp common.Address, lpAmount *amount.Amount, sender common.Address, deadline uint64) (*amount.Amount, *amount.Amount, error) {
	cfg, err := cont.config(cc)
	if err != nil {
		return nil, nil, err
	}
	if err := cc.RequireAuth(sender); err != nil {
		return nil, nil, err
	}
	if err := cont.checkDeadline(cc, deadline); err != nil {
		return nil, nil, err
	}
	if !IsPlusAmount(lpAmount) {
		return nil, nil, errors.WithStack(ErrInvalidAmount)
	}
	list, err := cont.markets(cc)
	if err != nil {
		return nil, nil, err
	}
	var addr common.Address
	found := false
	for _, m := range list {
		if m.LpToken != lp {
			continue
		}
		if addr, err = cont.adapterAddress(cc, m.AdapterID); err == nil {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, errors.Wrapf(ErrPoolNotFound, "lp token %v", lp.String())
	}
	if err := cont.checkHeld(cc, cfg, lp, lpAmount); err != nil {
		return nil, nil, err
	}

	zero := amount.NewAmount(0)
	cc.AuthorizeAsCurrentContract(addr, lp, "Transfer")
	outs, err := adapter.NewClient(cc, addr).RemoveLiquidity(lp, lpAmount, zero, zero, sender, deadline)
	if err != nil {
		return nil, nil, err
	}
	released, err := cont.releaseFloat(cc, cfg, sender)
	if err != nil {
		return nil, nil, err
	}
	cc.EmitEvent([]string{"router", "redeem"}, sender, lp, lpAmount.Clone(), released)
	if err := cont.bump(cc); err != nil {
		return nil, nil, err
	}
	return outs[0], outs[1], nil
}
