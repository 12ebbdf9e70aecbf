package router_test

import (
	"math/big"
	"testing"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bmath"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/contract/adapter/soroswap"
	"github.com/hoops-finance/hoops/contract/external/aqua"
	"github.com/hoops-finance/hoops/contract/external/comet"
	"github.com/hoops-finance/hoops/contract/external/phoenix"
	external "github.com/hoops-finance/hoops/contract/external/soroswap"
	"github.com/hoops-finance/hoops/contract/router"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/contract/util"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRouter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Router Suite")
}

const now = uint64(1700000000)

var (
	tokenClassID    uint64
	routerClassID   uint64
	fixedClassID    uint64
	sfactoryClassID uint64
	sadapterClassID uint64
	aquaClassID     uint64
	phoenixClassID  uint64
	cometClassID    uint64

	admin = common.HexToAddress("0x7000000000000000000000000000000000000001")
	alice = common.HexToAddress("0x7000000000000000000000000000000000000002")
	bob   = common.HexToAddress("0x7000000000000000000000000000000000000003")
)

var _ = BeforeSuite(func() {
	var err error
	tokenClassID, err = types.RegisterContractType(&token.TokenContract{})
	Expect(err).To(Succeed())
	routerClassID, err = types.RegisterContractType(&router.RouterContract{})
	Expect(err).To(Succeed())
	fixedClassID, err = types.RegisterContractType(&fixedAdapter{})
	Expect(err).To(Succeed())

	sfactoryClassID, err = types.RegisterContractType(&external.FactoryContract{})
	Expect(err).To(Succeed())
	_, err = types.RegisterContractType(&external.PairContract{})
	Expect(err).To(Succeed())
	sadapterClassID, err = types.RegisterContractType(&soroswap.SoroswapAdapter{})
	Expect(err).To(Succeed())

	aquaClassID, err = types.RegisterContractType(&aqua.RouterContract{})
	Expect(err).To(Succeed())
	_, err = types.RegisterContractType(&aqua.PoolContract{})
	Expect(err).To(Succeed())
	phoenixClassID, err = types.RegisterContractType(&phoenix.FactoryContract{})
	Expect(err).To(Succeed())
	_, err = types.RegisterContractType(&phoenix.PoolContract{})
	Expect(err).To(Succeed())
	cometClassID, err = types.RegisterContractType(&comet.FactoryContract{})
	Expect(err).To(Succeed())
	_, err = types.RegisterContractType(&comet.PoolContract{})
	Expect(err).To(Succeed())
})

func coin(v int64) *amount.Amount {
	return amount.NewCoinAmount(uint64(v), 0)
}

func bone(num, den int64) *amount.Amount {
	v := new(big.Int).Mul(bmath.BONE, big.NewInt(num))
	return &amount.Amount{Int: v.Quo(v, big.NewInt(den))}
}

var _ = Describe("Router", func() {
	var (
		ctx      *types.Context
		tokens   []common.Address
		rt       common.Address
		deadline uint64
	)

	exec := func(user common.Address, method string, args ...interface{}) ([]interface{}, error) {
		return util.Exec(ctx, user, rt, method, args)
	}

	markets := func() []*router.MarketData {
		is, err := util.View(ctx, rt, "GetMarkets")
		Expect(err).To(Succeed())
		return is[0].([]*router.MarketData)
	}

	balance := func(tk common.Address, user common.Address) *amount.Amount {
		bal, err := util.BalanceOf(ctx, tk, user)
		Expect(err).To(Succeed())
		return bal
	}

	transfer := func(user common.Address, tk common.Address, am *amount.Amount) {
		_, err := util.Exec(ctx, user, tk, "Transfer", []interface{}{user, rt, am})
		Expect(err).To(Succeed())
	}

	deployFixed := func(quote *amount.Amount) common.Address {
		var args []byte
		if quote != nil {
			args = quote.Bytes()
		}
		v, err := ctx.DeployContract(admin, fixedClassID, args)
		Expect(err).To(Succeed())
		return v.Address()
	}

	BeforeEach(func() {
		ctx = types.NewContext(types.Ledger{Timestamp: now, Sequence: 100})
		deadline = now + 600

		var err error
		tokens, err = util.DeployTokens(ctx, tokenClassID, 3, admin)
		Expect(err).To(Succeed())
		for _, tk := range tokens {
			for _, user := range []common.Address{admin, alice, bob} {
				_, err = util.Exec(ctx, admin, tk, "Mint", []interface{}{user, coin(10000)})
				Expect(err).To(Succeed())
			}
		}

		rc, err := ctx.DeployContract(admin, routerClassID, nil)
		Expect(err).To(Succeed())
		rt = rc.Address()
		_, err = exec(admin, "Initialize", admin)
		Expect(err).To(Succeed())
	})

	It("initializes only once", func() {
		before := ctx.StateHash()
		_, err := exec(admin, "Initialize", admin)
		Expect(err).To(MatchError(router.ErrAlreadyInitialized))
		Expect(ctx.StateHash()).To(Equal(before))

		is, err := util.View(ctx, rt, "GetVersion")
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(uint32(1)))
	})

	Describe("adapter registry", func() {
		It("replaces by id and fails after removal", func() {
			a, b := deployFixed(coin(1)), deployFixed(coin(2))
			_, err := exec(admin, "AddAdapter", uint32(7), a)
			Expect(err).To(Succeed())
			_, err = exec(admin, "AddAdapter", uint32(7), b)
			Expect(err).To(Succeed())

			addr, err := util.ViewAddress(ctx, rt, "GetAdapter", uint32(7))
			Expect(err).To(Succeed())
			Expect(addr).To(Equal(b))
			is, err := util.View(ctx, rt, "GetAdapters")
			Expect(err).To(Succeed())
			Expect(is[0]).To(HaveLen(1))

			_, err = exec(admin, "RemoveAdapter", uint32(7))
			Expect(err).To(Succeed())
			_, err = util.ViewAddress(ctx, rt, "GetAdapter", uint32(7))
			Expect(err).To(MatchError(router.ErrAdapterMissing))
			_, err = exec(admin, "RemoveAdapter", uint32(7))
			Expect(err).To(MatchError(router.ErrAdapterMissing))
		})

		It("is admin only", func() {
			_, err := exec(bob, "AddAdapter", uint32(7), deployFixed(coin(1)))
			Expect(err).To(MatchError(types.ErrNotAuthorized))
			_, err = exec(bob, "AddMarkets", []*router.MarketData{})
			Expect(err).To(MatchError(types.ErrNotAuthorized))
			_, err = exec(bob, "SetUsdc", tokens[2])
			Expect(err).To(MatchError(types.ErrNotAuthorized))
		})
	})

	Describe("markets", func() {
		It("stores pairs sorted and keeps duplicates", func() {
			lo, hi := tokens[0], tokens[1]
			if common.AddressLess(hi, lo) {
				lo, hi = hi, lo
			}
			row := &router.MarketData{
				AdapterID:   3,
				PoolAddress: tokens[2],
				LpToken:     tokens[2],
				TokenA:      hi,
				TokenB:      lo,
				ReserveA:    coin(10),
				ReserveB:    coin(20),
			}
			_, err := exec(admin, "AddMarkets", []*router.MarketData{row, row})
			Expect(err).To(Succeed())

			list := markets()
			Expect(list).To(HaveLen(2))
			Expect(list[0].TokenA).To(Equal(lo))
			Expect(list[0].TokenB).To(Equal(hi))
			Expect(list[0].ReserveA).To(Equal(coin(20)))
			Expect(list[0].ReserveB).To(Equal(coin(10)))
		})

		It("rejects a pair of one token", func() {
			_, err := exec(admin, "AddMarkets", []*router.MarketData{{TokenA: tokens[0], TokenB: tokens[0]}})
			Expect(err).To(MatchError(router.ErrInvalidArgument))
		})
	})

	Describe("quotes", func() {
		var pools []common.Address

		BeforeEach(func() {
			pools = nil
			rows := []*router.MarketData{}
			for i, q := range []*amount.Amount{coin(100), coin(150), coin(120), nil, coin(150)} {
				id := uint32(10 + i)
				_, err := exec(admin, "AddAdapter", id, deployFixed(q))
				Expect(err).To(Succeed())
				pool := deployFixed(nil)
				pools = append(pools, pool)
				rows = append(rows, &router.MarketData{AdapterID: id, PoolAddress: pool, TokenA: tokens[0], TokenB: tokens[1]})
			}
			rows = append(rows, &router.MarketData{AdapterID: 99, PoolAddress: tokens[2], TokenA: tokens[0], TokenB: tokens[1]})
			_, err := exec(admin, "AddMarkets", rows)
			Expect(err).To(Succeed())
		})

		It("collects the quotes that succeed in registration order", func() {
			is, err := util.View(ctx, rt, "GetAllQuotes", coin(1), tokens[1], tokens[0])
			Expect(err).To(Succeed())
			quotes := is[0].([]*router.SwapQuote)
			Expect(quotes).To(HaveLen(4))
			outs := []*amount.Amount{}
			for _, q := range quotes {
				outs = append(outs, q.AmountOut)
				Expect(q.TokenIn).To(Equal(tokens[1]))
				Expect(q.TokenOut).To(Equal(tokens[0]))
			}
			Expect(outs).To(Equal([]*amount.Amount{coin(100), coin(150), coin(120), coin(150)}))
		})

		It("picks the largest output and the first of a tie", func() {
			is, err := util.View(ctx, rt, "GetBestQuote", coin(1), tokens[0], tokens[1])
			Expect(err).To(Succeed())
			best := is[0].(*router.SwapQuote)
			Expect(best.AmountOut).To(Equal(coin(150)))
			Expect(best.AdapterID).To(Equal(uint32(11)))
			Expect(best.PoolAddress).To(Equal(pools[1]))
		})

		It("returns nothing for an unknown pair", func() {
			is, err := util.View(ctx, rt, "GetBestQuote", coin(1), tokens[0], tokens[2])
			Expect(err).To(Succeed())
			Expect(is[0]).To(BeNil())
		})

		It("selects the best of any list", func() {
			Expect(router.BestQuote(nil)).To(BeNil())
			list := []*router.SwapQuote{{AdapterID: 1, AmountOut: coin(100)}, {AdapterID: 2, AmountOut: coin(150)}, {AdapterID: 3, AmountOut: coin(120)}}
			Expect(router.BestQuote(list).AdapterID).To(Equal(uint32(2)))
		})
	})

	Describe("discovery", func() {
		It("reads soroswap pairs and refreshes rows in place", func() {
			fc, err := ctx.DeployContract(admin, sfactoryClassID, nil)
			Expect(err).To(Succeed())
			ac, err := ctx.DeployContract(admin, sadapterClassID, nil)
			Expect(err).To(Succeed())
			_, err = util.Exec(ctx, admin, ac.Address(), "Initialize", []interface{}{adapter.ProtocolSoroswap, fc.Address()})
			Expect(err).To(Succeed())
			_, err = util.Exec(ctx, admin, ac.Address(), "AddLiquidity", []interface{}{tokens[0], tokens[1], coin(1000), coin(500), coin(0), coin(0), admin, deadline})
			Expect(err).To(Succeed())
			pair, err := util.ViewAddress(ctx, fc.Address(), "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())

			pairs := []*router.TokenPair{{TokenA: tokens[0], TokenB: tokens[1]}, {TokenA: tokens[0], TokenB: tokens[2]}}
			is, err := exec(admin, "DiscoverSoroswapPools", fc.Address(), pairs)
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(uint32(1)))
			is, err = exec(admin, "DiscoverSoroswapPools", fc.Address(), pairs)
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(uint32(1)))

			list := markets()
			Expect(list).To(HaveLen(1))
			m := list[0]
			Expect(m.AdapterID).To(Equal(adapter.ProtocolSoroswap))
			Expect(m.PoolAddress).To(Equal(pair))
			Expect(m.LpToken).To(Equal(pair))
			Expect(m.PoolType).To(Equal(router.CurveConstantProduct))
			Expect(common.AddressLess(m.TokenA, m.TokenB)).To(BeTrue())
			if m.TokenA == tokens[0] {
				Expect([]*amount.Amount{m.ReserveA, m.ReserveB}).To(Equal([]*amount.Amount{coin(1000), coin(500)}))
			} else {
				Expect([]*amount.Amount{m.ReserveA, m.ReserveB}).To(Equal([]*amount.Amount{coin(500), coin(1000)}))
			}
		})

		It("reads aqua pools with their share tokens", func() {
			ac, err := ctx.DeployContract(admin, aquaClassID, nil)
			Expect(err).To(Succeed())
			is, err := util.Exec(ctx, admin, ac.Address(), "InitStableswapPool", []interface{}{admin, tokens[:2], uint64(100), uint32(4)})
			Expect(err).To(Succeed())
			pool := is[0].(common.Address)
			_, err = util.Exec(ctx, admin, pool, "Deposit", []interface{}{admin, []*amount.Amount{coin(1000), coin(1000)}, coin(0)})
			Expect(err).To(Succeed())
			share, err := util.ViewAddress(ctx, pool, "ShareID")
			Expect(err).To(Succeed())

			_, err = exec(admin, "DiscoverAquaPools", ac.Address(), []*router.TokenPair{{TokenA: tokens[1], TokenB: tokens[0]}})
			Expect(err).To(Succeed())
			list := markets()
			Expect(list).To(HaveLen(1))
			Expect(list[0].AdapterID).To(Equal(adapter.ProtocolAqua))
			Expect(list[0].PoolAddress).To(Equal(pool))
			Expect(list[0].LpToken).To(Equal(share))
			Expect(list[0].PoolType).To(Equal(router.CurveStable))
			Expect(list[0].ReserveA).To(Equal(coin(1000)))
		})

		It("reads phoenix pools and skips missing pairs", func() {
			fc, err := ctx.DeployContract(admin, phoenixClassID, nil)
			Expect(err).To(Succeed())
			is, err := util.Exec(ctx, admin, fc.Address(), "CreateLiquidityPool", []interface{}{admin, tokens[0], tokens[1], uint32(30), uint32(100), uint32(1000)})
			Expect(err).To(Succeed())
			pool := is[0].(common.Address)
			_, err = util.Exec(ctx, admin, pool, "ProvideLiquidity", []interface{}{admin, coin(1000), coin(0), coin(1000), coin(0), uint32(0), uint64(0)})
			Expect(err).To(Succeed())
			share, err := util.ViewAddress(ctx, pool, "QueryShareToken")
			Expect(err).To(Succeed())

			is, err = exec(admin, "DiscoverPools", uint32(router.PoolPhoenix), fc.Address(), []*router.TokenPair{{TokenA: tokens[0], TokenB: tokens[1]}, {TokenA: tokens[1], TokenB: tokens[2]}})
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(uint32(1)))
			list := markets()
			Expect(list).To(HaveLen(1))
			Expect(list[0].AdapterID).To(Equal(adapter.ProtocolPhoenix))
			Expect(list[0].LpToken).To(Equal(share))
		})

		It("reads comet pools as weighted markets", func() {
			fc, err := ctx.DeployContract(admin, cometClassID, nil)
			Expect(err).To(Succeed())
			is, err := util.Exec(ctx, admin, fc.Address(), "NewPool", []interface{}{admin, tokens[:2], []*amount.Amount{bone(5, 1), bone(5, 1)}, bone(3, 1000)})
			Expect(err).To(Succeed())
			pool := is[0].(common.Address)
			_, err = util.Exec(ctx, admin, pool, "Finalize", []interface{}{[]*amount.Amount{coin(1000), coin(1000)}})
			Expect(err).To(Succeed())

			_, err = exec(admin, "DiscoverCometPools", fc.Address(), []*router.TokenPair{{TokenA: tokens[0], TokenB: tokens[1]}})
			Expect(err).To(Succeed())
			list := markets()
			Expect(list).To(HaveLen(1))
			Expect(list[0].AdapterID).To(Equal(adapter.ProtocolComet))
			Expect(list[0].PoolAddress).To(Equal(pool))
			Expect(list[0].LpToken).To(Equal(pool))
			Expect(list[0].PoolType).To(Equal(router.CurveWeighted))
			Expect(list[0].Ledger).To(Equal(uint32(100)))
		})

		It("is admin only and checks the factory", func() {
			_, err := exec(bob, "DiscoverSoroswapPools", tokens[0], []*router.TokenPair{})
			Expect(err).To(MatchError(types.ErrNotAuthorized))
			_, err = exec(admin, "DiscoverSoroswapPools", bob, []*router.TokenPair{})
			Expect(err).To(MatchError(router.ErrInvalidArgument))
		})
	})

	Describe("dispatch through soroswap", func() {
		var (
			usdc common.Address
			pair common.Address
		)

		BeforeEach(func() {
			usdc = tokens[2]
			fc, err := ctx.DeployContract(admin, sfactoryClassID, nil)
			Expect(err).To(Succeed())
			ac, err := ctx.DeployContract(admin, sadapterClassID, nil)
			Expect(err).To(Succeed())
			_, err = util.Exec(ctx, admin, ac.Address(), "Initialize", []interface{}{adapter.ProtocolSoroswap, fc.Address()})
			Expect(err).To(Succeed())
			_, err = util.Exec(ctx, admin, ac.Address(), "AddLiquidity", []interface{}{tokens[0], tokens[1], coin(1000), coin(1000), coin(0), coin(0), admin, deadline})
			Expect(err).To(Succeed())
			pair, err = util.ViewAddress(ctx, fc.Address(), "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())

			_, err = exec(admin, "AddAdapter", adapter.ProtocolSoroswap, ac.Address())
			Expect(err).To(Succeed())
			_, err = exec(admin, "DiscoverSoroswapPools", fc.Address(), []*router.TokenPair{{TokenA: tokens[0], TokenB: tokens[1]}})
			Expect(err).To(Succeed())
			_, err = exec(admin, "SetUsdc", usdc)
			Expect(err).To(Succeed())
		})

		It("swaps what the caller moved to the router", func() {
			is, err := util.View(ctx, rt, "GetBestQuote", coin(10), tokens[0], tokens[1])
			Expect(err).To(Succeed())
			quote := is[0].(*router.SwapQuote)
			Expect(quote.PoolAddress).To(Equal(pair))

			before := balance(tokens[1], bob)
			transfer(bob, tokens[0], coin(10))
			_, err = exec(bob, "Swap", coin(10), tokens[0], tokens[1], pair, bob, deadline, quote.AmountOut.Add(amount.NewAmount(1)))
			Expect(err).To(MatchError(adapter.ErrMinAmountNotMet))

			is, err = exec(bob, "Swap", coin(10), tokens[0], tokens[1], pair, bob, deadline, quote.AmountOut)
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(quote.AmountOut))
			Expect(balance(tokens[1], bob)).To(Equal(before.Add(quote.AmountOut)))
			Expect(balance(tokens[0], rt).IsZero()).To(BeTrue())

			_, err = exec(bob, "Swap", coin(10), tokens[0], tokens[1], pair, bob, deadline, nil)
			Expect(err).To(MatchError(router.ErrInsufficientBalance))
		})

		It("swaps the second token of the pair for the first", func() {
			is, err := util.View(ctx, rt, "GetBestQuote", coin(10), tokens[1], tokens[0])
			Expect(err).To(Succeed())
			quote := is[0].(*router.SwapQuote)

			before0, before1 := balance(tokens[0], bob), balance(tokens[1], bob)
			transfer(bob, tokens[1], coin(10))
			is, err = exec(bob, "Swap", coin(10), tokens[1], tokens[0], pair, bob, deadline, quote.AmountOut)
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(quote.AmountOut))
			Expect(balance(tokens[0], bob)).To(Equal(before0.Add(quote.AmountOut)))
			Expect(balance(tokens[1], bob)).To(Equal(before1.Sub(coin(10))))
			Expect(balance(tokens[1], rt).IsZero()).To(BeTrue())
		})

		It("resolves the pool before dispatching", func() {
			transfer(bob, tokens[0], coin(10))
			_, err := exec(bob, "Swap", coin(10), tokens[0], tokens[1], tokens[2], bob, deadline, nil)
			Expect(err).To(MatchError(router.ErrPoolNotFound))
			_, err = exec(bob, "Swap", coin(10), tokens[0], tokens[2], pair, bob, deadline, nil)
			Expect(err).To(MatchError(router.ErrPoolNotFound))

			_, err = exec(admin, "RemoveAdapter", adapter.ProtocolSoroswap)
			Expect(err).To(Succeed())
			_, err = exec(bob, "Swap", coin(10), tokens[0], tokens[1], pair, bob, deadline, nil)
			Expect(err).To(MatchError(router.ErrAdapterMissing))
		})

		It("provides by plan, refunds the rest and holds the idle usdc", func() {
			before0, before1, beforeUsdc := balance(tokens[0], bob), balance(tokens[1], bob), balance(usdc, bob)
			transfer(bob, tokens[0], coin(100))
			transfer(bob, tokens[1], coin(200))
			transfer(bob, usdc, coin(50))

			plans := []*router.LpPlan{{AdapterID: adapter.ProtocolSoroswap, TokenA: tokens[0], TokenB: tokens[1], AmountA: coin(100), AmountB: coin(200)}}
			is, err := exec(bob, "ProvideLiquidity", coin(50), plans, bob, deadline)
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal([]*amount.Amount{coin(100)}))

			Expect(balance(pair, bob)).To(Equal(coin(100)))
			Expect(balance(tokens[0], bob)).To(Equal(before0.Sub(coin(100))))
			Expect(balance(tokens[1], bob)).To(Equal(before1.Sub(coin(100))))
			Expect(balance(tokens[0], rt).IsZero()).To(BeTrue())
			Expect(balance(tokens[1], rt).IsZero()).To(BeTrue())
			Expect(util.ViewAmount(ctx, rt, "IdleFloat", bob)).To(Equal(coin(50)))

			_, err = exec(alice, "ProvideLiquidity", coin(50), []*router.LpPlan{}, alice, deadline)
			Expect(err).To(MatchError(router.ErrInsufficientBalance))

			transfer(bob, pair, coin(100))
			is, err = exec(bob, "RedeemLiquidity", pair, coin(100), bob, deadline)
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(coin(100)))
			Expect(is[1]).To(Equal(coin(100)))

			Expect(balance(tokens[0], bob)).To(Equal(before0))
			Expect(balance(tokens[1], bob)).To(Equal(before1))
			Expect(balance(usdc, bob)).To(Equal(beforeUsdc))
			idle, err := util.ViewAmount(ctx, rt, "IdleFloat", bob)
			Expect(err).To(Succeed())
			Expect(idle.IsZero()).To(BeTrue())
			Expect(balance(usdc, rt).IsZero()).To(BeTrue())
		})

		It("fails the whole plan list on one unknown adapter", func() {
			transfer(bob, tokens[0], coin(200))
			transfer(bob, tokens[1], coin(200))
			before := ctx.StateHash()
			plans := []*router.LpPlan{
				{AdapterID: adapter.ProtocolSoroswap, TokenA: tokens[0], TokenB: tokens[1], AmountA: coin(100), AmountB: coin(100)},
				{AdapterID: 99, TokenA: tokens[0], TokenB: tokens[1], AmountA: coin(100), AmountB: coin(100)},
			}
			_, err := exec(bob, "ProvideLiquidity", coin(0), plans, bob, deadline)
			Expect(err).To(MatchError(router.ErrAdapterMissing))
			Expect(ctx.StateHash()).To(Equal(before))
			Expect(balance(pair, bob).IsZero()).To(BeTrue())
		})

		It("checks the budget and the deadline first", func() {
			transfer(bob, tokens[0], coin(10))
			transfer(bob, usdc, coin(10))
			plans := []*router.LpPlan{{AdapterID: adapter.ProtocolSoroswap, TokenA: tokens[0], TokenB: usdc, AmountA: coin(10), AmountB: coin(10)}}
			_, err := exec(bob, "ProvideLiquidity", coin(5), plans, bob, deadline)
			Expect(err).To(MatchError(router.ErrInvalidArgument))

			ctx.AdvanceLedger(200)
			_, err = exec(bob, "ProvideLiquidity", coin(10), plans, bob, deadline)
			Expect(err).To(MatchError(router.ErrDeadlinePassed))
			_, err = exec(bob, "RedeemLiquidity", pair, coin(1), bob, deadline)
			Expect(err).To(MatchError(router.ErrDeadlinePassed))
		})

		It("redeems only known share tokens", func() {
			_, err := exec(bob, "RedeemLiquidity", tokens[0], coin(1), bob, deadline)
			Expect(err).To(MatchError(router.ErrPoolNotFound))
		})
	})
})
