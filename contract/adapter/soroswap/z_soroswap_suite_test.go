package soroswap_test

import (
	"testing"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/contract/adapter/soroswap"
	external "github.com/hoops-finance/hoops/contract/external/soroswap"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/contract/util"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSoroswapAdapter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Soroswap Adapter Suite")
}

const now = uint64(1700000000)

var (
	tokenClassID   uint64
	factoryClassID uint64
	adapterClassID uint64

	admin = common.HexToAddress("0x3000000000000000000000000000000000000001")
	alice = common.HexToAddress("0x3000000000000000000000000000000000000002")
	bob   = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

var _ = BeforeSuite(func() {
	var err error
	tokenClassID, err = types.RegisterContractType(&token.TokenContract{})
	Expect(err).To(Succeed())
	factoryClassID, err = types.RegisterContractType(&external.FactoryContract{})
	Expect(err).To(Succeed())
	_, err = types.RegisterContractType(&external.PairContract{})
	Expect(err).To(Succeed())
	adapterClassID, err = types.RegisterContractType(&soroswap.SoroswapAdapter{})
	Expect(err).To(Succeed())
})

func coin(v int64) *amount.Amount {
	return amount.NewCoinAmount(uint64(v), 0)
}

var _ = Describe("Soroswap adapter", func() {
	var (
		ctx      *types.Context
		tokens   []common.Address
		factory  common.Address
		adp      common.Address
		deadline uint64
	)

	balances := func(user common.Address) []*amount.Amount {
		list := make([]*amount.Amount, len(tokens))
		for i, tk := range tokens {
			bal, err := util.BalanceOf(ctx, tk, user)
			Expect(err).To(Succeed())
			list[i] = bal
		}
		return list
	}

	BeforeEach(func() {
		ctx = types.NewContext(types.Ledger{Timestamp: now, Sequence: 100})
		deadline = now + 600

		var err error
		tokens, err = util.DeployTokens(ctx, tokenClassID, 3, admin)
		Expect(err).To(Succeed())
		for _, tk := range tokens {
			for _, user := range []common.Address{alice, bob} {
				_, err = util.Exec(ctx, admin, tk, "Mint", []interface{}{user, coin(10000)})
				Expect(err).To(Succeed())
			}
		}

		fc, err := ctx.DeployContract(admin, factoryClassID, nil)
		Expect(err).To(Succeed())
		factory = fc.Address()

		ac, err := ctx.DeployContract(admin, adapterClassID, nil)
		Expect(err).To(Succeed())
		adp = ac.Address()
	})

	Context("before Initialize", func() {
		It("rejects trading", func() {
			_, err := util.Exec(ctx, alice, adp, "SwapExactIn", []interface{}{coin(1), coin(0), []common.Address{tokens[0], tokens[1]}, alice, deadline})
			Expect(err).To(MatchError(adapter.ErrNotInitialized))

			is, err := util.View(ctx, adp, "Version")
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(uint32(0)))
		})

		It("rejects a foreign protocol id", func() {
			_, err := util.Exec(ctx, admin, adp, "Initialize", []interface{}{adapter.ProtocolAqua, factory})
			Expect(err).To(MatchError(adapter.ErrInvalidID))
		})
	})

	Context("initialized with two pools", func() {
		BeforeEach(func() {
			_, err := util.Exec(ctx, admin, adp, "Initialize", []interface{}{adapter.ProtocolSoroswap, factory})
			Expect(err).To(Succeed())

			_, err = util.Exec(ctx, alice, adp, "AddLiquidity", []interface{}{tokens[0], tokens[1], coin(1000), coin(1000), coin(0), coin(0), alice, deadline})
			Expect(err).To(Succeed())
			_, err = util.Exec(ctx, alice, adp, "AddLiquidity", []interface{}{tokens[1], tokens[2], coin(1000), coin(2000), coin(0), coin(0), alice, deadline})
			Expect(err).To(Succeed())
		})

		It("initializes only once and leaves state untouched", func() {
			before := ctx.StateHash()
			_, err := util.Exec(ctx, admin, adp, "Initialize", []interface{}{adapter.ProtocolSoroswap, factory})
			Expect(err).To(MatchError(adapter.ErrAlreadyInitialized))
			Expect(ctx.StateHash()).To(Equal(before))

			is, err := util.View(ctx, adp, "Version")
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(uint32(1)))
		})

		It("records the pair it created", func() {
			pair, err := util.ViewAddress(ctx, factory, "GetPair", tokens[1], tokens[0])
			Expect(err).To(Succeed())
			Expect(pair).NotTo(Equal(util.ZeroAddress))

			is, err := util.View(ctx, adp, "GetPoolForTokens", []common.Address{tokens[0], tokens[1]})
			Expect(err).To(Succeed())
			info := is[0].(*adapter.PoolInfo)
			Expect(info.Pool).To(Equal(pair))
			Expect(info.LpToken).To(Equal(pair))

			lp, err := util.BalanceOf(ctx, pair, alice)
			Expect(err).To(Succeed())
			Expect(lp).To(Equal(coin(1000).Sub(amount.NewAmount(1000))))
		})

		It("pays at least the quote when min_out is the quote", func() {
			pair, err := util.ViewAddress(ctx, factory, "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())
			quote, err := util.ViewAmount(ctx, adp, "QuoteIn", pair, coin(10), tokens[0], tokens[1])
			Expect(err).To(Succeed())
			Expect(quote.IsPlus()).To(BeTrue())
			util.GPrintlnT("quote", quote.String())

			before := balances(bob)
			is, err := util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), quote, []common.Address{tokens[0], tokens[1]}, bob, deadline})
			Expect(err).To(Succeed())
			out := is[0].(*amount.Amount)
			Expect(out.Less(quote)).To(BeFalse())

			after := balances(bob)
			Expect(after[0]).To(Equal(before[0].Sub(coin(10))))
			Expect(after[1]).To(Equal(before[1].Add(out)))
		})

		It("reverts on slippage without moving funds", func() {
			pair, err := util.ViewAddress(ctx, factory, "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())
			quote, err := util.ViewAmount(ctx, adp, "QuoteIn", pair, coin(10), tokens[0], tokens[1])
			Expect(err).To(Succeed())

			before := balances(bob)
			_, err = util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), quote.Add(amount.NewAmount(1)), []common.Address{tokens[0], tokens[1]}, bob, deadline})
			Expect(err).To(MatchError(adapter.ErrMinAmountNotMet))
			Expect(balances(bob)).To(Equal(before))
		})

		It("reverts past the deadline without moving funds", func() {
			before := balances(bob)
			ctx.AdvanceLedger(200)
			_, err := util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), coin(0), []common.Address{tokens[0], tokens[1]}, bob, deadline})
			Expect(err).To(MatchError(adapter.ErrDeadlinePassed))
			Expect(balances(bob)).To(Equal(before))
		})

		It("routes across two pairs", func() {
			before := balances(bob)
			is, err := util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), coin(0), []common.Address{tokens[0], tokens[1], tokens[2]}, bob, deadline})
			Expect(err).To(Succeed())
			out := is[0].(*amount.Amount)
			Expect(out.IsPlus()).To(BeTrue())

			after := balances(bob)
			Expect(after[0]).To(Equal(before[0].Sub(coin(10))))
			Expect(after[1]).To(Equal(before[1]))
			Expect(after[2]).To(Equal(before[2].Add(out)))
		})

		It("pays the other token in both directions of a pair", func() {
			pair, err := util.ViewAddress(ctx, factory, "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())

			for _, dir := range [][2]int{{0, 1}, {1, 0}} {
				in, out := dir[0], dir[1]
				quote, err := util.ViewAmount(ctx, adp, "QuoteIn", pair, coin(10), tokens[in], tokens[out])
				Expect(err).To(Succeed())

				before := balances(bob)
				is, err := util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), quote, []common.Address{tokens[in], tokens[out]}, bob, deadline})
				Expect(err).To(Succeed())
				got := is[0].(*amount.Amount)
				Expect(got.Less(quote)).To(BeFalse())

				after := balances(bob)
				Expect(after[in]).To(Equal(before[in].Sub(coin(10))))
				Expect(after[out]).To(Equal(before[out].Add(got)))
			}
		})

		It("routes across two pairs backwards", func() {
			before := balances(bob)
			is, err := util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), coin(0), []common.Address{tokens[2], tokens[1], tokens[0]}, bob, deadline})
			Expect(err).To(Succeed())
			out := is[0].(*amount.Amount)
			Expect(out.IsPlus()).To(BeTrue())

			after := balances(bob)
			Expect(after[2]).To(Equal(before[2].Sub(coin(10))))
			Expect(after[1]).To(Equal(before[1]))
			Expect(after[0]).To(Equal(before[0].Add(out)))
		})

		It("buys an exact output in the reverse direction", func() {
			pair, err := util.ViewAddress(ctx, factory, "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())
			need, err := util.ViewAmount(ctx, adp, "QuoteOut", pair, coin(5), tokens[1], tokens[0])
			Expect(err).To(Succeed())

			before := balances(bob)
			is, err := util.Exec(ctx, bob, adp, "SwapExactOut", []interface{}{coin(5), need, []common.Address{tokens[1], tokens[0]}, bob, deadline})
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(need))

			after := balances(bob)
			Expect(after[1]).To(Equal(before[1].Sub(need)))
			Expect(after[0]).To(Equal(before[0].Add(coin(5))))
		})

		It("buys an exact output within max_in", func() {
			pair, err := util.ViewAddress(ctx, factory, "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())
			need, err := util.ViewAmount(ctx, adp, "QuoteOut", pair, coin(5), tokens[0], tokens[1])
			Expect(err).To(Succeed())

			_, err = util.Exec(ctx, bob, adp, "SwapExactOut", []interface{}{coin(5), need.Sub(amount.NewAmount(1)), []common.Address{tokens[0], tokens[1]}, bob, deadline})
			Expect(err).To(MatchError(adapter.ErrMinAmountNotMet))

			before := balances(bob)
			is, err := util.Exec(ctx, bob, adp, "SwapExactOut", []interface{}{coin(5), need, []common.Address{tokens[0], tokens[1]}, bob, deadline})
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(need))

			after := balances(bob)
			Expect(after[0]).To(Equal(before[0].Sub(need)))
			Expect(after[1]).To(Equal(before[1].Add(coin(5))))
		})

		It("fails an oversized exact out and a foreign token", func() {
			pair, err := util.ViewAddress(ctx, factory, "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())
			_, err = util.ViewAmount(ctx, adp, "QuoteOut", pair, coin(1000), tokens[0], tokens[1])
			Expect(err).To(MatchError(adapter.ErrInsufficientLiquidity))

			_, err = util.ViewAmount(ctx, adp, "QuoteIn", pair, coin(1), tokens[0], tokens[2])
			Expect(err).To(MatchError(adapter.ErrUnsupportedPair))
		})

		It("redeems liquidity for both tokens", func() {
			pair, err := util.ViewAddress(ctx, factory, "GetPair", tokens[0], tokens[1])
			Expect(err).To(Succeed())
			lp, err := util.BalanceOf(ctx, pair, alice)
			Expect(err).To(Succeed())

			_, err = util.Exec(ctx, alice, adp, "RemoveLiquidity", []interface{}{pair, lp.Add(amount.NewAmount(1)), coin(0), coin(0), alice, deadline})
			Expect(err).To(MatchError(adapter.ErrInsufficientLpBalance))

			before := balances(alice)
			is, err := util.Exec(ctx, alice, adp, "RemoveLiquidity", []interface{}{pair, lp, coin(0), coin(0), alice, deadline})
			Expect(err).To(Succeed())
			a, b := is[0].(*amount.Amount), is[1].(*amount.Amount)
			Expect(a.Add(b)).To(Equal(coin(2000).Sub(amount.NewAmount(2000))))

			after := balances(alice)
			Expect(after[0].Add(after[1])).To(Equal(before[0].Add(before[1]).Add(a).Add(b)))
			lp, err = util.BalanceOf(ctx, pair, alice)
			Expect(err).To(Succeed())
			Expect(lp.IsZero()).To(BeTrue())
		})

		It("rejects an lp token the factory did not issue", func() {
			_, err := util.Exec(ctx, alice, adp, "RemoveLiquidity", []interface{}{tokens[0], coin(1), coin(0), coin(0), alice, deadline})
			Expect(err).To(MatchError(adapter.ErrPoolNotFound))
		})
	})
})
