package aqua_test

import (
	"testing"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/contract/adapter/aqua"
	external "github.com/hoops-finance/hoops/contract/external/aqua"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/contract/util"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAquaAdapter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Aqua Adapter Suite")
}

const now = uint64(1700000000)

var (
	tokenClassID   uint64
	routerClassID  uint64
	adapterClassID uint64

	admin = common.HexToAddress("0x5000000000000000000000000000000000000001")
	alice = common.HexToAddress("0x5000000000000000000000000000000000000002")
	bob   = common.HexToAddress("0x5000000000000000000000000000000000000003")
)

var _ = BeforeSuite(func() {
	var err error
	tokenClassID, err = types.RegisterContractType(&token.TokenContract{})
	Expect(err).To(Succeed())
	routerClassID, err = types.RegisterContractType(&external.RouterContract{})
	Expect(err).To(Succeed())
	_, err = types.RegisterContractType(&external.PoolContract{})
	Expect(err).To(Succeed())
	adapterClassID, err = types.RegisterContractType(&aqua.AquaAdapter{})
	Expect(err).To(Succeed())
})

func coin(v int64) *amount.Amount {
	return amount.NewCoinAmount(uint64(v), 0)
}

var _ = Describe("Aqua adapter", func() {
	var (
		ctx         *types.Context
		tokens      []common.Address
		router      common.Address
		constPool   common.Address
		stablePool  common.Address
		constShare  common.Address
		stableShare common.Address
		adp         common.Address
		deadline    uint64
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

	seed := func(pool common.Address) {
		_, err := util.Exec(ctx, admin, pool, "Deposit", []interface{}{admin, []*amount.Amount{coin(1000), coin(1000)}, coin(0)})
		Expect(err).To(Succeed())
	}

	BeforeEach(func() {
		ctx = types.NewContext(types.Ledger{Timestamp: now, Sequence: 100})
		deadline = now + 600

		var err error
		tokens, err = util.DeployTokens(ctx, tokenClassID, 2, admin)
		Expect(err).To(Succeed())
		for _, tk := range tokens {
			for _, user := range []common.Address{admin, alice, bob} {
				_, err = util.Exec(ctx, admin, tk, "Mint", []interface{}{user, coin(10000)})
				Expect(err).To(Succeed())
			}
		}

		rc, err := ctx.DeployContract(admin, routerClassID, nil)
		Expect(err).To(Succeed())
		router = rc.Address()

		is, err := util.Exec(ctx, admin, router, "InitConstantPool", []interface{}{admin, tokens, uint32(30)})
		Expect(err).To(Succeed())
		constPool = is[0].(common.Address)
		is, err = util.Exec(ctx, admin, router, "InitStableswapPool", []interface{}{admin, tokens, uint64(100), uint32(4)})
		Expect(err).To(Succeed())
		stablePool = is[0].(common.Address)
		seed(constPool)
		seed(stablePool)

		constShare, err = util.ViewAddress(ctx, constPool, "ShareID")
		Expect(err).To(Succeed())
		stableShare, err = util.ViewAddress(ctx, stablePool, "ShareID")
		Expect(err).To(Succeed())

		ac, err := ctx.DeployContract(admin, adapterClassID, nil)
		Expect(err).To(Succeed())
		adp = ac.Address()
		_, err = util.Exec(ctx, admin, adp, "Initialize", []interface{}{adapter.ProtocolAqua, router})
		Expect(err).To(Succeed())
	})

	It("initializes only once", func() {
		before := ctx.StateHash()
		_, err := util.Exec(ctx, admin, adp, "Initialize", []interface{}{adapter.ProtocolAqua, router})
		Expect(err).To(MatchError(adapter.ErrAlreadyInitialized))
		Expect(ctx.StateHash()).To(Equal(before))
	})

	It("swaps through the router's first pool and pays the quote", func() {
		quote, err := util.ViewAmount(ctx, adp, "QuoteIn", constPool, coin(10), tokens[0], tokens[1])
		Expect(err).To(Succeed())
		Expect(quote.IsPlus()).To(BeTrue())

		before := balances(bob)
		is, err := util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), quote, tokens, bob, deadline})
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(quote))

		after := balances(bob)
		Expect(after[0]).To(Equal(before[0].Sub(coin(10))))
		Expect(after[1]).To(Equal(before[1].Add(quote)))
		for _, tk := range tokens {
			held, err := util.BalanceOf(ctx, tk, adp)
			Expect(err).To(Succeed())
			Expect(held.IsZero()).To(BeTrue())
		}
	})

	It("follows the registry to the stableswap pool", func() {
		_, err := util.Exec(ctx, admin, adp, "SetPoolForTokens", []interface{}{tokens, &adapter.PoolInfo{Pool: stablePool, LpToken: stableShare}})
		Expect(err).To(Succeed())

		constQuote, err := util.ViewAmount(ctx, adp, "QuoteIn", constPool, coin(10), tokens[0], tokens[1])
		Expect(err).To(Succeed())
		stableQuote, err := util.ViewAmount(ctx, adp, "QuoteIn", stablePool, coin(10), tokens[0], tokens[1])
		Expect(err).To(Succeed())
		Expect(constQuote.Less(stableQuote)).To(BeTrue())

		is, err := util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), coin(0), tokens, bob, deadline})
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(stableQuote))
	})

	It("reverts on slippage and rejects multi hop paths", func() {
		quote, err := util.ViewAmount(ctx, adp, "QuoteIn", constPool, coin(10), tokens[0], tokens[1])
		Expect(err).To(Succeed())

		before := balances(bob)
		_, err = util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(10), quote.Add(amount.NewAmount(1)), tokens, bob, deadline})
		Expect(err).To(MatchError(adapter.ErrMinAmountNotMet))
		Expect(balances(bob)).To(Equal(before))

		_, err = util.Exec(ctx, bob, adp, "SwapExactIn", []interface{}{coin(1), coin(0), []common.Address{tokens[0], tokens[1], tokens[0]}, bob, deadline})
		Expect(err).To(MatchError(adapter.ErrMultipathUnsupported))
	})

	It("buys an exact output within max_in", func() {
		need, err := util.ViewAmount(ctx, adp, "QuoteOut", constPool, coin(5), tokens[0], tokens[1])
		Expect(err).To(Succeed())

		_, err = util.Exec(ctx, bob, adp, "SwapExactOut", []interface{}{coin(5), need.Sub(amount.NewAmount(1)), tokens, bob, deadline})
		Expect(err).To(MatchError(adapter.ErrMinAmountNotMet))

		before := balances(bob)
		is, err := util.Exec(ctx, bob, adp, "SwapExactOut", []interface{}{coin(5), need, tokens, bob, deadline})
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(need))

		after := balances(bob)
		Expect(after[0]).To(Equal(before[0].Sub(need)))
		Expect(after[1]).To(Equal(before[1].Add(coin(5))))

		_, err = util.ViewAmount(ctx, adp, "QuoteOut", constPool, coin(1000), tokens[0], tokens[1])
		Expect(err).To(MatchError(adapter.ErrInsufficientLiquidity))
	})

	It("deposits at the pool ratio and withdraws by share token", func() {
		before := balances(alice)
		is, err := util.Exec(ctx, alice, adp, "AddLiquidity", []interface{}{tokens[0], tokens[1], coin(100), coin(200), coin(0), coin(0), alice, deadline})
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(coin(100)))
		Expect(is[1]).To(Equal(coin(100)))
		Expect(is[2]).To(Equal(coin(100)))

		after := balances(alice)
		Expect(after[0]).To(Equal(before[0].Sub(coin(100))))
		Expect(after[1]).To(Equal(before[1].Sub(coin(100))))
		Expect(util.BalanceOf(ctx, constShare, alice)).To(Equal(coin(100)))

		info, err := util.View(ctx, adp, "GetPoolForTokens", tokens)
		Expect(err).To(Succeed())
		Expect(info[0]).To(Equal(&adapter.PoolInfo{Pool: constPool, LpToken: constShare}))

		_, err = util.Exec(ctx, alice, adp, "RemoveLiquidity", []interface{}{constShare, coin(101), coin(0), coin(0), alice, deadline})
		Expect(err).To(MatchError(adapter.ErrInsufficientLpBalance))

		is, err = util.Exec(ctx, alice, adp, "RemoveLiquidity", []interface{}{constShare, coin(100), coin(0), coin(0), alice, deadline})
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(coin(100)))
		Expect(is[1]).To(Equal(coin(100)))
		Expect(balances(alice)).To(Equal(before))
		lp, err := util.BalanceOf(ctx, constShare, alice)
		Expect(err).To(Succeed())
		Expect(lp.IsZero()).To(BeTrue())
	})

	It("finds an unregistered pool by its share token", func() {
		before := balances(admin)
		is, err := util.Exec(ctx, admin, adp, "RemoveLiquidity", []interface{}{stableShare, coin(20), coin(0), coin(0), admin, deadline})
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(coin(10)))
		Expect(is[1]).To(Equal(coin(10)))
		Expect(balances(admin)).To(Equal([]*amount.Amount{before[0].Add(coin(10)), before[1].Add(coin(10))}))

		_, err = util.Exec(ctx, admin, adp, "RemoveLiquidity", []interface{}{tokens[0], coin(1), coin(0), coin(0), admin, deadline})
		Expect(err).To(MatchError(adapter.ErrPoolNotFound))
	})

	It("refuses to open an empty pool and quotes it at zero", func() {
		is, err := util.Exec(ctx, admin, router, "InitConstantPool", []interface{}{admin, tokens, uint32(10)})
		Expect(err).To(Succeed())
		empty := is[0].(common.Address)
		share, err := util.ViewAddress(ctx, empty, "ShareID")
		Expect(err).To(Succeed())
		_, err = util.Exec(ctx, admin, adp, "SetPoolForTokens", []interface{}{tokens, &adapter.PoolInfo{Pool: empty, LpToken: share}})
		Expect(err).To(Succeed())

		_, err = util.Exec(ctx, alice, adp, "AddLiquidity", []interface{}{tokens[0], tokens[1], coin(100), coin(100), coin(0), coin(0), alice, deadline})
		Expect(err).To(MatchError(adapter.ErrExternalFailure))

		quote, err := util.ViewAmount(ctx, adp, "QuoteIn", empty, coin(10), tokens[0], tokens[1])
		Expect(err).To(Succeed())
		Expect(quote.IsZero()).To(BeTrue())
	})

	It("deposits and swaps with funds already held by the adapter", func() {
		for _, tk := range tokens {
			_, err := util.Exec(ctx, bob, tk, "Transfer", []interface{}{bob, adp, coin(50)})
			Expect(err).To(Succeed())
		}
		is, err := util.Exec(ctx, bob, adp, "AddLiqInPool", []interface{}{tokens[0], tokens[1], coin(50), coin(50), constPool, bob})
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(coin(50)))
		Expect(util.BalanceOf(ctx, constShare, bob)).To(Equal(coin(50)))

		_, err = util.Exec(ctx, bob, tokens[0], "Transfer", []interface{}{bob, adp, coin(10)})
		Expect(err).To(Succeed())
		before := balances(bob)
		is, err = util.Exec(ctx, bob, adp, "SwapInPool", []interface{}{coin(10), coin(0), tokens[0], tokens[1], constPool, bob})
		Expect(err).To(Succeed())
		out := is[0].(*amount.Amount)
		Expect(balances(bob)[1]).To(Equal(before[1].Add(out)))

		for _, tk := range tokens {
			held, err := util.BalanceOf(ctx, tk, adp)
			Expect(err).To(Succeed())
			Expect(held.IsZero()).To(BeTrue())
		}
	})
})
