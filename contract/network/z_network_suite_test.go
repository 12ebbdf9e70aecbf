package network_test

import (
	"bytes"
	"testing"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/network"
	"github.com/hoops-finance/hoops/contract/router"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNetwork(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Network Suite")
}

var (
	admin = common.HexToAddress("0xa000000000000000000000000000000000000001")
	user  = common.HexToAddress("0xa000000000000000000000000000000000000002")
)

func sandbox() *network.Spec {
	return &network.Spec{
		Timestamp: 1700000000,
		Sequence:  100,
		Admin:     admin,
		Holders:   []common.Address{user},
		Usdc:      "usdc",
		Tokens: []*network.TokenSpec{
			{Symbol: "XLM", Supply: 1000000},
			{Symbol: "USDC", Supply: 1000000},
			{Symbol: "EURC", Supply: 1000000},
		},
		Pools: []*network.PoolSpec{
			{Kind: network.KindSoroswap, TokenA: "XLM", TokenB: "USDC", ReserveA: 10000, ReserveB: 1000},
			{Kind: network.KindAqua, TokenA: "XLM", TokenB: "USDC", ReserveA: 20000, ReserveB: 2000},
			{Kind: network.KindAquaStable, TokenA: "USDC", TokenB: "EURC", ReserveA: 5000, ReserveB: 5000},
			{Kind: network.KindPhoenix, TokenA: "XLM", TokenB: "USDC", ReserveA: 5000, ReserveB: 500},
			{Kind: network.KindComet, TokenA: "XLM", TokenB: "USDC", ReserveA: 8000, ReserveB: 800},
		},
	}
}

var _ = Describe("Network", func() {
	var n *network.Network

	BeforeEach(func() {
		var err error
		n, err = network.Build(sandbox())
		Expect(err).To(Succeed())
	})

	It("discovers a market per seeded pool", func() {
		list, err := n.Markets()
		Expect(err).To(Succeed())
		Expect(list).To(HaveLen(5))

		count, err := n.Discover()
		Expect(err).To(Succeed())
		Expect(count).To(Equal(uint32(5)))
		list, err = n.Markets()
		Expect(err).To(Succeed())
		Expect(list).To(HaveLen(5))
	})

	It("quotes every protocol holding the pair", func() {
		xlm, err := n.Token("xlm")
		Expect(err).To(Succeed())
		usdc, err := n.Token("USDC")
		Expect(err).To(Succeed())

		quotes, err := n.Quotes(amount.NewCoinAmount(10, 0), xlm, usdc)
		Expect(err).To(Succeed())
		Expect(quotes).To(HaveLen(4))

		best, err := n.BestQuote(amount.NewCoinAmount(10, 0), xlm, usdc)
		Expect(err).To(Succeed())
		Expect(best).NotTo(BeNil())
		Expect(best).To(Equal(router.BestQuote(quotes)))
	})

	It("rejects unknown tokens and pool kinds", func() {
		_, err := n.Token("DOGE")
		Expect(err).To(MatchError(network.ErrUnknownToken))

		spec := sandbox()
		spec.Pools = append(spec.Pools, &network.PoolSpec{Kind: "curve", TokenA: "XLM", TokenB: "USDC", ReserveA: 1, ReserveB: 1})
		_, err = network.Build(spec)
		Expect(err).To(MatchError(network.ErrUnknownKind))
	})

	It("runs an account swap end to end", func() {
		xlm, _ := n.Token("XLM")
		usdc, _ := n.Token("USDC")
		salt := bytes.Repeat([]byte{0x01}, 32)

		rt, err := n.Execute(types.NewTransaction(user, n.Deployer(), "DeployAccount", user, common.Address{}, uint64(0), salt))
		Expect(err).To(Succeed())
		acct := rt.Results[0].(common.Address)

		_, err = n.Execute(types.NewTransaction(user, xlm, "Transfer", user, acct, amount.NewCoinAmount(100, 0)))
		Expect(err).To(Succeed())

		best, err := n.BestQuote(amount.NewCoinAmount(10, 0), xlm, usdc)
		Expect(err).To(Succeed())
		deadline := n.Ledger().Timestamp + 600
		rt, err = n.Execute(types.NewTransaction(user, acct, "Swap", xlm, usdc, amount.NewCoinAmount(10, 0), best.PoolAddress, deadline, amount.NewAmount(0)))
		Expect(err).To(Succeed())

		got, err := n.BalanceOf(usdc, acct)
		Expect(err).To(Succeed())
		Expect(got).To(Equal(rt.Results[0]))
		Expect(rt.MaxAuthDepth(acct)).To(BeNumerically("<=", 2))
	})
})
