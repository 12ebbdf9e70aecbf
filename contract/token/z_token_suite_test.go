package token_test

import (
	"testing"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/contract/util"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestToken(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Token Suite")
}

var (
	tokenClassID uint64

	admin = common.HexToAddress("0x2000000000000000000000000000000000000001")
	alice = common.HexToAddress("0x2000000000000000000000000000000000000002")
	bob   = common.HexToAddress("0x2000000000000000000000000000000000000003")
)

var _ = BeforeSuite(func() {
	var err error
	tokenClassID, err = types.RegisterContractType(&token.TokenContract{})
	Expect(err).To(Succeed())
})

var _ = Describe("Token", func() {
	var (
		ctx *types.Context
		tk  common.Address
	)

	BeforeEach(func() {
		var err error
		ctx = types.NewContext(types.Ledger{Timestamp: 1700000000, Sequence: 10})
		tk, err = util.DeployToken(ctx, tokenClassID, admin, "USD Coin", "USDC")
		Expect(err).To(Succeed())
		_, err = util.Exec(ctx, admin, tk, "Mint", []interface{}{alice, amount.NewCoinAmount(100, 0)})
		Expect(err).To(Succeed())
	})

	It("reads metadata", func() {
		is, err := util.View(ctx, tk, "Symbol")
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal("USDC"))
		is, err = util.View(ctx, tk, "Decimals")
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal(uint32(7)))
		Expect(util.ViewAmount(ctx, tk, "TotalSupply")).To(Equal(amount.NewCoinAmount(100, 0)))
	})

	It("transfers with the owner's auth only", func() {
		_, err := util.Exec(ctx, alice, tk, "Transfer", []interface{}{alice, bob, amount.NewCoinAmount(40, 0)})
		Expect(err).To(Succeed())
		Expect(util.BalanceOf(ctx, tk, alice)).To(Equal(amount.NewCoinAmount(60, 0)))
		Expect(util.BalanceOf(ctx, tk, bob)).To(Equal(amount.NewCoinAmount(40, 0)))

		_, err = util.Exec(ctx, bob, tk, "Transfer", []interface{}{alice, bob, amount.NewCoinAmount(1, 0)})
		Expect(err).To(MatchError(types.ErrNotAuthorized))

		_, err = util.Exec(ctx, alice, tk, "Transfer", []interface{}{alice, bob, amount.NewCoinAmount(61, 0)})
		Expect(err).To(MatchError(token.ErrInsufficientBalance))

		_, err = util.Exec(ctx, alice, tk, "Transfer", []interface{}{alice, bob, amount.NewAmount(-1)})
		Expect(err).To(MatchError(token.ErrNegativeAmount))
	})

	It("spends allowances until they expire", func() {
		_, err := util.Exec(ctx, alice, tk, "Approve", []interface{}{alice, bob, amount.NewCoinAmount(10, 0), uint32(20)})
		Expect(err).To(Succeed())
		Expect(util.ViewAmount(ctx, tk, "Allowance", alice, bob)).To(Equal(amount.NewCoinAmount(10, 0)))

		_, err = util.Exec(ctx, bob, tk, "TransferFrom", []interface{}{bob, alice, bob, amount.NewCoinAmount(4, 0)})
		Expect(err).To(Succeed())
		Expect(util.ViewAmount(ctx, tk, "Allowance", alice, bob)).To(Equal(amount.NewCoinAmount(6, 0)))

		_, err = util.Exec(ctx, bob, tk, "TransferFrom", []interface{}{bob, alice, bob, amount.NewCoinAmount(7, 0)})
		Expect(err).To(MatchError(token.ErrInsufficientAllowance))

		ctx.AdvanceLedger(11)
		Expect(util.ViewAmount(ctx, tk, "Allowance", alice, bob)).To(Equal(amount.NewAmount(0)))
		_, err = util.Exec(ctx, bob, tk, "TransferFrom", []interface{}{bob, alice, bob, amount.NewCoinAmount(1, 0)})
		Expect(err).To(MatchError(token.ErrInsufficientAllowance))

		_, err = util.Exec(ctx, alice, tk, "Approve", []interface{}{alice, bob, amount.NewCoinAmount(1, 0), uint32(5)})
		Expect(err).To(MatchError(token.ErrPastExpiration))
	})

	It("mints for the master and minters", func() {
		_, err := util.Exec(ctx, bob, tk, "Mint", []interface{}{bob, amount.NewCoinAmount(1, 0)})
		Expect(err).To(MatchError(types.ErrNotAuthorized))

		_, err = util.Exec(ctx, admin, tk, "SetMinter", []interface{}{bob, true})
		Expect(err).To(Succeed())
		_, err = util.Exec(ctx, bob, tk, "Mint", []interface{}{bob, amount.NewCoinAmount(1, 0)})
		Expect(err).To(Succeed())
		Expect(util.ViewAmount(ctx, tk, "TotalSupply")).To(Equal(amount.NewCoinAmount(101, 0)))

		_, err = util.Exec(ctx, bob, tk, "Burn", []interface{}{bob, amount.NewCoinAmount(1, 0)})
		Expect(err).To(Succeed())
		Expect(util.ViewAmount(ctx, tk, "TotalSupply")).To(Equal(amount.NewCoinAmount(100, 0)))
	})
})
