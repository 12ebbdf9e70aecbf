package account_test

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/contract/account"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/contract/adapter/soroswap"
	external "github.com/hoops-finance/hoops/contract/external/soroswap"
	"github.com/hoops-finance/hoops/contract/router"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/contract/util"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAccount(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Account Suite")
}

const now = uint64(1700000000)

var (
	tokenClassID   uint64
	routerClassID  uint64
	factoryClassID uint64
	adapterClassID uint64
	accountClassID uint64

	admin = common.HexToAddress("0x8000000000000000000000000000000000000001")
	owner = common.HexToAddress("0x8000000000000000000000000000000000000002")
	bob   = common.HexToAddress("0x8000000000000000000000000000000000000003")
)

var _ = BeforeSuite(func() {
	var err error
	tokenClassID, err = types.RegisterContractType(&token.TokenContract{})
	Expect(err).To(Succeed())
	routerClassID, err = types.RegisterContractType(&router.RouterContract{})
	Expect(err).To(Succeed())
	factoryClassID, err = types.RegisterContractType(&external.FactoryContract{})
	Expect(err).To(Succeed())
	_, err = types.RegisterContractType(&external.PairContract{})
	Expect(err).To(Succeed())
	adapterClassID, err = types.RegisterContractType(&soroswap.SoroswapAdapter{})
	Expect(err).To(Succeed())
	accountClassID, err = types.RegisterContractType(&account.AccountContract{})
	Expect(err).To(Succeed())
})

func coin(v int64) *amount.Amount {
	return amount.NewCoinAmount(uint64(v), 0)
}

func newPasskey() (*ecdsa.PrivateKey, []byte) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).To(Succeed())
	pub, err := key.PublicKey.ECDH()
	Expect(err).To(Succeed())
	return key, pub.Bytes()
}

// assertion signs clientDataJSON carrying the challenge the way a WebAuthn authenticator does
func assertion(key *ecdsa.PrivateKey, clientDataJSON []byte) []byte {
	authData := bytes.Repeat([]byte{0x49}, 37)
	r, s, err := ecdsa.Sign(rand.Reader, key, account.SignedDigest(authData, clientDataJSON))
	Expect(err).To(Succeed())
	sig := make([]byte, account.SignatureLength)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return bin.MustWriterToBytes(&account.Secp256r1Signature{
		AuthenticatorData: authData,
		ClientDataJSON:    clientDataJSON,
		Signature:         sig,
	})
}

func clientDataFor(challenge string) []byte {
	return []byte(`{"type":"webauthn.get","challenge":"` + challenge + `","origin":"https://app.hoops.finance"}`)
}

var _ = Describe("Account", func() {
	var (
		ctx      *types.Context
		tokens   []common.Address
		usdc     common.Address
		rt       common.Address
		pair     common.Address
		usdcPair common.Address
		acct     common.Address
		deadline uint64
	)

	balance := func(tk common.Address, user common.Address) *amount.Amount {
		bal, err := util.BalanceOf(ctx, tk, user)
		Expect(err).To(Succeed())
		return bal
	}

	deployAccount := func() common.Address {
		v, err := ctx.DeployContract(owner, accountClassID, nil)
		Expect(err).To(Succeed())
		return v.Address()
	}

	BeforeEach(func() {
		ctx = types.NewContext(types.Ledger{Timestamp: now, Sequence: 100})
		deadline = now + 600

		var err error
		tokens, err = util.DeployTokens(ctx, tokenClassID, 3, admin)
		Expect(err).To(Succeed())
		usdc = tokens[2]
		for _, tk := range tokens {
			for _, user := range []common.Address{admin, owner, bob} {
				_, err = util.Exec(ctx, admin, tk, "Mint", []interface{}{user, coin(10000)})
				Expect(err).To(Succeed())
			}
		}

		fc, err := ctx.DeployContract(admin, factoryClassID, nil)
		Expect(err).To(Succeed())
		ac, err := ctx.DeployContract(admin, adapterClassID, nil)
		Expect(err).To(Succeed())
		_, err = util.Exec(ctx, admin, ac.Address(), "Initialize", []interface{}{adapter.ProtocolSoroswap, fc.Address()})
		Expect(err).To(Succeed())
		for _, other := range []common.Address{tokens[1], usdc} {
			_, err = util.Exec(ctx, admin, ac.Address(), "AddLiquidity", []interface{}{tokens[0], other, coin(1000), coin(1000), coin(0), coin(0), admin, deadline})
			Expect(err).To(Succeed())
		}
		pair, err = util.ViewAddress(ctx, fc.Address(), "GetPair", tokens[0], tokens[1])
		Expect(err).To(Succeed())
		usdcPair, err = util.ViewAddress(ctx, fc.Address(), "GetPair", tokens[0], usdc)
		Expect(err).To(Succeed())

		rc, err := ctx.DeployContract(admin, routerClassID, nil)
		Expect(err).To(Succeed())
		rt = rc.Address()
		_, err = util.Exec(ctx, admin, rt, "Initialize", []interface{}{admin})
		Expect(err).To(Succeed())
		_, err = util.Exec(ctx, admin, rt, "AddAdapter", []interface{}{adapter.ProtocolSoroswap, ac.Address()})
		Expect(err).To(Succeed())
		_, err = util.Exec(ctx, admin, rt, "SetUsdc", []interface{}{usdc})
		Expect(err).To(Succeed())
		_, err = util.Exec(ctx, admin, rt, "DiscoverSoroswapPools", []interface{}{fc.Address(), []*router.TokenPair{{TokenA: tokens[0], TokenB: tokens[1]}, {TokenA: tokens[0], TokenB: usdc}}})
		Expect(err).To(Succeed())

		acct = deployAccount()
		_, err = util.Exec(ctx, owner, acct, "Initialize", []interface{}{owner, rt})
		Expect(err).To(Succeed())
		for _, tk := range tokens {
			_, err = util.Exec(ctx, admin, tk, "Mint", []interface{}{acct, coin(1000)})
			Expect(err).To(Succeed())
		}
	})

	Describe("key mode", func() {
		It("initializes only once", func() {
			before := ctx.StateHash()
			_, err := util.Exec(ctx, owner, acct, "Initialize", []interface{}{owner, rt})
			Expect(err).To(MatchError(account.ErrAlreadyInitialized))
			Expect(ctx.StateHash()).To(Equal(before))

			Expect(util.ViewAddress(ctx, acct, "Owner")).To(Equal(owner))
			Expect(util.ViewAddress(ctx, acct, "Router")).To(Equal(rt))
		})

		It("swaps exactly the amount with a shallow auth chain", func() {
			is, err := util.View(ctx, rt, "GetBestQuote", coin(10), tokens[0], tokens[1])
			Expect(err).To(Succeed())
			quote := is[0].(*router.SwapQuote)

			before0, before1 := balance(tokens[0], acct), balance(tokens[1], acct)
			receipt, err := ctx.Execute(types.NewTransaction(owner, acct, "Swap", tokens[0], tokens[1], coin(10), pair, deadline, quote.AmountOut))
			Expect(err).To(Succeed())
			Expect(receipt.Results[0]).To(Equal(quote.AmountOut))

			Expect(balance(tokens[0], acct)).To(Equal(before0.Sub(coin(10))))
			Expect(balance(tokens[1], acct)).To(Equal(before1.Add(quote.AmountOut)))
			Expect(balance(tokens[0], rt).IsZero()).To(BeTrue())
			Expect(receipt.AuthsOf(acct)).NotTo(BeEmpty())
			Expect(receipt.MaxAuthDepth(acct)).To(BeNumerically("<=", 2))

			evs := receipt.EventsOf(acct)
			Expect(evs).To(HaveLen(1))
			Expect(evs[0].Topics).To(Equal([]string{"acct", "swap"}))
		})

		It("swaps back from the second token", func() {
			is, err := util.View(ctx, rt, "GetBestQuote", coin(10), tokens[1], tokens[0])
			Expect(err).To(Succeed())
			quote := is[0].(*router.SwapQuote)

			before0, before1 := balance(tokens[0], acct), balance(tokens[1], acct)
			receipt, err := ctx.Execute(types.NewTransaction(owner, acct, "Swap", tokens[1], tokens[0], coin(10), pair, deadline, quote.AmountOut))
			Expect(err).To(Succeed())
			Expect(receipt.Results[0]).To(Equal(quote.AmountOut))
			Expect(balance(tokens[1], acct)).To(Equal(before1.Sub(coin(10))))
			Expect(balance(tokens[0], acct)).To(Equal(before0.Add(quote.AmountOut)))
		})

		It("answers only to the owner", func() {
			_, err := util.Exec(ctx, bob, acct, "Swap", []interface{}{tokens[0], tokens[1], coin(10), pair, deadline, coin(0)})
			Expect(err).To(MatchError(types.ErrNotAuthorized))
			_, err = util.Exec(ctx, bob, acct, "Transfer", []interface{}{tokens[0], bob, coin(1)})
			Expect(err).To(MatchError(types.ErrNotAuthorized))
			_, err = util.Exec(ctx, bob, acct, "Upgrade", []interface{}{accountClassID})
			Expect(err).To(MatchError(types.ErrNotAuthorized))
		})

		It("transfers for the owner", func() {
			before := balance(tokens[1], bob)
			_, err := util.Exec(ctx, owner, acct, "Transfer", []interface{}{tokens[1], bob, coin(25)})
			Expect(err).To(Succeed())
			Expect(balance(tokens[1], bob)).To(Equal(before.Add(coin(25))))
			Expect(balance(tokens[1], acct)).To(Equal(coin(975)))

			_, err = util.Exec(ctx, owner, acct, "Transfer", []interface{}{tokens[1], bob, coin(0)})
			Expect(err).To(MatchError(account.ErrInvalidArgument))
		})

		It("deposits a budget and redeems it back to the owner", func() {
			ownerUsdc := balance(usdc, owner)
			plans := []*router.LpPlan{{AdapterID: adapter.ProtocolSoroswap, TokenA: tokens[0], TokenB: usdc, AmountA: coin(200), AmountB: coin(200)}}
			_, err := util.Exec(ctx, owner, acct, "Deposit", []interface{}{usdc, coin(500), plans, deadline})
			Expect(err).To(Succeed())

			Expect(balance(usdc, acct)).To(Equal(coin(500)))
			Expect(balance(tokens[0], acct)).To(Equal(coin(800)))
			Expect(balance(usdcPair, acct)).To(Equal(coin(200)))
			Expect(util.ViewAmount(ctx, rt, "IdleFloat", acct)).To(Equal(coin(300)))

			_, err = util.Exec(ctx, owner, acct, "Redeem", []interface{}{usdcPair, coin(200), usdc, deadline})
			Expect(err).To(Succeed())

			Expect(balance(usdc, acct).IsZero()).To(BeTrue())
			Expect(balance(usdc, owner)).To(Equal(ownerUsdc.Add(coin(1000))))
			Expect(balance(tokens[0], acct)).To(Equal(coin(1000)))
			Expect(balance(usdcPair, acct).IsZero()).To(BeTrue())
			Expect(balance(usdc, rt).IsZero()).To(BeTrue())
		})

		It("rejects a budget below its usdc legs", func() {
			before := ctx.StateHash()
			plans := []*router.LpPlan{{AdapterID: adapter.ProtocolSoroswap, TokenA: tokens[0], TokenB: usdc, AmountA: coin(200), AmountB: coin(200)}}
			_, err := util.Exec(ctx, owner, acct, "Deposit", []interface{}{usdc, coin(100), plans, deadline})
			Expect(err).To(MatchError(account.ErrInvalidArgument))
			Expect(ctx.StateHash()).To(Equal(before))
		})

		It("keeps its storage across an upgrade", func() {
			_, err := util.Exec(ctx, owner, acct, "Upgrade", []interface{}{uint64(1)})
			Expect(err).To(MatchError(types.ErrInvalidClassID))
			_, err = util.Exec(ctx, owner, acct, "Upgrade", []interface{}{accountClassID})
			Expect(err).To(Succeed())
			Expect(util.ViewAddress(ctx, acct, "Owner")).To(Equal(owner))
		})

		It("has no passkey to check", func() {
			tx := types.NewTransaction(bob, tokens[0], "Transfer", acct, bob, coin(1))
			tx.WithCredential(acct, []byte{0x00})
			_, err := ctx.Execute(tx)
			Expect(err).To(MatchError(account.ErrPasskeyNotSet))
		})
	})

	Describe("passkey mode", func() {
		var (
			key    *ecdsa.PrivateKey
			pubkey []byte
			pacct  common.Address
		)

		signed := func(k *ecdsa.PrivateKey, tx *types.Transaction) *types.Transaction {
			return tx.WithCredential(pacct, assertion(k, clientDataFor(account.Challenge(tx.Hash()))))
		}

		BeforeEach(func() {
			key, pubkey = newPasskey()
			pacct = deployAccount()
			_, err := util.Exec(ctx, bob, pacct, "InitializeWithPasskey", []interface{}{owner, rt, pubkey})
			Expect(err).To(Succeed())
			_, err = util.Exec(ctx, admin, tokens[0], "Mint", []interface{}{pacct, coin(100)})
			Expect(err).To(Succeed())
		})

		It("stores the key", func() {
			is, err := util.View(ctx, pacct, "GetPasskeyPubkey")
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(pubkey))

			is, err = util.View(ctx, acct, "GetPasskeyPubkey")
			Expect(err).To(Succeed())
			Expect(is[0]).To(BeNil())

			_, err = util.Exec(ctx, bob, deployAccount(), "InitializeWithPasskey", []interface{}{owner, rt, pubkey[:33]})
			Expect(err).To(MatchError(account.ErrInvalidArgument))
		})

		It("acts on a signed assertion from any relayer", func() {
			before := balance(tokens[0], bob)
			receipt, err := ctx.Execute(signed(key, types.NewTransaction(bob, pacct, "Transfer", tokens[0], bob, coin(5))))
			Expect(err).To(Succeed())
			Expect(balance(tokens[0], bob)).To(Equal(before.Add(coin(5))))

			auths := receipt.AuthsOf(pacct)
			Expect(auths).NotTo(BeEmpty())
			Expect(auths[0].Kind).To(Equal(types.AuthByAccount))
		})

		It("refuses the owner key once a passkey is set", func() {
			_, err := util.Exec(ctx, owner, pacct, "Transfer", []interface{}{tokens[0], owner, coin(5)})
			Expect(err).To(MatchError(types.ErrNotAuthorized))
		})

		It("does not take the account as a signer without an assertion", func() {
			before := balance(tokens[0], pacct)
			tx := types.NewTransaction(bob, tokens[0], "Transfer", pacct, bob, coin(50))
			tx.Signers = []common.Address{pacct}
			_, err := ctx.Execute(tx)
			Expect(err).To(MatchError(types.ErrNotAuthorized))
			Expect(balance(tokens[0], pacct)).To(Equal(before))

			tx = types.NewTransaction(bob, pacct, "Transfer", tokens[0], bob, coin(5))
			tx.Signers = []common.Address{pacct}
			_, err = ctx.Execute(tx)
			Expect(err).To(MatchError(types.ErrNotAuthorized))
		})

		It("rejects a challenge for another payload", func() {
			tx := types.NewTransaction(bob, pacct, "Transfer", tokens[0], bob, coin(5))
			other := types.NewTransaction(bob, pacct, "Transfer", tokens[0], bob, coin(50))
			tx.WithCredential(pacct, assertion(key, clientDataFor(account.Challenge(other.Hash()))))
			_, err := ctx.Execute(tx)
			Expect(err).To(MatchError(account.ErrClientDataJsonChallengeIncorrect))
		})

		It("rejects a signature by another key", func() {
			stranger, _ := newPasskey()
			_, err := ctx.Execute(signed(stranger, types.NewTransaction(bob, pacct, "Transfer", tokens[0], bob, coin(5))))
			Expect(err).To(MatchError(account.ErrNotAuthorized))
		})

		It("rejects client data that is not json", func() {
			tx := types.NewTransaction(bob, pacct, "Transfer", tokens[0], bob, coin(5))
			tx.WithCredential(pacct, assertion(key, []byte("challenge="+account.Challenge(tx.Hash()))))
			_, err := ctx.Execute(tx)
			Expect(err).To(MatchError(account.ErrJsonParseError))
		})

		It("rotates the key only under the current one", func() {
			next, nextPub := newPasskey()
			_, err := util.Exec(ctx, owner, pacct, "SetPasskeyPubkey", []interface{}{nextPub})
			Expect(err).To(MatchError(types.ErrNotAuthorized))

			_, err = ctx.Execute(signed(key, types.NewTransaction(bob, pacct, "SetPasskeyPubkey", nextPub)))
			Expect(err).To(Succeed())
			is, err := util.View(ctx, pacct, "GetPasskeyPubkey")
			Expect(err).To(Succeed())
			Expect(is[0]).To(Equal(nextPub))

			_, err = ctx.Execute(signed(key, types.NewTransaction(bob, pacct, "Transfer", tokens[0], bob, coin(5))))
			Expect(err).To(MatchError(account.ErrNotAuthorized))
			_, err = ctx.Execute(signed(next, types.NewTransaction(bob, pacct, "Transfer", tokens[0], bob, coin(5))))
			Expect(err).To(Succeed())
		})

		It("adds a passkey to a key account under the owner key", func() {
			_, err := util.Exec(ctx, bob, acct, "SetPasskeyPubkey", []interface{}{pubkey})
			Expect(err).To(MatchError(types.ErrNotAuthorized))
			_, err = util.Exec(ctx, owner, acct, "SetPasskeyPubkey", []interface{}{pubkey})
			Expect(err).To(Succeed())
		})
	})
})
