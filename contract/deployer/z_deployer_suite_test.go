package deployer_test

import (
	"bytes"
	"testing"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/contract/account"
	"github.com/hoops-finance/hoops/contract/deployer"
	"github.com/hoops-finance/hoops/contract/router"
	"github.com/hoops-finance/hoops/contract/util"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDeployer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Deployer Suite")
}

var (
	routerClassID   uint64
	accountClassID  uint64
	deployerClassID uint64

	admin = common.HexToAddress("0x9000000000000000000000000000000000000001")
	owner = common.HexToAddress("0x9000000000000000000000000000000000000002")
	bob   = common.HexToAddress("0x9000000000000000000000000000000000000003")
)

var _ = BeforeSuite(func() {
	var err error
	routerClassID, err = types.RegisterContractType(&router.RouterContract{})
	Expect(err).To(Succeed())
	accountClassID, err = types.RegisterContractType(&account.AccountContract{})
	Expect(err).To(Succeed())
	deployerClassID, err = types.RegisterContractType(&deployer.DeployerContract{})
	Expect(err).To(Succeed())
})

var _ = Describe("Deployer", func() {
	var (
		ctx  *types.Context
		rt   common.Address
		dp   common.Address
		salt []byte
	)

	BeforeEach(func() {
		ctx = types.NewContext(types.Ledger{Timestamp: 1700000000, Sequence: 100})
		salt = bytes.Repeat([]byte{0x5a}, deployer.SaltLength)

		rc, err := ctx.DeployContract(admin, routerClassID, nil)
		Expect(err).To(Succeed())
		rt = rc.Address()

		dc, err := ctx.DeployContract(admin, deployerClassID, bin.MustWriterToBytes(&deployer.DeployerContractConstruction{
			AccountClassID: accountClassID,
			Router:         rt,
		}))
		Expect(err).To(Succeed())
		dp = dc.Address()
	})

	It("deploys an initialized account at the derived address", func() {
		is, err := util.Exec(ctx, owner, dp, "DeployAccount", []interface{}{owner, rt, accountClassID, salt})
		Expect(err).To(Succeed())
		addr := is[0].(common.Address)
		Expect(addr).To(Equal(deployer.AccountAddress(dp, owner, salt)))
		Expect(util.ViewAddress(ctx, dp, "AccountAddress", owner, salt)).To(Equal(addr))

		Expect(ctx.IsContract(addr)).To(BeTrue())
		Expect(util.ViewAddress(ctx, addr, "Owner")).To(Equal(owner))
		Expect(util.ViewAddress(ctx, addr, "Router")).To(Equal(rt))

		is, err = util.View(ctx, dp, "Accounts", owner)
		Expect(err).To(Succeed())
		Expect(is[0]).To(Equal([]common.Address{addr}))
	})

	It("fails to deploy the same owner and salt twice", func() {
		_, err := util.Exec(ctx, owner, dp, "DeployAccount", []interface{}{owner, rt, accountClassID, salt})
		Expect(err).To(Succeed())
		_, err = util.Exec(ctx, owner, dp, "DeployAccount", []interface{}{owner, rt, accountClassID, salt})
		Expect(err).To(MatchError(deployer.ErrAlreadyDeployed))

		other := bytes.Repeat([]byte{0x5b}, deployer.SaltLength)
		_, err = util.Exec(ctx, owner, dp, "DeployAccount", []interface{}{owner, rt, accountClassID, other})
		Expect(err).To(Succeed())
		Expect(deployer.AccountAddress(dp, owner, salt)).NotTo(Equal(deployer.AccountAddress(dp, bob, salt)))
	})

	It("falls back to the configured class and router", func() {
		is, err := util.Exec(ctx, owner, dp, "DeployAccount", []interface{}{owner, util.ZeroAddress, uint64(0), salt})
		Expect(err).To(Succeed())
		Expect(util.ViewAddress(ctx, is[0].(common.Address), "Router")).To(Equal(rt))
	})

	It("needs the owner's authorization and a full salt", func() {
		_, err := util.Exec(ctx, bob, dp, "DeployAccount", []interface{}{owner, rt, accountClassID, salt})
		Expect(err).To(MatchError(types.ErrNotAuthorized))
		_, err = util.Exec(ctx, owner, dp, "DeployAccount", []interface{}{owner, rt, accountClassID, salt[:8]})
		Expect(err).To(MatchError(deployer.ErrInvalidArgument))
		Expect(ctx.IsContract(deployer.AccountAddress(dp, owner, salt))).To(BeFalse())
	})
})
