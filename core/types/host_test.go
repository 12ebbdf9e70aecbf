package types_test

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Context", func() {
	var ctx *types.Context

	BeforeEach(func() {
		ctx = types.NewContext(types.Ledger{Timestamp: 1700000000, Sequence: 100})
	})

	It("deploys and calls", func() {
		v := deployVault(ctx, admin, 7)
		Expect(vaultValue(ctx, v)).To(Equal(uint64(7)))

		rt, err := ctx.Execute(types.NewTransaction(admin, v, "set", uint64(9)))
		Expect(err).To(Succeed())
		Expect(vaultValue(ctx, v)).To(Equal(uint64(9)))
		Expect(rt.Events).To(HaveLen(1))
		Expect(rt.Events[0].Topics).To(Equal([]string{"vault", "set"}))
		Expect(rt.Events[0].Contract).To(Equal(v))
		Expect(rt.AuthsOf(admin)).To(HaveLen(1))
		Expect(rt.AuthsOf(admin)[0].Kind).To(Equal(types.AuthByCaller))
		Expect(rt.AuthsOf(admin)[0].Depth).To(Equal(1))
	})

	It("rejects unknown contracts and methods", func() {
		_, err := ctx.Execute(types.NewTransaction(admin, alice, "Get"))
		Expect(err).To(MatchError(types.ErrNotExistContract))

		v := deployVault(ctx, admin, 0)
		_, err = ctx.Execute(types.NewTransaction(admin, v, ""))
		Expect(err).To(MatchError(types.ErrMethodNotGiven))
		_, err = ctx.Execute(types.NewTransaction(admin, v, "NoSuchMethod"))
		Expect(err).To(HaveOccurred())
		_, err = ctx.Execute(types.NewTransaction(admin, v, "Set", "not a number"))
		Expect(err).To(HaveOccurred())
	})

	It("reverts every change of a failed transaction", func() {
		v := deployVault(ctx, admin, 1)
		before := ctx.StateHash()

		_, err := ctx.Execute(types.NewTransaction(admin, v, "SetThenFail", uint64(5)))
		Expect(err).To(HaveOccurred())
		Expect(ctx.StateHash()).To(Equal(before))
		Expect(vaultValue(ctx, v)).To(Equal(uint64(1)))

		_, err = ctx.Execute(types.NewTransaction(admin, v, "SetThenPanic", uint64(5)))
		Expect(err).To(HaveOccurred())
		Expect(ctx.StateHash()).To(Equal(before))
		Expect(ctx.StackSize()).To(Equal(1))
	})

	It("keeps the caller state when a nested call fails and is handled", func() {
		a := deployVault(ctx, admin, 1)
		b := deployVault(ctx, admin, 2)

		rt, err := ctx.Execute(types.NewTransaction(admin, a, "TrySet", b, uint64(3)))
		Expect(err).To(Succeed())
		Expect(rt.Results).To(Equal([]interface{}{false}))
		Expect(vaultValue(ctx, a)).To(Equal(uint64(3)))
		Expect(vaultValue(ctx, b)).To(Equal(uint64(2)))
		Expect(rt.Events).To(BeEmpty())
	})

	It("does not keep query changes", func() {
		v := deployVault(ctx, admin, 1)
		before := ctx.StateHash()
		_, err := ctx.Query(v, "SetThenFail", uint64(4))
		Expect(err).To(HaveOccurred())
		Expect(ctx.StateHash()).To(Equal(before))
	})

	It("limits the call depth", func() {
		v := deployVault(ctx, admin, 0)
		_, err := ctx.Execute(types.NewTransaction(admin, v, "Recurse", uint64(types.MaxCallDepth-1)))
		Expect(err).To(Succeed())
		_, err = ctx.Execute(types.NewTransaction(admin, v, "Recurse", uint64(types.MaxCallDepth)))
		Expect(err).To(MatchError(types.ErrCallDepthExceeded))
	})

	It("archives instances past their ttl and extends them on bump", func() {
		v := deployVault(ctx, admin, 0)
		until, has := ctx.LiveUntil(v)
		Expect(has).To(BeTrue())
		Expect(until).To(Equal(uint32(100 + types.DefaultInstanceTTL)))

		ctx.AdvanceLedger(types.DefaultInstanceTTL - 10)
		_, err := ctx.Execute(types.NewTransaction(admin, v, "Bump", uint32(20), uint32(100)))
		Expect(err).To(Succeed())
		until, _ = ctx.LiveUntil(v)
		Expect(until).To(Equal(ctx.Ledger().Sequence + 100))

		_, err = ctx.Execute(types.NewTransaction(admin, v, "Bump", uint32(20), uint32(100)))
		Expect(err).To(Succeed())
		again, _ := ctx.LiveUntil(v)
		Expect(again).To(Equal(until))

		ctx.AdvanceLedger(101)
		_, err = ctx.Execute(types.NewTransaction(admin, v, "Get"))
		Expect(err).To(MatchError(types.ErrArchivedContract))
	})

	It("keeps a state hash independent of write order", func() {
		other := types.NewContext(types.Ledger{Timestamp: 1700000000, Sequence: 100})
		a1 := deployVault(ctx, admin, 1)
		a2 := deployVault(other, admin, 1)
		Expect(a1).To(Equal(a2))

		_, err := ctx.Execute(types.NewTransaction(admin, a1, "Set", uint64(2)))
		Expect(err).To(Succeed())
		_, err = ctx.Execute(types.NewTransaction(admin, a1, "Set", uint64(3)))
		Expect(err).To(Succeed())
		_, err = other.Execute(types.NewTransaction(admin, a2, "Set", uint64(3)))
		Expect(err).To(Succeed())
		Expect(ctx.StateHash()).To(Equal(other.StateHash()))
		Expect(ctx.ContractKeys(a1)).To(HaveLen(1))
	})

	It("delivers receipts to handlers", func() {
		v := deployVault(ctx, admin, 0)
		got := []*types.Receipt{}
		ctx.OnReceipt(func(rt *types.Receipt) {
			got = append(got, rt)
		})
		_, err := ctx.Execute(types.NewTransaction(admin, v, "Set", uint64(1)))
		Expect(err).To(Succeed())
		_, err = ctx.Execute(types.NewTransaction(alice, v, "Set", uint64(2)))
		Expect(err).To(HaveOccurred())
		Expect(got).To(HaveLen(1))
	})
})

var _ = Describe("Auth", func() {
	var ctx *types.Context

	BeforeEach(func() {
		ctx = types.NewContext(types.Ledger{Timestamp: 1700000000, Sequence: 100})
	})

	It("accepts transaction signers below the root frame", func() {
		a := deployVault(ctx, alice, 0)
		b := deployVault(ctx, admin, 0)

		rt, err := ctx.Execute(types.NewTransaction(admin, a, "Forward", b, uint64(5)))
		Expect(err).To(Succeed())
		auths := rt.AuthsOf(admin)
		Expect(auths).To(HaveLen(1))
		Expect(auths[0].Kind).To(Equal(types.AuthBySigner))
		Expect(auths[0].Depth).To(Equal(2))

		_, err = ctx.Execute(types.NewTransaction(alice, a, "Forward", b, uint64(6)))
		Expect(err).To(MatchError(types.ErrNotAuthorized))

		tx := types.NewTransaction(alice, a, "Forward", b, uint64(6))
		tx.Signers = []common.Address{admin}
		_, err = ctx.Execute(tx)
		Expect(err).To(Succeed())
		Expect(vaultValue(ctx, b)).To(Equal(uint64(6)))
	})

	It("consumes a contract grant once", func() {
		granter := deployVault(ctx, admin, 0)
		relay := deployVault(ctx, admin, 0)
		target := deployVault(ctx, admin, 0)

		_, err := ctx.Execute(types.NewTransaction(admin, granter, "GrantThenRelay", relay, relay, target, false))
		Expect(err).To(MatchError(types.ErrNotAuthorized))

		rt, err := ctx.Execute(types.NewTransaction(admin, granter, "GrantThenRelay", relay, relay, target, true))
		Expect(err).To(Succeed())
		auths := rt.AuthsOf(granter)
		Expect(auths).To(HaveLen(1))
		Expect(auths[0].Kind).To(Equal(types.AuthByGrant))
		Expect(auths[0].Contract).To(Equal(target))
		Expect(auths[0].Depth).To(Equal(3))

		_, err = ctx.Execute(types.NewTransaction(admin, relay, "Relay", target, granter))
		Expect(err).To(MatchError(types.ErrNotAuthorized))
	})

	It("refuses a grant made for another invoker", func() {
		granter := deployVault(ctx, admin, 0)
		relay := deployVault(ctx, admin, 0)
		other := deployVault(ctx, admin, 0)
		target := deployVault(ctx, admin, 0)

		_, err := ctx.Execute(types.NewTransaction(admin, granter, "GrantThenRelay", relay, other, target, true))
		Expect(err).To(MatchError(types.ErrNotAuthorized))

		rt, err := ctx.Execute(types.NewTransaction(admin, granter, "GrantThenRelay", other, other, target, true))
		Expect(err).To(Succeed())
		Expect(rt.AuthsOf(granter)[0].Kind).To(Equal(types.AuthByGrant))
	})

	It("never takes a contract as a signer", func() {
		v := deployVault(ctx, admin, 0)
		holder := deployVault(ctx, admin, 0)

		tx := types.NewTransaction(alice, v, "Guarded", holder)
		tx.Signers = []common.Address{holder}
		_, err := ctx.Execute(tx)
		Expect(err).To(MatchError(types.ErrNotAuthorized))
	})

	It("asks custom accounts to check the credential", func() {
		acc, err := ctx.DeployContract(admin, accountClassID, nil)
		Expect(err).To(Succeed())
		v := deployVault(ctx, admin, 0)

		tx := types.NewTransaction(alice, v, "Guarded", acc.Address())
		_, err = ctx.Execute(tx)
		Expect(err).To(MatchError(types.ErrNotAuthorized))

		tx.WithCredential(acc.Address(), []byte("wrong"))
		_, err = ctx.Execute(tx)
		Expect(err).To(MatchError(errBadEcho))

		h := tx.Hash()
		tx.WithCredential(acc.Address(), h[:])
		rt, err := ctx.Execute(tx)
		Expect(err).To(Succeed())
		Expect(rt.AuthsOf(acc.Address())[0].Kind).To(Equal(types.AuthByAccount))
		Expect(rt.MaxAuthDepth(acc.Address())).To(Equal(1))
	})
})

var _ = Describe("ContractError", func() {
	errA := types.NewContractError("adapter", 205, "DeadlinePassed")

	It("matches by scope and code", func() {
		Expect(types.NewContractError("adapter", 205, "other")).To(MatchError(errA))
		Expect(types.NewContractError("router", 205, "DeadlinePassed")).NotTo(MatchError(errA))
	})

	It("wraps a cause and keeps both matchable", func() {
		errR := types.NewContractError("router", 102, "ExternalFailure")
		err := errR.Wrap(errA.Wrap(nil))
		Expect(err).To(MatchError(errR))
		Expect(err).To(MatchError(errA))
		code, ok := types.ErrorCode(err)
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(uint32(102)))
	})
})
