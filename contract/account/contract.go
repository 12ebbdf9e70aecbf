// Package account is the user wallet contract. An account is owned by a
// key, or by a passkey once one is stored, and moves its funds to the
// router before every router call so the router never reaches back into
// the account for authorization.
package account

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/hoops-finance/hoops/contract/router"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

type AccountContract struct {
	addr   common.Address
	master common.Address
}

func (cont *AccountContract) Address() common.Address {
	return cont.addr
}

func (cont *AccountContract) Master() common.Address {
	return cont.master
}

func (cont *AccountContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *AccountContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	return nil
}

//////////////////////////////////////////////////
// Lifecycle
//////////////////////////////////////////////////

func (cont *AccountContract) isInitialized(cc *types.ContractContext) bool {
	return len(cc.ContractData([]byte{tagOwner})) > 0
}

func (cont *AccountContract) owner(cc *types.ContractContext) (common.Address, error) {
	bs := cc.ContractData([]byte{tagOwner})
	if len(bs) == 0 {
		return ZeroAddress, errors.Wrap(ErrNotAuthorized, "account not initialized")
	}
	return common.BytesToAddress(bs), nil
}

func (cont *AccountContract) router(cc *types.ContractContext) (common.Address, error) {
	bs := cc.ContractData([]byte{tagRouter})
	if len(bs) == 0 {
		return ZeroAddress, errors.Wrap(ErrNotAuthorized, "account not initialized")
	}
	return common.BytesToAddress(bs), nil
}

func (cont *AccountContract) passkey(cc *types.ContractContext) []byte {
	return cc.ContractData([]byte{tagPasskey})
}

func (cont *AccountContract) store(cc *types.ContractContext, owner common.Address, rt common.Address) error {
	if !cc.IsContract(rt) {
		return errors.Wrapf(ErrInvalidArgument, "router %v is not a contract", rt.String())
	}
	cc.SetContractData([]byte{tagOwner}, owner[:])
	cc.SetContractData([]byte{tagRouter}, rt[:])
	return nil
}

func (cont *AccountContract) initialize(cc *types.ContractContext, owner common.Address, rt common.Address) error {
	if cont.isInitialized(cc) {
		return errors.WithStack(ErrAlreadyInitialized)
	}
	if err := cc.RequireAuth(owner); err != nil {
		return err
	}
	if err := cont.store(cc, owner, rt); err != nil {
		return err
	}
	cc.EmitEvent([]string{"acct", "init"}, owner, rt)
	return nil
}

func (cont *AccountContract) initializeWithPasskey(cc *types.ContractContext, owner common.Address, rt common.Address, pubkey []byte) error {
	if cont.isInitialized(cc) {
		return errors.WithStack(ErrAlreadyInitialized)
	}
	if _, _, err := parsePasskey(pubkey); err != nil {
		return err
	}
	if err := cont.store(cc, owner, rt); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagPasskey}, pubkey)
	cc.EmitEvent([]string{"acct", "init"}, owner, rt)
	return nil
}

// requireOwner asks the passkey when one is stored and the owner key otherwise
func (cont *AccountContract) requireOwner(cc *types.ContractContext) (common.Address, error) {
	owner, err := cont.owner(cc)
	if err != nil {
		return ZeroAddress, err
	}
	if len(cont.passkey(cc)) > 0 {
		return owner, cc.RequireAuth(cont.addr)
	}
	return owner, cc.RequireAuth(owner)
}

func (cont *AccountContract) setPasskeyPubkey(cc *types.ContractContext, pubkey []byte) error {
	if _, err := cont.requireOwner(cc); err != nil {
		return err
	}
	if _, _, err := parsePasskey(pubkey); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagPasskey}, pubkey)
	cc.EmitEvent([]string{"acct", "passkey"}, cont.addr)
	return nil
}

func (cont *AccountContract) upgrade(cc *types.ContractContext, classID uint64) error {
	if _, err := cont.requireOwner(cc); err != nil {
		return err
	}
	if err := cc.UpdateClassID(classID); err != nil {
		return err
	}
	cc.EmitEvent([]string{"acct", "upgrade"}, classID)
	return nil
}

// CheckAuth verifies a WebAuthn assertion over the transaction payload
func (cont *AccountContract) CheckAuth(cc *types.ContractContext, payload hash.Hash256, credential []byte) error {
	pk := cont.passkey(cc)
	if len(pk) == 0 {
		return errors.WithStack(ErrPasskeyNotSet)
	}
	sig := &Secp256r1Signature{}
	if _, err := sig.ReadFrom(bytes.NewReader(credential)); err != nil {
		return errors.Wrap(ErrInvalidArgument, err.Error())
	}
	return verifyPasskey(pk, payload, sig)
}

//////////////////////////////////////////////////
// Funds
//////////////////////////////////////////////////

func (cont *AccountContract) transfer(cc *types.ContractContext, token common.Address, to common.Address, am *amount.Amount) error {
	if _, err := cont.requireOwner(cc); err != nil {
		return err
	}
	if !IsPlusAmount(am) {
		return errors.Wrap(ErrInvalidArgument, "amount")
	}
	if err := TokenTransfer(cc, token, cont.addr, to, am); err != nil {
		return err
	}
	cc.EmitEvent([]string{"acct", "xfer"}, token, am)
	return nil
}

// deposit moves every plan leg and the unallocated part of the usdc budget
// to the router, the router keeps the latter as the account's idle float
func (cont *AccountContract) deposit(cc *types.ContractContext, usdc common.Address, budget *amount.Amount, plans []*router.LpPlan, deadline uint64) error {
	if _, err := cont.requireOwner(cc); err != nil {
		return err
	}
	if budget == nil || budget.Sign() < 0 {
		return errors.Wrap(ErrInvalidArgument, "budget")
	}
	rt, err := cont.router(cc)
	if err != nil {
		return err
	}

	usdcLegs := amount.NewAmount(0)
	for _, p := range plans {
		if p == nil || !IsPlusAmount(p.AmountA) || !IsPlusAmount(p.AmountB) {
			return errors.Wrap(ErrInvalidArgument, "plan")
		}
		if err := TokenTransfer(cc, p.TokenA, cont.addr, rt, p.AmountA); err != nil {
			return err
		}
		if err := TokenTransfer(cc, p.TokenB, cont.addr, rt, p.AmountB); err != nil {
			return err
		}
		if p.TokenA == usdc {
			usdcLegs = usdcLegs.Add(p.AmountA)
		}
		if p.TokenB == usdc {
			usdcLegs = usdcLegs.Add(p.AmountB)
		}
	}
	if budget.Less(usdcLegs) {
		return errors.Wrapf(ErrInvalidArgument, "budget %v below usdc legs %v", budget.String(), usdcLegs.String())
	}
	if idle := budget.Sub(usdcLegs); idle.IsPlus() {
		if err := TokenTransfer(cc, usdc, cont.addr, rt, idle); err != nil {
			return err
		}
	}

	if err := router.NewClient(cc, rt).ProvideLiquidity(budget, plans, cont.addr, deadline); err != nil {
		return err
	}
	cc.EmitEvent([]string{"acct", "dep"}, usdc, budget)
	return nil
}

// redeem hands the shares to the router and sweeps every usdc the account
// holds afterwards to the owner
func (cont *AccountContract) redeem(cc *types.ContractContext, lp common.Address, lpAmount *amount.Amount, usdc common.Address, deadline uint64) error {
	owner, err := cont.requireOwner(cc)
	if err != nil {
		return err
	}
	if !IsPlusAmount(lpAmount) {
		return errors.Wrap(ErrInvalidArgument, "lp amount")
	}
	rt, err := cont.router(cc)
	if err != nil {
		return err
	}
	if err := TokenTransfer(cc, lp, cont.addr, rt, lpAmount); err != nil {
		return err
	}
	if err := router.NewClient(cc, rt).RedeemLiquidity(lp, lpAmount, cont.addr, deadline); err != nil {
		return err
	}

	bal, err := TokenBalance(cc, usdc, cont.addr)
	if err != nil {
		return err
	}
	if bal.IsPlus() {
		if err := TokenTransfer(cc, usdc, cont.addr, owner, bal); err != nil {
			return err
		}
	}
	cc.EmitEvent([]string{"acct", "wd"}, usdc, bal)
	return nil
}

func (cont *AccountContract) swap(cc *types.ContractContext, tokenIn common.Address, tokenOut common.Address, am *amount.Amount, bestHop common.Address, deadline uint64, minOut *amount.Amount) (*amount.Amount, error) {
	if _, err := cont.requireOwner(cc); err != nil {
		return nil, err
	}
	if !IsPlusAmount(am) {
		return nil, errors.Wrap(ErrInvalidArgument, "amount")
	}
	rt, err := cont.router(cc)
	if err != nil {
		return nil, err
	}
	if err := TokenTransfer(cc, tokenIn, cont.addr, rt, am); err != nil {
		return nil, err
	}
	out, err := router.NewClient(cc, rt).Swap(am, tokenIn, tokenOut, bestHop, cont.addr, deadline, minOut)
	if err != nil {
		return nil, err
	}
	cc.EmitEvent([]string{"acct", "swap"}, tokenIn, am)
	return out, nil
}
