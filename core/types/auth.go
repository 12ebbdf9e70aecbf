package types

import (
	"fmt"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/pkg/errors"
)

// AuthKind tells how an authorization was satisfied
type AuthKind uint8

// auth kinds
const (
	AuthByCaller AuthKind = iota + 1
	AuthBySigner
	AuthByGrant
	AuthByAccount
)

func (k AuthKind) String() string {
	switch k {
	case AuthByCaller:
		return "caller"
	case AuthBySigner:
		return "signer"
	case AuthByGrant:
		return "grant"
	case AuthByAccount:
		return "account"
	default:
		return fmt.Sprintf("AuthKind(%d)", uint8(k))
	}
}

// AuthRecord is one satisfied RequireAuth
type AuthRecord struct {
	Address  common.Address
	Contract common.Address
	Method   string
	Depth    int
	Kind     AuthKind
}

// AuthGrant lets Contract.Method act for Granter once when it is called by Invoker
type AuthGrant struct {
	Granter  common.Address
	Invoker  common.Address
	Contract common.Address
	Method   string
	Depth    int
}

// AuthorizeAsCurrentContract grants the authority of the running contract to one call of
// contract.method made by invoker
func (cc *ContractContext) AuthorizeAsCurrentContract(invoker common.Address, contract common.Address, method string) {
	cc.ctx.grantNonce++
	cc.ctx.Top().AddGrant(cc.ctx.grantNonce, &AuthGrant{
		Granter:  cc.cont,
		Invoker:  invoker,
		Contract: contract,
		Method:   exportedName(method),
		Depth:    cc.depth,
	})
}

// RequireAuth fails unless addr authorized the running call
func (cc *ContractContext) RequireAuth(addr common.Address) error {
	kind, err := cc.checkAuth(addr)
	if err != nil {
		return err
	}
	cc.ctx.Top().AddAuth(&AuthRecord{
		Address:  addr,
		Contract: cc.cont,
		Method:   cc.method,
		Depth:    cc.depth,
		Kind:     kind,
	})
	return nil
}

func (cc *ContractContext) checkAuth(addr common.Address) (AuthKind, error) {
	if addr == cc.from {
		return AuthByCaller, nil
	}

	top := cc.ctx.Top()
	var grantID uint64
	granted := false
	top.EachGrant(func(id uint64, g *AuthGrant) bool {
		if g.Granter == addr && g.Invoker == cc.from && g.Contract == cc.cont && g.Method == cc.method && cc.depth > g.Depth+1 {
			grantID = id
			granted = true
			return false
		}
		return true
	})
	if granted {
		top.UseGrant(grantID)
		return AuthByGrant, nil
	}

	tx := cc.ctx.tx
	if tx == nil {
		return 0, errors.Wrap(ErrNotAuthorized, addr.String())
	}
	// a contract never signs, it authorizes as caller, by grant or through CheckAuth
	if cd, has := top.ContractDefine(addr); has {
		cont, err := CreateContract(cd)
		if err != nil {
			return 0, err
		}
		if acc, ok := cont.(CustomAccount); ok {
			cred, has := tx.Credentials[addr]
			if !has {
				return 0, errors.Wrap(ErrNotAuthorized, addr.String())
			}
			if err := cc.checkAccountAuth(addr, acc, tx.Hash(), cred); err != nil {
				return 0, err
			}
			return AuthByAccount, nil
		}
		return 0, errors.Wrap(ErrNotAuthorized, addr.String())
	}
	if tx.IsSigner(addr) {
		return AuthBySigner, nil
	}
	return 0, errors.Wrap(ErrNotAuthorized, addr.String())
}

func (cc *ContractContext) checkAccountAuth(addr common.Address, acc CustomAccount, payload hash.Hash256, cred []byte) (err error) {
	ecc := &ContractContext{
		cont:   addr,
		from:   cc.cont,
		method: "CheckAuth",
		depth:  cc.depth + 1,
		ctx:    cc.ctx,
		Exec:   cc.Exec,
	}
	sn := cc.ctx.Snapshot()
	defer cc.ctx.Revert(sn)
	defer func() {
		if v := recover(); v != nil {
			err = errors.Wrapf(ErrInvalidCredential, "check auth of %v: %v", addr.String(), v)
		}
	}()
	return acc.CheckAuth(ecc, payload, cred)
}
