package token

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/core/types"
)

// token errors
var (
	ErrNegativeAmount        = errors.New("Token: NEGATIVE_AMOUNT")
	ErrInsufficientBalance   = errors.New("Token: TRANSFER_EXCEED_BALANCE")
	ErrInsufficientAllowance = errors.New("Token: TRANSFER_EXCEED_ALLOWANCE")
	ErrPastExpiration        = errors.New("Token: EXPIRATION_IN_THE_PAST")
	ErrAlreadyMinter         = errors.New("Token: ALREADY_MINTER")
	ErrNotMinter             = errors.New("Token: NOT_MINTER")
)

type TokenContract struct {
	addr   common.Address
	master common.Address
}

func (cont *TokenContract) Address() common.Address {
	return cont.addr
}

func (cont *TokenContract) Master() common.Address {
	return cont.master
}

func (cont *TokenContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *TokenContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &TokenContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagTokenName}, []byte(data.Name))
	cc.SetContractData([]byte{tagTokenSymbol}, []byte(data.Symbol))
	cc.SetContractData([]byte{tagTokenDecimals}, []byte{data.Decimals})
	for k, v := range data.InitialSupplyMap {
		if err := cont.addBalance(cc, k, v); err != nil {
			return err
		}
		cont.addSupply(cc, v)
	}
	return nil
}

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func checkAmount(am *amount.Amount) error {
	if am == nil || am.Int == nil || am.Sign() < 0 {
		return errors.WithStack(ErrNegativeAmount)
	}
	return nil
}

func (cont *TokenContract) addBalance(cc *types.ContractContext, addr common.Address, am *amount.Amount) error {
	if err := checkAmount(am); err != nil {
		return err
	}
	bal := cont.Balance(cc, addr).Add(am)
	cc.SetAccountData(addr, []byte{tagTokenAmount}, bal.Bytes())
	return nil
}

func (cont *TokenContract) subBalance(cc *types.ContractContext, addr common.Address, am *amount.Amount) error {
	if err := checkAmount(am); err != nil {
		return err
	}
	bal := cont.Balance(cc, addr)
	if bal.Less(am) {
		return errors.Wrapf(ErrInsufficientBalance, "%v has %v want %v", addr.String(), bal.String(), am.String())
	}
	bal = bal.Sub(am)
	if bal.IsZero() {
		cc.SetAccountData(addr, []byte{tagTokenAmount}, nil)
	} else {
		cc.SetAccountData(addr, []byte{tagTokenAmount}, bal.Bytes())
	}
	return nil
}

func (cont *TokenContract) addSupply(cc *types.ContractContext, am *amount.Amount) {
	total := cont.TotalSupply(cc).Add(am)
	cc.SetContractData([]byte{tagTokenTotalSupply}, total.Bytes())
}

func (cont *TokenContract) move(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) error {
	if err := cont.subBalance(cc, From, Amount); err != nil {
		return err
	}
	if err := cont.addBalance(cc, To, Amount); err != nil {
		return err
	}
	cc.EmitEvent([]string{"transfer", From.String(), To.String()}, Amount.Clone())
	return nil
}

func (cont *TokenContract) requireMinter(cc *types.ContractContext) error {
	if cont.IsMinter(cc, cc.From()) {
		return nil
	}
	return cc.RequireAuth(cont.master)
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

// Transfer moves Amount from From to To, From must authorize
func (cont *TokenContract) Transfer(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) error {
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if err := cc.RequireAuth(From); err != nil {
		return err
	}
	return cont.move(cc, From, To, Amount)
}

// TransferFrom moves Amount from From to To within the allowance Spender holds
func (cont *TokenContract) TransferFrom(cc *types.ContractContext, Spender common.Address, From common.Address, To common.Address, Amount *amount.Amount) error {
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if err := cc.RequireAuth(Spender); err != nil {
		return err
	}
	allowed := cont.Allowance(cc, From, Spender)
	if allowed.Less(Amount) {
		return errors.Wrapf(ErrInsufficientAllowance, "%v allows %v %v want %v", From.String(), Spender.String(), allowed.String(), Amount.String())
	}
	cc.SetAccountData(From, MakeAllowanceTokenKey(Spender), allowed.Sub(Amount).Bytes())
	return cont.move(cc, From, To, Amount)
}

// Approve sets the allowance of Spender over From until ExpirationLedger
func (cont *TokenContract) Approve(cc *types.ContractContext, From common.Address, Spender common.Address, Amount *amount.Amount, ExpirationLedger uint32) error {
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if err := cc.RequireAuth(From); err != nil {
		return err
	}
	if Amount.IsPlus() && ExpirationLedger < cc.Sequence() {
		return errors.WithStack(ErrPastExpiration)
	}
	cc.SetAccountData(From, MakeAllowanceTokenKey(Spender), Amount.Bytes())
	cc.SetAccountData(From, makeAllowanceExpirationKey(Spender), bin.Uint32Bytes(ExpirationLedger))
	cc.EmitEvent([]string{"approve", From.String(), Spender.String()}, Amount.Clone(), ExpirationLedger)
	return nil
}

// Mint creates Amount for To, the master or a minter must authorize
func (cont *TokenContract) Mint(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if err := cont.requireMinter(cc); err != nil {
		return err
	}
	return cont.MintTo(cc, To, Amount)
}

// Burn destroys Amount of From, From must authorize
func (cont *TokenContract) Burn(cc *types.ContractContext, From common.Address, Amount *amount.Amount) error {
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if err := cc.RequireAuth(From); err != nil {
		return err
	}
	return cont.BurnFrom(cc, From, Amount)
}

// MintTo credits To and grows the supply without an auth check.
// Contracts embedding the token gate it themselves.
func (cont *TokenContract) MintTo(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	if err := cont.addBalance(cc, To, Amount); err != nil {
		return err
	}
	cont.addSupply(cc, Amount)
	cc.EmitEvent([]string{"mint", To.String()}, Amount.Clone())
	return nil
}

// BurnFrom debits From and shrinks the supply without an auth check
func (cont *TokenContract) BurnFrom(cc *types.ContractContext, From common.Address, Amount *amount.Amount) error {
	if err := cont.subBalance(cc, From, Amount); err != nil {
		return err
	}
	cont.addSupply(cc, Amount.MulC(-1))
	cc.EmitEvent([]string{"burn", From.String()}, Amount.Clone())
	return nil
}

func (cont *TokenContract) SetMinter(cc *types.ContractContext, To common.Address, Is bool) error {
	if err := cc.RequireAuth(cont.master); err != nil {
		return err
	}
	isMinter := cont.IsMinter(cc, To)
	if Is {
		if isMinter {
			return errors.WithStack(ErrAlreadyMinter)
		}
		cc.SetAccountData(To, []byte{tagTokenMinter}, []byte{1})
	} else {
		if !isMinter {
			return errors.WithStack(ErrNotMinter)
		}
		cc.SetAccountData(To, []byte{tagTokenMinter}, nil)
	}
	return nil
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *TokenContract) Name(cc *types.ContractContext) string {
	return string(cc.ContractData([]byte{tagTokenName}))
}

func (cont *TokenContract) Symbol(cc *types.ContractContext) string {
	return string(cc.ContractData([]byte{tagTokenSymbol}))
}

func (cont *TokenContract) Decimals(cc *types.ContractContext) uint32 {
	bs := cc.ContractData([]byte{tagTokenDecimals})
	if len(bs) == 0 {
		return amount.FractionalCount
	}
	return uint32(bs[0])
}

func (cont *TokenContract) TotalSupply(cc *types.ContractContext) *amount.Amount {
	bs := cc.ContractData([]byte{tagTokenTotalSupply})
	return amount.NewAmountFromBytes(bs)
}

func (cont *TokenContract) Balance(cc *types.ContractContext, from common.Address) *amount.Amount {
	bs := cc.AccountData(from, []byte{tagTokenAmount})
	return amount.NewAmountFromBytes(bs)
}

func (cont *TokenContract) IsMinter(cc *types.ContractContext, addr common.Address) bool {
	bs := cc.AccountData(addr, []byte{tagTokenMinter})
	if len(bs) == 1 && bs[0] == 1 {
		return true
	}
	return false
}

// Allowance returns zero once the approval expired
func (cont *TokenContract) Allowance(cc *types.ContractContext, _owner common.Address, _spender common.Address) *amount.Amount {
	exp := cc.AccountData(_owner, makeAllowanceExpirationKey(_spender))
	if len(exp) == 0 || bin.Uint32(exp) < cc.Sequence() {
		return amount.NewAmount(0)
	}
	bs := cc.AccountData(_owner, MakeAllowanceTokenKey(_spender))
	return amount.NewAmountFromBytes(bs)
}
