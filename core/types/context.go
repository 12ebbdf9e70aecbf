package types

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/pkg/errors"
)

// ledger constants
const (
	LedgerCloseSeconds = 5
	LedgersPerDay      = 17280
	DefaultInstanceTTL = 30 * LedgersPerDay
	MaxCallDepth       = 16
)

// Ledger is the host clock
type Ledger struct {
	Timestamp uint64
	Sequence  uint32
}

// Context is an intermediate in-memory state using the context data stack between transactions
type Context struct {
	ledger      Ledger
	stack       []*ContextData
	deployNonce uint64
	grantNonce  uint64
	tx          *Transaction
	receiptN    uint64
	handlers    []func(*Receipt)
}

// NewContext returns a Context
func NewContext(l Ledger) *Context {
	ctx := &Context{
		ledger: l,
	}
	ctx.stack = []*ContextData{NewContextData(ctx, nil)}
	return ctx
}

// Ledger returns the current ledger
func (ctx *Context) Ledger() Ledger {
	return ctx.ledger
}

// SetLedger moves the host clock
func (ctx *Context) SetLedger(l Ledger) {
	ctx.ledger = l
}

// AdvanceLedger closes n ledgers
func (ctx *Context) AdvanceLedger(n uint32) {
	ctx.ledger.Sequence += n
	ctx.ledger.Timestamp += uint64(n) * LedgerCloseSeconds
}

// Top returns the top snapshot
func (ctx *Context) Top() *ContextData {
	return ctx.stack[len(ctx.stack)-1]
}

// IsContract returns is the contract
func (ctx *Context) IsContract(addr common.Address) bool {
	return ctx.Top().IsContract(addr)
}

// Contract returns the contract instance of the address
func (ctx *Context) Contract(addr common.Address) (Contract, error) {
	return ctx.Top().Contract(addr)
}

// LiveUntil returns the last ledger the contract instance is live
func (ctx *Context) LiveUntil(addr common.Address) (uint32, bool) {
	return ctx.Top().LiveUntil(addr)
}

// OnReceipt adds a handler called after every committed transaction
func (ctx *Context) OnReceipt(fn func(*Receipt)) {
	ctx.handlers = append(ctx.handlers, fn)
}

// ContractContext returns a ContractContext of the contract called by from
func (ctx *Context) ContractContext(cont common.Address, from common.Address) *ContractContext {
	intr := newInteractor(ctx)
	return &ContractContext{
		cont:  cont,
		from:  from,
		depth: 1,
		ctx:   ctx,
		Exec:  intr.Exec,
	}
}

func (ctx *Context) nextDeployNonce() uint64 {
	ctx.deployNonce++
	return ctx.deployNonce
}

// DeployContract deploys the contract at an address derived from the owner and a host nonce
func (ctx *Context) DeployContract(owner common.Address, ClassID uint64, Args []byte) (Contract, error) {
	base := make([]byte, 0, 1+common.AddressLength+16)
	base = append(base, 0xff)
	base = append(base, owner[:]...)
	base = append(base, bin.Uint64Bytes(ClassID)...)
	base = append(base, bin.Uint64Bytes(ctx.nextDeployNonce())...)
	h := hash.Hash(base)
	addr := common.BytesToAddress(h[12:])
	return ctx.DeployContractWithAddress(owner, ClassID, addr, Args)
}

// DeployContractWithAddress deploys the contract at the given address
func (ctx *Context) DeployContractWithAddress(owner common.Address, ClassID uint64, addr common.Address, Args []byte) (Contract, error) {
	if !IsValidClassID(ClassID) {
		return nil, errors.WithStack(ErrInvalidClassID)
	}
	if ctx.IsContract(addr) {
		return nil, errors.Wrap(ErrExistContract, addr.String())
	}
	cd := &ContractDefine{
		Address: addr,
		Owner:   owner,
		ClassID: ClassID,
	}
	cont, err := CreateContract(cd)
	if err != nil {
		return nil, err
	}
	sn := ctx.Snapshot()
	top := ctx.Top()
	top.ContractDefineMap[addr] = cd
	top.TTLMap[addr] = ctx.ledger.Sequence + DefaultInstanceTTL
	if err := cont.OnCreate(ctx.ContractContext(addr, owner), Args); err != nil {
		ctx.Revert(sn)
		return nil, err
	}
	ctx.Commit(sn)
	return cont, nil
}

// Snapshot push a snapshot and returns the snapshot number of it
func (ctx *Context) Snapshot() int {
	ctd := NewContextData(ctx, ctx.Top())
	ctx.Top().isTop = false
	ctx.stack = append(ctx.stack, ctd)
	return len(ctx.stack)
}

// Revert removes snapshots after the snapshot number
func (ctx *Context) Revert(sn int) {
	if len(ctx.stack) >= sn {
		ctx.stack = ctx.stack[:sn-1]
	}
	ctx.Top().isTop = true
}

// Commit apply snapshots to the top after the snapshot number
func (ctx *Context) Commit(sn int) {
	for len(ctx.stack) >= sn {
		ctd := ctx.Top()
		ctx.stack = ctx.stack[:len(ctx.stack)-1]
		ctx.Top().merge(ctd)
	}
	ctx.Top().isTop = true
}

// StackSize returns the size of the context data stack
func (ctx *Context) StackSize() int {
	return len(ctx.stack)
}

// Execute runs the transaction as one unit: every state change is kept on success and dropped on error
func (ctx *Context) Execute(tx *Transaction) (*Receipt, error) {
	if ctx.tx != nil {
		return nil, errors.WithStack(ErrNestedTransaction)
	}
	ctx.tx = tx
	defer func() {
		ctx.tx = nil
	}()

	sn := ctx.Snapshot()
	layer := ctx.Top()
	intr := newInteractor(ctx)
	cc := &ContractContext{
		cont: tx.From,
		from: tx.From,
		ctx:  ctx,
		Exec: intr.Exec,
	}
	result, err := cc.Exec(cc, tx.To, tx.Method, tx.Args)
	if err != nil {
		ctx.Revert(sn)
		logger().Debug("transaction reverted", txFields(tx, err)...)
		return nil, err
	}
	ctx.receiptN++
	rt := &Receipt{
		TxHash:  tx.Hash(),
		Index:   ctx.receiptN,
		Ledger:  ctx.ledger,
		Results: result,
		Events:  layer.Events,
		Auths:   layer.Auths,
	}
	for i, ev := range rt.Events {
		ev.Index = uint32(i)
	}
	layer.GrantMap = map[uint64]*AuthGrant{}
	layer.UsedGrantMap = map[uint64]bool{}
	ctx.Commit(sn)
	for _, fn := range ctx.handlers {
		fn(rt)
	}
	return rt, nil
}

// Query calls the method without keeping any state change
func (ctx *Context) Query(to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	sn := ctx.Snapshot()
	defer ctx.Revert(sn)

	intr := newInteractor(ctx)
	cc := &ContractContext{
		ctx:  ctx,
		Exec: intr.Exec,
	}
	return cc.Exec(cc, to, method, args)
}
