package types

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/pkg/errors"
)

// ContractContext is an context for the contract
type ContractContext struct {
	cont   common.Address
	from   common.Address
	method string
	depth  int
	ctx    *Context
	Exec   ExecFunc
}

// Address returns the address of the running contract
func (cc *ContractContext) Address() common.Address {
	return cc.cont
}

// From returns the direct caller address
func (cc *ContractContext) From() common.Address {
	return cc.from
}

// Method returns the running method name
func (cc *ContractContext) Method() string {
	return cc.method
}

// Depth returns the call depth of the frame, 1 for the contract the transaction targets
func (cc *ContractContext) Depth() int {
	return cc.depth
}

// Timestamp returns the ledger close time
func (cc *ContractContext) Timestamp() uint64 {
	return cc.ctx.ledger.Timestamp
}

// Sequence returns the ledger sequence
func (cc *ContractContext) Sequence() uint32 {
	return cc.ctx.ledger.Sequence
}

// ContractData returns the contract data from the top snapshot
func (cc *ContractContext) ContractData(name []byte) []byte {
	return cc.ctx.Top().Data(cc.cont, common.Address{}, name)
}

// SetContractData inserts the contract data to the top snapshot
func (cc *ContractContext) SetContractData(name []byte, value []byte) {
	cc.ctx.Top().SetData(cc.cont, common.Address{}, name, value)
}

// AccountData returns the account data from the top snapshot
func (cc *ContractContext) AccountData(addr common.Address, name []byte) []byte {
	return cc.ctx.Top().Data(cc.cont, addr, name)
}

// SetAccountData inserts the account data to the top snapshot
func (cc *ContractContext) SetAccountData(addr common.Address, name []byte, value []byte) {
	cc.ctx.Top().SetData(cc.cont, addr, name, value)
}

// IsContract returns is the contract
func (cc *ContractContext) IsContract(addr common.Address) bool {
	return cc.ctx.Top().IsContract(addr)
}

// ClassID returns the class id of the contract at the address
func (cc *ContractContext) ClassID(addr common.Address) (uint64, bool) {
	cd, has := cc.ctx.Top().ContractDefine(addr)
	if !has {
		return 0, false
	}
	return cd.ClassID, true
}

// DeployContract deploys a contract owned by owner
func (cc *ContractContext) DeployContract(owner common.Address, ClassID uint64, Args []byte) (Contract, error) {
	return cc.ctx.DeployContract(owner, ClassID, Args)
}

// DeployContractWithAddress deploys a contract owned by owner at the address
func (cc *ContractContext) DeployContractWithAddress(owner common.Address, ClassID uint64, addr common.Address, Args []byte) (Contract, error) {
	return cc.ctx.DeployContractWithAddress(owner, ClassID, addr, Args)
}

// UpdateClassID rebinds the running contract to another class, its storage is kept
func (cc *ContractContext) UpdateClassID(ClassID uint64) error {
	if !IsValidClassID(ClassID) {
		return errors.WithStack(ErrInvalidClassID)
	}
	top := cc.ctx.Top()
	cd, has := top.ContractDefine(cc.cont)
	if !has {
		return errors.Wrap(ErrNotExistContract, cc.cont.String())
	}
	ncd := cd.Clone()
	ncd.ClassID = ClassID
	top.ContractDefineMap[cc.cont] = ncd
	return nil
}

// EmitEvent records an event of the running contract
func (cc *ContractContext) EmitEvent(topics []string, data ...interface{}) {
	cc.ctx.Top().EmitEvent(&Event{
		Ledger:   cc.ctx.ledger.Sequence,
		Contract: cc.cont,
		Topics:   topics,
		Data:     data,
	})
}

// LiveUntil returns the live_until ledger of the running contract instance
func (cc *ContractContext) LiveUntil() uint32 {
	v, _ := cc.ctx.Top().LiveUntil(cc.cont)
	return v
}

// ExtendTTL moves live_until to extendTo ledgers ahead when at most threshold ledgers remain
func (cc *ContractContext) ExtendTTL(threshold uint32, extendTo uint32) error {
	if threshold > extendTo {
		return errors.Errorf("ttl threshold %v exceeds extend_to %v", threshold, extendTo)
	}
	seq := cc.ctx.ledger.Sequence
	liveUntil, _ := cc.ctx.Top().LiveUntil(cc.cont)
	if liveUntil >= seq && liveUntil-seq > threshold {
		return nil
	}
	cc.ctx.Top().SetLiveUntil(cc.cont, seq+extendTo)
	return nil
}
