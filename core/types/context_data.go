package types

import (
	"github.com/hoops-finance/hoops/common"
)

// ContextData is a state data of the context
type ContextData struct {
	ctx               *Context
	Parent            *ContextData
	ContractDefineMap map[common.Address]*ContractDefine
	DataMap           map[string][]byte
	DeletedDataMap    map[string]bool
	TTLMap            map[common.Address]uint32
	GrantMap          map[uint64]*AuthGrant
	UsedGrantMap      map[uint64]bool
	Events            []*Event
	Auths             []*AuthRecord
	isTop             bool
}

// NewContextData returns a ContextData
func NewContextData(ctx *Context, Parent *ContextData) *ContextData {
	ctd := &ContextData{
		ctx:               ctx,
		Parent:            Parent,
		ContractDefineMap: map[common.Address]*ContractDefine{},
		DataMap:           map[string][]byte{},
		DeletedDataMap:    map[string]bool{},
		TTLMap:            map[common.Address]uint32{},
		GrantMap:          map[uint64]*AuthGrant{},
		UsedGrantMap:      map[uint64]bool{},
		Events:            []*Event{},
		Auths:             []*AuthRecord{},
		isTop:             true,
	}
	return ctd
}

func dataKey(cont common.Address, addr common.Address, name []byte) string {
	return string(cont[:]) + string(addr[:]) + string(name)
}

// IsContract returns is the contract
func (ctd *ContextData) IsContract(addr common.Address) bool {
	if _, has := ctd.ContractDefineMap[addr]; has {
		return true
	} else if ctd.Parent != nil {
		return ctd.Parent.IsContract(addr)
	}
	return false
}

// ContractDefine returns the define of the contract
func (ctd *ContextData) ContractDefine(addr common.Address) (*ContractDefine, bool) {
	if cd, has := ctd.ContractDefineMap[addr]; has {
		return cd, true
	} else if ctd.Parent != nil {
		return ctd.Parent.ContractDefine(addr)
	}
	return nil, false
}

// Contract returns the contract
func (ctd *ContextData) Contract(addr common.Address) (Contract, error) {
	cd, has := ctd.ContractDefine(addr)
	if !has {
		return nil, ErrNotExistContract
	}
	return CreateContract(cd)
}

// LiveUntil returns the live_until ledger of the contract instance
func (ctd *ContextData) LiveUntil(addr common.Address) (uint32, bool) {
	if v, has := ctd.TTLMap[addr]; has {
		return v, true
	} else if ctd.Parent != nil {
		return ctd.Parent.LiveUntil(addr)
	}
	return 0, false
}

// SetLiveUntil updates the live_until ledger of the contract instance
func (ctd *ContextData) SetLiveUntil(addr common.Address, seq uint32) {
	ctd.TTLMap[addr] = seq
}

// Data returns the data
func (ctd *ContextData) Data(cont common.Address, addr common.Address, name []byte) []byte {
	key := dataKey(cont, addr, name)
	if _, has := ctd.DeletedDataMap[key]; has {
		return nil
	}
	if value, has := ctd.DataMap[key]; has {
		return value
	} else if ctd.Parent != nil {
		value := ctd.Parent.Data(cont, addr, name)
		if len(value) == 0 {
			return nil
		}
		if ctd.isTop {
			nvalue := make([]byte, len(value))
			copy(nvalue, value)
			return nvalue
		}
		return value
	}
	return nil
}

// SetData inserts the data
func (ctd *ContextData) SetData(cont common.Address, addr common.Address, name []byte, value []byte) {
	key := dataKey(cont, addr, name)
	if len(value) == 0 {
		delete(ctd.DataMap, key)
		ctd.DeletedDataMap[key] = true
	} else {
		delete(ctd.DeletedDataMap, key)
		ctd.DataMap[key] = value
	}
}

// EmitEvent appends the event to the snapshot
func (ctd *ContextData) EmitEvent(ev *Event) {
	ctd.Events = append(ctd.Events, ev)
}

// AddAuth appends the auth record to the snapshot
func (ctd *ContextData) AddAuth(ar *AuthRecord) {
	ctd.Auths = append(ctd.Auths, ar)
}

// AddGrant stores the grant under the id
func (ctd *ContextData) AddGrant(id uint64, g *AuthGrant) {
	ctd.GrantMap[id] = g
}

// EachGrant calls fn for every unused grant visible from the snapshot
func (ctd *ContextData) EachGrant(fn func(id uint64, g *AuthGrant) bool) {
	used := map[uint64]bool{}
	for c := ctd; c != nil; c = c.Parent {
		for id := range c.UsedGrantMap {
			used[id] = true
		}
		for id, g := range c.GrantMap {
			if used[id] {
				continue
			}
			if !fn(id, g) {
				return
			}
		}
	}
}

// UseGrant marks the grant consumed
func (ctd *ContextData) UseGrant(id uint64) {
	ctd.UsedGrantMap[id] = true
}

func (ctd *ContextData) merge(src *ContextData) {
	for addr, cd := range src.ContractDefineMap {
		ctd.ContractDefineMap[addr] = cd
	}
	for key, value := range src.DataMap {
		delete(ctd.DeletedDataMap, key)
		ctd.DataMap[key] = value
	}
	for key := range src.DeletedDataMap {
		delete(ctd.DataMap, key)
		ctd.DeletedDataMap[key] = true
	}
	for addr, seq := range src.TTLMap {
		ctd.TTLMap[addr] = seq
	}
	for id, g := range src.GrantMap {
		ctd.GrantMap[id] = g
	}
	for id := range src.UsedGrantMap {
		if _, has := ctd.GrantMap[id]; has {
			delete(ctd.GrantMap, id)
		} else {
			ctd.UsedGrantMap[id] = true
		}
	}
	ctd.Events = append(ctd.Events, src.Events...)
	ctd.Auths = append(ctd.Auths, src.Auths...)
}
