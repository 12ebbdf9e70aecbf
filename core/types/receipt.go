package types

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/hash"
)

// Receipt is the outcome of a committed transaction
type Receipt struct {
	TxHash  hash.Hash256  `json:"tx_hash"`
	Index   uint64        `json:"index"`
	Ledger  Ledger        `json:"ledger"`
	Results []interface{} `json:"results"`
	Events  []*Event      `json:"events"`
	Auths   []*AuthRecord `json:"-"`
}

// AuthsOf returns the auth records of the address
func (rt *Receipt) AuthsOf(addr common.Address) []*AuthRecord {
	list := []*AuthRecord{}
	for _, v := range rt.Auths {
		if v.Address == addr {
			list = append(list, v)
		}
	}
	return list
}

// MaxAuthDepth returns the deepest frame that required auth of the address
func (rt *Receipt) MaxAuthDepth(addr common.Address) int {
	max := 0
	for _, v := range rt.AuthsOf(addr) {
		if v.Depth > max {
			max = v.Depth
		}
	}
	return max
}

// EventsOf returns the events emitted by the contract
func (rt *Receipt) EventsOf(cont common.Address) []*Event {
	list := []*Event{}
	for _, v := range rt.Events {
		if v.Contract == cont {
			list = append(list, v)
		}
	}
	return list
}
