package adapter

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/core/types"
)

// event names, the second topic of every adapter event
const (
	EventInit    = "init"
	EventSwap    = "swap"
	EventAddLp   = "addlp"
	EventRemLp   = "remlp"
	EventUpgrade = "upgrade"
)

type InitEvent struct {
	Amm common.Address `json:"amm"`
}

type SwapEvent struct {
	AmtIn  *amount.Amount   `json:"amt_in"`
	AmtOut *amount.Amount   `json:"amt_out"`
	Path   []common.Address `json:"path"`
	To     common.Address   `json:"to"`
}

type AddLpEvent struct {
	TokenA common.Address `json:"token_a"`
	TokenB common.Address `json:"token_b"`
	Lp     common.Address `json:"lp"`
	To     common.Address `json:"to"`
}

type RemLpEvent struct {
	Lp common.Address `json:"lp"`
	To common.Address `json:"to"`
}

func (b *Base) emit(cc *types.ContractContext, name string, data interface{}) {
	cc.EmitEvent([]string{b.proto.Name, name}, data)
}

func (b *Base) EmitSwap(cc *types.ContractContext, amtIn *amount.Amount, amtOut *amount.Amount, path []common.Address, to common.Address) {
	b.emit(cc, EventSwap, &SwapEvent{
		AmtIn:  amtIn.Clone(),
		AmtOut: amtOut.Clone(),
		Path:   append([]common.Address{}, path...),
		To:     to,
	})
}

func (b *Base) EmitAddLp(cc *types.ContractContext, tokenA common.Address, tokenB common.Address, lp common.Address, to common.Address) {
	b.emit(cc, EventAddLp, &AddLpEvent{
		TokenA: tokenA,
		TokenB: tokenB,
		Lp:     lp,
		To:     to,
	})
}

func (b *Base) EmitRemLp(cc *types.ContractContext, lp common.Address, to common.Address) {
	b.emit(cc, EventRemLp, &RemLpEvent{
		Lp: lp,
		To: to,
	})
}
