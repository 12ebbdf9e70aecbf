package router

import (
	"io"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/contract/adapter"
)

// PoolType names the protocol a discovery sweep reads
type PoolType uint32

const (
	PoolSoroswap PoolType = 0
	PoolAqua     PoolType = 1
	PoolPhoenix  PoolType = 2
	PoolComet    PoolType = 3
)

func (t PoolType) String() string {
	switch t {
	case PoolSoroswap:
		return "soroswap"
	case PoolAqua:
		return "aqua"
	case PoolPhoenix:
		return "phoenix"
	case PoolComet:
		return "comet"
	}
	return "unknown"
}

// AdapterID is the protocol id the discovered markets are routed through
func (t PoolType) AdapterID() uint32 {
	switch t {
	case PoolAqua:
		return adapter.ProtocolAqua
	case PoolPhoenix:
		return adapter.ProtocolPhoenix
	case PoolComet:
		return adapter.ProtocolComet
	}
	return adapter.ProtocolSoroswap
}

// market curve kinds
const (
	CurveConstantProduct uint32 = 0
	CurveStable          uint32 = 1
	CurveWeighted        uint32 = 2
)

// CoreConfig is written once by Initialize, admin calls change Usdc only
type CoreConfig struct {
	Admin   common.Address `json:"admin"`
	Version uint32         `json:"version"`
	Usdc    common.Address `json:"usdc"`
}

func (s *CoreConfig) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Admin); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.Version); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Usdc); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *CoreConfig) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Admin); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.Version); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Usdc); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

type AdapterRegistration struct {
	AdapterID      uint32         `json:"adapter_id"`
	AdapterAddress common.Address `json:"adapter_address"`
}

type registrations []*AdapterRegistration

func (s registrations) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Uint32(w, uint32(len(s))); err != nil {
		return sum, err
	}
	for _, v := range s {
		if sum, err := sw.Uint32(w, v.AdapterID); err != nil {
			return sum, err
		}
		if sum, err := sw.Address(w, v.AdapterAddress); err != nil {
			return sum, err
		}
	}
	return sw.Sum(), nil
}

func (s *registrations) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	n, sum, err := sr.GetUint32(r)
	if err != nil {
		return sum, err
	}
	list := make(registrations, 0, n)
	for i := uint32(0); i < n; i++ {
		v := &AdapterRegistration{}
		if sum, err := sr.Uint32(r, &v.AdapterID); err != nil {
			return sum, err
		}
		if sum, err := sr.Address(r, &v.AdapterAddress); err != nil {
			return sum, err
		}
		list = append(list, v)
	}
	*s = list
	return sr.Sum(), nil
}

// MarketData is a pool snapshot, TokenA < TokenB and the reserves follow them
type MarketData struct {
	AdapterID   uint32         `json:"adapter_id"`
	PoolAddress common.Address `json:"pool_address"`
	LpToken     common.Address `json:"lp_token"`
	TokenA      common.Address `json:"token_a"`
	TokenB      common.Address `json:"token_b"`
	ReserveA    *amount.Amount `json:"reserve_a"`
	ReserveB    *amount.Amount `json:"reserve_b"`
	PoolType    uint32         `json:"pool_type"`
	Ledger      uint32         `json:"ledger"`
}

// Canonical orders the pair and its reserves
func (s *MarketData) Canonical() *MarketData {
	m := *s
	if m.ReserveA == nil {
		m.ReserveA = amount.NewAmount(0)
	}
	if m.ReserveB == nil {
		m.ReserveB = amount.NewAmount(0)
	}
	if common.AddressLess(m.TokenB, m.TokenA) {
		m.TokenA, m.TokenB = m.TokenB, m.TokenA
		m.ReserveA, m.ReserveB = m.ReserveB, m.ReserveA
	}
	return &m
}

func (s *MarketData) Matches(tokenA, tokenB common.Address) bool {
	return (s.TokenA == tokenA && s.TokenB == tokenB) || (s.TokenA == tokenB && s.TokenB == tokenA)
}

func (s *MarketData) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Uint32(w, s.AdapterID); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.PoolAddress); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.LpToken); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.TokenA); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.TokenB); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.ReserveA); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.ReserveB); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.PoolType); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.Ledger); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *MarketData) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Uint32(r, &s.AdapterID); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.PoolAddress); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.LpToken); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.TokenA); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.TokenB); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.ReserveA); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.ReserveB); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.PoolType); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.Ledger); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

// LpPlan is one leg of a deposit, consumed by the call that carries it
type LpPlan struct {
	AdapterID  uint32         `json:"adapter_id"`
	TokenA     common.Address `json:"token_a"`
	TokenB     common.Address `json:"token_b"`
	AmountA    *amount.Amount `json:"amount_a"`
	AmountB    *amount.Amount `json:"amount_b"`
	Proportion uint32         `json:"proportion"`
}

type SwapQuote struct {
	AdapterID   uint32         `json:"adapter_id"`
	PoolAddress common.Address `json:"pool_address"`
	TokenIn     common.Address `json:"token_in"`
	TokenOut    common.Address `json:"token_out"`
	AmountIn    *amount.Amount `json:"amount_in"`
	AmountOut   *amount.Amount `json:"amount_out"`
	PoolType    uint32         `json:"pool_type"`
	LpToken     common.Address `json:"lp_token"`
}

type TokenPair struct {
	TokenA common.Address `json:"token_a"`
	TokenB common.Address `json:"token_b"`
}
