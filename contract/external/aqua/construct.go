package aqua

import (
	"io"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
)

// PoolKind selects the pool invariant
type PoolKind uint8

// pool kinds
const (
	ConstantProduct PoolKind = 0
	Stableswap      PoolKind = 1
)

func (k PoolKind) String() string {
	switch k {
	case ConstantProduct:
		return "constant_product"
	case Stableswap:
		return "stableswap"
	default:
		return "unknown"
	}
}

type PoolContractConstruction struct {
	Router common.Address
	Tokens []common.Address
	Kind   PoolKind
	FeeBps uint32
	Amp    uint64
}

func (s *PoolContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Router); err != nil {
		return sum, err
	}
	if sum, err := sw.Addresses(w, s.Tokens); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, uint8(s.Kind)); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.FeeBps); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.Amp); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *PoolContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Router); err != nil {
		return sum, err
	}
	if sum, err := sr.Addresses(r, &s.Tokens); err != nil {
		return sum, err
	}
	var kind uint8
	if sum, err := sr.Uint8(r, &kind); err != nil {
		return sum, err
	}
	s.Kind = PoolKind(kind)
	if sum, err := sr.Uint32(r, &s.FeeBps); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.Amp); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

type addressList struct {
	Addrs []common.Address
}

func (s *addressList) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Addresses(w, s.Addrs); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *addressList) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Addresses(r, &s.Addrs); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
