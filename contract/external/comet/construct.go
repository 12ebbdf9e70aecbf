package comet

import (
	"io"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
)

// PoolContractConstruction fixes the pool's tokens, denormalized weights and fee
type PoolContractConstruction struct {
	Factory    common.Address
	Controller common.Address
	Tokens     []common.Address
	Weights    []*amount.Amount
	SwapFee    *amount.Amount
}

func (s *PoolContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Factory); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Controller); err != nil {
		return sum, err
	}
	if sum, err := sw.Addresses(w, s.Tokens); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, uint32(len(s.Weights))); err != nil {
		return sum, err
	}
	for _, v := range s.Weights {
		if sum, err := sw.Amount(w, v); err != nil {
			return sum, err
		}
	}
	if sum, err := sw.Amount(w, s.SwapFee); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *PoolContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Factory); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Controller); err != nil {
		return sum, err
	}
	if sum, err := sr.Addresses(r, &s.Tokens); err != nil {
		return sum, err
	}
	Len, sum, err := sr.GetUint32(r)
	if err != nil {
		return sum, err
	}
	s.Weights = make([]*amount.Amount, Len)
	for i := uint32(0); i < Len; i++ {
		if sum, err := sr.Amount(r, &s.Weights[i]); err != nil {
			return sum, err
		}
	}
	if sum, err := sr.Amount(r, &s.SwapFee); err != nil {
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
