package phoenix

import (
	"io"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
)

// PoolConfig holds the fee and the slippage bounds of a pool, all in bps
type PoolConfig struct {
	SwapFeeBps            uint32
	MaxAllowedSlippageBps uint32
	MaxAllowedSpreadBps   uint32
}

func (s *PoolConfig) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Uint32(w, s.SwapFeeBps); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.MaxAllowedSlippageBps); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.MaxAllowedSpreadBps); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *PoolConfig) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Uint32(r, &s.SwapFeeBps); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.MaxAllowedSlippageBps); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.MaxAllowedSpreadBps); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

type PoolContractConstruction struct {
	Factory common.Address
	TokenA  common.Address
	TokenB  common.Address
	Config  PoolConfig
}

func (s *PoolContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Factory); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.TokenA); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.TokenB); err != nil {
		return sum, err
	}
	if sum, err := sw.WriterTo(w, &s.Config); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *PoolContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Factory); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.TokenA); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.TokenB); err != nil {
		return sum, err
	}
	if sum, err := sr.ReaderFrom(r, &s.Config); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
