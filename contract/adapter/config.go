package adapter

import (
	"io"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/core/types"
)

// instance ttl, in ledgers
const (
	DefaultTTLThreshold = 59 * types.LedgersPerDay
	DefaultTTLBump      = 60 * types.LedgersPerDay
)

// CoreConfig is written once by Initialize, only Upgrade changes it afterwards
type CoreConfig struct {
	Admin     common.Address `json:"admin"`
	Amm       common.Address `json:"amm"`
	Version   uint32         `json:"version"`
	TTLThresh uint32         `json:"ttl_thresh"`
	TTLBump   uint32         `json:"ttl_bump"`
}

func (s *CoreConfig) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Admin); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Amm); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.Version); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.TTLThresh); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.TTLBump); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *CoreConfig) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Admin); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Amm); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.Version); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.TTLThresh); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.TTLBump); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
