package adapter

import (
	"io"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
)

// protocol ids compiled into the adapters
const (
	ProtocolAqua     uint32 = 0
	ProtocolComet    uint32 = 1
	ProtocolPhoenix  uint32 = 2
	ProtocolSoroswap uint32 = 3
)

// Protocol names the AMM an adapter fronts, Name is the first topic of its events
type Protocol struct {
	ID   uint32
	Name string
}

var (
	Aqua     = Protocol{ID: ProtocolAqua, Name: "aqua"}
	Comet    = Protocol{ID: ProtocolComet, Name: "comet"}
	Phoenix  = Protocol{ID: ProtocolPhoenix, Name: "phoenix"}
	Soroswap = Protocol{ID: ProtocolSoroswap, Name: "soroswap"}
)

// Protocols lists every supported protocol by id
var Protocols = []Protocol{Aqua, Comet, Phoenix, Soroswap}

func ProtocolByID(id uint32) (Protocol, bool) {
	for _, p := range Protocols {
		if p.ID == id {
			return p, true
		}
	}
	return Protocol{}, false
}

// PoolInfo is the pool an adapter trades a pair on and the share token it issues
type PoolInfo struct {
	Pool    common.Address `json:"pool"`
	LpToken common.Address `json:"lp_token"`
}

func (s *PoolInfo) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Pool); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.LpToken); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *PoolInfo) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Pool); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.LpToken); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
