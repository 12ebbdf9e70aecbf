package deployer

import (
	"io"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
)

// DeployerContractConstruction sets the class and router used when a deploy call leaves them empty
type DeployerContractConstruction struct {
	AccountClassID uint64
	Router         common.Address
}

func (s *DeployerContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Uint64(w, s.AccountClassID); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Router); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *DeployerContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Uint64(r, &s.AccountClassID); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Router); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
